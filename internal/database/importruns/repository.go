package importruns

import (
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/lingohub/lingohub/internal/entities"
)

var ErrNotFound = errors.New("import run not found")

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(run *entities.ImportRun) error {
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now()
	}
	return r.db.Create(run).Error
}

func (r *Repository) GetByID(id uint) (*entities.ImportRun, error) {
	var run entities.ImportRun
	err := r.db.First(&run, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &run, nil
}

func (r *Repository) GetByJobID(jobID string) (*entities.ImportRun, error) {
	var run entities.ImportRun
	err := r.db.Where("job_id = ?", jobID).First(&run).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &run, nil
}

func (r *Repository) Save(run *entities.ImportRun) error {
	return r.db.Save(run).Error
}

// Active returns runs that have not reached a terminal state. The job
// progress endpoint serves these to polling clients.
func (r *Repository) Active() ([]entities.ImportRun, error) {
	var runs []entities.ImportRun
	err := r.db.Where("state NOT IN ?", []entities.ImportState{
		entities.ImportStateCompleted,
		entities.ImportStatePartiallyFailed,
		entities.ImportStateFailed,
	}).Find(&runs).Error
	return runs, err
}

// RecordErrors serializes per-file error messages onto the run.
func (r *Repository) RecordErrors(run *entities.ImportRun, messages []string) error {
	if len(messages) == 0 {
		return r.Save(run)
	}
	data, err := json.Marshal(messages)
	if err != nil {
		return err
	}
	run.Errors = string(data)
	return r.Save(run)
}
