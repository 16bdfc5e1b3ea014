package files

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/lingohub/lingohub/internal/entities"
)

var ErrNotFound = errors.New("file not found")

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(file *entities.File) error {
	file.DateUpdated = time.Now()
	return r.db.Create(file).Error
}

func (r *Repository) GetByID(id uint) (*entities.File, error) {
	var file entities.File
	err := r.db.First(&file, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &file, nil
}

// GetByOrderID returns the order's files, excluding soft-deleted rows.
func (r *Repository) GetByOrderID(orderID uint) ([]entities.File, error) {
	var files []entities.File
	err := r.db.Where("order_id = ? AND date_deleted IS NULL", orderID).
		Order("id").
		Find(&files).Error
	return files, err
}

// FindByElement locates the file row matching an imported package entry.
func (r *Repository) FindByElement(orderID uint, elementID int64, targetSite string) (*entities.File, error) {
	var file entities.File
	err := r.db.Where(
		"order_id = ? AND element_id = ? AND target_site = ? AND date_deleted IS NULL",
		orderID, elementID, targetSite,
	).First(&file).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &file, nil
}

func (r *Repository) Save(file *entities.File) error {
	file.DateUpdated = time.Now()
	return r.db.Save(file).Error
}

// MarkDelivered records a delivered target blob and moves the file to
// the complete status.
func (r *Repository) MarkDelivered(file *entities.File, target []byte) error {
	now := time.Now()
	file.Target = target
	file.Status = entities.FileStatusComplete
	file.DateDelivered = &now
	return r.Save(file)
}

func (r *Repository) MarkFailed(file *entities.File) error {
	file.Status = entities.FileStatusFailed
	return r.Save(file)
}

// SoftDelete marks the file deleted without removing the row. Rows are
// never physically deleted; history stays queryable by id.
func (r *Repository) SoftDelete(file *entities.File) error {
	now := time.Now()
	file.DateDeleted = &now
	return r.Save(file)
}
