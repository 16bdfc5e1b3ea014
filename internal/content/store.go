package content

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// ErrNotFound is returned when an element or upload does not exist.
var ErrNotFound = errors.New("content: not found")

// ValidationError carries field-level detail when the store rejects a save.
type ValidationError struct {
	Errors map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("content: validation failed (%d fields)", len(e.Errors))
}

// Store abstracts the content platform's persistence. Elements are
// localized content items; uploads are transient binary items created
// while an imported package is being processed.
type Store interface {
	GetElement(id int64, site string) (*Element, error)
	SaveElement(el *Element) error
	DeleteElement(id int64, site string) error

	SaveUpload(name string, data []byte) (int64, error)
	GetUpload(id int64) (*Upload, error)
	DeleteUpload(id int64) error
}

// Upload is a transient binary content item holding one uploaded
// translation file until the import pipeline consumes it.
type Upload struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:512" json:"name"`
	Data      []byte    `gorm:"type:blob" json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

func (Upload) TableName() string {
	return "uploads"
}

// elementRow is the persisted shape of an Element. The field tree is
// stored as a JSON document; the platform's schema guarantees it is
// acyclic, so depth is bounded.
type elementRow struct {
	ID        int64  `gorm:"primaryKey;autoIncrement:false"`
	Site      string `gorm:"primaryKey;size:32"`
	Title     string `gorm:"size:512"`
	Slug      string `gorm:"size:512"`
	Enabled   bool
	Fields    string `gorm:"type:text"`
	UpdatedAt time.Time
}

func (elementRow) TableName() string {
	return "elements"
}

// GormStore implements Store on top of the main gorm database.
type GormStore struct {
	db *gorm.DB

	// Block ids are assigned at save time, matching the platform
	// behaviour the translators rely on.
	nextBlockID int64
}

// NewGormStore migrates the content tables and returns a store.
func NewGormStore(db *gorm.DB) (*GormStore, error) {
	if err := db.AutoMigrate(&elementRow{}, &Upload{}); err != nil {
		return nil, fmt.Errorf("failed to migrate content tables: %w", err)
	}
	return &GormStore{db: db, nextBlockID: time.Now().UnixMilli()}, nil
}

func (s *GormStore) GetElement(id int64, site string) (*Element, error) {
	var row elementRow
	err := s.db.Where("id = ? AND site = ?", id, site).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	el := &Element{
		ID:      row.ID,
		Site:    row.Site,
		Title:   row.Title,
		Slug:    row.Slug,
		Enabled: row.Enabled,
	}
	if row.Fields != "" {
		if err := json.Unmarshal([]byte(row.Fields), &el.Fields); err != nil {
			return nil, fmt.Errorf("failed to decode element %d fields: %w", id, err)
		}
	}
	return el, nil
}

func (s *GormStore) SaveElement(el *Element) error {
	if errs := validateElement(el); len(errs) > 0 {
		return &ValidationError{Errors: errs}
	}

	s.assignBlockIDs(el.Fields)

	data, err := json.Marshal(el.Fields)
	if err != nil {
		return fmt.Errorf("failed to encode element %d fields: %w", el.ID, err)
	}

	row := elementRow{
		ID:      el.ID,
		Site:    el.Site,
		Title:   el.Title,
		Slug:    el.Slug,
		Enabled: el.Enabled,
		Fields:  string(data),
	}
	return s.db.Save(&row).Error
}

func (s *GormStore) DeleteElement(id int64, site string) error {
	return s.db.Where("id = ? AND site = ?", id, site).Delete(&elementRow{}).Error
}

func (s *GormStore) SaveUpload(name string, data []byte) (int64, error) {
	upload := &Upload{Name: name, Data: data}
	if err := s.db.Create(upload).Error; err != nil {
		return 0, err
	}
	return upload.ID, nil
}

func (s *GormStore) GetUpload(id int64) (*Upload, error) {
	var upload Upload
	err := s.db.First(&upload, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &upload, nil
}

func (s *GormStore) DeleteUpload(id int64) error {
	return s.db.Delete(&Upload{}, id).Error
}

// assignBlockIDs gives persisted identities to blocks saved for the
// first time, recursing into nested block fields.
func (s *GormStore) assignBlockIDs(fields []Field) {
	for i := range fields {
		for j := range fields[i].Blocks {
			if fields[i].Blocks[j].ID == 0 {
				s.nextBlockID++
				fields[i].Blocks[j].ID = s.nextBlockID
			}
			s.assignBlockIDs(fields[i].Blocks[j].Fields)
		}
	}
}

func validateElement(el *Element) map[string]string {
	errs := map[string]string{}
	if el.ID == 0 {
		errs["id"] = "Id cannot be blank."
	}
	if el.Site == "" {
		errs["site"] = "Site cannot be blank."
	}
	if el.Title == "" {
		errs["title"] = "Title cannot be blank."
	}
	return errs
}
