package entities

import (
	"encoding/json"
	"time"

	"gorm.io/gorm"
)

type FileStatus string

const (
	FileStatusNew         FileStatus = "new"
	FileStatusModified    FileStatus = "modified"
	FileStatusPreview     FileStatus = "preview"
	FileStatusInProgress  FileStatus = "in progress"
	FileStatusReviewReady FileStatus = "ready for review"
	FileStatusComplete    FileStatus = "complete"
	FileStatusCanceled    FileStatus = "canceled"
	FileStatusPublished   FileStatus = "published"
	FileStatusFailed      FileStatus = "failed"
)

// File is one source/target translation unit pairing tracked through a
// status lifecycle. Source is frozen once the file enters translation;
// Target is written once per delivery/import cycle. Files are never
// physically deleted, only soft-marked via DateDeleted.
type File struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	OrderID    uint       `gorm:"index" json:"order_id"`
	ElementID  int64      `gorm:"index" json:"element_id"`
	SourceSite string     `gorm:"size:32" json:"source_site"`
	TargetSite string     `gorm:"size:32" json:"target_site"`
	Status     FileStatus `gorm:"size:20;default:'new'" json:"status"`
	WordCount  int        `json:"word_count"`
	Source     []byte     `gorm:"type:blob" json:"-"`
	Target     []byte     `gorm:"type:blob" json:"-"`

	// Reference snapshots the source key set at export time so that
	// misalignment with the live element can be detected later.
	Reference string `gorm:"type:text" json:"-"`

	DateUpdated   time.Time  `json:"date_updated"`
	DateDelivered *time.Time `json:"date_delivered,omitempty"`
	DateDeleted   *time.Time `gorm:"index" json:"date_deleted,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (File) TableName() string {
	return "translation_files"
}

func (f *File) StatusLabel() string {
	switch f.Status {
	case FileStatusModified:
		return "Modified"
	case FileStatusPreview, FileStatusInProgress:
		return "In progress"
	case FileStatusReviewReady:
		return "Ready for review"
	case FileStatusComplete:
		return "Ready to apply"
	case FileStatusCanceled:
		return "Canceled"
	case FileStatusPublished:
		return "Applied"
	case FileStatusFailed:
		return "Failed"
	default:
		return "New"
	}
}

func (f *File) IsNew() bool         { return f.Status == FileStatusNew }
func (f *File) IsCanceled() bool    { return f.Status == FileStatusCanceled }
func (f *File) IsComplete() bool    { return f.Status == FileStatusComplete }
func (f *File) IsInProgress() bool  { return f.Status == FileStatusInProgress }
func (f *File) IsReviewReady() bool { return f.Status == FileStatusReviewReady }
func (f *File) IsPublished() bool   { return f.Status == FileStatusPublished }

// HasDiffableStatus reports whether a source/target diff may be offered.
func (f *File) HasDiffableStatus() bool {
	return f.IsComplete() || f.IsPublished() || f.IsReviewReady()
}

// Order aggregates the Files of one translation request across one or
// more target sites. WordCount is precomputed when the order is placed.
type Order struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Title       string `gorm:"size:512" json:"title"`
	SourceSite  string `gorm:"size:32" json:"source_site"`
	TargetSites string `gorm:"type:text" json:"-"`
	WordCount   int    `json:"word_count"`
	Files       []File `gorm:"foreignKey:OrderID" json:"files,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Order) TableName() string {
	return "translation_orders"
}

// TargetSitesArray decodes the stored JSON list of target sites.
func (o *Order) TargetSitesArray() []string {
	if o.TargetSites == "" {
		return nil
	}
	var sites []string
	if err := json.Unmarshal([]byte(o.TargetSites), &sites); err != nil {
		return nil
	}
	return sites
}

// SetTargetSites encodes the target site list for storage.
func (o *Order) SetTargetSites(sites []string) {
	data, err := json.Marshal(sites)
	if err != nil {
		return
	}
	o.TargetSites = string(data)
}
