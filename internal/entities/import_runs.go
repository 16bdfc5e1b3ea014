package entities

import (
	"time"
)

type ImportState string

const (
	ImportStateReceived        ImportState = "received"
	ImportStateValidated       ImportState = "validated"
	ImportStateExtracted       ImportState = "extracted"
	ImportStateConverting      ImportState = "converting"
	ImportStateDispatchedSync  ImportState = "dispatched_sync"
	ImportStateDispatchedAsync ImportState = "dispatched_async"
	ImportStateCompleted       ImportState = "completed"
	ImportStatePartiallyFailed ImportState = "partially_failed"
	ImportStateFailed          ImportState = "failed"
)

// ImportRun records one import of a translation package against an
// order. It replaces ambient session state: the queued job id, progress
// and per-file errors all live here and are polled by clients.
type ImportRun struct {
	ID         uint        `gorm:"primaryKey" json:"id"`
	OrderID    uint        `gorm:"index" json:"order_id"`
	JobID      string      `gorm:"index;size:64" json:"job_id,omitempty"`
	State      ImportState `gorm:"size:20;default:'received'" json:"state"`
	TotalFiles int         `json:"total_files"`
	Succeeded  int         `json:"succeeded"`
	Failed     int         `json:"failed"`
	Progress   int         `json:"progress"` // 0-100
	Errors     string      `gorm:"type:text" json:"errors,omitempty"` // JSON array of messages

	StartedAt   time.Time  `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

func (ImportRun) TableName() string {
	return "import_runs"
}

// Terminal reports whether the run reached a final state.
func (r *ImportRun) Terminal() bool {
	switch r.State {
	case ImportStateCompleted, ImportStatePartiallyFailed, ImportStateFailed:
		return true
	default:
		return false
	}
}
