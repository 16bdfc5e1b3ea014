package tasks

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"

	"github.com/lingohub/lingohub/internal/importer"
)

// ImportFilesTask processes one dispatched import batch. The payload
// carries everything by value; the worker reaches shared state only
// through the content store and the database.
type ImportFilesTask struct {
	Description string  `json:"description"`
	RunID       uint    `json:"run_id"`
	OrderID     uint    `json:"order_id"`
	TotalFiles  int     `json:"total_files"`
	UploadIDs   []int64 `json:"upload_ids"`
	FileFormat  string  `json:"file_format"`
}

// queueTuning is the retry/timeout/retention tuning applied to the
// import queue. NewImportFilesQueue overrides it from the task
// configuration once at startup, before any worker runs.
var queueTuning = Config{
	MaxRetries:        3,
	RetryDelay:        30 * time.Second,
	TaskTimeout:       15 * time.Minute,
	RetentionDuration: 24 * time.Hour,
}

// Config returns the queue configuration for import batches.
func (t ImportFilesTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "import_files",
		MaxAttempts: queueTuning.MaxRetries,
		Backoff:     queueTuning.RetryDelay,
		Timeout:     queueTuning.TaskTimeout,
		Retention: &backlite.Retention{
			Duration:   queueTuning.RetentionDuration,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// ImportFilesProcessor creates the processor for import batches. Each
// upload is all-or-nothing and already-consumed uploads are skipped, so
// a retried task resumes where the previous attempt stopped.
func ImportFilesProcessor(pipeline *importer.Pipeline) backlite.QueueProcessor[ImportFilesTask] {
	return func(ctx context.Context, task ImportFilesTask) error {
		if pipeline == nil {
			return fmt.Errorf("import pipeline not configured")
		}

		errs := pipeline.ProcessBatch(task.RunID, task.OrderID, task.UploadIDs, task.FileFormat)
		if len(errs) > 0 {
			log.Printf("[QUEUE] Import batch for order %d finished with %d failed of %d files",
				task.OrderID, len(errs), task.TotalFiles)
		} else {
			log.Printf("[QUEUE] Import batch for order %d finished: %d files", task.OrderID, task.TotalFiles)
		}

		// Per-file failures are recorded on the run; the task itself
		// succeeds so backlite does not re-run completed work.
		return nil
	}
}

// NewImportFilesQueue creates the backlite queue for import batches,
// applying the configured retry, timeout and retention tuning. Zero
// values keep the defaults.
func NewImportFilesQueue(pipeline *importer.Pipeline, cfg Config) backlite.Queue {
	if cfg.MaxRetries > 0 {
		queueTuning.MaxRetries = cfg.MaxRetries
	}
	if cfg.RetryDelay > 0 {
		queueTuning.RetryDelay = cfg.RetryDelay
	}
	if cfg.TaskTimeout > 0 {
		queueTuning.TaskTimeout = cfg.TaskTimeout
	}
	if cfg.RetentionDuration > 0 {
		queueTuning.RetentionDuration = cfg.RetentionDuration
	}
	return backlite.NewQueue(ImportFilesProcessor(pipeline))
}

// Dispatcher implements importer.Dispatcher on top of the queue client.
type Dispatcher struct {
	client *Client
}

func NewDispatcher(client *Client) *Dispatcher {
	return &Dispatcher{client: client}
}

func (d *Dispatcher) EnqueueImport(job importer.Job) (string, error) {
	ids, err := d.client.Add(ImportFilesTask{
		Description: job.Description,
		RunID:       job.RunID,
		OrderID:     job.OrderID,
		TotalFiles:  job.TotalFiles,
		UploadIDs:   job.UploadIDs,
		FileFormat:  job.FileFormat,
	}).Save()
	if err != nil {
		return "", err
	}
	if len(ids) == 0 {
		return "", fmt.Errorf("no task id returned")
	}
	return ids[0], nil
}
