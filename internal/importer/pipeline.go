package importer

import (
	"archive/zip"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/lingohub/lingohub/internal/content"
	"github.com/lingohub/lingohub/internal/database/files"
	"github.com/lingohub/lingohub/internal/database/importruns"
	"github.com/lingohub/lingohub/internal/database/orders"
	"github.com/lingohub/lingohub/internal/entities"
	"github.com/lingohub/lingohub/internal/fileformat"
	"github.com/lingohub/lingohub/internal/translator"
)

// Job is the payload handed to the asynchronous worker. Everything is
// passed by value; the worker shares no in-memory state with the request
// that enqueued it.
type Job struct {
	Description string  `json:"description"`
	RunID       uint    `json:"run_id"`
	OrderID     uint    `json:"order_id"`
	TotalFiles  int     `json:"total_files"`
	UploadIDs   []int64 `json:"upload_ids"`
	FileFormat  string  `json:"file_format"`
}

// Dispatcher enqueues an import job on the worker queue.
type Dispatcher interface {
	EnqueueImport(job Job) (jobID string, err error)
}

// Result is the caller-visible outcome of an import request.
type Result struct {
	RunID   uint     `json:"run_id"`
	State   string   `json:"state"`
	Queued  bool     `json:"queued"`
	JobID   string   `json:"job_id,omitempty"`
	Message string   `json:"message"`
	Errors  []string `json:"errors,omitempty"`
}

// Pipeline validates an uploaded translation package, persists its
// contents as transient content items and dispatches processing either
// synchronously or to the worker queue based on projected word count.
type Pipeline struct {
	store      content.Store
	orders     *orders.Repository
	files      *files.Repository
	runs       *importruns.Repository
	translator *translator.ElementTranslator
	dispatcher Dispatcher
	threshold  int
}

func NewPipeline(
	store content.Store,
	orderRepo *orders.Repository,
	fileRepo *files.Repository,
	runRepo *importruns.Repository,
	et *translator.ElementTranslator,
	dispatcher Dispatcher,
	threshold int,
) *Pipeline {
	return &Pipeline{
		store:      store,
		orders:     orderRepo,
		files:      fileRepo,
		runs:       runRepo,
		translator: et,
		dispatcher: dispatcher,
		threshold:  threshold,
	}
}

var allowedExtensions = map[string]bool{
	"zip":  true,
	"xml":  true,
	"json": true,
	"csv":  true,
}

// ImportPackage runs the full pipeline for one uploaded package.
func (p *Pipeline) ImportPackage(orderID uint, filename string, data []byte) (*Result, error) {
	if len(data) == 0 {
		return nil, &ValidationError{Message: "The file you are trying to import is empty."}
	}

	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
	if !allowedExtensions[ext] {
		return nil, &ValidationError{Message: "Invalid extension: only ZIP, XML, JSON and CSV files are supported."}
	}

	order, err := p.orders.GetByID(orderID)
	if err != nil {
		return nil, &ValidationError{Message: "Order not found."}
	}

	run := &entities.ImportRun{OrderID: order.ID, State: entities.ImportStateValidated}
	if err := p.runs.Create(run); err != nil {
		return nil, err
	}

	var uploadIDs []int64
	var totalWordCount int
	fileFormat := ext

	if ext == "zip" {
		uploadIDs, fileFormat, err = p.extractPackage(order.ID, filename, data)
		if err != nil {
			run.State = entities.ImportStateFailed
			p.finishRun(run, nil)
			return nil, err
		}
		run.State = entities.ImportStateExtracted
		// Orders precompute their word count; a package covers every
		// requested target site.
		totalWordCount = order.WordCount * len(order.TargetSitesArray())
	} else {
		name := normalizeName(filepath.Base(filename))
		id, err := p.store.SaveUpload(name, data)
		if err != nil {
			run.State = entities.ImportStateFailed
			p.finishRun(run, nil)
			return nil, fmt.Errorf("failed to save upload: %w", err)
		}
		uploadIDs = []int64{id}
		totalWordCount = p.uploadedWordCount(data, fileformat.Format(ext))
	}

	run.State = entities.ImportStateConverting
	run.TotalFiles = len(uploadIDs)
	if err := p.runs.Save(run); err != nil {
		return nil, err
	}

	// Deployments without a worker queue process every batch in-request.
	if totalWordCount > p.threshold && p.dispatcher != nil {
		return p.dispatchAsync(run, order, uploadIDs, fileFormat)
	}
	return p.processSync(run, order, uploadIDs, fileFormat)
}

// extractPackage opens the zip, discards macOS metadata entries and
// persists every remaining file as a transient upload item. The archive
// and its extraction directory are removed on every exit path.
func (p *Pipeline) extractPackage(orderID uint, filename string, data []byte) (ids []int64, format string, err error) {
	dir, err := os.MkdirTemp("", fmt.Sprintf("import-%d-*", orderID))
	if err != nil {
		return nil, "", &ExtractionError{Err: err}
	}
	defer os.RemoveAll(dir)

	archivePath := filepath.Join(dir, filepath.Base(filename))
	if err := os.WriteFile(archivePath, data, 0o600); err != nil {
		return nil, "", &ExtractionError{Err: err}
	}

	reader, err := zip.OpenReader(archivePath)
	if err != nil {
		return nil, "", &ExtractionError{Err: err}
	}
	defer reader.Close()

	for _, entry := range reader.File {
		if entry.FileInfo().IsDir() {
			continue
		}
		if strings.Contains(entry.Name, "__MACOSX") {
			continue
		}

		name := normalizeName(filepath.Base(entry.Name))
		if format == "" {
			format = strings.TrimPrefix(strings.ToLower(filepath.Ext(name)), ".")
		}

		// Extract under a conflict-free name before persisting.
		extractedPath := filepath.Join(dir, uuid.NewString())
		if err := extractEntry(entry, extractedPath); err != nil {
			return nil, "", &ExtractionError{Err: err}
		}

		blob, err := os.ReadFile(extractedPath)
		if err != nil {
			return nil, "", &ExtractionError{Err: err}
		}

		id, err := p.store.SaveUpload(name, blob)
		if err != nil {
			return nil, "", fmt.Errorf("failed to save extracted file %s: %w", name, err)
		}
		ids = append(ids, id)
	}

	if len(ids) == 0 {
		return nil, "", &ExtractionError{Err: fmt.Errorf("archive %s contains no usable files", filename)}
	}
	return ids, format, nil
}

func extractEntry(entry *zip.File, dest string) error {
	src, err := entry.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, src)
	return err
}

func (p *Pipeline) dispatchAsync(run *entities.ImportRun, order *entities.Order, uploadIDs []int64, format string) (*Result, error) {
	job := Job{
		Description: "Importing translation files",
		RunID:       run.ID,
		OrderID:     order.ID,
		TotalFiles:  len(uploadIDs),
		UploadIDs:   uploadIDs,
		FileFormat:  format,
	}

	jobID, err := p.dispatcher.EnqueueImport(job)
	if err != nil {
		run.State = entities.ImportStateFailed
		p.finishRun(run, []string{err.Error()})
		return nil, fmt.Errorf("failed to enqueue import: %w", err)
	}

	run.State = entities.ImportStateDispatchedAsync
	run.JobID = jobID
	if err := p.runs.Save(run); err != nil {
		return nil, err
	}

	return &Result{
		RunID:   run.ID,
		State:   string(run.State),
		Queued:  true,
		JobID:   jobID,
		Message: "File queued for import. Check the activity log for any errors.",
	}, nil
}

func (p *Pipeline) processSync(run *entities.ImportRun, order *entities.Order, uploadIDs []int64, format string) (*Result, error) {
	run.State = entities.ImportStateDispatchedSync
	if err := p.runs.Save(run); err != nil {
		return nil, err
	}

	errs := p.ProcessBatch(run.ID, order.ID, uploadIDs, format)

	updated, err := p.runs.GetByID(run.ID)
	if err != nil {
		return nil, err
	}

	message := "File uploaded successfully."
	if len(errs) > 0 {
		message = "File import error. Please check the order activity log for details."
	}

	return &Result{
		RunID:   updated.ID,
		State:   string(updated.State),
		Message: message,
		Errors:  errs,
	}, nil
}

// ProcessBatch processes every upload in the batch, aggregating failures
// instead of failing fast. It is the shared entry point for the
// synchronous path and the worker queue, and is safe to resume: an
// upload that no longer exists counts as already processed.
func (p *Pipeline) ProcessBatch(runID, orderID uint, uploadIDs []int64, format string) []string {
	run, err := p.runs.GetByID(runID)
	if err != nil {
		log.Printf("[IMPORT] run %d not found: %v", runID, err)
		return []string{err.Error()}
	}

	order, err := p.orders.GetByID(orderID)
	if err != nil {
		run.State = entities.ImportStateFailed
		p.finishRun(run, []string{err.Error()})
		return []string{err.Error()}
	}

	var messages []string
	succeeded := 0
	failed := 0

	for i, id := range uploadIDs {
		if err := p.processUpload(order, id, fileformat.Format(format)); err != nil {
			failed++
			messages = append(messages, err.Error())
			log.Printf("[IMPORT] order %d upload %d: %v", orderID, id, err)
		} else {
			succeeded++
		}

		run.Succeeded = succeeded
		run.Failed = failed
		run.Progress = (i + 1) * 100 / len(uploadIDs)
		if err := p.runs.Save(run); err != nil {
			log.Printf("[IMPORT] failed to update run %d: %v", runID, err)
		}
	}

	switch {
	case failed == 0:
		run.State = entities.ImportStateCompleted
	case succeeded == 0:
		run.State = entities.ImportStateFailed
	default:
		run.State = entities.ImportStatePartiallyFailed
	}
	p.finishRun(run, messages)

	return messages
}

func (p *Pipeline) finishRun(run *entities.ImportRun, messages []string) {
	now := nowFunc()
	run.CompletedAt = &now
	run.Progress = 100
	if err := p.runs.RecordErrors(run, messages); err != nil {
		log.Printf("[IMPORT] failed to finalize run %d: %v", run.ID, err)
	}
}

// uploadedWordCount counts the words a single uploaded file contributes.
func (p *Pipeline) uploadedWordCount(data []byte, format fileformat.Format) int {
	flat, err := fileformat.Decode(data, format)
	if err != nil {
		return 0
	}
	count := 0
	for _, text := range flat {
		count += len(strings.Fields(text))
	}
	return count
}

// normalizeName sanitizes an uploaded file name the way asset names are
// prepared: spaces collapsed to underscores, path separators dropped.
func normalizeName(name string) string {
	name = strings.TrimSpace(name)
	name = strings.ReplaceAll(name, " ", "_")
	name = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':':
			return '-'
		default:
			return r
		}
	}, name)
	return name
}
