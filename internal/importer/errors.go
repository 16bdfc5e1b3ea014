package importer

import "fmt"

// ValidationError covers structural preconditions: bad extension, empty
// upload, missing order. No partial work happens after one of these.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// ExtractionError means the archive would not open or extract. The whole
// import aborts and no content items are created.
type ExtractionError struct {
	Err error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("failed to extract archive: %v", e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// ConversionError is a per-item decode failure. It is recorded but does
// not abort sibling items.
type ConversionError struct {
	Name string
	Err  error
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("failed to convert %s: %v", e.Name, e.Err)
}

func (e *ConversionError) Unwrap() error {
	return e.Err
}

// PersistenceError means the content store rejected a save. Only the
// offending item aborts; field-level detail is retained for the log.
type PersistenceError struct {
	Name   string
	Fields map[string]string
	Err    error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("failed to save %s: %v", e.Name, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
