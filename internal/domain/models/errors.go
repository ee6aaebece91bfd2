package models

import (
	"fmt"
)

const (
	StageInput      = "input"
	StageExtraction = "extraction"
	StageExport     = "export"
)

// ExtractionError reports a document whose text could not be extracted.
type ExtractionError struct {
	Document string
	Err      error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extract text from %q: %v", e.Document, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// InvalidInputError reports an empty keyword or document list.
type InvalidInputError struct {
	Reason string
}

func (e *InvalidInputError) Error() string {
	return "invalid input: " + e.Reason
}

// BatchError wraps the first failure of a batch. No partial result accompanies it.
type BatchError struct {
	Stage string
	Cause error
}

func (e *BatchError) Error() string {
	return fmt.Sprintf("batch failed at %s stage: %v", e.Stage, e.Cause)
}

func (e *BatchError) Unwrap() error {
	return e.Cause
}
