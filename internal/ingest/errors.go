package ingest

import (
	"errors"
	"fmt"
)

// ErrIngestionFailed matches any *Error via errors.Is.
var ErrIngestionFailed = errors.New("ingestion failed")

// Stage names the step of an ingestion run.
type Stage string

const (
	StageCount  Stage = "count"
	StageToken  Stage = "token"
	StageBatch  Stage = "batch"
	StageSingle Stage = "single"
	StageSave   Stage = "save"
	StageDone   Stage = "done"
)

// Error reports the stage at which an ingestion run was aborted.
// Nothing is persisted when a run returns an Error.
type Error struct {
	Stage Stage
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("ingestion failed during %s: %v", e.Stage, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrIngestionFailed) true for every *Error.
func (e *Error) Is(target error) bool {
	return target == ErrIngestionFailed
}
