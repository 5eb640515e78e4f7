package kv

import (
	"fmt"

	"github.com/rohmanhakim/wikicurious/internal/metadata"
	"github.com/rohmanhakim/wikicurious/pkg/failure"
)

type StoreErrorCause string

const (
	ErrCauseOpenFailure    StoreErrorCause = "open failed"
	ErrCauseReadFailure    StoreErrorCause = "read failed"
	ErrCauseWriteFailure   StoreErrorCause = "write failed"
	ErrCauseCorruptStore   StoreErrorCause = "store content is corrupt"
	ErrCauseUnknownBackend StoreErrorCause = "unknown backend"
)

type StoreError struct {
	Message   string
	Retryable bool
	Cause     StoreErrorCause
	Backend   Backend
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store error (%s): %s: %s", e.Backend, e.Cause, e.Message)
}

func (e *StoreError) Severity() failure.Severity {
	if e.Retryable {
		return failure.SeverityRecoverable
	}
	return failure.SeverityFatal
}

func (e *StoreError) IsRetryable() bool {
	return e.Retryable
}

// MetadataCause maps store-local error semantics to the canonical
// metadata.ErrorCause table. Observational only.
func MetadataCause(err *StoreError) metadata.ErrorCause {
	switch err.Cause {
	case ErrCauseOpenFailure, ErrCauseReadFailure, ErrCauseWriteFailure, ErrCauseCorruptStore:
		return metadata.CauseStorageFailure
	case ErrCauseUnknownBackend:
		return metadata.CauseInvalidRequest
	default:
		return metadata.CauseUnknown
	}
}
