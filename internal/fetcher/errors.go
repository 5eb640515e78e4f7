package fetcher

import (
	"fmt"
	"time"

	"github.com/rohmanhakim/wikicurious/internal/metadata"
	"github.com/rohmanhakim/wikicurious/pkg/failure"
)

type FetchErrorCause string

const (
	ErrCauseNetworkFailure        FetchErrorCause = "network issues"
	ErrCauseRequestBuild          FetchErrorCause = "failed to build request"
	ErrCauseReadResponseBodyError FetchErrorCause = "failed to read response body"
	ErrCauseContentInvalid        FetchErrorCause = "invalid JSON body"
	ErrCauseRequestTooMany        FetchErrorCause = "too many requests"
	ErrCauseUpstreamOverload      FetchErrorCause = "maxlag exceeded"
	ErrCauseNotFound              FetchErrorCause = "not found"
	ErrCauseRequest5xx            FetchErrorCause = "5xx"
	ErrCauseUnexpectedStatus      FetchErrorCause = "unexpected status"
	ErrCauseCancelled             FetchErrorCause = "cancelled"
)

type FetchError struct {
	Message    string
	Retryable  bool
	Cause      FetchErrorCause
	StatusCode int
	// Wait is the delay the upstream asked for before the next attempt.
	// It only applies when HasWait is set, so a zero Wait can mean retry now.
	Wait    time.Duration
	HasWait bool
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetcher error: %s: %s", e.Cause, e.Message)
}

func (e *FetchError) Severity() failure.Severity {
	if e.Retryable {
		return failure.SeverityRecoverable
	}
	return failure.SeverityFatal
}

// IsRetryable returns whether this error is retryable
func (e *FetchError) IsRetryable() bool {
	return e.Retryable
}

// RetryAfter reports the upstream-dictated wait, if any.
func (e *FetchError) RetryAfter() (time.Duration, bool) {
	return e.Wait, e.HasWait
}

// mapFetchErrorToMetadataCause maps fetcher-local error semantics
// to the canonical metadata.ErrorCause table.
//
// This mapping is observational only and MUST NOT be used
// to derive control-flow decisions.
func mapFetchErrorToMetadataCause(err *FetchError) metadata.ErrorCause {
	switch err.Cause {
	case ErrCauseNetworkFailure, ErrCauseRequest5xx, ErrCauseUnexpectedStatus, ErrCauseReadResponseBodyError:
		return metadata.CauseNetworkFailure
	case ErrCauseRequestTooMany:
		return metadata.CauseRateLimited
	case ErrCauseUpstreamOverload:
		return metadata.CauseUpstreamOverload
	case ErrCauseNotFound:
		return metadata.CauseNotFound
	case ErrCauseContentInvalid:
		return metadata.CauseContentInvalid
	case ErrCauseCancelled:
		return metadata.CauseCancelled
	default:
		return metadata.CauseUnknown
	}
}
