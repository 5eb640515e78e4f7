package failure

import "errors"

type Severity int

// SeverityFatal stops the current operation; SeverityRecoverable lets the
// caller retry or degrade.
const (
	SeverityFatal Severity = iota
	SeverityRecoverable
)

type ClassifiedError interface {
	error
	Severity() Severity
}

// Retryable is implemented by classified errors that know whether another
// attempt could succeed.
type Retryable interface {
	IsRetryable() bool
}

// IsRetryable reports whether err, or any error it wraps, asks to be retried.
// Errors that do not implement Retryable fall back to their severity.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	var r Retryable
	if errors.As(err, &r) {
		return r.IsRetryable()
	}
	var c ClassifiedError
	if errors.As(err, &c) {
		return c.Severity() == SeverityRecoverable
	}
	return false
}
