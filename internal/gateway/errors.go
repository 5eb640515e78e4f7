package gateway

import (
	"fmt"
	"net/http"

	"github.com/rohmanhakim/wikicurious/internal/metadata"
	"github.com/rohmanhakim/wikicurious/pkg/failure"
)

type GatewayErrorCause string

// These three causes are the only upstream failure classes that reach
// views and HTTP clients.
const (
	ErrCauseInvalidRequest      GatewayErrorCause = "invalid request"
	ErrCauseNotFound            GatewayErrorCause = "not found"
	ErrCauseUpstreamUnavailable GatewayErrorCause = "upstream unavailable"
)

// Public error messages written to HTTP clients.
const (
	MessageInvalidAction  = "Invalid action"
	MessageInvalidRequest = "Invalid request"
	MessageNotFound       = "Article not found"
	MessageUpstreamFailed = "Failed to fetch from Wikipedia"
)

type GatewayError struct {
	Message   string
	Details   string
	Retryable bool
	Cause     GatewayErrorCause
}

func (e *GatewayError) Error() string {
	if e.Details == "" {
		return fmt.Sprintf("gateway error: %s: %s", e.Cause, e.Message)
	}
	return fmt.Sprintf("gateway error: %s: %s: %s", e.Cause, e.Message, e.Details)
}

func (e *GatewayError) Severity() failure.Severity {
	if e.Retryable {
		return failure.SeverityRecoverable
	}
	return failure.SeverityFatal
}

func (e *GatewayError) IsRetryable() bool {
	return e.Retryable
}

// StatusCode is the HTTP status the gateway route answers with.
func (e *GatewayError) StatusCode() int {
	switch e.Cause {
	case ErrCauseInvalidRequest:
		return http.StatusBadRequest
	case ErrCauseNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func NewInvalidActionError() *GatewayError {
	return &GatewayError{
		Message: MessageInvalidAction,
		Cause:   ErrCauseInvalidRequest,
	}
}

func NewInvalidRequestError(details string) *GatewayError {
	return &GatewayError{
		Message: MessageInvalidRequest,
		Details: details,
		Cause:   ErrCauseInvalidRequest,
	}
}

func NewNotFoundError(details string) *GatewayError {
	return &GatewayError{
		Message: MessageNotFound,
		Details: details,
		Cause:   ErrCauseNotFound,
	}
}

func NewUpstreamUnavailableError(details string) *GatewayError {
	return &GatewayError{
		Message:   MessageUpstreamFailed,
		Details:   details,
		Retryable: true,
		Cause:     ErrCauseUpstreamUnavailable,
	}
}

// mapGatewayErrorToMetadataCause maps gateway-local error semantics
// to the canonical metadata.ErrorCause table.
//
// This mapping is observational only and MUST NOT be used
// to derive control-flow decisions.
func mapGatewayErrorToMetadataCause(err *GatewayError) metadata.ErrorCause {
	switch err.Cause {
	case ErrCauseInvalidRequest:
		return metadata.CauseInvalidRequest
	case ErrCauseNotFound:
		return metadata.CauseNotFound
	case ErrCauseUpstreamUnavailable:
		return metadata.CauseNetworkFailure
	default:
		return metadata.CauseUnknown
	}
}
