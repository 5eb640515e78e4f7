package explore

import (
	"errors"
	"fmt"

	"github.com/rohmanhakim/wikicurious/internal/gateway"
	"github.com/rohmanhakim/wikicurious/pkg/failure"
)

type ViewErrorCause string

const (
	ErrCauseNotFound    ViewErrorCause = "not found"
	ErrCauseFetchFailed ViewErrorCause = "fetch failed"
	ErrCauseInvalid     ViewErrorCause = "invalid input"
)

// Messages shown to the reader.
const (
	MsgArticleNotFound    = "Article not found"
	MsgArticleFetchFailed = "Failed to fetch article. Please try again."
	MsgNoResults          = "No results found"
	MsgSearchFetchFailed  = "Failed to fetch content. Please try again."
	MsgEmptyQuery         = "Enter something to search for"
)

// ViewError is what a page shows instead of its content.
type ViewError struct {
	Message string
	Cause   ViewErrorCause
	Err     error
}

func (e *ViewError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ViewError) Unwrap() error {
	return e.Err
}

func (e *ViewError) Severity() failure.Severity {
	if e.Cause == ErrCauseFetchFailed {
		return failure.SeverityRecoverable
	}
	return failure.SeverityFatal
}

func (e *ViewError) IsRetryable() bool {
	return e.Cause == ErrCauseFetchFailed
}

func isNotFound(err error) bool {
	var gwErr *gateway.GatewayError
	return errors.As(err, &gwErr) && gwErr.Cause == gateway.ErrCauseNotFound
}
