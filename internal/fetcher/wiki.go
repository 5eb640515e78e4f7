package fetcher

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rohmanhakim/wikicurious/internal/metadata"
	"github.com/rohmanhakim/wikicurious/pkg/failure"
	"github.com/rohmanhakim/wikicurious/pkg/limiter"
	"github.com/rohmanhakim/wikicurious/pkg/retry"
	"github.com/rohmanhakim/wikicurious/pkg/timeutil"
)

/*
Responsibilities

- Perform HTTP requests against the encyclopedia APIs
- Pass the shared rate limiter before every attempt, retries included
- Apply identification headers and timeouts
- Classify responses into retryable and terminal failures

Fetch Semantics

- Only 2xx responses carrying valid JSON are returned
- 429 waits for Retry-After before the next attempt
- 503 with a maxlag error body waits a fixed overload delay
- 404 is terminal
- Every other failure backs off exponentially
- Every attempt is recorded with metadata

The fetcher never interprets content; it only returns bytes and metadata.
*/

const (
	DefaultRetryAfter   = 5 * time.Second
	DefaultOverloadWait = 5 * time.Second
)

type WikiFetcher struct {
	metadataSink      metadata.MetadataSink
	httpClient        *http.Client
	limiter           limiter.RateLimiter
	sleeper           timeutil.Sleeper
	clock             timeutil.Clock
	userAgent         string
	defaultRetryAfter time.Duration
	overloadWait      time.Duration
}

func NewWikiFetcher(
	metadataSink metadata.MetadataSink,
	rateLimiter limiter.RateLimiter,
	userAgent string,
) *WikiFetcher {
	return &WikiFetcher{
		metadataSink:      metadataSink,
		httpClient:        &http.Client{},
		limiter:           rateLimiter,
		sleeper:           timeutil.RealSleeper{},
		clock:             timeutil.RealClock{},
		userAgent:         userAgent,
		defaultRetryAfter: DefaultRetryAfter,
		overloadWait:      DefaultOverloadWait,
	}
}

// SetTimeout bounds a single attempt. Zero means no timeout.
func (w *WikiFetcher) SetTimeout(timeout time.Duration) {
	w.httpClient.Timeout = timeout
}

// SetWaits overrides the Retry-After fallback and the maxlag wait.
func (w *WikiFetcher) SetWaits(defaultRetryAfter, overloadWait time.Duration) {
	w.defaultRetryAfter = defaultRetryAfter
	w.overloadWait = overloadWait
}

// SetSleeper allows injecting a custom sleeper for testing
func (w *WikiFetcher) SetSleeper(sleeper timeutil.Sleeper) {
	w.sleeper = sleeper
}

// SetClock allows injecting a custom clock for testing
func (w *WikiFetcher) SetClock(clock timeutil.Clock) {
	w.clock = clock
}

// SetHTTPClient allows injecting a custom transport for testing
func (w *WikiFetcher) SetHTTPClient(client *http.Client) {
	w.httpClient = client
}

func (w *WikiFetcher) Fetch(
	ctx context.Context,
	fetchParam FetchParam,
	retryParam retry.RetryParam,
) (FetchResult, failure.ClassifiedError) {
	callerMethod := "WikiFetcher.Fetch"

	attemptTask := func(attempt int) (FetchResult, failure.ClassifiedError) {
		return w.attempt(ctx, fetchParam, attempt)
	}

	result := retry.Retry(ctx, w.sleeper, retryParam, attemptTask)
	if result.IsFailure() {
		err := result.Err()
		w.recordError(callerMethod, fetchParam, err)
		return FetchResult{}, err
	}

	fetched := result.Value()
	fetched.attempts = result.Attempts()
	return fetched, nil
}

// attempt runs a single rate-limited request.
func (w *WikiFetcher) attempt(ctx context.Context, fetchParam FetchParam, attempt int) (FetchResult, failure.ClassifiedError) {
	waited, err := w.limiter.Acquire(ctx)
	w.metadataSink.RecordRateLimitWait(waited)
	if err != nil {
		return FetchResult{}, &FetchError{
			Message:   fmt.Sprintf("rate limiter: %v", err),
			Retryable: false,
			Cause:     ErrCauseCancelled,
		}
	}

	startTime := time.Now()
	result, fetchErr := w.performFetch(ctx, fetchParam.fetchUrl)
	duration := time.Since(startTime)

	statusCode := result.Code()
	var classified *FetchError
	if fetchErr != nil && errors.As(fetchErr, &classified) {
		statusCode = classified.StatusCode
	}

	w.metadataSink.RecordFetch(
		fetchParam.fetchUrl.String(),
		fetchParam.action,
		statusCode,
		duration,
		attempt,
	)

	return result, fetchErr
}

func (w *WikiFetcher) recordError(callerMethod string, fetchParam FetchParam, err failure.ClassifiedError) {
	cause := metadata.CauseUnknown
	var fetchError *FetchError
	if errors.As(err, &fetchError) {
		cause = mapFetchErrorToMetadataCause(fetchError)
	}

	w.metadataSink.RecordError(
		time.Now(),
		"fetcher",
		callerMethod,
		cause,
		err.Error(),
		[]metadata.Attribute{
			metadata.NewAttr(metadata.AttrURL, fetchParam.fetchUrl.String()),
			metadata.NewAttr(metadata.AttrAction, fetchParam.action),
		},
	)
}

func (w *WikiFetcher) performFetch(ctx context.Context, fetchUrl url.URL) (FetchResult, failure.ClassifiedError) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fetchUrl.String(), nil)
	if err != nil {
		return FetchResult{}, &FetchError{
			Message:   fmt.Sprintf("failed to create request: %v", err),
			Retryable: false,
			Cause:     ErrCauseRequestBuild,
		}
	}

	for key, value := range requestHeaders(w.userAgent) {
		req.Header.Set(key, value)
	}

	resp, err := w.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return FetchResult{}, &FetchError{
				Message:   fmt.Sprintf("request abandoned: %v", ctx.Err()),
				Retryable: false,
				Cause:     ErrCauseCancelled,
			}
		}
		return FetchResult{}, &FetchError{
			Message:   fmt.Sprintf("request failed: %v", err),
			Retryable: true,
			Cause:     ErrCauseNetworkFailure,
		}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return FetchResult{}, &FetchError{
			Message:    fmt.Sprintf("failed to read response body: %v", err),
			Retryable:  true,
			Cause:      ErrCauseReadResponseBodyError,
			StatusCode: resp.StatusCode,
		}
	}

	if classified := w.classifyStatus(resp, body); classified != nil {
		return FetchResult{}, classified
	}

	if !json.Valid(body) {
		return FetchResult{}, &FetchError{
			Message:    "response body is not valid JSON",
			Retryable:  false,
			Cause:      ErrCauseContentInvalid,
			StatusCode: resp.StatusCode,
		}
	}

	return FetchResult{
		url:  fetchUrl,
		body: body,
		meta: ResponseMeta{
			statusCode: resp.StatusCode,
			header:     resp.Header.Clone(),
		},
	}, nil
}

// classifyStatus returns nil for 2xx responses.
func (w *WikiFetcher) classifyStatus(resp *http.Response, body []byte) *FetchError {
	status := resp.StatusCode
	switch {
	case status >= 200 && status < 300:
		return nil

	case status == http.StatusTooManyRequests:
		return &FetchError{
			Message:    "rate limited (429)",
			Retryable:  true,
			Cause:      ErrCauseRequestTooMany,
			StatusCode: status,
			Wait:       parseRetryAfter(resp.Header.Get("Retry-After"), w.clock.Now(), w.defaultRetryAfter),
			HasWait:    true,
		}

	case status == http.StatusServiceUnavailable && isMaxlag(body):
		return &FetchError{
			Message:    "replication lag over maxlag (503)",
			Retryable:  true,
			Cause:      ErrCauseUpstreamOverload,
			StatusCode: status,
			Wait:       w.overloadWait,
			HasWait:    true,
		}

	case status == http.StatusNotFound:
		return &FetchError{
			Message:    "not found (404)",
			Retryable:  false,
			Cause:      ErrCauseNotFound,
			StatusCode: status,
		}

	case status >= 500:
		return &FetchError{
			Message:    fmt.Sprintf("HTTP %d: %s", status, http.StatusText(status)),
			Retryable:  true,
			Cause:      ErrCauseRequest5xx,
			StatusCode: status,
		}

	default:
		return &FetchError{
			Message:    fmt.Sprintf("HTTP %d: %s", status, http.StatusText(status)),
			Retryable:  true,
			Cause:      ErrCauseUnexpectedStatus,
			StatusCode: status,
		}
	}
}

// isMaxlag reports whether a 503 body is the API's maxlag error document:
// {"error":{"code":"maxlag", ...}}
func isMaxlag(body []byte) bool {
	var doc struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.NewDecoder(bytes.NewReader(body)).Decode(&doc); err != nil {
		return false
	}
	return doc.Error.Code == "maxlag"
}

// parseRetryAfter accepts delta-seconds or an HTTP date. Missing or
// unparseable values yield fallback.
func parseRetryAfter(value string, now time.Time, fallback time.Duration) time.Duration {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback
	}
	if seconds, err := strconv.Atoi(value); err == nil {
		if seconds < 0 {
			return fallback
		}
		return time.Duration(seconds) * time.Second
	}
	if at, err := http.ParseTime(value); err == nil {
		if wait := at.Sub(now); wait > 0 {
			return wait
		}
		return 0
	}
	return fallback
}

func requestHeaders(userAgent string) map[string]string {
	return map[string]string{
		"User-Agent":      userAgent,
		"Api-User-Agent":  userAgent,
		"Accept":          "application/json",
		"Accept-Language": "en",
	}
}
