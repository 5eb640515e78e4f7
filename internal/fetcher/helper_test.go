package fetcher_test

import (
	"context"
	"sync"
	"time"

	"github.com/rohmanhakim/wikicurious/internal/metadata"
	"github.com/rohmanhakim/wikicurious/pkg/retry"
	"github.com/rohmanhakim/wikicurious/pkg/timeutil"
)

// mockMetadataSink is a test double for metadata.MetadataSink
type mockMetadataSink struct {
	mu          sync.Mutex
	fetchEvents []fetchEvent
	errorEvents []errorEvent
	waits       []time.Duration
}

type fetchEvent struct {
	fetchUrl   string
	action     string
	httpStatus int
	attempt    int
}

type errorEvent struct {
	packageName string
	action      string
	cause       metadata.ErrorCause
	details     string
}

func (m *mockMetadataSink) RecordFetch(fetchUrl string, action string, httpStatus int, duration time.Duration, attempt int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fetchEvents = append(m.fetchEvents, fetchEvent{
		fetchUrl:   fetchUrl,
		action:     action,
		httpStatus: httpStatus,
		attempt:    attempt,
	})
}

func (m *mockMetadataSink) RecordError(
	observedAt time.Time,
	packageName string,
	action string,
	cause metadata.ErrorCause,
	details string,
	attrs []metadata.Attribute,
) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errorEvents = append(m.errorEvents, errorEvent{
		packageName: packageName,
		action:      action,
		cause:       cause,
		details:     details,
	})
}

func (m *mockMetadataSink) RecordRateLimitWait(waited time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.waits = append(m.waits, waited)
}

func (m *mockMetadataSink) RecordCacheLookup(title string, hit bool) {}

func (m *mockMetadataSink) RecordArtifact(kind metadata.ArtifactKind, path string, attrs []metadata.Attribute) {
}

// countingLimiter admits everything and counts admissions.
type countingLimiter struct {
	mu       sync.Mutex
	acquired int
	err      error
}

func (c *countingLimiter) Acquire(ctx context.Context) (time.Duration, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return 0, c.err
	}
	c.acquired++
	return 0, nil
}

func (c *countingLimiter) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.acquired
}

// recordingSleeper returns at once and remembers requested waits.
type recordingSleeper struct {
	mu    sync.Mutex
	slept []time.Duration
}

func (s *recordingSleeper) Sleep(ctx context.Context, d time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.slept = append(s.slept, d)
	return ctx.Err()
}

func (s *recordingSleeper) Slept() []time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]time.Duration(nil), s.slept...)
}

// createTestRetryParam mirrors the production curve: 3 attempts, 1s base, x2, 10s cap.
func createTestRetryParam(maxAttempts int) retry.RetryParam {
	return retry.NewRetryParam(
		0,
		42,
		maxAttempts,
		timeutil.NewBackoffParam(1*time.Second, 2.0, 10*time.Second),
	)
}
