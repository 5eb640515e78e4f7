package gateway_test

import (
	"context"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/rohmanhakim/wikicurious/internal/fetcher"
	"github.com/rohmanhakim/wikicurious/internal/gateway"
	"github.com/rohmanhakim/wikicurious/internal/metadata"
	"github.com/rohmanhakim/wikicurious/pkg/failure"
	"github.com/rohmanhakim/wikicurious/pkg/retry"
	"github.com/rohmanhakim/wikicurious/pkg/timeutil"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// fetcherMock is a testify mock for the Fetcher
type fetcherMock struct {
	mock.Mock
}

func (f *fetcherMock) Fetch(
	ctx context.Context,
	fetchParam fetcher.FetchParam,
	retryParam retry.RetryParam,
) (fetcher.FetchResult, failure.ClassifiedError) {
	args := f.Called(ctx, fetchParam, retryParam)
	result := args.Get(0).(fetcher.FetchResult)
	var err failure.ClassifiedError
	if args.Get(1) != nil {
		err = args.Get(1).(failure.ClassifiedError)
	}
	return result, err
}

func mustURL(t *testing.T, raw string) url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return *u
}

func wikipediaEndpoints(t *testing.T) gateway.Endpoints {
	return gateway.NewEndpoints(
		mustURL(t, "https://en.wikipedia.org/w/api.php"),
		mustURL(t, "https://en.wikipedia.org/api/rest_v1"),
		5,
	)
}

func testRetryParam() retry.RetryParam {
	return retry.NewRetryParam(0, 42, 3, timeutil.NewBackoffParam(time.Second, 2.0, 10*time.Second))
}

// instantSleeper returns at once and remembers requested waits.
type instantSleeper struct {
	mu    sync.Mutex
	slept []time.Duration
}

func (s *instantSleeper) Sleep(ctx context.Context, d time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.slept = append(s.slept, d)
	return ctx.Err()
}

func (s *instantSleeper) Slept() []time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]time.Duration(nil), s.slept...)
}

var _ metadata.MetadataSink = &metadata.NoopSink{}
