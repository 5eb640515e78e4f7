package topic_test

import (
	"context"
	"testing"

	"github.com/rohmanhakim/wikicurious/internal/cache"
	"github.com/rohmanhakim/wikicurious/internal/gateway"
	"github.com/rohmanhakim/wikicurious/internal/metadata"
	"github.com/rohmanhakim/wikicurious/internal/topic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func newSummaryCache(src topic.Source) *topic.SummaryCache {
	return topic.NewSummaryCache(src, cache.NewMemoryCache[topic.Summary](), &metadata.NoopSink{}, 4)
}

func TestGetSummary_SecondCallIsServedFromCache(t *testing.T) {
	src := new(sourceMock)
	src.On("Summary", mock.Anything, "Istanbul").Return(summaryOf("Istanbul"), nil).Once()
	c := newSummaryCache(src)

	first, ok := c.GetSummary(context.Background(), "Istanbul")
	require.True(t, ok)
	second, ok := c.GetSummary(context.Background(), "Istanbul")
	require.True(t, ok)

	assert.Equal(t, first, second)
	src.AssertNumberOfCalls(t, "Summary", 1)
}

func TestGetSummary_FailureIsNotCachedNorSurfaced(t *testing.T) {
	src := new(sourceMock)
	src.On("Summary", mock.Anything, "Bosphorus").Return(topic.Summary{}, unavailable()).Once()
	src.On("Summary", mock.Anything, "Bosphorus").Return(summaryOf("Bosphorus"), nil).Once()
	c := newSummaryCache(src)

	_, ok := c.GetSummary(context.Background(), "Bosphorus")
	assert.False(t, ok)
	_, cached := c.Peek("Bosphorus")
	assert.False(t, cached)

	got, ok := c.GetSummary(context.Background(), "Bosphorus")
	assert.True(t, ok)
	assert.Equal(t, "Bosphorus", got.Title)
	src.AssertNumberOfCalls(t, "Summary", 2)
}

func TestGetSummary_EmptyTitleSkipsNetwork(t *testing.T) {
	src := new(sourceMock)
	c := newSummaryCache(src)

	_, ok := c.GetSummary(context.Background(), "  ")

	assert.False(t, ok)
	src.AssertNotCalled(t, "Summary", mock.Anything, mock.Anything)
}

func TestFetch_SurfacesNotFound(t *testing.T) {
	src := new(sourceMock)
	src.On("Summary", mock.Anything, "Atlantis_(city)").Return(topic.Summary{}, gateway.NewNotFoundError("not found (404)"))
	c := newSummaryCache(src)

	_, err := c.Fetch(context.Background(), "Atlantis_(city)")

	require.NotNil(t, err)
	var gwErr *gateway.GatewayError
	require.ErrorAs(t, err, &gwErr)
	assert.Equal(t, gateway.ErrCauseNotFound, gwErr.Cause)
}

func TestGetSummaries_FetchesOnlyMisses(t *testing.T) {
	defer goleak.VerifyNone(t)

	src := new(sourceMock)
	src.On("Summary", mock.Anything, "Istanbul").Return(summaryOf("Istanbul"), nil).Once()
	src.On("Summary", mock.Anything, "Paris").Return(summaryOf("Paris"), nil).Once()
	src.On("Summary", mock.Anything, "Tokyo").Return(summaryOf("Tokyo"), nil).Once()
	c := newSummaryCache(src)

	_, ok := c.GetSummary(context.Background(), "Istanbul")
	require.True(t, ok)

	got := c.GetSummaries(context.Background(), []string{"Istanbul", "Paris", "Tokyo"})

	assert.Len(t, got, 3)
	src.AssertNumberOfCalls(t, "Summary", 3)
	src.AssertExpectations(t)
}

func TestGetSummaries_ResultHoldsExactlyTheSuccesses(t *testing.T) {
	src := new(sourceMock)
	src.On("Summary", mock.Anything, "Rome").Return(summaryOf("Rome"), nil)
	src.On("Summary", mock.Anything, "Cairo").Return(topic.Summary{}, unavailable())
	src.On("Summary", mock.Anything, "London").Return(summaryOf("London"), nil)
	c := newSummaryCache(src)

	got := c.GetSummaries(context.Background(), []string{"Rome", "Cairo", "London", "Rome", ""})

	assert.Len(t, got, 2)
	assert.Contains(t, got, "Rome")
	assert.Contains(t, got, "London")
	assert.NotContains(t, got, "Cairo")
	src.AssertNumberOfCalls(t, "Summary", 3)
}

func TestGetSummaries_AllCachedMakesNoCalls(t *testing.T) {
	src := new(sourceMock)
	src.On("Summary", mock.Anything, "Barcelona").Return(summaryOf("Barcelona"), nil).Once()
	c := newSummaryCache(src)
	c.GetSummary(context.Background(), "Barcelona")

	got := c.GetSummaries(context.Background(), []string{"Barcelona"})

	assert.Len(t, got, 1)
	src.AssertNumberOfCalls(t, "Summary", 1)
}

func TestGetSummaries_EmptyInput(t *testing.T) {
	c := newSummaryCache(new(sourceMock))
	assert.Empty(t, c.GetSummaries(context.Background(), nil))
}
