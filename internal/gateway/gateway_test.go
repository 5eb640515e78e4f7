package gateway_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/rohmanhakim/wikicurious/internal/fetcher"
	"github.com/rohmanhakim/wikicurious/internal/gateway"
	"github.com/rohmanhakim/wikicurious/internal/metadata"
	"github.com/rohmanhakim/wikicurious/pkg/retry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newGateway(t *testing.T, f fetcher.Fetcher) *gateway.Gateway {
	return gateway.NewGateway(f, wikipediaEndpoints(t), testRetryParam(), &metadata.NoopSink{})
}

func asGatewayError(t *testing.T, err error) *gateway.GatewayError {
	t.Helper()
	var gwErr *gateway.GatewayError
	require.True(t, errors.As(err, &gwErr), "expected GatewayError, got %v", err)
	return gwErr
}

func TestFetchContent_InvalidActionNeverContactsUpstream(t *testing.T) {
	for _, action := range []string{"", "random", "SUMMARY"} {
		t.Run("action="+action, func(t *testing.T) {
			m := new(fetcherMock)
			g := newGateway(t, m)

			_, err := g.FetchContent(context.Background(), action, gateway.Params{Title: "Istanbul"})

			gwErr := asGatewayError(t, err)
			assert.Equal(t, gateway.ErrCauseInvalidRequest, gwErr.Cause)
			assert.Equal(t, gateway.MessageInvalidAction, gwErr.Message)
			assert.Equal(t, http.StatusBadRequest, gwErr.StatusCode())
			m.AssertNotCalled(t, "Fetch", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestFetchContent_MissingArgumentIsInvalidRequest(t *testing.T) {
	tests := []struct {
		name   string
		action string
		params gateway.Params
	}{
		{name: "search without query", action: "search", params: gateway.Params{Title: "Istanbul"}},
		{name: "search with blank query", action: "search", params: gateway.Params{Query: "   "}},
		{name: "summary without title", action: "summary", params: gateway.Params{Query: "Istanbul"}},
		{name: "related without title", action: "related", params: gateway.Params{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := new(fetcherMock)
			g := newGateway(t, m)

			_, err := g.FetchContent(context.Background(), tt.action, tt.params)

			gwErr := asGatewayError(t, err)
			assert.Equal(t, gateway.ErrCauseInvalidRequest, gwErr.Cause)
			assert.Equal(t, gateway.MessageInvalidRequest, gwErr.Message)
			assert.NotEmpty(t, gwErr.Details)
			m.AssertNotCalled(t, "Fetch", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestFetchContent_BuildsUpstreamURLAndCachePolicy(t *testing.T) {
	tests := []struct {
		name         string
		action       string
		params       gateway.Params
		wantURL      string
		cacheControl string
	}{
		{
			name:         "search uses legacy api with maxlag",
			action:       "search",
			params:       gateway.Params{Query: "Hagia Sophia"},
			wantURL:      "https://en.wikipedia.org/w/api.php?action=query&list=search&srsearch=Hagia%20Sophia&format=json&origin=*&maxlag=5",
			cacheControl: "public, max-age=600",
		},
		{
			name:         "summary uses rest api",
			action:       "summary",
			params:       gateway.Params{Title: "Istanbul"},
			wantURL:      "https://en.wikipedia.org/api/rest_v1/page/summary/Istanbul",
			cacheControl: "public, max-age=3600",
		},
		{
			name:         "related uses rest api",
			action:       "related",
			params:       gateway.Params{Title: "Grand_Bazaar,_Istanbul"},
			wantURL:      "https://en.wikipedia.org/api/rest_v1/page/related/Grand_Bazaar%2C_Istanbul",
			cacheControl: "public, max-age=3600",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := new(fetcherMock)
			body := []byte(`{"ok":true}`)
			m.On("Fetch", mock.Anything, mock.MatchedBy(func(p fetcher.FetchParam) bool {
				u := p.URL()
				return u.String() == tt.wantURL && p.Action() == tt.action
			}), testRetryParam()).Return(fetcher.NewFetchResultForTest(mustURL(t, tt.wantURL), body, 200, 1), nil)

			g := newGateway(t, m)
			resp, err := g.FetchContent(context.Background(), tt.action, tt.params)

			require.Nil(t, err)
			assert.JSONEq(t, string(body), string(resp.Body))
			assert.Equal(t, tt.cacheControl, resp.CacheControl)
			assert.Equal(t, gateway.Action(tt.action), resp.Action)
			assert.Equal(t, 1, resp.Attempts)
			m.AssertExpectations(t)
		})
	}
}

func TestFetchContent_NotFound(t *testing.T) {
	m := new(fetcherMock)
	m.On("Fetch", mock.Anything, mock.Anything, mock.Anything).Return(
		fetcher.FetchResult{},
		&fetcher.FetchError{Message: "not found (404)", Cause: fetcher.ErrCauseNotFound, StatusCode: 404},
	)
	g := newGateway(t, m)

	_, err := g.FetchContent(context.Background(), "summary", gateway.Params{Title: "Nowhere_Land_XYZ"})

	gwErr := asGatewayError(t, err)
	assert.Equal(t, gateway.ErrCauseNotFound, gwErr.Cause)
	assert.Equal(t, http.StatusNotFound, gwErr.StatusCode())
}

func TestFetchContent_ExhaustedRetriesIsUpstreamUnavailable(t *testing.T) {
	last := &fetcher.FetchError{Message: "replication lag over maxlag (503)", Retryable: true, Cause: fetcher.ErrCauseUpstreamOverload}
	m := new(fetcherMock)
	m.On("Fetch", mock.Anything, mock.Anything, mock.Anything).Return(
		fetcher.FetchResult{},
		&retry.RetryError{Message: "exhausted 3 attempts", Cause: retry.ErrExhaustedAttempts, Retryable: true, LastErr: last},
	)
	g := newGateway(t, m)

	_, err := g.FetchContent(context.Background(), "search", gateway.Params{Query: "Istanbul"})

	gwErr := asGatewayError(t, err)
	assert.Equal(t, gateway.ErrCauseUpstreamUnavailable, gwErr.Cause)
	assert.Equal(t, gateway.MessageUpstreamFailed, gwErr.Message)
	assert.Equal(t, "replication lag over maxlag (503)", gwErr.Details)
	assert.Equal(t, http.StatusInternalServerError, gwErr.StatusCode())
}

func TestFetchContent_TerminalFetchErrorIsUpstreamUnavailable(t *testing.T) {
	m := new(fetcherMock)
	m.On("Fetch", mock.Anything, mock.Anything, mock.Anything).Return(
		fetcher.FetchResult{},
		&fetcher.FetchError{Message: "response body is not valid JSON", Cause: fetcher.ErrCauseContentInvalid},
	)
	g := newGateway(t, m)

	_, err := g.FetchContent(context.Background(), "summary", gateway.Params{Title: "Istanbul"})

	gwErr := asGatewayError(t, err)
	assert.Equal(t, gateway.ErrCauseUpstreamUnavailable, gwErr.Cause)
	assert.Equal(t, "response body is not valid JSON", gwErr.Details)
}

func TestParseAction(t *testing.T) {
	for _, raw := range []string{"search", "summary", "related"} {
		a, ok := gateway.ParseAction(raw)
		assert.True(t, ok)
		assert.Equal(t, raw, string(a))
	}
	_, ok := gateway.ParseAction("parse")
	assert.False(t, ok)
}
