package topic_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/rohmanhakim/wikicurious/internal/gateway"
	"github.com/rohmanhakim/wikicurious/internal/topic"
	"github.com/rohmanhakim/wikicurious/pkg/failure"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// staticGateway answers every FetchContent with one canned outcome.
type staticGateway struct {
	body    string
	err     failure.ClassifiedError
	actions []string
	params  []gateway.Params
}

func (g *staticGateway) FetchContent(ctx context.Context, action string, params gateway.Params) (gateway.Response, failure.ClassifiedError) {
	g.actions = append(g.actions, action)
	g.params = append(g.params, params)
	if g.err != nil {
		return gateway.Response{}, g.err
	}
	return gateway.Response{Action: gateway.Action(action), Body: []byte(g.body)}, nil
}

func causeOf(t *testing.T, err error) gateway.GatewayErrorCause {
	t.Helper()
	var gwErr *gateway.GatewayError
	require.ErrorAs(t, err, &gwErr)
	return gwErr.Cause
}

func TestGatewaySource_Summary(t *testing.T) {
	gw := &staticGateway{body: `{"title":"Hagia Sophia","extract":"A mosque and former church."}`}
	src := topic.NewGatewaySource(gw)

	s, err := src.Summary(context.Background(), "Hagia_Sophia")

	require.Nil(t, err)
	assert.Equal(t, "Hagia Sophia", s.Title)
	assert.Equal(t, []string{"summary"}, gw.actions)
	assert.Equal(t, "Hagia_Sophia", gw.params[0].Title)
}

func TestGatewaySource_SearchUnwrapsEnvelope(t *testing.T) {
	gw := &staticGateway{body: `{"batchcomplete":"","query":{"searchinfo":{"totalhits":2},"search":[{"ns":0,"title":"Istanbul","pageid":3391396,"snippet":"<span class=\"searchmatch\">Istanbul</span>"},{"title":"Istanbul Airport","pageid":1,"snippet":""}]}}`}
	src := topic.NewGatewaySource(gw)

	hits, err := src.Search(context.Background(), "Istanbul")

	require.Nil(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, "Istanbul", hits[0].Title)
	assert.Equal(t, 3391396, hits[0].PageID)
	assert.Equal(t, "Istanbul", gw.params[0].Query)
}

func TestGatewaySource_UnexpectedShapeIsUpstreamUnavailable(t *testing.T) {
	src := topic.NewGatewaySource(&staticGateway{body: `["not","an","object"]`})

	_, err := src.Related(context.Background(), "Istanbul")

	assert.Equal(t, gateway.ErrCauseUpstreamUnavailable, causeOf(t, err))
}

func TestGatewaySource_PassesGatewayErrorsThrough(t *testing.T) {
	src := topic.NewGatewaySource(&staticGateway{err: gateway.NewNotFoundError("not found (404)")})

	_, err := src.Summary(context.Background(), "Nowhere")

	assert.Equal(t, gateway.ErrCauseNotFound, causeOf(t, err))
}

func newHTTPSource(t *testing.T, handler http.HandlerFunc) *topic.HTTPSource {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	u, err := url.Parse(server.URL + "/api/wikipedia")
	require.NoError(t, err)
	return topic.NewHTTPSource(*u, server.Client())
}

func TestHTTPSource_Summary(t *testing.T) {
	var gotQuery url.Values
	src := newHTTPSource(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Write([]byte(`{"title":"New York City","extract":"NYC."}`))
	})

	s, err := src.Summary(context.Background(), "New York City")

	require.Nil(t, err)
	assert.Equal(t, "New York City", s.Title)
	assert.Equal(t, "summary", gotQuery.Get("action"))
	assert.Equal(t, "New York City", gotQuery.Get("title"))
}

func TestHTTPSource_MapsErrorStatuses(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   gateway.GatewayErrorCause
	}{
		{name: "400", status: 400, body: `{"error":"Invalid request","details":"missing query parameter title"}`, want: gateway.ErrCauseInvalidRequest},
		{name: "404", status: 404, body: `{"error":"Article not found"}`, want: gateway.ErrCauseNotFound},
		{name: "500", status: 500, body: `{"error":"Failed to fetch from Wikipedia","details":"HTTP 502: Bad Gateway"}`, want: gateway.ErrCauseUpstreamUnavailable},
		{name: "502 without body", status: 502, body: ``, want: gateway.ErrCauseUpstreamUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := newHTTPSource(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})

			_, err := src.Summary(context.Background(), "Istanbul")

			assert.Equal(t, tt.want, causeOf(t, err))
		})
	}
}

func TestHTTPSource_UnreachableGateway(t *testing.T) {
	u, _ := url.Parse("http://127.0.0.1:1/api/wikipedia")
	src := topic.NewHTTPSource(*u, nil)

	_, err := src.Related(context.Background(), "Istanbul")

	assert.Equal(t, gateway.ErrCauseUpstreamUnavailable, causeOf(t, err))
}
