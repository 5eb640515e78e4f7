package topic

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rohmanhakim/wikicurious/internal/gateway"
	"github.com/rohmanhakim/wikicurious/pkg/failure"
)

// Source reads typed documents through the Fetch Gateway. Failures are
// always *gateway.GatewayError.
type Source interface {
	Summary(ctx context.Context, title string) (Summary, failure.ClassifiedError)
	Related(ctx context.Context, title string) (RelatedPages, failure.ClassifiedError)
	Search(ctx context.Context, query string) ([]SearchHit, failure.ClassifiedError)
}

// ContentFetcher is the gateway operation a GatewaySource needs.
type ContentFetcher interface {
	FetchContent(ctx context.Context, action string, params gateway.Params) (gateway.Response, failure.ClassifiedError)
}

// GatewaySource calls a gateway living in the same process.
type GatewaySource struct {
	gateway ContentFetcher
}

func NewGatewaySource(gw ContentFetcher) *GatewaySource {
	return &GatewaySource{gateway: gw}
}

func (s *GatewaySource) Summary(ctx context.Context, title string) (Summary, failure.ClassifiedError) {
	var summary Summary
	err := s.fetchInto(ctx, gateway.ActionSummary, gateway.Params{Title: title}, &summary)
	return summary, err
}

func (s *GatewaySource) Related(ctx context.Context, title string) (RelatedPages, failure.ClassifiedError) {
	var related RelatedPages
	err := s.fetchInto(ctx, gateway.ActionRelated, gateway.Params{Title: title}, &related)
	return related, err
}

func (s *GatewaySource) Search(ctx context.Context, query string) ([]SearchHit, failure.ClassifiedError) {
	var doc searchDocument
	if err := s.fetchInto(ctx, gateway.ActionSearch, gateway.Params{Query: query}, &doc); err != nil {
		return nil, err
	}
	return doc.Query.Search, nil
}

func (s *GatewaySource) fetchInto(ctx context.Context, action gateway.Action, params gateway.Params, target any) failure.ClassifiedError {
	resp, err := s.gateway.FetchContent(ctx, string(action), params)
	if err != nil {
		return err
	}
	return decode(action, resp.Body, target)
}

// decode reports a document of unexpected shape as an upstream failure.
func decode(action gateway.Action, body []byte, target any) failure.ClassifiedError {
	if err := json.Unmarshal(body, target); err != nil {
		return gateway.NewUpstreamUnavailableError(fmt.Sprintf("decode %s response: %v", action, err))
	}
	return nil
}
