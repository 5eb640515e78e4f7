package topic

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/rohmanhakim/wikicurious/internal/gateway"
	"github.com/rohmanhakim/wikicurious/pkg/failure"
)

// HTTPSource calls a gateway served by another process over its
// /api/wikipedia route. Retries and rate limiting happen on that side.
type HTTPSource struct {
	endpoint   url.URL
	httpClient *http.Client
}

// NewHTTPSource takes the full route URL, e.g. http://localhost:8080/api/wikipedia.
func NewHTTPSource(endpoint url.URL, httpClient *http.Client) *HTTPSource {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &HTTPSource{endpoint: endpoint, httpClient: httpClient}
}

func (s *HTTPSource) Summary(ctx context.Context, title string) (Summary, failure.ClassifiedError) {
	var summary Summary
	err := s.fetchInto(ctx, gateway.ActionSummary, url.Values{"title": {title}}, &summary)
	return summary, err
}

func (s *HTTPSource) Related(ctx context.Context, title string) (RelatedPages, failure.ClassifiedError) {
	var related RelatedPages
	err := s.fetchInto(ctx, gateway.ActionRelated, url.Values{"title": {title}}, &related)
	return related, err
}

func (s *HTTPSource) Search(ctx context.Context, query string) ([]SearchHit, failure.ClassifiedError) {
	var doc searchDocument
	if err := s.fetchInto(ctx, gateway.ActionSearch, url.Values{"q": {query}}, &doc); err != nil {
		return nil, err
	}
	return doc.Query.Search, nil
}

func (s *HTTPSource) fetchInto(ctx context.Context, action gateway.Action, query url.Values, target any) failure.ClassifiedError {
	query.Set("action", string(action))
	u := s.endpoint
	u.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return gateway.NewUpstreamUnavailableError(fmt.Sprintf("build request: %v", err))
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return gateway.NewUpstreamUnavailableError(fmt.Sprintf("request failed: %v", err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return gateway.NewUpstreamUnavailableError(fmt.Sprintf("read body: %v", err))
	}

	if resp.StatusCode != http.StatusOK {
		return errorFromResponse(resp.StatusCode, body)
	}
	return decode(action, body, target)
}

// errorFromResponse maps the gateway's HTTP error document back onto the
// gateway error taxonomy.
func errorFromResponse(status int, body []byte) *gateway.GatewayError {
	var doc struct {
		Error   string `json:"error"`
		Details string `json:"details"`
	}
	_ = json.Unmarshal(body, &doc)

	switch status {
	case http.StatusBadRequest:
		if doc.Error == gateway.MessageInvalidAction {
			return gateway.NewInvalidActionError()
		}
		return gateway.NewInvalidRequestError(doc.Details)
	case http.StatusNotFound:
		return gateway.NewNotFoundError(doc.Details)
	default:
		details := doc.Details
		if details == "" {
			details = fmt.Sprintf("gateway answered HTTP %d", status)
		}
		return gateway.NewUpstreamUnavailableError(details)
	}
}
