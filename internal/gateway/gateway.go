package gateway

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rohmanhakim/wikicurious/internal/fetcher"
	"github.com/rohmanhakim/wikicurious/internal/metadata"
	"github.com/rohmanhakim/wikicurious/pkg/failure"
	"github.com/rohmanhakim/wikicurious/pkg/retry"
)

/*
Gateway is the single entry point to the upstream encyclopedia.

Responsibilities
  - Validate the action and its argument before anything leaves the process
  - Build the upstream URL for the action
  - Delegate the rate-limited, retried request to the fetcher
  - Collapse fetcher and retry failures into three classes:
    InvalidRequest, NotFound and UpstreamUnavailable
  - Attach the downstream cache policy to successful responses

The gateway keeps no state between calls apart from the shared limiter the
fetcher owns.
*/
type Gateway struct {
	fetcher      fetcher.Fetcher
	endpoints    Endpoints
	retryParam   retry.RetryParam
	metadataSink metadata.MetadataSink
}

func NewGateway(
	f fetcher.Fetcher,
	endpoints Endpoints,
	retryParam retry.RetryParam,
	metadataSink metadata.MetadataSink,
) *Gateway {
	return &Gateway{
		fetcher:      f,
		endpoints:    endpoints,
		retryParam:   retryParam,
		metadataSink: metadataSink,
	}
}

// FetchContent runs one gateway request. action must be "search",
// "summary" or "related"; search reads params.Query, the others params.Title.
func (g *Gateway) FetchContent(ctx context.Context, action string, params Params) (Response, failure.ClassifiedError) {
	parsed, ok := ParseAction(action)
	if !ok {
		gwErr := NewInvalidActionError()
		g.recordError(action, params, gwErr)
		return Response{}, gwErr
	}

	params, gwErr := validate(parsed, params)
	if gwErr != nil {
		g.recordError(action, params, gwErr)
		return Response{}, gwErr
	}

	fetchParam := fetcher.NewFetchParam(g.endpoints.URL(parsed, params), string(parsed))
	result, err := g.fetcher.Fetch(ctx, fetchParam, g.retryParam)
	if err != nil {
		gwErr := classify(err)
		g.recordError(action, params, gwErr)
		return Response{}, gwErr
	}

	return Response{
		Action:       parsed,
		Body:         result.Body(),
		CacheControl: parsed.CacheControl(),
		Attempts:     result.Attempts(),
	}, nil
}

func validate(action Action, params Params) (Params, *GatewayError) {
	params.Query = strings.TrimSpace(params.Query)
	params.Title = strings.TrimSpace(params.Title)

	switch action {
	case ActionSearch:
		if params.Query == "" {
			return params, NewInvalidRequestError("missing query parameter q")
		}
	default:
		if params.Title == "" {
			return params, NewInvalidRequestError("missing query parameter title")
		}
	}
	return params, nil
}

// classify collapses a fetcher failure into a gateway error. Details carry the
// last upstream error message.
func classify(err failure.ClassifiedError) *GatewayError {
	var fetchErr *fetcher.FetchError
	if errors.As(err, &fetchErr) && fetchErr.Cause == fetcher.ErrCauseNotFound {
		return NewNotFoundError(fetchErr.Message)
	}

	var retryErr *retry.RetryError
	if errors.As(err, &retryErr) && retryErr.LastErr != nil {
		return NewUpstreamUnavailableError(describe(retryErr.LastErr))
	}
	if fetchErr != nil {
		return NewUpstreamUnavailableError(fetchErr.Message)
	}
	return NewUpstreamUnavailableError(err.Error())
}

func describe(err failure.ClassifiedError) string {
	var fetchErr *fetcher.FetchError
	if errors.As(err, &fetchErr) {
		return fetchErr.Message
	}
	return err.Error()
}

func (g *Gateway) recordError(action string, params Params, err *GatewayError) {
	g.metadataSink.RecordError(
		time.Now(),
		"gateway",
		"Gateway.FetchContent",
		mapGatewayErrorToMetadataCause(err),
		err.Error(),
		[]metadata.Attribute{
			metadata.NewAttr(metadata.AttrAction, action),
			metadata.NewAttr(metadata.AttrQuery, params.Query),
			metadata.NewAttr(metadata.AttrTitle, params.Title),
		},
	)
}
