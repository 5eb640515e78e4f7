package gateway

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/rohmanhakim/wikicurious/pkg/urlutil"
)

type Action string

const (
	ActionSearch  Action = "search"
	ActionSummary Action = "summary"
	ActionRelated Action = "related"
)

// ParseAction accepts exactly the three known action names.
func ParseAction(raw string) (Action, bool) {
	switch Action(raw) {
	case ActionSearch, ActionSummary, ActionRelated:
		return Action(raw), true
	default:
		return "", false
	}
}

// CacheControl is the downstream caching policy for a successful response.
func (a Action) CacheControl() string {
	if a == ActionSearch {
		return "public, max-age=600"
	}
	return "public, max-age=3600"
}

// Params carries the action argument: Query for search, Title otherwise.
type Params struct {
	Query string
	Title string
}

// Response is a successful gateway result. Body is the upstream JSON,
// unchanged.
type Response struct {
	Action       Action
	Body         json.RawMessage
	CacheControl string
	Attempts     int
}

// Endpoints locates the two upstream API families.
type Endpoints struct {
	// LegacyAPI is the action API script, e.g. https://en.wikipedia.org/w/api.php
	LegacyAPI url.URL
	// RESTAPI is the REST root, e.g. https://en.wikipedia.org/api/rest_v1
	RESTAPI url.URL
	// Maxlag is sent with legacy API requests so an overloaded upstream
	// refuses instead of queueing.
	Maxlag int
}

func NewEndpoints(legacyAPI, restAPI url.URL, maxlag int) Endpoints {
	return Endpoints{
		LegacyAPI: urlutil.Canonicalize(legacyAPI),
		RESTAPI:   urlutil.Canonicalize(restAPI),
		Maxlag:    maxlag,
	}
}

// URL builds the upstream URL for an already validated request.
func (e Endpoints) URL(action Action, params Params) url.URL {
	switch action {
	case ActionSearch:
		u := e.LegacyAPI
		u.RawQuery = fmt.Sprintf(
			"action=query&list=search&srsearch=%s&format=json&origin=*&maxlag=%d",
			queryComponent(params.Query),
			e.Maxlag,
		)
		return u
	case ActionRelated:
		return urlutil.AppendSegments(e.RESTAPI, "page", "related", params.Title)
	default:
		return urlutil.AppendSegments(e.RESTAPI, "page", "summary", params.Title)
	}
}

// queryComponent escapes a query value with %20 for spaces.
func queryComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
