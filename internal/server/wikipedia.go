package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rohmanhakim/wikicurious/internal/gateway"
	"github.com/rohmanhakim/wikicurious/internal/metrics"
	"github.com/rohmanhakim/wikicurious/pkg/failure"
	"github.com/rohmanhakim/wikicurious/pkg/hashutil"
)

// ContentFetcher is the gateway operation behind /api/wikipedia.
type ContentFetcher interface {
	FetchContent(ctx context.Context, action string, params gateway.Params) (gateway.Response, failure.ClassifiedError)
}

type errorBody struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

type wikipediaHandler struct {
	gateway ContentFetcher
}

// cors sets the route's CORS headers on every response, errors included.
func cors(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		h := c.Response().Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Content-Type")
		return next(c)
	}
}

func (h *wikipediaHandler) preflight(c echo.Context) error {
	return c.NoContent(http.StatusNoContent)
}

func (h *wikipediaHandler) get(c echo.Context) error {
	action := c.QueryParam("action")
	params := gateway.Params{
		Query: c.QueryParam("q"),
		Title: c.QueryParam("title"),
	}

	resp, err := h.gateway.FetchContent(c.Request().Context(), action, params)
	if err != nil {
		return h.writeError(c, action, err)
	}

	etag := hashutil.ETag(resp.Body)
	c.Response().Header().Set("Cache-Control", resp.CacheControl)
	c.Response().Header().Set("ETag", etag)
	if matchesETag(c.Request().Header.Get("If-None-Match"), etag) {
		metrics.RecordGatewayResponse(string(resp.Action), strconv.Itoa(http.StatusNotModified))
		return c.NoContent(http.StatusNotModified)
	}

	metrics.RecordGatewayResponse(string(resp.Action), strconv.Itoa(http.StatusOK))
	return c.Blob(http.StatusOK, echo.MIMEApplicationJSON, resp.Body)
}

func (h *wikipediaHandler) writeError(c echo.Context, action string, err failure.ClassifiedError) error {
	var gwErr *gateway.GatewayError
	if !errors.As(err, &gwErr) {
		gwErr = gateway.NewUpstreamUnavailableError(err.Error())
	}
	status := gwErr.StatusCode()
	metrics.RecordGatewayResponse(metricAction(action), strconv.Itoa(status))
	return c.JSON(status, errorBody{Error: gwErr.Message, Details: gwErr.Details})
}

// metricAction keeps label cardinality bounded for unknown actions.
func metricAction(action string) string {
	if a, ok := gateway.ParseAction(action); ok {
		return string(a)
	}
	return "invalid"
}

func matchesETag(header, etag string) bool {
	if header == "" {
		return false
	}
	for _, candidate := range strings.Split(header, ",") {
		candidate = strings.TrimSpace(candidate)
		if candidate == "*" || strings.TrimPrefix(candidate, "W/") == etag {
			return true
		}
	}
	return false
}
