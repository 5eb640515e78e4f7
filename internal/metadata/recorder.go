package metadata

import (
	"log/slog"
	"strconv"
	"time"

	"github.com/rohmanhakim/wikicurious/internal/metrics"
)

/*
Metadata Collected
- Upstream attempts with status codes and durations
- Rate limiter waits
- Summary cache hits and misses
- Written artifacts with content hashes

Structured logging is preferred.

Allowed:
- Primitive values
- Timestamps
- URLs and titles (as values)
- Hashes
- Status codes
- Durations

Metadata is write-only.
No component may read metadata to influence fetch, retry or fallback decisions.
*/

type MetadataSink interface {
	RecordError(
		observedAt time.Time,
		packageName string,
		action string,
		cause ErrorCause,
		details string,
		attrs []Attribute,
	)

	RecordFetch(
		fetchUrl string,
		action string,
		httpStatus int,
		duration time.Duration,
		attempt int,
	)

	RecordRateLimitWait(waited time.Duration)
	RecordCacheLookup(title string, hit bool)
	RecordArtifact(kind ArtifactKind, path string, attrs []Attribute)
}

/*
Recorder writes metadata events to a slog.Logger and mirrors them into the
Prometheus collectors of the metrics package.
It must not:
- perform I/O decisions
- affect control flow
*/
type Recorder struct {
	component string
	logger    *slog.Logger
}

func NewRecorder(component string, logger *slog.Logger) *Recorder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Recorder{
		component: component,
		logger:    logger.With(slog.String("component", component)),
	}
}

func (r *Recorder) RecordError(
	observedAt time.Time,
	packageName string,
	action string,
	cause ErrorCause,
	details string,
	attrs []Attribute,
) {
	metrics.RecordError(packageName, cause.String())

	args := []any{
		slog.Time("observed_at", observedAt),
		slog.String("package", packageName),
		slog.String("action", action),
		slog.String("cause", cause.String()),
		slog.String("details", details),
	}
	r.logger.Warn("operation failed", append(args, toSlog(attrs)...)...)
}

func (r *Recorder) RecordFetch(
	fetchUrl string,
	action string,
	httpStatus int,
	duration time.Duration,
	attempt int,
) {
	status := "network_error"
	if httpStatus > 0 {
		status = strconv.Itoa(httpStatus)
	}
	metrics.RecordUpstream(action, status, duration.Seconds())

	r.logger.Debug("upstream fetch",
		slog.String("url", fetchUrl),
		slog.String("action", action),
		slog.Int("http_status", httpStatus),
		slog.Duration("duration", duration),
		slog.Int("attempt", attempt),
	)
}

func (r *Recorder) RecordRateLimitWait(waited time.Duration) {
	metrics.RecordRateLimitWait(waited.Seconds())
	if waited > 0 {
		r.logger.Info("rate limiter held request", slog.Duration("waited", waited))
	}
}

func (r *Recorder) RecordCacheLookup(title string, hit bool) {
	metrics.RecordCacheLookup(hit)
	r.logger.Debug("summary cache lookup", slog.String("title", title), slog.Bool("hit", hit))
}

func (r *Recorder) RecordArtifact(kind ArtifactKind, path string, attrs []Attribute) {
	metrics.RecordArtifact(string(kind))
	args := []any{
		slog.String("kind", string(kind)),
		slog.String("path", path),
	}
	r.logger.Info("artifact written", append(args, toSlog(attrs)...)...)
}

func toSlog(attrs []Attribute) []any {
	out := make([]any, 0, len(attrs))
	for _, a := range attrs {
		out = append(out, slog.String(string(a.Key), a.Value))
	}
	return out
}

// NoopSink, struct that implements MetadataSink but does nothing
// Callers (or tests) decide whether to inject Recorder or NoopSink
// Purpose is to make metadata orthogonal

type NoopSink struct{}

func (n *NoopSink) RecordError(
	observedAt time.Time,
	packageName string,
	action string,
	cause ErrorCause,
	details string,
	attrs []Attribute,
) {
}

func (n *NoopSink) RecordFetch(
	fetchUrl string,
	action string,
	httpStatus int,
	duration time.Duration,
	attempt int,
) {
}

func (n *NoopSink) RecordRateLimitWait(waited time.Duration) {}

func (n *NoopSink) RecordCacheLookup(title string, hit bool) {}

func (n *NoopSink) RecordArtifact(kind ArtifactKind, path string, attrs []Attribute) {}
