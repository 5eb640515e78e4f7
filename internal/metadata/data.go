package metadata

/*
	ErrorCause is a closed, canonical classification used exclusively for
	observability (logging, metrics, reporting).

	Rules:
	 - ErrorCause MUST NOT influence control flow.
	 - ErrorCause MUST NOT be used for retry or fallback decisions.
	 - Packages MAY map their local errors to ErrorCause,
	   but MUST NOT invent new meanings.

If a failure does not clearly match a defined cause, CauseUnknown MUST be used.
*/
type ErrorCause int

/*
Canonical ErrorCause Table

# CauseUnknown
  - The failure does not map cleanly to any known category.

# CauseNetworkFailure
  - Transport failures and unexpected upstream statuses.
  - TCP timeouts, DNS failures, connection resets, HTTP 5xx.

# CauseRateLimited
  - The upstream asked us to slow down (HTTP 429).

# CauseUpstreamOverload
  - The upstream reported replication lag over the maxlag threshold.

# CauseNotFound
  - The requested article does not exist upstream.

# CauseContentInvalid
  - A response arrived but could not be decoded or converted.

# CauseInvalidRequest
  - The caller sent an unknown action or an empty query or title.

# CauseStorageFailure
  - Persisting the saved list or an export failed.

# CauseCancelled
  - The caller gave up (context cancelled or view torn down).
*/
const (
	CauseUnknown ErrorCause = iota
	CauseNetworkFailure
	CauseRateLimited
	CauseUpstreamOverload
	CauseNotFound
	CauseContentInvalid
	CauseInvalidRequest
	CauseStorageFailure
	CauseCancelled
)

func (c ErrorCause) String() string {
	switch c {
	case CauseNetworkFailure:
		return "network_failure"
	case CauseRateLimited:
		return "rate_limited"
	case CauseUpstreamOverload:
		return "upstream_overload"
	case CauseNotFound:
		return "not_found"
	case CauseContentInvalid:
		return "content_invalid"
	case CauseInvalidRequest:
		return "invalid_request"
	case CauseStorageFailure:
		return "storage_failure"
	case CauseCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

type ArtifactKind string

const (
	ArtifactExport    ArtifactKind = "export"
	ArtifactSavedList ArtifactKind = "saved_list"
)

type Attribute struct {
	Key   AttributeKey
	Value string
}

func NewAttr(key AttributeKey, val string) Attribute {
	return Attribute{
		Key:   key,
		Value: val,
	}
}

type AttributeKey string

const (
	AttrURL        AttributeKey = "url"
	AttrAction     AttributeKey = "action"
	AttrTitle      AttributeKey = "title"
	AttrQuery      AttributeKey = "query"
	AttrAttempt    AttributeKey = "attempt"
	AttrHTTPStatus AttributeKey = "http_status"
	AttrWritePath  AttributeKey = "write_path"
	AttrHash       AttributeKey = "hash"
	AttrMessage    AttributeKey = "message"
	AttrStore      AttributeKey = "store"
)
