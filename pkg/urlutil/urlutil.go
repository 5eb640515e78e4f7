package urlutil

import (
	"net/url"
	"strings"
)

// Canonicalize normalizes a configured API base URL:
//   - Scheme and host are lowercased
//   - Default ports are omitted (e.g., :80 for http, :443 for https)
//   - Trailing slashes are removed from the path, except for root "/"
//   - Fragment and query are dropped
//
// It is pure and idempotent: Canonicalize(Canonicalize(u)) == Canonicalize(u).
func Canonicalize(sourceUrl url.URL) url.URL {
	canonical := sourceUrl

	canonical.Scheme = strings.ToLower(canonical.Scheme)
	canonical.Host = strings.ToLower(canonical.Host)

	if host, port := canonical.Hostname(), canonical.Port(); port != "" {
		if (canonical.Scheme == "http" && port == "80") ||
			(canonical.Scheme == "https" && port == "443") {
			canonical.Host = host
		}
	}

	if len(canonical.Path) > 1 {
		canonical.Path = stripTrailingSlash(canonical.Path)
		canonical.RawPath = ""
	}

	canonical.Fragment = ""
	canonical.RawFragment = ""
	canonical.RawQuery = ""
	canonical.ForceQuery = false

	return canonical
}

// EscapeTitle turns an article title into a single path segment. Slashes in
// titles such as "AC/DC" are escaped so they stay inside the segment.
func EscapeTitle(title string) string {
	return url.PathEscape(title)
}

// AppendSegments returns base with the given path segments appended. Each
// segment is escaped with EscapeTitle.
func AppendSegments(base url.URL, segments ...string) url.URL {
	out := base
	escaped := make([]string, 0, len(segments))
	raw := make([]string, 0, len(segments))
	for _, s := range segments {
		escaped = append(escaped, EscapeTitle(s))
		raw = append(raw, s)
	}

	prefix := strings.TrimSuffix(base.EscapedPath(), "/")
	out.RawPath = prefix + "/" + strings.Join(escaped, "/")
	out.Path = strings.TrimSuffix(base.Path, "/") + "/" + strings.Join(raw, "/")
	return out
}

// stripTrailingSlash removes trailing slashes from a path.
func stripTrailingSlash(path string) string {
	for len(path) > 1 && path[len(path)-1] == '/' {
		path = path[:len(path)-1]
	}
	return path
}
