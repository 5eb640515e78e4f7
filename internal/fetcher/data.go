package fetcher

import (
	"net/http"
	"net/url"
)

// HTTP boundary

type FetchParam struct {
	fetchUrl url.URL
	action   string
}

// NewFetchParam describes one upstream call. action labels the call in
// metadata ("search", "summary", "related").
func NewFetchParam(fetchUrl url.URL, action string) FetchParam {
	return FetchParam{
		fetchUrl: fetchUrl,
		action:   action,
	}
}

func (p FetchParam) URL() url.URL {
	return p.fetchUrl
}

func (p FetchParam) Action() string {
	return p.action
}

type FetchResult struct {
	url      url.URL
	body     []byte
	meta     ResponseMeta
	attempts int
}

func (f *FetchResult) URL() url.URL {
	return f.url
}

// Body is the upstream JSON document, unchanged.
func (f *FetchResult) Body() []byte {
	return f.body
}

func (f *FetchResult) Code() int {
	return f.meta.statusCode
}

func (f *FetchResult) Header() http.Header {
	return f.meta.header
}

// Attempts is how many upstream requests were issued, the successful one included.
func (f *FetchResult) Attempts() int {
	return f.attempts
}

type ResponseMeta struct {
	statusCode int
	header     http.Header
}

// NewFetchResultForTest creates a FetchResult for testing purposes.
// This allows test packages to construct FetchResult values without
// accessing unexported fields directly.
func NewFetchResultForTest(
	url url.URL,
	body []byte,
	statusCode int,
	attempts int,
) FetchResult {
	return FetchResult{
		url:      url,
		body:     body,
		attempts: attempts,
		meta: ResponseMeta{
			statusCode: statusCode,
			header:     http.Header{},
		},
	}
}
