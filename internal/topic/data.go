package topic

import (
	"regexp"
	"strconv"
)

// Summary is the upstream page summary document. It is immutable once
// fetched and is replaced wholesale on refetch.
type Summary struct {
	Title       string       `json:"title"`
	Extract     string       `json:"extract"`
	ExtractHTML string       `json:"extract_html,omitempty"`
	Description string       `json:"description,omitempty"`
	Thumbnail   *Thumbnail   `json:"thumbnail,omitempty"`
	ContentURLs *ContentURLs `json:"content_urls,omitempty"`
}

// PageURL is the canonical desktop article URL, or "" when absent.
func (s Summary) PageURL() string {
	if s.ContentURLs == nil {
		return ""
	}
	return s.ContentURLs.Desktop.Page
}

type Thumbnail struct {
	Source string `json:"source"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

var thumbWidthSegment = regexp.MustCompile(`/(\d+)px-`)

// DefaultUpscaleWidth is the rendition width requested for hero images.
const DefaultUpscaleWidth = 1200

// Upscaled rewrites the first "/<N>px-" segment of a Wikimedia thumbnail URL
// to request a rendition of the given width. URLs without the segment are
// returned unchanged.
func (t Thumbnail) Upscaled(width int) string {
	loc := thumbWidthSegment.FindStringIndex(t.Source)
	if loc == nil {
		return t.Source
	}
	return t.Source[:loc[0]] + "/" + strconv.Itoa(width) + "px-" + t.Source[loc[1]:]
}

type ContentURLs struct {
	Desktop PageURLs `json:"desktop"`
	Mobile  PageURLs `json:"mobile"`
}

type PageURLs struct {
	Page string `json:"page"`
}

// RelatedPages is the REST related-pages document.
type RelatedPages struct {
	Pages []Summary `json:"pages"`
}

// SearchHit is one legacy search result. Snippet is an HTML fragment.
type SearchHit struct {
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
	PageID  int    `json:"pageid"`
}

// searchDocument is the legacy search response envelope.
type searchDocument struct {
	Query struct {
		Search []SearchHit `json:"search"`
	} `json:"query"`
}
