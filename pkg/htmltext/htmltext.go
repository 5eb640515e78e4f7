// Package htmltext flattens small HTML fragments returned by the upstream
// search API (snippets with highlight spans, entity-escaped quotes) into
// plain text suitable for a terminal.
package htmltext

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// PlainText returns the text content of an HTML fragment with runs of
// whitespace collapsed to a single space. Unparseable input is returned
// trimmed but otherwise untouched.
func PlainText(fragment string) string {
	if strings.TrimSpace(fragment) == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return strings.TrimSpace(fragment)
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}
