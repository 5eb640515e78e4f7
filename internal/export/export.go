package export

import (
	"strings"

	"github.com/rohmanhakim/wikicurious/internal/mdconvert"
	"github.com/rohmanhakim/wikicurious/internal/topic"
)

// DefaultFilename is the name offered for the saved-articles download.
const DefaultFilename = "wikicurious-saved-articles.md"

// ExportAsDocument renders summaries as one Markdown document in list
// order. Each summary becomes a heading block closed by a rule:
//
//	# <title>
//
//	<description>   (only when present)
//
//	<extract>
//
//	---
//
// Text is written as received. An empty input yields "".
func ExportAsDocument(summaries []topic.Summary) string {
	blocks := make([]string, 0, len(summaries))
	for _, s := range summaries {
		blocks = append(blocks, block(s.Title, s.Description, s.Extract))
	}
	return strings.Join(blocks, "\n")
}

type Options struct {
	// Rich renders the body from extract_html when the summary carries it.
	Rich bool
}

type Exporter struct {
	options Options
	rule    mdconvert.ConvertRule
}

func NewExporter(options Options, rule mdconvert.ConvertRule) *Exporter {
	return &Exporter{options: options, rule: rule}
}

// Export is ExportAsDocument with the configured options applied. A summary
// whose HTML cannot be converted falls back to its plain extract.
func (e *Exporter) Export(summaries []topic.Summary) string {
	if !e.options.Rich || e.rule == nil {
		return ExportAsDocument(summaries)
	}
	blocks := make([]string, 0, len(summaries))
	for _, s := range summaries {
		body := s.Extract
		if strings.TrimSpace(s.ExtractHTML) != "" {
			if md, err := e.rule.Convert(s.ExtractHTML); err == nil && md != "" {
				body = md
			}
		}
		blocks = append(blocks, block(s.Title, s.Description, body))
	}
	return strings.Join(blocks, "\n")
}

func block(title, description, body string) string {
	var b strings.Builder
	b.WriteString("# ")
	b.WriteString(title)
	b.WriteString("\n\n")
	if description != "" {
		b.WriteString(description)
		b.WriteString("\n\n")
	}
	b.WriteString(body)
	b.WriteString("\n\n---\n")
	return b.String()
}
