package mdconvert

import (
	"strings"
	"time"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/rohmanhakim/wikicurious/internal/metadata"
	"github.com/rohmanhakim/wikicurious/pkg/failure"
	"golang.org/x/net/html"
)

/*
Conversion Rules
- Input is an article fragment (the summary's extract_html), not a page
- Emphasis, links and lists map to CommonMark
- Tables converted structurally (GFM)
- No inferred structure, DOM order preserved

The output is trimmed and never ends in a newline.
*/

type ConvertRule interface {
	Convert(fragment string) (string, failure.ClassifiedError)
}

var _ ConvertRule = (*StrictConversionRule)(nil)

type StrictConversionRule struct {
	metadataSink metadata.MetadataSink
	conv         *converter.Converter
}

func NewRule(metadataSink metadata.MetadataSink) *StrictConversionRule {
	return &StrictConversionRule{
		metadataSink: metadataSink,
		conv: converter.NewConverter(
			converter.WithPlugins(
				base.NewBasePlugin(),
				commonmark.NewCommonmarkPlugin(),
				table.NewTablePlugin(),
			),
		),
	}
}

func (s *StrictConversionRule) Convert(fragment string) (string, failure.ClassifiedError) {
	markdown, err := s.convert(fragment)
	if err != nil {
		s.metadataSink.RecordError(
			time.Now(),
			"mdconvert",
			"StrictConversionRule.Convert",
			mapConversionErrorToMetadataCause(err),
			err.Error(),
			[]metadata.Attribute{},
		)
		return "", err
	}
	return markdown, nil
}

func (s *StrictConversionRule) convert(fragment string) (string, *ConversionError) {
	if strings.TrimSpace(fragment) == "" {
		return "", nil
	}

	node, err := html.Parse(strings.NewReader(fragment))
	if err != nil {
		return "", &ConversionError{
			Message: err.Error(),
			Cause:   ErrCauseParseFailure,
		}
	}

	tidy(node)

	markdown, err := s.conv.ConvertNode(node)
	if err != nil {
		return "", &ConversionError{
			Message: err.Error(),
			Cause:   ErrCauseConversionFailure,
		}
	}
	return strings.TrimSpace(string(markdown)), nil
}
