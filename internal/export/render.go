package export

import (
	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

const htmlTitle = "WikiCurious saved articles"

// RenderHTML turns an exported Markdown document into a standalone HTML page.
func RenderHTML(document string) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	doc := p.Parse([]byte(document))

	renderer := html.NewRenderer(html.RendererOptions{
		Title: htmlTitle,
		Flags: html.CommonFlags | html.CompletePage | html.HrefTargetBlank,
	})
	return markdown.Render(doc, renderer)
}
