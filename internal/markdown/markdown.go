// Package markdown renders the small Markdown subset supported by the page editor.
//
// The engine is goldmark restricted to ATX headings, bullet and ordered lists,
// paragraphs, emphasis, links, images and code spans. Headings deeper than ###
// fall back to paragraph text. Raw HTML is never parsed, so it reaches the output
// escaped. The same function drives the live preview and the published page.
package markdown

import (
	"bytes"
	"html"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// maxHeadingLevel is the deepest heading rendered as a heading element.
const maxHeadingLevel = 3

var engine = newEngine()

func newEngine() goldmark.Markdown {
	p := parser.NewParser(
		parser.WithBlockParsers(
			util.Prioritized(parser.NewListParser(), 300),
			util.Prioritized(parser.NewListItemParser(), 400),
			util.Prioritized(parser.NewATXHeadingParser(), 600),
			util.Prioritized(parser.NewParagraphParser(), 1000),
		),
		parser.WithInlineParsers(
			util.Prioritized(parser.NewCodeSpanParser(), 100),
			util.Prioritized(parser.NewLinkParser(), 200),
			util.Prioritized(parser.NewEmphasisParser(), 500),
		),
		parser.WithASTTransformers(
			util.Prioritized(pageTransformer{}, 100),
		),
	)

	return goldmark.New(goldmark.WithParser(p))
}

// Render converts Markdown source into an HTML fragment without a trailing newline.
func Render(source string) string {
	normalized := strings.ReplaceAll(source, "\r\n", "\n")

	var buf bytes.Buffer
	if err := engine.Convert([]byte(normalized), &buf); err != nil {
		return "<p>" + html.EscapeString(normalized) + "</p>"
	}
	return strings.TrimRight(buf.String(), "\n")
}

// pageTransformer demotes deep headings and opens links in a new tab.
type pageTransformer struct{}

func (pageTransformer) Transform(doc *ast.Document, _ text.Reader, _ parser.Context) {
	var deep []*ast.Heading

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *ast.Heading:
			if node.Level > maxHeadingLevel {
				deep = append(deep, node)
			}
		case *ast.Link:
			// RenderAttributes expects []byte values.
			node.SetAttributeString("target", []byte("_blank"))
			node.SetAttributeString("rel", []byte("noopener noreferrer"))
		}
		return ast.WalkContinue, nil
	})

	for _, heading := range deep {
		demoteHeading(heading)
	}
}

// demoteHeading swaps heading for a paragraph that keeps its marker as text.
func demoteHeading(heading *ast.Heading) {
	parent := heading.Parent()
	if parent == nil {
		return
	}

	para := ast.NewParagraph()
	para.AppendChild(para, ast.NewString([]byte(strings.Repeat("#", heading.Level)+" ")))
	for child := heading.FirstChild(); child != nil; {
		next := child.NextSibling()
		para.AppendChild(para, child)
		child = next
	}

	parent.ReplaceChild(parent, heading, para)
}
