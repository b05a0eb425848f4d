// Package render turns parsed annotation output into HTML: section bodies
// through goldmark, the stripped code buffer through chroma with per-line
// anchors so the viewer can address and highlight individual lines.
package render

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

// Renderer converts section bodies and stripped code into HTML fragments.
type Renderer struct {
	md    goldmark.Markdown
	style *chroma.Style
}

// New creates a Renderer using the given chroma style name for both the
// fenced samples inside section bodies and the code pane.
func New(theme string) *Renderer {
	style := styles.Get(theme)
	if style == nil {
		style = styles.Fallback
	}

	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			highlighting.NewHighlighting(
				highlighting.WithStyle(theme),
			),
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			html.WithUnsafe(),
		),
	)

	return &Renderer{md: md, style: style}
}

// Markdown renders a section body (markdown with embedded fenced code
// samples) to HTML.
func (r *Renderer) Markdown(body string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(body), &buf); err != nil {
		return "", fmt.Errorf("rendering markdown: %w", err)
	}
	return template.HTML(buf.String()), nil
}

// Code renders the stripped code buffer with syntax highlighting, line
// numbers, and linkable per-line anchors. language is the walker-detected
// language name; unknown languages fall back to plain text.
func (r *Renderer) Code(source, language string) (template.HTML, error) {
	lexer := lexers.Get(language)
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	formatter := chromahtml.New(
		chromahtml.WithLineNumbers(true),
		chromahtml.WithLinkableLineNumbers(true, "L-"),
	)

	iterator, err := lexer.Tokenise(nil, source)
	if err != nil {
		return "", fmt.Errorf("tokenising code: %w", err)
	}

	var buf bytes.Buffer
	if err := formatter.Format(&buf, r.style, iterator); err != nil {
		return "", fmt.Errorf("formatting code: %w", err)
	}
	return template.HTML(buf.String()), nil
}
