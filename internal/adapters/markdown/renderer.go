package markdown

import (
	"bytes"
	"html"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// Renderer implements ports.Renderer with goldmark
type Renderer struct {
	md goldmark.Markdown
}

// NewRenderer creates a renderer with GitHub flavored Markdown enabled
func NewRenderer() *Renderer {
	return &Renderer{md: newGoldmark()}
}

func newGoldmark() goldmark.Markdown {
	return goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			extension.Typographer,
			&externalLinks{},
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
	)
}

// Render converts a page to HTML. Front matter is not rendered. Raw HTML in
// pages is omitted.
func (r *Renderer) Render(markdown string) string {
	_, body := SplitFrontMatter(markdown)

	var buf bytes.Buffer
	if err := r.md.Convert([]byte(body), &buf); err != nil {
		return "<pre>" + html.EscapeString(markdown) + "</pre>"
	}
	return buf.String()
}

// Title returns the page title from its front matter, or from its first
// level one heading. It returns "" when the page has neither.
func (r *Renderer) Title(markdown string) string {
	fm, body := SplitFrontMatter(markdown)
	if fm != "" {
		var meta struct {
			Title string `yaml:"title"`
		}
		if err := yaml.Unmarshal([]byte(fm), &meta); err == nil && strings.TrimSpace(meta.Title) != "" {
			return strings.TrimSpace(meta.Title)
		}
	}

	source := []byte(body)
	doc := r.md.Parser().Parse(text.NewReader(source))

	var title string
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if h, ok := n.(*ast.Heading); ok && h.Level == 1 {
			title = headingText(h, source)
			return ast.WalkStop, nil
		}
		return ast.WalkContinue, nil
	})
	return title
}

func headingText(h *ast.Heading, source []byte) string {
	var b strings.Builder
	for i := 0; i < h.Lines().Len(); i++ {
		line := h.Lines().At(i)
		b.Write(line.Value(source))
	}
	return strings.TrimSpace(b.String())
}

// SplitFrontMatter separates a leading "---" delimited YAML block from the
// page body. fm is empty when the page has none.
func SplitFrontMatter(markdown string) (fm, body string) {
	normalized := strings.ReplaceAll(markdown, "\r\n", "\n")
	if !strings.HasPrefix(normalized, "---\n") {
		return "", markdown
	}

	rest := normalized[len("---\n"):]
	end := strings.Index(rest, "\n---")
	if end < 0 {
		return "", markdown
	}

	after := rest[end+len("\n---"):]
	if after != "" && after[0] != '\n' {
		return "", markdown
	}
	return rest[:end], strings.TrimPrefix(after, "\n")
}

// externalLinks makes absolute http links open in a new tab
type externalLinks struct{}

func (e *externalLinks) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(parser.WithASTTransformers(
		util.Prioritized(&externalLinksTransformer{}, 100),
	))
}

type externalLinksTransformer struct{}

func (t *externalLinksTransformer) Transform(node *ast.Document, reader text.Reader, pc parser.Context) {
	_ = ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch link := n.(type) {
		case *ast.Link:
			if isExternal(link.Destination) {
				setBlankTarget(link)
			}
		case *ast.AutoLink:
			if link.AutoLinkType == ast.AutoLinkURL && isExternal(link.URL(reader.Source())) {
				setBlankTarget(link)
			}
		}
		return ast.WalkContinue, nil
	})
}

func setBlankTarget(n ast.Node) {
	n.SetAttributeString("target", []byte("_blank"))
	n.SetAttributeString("rel", []byte("noopener noreferrer"))
}

func isExternal(dest []byte) bool {
	d := strings.ToLower(string(dest))
	return strings.HasPrefix(d, "http://") || strings.HasPrefix(d, "https://")
}
