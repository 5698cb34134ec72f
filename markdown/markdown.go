// Package markdown renders post bodies to HTML and exposes them as templ
// components. Code blocks are highlighted with chroma classes so a single
// rendering serves both the light and the dark palette.
package markdown

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/a-h/templ"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
)

// Palettes used for code blocks.
const (
	LightStyle = "catppuccin-latte"
	DarkStyle  = "catppuccin-mocha"
)

// Renderer converts Markdown to HTML.
type Renderer struct {
	md         goldmark.Markdown
	lightStyle string
	darkStyle  string
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithStyles overrides the chroma styles for the light and dark palettes.
func WithStyles(light, dark string) Option {
	return func(r *Renderer) {
		r.lightStyle = light
		r.darkStyle = dark
	}
}

// New returns a Renderer with GFM, heading IDs and class-based highlighting.
func New(opts ...Option) *Renderer {
	r := &Renderer{lightStyle: LightStyle, darkStyle: DarkStyle}
	for _, opt := range opts {
		opt(r)
	}
	r.md = goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			highlighting.NewHighlighting(
				highlighting.WithStyle(r.lightStyle),
				highlighting.WithFormatOptions(chromahtml.WithClasses(true)),
			),
		),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
	)
	return r
}

// Render returns the HTML for src.
func (r *Renderer) Render(src []byte) (string, error) {
	var buf bytes.Buffer
	if err := r.md.Convert(src, &buf); err != nil {
		return "", fmt.Errorf("markdown: convert: %w", err)
	}
	return buf.String(), nil
}

// StyleSheet returns the code highlighting CSS: the light palette
// unscoped, the dark palette under the .dark root class.
func (r *Renderer) StyleSheet() (string, error) {
	formatter := chromahtml.New(chromahtml.WithClasses(true))

	var light, dark bytes.Buffer
	if err := formatter.WriteCSS(&light, styles.Get(r.lightStyle)); err != nil {
		return "", fmt.Errorf("markdown: light css: %w", err)
	}
	if err := formatter.WriteCSS(&dark, styles.Get(r.darkStyle)); err != nil {
		return "", fmt.Errorf("markdown: dark css: %w", err)
	}
	return light.String() + "\n" + scopeDark.Replace(dark.String()), nil
}

var scopeDark = strings.NewReplacer(".chroma", ".dark .chroma", ".bg ", ".dark .bg ")

// HTML returns a component that writes already rendered HTML verbatim.
func HTML(rendered string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, rendered)
		return err
	})
}
