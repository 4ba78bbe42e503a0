// Package markdown converts chat message text into HTML.
//
// Rendering happens in three steps:
//
//  1. Preprocess: unless the text contains a fenced code block, shallow
//     (1-4 space) indentation is stripped so copy-pasted chat text is not
//     turned into an indented code block.
//  2. Parse with goldmark using GFM (tables, strikethrough, task lists,
//     autolinks) and hard line breaks.
//  3. Fenced code is highlighted with chroma by declared language, falling
//     back to plain text.
//
// Render never fails. Any parser or highlighter error, including a panic,
// degrades to the raw text escaped inside a <pre> block.
//
// goldmark's escaping is the only sanitization step. Raw HTML in messages is
// not passed through (the renderer's unsafe mode stays off) and dangerous
// link schemes are dropped by goldmark itself.
package markdown

import (
	"bytes"
	"fmt"
	"html"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer"
	goldmarkhtml "github.com/yuin/goldmark/renderer/html"

	"github.com/zhubert/widgetchat/internal/errors"
	"github.com/zhubert/widgetchat/internal/logger"
	"github.com/zhubert/widgetchat/internal/metrics"
)

// DefaultStyle is the chroma style used when none is configured.
const DefaultStyle = "github"

// Renderer converts markdown to HTML. It is safe for concurrent use.
type Renderer struct {
	md        goldmark.Markdown
	styleName string
}

// Option configures a Renderer.
type Option func(*rendererOptions)

type rendererOptions struct {
	style     string
	hardWraps bool
}

// WithStyle selects the chroma style for fenced code.
func WithStyle(name string) Option {
	return func(o *rendererOptions) {
		o.style = name
	}
}

// WithHardWraps controls whether a single newline becomes <br>. On by default.
func WithHardWraps(enabled bool) Option {
	return func(o *rendererOptions) {
		o.hardWraps = enabled
	}
}

// New creates a Renderer.
func New(opts ...Option) *Renderer {
	o := rendererOptions{style: DefaultStyle, hardWraps: true}
	for _, opt := range opts {
		opt(&o)
	}

	var htmlOpts []renderer.Option
	if o.hardWraps {
		htmlOpts = append(htmlOpts, goldmarkhtml.WithHardWraps())
	}

	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRendererOptions(htmlOpts...),
		goldmark.WithRendererOptions(codeBlockExtension(styleFor(o.style))),
	)

	return &Renderer{
		md:        md,
		styleName: o.style,
	}
}

// Style returns the chroma style name in use.
func (r *Renderer) Style() string {
	return r.styleName
}

// Render converts text to HTML. It never panics and never returns an error.
func (r *Renderer) Render(text string) string {
	if text == "" {
		return ""
	}

	start := time.Now()
	out, err := r.convert(Preprocess(text))
	metrics.MarkdownRenderDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.MarkdownFallbacks.Inc()
		logger.ComponentLogger("markdown").Warn("markdown render fell back to preformatted text", "error", err, "bytes", len(text))
		return Fallback(text)
	}
	return out
}

// convert runs goldmark, turning panics from extensions into errors.
func (r *Renderer) convert(source string) (out string, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = errors.MarkdownRenderFailed(fmt.Errorf("panic: %v", p))
		}
	}()

	var buf bytes.Buffer
	if err := r.md.Convert([]byte(source), &buf); err != nil {
		return "", errors.MarkdownRenderFailed(err)
	}
	return buf.String(), nil
}

// Fallback is the degraded rendering used when conversion fails.
func Fallback(text string) string {
	return "<pre>" + html.EscapeString(text) + "</pre>"
}

var defaultRenderer = New()

// Render converts text to HTML with the default renderer.
func Render(text string) string {
	return defaultRenderer.Render(text)
}
