package message

import (
	"bytes"
	"html"
	"html/template"

	"github.com/zhubert/widgetchat/internal/errors"
	"github.com/zhubert/widgetchat/internal/logger"
	"github.com/zhubert/widgetchat/internal/markdown"
	"github.com/zhubert/widgetchat/internal/metrics"
)

// Rendered is the output of a rendering strategy: an HTML fragment plus the
// derived descriptor the presentation layer needs for that kind.
type Rendered struct {
	Kind   Kind        `json:"kind"`
	HTML   string      `json:"html"`
	Image  *Size       `json:"image,omitempty"`
	Layout *GridLayout `json:"layout,omitempty"`
	File   *FileInfo   `json:"file,omitempty"`
}

// TextRenderer converts message text into HTML.
type TextRenderer interface {
	Render(text string) string
}

// Dispatcher selects a rendering strategy per message kind.
type Dispatcher struct {
	text TextRenderer
}

// NewDispatcher creates a Dispatcher using r for text and mixed messages.
// A nil r uses the default markdown renderer.
func NewDispatcher(r TextRenderer) *Dispatcher {
	if r == nil {
		r = markdownRenderer{}
	}
	return &Dispatcher{text: r}
}

type markdownRenderer struct{}

func (markdownRenderer) Render(text string) string { return markdown.Render(text) }

var (
	imageTmpl = template.Must(template.New("image").Parse(
		`<img class="msg-image" src="{{.URL}}" alt="{{.Alt}}" width="{{.Width}}" height="{{.Height}}" loading="lazy" data-fallback="{{.Fallback}}">`))

	fileTmpl = template.Must(template.New("file").Parse(
		`<a class="msg-file file-{{.Icon}}" href="{{.URL}}" target="_blank" rel="noopener noreferrer">` +
			`<span class="file-icon">{{.Glyph}}</span>` +
			`<span class="file-name">{{.Name}}</span>` +
			`<span class="file-size">{{.Size}}</span></a>`))

	gridTmpl = template.Must(template.New("grid").Parse(
		`<div class="msg-grid grid-{{.Layout.Size}}" data-columns="{{.Layout.Columns}}" data-rows="{{.Layout.Rows}}">` +
			`{{range .Items}}<img class="grid-item" src="{{.URL}}" alt="{{.Name}}" loading="lazy" data-fallback="{{$.Fallback}}">{{end}}` +
			`</div>`))

	bubbleTmpl = template.Must(template.New("bubble").Parse(
		`<div class="msg msg-{{.Origin}} msg-{{.Kind}}" data-id="{{.ID}}">{{.Body}}</div>`))
)

// Dispatch renders m with the strategy for its kind.
func (d *Dispatcher) Dispatch(m Message) (Rendered, error) {
	if err := m.Validate(); err != nil {
		return Rendered{}, err
	}

	var (
		r   Rendered
		err error
	)
	switch m.Kind {
	case KindText, KindMixed:
		r = Rendered{Kind: m.Kind, HTML: d.text.Render(m.Content)}
	case KindImage:
		r, err = renderImage(m.Media[0])
	case KindFile:
		r, err = renderFile(m.Media[0])
	case KindImageGrid:
		r, err = renderGrid(m.Media)
	default:
		return Rendered{}, errors.UnknownMessageKind(m.Kind.String())
	}
	if err != nil {
		return Rendered{}, errors.E(errors.Op("message.Dispatch"), errors.KindRender, err)
	}

	metrics.MessagesRendered.WithLabelValues(m.Kind.String()).Inc()
	return r, nil
}

func renderImage(media Media) (Rendered, error) {
	size := ImageDisplaySize(media.Width, media.Height)
	var buf bytes.Buffer
	err := imageTmpl.Execute(&buf, struct {
		URL, Alt, Fallback string
		Width, Height      int
	}{media.URL, media.Name, ImageFailedText, size.Width, size.Height})
	if err != nil {
		return Rendered{}, err
	}
	return Rendered{Kind: KindImage, HTML: buf.String(), Image: &size}, nil
}

func renderFile(media Media) (Rendered, error) {
	info := DescribeFile(media)
	var buf bytes.Buffer
	err := fileTmpl.Execute(&buf, struct {
		FileInfo
		Glyph string
	}{info, info.Icon.Glyph()})
	if err != nil {
		return Rendered{}, err
	}
	return Rendered{Kind: KindFile, HTML: buf.String(), File: &info}, nil
}

func renderGrid(items []Media) (Rendered, error) {
	layout := GridLayoutFor(len(items))
	var buf bytes.Buffer
	err := gridTmpl.Execute(&buf, struct {
		Layout   GridLayout
		Items    []Media
		Fallback string
	}{layout, items, ImageFailedText})
	if err != nil {
		return Rendered{}, err
	}
	return Rendered{Kind: KindImageGrid, HTML: buf.String(), Layout: &layout}, nil
}

// RenderHTML renders m wrapped in its chat bubble. Dispatch failures degrade
// to an escaped text bubble rather than an error.
func (d *Dispatcher) RenderHTML(m Message) string {
	body := ""
	r, err := d.Dispatch(m)
	if err != nil {
		logger.ComponentLogger("message").Warn("dispatch failed, rendering as text", "id", m.ID, "kind", m.Kind.String(), "error", err)
		body = "<p>" + html.EscapeString(m.Content) + "</p>"
	} else {
		body = r.HTML
	}

	kind := m.Kind.String()
	var buf bytes.Buffer
	err = bubbleTmpl.Execute(&buf, struct {
		Origin Origin
		Kind   string
		ID     string
		Body   template.HTML
	}{m.Origin(), kind, m.ID, template.HTML(body)})
	if err != nil {
		return "<div class=\"msg\">" + html.EscapeString(m.Content) + "</div>"
	}
	return buf.String()
}

var defaultDispatcher = NewDispatcher(nil)

// Dispatch renders m with the default dispatcher.
func Dispatch(m Message) (Rendered, error) {
	return defaultDispatcher.Dispatch(m)
}

// RenderHTML renders m in its bubble with the default dispatcher.
func RenderHTML(m Message) string {
	return defaultDispatcher.RenderHTML(m)
}
