package message

import (
	"strings"
	"testing"

	"github.com/zhubert/widgetchat/internal/errors"
)

type recordingRenderer struct {
	calls []string
}

func (r *recordingRenderer) Render(text string) string {
	r.calls = append(r.calls, text)
	return "<p>" + text + "</p>"
}

func TestDispatch_TextAndMixedUseTextRenderer(t *testing.T) {
	rec := &recordingRenderer{}
	d := NewDispatcher(rec)

	for _, k := range []Kind{KindText, KindMixed} {
		r, err := d.Dispatch(Message{ID: "1", Kind: k, Content: "hello"})
		if err != nil {
			t.Fatalf("Dispatch(%v) error = %v", k, err)
		}
		if r.Kind != k || r.HTML != "<p>hello</p>" {
			t.Errorf("Dispatch(%v) = %+v", k, r)
		}
		if r.Image != nil || r.Layout != nil || r.File != nil {
			t.Errorf("text strategy should not set descriptors: %+v", r)
		}
	}
	if len(rec.calls) != 2 {
		t.Errorf("text renderer called %d times, want 2", len(rec.calls))
	}
}

func TestDispatch_Image(t *testing.T) {
	r, err := Dispatch(Message{Kind: KindImage, Media: []Media{{URL: "https://cdn/a.png", Name: "a", Width: 1000, Height: 500}}})
	if err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if r.Image == nil || *r.Image != (Size{280, 140}) {
		t.Fatalf("Image = %+v, want 280x140", r.Image)
	}
	for _, want := range []string{`src="https://cdn/a.png"`, `width="280"`, `height="140"`, `data-fallback="image failed to load"`} {
		if !strings.Contains(r.HTML, want) {
			t.Errorf("HTML %q missing %q", r.HTML, want)
		}
	}
}

func TestDispatch_ImageRejectsScriptURL(t *testing.T) {
	r, err := Dispatch(Message{Kind: KindImage, Media: []Media{{URL: "javascript:alert(1)"}}})
	if err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if strings.Contains(r.HTML, "javascript:") {
		t.Errorf("unsafe URL leaked into HTML: %q", r.HTML)
	}
}

func TestDispatch_File(t *testing.T) {
	r, err := Dispatch(Message{Kind: KindFile, Media: []Media{{URL: "https://cdn/q3.xlsx", Name: "q3.xlsx", Size: 2048}}})
	if err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if r.File == nil || r.File.Icon != IconExcel || r.File.Size != "2.0 KB" {
		t.Fatalf("File = %+v", r.File)
	}
	for _, want := range []string{`target="_blank"`, `rel="noopener noreferrer"`, "file-excel", "q3.xlsx", "2.0 KB"} {
		if !strings.Contains(r.HTML, want) {
			t.Errorf("HTML %q missing %q", r.HTML, want)
		}
	}
}

func TestDispatch_FileNameIsEscaped(t *testing.T) {
	r, err := Dispatch(Message{Kind: KindFile, Media: []Media{{URL: "https://cdn/x", Name: "<img onerror=x>.pdf"}}})
	if err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if strings.Contains(r.HTML, "<img") {
		t.Errorf("file name not escaped: %q", r.HTML)
	}
}

func TestDispatch_Grid(t *testing.T) {
	items := []Media{{URL: "https://cdn/1"}, {URL: "https://cdn/2"}, {URL: "https://cdn/3"}, {URL: "https://cdn/4"}}
	r, err := Dispatch(Message{Kind: KindImageGrid, Media: items})
	if err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if r.Layout == nil || *r.Layout != (GridLayout{2, 2, GridMedium}) {
		t.Fatalf("Layout = %+v", r.Layout)
	}
	if n := strings.Count(r.HTML, `class="grid-item"`); n != 4 {
		t.Errorf("grid items = %d, want 4", n)
	}
	if !strings.Contains(r.HTML, "grid-medium") {
		t.Errorf("HTML missing size class: %q", r.HTML)
	}
}

func TestDispatch_GridAboveNineKeepsAllItems(t *testing.T) {
	items := make([]Media, 12)
	for i := range items {
		items[i] = Media{URL: "https://cdn/x"}
	}
	r, err := Dispatch(Message{Kind: KindImageGrid, Media: items})
	if err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if n := strings.Count(r.HTML, `class="grid-item"`); n != 12 {
		t.Errorf("grid items = %d, want 12", n)
	}
}

func TestDispatch_InvalidMessages(t *testing.T) {
	tests := []struct {
		name string
		msg  Message
	}{
		{"zero kind", Message{Content: "x"}},
		{"image without media", Message{Kind: KindImage}},
		{"file without url", Message{Kind: KindFile, Media: []Media{{Name: "a"}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Dispatch(tt.msg)
			if !errors.Is(err, errors.KindInvalid) {
				t.Errorf("Dispatch() error = %v, want KindInvalid", err)
			}
		})
	}
}

func TestRenderHTML_Bubble(t *testing.T) {
	got := RenderHTML(Message{ID: "abc", Kind: KindText, Content: "**hi**", Self: true})
	for _, want := range []string{`class="msg msg-self msg-text"`, `data-id="abc"`, "<strong>hi</strong>"} {
		if !strings.Contains(got, want) {
			t.Errorf("RenderHTML = %q, missing %q", got, want)
		}
	}
}

func TestRenderHTML_DegradesOnDispatchError(t *testing.T) {
	got := RenderHTML(Message{ID: "x", Kind: KindImage, Content: "<b>caption</b>"})
	if !strings.Contains(got, "&lt;b&gt;caption&lt;/b&gt;") {
		t.Errorf("degraded bubble should carry escaped content: %q", got)
	}
	if !strings.Contains(got, "msg-other") {
		t.Errorf("degraded bubble missing origin class: %q", got)
	}
}
