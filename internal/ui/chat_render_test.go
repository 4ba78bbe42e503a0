package ui

import (
	"strings"
	"testing"
	"time"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/zhubert/widgetchat/internal/message"
)

func plain(s string) string {
	return ansi.Strip(s)
}

func TestRenderMessage_Text(t *testing.T) {
	m := message.Message{Kind: message.KindText, Content: "hello **world**"}
	out := plain(RenderMessage(m, 60))

	if !strings.Contains(out, "Support") {
		t.Errorf("expected default sender label, got:\n%s", out)
	}
	if !strings.Contains(out, "hello world") {
		t.Errorf("expected bold markers removed, got:\n%s", out)
	}
	if strings.Contains(out, "**") {
		t.Errorf("bold markers leaked:\n%s", out)
	}
}

func TestRenderMessage_Labels(t *testing.T) {
	sent := time.Date(2024, 3, 1, 9, 30, 0, 0, time.Local)

	tests := []struct {
		name string
		msg  message.Message
		want string
	}{
		{"self", message.Message{Kind: message.KindText, Content: "hi", Self: true}, "You"},
		{"named sender", message.Message{Kind: message.KindText, Content: "hi", Sender: "Alice"}, "Alice"},
		{"timestamp", message.Message{Kind: message.KindText, Content: "hi", SentAt: sent}, "09:30"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := plain(RenderMessage(tt.msg, 60))
			if !strings.Contains(out, tt.want) {
				t.Errorf("expected %q in:\n%s", tt.want, out)
			}
		})
	}
}

func TestRenderMessage_SelfIsRightAligned(t *testing.T) {
	m := message.Message{Kind: message.KindText, Content: "short", Self: true}
	out := RenderMessage(m, 60)

	for _, line := range strings.Split(out, "\n") {
		if w := lipgloss.Width(line); w != 60 {
			t.Errorf("line width = %d, want 60: %q", w, plain(line))
		}
	}
	first := plain(strings.Split(out, "\n")[0])
	if !strings.HasPrefix(first, " ") {
		t.Errorf("expected left padding on self label, got %q", first)
	}
}

func TestRenderMessage_FitsWidth(t *testing.T) {
	m := message.Message{
		Kind:    message.KindText,
		Content: strings.Repeat("word ", 60),
	}
	for _, line := range strings.Split(RenderMessage(m, 40), "\n") {
		if w := lipgloss.Width(line); w > 40 {
			t.Errorf("line width %d exceeds 40: %q", w, plain(line))
		}
	}
}

func TestRenderMessage_Media(t *testing.T) {
	tests := []struct {
		name string
		msg  message.Message
		want []string
	}{
		{
			name: "image",
			msg: message.Message{Kind: message.KindImage, Media: []message.Media{
				{URL: "https://cdn.example.com/a.png", Name: "a.png", Width: 1000, Height: 500},
			}},
			want: []string{"a.png", "280×140"},
		},
		{
			name: "image without name",
			msg: message.Message{Kind: message.KindImage, Media: []message.Media{
				{URL: "https://cdn.example.com/b.png", Width: 10, Height: 10},
			}},
			want: []string{"image", "48×48"},
		},
		{
			name: "file",
			msg: message.Message{Kind: message.KindFile, Media: []message.Media{
				{URL: "https://cdn.example.com/r.xlsx", Name: "report.xlsx", Size: 2048},
			}},
			want: []string{"report.xlsx", "2.0 KB"},
		},
		{
			name: "file without size",
			msg: message.Message{Kind: message.KindFile, Media: []message.Media{
				{URL: "https://cdn.example.com/r.pdf", Name: "r.pdf"},
			}},
			want: []string{"r.pdf", message.UnknownSizeText},
		},
		{
			name: "grid",
			msg: message.Message{Kind: message.KindImageGrid, Media: []message.Media{
				{URL: "u1"}, {URL: "u2"}, {URL: "u3"}, {URL: "u4"},
			}},
			want: []string{"▦ 4 images", "2×2 medium", "[1] [2]", "[3] [4]"},
		},
		{
			name: "invalid",
			msg:  message.Message{Kind: message.KindImage},
			want: []string{"(unsupported message)"},
		},
		{
			name: "empty text",
			msg:  message.Message{Kind: message.KindText, Content: "   "},
			want: []string{"(empty message)"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := plain(RenderMessage(tt.msg, 80))
			for _, w := range tt.want {
				if !strings.Contains(out, w) {
					t.Errorf("expected %q in:\n%s", w, out)
				}
			}
		})
	}
}

func TestRenderGrid_Overflow(t *testing.T) {
	items := make([]message.Media, 12)
	for i := range items {
		items[i] = message.Media{URL: "u"}
	}
	out := plain(renderGrid(items, 80))
	if !strings.Contains(out, "[9]") {
		t.Errorf("expected nine cells, got:\n%s", out)
	}
	if strings.Contains(out, "[10]") {
		t.Errorf("expected cells capped at nine, got:\n%s", out)
	}
	if !strings.Contains(out, "+3 more") {
		t.Errorf("expected overflow note, got:\n%s", out)
	}
}

func TestRenderMarkdown_Indentation(t *testing.T) {
	out := plain(renderMarkdown("  indented line\nplain", 80))
	lines := strings.Split(out, "\n")
	if lines[0] != "indented line" {
		t.Errorf("first line = %q, want leading spaces stripped", lines[0])
	}
}

func TestRenderMarkdown_CodeBlocks(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"backticks", "```go\nfmt.Println(1)\n```", "fmt.Println(1)"},
		{"tildes", "~~~\nplain code\n~~~", "plain code"},
		{"unterminated", "before\n```python\nprint('x')", "print('x')"},
		{"unknown language", "```nosuchlang\nx := 1\n```", "x := 1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := plain(renderMarkdown(tt.input, 80))
			if !strings.Contains(out, tt.want) {
				t.Errorf("expected %q in:\n%s", tt.want, out)
			}
			if strings.Contains(out, "```") || strings.Contains(out, "~~~") {
				t.Errorf("fence markers leaked:\n%s", out)
			}
		})
	}
}

func TestRenderMarkdownLine(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"# Title", "Title"},
		{"## Sub", "Sub"},
		{"- item", "• item"},
		{"* item", "• item"},
		{"- [ ] todo", "☐ todo"},
		{"- [x] done", "☑ done"},
		{"12. twelfth", "12. twelfth"},
		{"> quoted", "quoted"},
		{"see [docs](https://example.com)", "docs (https://example.com)"},
		{"use `a_b_c` here", "a_b_c"},
		{"~~gone~~", "gone"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			out := plain(renderMarkdownLine(tt.input, 80))
			if !strings.Contains(out, tt.want) {
				t.Errorf("renderMarkdownLine(%q) = %q, want it to contain %q", tt.input, out, tt.want)
			}
		})
	}
}

func TestRenderInlineMarkdown_IdentifierUnderscores(t *testing.T) {
	out := plain(renderInlineMarkdown("call foo_bar_baz now"))
	if out != "call foo_bar_baz now" {
		t.Errorf("identifier underscores changed: %q", out)
	}
}

func TestHighlightCode_UnknownLanguage(t *testing.T) {
	out := plain(highlightCode("let x = 1", "definitely-not-a-language"))
	if out != "let x = 1" {
		t.Errorf("highlightCode() = %q", out)
	}
}

func TestBubbleWidth(t *testing.T) {
	tests := []struct {
		width, want int
	}{
		{100, 80},
		{50, 40},
		{22, 20},
		{10, 10},
	}
	for _, tt := range tests {
		if got := bubbleWidth(tt.width); got != tt.want {
			t.Errorf("bubbleWidth(%d) = %d, want %d", tt.width, got, tt.want)
		}
	}
}
