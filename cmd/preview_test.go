package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"

	"github.com/zhubert/widgetchat/internal/message"
)

var previewMessages = []message.Message{
	{ID: "1", Kind: message.KindText, Content: "Hello, how can we help?", Sender: "Support"},
	{ID: "2", Kind: message.KindText, Content: "My `build` fails", Self: true},
	{ID: "3", Kind: message.KindFile, Media: []message.Media{{URL: "https://cdn.example.com/log.txt", Name: "log.txt", Size: 512}}},
}

func TestWriteTerminalPreview(t *testing.T) {
	var out bytes.Buffer
	if err := writeTerminalPreview(&out, previewMessages, 60); err != nil {
		t.Fatalf("writeTerminalPreview() error = %v", err)
	}
	text := ansi.Strip(out.String())
	for _, want := range []string{"Hello, how can we help?", "You", "build", "log.txt", "512.0 B"} {
		if !strings.Contains(text, want) {
			t.Errorf("expected %q in:\n%s", want, text)
		}
	}
}

func TestWriteHTMLPreview(t *testing.T) {
	var out bytes.Buffer
	if err := writeHTMLPreview(&out, previewMessages, "github"); err != nil {
		t.Fatalf("writeHTMLPreview() error = %v", err)
	}
	html := out.String()
	for _, want := range []string{
		"<!DOCTYPE html>",
		".chroma",
		`class="msg msg-other msg-text" data-id="1"`,
		`class="msg msg-self msg-text" data-id="2"`,
		"<code>build</code>",
		`rel="noopener noreferrer"`,
	} {
		if !strings.Contains(html, want) {
			t.Errorf("expected %q in output", want)
		}
	}
}
