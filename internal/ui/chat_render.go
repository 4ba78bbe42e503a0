package ui

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/wordwrap"

	"github.com/zhubert/widgetchat/internal/markdown"
	"github.com/zhubert/widgetchat/internal/message"
)

// Compiled regex patterns for inline markdown
var (
	boldPattern       = regexp.MustCompile(`\*\*([^*]+)\*\*`)
	strikePattern     = regexp.MustCompile(`~~([^~]+)~~`)
	underscoreItalic  = regexp.MustCompile(`(^|[^a-zA-Z0-9_])_([^_]+)_([^a-zA-Z0-9_]|$)`)
	inlineCodePattern = regexp.MustCompile("`([^`]+)`")
	linkPattern       = regexp.MustCompile(`\[([^\]]+)\]\(([^)]+)\)`)
	orderedItem       = regexp.MustCompile(`^(\d{1,3})\. (.*)$`)
)

// highlightCode applies syntax highlighting to code using chroma
func highlightCode(code, language string) string {
	lexer := lexers.Get(language)
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	style := styles.Get(CurrentTheme().CodeStyle)
	if style == nil {
		style = styles.Fallback
	}

	formatter := formatters.Get("terminal256")
	if formatter == nil {
		formatter = formatters.Fallback
	}

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return code
	}

	var buf bytes.Buffer
	if err := formatter.Format(&buf, style, iterator); err != nil {
		return code
	}

	return strings.TrimRight(buf.String(), "\n")
}

// renderInlineMarkdown applies inline formatting (bold, italic, code, links) to a line
func renderInlineMarkdown(line string) string {
	// Code spans are swapped for placeholders so nothing formats inside them.
	var codeSpans []string
	line = inlineCodePattern.ReplaceAllStringFunc(line, func(match string) string {
		code := inlineCodePattern.FindStringSubmatch(match)[1]
		codeSpans = append(codeSpans, MarkdownInlineCodeStyle.Render(code))
		return fmt.Sprintf("\x00CODE%d\x00", len(codeSpans)-1)
	})

	line = boldPattern.ReplaceAllStringFunc(line, func(match string) string {
		return MarkdownBoldStyle.Render(boldPattern.FindStringSubmatch(match)[1])
	})

	line = strikePattern.ReplaceAllStringFunc(line, func(match string) string {
		return MarkdownItalicStyle.Strikethrough(true).Italic(false).Render(strikePattern.FindStringSubmatch(match)[1])
	})

	// Underscores only at word boundaries, not in identifiers like foo_bar_baz
	line = underscoreItalic.ReplaceAllStringFunc(line, func(match string) string {
		sub := underscoreItalic.FindStringSubmatch(match)
		return sub[1] + MarkdownItalicStyle.Render(sub[2]) + sub[3]
	})

	line = linkPattern.ReplaceAllStringFunc(line, func(match string) string {
		parts := linkPattern.FindStringSubmatch(match)
		return MarkdownLinkStyle.Render(parts[1]) + " (" + MarkdownLinkStyle.Render(parts[2]) + ")"
	})

	for i, rendered := range codeSpans {
		line = strings.Replace(line, fmt.Sprintf("\x00CODE%d\x00", i), rendered, 1)
	}
	return line
}

// wrapText wraps text to the specified width, handling ANSI escape codes
func wrapText(text string, width int) string {
	if width <= 0 {
		return text
	}
	return wordwrap.String(text, width)
}

// indentContinuation indents every line after the first by n spaces.
func indentContinuation(s string, n int) string {
	lines := strings.Split(s, "\n")
	for i := 1; i < len(lines); i++ {
		lines[i] = strings.Repeat(" ", n) + lines[i]
	}
	return strings.Join(lines, "\n")
}

// renderMarkdownLine renders a single line with markdown formatting
func renderMarkdownLine(line string, width int) string {
	trimmed := strings.TrimSpace(line)

	// Headers - don't wrap, they should be concise
	switch {
	case strings.HasPrefix(trimmed, "### "):
		return MarkdownH3Style.Render(strings.TrimPrefix(trimmed, "### "))
	case strings.HasPrefix(trimmed, "## "):
		return MarkdownH2Style.Render(strings.TrimPrefix(trimmed, "## "))
	case strings.HasPrefix(trimmed, "# "):
		return MarkdownH1Style.Render(strings.TrimPrefix(trimmed, "# "))
	}

	if trimmed == "---" || trimmed == "***" || trimmed == "___" {
		return MarkdownHRStyle.Render(strings.Repeat("─", max(min(width, 32), 3)))
	}

	if strings.HasPrefix(trimmed, "> ") {
		content := strings.TrimPrefix(trimmed, "> ")
		return MarkdownBlockquoteStyle.Render(wrapText(renderInlineMarkdown(content), width-4))
	}

	if strings.HasPrefix(trimmed, "- [ ] ") || strings.HasPrefix(trimmed, "- [x] ") {
		box := "☐"
		if trimmed[3] == 'x' {
			box = "☑"
		}
		wrapped := wrapText(renderInlineMarkdown(trimmed[6:]), width-6)
		return "  " + MarkdownListBulletStyle.Render(box) + " " + indentContinuation(wrapped, 4)
	}

	if strings.HasPrefix(trimmed, "- ") || strings.HasPrefix(trimmed, "* ") {
		wrapped := wrapText(renderInlineMarkdown(trimmed[2:]), width-6)
		return "  " + MarkdownListBulletStyle.Render("•") + " " + indentContinuation(wrapped, 4)
	}

	if m := orderedItem.FindStringSubmatch(trimmed); m != nil {
		wrapped := wrapText(renderInlineMarkdown(m[2]), width-6)
		return "  " + MarkdownListBulletStyle.Render(m[1]+".") + " " + indentContinuation(wrapped, len(m[1])+4)
	}

	return wrapText(renderInlineMarkdown(line), width)
}

func fenceOpen(line string) (lang string, ok bool) {
	t := strings.TrimSpace(line)
	for _, marker := range []string{"```", "~~~"} {
		if strings.HasPrefix(t, marker) {
			return strings.TrimSpace(strings.TrimLeft(t, marker[:1])), true
		}
	}
	return "", false
}

// renderMarkdown renders markdown content with syntax-highlighted code
// blocks. Indentation is normalized the same way as for HTML rendering.
func renderMarkdown(content string, width int) string {
	if width <= 0 {
		width = DefaultWrapWidth
	}
	content = markdown.Preprocess(content)

	var result strings.Builder
	inCodeBlock := false
	codeBlockLang := ""
	var code strings.Builder

	flushCode := func() {
		if result.Len() > 0 {
			result.WriteString("\n")
		}
		result.WriteString(highlightCode(code.String(), codeBlockLang))
		result.WriteString("\n")
	}

	for _, line := range strings.Split(content, "\n") {
		if lang, ok := fenceOpen(line); ok {
			if !inCodeBlock {
				inCodeBlock = true
				codeBlockLang = lang
				code.Reset()
			} else {
				inCodeBlock = false
				flushCode()
				codeBlockLang = ""
			}
			continue
		}

		if inCodeBlock {
			if code.Len() > 0 {
				code.WriteString("\n")
			}
			code.WriteString(line)
			continue
		}
		result.WriteString(renderMarkdownLine(line, width))
		result.WriteString("\n")
	}

	// An unterminated fence still shows its code.
	if inCodeBlock {
		flushCode()
	}

	return strings.TrimRight(result.String(), "\n")
}

// bubbleWidth returns the outer width of a message bubble in a view of the
// given width.
func bubbleWidth(width int) int {
	w := max(width*BubbleWidthRatio/100, MinBubbleWidth)
	return min(w, width)
}

// RenderMessage renders m for a terminal of the given width. The visitor's
// own messages are right-aligned.
func RenderMessage(m message.Message, width int) string {
	if width <= 0 {
		width = DefaultWrapWidth
	}
	inner := max(bubbleWidth(width)-BubblePadding-2, 1)

	style := OtherBubbleStyle
	if m.Self {
		style = SelfBubbleStyle
	}
	block := messageLabel(m) + "\n" + style.Render(renderBody(m, inner))

	if m.Self {
		return lipgloss.PlaceHorizontal(width, lipgloss.Right, block)
	}
	return block
}

func messageLabel(m message.Message) string {
	var label string
	switch {
	case m.Self:
		label = SelfLabelStyle.Render("You")
	case m.Sender != "":
		label = OtherLabelStyle.Render(m.Sender)
	default:
		label = OtherLabelStyle.Render("Support")
	}
	if !m.SentAt.IsZero() {
		label += " " + TimestampStyle.Render(m.SentAt.Local().Format("15:04"))
	}
	return label
}

func renderBody(m message.Message, width int) string {
	if err := m.Validate(); err != nil {
		return MediaMetaStyle.Render("(unsupported message)")
	}
	switch m.Kind {
	case message.KindText, message.KindMixed:
		if strings.TrimSpace(m.Content) == "" {
			return MediaMetaStyle.Render("(empty message)")
		}
		return renderMarkdown(m.Content, width)
	case message.KindImage:
		return renderImage(m.Media[0], width)
	case message.KindFile:
		return renderFile(m.Media[0], width)
	case message.KindImageGrid:
		return renderGrid(m.Media, width)
	}
	return ""
}

func renderImage(media message.Media, width int) string {
	size := message.ImageDisplaySize(media.Width, media.Height)
	name := media.Name
	if name == "" {
		name = "image"
	}
	title := MediaStyle.Render("🖼  " + runewidth.Truncate(name, MaxFileNameWidth, "…"))
	meta := MediaMetaStyle.Render(fmt.Sprintf("%d×%d  %s", size.Width, size.Height, ansi.Truncate(media.URL, max(width-12, 8), "…")))
	return title + "\n" + meta
}

func renderFile(media message.Media, width int) string {
	info := message.DescribeFile(media)
	name := runewidth.Truncate(info.Name, min(MaxFileNameWidth, max(width-3, 4)), "…")
	title := MediaStyle.Render(info.Icon.Glyph() + " " + name)
	meta := MediaMetaStyle.Render(info.Size + " · " + info.Icon.String())
	return title + "\n" + meta
}

func renderGrid(items []message.Media, width int) string {
	layout := message.GridLayoutFor(len(items))
	header := MediaStyle.Render(fmt.Sprintf("▦ %d images", len(items))) +
		MediaMetaStyle.Render(fmt.Sprintf("  %d×%d %s", layout.Columns, layout.Rows, layout.Size))

	var sb strings.Builder
	sb.WriteString(header)
	shown := 0
	for r := 0; r < layout.Rows && shown < len(items); r++ {
		var cells []string
		for c := 0; c < layout.Columns && shown < len(items); c++ {
			shown++
			cells = append(cells, fmt.Sprintf("[%d]", shown))
		}
		sb.WriteString("\n")
		sb.WriteString(ansi.Truncate(strings.Join(cells, " "), width, ""))
	}
	if rest := len(items) - shown; rest > 0 {
		sb.WriteString("\n")
		sb.WriteString(MediaMetaStyle.Render(fmt.Sprintf("+%d more", rest)))
	}
	return sb.String()
}
