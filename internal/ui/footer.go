package ui

import (
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/zhubert/widgetchat/internal/connection"
)

// KeyBinding represents a keyboard shortcut
type KeyBinding struct {
	Key  string
	Desc string
}

// StatusLine renders the connection indicator. A retry hint is shown
// whenever a manual retry would be accepted.
func StatusLine(s connection.Status) string {
	switch {
	case s.IsConnected:
		return StatusConnectedStyle.Render("● connected")
	case s.IsConnecting:
		return StatusConnectingStyle.Render("◌ connecting…")
	case s.State == connection.StateErrored:
		text := "✕ connection error"
		if s.Error != "" {
			text = "✕ " + s.Error
		}
		return StatusErrorStyle.Render(text) + FooterDescStyle.Render(" · press ") +
			FooterKeyStyle.Render("r") + FooterDescStyle.Render(" to retry")
	default:
		return StatusIdleStyle.Render("○ disconnected") + FooterDescStyle.Render(" · press ") +
			FooterKeyStyle.Render("r") + FooterDescStyle.Render(" to connect")
	}
}

// Footer is the bottom bar: connection status followed by key bindings.
type Footer struct {
	width  int
	status connection.Status
}

// NewFooter creates a new footer
func NewFooter() *Footer {
	return &Footer{}
}

// SetWidth sets the footer width
func (f *Footer) SetWidth(width int) {
	f.width = width
}

// SetStatus updates the connection status shown in the footer
func (f *Footer) SetStatus(s connection.Status) {
	f.status = s
}

// Bindings returns the key bindings valid for the current status.
func (f *Footer) Bindings() []KeyBinding {
	var b []KeyBinding
	if f.status.CanRetry() {
		b = append(b, KeyBinding{Key: "r", Desc: "retry"})
	}
	return append(b,
		KeyBinding{Key: "pgup/dn", Desc: "scroll"},
		KeyBinding{Key: "q", Desc: "quit"},
	)
}

// View renders the footer
func (f *Footer) View() string {
	var parts []string
	for _, b := range f.Bindings() {
		parts = append(parts, FooterKeyStyle.Render(b.Key)+FooterDescStyle.Render(": "+b.Desc))
	}
	sep := "  " + lipgloss.NewStyle().Foreground(ColorBorder).Render("|") + "  "
	content := StatusLine(f.status) + sep + strings.Join(parts, sep)

	if f.width > 0 {
		content = ansi.Truncate(content, f.width-2, "…")
		return FooterStyle.Width(f.width).Render(content)
	}
	return FooterStyle.Render(content)
}
