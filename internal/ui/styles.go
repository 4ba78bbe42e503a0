package ui

import (
	"image/color"

	"charm.land/lipgloss/v2"
)

// Color palette, set from the active theme by regenerateStyles.
var (
	ColorPrimary     color.Color
	ColorSecondary   color.Color
	ColorText        color.Color
	ColorTextMuted   color.Color
	ColorTextInverse color.Color
	ColorSelf        color.Color
	ColorOther       color.Color
	ColorWarning     color.Color
	ColorError       color.Color
	ColorSuccess     color.Color
	ColorBorder      color.Color
)

// Header and footer styles
var (
	HeaderStyle     lipgloss.Style
	FooterStyle     lipgloss.Style
	FooterKeyStyle  lipgloss.Style
	FooterDescStyle lipgloss.Style
)

// Message styles
var (
	SelfBubbleStyle  lipgloss.Style
	OtherBubbleStyle lipgloss.Style
	SelfLabelStyle   lipgloss.Style
	OtherLabelStyle  lipgloss.Style
	TimestampStyle   lipgloss.Style
	MediaStyle       lipgloss.Style
	MediaMetaStyle   lipgloss.Style
)

// Connection status styles
var (
	StatusConnectedStyle  lipgloss.Style
	StatusConnectingStyle lipgloss.Style
	StatusErrorStyle      lipgloss.Style
	StatusIdleStyle       lipgloss.Style
)

// Markdown styles
var (
	MarkdownH1Style         lipgloss.Style
	MarkdownH2Style         lipgloss.Style
	MarkdownH3Style         lipgloss.Style
	MarkdownBoldStyle       lipgloss.Style
	MarkdownItalicStyle     lipgloss.Style
	MarkdownInlineCodeStyle lipgloss.Style
	MarkdownLinkStyle       lipgloss.Style
	MarkdownListBulletStyle lipgloss.Style
	MarkdownBlockquoteStyle lipgloss.Style
	MarkdownHRStyle         lipgloss.Style
)
