package ui

// Layout constants
const (
	// HeaderHeight is the height of the header in lines
	HeaderHeight = 1

	// FooterHeight is the height of the status footer in lines
	FooterHeight = 1

	// BubblePadding is the horizontal padding inside a message bubble
	BubblePadding = 2

	// BubbleWidthRatio is the share of the view a bubble may use, in percent
	BubbleWidthRatio = 80

	// MinBubbleWidth keeps bubbles readable in narrow terminals
	MinBubbleWidth = 20

	// MaxFileNameWidth is the display width file names are truncated to
	MaxFileNameWidth = 40

	// DefaultWrapWidth is the default width for text wrapping when viewport width is unknown
	DefaultWrapWidth = 80

	// OnboardingWidth is the width of the onboarding form
	OnboardingWidth = 60

	// DisplayNameCharLimit bounds the display name input
	DisplayNameCharLimit = 64
)

// MaxWatchMessages is how many messages the watch view keeps.
const MaxWatchMessages = 500
