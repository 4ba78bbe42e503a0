// Package ui is the terminal shell of widgetchat.
//
// It renders chat messages for a terminal (markdown with chroma terminal
// highlighting inside lipgloss bubbles), draws the connection status footer,
// and hosts two bubbletea programs:
//
//   - WatchModel follows a live connection, showing incoming messages and
//     offering a manual retry when the connection is down.
//   - OnboardingForm is a huh form collecting the visitor's profile and
//     widget preferences.
//
// Colors come from the active Theme; SetTheme regenerates every style.
package ui
