package markdown

import (
	"regexp"
	"strings"
)

// shallowIndentPattern matches a line that starts with one to four spaces
// followed by a non-space character. Tabs are \s, so tab-indented lines never
// match, and a fifth space makes the match fail.
var shallowIndentPattern = regexp.MustCompile(`(?m)^ {1,4}(\S)`)

// fenceMarkers are the line prefixes that open or close a fenced code block.
var fenceMarkers = []string{"```", "~~~"}

// HasFence reports whether any line, ignoring surrounding whitespace, starts
// with a fenced-code marker.
func HasFence(text string) bool {
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		for _, marker := range fenceMarkers {
			if strings.HasPrefix(trimmed, marker) {
				return true
			}
		}
	}
	return false
}

// Normalize strips the leading run of 1-4 spaces from every line that has
// one, so accidental indentation is not parsed as an indented code block.
// Lines with no indentation, 5+ spaces, or a leading tab are left alone.
func Normalize(text string) string {
	return shallowIndentPattern.ReplaceAllString(text, "${1}")
}

// Preprocess returns the text the parser will see: unchanged when the author
// used fenced code, normalized otherwise.
func Preprocess(text string) string {
	if HasFence(text) {
		return text
	}
	return Normalize(text)
}
