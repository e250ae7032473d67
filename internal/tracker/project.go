package tracker

import "strings"

const (
	titleSeparator = " - "

	// UnknownProject labels windows whose title carries no project name.
	UnknownProject = "Unknown"
)

// ProjectFromTitle returns the text after the last " - " in title, trimmed,
// or UnknownProject when the separator is absent. Separators are matched
// left to right without overlap, so "x - - y" yields "- y".
func ProjectFromTitle(title string) string {
	if !strings.Contains(title, titleSeparator) {
		return UnknownProject
	}
	parts := strings.Split(title, titleSeparator)
	return strings.TrimSpace(parts[len(parts)-1])
}
