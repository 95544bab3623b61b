// Package tui renders wizard steps for the interactive terminal session:
// glamour for step descriptions, termenv for styled progress output.
package tui

import (
	"github.com/charmbracelet/glamour"
)

// NewRenderer returns a function that renders step description markdown.
// When the terminal renderer cannot be built the markdown passes through
// unstyled; a plain description beats no description.
func NewRenderer() func(string) string {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(78),
	)
	if err != nil {
		return func(markdown string) string { return markdown }
	}
	return func(markdown string) string {
		out, err := r.Render(markdown)
		if err != nil {
			return markdown
		}
		return out
	}
}
