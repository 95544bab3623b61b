package tui

import (
	"fmt"
	"os"
	"strings"

	"github.com/muesli/termenv"
	"golang.org/x/term"
)

const progressBarCells = 24

// StepHeader renders the "Step 2/5 - Location" line with a completion bar
// for the current step. Completion is the lenient percentage, independent
// of strict validity.
func StepHeader(index, total int, title string, completion int) string {
	p := termenv.ColorProfile()

	head := termenv.String(fmt.Sprintf("Step %d/%d", index+1, total)).
		Foreground(p.Color("#818cf8")).Bold()
	name := termenv.String(title).Foreground(p.Color("#e879f9"))

	return fmt.Sprintf("%s  %s\n%s %d%%\n", head, name, bar(completion), completion)
}

// FieldErrors renders strict validation failures, one line per message.
func FieldErrors(errors map[string][]string) string {
	p := termenv.ColorProfile()
	var b strings.Builder
	for _, msgs := range errors {
		for _, msg := range msgs {
			line := termenv.String("  ✗ " + msg).Foreground(p.Color("#fb7185"))
			fmt.Fprintf(&b, "%s\n", line)
		}
	}
	return b.String()
}

// Notice renders a dim one-line status message (saves, fallbacks).
func Notice(msg string) string {
	p := termenv.ColorProfile()
	return termenv.String("  " + msg).Foreground(p.Color("#a78bfa")).String()
}

func bar(completion int) string {
	if completion < 0 {
		completion = 0
	}
	if completion > 100 {
		completion = 100
	}

	cells := progressBarCells
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 && w < cells+8 {
		cells = w - 8
		if cells < 4 {
			cells = 4
		}
	}

	filled := cells * completion / 100
	p := termenv.ColorProfile()
	full := termenv.String(strings.Repeat("█", filled)).Foreground(p.Color("#c084fc"))
	rest := termenv.String(strings.Repeat("░", cells-filled)).Foreground(p.Color("#4b5563"))
	return fmt.Sprintf("[%s%s]", full, rest)
}
