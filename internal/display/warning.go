package display

import (
	"fmt"
	"io"
	"strings"
)

// Warning represents a user-facing warning message
type Warning struct {
	Title      string   // Main warning title
	Message    string   // Detailed explanation (optional)
	Files      []string // Related paths (optional)
	Suggestion string   // Action to take (optional)
}

// Display shows a formatted warning, in yellow when out is a terminal
func (w Warning) Display(out io.Writer) {
	useColor := UseColor(out)
	var b strings.Builder

	if useColor {
		b.WriteString(ansiYellow)
	}
	b.WriteString("⚠️  Warning: ")
	b.WriteString(w.Title)
	b.WriteString("\n")

	if w.Message != "" {
		b.WriteString("    ")
		b.WriteString(w.Message)
		b.WriteString("\n")
	}

	if len(w.Files) > 0 {
		for _, file := range w.Files {
			b.WriteString("      - ")
			b.WriteString(file)
			b.WriteString("\n")
		}
	}

	if w.Suggestion != "" {
		b.WriteString("    Suggestion:\n")
		b.WriteString("    ")
		b.WriteString(w.Suggestion)
		b.WriteString("\n")
	}

	if useColor {
		b.WriteString(ansiReset)
	}

	fmt.Fprint(out, b.String())
}

// WarnMissingTargets creates a warning listing configured targets that were not found
func WarnMissingTargets(missing []string) Warning {
	title := "1 configured target was not found"
	if len(missing) != 1 {
		title = fmt.Sprintf("%d configured targets were not found", len(missing))
	}
	return Warning{
		Title:      title,
		Message:    "They are listed under MISSING TARGETS at the end of the report.",
		Files:      missing,
		Suggestion: "Check the targets in .projdump/config.yaml or run from the project root.",
	}
}

// WarnUnreadable creates a warning for resolved files that could not be read
func WarnUnreadable(paths []string) Warning {
	return Warning{
		Title:      fmt.Sprintf("Skipped %d unreadable file(s)", len(paths)),
		Files:      paths,
		Suggestion: "Fix the file permissions, or pass --strict to fail the run instead.",
	}
}
