package dumper

import (
	"strings"
	"time"
	"unicode"
)

// TimestampLayout is the second-precision ISO-8601 layout of the report title
const TimestampLayout = "2006-01-02T15:04:05"

const ruleWidth = 90

var (
	fileRule    = strings.Repeat("=", ruleWidth)
	missingRule = strings.Repeat("!", ruleWidth)
)

// report accumulates the output lines of a single run.
// Lines are joined with "\n" once, at the end; some entries carry their own
// leading or trailing newline to produce the blank lines of the format.
type report struct {
	lines []string
}

// newReport starts a report with the title, root, and exclusion header block.
// excludes must already be sorted.
func newReport(now time.Time, root string, excludes []string) *report {
	excludeText := "(none)"
	if len(excludes) > 0 {
		excludeText = strings.Join(excludes, ", ")
	}

	return &report{
		lines: []string{
			"PROJECT DUMP (" + now.Format(TimestampLayout) + ")",
			"ROOT: " + root,
			"EXCLUDES: " + excludeText,
			"",
		},
	}
}

// addFile appends one FILE section
func (r *report) addFile(relPath, text string) {
	r.lines = append(r.lines,
		"\n"+fileRule,
		"FILE: "+relPath,
		fileRule,
		strings.TrimRightFunc(text, isTrailingSpace)+"\n",
	)
}

// isTrailingSpace extends unicode.IsSpace with the ASCII information
// separators U+001C..U+001F, which are stripped from section ends as well.
func isTrailingSpace(r rune) bool {
	return unicode.IsSpace(r) || (r >= 0x1c && r <= 0x1f)
}

// addMissing appends the MISSING TARGETS block; no-op for an empty list
func (r *report) addMissing(missing []string) {
	if len(missing) == 0 {
		return
	}
	r.lines = append(r.lines, "\n"+missingRule, "MISSING TARGETS:")
	for _, m := range missing {
		r.lines = append(r.lines, "- "+m)
	}
	r.lines = append(r.lines, missingRule+"\n")
}

func (r *report) String() string {
	return strings.Join(r.lines, "\n")
}
