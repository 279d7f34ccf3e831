package display

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

const (
	ansiCyan   = "\x1b[36m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
	ansiReset  = "\x1b[0m"
)

// UseColor reports whether ANSI colors should be written to w.
// Only terminals get color, and NO_COLOR disables it everywhere.
func UseColor(w io.Writer) bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// ProgressIndicator lists the files of a resolved plan: [N/Total] path
type ProgressIndicator struct {
	writer     io.Writer
	totalFiles int
	current    int
	color      bool
}

// NewProgressIndicator creates a new progress indicator
func NewProgressIndicator(w io.Writer, total int) *ProgressIndicator {
	return &ProgressIndicator{
		writer:     w,
		totalFiles: total,
		current:    0,
		color:      UseColor(w),
	}
}

// Start displays the header message
func (p *ProgressIndicator) Start(root string) {
	fmt.Fprintf(p.writer, "Files under %s:\n", root)
}

// Step displays the next item: [N/Total] path (cyan on terminals)
func (p *ProgressIndicator) Step(path string) {
	p.current++
	if p.color {
		fmt.Fprintf(p.writer, "%s  [%d/%d] %s%s\n", ansiCyan, p.current, p.totalFiles, path, ansiReset)
		return
	}
	fmt.Fprintf(p.writer, "  [%d/%d] %s\n", p.current, p.totalFiles, path)
}

// Complete displays the closing line with a check mark
func (p *ProgressIndicator) Complete() {
	check := "✓"
	if p.color {
		check = ansiGreen + check + ansiReset
	}
	fmt.Fprintf(p.writer, "%s %d files would be dumped\n", check, p.totalFiles)
}

// DisplayWritten shows the confirmation line for a written report
func DisplayWritten(w io.Writer, name string) {
	fmt.Fprintf(w, "✅ Wrote %s\n", name)
}
