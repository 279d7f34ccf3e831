// Package display provides terminal output for projdump: the confirmation
// line, warning blocks, and the file listing of the list command.
//
// Warnings for missing targets after a dump:
//
//	if len(result.Missing) > 0 {
//	    display.WarnMissingTargets(result.Missing).Display(os.Stderr)
//	}
//
// Listing a resolved plan:
//
//	progress := display.NewProgressIndicator(os.Stdout, len(plan.Files))
//	progress.Start(plan.Root)
//	for _, f := range plan.Files {
//	    progress.Step(f.RelPath)
//	}
//	progress.Complete()
//
// ANSI colors are written only when the destination is a terminal
// (detected with go-isatty) and NO_COLOR is unset, so output captured in
// files and tests stays plain. All functions accept io.Writer.
package display
