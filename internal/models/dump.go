package models

// ResolvedFile is a concrete file that survived target resolution and filtering
type ResolvedFile struct {
	AbsPath string // Absolute path on the dump filesystem
	RelPath string // Forward-slash path relative to the root, used in FILE headers
	Target  Target // Target the file was resolved from
}

// Plan is the outcome of resolving every configured target, before any file is read
type Plan struct {
	Root    string         // Absolute root directory
	Files   []ResolvedFile // Files to dump, in output order
	Missing []string       // Target paths that did not exist (or DIR targets that were not directories)
}

// HasMissing reports whether any configured target was missing
func (p *Plan) HasMissing() bool {
	return len(p.Missing) > 0
}

// Result is the outcome of a completed dump run
type Result struct {
	RunID      string         // Identifier for correlating log lines of a run
	Report     string         // Full report text as written
	OutputPath string         // Where the report was written
	Files      []ResolvedFile // Files that contributed a FILE section
	Missing    []string       // Target paths that did not exist
	Unreadable []string       // Relative paths that were resolved but could not be read
}

// BytesWritten returns the size of the written report
func (r *Result) BytesWritten() int {
	return len(r.Report)
}
