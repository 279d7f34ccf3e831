// Package dumper concatenates configured project files into a single text report.
//
// A run resolves every target in declaration order (Plan), reads each
// resolved file as text, and writes the report once, atomically, to the
// output path. Missing targets never fail a run; they are returned in the
// result and listed at the end of the report.
package dumper

import (
	"fmt"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/afero"

	"github.com/harrison/projdump/internal/filelock"
	"github.com/harrison/projdump/internal/fileutil"
	"github.com/harrison/projdump/internal/logger"
	"github.com/harrison/projdump/internal/models"
)

// Logger receives progress events from a run.
// logger.ConsoleLogger and logger.NoOpLogger implement it.
type Logger interface {
	LogTrace(message string)
	LogWarn(message string)
	LogError(message string)
	LogRunStart(runID string, root string, targets int)
	LogFileDumped(file models.ResolvedFile, replaced bool)
	LogMissing(target models.Target)
	LogUnreadable(relPath string, err error)
	LogSummary(result *models.Result, duration time.Duration)
}

// Options is the immutable configuration of a Dumper
type Options struct {
	Root       string          // Absolute project root
	Targets    []models.Target // Ordered targets; order is output order
	Extensions []string        // Allowed suffixes for files found under DIR targets
	Excludes   []string        // Bare file names never dumped
	SkipDirs   []string        // Directory names pruned while walking DIR targets
	OutputPath string          // Absolute report path
	Lock       bool            // Hold "<OutputPath>.lock" while writing
	StrictRead bool            // Fail the run on an unreadable resolved file
}

// Dumper produces project dump reports
type Dumper struct {
	fs       afero.Fs
	opts     Options
	excludes map[string]bool
	logger   Logger
	now      func() time.Time
}

// Option customizes a Dumper
type Option func(*Dumper)

// WithFs sets the filesystem targets are read from and the report is written to.
// Defaults to the host filesystem.
func WithFs(fs afero.Fs) Option {
	return func(d *Dumper) {
		d.fs = fs
	}
}

// WithLogger sets the run logger. Defaults to logger.NoOpLogger.
func WithLogger(l Logger) Option {
	return func(d *Dumper) {
		d.logger = l
	}
}

// WithClock sets the time source used for the report title
func WithClock(now func() time.Time) Option {
	return func(d *Dumper) {
		d.now = now
	}
}

// New creates a Dumper for the given options
func New(opts Options, options ...Option) *Dumper {
	d := &Dumper{
		fs:       afero.NewOsFs(),
		opts:     opts,
		excludes: make(map[string]bool, len(opts.Excludes)),
		logger:   logger.NewNoOpLogger(),
		now:      time.Now,
	}
	for _, name := range opts.Excludes {
		d.excludes[name] = true
	}
	for _, o := range options {
		o(d)
	}
	return d
}

// Plan resolves every target without reading file contents or writing anything.
// It fails only for an unusable root or an invalid target (unknown kind,
// or a path that leaves the root).
func (d *Dumper) Plan() (*models.Plan, error) {
	root := d.opts.Root
	info, err := d.fs.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRootUnusable, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrRootUnusable, root)
	}

	plan := &models.Plan{
		Root:    root,
		Files:   make([]models.ResolvedFile, 0),
		Missing: make([]string, 0),
	}

	for _, target := range d.opts.Targets {
		if err := target.Validate(); err != nil {
			return nil, err
		}
		abs := filepath.Join(root, filepath.FromSlash(target.Path))

		switch target.Kind {
		case models.KindFile:
			if _, err := d.fs.Stat(abs); err != nil {
				d.markMissing(plan, target)
				continue
			}
			if d.isExcluded(abs) {
				d.logger.LogTrace(fmt.Sprintf("excluded %s", target.Path))
				continue
			}
			plan.Files = append(plan.Files, d.resolved(abs, target))

		case models.KindDir:
			info, err := d.fs.Stat(abs)
			if err != nil || !info.IsDir() {
				d.markMissing(plan, target)
				continue
			}

			scan, err := fileutil.ScanDirectory(d.fs, abs, fileutil.ScanOptions{
				Extensions:    d.opts.Extensions,
				CaseSensitive: true,
				Recursive:     true,
				ExcludeDirs:   d.opts.SkipDirs,
			})
			if err != nil {
				// Stat said directory; treat a vanished one as missing.
				d.markMissing(plan, target)
				continue
			}
			for _, scanErr := range scan.Errors {
				d.logger.LogWarn(scanErr.Error())
			}

			for _, file := range scan.Files {
				rf := d.resolved(file, target)
				switch {
				case d.isExcluded(file):
					d.logger.LogTrace(fmt.Sprintf("excluded %s", rf.RelPath))
				case d.isOutput(file):
					d.logger.LogTrace(fmt.Sprintf("skipped previous report %s", rf.RelPath))
				default:
					plan.Files = append(plan.Files, rf)
				}
			}
		}
	}

	return plan, nil
}

// Run resolves the targets, renders the report, and writes it to the output path.
// Fatal errors are an unusable root, an unwritable output path, and (in strict
// mode) an unreadable resolved file; nothing is written when Run fails.
func (d *Dumper) Run() (*models.Result, error) {
	started := time.Now()
	runID := uuid.NewString()
	d.logger.LogRunStart(runID, d.opts.Root, len(d.opts.Targets))

	plan, err := d.Plan()
	if err != nil {
		return d.fail(err)
	}

	result := &models.Result{
		RunID:      runID,
		OutputPath: d.opts.OutputPath,
		Files:      make([]models.ResolvedFile, 0, len(plan.Files)),
		Missing:    plan.Missing,
		Unreadable: make([]string, 0),
	}

	rep := newReport(d.now(), filepath.ToSlash(plan.Root), d.sortedExcludes())

	for _, file := range plan.Files {
		text, replaced, err := d.readFile(file)
		if err != nil {
			if d.opts.StrictRead {
				return d.fail(fmt.Errorf("%w: %s: %v", ErrUnreadable, file.RelPath, err))
			}
			result.Unreadable = append(result.Unreadable, file.RelPath)
			d.logger.LogUnreadable(file.RelPath, err)
			continue
		}

		rep.addFile(file.RelPath, text)
		result.Files = append(result.Files, file)
		d.logger.LogFileDumped(file, replaced)
	}

	rep.addMissing(plan.Missing)
	result.Report = rep.String()

	if err := filelock.Write(d.fs, d.opts.OutputPath, []byte(result.Report), d.opts.Lock); err != nil {
		return d.fail(fmt.Errorf("write report: %w", err))
	}

	d.logger.LogSummary(result, time.Since(started))
	return result, nil
}

// fail logs a fatal run error before returning it
func (d *Dumper) fail(err error) (*models.Result, error) {
	d.logger.LogError(err.Error())
	return nil, err
}

// readFile reads a resolved file as text. A FILE target naming a directory
// exists but is not readable as text.
func (d *Dumper) readFile(file models.ResolvedFile) (string, bool, error) {
	info, err := d.fs.Stat(file.AbsPath)
	if err != nil {
		return "", false, err
	}
	if info.IsDir() {
		return "", false, fmt.Errorf("%s is a directory", file.AbsPath)
	}
	return fileutil.ReadText(d.fs, file.AbsPath)
}

func (d *Dumper) markMissing(plan *models.Plan, target models.Target) {
	plan.Missing = append(plan.Missing, target.Path)
	d.logger.LogMissing(target)
}

// isExcluded matches on the bare file name only
func (d *Dumper) isExcluded(path string) bool {
	return d.excludes[filepath.Base(path)]
}

// isOutput keeps a previous report from being dumped into the next one
func (d *Dumper) isOutput(path string) bool {
	return d.opts.OutputPath != "" && filepath.Clean(path) == filepath.Clean(d.opts.OutputPath)
}

func (d *Dumper) resolved(abs string, target models.Target) models.ResolvedFile {
	rel, err := filepath.Rel(d.opts.Root, abs)
	if err != nil {
		rel = abs
	}
	return models.ResolvedFile{
		AbsPath: abs,
		RelPath: filepath.ToSlash(rel),
		Target:  target,
	}
}

func (d *Dumper) sortedExcludes() []string {
	names := make([]string, 0, len(d.excludes))
	for name := range d.excludes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
