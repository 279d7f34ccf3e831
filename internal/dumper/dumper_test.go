package dumper

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harrison/projdump/internal/models"
)

const testRoot = "/proj"

var (
	rule      = strings.Repeat("=", 90)
	bangs     = strings.Repeat("!", 90)
	webExts   = []string{".js", ".jsx", ".ts", ".tsx", ".json"}
	fixedTime = time.Date(2026, 10, 19, 9, 30, 5, 0, time.Local)
)

// writeFiles creates files under testRoot on an in-memory filesystem
func writeFiles(t *testing.T, files map[string]string) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll(testRoot, 0755))
	for rel, content := range files {
		require.NoError(t, afero.WriteFile(fs, filepath.Join(testRoot, rel), []byte(content), 0644))
	}
	return fs
}

func newTestDumper(fs afero.Fs, targets []models.Target, excludes []string, options ...Option) *Dumper {
	opts := Options{
		Root:       testRoot,
		Targets:    targets,
		Extensions: webExts,
		Excludes:   excludes,
		OutputPath: filepath.Join(testRoot, "dump.txt"),
	}
	options = append([]Option{WithFs(fs), WithClock(func() time.Time { return fixedTime })}, options...)
	return New(opts, options...)
}

func section(rel, body string) string {
	return "\n\n" + rule + "\nFILE: " + rel + "\n" + rule + "\n" + body + "\n"
}

func readReport(t *testing.T, fs afero.Fs) string {
	t.Helper()
	data, err := afero.ReadFile(fs, filepath.Join(testRoot, "dump.txt"))
	require.NoError(t, err)
	return string(data)
}

func TestRun_EndToEnd(t *testing.T) {
	fs := writeFiles(t, map[string]string{
		"app/page.js":           "console.log('page');\n\n",
		"components/Button.jsx": "export default function Button() {}\n",
		"components/styles.css": ".btn { color: red; }\n",
	})

	d := newTestDumper(fs, models.DefaultTargets(), nil)
	result, err := d.Run()
	require.NoError(t, err)

	want := "PROJECT DUMP (2026-10-19T09:30:05)\n" +
		"ROOT: /proj\n" +
		"EXCLUDES: (none)\n" +
		section("app/page.js", "console.log('page');") +
		section("components/Button.jsx", "export default function Button() {}")

	assert.Equal(t, want, result.Report)
	assert.Equal(t, want, readReport(t, fs))
	assert.Empty(t, result.Missing)
	assert.Empty(t, result.Unreadable)
	assert.NotEmpty(t, result.RunID)
	assert.Equal(t, filepath.Join(testRoot, "dump.txt"), result.OutputPath)
	assert.NotContains(t, result.Report, "styles.css")
	assert.NotContains(t, result.Report, "MISSING TARGETS")

	require.Len(t, result.Files, 2)
	assert.Equal(t, "app/page.js", result.Files[0].RelPath)
	assert.Equal(t, models.KindFile, result.Files[0].Target.Kind)
	assert.Equal(t, "components/Button.jsx", result.Files[1].RelPath)
	assert.Equal(t, models.KindDir, result.Files[1].Target.Kind)
}

func TestRun_HeaderExcludes(t *testing.T) {
	fs := writeFiles(t, map[string]string{"app/page.js": "x"})

	tests := []struct {
		name     string
		excludes []string
		want     string
	}{
		{name: "none", excludes: nil, want: "EXCLUDES: (none)"},
		{name: "sorted and joined", excludes: []string{"secret.json", "a.js", "secret.json"}, want: "EXCLUDES: a.js, secret.json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := newTestDumper(fs, []models.Target{{Path: "app/page.js", Kind: models.KindFile}}, tt.excludes).Run()
			require.NoError(t, err)

			lines := strings.Split(result.Report, "\n")
			require.GreaterOrEqual(t, len(lines), 4)
			assert.Equal(t, "PROJECT DUMP (2026-10-19T09:30:05)", lines[0])
			assert.Equal(t, "ROOT: /proj", lines[1])
			assert.Equal(t, tt.want, lines[2])
			assert.Equal(t, "", lines[3])
		})
	}
}

func TestRun_ExtensionFilterIsCaseSensitive(t *testing.T) {
	fs := writeFiles(t, map[string]string{
		"src/a.js":     "a",
		"src/b.JS":     "b",
		"src/c.jsx":    "c",
		"src/d.ts":     "d",
		"src/e.tsx":    "e",
		"src/f.json":   "f",
		"src/g.css":    "g",
		"src/h.Json":   "h",
		"src/i.js.map": "i",
		"src/README":   "r",
	})

	result, err := newTestDumper(fs, []models.Target{{Path: "src", Kind: models.KindDir}}, nil).Run()
	require.NoError(t, err)

	var got []string
	for _, f := range result.Files {
		got = append(got, f.RelPath)
	}
	assert.Equal(t, []string{"src/a.js", "src/c.jsx", "src/d.ts", "src/e.tsx", "src/f.json"}, got)
	for _, absent := range []string{"b.JS", "g.css", "h.Json", "i.js.map", "README"} {
		assert.NotContains(t, result.Report, absent)
	}
}

func TestRun_FileTargetIgnoresExtensionFilter(t *testing.T) {
	fs := writeFiles(t, map[string]string{"README.md": "# readme"})

	result, err := newTestDumper(fs, []models.Target{{Path: "README.md", Kind: models.KindFile}}, nil).Run()
	require.NoError(t, err)
	assert.Contains(t, result.Report, "FILE: README.md\n"+rule+"\n# readme\n")
}

func TestRun_SortIsCaseInsensitive(t *testing.T) {
	fs := writeFiles(t, map[string]string{
		"components/b.ts":   "b",
		"components/A.ts":   "A",
		"components/c.json": "c",
	})

	result, err := newTestDumper(fs, []models.Target{{Path: "components", Kind: models.KindDir}}, nil).Run()
	require.NoError(t, err)

	want := "PROJECT DUMP (2026-10-19T09:30:05)\nROOT: /proj\nEXCLUDES: (none)\n" +
		section("components/A.ts", "A") +
		section("components/b.ts", "b") +
		section("components/c.json", "c")
	assert.Equal(t, want, result.Report)
}

func TestRun_NestedDirectoriesSortByFullPath(t *testing.T) {
	fs := writeFiles(t, map[string]string{
		"components/Z.js":           "z",
		"components/forms/Input.js": "i",
		"components/Forms.js":       "f",
		"components/a/b.js":         "b",
	})

	result, err := newTestDumper(fs, []models.Target{{Path: "components", Kind: models.KindDir}}, nil).Run()
	require.NoError(t, err)

	var got []string
	for _, f := range result.Files {
		got = append(got, f.RelPath)
	}
	assert.Equal(t, []string{
		"components/a/b.js",
		"components/Forms.js",
		"components/forms/Input.js",
		"components/Z.js",
	}, got)
}

func TestRun_ExclusionByBareName(t *testing.T) {
	fs := writeFiles(t, map[string]string{
		"app/page.js":                 "page",
		"components/secret.json":      `{"token": "x"}`,
		"components/deep/secret.json": `{"token": "y"}`,
		"components/public.json":      `{}`,
	})

	targets := []models.Target{
		{Path: "app/page.js", Kind: models.KindFile},
		{Path: "components", Kind: models.KindDir},
	}
	result, err := newTestDumper(fs, targets, []string{"secret.json", "page.js"}).Run()
	require.NoError(t, err)

	assert.NotContains(t, result.Report, "token")
	assert.NotContains(t, result.Report, "FILE: app/page.js")
	assert.Contains(t, result.Report, "FILE: components/public.json")
	assert.Empty(t, result.Missing)
	assert.NotContains(t, result.Report, "MISSING TARGETS")
}

func TestRun_MissingTargets(t *testing.T) {
	fs := writeFiles(t, map[string]string{
		"components/Button.jsx": "button",
		"data":                  "not a directory",
	})

	targets := []models.Target{
		{Path: "app/page.js", Kind: models.KindFile},
		{Path: "components", Kind: models.KindDir},
		{Path: "data", Kind: models.KindDir},
		{Path: "lib", Kind: models.KindDir},
	}
	result, err := newTestDumper(fs, targets, nil).Run()
	require.NoError(t, err)

	assert.Equal(t, []string{"app/page.js", "data", "lib"}, result.Missing)
	assert.NotContains(t, result.Report, "FILE: app/page.js")

	wantTail := section("components/Button.jsx", "button") +
		"\n\n" + bangs + "\n" +
		"MISSING TARGETS:\n" +
		"- app/page.js\n" +
		"- data\n" +
		"- lib\n" +
		bangs + "\n"
	assert.True(t, strings.HasSuffix(result.Report, wantTail), "report tail mismatch:\n%s", result.Report)
}

func TestRun_ExcludedMissingFileIsStillMissing(t *testing.T) {
	fs := writeFiles(t, nil)

	result, err := newTestDumper(fs, []models.Target{{Path: "app/page.js", Kind: models.KindFile}}, []string{"page.js"}).Run()
	require.NoError(t, err)
	assert.Equal(t, []string{"app/page.js"}, result.Missing)
}

func TestRun_Idempotent(t *testing.T) {
	fs := writeFiles(t, map[string]string{
		"app/page.js":     "page",
		"components/b.ts": "b",
		"components/A.ts": "A",
	})
	targets := append(models.DefaultTargets(), models.Target{Path: "data", Kind: models.KindDir})

	first, err := newTestDumper(fs, targets, nil).Run()
	require.NoError(t, err)

	later := func() time.Time { return fixedTime.Add(time.Hour) }
	second, err := newTestDumper(fs, targets, nil, WithClock(later)).Run()
	require.NoError(t, err)

	firstLines := strings.SplitN(first.Report, "\n", 2)
	secondLines := strings.SplitN(second.Report, "\n", 2)
	assert.NotEqual(t, firstLines[0], secondLines[0])
	assert.Equal(t, firstLines[1], secondLines[1])
	assert.NotEqual(t, first.RunID, second.RunID)
}

func TestRun_ContentFidelity(t *testing.T) {
	fs := writeFiles(t, map[string]string{
		"src/trailing.js": "const a = 1;  \n\t\n\n",
		"src/inner.js":    "line1\n\n   line3\n",
		"src/empty.js":    "",
		"src/unicode.js":  "const s = \"héllo ✓\";",
	})
	require.NoError(t, afero.WriteFile(fs, filepath.Join(testRoot, "src/latin1.js"), []byte("caf\xe9 = 1;\n"), 0644))

	result, err := newTestDumper(fs, []models.Target{{Path: "src", Kind: models.KindDir}}, nil).Run()
	require.NoError(t, err)

	assert.Contains(t, result.Report, section("src/trailing.js", "const a = 1;"))
	assert.Contains(t, result.Report, section("src/inner.js", "line1\n\n   line3"))
	assert.Contains(t, result.Report, section("src/empty.js", ""))
	assert.Contains(t, result.Report, section("src/unicode.js", "const s = \"héllo ✓\";"))
	assert.Contains(t, result.Report, section("src/latin1.js", "caf� = 1;"))
	assert.Len(t, result.Files, 5)
}

func TestRun_DuplicateResolutionIsKept(t *testing.T) {
	fs := writeFiles(t, map[string]string{"app/page.js": "page"})
	targets := []models.Target{
		{Path: "app/page.js", Kind: models.KindFile},
		{Path: "app", Kind: models.KindDir},
	}

	result, err := newTestDumper(fs, targets, nil).Run()
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(result.Report, "FILE: app/page.js"))
}

func TestRun_SkipDirs(t *testing.T) {
	fs := writeFiles(t, map[string]string{
		"components/ok.js":                 "ok",
		"components/node_modules/lib/x.js": "vendored",
		"components/.storybook/main.js":    "story",
	})

	d := New(Options{
		Root:       testRoot,
		Targets:    []models.Target{{Path: "components", Kind: models.KindDir}},
		Extensions: webExts,
		SkipDirs:   []string{"node_modules"},
		OutputPath: filepath.Join(testRoot, "dump.txt"),
	}, WithFs(fs))

	result, err := d.Run()
	require.NoError(t, err)

	var got []string
	for _, f := range result.Files {
		got = append(got, f.RelPath)
	}
	// Hidden directories are walked; only named directories are pruned.
	assert.Equal(t, []string{"components/.storybook/main.js", "components/ok.js"}, got)
}

func TestRun_PreviousReportNotIncluded(t *testing.T) {
	fs := writeFiles(t, map[string]string{
		"out/a.json":    "{}",
		"out/dump.json": "old report",
	})

	d := New(Options{
		Root:       testRoot,
		Targets:    []models.Target{{Path: "out", Kind: models.KindDir}},
		Extensions: webExts,
		OutputPath: filepath.Join(testRoot, "out", "dump.json"),
	}, WithFs(fs))

	result, err := d.Run()
	require.NoError(t, err)
	assert.NotContains(t, result.Report, "old report")
	require.Len(t, result.Files, 1)
	assert.Equal(t, "out/a.json", result.Files[0].RelPath)
}

func TestRun_UnreadableFileTarget(t *testing.T) {
	fs := writeFiles(t, map[string]string{
		"components/Button.jsx": "button",
		"app/page.js":           "page",
	})
	targets := []models.Target{
		{Path: "components", Kind: models.KindFile}, // a directory named as FILE
		{Path: "app/page.js", Kind: models.KindFile},
	}

	t.Run("skipped and recorded", func(t *testing.T) {
		rec := &recordingLogger{}
		result, err := newTestDumper(fs, targets, nil, WithLogger(rec)).Run()
		require.NoError(t, err)

		assert.Equal(t, []string{"components"}, result.Unreadable)
		assert.Empty(t, result.Missing)
		assert.NotContains(t, result.Report, "FILE: components\n")
		assert.Contains(t, result.Report, "FILE: app/page.js")
		assert.Equal(t, []string{"components"}, rec.unreadable)
	})

	t.Run("strict fails without writing", func(t *testing.T) {
		fs := writeFiles(t, map[string]string{"components/Button.jsx": "button"})
		d := New(Options{
			Root:       testRoot,
			Targets:    targets[:1],
			Extensions: webExts,
			OutputPath: filepath.Join(testRoot, "dump.txt"),
			StrictRead: true,
		}, WithFs(fs))

		_, err := d.Run()
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrUnreadable))

		exists, _ := afero.Exists(fs, filepath.Join(testRoot, "dump.txt"))
		assert.False(t, exists, "no report may be written on a failed run")
	})
}

func TestRun_UnreadableOnDisk(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced for root")
	}

	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "components"), 0755))
	locked := filepath.Join(root, "components", "locked.js")
	require.NoError(t, os.WriteFile(locked, []byte("secret"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "components", "open.js"), []byte("open"), 0644))
	require.NoError(t, os.Chmod(locked, 0))
	t.Cleanup(func() { os.Chmod(locked, 0644) })

	d := New(Options{
		Root:       root,
		Targets:    []models.Target{{Path: "components", Kind: models.KindDir}},
		Extensions: webExts,
		OutputPath: filepath.Join(root, "dump.txt"),
	})

	result, err := d.Run()
	require.NoError(t, err)
	assert.Equal(t, []string{"components/locked.js"}, result.Unreadable)
	assert.Contains(t, result.Report, "FILE: components/open.js")
	assert.NotContains(t, result.Report, "secret")
}

func TestRun_FatalErrors(t *testing.T) {
	t.Run("root missing", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		_, err := newTestDumper(fs, models.DefaultTargets(), nil).Run()
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrRootUnusable))
	})

	t.Run("root is a file", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		require.NoError(t, afero.WriteFile(fs, testRoot, []byte("x"), 0644))
		_, err := newTestDumper(fs, models.DefaultTargets(), nil).Run()
		assert.True(t, errors.Is(err, ErrRootUnusable))
	})

	t.Run("output directory missing", func(t *testing.T) {
		fs := writeFiles(t, map[string]string{"app/page.js": "page"})
		d := New(Options{
			Root:       testRoot,
			Targets:    models.DefaultTargets(),
			Extensions: webExts,
			OutputPath: filepath.Join(testRoot, "no-such-dir", "dump.txt"),
		}, WithFs(fs))

		_, err := d.Run()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "write report")
	})

	t.Run("unknown kind", func(t *testing.T) {
		fs := writeFiles(t, nil)
		_, err := newTestDumper(fs, []models.Target{{Path: "x", Kind: "TREE"}}, nil).Plan()
		assert.Error(t, err)
	})

	t.Run("target outside the root", func(t *testing.T) {
		fs := writeFiles(t, nil)
		require.NoError(t, afero.WriteFile(fs, "/secrets.json", []byte(`{"token": 1}`), 0644))
		rec := &recordingLogger{}

		_, err := newTestDumper(fs, []models.Target{{Path: "../secrets.json", Kind: models.KindFile}}, nil, WithLogger(rec)).Run()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "inside the root")
		assert.Len(t, rec.errors, 1)

		exists, _ := afero.Exists(fs, filepath.Join(testRoot, "dump.txt"))
		assert.False(t, exists)
	})
}

func TestRun_SymlinkedDirTarget(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "shared", "forms"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "shared", "Button.jsx"), []byte("button"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "shared", "forms", "Input.tsx"), []byte("input"), 0644))
	if err := os.Symlink(filepath.Join(root, "shared"), filepath.Join(root, "components")); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}

	d := New(Options{
		Root:       root,
		Targets:    []models.Target{{Path: "components", Kind: models.KindDir}},
		Extensions: webExts,
		OutputPath: filepath.Join(root, "dump.txt"),
	})

	result, err := d.Run()
	require.NoError(t, err)
	assert.Empty(t, result.Missing)

	var got []string
	for _, f := range result.Files {
		got = append(got, f.RelPath)
	}
	assert.Equal(t, []string{"components/Button.jsx", "components/forms/Input.tsx"}, got)
	assert.Contains(t, result.Report, section("components/Button.jsx", "button"))
	assert.NotContains(t, result.Report, "FILE: shared/")
}

func TestRun_OverwritesExistingReport(t *testing.T) {
	fs := writeFiles(t, map[string]string{
		"app/page.js": "page",
		"dump.txt":    "stale",
	})

	_, err := newTestDumper(fs, []models.Target{{Path: "app/page.js", Kind: models.KindFile}}, nil).Run()
	require.NoError(t, err)
	assert.NotContains(t, readReport(t, fs), "stale")
}

func TestPlan_WritesNothing(t *testing.T) {
	fs := writeFiles(t, map[string]string{
		"app/page.js":      "page",
		"components/x.tsx": "x",
	})
	targets := append(models.DefaultTargets(), models.Target{Path: "data", Kind: models.KindDir})

	plan, err := newTestDumper(fs, targets, nil).Plan()
	require.NoError(t, err)

	assert.Equal(t, testRoot, plan.Root)
	require.Len(t, plan.Files, 2)
	assert.Equal(t, "app/page.js", plan.Files[0].RelPath)
	assert.Equal(t, "components/x.tsx", plan.Files[1].RelPath)
	assert.Equal(t, []string{"data"}, plan.Missing)
	assert.True(t, plan.HasMissing())

	exists, _ := afero.Exists(fs, filepath.Join(testRoot, "dump.txt"))
	assert.False(t, exists)
}

func TestRun_LoggerEvents(t *testing.T) {
	fs := writeFiles(t, map[string]string{"app/page.js": "page"})
	rec := &recordingLogger{}

	result, err := newTestDumper(fs, models.DefaultTargets(), nil, WithLogger(rec)).Run()
	require.NoError(t, err)

	assert.Equal(t, result.RunID, rec.runID)
	assert.Equal(t, []string{"app/page.js"}, rec.dumped)
	assert.Equal(t, []string{"components"}, rec.missing)
	assert.Same(t, result, rec.summary)
	assert.Empty(t, rec.errors)
}

func TestRun_TraceSkippedFiles(t *testing.T) {
	fs := writeFiles(t, map[string]string{
		"app/page.js":            "page",
		"components/secret.json": "{}",
		"components/dump.json":   "old report",
		"components/ok.js":       "ok",
	})
	rec := &recordingLogger{}

	d := New(Options{
		Root:       testRoot,
		Targets:    models.DefaultTargets(),
		Extensions: webExts,
		Excludes:   []string{"secret.json", "page.js"},
		OutputPath: filepath.Join(testRoot, "components", "dump.json"),
	}, WithFs(fs), WithLogger(rec))

	_, err := d.Run()
	require.NoError(t, err)
	assert.Equal(t, []string{
		"excluded app/page.js",
		"skipped previous report components/dump.json",
		"excluded components/secret.json",
	}, rec.traces)
}

func TestRun_FatalErrorIsLogged(t *testing.T) {
	fs := writeFiles(t, map[string]string{"app/page.js": "page"})
	rec := &recordingLogger{}

	d := New(Options{
		Root:       testRoot,
		Targets:    models.DefaultTargets(),
		Extensions: webExts,
		OutputPath: filepath.Join(testRoot, "missing", "dump.txt"),
	}, WithFs(fs), WithLogger(rec))

	_, err := d.Run()
	require.Error(t, err)
	require.Len(t, rec.errors, 1)
	assert.Equal(t, err.Error(), rec.errors[0])
	assert.Nil(t, rec.summary)
}

func TestRun_OnDiskWithLock(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "app"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "app", "page.js"), []byte("page\n"), 0644))

	out := filepath.Join(root, "dump.txt")
	d := New(Options{
		Root:       root,
		Targets:    models.DefaultTargets(),
		Extensions: webExts,
		OutputPath: out,
		Lock:       true,
	})

	result, err := d.Run()
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, result.Report, string(data))
	assert.Contains(t, string(data), "ROOT: "+filepath.ToSlash(root)+"\n")
	assert.Equal(t, []string{"components"}, result.Missing)
}

type recordingLogger struct {
	runID      string
	dumped     []string
	missing    []string
	unreadable []string
	traces     []string
	errors     []string
	summary    *models.Result
}

func (r *recordingLogger) LogTrace(message string) {
	r.traces = append(r.traces, message)
}

func (r *recordingLogger) LogWarn(string) {}

func (r *recordingLogger) LogError(message string) {
	r.errors = append(r.errors, message)
}

func (r *recordingLogger) LogRunStart(runID string, root string, targets int) {
	r.runID = runID
}

func (r *recordingLogger) LogFileDumped(file models.ResolvedFile, replaced bool) {
	r.dumped = append(r.dumped, file.RelPath)
}

func (r *recordingLogger) LogMissing(target models.Target) {
	r.missing = append(r.missing, target.Path)
}

func (r *recordingLogger) LogUnreadable(relPath string, err error) {
	r.unreadable = append(r.unreadable, relPath)
}

func (r *recordingLogger) LogSummary(result *models.Result, duration time.Duration) {
	r.summary = result
}
