package fileutil

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"
)

// ScanOptions configures the directory scanning behavior
type ScanOptions struct {
	// Extensions is a list of file extensions to include (e.g., ".js", ".json").
	// Empty means every file is included.
	Extensions []string
	// CaseSensitive requires extensions to match exactly (".JS" is not ".js")
	CaseSensitive bool
	// Recursive enables recursive directory scanning
	Recursive bool
	// ExcludeDirs is a list of directory names to prune (e.g., "node_modules")
	ExcludeDirs []string
}

// ScanResult contains the results of a directory scan
type ScanResult struct {
	// Files contains the absolute paths of all matched files, sorted by FoldedLess
	Files []string
	// Errors contains any errors encountered during scanning
	Errors []error
}

// ScanDirectory scans a directory on fs for regular files matching the provided options
func ScanDirectory(fs afero.Fs, dir string, opts ScanOptions) (*ScanResult, error) {
	info, err := fs.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to access directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("path is not a directory: %s", dir)
	}

	result := &ScanResult{
		Files:  make([]string, 0),
		Errors: make([]error, 0),
	}

	extMap := make(map[string]bool)
	for _, ext := range opts.Extensions {
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		if !opts.CaseSensitive {
			ext = strings.ToLower(ext)
		}
		extMap[ext] = true
	}

	excludeMap := make(map[string]bool)
	for _, name := range opts.ExcludeDirs {
		excludeMap[name] = true
	}

	walkRoot := walkRootFor(fs, dir)
	err = afero.Walk(fs, walkRoot, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("error accessing %s: %w", path, err))
			return nil
		}

		if path == walkRoot {
			return nil
		}

		if info.IsDir() {
			if excludeMap[info.Name()] {
				return filepath.SkipDir
			}
			if !opts.Recursive {
				return filepath.SkipDir
			}
			return nil
		}

		if !isRegular(fs, path, info) {
			return nil
		}

		if len(extMap) > 0 {
			ext := Suffix(info.Name())
			if !opts.CaseSensitive {
				ext = strings.ToLower(ext)
			}
			if ext == "" || !extMap[ext] {
				return nil
			}
		}

		result.Files = append(result.Files, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk directory: %w", err)
	}

	SortFolded(result.Files)

	return result, nil
}

// walkRootFor returns the path to hand to afero.Walk for dir.
// Walk uses Lstat on its root, so a symlinked directory would be visited as a
// single non-directory entry. A trailing separator makes the lookup resolve
// the link while child paths still join under dir.
func walkRootFor(fs afero.Fs, dir string) string {
	lstater, ok := fs.(afero.Lstater)
	if !ok {
		return dir
	}
	info, lstatCalled, err := lstater.LstatIfPossible(dir)
	if err != nil || !lstatCalled || info.Mode()&os.ModeSymlink == 0 {
		return dir
	}
	return strings.TrimRight(dir, string(filepath.Separator)) + string(filepath.Separator)
}

// isRegular reports whether info describes a regular file, following symlinks
func isRegular(fs afero.Fs, path string, info os.FileInfo) bool {
	if info.Mode().IsRegular() {
		return true
	}
	if info.Mode()&os.ModeSymlink == 0 {
		return false
	}
	target, err := fs.Stat(path)
	if err != nil {
		return false
	}
	return target.Mode().IsRegular()
}

// Suffix returns the final extension of name including the dot.
// A leading dot alone does not start an extension, so ".eslintrc" has none
// while ".eslintrc.json" has ".json".
func Suffix(name string) string {
	ext := filepath.Ext(name)
	if ext == name {
		return ""
	}
	return ext
}

// SortFolded sorts paths in place by their lower-cased forward-slash form,
// falling back to the raw form so that the order is total.
func SortFolded(paths []string) {
	sort.SliceStable(paths, func(i, j int) bool {
		return FoldedLess(paths[i], paths[j])
	})
}

// FoldedLess compares two paths case-insensitively on their forward-slash form
func FoldedLess(a, b string) bool {
	fa := strings.ToLower(filepath.ToSlash(a))
	fb := strings.ToLower(filepath.ToSlash(b))
	if fa != fb {
		return fa < fb
	}
	return a < b
}
