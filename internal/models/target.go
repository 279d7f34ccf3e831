package models

import (
	"errors"
	"fmt"
	"path"
	"strings"
)

// TargetKind distinguishes explicit file targets from directory targets
type TargetKind string

const (
	KindFile TargetKind = "FILE" // Single file, included regardless of extension
	KindDir  TargetKind = "DIR"  // Directory, walked recursively and filtered by extension
)

// ParseTargetKind converts a config value to a TargetKind (case-insensitive)
func ParseTargetKind(s string) (TargetKind, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case string(KindFile):
		return KindFile, nil
	case string(KindDir):
		return KindDir, nil
	default:
		return "", fmt.Errorf("unknown target kind %q (want FILE or DIR)", s)
	}
}

// Target is a configured path segment, relative to the project root, to include in a dump
type Target struct {
	Path string     `yaml:"path"` // Forward-slash path relative to root
	Kind TargetKind `yaml:"kind"` // FILE or DIR
}

// Validate checks that the target is usable relative to a root
func (t Target) Validate() error {
	if strings.TrimSpace(t.Path) == "" {
		return errors.New("target path is required")
	}
	if path.IsAbs(t.Path) || strings.HasPrefix(t.Path, `\`) || (len(t.Path) > 1 && t.Path[1] == ':') {
		return fmt.Errorf("target path %q must be relative to the root", t.Path)
	}
	if c := path.Clean(strings.ReplaceAll(t.Path, `\`, "/")); c == ".." || strings.HasPrefix(c, "../") {
		return fmt.Errorf("target path %q must stay inside the root", t.Path)
	}
	if t.Kind != KindFile && t.Kind != KindDir {
		return fmt.Errorf("target %q has unknown kind %q (want FILE or DIR)", t.Path, t.Kind)
	}
	return nil
}

// String renders the target as "path (KIND)"
func (t Target) String() string {
	return fmt.Sprintf("%s (%s)", t.Path, t.Kind)
}

// DefaultTargets returns the built-in target list used when no config overrides it
func DefaultTargets() []Target {
	return []Target{
		{Path: "app/page.js", Kind: KindFile},
		{Path: "components", Kind: KindDir},
	}
}
