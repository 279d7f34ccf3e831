package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrRootNotDirectory is returned when the resolved project root is not a directory
var ErrRootNotDirectory = errors.New("project root is not a directory")

// ResolveRoot returns the absolute, symlink-free project root.
// Priority order:
//  1. explicit root (the --root flag) if non-empty
//  2. PROJDUMP_ROOT environment variable (if set)
//  3. current working directory
func ResolveRoot(explicit string) (string, error) {
	root := explicit
	if root == "" {
		root = os.Getenv(EnvRoot)
	}
	if root == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("get working directory: %w", err)
		}
		root = cwd
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("resolve root %s: %w", root, err)
	}

	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", fmt.Errorf("resolve root %s: %w", abs, err)
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return "", fmt.Errorf("resolve root %s: %w", resolved, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%w: %s", ErrRootNotDirectory, resolved)
	}

	return resolved, nil
}

// Load resolves the root and builds the effective configuration for it:
// defaults, then <root>/.projdump/config.yaml, then environment overrides.
// Flags are merged by the caller, followed by Validate.
func Load(explicitRoot, configPath string) (string, *Config, error) {
	root, err := ResolveRoot(explicitRoot)
	if err != nil {
		return "", nil, err
	}

	var cfg *Config
	if configPath == "" {
		cfg, err = LoadConfigFromDir(root)
	} else {
		cfg, err = LoadConfig(configPath)
	}
	if err != nil {
		return "", nil, err
	}
	cfg.ApplyEnv(os.LookupEnv)

	return root, cfg, nil
}
