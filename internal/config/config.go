package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/harrison/projdump/internal/models"
)

// Environment variables that override config file values
const (
	EnvRoot     = "PROJDUMP_ROOT"
	EnvOutput   = "PROJDUMP_OUTPUT"
	EnvLogLevel = "PROJDUMP_LOG_LEVEL"
	EnvExcludes = "PROJDUMP_EXCLUDES"
)

// DefaultOutput is the report file name, written into the project root
const DefaultOutput = "dump.txt"

// Config represents projdump configuration options
type Config struct {
	// Output is the report path; relative paths are resolved against the root
	Output string `yaml:"output"`

	// Targets is the ordered list of files and directories to dump
	Targets []models.Target `yaml:"targets"`

	// Extensions is the set of suffixes eligible for inclusion from DIR targets.
	// Matching is case-sensitive and exact.
	Extensions []string `yaml:"extensions"`

	// Excludes is the set of bare file names skipped wherever they are found
	Excludes []string `yaml:"excludes"`

	// SkipDirs is a list of directory names pruned while walking DIR targets
	SkipDirs []string `yaml:"skip_dirs"`

	// LogLevel sets the logging verbosity (trace, debug, info, warn, error)
	LogLevel string `yaml:"log_level"`

	// Lock wraps the report write in an advisory lock on "<output>.lock"
	Lock bool `yaml:"lock"`

	// StrictRead makes an unreadable resolved file fatal instead of skipping it
	StrictRead bool `yaml:"strict_read"`
}

// DefaultExtensions returns the allowed extension set for DIR targets
func DefaultExtensions() []string {
	return []string{".js", ".jsx", ".ts", ".tsx", ".json"}
}

// DefaultConfig returns a Config with sensible default values
func DefaultConfig() *Config {
	return &Config{
		Output:     DefaultOutput,
		Targets:    models.DefaultTargets(),
		Extensions: DefaultExtensions(),
		Excludes:   []string{},
		SkipDirs:   []string{},
		LogLevel:   "info",
		Lock:       false,
		StrictRead: false,
	}
}

// LoadConfig loads configuration from the specified file path.
// If the file doesn't exist, returns default configuration without error.
// If the file exists but is malformed, returns an error.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Kinds are parsed by hand so that "file" and "dir" are accepted too.
	type yamlTarget struct {
		Path string `yaml:"path"`
		Kind string `yaml:"kind"`
	}
	type yamlConfig struct {
		Output     string       `yaml:"output"`
		Targets    []yamlTarget `yaml:"targets"`
		Extensions []string     `yaml:"extensions"`
		Excludes   []string     `yaml:"excludes"`
		SkipDirs   []string     `yaml:"skip_dirs"`
		LogLevel   string       `yaml:"log_level"`
		Lock       bool         `yaml:"lock"`
		StrictRead bool         `yaml:"strict_read"`
	}

	var yamlCfg yamlConfig
	if err := yaml.Unmarshal(data, &yamlCfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Lists replace the defaults only when their key is present, so an
	// explicit empty list (e.g. "extensions: []") is honored.
	var rawMap map[string]interface{}
	if err := yaml.Unmarshal(data, &rawMap); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	present := func(key string) bool {
		_, ok := rawMap[key]
		return ok
	}

	if yamlCfg.Output != "" {
		cfg.Output = yamlCfg.Output
	}
	if present("targets") {
		cfg.Targets = make([]models.Target, 0, len(yamlCfg.Targets))
		for i, t := range yamlCfg.Targets {
			kind, err := models.ParseTargetKind(t.Kind)
			if err != nil {
				return nil, fmt.Errorf("targets[%d]: %w", i, err)
			}
			cfg.Targets = append(cfg.Targets, models.Target{Path: t.Path, Kind: kind})
		}
	}
	if present("extensions") {
		cfg.Extensions = append([]string{}, yamlCfg.Extensions...)
	}
	if present("excludes") {
		cfg.Excludes = append([]string{}, yamlCfg.Excludes...)
	}
	if present("skip_dirs") {
		cfg.SkipDirs = append([]string{}, yamlCfg.SkipDirs...)
	}
	if yamlCfg.LogLevel != "" {
		cfg.LogLevel = yamlCfg.LogLevel
	}
	if yamlCfg.Lock {
		cfg.Lock = true
	}
	if yamlCfg.StrictRead {
		cfg.StrictRead = true
	}

	return cfg, nil
}

// ConfigPath returns the location of the config file for a project root
func ConfigPath(root string) string {
	return filepath.Join(root, ".projdump", "config.yaml")
}

// LoadConfigFromDir loads configuration from .projdump/config.yaml in the specified directory.
// If the directory or file doesn't exist, returns default configuration without error.
func LoadConfigFromDir(dir string) (*Config, error) {
	return LoadConfig(ConfigPath(dir))
}

// ApplyEnv overrides configuration values from environment variables.
// lookup is usually os.LookupEnv.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	if v, ok := lookup(EnvOutput); ok && v != "" {
		c.Output = v
	}
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		c.LogLevel = v
	}
	if v, ok := lookup(EnvExcludes); ok {
		c.Excludes = splitList(v)
	}
}

// MergeWithFlags merges CLI flags into the configuration.
// Non-nil flag values override configuration values; excludes from flags
// are added to the configured set.
func (c *Config) MergeWithFlags(output *string, logLevel *string, excludes []string, lock *bool, strictRead *bool) {
	if output != nil {
		c.Output = *output
	}
	if logLevel != nil {
		c.LogLevel = *logLevel
	}
	if len(excludes) > 0 {
		c.Excludes = append(c.Excludes, excludes...)
	}
	if lock != nil {
		c.Lock = *lock
	}
	if strictRead != nil {
		c.StrictRead = *strictRead
	}
}

// Validate validates the configuration values.
// Returns an error if any values are invalid.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Output) == "" {
		return errors.New("output cannot be empty")
	}

	if len(c.Targets) == 0 {
		return errors.New("at least one target is required")
	}
	for i, t := range c.Targets {
		if err := t.Validate(); err != nil {
			return fmt.Errorf("targets[%d]: %w", i, err)
		}
	}

	for _, ext := range c.Extensions {
		if !strings.HasPrefix(ext, ".") || len(ext) < 2 {
			return fmt.Errorf("invalid extension %q, must start with '.'", ext)
		}
	}

	for _, name := range c.Excludes {
		if name == "" || strings.ContainsAny(name, `/\`) {
			return fmt.Errorf("invalid exclude %q, must be a bare file name", name)
		}
	}

	validLevels := map[string]bool{
		"trace": true,
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[strings.ToLower(c.LogLevel)] {
		return fmt.Errorf("invalid log_level %q, must be one of: trace, debug, info, warn, error", c.LogLevel)
	}

	return nil
}

// OutputPath resolves the report path against root
func (c *Config) OutputPath(root string) string {
	if filepath.IsAbs(c.Output) {
		return filepath.Clean(c.Output)
	}
	return filepath.Join(root, filepath.FromSlash(c.Output))
}

// ExcludeNames returns the exclusion set, sorted and de-duplicated
func (c *Config) ExcludeNames() []string {
	seen := make(map[string]bool, len(c.Excludes))
	names := make([]string, 0, len(c.Excludes))
	for _, name := range c.Excludes {
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// splitList splits a comma separated list, dropping blanks
func splitList(s string) []string {
	out := []string{}
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
