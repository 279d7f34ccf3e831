package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harrison/projdump/internal/config"
	"github.com/harrison/projdump/internal/dumper"
)

// loadSettings resolves the project root and the effective configuration:
// defaults, config file, environment, then flags that were explicitly set.
func loadSettings(cmd *cobra.Command) (string, *config.Config, error) {
	flags := cmd.Flags()

	rootFlag, _ := flags.GetString("root")
	configPath, _ := flags.GetString("config")

	root, cfg, err := config.Load(rootFlag, configPath)
	if err != nil {
		return "", nil, err
	}

	var outputPtr, logLevelPtr *string
	var lockPtr, strictPtr *bool

	if flags.Changed("output") {
		v, _ := flags.GetString("output")
		outputPtr = &v
	}
	if flags.Changed("log-level") {
		v, _ := flags.GetString("log-level")
		logLevelPtr = &v
	}
	if flags.Changed("lock") {
		v, _ := flags.GetBool("lock")
		lockPtr = &v
	}
	if flags.Changed("strict") {
		v, _ := flags.GetBool("strict")
		strictPtr = &v
	}
	excludes, _ := flags.GetStringSlice("exclude")

	cfg.MergeWithFlags(outputPtr, logLevelPtr, excludes, lockPtr, strictPtr)

	if err := cfg.Validate(); err != nil {
		return "", nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return root, cfg, nil
}

// newDumper builds a Dumper on the host filesystem from the effective configuration
func newDumper(root string, cfg *config.Config, log dumper.Logger) *dumper.Dumper {
	return dumper.New(dumper.Options{
		Root:       root,
		Targets:    cfg.Targets,
		Extensions: cfg.Extensions,
		Excludes:   cfg.ExcludeNames(),
		SkipDirs:   cfg.SkipDirs,
		OutputPath: cfg.OutputPath(root),
		Lock:       cfg.Lock,
		StrictRead: cfg.StrictRead,
	}, dumper.WithLogger(log))
}
