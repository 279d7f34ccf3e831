package cmd

import (
	"github.com/spf13/cobra"

	"github.com/harrison/projdump/internal/display"
	"github.com/harrison/projdump/internal/logger"
)

// NewListCommand creates and returns the list subcommand
func NewListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show which files would be dumped, without writing anything",
		Long: `Resolve the configured targets exactly as dump does and print the
files in report order. Missing targets are reported as a warning.
No file contents are read and no report is written.`,
		Args:         cobra.NoArgs,
		RunE:         runList,
		SilenceUsage: true,
	}

	return cmd
}

func runList(cmd *cobra.Command, args []string) error {
	root, cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	stderr := cmd.ErrOrStderr()
	consoleLog := logger.NewConsoleLogger(stderr, cfg.LogLevel)

	plan, err := newDumper(root, cfg, consoleLog).Plan()
	if err != nil {
		return err
	}

	progress := display.NewProgressIndicator(cmd.OutOrStdout(), len(plan.Files))
	progress.Start(plan.Root)
	for _, file := range plan.Files {
		progress.Step(file.RelPath)
	}
	progress.Complete()

	if plan.HasMissing() {
		display.WarnMissingTargets(plan.Missing).Display(stderr)
	}

	return nil
}
