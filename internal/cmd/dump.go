package cmd

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/harrison/projdump/internal/display"
	"github.com/harrison/projdump/internal/logger"
)

// NewDumpCommand creates and returns the dump subcommand
func NewDumpCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Write the project report",
		Long: `Resolve every configured target under the project root and write
their contents, in order, to the report file.

Exit code: 0 when the report was written (even with missing targets),
1 when the root is unusable or the report cannot be written`,
		Args:         cobra.NoArgs,
		RunE:         runDump,
		SilenceUsage: true,
	}

	return cmd
}

func runDump(cmd *cobra.Command, args []string) error {
	root, cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	stderr := cmd.ErrOrStderr()
	consoleLog := logger.NewConsoleLogger(stderr, cfg.LogLevel)

	result, err := newDumper(root, cfg, consoleLog).Run()
	if err != nil {
		return err
	}

	display.DisplayWritten(cmd.OutOrStdout(), filepath.Base(result.OutputPath))

	if len(result.Unreadable) > 0 {
		display.WarnUnreadable(result.Unreadable).Display(stderr)
	}
	if len(result.Missing) > 0 {
		display.WarnMissingTargets(result.Missing).Display(stderr)
	}

	return nil
}
