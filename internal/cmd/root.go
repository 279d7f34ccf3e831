package cmd

import (
	"github.com/spf13/cobra"
)

// Version is injected at build time via -ldflags
var Version = "dev"

// NewRootCommand creates and returns the root cobra command for projdump.
// Running it without a subcommand is the same as running "projdump dump".
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "projdump",
		Short: "Concatenate project source files into a single text report",
		Long: `Projdump writes the configured files and directories of a project
into one plain-text report (dump.txt by default), suitable for review
or for pasting into other tools.

Targets, allowed extensions, and excluded file names are read from
.projdump/config.yaml under the project root. Targets that do not exist
are listed at the end of the report instead of failing the run.`,
		Version: Version,
		Args:    cobra.NoArgs,
		RunE:    runDump,
		// Silence usage on errors to avoid duplicate help text;
		// main prints the error itself
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := cmd.PersistentFlags()
	flags.StringP("root", "r", "", "Project root (default: $PROJDUMP_ROOT or the working directory)")
	flags.StringP("config", "c", "", "Path to config file (default: <root>/.projdump/config.yaml)")
	flags.StringSliceP("exclude", "x", nil, "Bare file name to exclude (repeatable, adds to configured excludes)")
	flags.StringP("output", "o", "", "Report path, relative to the root (default: dump.txt)")
	flags.String("log-level", "", "Log level: trace, debug, info, warn, error")
	flags.Bool("lock", false, "Hold an advisory lock on <output>.lock while writing")
	flags.Bool("strict", false, "Fail the run when a resolved file cannot be read")

	// Add subcommands
	cmd.AddCommand(NewDumpCommand())
	cmd.AddCommand(NewListCommand())

	return cmd
}
