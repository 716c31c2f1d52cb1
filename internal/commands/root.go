package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/movingout-dev/movingout/internal/buildinfo"
)

// rootOptions are the persistent flags shared by every subcommand.
type rootOptions struct {
	dir      string
	logLevel string
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:     "movingout",
		Short:   "Moving-out budget worksheet",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.dir, "dir", ".", "workspace directory")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level (overrides movingout.yaml)")

	rootCmd.AddCommand(
		newInitCommand(opts),
		newSetCommand(opts),
		newComputeCommand(opts),
		newCheckCommand(opts),
		newPinCommand(opts),
		newUnpinCommand(opts),
		newCompareCommand(opts),
		newEvidenceCommand(opts),
		newRefreshCommand(opts),
		newLogCommand(opts),
		newMigrateCommand(opts),
		newServeCommand(opts),
	)

	return rootCmd
}
