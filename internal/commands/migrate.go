package commands

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/movingout-dev/movingout/internal/activity"
	"github.com/movingout-dev/movingout/internal/migrate"
)

func newMigrateCommand(opts *rootOptions) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Upgrade the worksheet to the current schema version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withWorkspace(cmd, opts, func(ctx context.Context, ws *workspace) error {
				sub, err := ws.submission(ctx)
				if err != nil {
					return err
				}

				from := sub.SchemaVersion
				upgraded, changes, err := migrate.Submission(sub, ws.schema, ws.constants)
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				for _, c := range changes {
					fmt.Fprintln(out, c)
				}
				if dryRun {
					fmt.Fprintf(out, "%d change(s) pending\n", len(changes))
					return nil
				}

				if err := ws.save(ctx, upgraded); err != nil {
					return err
				}
				for _, c := range changes {
					if _, err := ws.activity.Record(activity.Migrate, c.TableField, c.String()); err != nil {
						return err
					}
				}
				ws.logger.WithFields(logrus.Fields{
					"from":    from,
					"to":      upgraded.SchemaVersion,
					"changes": len(changes),
				}).Info("worksheet migrated")
				fmt.Fprintf(out, "Migrated to schema %s (%d change(s))\n", upgraded.SchemaVersion, len(changes))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "show changes without saving")
	return cmd
}
