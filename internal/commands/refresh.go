package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/movingout-dev/movingout/internal/activity"
	"github.com/movingout-dev/movingout/internal/constants"
	"github.com/movingout-dev/movingout/internal/snapshot"
	"github.com/movingout-dev/movingout/internal/store"
)

func newRefreshCommand(opts *rootOptions) *cobra.Command {
	var wage, transit, reset bool

	cmd := &cobra.Command{
		Use:   "refresh",
		Short: "Update the minimum wage and transit fare from their published pages",
		Long: `Fetch the current minimum wage and monthly transit pass from their public
pages and store them as this workspace's constants. With neither flag both are
refreshed. --reset drops the stored values and goes back to the configured
constants.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if reset {
				return withWorkspace(cmd, opts, func(ctx context.Context, ws *workspace) error {
					if err := ws.resetConstants(ctx); err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "Constants reset to %s\n", ws.constants.ConstantsVersion)
					return nil
				})
			}
			if !wage && !transit {
				wage, transit = true, true
			}
			return withWorkspace(cmd, opts, func(ctx context.Context, ws *workspace) error {
				results, err := ws.refresh(ctx, snapshot.NewRefresher(ws.logger), wage, transit)
				for _, r := range results {
					fmt.Fprintln(cmd.OutOrStdout(), r)
				}
				return err
			})
		},
	}

	cmd.Flags().BoolVar(&wage, "wage", false, "refresh the minimum wage")
	cmd.Flags().BoolVar(&transit, "transit", false, "refresh the transit pass")
	cmd.Flags().BoolVar(&reset, "reset", false, "discard refreshed values")
	cmd.MarkFlagsMutuallyExclusive("reset", "wage")
	cmd.MarkFlagsMutuallyExclusive("reset", "transit")
	return cmd
}

// refresh updates the selected snapshot values, stores the new constants and
// recomputes the worksheet. Values that were fetched are kept even when
// another fetch fails.
func (ws *workspace) refresh(ctx context.Context, r *snapshot.Refresher, wage, transit bool) ([]string, error) {
	type job struct {
		enabled bool
		subject string
		fetch   func(context.Context, *constants.Constants) (snapshot.Result, error)
	}
	jobs := []job{
		{wage, "minimum_wage", r.RefreshMinimumWage},
		{transit, "transit_monthly_pass", r.RefreshTransitPass},
	}

	var (
		lines []string
		errs  []error
	)
	next := ws.constants
	for _, j := range jobs {
		if !j.enabled {
			continue
		}
		res, err := j.fetch(ctx, next)
		if err != nil {
			ws.logger.WithError(err).WithField("value", j.subject).Warn("refresh failed")
			errs = append(errs, err)
			continue
		}
		next = res.Constants
		details := fmt.Sprintf("value=%.2f source=%s", res.Value, res.SourceURL)
		if _, err := ws.activity.Record(activity.ConstantsEdit, j.subject, details); err != nil {
			return lines, err
		}
		lines = append(lines, fmt.Sprintf("%s: %.2f (%s)", j.subject, res.Value, res.SourceURL))
	}

	if next == ws.constants {
		return lines, errors.Join(errs...)
	}
	if err := ws.store.SaveConstants(ctx, next); err != nil {
		return lines, err
	}
	ws.constants = next

	if err := ws.recomputeStored(ctx); err != nil {
		return lines, err
	}
	return lines, errors.Join(errs...)
}

// resetConstants removes the stored override and recomputes the worksheet
// against the configured constants.
func (ws *workspace) resetConstants(ctx context.Context) error {
	from := ws.constants.ConstantsVersion
	if err := ws.store.ClearConstants(ctx); err != nil {
		return err
	}
	next, err := ws.resolveConstants(ctx)
	if err != nil {
		return err
	}
	ws.constants = next

	details := fmt.Sprintf("reset from=%s to=%s", from, next.ConstantsVersion)
	if _, err := ws.activity.Record(activity.ConstantsEdit, "constants", details); err != nil {
		return err
	}
	return ws.recomputeStored(ctx)
}

// recomputeStored saves the worksheet against the current constants, if one
// exists yet.
func (ws *workspace) recomputeStored(ctx context.Context) error {
	sub, err := ws.store.LoadSubmission(ctx)
	switch {
	case errors.Is(err, store.ErrNotFound):
		return nil
	case err != nil:
		return err
	}
	return ws.save(ctx, sub)
}
