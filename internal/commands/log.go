package commands

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/movingout-dev/movingout/internal/activity"
)

func newLogCommand(opts *rootOptions) *cobra.Command {
	var (
		types []string
		limit int
	)

	cmd := &cobra.Command{
		Use:   "log",
		Short: "Show the activity log",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withWorkspace(cmd, opts, func(ctx context.Context, ws *workspace) error {
				entries, err := ws.activity.Entries()
				if err != nil {
					return err
				}

				want := make([]activity.EventType, len(types))
				for i, t := range types {
					want[i] = activity.EventType(strings.ToUpper(t))
				}
				entries = activity.Filter(entries, want...)
				if limit > 0 && len(entries) > limit {
					entries = entries[len(entries)-limit:]
				}

				if len(entries) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No activity.")
					return nil
				}

				t := table.New().
					Border(lipgloss.NormalBorder()).
					Headers("SEQ", "TIME", "EVENT", "SUBJECT", "DETAILS")
				for _, e := range entries {
					t.Row(strconv.Itoa(e.Seq), e.Timestamp.Local().Format(time.DateTime), string(e.Event), e.Subject, e.Details)
				}
				fmt.Fprintln(cmd.OutOrStdout(), t.String())
				return nil
			})
		},
	}

	cmd.Flags().StringSliceVar(&types, "type", nil, "only show these event types (e.g. PIN_ADD)")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "show only the last n entries")
	return cmd
}
