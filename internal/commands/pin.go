package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/movingout-dev/movingout/internal/activity"
	"github.com/movingout-dev/movingout/internal/model"
	"github.com/movingout-dev/movingout/internal/pinning"
	"github.com/movingout-dev/movingout/internal/report"
)

func newPinCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "pin <category>",
		Short: "Snapshot the current housing or transportation choice",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withWorkspace(cmd, opts, func(ctx context.Context, ws *workspace) error {
				sub, err := ws.submission(ctx)
				if err != nil {
					return err
				}
				// The snapshot must see current totals and evidence.
				if err := ws.recompute(ctx, sub); err != nil {
					return err
				}

				pin, err := pinning.NewService(ws.schema, ws.activity).Pin(model.PinCategory(args[0]), sub)
				if err != nil {
					return err
				}
				if err := ws.save(ctx, sub); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Pinned %s: %s\n", pin.Category, pin.Label)
				return nil
			})
		},
	}
}

func newUnpinCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "unpin <category>",
		Short: "Remove a pinned choice",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withWorkspace(cmd, opts, func(ctx context.Context, ws *workspace) error {
				sub, err := ws.submission(ctx)
				if err != nil {
					return err
				}

				category := model.PinCategory(args[0])
				removed, err := pinning.NewService(ws.schema, ws.activity).Unpin(category, sub)
				if err != nil {
					return err
				}
				if !removed {
					fmt.Fprintf(cmd.OutOrStdout(), "Nothing pinned for %s\n", category)
					return nil
				}
				if err := ws.save(ctx, sub); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Unpinned %s\n", category)
				return nil
			})
		},
	}
}

func newCompareCommand(opts *rootOptions) *cobra.Command {
	var (
		outPath  string
		markdown bool
	)

	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Export the comparison sheet of pinned choices",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withWorkspace(cmd, opts, func(ctx context.Context, ws *workspace) error {
				sub, err := ws.submission(ctx)
				if err != nil {
					return err
				}

				items, err := ws.store.ListEvidence(ctx)
				if err != nil {
					return err
				}
				var files []model.EvidenceFile
				for _, item := range items {
					fs, err := ws.store.EvidenceFiles(ctx, item.ID)
					if err != nil {
						return err
					}
					files = append(files, fs...)
				}

				sheet := report.Comparison{
					Submission:  sub,
					Constants:   ws.constants,
					Schema:      ws.schema,
					Evidence:    items,
					Files:       files,
					GeneratedAt: time.Now(),
				}

				name := "comparison_sheet.html"
				if markdown {
					name = "comparison_sheet.md"
				}
				path := outPath
				if path == "" {
					path = filepath.Join(ws.path(ws.cfg.Files.Exports), name)
				}

				var content string
				if markdown {
					content = sheet.Markdown()
				} else if content, err = sheet.HTML(); err != nil {
					return err
				}

				if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
					return fmt.Errorf("creating export directory: %w", err)
				}
				if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
					return fmt.Errorf("writing comparison sheet: %w", err)
				}

				details := fmt.Sprintf("path=%s pinned=%d", path, len(sub.Pinned))
				if _, err := ws.activity.Record(activity.Export, "comparison_sheet", details); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default exports/comparison_sheet.html)")
	cmd.Flags().BoolVar(&markdown, "markdown", false, "write Markdown instead of HTML")
	return cmd
}
