package commands

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/movingout-dev/movingout/internal/evidence"
	"github.com/movingout-dev/movingout/internal/model"
	"github.com/movingout-dev/movingout/internal/schema"
)

func newEvidenceCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "evidence",
		Short: "Manage listing links and screenshots",
	}
	cmd.AddCommand(
		newEvidenceAddCommand(opts),
		newEvidenceRemoveCommand(opts),
		newEvidenceListCommand(opts),
	)
	return cmd
}

func evidenceType(s *schema.Schema, raw string) (model.EvidenceType, error) {
	names := make([]string, 0, len(s.EvidenceRequirements))
	for _, req := range s.EvidenceRequirements {
		if string(req.ID) == raw {
			return req.ID, nil
		}
		names = append(names, string(req.ID))
	}
	return "", fmt.Errorf("unknown evidence type %q (want %s)", raw, strings.Join(names, ", "))
}

func readUpload(path string) (evidence.Upload, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return evidence.Upload{}, fmt.Errorf("reading %s: %w", path, err)
	}
	// An unknown extension leaves MIME empty and the content is sniffed.
	return evidence.Upload{
		Filename: filepath.Base(path),
		MIME:     mime.TypeByExtension(filepath.Ext(path)),
		Data:     data,
	}, nil
}

func newEvidenceAddCommand(opts *rootOptions) *cobra.Command {
	var (
		url   string
		paths []string
	)

	cmd := &cobra.Command{
		Use:   "add <type>",
		Short: "Attach a URL or files to an evidence type",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withWorkspace(cmd, opts, func(ctx context.Context, ws *workspace) error {
				t, err := evidenceType(ws.schema, args[0])
				if err != nil {
					return err
				}

				uploads := make([]evidence.Upload, 0, len(paths))
				for _, p := range paths {
					up, err := readUpload(p)
					if err != nil {
						return err
					}
					uploads = append(uploads, up)
				}

				item, err := ws.evidence().Upsert(ctx, t, url, uploads)
				if err != nil {
					return err
				}

				sub, err := ws.submission(ctx)
				if err != nil {
					return err
				}
				if err := ws.save(ctx, sub); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Saved %s evidence (%d file(s))\n", t, len(item.FileIDs))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&url, "url", "", "listing URL")
	cmd.Flags().StringArrayVar(&paths, "file", nil, "screenshot or PDF to attach (repeatable)")
	return cmd
}

func newEvidenceRemoveCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <type>",
		Short: "Delete the evidence of a type",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withWorkspace(cmd, opts, func(ctx context.Context, ws *workspace) error {
				t, err := evidenceType(ws.schema, args[0])
				if err != nil {
					return err
				}
				removed, err := ws.evidence().Remove(ctx, t)
				if err != nil {
					return err
				}
				if !removed {
					fmt.Fprintf(cmd.OutOrStdout(), "No %s evidence\n", t)
					return nil
				}

				sub, err := ws.submission(ctx)
				if err != nil {
					return err
				}
				if err := ws.save(ctx, sub); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %s evidence\n", t)
				return nil
			})
		},
	}
}

func newEvidenceListCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored evidence",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withWorkspace(cmd, opts, func(ctx context.Context, ws *workspace) error {
				items, err := ws.evidence().List(ctx)
				if err != nil {
					return err
				}
				if len(items) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No evidence yet.")
					return nil
				}

				t := table.New().
					Border(lipgloss.NormalBorder()).
					Headers("TYPE", "URL", "FILES", "ADDED")
				for _, item := range items {
					files, err := ws.store.EvidenceFiles(ctx, item.ID)
					if err != nil {
						return err
					}
					names := make([]string, len(files))
					for i, f := range files {
						names[i] = f.Filename
					}
					t.Row(string(item.Type), item.URL, strings.Join(names, ", "), item.CreatedAt.Format("2006-01-02"))
				}
				fmt.Fprintln(cmd.OutOrStdout(), t.String())
				return nil
			})
		},
	}
}
