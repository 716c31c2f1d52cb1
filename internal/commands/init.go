package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/movingout-dev/movingout/internal/config"
	"github.com/movingout-dev/movingout/internal/model"
)

func newInitCommand(opts *rootOptions) *cobra.Command {
	var student model.Student

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new worksheet",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := opts.dir
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			if err := runInit(cmd, &rootOptions{dir: absDir, logLevel: opts.logLevel}, student); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Initialized worksheet for %s at %s\n", student.Name, absDir)
			return nil
		},
	}

	cmd.Flags().StringVar(&student.Name, "name", "", "student name (required)")
	_ = cmd.MarkFlagRequired("name")
	cmd.Flags().StringVar(&student.Class, "class", "", "class or course")
	cmd.Flags().StringVar(&student.Teacher, "teacher", "", "teacher name")

	return cmd
}

func runInit(cmd *cobra.Command, opts *rootOptions, student model.Student) error {
	dir := opts.dir
	cfgPath := filepath.Join(dir, config.FileName)
	if _, err := os.Stat(cfgPath); err == nil {
		return fmt.Errorf("%s already exists", cfgPath)
	}

	cfg := config.Default(student.Name)
	cfg.Student.Class = student.Class
	cfg.Student.Teacher = student.Teacher

	for _, d := range []string{"logs", filepath.Dir(cfg.Files.Database), cfg.Files.Exports} {
		if err := os.MkdirAll(filepath.Join(dir, d), 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", d, err)
		}
	}

	if err := config.Save(cfgPath, cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	gitignore := "data/\nexports/\n.env\n"
	if err := os.WriteFile(filepath.Join(dir, ".gitignore"), []byte(gitignore), 0o644); err != nil {
		return fmt.Errorf("writing .gitignore: %w", err)
	}

	return withWorkspace(cmd, opts, func(ctx context.Context, ws *workspace) error {
		sub := &model.Submission{
			ID:            uuid.NewString(),
			SchemaVersion: ws.schema.SchemaVersion,
			Student:       student,
			Inputs:        model.Inputs{},
			Reflections:   map[string]string{},
			Pinned:        []model.PinnedChoice{},
		}
		if err := ws.save(ctx, sub); err != nil {
			return fmt.Errorf("writing worksheet: %w", err)
		}
		return nil
	})
}
