package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/movingout-dev/movingout/internal/activity"
	"github.com/movingout-dev/movingout/internal/budget"
	"github.com/movingout-dev/movingout/internal/model"
	"github.com/movingout-dev/movingout/internal/readiness"
	"github.com/movingout-dev/movingout/internal/report"
	"github.com/movingout-dev/movingout/internal/schema"
)

func newSetCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "set field=value...",
		Short: "Set worksheet fields",
		Long: `Set one or more worksheet fields. An empty value clears the field.
Table fields take a JSON array of rows, or @path to read one from a file.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withWorkspace(cmd, opts, func(ctx context.Context, ws *workspace) error {
				sub, err := ws.submission(ctx)
				if err != nil {
					return err
				}

				for _, arg := range args {
					id, raw, ok := strings.Cut(arg, "=")
					if !ok {
						return fmt.Errorf("%q: expected field=value", arg)
					}
					if err := setField(ws, sub, strings.TrimSpace(id), raw); err != nil {
						return err
					}
				}

				if err := ws.save(ctx, sub); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Updated %d field(s); surplus %s\n",
					len(args), sub.Flags.SurplusOrDeficitAmount.StringFixed(2))
				return nil
			})
		},
	}
}

func setField(ws *workspace, sub *model.Submission, id, raw string) error {
	f, ok := ws.schema.Field(id)
	if !ok {
		return fmt.Errorf("unknown field %q", id)
	}

	switch f.Role {
	case schema.RoleDerived:
		return fmt.Errorf("%s is calculated and cannot be set", id)
	case schema.RoleReflection:
		if strings.TrimSpace(raw) == "" {
			delete(sub.Reflections, id)
		} else {
			sub.Reflections[id] = raw
		}
		_, err := ws.activity.Record(activity.FieldEdit, id, fmt.Sprintf("reflection chars=%d", len(raw)))
		return err
	}

	if strings.TrimSpace(raw) == "" {
		delete(sub.Inputs, id)
		_, err := ws.activity.Record(activity.FieldEdit, id, "cleared")
		return err
	}

	v, err := parseValue(f, raw)
	if err != nil {
		return fmt.Errorf("%s: %w", id, err)
	}
	sub.Inputs[id] = v

	details := fmt.Sprintf("value=%v", v)
	if f.Type.IsTable() {
		details = "table updated"
	}
	_, err = ws.activity.Record(activity.FieldEdit, id, details)
	return err
}

// parseValue converts command-line text to the value shape of a field.
func parseValue(f schema.Field, raw string) (any, error) {
	raw = strings.TrimSpace(raw)
	switch {
	case f.Type == schema.TypeNumber:
		n, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("%q is not a number", raw)
		}
		return n, nil
	case f.Type == schema.TypeCheckbox:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("%q is not true or false", raw)
		}
		return b, nil
	case f.Type == schema.TypeSelect:
		values := make([]string, 0, len(f.Options))
		for _, o := range f.Options {
			if o.Value == raw {
				return raw, nil
			}
			values = append(values, o.Value)
		}
		return nil, fmt.Errorf("%q is not one of %s", raw, strings.Join(values, ", "))
	case f.Type.IsTable():
		if path, ok := strings.CutPrefix(raw, "@"); ok {
			data, err := os.ReadFile(path)
			if err != nil {
				return nil, fmt.Errorf("reading table: %w", err)
			}
			raw = strings.TrimSpace(string(data))
		}
		var rows []map[string]any
		if err := json.Unmarshal([]byte(raw), &rows); err != nil {
			return nil, fmt.Errorf("table rows must be a JSON array of objects: %w", err)
		}
		return raw, nil
	default:
		return raw, nil
	}
}

func newComputeCommand(opts *rootOptions) *cobra.Command {
	var format, since string

	cmd := &cobra.Command{
		Use:   "compute",
		Short: "Recalculate the budget and show it",
		Long: `Recalculate the budget and show it. With --since, compare it against a
ledger saved earlier with --format csv and list only the lines that moved.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withWorkspace(cmd, opts, func(ctx context.Context, ws *workspace) error {
				sub, err := ws.submission(ctx)
				if err != nil {
					return err
				}
				if err := ws.save(ctx, sub); err != nil {
					return err
				}

				if violations := budget.Verify(sub.Derived); len(violations) > 0 {
					errs := make([]error, len(violations))
					for i, v := range violations {
						errs[i] = v
					}
					ws.logger.WithField("count", len(violations)).Error("budget failed verification")
					return fmt.Errorf("budget failed verification: %w", errors.Join(errs...))
				}

				details := fmt.Sprintf("constants_version=%s surplus=%s",
					sub.ConstantsVersion, sub.Derived.MonthlySurplus.StringFixed(2))
				if _, err := ws.activity.Record(activity.ComputeRun, sub.ID, details); err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				if since != "" {
					return writeChanges(out, since, budget.Lines(sub.Derived))
				}
				switch format {
				case "text":
					pct := readiness.CompletionPercent(ws.schema, sub.Inputs, sub.Flags, ws.constants)
					fmt.Fprintln(out, report.Summary(sub.Derived, sub.Flags, pct))
					return nil
				case "csv":
					return budget.WriteLines(out, budget.Lines(sub.Derived))
				case "json":
					enc := json.NewEncoder(out)
					enc.SetIndent("", "  ")
					return enc.Encode(computeOutput{
						ConstantsVersion:  sub.ConstantsVersion,
						Derived:           sub.Derived,
						Flags:             sub.Flags,
						CompletionPercent: readiness.CompletionPercent(ws.schema, sub.Inputs, sub.Flags, ws.constants),
					})
				default:
					return fmt.Errorf("unknown format %q (want text, csv or json)", format)
				}
			})
		},
	}

	cmd.Flags().StringVar(&format, "format", "text", "output format: text, csv or json")
	cmd.Flags().StringVar(&since, "since", "", "earlier CSV ledger to compare against")
	return cmd
}

// writeChanges prints the ledger lines that differ from the ledger at path.
func writeChanges(out io.Writer, path string, lines []budget.Line) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening ledger: %w", err)
	}
	defer f.Close()

	before, err := budget.ReadLines(f)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	changes := budget.Diff(before, lines)
	if len(changes) == 0 {
		fmt.Fprintf(out, "No changes since %s\n", path)
		return nil
	}
	fmt.Fprintf(out, "%d line(s) changed since %s\n", len(changes), path)
	for _, c := range changes {
		delta := c.Delta().StringFixed(2)
		if c.Delta().IsPositive() {
			delta = "+" + delta
		}
		fmt.Fprintf(out, "%s: %s -> %s (%s)\n", c.Key, c.Before.StringFixed(2), c.After.StringFixed(2), delta)
	}
	return nil
}

type computeOutput struct {
	ConstantsVersion  string               `json:"constants_version"`
	Derived           model.DerivedTotals  `json:"derived"`
	Flags             model.ReadinessFlags `json:"flags"`
	CompletionPercent int                  `json:"completion_percent"`
}

func newCheckCommand(opts *rootOptions) *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "check",
		Short: "List what is still missing before the worksheet is ready",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withWorkspace(cmd, opts, func(ctx context.Context, ws *workspace) error {
				sub, err := ws.submission(ctx)
				if err != nil {
					return err
				}
				if err := ws.recompute(ctx, sub); err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				flags := sub.Flags
				fmt.Fprintf(out, "Completion: %d%%\n", readiness.CompletionPercent(ws.schema, sub.Inputs, flags, ws.constants))
				for _, id := range flags.MissingRequiredFields {
					fmt.Fprintf(out, "missing field: %s (%s)\n", id, ws.schema.Label(id))
				}
				for _, et := range flags.MissingRequiredEvidence {
					fmt.Fprintf(out, "missing evidence: %s\n", et)
				}
				for _, c := range flags.UnsourcedCategories {
					fmt.Fprintf(out, "no source: %s\n", c)
				}
				for i, msg := range flags.FixNext {
					fmt.Fprintf(out, "%d. %s\n", i+1, msg)
				}

				violations := budget.Verify(sub.Derived)
				for _, v := range violations {
					fmt.Fprintf(out, "invariant: %s\n", v)
				}

				incomplete := len(flags.MissingRequiredFields) + len(flags.MissingRequiredEvidence)
				if incomplete == 0 && len(violations) == 0 {
					fmt.Fprintln(out, "Ready to submit.")
					return nil
				}
				if strict {
					if len(violations) > 0 {
						return fmt.Errorf("budget failed %d invariant check(s)", len(violations))
					}
					return fmt.Errorf("%d required item(s) missing", incomplete)
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "fail when anything required is missing or the budget does not add up")
	return cmd
}
