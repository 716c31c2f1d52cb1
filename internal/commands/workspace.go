package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/movingout-dev/movingout/internal/activity"
	"github.com/movingout-dev/movingout/internal/budget"
	"github.com/movingout-dev/movingout/internal/config"
	"github.com/movingout-dev/movingout/internal/constants"
	"github.com/movingout-dev/movingout/internal/evidence"
	"github.com/movingout-dev/movingout/internal/model"
	"github.com/movingout-dev/movingout/internal/readiness"
	"github.com/movingout-dev/movingout/internal/schema"
	"github.com/movingout-dev/movingout/internal/store"
)

// workspace is an initialized worksheet directory with its resources open.
type workspace struct {
	root      string
	cfg       *config.Config
	store     *store.Store
	schema    *schema.Schema
	constants *constants.Constants
	activity  *activity.Log
	logger    *logrus.Logger
}

func newLogger(level string, out io.Writer) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(out)
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	logger.SetLevel(lvl)
	return logger
}

// openWorkspace loads movingout.yaml from the workspace directory and opens
// the store. Constants come from the stored override, then the configured
// file, then the bundled defaults.
func openWorkspace(ctx context.Context, opts *rootOptions, stderr io.Writer) (*workspace, error) {
	root, err := filepath.Abs(opts.dir)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	cfg, err := config.Load(filepath.Join(root, config.FileName))
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%s has no %s; run `movingout init` first", root, config.FileName)
	}
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnv(os.Getenv)

	level := cfg.Server.LogLevel
	if opts.logLevel != "" {
		level = opts.logLevel
	}

	ws := &workspace{
		root:     root,
		cfg:      cfg,
		schema:   schema.Default(),
		activity: activity.New(root),
		logger:   newLogger(level, stderr),
	}

	if cfg.Files.Schema != "" {
		ws.schema, err = schema.Load(ws.path(cfg.Files.Schema))
		if err != nil {
			return nil, err
		}
		if err := checkComputeKeys(ws.schema); err != nil {
			return nil, fmt.Errorf("%s: %w", cfg.Files.Schema, err)
		}
	}

	ws.store, err = store.Open(ws.path(cfg.Files.Database))
	if err != nil {
		return nil, err
	}

	ws.constants, err = ws.resolveConstants(ctx)
	if err != nil {
		_ = ws.store.Close()
		return nil, err
	}
	return ws, nil
}

// checkComputeKeys rejects derived fields the budget engine cannot fill.
func checkComputeKeys(s *schema.Schema) error {
	known := map[string]bool{}
	for _, key := range budget.ComputeKeys() {
		known[key] = true
	}
	var errs []error
	for _, f := range s.Fields {
		if f.Role == schema.RoleDerived && !known[f.ComputeKey] {
			errs = append(errs, fmt.Errorf("field %s: unknown compute_key %q", f.ID, f.ComputeKey))
		}
	}
	return errors.Join(errs...)
}

func (ws *workspace) resolveConstants(ctx context.Context) (*constants.Constants, error) {
	c, err := ws.store.LoadConstants(ctx)
	if err == nil {
		return c, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}
	if ws.cfg.Files.Constants != "" {
		return constants.Load(ws.path(ws.cfg.Files.Constants))
	}
	return constants.Default(), nil
}

// path resolves a configured path against the workspace root.
func (ws *workspace) path(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(ws.root, p)
}

func (ws *workspace) Close() error {
	return ws.store.Close()
}

// withWorkspace opens the workspace for the duration of fn.
func withWorkspace(cmd *cobra.Command, opts *rootOptions, fn func(ctx context.Context, ws *workspace) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ws, err := openWorkspace(ctx, opts, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer ws.Close()
	return fn(ctx, ws)
}

func (ws *workspace) evidence() *evidence.Service {
	return evidence.NewService(ws.store, ws.activity, ws.logger)
}

func (ws *workspace) submission(ctx context.Context) (*model.Submission, error) {
	sub, err := ws.store.LoadSubmission(ctx)
	if errors.Is(err, store.ErrNotFound) {
		return nil, errors.New("no worksheet found; run `movingout init` first")
	}
	return sub, err
}

// recompute refreshes everything derived on sub: totals, evidence references
// and readiness flags.
func (ws *workspace) recompute(ctx context.Context, sub *model.Submission) error {
	items, err := ws.store.ListEvidence(ctx)
	if err != nil {
		return err
	}
	if sub.Inputs == nil {
		sub.Inputs = model.Inputs{}
	}
	if sub.Reflections == nil {
		sub.Reflections = map[string]string{}
	}
	sub.Derived = budget.Compute(sub.Inputs, ws.constants)
	sub.EvidenceRefs = evidence.Refs(items)
	sub.Flags = readiness.Evaluate(ws.schema, sub, items, ws.constants)
	sub.ConstantsVersion = ws.constants.ConstantsVersion
	sub.UpdatedAt = time.Now().UTC()
	return nil
}

// save recomputes and stores sub.
func (ws *workspace) save(ctx context.Context, sub *model.Submission) error {
	if err := ws.recompute(ctx, sub); err != nil {
		return err
	}
	return ws.store.SaveSubmission(ctx, sub)
}
