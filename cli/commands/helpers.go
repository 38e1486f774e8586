package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/satishbabariya/dsolve/cli/internal/config"
	"github.com/satishbabariya/dsolve/cli/internal/ui"
	"github.com/satishbabariya/dsolve/internal/debug"
	"github.com/satishbabariya/dsolve/internal/history"
	"github.com/satishbabariya/dsolve/internal/module"
	"github.com/satishbabariya/dsolve/internal/pipeline"
	"github.com/satishbabariya/dsolve/internal/toolchain"
)

// bareFlag, as the first argument, skips qualifier generation.
const bareFlag = "-bare"

var errUsage = errors.New("usage: dsolve [-bare] <solver-flag>... <module>.ml")

// parseInvocation splits "[-bare] <flag>... <module>.ml". The last argument
// is always the source file; only the first argument may be -bare.
func parseInvocation(args []string) (pipeline.Request, error) {
	if len(args) == 0 {
		return pipeline.Request{}, errUsage
	}

	req := pipeline.Request{Source: args[len(args)-1]}
	rest := args[:len(args)-1]
	if len(rest) > 0 && rest[0] == bareFlag {
		req.Bare = true
		rest = rest[1:]
	}
	req.Flags = append([]string{}, rest...)

	if _, err := module.FromSource(req.Source); err != nil {
		return pipeline.Request{}, fmt.Errorf("%w\n%v", err, errUsage)
	}
	return req, nil
}

// takeGlobalFlags consumes leading --debug and --config flags. Commands that
// disable cobra's flag parsing receive them as plain arguments.
func takeGlobalFlags(args []string) ([]string, error) {
	for len(args) > 0 {
		arg := args[0]
		switch {
		case arg == "--debug":
			debugFlag = true
			args = args[1:]
		case strings.HasPrefix(arg, "--debug="):
			v, err := strconv.ParseBool(strings.TrimPrefix(arg, "--debug="))
			if err != nil {
				return nil, fmt.Errorf("invalid value for --debug: %w", err)
			}
			debugFlag = v
			args = args[1:]
		case arg == "--config":
			if len(args) < 2 {
				return nil, fmt.Errorf("--config requires a path\n%v", errUsage)
			}
			configPath = args[1]
			args = args[2:]
		case strings.HasPrefix(arg, "--config="):
			configPath = strings.TrimPrefix(arg, "--config=")
			args = args[1:]
		default:
			return args, nil
		}
	}
	return args, nil
}

// moduleArg accepts a module either as "<m>.ml" or as the bare name "<m>".
func moduleArg(arg string) module.Name {
	if m, err := module.FromSource(arg); err == nil {
		return m
	}
	return module.Name(arg)
}

// loadSettings loads the configuration and installs the debug logger.
func loadSettings() (*config.Config, error) {
	path := configPath
	if path == "" {
		path = os.Getenv("DSOLVE_CONFIG")
	}

	cfg, err := config.LoadConfig(path)
	if err != nil {
		return nil, err
	}

	debug.Init(cfg.Debug || debugFlag, os.Stderr)
	return cfg, nil
}

func parseTemplates(cfg *config.Config) (toolchain.Template, toolchain.Template, error) {
	gen, err := toolchain.ParseTemplate(cfg.Generator)
	if err != nil {
		return toolchain.Template{}, toolchain.Template{}, fmt.Errorf("generator: %w", err)
	}
	solver, err := toolchain.ParseTemplate(cfg.Solver)
	if err != nil {
		return toolchain.Template{}, toolchain.Template{}, fmt.Errorf("solver: %w", err)
	}
	return gen, solver, nil
}

func newPipeline(cfg *config.Config) (*pipeline.Pipeline, error) {
	gen, solver, err := parseTemplates(cfg)
	if err != nil {
		return nil, err
	}

	return &pipeline.Pipeline{
		Fs:          config.AppFs,
		Runner:      toolchain.NewInvoker(ui.NewTraceWriter(os.Stdout)),
		Generator:   gen,
		Solver:      solver,
		ScratchRoot: cfg.ScratchDir,
		KeepScratch: cfg.KeepScratch,
		Stdout:      os.Stdout,
		Stderr:      os.Stderr,
	}, nil
}

// runOnce runs the pipeline for req, reports the outcome and records it in
// the run history.
func runOnce(ctx context.Context, cfg *config.Config, p *pipeline.Pipeline, req pipeline.Request) error {
	started := time.Now()
	rep, err := p.Run(ctx, req)
	recordRun(ctx, cfg, req, rep, err, started)
	if err != nil {
		return err
	}

	for _, w := range rep.Warnings {
		ui.PrintWarning("%s", w)
	}
	ui.PrintSuccess("%s: %d annotation(s) rebased by %d line(s), %d char(s)",
		rep.Module.Annot(), rep.Stats.Rebased, rep.Offset.Lines, rep.Offset.Chars)
	if rep.Kept {
		ui.PrintInfo("Scratch unit kept at %s", rep.Unit.Source())
	}
	return nil
}

func recordRun(ctx context.Context, cfg *config.Config, req pipeline.Request, rep *pipeline.Report, runErr error, started time.Time) {
	if !cfg.History.Enabled {
		return
	}

	store, err := openHistory(cfg)
	if err != nil {
		debug.Warn("history unavailable", "err", err)
		return
	}
	defer store.Close()

	entry := history.Entry{
		StartedAt: started,
		Module:    strings.TrimSuffix(req.Source, module.SourceExt),
		Bare:      req.Bare,
		Flags:     req.Flags,
		Duration:  time.Since(started),
	}
	if rep != nil {
		entry.Module = rep.Module.String()
		entry.LineOffset = rep.Offset.Lines
		entry.CharOffset = rep.Offset.Chars
		entry.Rebased = rep.Stats.Rebased
		entry.Passed = rep.Stats.Passed
		entry.SolverExit = rep.Solver.ExitCode
	}
	if runErr != nil {
		entry.Error = runErr.Error()
	}

	if _, err := store.Add(ctx, entry); err != nil {
		debug.Warn("failed to record run", "err", err)
	}
}

func openHistory(cfg *config.Config) (*history.Store, error) {
	if err := config.AppFs.MkdirAll(filepath.Dir(cfg.History.Path), 0o755); err != nil {
		return nil, err
	}
	return history.Open(cfg.History.Path)
}
