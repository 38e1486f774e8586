// Package pipeline runs one qualifier-inference pass: assemble the synthetic
// unit, solve it, and rebase the annotations onto the original module.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/afero"

	"github.com/satishbabariya/dsolve/internal/annot"
	"github.com/satishbabariya/dsolve/internal/debug"
	"github.com/satishbabariya/dsolve/internal/module"
	"github.com/satishbabariya/dsolve/internal/toolchain"
	"github.com/satishbabariya/dsolve/internal/unit"
)

// ErrSourceNotFound is returned when the module's source file is missing.
var ErrSourceNotFound = errors.New("source file not found")

// Request is one invocation.
type Request struct {
	Source string   // path to <module>.ml
	Bare   bool     // skip qualifier generation
	Flags  []string // passed to the solver in order
}

// Report summarises a finished run.
type Report struct {
	Module    module.Name
	Unit      module.Name
	Scratch   string
	Kept      bool
	Offset    annot.Offset
	Stats     annot.Stats
	Generator toolchain.Result
	Solver    toolchain.Result
	Warnings  []string
	Duration  time.Duration
}

// Pipeline holds everything a run needs.
type Pipeline struct {
	Fs        afero.Fs
	Runner    toolchain.Runner
	Generator toolchain.Template
	Solver    toolchain.Template

	// ScratchRoot is where per-run scratch directories are created; empty
	// means the system temp directory.
	ScratchRoot string
	// KeepScratch leaves the scratch directory in place after the run.
	KeepScratch bool

	// Stdout and Stderr receive the solver's console output.
	Stdout io.Writer
	Stderr io.Writer
}

// Run executes the whole pass for req. Each run works in its own scratch
// directory, so concurrent runs on different modules do not interfere.
func (p *Pipeline) Run(ctx context.Context, req Request) (*Report, error) {
	start := time.Now()
	m, err := module.FromSource(req.Source)
	if err != nil {
		return nil, err
	}
	if ok, _ := afero.Exists(p.Fs, m.Source()); !ok {
		return nil, fmt.Errorf("%w: %s", ErrSourceNotFound, m.Source())
	}

	if err := Clean(p.Fs, m); err != nil {
		return nil, err
	}

	scratch, err := afero.TempDir(p.Fs, p.ScratchRoot, "dsolve-")
	if err != nil {
		return nil, fmt.Errorf("failed to create scratch directory: %w", err)
	}
	rep := &Report{Module: m, Unit: module.SyntheticIn(scratch), Scratch: scratch, Kept: p.KeepScratch}
	defer func() {
		if !p.KeepScratch {
			if err := p.Fs.RemoveAll(scratch); err != nil {
				debug.Warn("failed to remove scratch directory", "dir", scratch, "err", err)
			}
		}
		rep.Duration = time.Since(start)
	}()
	debug.Debug("starting run", "module", m, "scratch", scratch, "bare", req.Bare, "flags", req.Flags)

	asm := &unit.Assembler{Fs: p.Fs, Runner: p.Runner, Generator: p.Generator}
	if rep.Generator, err = asm.Assemble(ctx, m, rep.Unit, req.Bare); err != nil {
		return rep, fmt.Errorf("assemble %s: %w", m, err)
	}
	if rep.Generator.Failed() {
		rep.warn("qualifier generator exited with status %d; using %s as produced", rep.Generator.ExitCode, m.Quals())
	}

	solver := &toolchain.Solver{Runner: p.Runner, Template: p.Solver, Stdout: p.Stdout, Stderr: p.Stderr}
	if rep.Solver, err = solver.Solve(ctx, rep.Unit, req.Flags); err != nil {
		return rep, fmt.Errorf("solve %s: %w", m, err)
	}
	if rep.Solver.Failed() {
		if empty, _ := isEmpty(p.Fs, rep.Unit.Annot()); empty {
			return rep, rep.Solver.Err()
		}
		rep.warn("solver exited with status %d; rebasing the annotations it produced", rep.Solver.ExitCode)
	}

	rebaser := annot.NewRebaser(p.Fs)
	if rep.Offset, rep.Stats, err = rebaser.Rebase(rep.Unit, m); err != nil {
		return rep, fmt.Errorf("rebase %s: %w", m, err)
	}
	debug.Info("run finished", "module", m, "rebased", rep.Stats.Rebased, "warnings", len(rep.Warnings))
	return rep, nil
}

func (r *Report) warn(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	debug.Warn(msg)
	r.Warnings = append(r.Warnings, msg)
}

// isEmpty reports whether path is missing or has no content.
func isEmpty(fs afero.Fs, path string) (bool, error) {
	info, err := fs.Stat(path)
	if err != nil {
		return true, err
	}
	return info.Size() == 0, nil
}
