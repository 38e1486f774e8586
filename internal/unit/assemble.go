package unit

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/afero"

	"github.com/satishbabariya/dsolve/internal/module"
	"github.com/satishbabariya/dsolve/internal/toolchain"
)

// Assembler builds a synthetic unit from a module's qualifiers and source.
type Assembler struct {
	Fs        afero.Fs
	Runner    toolchain.Runner
	Generator toolchain.Template
}

// Assemble writes unit.quals = m.hquals + m.quals and
// unit.ml = unit.quals + m.ml. Unless bare is set, m.quals is first
// regenerated from the generator's stderr; in bare mode it is left empty.
// The generator's Result is returned so callers can report a failed run; it
// is the zero Result in bare mode.
func (a *Assembler) Assemble(ctx context.Context, m, unit module.Name, bare bool) (toolchain.Result, error) {
	var res toolchain.Result
	if bare {
		if err := a.truncate(m.Quals()); err != nil {
			return res, err
		}
	} else {
		var err error
		if res, err = a.generate(ctx, m); err != nil {
			return res, err
		}
	}

	if err := Concat(a.Fs, unit.Quals(), m.HQuals(), m.Quals()); err != nil {
		return res, err
	}
	if err := Concat(a.Fs, unit.Source(), unit.Quals(), m.Source()); err != nil {
		return res, err
	}
	return res, nil
}

// generate runs the qualifier generator on m.ml. Qualifiers arrive on the
// tool's stderr; its stdout is discarded.
func (a *Assembler) generate(ctx context.Context, m module.Name) (toolchain.Result, error) {
	quals, err := a.Fs.OpenFile(m.Quals(), os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return toolchain.Result{}, fmt.Errorf("failed to create %s: %w", m.Quals(), err)
	}

	res, runErr := a.Runner.Run(ctx, toolchain.Command{
		Tool:   "generator",
		Argv:   a.Generator.Argv(m.Source()),
		Stderr: quals,
	})
	closeErr := quals.Close()
	if runErr != nil {
		return res, runErr
	}
	if closeErr != nil {
		return res, fmt.Errorf("failed to write %s: %w", m.Quals(), closeErr)
	}
	return res, nil
}

func (a *Assembler) truncate(path string) error {
	f, err := a.Fs.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	return f.Close()
}
