package toolchain

import (
	"context"
	"io"

	"github.com/satishbabariya/dsolve/internal/module"
)

// Solver runs the constraint solver over a synthetic unit. The solver writes
// <unit>.annot next to its input as a side effect.
type Solver struct {
	Runner   Runner
	Template Template
	Stdout   io.Writer
	Stderr   io.Writer
}

// Solve invokes the solver with flags, in order, followed by unit's source.
func (s *Solver) Solve(ctx context.Context, unit module.Name, flags []string) (Result, error) {
	args := make([]string, 0, len(flags)+1)
	args = append(args, flags...)
	args = append(args, unit.Source())

	return s.Runner.Run(ctx, Command{
		Tool:   "solver",
		Argv:   s.Template.Argv(args...),
		Stdout: s.Stdout,
		Stderr: s.Stderr,
	})
}
