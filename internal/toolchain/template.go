// Package toolchain runs the external qualifier generator and solver.
package toolchain

import (
	"fmt"

	"github.com/kballard/go-shellquote"
)

// Default command templates for the liquid toolchain.
const (
	DefaultGenerator = "./liquid.opt -no-anormal -dqualifs -lqualifs"
	DefaultSolver    = "./liquid.opt -dframes"
)

// Template is a parsed command line prefix that further arguments are
// appended to.
type Template struct {
	argv []string
}

// ParseTemplate splits a command line using shell quoting rules.
func ParseTemplate(s string) (Template, error) {
	argv, err := shellquote.Split(s)
	if err != nil {
		return Template{}, fmt.Errorf("invalid command template %q: %w", s, err)
	}
	if len(argv) == 0 {
		return Template{}, ErrEmptyTemplate
	}
	return Template{argv: argv}, nil
}

// MustParseTemplate is like ParseTemplate but panics on error.
func MustParseTemplate(s string) Template {
	t, err := ParseTemplate(s)
	if err != nil {
		panic(err)
	}
	return t
}

// Program returns the executable named by the template.
func (t Template) Program() string {
	if len(t.argv) == 0 {
		return ""
	}
	return t.argv[0]
}

// Argv returns the template followed by args. The template is not modified.
func (t Template) Argv(args ...string) []string {
	argv := make([]string, 0, len(t.argv)+len(args))
	argv = append(argv, t.argv...)
	return append(argv, args...)
}

func (t Template) String() string {
	return shellquote.Join(t.argv...)
}
