// Package module names a source unit and the files that travel with it.
package module

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// File suffixes used by the qualifier toolchain.
const (
	SourceExt = ".ml"
	QualsExt  = ".quals"
	HQualsExt = ".hquals"
	AnnotExt  = ".annot"
)

// Synthetic is the base name of the concatenated unit handed to the solver.
// It is always placed inside a per-run scratch directory.
const Synthetic = "liq"

// ErrNotSource is returned when a path does not carry the source suffix.
var ErrNotSource = errors.New("not a source file")

// Name is a module base name: the source path without its ".ml" suffix.
// It may contain directory components.
type Name string

// FromSource derives the module name from a source path such as "dir/m.ml".
func FromSource(path string) (Name, error) {
	if !strings.HasSuffix(path, SourceExt) || len(path) == len(SourceExt) {
		return "", fmt.Errorf("%w: %q (expected <module>%s)", ErrNotSource, path, SourceExt)
	}
	return Name(strings.TrimSuffix(path, SourceExt)), nil
}

// SyntheticIn returns the synthetic unit name inside dir.
func SyntheticIn(dir string) Name {
	return Name(filepath.Join(dir, Synthetic))
}

func (n Name) Source() string { return string(n) + SourceExt }
func (n Name) Quals() string  { return string(n) + QualsExt }
func (n Name) HQuals() string { return string(n) + HQualsExt }
func (n Name) Annot() string  { return string(n) + AnnotExt }

// Quoted returns the source filename the way it appears in annotation records.
func (n Name) Quoted() string {
	return `"` + n.Source() + `"`
}

func (n Name) String() string { return string(n) }
