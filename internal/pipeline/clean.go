package pipeline

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/afero"

	"github.com/satishbabariya/dsolve/internal/module"
)

// Clean removes the generated qualifiers and annotations of m left by a
// previous run. Missing files are not an error.
func Clean(fs afero.Fs, m module.Name) error {
	for _, path := range []string{m.Quals(), m.Annot()} {
		if err := fs.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to remove %s: %w", path, err)
		}
	}
	return nil
}
