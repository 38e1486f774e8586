// Package unit assembles the synthetic compilation unit handed to the solver.
package unit

import (
	"fmt"
	"os"

	"github.com/spf13/afero"

	"github.com/satishbabariya/dsolve/internal/debug"
)

// Concat truncates out and appends the content of each input in order.
// Inputs that cannot be read contribute nothing.
func Concat(fs afero.Fs, out string, inputs ...string) error {
	dst, err := fs.OpenFile(out, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", out, err)
	}

	for _, in := range inputs {
		data, err := afero.ReadFile(fs, in)
		if err != nil {
			debug.Debug("skipping unreadable input", "input", in, "err", err)
			continue
		}
		if _, err := dst.Write(data); err != nil {
			dst.Close()
			return fmt.Errorf("failed to write %s: %w", out, err)
		}
	}

	if err := dst.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", out, err)
	}
	return nil
}
