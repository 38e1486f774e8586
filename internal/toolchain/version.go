package toolchain

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"regexp"

	"github.com/hashicorp/go-version"
)

var versionPattern = regexp.MustCompile(`\d+(\.\d+)*`)

// Locate resolves the template's program on PATH, or checks it directly when
// it contains a path separator.
func Locate(t Template) (string, error) {
	path, err := exec.LookPath(t.Program())
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrToolNotFound, t.Program())
	}
	return path, nil
}

// ProbeVersion runs the template with flag appended and parses the first
// version number found in its output, stdout first.
func ProbeVersion(ctx context.Context, r Runner, t Template, flag string) (*version.Version, error) {
	var out bytes.Buffer
	res, err := r.Run(ctx, Command{
		Tool:   t.Program(),
		Argv:   t.Argv(flag),
		Stdout: &out,
	})
	if err != nil {
		return nil, err
	}

	raw := versionPattern.FindString(out.String() + "\n" + res.Stderr)
	if raw == "" {
		return nil, fmt.Errorf("%w: %s %s", ErrNoVersion, t.Program(), flag)
	}
	return version.NewVersion(raw)
}

// CheckVersion reports whether v satisfies constraint, e.g. ">= 1.2".
func CheckVersion(v *version.Version, constraint string) (bool, error) {
	c, err := version.NewConstraint(constraint)
	if err != nil {
		return false, fmt.Errorf("invalid version constraint %q: %w", constraint, err)
	}
	return c.Check(v), nil
}
