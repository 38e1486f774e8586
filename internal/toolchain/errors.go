package toolchain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrEmptyTemplate is returned when a command template has no program.
	ErrEmptyTemplate = errors.New("empty command template")

	// ErrToolNotFound is returned when a tool binary cannot be located.
	ErrToolNotFound = errors.New("tool not found")

	// ErrNoVersion is returned when a tool's version output carries no version.
	ErrNoVersion = errors.New("no version in tool output")
)

// ExternalToolFailed reports an external tool that exited unsuccessfully and
// left no usable output behind.
type ExternalToolFailed struct {
	Tool     string
	ExitCode int
	Stderr   string
}

// Error implements the error interface.
func (e *ExternalToolFailed) Error() string {
	msg := fmt.Sprintf("%s exited with status %d", e.Tool, e.ExitCode)
	if s := strings.TrimSpace(e.Stderr); s != "" {
		msg += ": " + s
	}
	return msg
}
