package toolchain

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os/exec"
	"time"

	"github.com/kballard/go-shellquote"

	"github.com/satishbabariya/dsolve/internal/debug"
)

// stderrTail is how much of a tool's stderr is kept in its Result.
const stderrTail = 8 << 10

// Command is one external tool invocation.
type Command struct {
	Tool   string // short name used in diagnostics
	Argv   []string
	Stdout io.Writer // nil discards
	Stderr io.Writer // nil discards; the tail is captured either way
}

// String renders the command line with shell quoting.
func (c Command) String() string {
	return shellquote.Join(c.Argv...)
}

// Result describes a finished tool run.
type Result struct {
	Tool     string
	ExitCode int
	Stderr   string // last few KiB of stderr
	Duration time.Duration
}

// Failed reports whether the tool exited with a non-zero status.
func (r Result) Failed() bool {
	return r.ExitCode != 0
}

// Err returns a *ExternalToolFailed for a failed run and nil otherwise.
func (r Result) Err() error {
	if !r.Failed() {
		return nil
	}
	return &ExternalToolFailed{Tool: r.Tool, ExitCode: r.ExitCode, Stderr: r.Stderr}
}

// Runner executes commands. *Invoker is the process-backed implementation.
type Runner interface {
	Run(ctx context.Context, cmd Command) (Result, error)
}

// Invoker runs external commands synchronously, tracing each command line
// before it starts.
type Invoker struct {
	Trace io.Writer
}

// NewInvoker creates an Invoker tracing to w. A nil w disables tracing.
func NewInvoker(w io.Writer) *Invoker {
	if w == nil {
		w = io.Discard
	}
	return &Invoker{Trace: w}
}

// Run executes cmd and waits for it. A non-zero exit status is reported in
// the Result, not as an error; only a tool that could not be started is an
// error.
func (inv *Invoker) Run(ctx context.Context, cmd Command) (Result, error) {
	res := Result{Tool: cmd.Tool}
	if len(cmd.Argv) == 0 {
		return res, ErrEmptyTemplate
	}
	if res.Tool == "" {
		res.Tool = cmd.Argv[0]
	}

	fmt.Fprintf(inv.Trace, "exec: %s\n", cmd)

	c := exec.CommandContext(ctx, cmd.Argv[0], cmd.Argv[1:]...)
	c.Stdout = cmd.Stdout
	tail := newTailBuffer(stderrTail)
	if cmd.Stderr != nil {
		c.Stderr = io.MultiWriter(cmd.Stderr, tail)
	} else {
		c.Stderr = tail
	}

	start := time.Now()
	err := c.Run()
	res.Duration = time.Since(start)
	res.Stderr = tail.String()

	if err != nil {
		var exitErr *exec.ExitError
		switch {
		case errors.As(err, &exitErr):
			res.ExitCode = exitErr.ExitCode()
			debug.Warn("external tool failed", "tool", res.Tool, "exit", res.ExitCode)
			return res, nil
		case errors.Is(err, exec.ErrNotFound), errors.Is(err, fs.ErrNotExist):
			return res, fmt.Errorf("%w: %s", ErrToolNotFound, cmd.Argv[0])
		default:
			return res, fmt.Errorf("failed to run %s: %w", res.Tool, err)
		}
	}

	debug.Debug("external tool finished", "tool", res.Tool, "duration", res.Duration)
	return res, nil
}

// tailBuffer keeps the last max bytes written to it.
type tailBuffer struct {
	max int
	buf []byte
}

func newTailBuffer(max int) *tailBuffer {
	return &tailBuffer{max: max}
}

func (t *tailBuffer) Write(p []byte) (int, error) {
	n := len(p)
	if len(p) >= t.max {
		t.buf = append(t.buf[:0], p[len(p)-t.max:]...)
		return n, nil
	}
	if over := len(t.buf) + len(p) - t.max; over > 0 {
		t.buf = append(t.buf[:0], t.buf[over:]...)
	}
	t.buf = append(t.buf, p...)
	return n, nil
}

func (t *tailBuffer) String() string {
	return string(t.buf)
}
