package annot

import (
	"errors"
	"fmt"
)

// ErrNoAnnotations is returned when the solver left no annotation file behind.
var ErrNoAnnotations = errors.New("annotation file not found")

// MalformedAnnotation reports a position record that could not be parsed.
type MalformedAnnotation struct {
	Line   int // 1-based line in the .annot file, 0 if unknown
	Text   string
	Reason string
}

// Error implements the error interface.
func (e *MalformedAnnotation) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("malformed annotation at line %d: %s: %q", e.Line, e.Reason, e.Text)
	}
	return fmt.Sprintf("malformed annotation: %s: %q", e.Reason, e.Text)
}
