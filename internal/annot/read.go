package annot

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Annotation is a position record together with the blocks that follow it,
// e.g.
//
//	"m.ml" 1 4 8 "m.ml" 1 4 9
//	type(
//	  int
//	)
//	ident(
//	  def x "m.ml" 1 0 9 --
//	)
type Annotation struct {
	Line   int // 1-based line of the position record
	Record Record
	Blocks []Block
}

// Block is one "kind(" ... ")" section of an annotation.
type Block struct {
	Kind string
	Body []string // block lines, trimmed
}

// Block returns the first block of the given kind.
func (a Annotation) Block(kind string) (Block, bool) {
	for _, b := range a.Blocks {
		if b.Kind == kind {
			return b, true
		}
	}
	return Block{}, false
}

// Kinds lists the block kinds in file order.
func (a Annotation) Kinds() []string {
	kinds := make([]string, len(a.Blocks))
	for i, b := range a.Blocks {
		kinds[i] = b.Kind
	}
	return kinds
}

// ReadAnnotations parses a whole .annot file. Lines starting with a quote
// must be position records.
func ReadAnnotations(r io.Reader) ([]Annotation, error) {
	var (
		out    []Annotation
		inBody bool
		n      int
	)
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)

	for sc.Scan() {
		n++
		line := strings.TrimSuffix(sc.Text(), "\r")

		switch {
		case inBody && line == ")":
			inBody = false
		case inBody:
			ann := &out[len(out)-1]
			blk := &ann.Blocks[len(ann.Blocks)-1]
			blk.Body = append(blk.Body, strings.TrimSpace(line))
		case strings.HasPrefix(line, `"`):
			rec, err := ParseRecord(line)
			if err != nil {
				bad := err.(*MalformedAnnotation)
				bad.Line = n
				return nil, bad
			}
			out = append(out, Annotation{Line: n, Record: rec})
		case strings.HasSuffix(line, "(") && len(out) > 0:
			ann := &out[len(out)-1]
			ann.Blocks = append(ann.Blocks, Block{Kind: strings.TrimSuffix(line, "(")})
			inBody = true
		case strings.TrimSpace(line) == "":
		default:
			return nil, &MalformedAnnotation{Line: n, Text: line, Reason: "unexpected line outside a block"}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read annotations: %w", err)
	}
	return out, nil
}
