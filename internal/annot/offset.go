package annot

import (
	"bufio"
	"errors"
	"fmt"
	"io"
)

// ComputeOffset measures the qualifier preamble: the number of lines in r
// (an unterminated final line counts) and its total length in bytes.
func ComputeOffset(r io.Reader) (Offset, error) {
	var off Offset
	br := bufio.NewReader(r)
	for {
		line, err := br.ReadString('\n')
		if len(line) > 0 {
			off.Lines++
			off.Chars += len(line)
		}
		if errors.Is(err, io.EOF) {
			return off, nil
		}
		if err != nil {
			return Offset{}, fmt.Errorf("failed to read qualifiers: %w", err)
		}
	}
}
