// Package annot rebases solver position annotations from the synthetic unit
// back onto the original source file.
package annot

import (
	"fmt"
	"strconv"
	"strings"
)

// fieldCount is the number of space-separated fields in a position record.
const fieldCount = 8

// Position is one end of an annotated span.
type Position struct {
	File   string // quoted, exactly as emitted
	Line   int
	Global int // char offset from the start of the file
	Local  int // char offset as reported alongside Global
}

// Record is a position line of an .annot file:
//
//	"file.ml" line global local "file.ml" line global local
type Record struct {
	Start Position
	End   Position
}

// Offset is the size of the qualifier preamble placed ahead of the original
// source inside the synthetic unit.
type Offset struct {
	Lines int
	Chars int
}

// ParseRecord parses a position record. text must not carry its line
// terminator. The returned error is a *MalformedAnnotation.
func ParseRecord(text string) (Record, error) {
	fields := strings.Split(text, " ")
	if len(fields) != fieldCount {
		return Record{}, &MalformedAnnotation{
			Text:   text,
			Reason: fmt.Sprintf("expected %d fields, got %d", fieldCount, len(fields)),
		}
	}

	var rec Record
	if err := parsePosition(fields[0:4], &rec.Start); err != nil {
		return Record{}, &MalformedAnnotation{Text: text, Reason: "start " + err.Error()}
	}
	if err := parsePosition(fields[4:8], &rec.End); err != nil {
		return Record{}, &MalformedAnnotation{Text: text, Reason: "end " + err.Error()}
	}
	return rec, nil
}

func parsePosition(fields []string, p *Position) error {
	p.File = fields[0]
	nums := []*int{&p.Line, &p.Global, &p.Local}
	names := []string{"line", "global offset", "local offset"}
	for i, dst := range nums {
		v, err := strconv.Atoi(fields[i+1])
		if err != nil {
			return fmt.Errorf("%s %q is not an integer", names[i], fields[i+1])
		}
		*dst = v
	}
	return nil
}

// Rebase shifts both positions back by off and points them at file, which
// must already be quoted.
func (r Record) Rebase(off Offset, file string) Record {
	return Record{
		Start: r.Start.rebase(off, file),
		End:   r.End.rebase(off, file),
	}
}

func (p Position) rebase(off Offset, file string) Position {
	return Position{
		File:   file,
		Line:   p.Line - off.Lines,
		Global: p.Global - off.Chars,
		Local:  p.Local - off.Chars,
	}
}

// String serialises the record with single spaces and no line terminator.
func (r Record) String() string {
	var b strings.Builder
	writePosition(&b, r.Start)
	b.WriteByte(' ')
	writePosition(&b, r.End)
	return b.String()
}

func writePosition(b *strings.Builder, p Position) {
	b.WriteString(p.File)
	for _, v := range [...]int{p.Line, p.Global, p.Local} {
		b.WriteByte(' ')
		b.WriteString(strconv.Itoa(v))
	}
}
