package annot

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/satishbabariya/dsolve/internal/debug"
	"github.com/satishbabariya/dsolve/internal/module"
)

// outputPerm is the mode of a newly written .annot file.
const outputPerm os.FileMode = 0o644

// Stats counts what a rebase pass did.
type Stats struct {
	Lines   int // lines read
	Rebased int // position records rewritten
	Passed  int // lines copied unchanged
}

// Rebaser rewrites a synthetic unit's annotations onto a destination module.
type Rebaser struct {
	Fs afero.Fs
}

// NewRebaser creates a Rebaser working on fs.
func NewRebaser(fs afero.Fs) *Rebaser {
	return &Rebaser{Fs: fs}
}

// Offset measures the preamble recorded in src's .quals file.
func (r *Rebaser) Offset(src module.Name) (Offset, error) {
	f, err := r.Fs.Open(src.Quals())
	if err != nil {
		return Offset{}, fmt.Errorf("failed to open qualifier preamble: %w", err)
	}
	defer f.Close()
	return ComputeOffset(f)
}

// Rebase reads src.annot, shifts every record that refers to src.ml by the
// size of src.quals, and writes the result to dst.annot. The destination is
// only replaced once the whole input has been rewritten.
func (r *Rebaser) Rebase(src, dst module.Name) (Offset, Stats, error) {
	off, err := r.Offset(src)
	if err != nil {
		return Offset{}, Stats{}, err
	}

	in, err := r.Fs.Open(src.Annot())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return off, Stats{}, fmt.Errorf("%w: %s", ErrNoAnnotations, src.Annot())
		}
		return off, Stats{}, fmt.Errorf("failed to open annotations: %w", err)
	}
	defer in.Close()

	tmp, err := afero.TempFile(r.Fs, filepath.Dir(dst.Annot()), ".annot-*")
	if err != nil {
		return off, Stats{}, fmt.Errorf("failed to create output: %w", err)
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			tmp.Close()
			r.Fs.Remove(tmpName)
		}
	}()

	stats, err := Rewrite(tmp, in, off, src.Quoted(), dst.Quoted())
	if err != nil {
		return off, stats, err
	}
	if err := tmp.Close(); err != nil {
		return off, stats, fmt.Errorf("failed to write annotations: %w", err)
	}
	if err := r.Fs.Chmod(tmpName, r.outputMode(dst)); err != nil {
		return off, stats, fmt.Errorf("failed to set mode of annotations: %w", err)
	}
	if err := r.Fs.Rename(tmpName, dst.Annot()); err != nil {
		return off, stats, fmt.Errorf("failed to replace %s: %w", dst.Annot(), err)
	}
	committed = true

	debug.Debug("rebased annotations",
		"src", src.Annot(), "dst", dst.Annot(),
		"lines", off.Lines, "chars", off.Chars,
		"rebased", stats.Rebased, "passed", stats.Passed)
	return off, stats, nil
}

// outputMode keeps the permissions of an existing dst.annot. Temp files are
// created 0600, so a fresh result gets outputPerm.
func (r *Rebaser) outputMode(dst module.Name) os.FileMode {
	if info, err := r.Fs.Stat(dst.Annot()); err == nil && info.Mode().IsRegular() {
		return info.Mode().Perm()
	}
	return outputPerm
}

// Rewrite copies annotation lines from in to out. Lines whose first field
// equals from are parsed, shifted by off and pointed at to; every other line
// is copied byte for byte.
func Rewrite(out io.Writer, in io.Reader, off Offset, from, to string) (Stats, error) {
	var stats Stats
	br := bufio.NewReader(in)
	bw := bufio.NewWriter(out)

	for {
		line, readErr := br.ReadString('\n')
		if readErr != nil && !errors.Is(readErr, io.EOF) {
			return stats, fmt.Errorf("failed to read annotations: %w", readErr)
		}
		if len(line) > 0 {
			stats.Lines++
			if err := rewriteLine(bw, line, stats.Lines, off, from, to, &stats); err != nil {
				return stats, err
			}
		}
		if readErr != nil {
			break
		}
	}

	if err := bw.Flush(); err != nil {
		return stats, fmt.Errorf("failed to write annotations: %w", err)
	}
	return stats, nil
}

func rewriteLine(w *bufio.Writer, line string, n int, off Offset, from, to string, stats *Stats) error {
	body, term := splitTerminator(line)
	first, _, _ := strings.Cut(body, " ")
	if first != from {
		stats.Passed++
		_, err := w.WriteString(line)
		return err
	}

	rec, err := ParseRecord(body)
	if err != nil {
		var bad *MalformedAnnotation
		if errors.As(err, &bad) {
			bad.Line = n
		}
		return err
	}
	if term == "" {
		term = "\n"
	}
	stats.Rebased++
	_, err = w.WriteString(rec.Rebase(off, to).String() + term)
	return err
}

func splitTerminator(line string) (string, string) {
	switch {
	case strings.HasSuffix(line, "\r\n"):
		return line[:len(line)-2], "\r\n"
	case strings.HasSuffix(line, "\n"):
		return line[:len(line)-1], "\n"
	default:
		return line, ""
	}
}
