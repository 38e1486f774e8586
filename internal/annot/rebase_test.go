package annot

import (
	"bytes"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satishbabariya/dsolve/internal/module"
)

const synth = module.Name("/scratch/liq")

func writeFiles(t *testing.T, fs afero.Fs, files map[string]string) {
	t.Helper()
	for name, content := range files {
		require.NoError(t, afero.WriteFile(fs, name, []byte(content), 0o644))
	}
}

func TestRebaseRoundTrip(t *testing.T) {
	fs := afero.NewMemMapFs()
	hquals := "qualif A1\nqualif A2\n" // 2 lines, 20 chars
	quals := "qualif B1\n"             // 1 line, 10 chars
	writeFiles(t, fs, map[string]string{
		synth.Quals(): hquals + quals,
		synth.Annot(): `"/scratch/liq.ml" 5 40 41 "/scratch/liq.ml" 5 48 49` + "\n",
	})

	off, stats, err := NewRebaser(fs).Rebase(synth, "/work/m")
	require.NoError(t, err)
	assert.Equal(t, Offset{Lines: 3, Chars: 30}, off)
	assert.Equal(t, Stats{Lines: 1, Rebased: 1}, stats)

	out, err := afero.ReadFile(fs, "/work/m.annot")
	require.NoError(t, err)
	assert.Equal(t, `"/work/m.ml" 2 10 11 "/work/m.ml" 2 18 19`+"\n", string(out))
}

func TestRebasePassesThroughOtherFiles(t *testing.T) {
	input := strings.Join([]string{
		`"/scratch/liq.ml" 4 30 31 "/scratch/liq.ml" 4 35 36`,
		`type(`,
		`  int -> int`,
		`)`,
		`"pervasives.ml" 1 0 4 "/scratch/liq.ml" 9  9`,
		`"/scratch/liq.mli" 4 30 31 "/scratch/liq.mli" 4 35 36`,
	}, "\n") + "\n"

	var out bytes.Buffer
	stats, err := Rewrite(&out, strings.NewReader(input), Offset{Lines: 2, Chars: 20}, synth.Quoted(), `"m.ml"`)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Rebased)
	assert.Equal(t, 5, stats.Passed)

	lines := strings.SplitAfter(out.String(), "\n")
	want := strings.SplitAfter(input, "\n")
	require.Len(t, lines, len(want))
	assert.Equal(t, `"m.ml" 2 10 11 "m.ml" 2 15 16`+"\n", lines[0])
	assert.Equal(t, want[1:], lines[1:])
}

func TestRewritePreservesTerminators(t *testing.T) {
	input := `"/scratch/liq.ml" 2 12 13 "/scratch/liq.ml" 2 14 15` + "\r\n" +
		"type(\r\n" +
		`"/scratch/liq.ml" 3 20 21 "/scratch/liq.ml" 3 22 23`

	var out bytes.Buffer
	_, err := Rewrite(&out, strings.NewReader(input), Offset{Lines: 1, Chars: 10}, synth.Quoted(), `"m.ml"`)
	require.NoError(t, err)
	assert.Equal(t,
		`"m.ml" 1 2 3 "m.ml" 1 4 5`+"\r\n"+
			"type(\r\n"+
			`"m.ml" 2 10 11 "m.ml" 2 12 13`+"\n",
		out.String())
}

func TestRebaseOffsetCorrectness(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 50; i++ {
		var pre strings.Builder
		lines := rng.Intn(20)
		for j := 0; j < lines; j++ {
			pre.WriteString(strings.Repeat("q", rng.Intn(15)))
			pre.WriteByte('\n')
		}
		off, err := ComputeOffset(strings.NewReader(pre.String()))
		require.NoError(t, err)
		require.Equal(t, lines, off.Lines)
		require.Equal(t, pre.Len(), off.Chars)

		line, g, l := 1+rng.Intn(100), rng.Intn(5000), rng.Intn(80)
		line2, g2, l2 := line+rng.Intn(3), g+rng.Intn(50), rng.Intn(80)
		in := fmt.Sprintf("%s %d %d %d %s %d %d %d\n", synth.Quoted(),
			line+off.Lines, g+off.Chars, l+off.Chars,
			synth.Quoted(), line2+off.Lines, g2+off.Chars, l2+off.Chars)

		var out bytes.Buffer
		_, err = Rewrite(&out, strings.NewReader(in), off, synth.Quoted(), `"f.ml"`)
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf(`"f.ml" %d %d %d "f.ml" %d %d %d`+"\n", line, g, l, line2, g2, l2), out.String())
	}
}

func TestRebaseEmptyAnnotations(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFiles(t, fs, map[string]string{
		synth.Quals():   "qualif A\n",
		synth.Annot():   "",
		"/work/m.annot": "stale\n",
	})

	_, stats, err := NewRebaser(fs).Rebase(synth, "/work/m")
	require.NoError(t, err)
	assert.Zero(t, stats.Lines)

	out, err := afero.ReadFile(fs, "/work/m.annot")
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestRebaseMissingAnnotations(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFiles(t, fs, map[string]string{synth.Quals(): ""})

	_, _, err := NewRebaser(fs).Rebase(synth, "/work/m")
	assert.ErrorIs(t, err, ErrNoAnnotations)
}

func TestRebaseMalformedKeepsDestination(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFiles(t, fs, map[string]string{
		synth.Quals():   "qualif A\n",
		synth.Annot():   "type(\n" + `"/scratch/liq.ml" 5 forty 41 "/scratch/liq.ml" 5 48 49` + "\n",
		"/work/m.annot": "previous\n",
	})

	_, _, err := NewRebaser(fs).Rebase(synth, "/work/m")
	var bad *MalformedAnnotation
	require.ErrorAs(t, err, &bad)
	assert.Equal(t, 2, bad.Line)
	assert.Contains(t, err.Error(), "line 2")

	out, err := afero.ReadFile(fs, "/work/m.annot")
	require.NoError(t, err)
	assert.Equal(t, "previous\n", string(out))

	entries, err := afero.ReadDir(fs, "/work")
	require.NoError(t, err)
	for _, e := range entries {
		assert.False(t, strings.HasPrefix(e.Name(), ".annot-"), "temp file %s left behind", e.Name())
	}
}

func TestRebaseOutputIsWorldReadable(t *testing.T) {
	fs := afero.NewOsFs()
	dir := t.TempDir()
	src := module.SyntheticIn(dir)
	dst := module.Name(filepath.Join(dir, "m"))
	writeFiles(t, fs, map[string]string{
		src.Quals(): "qualif A1\n",
		src.Annot(): src.Quoted() + " 2 10 11 " + src.Quoted() + " 2 10 12\n",
	})

	_, _, err := NewRebaser(fs).Rebase(src, dst)
	require.NoError(t, err)

	info, err := os.Stat(dst.Annot())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())
}

func TestRebaseKeepsExistingMode(t *testing.T) {
	fs := afero.NewOsFs()
	dir := t.TempDir()
	src := module.SyntheticIn(dir)
	dst := module.Name(filepath.Join(dir, "m"))
	writeFiles(t, fs, map[string]string{
		src.Quals(): "",
		src.Annot(): "",
	})
	require.NoError(t, afero.WriteFile(fs, dst.Annot(), []byte("stale\n"), 0o644))
	require.NoError(t, os.Chmod(dst.Annot(), 0o640))

	_, _, err := NewRebaser(fs).Rebase(src, dst)
	require.NoError(t, err)

	info, err := os.Stat(dst.Annot())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o640), info.Mode().Perm())
}
