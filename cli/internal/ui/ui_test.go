package ui

import (
	"bytes"
	"io"
	"os"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTraceWriterKeepsLinesWhole(t *testing.T) {
	prev := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = prev })

	var out bytes.Buffer
	w := NewTraceWriter(&out)

	w.Write([]byte("exec: ./liquid.opt "))
	assert.Empty(t, out.String())

	w.Write([]byte("-dframes /tmp/liq.ml\nsolver chatter\npartial"))
	assert.Equal(t, "exec: ./liquid.opt -dframes /tmp/liq.ml\nsolver chatter\n", out.String())
}

func TestPrintListAndSection(t *testing.T) {
	out := captureStdout(t, func() {
		PrintSection("Toolchain")
		PrintList([]string{"solver: not found", "scratch directory: denied"})
	})
	assert.Contains(t, out, "Toolchain")
	assert.Contains(t, out, "  • solver: not found\n")
	assert.Contains(t, out, "  • scratch directory: denied\n")
}

func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	r, w, err := os.Pipe()
	require.NoError(t, err)
	prev := os.Stdout
	os.Stdout = w
	defer func() { os.Stdout = prev }()

	fn()
	require.NoError(t, w.Close())
	out, err := io.ReadAll(r)
	require.NoError(t, err)
	return string(out)
}
