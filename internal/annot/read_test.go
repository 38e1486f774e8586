package annot

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadAnnotations(t *testing.T) {
	input := `"m.ml" 1 0 4 "m.ml" 1 0 5
type(
  int
)
"m.ml" 2 10 14 "m.ml" 2 10 22
type(
  {VV : int | VV > 0}
  -> int
)
"m.ml" 3 23 23 "m.ml" 3 23 30
`
	got, err := ReadAnnotations(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, 1, got[0].Line)
	assert.Equal(t, []Block{{Kind: "type", Body: []string{"int"}}}, got[0].Blocks)

	assert.Equal(t, 5, got[1].Line)
	assert.Equal(t, 22, got[1].Record.End.Local)
	typ, ok := got[1].Block("type")
	require.True(t, ok)
	assert.Equal(t, []string{"{VV : int | VV > 0}", "-> int"}, typ.Body)

	assert.Empty(t, got[2].Blocks)
	assert.Empty(t, got[2].Kinds())
}

func TestReadAnnotationsSeveralBlocks(t *testing.T) {
	input := `"m.ml" 1 0 4 "m.ml" 1 0 5
type(
  int
)
ident(
  def x "m.ml" 1 0 9 --
)
`
	got, err := ReadAnnotations(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, got, 1)

	assert.Equal(t, []string{"type", "ident"}, got[0].Kinds())

	typ, ok := got[0].Block("type")
	require.True(t, ok)
	assert.Equal(t, []string{"int"}, typ.Body)

	ident, ok := got[0].Block("ident")
	require.True(t, ok)
	assert.Equal(t, []string{`def x "m.ml" 1 0 9 --`}, ident.Body)

	_, ok = got[0].Block("call")
	assert.False(t, ok)
}

func TestReadAnnotationsMalformed(t *testing.T) {
	_, err := ReadAnnotations(strings.NewReader("type(\n)\n"))
	var bad *MalformedAnnotation
	require.ErrorAs(t, err, &bad)
	assert.Equal(t, 1, bad.Line)

	_, err = ReadAnnotations(strings.NewReader(`"m.ml" 1 0 4 "m.ml" 1 0` + "\n"))
	require.ErrorAs(t, err, &bad)
	assert.Equal(t, 1, bad.Line)
}
