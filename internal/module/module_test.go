package module

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromSource(t *testing.T) {
	n, err := FromSource("tests/pos/list.ml")
	require.NoError(t, err)
	assert.Equal(t, Name("tests/pos/list"), n)
	assert.Equal(t, "tests/pos/list.ml", n.Source())
	assert.Equal(t, "tests/pos/list.quals", n.Quals())
	assert.Equal(t, "tests/pos/list.hquals", n.HQuals())
	assert.Equal(t, "tests/pos/list.annot", n.Annot())
	assert.Equal(t, `"tests/pos/list.ml"`, n.Quoted())
}

func TestFromSourceRejectsOtherSuffixes(t *testing.T) {
	for _, path := range []string{"list.mli", "list", ".ml", ""} {
		_, err := FromSource(path)
		assert.ErrorIs(t, err, ErrNotSource, path)
	}
}

func TestSyntheticIn(t *testing.T) {
	n := SyntheticIn("/tmp/dsolve-1")
	assert.Equal(t, filepath.Join("/tmp/dsolve-1", "liq")+".ml", n.Source())
}
