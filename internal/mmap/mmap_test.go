package mmap

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chunkFile(t *testing.T, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "c.0.0")
	require.NoError(t, os.WriteFile(path, content, 0o644))
	return path
}

func TestMapPath(t *testing.T) {
	content := []byte("encoded chunk bytes")
	for _, hint := range []Hint{HintNone, HintSequential, HintRandom} {
		r, err := MapPath(chunkFile(t, content), hint)
		require.NoError(t, err)
		assert.Equal(t, len(content), r.Len())
		assert.Equal(t, content, r.Bytes())

		require.NoError(t, r.Close())
		require.NoError(t, r.Close())
		assert.Nil(t, r.Bytes())
	}
}

func TestMapEmptyFile(t *testing.T) {
	r, err := MapPath(chunkFile(t, nil), HintSequential)
	require.NoError(t, err)
	assert.Zero(t, r.Len())
	assert.Empty(t, r.Bytes())
	require.NoError(t, r.Close())
}

func TestRegionOutlivesFile(t *testing.T) {
	f, err := os.Open(chunkFile(t, []byte("abc")))
	require.NoError(t, err)
	r, err := Map(f, HintRandom)
	require.NoError(t, err)
	require.NoError(t, f.Close())
	defer r.Close()

	assert.Equal(t, []byte("abc"), r.Bytes())
}

func TestMapPathMissing(t *testing.T) {
	_, err := MapPath(filepath.Join(t.TempDir(), "absent"), HintNone)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
