// internal/index/index_test.go
package index

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testItems() []Item {
	return []Item{
		{ID: 1, Vector: []float32{1, 0, 0}},
		{ID: 2, Vector: []float32{0, 1, 0}},
		{ID: 3, Vector: []float32{0.7071, 0.7071, 0}},
	}
}

func TestInMemoryIndex_SearchRanksByCosine(t *testing.T) {
	ix := NewInMemoryIndex()
	ix.Replace(testItems())

	hits := ix.Search([]float32{1, 0, 0}, 2)

	require.Len(t, hits, 2)
	assert.Equal(t, 1, hits[0].ID)
	assert.InDelta(t, 1.0, hits[0].Score, 1e-6)
	assert.Equal(t, 3, hits[1].ID)
	assert.InDelta(t, 0.7071, hits[1].Score, 1e-4)
}

func TestInMemoryIndex_TopKZeroReturnsAll(t *testing.T) {
	ix := NewInMemoryIndex()
	ix.Replace(testItems())

	hits := ix.Search([]float32{0, 1, 0}, 0)

	assert.Len(t, hits, 3)
	assert.Equal(t, 2, hits[0].ID)
}

func TestInMemoryIndex_ReplaceSwapsContents(t *testing.T) {
	ix := NewInMemoryIndex()
	ix.Replace(testItems())
	require.Equal(t, 3, ix.Size())

	ix.Replace([]Item{{ID: 9, Vector: []float32{0, 0, 1}}})

	assert.Equal(t, 1, ix.Size())
	hits := ix.Search([]float32{0, 0, 1}, 5)
	require.Len(t, hits, 1)
	assert.Equal(t, 9, hits[0].ID)
}

func TestInMemoryIndex_MismatchedDimensionScoresZero(t *testing.T) {
	ix := NewInMemoryIndex()
	ix.Replace([]Item{{ID: 1, Vector: []float32{1, 0, 0}}})

	hits := ix.Search([]float32{1, 0}, 1)

	require.Len(t, hits, 1)
	assert.Zero(t, hits[0].Score)
}

func TestSnapshot_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "idx", "embeddings.snapshot")

	require.NoError(t, SaveSnapshot(path, testItems()))

	loaded, err := LoadSnapshot(path)
	require.NoError(t, err)
	assert.Equal(t, testItems(), loaded)
}

func TestSnapshot_EmptyIndex(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.snapshot")

	require.NoError(t, SaveSnapshot(path, nil))

	loaded, err := LoadSnapshot(path)
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestLoadSnapshot_RejectsBadMagic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bogus.snapshot")
	require.NoError(t, SaveSnapshot(path, testItems()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	data[0] = 'X'
	require.NoError(t, os.WriteFile(path, data, 0o644))

	_, err = LoadSnapshot(path)
	assert.ErrorContains(t, err, "bad magic")
}

func TestSaveSnapshot_RejectsMixedDimensions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mixed.snapshot")
	items := []Item{
		{ID: 1, Vector: []float32{1, 0}},
		{ID: 2, Vector: []float32{1, 0, 0}},
	}

	err := SaveSnapshot(path, items)
	assert.Error(t, err)
}
