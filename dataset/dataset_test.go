package dataset

import (
	"path/filepath"
	"testing"

	"charcha-manch-be/nagrik"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Load(
		filepath.Join("testdata", "candidates.json"),
		filepath.Join("testdata", "candidates_en.json"),
	)
	require.NoError(t, err)
	return store
}

func TestGetUsesOneBasedIDs(t *testing.T) {
	store := loadTestStore(t)

	c, ok := store.Get(1, nagrik.English)
	require.True(t, ok)
	assert.Equal(t, "Raxaul", c.AreaName)

	c, ok = store.Get(2, nagrik.Hindi)
	require.True(t, ok)
	assert.Equal(t, "पटना साहिब", c.AreaName)
}

func TestGetOutOfRange(t *testing.T) {
	store := loadTestStore(t)

	_, ok := store.Get(0, nagrik.English)
	assert.False(t, ok)
	_, ok = store.Get(3, nagrik.English)
	assert.False(t, ok)

	assert.True(t, store.Valid(1))
	assert.True(t, store.Valid(2))
	assert.False(t, store.Valid(0))
	assert.False(t, store.Valid(3))
}

func TestAllAndCount(t *testing.T) {
	store := loadTestStore(t)

	assert.Equal(t, 2, store.Count())
	assert.Len(t, store.All(nagrik.Hindi), 2)
	assert.Equal(t, "Party A", store.All(nagrik.English)[0].Party)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join("testdata", "nope.json"), filepath.Join("testdata", "candidates_en.json"))
	assert.Error(t, err)
}
