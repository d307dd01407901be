package history

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "history.db")
	store, err := NewSQLiteStore(path)
	require.NoError(t, err)
	defer store.Close()

	// Empty store
	uploads, err := store.Recent(10)
	require.NoError(t, err)
	assert.Empty(t, uploads)

	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, store.Record("run-a", "a.json", 12, base))
	require.NoError(t, store.Record("run-b", "b.json", 7, base.Add(time.Hour)))
	require.NoError(t, store.Record("run-c", "c.json", 3, base.Add(2*time.Hour)))

	uploads, err = store.Recent(2)
	require.NoError(t, err)
	require.Len(t, uploads, 2)
	assert.Equal(t, "run-c", uploads[0].RunID)
	assert.Equal(t, "run-b", uploads[1].RunID)
	assert.Equal(t, 3, uploads[0].Points)
	assert.Equal(t, "c.json", uploads[0].Source)
	assert.True(t, uploads[0].UploadedAt.After(uploads[1].UploadedAt))
}

func TestSQLiteStore_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")

	store, err := NewSQLiteStore(path)
	require.NoError(t, err)
	require.NoError(t, store.Record("run-a", "a.json", 1, time.Now()))
	require.NoError(t, store.Close())

	reopened, err := NewSQLiteStore(path)
	require.NoError(t, err)
	defer reopened.Close()

	uploads, err := reopened.Recent(10)
	require.NoError(t, err)
	require.Len(t, uploads, 1)
	assert.Equal(t, "run-a", uploads[0].RunID)
}
