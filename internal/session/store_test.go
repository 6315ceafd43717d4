package session

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "token")
	store := NewFileStore(path)

	_, ok := store.Token()
	assert.False(t, ok, "fresh store holds no token")

	require.NoError(t, store.SetToken("tok-abc"))

	token, ok := store.Token()
	require.True(t, ok)
	assert.Equal(t, "tok-abc", token)

	// A second instance over the same path sees the token, like a page reload.
	token, ok = NewFileStore(path).Token()
	require.True(t, ok)
	assert.Equal(t, "tok-abc", token)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestFileStoreClear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token")
	store := NewFileStore(path)

	require.NoError(t, store.Clear(), "clearing an empty store is fine")

	require.NoError(t, store.SetToken("tok"))
	require.NoError(t, store.Clear())
	_, ok := store.Token()
	assert.False(t, ok)
}

func TestFileStoreBlankFileIsAbsent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token")
	require.NoError(t, os.WriteFile(path, []byte("\n"), 0600))

	_, ok := NewFileStore(path).Token()
	assert.False(t, ok)
}

func TestMemStore(t *testing.T) {
	store := &MemStore{}

	_, ok := store.Token()
	assert.False(t, ok)

	require.NoError(t, store.SetToken("tok"))
	token, ok := store.Token()
	require.True(t, ok)
	assert.Equal(t, "tok", token)

	require.NoError(t, store.Clear())
	_, ok = store.Token()
	assert.False(t, ok)
}
