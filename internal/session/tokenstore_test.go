package session_test

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alestoica/online-bookshelf/internal/session"
)

func Test_FileTokenStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "token.json")
	store := session.NewFileTokenStore(path)

	_, ok := store.Token()
	assert.False(t, ok)

	require.NoError(t, store.Save("tok-abc"))

	token, ok := store.Token()
	require.True(t, ok)
	assert.Equal(t, "tok-abc", token)

	// A fresh store instance reads the same file.
	reopened := session.NewFileTokenStore(path)
	token, ok = reopened.Token()
	require.True(t, ok)
	assert.Equal(t, "tok-abc", token)
}

func Test_FileTokenStore_Clear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.json")
	store := session.NewFileTokenStore(path)
	require.NoError(t, store.Save("tok-abc"))

	store.Clear()

	_, ok := store.Token()
	assert.False(t, ok)
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func Test_FileTokenStore_Permissions(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("file modes are not meaningful on windows")
	}

	path := filepath.Join(t.TempDir(), "token.json")
	store := session.NewFileTokenStore(path)
	require.NoError(t, store.Save("tok-abc"))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func Test_MemoryTokenStore(t *testing.T) {
	store := session.NewMemoryTokenStore()

	_, ok := store.Token()
	assert.False(t, ok)

	require.NoError(t, store.Save("tok"))
	token, ok := store.Token()
	require.True(t, ok)
	assert.Equal(t, "tok", token)

	store.Clear()
	_, ok = store.Token()
	assert.False(t, ok)
}
