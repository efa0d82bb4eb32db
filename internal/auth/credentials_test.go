package auth_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rpggio/folio/internal/auth"
	"github.com/stretchr/testify/require"
)

func TestFileStore_RoundTrip(t *testing.T) {
	store := &auth.FileStore{Dir: filepath.Join(t.TempDir(), "folio")}

	ti, err := store.Get()
	require.NoError(t, err)
	require.Nil(t, ti)

	token, err := store.Token()
	require.NoError(t, err)
	require.Empty(t, token)

	require.NoError(t, store.Set("Bearer abc123", "me@example.com", "https://api.example.com"))

	ti, err = store.Get()
	require.NoError(t, err)
	require.Equal(t, "abc123", ti.Token)
	require.Equal(t, "file", ti.Source)
	require.Equal(t, "me@example.com", ti.Email)

	info, err := os.Stat(filepath.Join(store.Dir, "credentials.json"))
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	require.NoError(t, store.Delete())
	require.NoError(t, store.Delete())
	ti, err = store.Get()
	require.NoError(t, err)
	require.Nil(t, ti)
}

func TestFileStore_EnvOverride(t *testing.T) {
	store := &auth.FileStore{Dir: t.TempDir(), EnvToken: "bearer from-env"}
	require.NoError(t, store.Set("from-file", "", ""))

	token, err := store.Token()
	require.NoError(t, err)
	require.Equal(t, "from-env", token)

	ti, err := store.Get()
	require.NoError(t, err)
	require.Equal(t, "env", ti.Source)
}

func TestFileStore_RejectsEmptyToken(t *testing.T) {
	store := &auth.FileStore{Dir: t.TempDir()}
	require.Error(t, store.Set("  ", "", ""))
}

func TestFileStore_CorruptFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "credentials.json"), []byte("{"), 0o600))
	_, err := (&auth.FileStore{Dir: dir}).Get()
	require.Error(t, err)
}
