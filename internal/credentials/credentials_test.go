package credentials

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mauv0809/clubhouse/internal/club"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContextLifecycle(t *testing.T) {
	c, err := New(&MemoryStore{})
	require.NoError(t, err)

	_, ok := c.Current()
	assert.False(t, ok)
	_, _, ok = c.Credential()
	assert.False(t, ok)

	require.NoError(t, c.Begin(Session{Token: "abc", Scheme: "Bearer", Role: club.RoleCoach, Username: "carol"}))
	scheme, token, ok := c.Credential()
	require.True(t, ok)
	assert.Equal(t, "Bearer", scheme)
	assert.Equal(t, "abc", token)

	require.NoError(t, c.End())
	_, ok = c.Current()
	assert.False(t, ok)
}

func TestContext_BeginRequiresToken(t *testing.T) {
	c, err := New(&MemoryStore{})
	require.NoError(t, err)
	assert.Error(t, c.Begin(Session{Username: "carol"}))
}

func TestFileStore_RestoresSession(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.yaml")
	store := FileStore{Path: path}

	c, err := New(store)
	require.NoError(t, err)
	require.NoError(t, c.Begin(Session{Token: "abc", Role: club.RolePlayer, Username: "pete", UserID: 4, PublicID: "P2500004"}))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	restored, err := New(store)
	require.NoError(t, err)
	s, ok := restored.Current()
	require.True(t, ok)
	assert.Equal(t, "pete", s.Username)
	assert.Equal(t, club.RolePlayer, s.Role)
	assert.Equal(t, int64(4), s.UserID)

	require.NoError(t, restored.End())
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
	assert.NoError(t, store.Clear())
}

func TestFileStore_RejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.yaml")
	require.NoError(t, os.WriteFile(path, []byte("token: [unclosed"), 0o600))

	_, err := New(FileStore{Path: path})
	assert.Error(t, err)
}
