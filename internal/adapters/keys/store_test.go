package keys_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/signet/internal/adapters/keys"
	"go.trai.ch/signet/internal/core/domain"
)

func TestStore_GenerateIsInMemory(t *testing.T) {
	t.Parallel()

	store := keys.NewStore(0)
	key, err := store.Generate(0)
	require.NoError(t, err)
	assert.True(t, key.IsGenerated())

	token, err := store.PublicKeyToken(key)
	require.NoError(t, err)
	assert.False(t, token.IsNull())
}

func TestStore_GenerateRejectsOddSizes(t *testing.T) {
	t.Parallel()

	_, err := keys.NewStore(0).Generate(1030)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrKeyGenerationFailed)
}

func TestStore_SaveAndLoadSnk(t *testing.T) {
	t.Parallel()

	store := keys.NewStore(0)
	key, err := store.Generate(0)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "keys", "release.snk")
	require.NoError(t, store.Save(path, key))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(domain.PrivateFilePerm), info.Mode().Perm())

	loaded, err := store.Load(path, "")
	require.NoError(t, err)
	assert.Equal(t, key.Blob, loaded.Blob)
	assert.Equal(t, path, loaded.Origin)
	assert.False(t, loaded.IsGenerated())
}

func TestStore_PasswordProtectedContainer(t *testing.T) {
	t.Parallel()

	store := keys.NewStore(0)
	key, err := store.Generate(0)
	require.NoError(t, err)
	key.Password = "s3cret"

	path := filepath.Join(t.TempDir(), "release.pfx")
	require.NoError(t, store.Save(path, key))

	t.Run("correct password", func(t *testing.T) {
		t.Parallel()
		loaded, err := store.Load(path, "s3cret")
		require.NoError(t, err)
		assert.Equal(t, key.Blob, loaded.Blob)
		assert.Equal(t, "s3cret", loaded.Password)
	})

	t.Run("missing password", func(t *testing.T) {
		t.Parallel()
		_, err := store.Load(path, "")
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrInvalidKey)
	})

	t.Run("wrong password", func(t *testing.T) {
		t.Parallel()
		_, err := store.Load(path, "guess")
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrInvalidKey)
	})
}

func TestStore_LoadErrors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	store := keys.NewStore(0)

	_, err := store.Load(filepath.Join(dir, "missing.snk"), "")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	empty := filepath.Join(dir, "empty.snk")
	require.NoError(t, os.WriteFile(empty, nil, 0o600))
	_, err = store.Load(empty, "")
	assert.ErrorIs(t, err, domain.ErrInvalidKey)

	garbage := filepath.Join(dir, "garbage.snk")
	require.NoError(t, os.WriteFile(garbage, []byte("not a key blob, definitely not"), 0o600))
	_, err = store.Load(garbage, "")
	assert.ErrorIs(t, err, domain.ErrInvalidKey)
}

func TestIsContainerPath(t *testing.T) {
	t.Parallel()

	assert.True(t, keys.IsContainerPath("a/b.pfx"))
	assert.True(t, keys.IsContainerPath("B.P12"))
	assert.False(t, keys.IsContainerPath("key.snk"))
}
