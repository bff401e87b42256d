package filestore_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medicoin/imaging-client/internal/serviceerr"
	filestore "github.com/medicoin/imaging-client/internal/store/file"
)

func TestStore_GetSetDelete(t *testing.T) {
	ctx := t.Context()
	path := filepath.Join(t.TempDir(), "state.json")
	s := filestore.New(path)

	t.Run("get absent key", func(t *testing.T) {
		_, err := s.Get(ctx, "token")
		assert.ErrorIs(t, err, serviceerr.ErrNotFound)
	})

	t.Run("set then get", func(t *testing.T) {
		require.NoError(t, s.Set(ctx, "token", "bearer-abc"))

		value, err := s.Get(ctx, "token")
		require.NoError(t, err)
		assert.Equal(t, "bearer-abc", value)
	})

	t.Run("overwrite", func(t *testing.T) {
		require.NoError(t, s.Set(ctx, "token", "bearer-def"))

		value, err := s.Get(ctx, "token")
		require.NoError(t, err)
		assert.Equal(t, "bearer-def", value)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, s.Delete(ctx, "token"))

		_, err := s.Get(ctx, "token")
		assert.ErrorIs(t, err, serviceerr.ErrNotFound)
	})

	t.Run("delete absent key is a no-op", func(t *testing.T) {
		assert.NoError(t, s.Delete(ctx, "missing"))
	})
}

func TestStore_SurvivesReopen(t *testing.T) {
	ctx := t.Context()
	path := filepath.Join(t.TempDir(), "state.json")

	require.NoError(t, filestore.New(path).Set(ctx, "token", "bearer-abc"))

	reopened := filestore.New(path)
	value, err := reopened.Get(ctx, "token")
	require.NoError(t, err)
	assert.Equal(t, "bearer-abc", value)
}

func TestStore_CorruptFileDegradesToEmpty(t *testing.T) {
	ctx := t.Context()
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	s := filestore.New(path)

	_, err := s.Get(ctx, "token")
	assert.ErrorIs(t, err, serviceerr.ErrNotFound)

	// Writes must work again after corruption.
	require.NoError(t, s.Set(ctx, "token", "bearer-abc"))
	value, err := s.Get(ctx, "token")
	require.NoError(t, err)
	assert.Equal(t, "bearer-abc", value)
}

func TestStore_CreatesMissingDirectory(t *testing.T) {
	ctx := t.Context()
	path := filepath.Join(t.TempDir(), "nested", "deeper", "state.json")

	require.NoError(t, filestore.New(path).Set(ctx, "k", "v"))

	value, err := filestore.New(path).Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", value)
}
