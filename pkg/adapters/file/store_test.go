package file_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/labtour/pkg/adapters/file"
	"github.com/aretw0/labtour/pkg/domain"
	"github.com/aretw0/labtour/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ ports.StateStore = (*file.Store)(nil)

func TestFileStore_Contract(t *testing.T) {
	store := file.New(t.TempDir())
	ports.RunStateStoreContract(t, store)
}

func TestFileStore_DefaultPath(t *testing.T) {
	store := file.New("")
	assert.Equal(t, filepath.Join(".labtour", "sessions"), store.BasePath)
}

func TestFileStore_ListMissingDir(t *testing.T) {
	store := file.New(filepath.Join(t.TempDir(), "does-not-exist"))
	ids, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestFileStore_RejectsPathTraversal(t *testing.T) {
	store := file.New(t.TempDir())
	ctx := context.Background()

	for _, id := range []string{"", "..", "../escape", `a\b`, "tmp-x"} {
		err := store.Save(ctx, id, domain.NewState(id))
		assert.ErrorIs(t, err, file.ErrInvalidSessionID, "id %q", id)

		_, err = store.Load(ctx, id)
		assert.ErrorIs(t, err, file.ErrInvalidSessionID, "id %q", id)
	}
}

func TestFileStore_OverwriteLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	store := file.New(dir)
	ctx := context.Background()

	state := domain.NewState("lab")
	require.NoError(t, store.Save(ctx, "lab", state))
	state.CurrentIndex = 2
	require.NoError(t, store.Save(ctx, "lab", state))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "lab.json", entries[0].Name())

	loaded, err := store.Load(ctx, "lab")
	require.NoError(t, err)
	assert.Equal(t, 2, loaded.CurrentIndex)
}

func TestFileStore_CorruptFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.json"), []byte("{not json"), 0644))

	_, err := file.New(dir).Load(context.Background(), "bad")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrSessionNotFound)
}
