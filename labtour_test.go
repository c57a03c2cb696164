package labtour_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/labtour"
	"github.com/aretw0/labtour/internal/testutils"
	"github.com/aretw0/labtour/pkg/adapters/file"
	"github.com/aretw0/labtour/pkg/domain"
	"github.com/aretw0/labtour/pkg/dsl"
	"github.com/aretw0/labtour/pkg/persistence/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEngine(t *testing.T, opts ...labtour.Option) *labtour.Engine {
	t.Helper()
	eng, err := labtour.New("", opts...)
	require.NoError(t, err)
	return eng
}

func TestDefaultCatalog(t *testing.T) {
	catalog := labtour.DefaultCatalog()
	require.Equal(t, 7, catalog.Len())

	kinds := make([]domain.SceneKind, 0, catalog.Len())
	for _, s := range catalog.Scenes() {
		kinds = append(kinds, s.Kind)
		assert.NotEmpty(t, s.Icon, s.Name)
		assert.NotEmpty(t, s.Description, s.Name)
	}
	assert.Equal(t, domain.AllKinds(), kinds)
}

func TestEngine_Scenario(t *testing.T) {
	eng := newEngine(t)
	ctx := context.Background()
	id := "visitor"

	res, err := eng.Start(ctx, id, "")
	require.NoError(t, err)
	assert.Equal(t, 0, res.View.Index)
	assert.Equal(t, "Contaminated Farm", res.View.Title)
	assert.InDelta(t, 1.0/7, res.View.Progress, 1e-9)

	res, err = eng.Advance(ctx, id)
	require.NoError(t, err)
	assert.True(t, res.Moved)
	assert.Equal(t, "Zinc Application", res.View.Title)

	res, err = eng.UpdateState(ctx, id, domain.KeyApplicationMethod, "Foliar Spray")
	require.NoError(t, err)
	assert.Equal(t, domain.FoliarSpray, res.View.Choices.ApplicationMethod)

	for i := 0; i < 5; i++ {
		res, err = eng.Advance(ctx, id)
		require.NoError(t, err)
		assert.False(t, res.Complete)
	}
	assert.Equal(t, 6, res.View.Index)
	assert.InDelta(t, 1.0, res.View.Progress, 1e-9)

	res, err = eng.Advance(ctx, id)
	require.NoError(t, err)
	assert.True(t, res.Complete)
	assert.False(t, res.Moved)
	assert.Nil(t, res.Diff, "completion writes nothing")
	assert.Equal(t, 6, res.View.Index)
	assert.Equal(t, "Foliar Spray", res.View.GlobalState[domain.KeyApplicationMethod])

	res, err = eng.Reset(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 0, res.View.Index)
	assert.Empty(t, res.View.GlobalState)
}

func TestEngine_RetreatAndJump(t *testing.T) {
	eng := newEngine(t)
	ctx := context.Background()

	_, err := eng.Start(ctx, "s", "")
	require.NoError(t, err)

	res, err := eng.Retreat(ctx, "s")
	require.NoError(t, err)
	assert.False(t, res.Moved)
	assert.Equal(t, 0, res.View.Index)

	res, err = eng.JumpTo(ctx, "s", 4)
	require.NoError(t, err)
	assert.True(t, res.Moved)
	assert.Equal(t, "Healthy Growth", res.View.Title)
	require.NotNil(t, res.Diff)
	require.NotNil(t, res.Diff.CurrentIndex)
	assert.Equal(t, 4, *res.Diff.CurrentIndex)

	for _, bad := range []int{-1, 7, 100} {
		res, err = eng.JumpTo(ctx, "s", bad)
		require.NoError(t, err)
		assert.False(t, res.Moved)
		assert.Equal(t, 4, res.View.Index)
	}

	res, err = eng.Retreat(ctx, "s")
	require.NoError(t, err)
	assert.Equal(t, 3, res.View.Index)
}

func TestEngine_StartParam(t *testing.T) {
	eng := newEngine(t)
	ctx := context.Background()

	res, err := eng.Start(ctx, "deep", "3")
	require.NoError(t, err)
	assert.True(t, res.Created)
	assert.Equal(t, "Metal Competition", res.View.Title)

	res, err = eng.Start(ctx, "bad", "seven")
	require.NoError(t, err)
	assert.Equal(t, 0, res.View.Index)

	res, err = eng.Start(ctx, "oob", "7")
	require.NoError(t, err)
	assert.Equal(t, 0, res.View.Index)

	// Restarting an existing session keeps its progress.
	_, err = eng.Advance(ctx, "deep")
	require.NoError(t, err)
	res, err = eng.Start(ctx, "deep", "")
	require.NoError(t, err)
	assert.False(t, res.Created)
	assert.Equal(t, 4, res.View.Index)

	res, err = eng.Start(ctx, "deep", "1")
	require.NoError(t, err)
	assert.True(t, res.Moved)
	assert.False(t, res.Created)
}

func TestEngine_UpdateStateValidation(t *testing.T) {
	eng := newEngine(t)
	ctx := context.Background()
	_, err := eng.Start(ctx, "s", "")
	require.NoError(t, err)

	_, err = eng.UpdateState(ctx, "s", domain.KeyApplicationMethod, "Irrigation")
	assert.ErrorIs(t, err, domain.ErrInvalidChoice)

	res, err := eng.UpdateState(ctx, "s", "notes", map[string]any{"seen": true})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"seen": true}, res.View.GlobalState["notes"])
}

func TestEngine_UnknownSession(t *testing.T) {
	eng := newEngine(t)
	ctx := context.Background()

	_, err := eng.Advance(ctx, "ghost")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	_, err = eng.View(ctx, "ghost")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestEngine_EndAndSessions(t *testing.T) {
	eng := newEngine(t)
	ctx := context.Background()

	for _, id := range []string{"b", "a"} {
		_, err := eng.Start(ctx, id, "")
		require.NoError(t, err)
	}

	ids, err := eng.Sessions(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, ids)

	require.NoError(t, eng.End(ctx, "a"))
	ids, err = eng.Sessions(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, ids)
}

func TestEngine_Hooks(t *testing.T) {
	var events []domain.EventType
	hooks := domain.LifecycleHooks{
		OnSceneEnter: func(_ context.Context, e *domain.SceneEvent) { events = append(events, e.Type) },
		OnComplete:   func(_ context.Context, e *domain.SceneEvent) { events = append(events, e.Type) },
	}
	eng := newEngine(t, labtour.WithCatalog(domain.MustCatalog(
		domain.Scene{Name: "one"}, domain.Scene{Name: "two"},
	)), labtour.WithLifecycleHooks(hooks))
	ctx := context.Background()

	_, err := eng.Start(ctx, "s", "")
	require.NoError(t, err)
	_, err = eng.Advance(ctx, "s")
	require.NoError(t, err)
	_, err = eng.Advance(ctx, "s")
	require.NoError(t, err)

	assert.Equal(t, []domain.EventType{domain.EventSceneEnter, domain.EventSceneEnter, domain.EventComplete}, events)
}

func TestEngine_PersistsAcrossInstances(t *testing.T) {
	dir := t.TempDir()
	key := make([]byte, 32)
	enc, err := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: key})
	require.NoError(t, err)

	opts := []labtour.Option{
		labtour.WithStore(file.New(dir)),
		labtour.WithStoreMiddleware(enc),
	}
	ctx := context.Background()

	first := newEngine(t, opts...)
	_, err = first.Start(ctx, "durable", "2")
	require.NoError(t, err)

	second := newEngine(t, opts...)
	view, err := second.View(ctx, "durable")
	require.NoError(t, err)
	assert.Equal(t, "Cellular Absorption", view.Title)
}

func TestEngine_ShorterCatalogNormalizes(t *testing.T) {
	store := newEngine(t).Store()
	ctx := context.Background()

	long := newEngine(t, labtour.WithStore(store))
	_, err := long.Start(ctx, "s", "6")
	require.NoError(t, err)

	short := newEngine(t, labtour.WithStore(store), labtour.WithCatalog(domain.MustCatalog(
		domain.Scene{Name: "only"},
	)))
	view, err := short.View(ctx, "s")
	require.NoError(t, err)
	assert.Equal(t, 0, view.Index)

	res, err := short.Advance(ctx, "s")
	require.NoError(t, err)
	assert.True(t, res.Complete)
	require.NotNil(t, res.Diff, "the repaired index is persisted")
}

func TestNew_CatalogSources(t *testing.T) {
	dir := t.TempDir()

	yamlPath := filepath.Join(dir, "mini-lab.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte("scenes:\n  - name: a\n  - name: b\n"), 0644))

	eng, err := labtour.New(yamlPath)
	require.NoError(t, err)
	assert.Equal(t, 2, eng.Catalog().Len())
	assert.Equal(t, "mini-lab", eng.Name)

	b := dsl.New()
	b.Add("x").Then("y").Then("z")
	loader, err := b.Build()
	require.NoError(t, err)

	eng, err = labtour.New("", labtour.WithLoader(loader))
	require.NoError(t, err)
	assert.Equal(t, 3, eng.Catalog().Len())
	assert.Equal(t, labtour.DefaultName, eng.Name)

	sceneDir := testutils.SceneDir(t, map[string]string{
		"farm.md":    "---\ntitle: Contaminated Farm\norder: 1\n---\nSoil check",
		"harvest.md": "---\ntitle: Harvest Results\norder: 2\n---\nSafe to eat",
	})
	eng, err = labtour.New(sceneDir)
	require.NoError(t, err)
	require.Equal(t, 2, eng.Catalog().Len())
	last, err := eng.Catalog().At(1)
	require.NoError(t, err)
	assert.Equal(t, domain.KindHarvestResults, last.Kind)
}

func TestNew_InvalidPath(t *testing.T) {
	_, err := labtour.New(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)

	notDir := filepath.Join(t.TempDir(), "plain.txt")
	require.NoError(t, os.WriteFile(notDir, []byte("x"), 0644))
	_, err = labtour.New(notDir)
	assert.Error(t, err)
}
