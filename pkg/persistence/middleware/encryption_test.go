package middleware_test

import (
	"context"
	"crypto/rand"
	"io"
	"testing"

	"github.com/aretw0/labtour/pkg/adapters/memory"
	"github.com/aretw0/labtour/pkg/domain"
	"github.com/aretw0/labtour/pkg/persistence/middleware"
	"github.com/aretw0/labtour/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func generateKey(t *testing.T) []byte {
	t.Helper()
	k := make([]byte, 32)
	_, err := io.ReadFull(rand.Reader, k)
	require.NoError(t, err)
	return k
}

func encrypted(t *testing.T, store ports.StateStore, cfg middleware.EncryptionConfig) ports.StateStore {
	t.Helper()
	mw, err := middleware.NewEncryptionMiddleware(cfg)
	require.NoError(t, err)
	return mw(store)
}

func TestEncryptionMiddleware_Contract(t *testing.T) {
	store := encrypted(t, memory.NewStore(), middleware.EncryptionConfig{ActiveKey: generateKey(t)})
	ports.RunStateStoreContract(t, store)
}

func TestEncryptionMiddleware_Roundtrip(t *testing.T) {
	underlying := NewMockStore()
	secure := encrypted(t, underlying, middleware.EncryptionConfig{ActiveKey: generateKey(t)})

	ctx := context.Background()
	original := domain.NewState("test-session")
	original.CurrentIndex = 1
	original.GlobalState[domain.KeyApplicationMethod] = "Foliar Spray"

	require.NoError(t, secure.Save(ctx, "test-session", original))

	stored, err := underlying.Load(ctx, "test-session")
	require.NoError(t, err)
	assert.NotContains(t, stored.GlobalState, domain.KeyApplicationMethod)
	assert.Contains(t, stored.GlobalState, "__encrypted__")
	assert.Nil(t, stored.History)
	assert.Equal(t, 1, stored.CurrentIndex)

	loaded, err := secure.Load(ctx, "test-session")
	require.NoError(t, err)
	assert.Equal(t, "Foliar Spray", loaded.GlobalState[domain.KeyApplicationMethod])
	assert.Equal(t, original.History, loaded.History)
}

func TestEncryptionMiddleware_KeyRotation(t *testing.T) {
	underlying := NewMockStore()
	oldKey := generateKey(t)
	newKey := generateKey(t)

	secureOld := encrypted(t, underlying, middleware.EncryptionConfig{ActiveKey: oldKey})

	ctx := context.Background()
	state := domain.NewState("rotation-session")
	state.GlobalState["data"] = "encrypted-with-old-key"
	require.NoError(t, secureOld.Save(ctx, "rotation-session", state))

	secureNew := encrypted(t, underlying, middleware.EncryptionConfig{
		ActiveKey:    newKey,
		FallbackKeys: [][]byte{oldKey},
	})

	loaded, err := secureNew.Load(ctx, "rotation-session")
	require.NoError(t, err)
	assert.Equal(t, "encrypted-with-old-key", loaded.GlobalState["data"])

	loaded.GlobalState["data"] = "encrypted-with-new-key"
	require.NoError(t, secureNew.Save(ctx, "rotation-session", loaded))

	_, err = secureOld.Load(ctx, "rotation-session")
	assert.Error(t, err, "old key alone must not open data sealed with the new key")
}

func TestEncryptionMiddleware_RejectsPlainState(t *testing.T) {
	underlying := NewMockStore()
	require.NoError(t, underlying.Save(context.Background(), "plain", domain.NewState("plain")))

	secure := encrypted(t, underlying, middleware.EncryptionConfig{ActiveKey: generateKey(t)})
	_, err := secure.Load(context.Background(), "plain")
	assert.ErrorIs(t, err, middleware.ErrMissingEnvelope)
}

func TestEncryptionMiddleware_InvalidKey(t *testing.T) {
	_, err := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: []byte("short-key")})
	assert.ErrorIs(t, err, middleware.ErrKeySize)

	_, err = middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
		ActiveKey:    generateKey(t),
		FallbackKeys: [][]byte{[]byte("short")},
	})
	assert.ErrorIs(t, err, middleware.ErrKeySize)
}
