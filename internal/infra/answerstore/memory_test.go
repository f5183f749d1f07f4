package answerstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	store := NewMemoryStore(0)
	ctx := context.Background()

	_, ok, err := store.Get(ctx, "formData")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, store.Set(ctx, "formData", `{"gender":"male"}`))
	value, ok, err := store.Get(ctx, "formData")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, `{"gender":"male"}`, value)

	require.NoError(t, store.Delete(ctx, "formData"))
	_, ok, err = store.Get(ctx, "formData")
	require.NoError(t, err)
	require.False(t, ok)
	require.Equal(t, 0, store.Len())
}

func TestMemoryStoreExpiresRecords(t *testing.T) {
	store := NewMemoryStore(time.Minute)
	now := time.Date(2024, 7, 1, 9, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "k", "v"))
	now = now.Add(2 * time.Minute)

	_, ok, err := store.Get(ctx, "k")
	require.NoError(t, err)
	require.False(t, ok)
	require.Equal(t, 0, store.Len())
}

func TestScopedIsolatesVisitors(t *testing.T) {
	backend := NewMemoryStore(0)
	ctx := context.Background()
	a := NewScoped(backend, "session-a")
	b := NewScoped(backend, "session-b")

	require.NoError(t, a.Set(ctx, "formData", "A"))
	_, ok, err := b.Get(ctx, "formData")
	require.NoError(t, err)
	require.False(t, ok)

	value, ok, err := backend.Get(ctx, "session-a:formData")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "A", value)

	require.NoError(t, a.Delete(ctx, "formData"))
	require.Equal(t, 0, backend.Len())
}
