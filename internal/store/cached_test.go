package store

import (
	"context"
	"testing"
	"time"

	"github.com/panupunn/lease-manager/internal/domain"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// countingStore wraps MemoryStore and counts backend reads.
type countingStore struct {
	*MemoryStore
	loads int
}

func (c *countingStore) LoadAll(ctx context.Context) ([]domain.LeaseRecord, error) {
	c.loads++
	return c.MemoryStore.LoadAll(ctx)
}

func TestCachedStore_ServesRepeatReadsFromCache(t *testing.T) {
	ctx := context.Background()
	inner := &countingStore{MemoryStore: NewMemoryStore()}
	require.NoError(t, inner.ReplaceAll(ctx, []domain.LeaseRecord{{ID: 1, ShopName: "A"}}))

	cached := NewCachedStore(inner, NewMemoryKV(), time.Minute, zap.NewNop())

	first, err := cached.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, first, 1)
	require.Equal(t, 1, inner.loads)

	second, err := cached.LoadAll(ctx)
	require.NoError(t, err)
	require.Equal(t, first, second)
	require.Equal(t, 1, inner.loads, "second read must hit the cache")
}

func TestCachedStore_ReplaceAllInvalidates(t *testing.T) {
	ctx := context.Background()
	inner := &countingStore{MemoryStore: NewMemoryStore()}
	cached := NewCachedStore(inner, NewMemoryKV(), time.Minute, zap.NewNop())

	_, err := cached.LoadAll(ctx)
	require.NoError(t, err)

	require.NoError(t, cached.ReplaceAll(ctx, []domain.LeaseRecord{{ID: 2, ShopName: "B"}}))

	out, err := cached.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, out, 1)
	require.Equal(t, "B", out[0].ShopName)
	require.Equal(t, 2, inner.loads, "post-write read must bypass the stale snapshot")
}

func TestCachedStore_ExplicitInvalidate(t *testing.T) {
	ctx := context.Background()
	inner := &countingStore{MemoryStore: NewMemoryStore()}
	cached := NewCachedStore(inner, NewMemoryKV(), time.Minute, zap.NewNop())

	_, err := cached.LoadAll(ctx)
	require.NoError(t, err)
	require.NoError(t, cached.Invalidate(ctx))

	_, err = cached.LoadAll(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, inner.loads)
}

func TestMemoryKV_TTLExpiry(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()

	now := time.Date(2024, time.May, 1, 12, 0, 0, 0, time.UTC)
	kv.now = func() time.Time { return now }

	require.NoError(t, kv.Set(ctx, "k", "v", 5*time.Second))

	got, err := kv.Get(ctx, "k")
	require.NoError(t, err)
	require.Equal(t, "v", got)

	now = now.Add(6 * time.Second)
	_, err = kv.Get(ctx, "k")
	require.ErrorIs(t, err, ErrMiss)
}

func TestMemoryKV_Del(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()

	require.NoError(t, kv.Set(ctx, "k", "v", 0))
	require.NoError(t, kv.Del(ctx, "k"))
	_, err := kv.Get(ctx, "k")
	require.ErrorIs(t, err, ErrMiss)
}

func TestCachedStore_CorruptSnapshotFallsBack(t *testing.T) {
	ctx := context.Background()
	inner := &countingStore{MemoryStore: NewMemoryStore()}
	require.NoError(t, inner.ReplaceAll(ctx, []domain.LeaseRecord{{ID: 1}}))

	kv := NewMemoryKV()
	require.NoError(t, kv.Set(ctx, snapshotKey, "{not json", 0))

	cached := NewCachedStore(inner, kv, time.Minute, zap.NewNop())
	out, err := cached.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, out, 1)
	require.Equal(t, 1, inner.loads)
}
