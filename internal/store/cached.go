package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/panupunn/lease-manager/internal/domain"

	"go.uber.org/zap"
)

const snapshotKey = "lease:table:snapshot"

// DefaultCacheTTL matches the original tool's few-second read cache.
const DefaultCacheTTL = 5 * time.Second

// CachedStore fronts another Store with a short-lived JSON snapshot in a
// KV. Reads within the TTL may be stale by design; ReplaceAll writes
// through and drops the snapshot so the next read is fresh.
type CachedStore struct {
	inner  Store
	kv     KV
	ttl    time.Duration
	logger *zap.Logger
}

func NewCachedStore(inner Store, kv KV, ttl time.Duration, logger *zap.Logger) *CachedStore {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &CachedStore{inner: inner, kv: kv, ttl: ttl, logger: logger}
}

func (c *CachedStore) LoadAll(ctx context.Context) ([]domain.LeaseRecord, error) {
	if raw, err := c.kv.Get(ctx, snapshotKey); err == nil {
		var records []domain.LeaseRecord
		if err := json.Unmarshal([]byte(raw), &records); err == nil {
			return records, nil
		}
		// Corrupt snapshot: drop it and fall through to the backend.
		_ = c.kv.Del(ctx, snapshotKey)
	} else if err != ErrMiss {
		c.logger.Warn("lease cache read failed, falling back to backend", zap.Error(err))
	}

	records, err := c.inner.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	if raw, err := json.Marshal(records); err == nil {
		if err := c.kv.Set(ctx, snapshotKey, string(raw), c.ttl); err != nil {
			c.logger.Warn("lease cache write failed", zap.Error(err))
		}
	}
	return records, nil
}

func (c *CachedStore) ReplaceAll(ctx context.Context, records []domain.LeaseRecord) error {
	if err := c.inner.ReplaceAll(ctx, records); err != nil {
		return err
	}
	return c.Invalidate(ctx)
}

// Invalidate drops the cached snapshot. Writers call this before re-reading
// so they never observe a pre-write table.
func (c *CachedStore) Invalidate(ctx context.Context) error {
	if err := c.kv.Del(ctx, snapshotKey); err != nil {
		c.logger.Warn("lease cache invalidate failed", zap.Error(err))
		return err
	}
	return nil
}
