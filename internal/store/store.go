package store

import (
	"context"
	"errors"

	"github.com/panupunn/lease-manager/internal/domain"
)

// ErrUnavailable marks backend connectivity failures (file unreadable,
// sheet service unreachable). Callers decide whether to retry.
var ErrUnavailable = errors.New("storage unavailable")

// Store holds the full set of lease records. The backing sheet has no
// per-row update primitive, so writes are whole-table replacements.
type Store interface {
	// LoadAll returns every record ordered by end date ascending (unknown
	// end dates last), then id ascending.
	LoadAll(ctx context.Context) ([]domain.LeaseRecord, error)

	// ReplaceAll overwrites the whole table. All-or-nothing; there is no
	// incremental upsert.
	ReplaceAll(ctx context.Context, records []domain.LeaseRecord) error
}

// Invalidator is implemented by stores that keep a read cache. Writers
// invalidate before re-reading so they never observe a stale table.
type Invalidator interface {
	Invalidate(ctx context.Context) error
}
