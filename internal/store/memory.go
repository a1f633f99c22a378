package store

import (
	"context"
	"sync"

	"github.com/panupunn/lease-manager/internal/domain"
)

// MemoryStore keeps the table in process memory. Used by tests and as the
// dev fallback when no spreadsheet backend is configured.
type MemoryStore struct {
	mu      sync.RWMutex
	records []domain.LeaseRecord
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) LoadAll(_ context.Context) ([]domain.LeaseRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]domain.LeaseRecord, len(m.records))
	copy(out, m.records)
	domain.SortRecords(out)
	return out, nil
}

func (m *MemoryStore) ReplaceAll(_ context.Context, records []domain.LeaseRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.records = make([]domain.LeaseRecord, len(records))
	copy(m.records, records)
	return nil
}
