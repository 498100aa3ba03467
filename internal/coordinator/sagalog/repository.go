package sagalog

import (
	"context"
	"sync"
)

// Repository persists saga log entries. Save always appends.
type Repository interface {
	Save(ctx context.Context, entry *SagaLog) error
	// History returns the entries of one saga in the order they were saved.
	History(ctx context.Context, sagaID string) ([]*SagaLog, error)
}

var _ Repository = (*MemoryRepository)(nil)

// MemoryRepository keeps entries for the life of the process.
type MemoryRepository struct {
	mu      sync.RWMutex
	entries map[string][]SagaLog
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{entries: make(map[string][]SagaLog)}
}

func (r *MemoryRepository) Save(_ context.Context, entry *SagaLog) error {
	e := *entry
	e.Errors = append([]string{}, entry.Errors...)

	r.mu.Lock()
	r.entries[e.SagaID] = append(r.entries[e.SagaID], e)
	r.mu.Unlock()
	return nil
}

func (r *MemoryRepository) History(_ context.Context, sagaID string) ([]*SagaLog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stored := r.entries[sagaID]
	out := make([]*SagaLog, len(stored))
	for i := range stored {
		e := stored[i]
		e.Errors = append([]string{}, stored[i].Errors...)
		out[i] = &e
	}
	return out, nil
}
