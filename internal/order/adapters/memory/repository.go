// Package memory provides an in-process order repository.
package memory

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/jcmexdev/aurora-storefront/internal/order/domain"
)

var _ domain.Repository = (*Repository)(nil)

type Repository struct {
	mu     sync.RWMutex
	orders []*domain.Order
	index  map[string]int
}

func NewRepository() *Repository {
	return &Repository{index: make(map[string]int)}
}

func (r *Repository) Append(_ context.Context, order *domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.index[order.ID]; exists {
		return fmt.Errorf("memory: order %q already exists", order.ID)
	}
	r.index[order.ID] = len(r.orders)
	r.orders = append(r.orders, order.Clone())
	return nil
}

func (r *Repository) Get(_ context.Context, id string) (*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i, ok := r.index[id]
	if !ok {
		return nil, fmt.Errorf("memory: get %q: %w", id, domain.ErrNotFound)
	}
	return r.orders[i].Clone(), nil
}

func (r *Repository) List(_ context.Context) ([]*domain.Order, error) {
	r.mu.RLock()
	out := make([]*domain.Order, len(r.orders))
	for i, o := range r.orders {
		out[i] = o.Clone()
	}
	r.mu.RUnlock()

	slices.SortStableFunc(out, func(a, b *domain.Order) int {
		switch {
		case domain.Less(a, b):
			return -1
		case domain.Less(b, a):
			return 1
		}
		return 0
	})
	return out, nil
}

func (r *Repository) UpdateStatus(_ context.Context, id string, status domain.Status, updatedAt time.Time) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i, ok := r.index[id]
	if !ok {
		return nil, fmt.Errorf("memory: update %q: %w", id, domain.ErrNotFound)
	}
	o := r.orders[i]
	o.Status = status
	o.UpdatedAt = domain.Touch(o.UpdatedAt, updatedAt)
	return o.Clone(), nil
}
