// Package app applies cart mutations for a session and persists the result
// after every change.
package app

import (
	"context"
	"fmt"

	catalog "github.com/jcmexdev/aurora-storefront/internal/catalog/domain"
	"github.com/jcmexdev/aurora-storefront/internal/cart/domain"
)

// ProductLookup resolves products by id.
type ProductLookup interface {
	GetProductByID(id string) (catalog.Product, error)
}

// Service serializes mutations per session within the process, so concurrent
// requests on one cart do not overwrite each other.
type Service struct {
	store    Store
	products ProductLookup
	locks    *sessionLocks
}

func NewService(store Store, products ProductLookup) *Service {
	return &Service{store: store, products: products, locks: newSessionLocks()}
}

// Get returns the session's current cart.
func (s *Service) Get(ctx context.Context, session string) (*domain.Cart, error) {
	return s.store.Load(ctx, session)
}

// AddItem adds qty units of a catalog product.
func (s *Service) AddItem(ctx context.Context, session, productID string, qty int) (*domain.Cart, error) {
	product, err := s.products.GetProductByID(productID)
	if err != nil {
		return nil, err
	}
	return s.mutate(ctx, session, func(c *domain.Cart) error {
		return c.AddItem(product, qty)
	})
}

// RemoveItem drops a product from the cart.
func (s *Service) RemoveItem(ctx context.Context, session, productID string) (*domain.Cart, error) {
	return s.mutate(ctx, session, func(c *domain.Cart) error {
		c.RemoveItem(productID)
		return nil
	})
}

// UpdateQuantity replaces a line quantity; zero or less removes the line.
func (s *Service) UpdateQuantity(ctx context.Context, session, productID string, qty int) (*domain.Cart, error) {
	return s.mutate(ctx, session, func(c *domain.Cart) error {
		return c.UpdateQuantity(productID, qty)
	})
}

// Subtract removes the captured quantities of items, keeping anything added
// to the cart since they were read. Checkout uses it once an order holds them.
func (s *Service) Subtract(ctx context.Context, session string, items []domain.Item) (*domain.Cart, error) {
	return s.mutate(ctx, session, func(c *domain.Cart) error {
		c.Subtract(items)
		return nil
	})
}

// Clear empties the session's cart.
func (s *Service) Clear(ctx context.Context, session string) error {
	_, err := s.mutate(ctx, session, func(c *domain.Cart) error {
		c.Clear()
		return nil
	})
	return err
}

// Transfer merges the cart held under from into the cart under to and empties
// from. It is used when a guest signs in.
func (s *Service) Transfer(ctx context.Context, from, to string) (*domain.Cart, error) {
	if from == "" || from == to {
		return s.store.Load(ctx, to)
	}
	if to == "" {
		return nil, fmt.Errorf("cart: session is required")
	}
	unlock := s.locks.lockPair(from, to)
	defer unlock()

	src, err := s.store.Load(ctx, from)
	if err != nil {
		return nil, err
	}
	if src.IsEmpty() {
		return s.store.Load(ctx, to)
	}
	merged, err := s.update(ctx, to, func(c *domain.Cart) error {
		for _, item := range src.Items {
			if err := c.AddItem(item.Product, item.Quantity); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if err := s.store.Save(ctx, from, &domain.Cart{}); err != nil {
		return nil, err
	}
	return merged, nil
}

func (s *Service) mutate(ctx context.Context, session string, apply func(*domain.Cart) error) (*domain.Cart, error) {
	if session == "" {
		return nil, fmt.Errorf("cart: session is required")
	}
	unlock := s.locks.lock(session)
	defer unlock()
	return s.update(ctx, session, apply)
}

// update loads, applies and saves. The caller holds the session lock.
func (s *Service) update(ctx context.Context, session string, apply func(*domain.Cart) error) (*domain.Cart, error) {
	cart, err := s.store.Load(ctx, session)
	if err != nil {
		return nil, err
	}
	if err := apply(cart); err != nil {
		return nil, err
	}
	if err := s.store.Save(ctx, session, cart); err != nil {
		return nil, err
	}
	return cart, nil
}
