package app

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/jcmexdev/aurora-storefront/internal/cart/domain"
	"github.com/jcmexdev/aurora-storefront/internal/pkg/cache"
)

// Store persists carts per session.
type Store interface {
	Load(ctx context.Context, session string) (*domain.Cart, error)
	Save(ctx context.Context, session string, cart *domain.Cart) error
}

var _ Store = (*CacheStore)(nil)

// CacheStore keeps carts as JSON documents in a cache.Cache under "cart:<session>".
type CacheStore struct {
	cache cache.Cache
	ttl   time.Duration
}

func NewCacheStore(c cache.Cache, ttl time.Duration) *CacheStore {
	return &CacheStore{cache: c, ttl: ttl}
}

// Load returns the session's cart. A missing or unreadable document yields an
// empty cart; only cache failures are returned as errors.
func (s *CacheStore) Load(ctx context.Context, session string) (*domain.Cart, error) {
	raw, err := s.cache.Get(ctx, s.key(session))
	if err != nil {
		return nil, fmt.Errorf("cart: load %s: %w", session, err)
	}
	if raw == "" {
		return &domain.Cart{}, nil
	}

	var cart domain.Cart
	if err := json.Unmarshal([]byte(raw), &cart); err != nil {
		slog.DebugContext(ctx, "discarding unreadable cart", "session", session, "error", err)
		return &domain.Cart{}, nil
	}
	if !wellFormed(&cart) {
		slog.DebugContext(ctx, "discarding malformed cart", "session", session)
		return &domain.Cart{}, nil
	}
	return &cart, nil
}

// Save writes the cart. An empty cart deletes the document.
func (s *CacheStore) Save(ctx context.Context, session string, cart *domain.Cart) error {
	if cart.IsEmpty() {
		if err := s.cache.Delete(ctx, s.key(session)); err != nil {
			return fmt.Errorf("cart: save %s: %w", session, err)
		}
		return nil
	}
	payload, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("cart: encode %s: %w", session, err)
	}
	if err := s.cache.Set(ctx, s.key(session), payload, s.ttl); err != nil {
		return fmt.Errorf("cart: save %s: %w", session, err)
	}
	return nil
}

func (s *CacheStore) key(session string) string {
	return s.cache.GenerateKey("cart", session)
}

func wellFormed(cart *domain.Cart) bool {
	seen := make(map[string]bool, len(cart.Items))
	for _, item := range cart.Items {
		if item.Product.ID == "" || item.Quantity < 1 || item.Quantity > domain.MaxQuantity || item.Product.PriceUSD < 0 || seen[item.Product.ID] {
			return false
		}
		seen[item.Product.ID] = true
	}
	return true
}
