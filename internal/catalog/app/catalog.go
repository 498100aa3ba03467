// Package app is the catalog store: product lookups for the storefront and
// the stock ledger the checkout saga reserves against.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/jcmexdev/aurora-storefront/internal/catalog/domain"
)

// DefaultListLimit is the size of the featured, new-arrival and related rails.
const DefaultListLimit = 4

// LowStockThreshold marks products the admin dashboard flags.
const LowStockThreshold = 5

type Catalog struct {
	mu           sync.RWMutex
	products     []domain.Product
	index        map[string]int
	categories   []domain.CategoryInfo
	reservations map[string][]domain.StockItem
}

// New builds a catalog over the given seed. Product ids must be unique.
func New(seed Seed) (*Catalog, error) {
	c := &Catalog{
		products:     make([]domain.Product, 0, len(seed.Products)),
		index:        make(map[string]int, len(seed.Products)),
		categories:   append([]domain.CategoryInfo(nil), seed.Categories...),
		reservations: make(map[string][]domain.StockItem),
	}
	for _, p := range seed.Products {
		if _, dup := c.index[p.ID]; dup {
			return nil, fmt.Errorf("catalog: duplicate product id %q", p.ID)
		}
		c.index[p.ID] = len(c.products)
		c.products = append(c.products, p.Clone())
	}
	return c, nil
}

// NewDefault builds the catalog from the embedded seed.
func NewDefault() (*Catalog, error) {
	seed, err := DefaultSeed()
	if err != nil {
		return nil, err
	}
	return New(seed)
}

// GetProductByID returns the product or domain.ErrProductNotFound.
func (c *Catalog) GetProductByID(id string) (domain.Product, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	i, ok := c.index[id]
	if !ok {
		return domain.Product{}, fmt.Errorf("catalog: %s: %w", id, domain.ErrProductNotFound)
	}
	return c.products[i].Clone(), nil
}

// All returns every product in seed order.
func (c *Catalog) All() []domain.Product {
	return c.filter(func(domain.Product) bool { return true }, 0)
}

// GetProductsByCategory returns the products of one category in seed order.
func (c *Catalog) GetProductsByCategory(category domain.Category) []domain.Product {
	return c.filter(func(p domain.Product) bool { return p.Category == category }, 0)
}

// GetFeaturedProducts returns up to limit featured products.
func (c *Catalog) GetFeaturedProducts(limit int) []domain.Product {
	return c.filter(func(p domain.Product) bool { return p.Featured }, limit)
}

// GetRelatedProducts returns up to limit other products of p's category.
func (c *Catalog) GetRelatedProducts(p domain.Product, limit int) []domain.Product {
	return c.filter(func(o domain.Product) bool {
		return o.Category == p.Category && o.ID != p.ID
	}, limit)
}

// GetNewArrivals returns up to limit products, newest first.
func (c *Catalog) GetNewArrivals(limit int) []domain.Product {
	out := c.All()
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return truncate(out, limit)
}

// Search matches term case-insensitively against both names and the id.
// An empty term matches everything.
func (c *Catalog) Search(term string) []domain.Product {
	term = strings.TrimSpace(term)
	if term == "" {
		return c.All()
	}
	lower := strings.ToLower(term)
	return c.filter(func(p domain.Product) bool {
		return p.Name.Contains(term) || strings.Contains(strings.ToLower(p.ID), lower)
	}, 0)
}

// Categories returns the category tiles.
func (c *Catalog) Categories() []domain.CategoryInfo {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]domain.CategoryInfo(nil), c.categories...)
}

// LowStock returns the products with fewer than threshold units.
func (c *Catalog) LowStock(threshold int) []domain.Product {
	return c.filter(func(p domain.Product) bool { return p.Stock < threshold }, 0)
}

// Reserve takes stock for every item of an order, or nothing at all.
func (c *Catalog) Reserve(ctx context.Context, orderID string, items []domain.StockItem) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	slog.DebugContext(ctx, "reserving stock", "order_id", orderID, "items", len(items))

	requested := make(map[string]int, len(items))
	for _, item := range items {
		requested[item.ProductID] += item.Quantity
	}
	for productID, qty := range requested {
		i, ok := c.index[productID]
		if !ok {
			return fmt.Errorf("catalog: reserve %s: %w", productID, domain.ErrProductNotFound)
		}
		if c.products[i].Stock < qty {
			return fmt.Errorf("catalog: reserve %s: available %d, requested %d: %w",
				productID, c.products[i].Stock, qty, domain.ErrInsufficientStock)
		}
	}

	for productID, qty := range requested {
		c.products[c.index[productID]].Stock -= qty
	}
	c.reservations[orderID] = append([]domain.StockItem(nil), items...)

	slog.InfoContext(ctx, "stock reserved", "order_id", orderID)
	return nil
}

// Release restores the stock held for orderID. Releasing an unknown order is a no-op.
func (c *Catalog) Release(ctx context.Context, orderID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	items, ok := c.reservations[orderID]
	if !ok {
		slog.WarnContext(ctx, "no reservation to release", "order_id", orderID)
		return nil
	}
	for _, item := range items {
		if i, ok := c.index[item.ProductID]; ok {
			c.products[i].Stock += item.Quantity
		}
	}
	delete(c.reservations, orderID)

	slog.InfoContext(ctx, "stock released", "order_id", orderID)
	return nil
}

// Commit forgets the reservation of a placed order; its stock stays taken.
func (c *Catalog) Commit(ctx context.Context, orderID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.reservations[orderID]; ok {
		delete(c.reservations, orderID)
		slog.DebugContext(ctx, "stock reservation committed", "order_id", orderID)
	}
}

// reserved reports how many reservations are outstanding.
func (c *Catalog) reserved() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.reservations)
}

func (c *Catalog) filter(keep func(domain.Product) bool, limit int) []domain.Product {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]domain.Product, 0)
	for _, p := range c.products {
		if keep(p) {
			out = append(out, p.Clone())
			if limit > 0 && len(out) == limit {
				break
			}
		}
	}
	return out
}

func truncate(products []domain.Product, limit int) []domain.Product {
	if limit > 0 && len(products) > limit {
		return products[:limit]
	}
	return products
}
