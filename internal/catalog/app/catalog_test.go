package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcmexdev/aurora-storefront/internal/catalog/domain"
)

func newTestCatalog(t *testing.T) *Catalog {
	t.Helper()
	c, err := NewDefault()
	require.NoError(t, err)
	return c
}

func ids(products []domain.Product) []string {
	out := make([]string, len(products))
	for i, p := range products {
		out[i] = p.ID
	}
	return out
}

func TestDefaultSeed(t *testing.T) {
	seed, err := DefaultSeed()
	require.NoError(t, err)

	assert.Len(t, seed.Products, 12)
	assert.Len(t, seed.Categories, 6)
	for _, p := range seed.Products {
		assert.NotEmpty(t, p.Images, p.ID)
		assert.True(t, p.Category.Valid(), p.ID)
		assert.False(t, p.CreatedAt.IsZero(), p.ID)
	}
}

func TestLoadSeed_RejectsInvalidProducts(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"no images", `products: [{id: p, price_usd: 1, category: rings, stock: 1, created_at: "2025-01-01"}]`},
		{"negative stock", `products: [{id: p, price_usd: 1, images: [a], category: rings, stock: -1, created_at: "2025-01-01"}]`},
		{"negative price", `products: [{id: p, price_usd: -1, images: [a], category: rings, stock: 1, created_at: "2025-01-01"}]`},
		{"bad category", `products: [{id: p, price_usd: 1, images: [a], category: shoes, stock: 1, created_at: "2025-01-01"}]`},
		{"bad date", `products: [{id: p, price_usd: 1, images: [a], category: rings, stock: 1, created_at: "yesterday"}]`},
		{"missing id", `products: [{price_usd: 1, images: [a], category: rings, stock: 1, created_at: "2025-01-01"}]`},
		{"not yaml", `products: [`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadSeed([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestNew_DuplicateIDs(t *testing.T) {
	p := domain.Product{ID: "dup", Images: []string{"a"}, Category: domain.CategoryRings}
	_, err := New(Seed{Products: []domain.Product{p, p}})
	assert.Error(t, err)
}

func TestCatalog_Lookups(t *testing.T) {
	c := newTestCatalog(t)

	p, err := c.GetProductByID("product-6")
	require.NoError(t, err)
	assert.Equal(t, "Rose Gold Watch", p.Name.En)
	assert.Equal(t, 199.99, p.PriceUSD)

	_, err = c.GetProductByID("missing")
	assert.ErrorIs(t, err, domain.ErrProductNotFound)

	assert.Equal(t, []string{"product-1", "product-2", "product-4", "product-6"}, ids(c.GetFeaturedProducts(DefaultListLimit)))
	assert.Equal(t, []string{"product-12", "product-9", "product-4", "product-6"}, ids(c.GetNewArrivals(DefaultListLimit)))
	assert.Equal(t, []string{"product-4", "product-10"}, ids(c.GetProductsByCategory(domain.CategoryRings)))
	assert.Equal(t, []string{"product-7"}, ids(c.GetRelatedProducts(mustGet(t, c, "product-3"), DefaultListLimit)))
	assert.Len(t, c.All(), 12)
	assert.Len(t, c.Categories(), 6)
}

func TestCatalog_Search(t *testing.T) {
	c := newTestCatalog(t)

	assert.Equal(t, []string{"product-6", "product-11"}, ids(c.Search("watch")))
	assert.Equal(t, []string{"product-6", "product-11"}, ids(c.Search("RELOJ")))
	assert.Equal(t, []string{"product-12"}, ids(c.Search("product-12")))
	assert.Len(t, c.Search("  "), 12)
	assert.Empty(t, c.Search("tiara"))
}

func TestCatalog_ReturnsCopies(t *testing.T) {
	c := newTestCatalog(t)

	p := mustGet(t, c, "product-1")
	p.Images[0] = "mutated"
	p.Stock = 0

	again := mustGet(t, c, "product-1")
	assert.NotEqual(t, "mutated", again.Images[0])
	assert.Equal(t, 15, again.Stock)
}

func TestCatalog_ReserveRelease(t *testing.T) {
	c := newTestCatalog(t)
	ctx := context.Background()

	err := c.Reserve(ctx, "order-1", []domain.StockItem{
		{ProductID: "product-4", Quantity: 3},
		{ProductID: "product-1", Quantity: 1},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, mustGet(t, c, "product-4").Stock)
	assert.Equal(t, 14, mustGet(t, c, "product-1").Stock)
	assert.Len(t, c.LowStock(LowStockThreshold), 1)

	require.NoError(t, c.Release(ctx, "order-1"))
	assert.Equal(t, 5, mustGet(t, c, "product-4").Stock)
	assert.Equal(t, 15, mustGet(t, c, "product-1").Stock)

	// second release is a no-op
	require.NoError(t, c.Release(ctx, "order-1"))
	assert.Equal(t, 5, mustGet(t, c, "product-4").Stock)
}

func TestCatalog_ReserveIsAllOrNothing(t *testing.T) {
	c := newTestCatalog(t)
	ctx := context.Background()

	err := c.Reserve(ctx, "order-1", []domain.StockItem{
		{ProductID: "product-1", Quantity: 1},
		{ProductID: "product-4", Quantity: 6},
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, 15, mustGet(t, c, "product-1").Stock)
	assert.Equal(t, 5, mustGet(t, c, "product-4").Stock)

	err = c.Reserve(ctx, "order-2", []domain.StockItem{{ProductID: "ghost", Quantity: 1}})
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func mustGet(t *testing.T, c *Catalog, id string) domain.Product {
	t.Helper()
	p, err := c.GetProductByID(id)
	require.NoError(t, err)
	return p
}

func TestCatalog_CommitForgetsReservation(t *testing.T) {
	c := newTestCatalog(t)
	ctx := context.Background()

	for _, id := range []string{"order-1", "order-2", "order-3"} {
		require.NoError(t, c.Reserve(ctx, id, []domain.StockItem{{ProductID: "product-7", Quantity: 1}}))
	}
	assert.Equal(t, 3, c.reserved())

	c.Commit(ctx, "order-1")
	c.Commit(ctx, "order-2")
	c.Commit(ctx, "unknown")
	assert.Equal(t, 1, c.reserved())

	// committed stock stays taken; the open reservation can still be released
	require.NoError(t, c.Release(ctx, "order-1"))
	assert.Equal(t, 32, mustGet(t, c, "product-7").Stock)
	require.NoError(t, c.Release(ctx, "order-3"))
	assert.Equal(t, 33, mustGet(t, c, "product-7").Stock)
	assert.Zero(t, c.reserved())
}
