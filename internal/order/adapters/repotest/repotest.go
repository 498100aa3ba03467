// Package repotest runs the same behavioural checks against every
// domain.Repository implementation.
package repotest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cart "github.com/jcmexdev/aurora-storefront/internal/cart/domain"
	catalog "github.com/jcmexdev/aurora-storefront/internal/catalog/domain"
	"github.com/jcmexdev/aurora-storefront/internal/currency"
	"github.com/jcmexdev/aurora-storefront/internal/i18n"
	"github.com/jcmexdev/aurora-storefront/internal/order/domain"
	"github.com/jcmexdev/aurora-storefront/internal/payment"
)

var base = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

// Order builds a fully populated pending order created at base+offset.
func Order(id string, offset time.Duration) *domain.Order {
	created := base.Add(offset)
	return &domain.Order{
		ID:       id,
		Customer: domain.Customer{ID: "user-1", Email: "user@example.com", Name: "John Doe"},
		Items: []cart.Item{{
			Product: catalog.Product{
				ID:       "product-1",
				Name:     i18n.Text{En: "Crystal Pendant Necklace", Es: "Collar con Colgante de Cristal"},
				PriceUSD: 129.99,
				Images:   []string{"https://example.com/1.jpg"},
				Category: catalog.CategoryNecklaces,
				Stock:    15,
				Colors:   []string{"Silver", "Gold"},
			},
			Quantity: 2,
		}},
		ShippingInfo: domain.ShippingInfo{
			FirstName: "John", LastName: "Doe", Email: "john@example.com", Phone: "555-0100",
			Address: "1 Main St", City: "Caracas", State: "DC", Zip: "1010", Country: "VE",
		},
		PaymentInfo: payment.Info{Method: payment.Zelle, ProofImageURL: "proof.png"},
		Status:      domain.StatusPending,
		Currency:    currency.VES,
		Subtotal:    259.98,
		Shipping:    0,
		Tax:         18.2,
		Total:       278.18,
		Language:    i18n.Spanish,
		CreatedAt:   created,
		UpdatedAt:   created,
	}
}

// Run exercises repo, which must start empty.
func Run(t *testing.T, newRepo func(t *testing.T) domain.Repository) {
	t.Run("append then get returns an equal copy", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		want := Order("order-1", 0)

		require.NoError(t, repo.Append(ctx, want))

		got, err := repo.Get(ctx, "order-1")
		require.NoError(t, err)
		assertSameOrder(t, want, got)

		got.Items[0].Quantity = 99
		got.Items[0].Product.Colors[0] = "Rose"
		again, err := repo.Get(ctx, "order-1")
		require.NoError(t, err)
		assert.Equal(t, 2, again.Items[0].Quantity)
		assert.Equal(t, "Silver", again.Items[0].Product.Colors[0])
	})

	t.Run("get unknown", func(t *testing.T) {
		_, err := newRepo(t).Get(context.Background(), "missing")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("duplicate id is rejected", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		require.NoError(t, repo.Append(ctx, Order("order-1", 0)))
		assert.Error(t, repo.Append(ctx, Order("order-1", time.Minute)))
	})

	t.Run("list is newest first", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		require.NoError(t, repo.Append(ctx, Order("order-t2", time.Hour)))
		require.NoError(t, repo.Append(ctx, Order("order-t1", 0)))
		require.NoError(t, repo.Append(ctx, Order("order-t3", 2*time.Hour)))
		require.NoError(t, repo.Append(ctx, Order("order-t3b", 2*time.Hour)))

		got, err := repo.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"order-t3b", "order-t3", "order-t2", "order-t1"}, ids(got))
	})

	t.Run("list on empty repository", func(t *testing.T) {
		got, err := newRepo(t).List(context.Background())
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("update status", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		require.NoError(t, repo.Append(ctx, Order("order-1", 0)))

		later := base.Add(time.Hour)
		updated, err := repo.UpdateStatus(ctx, "order-1", domain.StatusShipped, later)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusShipped, updated.Status)
		assert.True(t, updated.UpdatedAt.Equal(later))

		got, err := repo.Get(ctx, "order-1")
		require.NoError(t, err)
		assert.Equal(t, domain.StatusShipped, got.Status)
		assert.True(t, got.UpdatedAt.Equal(later))
		assert.True(t, got.CreatedAt.Equal(base))
	})

	t.Run("updated at never moves backwards", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		require.NoError(t, repo.Append(ctx, Order("order-1", time.Hour)))

		updated, err := repo.UpdateStatus(ctx, "order-1", domain.StatusDelivered, base)
		require.NoError(t, err)
		assert.True(t, updated.UpdatedAt.Equal(base.Add(time.Hour)))
	})

	t.Run("update unknown leaves the store unchanged", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		require.NoError(t, repo.Append(ctx, Order("order-1", 0)))

		_, err := repo.UpdateStatus(ctx, "missing", domain.StatusShipped, base.Add(time.Hour))
		assert.ErrorIs(t, err, domain.ErrNotFound)

		got, err := repo.Get(ctx, "order-1")
		require.NoError(t, err)
		assert.Equal(t, domain.StatusPending, got.Status)
		assert.True(t, got.UpdatedAt.Equal(base))
	})
}

func ids(orders []*domain.Order) []string {
	out := make([]string, len(orders))
	for i, o := range orders {
		out[i] = o.ID
	}
	return out
}

// assertSameOrder compares orders with timestamps normalised to UTC, since
// repositories are free to change the location of stored times.
func assertSameOrder(t *testing.T, want, got *domain.Order) {
	t.Helper()
	w, g := want.Clone(), got.Clone()
	w.CreatedAt, w.UpdatedAt = w.CreatedAt.UTC(), w.UpdatedAt.UTC()
	g.CreatedAt, g.UpdatedAt = g.CreatedAt.UTC(), g.UpdatedAt.UTC()
	for i := range w.Items {
		w.Items[i].Product.CreatedAt = w.Items[i].Product.CreatedAt.UTC()
	}
	for i := range g.Items {
		g.Items[i].Product.CreatedAt = g.Items[i].Product.CreatedAt.UTC()
	}
	assert.Equal(t, w, g)
}
