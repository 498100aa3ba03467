// Package ports lists what the HTTP gateway needs from the storefront core.
package ports

import (
	"context"

	auth "github.com/jcmexdev/aurora-storefront/internal/auth/domain"
	cart "github.com/jcmexdev/aurora-storefront/internal/cart/domain"
	catalog "github.com/jcmexdev/aurora-storefront/internal/catalog/domain"
	"github.com/jcmexdev/aurora-storefront/internal/checkout"
	"github.com/jcmexdev/aurora-storefront/internal/coordinator/sagalog"
	"github.com/jcmexdev/aurora-storefront/internal/order/domain"
	"github.com/jcmexdev/aurora-storefront/internal/payment"
	"github.com/jcmexdev/aurora-storefront/internal/report"
)

type AuthService interface {
	Login(ctx context.Context, email, password string) (auth.Session, error)
	Register(ctx context.Context, email, password, name string) (auth.Session, error)
	Logout(ctx context.Context, token string) error
	Resolve(ctx context.Context, token string) (auth.User, error)
}

type CatalogService interface {
	GetProductByID(id string) (catalog.Product, error)
	All() []catalog.Product
	GetProductsByCategory(category catalog.Category) []catalog.Product
	GetFeaturedProducts(limit int) []catalog.Product
	GetNewArrivals(limit int) []catalog.Product
	GetRelatedProducts(p catalog.Product, limit int) []catalog.Product
	Search(term string) []catalog.Product
	Categories() []catalog.CategoryInfo
}

type CartService interface {
	Get(ctx context.Context, session string) (*cart.Cart, error)
	AddItem(ctx context.Context, session, productID string, qty int) (*cart.Cart, error)
	RemoveItem(ctx context.Context, session, productID string) (*cart.Cart, error)
	UpdateQuantity(ctx context.Context, session, productID string, qty int) (*cart.Cart, error)
	Clear(ctx context.Context, session string) error
	Transfer(ctx context.Context, from, to string) (*cart.Cart, error)
}

type CheckoutService interface {
	PlaceOrder(ctx context.Context, req checkout.Request) (checkout.Result, error)
}

type OrderService interface {
	GetOrderByID(ctx context.Context, id string) (*domain.Order, error)
	GetUserOrders(ctx context.Context, userID string) ([]*domain.Order, error)
	SearchOrders(ctx context.Context, term string, status domain.Status) ([]*domain.Order, error)
	UpdateOrderStatus(ctx context.Context, id string, status domain.Status) (*domain.Order, error)
}

type PaymentMethods interface {
	All() []payment.MethodInfo
}

type SalesReporter interface {
	Generate(ctx context.Context, period report.Period) (report.SalesReport, error)
}

type DashboardService interface {
	Dashboard(ctx context.Context) (report.Dashboard, error)
}

// SagaHistory reads the checkout audit trail of an order.
type SagaHistory interface {
	History(ctx context.Context, sagaID string) ([]*sagalog.SagaLog, error)
}
