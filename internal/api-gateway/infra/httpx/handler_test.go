package httpx

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authapp "github.com/jcmexdev/aurora-storefront/internal/auth/app"
	cartapp "github.com/jcmexdev/aurora-storefront/internal/cart/app"
	catalogapp "github.com/jcmexdev/aurora-storefront/internal/catalog/app"
	"github.com/jcmexdev/aurora-storefront/internal/checkout"
	"github.com/jcmexdev/aurora-storefront/internal/coordinator/sagalog"
	"github.com/jcmexdev/aurora-storefront/internal/currency"
	"github.com/jcmexdev/aurora-storefront/internal/order/adapters/memory"
	"github.com/jcmexdev/aurora-storefront/internal/order/domain"
	orderapp "github.com/jcmexdev/aurora-storefront/internal/order/app"
	"github.com/jcmexdev/aurora-storefront/internal/payment"
	"github.com/jcmexdev/aurora-storefront/internal/pkg/cache"
	"github.com/jcmexdev/aurora-storefront/internal/report"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	products, err := catalogapp.NewDefault()
	require.NoError(t, err)

	store := cache.NewMemoryCache("test")
	methods := payment.DefaultDirectory()
	orders := orderapp.NewService(memory.NewRepository())
	carts := cartapp.NewService(cartapp.NewCacheStore(store, time.Hour), products)
	sagaLog := sagalog.NewMemoryRepository()

	handler := NewHandler(Deps{
		Auth:    authapp.NewService(store, time.Hour),
		Catalog: products,
		Carts:   carts,
		Checkout: checkout.NewService(checkout.Config{
			Carts:          carts,
			Orders:         orders,
			Stock:          products,
			Methods:        methods,
			Idempotency:    store,
			IdempotencyTTL: time.Hour,
			SagaLog:        sagaLog,
		}),
		Orders:    orders,
		Methods:   methods,
		Reports:   report.NewReporter(orders, nil),
		Dashboard: report.NewDashboardService(products, orders),
		SagaLog:   sagaLog,
		Converter: currency.NewConverter(currency.DefaultRateVES),
	})

	srv := httptest.NewServer(NewRouter(handler))
	t.Cleanup(srv.Close)
	return srv
}

type call struct {
	method  string
	path    string
	body    any
	token   string
	headers map[string]string
}

func do(t *testing.T, srv *httptest.Server, c call, out any) int {
	t.Helper()
	var body bytes.Buffer
	if c.body != nil {
		require.NoError(t, json.NewEncoder(&body).Encode(c.body))
	}
	req, err := http.NewRequestWithContext(context.Background(), c.method, srv.URL+c.path, &body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("X-Session-Token", c.token)
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	if out != nil && resp.StatusCode != http.StatusNoContent {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func login(t *testing.T, srv *httptest.Server, email, guestToken string) string {
	t.Helper()
	var session SessionResponse
	status := do(t, srv, call{method: http.MethodPost, path: "/auth/login", token: guestToken,
		body: LoginRequest{Email: email, Password: authapp.DemoPassword}}, &session)
	require.Equal(t, http.StatusOK, status)
	require.NotEmpty(t, session.Token)
	return session.Token
}

func checkoutBody() CheckoutRequest {
	return CheckoutRequest{
		ShippingInfo: domain.ShippingInfo{
			FirstName: "John", LastName: "Doe", Email: "john@example.com", Phone: "555-0100",
			Address: "1 Main St", City: "Caracas", State: "DC", Zip: "1010", Country: "VE",
		},
		PaymentInfo: payment.Info{
			Method: payment.CreditCard, CardName: "John Doe", CardNumber: "4111 1111 1111 1111",
			Expiration: "07/26", CVV: "123",
		},
	}
}

func TestProducts(t *testing.T) {
	srv := newTestServer(t)

	var all []ProductResponse
	require.Equal(t, http.StatusOK, do(t, srv, call{method: http.MethodGet, path: "/products"}, &all))
	assert.Len(t, all, 12)

	var featured []ProductResponse
	require.Equal(t, http.StatusOK, do(t, srv, call{method: http.MethodGet, path: "/products?featured=true"}, &featured))
	assert.Len(t, featured, 4)

	var one ProductResponse
	require.Equal(t, http.StatusOK, do(t, srv, call{method: http.MethodGet, path: "/products/product-1?currency=VES&lang=es"}, &one))
	assert.Equal(t, "Collar Colgante de Oro Rosa", one.Name)
	assert.Equal(t, 129.99, one.PriceUSD)
	assert.Equal(t, "Bs. 5,005", one.PriceDisplay)

	var rings []ProductResponse
	require.Equal(t, http.StatusOK, do(t, srv, call{method: http.MethodGet, path: "/products?category=rings"}, &rings))
	assert.Len(t, rings, 2)

	var related []ProductResponse
	require.Equal(t, http.StatusOK, do(t, srv, call{method: http.MethodGet, path: "/products/product-3/related"}, &related))
	require.Len(t, related, 1)
	assert.Equal(t, "product-7", related[0].ID)

	var errResp ErrorResponse
	assert.Equal(t, http.StatusNotFound, do(t, srv, call{method: http.MethodGet, path: "/products/nope"}, &errResp))
	assert.Equal(t, "product_not_found", errResp.Error)
	assert.Equal(t, http.StatusBadRequest, do(t, srv, call{method: http.MethodGet, path: "/products?currency=EUR"}, &errResp))
	assert.Equal(t, http.StatusBadRequest, do(t, srv, call{method: http.MethodGet, path: "/products?category=hats"}, &errResp))
}

func TestCategoriesAndPaymentMethods(t *testing.T) {
	srv := newTestServer(t)

	var categories []json.RawMessage
	require.Equal(t, http.StatusOK, do(t, srv, call{method: http.MethodGet, path: "/categories"}, &categories))
	assert.Len(t, categories, 6)

	var methods []PaymentMethodResponse
	require.Equal(t, http.StatusOK, do(t, srv, call{method: http.MethodGet, path: "/payment-methods",
		headers: map[string]string{"Accept-Language": "es-VE,es;q=0.9"}}, &methods))
	assert.Len(t, methods, 9)
	for _, m := range methods {
		assert.NotEmpty(t, m.Name)
	}
}

func TestCart(t *testing.T) {
	srv := newTestServer(t)
	const token = "guest-123"

	var errResp ErrorResponse
	assert.Equal(t, http.StatusBadRequest, do(t, srv, call{method: http.MethodGet, path: "/cart"}, &errResp))
	assert.Equal(t, "session_required", errResp.Error)

	var c CartResponse
	require.Equal(t, http.StatusOK, do(t, srv, call{method: http.MethodPost, path: "/cart/items", token: token,
		body: map[string]any{"product_id": "product-1"}}, &c))
	assert.Equal(t, 1, c.ItemCount)

	three := 3
	require.Equal(t, http.StatusOK, do(t, srv, call{method: http.MethodPost, path: "/cart/items", token: token,
		body: AddItemRequest{ProductID: "product-2", Quantity: &three}}, &c))
	assert.Equal(t, 4, c.ItemCount)
	assert.Equal(t, 399.96, c.Subtotal)
	assert.Equal(t, 0.0, c.Shipping)
	assert.Equal(t, "$399.96", c.Display.Subtotal)

	require.Equal(t, http.StatusOK, do(t, srv, call{method: http.MethodPatch, path: "/cart/items/product-2",
		token: token, body: UpdateQuantityRequest{Quantity: 0}}, &c))
	assert.Equal(t, 1, c.ItemCount)

	require.Equal(t, http.StatusOK, do(t, srv, call{method: http.MethodGet, path: "/cart?currency=VES", token: token}, &c))
	assert.Equal(t, currency.VES, c.Currency)
	assert.Equal(t, 129.99, c.Subtotal)
	assert.Zero(t, c.Shipping)
	assert.Equal(t, "Bs. 5,005", c.Items[0].LineTotalDisplay)

	zero := 0
	assert.Equal(t, http.StatusBadRequest, do(t, srv, call{method: http.MethodPost, path: "/cart/items", token: token,
		body: AddItemRequest{ProductID: "product-2", Quantity: &zero}}, &errResp))
	huge := int(^uint(0) >> 1)
	assert.Equal(t, http.StatusBadRequest, do(t, srv, call{method: http.MethodPost, path: "/cart/items", token: token,
		body: AddItemRequest{ProductID: "product-1", Quantity: &huge}}, &errResp))
	assert.Equal(t, "invalid_quantity", errResp.Error)
	assert.Equal(t, http.StatusNotFound, do(t, srv, call{method: http.MethodPost, path: "/cart/items", token: token,
		body: AddItemRequest{ProductID: "ghost"}}, &errResp))

	require.Equal(t, http.StatusOK, do(t, srv, call{method: http.MethodDelete, path: "/cart/items/product-1", token: token}, &c))
	assert.Zero(t, c.ItemCount)
	assert.Zero(t, c.Total)

	require.Equal(t, http.StatusOK, do(t, srv, call{method: http.MethodDelete, path: "/cart", token: token}, &c))
	assert.Empty(t, c.Items)
}

func TestAuth(t *testing.T) {
	srv := newTestServer(t)

	var errResp ErrorResponse
	assert.Equal(t, http.StatusUnauthorized, do(t, srv, call{method: http.MethodPost, path: "/auth/login",
		body: LoginRequest{Email: "user@example.com", Password: "wrong"}}, &errResp))
	assert.Equal(t, "invalid_credentials", errResp.Error)

	assert.Equal(t, http.StatusBadRequest, do(t, srv, call{method: http.MethodPost, path: "/auth/login",
		body: LoginRequest{}}, &errResp))

	var session SessionResponse
	require.Equal(t, http.StatusCreated, do(t, srv, call{method: http.MethodPost, path: "/auth/register",
		body: RegisterRequest{Email: "new@example.com", Password: "secret", Name: "New Person"}}, &session))
	assert.Equal(t, "new@example.com", session.User.Email)

	assert.Equal(t, http.StatusConflict, do(t, srv, call{method: http.MethodPost, path: "/auth/register",
		body: RegisterRequest{Email: "USER@example.com", Password: "secret", Name: "Dup"}}, &errResp))

	var orders []OrderResponse
	require.Equal(t, http.StatusOK, do(t, srv, call{method: http.MethodGet, path: "/orders", token: session.Token}, &orders))

	assert.Equal(t, http.StatusNoContent, do(t, srv, call{method: http.MethodPost, path: "/auth/logout", token: session.Token}, nil))
	assert.Equal(t, http.StatusUnauthorized, do(t, srv, call{method: http.MethodGet, path: "/orders", token: session.Token}, &errResp))
}

func TestCheckoutFlow(t *testing.T) {
	srv := newTestServer(t)

	// a guest fills a cart, then signs in and keeps it
	const guest = "guest-abc"
	var c CartResponse
	require.Equal(t, http.StatusOK, do(t, srv, call{method: http.MethodPost, path: "/cart/items", token: guest,
		body: AddItemRequest{ProductID: "product-9"}}, &c))

	var errResp ErrorResponse
	assert.Equal(t, http.StatusUnauthorized, do(t, srv, call{method: http.MethodPost, path: "/checkout", token: guest,
		body: checkoutBody()}, &errResp))

	token := login(t, srv, "user@example.com", guest)
	require.Equal(t, http.StatusOK, do(t, srv, call{method: http.MethodGet, path: "/cart", token: token}, &c))
	require.Equal(t, 1, c.ItemCount)

	invalid := checkoutBody()
	invalid.ShippingInfo.Email = "not-an-email"
	invalid.PaymentInfo.CVV = "1"
	assert.Equal(t, http.StatusUnprocessableEntity, do(t, srv, call{method: http.MethodPost, path: "/checkout",
		token: token, body: invalid}, &errResp))
	assert.Equal(t, "validation_failed", errResp.Error)
	assert.Len(t, errResp.Fields, 2)
	assert.Contains(t, errResp.Fields, checkout.FieldEmail)
	assert.Contains(t, errResp.Fields, checkout.FieldCVV)

	idem := map[string]string{"Idempotency-Key": "k-1"}
	var placed CheckoutResponse
	require.Equal(t, http.StatusCreated, do(t, srv, call{method: http.MethodPost, path: "/checkout?currency=VES",
		token: token, body: checkoutBody(), headers: idem}, &placed))
	assert.False(t, placed.Replayed)
	order := placed.Order
	assert.Equal(t, domain.StatusPending, order.Status)
	assert.Equal(t, currency.VES, order.Currency)
	// 99.99 + 10 shipping + 7.00 tax
	assert.Equal(t, 116.99, order.Total)
	assert.Equal(t, "Bs. 4,504", order.Display.Total)

	var replay CheckoutResponse
	require.Equal(t, http.StatusOK, do(t, srv, call{method: http.MethodPost, path: "/checkout?currency=VES",
		token: token, body: checkoutBody(), headers: idem}, &replay))
	assert.True(t, replay.Replayed)
	assert.Equal(t, order.ID, replay.Order.ID)

	assert.Equal(t, http.StatusBadRequest, do(t, srv, call{method: http.MethodPost, path: "/checkout",
		token: token, body: checkoutBody()}, &errResp))
	assert.Equal(t, "empty_cart", errResp.Error)

	var mine []OrderResponse
	require.Equal(t, http.StatusOK, do(t, srv, call{method: http.MethodGet, path: "/orders", token: token}, &mine))
	require.Len(t, mine, 1)

	var got OrderResponse
	require.Equal(t, http.StatusOK, do(t, srv, call{method: http.MethodGet, path: "/orders/" + order.ID, token: token}, &got))
	assert.Equal(t, order.ID, got.ID)

	// another customer cannot see it
	other := SessionResponse{}
	require.Equal(t, http.StatusCreated, do(t, srv, call{method: http.MethodPost, path: "/auth/register",
		body: RegisterRequest{Email: "eve@example.com", Password: "x", Name: "Eve"}}, &other))
	assert.Equal(t, http.StatusNotFound, do(t, srv, call{method: http.MethodGet, path: "/orders/" + order.ID,
		token: other.Token}, &errResp))
}

func TestAdmin(t *testing.T) {
	srv := newTestServer(t)
	customer := login(t, srv, "user@example.com", "")
	admin := login(t, srv, "admin@aurorabling.com", "")

	var c CartResponse
	two := 2
	require.Equal(t, http.StatusOK, do(t, srv, call{method: http.MethodPost, path: "/cart/items", token: customer,
		body: AddItemRequest{ProductID: "product-6", Quantity: &two}}, &c))
	var placed CheckoutResponse
	require.Equal(t, http.StatusCreated, do(t, srv, call{method: http.MethodPost, path: "/checkout", token: customer,
		body: checkoutBody()}, &placed))
	orderID := placed.Order.ID

	var errResp ErrorResponse
	assert.Equal(t, http.StatusUnauthorized, do(t, srv, call{method: http.MethodGet, path: "/admin/dashboard"}, &errResp))
	assert.Equal(t, http.StatusForbidden, do(t, srv, call{method: http.MethodGet, path: "/admin/dashboard", token: customer}, &errResp))

	var found []OrderResponse
	require.Equal(t, http.StatusOK, do(t, srv, call{method: http.MethodGet, path: "/admin/orders?q=john&status=pending", token: admin}, &found))
	require.Len(t, found, 1)
	assert.Equal(t, orderID, found[0].ID)
	assert.Equal(t, http.StatusBadRequest, do(t, srv, call{method: http.MethodGet, path: "/admin/orders?status=lost", token: admin}, &errResp))

	var updated OrderResponse
	require.Equal(t, http.StatusOK, do(t, srv, call{method: http.MethodPatch, path: "/admin/orders/" + orderID + "/status",
		token: admin, body: StatusUpdateRequest{Status: "shipped"}}, &updated))
	assert.Equal(t, domain.StatusShipped, updated.Status)
	assert.Equal(t, http.StatusNotFound, do(t, srv, call{method: http.MethodPatch, path: "/admin/orders/order-404/status",
		token: admin, body: StatusUpdateRequest{Status: "shipped"}}, &errResp))
	assert.Equal(t, http.StatusBadRequest, do(t, srv, call{method: http.MethodPatch, path: "/admin/orders/" + orderID + "/status",
		token: admin, body: StatusUpdateRequest{Status: "lost"}}, &errResp))

	var rep report.SalesReport
	require.Equal(t, http.StatusOK, do(t, srv, call{method: http.MethodGet, path: "/admin/reports/sales?period=weekly", token: admin}, &rep))
	assert.Equal(t, 1, rep.OrderCount)
	// 2 x 199.99 + 28.00 tax, free shipping
	assert.Equal(t, 427.98, rep.TotalSales)
	assert.Equal(t, 427.98, rep.SalesByStatus[domain.StatusShipped])
	assert.Equal(t, 427.98, rep.SalesByCurrency[currency.USD])
	assert.Len(t, rep.SalesByStatus, 5)
	assert.Equal(t, http.StatusBadRequest, do(t, srv, call{method: http.MethodGet, path: "/admin/reports/sales?period=yearly", token: admin}, &errResp))

	var dash struct {
		TotalProducts int             `json:"total_products"`
		TotalOrders   int             `json:"total_orders"`
		RevenueUSD    float64         `json:"revenue_usd"`
		RecentOrders  []OrderResponse `json:"recent_orders"`
	}
	require.Equal(t, http.StatusOK, do(t, srv, call{method: http.MethodGet, path: "/admin/dashboard", token: admin}, &dash))
	assert.Equal(t, 12, dash.TotalProducts)
	assert.Equal(t, 1, dash.TotalOrders)
	assert.Equal(t, 427.98, dash.RevenueUSD)
	require.Len(t, dash.RecentOrders, 1)
	assert.Equal(t, "$427.98", dash.RecentOrders[0].Display.Total)

	var history []sagalog.SagaLog
	require.Equal(t, http.StatusOK, do(t, srv, call{method: http.MethodGet, path: "/admin/orders/" + orderID + "/saga", token: admin}, &history))
	require.NotEmpty(t, history)
	assert.Equal(t, sagalog.StatusStarted, history[0].Status)
	assert.Equal(t, sagalog.StatusCompleted, history[len(history)-1].Status)

	var products []AdminProductResponse
	require.Equal(t, http.StatusOK, do(t, srv, call{method: http.MethodGet, path: "/admin/products?q=product-6", token: admin}, &products))
	require.Len(t, products, 1)
	assert.Equal(t, 8, products[0].Stock)
	assert.False(t, products[0].LowStock)
}
