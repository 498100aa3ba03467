package httpx

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/jcmexdev/aurora-storefront/internal/api-gateway/core/ports"
	"github.com/jcmexdev/aurora-storefront/internal/api-gateway/infra/httpx/middlewares"
	auth "github.com/jcmexdev/aurora-storefront/internal/auth/domain"
	carts "github.com/jcmexdev/aurora-storefront/internal/cart/domain"
	catalogapp "github.com/jcmexdev/aurora-storefront/internal/catalog/app"
	catalog "github.com/jcmexdev/aurora-storefront/internal/catalog/domain"
	"github.com/jcmexdev/aurora-storefront/internal/checkout"
	"github.com/jcmexdev/aurora-storefront/internal/currency"
	"github.com/jcmexdev/aurora-storefront/internal/i18n"
	"github.com/jcmexdev/aurora-storefront/internal/order/domain"
	orderapp "github.com/jcmexdev/aurora-storefront/internal/order/app"
	"github.com/jcmexdev/aurora-storefront/internal/payment"
)

// Handler serves the storefront and back-office HTTP API.
type Handler struct {
	auth      ports.AuthService
	catalog   ports.CatalogService
	carts     ports.CartService
	checkout  ports.CheckoutService
	orders    ports.OrderService
	methods   ports.PaymentMethods
	reports   ports.SalesReporter
	dashboard ports.DashboardService
	sagaLog   ports.SagaHistory
	converter *currency.Converter
}

// Deps groups the Handler's collaborators. SagaLog may be nil.
type Deps struct {
	Auth      ports.AuthService
	Catalog   ports.CatalogService
	Carts     ports.CartService
	Checkout  ports.CheckoutService
	Orders    ports.OrderService
	Methods   ports.PaymentMethods
	Reports   ports.SalesReporter
	Dashboard ports.DashboardService
	SagaLog   ports.SagaHistory
	Converter *currency.Converter
}

func NewHandler(d Deps) *Handler {
	return &Handler{
		auth:      d.Auth,
		catalog:   d.Catalog,
		carts:     d.Carts,
		checkout:  d.Checkout,
		orders:    d.Orders,
		methods:   d.Methods,
		reports:   d.Reports,
		dashboard: d.Dashboard,
		sagaLog:   d.SagaLog,
		converter: d.Converter,
	}
}

// view is the display preference of one request.
type view struct {
	lang     i18n.Language
	currency currency.Currency
}

// viewOf reads ?lang= (falling back to Accept-Language) and ?currency=.
func viewOf(r *http.Request) (view, error) {
	lang := r.URL.Query().Get("lang")
	if lang == "" {
		lang = r.Header.Get("Accept-Language")
	}
	cur, err := currency.Parse(r.URL.Query().Get("currency"))
	if err != nil {
		return view{}, err
	}
	return view{lang: i18n.Parse(lang), currency: cur}, nil
}

func (h *Handler) mapProduct(p catalog.Product, v view) ProductResponse {
	return ProductResponse{
		ID:           p.ID,
		Name:         p.Name.In(v.lang),
		Description:  p.Description.In(v.lang),
		PriceUSD:     p.PriceUSD,
		Price:        h.converter.Convert(p.PriceUSD, v.currency),
		PriceDisplay: h.converter.Format(p.PriceUSD, v.currency),
		Images:       p.Images,
		Category:     string(p.Category),
		Stock:        p.Stock,
		Featured:     p.Featured,
		Colors:       p.Colors,
		Sizes:        p.Sizes,
		CreatedAt:    p.CreatedAt,
	}
}

func (h *Handler) mapProducts(products []catalog.Product, v view) []ProductResponse {
	out := make([]ProductResponse, len(products))
	for i, p := range products {
		out[i] = h.mapProduct(p, v)
	}
	return out
}

func (h *Handler) display(t checkout.Totals, cur currency.Currency) TotalsDisplay {
	return TotalsDisplay{
		Subtotal: h.converter.Format(t.Subtotal, cur),
		Shipping: h.converter.Format(t.Shipping, cur),
		Tax:      h.converter.Format(t.Tax, cur),
		Total:    h.converter.Format(t.Total, cur),
	}
}

func (h *Handler) mapCart(c *carts.Cart, v view) CartResponse {
	items := make([]CartItemResponse, len(c.Items))
	for i, item := range c.Items {
		items[i] = CartItemResponse{
			Product:          h.mapProduct(item.Product, v),
			Quantity:         item.Quantity,
			LineTotal:        item.LineTotal(),
			LineTotalDisplay: h.converter.Format(item.LineTotal(), v.currency),
		}
	}
	totals := checkout.CalculateTotals(c.Subtotal())
	if c.IsEmpty() {
		totals = checkout.Totals{}
	}
	return CartResponse{
		Items:     items,
		ItemCount: c.ItemCount(),
		Currency:  v.currency,
		Totals:    totals,
		Display:   h.display(totals, v.currency),
	}
}

// mapOrder formats amounts in the currency the order was placed in.
func (h *Handler) mapOrder(o *domain.Order) OrderResponse {
	totals := checkout.Totals{Subtotal: o.Subtotal, Shipping: o.Shipping, Tax: o.Tax, Total: o.Total}
	return OrderResponse{Order: o, Display: h.display(totals, o.Currency)}
}

func (h *Handler) mapOrders(orders []*domain.Order) []OrderResponse {
	out := make([]OrderResponse, len(orders))
	for i, o := range orders {
		out[i] = h.mapOrder(o)
	}
	return out
}

func mapMethod(m payment.MethodInfo, lang i18n.Language) PaymentMethodResponse {
	return PaymentMethodResponse{
		Type:          m.Type,
		Name:          m.Name.In(lang),
		Instructions:  m.Instructions.In(lang),
		AccountInfo:   m.AccountInfo,
		RequiresProof: m.RequiresProof,
	}
}

func isLowStock(p catalog.Product) bool {
	return p.Stock < catalogapp.LowStockThreshold
}

// currentUserPtr returns nil for guests.
func currentUserPtr(r *http.Request) *auth.User {
	user, ok := middlewares.CurrentUser(r.Context())
	if !ok {
		return nil
	}
	return &user
}

func writeLog(r *http.Request, msg string, err error) {
	slog.WarnContext(r.Context(), msg,
		"request_id", middlewares.RequestID(r.Context()),
		"error", err,
	)
}

func decode(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, ErrorResponse{
		Error:   code,
		Message: msg,
	})
}

// writeStatus is the failure callback of the auth middlewares.
func writeStatus(w http.ResponseWriter, status int) {
	switch status {
	case http.StatusUnauthorized:
		writeError(w, status, "unauthenticated", "sign in required")
	case http.StatusForbidden:
		writeError(w, status, "forbidden", "admin role required")
	default:
		writeError(w, status, http.StatusText(status), "")
	}
}

// writeDomainError maps core errors onto HTTP statuses.
func writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *checkout.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation_failed",
			Message: "some fields are invalid",
			Fields:  verr.Fields,
		})
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "order_not_found", err.Error())
	case errors.Is(err, catalog.ErrProductNotFound):
		writeError(w, http.StatusNotFound, "product_not_found", err.Error())
	case errors.Is(err, catalog.ErrInsufficientStock):
		writeError(w, http.StatusConflict, "insufficient_stock", err.Error())
	case errors.Is(err, auth.ErrUserExists):
		writeError(w, http.StatusConflict, "user_exists", err.Error())
	case errors.Is(err, auth.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "invalid_credentials", err.Error())
	case errors.Is(err, checkout.ErrUnauthenticated):
		writeError(w, http.StatusUnauthorized, "unauthenticated", err.Error())
	case errors.Is(err, checkout.ErrEmptyCart):
		writeError(w, http.StatusBadRequest, "empty_cart", err.Error())
	case errors.Is(err, carts.ErrInvalidQuantity):
		writeError(w, http.StatusBadRequest, "invalid_quantity", err.Error())
	case errors.Is(err, domain.ErrInvalidStatus):
		writeError(w, http.StatusBadRequest, "invalid_status", err.Error())
	case errors.Is(err, orderapp.ErrMissingUser), errors.Is(err, orderapp.ErrEmptyItems):
		writeError(w, http.StatusBadRequest, "invalid_order", err.Error())
	default:
		slog.ErrorContext(r.Context(), "request failed",
			"request_id", middlewares.RequestID(r.Context()),
			"path", r.URL.Path,
			"error", err,
		)
		writeError(w, http.StatusInternalServerError, "internal_error", "")
	}
}
