// Package checkout turns a session's cart into an order: it validates the
// shipping and payment details, prices the cart and runs the checkout saga.
package checkout

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	auth "github.com/jcmexdev/aurora-storefront/internal/auth/domain"
	cart "github.com/jcmexdev/aurora-storefront/internal/cart/domain"
	catalog "github.com/jcmexdev/aurora-storefront/internal/catalog/domain"
	"github.com/jcmexdev/aurora-storefront/internal/coordinator"
	"github.com/jcmexdev/aurora-storefront/internal/coordinator/sagalog"
	"github.com/jcmexdev/aurora-storefront/internal/currency"
	"github.com/jcmexdev/aurora-storefront/internal/i18n"
	orderapp "github.com/jcmexdev/aurora-storefront/internal/order/app"
	"github.com/jcmexdev/aurora-storefront/internal/order/domain"
	"github.com/jcmexdev/aurora-storefront/internal/payment"
	"github.com/jcmexdev/aurora-storefront/internal/pkg/cache"
)

var tracer = otel.Tracer("storefront/checkout")

// Carts is the cart store the checkout reads and takes ordered lines out of.
type Carts interface {
	Get(ctx context.Context, session string) (*cart.Cart, error)
	Subtract(ctx context.Context, session string, items []cart.Item) (*cart.Cart, error)
}

// Stock reserves inventory for the saga. Commit forgets a reservation once its
// order is placed, so it can no longer be released.
type Stock interface {
	coordinator.StockReserver
	Commit(ctx context.Context, orderID string)
}

// Orders creates and reads orders.
type Orders interface {
	coordinator.OrderWriter
	NextID() string
	GetOrderByID(ctx context.Context, id string) (*domain.Order, error)
}

// Request is one checkout submission.
type Request struct {
	// User is nil for guests.
	User           *auth.User
	Session        string
	ShippingInfo   domain.ShippingInfo
	PaymentInfo    payment.Info
	Currency       currency.Currency
	Language       i18n.Language
	IdempotencyKey string
}

// Result is the placed order. Replayed is true when the idempotency key
// matched an earlier submission and no new order was created.
type Result struct {
	Order    *domain.Order
	Totals   Totals
	Replayed bool
}

type Service struct {
	carts          Carts
	orders         Orders
	stock          Stock
	validator      *Validator
	idempotency    cache.Cache
	idempotencyTTL time.Duration
	sagaLog        sagalog.Repository

	// mu serializes submissions so a retried key cannot race its original.
	mu sync.Mutex
}

type Config struct {
	Carts          Carts
	Orders         Orders
	Stock          Stock
	Methods        *payment.Directory
	Idempotency    cache.Cache
	IdempotencyTTL time.Duration
	// SagaLog may be nil.
	SagaLog sagalog.Repository
}

func NewService(cfg Config) *Service {
	return &Service{
		carts:          cfg.Carts,
		orders:         cfg.Orders,
		stock:          cfg.Stock,
		validator:      NewValidator(cfg.Methods),
		idempotency:    cfg.Idempotency,
		idempotencyTTL: cfg.IdempotencyTTL,
		sagaLog:        cfg.SagaLog,
	}
}

// Validator exposes the field rules so callers can pre-validate forms.
func (s *Service) Validator() *Validator {
	return s.validator
}

// PlaceOrder validates the request, then reserves stock and creates the order
// as one saga, and finally takes the ordered lines out of the cart. Lines are
// only removed once the order holds them; anything added to the cart while the
// order was being placed stays in it.
func (s *Service) PlaceOrder(ctx context.Context, req Request) (Result, error) {
	ctx, span := tracer.Start(ctx, "checkout.PlaceOrder")
	defer span.End()

	if req.User == nil || req.User.ID == "" {
		return Result{}, ErrUnauthenticated
	}
	if !req.Currency.Valid() {
		req.Currency = currency.USD
	}
	if !req.Language.Valid() {
		req.Language = i18n.English
	}
	span.SetAttributes(
		attribute.String("user.id", req.User.ID),
		attribute.String("checkout.currency", string(req.Currency)),
	)

	s.mu.Lock()
	defer s.mu.Unlock()

	if replay, ok, err := s.replay(ctx, req); err != nil || ok {
		return replay, err
	}

	c, err := s.carts.Get(ctx, req.Session)
	if err != nil {
		return Result{}, fmt.Errorf("checkout: load cart: %w", err)
	}
	if c.IsEmpty() {
		return Result{}, ErrEmptyCart
	}

	proofAttached := strings.TrimSpace(req.PaymentInfo.ProofImageURL) != ""
	if fields := s.validator.Validate(req.ShippingInfo, req.PaymentInfo, proofAttached, req.Language); len(fields) > 0 {
		slog.DebugContext(ctx, "checkout rejected by validation", "fields", len(fields))
		return Result{}, &ValidationError{Fields: fields}
	}

	totals := CalculateTotals(c.Subtotal())
	orderID := s.orders.NextID()
	span.SetAttributes(attribute.String("order.id", orderID))

	ordered := c.Snapshot()
	input := orderapp.NewOrder{
		ID:             orderID,
		Customer:       domain.Customer{ID: req.User.ID, Email: req.User.Email, Name: req.User.Name},
		Items:          ordered,
		ShippingInfo:   req.ShippingInfo,
		PaymentInfo:    scrub(req.PaymentInfo),
		Currency:       req.Currency,
		Subtotal:       totals.Subtotal,
		Shipping:       totals.Shipping,
		Tax:            totals.Tax,
		Total:          totals.Total,
		Language:       req.Language,
		IdempotencyKey: req.IdempotencyKey,
	}
	create := coordinator.NewCreateOrderStep(s.orders, input)
	steps := []coordinator.Step{
		coordinator.NewReserveStockStep(s.stock, orderID, stockItems(ordered)),
		create,
	}

	saga := coordinator.NewOrchestrator(orderID, steps, s.sagaLog).WithPayload(payloadOf(input))
	if err := saga.Start(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "checkout saga failed")
		return Result{}, fmt.Errorf("checkout: place order: %w", err)
	}
	order := create.Order()
	s.stock.Commit(ctx, order.ID)

	s.remember(ctx, req, order.ID)

	// The order is durable at this point; a failed update leaves a stale cart
	// but must not fail the checkout.
	if _, err := s.carts.Subtract(ctx, req.Session, ordered); err != nil {
		slog.ErrorContext(ctx, "failed to remove ordered items from cart", "order_id", order.ID, "session", req.Session, "error", err)
	}

	slog.InfoContext(ctx, "order placed", "order_id", order.ID, "user_id", req.User.ID, "total", order.Total)
	return Result{Order: order, Totals: totals}, nil
}

// replay returns the order an earlier submission with the same key created.
func (s *Service) replay(ctx context.Context, req Request) (Result, bool, error) {
	if req.IdempotencyKey == "" || s.idempotency == nil {
		return Result{}, false, nil
	}
	orderID, err := s.idempotency.Get(ctx, s.idempotencyKey(req))
	if err != nil {
		return Result{}, false, fmt.Errorf("checkout: idempotency lookup: %w", err)
	}
	if orderID == "" {
		return Result{}, false, nil
	}

	order, err := s.orders.GetOrderByID(ctx, orderID)
	if err != nil {
		return Result{}, false, fmt.Errorf("checkout: replay %s: %w", orderID, err)
	}
	slog.InfoContext(ctx, "checkout replayed", "order_id", orderID, "user_id", req.User.ID)
	return Result{
		Order:    order,
		Totals:   Totals{Subtotal: order.Subtotal, Shipping: order.Shipping, Tax: order.Tax, Total: order.Total},
		Replayed: true,
	}, true, nil
}

func (s *Service) remember(ctx context.Context, req Request, orderID string) {
	if req.IdempotencyKey == "" || s.idempotency == nil {
		return
	}
	if err := s.idempotency.Set(ctx, s.idempotencyKey(req), orderID, s.idempotencyTTL); err != nil {
		slog.WarnContext(ctx, "failed to store idempotency key", "order_id", orderID, "error", err)
	}
}

// idempotencyKey scopes client keys per user.
func (s *Service) idempotencyKey(req Request) string {
	return s.idempotency.GenerateKey("idempotency", req.User.ID+":"+req.IdempotencyKey)
}

func stockItems(items []cart.Item) []catalog.StockItem {
	out := make([]catalog.StockItem, len(items))
	for i, item := range items {
		out[i] = catalog.StockItem{ProductID: item.Product.ID, Quantity: item.Quantity}
	}
	return out
}

// scrub drops the card security code and keeps the last four card digits.
func scrub(info payment.Info) payment.Info {
	info.CVV = ""
	if digits := stripSpaces(info.CardNumber); len(digits) > 4 {
		info.CardNumber = strings.Repeat("*", len(digits)-4) + digits[len(digits)-4:]
	}
	return info
}

func payloadOf(in orderapp.NewOrder) string {
	b, err := json.Marshal(struct {
		UserID   string            `json:"user_id"`
		Items    int               `json:"items"`
		Total    float64           `json:"total"`
		Currency currency.Currency `json:"currency"`
	}{in.Customer.ID, len(in.Items), in.Total, in.Currency})
	if err != nil {
		return ""
	}
	return string(b)
}
