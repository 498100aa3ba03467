// Package app creates orders, reads them back and moves them through statuses.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	cart "github.com/jcmexdev/aurora-storefront/internal/cart/domain"
	"github.com/jcmexdev/aurora-storefront/internal/currency"
	"github.com/jcmexdev/aurora-storefront/internal/i18n"
	"github.com/jcmexdev/aurora-storefront/internal/order/domain"
	"github.com/jcmexdev/aurora-storefront/internal/payment"
)

var (
	ErrMissingUser  = errors.New("order requires an authenticated user")
	ErrEmptyItems   = errors.New("order requires at least one item")
	ErrInvalidInput = errors.New("invalid order input")
)

// NewOrder is everything the caller supplies. Status and timestamps are
// assigned by CreateOrder, and so is ID when left empty.
type NewOrder struct {
	ID             string
	Customer       domain.Customer
	Items          []cart.Item
	ShippingInfo   domain.ShippingInfo
	PaymentInfo    payment.Info
	Currency       currency.Currency
	Subtotal       float64
	Shipping       float64
	Tax            float64
	Total          float64
	Language       i18n.Language
	IdempotencyKey string
}

type Service struct {
	repo  domain.Repository
	now   func() time.Time
	newID func() string
}

type Option func(*Service)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithIDGenerator replaces the default time-ordered UUID ids.
func WithIDGenerator(newID func() string) Option {
	return func(s *Service) { s.newID = newID }
}

func NewService(repo domain.Repository, opts ...Option) *Service {
	s := &Service{repo: repo, now: time.Now, newID: newOrderID}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func newOrderID() string {
	return "order-" + uuid.Must(uuid.NewV7()).String()
}

// NextID returns a fresh order id, for callers that need it before the
// order exists.
func (s *Service) NextID() string {
	return s.newID()
}

// CreateOrder stores a pending order holding copies of the supplied items,
// shipping and payment details.
func (s *Service) CreateOrder(ctx context.Context, in NewOrder) (*domain.Order, error) {
	if in.Customer.ID == "" {
		return nil, ErrMissingUser
	}
	if len(in.Items) == 0 {
		return nil, ErrEmptyItems
	}
	if !in.Currency.Valid() {
		return nil, fmt.Errorf("%w: currency %q", ErrInvalidInput, in.Currency)
	}
	if !in.Language.Valid() {
		return nil, fmt.Errorf("%w: language %q", ErrInvalidInput, in.Language)
	}

	id := in.ID
	if id == "" {
		id = s.newID()
	}
	now := s.now().UTC()
	order := &domain.Order{
		ID:             id,
		Customer:       in.Customer,
		Items:          cart.CloneItems(in.Items),
		ShippingInfo:   in.ShippingInfo,
		PaymentInfo:    in.PaymentInfo,
		Status:         domain.StatusPending,
		Currency:       in.Currency,
		Subtotal:       in.Subtotal,
		Shipping:       in.Shipping,
		Tax:            in.Tax,
		Total:          in.Total,
		Language:       in.Language,
		IdempotencyKey: in.IdempotencyKey,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.repo.Append(ctx, order); err != nil {
		return nil, fmt.Errorf("order: create: %w", err)
	}

	slog.InfoContext(ctx, "order created",
		"order_id", order.ID,
		"user_id", order.Customer.ID,
		"total", order.Total,
		"currency", order.Currency,
	)
	return order.Clone(), nil
}

// GetOrderByID returns domain.ErrNotFound for unknown ids.
func (s *Service) GetOrderByID(ctx context.Context, id string) (*domain.Order, error) {
	order, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("order: get: %w", err)
	}
	return order, nil
}

// GetAllOrders returns a fresh newest-first list.
func (s *Service) GetAllOrders(ctx context.Context) ([]*domain.Order, error) {
	orders, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("order: list: %w", err)
	}
	return orders, nil
}

// GetUserOrders returns the user's orders, newest first.
func (s *Service) GetUserOrders(ctx context.Context, userID string) ([]*domain.Order, error) {
	return s.filter(ctx, func(o *domain.Order) bool { return o.Customer.ID == userID })
}

// UpdateOrderStatus accepts any transition between known statuses.
func (s *Service) UpdateOrderStatus(ctx context.Context, id string, status domain.Status) (*domain.Order, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("order: update %s: %w: %q", id, domain.ErrInvalidStatus, status)
	}
	order, err := s.repo.UpdateStatus(ctx, id, status, s.now().UTC())
	if err != nil {
		return nil, fmt.Errorf("order: update: %w", err)
	}

	slog.InfoContext(ctx, "order status updated", "order_id", id, "status", status)
	return order, nil
}

// SearchOrders matches term against the order id, customer name and email,
// case-insensitively. An empty status matches every status.
func (s *Service) SearchOrders(ctx context.Context, term string, status domain.Status) ([]*domain.Order, error) {
	term = strings.ToLower(strings.TrimSpace(term))
	return s.filter(ctx, func(o *domain.Order) bool {
		if status != "" && o.Status != status {
			return false
		}
		if term == "" {
			return true
		}
		return strings.Contains(strings.ToLower(o.ID), term) ||
			strings.Contains(strings.ToLower(o.Customer.Name), term) ||
			strings.Contains(strings.ToLower(o.Customer.Email), term)
	})
}

func (s *Service) filter(ctx context.Context, keep func(*domain.Order) bool) ([]*domain.Order, error) {
	orders, err := s.GetAllOrders(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*domain.Order, 0, len(orders))
	for _, o := range orders {
		if keep(o) {
			out = append(out, o)
		}
	}
	return out, nil
}
