package coordinator

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	catalog "github.com/jcmexdev/aurora-storefront/internal/catalog/domain"
	orderapp "github.com/jcmexdev/aurora-storefront/internal/order/app"
	"github.com/jcmexdev/aurora-storefront/internal/order/domain"
)

func traceAttrs(sagaID string) trace.SpanStartOption {
	return trace.WithAttributes(attribute.String("order.id", sagaID))
}

// StockReserver holds and returns catalog stock for an order.
type StockReserver interface {
	Reserve(ctx context.Context, orderID string, items []catalog.StockItem) error
	Release(ctx context.Context, orderID string) error
}

// OrderWriter creates orders and moves them between statuses.
type OrderWriter interface {
	CreateOrder(ctx context.Context, in orderapp.NewOrder) (*domain.Order, error)
	UpdateOrderStatus(ctx context.Context, id string, status domain.Status) (*domain.Order, error)
}

// --- ReserveStockStep ---

type ReserveStockStep struct {
	stock   StockReserver
	orderID string
	items   []catalog.StockItem
}

func NewReserveStockStep(stock StockReserver, orderID string, items []catalog.StockItem) *ReserveStockStep {
	return &ReserveStockStep{
		stock:   stock,
		orderID: orderID,
		items:   items,
	}
}

func (s *ReserveStockStep) Name() string { return "Reserve_Stock_Step" }

func (s *ReserveStockStep) Execute(ctx context.Context) error {
	if err := s.stock.Reserve(ctx, s.orderID, s.items); err != nil {
		return fmt.Errorf("reserve stock for order %s: %w", s.orderID, err)
	}
	return nil
}

func (s *ReserveStockStep) Compensate(ctx context.Context) error {
	return s.stock.Release(ctx, s.orderID)
}

// --- CreateOrderStep ---

type CreateOrderStep struct {
	orders OrderWriter
	input  orderapp.NewOrder
	order  *domain.Order
}

// NewCreateOrderStep is the constructor for CreateOrderStep
func NewCreateOrderStep(orders OrderWriter, input orderapp.NewOrder) *CreateOrderStep {
	return &CreateOrderStep{
		orders: orders,
		input:  input,
	}
}

func (s *CreateOrderStep) Name() string { return "Create_Order_Step" }

func (s *CreateOrderStep) Execute(ctx context.Context) error {
	order, err := s.orders.CreateOrder(ctx, s.input)
	if err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}
	s.order = order
	return nil
}

// Compensate cancels the order. Orders are never deleted.
func (s *CreateOrderStep) Compensate(ctx context.Context) error {
	if s.order == nil {
		return nil
	}
	_, err := s.orders.UpdateOrderStatus(ctx, s.order.ID, domain.StatusCancelled)
	return err
}

// Order returns the created order, or nil before a successful Execute.
func (s *CreateOrderStep) Order() *domain.Order {
	return s.order
}
