// Package domain holds the order record and its repository port.
package domain

import (
	"context"
	"errors"
	"fmt"
	"time"

	cart "github.com/jcmexdev/aurora-storefront/internal/cart/domain"
	"github.com/jcmexdev/aurora-storefront/internal/currency"
	"github.com/jcmexdev/aurora-storefront/internal/i18n"
	"github.com/jcmexdev/aurora-storefront/internal/payment"
)

var (
	ErrNotFound      = errors.New("order not found")
	ErrInvalidStatus = errors.New("invalid order status")
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusShipped    Status = "shipped"
	StatusDelivered  Status = "delivered"
	StatusCancelled  Status = "cancelled"
)

// Statuses lists every status in lifecycle order.
func Statuses() []Status {
	return []Status{StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled}
}

func (s Status) Valid() bool {
	for _, known := range Statuses() {
		if s == known {
			return true
		}
	}
	return false
}

func ParseStatus(s string) (Status, error) {
	status := Status(s)
	if !status.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
	}
	return status, nil
}

// Customer is the user an order belongs to, copied at submission.
type Customer struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

type ShippingInfo struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	City      string `json:"city"`
	State     string `json:"state"`
	Zip       string `json:"zip"`
	Country   string `json:"country"`
}

// FullName joins first and last name.
func (s ShippingInfo) FullName() string {
	return s.FirstName + " " + s.LastName
}

// Order is append-only except for Status and UpdatedAt. Amounts are USD;
// Currency only records what the customer was shown.
type Order struct {
	ID             string            `json:"id"`
	Customer       Customer          `json:"customer"`
	Items          []cart.Item       `json:"items"`
	ShippingInfo   ShippingInfo      `json:"shipping_info"`
	PaymentInfo    payment.Info      `json:"payment_info"`
	Status         Status            `json:"status"`
	Currency       currency.Currency `json:"currency"`
	Subtotal       float64           `json:"subtotal"`
	Shipping       float64           `json:"shipping"`
	Tax            float64           `json:"tax"`
	Total          float64           `json:"total"`
	Language       i18n.Language     `json:"language"`
	IdempotencyKey string            `json:"idempotency_key,omitempty"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

// Clone returns a deep copy.
func (o *Order) Clone() *Order {
	if o == nil {
		return nil
	}
	out := *o
	out.Items = cart.CloneItems(o.Items)
	return &out
}

// Repository stores orders. Implementations return copies, never live records.
type Repository interface {
	Append(ctx context.Context, order *Order) error
	Get(ctx context.Context, id string) (*Order, error)
	// List returns every order, newest first.
	List(ctx context.Context) ([]*Order, error)
	// UpdateStatus sets the status and moves UpdatedAt forward to updatedAt.
	// UpdatedAt never goes backwards.
	UpdateStatus(ctx context.Context, id string, status Status, updatedAt time.Time) (*Order, error)
}

// Touch returns the later of prior and now.
func Touch(prior, now time.Time) time.Time {
	if now.Before(prior) {
		return prior
	}
	return now
}

// Less orders newest first: CreatedAt descending, then ID descending.
func Less(a, b *Order) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return a.ID > b.ID
}
