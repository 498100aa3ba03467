package httpx

import (
	"time"

	auth "github.com/jcmexdev/aurora-storefront/internal/auth/domain"
	"github.com/jcmexdev/aurora-storefront/internal/checkout"
	"github.com/jcmexdev/aurora-storefront/internal/currency"
	"github.com/jcmexdev/aurora-storefront/internal/order/domain"
	"github.com/jcmexdev/aurora-storefront/internal/payment"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type SessionResponse struct {
	Token string    `json:"token"`
	User  auth.User `json:"user"`
}

type ProductResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	PriceUSD     float64   `json:"price_usd"`
	Price        float64   `json:"price"`
	PriceDisplay string    `json:"price_display"`
	Images       []string  `json:"images"`
	Category     string    `json:"category"`
	Stock        int       `json:"stock"`
	Featured     bool      `json:"featured"`
	Colors       []string  `json:"colors,omitempty"`
	Sizes        []string  `json:"sizes,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

type AddItemRequest struct {
	ProductID string `json:"product_id"`
	// Quantity defaults to 1.
	Quantity *int `json:"quantity"`
}

type UpdateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

type CartItemResponse struct {
	Product          ProductResponse `json:"product"`
	Quantity         int             `json:"quantity"`
	LineTotal        float64         `json:"line_total"`
	LineTotalDisplay string          `json:"line_total_display"`
}

// TotalsDisplay holds formatted amounts in the requested currency.
type TotalsDisplay struct {
	Subtotal string `json:"subtotal"`
	Shipping string `json:"shipping"`
	Tax      string `json:"tax"`
	Total    string `json:"total"`
}

type CartResponse struct {
	Items     []CartItemResponse `json:"items"`
	ItemCount int                `json:"item_count"`
	Currency  currency.Currency  `json:"currency"`
	checkout.Totals
	Display TotalsDisplay `json:"display"`
}

type PaymentMethodResponse struct {
	Type          payment.MethodType `json:"type"`
	Name          string             `json:"name"`
	Instructions  string             `json:"instructions"`
	AccountInfo   string             `json:"account_info,omitempty"`
	RequiresProof bool               `json:"requires_proof"`
}

type CheckoutRequest struct {
	ShippingInfo domain.ShippingInfo `json:"shipping_info"`
	PaymentInfo  payment.Info        `json:"payment_info"`
}

type OrderResponse struct {
	*domain.Order
	Display TotalsDisplay `json:"display"`
}

type CheckoutResponse struct {
	Order    OrderResponse `json:"order"`
	Replayed bool          `json:"replayed"`
}

type StatusUpdateRequest struct {
	Status string `json:"status"`
}

type AdminProductResponse struct {
	ProductResponse
	LowStock bool `json:"low_stock"`
}

type ErrorResponse struct {
	Error   string               `json:"error"`
	Message string               `json:"message,omitempty"`
	Fields  checkout.FieldErrors `json:"fields,omitempty"`
}
