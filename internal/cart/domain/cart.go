// Package domain holds the cart aggregate.
package domain

import (
	"errors"

	"github.com/shopspring/decimal"

	catalog "github.com/jcmexdev/aurora-storefront/internal/catalog/domain"
)

// MaxQuantity is the largest quantity one cart line may hold.
const MaxQuantity = 999

var ErrInvalidQuantity = errors.New("quantity must be between 1 and 999")

// Item is one cart line. The product is a copy taken when it was added.
type Item struct {
	Product  catalog.Product `json:"product"`
	Quantity int             `json:"quantity"`
}

// LineTotal is the unit price times the quantity, in USD.
func (i Item) LineTotal() float64 {
	return decimal.NewFromFloat(i.Product.PriceUSD).
		Mul(decimal.NewFromInt(int64(i.Quantity))).
		InexactFloat64()
}

// Cart maps products to quantities. Items keep insertion order for display;
// totals do not depend on it. The aggregate does not check stock.
type Cart struct {
	Items []Item `json:"items"`
}

// AddItem adds qty units of p, merging with an existing line.
func (c *Cart) AddItem(p catalog.Product, qty int) error {
	if qty < 1 || qty > MaxQuantity {
		return ErrInvalidQuantity
	}
	if i := c.indexOf(p.ID); i >= 0 {
		if c.Items[i].Quantity > MaxQuantity-qty {
			return ErrInvalidQuantity
		}
		c.Items[i].Quantity += qty
		return nil
	}
	c.Items = append(c.Items, Item{Product: p.Clone(), Quantity: qty})
	return nil
}

// RemoveItem drops the line for productID if present.
func (c *Cart) RemoveItem(productID string) {
	if i := c.indexOf(productID); i >= 0 {
		c.Items = append(c.Items[:i], c.Items[i+1:]...)
	}
}

// UpdateQuantity replaces the quantity of a line. A quantity of zero or less
// removes it. Unknown products are ignored.
func (c *Cart) UpdateQuantity(productID string, qty int) error {
	if qty <= 0 {
		c.RemoveItem(productID)
		return nil
	}
	if qty > MaxQuantity {
		return ErrInvalidQuantity
	}
	if i := c.indexOf(productID); i >= 0 {
		c.Items[i].Quantity = qty
	}
	return nil
}

// Subtract takes the quantities of items out of the cart and drops lines that
// reach zero. Lines added after items were captured are kept.
func (c *Cart) Subtract(items []Item) {
	for _, item := range items {
		i := c.indexOf(item.Product.ID)
		if i < 0 {
			continue
		}
		if c.Items[i].Quantity <= item.Quantity {
			c.RemoveItem(item.Product.ID)
			continue
		}
		c.Items[i].Quantity -= item.Quantity
	}
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.Items = nil
}

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// ItemCount is the sum of all quantities.
func (c *Cart) ItemCount() int {
	n := 0
	for _, item := range c.Items {
		n += item.Quantity
	}
	return n
}

// Subtotal is the sum of line totals in USD, rounded to cents.
func (c *Cart) Subtotal() float64 {
	sum := decimal.Zero
	for _, item := range c.Items {
		sum = sum.Add(decimal.NewFromFloat(item.Product.PriceUSD).Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return sum.Round(2).InexactFloat64()
}

// Snapshot returns a deep copy of the lines, detached from later mutation.
func (c *Cart) Snapshot() []Item {
	return CloneItems(c.Items)
}

// CloneItems deep-copies cart lines.
func CloneItems(items []Item) []Item {
	if items == nil {
		return nil
	}
	out := make([]Item, len(items))
	for i, item := range items {
		out[i] = Item{Product: item.Product.Clone(), Quantity: item.Quantity}
	}
	return out
}

func (c *Cart) indexOf(productID string) int {
	for i, item := range c.Items {
		if item.Product.ID == productID {
			return i
		}
	}
	return -1
}
