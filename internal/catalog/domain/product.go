package domain

import (
	"errors"
	"time"

	"github.com/jcmexdev/aurora-storefront/internal/i18n"
)

var (
	ErrProductNotFound   = errors.New("product not found")
	ErrInsufficientStock = errors.New("insufficient stock")
)

// Category is one of the six jewelry categories.
type Category string

const (
	CategoryNecklaces       Category = "necklaces"
	CategoryBracelets       Category = "bracelets"
	CategoryEarrings        Category = "earrings"
	CategoryRings           Category = "rings"
	CategoryHairAccessories Category = "hairAccessories"
	CategoryWatches         Category = "watches"
)

// Categories returns every category in display order.
func Categories() []Category {
	return []Category{
		CategoryNecklaces,
		CategoryBracelets,
		CategoryEarrings,
		CategoryRings,
		CategoryHairAccessories,
		CategoryWatches,
	}
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	for _, known := range Categories() {
		if c == known {
			return true
		}
	}
	return false
}

// Product is a catalog entry. Products are read-only once seeded except for
// Stock, which the catalog adjusts on reservation.
type Product struct {
	ID          string    `json:"id"`
	Name        i18n.Text `json:"name"`
	Description i18n.Text `json:"description"`
	PriceUSD    float64   `json:"price_usd"`
	Images      []string  `json:"images"`
	Category    Category  `json:"category"`
	Stock       int       `json:"stock"`
	CreatedAt   time.Time `json:"created_at"`
	Featured    bool      `json:"featured"`
	Colors      []string  `json:"colors,omitempty"`
	Sizes       []string  `json:"sizes,omitempty"`
}

// Clone returns a copy of p that shares no slices with it.
func (p Product) Clone() Product {
	p.Images = cloneStrings(p.Images)
	p.Colors = cloneStrings(p.Colors)
	p.Sizes = cloneStrings(p.Sizes)
	return p
}

// CategoryInfo describes a category tile.
type CategoryInfo struct {
	ID       Category `json:"id"`
	ImageURL string   `json:"image_url"`
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s...)
}
