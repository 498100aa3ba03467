package app

import (
	_ "embed"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/jcmexdev/aurora-storefront/internal/catalog/domain"
	"github.com/jcmexdev/aurora-storefront/internal/i18n"
)

//go:embed seed/products.yaml
var defaultSeed []byte

const seedDateLayout = "2006-01-02"

type seedFile struct {
	Products   []seedProduct  `yaml:"products"`
	Categories []seedCategory `yaml:"categories"`
}

type seedProduct struct {
	ID          string    `yaml:"id"`
	Name        i18n.Text `yaml:"name"`
	Description i18n.Text `yaml:"description"`
	PriceUSD    float64   `yaml:"price_usd"`
	Images      []string  `yaml:"images"`
	Category    string    `yaml:"category"`
	Stock       int       `yaml:"stock"`
	CreatedAt   string    `yaml:"created_at"`
	Featured    bool      `yaml:"featured"`
	Colors      []string  `yaml:"colors"`
	Sizes       []string  `yaml:"sizes"`
}

type seedCategory struct {
	ID       string `yaml:"id"`
	ImageURL string `yaml:"image_url"`
}

// Seed is a parsed catalog seed.
type Seed struct {
	Products   []domain.Product
	Categories []domain.CategoryInfo
}

// LoadSeed parses a YAML seed and checks every product invariant.
func LoadSeed(data []byte) (Seed, error) {
	var file seedFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return Seed{}, fmt.Errorf("catalog: parse seed: %w", err)
	}

	seed := Seed{
		Products:   make([]domain.Product, 0, len(file.Products)),
		Categories: make([]domain.CategoryInfo, 0, len(file.Categories)),
	}
	for _, sp := range file.Products {
		p, err := sp.toDomain()
		if err != nil {
			return Seed{}, err
		}
		seed.Products = append(seed.Products, p)
	}
	for _, sc := range file.Categories {
		c := domain.Category(sc.ID)
		if !c.Valid() {
			return Seed{}, fmt.Errorf("catalog: seed category %q is unknown", sc.ID)
		}
		seed.Categories = append(seed.Categories, domain.CategoryInfo{ID: c, ImageURL: sc.ImageURL})
	}
	return seed, nil
}

// DefaultSeed returns the embedded storefront catalog.
func DefaultSeed() (Seed, error) {
	return LoadSeed(defaultSeed)
}

func (sp seedProduct) toDomain() (domain.Product, error) {
	if sp.ID == "" {
		return domain.Product{}, fmt.Errorf("catalog: seed product without id")
	}
	if sp.PriceUSD < 0 {
		return domain.Product{}, fmt.Errorf("catalog: product %s: negative price %v", sp.ID, sp.PriceUSD)
	}
	if len(sp.Images) == 0 {
		return domain.Product{}, fmt.Errorf("catalog: product %s: no images", sp.ID)
	}
	if sp.Stock < 0 {
		return domain.Product{}, fmt.Errorf("catalog: product %s: negative stock %d", sp.ID, sp.Stock)
	}
	category := domain.Category(sp.Category)
	if !category.Valid() {
		return domain.Product{}, fmt.Errorf("catalog: product %s: unknown category %q", sp.ID, sp.Category)
	}
	createdAt, err := time.Parse(seedDateLayout, sp.CreatedAt)
	if err != nil {
		return domain.Product{}, fmt.Errorf("catalog: product %s: created_at: %w", sp.ID, err)
	}

	return domain.Product{
		ID:          sp.ID,
		Name:        sp.Name,
		Description: sp.Description,
		PriceUSD:    sp.PriceUSD,
		Images:      sp.Images,
		Category:    category,
		Stock:       sp.Stock,
		CreatedAt:   createdAt,
		Featured:    sp.Featured,
		Colors:      sp.Colors,
		Sizes:       sp.Sizes,
	}, nil
}
