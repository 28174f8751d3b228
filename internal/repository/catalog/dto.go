package catalog

import (
	"encoding/json"
	"fmt"

	"github.com/sweetstem/discovery/internal/domain"
)

// productDTO mirrors the denormalized catalog document written by the
// catalog-management process.
type productDTO struct {
	ID          string       `json:"id"`
	ShortCode   int          `json:"short_code"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	BasePrice   float64      `json:"base_price"`
	Active      bool         `json:"active"`
	Options     []optionDTO  `json:"options,omitempty"`
	Ingredients []string     `json:"ingredients,omitempty"`
	Addons      []addonDTO   `json:"addons,omitempty"`
	Categories  []categoryDTO `json:"categories,omitempty"`
	Embedding   []float32    `json:"embedding,omitempty"`
}

type optionDTO struct {
	ID       string  `json:"id"`
	Name     string  `json:"option_name"`
	Price    float64 `json:"price"`
	ImageURL string  `json:"image_url,omitempty"`
}

type addonDTO struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

type categoryDTO struct {
	Name string `json:"name"`
}

func decodeProduct(data []byte) (domain.Product, error) {
	var dto productDTO
	if err := json.Unmarshal(data, &dto); err != nil {
		return domain.Product{}, fmt.Errorf("decode product: %w", err)
	}
	return dto.toDomain(), nil
}

func (d *productDTO) toDomain() domain.Product {
	p := domain.Product{
		ID:          domain.ProductID(d.ID),
		ShortCode:   d.ShortCode,
		Name:        d.Name,
		Description: d.Description,
		BasePrice:   d.BasePrice,
		Active:      d.Active,
		Ingredients: d.Ingredients,
		Embedding:   d.Embedding,
	}
	for _, o := range d.Options {
		p.Variants = append(p.Variants, domain.Variant{
			ID:       o.ID,
			Name:     o.Name,
			Price:    o.Price,
			ImageURL: o.ImageURL,
		})
	}
	for _, a := range d.Addons {
		p.Addons = append(p.Addons, domain.Addon{Name: a.Name, Price: a.Price})
	}
	for _, c := range d.Categories {
		p.Categories = append(p.Categories, c.Name)
	}
	return p
}
