package catalog

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/procifarmed/storefront-api/pkg/db/models"
	"github.com/procifarmed/storefront-api/pkg/money"
)

const placeholderImage = "/placeholder.svg"

// ProductDTO is the product payload shared by the storefront and admin views.
type ProductDTO struct {
	ID               uuid.UUID `json:"id"`
	SKU              string    `json:"sku"`
	Name             string    `json:"name"`
	Category         string    `json:"category"`
	Purpose          string    `json:"purpose"`
	PriceCents       int       `json:"price_cents"`
	PriceLabel       string    `json:"price_label"`
	PriceInput       string    `json:"price_input"`
	ImageURL         string    `json:"image_url"`
	ImageAlt         string    `json:"image_alt"`
	ShortDescription string    `json:"short_description"`
	Description      string    `json:"description"`
	IsActive         bool      `json:"is_active"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// NewProductDTO maps a persisted product, filling display fallbacks for
// missing image data.
func NewProductDTO(p models.Product) ProductDTO {
	imageURL := placeholderImage
	if p.ImageURL != nil && strings.TrimSpace(*p.ImageURL) != "" {
		imageURL = *p.ImageURL
	}
	imageAlt := p.ImageAlt
	if strings.TrimSpace(imageAlt) == "" {
		imageAlt = p.Name
	}
	return ProductDTO{
		ID:               p.ID,
		SKU:              p.SKU,
		Name:             p.Name,
		Category:         p.Category,
		Purpose:          p.Purpose,
		PriceCents:       p.PriceCents,
		PriceLabel:       money.FormatBRL(p.PriceCents),
		PriceInput:       money.FormatCentsInput(p.PriceCents),
		ImageURL:         imageURL,
		ImageAlt:         imageAlt,
		ShortDescription: p.ShortDescription,
		Description:      p.Description,
		IsActive:         p.IsActive,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
}

func newProductDTOs(products []models.Product) []ProductDTO {
	out := make([]ProductDTO, 0, len(products))
	for _, p := range products {
		out = append(out, NewProductDTO(p))
	}
	return out
}

// Facets lists the curated filter values shown in the shop.
type Facets struct {
	Categories []string `json:"categories"`
	Purposes   []string `json:"purposes"`
}
