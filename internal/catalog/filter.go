package catalog

import (
	"strings"

	"github.com/procifarmed/storefront-api/pkg/db/models"
	"github.com/procifarmed/storefront-api/pkg/enums"
	"github.com/procifarmed/storefront-api/pkg/money"
)

// Criteria narrows a product listing. Zero values match everything.
type Criteria struct {
	Query    string
	Category string
	Purpose  string
	MinCents *int
	MaxCents *int
}

// NewCriteria builds criteria from raw shop filter input. Price bounds are
// reais and are ignored when they do not parse.
func NewCriteria(q, category, purpose, minReais, maxReais string) Criteria {
	c := Criteria{
		Query:    strings.ToLower(strings.TrimSpace(q)),
		Category: normalizeFacet(category),
		Purpose:  normalizeFacet(purpose),
	}
	if cents, ok := money.ParseReais(minReais); ok {
		c.MinCents = &cents
	}
	if cents, ok := money.ParseReais(maxReais); ok {
		c.MaxCents = &cents
	}
	return c
}

// Matches reports whether the product passes every criterion.
func (c Criteria) Matches(p models.Product) bool {
	if c.Query != "" {
		haystack := strings.ToLower(p.Name + " " + p.ShortDescription + " " + p.SKU)
		if !strings.Contains(haystack, c.Query) {
			return false
		}
	}
	if c.Category != "" && p.Category != c.Category {
		return false
	}
	if c.Purpose != "" && p.Purpose != c.Purpose {
		return false
	}
	if c.MinCents != nil && p.PriceCents < *c.MinCents {
		return false
	}
	if c.MaxCents != nil && p.PriceCents > *c.MaxCents {
		return false
	}
	return true
}

// Filter keeps the products matching the criteria, preserving order.
func Filter(products []models.Product, c Criteria) []models.Product {
	out := make([]models.Product, 0, len(products))
	for _, p := range products {
		if c.Matches(p) {
			out = append(out, p)
		}
	}
	return out
}

func normalizeFacet(value string) string {
	v := strings.TrimSpace(value)
	if v == "" || strings.EqualFold(v, enums.FilterAll) {
		return ""
	}
	return v
}
