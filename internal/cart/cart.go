// Package cart holds the shopping cart state and its persistence.
package cart

import (
	"github.com/google/uuid"

	"github.com/procifarmed/storefront-api/pkg/db/models"
)

// Item is one cart line: a product snapshot plus a quantity of at least one.
type Item struct {
	ProductID      uuid.UUID `json:"product_id"`
	SKU            string    `json:"sku"`
	Name           string    `json:"name"`
	UnitPriceCents int       `json:"unit_price_cents"`
	ImageURL       string    `json:"image_url,omitempty"`
	Quantity       int       `json:"quantity"`
}

// LineTotalCents is quantity times unit price.
func (i Item) LineTotalCents() int {
	return i.Quantity * i.UnitPriceCents
}

// Cart is the ordered set of lines for one cart token. Count and subtotal
// are derived from the lines on every read.
type Cart struct {
	token string
	items []Item
}

// New returns an empty cart for the token.
func New(token string) *Cart {
	return &Cart{token: token}
}

// Restore rebuilds a cart from stored lines, dropping lines that could not
// have been produced by the mutators.
func Restore(token string, items []Item) *Cart {
	c := New(token)
	for _, item := range items {
		if item.ProductID == uuid.Nil || item.Quantity < 1 {
			continue
		}
		if idx := c.index(item.ProductID); idx >= 0 {
			c.items[idx].Quantity += item.Quantity
			continue
		}
		c.items = append(c.items, item)
	}
	return c
}

// Token identifies the cart.
func (c *Cart) Token() string {
	return c.token
}

// Items returns a copy of the lines in insertion order.
func (c *Cart) Items() []Item {
	return append([]Item(nil), c.items...)
}

// Add merges qty units of the product into the cart. A quantity below one
// adds a single unit.
func (c *Cart) Add(product models.Product, qty int) {
	if qty < 1 {
		qty = 1
	}
	if idx := c.index(product.ID); idx >= 0 {
		c.items[idx].Quantity += qty
		return
	}
	item := Item{
		ProductID:      product.ID,
		SKU:            product.SKU,
		Name:           product.Name,
		UnitPriceCents: product.PriceCents,
		Quantity:       qty,
	}
	if product.ImageURL != nil {
		item.ImageURL = *product.ImageURL
	}
	c.items = append(c.items, item)
}

// Remove deletes the line for the product, if any.
func (c *Cart) Remove(productID uuid.UUID) {
	if idx := c.index(productID); idx >= 0 {
		c.items = append(c.items[:idx], c.items[idx+1:]...)
	}
}

// SetQuantity sets the line quantity exactly; q <= 0 removes the line.
// Reports whether a line for the product exists.
func (c *Cart) SetQuantity(productID uuid.UUID, q int) bool {
	idx := c.index(productID)
	if idx < 0 {
		return false
	}
	if q <= 0 {
		c.Remove(productID)
		return true
	}
	c.items[idx].Quantity = q
	return true
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.items = nil
}

// IsEmpty reports whether there are no lines.
func (c *Cart) IsEmpty() bool {
	return len(c.items) == 0
}

// Count is the total number of units.
func (c *Cart) Count() int {
	total := 0
	for _, item := range c.items {
		total += item.Quantity
	}
	return total
}

// SubtotalCents is the sum of every line total.
func (c *Cart) SubtotalCents() int {
	total := 0
	for _, item := range c.items {
		total += item.LineTotalCents()
	}
	return total
}

func (c *Cart) index(productID uuid.UUID) int {
	for i, item := range c.items {
		if item.ProductID == productID {
			return i
		}
	}
	return -1
}
