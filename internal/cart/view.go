package cart

import (
	"github.com/google/uuid"

	"github.com/procifarmed/storefront-api/pkg/money"
)

// ItemView is a cart line as returned to clients.
type ItemView struct {
	ProductID      uuid.UUID `json:"product_id"`
	SKU            string    `json:"sku"`
	Name           string    `json:"name"`
	ImageURL       string    `json:"image_url,omitempty"`
	Quantity       int       `json:"quantity"`
	UnitPriceCents int       `json:"unit_price_cents"`
	UnitPriceLabel string    `json:"unit_price_label"`
	LineTotalCents int       `json:"line_total_cents"`
	LineTotalLabel string    `json:"line_total_label"`
}

// View is the cart response payload.
type View struct {
	Token         string     `json:"token"`
	Items         []ItemView `json:"items"`
	Count         int        `json:"count"`
	SubtotalCents int        `json:"subtotal_cents"`
	SubtotalLabel string     `json:"subtotal_label"`
}

// NewView renders the cart.
func NewView(c *Cart) View {
	items := c.Items()
	views := make([]ItemView, 0, len(items))
	for _, item := range items {
		views = append(views, ItemView{
			ProductID:      item.ProductID,
			SKU:            item.SKU,
			Name:           item.Name,
			ImageURL:       item.ImageURL,
			Quantity:       item.Quantity,
			UnitPriceCents: item.UnitPriceCents,
			UnitPriceLabel: money.FormatBRL(item.UnitPriceCents),
			LineTotalCents: item.LineTotalCents(),
			LineTotalLabel: money.FormatBRL(item.LineTotalCents()),
		})
	}
	return View{
		Token:         c.Token(),
		Items:         views,
		Count:         c.Count(),
		SubtotalCents: c.SubtotalCents(),
		SubtotalLabel: money.FormatBRL(c.SubtotalCents()),
	}
}
