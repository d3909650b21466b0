package orders

import (
	"time"

	"github.com/google/uuid"

	"github.com/procifarmed/storefront-api/pkg/db/models"
	"github.com/procifarmed/storefront-api/pkg/enums"
	"github.com/procifarmed/storefront-api/pkg/money"
)

// ItemDTO is an order line snapshot.
type ItemDTO struct {
	ID             uuid.UUID  `json:"id"`
	ProductID      *uuid.UUID `json:"product_id"`
	ProductName    string     `json:"product_name"`
	UnitPriceCents int        `json:"unit_price_cents"`
	Quantity       int        `json:"quantity"`
	LineTotalCents int        `json:"line_total_cents"`
	UnitPriceLabel string     `json:"unit_price_label"`
	LineTotalLabel string     `json:"line_total_label"`
}

// DeliveryDTO is where the order ships, as captured at checkout.
type DeliveryDTO struct {
	RecipientName string  `json:"recipient_name"`
	Phone         *string `json:"phone"`
	PostalCode    string  `json:"postal_code"`
	Street        string  `json:"street"`
	Number        string  `json:"number"`
	Complement    *string `json:"complement"`
	Neighborhood  *string `json:"neighborhood"`
	City          string  `json:"city"`
	State         string  `json:"state"`
	Country       string  `json:"country"`
}

// OrderDTO is the order payload shared by the customer and admin views.
type OrderDTO struct {
	ID                  uuid.UUID           `json:"id"`
	UserID              uuid.UUID           `json:"user_id"`
	AddressID           uuid.UUID           `json:"address_id"`
	Delivery            *DeliveryDTO        `json:"delivery_address"`
	Status              enums.OrderStatus   `json:"status"`
	StatusLabel         string              `json:"status_label"`
	PaymentStatus       enums.PaymentStatus `json:"payment_status"`
	PaymentStatusLabel  string              `json:"payment_status_label"`
	PaymentMethod       enums.PaymentMethod `json:"payment_method"`
	PaymentInstructions *string             `json:"payment_instructions"`
	SubtotalCents       int                 `json:"subtotal_cents"`
	ShippingCents       int                 `json:"shipping_cents"`
	TotalCents          int                 `json:"total_cents"`
	TotalLabel          string              `json:"total_label"`
	Items               []ItemDTO           `json:"items,omitempty"`
	CreatedAt           time.Time           `json:"created_at"`
	UpdatedAt           time.Time           `json:"updated_at"`
}

// StatusOptions lists the admin select values with their labels.
type StatusOptions struct {
	Statuses        []Option `json:"statuses"`
	PaymentStatuses []Option `json:"payment_statuses"`
}

type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// FromModel maps a stored order; items are included when preloaded.
func FromModel(o models.Order) OrderDTO {
	dto := OrderDTO{
		ID:                  o.ID,
		UserID:              o.UserID,
		AddressID:           o.AddressID,
		Status:              o.Status,
		StatusLabel:         o.Status.Label(),
		PaymentStatus:       o.PaymentStatus,
		PaymentStatusLabel:  o.PaymentStatus.Label(),
		PaymentMethod:       o.PaymentMethod,
		PaymentInstructions: o.PaymentInstructions,
		SubtotalCents:       o.SubtotalCents,
		ShippingCents:       o.ShippingCents,
		TotalCents:          o.TotalCents,
		TotalLabel:          money.FormatBRL(o.TotalCents),
		CreatedAt:           o.CreatedAt,
		UpdatedAt:           o.UpdatedAt,
	}
	if d := o.Delivery; !d.IsZero() {
		dto.Delivery = &DeliveryDTO{
			RecipientName: d.RecipientName,
			Phone:         d.Phone,
			PostalCode:    d.PostalCode,
			Street:        d.Street,
			Number:        d.Number,
			Complement:    d.Complement,
			Neighborhood:  d.Neighborhood,
			City:          d.City,
			State:         d.State,
			Country:       d.Country,
		}
	}
	for _, item := range o.Items {
		line := item.UnitPriceCents * item.Quantity
		dto.Items = append(dto.Items, ItemDTO{
			ID:             item.ID,
			ProductID:      item.ProductID,
			ProductName:    item.ProductName,
			UnitPriceCents: item.UnitPriceCents,
			Quantity:       item.Quantity,
			LineTotalCents: line,
			UnitPriceLabel: money.FormatBRL(item.UnitPriceCents),
			LineTotalLabel: money.FormatBRL(line),
		})
	}
	return dto
}

func fromModels(rows []models.Order) []OrderDTO {
	out := make([]OrderDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, FromModel(row))
	}
	return out
}

// NewStatusOptions builds the labelled status lists.
func NewStatusOptions() StatusOptions {
	var opts StatusOptions
	for _, s := range enums.OrderStatuses() {
		opts.Statuses = append(opts.Statuses, Option{Value: s.String(), Label: s.Label()})
	}
	for _, p := range enums.PaymentStatuses() {
		opts.PaymentStatuses = append(opts.PaymentStatuses, Option{Value: p.String(), Label: p.Label()})
	}
	return opts
}
