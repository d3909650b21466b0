package address

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/procifarmed/storefront-api/pkg/db/models"
)

const (
	defaultLabel   = "Entrega"
	defaultCountry = "BR"
)

// AddressDTO is the delivery address payload returned to clients.
type AddressDTO struct {
	ID            uuid.UUID `json:"id"`
	Label         string    `json:"label"`
	RecipientName string    `json:"recipient_name"`
	Phone         *string   `json:"phone"`
	PostalCode    string    `json:"postal_code"`
	Street        string    `json:"street"`
	Number        string    `json:"number"`
	Complement    *string   `json:"complement"`
	Neighborhood  *string   `json:"neighborhood"`
	City          string    `json:"city"`
	State         string    `json:"state"`
	Country       string    `json:"country"`
	IsDefault     bool      `json:"is_default"`
	CreatedAt     time.Time `json:"created_at"`
}

// CreateAddressInput is the add-address form.
type CreateAddressInput struct {
	Label         string  `json:"label" validate:"omitempty,max=60"`
	RecipientName string  `json:"recipient_name" validate:"required,max=140"`
	Phone         *string `json:"phone,omitempty" validate:"omitempty,max=40"`
	PostalCode    string  `json:"postal_code" validate:"required,max=20"`
	Street        string  `json:"street" validate:"required,max=200"`
	Number        string  `json:"number" validate:"required,max=20"`
	Complement    *string `json:"complement,omitempty" validate:"omitempty,max=120"`
	Neighborhood  *string `json:"neighborhood,omitempty" validate:"omitempty,max=120"`
	City          string  `json:"city" validate:"required,max=120"`
	State         string  `json:"state" validate:"required,max=60"`
}

// Book is the address listing plus the checkout preselection.
type Book struct {
	Addresses  []AddressDTO `json:"addresses"`
	SelectedID *uuid.UUID   `json:"selected_id"`
}

// NewBook preselects the flagged default address, otherwise the first one.
func NewBook(addresses []AddressDTO) Book {
	book := Book{Addresses: addresses}
	if book.Addresses == nil {
		book.Addresses = []AddressDTO{}
	}
	for i := range addresses {
		if addresses[i].IsDefault {
			book.SelectedID = &addresses[i].ID
			return book
		}
	}
	if len(addresses) > 0 {
		book.SelectedID = &addresses[0].ID
	}
	return book
}

// FromModel maps a stored address.
func FromModel(a models.Address) AddressDTO {
	return AddressDTO{
		ID:            a.ID,
		Label:         a.Label,
		RecipientName: a.RecipientName,
		Phone:         a.Phone,
		PostalCode:    a.PostalCode,
		Street:        a.Street,
		Number:        a.Number,
		Complement:    a.Complement,
		Neighborhood:  a.Neighborhood,
		City:          a.City,
		State:         a.State,
		Country:       a.Country,
		IsDefault:     a.IsDefault,
		CreatedAt:     a.CreatedAt,
	}
}

func fromModels(rows []models.Address) []AddressDTO {
	out := make([]AddressDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, FromModel(row))
	}
	return out
}

// toModel trims the form and returns the names of required fields left blank.
func (in CreateAddressInput) toModel(userID uuid.UUID) (*models.Address, []string) {
	a := &models.Address{
		UserID:        userID,
		Label:         strings.TrimSpace(in.Label),
		RecipientName: strings.TrimSpace(in.RecipientName),
		Phone:         optional(in.Phone),
		PostalCode:    strings.TrimSpace(in.PostalCode),
		Street:        strings.TrimSpace(in.Street),
		Number:        strings.TrimSpace(in.Number),
		Complement:    optional(in.Complement),
		Neighborhood:  optional(in.Neighborhood),
		City:          strings.TrimSpace(in.City),
		State:         strings.TrimSpace(in.State),
		Country:       defaultCountry,
	}
	if a.Label == "" {
		a.Label = defaultLabel
	}

	var missing []string
	required := []struct {
		field string
		value string
	}{
		{"recipient_name", a.RecipientName},
		{"postal_code", a.PostalCode},
		{"street", a.Street},
		{"number", a.Number},
		{"city", a.City},
		{"state", a.State},
	}
	for _, r := range required {
		if r.value == "" {
			missing = append(missing, r.field)
		}
	}
	return a, missing
}

func optional(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
