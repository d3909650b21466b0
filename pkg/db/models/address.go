package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Address is a delivery address owned by a user.
type Address struct {
	ID            uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	UserID        uuid.UUID `gorm:"column:user_id;type:uuid;not null;index"`
	Label         string    `gorm:"column:label;not null;default:'Entrega'"`
	RecipientName string    `gorm:"column:recipient_name;not null"`
	Phone         *string   `gorm:"column:phone"`
	PostalCode    string    `gorm:"column:postal_code;not null"`
	Street        string    `gorm:"column:street;not null"`
	Number        string    `gorm:"column:number;not null"`
	Complement    *string   `gorm:"column:complement"`
	Neighborhood  *string   `gorm:"column:neighborhood"`
	City          string    `gorm:"column:city;not null"`
	State         string    `gorm:"column:state;not null"`
	Country       string    `gorm:"column:country;not null;default:'BR'"`
	IsDefault     bool      `gorm:"column:is_default;not null;default:false"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// Delivery copies the fields an order keeps about where it ships.
func (a Address) Delivery() DeliveryAddress {
	return DeliveryAddress{
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
	}
}

func (a *Address) BeforeCreate(*gorm.DB) error {
	ensureID(&a.ID)
	return nil
}
