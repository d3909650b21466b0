package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Product is a storefront catalog listing.
type Product struct {
	ID               uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	SKU              string    `gorm:"column:sku;not null;uniqueIndex:products_sku_key"`
	Name             string    `gorm:"column:name;not null"`
	Category         string    `gorm:"column:category;not null"`
	Purpose          string    `gorm:"column:purpose;not null"`
	PriceCents       int       `gorm:"column:price_cents;not null"`
	ImageURL         *string   `gorm:"column:image_url"`
	ImageAlt         string    `gorm:"column:image_alt;not null;default:''"`
	ShortDescription string    `gorm:"column:short_description;not null;default:''"`
	Description      string    `gorm:"column:description;not null;default:''"`
	IsActive         bool      `gorm:"column:is_active;not null"`
	CreatedAt        time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (p *Product) BeforeCreate(*gorm.DB) error {
	ensureID(&p.ID)
	return nil
}
