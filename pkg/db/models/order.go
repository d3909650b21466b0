package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/procifarmed/storefront-api/pkg/enums"
)

// Order is a customer order created at checkout. Only Status and
// PaymentStatus change after creation.
type Order struct {
	ID                  uuid.UUID           `gorm:"column:id;type:uuid;primaryKey"`
	UserID              uuid.UUID           `gorm:"column:user_id;type:uuid;not null;index;uniqueIndex:orders_user_idempotency_key"`
	AddressID           uuid.UUID           `gorm:"column:address_id;type:uuid;not null"`
	Delivery            DeliveryAddress     `gorm:"embedded;embeddedPrefix:delivery_"`
	Status              enums.OrderStatus   `gorm:"column:status;type:text;not null;default:'pending_payment'"`
	PaymentStatus       enums.PaymentStatus `gorm:"column:payment_status;type:text;not null;default:'awaiting'"`
	PaymentMethod       enums.PaymentMethod `gorm:"column:payment_method;type:text;not null;default:'pix_manual'"`
	PaymentInstructions *string             `gorm:"column:payment_instructions"`
	SubtotalCents       int                 `gorm:"column:subtotal_cents;not null"`
	ShippingCents       int                 `gorm:"column:shipping_cents;not null;default:0"`
	TotalCents          int                 `gorm:"column:total_cents;not null"`
	IdempotencyKey      *string             `gorm:"column:idempotency_key;uniqueIndex:orders_user_idempotency_key"`
	Items               []OrderItem         `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt           time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt           time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

// DeliveryAddress is the address copied onto the order at checkout. It
// outlives edits and removal of the customer's address book entry.
type DeliveryAddress struct {
	RecipientName string  `gorm:"column:recipient_name;not null;default:''"`
	Phone         *string `gorm:"column:phone"`
	PostalCode    string  `gorm:"column:postal_code;not null;default:''"`
	Street        string  `gorm:"column:street;not null;default:''"`
	Number        string  `gorm:"column:number;not null;default:''"`
	Complement    *string `gorm:"column:complement"`
	Neighborhood  *string `gorm:"column:neighborhood"`
	City          string  `gorm:"column:city;not null;default:''"`
	State         string  `gorm:"column:state;not null;default:''"`
	Country       string  `gorm:"column:country;not null;default:'BR'"`
}

func (d DeliveryAddress) IsZero() bool {
	return d.RecipientName == "" && d.Street == "" && d.PostalCode == ""
}

func (o *Order) BeforeCreate(*gorm.DB) error {
	ensureID(&o.ID)
	return nil
}
