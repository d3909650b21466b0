package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/procifarmed/storefront-api/pkg/enums"
)

// UserRole grants an application role to a user.
type UserRole struct {
	ID        uuid.UUID  `gorm:"column:id;type:uuid;primaryKey"`
	UserID    uuid.UUID  `gorm:"column:user_id;type:uuid;not null;uniqueIndex:idx_user_roles_user_role"`
	Role      enums.Role `gorm:"column:role;type:text;not null;uniqueIndex:idx_user_roles_user_role"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime"`
}

func (UserRole) TableName() string { return "user_roles" }

func (r *UserRole) BeforeCreate(*gorm.DB) error {
	ensureID(&r.ID)
	return nil
}
