package profiles

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/procifarmed/storefront-api/pkg/db/models"
)

// Repository persists user profiles.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a profile repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// Ensure creates the profile for the user when missing and returns the
// stored row. Concurrent callers converge on the same row through the
// unique user_id constraint.
func (r *Repository) Ensure(ctx context.Context, userID uuid.UUID, fullName *string) (*models.Profile, error) {
	candidate := &models.Profile{UserID: userID, FullName: fullName}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoNothing: true,
		}).
		Create(candidate).Error
	if err != nil {
		return nil, err
	}
	return r.FindByUserID(ctx, userID)
}

// FindByUserID loads the profile owned by the user.
func (r *Repository) FindByUserID(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	var profile models.Profile
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// UpdateContact overwrites the editable profile fields.
func (r *Repository) UpdateContact(ctx context.Context, userID uuid.UUID, fullName, phone *string) error {
	result := r.db.WithContext(ctx).
		Model(&models.Profile{}).
		Where("user_id = ?", userID).
		Updates(map[string]any{"full_name": fullName, "phone": phone})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
