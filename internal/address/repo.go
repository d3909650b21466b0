package address

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/procifarmed/storefront-api/pkg/db/models"
)

// Repository persists delivery addresses.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds the repository to the provided gorm handle.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// ListByUser returns the default address first, then newest first.
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Address, error) {
	var rows []models.Address
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("is_default DESC").
		Order("created_at DESC").
		Find(&rows).Error
	return rows, err
}

// CountByUser counts the user's addresses.
func (r *Repository) CountByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Address{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

// FindOwned loads an address only when it belongs to userID.
func (r *Repository) FindOwned(ctx context.Context, userID, addressID uuid.UUID) (*models.Address, error) {
	var a models.Address
	if err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", addressID, userID).First(&a).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *Repository) Create(ctx context.Context, a *models.Address) error {
	return r.db.WithContext(ctx).Create(a).Error
}

// ClearDefault unflags every address of the user.
func (r *Repository) ClearDefault(ctx context.Context, userID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.Address{}).
		Where("user_id = ? AND is_default = ?", userID, true).
		Update("is_default", false).Error
}

func (r *Repository) MarkDefault(ctx context.Context, addressID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.Address{}).
		Where("id = ?", addressID).
		Update("is_default", true).Error
}

func (r *Repository) Delete(ctx context.Context, addressID uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Address{}, "id = ?", addressID).Error
}

// Newest returns the most recently created address of the user.
func (r *Repository) Newest(ctx context.Context, userID uuid.UUID) (*models.Address, error) {
	var a models.Address
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC").First(&a).Error; err != nil {
		return nil, err
	}
	return &a, nil
}
