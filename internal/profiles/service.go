// Package profiles manages the display profile attached to each user.
package profiles

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/procifarmed/storefront-api/pkg/db/models"
	pkgerrors "github.com/procifarmed/storefront-api/pkg/errors"
)

const (
	maxFullNameLen = 140
	maxPhoneLen    = 40
)

// ProfileDTO is the profile payload returned to clients.
type ProfileDTO struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	FullName  *string   `json:"full_name"`
	Phone     *string   `json:"phone"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FromModel maps a stored profile.
func FromModel(p *models.Profile) *ProfileDTO {
	if p == nil {
		return nil
	}
	return &ProfileDTO{
		ID:        p.ID,
		UserID:    p.UserID,
		FullName:  p.FullName,
		Phone:     p.Phone,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

// UpdateInput carries the editable profile fields. Blank values clear them.
type UpdateInput struct {
	FullName *string `json:"full_name"`
	Phone    *string `json:"phone"`
}

// Service reads, ensures and edits profiles.
type Service interface {
	Ensure(ctx context.Context, userID uuid.UUID, fullName *string) (*ProfileDTO, error)
	Get(ctx context.Context, userID uuid.UUID) (*ProfileDTO, error)
	Update(ctx context.Context, userID uuid.UUID, input UpdateInput) (*ProfileDTO, error)
}

type profileStore interface {
	Ensure(ctx context.Context, userID uuid.UUID, fullName *string) (*models.Profile, error)
	FindByUserID(ctx context.Context, userID uuid.UUID) (*models.Profile, error)
	UpdateContact(ctx context.Context, userID uuid.UUID, fullName, phone *string) error
}

type service struct {
	repo profileStore
}

// NewService constructs the profiles service.
func NewService(repo profileStore) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("profile repository required")
	}
	return &service{repo: repo}, nil
}

// Ensure creates-or-fetches the user's profile in one step.
func (s *service) Ensure(ctx context.Context, userID uuid.UUID, fullName *string) (*ProfileDTO, error) {
	profile, err := s.repo.Ensure(ctx, userID, clean(fullName, maxFullNameLen))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "ensure profile")
	}
	return FromModel(profile), nil
}

// Get returns the profile, creating it first when the user has none.
func (s *service) Get(ctx context.Context, userID uuid.UUID) (*ProfileDTO, error) {
	return s.Ensure(ctx, userID, nil)
}

func (s *service) Update(ctx context.Context, userID uuid.UUID, input UpdateInput) (*ProfileDTO, error) {
	if input.FullName != nil && len([]rune(strings.TrimSpace(*input.FullName))) > maxFullNameLen {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "validation failed").
			WithDetails(map[string]string{"full_name": fmt.Sprintf("must be at most %d characters", maxFullNameLen)})
	}
	if input.Phone != nil && len([]rune(strings.TrimSpace(*input.Phone))) > maxPhoneLen {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "validation failed").
			WithDetails(map[string]string{"phone": fmt.Sprintf("must be at most %d characters", maxPhoneLen)})
	}
	if _, err := s.repo.Ensure(ctx, userID, nil); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "ensure profile")
	}
	if err := s.repo.UpdateContact(ctx, userID, clean(input.FullName, maxFullNameLen), clean(input.Phone, maxPhoneLen)); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update profile")
	}
	profile, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load profile")
	}
	return FromModel(profile), nil
}

func clean(value *string, max int) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	if r := []rune(trimmed); len(r) > max {
		trimmed = string(r[:max])
	}
	return &trimmed
}
