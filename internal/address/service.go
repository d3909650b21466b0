// Package address manages the delivery address book used at checkout.
package address

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgerrors "github.com/procifarmed/storefront-api/pkg/errors"
)

// Service lists and edits a user's addresses.
type Service interface {
	List(ctx context.Context, userID uuid.UUID) (Book, error)
	Add(ctx context.Context, userID uuid.UUID, input CreateAddressInput) (*AddressDTO, error)
	SetDefault(ctx context.Context, userID, addressID uuid.UUID) (*AddressDTO, error)
	Remove(ctx context.Context, userID, addressID uuid.UUID) error
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type service struct {
	db   txRunner
	repo *Repository
}

// NewService constructs the address service.
func NewService(db txRunner, repo *Repository) (Service, error) {
	if db == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if repo == nil {
		return nil, fmt.Errorf("address repository required")
	}
	return &service{db: db, repo: repo}, nil
}

func (s *service) List(ctx context.Context, userID uuid.UUID) (Book, error) {
	rows, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return Book{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list addresses")
	}
	return NewBook(fromModels(rows)), nil
}

// Add stores a new address; the first address of a user becomes the default.
func (s *service) Add(ctx context.Context, userID uuid.UUID, input CreateAddressInput) (*AddressDTO, error) {
	row, missing := input.toModel(userID)
	if len(missing) > 0 {
		details := map[string]string{}
		for _, field := range missing {
			details[field] = "is required"
		}
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "validation failed").WithDetails(details)
	}

	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		count, err := repo.CountByUser(ctx, userID)
		if err != nil {
			return err
		}
		row.IsDefault = count == 0
		return repo.Create(ctx, row)
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create address")
	}
	dto := FromModel(*row)
	return &dto, nil
}

func (s *service) SetDefault(ctx context.Context, userID, addressID uuid.UUID) (*AddressDTO, error) {
	var updated AddressDTO
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		row, err := repo.FindOwned(ctx, userID, addressID)
		if err != nil {
			return err
		}
		if !row.IsDefault {
			if err := repo.ClearDefault(ctx, userID); err != nil {
				return err
			}
			if err := repo.MarkDefault(ctx, row.ID); err != nil {
				return err
			}
			row.IsDefault = true
		}
		updated = FromModel(*row)
		return nil
	})
	if err != nil {
		return nil, mapErr(err, "set default address")
	}
	return &updated, nil
}

// Remove deletes an address. When it was the default, the newest remaining
// address takes over so the user keeps exactly one default.
func (s *service) Remove(ctx context.Context, userID, addressID uuid.UUID) error {
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		row, err := repo.FindOwned(ctx, userID, addressID)
		if err != nil {
			return err
		}
		if err := repo.Delete(ctx, row.ID); err != nil {
			return err
		}
		if !row.IsDefault {
			return nil
		}
		next, err := repo.Newest(ctx, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}
		return repo.MarkDefault(ctx, next.ID)
	})
	return mapErr(err, "remove address")
}

func mapErr(err error, action string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "address not found")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, action)
}
