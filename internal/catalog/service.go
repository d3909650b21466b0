package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/procifarmed/storefront-api/pkg/db/models"
	"github.com/procifarmed/storefront-api/pkg/enums"
	pkgerrors "github.com/procifarmed/storefront-api/pkg/errors"
)

// Service exposes the storefront catalog and its admin management.
type Service interface {
	ListActive(ctx context.Context, criteria Criteria) ([]ProductDTO, error)
	GetActive(ctx context.Context, id uuid.UUID) (*ProductDTO, error)
	Facets() Facets

	ListAll(ctx context.Context) ([]ProductDTO, error)
	CreateProduct(ctx context.Context, form ProductForm) (*ProductDTO, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, form ProductForm) (*ProductDTO, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) (*ProductDTO, error)
}

type productStore interface {
	ListActive(ctx context.Context, limit int) ([]models.Product, error)
	ListAll(ctx context.Context, limit int) ([]models.Product, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	FindActiveByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	Create(ctx context.Context, product *models.Product) error
	Update(ctx context.Context, product *models.Product) error
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
}

type service struct {
	repo productStore
	now  func() time.Time
}

// NewService constructs the catalog service.
func NewService(repo productStore) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	return &service{repo: repo, now: time.Now}, nil
}

func (s *service) ListActive(ctx context.Context, criteria Criteria) ([]ProductDTO, error) {
	products, err := s.repo.ListActive(ctx, ListLimit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	return newProductDTOs(Filter(products, criteria)), nil
}

func (s *service) GetActive(ctx context.Context, id uuid.UUID) (*ProductDTO, error) {
	product, err := s.repo.FindActiveByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "load product")
	}
	dto := NewProductDTO(*product)
	return &dto, nil
}

func (s *service) Facets() Facets {
	facets := Facets{}
	for _, c := range enums.ProductCategories() {
		facets.Categories = append(facets.Categories, c.String())
	}
	for _, p := range enums.ProductPurposes() {
		facets.Purposes = append(facets.Purposes, p.String())
	}
	return facets
}

func (s *service) ListAll(ctx context.Context) ([]ProductDTO, error) {
	products, err := s.repo.ListAll(ctx, ListLimit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	return newProductDTOs(products), nil
}

func (s *service) CreateProduct(ctx context.Context, form ProductForm) (*ProductDTO, error) {
	product := &models.Product{}
	if err := form.apply(product); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, product); err != nil {
		return nil, writeError(err, "create product")
	}
	dto := NewProductDTO(*product)
	return &dto, nil
}

func (s *service) UpdateProduct(ctx context.Context, id uuid.UUID, form ProductForm) (*ProductDTO, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "load product")
	}
	if err := form.apply(product); err != nil {
		return nil, err
	}
	product.UpdatedAt = s.now().UTC()
	if err := s.repo.Update(ctx, product); err != nil {
		return nil, writeError(err, "update product")
	}
	dto := NewProductDTO(*product)
	return &dto, nil
}

func (s *service) SetActive(ctx context.Context, id uuid.UUID, active bool) (*ProductDTO, error) {
	if err := s.repo.SetActive(ctx, id, active); err != nil {
		return nil, notFoundOr(err, "toggle product")
	}
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "load product")
	}
	dto := NewProductDTO(*product)
	return &dto, nil
}

func notFoundOr(err error, action string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, action)
}

func writeError(err error, action string) error {
	if typed := pkgerrors.As(err); typed != nil {
		return typed
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, action)
}
