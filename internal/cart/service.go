package cart

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/procifarmed/storefront-api/pkg/db/models"
	pkgerrors "github.com/procifarmed/storefront-api/pkg/errors"
	"github.com/procifarmed/storefront-api/pkg/logger"
)

// MaxLineQuantity bounds a single line so subtotals stay far from overflow.
const MaxLineQuantity = 999

type productLoader interface {
	FindActiveByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

// Service loads and mutates carts, persisting after every change.
type Service interface {
	Get(ctx context.Context, token string) (*Cart, error)
	AddItem(ctx context.Context, token string, productID uuid.UUID, qty int) (*Cart, error)
	SetQuantity(ctx context.Context, token string, productID uuid.UUID, qty int) (*Cart, error)
	RemoveItem(ctx context.Context, token string, productID uuid.UUID) (*Cart, error)
	Clear(ctx context.Context, token string) error
}

type service struct {
	storage  Storage
	products productLoader
	logg     *logger.Logger
}

// NewService builds the cart service.
func NewService(storage Storage, products productLoader, logg *logger.Logger) (Service, error) {
	if storage == nil {
		return nil, fmt.Errorf("cart storage required")
	}
	if products == nil {
		return nil, fmt.Errorf("product loader required")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &service{storage: storage, products: products, logg: logg}, nil
}

// Get rehydrates the cart. Missing or corrupt data yields an empty cart.
func (s *service) Get(ctx context.Context, token string) (*Cart, error) {
	if err := checkToken(token); err != nil {
		return nil, err
	}
	items, err := s.storage.Load(ctx, token)
	if err != nil {
		if errors.Is(err, ErrCorrupt) {
			s.logg.Warn(s.logg.WithFields(ctx, map[string]any{"cart_token": token, "error": err.Error()}), "cart.corrupt_discarded")
			return New(token), nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	return Restore(token, items), nil
}

func (s *service) AddItem(ctx context.Context, token string, productID uuid.UUID, qty int) (*Cart, error) {
	if qty > MaxLineQuantity {
		return nil, quantityError(qty)
	}
	product, err := s.products.FindActiveByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	c, err := s.Get(ctx, token)
	if err != nil {
		return nil, err
	}
	c.Add(*product, qty)
	if err := checkLines(c); err != nil {
		return nil, err
	}
	return c, s.save(ctx, c)
}

func (s *service) SetQuantity(ctx context.Context, token string, productID uuid.UUID, qty int) (*Cart, error) {
	if qty > MaxLineQuantity {
		return nil, quantityError(qty)
	}
	c, err := s.Get(ctx, token)
	if err != nil {
		return nil, err
	}
	if !c.SetQuantity(productID, qty) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "item not in cart")
	}
	return c, s.save(ctx, c)
}

func (s *service) RemoveItem(ctx context.Context, token string, productID uuid.UUID) (*Cart, error) {
	c, err := s.Get(ctx, token)
	if err != nil {
		return nil, err
	}
	c.Remove(productID)
	return c, s.save(ctx, c)
}

func (s *service) Clear(ctx context.Context, token string) error {
	if err := checkToken(token); err != nil {
		return err
	}
	if err := s.storage.Delete(ctx, token); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart")
	}
	return nil
}

func (s *service) save(ctx context.Context, c *Cart) error {
	if c.IsEmpty() {
		if err := s.storage.Delete(ctx, c.Token()); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save cart")
		}
		return nil
	}
	if err := s.storage.Save(ctx, c.Token(), c.Items()); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save cart")
	}
	return nil
}

func checkToken(token string) error {
	if !ValidToken(token) {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid cart token").
			WithDetails(map[string]any{"header": TokenHeader})
	}
	return nil
}

func checkLines(c *Cart) error {
	for _, item := range c.Items() {
		if item.Quantity > MaxLineQuantity {
			return quantityError(item.Quantity)
		}
	}
	return nil
}

func quantityError(qty int) error {
	return pkgerrors.New(pkgerrors.CodeValidation, "quantity too large").
		WithDetails(map[string]any{"field": "quantity", "max": MaxLineQuantity, "value": qty})
}

// TokenHeader carries the cart token on requests and responses.
const TokenHeader = "X-Cart-Token"

// NewToken mints an opaque cart token.
func NewToken() string {
	return uuid.NewString()
}

// ValidToken reports whether the token has the shape NewToken produces.
func ValidToken(token string) bool {
	token = strings.TrimSpace(token)
	if token == "" {
		return false
	}
	_, err := uuid.Parse(token)
	return err == nil
}
