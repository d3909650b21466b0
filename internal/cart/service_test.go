package cart

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/procifarmed/storefront-api/pkg/db/models"
	pkgerrors "github.com/procifarmed/storefront-api/pkg/errors"
)

type stubProducts struct {
	products map[uuid.UUID]models.Product
}

func (s stubProducts) FindActiveByID(_ context.Context, id uuid.UUID) (*models.Product, error) {
	p, ok := s.products[id]
	if !ok || !p.IsActive {
		return nil, gorm.ErrRecordNotFound
	}
	return &p, nil
}

func newServiceWith(t *testing.T, products ...models.Product) (Service, *MemoryStorage) {
	t.Helper()
	byID := map[uuid.UUID]models.Product{}
	for _, p := range products {
		byID[p.ID] = p
	}
	storage := NewMemoryStorage()
	svc, err := NewService(storage, stubProducts{products: byID}, nil)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, storage
}

func TestServicePersistsEveryMutation(t *testing.T) {
	ctx := context.Background()
	p := models.Product{ID: uuid.New(), Name: "Vitaminas", PriceCents: 8950, IsActive: true}
	svc, storage := newServiceWith(t, p)
	token := NewToken()

	if _, err := svc.AddItem(ctx, token, p.ID, 1); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := svc.AddItem(ctx, token, p.ID, 1); err != nil {
		t.Fatalf("add again: %v", err)
	}

	stored, err := storage.Load(ctx, token)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(stored) != 1 || stored[0].Quantity != 2 {
		t.Fatalf("expected persisted merged line, got %+v", stored)
	}

	c, err := svc.Get(ctx, token)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if c.SubtotalCents() != 17900 {
		t.Fatalf("expected subtotal 17900, got %d", c.SubtotalCents())
	}

	if _, err := svc.SetQuantity(ctx, token, p.ID, 0); err != nil {
		t.Fatalf("set quantity: %v", err)
	}
	if stored, _ := storage.Load(ctx, token); stored != nil {
		t.Fatalf("empty cart should be removed from storage, got %+v", stored)
	}
}

func TestServiceRejectsInactiveOrUnknownProduct(t *testing.T) {
	inactive := models.Product{ID: uuid.New(), PriceCents: 100, IsActive: false}
	svc, _ := newServiceWith(t, inactive)

	for _, id := range []uuid.UUID{inactive.ID, uuid.New()} {
		_, err := svc.AddItem(context.Background(), NewToken(), id, 1)
		if !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
			t.Fatalf("expected not found for %s, got %v", id, err)
		}
	}
}

func TestServiceCorruptStorageYieldsEmptyCart(t *testing.T) {
	svc, storage := newServiceWith(t)
	token := NewToken()
	storage.put(token, "garbage")

	c, err := svc.Get(context.Background(), token)
	if err != nil {
		t.Fatalf("corrupt data must not surface an error, got %v", err)
	}
	if !c.IsEmpty() {
		t.Fatal("expected empty cart")
	}
}

func TestServiceValidatesTokenAndQuantity(t *testing.T) {
	p := models.Product{ID: uuid.New(), PriceCents: 100, IsActive: true}
	svc, _ := newServiceWith(t, p)
	ctx := context.Background()

	if _, err := svc.Get(ctx, "not-a-token"); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error for bad token, got %v", err)
	}
	if _, err := svc.AddItem(ctx, NewToken(), p.ID, MaxLineQuantity+1); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error for quantity, got %v", err)
	}
	if _, err := svc.SetQuantity(ctx, NewToken(), p.ID, 2); !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found for missing line, got %v", err)
	}
}

func TestServiceClear(t *testing.T) {
	ctx := context.Background()
	p := models.Product{ID: uuid.New(), PriceCents: 100, IsActive: true}
	svc, _ := newServiceWith(t, p)
	token := NewToken()

	if _, err := svc.AddItem(ctx, token, p.ID, 3); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := svc.Clear(ctx, token); err != nil {
		t.Fatalf("clear: %v", err)
	}
	c, err := svc.Get(ctx, token)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !c.IsEmpty() {
		t.Fatal("expected empty cart after clear")
	}
}

func TestNewViewFormatsTotals(t *testing.T) {
	c := New("tok")
	c.Add(models.Product{ID: uuid.New(), Name: "Vitaminas", PriceCents: 8950}, 2)
	view := NewView(c)
	if view.SubtotalLabel != "R$ 179,00" || view.Count != 2 {
		t.Fatalf("unexpected view %+v", view)
	}
	if view.Items[0].LineTotalCents != 17900 || view.Items[0].UnitPriceLabel != "R$ 89,50" {
		t.Fatalf("unexpected line %+v", view.Items[0])
	}
}
