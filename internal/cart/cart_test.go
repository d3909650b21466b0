package cart

import (
	"math/rand/v2"
	"testing"

	"github.com/google/uuid"

	"github.com/procifarmed/storefront-api/pkg/db/models"
)

func testProduct(price int) models.Product {
	return models.Product{ID: uuid.New(), SKU: "SKU-" + uuid.NewString()[:8], Name: "Produto", PriceCents: price}
}

func TestCartAddMergesQuantities(t *testing.T) {
	c := New(NewToken())
	p := testProduct(8950)

	c.Add(p, 1)
	c.Add(p, 1)

	items := c.Items()
	if len(items) != 1 {
		t.Fatalf("expected one merged line, got %d", len(items))
	}
	if items[0].Quantity != 2 {
		t.Fatalf("expected quantity 2, got %d", items[0].Quantity)
	}
	if c.Count() != 2 || c.SubtotalCents() != 17900 {
		t.Fatalf("unexpected totals count=%d subtotal=%d", c.Count(), c.SubtotalCents())
	}
}

func TestCartAddDefaultsToOneUnit(t *testing.T) {
	c := New(NewToken())
	c.Add(testProduct(100), 0)
	if c.Count() != 1 {
		t.Fatalf("expected one unit, got %d", c.Count())
	}
}

func TestCartSetQuantity(t *testing.T) {
	c := New(NewToken())
	a, b := testProduct(1000), testProduct(250)
	c.Add(a, 1)
	c.Add(b, 3)

	if !c.SetQuantity(a.ID, 5) {
		t.Fatal("expected existing line")
	}
	if c.SubtotalCents() != 5*1000+3*250 {
		t.Fatalf("unexpected subtotal %d", c.SubtotalCents())
	}

	if !c.SetQuantity(b.ID, 0) {
		t.Fatal("expected existing line")
	}
	if len(c.Items()) != 1 {
		t.Fatalf("quantity zero must remove the line, got %d lines", len(c.Items()))
	}

	if c.SetQuantity(uuid.New(), 2) {
		t.Fatal("unknown product must report missing")
	}
}

func TestCartRemoveAndClear(t *testing.T) {
	c := New(NewToken())
	a, b := testProduct(1000), testProduct(250)
	c.Add(a, 1)
	c.Add(b, 1)

	c.Remove(a.ID)
	items := c.Items()
	if len(items) != 1 || items[0].ProductID != b.ID {
		t.Fatalf("unexpected items after remove: %+v", items)
	}

	c.Clear()
	if !c.IsEmpty() || c.Count() != 0 || c.SubtotalCents() != 0 {
		t.Fatal("expected empty cart after clear")
	}
}

func TestCartItemsReturnsCopy(t *testing.T) {
	c := New(NewToken())
	c.Add(testProduct(1000), 1)
	items := c.Items()
	items[0].Quantity = 50
	if c.Count() != 1 {
		t.Fatal("mutating Items() must not change the cart")
	}
}

func TestRestoreDropsInvalidLinesAndMergesDuplicates(t *testing.T) {
	id := uuid.New()
	c := Restore("tok", []Item{
		{ProductID: id, UnitPriceCents: 100, Quantity: 1},
		{ProductID: uuid.Nil, UnitPriceCents: 100, Quantity: 1},
		{ProductID: uuid.New(), UnitPriceCents: 100, Quantity: 0},
		{ProductID: id, UnitPriceCents: 100, Quantity: 2},
	})
	items := c.Items()
	if len(items) != 1 || items[0].Quantity != 3 {
		t.Fatalf("unexpected restored items %+v", items)
	}
}

func TestCartRandomSequencesKeepTotalsConsistent(t *testing.T) {
	rng := rand.New(rand.NewPCG(20260105, 1))
	catalog := []models.Product{testProduct(8950), testProduct(3975), testProduct(4590), testProduct(1)}

	for run := 0; run < 200; run++ {
		c := New(NewToken())
		want := map[uuid.UUID]int{}

		for step := 0; step < 40; step++ {
			p := catalog[rng.IntN(len(catalog))]
			switch op := rng.IntN(4); op {
			case 0, 1:
				qty := rng.IntN(5) - 1
				c.Add(p, qty)
				want[p.ID] += max(qty, 1)
			case 2:
				c.Remove(p.ID)
				delete(want, p.ID)
			case 3:
				qty := rng.IntN(6) - 1
				_, exists := want[p.ID]
				if got := c.SetQuantity(p.ID, qty); got != exists {
					t.Fatalf("run %d step %d: SetQuantity reported %v for existing=%v", run, step, got, exists)
				}
				switch {
				case !exists:
				case qty <= 0:
					delete(want, p.ID)
				default:
					want[p.ID] = qty
				}
			}

			count, subtotal := 0, 0
			seen := map[uuid.UUID]bool{}
			for _, item := range c.Items() {
				if item.Quantity < 1 {
					t.Fatalf("run %d step %d: line with quantity %d", run, step, item.Quantity)
				}
				if seen[item.ProductID] {
					t.Fatalf("run %d step %d: duplicate line for %s", run, step, item.ProductID)
				}
				seen[item.ProductID] = true
				if want[item.ProductID] != item.Quantity {
					t.Fatalf("run %d step %d: quantity %d, expected %d", run, step, item.Quantity, want[item.ProductID])
				}
				count += item.Quantity
				subtotal += item.UnitPriceCents * item.Quantity
			}
			if len(seen) != len(want) {
				t.Fatalf("run %d step %d: %d lines, expected %d", run, step, len(seen), len(want))
			}
			if c.Count() != count || c.SubtotalCents() != subtotal {
				t.Fatalf("run %d step %d: count=%d subtotal=%d, recomputed %d/%d", run, step, c.Count(), c.SubtotalCents(), count, subtotal)
			}
			if c.IsEmpty() != (len(want) == 0) {
				t.Fatalf("run %d step %d: IsEmpty=%v with %d lines", run, step, c.IsEmpty(), len(want))
			}
		}
	}
}
