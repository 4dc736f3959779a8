package order

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/brewnote/cafepos/internal/settings"
)

func TestRecalculateRollups(t *testing.T) {
	tests := []struct {
		name               string
		statuses           []string
		wantFood           string
		wantChef           string
		wantKitchenPrep    bool
		wantCompletedAtSet bool
	}{
		{
			name:            "emptyOrder",
			statuses:        nil,
			wantFood:        FoodStatusPreparing,
			wantChef:        ChefStatusPreparing,
			wantKitchenPrep: true,
		},
		{
			name:            "allPreparing",
			statuses:        []string{ItemStatusPreparing, ItemStatusPreparing},
			wantFood:        FoodStatusPreparing,
			wantChef:        ChefStatusPreparing,
			wantKitchenPrep: false,
		},
		{
			name:            "oneReadyAmongPreparing",
			statuses:        []string{ItemStatusPreparing, ItemStatusReady},
			wantFood:        FoodStatusReady,
			wantChef:        ChefStatusPreparing,
			wantKitchenPrep: false,
		},
		{
			name:            "servedButNotAll",
			statuses:        []string{ItemStatusServed, ItemStatusReady},
			wantFood:        FoodStatusReady,
			wantChef:        ChefStatusPreparing,
			wantKitchenPrep: true,
		},
		{
			name:               "allServed",
			statuses:           []string{ItemStatusServed, ItemStatusServed},
			wantFood:           FoodStatusServed,
			wantChef:           ChefStatusCompleted,
			wantKitchenPrep:    true,
			wantCompletedAtSet: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := NewOrder()
			for _, status := range tt.statuses {
				item := NewOrderItem()
				item.Name = "Espresso"
				item.Status = status
				o.Items = append(o.Items, *item)
			}

			o.Recalculate()

			if o.FoodStatus != tt.wantFood {
				t.Errorf("FoodStatus = %q, want %q", o.FoodStatus, tt.wantFood)
			}
			if o.ChefStatus != tt.wantChef {
				t.Errorf("ChefStatus = %q, want %q", o.ChefStatus, tt.wantChef)
			}
			if o.KitchenPrepared != tt.wantKitchenPrep {
				t.Errorf("KitchenPrepared = %v, want %v", o.KitchenPrepared, tt.wantKitchenPrep)
			}
			if (o.CompletedAt != nil) != tt.wantCompletedAtSet {
				t.Errorf("CompletedAt set = %v, want %v", o.CompletedAt != nil, tt.wantCompletedAtSet)
			}
		})
	}
}

func TestRecalculateCompletedAtIsMonotonic(t *testing.T) {
	o := NewOrder()
	item := NewOrderItem()
	item.Name = "Espresso"
	item.Status = ItemStatusServed
	o.Items = append(o.Items, *item)

	o.Recalculate()
	if o.CompletedAt == nil {
		t.Fatal("CompletedAt not set on full completion")
	}
	first := *o.CompletedAt

	// A later recompute over an already completed order must not move the
	// completion time.
	time.Sleep(2 * time.Millisecond)
	o.Recalculate()
	if !o.CompletedAt.Equal(first) {
		t.Errorf("CompletedAt moved from %v to %v", first, *o.CompletedAt)
	}
}

func TestReplaceItems(t *testing.T) {
	o := NewOrder()

	items := []OrderItem{
		{Name: "Espresso", Price: 3.5, Qty: 2, Status: ItemStatusPreparing},
		{Name: "Croissant", Price: 3.8, Qty: 0, Status: ItemStatusPreparing},
		{Name: "Latte", Price: 5, Qty: 1},
	}

	o.ReplaceItems(items)

	if len(o.Items) != 2 {
		t.Fatalf("kept %d items, want 2 (qty 0 dropped)", len(o.Items))
	}
	for i, item := range o.Items {
		if item.ID == uuid.Nil {
			t.Errorf("items[%d] missing id", i)
		}
		if item.Status == "" {
			t.Errorf("items[%d] missing status", i)
		}
		if item.CreatedAt.IsZero() {
			t.Errorf("items[%d] missing created at", i)
		}
	}
	if o.Items[1].Status != ItemStatusPreparing {
		t.Errorf("default status = %q, want preparing", o.Items[1].Status)
	}
}

func TestApplyTotals(t *testing.T) {
	o := NewOrder()
	o.ReplaceItems([]OrderItem{
		{Name: "Espresso", Price: 10, Qty: 2, Status: ItemStatusPreparing},
		{Name: "Toast", Price: 5, Qty: 1, Status: ItemStatusServed},
	})

	o.ApplyTotals(settings.TaxSettings{Enabled: true, Rate: 10})

	if o.Subtotal != 25 {
		t.Errorf("Subtotal = %v, want 25", o.Subtotal)
	}
	if o.Tax != 2.5 {
		t.Errorf("Tax = %v, want 2.5", o.Tax)
	}
	if o.TaxRate != 10 {
		t.Errorf("TaxRate = %v, want 10", o.TaxRate)
	}
	if o.Total != 27.5 {
		t.Errorf("Total = %v, want 27.5", o.Total)
	}
}

func TestApplyTotalsDisabledTaxZeroesRate(t *testing.T) {
	o := NewOrder()
	o.ReplaceItems([]OrderItem{{Name: "Espresso", Price: 10, Qty: 1}})

	o.ApplyTotals(settings.TaxSettings{Enabled: false, Rate: 21})

	if o.Tax != 0 {
		t.Errorf("Tax = %v, want 0", o.Tax)
	}
	if o.TaxRate != 0 {
		t.Errorf("TaxRate = %v, want 0 when disabled", o.TaxRate)
	}
	if o.Total != 10 {
		t.Errorf("Total = %v, want 10", o.Total)
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	o := NewOrder()
	o.Close()

	if o.Status != StatusClosed {
		t.Fatalf("Status = %q, want closed", o.Status)
	}
	if o.CompletedAt == nil {
		t.Fatal("CompletedAt not set on close")
	}
	first := *o.CompletedAt

	time.Sleep(2 * time.Millisecond)
	o.Close()
	if !o.CompletedAt.Equal(first) {
		t.Errorf("re-close moved CompletedAt from %v to %v", first, *o.CompletedAt)
	}
}

func TestPromoteUnit(t *testing.T) {
	t.Run("unknownItem", func(t *testing.T) {
		o := NewOrder()
		if _, err := o.PromoteUnit(uuid.New()); err != ErrNotFound {
			t.Errorf("err = %v, want ErrNotFound", err)
		}
	})

	t.Run("servedItemRefused", func(t *testing.T) {
		o := NewOrder()
		item := NewOrderItem()
		item.Name = "Espresso"
		item.Status = ItemStatusServed
		o.Items = append(o.Items, *item)

		_, err := o.PromoteUnit(item.ID)
		var transition *InvalidTransitionError
		if !errors.As(err, &transition) {
			t.Fatalf("err = %v, want InvalidTransitionError", err)
		}
	})

	t.Run("singleUnitFlips", func(t *testing.T) {
		o := NewOrder()
		item := NewOrderItem()
		item.Name = "Espresso"
		o.Items = append(o.Items, *item)

		promoted, err := o.PromoteUnit(item.ID)
		if err != nil {
			t.Fatalf("PromoteUnit() error = %v", err)
		}
		if promoted.ID != item.ID {
			t.Errorf("single unit got a new id")
		}
		if promoted.Status != ItemStatusReady {
			t.Errorf("Status = %q, want ready", promoted.Status)
		}
		if len(o.Items) != 1 {
			t.Errorf("len(Items) = %d, want 1", len(o.Items))
		}
	})

	t.Run("multiUnitSplits", func(t *testing.T) {
		o := NewOrder()
		item := NewOrderItem()
		item.Name = "Espresso"
		item.Qty = 3
		o.Items = append(o.Items, *item)

		promoted, err := o.PromoteUnit(item.ID)
		if err != nil {
			t.Fatalf("PromoteUnit() error = %v", err)
		}

		if len(o.Items) != 2 {
			t.Fatalf("len(Items) = %d, want 2", len(o.Items))
		}

		remainder := o.Item(item.ID)
		if remainder == nil || remainder.Qty != 2 {
			t.Fatalf("remainder qty = %v, want 2", remainder)
		}
		if remainder.Status != ItemStatusPreparing {
			t.Errorf("remainder status = %q, want preparing", remainder.Status)
		}

		if promoted.ID == item.ID {
			t.Error("fragment reused the original id")
		}
		if promoted.Qty != 1 {
			t.Errorf("fragment qty = %d, want 1", promoted.Qty)
		}
		if promoted.Status != ItemStatusReady {
			t.Errorf("fragment status = %q, want ready", promoted.Status)
		}
		if !promoted.CreatedAt.Equal(remainder.CreatedAt) {
			t.Error("fragment lost the original created at")
		}

		// Quantity across fragments still sums to what was ordered.
		total := 0
		for _, it := range o.Items {
			total += it.Qty
		}
		if total != 3 {
			t.Errorf("total qty = %d, want 3", total)
		}
	})
}
