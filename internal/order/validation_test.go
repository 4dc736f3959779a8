package order

import (
	"testing"

	"github.com/google/uuid"
)

func TestValidateItems(t *testing.T) {
	tests := []struct {
		name      string
		items     []OrderItem
		prior     []OrderItem
		wantCount int
	}{
		{
			name:  "validList",
			items: []OrderItem{{Name: "Espresso", Price: 3.5, Qty: 1, Status: ItemStatusPreparing}},
		},
		{
			name:      "missingName",
			items:     []OrderItem{{Name: "  ", Price: 3.5, Qty: 1}},
			wantCount: 1,
		},
		{
			name:      "negativePrice",
			items:     []OrderItem{{Name: "Espresso", Price: -1, Qty: 1}},
			wantCount: 1,
		},
		{
			name:      "negativeQty",
			items:     []OrderItem{{Name: "Espresso", Price: 3.5, Qty: -1}},
			wantCount: 1,
		},
		{
			name:      "unknownStatus",
			items:     []OrderItem{{Name: "Espresso", Price: 3.5, Qty: 1, Status: "done"}},
			wantCount: 1,
		},
		{
			name:      "multipleFailuresReported",
			items:     []OrderItem{{Name: "", Price: -1, Qty: -1, Status: "done"}},
			wantCount: 4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ValidateItems(tt.items, tt.prior)
			if len(got) != tt.wantCount {
				t.Errorf("ValidateItems() yielded %d errors, want %d: %+v", len(got), tt.wantCount, got)
			}
		})
	}
}

func TestValidateItemsRejectsServedBackToPreparing(t *testing.T) {
	id := uuid.New()
	prior := []OrderItem{{ID: id, Name: "Espresso", Price: 3.5, Qty: 1, Status: ItemStatusServed}}
	incoming := []OrderItem{{ID: id, Name: "Espresso", Price: 3.5, Qty: 1, Status: ItemStatusPreparing}}

	got := ValidateItems(incoming, prior)
	if len(got) != 1 {
		t.Fatalf("ValidateItems() yielded %d errors, want 1: %+v", len(got), got)
	}
	if got[0].Field != "items[0].status" {
		t.Errorf("Field = %q, want items[0].status", got[0].Field)
	}
}

func TestValidateItemsAllowsServedToReady(t *testing.T) {
	id := uuid.New()
	prior := []OrderItem{{ID: id, Name: "Espresso", Price: 3.5, Qty: 1, Status: ItemStatusServed}}
	incoming := []OrderItem{{ID: id, Name: "Espresso", Price: 3.5, Qty: 1, Status: ItemStatusReady}}

	if got := ValidateItems(incoming, prior); len(got) != 0 {
		t.Errorf("ValidateItems() yielded %d errors, want 0: %+v", len(got), got)
	}
}
