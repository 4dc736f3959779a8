package order

import (
	"errors"
	"testing"
)

func TestOrderItemTransitions(t *testing.T) {
	tests := []struct {
		name    string
		from    string
		do      func(*OrderItem) error
		wantTo  string
		wantErr bool
	}{
		{name: "preparingToReady", from: ItemStatusPreparing, do: (*OrderItem).MarkReady, wantTo: ItemStatusReady},
		{name: "readyToPreparing", from: ItemStatusReady, do: (*OrderItem).MarkPreparing, wantTo: ItemStatusPreparing},
		{name: "readyToServed", from: ItemStatusReady, do: (*OrderItem).MarkServed, wantTo: ItemStatusServed},
		{name: "servedToReady", from: ItemStatusServed, do: (*OrderItem).MarkReady, wantTo: ItemStatusReady},
		{name: "preparingToServedRefused", from: ItemStatusPreparing, do: (*OrderItem).MarkServed, wantTo: ItemStatusPreparing, wantErr: true},
		{name: "servedToPreparingRefused", from: ItemStatusServed, do: (*OrderItem).MarkPreparing, wantTo: ItemStatusServed, wantErr: true},
		{name: "preparingToPreparingRefused", from: ItemStatusPreparing, do: (*OrderItem).MarkPreparing, wantTo: ItemStatusPreparing, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := NewOrderItem()
			item.Name = "Espresso"
			item.Status = tt.from

			err := tt.do(item)

			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr = %v", err, tt.wantErr)
			}
			if tt.wantErr {
				var transition *InvalidTransitionError
				if !errors.As(err, &transition) {
					t.Fatalf("error type = %T, want InvalidTransitionError", err)
				}
			}
			if item.Status != tt.wantTo {
				t.Errorf("Status = %q, want %q", item.Status, tt.wantTo)
			}
		})
	}
}

func TestMarkReadySetsCompletedAtOnce(t *testing.T) {
	item := NewOrderItem()
	item.Name = "Espresso"

	if err := item.MarkReady(); err != nil {
		t.Fatalf("MarkReady() error = %v", err)
	}
	if item.CompletedAt == nil {
		t.Fatal("CompletedAt not set")
	}
	first := *item.CompletedAt

	if err := item.MarkServed(); err != nil {
		t.Fatalf("MarkServed() error = %v", err)
	}
	if err := item.MarkReady(); err != nil {
		t.Fatalf("MarkReady() from served error = %v", err)
	}
	if !item.CompletedAt.Equal(first) {
		t.Errorf("CompletedAt moved from %v to %v", first, *item.CompletedAt)
	}
}

func TestMarkPreparingClearsCompletedAt(t *testing.T) {
	item := NewOrderItem()
	item.Name = "Espresso"

	if err := item.MarkReady(); err != nil {
		t.Fatalf("MarkReady() error = %v", err)
	}
	if err := item.MarkPreparing(); err != nil {
		t.Fatalf("MarkPreparing() error = %v", err)
	}
	if item.CompletedAt != nil {
		t.Error("CompletedAt not cleared on return to preparing")
	}
}

func TestSplit(t *testing.T) {
	item := NewOrderItem()
	item.Name = "Espresso"
	item.Price = 3.5
	item.Qty = 3

	fragment := item.Split()

	if item.Qty != 2 {
		t.Errorf("remainder qty = %d, want 2", item.Qty)
	}
	if fragment.Qty != 1 {
		t.Errorf("fragment qty = %d, want 1", fragment.Qty)
	}
	if fragment.ID == item.ID {
		t.Error("fragment reused the original id")
	}
	if fragment.Name != item.Name || fragment.Price != item.Price {
		t.Error("fragment lost the line snapshot")
	}
	if !fragment.CreatedAt.Equal(item.CreatedAt) {
		t.Error("fragment created at differs from original")
	}
}

func TestValidItemStatus(t *testing.T) {
	for _, status := range []string{ItemStatusPreparing, ItemStatusReady, ItemStatusServed} {
		if !ValidItemStatus(status) {
			t.Errorf("ValidItemStatus(%q) = false", status)
		}
	}
	for _, status := range []string{"", "done", "PREPARING"} {
		if ValidItemStatus(status) {
			t.Errorf("ValidItemStatus(%q) = true", status)
		}
	}
}
