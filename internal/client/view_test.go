package client

import (
	"errors"
	"testing"

	"github.com/brewnote/cafepos/internal/order"
)

func newViewOrder(itemNames ...string) *order.Order {
	o := order.NewOrder()
	for _, name := range itemNames {
		item := order.NewOrderItem()
		item.Name = name
		item.Price = 5
		o.Items = append(o.Items, *item)
	}
	return o
}

func TestViewStartsIdle(t *testing.T) {
	v := NewOrderView(newViewOrder())
	if v.State() != StateIdle {
		t.Errorf("State() = %q, want idle", v.State())
	}
}

func TestViewCurrentReturnsCopy(t *testing.T) {
	o := newViewOrder("Espresso")
	v := NewOrderView(o)

	copy1 := v.Current()
	copy1.Items[0].Name = "mutated"

	if v.Current().Items[0].Name != "Espresso" {
		t.Error("mutating the returned copy leaked into the view")
	}
}

func TestViewPollSuppressedWhileMutating(t *testing.T) {
	v := NewOrderView(newViewOrder("Espresso"))

	if err := v.BeginMutation(func(o *order.Order) {
		o.Items[0].Qty = 5
	}); err != nil {
		t.Fatalf("BeginMutation() error = %v", err)
	}

	stale := newViewOrder("Espresso")
	if v.ApplyPoll(stale) {
		t.Error("poll applied while a mutation was in flight")
	}
	if v.Current().Items[0].Qty != 5 {
		t.Error("optimistic edit clobbered by suppressed poll")
	}
}

func TestViewCommitAdoptsServerState(t *testing.T) {
	v := NewOrderView(newViewOrder("Espresso"))

	if err := v.BeginMutation(func(o *order.Order) {
		o.Items[0].Qty = 5
	}); err != nil {
		t.Fatalf("BeginMutation() error = %v", err)
	}

	server := newViewOrder("Espresso")
	server.Items[0].Qty = 5
	server.Subtotal = 25

	v.Commit(server)

	if v.State() != StateReconciling {
		t.Errorf("State() = %q, want reconciling", v.State())
	}
	if v.Current().Subtotal != 25 {
		t.Error("server recomputed fields not adopted")
	}

	// The next poll folds the view back to idle.
	if !v.ApplyPoll(server) {
		t.Error("poll rejected after commit")
	}
	if v.State() != StateIdle {
		t.Errorf("State() = %q, want idle after poll", v.State())
	}
}

func TestViewRollbackRestoresSnapshot(t *testing.T) {
	v := NewOrderView(newViewOrder("Espresso"))

	if err := v.BeginMutation(func(o *order.Order) {
		o.Items[0].Qty = 9
	}); err != nil {
		t.Fatalf("BeginMutation() error = %v", err)
	}

	cause := errors.New("connection refused")
	v.Rollback(cause)

	if v.State() != StateIdle {
		t.Errorf("State() = %q, want idle after rollback", v.State())
	}
	if v.Current().Items[0].Qty != 1 {
		t.Errorf("qty = %d, want pre-mutation 1", v.Current().Items[0].Qty)
	}
	if !errors.Is(v.Err(), cause) {
		t.Errorf("Err() = %v, want %v", v.Err(), cause)
	}

	// A successful poll clears the transient error.
	v.ApplyPoll(newViewOrder("Espresso"))
	if v.Err() != nil {
		t.Errorf("Err() = %v after poll, want nil", v.Err())
	}
}

func TestViewRejectsOverlappingMutations(t *testing.T) {
	v := NewOrderView(newViewOrder("Espresso"))

	if err := v.BeginMutation(func(o *order.Order) {}); err != nil {
		t.Fatalf("BeginMutation() error = %v", err)
	}
	if err := v.BeginMutation(func(o *order.Order) {}); !errors.Is(err, ErrMutationInFlight) {
		t.Errorf("second BeginMutation() error = %v, want ErrMutationInFlight", err)
	}
}

func TestViewMutationWithoutOrder(t *testing.T) {
	v := NewOrderView(nil)
	if err := v.BeginMutation(func(o *order.Order) {}); err == nil {
		t.Error("BeginMutation() on empty view did not fail")
	}
}
