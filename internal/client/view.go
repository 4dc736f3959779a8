package client

import (
	"errors"
	"sync"

	"github.com/brewnote/cafepos/internal/order"
)

const (
	StateIdle        = "idle"
	StateMutating    = "mutating"
	StateReconciling = "reconciling"
)

var ErrMutationInFlight = errors.New("mutation already in flight")

// OrderView holds one terminal's working copy of an order and the
// reconciliation state between local edits and server polls.
//
// States: idle accepts polls; mutating suppresses polls while a local edit
// and its PUT are in flight; reconciling means the server response has been
// adopted and the next poll folds the view back to idle.
type OrderView struct {
	mu       sync.Mutex
	state    string
	current  *order.Order
	snapshot *order.Order
	lastErr  error
}

func NewOrderView(o *order.Order) *OrderView {
	return &OrderView{
		state:   StateIdle,
		current: cloneOrder(o),
	}
}

func (v *OrderView) State() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state
}

// Current returns a copy of the displayed order. Callers mutate their copy
// freely without racing the poll loop.
func (v *OrderView) Current() *order.Order {
	v.mu.Lock()
	defer v.mu.Unlock()
	return cloneOrder(v.current)
}

// Err returns the transient error recorded by the last rollback, if any.
// It clears on the next successful poll or commit.
func (v *OrderView) Err() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.lastErr
}

// ApplyPoll folds a polled server state into the view. While a mutation is
// in flight the poll is dropped so the optimistic edit is not clobbered by a
// stale snapshot. Returns whether the poll was applied.
func (v *OrderView) ApplyPoll(o *order.Order) bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.state == StateMutating {
		return false
	}

	v.current = cloneOrder(o)
	v.state = StateIdle
	v.lastErr = nil
	return true
}

// BeginMutation snapshots the last known good state and applies the edit
// locally so the terminal renders the change before the server confirms it.
// Only one mutation may be in flight at a time.
func (v *OrderView) BeginMutation(mutate func(*order.Order)) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.state == StateMutating {
		return ErrMutationInFlight
	}
	if v.current == nil {
		return errors.New("no order loaded")
	}

	v.snapshot = cloneOrder(v.current)
	mutate(v.current)
	v.state = StateMutating
	return nil
}

// Commit adopts the server's response as authoritative after a successful
// write. The view moves to reconciling until the next poll confirms it.
func (v *OrderView) Commit(server *order.Order) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.current = cloneOrder(server)
	v.snapshot = nil
	v.state = StateReconciling
	v.lastErr = nil
}

// Rollback restores the pre-mutation snapshot after a failed write and
// records the error so the UI can flag the attempt.
func (v *OrderView) Rollback(err error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.snapshot != nil {
		v.current = v.snapshot
		v.snapshot = nil
	}
	v.state = StateIdle
	v.lastErr = err
}

func cloneOrder(o *order.Order) *order.Order {
	if o == nil {
		return nil
	}
	clone := *o
	clone.Items = make([]order.OrderItem, len(o.Items))
	copy(clone.Items, o.Items)
	return &clone
}
