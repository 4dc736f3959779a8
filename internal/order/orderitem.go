package order

import (
	"time"

	"github.com/appetiteclub/apt"
	"github.com/google/uuid"
)

const (
	ItemStatusPreparing = "preparing"
	ItemStatusReady     = "ready"
	ItemStatusServed    = "served"
)

// OrderItem is a line embedded in an Order. Name and Price are snapshotted
// from the menu at add time; later menu edits never touch open orders.
type OrderItem struct {
	ID          uuid.UUID  `json:"id" bson:"id"`
	MenuItemID  *uuid.UUID `json:"menu_item_id,omitempty" bson:"menu_item_id,omitempty"`
	Name        string     `json:"name" bson:"name"`
	Price       float64    `json:"price" bson:"price"`
	Qty         int        `json:"qty" bson:"qty"`
	Status      string     `json:"status" bson:"status"`
	CreatedAt   time.Time  `json:"created_at" bson:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty" bson:"completed_at,omitempty"`
}

func NewOrderItem() *OrderItem {
	return &OrderItem{
		ID:     apt.GenerateNewID(),
		Qty:    1,
		Status: ItemStatusPreparing,
	}
}

func (oi *OrderItem) GetID() uuid.UUID {
	return oi.ID
}

func (oi *OrderItem) ResourceType() string {
	return "order-item"
}

func (oi *OrderItem) SetID(id uuid.UUID) {
	oi.ID = id
}

func (oi *OrderItem) EnsureID() {
	if oi.ID == uuid.Nil {
		oi.ID = apt.GenerateNewID()
	}
}

// MarkReady moves the line into the kitchen-done column. Reached from
// preparing (chef) or from served (waiter un-serving a line).
func (oi *OrderItem) MarkReady() error {
	switch oi.Status {
	case ItemStatusPreparing, ItemStatusServed:
		now := time.Now()
		oi.Status = ItemStatusReady
		if oi.CompletedAt == nil {
			oi.CompletedAt = &now
		}
		return nil
	default:
		return &InvalidTransitionError{From: oi.Status, To: ItemStatusReady}
	}
}

// MarkPreparing reverts a ready line back to the kitchen. A served line can
// not silently return to preparing; that is an explicit error.
func (oi *OrderItem) MarkPreparing() error {
	if oi.Status != ItemStatusReady {
		return &InvalidTransitionError{From: oi.Status, To: ItemStatusPreparing}
	}
	oi.Status = ItemStatusPreparing
	oi.CompletedAt = nil
	return nil
}

// MarkServed is the waiter handing the plate over. Only ready lines qualify;
// the kitchen never serves directly from preparing.
func (oi *OrderItem) MarkServed() error {
	if oi.Status != ItemStatusReady {
		return &InvalidTransitionError{From: oi.Status, To: ItemStatusServed}
	}
	oi.Status = ItemStatusServed
	return nil
}

// Split carves one unit off a multi-qty line, leaving the remainder at the
// original status. The fragment gets a fresh id; CreatedAt is shared so the
// fragments stay recognizable as one batch. Qty across fragments always sums
// to the quantity originally ordered.
func (oi *OrderItem) Split() *OrderItem {
	oi.Qty--
	fragment := &OrderItem{
		ID:         apt.GenerateNewID(),
		MenuItemID: oi.MenuItemID,
		Name:       oi.Name,
		Price:      oi.Price,
		Qty:        1,
		Status:     oi.Status,
		CreatedAt:  oi.CreatedAt,
	}
	return fragment
}

func ValidItemStatus(status string) bool {
	switch status {
	case ItemStatusPreparing, ItemStatusReady, ItemStatusServed:
		return true
	}
	return false
}
