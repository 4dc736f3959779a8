package tables

import (
	"fmt"
	"time"

	"github.com/appetiteclub/apt"
	"github.com/google/uuid"
)

// Table is the floor unit a waiter serves. ActiveOrderID references the one
// open order currently bound to the table; nil means unoccupied.
type Table struct {
	ID            uuid.UUID  `json:"id" bson:"_id"`
	Name          string     `json:"name" bson:"name"`
	ActiveOrderID *uuid.UUID `json:"active_order_id,omitempty" bson:"active_order_id,omitempty"`
	CreatedAt     time.Time  `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at" bson:"updated_at"`
}

func (t *Table) GetID() uuid.UUID {
	return t.ID
}

func (t *Table) ResourceType() string {
	return "table"
}

func (t *Table) SetID(id uuid.UUID) {
	t.ID = id
}

func NewTable(name string) *Table {
	return &Table{
		ID:   apt.GenerateNewID(),
		Name: name,
	}
}

func (t *Table) EnsureID() {
	if t.ID == uuid.Nil {
		t.ID = apt.GenerateNewID()
	}
}

func (t *Table) BeforeCreate() {
	t.EnsureID()
	t.CreatedAt = time.Now()
	t.UpdatedAt = time.Now()
}

func (t *Table) BeforeUpdate() {
	t.UpdatedAt = time.Now()
}

func (t *Table) Occupied() bool {
	return t.ActiveOrderID != nil
}

// Bind attaches an open order to the table. Rebinding to the same order is a
// no-op; binding while another order is active is a programming error in the
// lifecycle discipline and is rejected.
func (t *Table) Bind(orderID uuid.UUID) error {
	if orderID == uuid.Nil {
		return fmt.Errorf("order id is required")
	}
	if t.ActiveOrderID != nil {
		if *t.ActiveOrderID == orderID {
			return nil
		}
		return fmt.Errorf("table %s already bound to order %s", t.Name, t.ActiveOrderID)
	}
	t.ActiveOrderID = &orderID
	t.UpdatedAt = time.Now()
	return nil
}

func (t *Table) Unbind() {
	t.ActiveOrderID = nil
	t.UpdatedAt = time.Now()
}
