package order

import (
	"time"

	"github.com/appetiteclub/apt"
	"github.com/google/uuid"

	"github.com/brewnote/cafepos/internal/settings"
)

const (
	StatusOpen   = "open"
	StatusClosed = "closed"

	ChefStatusPreparing = "preparing"
	ChefStatusCompleted = "completed"

	FoodStatusPreparing = "preparing"
	FoodStatusReady     = "ready"
	FoodStatusServed    = "served"
)

// Order is the single shared mutable aggregate of the system. Items are
// embedded, so one repo Save replaces the whole document and two racing
// updates resolve last-write-wins at the store.
type Order struct {
	ID      uuid.UUID  `json:"id" bson:"_id"`
	TableID *uuid.UUID `json:"table_id,omitempty" bson:"table_id,omitempty"`

	Items []OrderItem `json:"items" bson:"items"`

	Status     string `json:"status" bson:"status"`
	ChefStatus string `json:"chef_status" bson:"chef_status"`
	FoodStatus string `json:"food_status" bson:"food_status"`

	Subtotal   float64 `json:"subtotal" bson:"subtotal"`
	Tax        float64 `json:"tax" bson:"tax"`
	TaxRate    float64 `json:"tax_rate" bson:"tax_rate"`
	Discount   float64 `json:"discount" bson:"discount"`
	Total      float64 `json:"total" bson:"total"`
	CouponCode string  `json:"coupon_code,omitempty" bson:"coupon_code,omitempty"`

	KitchenPrepared bool `json:"kitchen_prepared" bson:"kitchen_prepared"`

	CreatedAt   time.Time  `json:"created_at" bson:"created_at"`
	StartedAt   time.Time  `json:"started_at" bson:"started_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty" bson:"completed_at,omitempty"`
	UpdatedAt   time.Time  `json:"updated_at" bson:"updated_at"`
}

func (o *Order) GetID() uuid.UUID {
	return o.ID
}

func (o *Order) ResourceType() string {
	return "order"
}

func (o *Order) SetID(id uuid.UUID) {
	o.ID = id
}

func NewOrder() *Order {
	return &Order{
		ID:         apt.GenerateNewID(),
		Items:      []OrderItem{},
		Status:     StatusOpen,
		ChefStatus: ChefStatusPreparing,
		FoodStatus: FoodStatusPreparing,
	}
}

func (o *Order) EnsureID() {
	if o.ID == uuid.Nil {
		o.ID = apt.GenerateNewID()
	}
}

func (o *Order) BeforeCreate() {
	o.EnsureID()
	now := time.Now()
	o.CreatedAt = now
	o.StartedAt = now
	o.UpdatedAt = now
}

func (o *Order) BeforeUpdate() {
	o.UpdatedAt = time.Now()
}

func (o *Order) Open() bool {
	return o.Status == StatusOpen
}

// ReplaceItems swaps the whole item list, the only mutation shape the update
// path supports. Lines with qty 0 are dropped rather than persisted.
func (o *Order) ReplaceItems(items []OrderItem) {
	kept := make([]OrderItem, 0, len(items))
	for i := range items {
		if items[i].Qty == 0 {
			continue
		}
		item := items[i]
		item.EnsureID()
		if item.Status == "" {
			item.Status = ItemStatusPreparing
		}
		if item.CreatedAt.IsZero() {
			item.CreatedAt = time.Now()
		}
		kept = append(kept, item)
	}
	o.Items = kept
}

func (o *Order) Item(id uuid.UUID) *OrderItem {
	for i := range o.Items {
		if o.Items[i].ID == id {
			return &o.Items[i]
		}
	}
	return nil
}

// Recalculate derives the order-level rollups from the item list. FoodStatus
// is the waiter-facing best case: ready as soon as any line is ready.
// ChefStatus stays preparing until literally every line is served, so the
// kitchen board never marks an order done early. CompletedAt is set on the
// first full completion and never overwritten afterwards.
func (o *Order) Recalculate() {
	readyCount := 0
	servedCount := 0
	preparingCount := 0
	for i := range o.Items {
		switch o.Items[i].Status {
		case ItemStatusReady:
			readyCount++
		case ItemStatusServed:
			servedCount++
		default:
			preparingCount++
		}
	}

	allServed := len(o.Items) > 0 && servedCount == len(o.Items)

	switch {
	case allServed:
		o.FoodStatus = FoodStatusServed
		o.ChefStatus = ChefStatusCompleted
		if o.CompletedAt == nil {
			now := time.Now()
			o.CompletedAt = &now
		}
	case readyCount > 0 || servedCount > 0:
		o.FoodStatus = FoodStatusReady
		o.ChefStatus = ChefStatusPreparing
	default:
		o.FoodStatus = FoodStatusPreparing
		o.ChefStatus = ChefStatusPreparing
	}

	o.KitchenPrepared = preparingCount == 0
}

// ApplyTotals recomputes the monetary fields from the current item list and
// the freshly fetched tax settings.
func (o *Order) ApplyTotals(tax settings.TaxSettings) {
	t := ComputeTotals(o.Items, tax, o.Discount)
	o.Subtotal = t.Subtotal
	o.Tax = t.Tax
	o.TaxRate = tax.Rate
	if !tax.Enabled {
		o.TaxRate = 0
	}
	o.Total = t.Total
}

// Close moves the order to its terminal state. Closing an already closed
// order is a no-op; the stored receipt stays as it was.
func (o *Order) Close() {
	if o.Status == StatusClosed {
		return
	}
	o.Status = StatusClosed
	o.ChefStatus = ChefStatusCompleted
	if o.CompletedAt == nil {
		now := time.Now()
		o.CompletedAt = &now
	}
	o.UpdatedAt = time.Now()
}

// PromoteUnit advances one unit of a line toward the kitchen pass. A
// multi-qty preparing line splits into remainder + a qty-1 ready fragment;
// a single-unit line just flips. Served lines are rejected.
func (o *Order) PromoteUnit(itemID uuid.UUID) (*OrderItem, error) {
	item := o.Item(itemID)
	if item == nil {
		return nil, ErrNotFound
	}
	if item.Status != ItemStatusPreparing {
		return nil, &InvalidTransitionError{From: item.Status, To: ItemStatusReady}
	}

	if item.Qty == 1 {
		if err := item.MarkReady(); err != nil {
			return nil, err
		}
		return item, nil
	}

	fragment := item.Split()
	if err := fragment.MarkReady(); err != nil {
		return nil, err
	}
	o.Items = append(o.Items, *fragment)
	return o.Item(fragment.ID), nil
}
