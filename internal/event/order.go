package event

import "time"

const (
	OrderLifecycleTopic = "orders.lifecycle"

	EventOrderStarted = "order.started"
	EventOrderUpdated = "order.updated"
	EventOrderClosed  = "order.closed"
	EventOrderDeleted = "order.deleted"
)

// OrderLifecycleEvent is published on every order mutation so kitchen
// displays can warm their caches between polls. Delivery stays advisory;
// the UIs' source of truth is the polling contract, not the bus.
type OrderLifecycleEvent struct {
	EventType  string    `json:"event_type"`
	OccurredAt time.Time `json:"occurred_at"`
	OrderID    string    `json:"order_id"`
	TableID    string    `json:"table_id,omitempty"`

	Status     string `json:"status"`
	ChefStatus string `json:"chef_status"`
	FoodStatus string `json:"food_status"`

	// Denormalized for display consumers
	ItemCount int     `json:"item_count"`
	Total     float64 `json:"total"`
}
