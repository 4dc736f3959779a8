package order

import (
	"context"

	"github.com/google/uuid"
)

type OrderRepo interface {
	Create(ctx context.Context, order *Order) error
	Get(ctx context.Context, id uuid.UUID) (*Order, error)
	List(ctx context.Context) ([]*Order, error)
	ListByStatus(ctx context.Context, status string) ([]*Order, error)
	FindOpenByTable(ctx context.Context, tableID uuid.UUID) (*Order, error)
	// Save replaces the whole document in one write; the item list is
	// embedded, so concurrent updates cannot interleave partial item state.
	Save(ctx context.Context, order *Order) error
	Delete(ctx context.Context, id uuid.UUID) error
}
