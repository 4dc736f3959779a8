package tables

import (
	"context"

	"github.com/google/uuid"
)

type TableRepo interface {
	Create(ctx context.Context, table *Table) error
	Get(ctx context.Context, id uuid.UUID) (*Table, error)
	List(ctx context.Context) ([]*Table, error)
	// FindByActiveOrder locates the table bound to an order. The order's own
	// table_id is deliberately not trusted for unbinding; the stored
	// reference is authoritative. Returns nil when no table holds the order.
	FindByActiveOrder(ctx context.Context, orderID uuid.UUID) (*Table, error)
	Save(ctx context.Context, table *Table) error
	Delete(ctx context.Context, id uuid.UUID) error
}
