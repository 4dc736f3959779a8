package client

import (
	"context"

	"github.com/appetiteclub/apt"
	"github.com/google/uuid"

	"github.com/brewnote/cafepos/internal/order"
)

// ChefClient drives the kitchen terminal. The chef only ever moves lines
// between preparing and ready; serving belongs to the waiter.
type ChefClient struct {
	api    OrderAPI
	logger apt.Logger
}

func NewChefClient(api OrderAPI, logger apt.Logger) *ChefClient {
	if logger == nil {
		logger = apt.NewNoopLogger()
	}
	return &ChefClient{api: api, logger: logger}
}

// ToggleItem flips a line between preparing and ready. Served lines are out
// of the kitchen's hands and the toggle is refused.
func (c *ChefClient) ToggleItem(ctx context.Context, view *OrderView, itemID uuid.UUID) error {
	var stateErr error
	err := view.BeginMutation(func(o *order.Order) {
		item := o.Item(itemID)
		if item == nil {
			stateErr = order.ErrNotFound
			return
		}
		switch item.Status {
		case order.ItemStatusPreparing:
			stateErr = item.MarkReady()
		case order.ItemStatusReady:
			stateErr = item.MarkPreparing()
		default:
			stateErr = &order.InvalidTransitionError{From: item.Status, To: order.ItemStatusReady}
		}
	})
	if err != nil {
		return err
	}
	if stateErr != nil {
		view.Rollback(stateErr)
		return stateErr
	}

	items := view.Current().Items
	server, err := c.api.UpdateOrder(ctx, view.Current().ID, order.OrderUpdateRequest{Items: items})
	if err != nil {
		c.logger.Debug("kitchen update rejected", "error", err)
		view.Rollback(err)
		return err
	}

	view.Commit(server)
	return nil
}

// PromoteUnit marks one unit of a multi-quantity line ready, splitting the
// line server-side. The split needs a fresh server-issued fragment id, so
// there is no optimistic local edit; the response lands as a normal commit.
func (c *ChefClient) PromoteUnit(ctx context.Context, view *OrderView, itemID uuid.UUID) error {
	server, err := c.api.PromoteItem(ctx, view.Current().ID, itemID)
	if err != nil {
		return err
	}

	view.Commit(server)
	return nil
}
