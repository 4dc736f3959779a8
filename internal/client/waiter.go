package client

import (
	"context"
	"fmt"

	"github.com/appetiteclub/apt"
	"github.com/google/uuid"

	"github.com/brewnote/cafepos/internal/coupon"
	"github.com/brewnote/cafepos/internal/menu"
	"github.com/brewnote/cafepos/internal/order"
)

// OrderAPI is the write surface the terminal clients push through.
// *OrderDataAccess satisfies it.
type OrderAPI interface {
	UpdateOrder(ctx context.Context, id uuid.UUID, payload order.OrderUpdateRequest) (*order.Order, error)
	CloseOrder(ctx context.Context, id uuid.UUID) (*order.Order, error)
	PromoteItem(ctx context.Context, orderID, itemID uuid.UUID) (*order.Order, error)
	ListCoupons(ctx context.Context) ([]coupon.Coupon, error)
}

// WaiterClient drives the waiter terminal: item edits, coupons, serving,
// closing. Every edit is optimistic; the view renders it immediately, the
// PUT confirms it, and a failed PUT rolls the view back.
type WaiterClient struct {
	api    OrderAPI
	logger apt.Logger
}

func NewWaiterClient(api OrderAPI, logger apt.Logger) *WaiterClient {
	if logger == nil {
		logger = apt.NewNoopLogger()
	}
	return &WaiterClient{api: api, logger: logger}
}

// AddItem puts one unit of a menu item on the order. An existing preparing
// line for the same menu item absorbs the unit instead of opening a new line.
func (c *WaiterClient) AddItem(ctx context.Context, view *OrderView, mi menu.MenuItem) error {
	err := view.BeginMutation(func(o *order.Order) {
		for i := range o.Items {
			item := &o.Items[i]
			if item.MenuItemID != nil && *item.MenuItemID == mi.ID && item.Status == order.ItemStatusPreparing {
				item.Qty++
				return
			}
		}
		line := order.NewOrderItem()
		menuID := mi.ID
		line.MenuItemID = &menuID
		line.Name = mi.Name
		line.Price = mi.Price
		o.Items = append(o.Items, *line)
	})
	if err != nil {
		return err
	}

	return c.pushItems(ctx, view)
}

// ChangeQty sets a line's quantity, floored at 1. Removal is a separate,
// explicit action.
func (c *WaiterClient) ChangeQty(ctx context.Context, view *OrderView, itemID uuid.UUID, qty int) error {
	if qty < 1 {
		qty = 1
	}

	err := view.BeginMutation(func(o *order.Order) {
		if item := o.Item(itemID); item != nil {
			item.Qty = qty
		}
	})
	if err != nil {
		return err
	}

	return c.pushItems(ctx, view)
}

func (c *WaiterClient) RemoveItem(ctx context.Context, view *OrderView, itemID uuid.UUID) error {
	err := view.BeginMutation(func(o *order.Order) {
		kept := o.Items[:0]
		for _, item := range o.Items {
			if item.ID != itemID {
				kept = append(kept, item)
			}
		}
		o.Items = kept
	})
	if err != nil {
		return err
	}

	return c.pushItems(ctx, view)
}

// ToggleServed flips a line between ready and served. Preparing lines belong
// to the chef and are refused here.
func (c *WaiterClient) ToggleServed(ctx context.Context, view *OrderView, itemID uuid.UUID) error {
	var stateErr error
	err := view.BeginMutation(func(o *order.Order) {
		item := o.Item(itemID)
		if item == nil {
			stateErr = order.ErrNotFound
			return
		}
		switch item.Status {
		case order.ItemStatusReady:
			stateErr = item.MarkServed()
		case order.ItemStatusServed:
			stateErr = item.MarkReady()
		default:
			stateErr = &order.InvalidTransitionError{From: item.Status, To: order.ItemStatusServed}
		}
	})
	if err != nil {
		return err
	}
	if stateErr != nil {
		view.Rollback(stateErr)
		return stateErr
	}

	return c.pushItems(ctx, view)
}

// ApplyCoupon resolves a coupon code against the current subtotal and writes
// the resulting flat discount onto the order. Percent coupons are flattened
// here; the service only ever stores the final amount.
func (c *WaiterClient) ApplyCoupon(ctx context.Context, view *OrderView, code string) error {
	coupons, err := c.api.ListCoupons(ctx)
	if err != nil {
		return err
	}

	var found *coupon.Coupon
	for i := range coupons {
		if coupons[i].Code == code {
			found = &coupons[i]
			break
		}
	}
	if found == nil || !found.Active {
		return fmt.Errorf("coupon %q not available", code)
	}

	subtotal := view.Current().Subtotal
	discount := found.Resolve(subtotal)

	err = view.BeginMutation(func(o *order.Order) {
		o.CouponCode = code
		o.Discount = discount
	})
	if err != nil {
		return err
	}

	payload := order.OrderUpdateRequest{
		CouponCode: &code,
		Discount:   &discount,
	}
	return c.push(ctx, view, payload)
}

// Close settles the order. The server recomputes totals and unbinds the
// table; the response is the receipt.
func (c *WaiterClient) Close(ctx context.Context, view *OrderView) error {
	server, err := c.api.CloseOrder(ctx, view.Current().ID)
	if err != nil {
		return err
	}
	view.Commit(server)
	return nil
}

// pushItems sends the view's full item list. The update contract is a
// wholesale replace, so partial diffs are never sent.
func (c *WaiterClient) pushItems(ctx context.Context, view *OrderView) error {
	items := view.Current().Items
	return c.push(ctx, view, order.OrderUpdateRequest{Items: items})
}

func (c *WaiterClient) push(ctx context.Context, view *OrderView, payload order.OrderUpdateRequest) error {
	server, err := c.api.UpdateOrder(ctx, view.Current().ID, payload)
	if err != nil {
		c.logger.Debug("order update rejected", "error", err)
		view.Rollback(err)
		return err
	}

	view.Commit(server)
	return nil
}
