package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/appetiteclub/apt"
	"github.com/google/uuid"

	"github.com/brewnote/cafepos/internal/coupon"
	"github.com/brewnote/cafepos/internal/order"
)

// OrderDataAccess centralizes decoding of order service responses for the
// till-side clients. All reads and writes go through the HTTP API; polling
// these endpoints is the synchronization contract.
type OrderDataAccess struct {
	client *apt.ServiceClient
}

var (
	_ OrderAPI    = (*OrderDataAccess)(nil)
	_ OrderLister = (*OrderDataAccess)(nil)
)

func NewOrderDataAccess(client *apt.ServiceClient) *OrderDataAccess {
	return &OrderDataAccess{client: client}
}

func (da *OrderDataAccess) StartOrder(ctx context.Context, tableID uuid.UUID) (*order.Order, error) {
	if da == nil || da.client == nil {
		return nil, fmt.Errorf("order client not configured")
	}

	payload := order.OrderStartRequest{TableID: tableID}
	resp, err := da.client.Request(ctx, "POST", "/orders/start", payload)
	if err != nil {
		return nil, err
	}

	var o order.Order
	if err := decodeSuccessResponse(resp, &o); err != nil {
		return nil, err
	}

	return &o, nil
}

func (da *OrderDataAccess) ListOpenOrders(ctx context.Context) ([]*order.Order, error) {
	if da == nil || da.client == nil {
		return nil, fmt.Errorf("order client not configured")
	}

	resp, err := da.client.Request(ctx, "GET", "/orders?status=open", nil)
	if err != nil {
		return nil, err
	}

	var orders []*order.Order
	if err := decodeSuccessResponse(resp, &orders); err != nil {
		return nil, err
	}

	return orders, nil
}

func (da *OrderDataAccess) GetOrder(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	if da == nil || da.client == nil {
		return nil, fmt.Errorf("order client not configured")
	}

	resp, err := da.client.Get(ctx, "orders", id.String())
	if err != nil {
		return nil, err
	}

	var o order.Order
	if err := decodeSuccessResponse(resp, &o); err != nil {
		return nil, err
	}

	return &o, nil
}

func (da *OrderDataAccess) UpdateOrder(ctx context.Context, id uuid.UUID, payload order.OrderUpdateRequest) (*order.Order, error) {
	if da == nil || da.client == nil {
		return nil, fmt.Errorf("order client not configured")
	}

	resp, err := da.client.Update(ctx, "orders", id.String(), payload)
	if err != nil {
		return nil, err
	}

	var o order.Order
	if err := decodeSuccessResponse(resp, &o); err != nil {
		return nil, err
	}

	return &o, nil
}

func (da *OrderDataAccess) CloseOrder(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	if da == nil || da.client == nil {
		return nil, fmt.Errorf("order client not configured")
	}

	path := fmt.Sprintf("/orders/%s/close", id)
	resp, err := da.client.Request(ctx, "POST", path, nil)
	if err != nil {
		return nil, err
	}

	var o order.Order
	if err := decodeSuccessResponse(resp, &o); err != nil {
		return nil, err
	}

	return &o, nil
}

func (da *OrderDataAccess) PromoteItem(ctx context.Context, orderID, itemID uuid.UUID) (*order.Order, error) {
	if da == nil || da.client == nil {
		return nil, fmt.Errorf("order client not configured")
	}

	path := fmt.Sprintf("/orders/%s/items/%s/promote", orderID, itemID)
	resp, err := da.client.Request(ctx, "PATCH", path, nil)
	if err != nil {
		return nil, err
	}

	var o order.Order
	if err := decodeSuccessResponse(resp, &o); err != nil {
		return nil, err
	}

	return &o, nil
}

func (da *OrderDataAccess) ListCoupons(ctx context.Context) ([]coupon.Coupon, error) {
	if da == nil || da.client == nil {
		return nil, fmt.Errorf("order client not configured")
	}

	resp, err := da.client.List(ctx, "coupons")
	if err != nil {
		return nil, err
	}

	var coupons []coupon.Coupon
	if err := decodeSuccessResponse(resp, &coupons); err != nil {
		return nil, err
	}

	return coupons, nil
}

// decodeSuccessResponse copies the dynamic response payload into dest.
func decodeSuccessResponse(resp *apt.SuccessResponse, dest interface{}) error {
	if resp == nil {
		return errors.New("nil success response")
	}

	raw, err := json.Marshal(resp.Data)
	if err != nil {
		return err
	}

	return json.Unmarshal(raw, dest)
}
