package client

import (
	"context"
	"errors"

	"github.com/appetiteclub/apt/events"
	"github.com/google/uuid"

	"github.com/brewnote/cafepos/internal/coupon"
	"github.com/brewnote/cafepos/internal/order"
)

// MockOrderAPI is a test mock for OrderAPI and OrderLister
type MockOrderAPI struct {
	UpdateOrderFunc    func(ctx context.Context, id uuid.UUID, payload order.OrderUpdateRequest) (*order.Order, error)
	CloseOrderFunc     func(ctx context.Context, id uuid.UUID) (*order.Order, error)
	PromoteItemFunc    func(ctx context.Context, orderID, itemID uuid.UUID) (*order.Order, error)
	ListCouponsFunc    func(ctx context.Context) ([]coupon.Coupon, error)
	ListOpenOrdersFunc func(ctx context.Context) ([]*order.Order, error)

	UpdateCalls []order.OrderUpdateRequest
}

func (m *MockOrderAPI) UpdateOrder(ctx context.Context, id uuid.UUID, payload order.OrderUpdateRequest) (*order.Order, error) {
	m.UpdateCalls = append(m.UpdateCalls, payload)
	if m.UpdateOrderFunc != nil {
		return m.UpdateOrderFunc(ctx, id, payload)
	}
	return nil, errors.New("no update behavior configured")
}

func (m *MockOrderAPI) CloseOrder(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	if m.CloseOrderFunc != nil {
		return m.CloseOrderFunc(ctx, id)
	}
	return nil, errors.New("no close behavior configured")
}

func (m *MockOrderAPI) PromoteItem(ctx context.Context, orderID, itemID uuid.UUID) (*order.Order, error) {
	if m.PromoteItemFunc != nil {
		return m.PromoteItemFunc(ctx, orderID, itemID)
	}
	return nil, errors.New("no promote behavior configured")
}

func (m *MockOrderAPI) ListCoupons(ctx context.Context) ([]coupon.Coupon, error) {
	if m.ListCouponsFunc != nil {
		return m.ListCouponsFunc(ctx)
	}
	return nil, nil
}

func (m *MockOrderAPI) ListOpenOrders(ctx context.Context) ([]*order.Order, error) {
	if m.ListOpenOrdersFunc != nil {
		return m.ListOpenOrdersFunc(ctx)
	}
	return nil, nil
}

// MockLifecycleSubscriber is a test mock for LifecycleSubscriber
type MockLifecycleSubscriber struct {
	SubscribeFunc func(ctx context.Context, topic string, handler events.HandlerFunc) error

	Topic   string
	Handler events.HandlerFunc
}

func (m *MockLifecycleSubscriber) Subscribe(ctx context.Context, topic string, handler events.HandlerFunc) error {
	m.Topic = topic
	m.Handler = handler
	if m.SubscribeFunc != nil {
		return m.SubscribeFunc(ctx, topic, handler)
	}
	return nil
}

// echoUpdate makes the mock behave like the service: the pushed state comes
// back as the authoritative response.
func echoUpdate(base *order.Order) func(ctx context.Context, id uuid.UUID, payload order.OrderUpdateRequest) (*order.Order, error) {
	return func(ctx context.Context, id uuid.UUID, payload order.OrderUpdateRequest) (*order.Order, error) {
		result := *base
		if payload.Items != nil {
			result.Items = payload.Items
		}
		if payload.CouponCode != nil {
			result.CouponCode = *payload.CouponCode
		}
		if payload.Discount != nil {
			result.Discount = *payload.Discount
		}
		return &result, nil
	}
}
