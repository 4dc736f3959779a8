package client

import (
	"context"
	"sync"
	"time"

	"github.com/appetiteclub/apt"
	"github.com/appetiteclub/apt/events"
	"github.com/google/uuid"

	"github.com/brewnote/cafepos/internal/event"
	"github.com/brewnote/cafepos/internal/order"
)

// OrderLister is the read surface the poller needs.
type OrderLister interface {
	ListOpenOrders(ctx context.Context) ([]*order.Order, error)
}

// LifecycleSubscriber feeds order lifecycle events into the poller.
// *event.NATSSubscriber satisfies it.
type LifecycleSubscriber interface {
	Subscribe(ctx context.Context, topic string, handler events.HandlerFunc) error
}

var _ LifecycleSubscriber = (*event.NATSSubscriber)(nil)

// Poller refreshes a set of order views on a fixed interval. There is no
// backoff and no jitter; a failed cycle is logged and the next tick tries
// again. Each terminal runs one poller.
type Poller struct {
	mu       sync.Mutex
	da       OrderLister
	views    map[uuid.UUID]*OrderView
	interval time.Duration
	wake     chan struct{}
	logger   apt.Logger
}

func NewPoller(da OrderLister, interval time.Duration, logger apt.Logger) *Poller {
	if logger == nil {
		logger = apt.NewNoopLogger()
	}
	if interval <= 0 {
		interval = 2 * time.Second
	}
	return &Poller{
		da:       da,
		views:    make(map[uuid.UUID]*OrderView),
		interval: interval,
		wake:     make(chan struct{}, 1),
		logger:   logger,
	}
}

// Wake requests a refresh before the next tick. Multiple wakes before the
// loop gets there collapse into one cycle.
func (p *Poller) Wake() {
	select {
	case p.wake <- struct{}{}:
	default:
	}
}

// WatchLifecycle wakes the poller on every order lifecycle event, so a chef
// terminal picks up a change on the next cycle instead of the next tick. The
// events carry no authoritative state; the woken poll still reads everything
// back over HTTP.
func (p *Poller) WatchLifecycle(ctx context.Context, sub LifecycleSubscriber) error {
	return sub.Subscribe(ctx, event.OrderLifecycleTopic, func(ctx context.Context, msg []byte) error {
		p.Wake()
		return nil
	})
}

// View returns the view tracking the given order, creating an empty one on
// first use.
func (p *Poller) View(orderID uuid.UUID) *OrderView {
	p.mu.Lock()
	defer p.mu.Unlock()

	view, ok := p.views[orderID]
	if !ok {
		view = NewOrderView(nil)
		p.views[orderID] = view
	}
	return view
}

// Run polls until the context is cancelled. Request failures never stop the
// loop.
func (p *Poller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.Poll(ctx)
		case <-p.wake:
			p.Poll(ctx)
		}
	}
}

// Poll performs one refresh cycle. Views whose order no longer appears in
// the open list are dropped; the order was closed or deleted elsewhere.
func (p *Poller) Poll(ctx context.Context) {
	orders, err := p.da.ListOpenOrders(ctx)
	if err != nil {
		p.logger.Debug("poll cycle failed", "error", err)
		return
	}

	seen := make(map[uuid.UUID]bool, len(orders))
	for _, o := range orders {
		if o == nil {
			continue
		}
		seen[o.ID] = true
		p.View(o.ID).ApplyPoll(o)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	for id := range p.views {
		if !seen[id] {
			delete(p.views, id)
		}
	}
}
