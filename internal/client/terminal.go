package client

import (
	"context"
	"time"

	"github.com/appetiteclub/apt"
)

// Terminal bundles the till-side clients over one order service connection.
// A waiter station and a chef station run the same bundle; which half of it
// the UI drives is the only difference between them.
type Terminal struct {
	Waiter *WaiterClient
	Chef   *ChefClient
	Poller *Poller

	da *OrderDataAccess
}

func NewTerminal(orderURL string, pollInterval time.Duration, logger apt.Logger) *Terminal {
	if logger == nil {
		logger = apt.NewNoopLogger()
	}

	da := NewOrderDataAccess(apt.NewServiceClient(orderURL))
	return &Terminal{
		Waiter: NewWaiterClient(da, logger),
		Chef:   NewChefClient(da, logger),
		Poller: NewPoller(da, pollInterval, logger),
		da:     da,
	}
}

// Run drives the refresh loop until the context is cancelled. When a
// lifecycle feed is given, its events short-circuit the poll interval;
// without one the ticker alone keeps the views fresh.
func (t *Terminal) Run(ctx context.Context, sub LifecycleSubscriber) error {
	if sub != nil {
		if err := t.Poller.WatchLifecycle(ctx, sub); err != nil {
			return err
		}
	}

	t.Poller.Run(ctx)
	return nil
}
