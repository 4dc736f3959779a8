package order

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound covers a missing order or table reference.
	ErrNotFound = errors.New("not found")
	// ErrOrderClosed marks writes against a terminal order.
	ErrOrderClosed = errors.New("order is closed")
)

// InvalidTransitionError reports an item status move the state machine does
// not allow, e.g. served back to preparing.
type InvalidTransitionError struct {
	From string
	To   string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid item transition %s -> %s", e.From, e.To)
}
