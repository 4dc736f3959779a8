package coupon

import "context"

type CouponRepo interface {
	Create(ctx context.Context, c *Coupon) error
	// FindByCode is case-sensitive; codes are stored as entered.
	FindByCode(ctx context.Context, code string) (*Coupon, error)
	List(ctx context.Context) ([]*Coupon, error)
	DeleteByCode(ctx context.Context, code string) error
}
