package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/brewnote/cafepos/internal/coupon"
)

type CouponRepo struct {
	collection *mongo.Collection
}

func NewCouponRepo(db *mongo.Database) *CouponRepo {
	return &CouponRepo{
		collection: db.Collection("coupons"),
	}
}

func (r *CouponRepo) Create(ctx context.Context, c *coupon.Coupon) error {
	if c == nil {
		return fmt.Errorf("coupon is nil")
	}

	if _, err := r.collection.InsertOne(ctx, c); err != nil {
		return fmt.Errorf("cannot create coupon: %w", err)
	}

	return nil
}

func (r *CouponRepo) FindByCode(ctx context.Context, code string) (*coupon.Coupon, error) {
	var c coupon.Coupon
	err := r.collection.FindOne(ctx, bson.M{"code": code}).Decode(&c)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("cannot get coupon: %w", err)
	}
	return &c, nil
}

func (r *CouponRepo) List(ctx context.Context) ([]*coupon.Coupon, error) {
	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("cannot list coupons: %w", err)
	}
	defer cursor.Close(ctx)

	var result []*coupon.Coupon
	if err := cursor.All(ctx, &result); err != nil {
		return nil, fmt.Errorf("cannot decode coupons: %w", err)
	}

	return result, nil
}

func (r *CouponRepo) DeleteByCode(ctx context.Context, code string) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"code": code})
	if err != nil {
		return fmt.Errorf("cannot delete coupon: %w", err)
	}

	if result.DeletedCount == 0 {
		return fmt.Errorf("coupon not found")
	}

	return nil
}
