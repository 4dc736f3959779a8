package mongo

import (
	"context"
	"fmt"
	"regexp"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/brewnote/cafepos/internal/staff"
)

type UserRepo struct {
	collection *mongo.Collection
}

func NewUserRepo(db *mongo.Database) *UserRepo {
	return &UserRepo{
		collection: db.Collection("users"),
	}
}

func (r *UserRepo) Create(ctx context.Context, user *staff.User) error {
	if user == nil {
		return fmt.Errorf("user is nil")
	}

	if _, err := r.collection.InsertOne(ctx, user); err != nil {
		return fmt.Errorf("cannot create user: %w", err)
	}

	return nil
}

func (r *UserRepo) Get(ctx context.Context, id uuid.UUID) (*staff.User, error) {
	var user staff.User
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("cannot get user: %w", err)
	}
	return &user, nil
}

func (r *UserRepo) FindByUsername(ctx context.Context, username string) (*staff.User, error) {
	filter := bson.M{
		"username": primitive.Regex{
			Pattern: "^" + regexp.QuoteMeta(username) + "$",
			Options: "i",
		},
	}

	var user staff.User
	err := r.collection.FindOne(ctx, filter).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("cannot find user by username: %w", err)
	}
	return &user, nil
}

func (r *UserRepo) List(ctx context.Context) ([]*staff.User, error) {
	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("cannot list users: %w", err)
	}
	defer cursor.Close(ctx)

	var result []*staff.User
	if err := cursor.All(ctx, &result); err != nil {
		return nil, fmt.Errorf("cannot decode users: %w", err)
	}

	return result, nil
}

func (r *UserRepo) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("cannot delete user: %w", err)
	}

	if result.DeletedCount == 0 {
		return fmt.Errorf("user not found")
	}

	return nil
}
