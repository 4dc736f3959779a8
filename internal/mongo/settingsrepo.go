package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/brewnote/cafepos/internal/settings"
)

type SettingsRepo struct {
	collection *mongo.Collection
}

func NewSettingsRepo(db *mongo.Database) *SettingsRepo {
	return &SettingsRepo{
		collection: db.Collection("settings"),
	}
}

// Current returns the single settings document, inserting the default one on
// first use so callers never see an empty collection.
func (r *SettingsRepo) Current(ctx context.Context) (*settings.Settings, error) {
	var s settings.Settings
	err := r.collection.FindOne(ctx, bson.M{}).Decode(&s)
	if err == nil {
		return &s, nil
	}

	if err != mongo.ErrNoDocuments {
		return nil, fmt.Errorf("cannot get settings: %w", err)
	}

	def := settings.NewSettings()
	def.BeforeCreate()
	if _, err := r.collection.InsertOne(ctx, def); err != nil {
		return nil, fmt.Errorf("cannot create default settings: %w", err)
	}

	return def, nil
}

func (r *SettingsRepo) Save(ctx context.Context, s *settings.Settings) error {
	if s == nil {
		return fmt.Errorf("settings is nil")
	}

	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": s.ID}, s)
	if err != nil {
		return fmt.Errorf("cannot update settings: %w", err)
	}

	if result.MatchedCount == 0 {
		return fmt.Errorf("settings not found")
	}

	return nil
}
