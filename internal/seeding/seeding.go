package seeding

import (
	"context"
	"fmt"

	"github.com/appetiteclub/apt"
	"github.com/appetiteclub/apt/seed"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/brewnote/cafepos/internal/coupon"
	"github.com/brewnote/cafepos/internal/menu"
	"github.com/brewnote/cafepos/internal/settings"
	"github.com/brewnote/cafepos/internal/staff"
	"github.com/brewnote/cafepos/internal/tables"
)

// Seeds returns the demo data seeds for a fresh till database.
func Seeds(db *mongo.Database) []seed.Seed {
	return []seed.Seed{
		{
			ID:          "2026-08-01_staff_accounts",
			Description: "Create default staff accounts including the hidden root user",
			Run: func(ctx context.Context) error {
				return seedStaff(ctx, db)
			},
		},
		{
			ID:          "2026-08-01_menu_items",
			Description: "Seed a small representative café menu",
			Run: func(ctx context.Context) error {
				return seedMenu(ctx, db)
			},
		},
		{
			ID:          "2026-08-01_tables",
			Description: "Seed the floor tables",
			Run: func(ctx context.Context) error {
				return seedTables(ctx, db)
			},
		},
		{
			ID:          "2026-08-01_coupons",
			Description: "Seed the welcome coupon",
			Run: func(ctx context.Context) error {
				return seedCoupons(ctx, db)
			},
		},
		{
			ID:          "2026-08-01_settings",
			Description: "Create the settings document with tax enabled at 10%",
			Run: func(ctx context.Context) error {
				return seedSettings(ctx, db)
			},
		},
	}
}

func seedStaff(ctx context.Context, db *mongo.Database) error {
	collection := db.Collection("users")

	accounts := []struct {
		Username string
		Password string
		Role     string
		Hidden   bool
	}{
		{"root", "root", staff.RoleAdmin, true},
		{"admin", "admin123", staff.RoleAdmin, false},
		{"mara", "waiter123", staff.RoleWaiter, false},
		{"tomas", "chef123", staff.RoleChef, false},
	}

	for _, a := range accounts {
		user := staff.NewUser(a.Username, a.Role)
		user.Hidden = a.Hidden
		if err := user.SetPassword(a.Password); err != nil {
			return fmt.Errorf("hash password for %s: %w", a.Username, err)
		}
		user.BeforeCreate()

		filter := bson.M{"username": a.Username}
		update := bson.M{"$setOnInsert": user}
		if _, err := collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true)); err != nil {
			return fmt.Errorf("seed user %s: %w", a.Username, err)
		}
	}

	return nil
}

func seedMenu(ctx context.Context, db *mongo.Database) error {
	collection := db.Collection("menu_items")

	items := []struct {
		Category    string
		Name        string
		Description string
		Price       float64
		Featured    bool
	}{
		{"coffee", "Espresso", "Double shot espresso", 3.50, false},
		{"coffee", "Cappuccino", "Espresso with steamed milk and foam", 4.50, true},
		{"coffee", "Flat White", "Espresso with velvety milk", 4.80, false},
		{"food", "Avocado Toast", "Sourdough, smashed avocado, chili flakes", 9.50, true},
		{"food", "Club Sandwich", "Chicken, bacon, tomato, aioli", 11.00, false},
		{"food", "Shakshuka", "Eggs poached in spiced tomato sauce", 10.50, false},
		{"pastry", "Butter Croissant", "Baked fresh each morning", 3.80, false},
		{"pastry", "Cinnamon Roll", "House-made with cream cheese glaze", 4.20, false},
		{"drinks", "Fresh Orange Juice", "Pressed to order", 5.00, false},
		{"drinks", "Sparkling Water", "Chilled bottled sparkling water", 3.00, false},
	}

	for _, entry := range items {
		item := menu.NewMenuItem()
		item.Category = entry.Category
		item.Name = entry.Name
		item.Description = entry.Description
		item.Price = entry.Price
		item.Featured = entry.Featured
		item.BeforeCreate()

		filter := bson.M{"name": entry.Name}
		update := bson.M{"$setOnInsert": item}
		if _, err := collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true)); err != nil {
			return fmt.Errorf("seed menu item %s: %w", entry.Name, err)
		}
	}

	return nil
}

func seedTables(ctx context.Context, db *mongo.Database) error {
	collection := db.Collection("tables")

	for i := 1; i <= 8; i++ {
		name := fmt.Sprintf("Table %d", i)

		table := tables.NewTable(name)
		table.BeforeCreate()

		filter := bson.M{"name": name}
		update := bson.M{"$setOnInsert": table}
		if _, err := collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true)); err != nil {
			return fmt.Errorf("seed table %s: %w", name, err)
		}
	}

	return nil
}

func seedCoupons(ctx context.Context, db *mongo.Database) error {
	collection := db.Collection("coupons")

	c := coupon.NewCoupon("WELCOME10")
	c.Type = coupon.TypePercent
	c.Value = 10
	c.Active = true
	c.BeforeCreate()

	filter := bson.M{"code": c.Code}
	update := bson.M{"$setOnInsert": c}
	if _, err := collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true)); err != nil {
		return fmt.Errorf("seed coupon %s: %w", c.Code, err)
	}

	return nil
}

func seedSettings(ctx context.Context, db *mongo.Database) error {
	collection := db.Collection("settings")

	count, err := collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return fmt.Errorf("count settings: %w", err)
	}
	if count > 0 {
		return nil
	}

	s := settings.NewSettings()
	s.TaxEnabled = true
	s.TaxRate = 10
	s.BeforeCreate()

	if _, err := collection.InsertOne(ctx, s); err != nil {
		return fmt.Errorf("seed settings: %w", err)
	}

	return nil
}

// SeedingFunc returns a startup hook that applies all pending seeds.
func SeedingFunc(appName string, dbFn func() *mongo.Database, logger apt.Logger) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		logger.Info("Applying database seeds...")
		db := dbFn()
		tracker := seed.NewMongoTracker(db)
		seeds := Seeds(db)
		if err := seed.Apply(ctx, tracker, seeds, appName); err != nil {
			return fmt.Errorf("apply seeds: %w", err)
		}
		logger.Info("Database seeds applied successfully")
		return nil
	}
}
