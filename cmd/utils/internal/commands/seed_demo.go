package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/appetiteclub/floor/cmd/utils/internal/seeding"
	"github.com/aquamarinepk/aqm"
	"go.mongodb.org/mongo-driver/bson"
)

const demoOrdersSeedID = "floor_demo_orders_v1"

// SeedDemo writes demo orders for today and yesterday on top of the tables and
// menu the floor service seeds at startup.
func SeedDemo(ctx context.Context, config *aqm.Config, logger aqm.Logger) error {
	logger.Info("Starting demo seeding process...")

	client, db, err := connect(ctx, config, logger)
	if err != nil {
		return err
	}
	defer client.Disconnect(ctx)

	seedsCollection := db.Collection("_seeds")
	count, err := seedsCollection.CountDocuments(ctx, bson.M{"_id": demoOrdersSeedID})
	if err != nil {
		return fmt.Errorf("check seed status: %w", err)
	}

	if count > 0 {
		logger.Info("Floor demo orders already applied, skipping")
		return nil
	}

	created, err := seeding.SeedOrders(ctx, db, time.Now())
	if err != nil {
		return fmt.Errorf("seed orders: %w", err)
	}

	_, err = seedsCollection.InsertOne(ctx, bson.M{
		"_id":         demoOrdersSeedID,
		"description": "Create demo orders across statuses for today and yesterday",
		"applied_at":  time.Now(),
	})
	if err != nil {
		logger.Infof("⚠️  Failed to mark seed as applied: %v", err)
	}

	logger.Info("Floor demo orders applied", "orders", created)
	return nil
}
