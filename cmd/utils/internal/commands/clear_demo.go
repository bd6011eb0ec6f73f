package commands

import (
	"context"
	"fmt"

	"github.com/appetiteclub/floor/cmd/utils/internal/seeding"
	"github.com/aquamarinepk/aqm"
	"go.mongodb.org/mongo-driver/bson"
)

// ClearDemo removes the demo orders and their earnings.
func ClearDemo(ctx context.Context, config *aqm.Config, logger aqm.Logger) error {
	logger.Info("Starting demo data cleanup...")

	client, db, err := connect(ctx, config, logger)
	if err != nil {
		return err
	}
	defer client.Disconnect(ctx)

	filter := bson.M{"created_by": seeding.DemoMarker}

	earningsResult, err := db.Collection("earnings").DeleteMany(ctx, filter)
	if err != nil {
		return fmt.Errorf("delete demo earnings: %w", err)
	}
	logger.Info("Deleted demo earnings", "count", earningsResult.DeletedCount)

	ordersResult, err := db.Collection("orders").DeleteMany(ctx, filter)
	if err != nil {
		return fmt.Errorf("delete demo orders: %w", err)
	}
	logger.Info("Deleted demo orders", "count", ordersResult.DeletedCount)

	if _, err := db.Collection("_seeds").DeleteOne(ctx, bson.M{"_id": demoOrdersSeedID}); err != nil {
		return fmt.Errorf("delete seed marker: %w", err)
	}

	return nil
}
