package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aquamarinepk/aqm"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/appetiteclub/floor/services/floor/internal/floor"
)

const (
	collTables     = "tables"
	collOrders     = "orders"
	collDishes     = "dishes"
	collCategories = "categories"
	collCustomers  = "customers"
	collEarnings   = "earnings"
)

// Gateway implements floor.Gateway on MongoDB, one collection per entity.
type Gateway struct {
	client *mongo.Client
	db     *mongo.Database
	logger aqm.Logger
	config *aqm.Config
	loc    *time.Location

	tables     *mongo.Collection
	orders     *mongo.Collection
	dishes     *mongo.Collection
	categories *mongo.Collection
	customers  *mongo.Collection
	earnings   *mongo.Collection
}

var _ floor.Gateway = (*Gateway)(nil)

// NewGateway builds the gateway. loc is the calendar earnings are dated in; nil
// means local time.
func NewGateway(config *aqm.Config, logger aqm.Logger, loc *time.Location) *Gateway {
	if logger == nil {
		logger = aqm.NewNoopLogger()
	}
	if loc == nil {
		loc = time.Local
	}
	return &Gateway{
		logger: logger,
		config: config,
		loc:    loc,
	}
}

func (g *Gateway) Start(ctx context.Context) error {
	mongoURL, _ := g.config.GetString("db.mongo.url")
	connString := mongoURL
	if connString == "" {
		connString = "mongodb://localhost:27017"
	}

	dbName, _ := g.config.GetString("db.mongo.name")
	if dbName == "" {
		dbName = "floor"
	}

	clientOptions := options.Client().ApplyURI(connString).
		SetConnectTimeout(10 * time.Second).
		SetServerSelectionTimeout(10 * time.Second)

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return fmt.Errorf("cannot connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return fmt.Errorf("cannot ping MongoDB: %w", err)
	}

	g.client = client
	g.bind(client.Database(dbName))

	if err := g.ensureIndexes(ctx); err != nil {
		return err
	}

	g.logger.Infof("Connected to MongoDB: %s, database: %s", connString, dbName)
	return nil
}

func (g *Gateway) Stop(ctx context.Context) error {
	if g.client != nil {
		if err := g.client.Disconnect(ctx); err != nil {
			return fmt.Errorf("cannot disconnect from MongoDB: %w", err)
		}
		g.logger.Info("Disconnected from MongoDB")
	}
	return nil
}

func (g *Gateway) GetDatabase() *mongo.Database {
	return g.db
}

// Reset drops every floor collection and recreates the indexes.
func (g *Gateway) Reset(ctx context.Context) error {
	if g.db == nil {
		return errors.New("gateway not started")
	}
	for _, name := range []string{collTables, collOrders, collDishes, collCategories, collCustomers, collEarnings} {
		if err := g.db.Collection(name).Drop(ctx); err != nil {
			return fmt.Errorf("cannot drop %s: %w", name, err)
		}
	}
	return g.ensureIndexes(ctx)
}

func (g *Gateway) bind(db *mongo.Database) {
	g.db = db
	g.tables = db.Collection(collTables)
	g.orders = db.Collection(collOrders)
	g.dishes = db.Collection(collDishes)
	g.categories = db.Collection(collCategories)
	g.customers = db.Collection(collCustomers)
	g.earnings = db.Collection(collEarnings)
}

func (g *Gateway) ensureIndexes(ctx context.Context) error {
	indexes := []struct {
		coll  *mongo.Collection
		model mongo.IndexModel
	}{
		{g.tables, mongo.IndexModel{
			Keys:    bson.D{{Key: "number", Value: 1}},
			Options: options.Index().SetUnique(true),
		}},
		{g.orders, mongo.IndexModel{Keys: bson.D{{Key: "table_id", Value: 1}, {Key: "status", Value: 1}}}},
		{g.categories, mongo.IndexModel{
			Keys:    bson.D{{Key: "name", Value: 1}},
			Options: options.Index().SetUnique(true),
		}},
		{g.earnings, mongo.IndexModel{
			Keys:    bson.D{{Key: "order_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetSparse(true),
		}},
	}

	for _, idx := range indexes {
		if _, err := idx.coll.Indexes().CreateOne(ctx, idx.model); err != nil {
			return fmt.Errorf("cannot create index on %s: %w", idx.coll.Name(), err)
		}
	}
	return nil
}

func notFound(resource string) error {
	return fmt.Errorf("%s %w", resource, floor.ErrNotFound)
}

func isDuplicate(err error) bool {
	return mongo.IsDuplicateKeyError(err)
}
