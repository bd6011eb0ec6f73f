package seeding

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DemoMarker tags every document written by the demo seed.
const DemoMarker = "demo-seed"

// TableRef and DishRef are the slices of the floor collections the demo needs.
type TableRef struct {
	ID     string `bson:"_id"`
	Number int    `bson:"number"`
}

type DishRef struct {
	ID    string               `bson:"_id"`
	Name  string               `bson:"name"`
	Price primitive.Decimal128 `bson:"price"`
}

type demoLine struct {
	dish     int
	quantity int
}

type demoOrder struct {
	customer string
	dineIn   bool
	status   string
	daysAgo  int
	minsAgo  int
	lines    []demoLine
}

// The script spreads orders over today and yesterday so the dashboard deltas
// have something to compare.
var demoScript = []demoOrder{
	{customer: "Ana Torres", dineIn: true, status: "Pending", minsAgo: 12, lines: []demoLine{{0, 2}, {3, 2}}},
	{customer: "Bruno Diaz", dineIn: true, status: "In Progress", minsAgo: 25, lines: []demoLine{{1, 1}, {2, 1}}},
	{customer: "Carla Mendez", status: "Ready", minsAgo: 40, lines: []demoLine{{2, 3}}},
	{customer: "Diego Ruiz", dineIn: true, status: "Completed", minsAgo: 95, lines: []demoLine{{0, 1}, {1, 2}, {4, 2}}},
	{customer: "Elena Sosa", status: "Completed", minsAgo: 150, lines: []demoLine{{3, 4}}},
	{customer: "Fede Gomez", dineIn: true, status: "Cancelled", minsAgo: 180, lines: []demoLine{{1, 1}}},
	{customer: "Gala Ortiz", dineIn: true, status: "Completed", daysAgo: 1, minsAgo: 60, lines: []demoLine{{0, 2}, {2, 2}}},
	{customer: "Hugo Paz", status: "Completed", daysAgo: 1, minsAgo: 200, lines: []demoLine{{4, 1}}},
	{customer: "Ines Vera", dineIn: true, status: "Cancelled", daysAgo: 1, minsAgo: 300, lines: []demoLine{{1, 2}}},
}

// DemoOrders builds the order and earning documents of the demo script. Dishes
// and tables are picked round-robin so any non-empty menu works.
func DemoOrders(tables []TableRef, dishes []DishRef, now time.Time) (orders []bson.M, earnings []bson.M, err error) {
	if len(dishes) == 0 {
		return nil, nil, fmt.Errorf("need at least one dish for demo orders")
	}
	if len(tables) == 0 {
		return nil, nil, fmt.Errorf("need at least one table for demo orders")
	}

	tableIdx := 0
	for _, script := range demoScript {
		created := now.AddDate(0, 0, -script.daysAgo).Add(-time.Duration(script.minsAgo) * time.Minute)
		orderID := uuid.New().String()

		total := decimal.Zero
		items := make([]bson.M, 0, len(script.lines))
		for _, line := range script.lines {
			dish := dishes[line.dish%len(dishes)]
			price, err := decimal.NewFromString(dish.Price.String())
			if err != nil {
				return nil, nil, fmt.Errorf("dish %s has invalid price: %w", dish.Name, err)
			}
			total = total.Add(price.Mul(decimal.NewFromInt(int64(line.quantity))))
			items = append(items, bson.M{
				"dish_id":  dish.ID,
				"name":     dish.Name,
				"price":    dish.Price,
				"quantity": line.quantity,
			})
		}

		amount, err := primitive.ParseDecimal128(total.String())
		if err != nil {
			return nil, nil, fmt.Errorf("cannot encode total: %w", err)
		}

		orderType := "Takeaway"
		var tableID interface{}
		if script.dineIn {
			orderType = "Dine In"
			tableID = tables[tableIdx%len(tables)].ID
			tableIdx++
		}

		orders = append(orders, bson.M{
			"_id":           orderID,
			"customer_name": script.customer,
			"order_type":    orderType,
			"table_id":      tableID,
			"items":         items,
			"status":        script.status,
			"total_amount":  amount,
			"created_at":    created,
			"updated_at":    created,
			"created_by":    DemoMarker,
		})

		if script.status == "Completed" {
			y, m, d := created.Date()
			earnings = append(earnings, bson.M{
				"_id":          uuid.New().String(),
				"date":         time.Date(y, m, d, 0, 0, 0, 0, created.Location()),
				"amount":       amount,
				"order_id":     orderID,
				"completed_at": created,
				"created_by":   DemoMarker,
			})
		}
	}

	return orders, earnings, nil
}

// SeedOrders writes the demo orders against the tables and dishes already in db.
func SeedOrders(ctx context.Context, db *mongo.Database, now time.Time) (int, error) {
	var tables []TableRef
	if err := findAll(ctx, db.Collection("tables"), bson.M{}, &tables); err != nil {
		return 0, fmt.Errorf("cannot fetch tables: %w", err)
	}

	var dishes []DishRef
	if err := findAll(ctx, db.Collection("dishes"), bson.M{"available": true}, &dishes); err != nil {
		return 0, fmt.Errorf("cannot fetch dishes: %w", err)
	}

	orders, earnings, err := DemoOrders(tables, dishes, now)
	if err != nil {
		return 0, err
	}

	ordersCollection := db.Collection("orders")
	for _, o := range orders {
		_, err := ordersCollection.UpdateOne(ctx, bson.M{"_id": o["_id"]}, bson.M{"$setOnInsert": o}, options.Update().SetUpsert(true))
		if err != nil {
			return 0, fmt.Errorf("cannot create demo order for %s: %w", o["customer_name"], err)
		}
	}

	earningsCollection := db.Collection("earnings")
	for _, e := range earnings {
		_, err := earningsCollection.UpdateOne(ctx, bson.M{"order_id": e["order_id"]}, bson.M{"$setOnInsert": e}, options.Update().SetUpsert(true))
		if err != nil {
			return 0, fmt.Errorf("cannot create demo earning: %w", err)
		}
	}

	return len(orders), nil
}

func findAll(ctx context.Context, coll *mongo.Collection, filter bson.M, out interface{}) error {
	cursor, err := coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return err
	}
	defer cursor.Close(ctx)
	return cursor.All(ctx, out)
}
