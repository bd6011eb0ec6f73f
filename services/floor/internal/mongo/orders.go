package mongo

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/appetiteclub/floor/services/floor/internal/floor"
)

func (g *Gateway) ListOrders(ctx context.Context) ([]floor.Order, error) {
	cursor, err := g.orders.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("cannot list orders: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []orderDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("cannot decode orders: %w", err)
	}

	orders := make([]floor.Order, 0, len(docs))
	for _, d := range docs {
		o, err := d.toDomain()
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, nil
}

func (g *Gateway) CreateOrder(ctx context.Context, spec floor.OrderSpec) (*floor.Order, error) {
	order := floor.NewOrder(spec)

	if _, err := g.orders.InsertOne(ctx, newOrderDoc(*order)); err != nil {
		return nil, fmt.Errorf("cannot create order: %w", err)
	}

	return order, nil
}

// PatchOrderStatus writes the status. A Completed order also gets its earning
// booked; when only that second write fails the error wraps
// floor.ErrPartialWrite.
func (g *Gateway) PatchOrderStatus(ctx context.Context, id uuid.UUID, status floor.OrderStatus) error {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	update := bson.M{"$set": bson.M{"status": string(status), "updated_at": time.Now()}}

	var doc orderDoc
	err := g.orders.FindOneAndUpdate(ctx, bson.M{"_id": id.String()}, update, opts).Decode(&doc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return notFound("order")
		}
		return fmt.Errorf("cannot update order status: %w", err)
	}

	if status != floor.OrderCompleted {
		return nil
	}

	order, err := doc.toDomain()
	if err != nil {
		return fmt.Errorf("%w: earning not booked: %w", floor.ErrPartialWrite, err)
	}
	if _, err := g.UpsertEarning(ctx, g.earningFor(order)); err != nil {
		return fmt.Errorf("%w: earning not booked: %w", floor.ErrPartialWrite, err)
	}
	return nil
}

func (g *Gateway) earningFor(o floor.Order) floor.Earning {
	return floor.EarningForOrder(o, g.loc)
}

func (g *Gateway) PatchOrderItems(ctx context.Context, id uuid.UUID, items []floor.OrderItem) (*floor.Order, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	update := bson.M{"$set": bson.M{
		"items":        newItemDocs(items),
		"total_amount": toDecimal128(floor.TotalOf(items)),
		"updated_at":   time.Now(),
	}}

	var doc orderDoc
	err := g.orders.FindOneAndUpdate(ctx, bson.M{"_id": id.String()}, update, opts).Decode(&doc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, notFound("order")
		}
		return nil, fmt.Errorf("cannot update order items: %w", err)
	}

	order, err := doc.toDomain()
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// DeleteOrder removes the order and the earning booked for it.
func (g *Gateway) DeleteOrder(ctx context.Context, id uuid.UUID) error {
	result, err := g.orders.DeleteOne(ctx, bson.M{"_id": id.String()})
	if err != nil {
		return fmt.Errorf("cannot delete order: %w", err)
	}

	if result.DeletedCount == 0 {
		return notFound("order")
	}

	if _, err := g.earnings.DeleteMany(ctx, bson.M{"order_id": id.String()}); err != nil {
		g.logger.Error("cannot delete earning of deleted order", "order_id", id.String(), "error", err)
	}

	return nil
}
