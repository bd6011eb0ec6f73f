package mongo

import (
	"context"
	"fmt"

	"github.com/aquamarinepk/aqm"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/appetiteclub/floor/services/floor/internal/floor"
)

func (g *Gateway) ListDishes(ctx context.Context) ([]floor.Dish, error) {
	cursor, err := g.dishes.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("cannot list dishes: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []dishDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("cannot decode dishes: %w", err)
	}

	dishes := make([]floor.Dish, 0, len(docs))
	for _, d := range docs {
		dish, err := d.toDomain()
		if err != nil {
			return nil, err
		}
		dishes = append(dishes, dish)
	}
	return dishes, nil
}

func (g *Gateway) CreateDish(ctx context.Context, spec floor.DishSpec) (*floor.Dish, error) {
	dish := floor.NewDish(spec)

	if _, err := g.dishes.InsertOne(ctx, newDishDoc(*dish)); err != nil {
		return nil, fmt.Errorf("cannot create dish: %w", err)
	}

	return dish, nil
}

func (g *Gateway) ListCategories(ctx context.Context) ([]floor.Category, error) {
	cursor, err := g.categories.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("cannot list categories: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []categoryDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("cannot decode categories: %w", err)
	}

	categories := make([]floor.Category, 0, len(docs))
	for _, d := range docs {
		c, err := d.toDomain()
		if err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, nil
}

func (g *Gateway) CreateCategory(ctx context.Context, spec floor.CategorySpec) (*floor.Category, error) {
	category := floor.NewCategory(spec)

	if _, err := g.categories.InsertOne(ctx, newCategoryDoc(*category)); err != nil {
		if isDuplicate(err) {
			return nil, fmt.Errorf("category %q already exists: %w", spec.Name, err)
		}
		return nil, fmt.Errorf("cannot create category: %w", err)
	}

	return category, nil
}

func (g *Gateway) ListCustomers(ctx context.Context) ([]floor.Customer, error) {
	cursor, err := g.customers.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("cannot list customers: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []customerDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("cannot decode customers: %w", err)
	}

	customers := make([]floor.Customer, 0, len(docs))
	for _, d := range docs {
		c, err := d.toDomain()
		if err != nil {
			return nil, err
		}
		customers = append(customers, c)
	}
	return customers, nil
}

func (g *Gateway) CreateCustomer(ctx context.Context, spec floor.CustomerSpec) (*floor.Customer, error) {
	customer := floor.NewCustomer(spec)

	if _, err := g.customers.InsertOne(ctx, newCustomerDoc(*customer)); err != nil {
		return nil, fmt.Errorf("cannot create customer: %w", err)
	}

	return customer, nil
}

func (g *Gateway) ListEarnings(ctx context.Context) ([]floor.Earning, error) {
	cursor, err := g.earnings.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "date", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("cannot list earnings: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []earningDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("cannot decode earnings: %w", err)
	}

	earnings := make([]floor.Earning, 0, len(docs))
	for _, d := range docs {
		e, err := d.toDomain()
		if err != nil {
			return nil, err
		}
		earnings = append(earnings, e)
	}
	return earnings, nil
}

// UpsertEarning keys on the order reference when present, otherwise on the
// earning id.
func (g *Gateway) UpsertEarning(ctx context.Context, e floor.Earning) (bool, error) {
	newID := e.ID
	if newID == uuid.Nil {
		newID = aqm.GenerateNewID()
	}

	filter := bson.M{"_id": newID.String()}
	if e.OrderID != nil {
		filter = bson.M{"order_id": e.OrderID.String()}
	}

	set := bson.M{
		"date":   e.Date,
		"amount": toDecimal128(e.Amount),
	}
	if e.OrderID != nil {
		set["order_id"] = e.OrderID.String()
	}
	if e.CompletedAt != nil {
		set["completed_at"] = *e.CompletedAt
	}

	update := bson.M{
		"$set":         set,
		"$setOnInsert": bson.M{"_id": newID.String()},
	}

	result, err := g.earnings.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return false, fmt.Errorf("cannot upsert earning: %w", err)
	}
	return result.UpsertedCount > 0, nil
}
