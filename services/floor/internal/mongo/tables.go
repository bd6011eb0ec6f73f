package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/appetiteclub/floor/services/floor/internal/floor"
)

func (g *Gateway) ListTables(ctx context.Context) ([]floor.Table, error) {
	cursor, err := g.tables.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "number", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("cannot list tables: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []tableDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("cannot decode tables: %w", err)
	}

	tables := make([]floor.Table, 0, len(docs))
	for _, d := range docs {
		t, err := d.toDomain()
		if err != nil {
			return nil, err
		}
		tables = append(tables, t)
	}
	return tables, nil
}

func (g *Gateway) CreateTable(ctx context.Context, spec floor.TableSpec) (*floor.Table, error) {
	table := floor.NewTable(spec)

	if _, err := g.tables.InsertOne(ctx, newTableDoc(*table)); err != nil {
		if isDuplicate(err) {
			return nil, fmt.Errorf("table number %d already exists: %w", spec.Number, err)
		}
		return nil, fmt.Errorf("cannot create table: %w", err)
	}

	return table, nil
}

func (g *Gateway) PatchTable(ctx context.Context, id uuid.UUID, patch floor.TablePatch) (*floor.Table, error) {
	return g.updateTable(ctx, bson.M{"_id": id.String()}, tableUpdate(patch))
}

func (g *Gateway) DeleteTable(ctx context.Context, id uuid.UUID) error {
	result, err := g.tables.DeleteOne(ctx, bson.M{"_id": id.String()})
	if err != nil {
		return fmt.Errorf("cannot delete table: %w", err)
	}

	if result.DeletedCount == 0 {
		return notFound("table")
	}

	_, err = g.orders.UpdateMany(ctx,
		bson.M{"table_id": id.String()},
		bson.M{"$set": bson.M{"table_id": nil, "updated_at": time.Now()}})
	if err != nil {
		g.logger.Error("cannot detach orders from deleted table", "table_id", id.String(), "error", err)
	}

	return nil
}

// BookTable only matches tables that are not Occupied, so a concurrent occupy
// cannot be overwritten by a booking.
func (g *Gateway) BookTable(ctx context.Context, id uuid.UUID, customer string, at time.Time) (*floor.Table, error) {
	filter := bson.M{
		"_id":    id.String(),
		"status": bson.M{"$ne": string(floor.TableOccupied)},
	}
	update := bson.M{"$set": bson.M{
		"status":           string(floor.TableBooked),
		"customer":         customer,
		"reservation_time": at,
		"updated_at":       time.Now(),
	}}

	table, err := g.updateTable(ctx, filter, update)
	if err == nil || !errors.Is(err, floor.ErrNotFound) {
		return table, err
	}

	count, cerr := g.tables.CountDocuments(ctx, bson.M{"_id": id.String()})
	if cerr != nil {
		return nil, fmt.Errorf("cannot book table: %w", cerr)
	}
	if count > 0 {
		return nil, fmt.Errorf("table %s is occupied and cannot be booked", id)
	}
	return nil, err
}

func (g *Gateway) updateTable(ctx context.Context, filter, update bson.M) (*floor.Table, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc tableDoc
	err := g.tables.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, notFound("table")
		}
		if isDuplicate(err) {
			return nil, fmt.Errorf("table number already exists: %w", err)
		}
		return nil, fmt.Errorf("cannot update table: %w", err)
	}

	t, err := doc.toDomain()
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// tableUpdate turns a patch into $set/$unset operations. Anything but Booked
// drops the reservation fields.
func tableUpdate(p floor.TablePatch) bson.M {
	set := bson.M{"updated_at": time.Now()}
	unset := bson.M{}

	if p.Number != nil {
		set["number"] = *p.Number
	}
	if p.Seats != nil {
		set["seats"] = *p.Seats
	}
	if p.Status != nil {
		set["status"] = string(*p.Status)
	}
	if p.Customer != nil {
		if *p.Customer == "" {
			unset["customer"] = ""
		} else {
			set["customer"] = *p.Customer
		}
	}
	if p.ClearReservation {
		unset["reservation_time"] = ""
	} else if p.ReservationTime != nil {
		set["reservation_time"] = *p.ReservationTime
	}
	if p.Status != nil && *p.Status != floor.TableBooked {
		delete(set, "customer")
		delete(set, "reservation_time")
		unset["customer"] = ""
		unset["reservation_time"] = ""
	}

	update := bson.M{"$set": set}
	if len(unset) > 0 {
		update["$unset"] = unset
	}
	return update
}
