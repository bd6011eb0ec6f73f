package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/appetiteclub/floor/services/floor/internal/floor"
	"github.com/aquamarinepk/aqm"
	"github.com/google/uuid"
)

// Gateway implements floor.Gateway against an HTTP record store that answers
// with the aqm response envelope.
type Gateway struct {
	client *aqm.ServiceClient
	ids    *idRegistry
	logger aqm.Logger
}

var _ floor.Gateway = (*Gateway)(nil)

// NewGateway builds a gateway for the store at services.store.url.
func NewGateway(config *aqm.Config, logger aqm.Logger) (*Gateway, error) {
	storeURL, _ := config.GetString("services.store.url")
	if storeURL == "" {
		return nil, fmt.Errorf("services.store.url is required")
	}

	client := aqm.NewServiceClient(storeURL)
	if client == nil {
		return nil, fmt.Errorf("failed to create store service client")
	}

	return NewGatewayWithClient(client, logger), nil
}

func NewGatewayWithClient(client *aqm.ServiceClient, logger aqm.Logger) *Gateway {
	if logger == nil {
		logger = aqm.NewNoopLogger()
	}
	return &Gateway{
		client: client,
		ids:    newIDRegistry(),
		logger: logger,
	}
}

// Tables

func (g *Gateway) ListTables(ctx context.Context) ([]floor.Table, error) {
	var raw []tableResource
	if err := g.list(ctx, resTables, &raw); err != nil {
		return nil, err
	}

	tables := make([]floor.Table, 0, len(raw))
	for _, r := range raw {
		t, err := g.toTable(r)
		if err != nil {
			return nil, err
		}
		tables = append(tables, t)
	}
	return tables, nil
}

func (g *Gateway) CreateTable(ctx context.Context, spec floor.TableSpec) (*floor.Table, error) {
	resp, err := g.client.Create(ctx, resTables, g.tableCreatePayload(spec))
	if err != nil {
		return nil, classify("create table", err)
	}
	return g.decodeTable(resp)
}

func (g *Gateway) PatchTable(ctx context.Context, id uuid.UUID, patch floor.TablePatch) (*floor.Table, error) {
	path := fmt.Sprintf("/%s/%s", resTables, g.ids.wire(id))
	resp, err := g.client.Request(ctx, "PATCH", path, g.tablePatchPayload(patch))
	if err != nil {
		return nil, classify("patch table", err)
	}
	return g.decodeTable(resp)
}

func (g *Gateway) DeleteTable(ctx context.Context, id uuid.UUID) error {
	if err := g.client.Delete(ctx, resTables, g.ids.wire(id)); err != nil {
		return classify("delete table", err)
	}
	return nil
}

func (g *Gateway) BookTable(ctx context.Context, id uuid.UUID, customer string, at time.Time) (*floor.Table, error) {
	path := fmt.Sprintf("/%s/%s/book", resTables, g.ids.wire(id))
	payload := map[string]interface{}{
		"customer_name": customer,
		"booking_time":  at.UTC().Format(time.RFC3339),
	}
	resp, err := g.client.Request(ctx, "POST", path, payload)
	if err != nil {
		return nil, classify("book table", err)
	}
	return g.decodeTable(resp)
}

func (g *Gateway) decodeTable(resp *aqm.SuccessResponse) (*floor.Table, error) {
	if resp == nil || resp.Data == nil {
		return nil, nil
	}
	var r tableResource
	if err := decodeSuccessResponse(resp, &r); err != nil {
		return nil, fmt.Errorf("decode table: %w", err)
	}
	t, err := g.toTable(r)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Orders

func (g *Gateway) ListOrders(ctx context.Context) ([]floor.Order, error) {
	var raw []orderResource
	if err := g.list(ctx, resOrders, &raw); err != nil {
		return nil, err
	}

	orders := make([]floor.Order, 0, len(raw))
	for _, r := range raw {
		o, err := g.toOrder(r)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, nil
}

func (g *Gateway) CreateOrder(ctx context.Context, spec floor.OrderSpec) (*floor.Order, error) {
	resp, err := g.client.Create(ctx, resOrders, g.orderCreatePayload(spec))
	if err != nil {
		return nil, classify("create order", err)
	}
	order, err := g.decodeOrder(resp)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, errors.New("create order: empty response")
	}
	return order, nil
}

func (g *Gateway) PatchOrderStatus(ctx context.Context, id uuid.UUID, status floor.OrderStatus) error {
	path := fmt.Sprintf("/%s/%s", resOrders, g.ids.wire(id))
	if _, err := g.client.Request(ctx, "PATCH", path, map[string]interface{}{"status": string(status)}); err != nil {
		return classify("patch order status", err)
	}
	return nil
}

func (g *Gateway) PatchOrderItems(ctx context.Context, id uuid.UUID, items []floor.OrderItem) (*floor.Order, error) {
	path := fmt.Sprintf("/%s/%s", resOrders, g.ids.wire(id))
	resp, err := g.client.Request(ctx, "PATCH", path, map[string]interface{}{"items": g.itemsPayload(items)})
	if err != nil {
		return nil, classify("patch order items", err)
	}
	return g.decodeOrder(resp)
}

func (g *Gateway) DeleteOrder(ctx context.Context, id uuid.UUID) error {
	if err := g.client.Delete(ctx, resOrders, g.ids.wire(id)); err != nil {
		return classify("delete order", err)
	}
	return nil
}

func (g *Gateway) decodeOrder(resp *aqm.SuccessResponse) (*floor.Order, error) {
	if resp == nil || resp.Data == nil {
		return nil, nil
	}
	var r orderResource
	if err := decodeSuccessResponse(resp, &r); err != nil {
		return nil, fmt.Errorf("decode order: %w", err)
	}
	o, err := g.toOrder(r)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// Menu

func (g *Gateway) ListDishes(ctx context.Context) ([]floor.Dish, error) {
	var raw []dishResource
	if err := g.list(ctx, resDishes, &raw); err != nil {
		return nil, err
	}

	dishes := make([]floor.Dish, 0, len(raw))
	for _, r := range raw {
		d, err := g.toDish(r)
		if err != nil {
			return nil, err
		}
		dishes = append(dishes, d)
	}
	return dishes, nil
}

func (g *Gateway) CreateDish(ctx context.Context, spec floor.DishSpec) (*floor.Dish, error) {
	resp, err := g.client.Create(ctx, resDishes, g.dishPayload(spec))
	if err != nil {
		return nil, classify("create dish", err)
	}
	var r dishResource
	if err := decodeSuccessResponse(resp, &r); err != nil {
		return nil, fmt.Errorf("decode dish: %w", err)
	}
	d, err := g.toDish(r)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (g *Gateway) ListCategories(ctx context.Context) ([]floor.Category, error) {
	var raw []categoryResource
	if err := g.list(ctx, resCategories, &raw); err != nil {
		return nil, err
	}

	categories := make([]floor.Category, 0, len(raw))
	for _, r := range raw {
		c, err := g.toCategory(r)
		if err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, nil
}

func (g *Gateway) CreateCategory(ctx context.Context, spec floor.CategorySpec) (*floor.Category, error) {
	resp, err := g.client.Create(ctx, resCategories, spec)
	if err != nil {
		return nil, classify("create category", err)
	}
	var r categoryResource
	if err := decodeSuccessResponse(resp, &r); err != nil {
		return nil, fmt.Errorf("decode category: %w", err)
	}
	c, err := g.toCategory(r)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Customers

func (g *Gateway) ListCustomers(ctx context.Context) ([]floor.Customer, error) {
	var raw []customerResource
	if err := g.list(ctx, resCustomers, &raw); err != nil {
		return nil, err
	}

	customers := make([]floor.Customer, 0, len(raw))
	for _, r := range raw {
		c, err := g.toCustomer(r)
		if err != nil {
			return nil, err
		}
		customers = append(customers, c)
	}
	return customers, nil
}

func (g *Gateway) CreateCustomer(ctx context.Context, spec floor.CustomerSpec) (*floor.Customer, error) {
	resp, err := g.client.Create(ctx, resCustomers, spec)
	if err != nil {
		return nil, classify("create customer", err)
	}
	var r customerResource
	if err := decodeSuccessResponse(resp, &r); err != nil {
		return nil, fmt.Errorf("decode customer: %w", err)
	}
	c, err := g.toCustomer(r)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Earnings

func (g *Gateway) ListEarnings(ctx context.Context) ([]floor.Earning, error) {
	var raw []earningResource
	if err := g.list(ctx, resEarnings, &raw); err != nil {
		return nil, err
	}

	earnings := make([]floor.Earning, 0, len(raw))
	for _, r := range raw {
		e, err := g.toEarning(r)
		if err != nil {
			return nil, err
		}
		earnings = append(earnings, e)
	}
	return earnings, nil
}

// UpsertEarning updates the earning when its id is known and creates it
// otherwise.
func (g *Gateway) UpsertEarning(ctx context.Context, e floor.Earning) (bool, error) {
	payload := g.earningPayload(e)
	if knownID(e.ID) {
		if _, err := g.client.Update(ctx, resEarnings, g.ids.wire(e.ID), payload); err != nil {
			return false, classify("update earning", err)
		}
		return false, nil
	}

	if _, err := g.client.Create(ctx, resEarnings, payload); err != nil {
		return false, classify("create earning", err)
	}
	return true, nil
}

// Helpers

func (g *Gateway) list(ctx context.Context, resource string, dest interface{}) error {
	resp, err := g.client.List(ctx, resource)
	if err != nil {
		return classify("list "+resource, err)
	}
	if err := decodeSuccessResponse(resp, dest); err != nil {
		return fmt.Errorf("decode %s: %w", resource, err)
	}
	return nil
}

// decodeSuccessResponse copies the dynamic response payload into dest.
func decodeSuccessResponse(resp *aqm.SuccessResponse, dest interface{}) error {
	if resp == nil {
		return errors.New("nil success response")
	}

	raw, err := json.Marshal(resp.Data)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(raw, dest); err != nil {
		return err
	}

	return nil
}

// classify marks missing-record failures with floor.ErrNotFound. The service
// client only reports the status in its error text.
func classify(op string, err error) error {
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "404") || strings.Contains(msg, "not found") {
		return fmt.Errorf("%s: %w: %v", op, floor.ErrNotFound, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
