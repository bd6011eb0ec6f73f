package remote

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/appetiteclub/floor/services/floor/internal/floor"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	resTables     = "tables"
	resOrders     = "orders"
	resDishes     = "dishes"
	resCategories = "categories"
	resCustomers  = "customers"
	resEarnings   = "earnings"
)

// wireTime accepts RFC 3339 timestamps and bare dates.
type wireTime struct {
	time.Time
}

var wireTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func (w *wireTime) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		w.Time = time.Time{}
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("timestamp must be a string: %w", err)
	}
	s = strings.TrimSpace(s)
	if s == "" {
		w.Time = time.Time{}
		return nil
	}
	for _, layout := range wireTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			w.Time = t
			return nil
		}
	}
	return fmt.Errorf("unrecognized timestamp %q", s)
}

func (w *wireTime) ptr() *time.Time {
	if w == nil || w.IsZero() {
		return nil
	}
	t := w.Time
	return &t
}

type tableResource struct {
	ID           wireID    `json:"id"`
	TableNumber  wireID    `json:"table_number"`
	Seats        int       `json:"seats"`
	Status       string    `json:"status"`
	CustomerName *string   `json:"customer_name"`
	BookingTime  *wireTime `json:"booking_time"`
	CreatedAt    wireTime  `json:"created_at"`
	UpdatedAt    wireTime  `json:"updated_at"`
}

type orderItemResource struct {
	Dish     wireID          `json:"dish"`
	DishName string          `json:"dish_name"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
	Notes    string          `json:"notes"`
}

type orderResource struct {
	ID           wireID              `json:"id"`
	Table        wireID              `json:"table"`
	CustomerName string              `json:"customer_name"`
	Status       string              `json:"status"`
	OrderType    string              `json:"order_type"`
	TotalAmount  decimal.Decimal     `json:"total_amount"`
	Items        []orderItemResource `json:"items"`
	CreatedAt    wireTime            `json:"created_at"`
	UpdatedAt    wireTime            `json:"updated_at"`
}

type dishResource struct {
	ID              wireID          `json:"id"`
	Name            string          `json:"name"`
	Description     string          `json:"description"`
	Price           decimal.Decimal `json:"price"`
	Category        wireID          `json:"category"`
	Available       *bool           `json:"available"`
	IsVeg           bool            `json:"is_veg"`
	PreparationTime int             `json:"preparation_time"`
	CreatedAt       wireTime        `json:"created_at"`
	UpdatedAt       wireTime        `json:"updated_at"`
}

type categoryResource struct {
	ID        wireID   `json:"id"`
	Name      string   `json:"name"`
	Emoji     string   `json:"emoji"`
	Color     string   `json:"color"`
	CreatedAt wireTime `json:"created_at"`
	UpdatedAt wireTime `json:"updated_at"`
}

type customerResource struct {
	ID          wireID   `json:"id"`
	Name        string   `json:"name"`
	Phone       string   `json:"phone"`
	Email       string   `json:"email"`
	TotalOrders int      `json:"total_orders"`
	CreatedAt   wireTime `json:"created_at"`
	UpdatedAt   wireTime `json:"updated_at"`
}

type earningResource struct {
	ID          wireID          `json:"id"`
	Date        wireTime        `json:"date"`
	Amount      decimal.Decimal `json:"amount"`
	Order       wireID          `json:"order"`
	CompletedAt *wireTime       `json:"completed_at"`
}

func (g *Gateway) toTable(r tableResource) (floor.Table, error) {
	id, err := g.ids.canonical(resTables, r.ID)
	if err != nil {
		return floor.Table{}, err
	}

	number, err := tableNumber(r.TableNumber)
	if err != nil {
		return floor.Table{}, fmt.Errorf("table %s: %w", r.ID, err)
	}

	t := floor.Table{
		ID:        id,
		Number:    number,
		Seats:     r.Seats,
		Status:    floor.TableStatus(r.Status),
		CreatedAt: r.CreatedAt.Time,
		UpdatedAt: r.UpdatedAt.Time,
	}
	if !t.Status.Valid() {
		return floor.Table{}, fmt.Errorf("table %s: unknown status %q", r.ID, r.Status)
	}
	if r.CustomerName != nil {
		t.Customer = *r.CustomerName
	}
	t.ReservationTime = r.BookingTime.ptr()
	return t, nil
}

// tableNumber reads numbers stored as text, tolerating a leading label such as
// "T3".
func tableNumber(raw wireID) (int, error) {
	s := strings.TrimLeftFunc(string(raw), func(r rune) bool { return r < '0' || r > '9' })
	var n int
	if _, err := fmt.Sscanf(s, "%d", &n); err != nil || n <= 0 {
		return 0, fmt.Errorf("table_number %q is not a positive number", string(raw))
	}
	return n, nil
}

func (g *Gateway) toOrder(r orderResource) (floor.Order, error) {
	id, err := g.ids.canonical(resOrders, r.ID)
	if err != nil {
		return floor.Order{}, err
	}
	tableID, err := g.ids.optional(resTables, r.Table)
	if err != nil {
		return floor.Order{}, err
	}

	items := make([]floor.OrderItem, 0, len(r.Items))
	for _, it := range r.Items {
		dishID, err := g.ids.canonical(resDishes, it.Dish)
		if err != nil {
			return floor.Order{}, fmt.Errorf("order %s: %w", r.ID, err)
		}
		items = append(items, floor.OrderItem{
			DishID:   dishID,
			Name:     it.DishName,
			Price:    unitPrice(it.Price, it.Quantity),
			Quantity: it.Quantity,
			Notes:    it.Notes,
		})
	}

	return floor.Order{
		ID:               id,
		CustomerName:     r.CustomerName,
		CustomerInitials: floor.Initials(r.CustomerName),
		Type:             floor.OrderType(r.OrderType),
		TableID:          tableID,
		Items:            items,
		Status:           floor.OrderStatus(r.Status),
		TotalAmount:      r.TotalAmount,
		CreatedAt:        r.CreatedAt.Time,
		UpdatedAt:        r.UpdatedAt.Time,
	}, nil
}

// unitPrice converts the stored line total back to a unit price.
func unitPrice(lineTotal decimal.Decimal, quantity int) decimal.Decimal {
	if quantity <= 0 {
		return lineTotal
	}
	return lineTotal.Div(decimal.NewFromInt(int64(quantity))).Round(2)
}

func (g *Gateway) toDish(r dishResource) (floor.Dish, error) {
	id, err := g.ids.canonical(resDishes, r.ID)
	if err != nil {
		return floor.Dish{}, err
	}
	categoryID, err := g.ids.canonical(resCategories, r.Category)
	if err != nil {
		return floor.Dish{}, fmt.Errorf("dish %s: %w", r.ID, err)
	}

	available := true
	if r.Available != nil {
		available = *r.Available
	}
	prep := r.PreparationTime
	if prep <= 0 {
		prep = floor.DefaultPreparationTime
	}

	return floor.Dish{
		ID:              id,
		Name:            r.Name,
		Description:     r.Description,
		Price:           r.Price,
		CategoryID:      categoryID,
		Available:       available,
		IsVeg:           r.IsVeg,
		PreparationTime: prep,
		CreatedAt:       r.CreatedAt.Time,
		UpdatedAt:       r.UpdatedAt.Time,
	}, nil
}

func (g *Gateway) toCategory(r categoryResource) (floor.Category, error) {
	id, err := g.ids.canonical(resCategories, r.ID)
	if err != nil {
		return floor.Category{}, err
	}
	return floor.Category{
		ID:        id,
		Name:      r.Name,
		Emoji:     r.Emoji,
		Color:     r.Color,
		CreatedAt: r.CreatedAt.Time,
		UpdatedAt: r.UpdatedAt.Time,
	}, nil
}

func (g *Gateway) toCustomer(r customerResource) (floor.Customer, error) {
	id, err := g.ids.canonical(resCustomers, r.ID)
	if err != nil {
		return floor.Customer{}, err
	}
	return floor.Customer{
		ID:          id,
		Name:        r.Name,
		Phone:       r.Phone,
		Email:       r.Email,
		TotalOrders: r.TotalOrders,
		CreatedAt:   r.CreatedAt.Time,
		UpdatedAt:   r.UpdatedAt.Time,
	}, nil
}

func (g *Gateway) toEarning(r earningResource) (floor.Earning, error) {
	id, err := g.ids.canonical(resEarnings, r.ID)
	if err != nil {
		return floor.Earning{}, err
	}
	orderID, err := g.ids.optional(resOrders, r.Order)
	if err != nil {
		return floor.Earning{}, err
	}
	return floor.Earning{
		ID:          id,
		Date:        r.Date.Time,
		Amount:      r.Amount,
		OrderID:     orderID,
		CompletedAt: r.CompletedAt.ptr(),
	}, nil
}

// Outbound payloads.

func (g *Gateway) tableCreatePayload(spec floor.TableSpec) map[string]interface{} {
	return map[string]interface{}{
		"table_number": fmt.Sprintf("%d", spec.Number),
		"seats":        spec.Seats,
		"status":       string(floor.TableAvailable),
	}
}

func (g *Gateway) tablePatchPayload(p floor.TablePatch) map[string]interface{} {
	payload := map[string]interface{}{}
	if p.Number != nil {
		payload["table_number"] = fmt.Sprintf("%d", *p.Number)
	}
	if p.Seats != nil {
		payload["seats"] = *p.Seats
	}
	if p.Status != nil {
		payload["status"] = string(*p.Status)
	}
	if p.Customer != nil {
		if *p.Customer == "" {
			payload["customer_name"] = nil
		} else {
			payload["customer_name"] = *p.Customer
		}
	}
	if p.ClearReservation {
		payload["booking_time"] = nil
	} else if p.ReservationTime != nil {
		payload["booking_time"] = p.ReservationTime.UTC().Format(time.RFC3339)
	}
	return payload
}

func (g *Gateway) itemsPayload(items []floor.OrderItem) []map[string]interface{} {
	out := make([]map[string]interface{}, 0, len(items))
	for _, it := range items {
		line := map[string]interface{}{
			"dish":     g.ids.wireValue(it.DishID),
			"quantity": it.Quantity,
		}
		if it.Notes != "" {
			line["notes"] = it.Notes
		}
		out = append(out, line)
	}
	return out
}

func (g *Gateway) orderCreatePayload(spec floor.OrderSpec) map[string]interface{} {
	payload := map[string]interface{}{
		"customer_name": spec.CustomerName,
		"order_type":    string(spec.Type),
		"status":        string(spec.Status),
		"items":         g.itemsPayload(spec.Items),
	}
	if spec.TableID != nil {
		payload["table"] = g.ids.wireValue(*spec.TableID)
	}
	return payload
}

func (g *Gateway) dishPayload(spec floor.DishSpec) map[string]interface{} {
	return map[string]interface{}{
		"name":             spec.Name,
		"description":      spec.Description,
		"price":            spec.Price.StringFixed(2),
		"category":         g.ids.wireValue(spec.CategoryID),
		"is_veg":           spec.IsVeg,
		"preparation_time": spec.PreparationTime,
	}
}

func (g *Gateway) earningPayload(e floor.Earning) map[string]interface{} {
	payload := map[string]interface{}{
		"date":   e.Date.Format("2006-01-02"),
		"amount": e.Amount.StringFixed(2),
	}
	if e.OrderID != nil {
		payload["order"] = g.ids.wireValue(*e.OrderID)
	}
	if e.CompletedAt != nil {
		payload["completed_at"] = e.CompletedAt.UTC().Format(time.RFC3339)
	}
	return payload
}

func knownID(id uuid.UUID) bool {
	return id != uuid.Nil
}
