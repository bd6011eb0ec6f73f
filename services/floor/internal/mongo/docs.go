package mongo

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/appetiteclub/floor/services/floor/internal/floor"
)

// Documents keep ids as strings and money as Decimal128.

type tableDoc struct {
	ID              string     `bson:"_id"`
	Number          int        `bson:"number"`
	Seats           int        `bson:"seats"`
	Status          string     `bson:"status"`
	Customer        string     `bson:"customer,omitempty"`
	ReservationTime *time.Time `bson:"reservation_time,omitempty"`
	CreatedAt       time.Time  `bson:"created_at"`
	UpdatedAt       time.Time  `bson:"updated_at"`
}

type orderItemDoc struct {
	DishID   string               `bson:"dish_id"`
	Name     string               `bson:"name"`
	Price    primitive.Decimal128 `bson:"price"`
	Quantity int                  `bson:"quantity"`
	Category string               `bson:"category,omitempty"`
	Notes    string               `bson:"notes,omitempty"`
}

type orderDoc struct {
	ID           string               `bson:"_id"`
	CustomerName string               `bson:"customer_name"`
	Type         string               `bson:"order_type"`
	TableID      *string              `bson:"table_id"`
	Items        []orderItemDoc       `bson:"items"`
	Status       string               `bson:"status"`
	TotalAmount  primitive.Decimal128 `bson:"total_amount"`
	CreatedAt    time.Time            `bson:"created_at"`
	UpdatedAt    time.Time            `bson:"updated_at"`
}

type dishDoc struct {
	ID              string               `bson:"_id"`
	Name            string               `bson:"name"`
	Description     string               `bson:"description,omitempty"`
	Price           primitive.Decimal128 `bson:"price"`
	CategoryID      string               `bson:"category_id"`
	Available       bool                 `bson:"available"`
	IsVeg           bool                 `bson:"is_veg"`
	PreparationTime int                  `bson:"preparation_time"`
	CreatedAt       time.Time            `bson:"created_at"`
	UpdatedAt       time.Time            `bson:"updated_at"`
}

type categoryDoc struct {
	ID        string    `bson:"_id"`
	Name      string    `bson:"name"`
	Emoji     string    `bson:"emoji,omitempty"`
	Color     string    `bson:"color,omitempty"`
	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
}

type customerDoc struct {
	ID          string    `bson:"_id"`
	Name        string    `bson:"name"`
	Phone       string    `bson:"phone,omitempty"`
	Email       string    `bson:"email,omitempty"`
	TotalOrders int       `bson:"total_orders"`
	CreatedAt   time.Time `bson:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at"`
}

type earningDoc struct {
	ID          string               `bson:"_id"`
	Date        time.Time            `bson:"date"`
	Amount      primitive.Decimal128 `bson:"amount"`
	OrderID     *string              `bson:"order_id,omitempty"`
	CompletedAt *time.Time           `bson:"completed_at,omitempty"`
}

func toDecimal128(d decimal.Decimal) primitive.Decimal128 {
	v, err := primitive.ParseDecimal128(d.String())
	if err != nil {
		return primitive.NewDecimal128(0, 0)
	}
	return v
}

func fromDecimal128(v primitive.Decimal128) decimal.Decimal {
	d, err := decimal.NewFromString(v.String())
	if err != nil {
		return decimal.Zero
	}
	return d
}

func parseID(resource, raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s has invalid id %q: %w", resource, raw, err)
	}
	return id, nil
}

func parseOptionalID(resource string, raw *string) (*uuid.UUID, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	id, err := parseID(resource, *raw)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func optionalString(id *uuid.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}

func newTableDoc(t floor.Table) tableDoc {
	return tableDoc{
		ID:              t.ID.String(),
		Number:          t.Number,
		Seats:           t.Seats,
		Status:          string(t.Status),
		Customer:        t.Customer,
		ReservationTime: t.ReservationTime,
		CreatedAt:       t.CreatedAt,
		UpdatedAt:       t.UpdatedAt,
	}
}

func (d tableDoc) toDomain() (floor.Table, error) {
	id, err := parseID("table", d.ID)
	if err != nil {
		return floor.Table{}, err
	}
	return floor.Table{
		ID:              id,
		Number:          d.Number,
		Seats:           d.Seats,
		Status:          floor.TableStatus(d.Status),
		Customer:        d.Customer,
		ReservationTime: d.ReservationTime,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}, nil
}

func newItemDocs(items []floor.OrderItem) []orderItemDoc {
	docs := make([]orderItemDoc, 0, len(items))
	for _, it := range items {
		docs = append(docs, orderItemDoc{
			DishID:   it.DishID.String(),
			Name:     it.Name,
			Price:    toDecimal128(it.Price),
			Quantity: it.Quantity,
			Category: it.Category,
			Notes:    it.Notes,
		})
	}
	return docs
}

func newOrderDoc(o floor.Order) orderDoc {
	return orderDoc{
		ID:           o.ID.String(),
		CustomerName: o.CustomerName,
		Type:         string(o.Type),
		TableID:      optionalString(o.TableID),
		Items:        newItemDocs(o.Items),
		Status:       string(o.Status),
		TotalAmount:  toDecimal128(o.TotalAmount),
		CreatedAt:    o.CreatedAt,
		UpdatedAt:    o.UpdatedAt,
	}
}

func (d orderDoc) toDomain() (floor.Order, error) {
	id, err := parseID("order", d.ID)
	if err != nil {
		return floor.Order{}, err
	}
	tableID, err := parseOptionalID("table", d.TableID)
	if err != nil {
		return floor.Order{}, err
	}

	items := make([]floor.OrderItem, 0, len(d.Items))
	for _, it := range d.Items {
		dishID, err := parseID("dish", it.DishID)
		if err != nil {
			return floor.Order{}, err
		}
		items = append(items, floor.OrderItem{
			DishID:   dishID,
			Name:     it.Name,
			Price:    fromDecimal128(it.Price),
			Quantity: it.Quantity,
			Category: it.Category,
			Notes:    it.Notes,
		})
	}

	return floor.Order{
		ID:               id,
		CustomerName:     d.CustomerName,
		CustomerInitials: floor.Initials(d.CustomerName),
		Type:             floor.OrderType(d.Type),
		TableID:          tableID,
		Items:            items,
		Status:           floor.OrderStatus(d.Status),
		TotalAmount:      fromDecimal128(d.TotalAmount),
		CreatedAt:        d.CreatedAt,
		UpdatedAt:        d.UpdatedAt,
	}, nil
}

func newDishDoc(d floor.Dish) dishDoc {
	return dishDoc{
		ID:              d.ID.String(),
		Name:            d.Name,
		Description:     d.Description,
		Price:           toDecimal128(d.Price),
		CategoryID:      d.CategoryID.String(),
		Available:       d.Available,
		IsVeg:           d.IsVeg,
		PreparationTime: d.PreparationTime,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}
}

func (d dishDoc) toDomain() (floor.Dish, error) {
	id, err := parseID("dish", d.ID)
	if err != nil {
		return floor.Dish{}, err
	}
	categoryID, err := parseID("category", d.CategoryID)
	if err != nil {
		return floor.Dish{}, err
	}
	return floor.Dish{
		ID:              id,
		Name:            d.Name,
		Description:     d.Description,
		Price:           fromDecimal128(d.Price),
		CategoryID:      categoryID,
		Available:       d.Available,
		IsVeg:           d.IsVeg,
		PreparationTime: d.PreparationTime,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}, nil
}

func newCategoryDoc(c floor.Category) categoryDoc {
	return categoryDoc{
		ID:        c.ID.String(),
		Name:      c.Name,
		Emoji:     c.Emoji,
		Color:     c.Color,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func (d categoryDoc) toDomain() (floor.Category, error) {
	id, err := parseID("category", d.ID)
	if err != nil {
		return floor.Category{}, err
	}
	return floor.Category{
		ID:        id,
		Name:      d.Name,
		Emoji:     d.Emoji,
		Color:     d.Color,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}, nil
}

func newCustomerDoc(c floor.Customer) customerDoc {
	return customerDoc{
		ID:          c.ID.String(),
		Name:        c.Name,
		Phone:       c.Phone,
		Email:       c.Email,
		TotalOrders: c.TotalOrders,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func (d customerDoc) toDomain() (floor.Customer, error) {
	id, err := parseID("customer", d.ID)
	if err != nil {
		return floor.Customer{}, err
	}
	return floor.Customer{
		ID:          id,
		Name:        d.Name,
		Phone:       d.Phone,
		Email:       d.Email,
		TotalOrders: d.TotalOrders,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}, nil
}

func (d earningDoc) toDomain() (floor.Earning, error) {
	id, err := parseID("earning", d.ID)
	if err != nil {
		return floor.Earning{}, err
	}
	orderID, err := parseOptionalID("order", d.OrderID)
	if err != nil {
		return floor.Earning{}, err
	}
	return floor.Earning{
		ID:          id,
		Date:        d.Date,
		Amount:      fromDecimal128(d.Amount),
		OrderID:     orderID,
		CompletedAt: d.CompletedAt,
	}, nil
}
