package floor

import (
	"strings"
	"time"

	"github.com/aquamarinepk/aqm"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type OrderType string

const (
	OrderDineIn   OrderType = "Dine In"
	OrderTakeaway OrderType = "Takeaway"
)

func (t OrderType) Valid() bool {
	return t == OrderDineIn || t == OrderTakeaway
}

type OrderStatus string

const (
	OrderPending    OrderStatus = "Pending"
	OrderInProgress OrderStatus = "In Progress"
	OrderReady      OrderStatus = "Ready"
	OrderCompleted  OrderStatus = "Completed"
	OrderCancelled  OrderStatus = "Cancelled"
)

// orderStage ranks the forward path of the order lifecycle.
var orderStage = map[OrderStatus]int{
	OrderPending:    0,
	OrderInProgress: 1,
	OrderReady:      2,
	OrderCompleted:  3,
}

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPending, OrderInProgress, OrderReady, OrderCompleted, OrderCancelled:
		return true
	}
	return false
}

func (s OrderStatus) IsTerminal() bool {
	return s == OrderCompleted || s == OrderCancelled
}

// CanBecome reports whether the one-way lifecycle allows moving from s to next.
// Cancelling is allowed from any non-terminal status.
func (s OrderStatus) CanBecome(next OrderStatus) bool {
	if !s.Valid() || !next.Valid() || s.IsTerminal() {
		return false
	}
	if next == OrderCancelled {
		return true
	}
	return orderStage[next] > orderStage[s]
}

type Order struct {
	ID               uuid.UUID       `json:"id"`
	CustomerName     string          `json:"customer_name"`
	CustomerInitials string          `json:"customer_initials"`
	Type             OrderType       `json:"order_type"`
	TableID          *uuid.UUID      `json:"table_id,omitempty"`
	TableNumber      int             `json:"table_number"`
	Items            []OrderItem     `json:"items"`
	Status           OrderStatus     `json:"status"`
	TotalAmount      decimal.Decimal `json:"total_amount"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

type OrderItem struct {
	DishID   uuid.UUID       `json:"dish_id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
	Category string          `json:"category,omitempty"`
	Notes    string          `json:"notes,omitempty"`
}

// Subtotal is price times quantity for a single line.
func (i OrderItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// OrderSpec is what the gateway needs to create an order.
type OrderSpec struct {
	CustomerName string          `json:"customer_name"`
	Type         OrderType       `json:"order_type"`
	TableID      *uuid.UUID      `json:"table_id,omitempty"`
	Items        []OrderItem     `json:"items"`
	Status       OrderStatus     `json:"status"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
}

func (o *Order) GetID() uuid.UUID {
	return o.ID
}

func (o *Order) ResourceType() string {
	return "order"
}

// NewOrder builds a pending order from spec; used by gateways that mint
// identities locally.
func NewOrder(spec OrderSpec) *Order {
	order := &Order{
		ID:           aqm.GenerateNewID(),
		CustomerName: spec.CustomerName,
		Type:         spec.Type,
		TableID:      cloneUUID(spec.TableID),
		Items:        cloneItems(spec.Items),
		Status:       spec.Status,
	}
	if order.Status == "" {
		order.Status = OrderPending
	}
	order.TotalAmount = TotalOf(order.Items)
	order.CustomerInitials = Initials(order.CustomerName)
	order.BeforeCreate()
	return order
}

func (o *Order) EnsureID() {
	if o.ID == uuid.Nil {
		o.ID = aqm.GenerateNewID()
	}
}

func (o *Order) BeforeCreate() {
	o.EnsureID()
	o.CreatedAt = time.Now()
	o.UpdatedAt = time.Now()
}

func (o *Order) BeforeUpdate() {
	o.UpdatedAt = time.Now()
}

// IsActive reports whether the order still counts against its table.
func (o *Order) IsActive() bool {
	return !o.Status.IsTerminal()
}

// OnTable reports whether the order references tableID.
func (o *Order) OnTable(tableID uuid.UUID) bool {
	return o.TableID != nil && *o.TableID == tableID
}

// ReplaceItems swaps the item list and recomputes the total.
func (o *Order) ReplaceItems(items []OrderItem) {
	o.Items = cloneItems(items)
	o.TotalAmount = TotalOf(o.Items)
}

func (o Order) clone() Order {
	o.TableID = cloneUUID(o.TableID)
	o.Items = cloneItems(o.Items)
	return o
}

// TotalOf sums price times quantity across items.
func TotalOf(items []OrderItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Subtotal())
	}
	return total
}

// Initials returns the upper-cased first letter of every word in name.
func Initials(name string) string {
	var b strings.Builder
	for _, part := range strings.Fields(name) {
		for _, r := range part {
			b.WriteString(strings.ToUpper(string(r)))
			break
		}
	}
	return b.String()
}

func cloneItems(items []OrderItem) []OrderItem {
	if items == nil {
		return nil
	}
	out := make([]OrderItem, len(items))
	copy(out, items)
	return out
}

func cloneUUID(id *uuid.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}
