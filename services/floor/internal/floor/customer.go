package floor

import (
	"time"

	"github.com/aquamarinepk/aqm"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Customer struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Phone       string    `json:"phone,omitempty"`
	Email       string    `json:"email,omitempty"`
	TotalOrders int       `json:"total_orders"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type CustomerSpec struct {
	Name  string `json:"name"`
	Phone string `json:"phone,omitempty"`
	Email string `json:"email,omitempty"`
}

func (c *Customer) GetID() uuid.UUID {
	return c.ID
}

func (c *Customer) ResourceType() string {
	return "customer"
}

func NewCustomer(spec CustomerSpec) *Customer {
	now := time.Now()
	return &Customer{
		ID:        aqm.GenerateNewID(),
		Name:      spec.Name,
		Phone:     spec.Phone,
		Email:     spec.Email,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Earning is booked revenue. Earnings created from completed orders carry the
// order reference; others are booked outside the order flow.
type Earning struct {
	ID          uuid.UUID       `json:"id"`
	Date        time.Time       `json:"date"`
	Amount      decimal.Decimal `json:"amount"`
	OrderID     *uuid.UUID      `json:"order_id,omitempty"`
	CompletedAt *time.Time      `json:"completed_at,omitempty"`
}

func (e *Earning) GetID() uuid.UUID {
	return e.ID
}

func (e *Earning) ResourceType() string {
	return "earning"
}

// EarningForOrder derives the earning record of a completed order. The date is
// the order's creation day in loc.
func EarningForOrder(o Order, loc *time.Location) Earning {
	if loc == nil {
		loc = time.Local
	}
	completedAt := o.CreatedAt
	y, m, d := completedAt.In(loc).Date()
	return Earning{
		Date:        time.Date(y, m, d, 0, 0, 0, 0, loc),
		Amount:      o.TotalAmount,
		OrderID:     cloneUUID(&o.ID),
		CompletedAt: &completedAt,
	}
}
