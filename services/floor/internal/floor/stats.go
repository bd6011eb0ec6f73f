package floor

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// StatsInput is the read-only set of collections statistics derive from.
type StatsInput struct {
	Orders     []Order
	Tables     []Table
	Customers  []Customer
	Categories []Category
	Dishes     []Dish
	Earnings   []Earning
}

// DayBucket aggregates the orders created on one calendar day.
type DayBucket struct {
	CompletedTotal decimal.Decimal `json:"completed_total"`
	OngoingTotal   decimal.Decimal `json:"ongoing_total"`
	CompletedCount int             `json:"completed_count"`
}

type StatsSnapshot struct {
	TotalEarnings        decimal.Decimal `json:"total_earnings"`
	InProgressOrders     int             `json:"in_progress_orders"`
	ActiveOrders         int             `json:"active_orders"`
	TotalCategories      int             `json:"total_categories"`
	TotalDishes          int             `json:"total_dishes"`
	TotalTables          int             `json:"total_tables"`
	TotalCustomers       int             `json:"total_customers"`
	Today                DayBucket       `json:"today"`
	Yesterday            DayBucket       `json:"yesterday"`
	EarningsDelta        Change          `json:"earnings_delta"`
	CompletedOrdersDelta Change          `json:"completed_orders_delta"`
	ComputedAt           time.Time       `json:"computed_at"`
}

type Direction string

const (
	DirectionIncrease Direction = "increase"
	DirectionDecrease Direction = "decrease"
	DirectionNeutral  Direction = ""
)

// Change is a day-over-day percentage delta.
type Change struct {
	Percent   decimal.Decimal
	Direction Direction
}

func (c Change) String() string {
	label := c.Percent.String() + "%"
	if c.Direction == DirectionNeutral {
		return label
	}
	return label + " " + string(c.Direction)
}

func (c Change) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Percent   decimal.Decimal `json:"percent"`
		Direction Direction       `json:"direction,omitempty"`
		Label     string          `json:"label"`
	}{c.Percent, c.Direction, c.String()})
}

var hundred = decimal.NewFromInt(100)

// Delta compares today against yesterday. With no baseline any positive value
// counts as a full 100% increase; otherwise the absolute relative change is
// rounded to one decimal and labeled by its sign.
func Delta(today, yesterday decimal.Decimal) Change {
	if yesterday.IsZero() {
		if today.IsPositive() {
			return Change{Percent: hundred, Direction: DirectionIncrease}
		}
		return Change{Percent: decimal.Zero, Direction: DirectionNeutral}
	}

	diff := today.Sub(yesterday)
	pct := diff.Abs().Div(yesterday.Abs()).Mul(hundred).Round(1)

	switch diff.Sign() {
	case 1:
		return Change{Percent: pct, Direction: DirectionIncrease}
	case -1:
		return Change{Percent: pct, Direction: DirectionDecrease}
	}
	return Change{Percent: decimal.Zero, Direction: DirectionNeutral}
}

// Aggregate derives the statistics snapshot. Day buckets use the calendar day
// of each order's creation time in loc; a nil loc means local time.
func Aggregate(in StatsInput, now time.Time, loc *time.Location) StatsSnapshot {
	if loc == nil {
		loc = time.Local
	}

	stats := StatsSnapshot{
		TotalEarnings:   decimal.Zero,
		TotalCategories: len(in.Categories),
		TotalDishes:     len(in.Dishes),
		TotalTables:     len(in.Tables),
		TotalCustomers:  len(in.Customers),
		Today:           newDayBucket(),
		Yesterday:       newDayBucket(),
		ComputedAt:      now,
	}

	for _, e := range in.Earnings {
		stats.TotalEarnings = stats.TotalEarnings.Add(e.Amount)
	}

	todayStart := startOfDay(now, loc)
	yesterdayStart := todayStart.AddDate(0, 0, -1)
	tomorrowStart := todayStart.AddDate(0, 0, 1)

	for _, o := range in.Orders {
		switch o.Status {
		case OrderInProgress:
			stats.InProgressOrders++
			stats.ActiveOrders++
		case OrderPending:
			stats.ActiveOrders++
		}

		created := o.CreatedAt.In(loc)
		var bucket *DayBucket
		switch {
		case !created.Before(todayStart) && created.Before(tomorrowStart):
			bucket = &stats.Today
		case !created.Before(yesterdayStart) && created.Before(todayStart):
			bucket = &stats.Yesterday
		default:
			continue
		}

		switch {
		case o.Status == OrderCompleted:
			bucket.CompletedTotal = bucket.CompletedTotal.Add(o.TotalAmount)
			bucket.CompletedCount++
		case o.IsActive():
			bucket.OngoingTotal = bucket.OngoingTotal.Add(o.TotalAmount)
		}
	}

	stats.EarningsDelta = Delta(stats.Today.CompletedTotal, stats.Yesterday.CompletedTotal)
	stats.CompletedOrdersDelta = Delta(
		decimal.NewFromInt(int64(stats.Today.CompletedCount)),
		decimal.NewFromInt(int64(stats.Yesterday.CompletedCount)),
	)

	return stats
}

func newDayBucket() DayBucket {
	return DayBucket{CompletedTotal: decimal.Zero, OngoingTotal: decimal.Zero}
}

func startOfDay(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}
