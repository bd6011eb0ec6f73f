package floor

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestDelta(t *testing.T) {
	tests := []struct {
		name      string
		today     int64
		yesterday int64
		want      string
		direction Direction
	}{
		{name: "noBaselineWithSales", today: 10, yesterday: 0, want: "100% increase", direction: DirectionIncrease},
		{name: "noBaselineNoSales", today: 0, yesterday: 0, want: "0%", direction: DirectionNeutral},
		{name: "fiftyFromNothing", today: 50, yesterday: 0, want: "100% increase", direction: DirectionIncrease},
		{name: "eightyFromHundred", today: 80, yesterday: 100, want: "20% decrease", direction: DirectionDecrease},
		{name: "halved", today: 5, yesterday: 10, want: "50% decrease", direction: DirectionDecrease},
		{name: "grew", today: 15, yesterday: 10, want: "50% increase", direction: DirectionIncrease},
		{name: "unchanged", today: 10, yesterday: 10, want: "0%", direction: DirectionNeutral},
		{name: "rounded", today: 2, yesterday: 3, want: "33.3% decrease", direction: DirectionDecrease},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Delta(decimal.NewFromInt(tt.today), decimal.NewFromInt(tt.yesterday))
			if got.String() != tt.want {
				t.Errorf("Delta(%d, %d) = %q, want %q", tt.today, tt.yesterday, got.String(), tt.want)
			}
			if got.Direction != tt.direction {
				t.Errorf("Direction = %q, want %q", got.Direction, tt.direction)
			}
		})
	}
}

func TestChangeMarshalJSON(t *testing.T) {
	raw, err := json.Marshal(Delta(decimal.NewFromInt(15), decimal.NewFromInt(10)))
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if !strings.Contains(string(raw), `"label":"50% increase"`) {
		t.Errorf("Marshal() = %s", raw)
	}
}

func TestAggregate(t *testing.T) {
	loc := time.UTC
	now := time.Date(2026, 3, 10, 15, 0, 0, 0, loc)
	today := now.Add(-2 * time.Hour)
	yesterday := now.AddDate(0, 0, -1)
	lastWeek := now.AddDate(0, 0, -7)

	order := func(status OrderStatus, total int64, created time.Time) Order {
		return Order{Status: status, TotalAmount: decimal.NewFromInt(total), CreatedAt: created}
	}

	in := StatsInput{
		Orders: []Order{
			order(OrderCompleted, 100, today),
			order(OrderCompleted, 50, today),
			order(OrderPending, 30, today),
			order(OrderInProgress, 20, today),
			order(OrderReady, 10, today),
			order(OrderCancelled, 999, today),
			order(OrderCompleted, 100, yesterday),
			order(OrderInProgress, 5, yesterday),
			order(OrderCompleted, 400, lastWeek),
		},
		Tables:     testTables(),
		Dishes:     testDishes(),
		Categories: testCategories(),
		Customers:  []Customer{{Name: "Ana"}},
		Earnings: []Earning{
			{Amount: decimal.NewFromInt(500)},
			{Amount: decimal.NewFromInt(300)},
		},
	}

	stats := Aggregate(in, now, loc)

	if !stats.TotalEarnings.Equal(decimal.NewFromInt(800)) {
		t.Errorf("TotalEarnings = %s, want 800", stats.TotalEarnings)
	}
	if stats.InProgressOrders != 2 {
		t.Errorf("InProgressOrders = %d, want 2", stats.InProgressOrders)
	}
	if stats.ActiveOrders != 3 {
		t.Errorf("ActiveOrders = %d, want 3", stats.ActiveOrders)
	}
	if stats.TotalTables != 2 || stats.TotalDishes != 3 || stats.TotalCategories != 2 || stats.TotalCustomers != 1 {
		t.Errorf("collection sizes = %d/%d/%d/%d", stats.TotalTables, stats.TotalDishes, stats.TotalCategories, stats.TotalCustomers)
	}

	if !stats.Today.CompletedTotal.Equal(decimal.NewFromInt(150)) || stats.Today.CompletedCount != 2 {
		t.Errorf("Today completed = %s/%d, want 150/2", stats.Today.CompletedTotal, stats.Today.CompletedCount)
	}
	if !stats.Today.OngoingTotal.Equal(decimal.NewFromInt(60)) {
		t.Errorf("Today.OngoingTotal = %s, want 60", stats.Today.OngoingTotal)
	}
	if !stats.Yesterday.CompletedTotal.Equal(decimal.NewFromInt(100)) || stats.Yesterday.CompletedCount != 1 {
		t.Errorf("Yesterday completed = %s/%d, want 100/1", stats.Yesterday.CompletedTotal, stats.Yesterday.CompletedCount)
	}

	if got := stats.EarningsDelta.String(); got != "50% increase" {
		t.Errorf("EarningsDelta = %q, want 50%% increase", got)
	}
	if got := stats.CompletedOrdersDelta.String(); got != "100% increase" {
		t.Errorf("CompletedOrdersDelta = %q, want 100%% increase", got)
	}
}

func TestAggregateUsesLocationForDays(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*60*60)
	now := time.Date(2026, 3, 10, 1, 0, 0, 0, time.UTC)
	// 23:00 on the 9th in UTC is 18:00 on the 9th at UTC-5, which is still today there.
	created := time.Date(2026, 3, 9, 23, 0, 0, 0, time.UTC)

	in := StatsInput{Orders: []Order{{Status: OrderCompleted, TotalAmount: decimal.NewFromInt(10), CreatedAt: created}}}

	if got := Aggregate(in, now, loc).Today.CompletedCount; got != 1 {
		t.Errorf("Today.CompletedCount at UTC-5 = %d, want 1", got)
	}
	if got := Aggregate(in, now, time.UTC).Yesterday.CompletedCount; got != 1 {
		t.Errorf("Yesterday.CompletedCount at UTC = %d, want 1", got)
	}
}

func TestAggregateIsDeterministic(t *testing.T) {
	now := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)
	in := StatsInput{
		Orders:   []Order{{Status: OrderCompleted, TotalAmount: decimal.NewFromInt(10), CreatedAt: now}},
		Earnings: []Earning{{Amount: decimal.NewFromInt(10)}},
	}

	a, _ := json.Marshal(Aggregate(in, now, time.UTC))
	b, _ := json.Marshal(Aggregate(in, now, time.UTC))
	if string(a) != string(b) {
		t.Errorf("Aggregate() not deterministic:\n%s\n%s", a, b)
	}
}
