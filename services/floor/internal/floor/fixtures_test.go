package floor

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	mainsID    = uuid.MustParse("8f1d6a52-3c0e-4c1b-9d5e-000000000001")
	drinksID   = uuid.MustParse("8f1d6a52-3c0e-4c1b-9d5e-000000000002")
	soupID     = uuid.MustParse("8f1d6a52-3c0e-4c1b-9d5e-000000000011")
	steakID    = uuid.MustParse("8f1d6a52-3c0e-4c1b-9d5e-000000000012")
	lemonadeID = uuid.MustParse("8f1d6a52-3c0e-4c1b-9d5e-000000000013")
	table1ID   = uuid.MustParse("8f1d6a52-3c0e-4c1b-9d5e-000000000021")
	table2ID   = uuid.MustParse("8f1d6a52-3c0e-4c1b-9d5e-000000000022")
)

func testCategories() []Category {
	return []Category{
		{ID: mainsID, Name: "Mains"},
		{ID: drinksID, Name: "Drinks"},
	}
}

func testDishes() []Dish {
	return []Dish{
		{ID: soupID, Name: "Soup", Price: decimal.NewFromInt(100), CategoryID: mainsID, Available: true},
		{ID: steakID, Name: "Steak", Price: decimal.NewFromInt(250), CategoryID: mainsID, Available: true},
		{ID: lemonadeID, Name: "Lemonade", Price: decimal.RequireFromString("4.50"), CategoryID: drinksID, Available: true},
	}
}

func testTables() []Table {
	return []Table{
		{ID: table1ID, Number: 3, Seats: 4, Status: TableAvailable},
		{ID: table2ID, Number: 5, Seats: 2, Status: TableAvailable},
	}
}

// testSnapshot returns an enriched snapshot with the test menu and tables.
func testSnapshot(orders ...Order) *Snapshot {
	snap := &Snapshot{
		Tables:     testTables(),
		Dishes:     testDishes(),
		Categories: testCategories(),
		Orders:     orders,
	}
	snap.enrich()
	return snap
}

// newTestGateway returns a mock gateway holding the test menu and tables.
func newTestGateway() *MockGateway {
	gw := NewMockGateway()
	gw.SeedCategories(testCategories()...)
	gw.SeedDishes(testDishes()...)
	gw.SeedTables(testTables()...)
	return gw
}

// newTestStore builds a store over gw and loads its first snapshot.
func newTestStore(t *testing.T, gw Gateway, opts ...Option) *Store {
	t.Helper()
	opts = append([]Option{WithLocation(time.UTC)}, opts...)
	store := NewStore(gw, opts...)
	if err := store.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	return store
}

func ptr[T any](v T) *T {
	return &v
}

func dineIn(customer string, tableID uuid.UUID, items ...ItemRequest) OrderRequest {
	return OrderRequest{CustomerName: customer, Type: OrderDineIn, TableID: ptr(tableID), Items: items}
}

func takeaway(customer string, items ...ItemRequest) OrderRequest {
	return OrderRequest{CustomerName: customer, Type: OrderTakeaway, Items: items}
}

func item(dishID uuid.UUID, qty int) ItemRequest {
	return ItemRequest{DishID: dishID, Quantity: qty}
}

func activeOrder(tableID uuid.UUID, status OrderStatus, lines ...OrderItem) Order {
	return Order{
		ID:           uuid.New(),
		CustomerName: "Ana Torres",
		Type:         OrderDineIn,
		TableID:      ptr(tableID),
		Items:        lines,
		Status:       status,
		TotalAmount:  TotalOf(lines),
		CreatedAt:    time.Now(),
	}
}

func line(dishID uuid.UUID, name string, price int64, qty int) OrderItem {
	return OrderItem{DishID: dishID, Name: name, Price: decimal.NewFromInt(price), Quantity: qty}
}
