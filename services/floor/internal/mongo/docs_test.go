package mongo

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/appetiteclub/floor/services/floor/internal/floor"
)

func TestDecimal128Conversion(t *testing.T) {
	tests := []string{"0", "4.5", "13.50", "1234567.89"}

	for _, raw := range tests {
		t.Run(raw, func(t *testing.T) {
			in := decimal.RequireFromString(raw)
			if got := fromDecimal128(toDecimal128(in)); !got.Equal(in) {
				t.Errorf("Decimal128 conversion of %s = %s", raw, got)
			}
		})
	}
}

func TestOrderDocToDomain(t *testing.T) {
	tableID := uuid.New()
	order := floor.Order{
		ID:           uuid.New(),
		CustomerName: "ana torres",
		Type:         floor.OrderDineIn,
		TableID:      &tableID,
		Items: []floor.OrderItem{
			{DishID: uuid.New(), Name: "Soup", Price: decimal.NewFromInt(100), Quantity: 2, Category: "Mains"},
		},
		Status:      floor.OrderPending,
		TotalAmount: decimal.NewFromInt(200),
		CreatedAt:   time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC),
	}

	got, err := newOrderDoc(order).toDomain()
	if err != nil {
		t.Fatalf("toDomain() error = %v", err)
	}

	if got.ID != order.ID || got.TableID == nil || *got.TableID != tableID {
		t.Errorf("ids = %s/%v, want %s/%s", got.ID, got.TableID, order.ID, tableID)
	}
	if got.CustomerInitials != "AT" {
		t.Errorf("CustomerInitials = %q, want AT", got.CustomerInitials)
	}
	if !got.TotalAmount.Equal(order.TotalAmount) || !got.Items[0].Price.Equal(decimal.NewFromInt(100)) {
		t.Errorf("money = %s/%s", got.TotalAmount, got.Items[0].Price)
	}
}

func TestDocsRejectInvalidIDs(t *testing.T) {
	bad := "not-a-uuid"

	if _, err := (tableDoc{ID: bad}).toDomain(); err == nil {
		t.Error("tableDoc.toDomain() error = nil")
	}
	if _, err := (orderDoc{ID: uuid.NewString(), TableID: &bad}).toDomain(); err == nil {
		t.Error("orderDoc.toDomain() with bad table id error = nil")
	}
	if _, err := (dishDoc{ID: uuid.NewString(), CategoryID: bad}).toDomain(); err == nil {
		t.Error("dishDoc.toDomain() with bad category id error = nil")
	}

	empty := ""
	got, err := (earningDoc{ID: uuid.NewString(), OrderID: &empty}).toDomain()
	if err != nil {
		t.Fatalf("earningDoc.toDomain() error = %v", err)
	}
	if got.OrderID != nil {
		t.Errorf("OrderID = %v, want nil for an empty reference", got.OrderID)
	}
}

func TestTableUpdate(t *testing.T) {
	future := time.Now().Add(time.Hour)

	tests := []struct {
		name      string
		patch     floor.TablePatch
		wantSet   []string
		wantUnset []string
	}{
		{
			name:    "seatsOnly",
			patch:   floor.TablePatch{Seats: ptr(6)},
			wantSet: []string{"seats", "updated_at"},
		},
		{
			name:    "book",
			patch:   floor.TablePatch{Status: ptr(floor.TableBooked), Customer: ptr("Ana"), ReservationTime: &future},
			wantSet: []string{"status", "customer", "reservation_time"},
		},
		{
			name:      "freeDropsReservation",
			patch:     floor.TablePatch{Status: ptr(floor.TableAvailable), Customer: ptr("Ana")},
			wantSet:   []string{"status"},
			wantUnset: []string{"customer", "reservation_time"},
		},
		{
			name:      "clearReservation",
			patch:     floor.TablePatch{Customer: ptr(""), ClearReservation: true},
			wantUnset: []string{"customer", "reservation_time"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			update := tableUpdate(tt.patch)
			set, _ := update["$set"].(bson.M)
			unset, _ := update["$unset"].(bson.M)

			for _, key := range tt.wantSet {
				if _, ok := set[key]; !ok {
					t.Errorf("$set missing %s: %v", key, set)
				}
			}
			for _, key := range tt.wantUnset {
				if _, ok := unset[key]; !ok {
					t.Errorf("$unset missing %s: %v", key, unset)
				}
				if _, ok := set[key]; ok {
					t.Errorf("%s both set and unset", key)
				}
			}
			if len(tt.wantUnset) == 0 && unset != nil {
				t.Errorf("unexpected $unset: %v", unset)
			}
		})
	}
}

func ptr[T any](v T) *T {
	return &v
}

func TestGatewayEarningDateUsesLocation(t *testing.T) {
	created := time.Date(2026, 3, 10, 23, 30, 0, 0, time.UTC)
	order := floor.Order{ID: uuid.New(), TotalAmount: decimal.NewFromInt(90), CreatedAt: created}

	tests := []struct {
		name    string
		loc     *time.Location
		wantDay int
	}{
		{name: "utc", loc: time.UTC, wantDay: 10},
		{name: "aheadOfUTC", loc: time.FixedZone("UTC+2", 2*60*60), wantDay: 11},
		{name: "behindUTC", loc: time.FixedZone("UTC-5", -5*60*60), wantDay: 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewGateway(nil, nil, tt.loc).earningFor(order)
			if got.Date.Day() != tt.wantDay || got.Date.Location() != tt.loc {
				t.Errorf("earning date = %v, want day %d in %s", got.Date, tt.wantDay, tt.loc)
			}
			if got.OrderID == nil || *got.OrderID != order.ID || !got.Amount.Equal(order.TotalAmount) {
				t.Errorf("earning = %+v", got)
			}
		})
	}
}
