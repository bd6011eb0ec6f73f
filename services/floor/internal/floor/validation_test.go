package floor

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func TestValidateTableSpec(t *testing.T) {
	tests := []struct {
		name     string
		spec     TableSpec
		wantErrs int
	}{
		{name: "valid", spec: TableSpec{Number: 9, Seats: 2}},
		{name: "zeroNumber", spec: TableSpec{Number: 0, Seats: 2}, wantErrs: 1},
		{name: "noSeats", spec: TableSpec{Number: 9}, wantErrs: 1},
		{name: "taken", spec: TableSpec{Number: 3, Seats: 2}, wantErrs: 1},
		{name: "everythingWrong", spec: TableSpec{Number: -1, Seats: -1}, wantErrs: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if errs := ValidateTableSpec(tt.spec, testTables()); len(errs) != tt.wantErrs {
				t.Errorf("ValidateTableSpec() = %v, want %d errors", errs, tt.wantErrs)
			}
		})
	}
}

func TestValidateCategorySpec(t *testing.T) {
	existing := append(testCategories(), Category{Name: "Crème Brûlée"})

	tests := []struct {
		name     string
		spec     CategorySpec
		wantErrs int
	}{
		{name: "valid", spec: CategorySpec{Name: "Desserts"}},
		{name: "blank", spec: CategorySpec{Name: "  "}, wantErrs: 1},
		{name: "sameNameOtherCase", spec: CategorySpec{Name: " DRINKS "}, wantErrs: 1},
		{name: "accentedOtherCase", spec: CategorySpec{Name: "CRÈME BRÛLÉE"}, wantErrs: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if errs := ValidateCategorySpec(tt.spec, existing); len(errs) != tt.wantErrs {
				t.Errorf("ValidateCategorySpec() = %v, want %d errors", errs, tt.wantErrs)
			}
		})
	}
}

func TestValidateDishSpec(t *testing.T) {
	snap := testSnapshot()

	tests := []struct {
		name     string
		spec     DishSpec
		wantErrs int
	}{
		{name: "valid", spec: DishSpec{Name: "Flan", Price: decimal.NewFromInt(6), CategoryID: mainsID}},
		{name: "freePrice", spec: DishSpec{Name: "Water", Price: decimal.Zero, CategoryID: drinksID}, wantErrs: 1},
		{name: "unknownCategory", spec: DishSpec{Name: "Flan", Price: decimal.NewFromInt(6), CategoryID: uuid.New()}, wantErrs: 1},
		{name: "noName", spec: DishSpec{Price: decimal.NewFromInt(6), CategoryID: mainsID}, wantErrs: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if errs := ValidateDishSpec(tt.spec, snap); len(errs) != tt.wantErrs {
				t.Errorf("ValidateDishSpec() = %v, want %d errors", errs, tt.wantErrs)
			}
		})
	}
}

func TestValidateOrderRequest(t *testing.T) {
	tests := []struct {
		name     string
		req      OrderRequest
		wantErrs int
	}{
		{name: "dineIn", req: dineIn("Ana", table1ID, item(soupID, 1))},
		{name: "takeaway", req: takeaway("Ana", item(soupID, 1))},
		{name: "noCustomer", req: takeaway(" ", item(soupID, 1)), wantErrs: 1},
		{name: "unknownType", req: OrderRequest{CustomerName: "Ana", Type: "Delivery", Items: []ItemRequest{item(soupID, 1)}}, wantErrs: 1},
		{name: "zeroAndNegative", req: takeaway("Ana", item(soupID, 0), item(steakID, -2)), wantErrs: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if errs := ValidateOrderRequest(tt.req); len(errs) != tt.wantErrs {
				t.Errorf("ValidateOrderRequest() = %v, want %d errors", errs, tt.wantErrs)
			}
		})
	}
}
