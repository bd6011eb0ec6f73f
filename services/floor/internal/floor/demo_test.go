package floor

import (
	"context"
	"testing"
	"testing/fstest"

	"github.com/aquamarinepk/aqm"
)

const testSeedJSON = `{
  "tables": [{"number": 3, "seats": 4}, {"number": 8, "seats": 8}, {"number": 0, "seats": 2}],
  "categories": [
    {"name": "Mains", "dishes": [{"name": "Soup", "price": "100"}, {"name": "Risotto", "price": "12.00"}]},
    {"name": "Desserts", "dishes": [{"name": "Flan", "price": "6.00"}]}
  ]
}`

func TestApplyDemoSeeds(t *testing.T) {
	gw := newTestGateway()
	seedFS := fstest.MapFS{"seed.json": {Data: []byte(testSeedJSON)}}

	for i := 0; i < 2; i++ {
		if err := ApplyDemoSeeds(context.Background(), gw, nil, seedFS, aqm.NewNoopLogger()); err != nil {
			t.Fatalf("ApplyDemoSeeds() run %d error = %v", i+1, err)
		}
	}

	if got := gw.Calls("CreateTable"); got != 1 {
		t.Errorf("CreateTable calls = %d, want 1", got)
	}
	if got := gw.Calls("CreateCategory"); got != 1 {
		t.Errorf("CreateCategory calls = %d, want 1", got)
	}
	if got := gw.Calls("CreateDish"); got != 2 {
		t.Errorf("CreateDish calls = %d, want 2", got)
	}

	store := newTestStore(t, gw)
	if got := store.DishesByCategory("Desserts"); len(got) != 1 || got[0].PreparationTime != DefaultPreparationTime {
		t.Errorf("Desserts = %+v, want Flan with default preparation time", got)
	}
}

func TestApplyDemoSeedsErrors(t *testing.T) {
	tests := []struct {
		name   string
		gw     Gateway
		seedFS fstest.MapFS
	}{
		{name: "nilGateway", seedFS: fstest.MapFS{"seed.json": {Data: []byte(testSeedJSON)}}},
		{name: "missingFile", gw: newTestGateway(), seedFS: fstest.MapFS{}},
		{name: "emptyFile", gw: newTestGateway(), seedFS: fstest.MapFS{"seed.json": {Data: []byte{}}}},
		{name: "badJSON", gw: newTestGateway(), seedFS: fstest.MapFS{"seed.json": {Data: []byte("{")}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := ApplyDemoSeeds(context.Background(), tt.gw, nil, tt.seedFS, nil); err == nil {
				t.Error("ApplyDemoSeeds() error = nil, want error")
			}
		})
	}
}

func TestTrackerForNonMongoGateway(t *testing.T) {
	if tracker := TrackerFor(newTestGateway()); tracker != nil {
		t.Errorf("TrackerFor() = %v, want nil", tracker)
	}
}

func TestSeedIdentifier(t *testing.T) {
	if got := seedIdentifier("  Hot Drinks "); got != "hot_drinks" {
		t.Errorf("seedIdentifier() = %q, want hot_drinks", got)
	}
}
