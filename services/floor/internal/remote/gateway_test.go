package remote

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/appetiteclub/floor/services/floor/internal/floor"
	"github.com/aquamarinepk/aqm"
	"github.com/go-chi/chi/v5"
)

func newStoreServer(t *testing.T) (*httptest.Server, *[]map[string]interface{}) {
	t.Helper()
	var patches []map[string]interface{}

	r := chi.NewRouter()
	r.Get("/tables", func(w http.ResponseWriter, r *http.Request) {
		aqm.RespondCollection(w, []map[string]interface{}{
			{"id": 1, "table_number": "3", "seats": 4, "status": "Available", "created_at": "2026-03-10T10:00:00Z"},
			{"id": 2, "table_number": "5", "seats": 2, "status": "Booked", "customer_name": "Ana", "booking_time": "2026-03-10T20:00:00Z"},
		}, "tables")
	})
	r.Patch("/tables/{id}", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]interface{}
		json.NewDecoder(r.Body).Decode(&body)
		patches = append(patches, body)
		aqm.RespondSuccess(w, map[string]interface{}{
			"id": chi.URLParam(r, "id"), "table_number": "3", "seats": 4, "status": body["status"],
		})
	})

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, &patches
}

func TestGatewayListAndPatchTables(t *testing.T) {
	ctx := context.Background()
	srv, patches := newStoreServer(t)
	g := NewGatewayWithClient(aqm.NewServiceClient(srv.URL), nil)

	tables, err := g.ListTables(ctx)
	if err != nil {
		t.Fatalf("ListTables() error = %v", err)
	}
	if len(tables) != 2 {
		t.Fatalf("len(tables) = %d, want 2", len(tables))
	}
	if tables[1].Status != floor.TableBooked || tables[1].Customer != "Ana" || tables[1].ReservationTime == nil {
		t.Errorf("booked table = %+v", tables[1])
	}

	status := floor.TableOccupied
	updated, err := g.PatchTable(ctx, tables[0].ID, floor.TablePatch{Status: &status})
	if err != nil {
		t.Fatalf("PatchTable() error = %v", err)
	}
	if updated.ID != tables[0].ID {
		t.Errorf("patched id = %s, want the id minted on list %s", updated.ID, tables[0].ID)
	}
	if updated.Status != floor.TableOccupied {
		t.Errorf("Status = %s, want Occupied", updated.Status)
	}
	if len(*patches) != 1 || (*patches)[0]["status"] != "Occupied" {
		t.Errorf("patches sent = %v", *patches)
	}
}
