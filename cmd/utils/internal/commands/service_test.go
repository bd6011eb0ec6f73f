package commands

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aquamarinepk/aqm"
)

func newFloorServer(t *testing.T, handler http.HandlerFunc) *aqm.ServiceClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return aqm.NewServiceClient(srv.URL)
}

func TestBackfillEarnings(t *testing.T) {
	tests := []struct {
		name      string
		dryRun    bool
		wantQuery string
		wantOut   string
	}{
		{name: "apply", dryRun: false, wantQuery: "dry_run=false", wantOut: "applied: 2 created, 1 updated"},
		{name: "dryRun", dryRun: true, wantQuery: "dry_run=true", wantOut: "dry run: 2 created, 1 updated"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newFloorServer(t, func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodPost || r.URL.Path != "/earnings/backfill" {
					t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
				}
				if r.URL.RawQuery != tt.wantQuery {
					t.Errorf("query = %q, want %q", r.URL.RawQuery, tt.wantQuery)
				}
				aqm.RespondSuccess(w, map[string]interface{}{
					"created": 2,
					"updated": 1,
					"dry_run": tt.dryRun,
				})
			})

			var out bytes.Buffer
			err := BackfillEarnings(context.Background(), client, aqm.NewNoopLogger(), tt.dryRun, &out)
			if err != nil {
				t.Fatalf("BackfillEarnings() error = %v", err)
			}
			if !strings.Contains(out.String(), tt.wantOut) {
				t.Errorf("output = %q, want %q", out.String(), tt.wantOut)
			}
		})
	}
}

func TestStats(t *testing.T) {
	client := newFloorServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/stats" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		aqm.RespondSuccess(w, map[string]interface{}{"total_orders": 3})
	})

	var out bytes.Buffer
	if err := Stats(context.Background(), client, &out); err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if !strings.Contains(out.String(), `"total_orders": 3`) {
		t.Errorf("output = %q", out.String())
	}
}
