package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/aquamarinepk/aqm"
)

// FloorClient builds a client for the floor service at services.floor.url.
func FloorClient(config *aqm.Config) (*aqm.ServiceClient, error) {
	floorURL := config.GetStringOrDef("services.floor.url", "http://localhost:8087")
	client := aqm.NewServiceClient(floorURL)
	if client == nil {
		return nil, fmt.Errorf("cannot create floor service client for %s", floorURL)
	}
	return client, nil
}

// BackfillEarnings asks the floor service to book one earning per completed
// order and prints the report.
func BackfillEarnings(ctx context.Context, client *aqm.ServiceClient, logger aqm.Logger, dryRun bool, out io.Writer) error {
	path := fmt.Sprintf("/earnings/backfill?dry_run=%t", dryRun)
	resp, err := client.Request(ctx, http.MethodPost, path, nil)
	if err != nil {
		return fmt.Errorf("backfill earnings: %w", err)
	}

	var report struct {
		Created int  `json:"created"`
		Updated int  `json:"updated"`
		DryRun  bool `json:"dry_run"`
	}
	if err := decodeData(resp, &report); err != nil {
		return err
	}

	mode := "applied"
	if report.DryRun {
		mode = "dry run"
	}
	logger.Info("Earnings backfill finished", "mode", mode, "created", report.Created, "updated", report.Updated)
	_, err = fmt.Fprintf(out, "%s: %d created, %d updated\n", mode, report.Created, report.Updated)
	return err
}

// Stats prints the floor service's dashboard statistics as indented JSON.
func Stats(ctx context.Context, client *aqm.ServiceClient, out io.Writer) error {
	resp, err := client.Request(ctx, http.MethodGet, "/stats", nil)
	if err != nil {
		return fmt.Errorf("get stats: %w", err)
	}

	var stats json.RawMessage
	if err := decodeData(resp, &stats); err != nil {
		return err
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(stats)
}

func decodeData(resp *aqm.SuccessResponse, dst interface{}) error {
	if resp == nil {
		return fmt.Errorf("empty response from floor service")
	}
	raw, err := json.Marshal(resp.Data)
	if err != nil {
		return fmt.Errorf("encode response data: %w", err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("decode response data: %w", err)
	}
	return nil
}
