package floor

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/appetiteclub/floor/pkg"
)

func TestEventNotifierNotify(t *testing.T) {
	move := &TableTransition{TableID: table1ID, From: TableOccupied, To: TableAvailable, Reason: "order.cascade"}

	tests := []struct {
		name            string
		outcome         Outcome
		wantOutcomes    int
		wantTransitions int
	}{
		{
			name:            "successWithTransition",
			outcome:         Outcome{Kind: kindOrderPayment, Severity: SeveritySuccess, EntityID: soupID, Transition: move},
			wantOutcomes:    1,
			wantTransitions: 1,
		},
		{
			name:         "successWithoutTransition",
			outcome:      success(kindTableAdd, "Table added", "Table 3 added", table1ID),
			wantOutcomes: 1,
		},
		{
			name:         "failureNeverPublishesTransition",
			outcome:      Outcome{Kind: kindTableFree, Severity: SeverityError, Err: errors.New("boom"), Transition: move},
			wantOutcomes: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			publisher := NewMockPublisher()
			n := NewEventNotifier(publisher, nil)

			n.Notify(context.Background(), tt.outcome)

			if got := len(publisher.Published[pkg.FloorOutcomeTopic]); got != tt.wantOutcomes {
				t.Errorf("outcome events = %d, want %d", got, tt.wantOutcomes)
			}
			if got := len(publisher.Published[pkg.TableStatusTopic]); got != tt.wantTransitions {
				t.Errorf("table status events = %d, want %d", got, tt.wantTransitions)
			}
		})
	}
}

func TestEventNotifierPayloads(t *testing.T) {
	publisher := NewMockPublisher()
	n := NewEventNotifier(publisher, nil)

	n.Notify(context.Background(), Outcome{
		Kind:       kindTableOccupy,
		Severity:   SeveritySuccess,
		Title:      "Table occupied",
		EntityID:   table1ID,
		Transition: &TableTransition{TableID: table1ID, From: TableBooked, To: TableOccupied, Reason: kindTableOccupy},
	})

	var outcome pkg.FloorOutcomeEvent
	if err := json.Unmarshal(publisher.Published[pkg.FloorOutcomeTopic][0], &outcome); err != nil {
		t.Fatalf("outcome payload: %v", err)
	}
	if outcome.EventType != pkg.EventFloorOutcome || outcome.EntityID != table1ID.String() || outcome.Severity != "success" {
		t.Errorf("outcome event = %+v", outcome)
	}

	var status pkg.TableStatusEvent
	if err := json.Unmarshal(publisher.Published[pkg.TableStatusTopic][0], &status); err != nil {
		t.Fatalf("status payload: %v", err)
	}
	if status.Status != "Occupied" || status.PreviousStatus != "Booked" || status.Source != "floor" {
		t.Errorf("status event = %+v", status)
	}
}

func TestEventNotifierSwallowsPublishErrors(t *testing.T) {
	publisher := NewMockPublisher()
	calls := 0
	publisher.PublishFunc = func(context.Context, string, []byte) error {
		calls++
		return errors.New("nats: connection closed")
	}
	n := NewEventNotifier(publisher, nil)

	n.Notify(context.Background(), Outcome{
		Kind:       kindTableFree,
		Severity:   SeveritySuccess,
		Transition: &TableTransition{TableID: table1ID, From: TableOccupied, To: TableAvailable},
	})

	if calls != 2 {
		t.Errorf("publish attempts = %d, want 2", calls)
	}
}

func TestEventNotifierWithoutPublisher(t *testing.T) {
	n := NewEventNotifier(nil, nil)
	n.Notify(context.Background(), success(kindTableAdd, "Table added", "", table1ID))
}

func TestFailureUsesFirstValidationReason(t *testing.T) {
	o := failure(kindTableAdd, "Could not add table", table1ID, NewValidationError("number must be greater than 0", "seats must be greater than 0"))

	if o.Severity != SeverityError {
		t.Errorf("Severity = %s, want error", o.Severity)
	}
	if o.Description != "number must be greater than 0" {
		t.Errorf("Description = %q", o.Description)
	}
}
