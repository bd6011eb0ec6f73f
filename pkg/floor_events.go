package pkg

import "time"

const (
	// TableStatusTopic delivers status changes applied to tables by the floor service.
	TableStatusTopic = "tables.status"
	// FloorOutcomeTopic carries the outcome of every floor command, successful or not.
	FloorOutcomeTopic = "floor.outcomes"

	// EventTableStatusChanged identifies a table status change event payload.
	EventTableStatusChanged = "table.status.changed"
	// EventFloorOutcome identifies a command outcome payload.
	EventFloorOutcome = "floor.outcome"
)

// TableStatusEvent captures a table transition as applied by a floor command or
// an order cascade.
type TableStatusEvent struct {
	EventType      string    `json:"event_type"`
	TableID        string    `json:"table_id"`
	Status         string    `json:"status"`
	PreviousStatus string    `json:"previous_status,omitempty"`
	Reason         string    `json:"reason,omitempty"`
	Source         string    `json:"source,omitempty"`
	OccurredAt     time.Time `json:"occurred_at"`
}

// FloorOutcomeEvent is the structured form of a user-facing notification.
// Presentation layers subscribe and render it however they like.
type FloorOutcomeEvent struct {
	EventType   string    `json:"event_type"`
	Kind        string    `json:"kind"`
	Severity    string    `json:"severity"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	EntityID    string    `json:"entity_id,omitempty"`
	Error       string    `json:"error,omitempty"`
	Source      string    `json:"source,omitempty"`
	OccurredAt  time.Time `json:"occurred_at"`
}
