package floor

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/appetiteclub/floor/pkg"
	"github.com/aquamarinepk/aqm"
	"github.com/aquamarinepk/aqm/events"
	"github.com/google/uuid"
)

const floorEventSource = "floor"

type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
)

// Outcome is the structured result of a command, emitted after the command
// settles. Presentation layers render it as they see fit.
type Outcome struct {
	Kind        string
	Severity    Severity
	Title       string
	Description string
	EntityID    uuid.UUID
	Err         error
	// Transition is set when the command moved a table between statuses.
	Transition *TableTransition
}

type TableTransition struct {
	TableID uuid.UUID
	From    TableStatus
	To      TableStatus
	Reason  string
}

// Notifier observes command outcomes. Implementations must not block the
// caller for long and must not fail the command.
type Notifier interface {
	Notify(ctx context.Context, o Outcome)
}

type NoopNotifier struct{}

func (NoopNotifier) Notify(context.Context, Outcome) {}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, o Outcome)

func (f NotifierFunc) Notify(ctx context.Context, o Outcome) {
	f(ctx, o)
}

// EventNotifier publishes outcomes and table transitions as events.
type EventNotifier struct {
	publisher events.Publisher
	logger    aqm.Logger
}

func NewEventNotifier(publisher events.Publisher, logger aqm.Logger) *EventNotifier {
	if logger == nil {
		logger = aqm.NewNoopLogger()
	}
	return &EventNotifier{publisher: publisher, logger: logger}
}

func (n *EventNotifier) Notify(ctx context.Context, o Outcome) {
	if n.publisher == nil {
		return
	}

	n.publishOutcome(ctx, o)
	if o.Transition != nil && o.Severity == SeveritySuccess {
		n.publishTableStatusChanged(ctx, *o.Transition)
	}
}

func (n *EventNotifier) publishOutcome(ctx context.Context, o Outcome) {
	event := pkg.FloorOutcomeEvent{
		EventType:   pkg.EventFloorOutcome,
		Kind:        o.Kind,
		Severity:    string(o.Severity),
		Title:       o.Title,
		Description: o.Description,
		Source:      floorEventSource,
		OccurredAt:  time.Now().UTC(),
	}
	if o.EntityID != uuid.Nil {
		event.EntityID = o.EntityID.String()
	}
	if o.Err != nil {
		event.Error = o.Err.Error()
	}

	payload, err := json.Marshal(event)
	if err != nil {
		n.logger.Error("cannot marshal floor outcome event", "error", err, "kind", o.Kind)
		return
	}

	if err := n.publisher.Publish(ctx, pkg.FloorOutcomeTopic, payload); err != nil {
		n.logger.Error("cannot publish floor outcome event", "error", err, "kind", o.Kind)
	}
}

func (n *EventNotifier) publishTableStatusChanged(ctx context.Context, t TableTransition) {
	event := pkg.TableStatusEvent{
		EventType:      pkg.EventTableStatusChanged,
		TableID:        t.TableID.String(),
		Status:         string(t.To),
		PreviousStatus: string(t.From),
		Reason:         t.Reason,
		Source:         floorEventSource,
		OccurredAt:     time.Now().UTC(),
	}

	payload, err := json.Marshal(event)
	if err != nil {
		n.logger.Error("cannot marshal table status event", "error", err, "table_id", t.TableID.String())
		return
	}

	if err := n.publisher.Publish(ctx, pkg.TableStatusTopic, payload); err != nil {
		n.logger.Error("cannot publish table status event", "error", err, "table_id", t.TableID.String())
	}
}

func success(kind, title, description string, id uuid.UUID) Outcome {
	return Outcome{
		Kind:        kind,
		Severity:    SeveritySuccess,
		Title:       title,
		Description: description,
		EntityID:    id,
	}
}

func failure(kind, title string, id uuid.UUID, err error) Outcome {
	description := err.Error()
	var verr *ValidationError
	if errors.As(err, &verr) && len(verr.Reasons) > 0 {
		description = verr.Reasons[0]
	}
	return Outcome{
		Kind:        kind,
		Severity:    SeverityError,
		Title:       title,
		Description: description,
		EntityID:    id,
		Err:         err,
	}
}
