package floor

import (
	"fmt"
	"strings"
	"time"
)

// tableTransitions lists the allowed moves of the table state machine. Staying
// in the same state is allowed so frees and re-bookings are idempotent, except
// that an occupied table cannot be booked.
var tableTransitions = map[TableStatus][]TableStatus{
	TableAvailable: {TableAvailable, TableBooked, TableOccupied},
	TableBooked:    {TableBooked, TableAvailable, TableOccupied},
	TableOccupied:  {TableOccupied, TableAvailable},
}

func CanTransition(from, to TableStatus) bool {
	for _, next := range tableTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Lifecycle computes table transitions. It validates and returns the patch to
// write; it never calls the gateway itself.
type Lifecycle struct {
	now func() time.Time
}

func NewLifecycle(now func() time.Time) *Lifecycle {
	if now == nil {
		now = time.Now
	}
	return &Lifecycle{now: now}
}

// Book validates a reservation for t: a non-empty customer and a reservation
// strictly in the future. Seated tables are not bookable; staff free them first.
func (l *Lifecycle) Book(t Table, customer string, at time.Time) (TablePatch, error) {
	var errs []string

	customer = strings.TrimSpace(customer)
	if customer == "" {
		errs = append(errs, "customer name is required")
	}

	if at.IsZero() {
		errs = append(errs, "reservation time is required")
	} else if !at.After(l.now()) {
		errs = append(errs, "reservation time must be in the future")
	}

	if !CanTransition(t.Status, TableBooked) {
		errs = append(errs, fmt.Sprintf("table %d is %s and cannot be booked", t.Number, t.Status))
	}

	if len(errs) > 0 {
		return TablePatch{}, NewValidationError(errs...)
	}

	status := TableBooked
	return TablePatch{
		Status:          &status,
		Customer:        &customer,
		ReservationTime: &at,
	}, nil
}

// Occupy seats guests at t, dropping any reservation metadata.
func (l *Lifecycle) Occupy(t Table) TablePatch {
	return statusPatch(TableOccupied)
}

// Free makes t available and clears reservation metadata.
func (l *Lifecycle) Free(t Table) TablePatch {
	return statusPatch(TableAvailable)
}

// Normalize validates a generic table patch against the state machine and the
// Booked-only reservation invariant. Moving into Booked goes through the same
// checks as Book; any other resulting status clears the reservation.
func (l *Lifecycle) Normalize(t Table, p TablePatch) (TablePatch, error) {
	target := t.Status
	if p.Status != nil {
		if !p.Status.Valid() {
			return TablePatch{}, NewValidationError(fmt.Sprintf("invalid status %q", *p.Status))
		}
		target = *p.Status
		if !CanTransition(t.Status, target) {
			return TablePatch{}, NewValidationError(fmt.Sprintf("table %d cannot move from %s to %s", t.Number, t.Status, target))
		}
	}

	if target != TableBooked {
		empty := ""
		p.Customer = &empty
		p.ReservationTime = nil
		p.ClearReservation = true
		return p, nil
	}

	bookingChanged := t.Status != TableBooked || p.Customer != nil || p.ReservationTime != nil
	if !bookingChanged {
		return p, nil
	}

	customer := t.Customer
	if p.Customer != nil {
		customer = *p.Customer
	}
	var at time.Time
	if p.ReservationTime != nil {
		at = *p.ReservationTime
	} else if t.ReservationTime != nil {
		at = *t.ReservationTime
	}

	booked, err := l.Book(t, customer, at)
	if err != nil {
		return TablePatch{}, err
	}
	booked.Number = p.Number
	booked.Seats = p.Seats
	return booked, nil
}

// CascadeTarget returns the table to free after o reached a terminal status or
// was deleted. Orders without a table, or whose table no longer exists, have
// nothing to cascade.
func (l *Lifecycle) CascadeTarget(o Order, snap *Snapshot) (*Table, bool) {
	table, ok := snap.TableOf(o)
	if !ok {
		return nil, false
	}
	t := *table
	return &t, true
}

func statusPatch(status TableStatus) TablePatch {
	empty := ""
	return TablePatch{
		Status:           &status,
		Customer:         &empty,
		ClearReservation: true,
	}
}
