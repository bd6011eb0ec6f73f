package floor

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const (
	kindTableAdd    = "table.add"
	kindTableUpdate = "table.update"
	kindTableDelete = "table.delete"
	kindTableBook   = "table.book"
	kindTableOccupy = "table.occupy"
	kindTableFree   = "table.free"
)

// AddTable creates an Available table. The number must be positive and unused.
func (s *Store) AddTable(ctx context.Context, spec TableSpec) (*Table, error) {
	s.cmdMu.Lock()
	defer s.cmdMu.Unlock()

	snap := s.view()
	if errs := ValidateTableSpec(spec, snap.Tables); len(errs) > 0 {
		return nil, s.reject(ctx, kindTableAdd, "Could not add table", uuid.Nil, NewValidationError(errs...))
	}

	table, err := s.gw.CreateTable(ctx, spec)
	if err != nil {
		return nil, s.reject(ctx, kindTableAdd, "Could not add table", uuid.Nil, &RemoteError{Op: "create table", Err: err})
	}

	s.patch(func(n *Snapshot) { n.replaceTable(*table) })
	s.settle(ctx, success(kindTableAdd, "Table added",
		fmt.Sprintf("Table %d with %d seats added", table.Number, table.Seats), table.ID))

	return table, nil
}

// UpdateTable applies a partial update. Status changes follow the table state
// machine and reservation metadata survives only on Booked tables.
func (s *Store) UpdateTable(ctx context.Context, id uuid.UUID, patch TablePatch) (*Table, error) {
	s.cmdMu.Lock()
	defer s.cmdMu.Unlock()

	const title = "Could not update table"
	snap := s.view()

	current, ok := snap.Table(id)
	if !ok {
		return nil, s.reject(ctx, kindTableUpdate, title, id, notFound("table", id))
	}

	if errs := validateTablePatch(*current, patch, snap.Tables); len(errs) > 0 {
		return nil, s.reject(ctx, kindTableUpdate, title, id, NewValidationError(errs...))
	}

	normalized, err := s.lifecycle.Normalize(*current, patch)
	if err != nil {
		return nil, s.reject(ctx, kindTableUpdate, title, id, err)
	}

	updated, err := s.writeTable(ctx, *current, normalized)
	if err != nil {
		return nil, s.reject(ctx, kindTableUpdate, title, id, err)
	}

	s.patch(func(n *Snapshot) { n.replaceTable(*updated) })
	outcome := success(kindTableUpdate, "Table updated", fmt.Sprintf("Table %d updated", updated.Number), id)
	outcome.Transition = transition(*current, *updated, kindTableUpdate)
	s.settle(ctx, outcome)

	return updated, nil
}

// DeleteTable removes the table. Orders that referenced it keep a dangling
// reference that reads as no table.
func (s *Store) DeleteTable(ctx context.Context, id uuid.UUID) error {
	s.cmdMu.Lock()
	defer s.cmdMu.Unlock()

	const title = "Could not delete table"
	current, ok := s.view().Table(id)
	if !ok {
		return s.reject(ctx, kindTableDelete, title, id, notFound("table", id))
	}
	number := current.Number

	if err := s.gw.DeleteTable(ctx, id); err != nil {
		return s.reject(ctx, kindTableDelete, title, id, remoteFailure("delete table", "table", id, err))
	}

	s.patch(func(n *Snapshot) { n.removeTable(id) })
	s.settle(ctx, success(kindTableDelete, "Table deleted", fmt.Sprintf("Table %d deleted", number), id))
	return nil
}

// BookTable reserves the table for customer at the given time, which must be in
// the future.
func (s *Store) BookTable(ctx context.Context, id uuid.UUID, customer string, at time.Time) (*Table, error) {
	s.cmdMu.Lock()
	defer s.cmdMu.Unlock()

	const title = "Could not book table"
	current, ok := s.view().Table(id)
	if !ok {
		return nil, s.reject(ctx, kindTableBook, title, id, notFound("table", id))
	}

	patch, err := s.lifecycle.Book(*current, customer, at)
	if err != nil {
		return nil, s.reject(ctx, kindTableBook, title, id, err)
	}

	updated, err := s.gw.BookTable(ctx, id, *patch.Customer, *patch.ReservationTime)
	if err != nil {
		return nil, s.reject(ctx, kindTableBook, title, id, remoteFailure("book table", "table", id, err))
	}
	if updated == nil {
		local := *current
		local.Apply(patch)
		updated = &local
	}

	s.patch(func(n *Snapshot) { n.replaceTable(*updated) })
	outcome := success(kindTableBook, "Table booked",
		fmt.Sprintf("Table %d booked for %s", updated.Number, updated.Customer), id)
	outcome.Transition = transition(*current, *updated, kindTableBook)
	s.settle(ctx, outcome)

	return updated, nil
}

// OccupyTable seats guests, dropping any reservation.
func (s *Store) OccupyTable(ctx context.Context, id uuid.UUID) (*Table, error) {
	return s.moveTable(ctx, id, kindTableOccupy, "Table occupied", s.lifecycle.Occupy)
}

// FreeTable makes the table Available. Freeing an Available table is a no-op
// write.
func (s *Store) FreeTable(ctx context.Context, id uuid.UUID) (*Table, error) {
	return s.moveTable(ctx, id, kindTableFree, "Table freed", s.lifecycle.Free)
}

func (s *Store) moveTable(ctx context.Context, id uuid.UUID, kind, done string, next func(Table) TablePatch) (*Table, error) {
	s.cmdMu.Lock()
	defer s.cmdMu.Unlock()

	title := "Could not update table"
	current, ok := s.view().Table(id)
	if !ok {
		return nil, s.reject(ctx, kind, title, id, notFound("table", id))
	}

	patch := next(*current)
	if !CanTransition(current.Status, *patch.Status) {
		err := NewValidationError(fmt.Sprintf("table %d cannot move from %s to %s", current.Number, current.Status, *patch.Status))
		return nil, s.reject(ctx, kind, title, id, err)
	}

	updated, err := s.writeTable(ctx, *current, patch)
	if err != nil {
		return nil, s.reject(ctx, kind, title, id, err)
	}

	s.patch(func(n *Snapshot) { n.replaceTable(*updated) })
	outcome := success(kind, done, fmt.Sprintf("Table %d is now %s", updated.Number, updated.Status), id)
	outcome.Transition = transition(*current, *updated, kind)
	s.settle(ctx, outcome)

	return updated, nil
}

// writeTable sends patch to the gateway. When the gateway does not echo the
// record back the patch is applied locally.
func (s *Store) writeTable(ctx context.Context, current Table, patch TablePatch) (*Table, error) {
	updated, err := s.gw.PatchTable(ctx, current.ID, patch)
	if err != nil {
		return nil, remoteFailure("patch table", "table", current.ID, err)
	}
	if updated == nil {
		local := current
		local.Apply(patch)
		local.BeforeUpdate()
		updated = &local
	}
	return updated, nil
}

func validateTablePatch(current Table, p TablePatch, tables []Table) []string {
	var errs []string
	if p.Number != nil {
		if *p.Number <= 0 {
			errs = append(errs, "number must be greater than 0")
		}
		for _, t := range tables {
			if t.ID != current.ID && t.Number == *p.Number {
				errs = append(errs, fmt.Sprintf("table number %d already exists", *p.Number))
				break
			}
		}
	}
	if p.Seats != nil && *p.Seats <= 0 {
		errs = append(errs, "seats must be greater than 0")
	}
	return errs
}

func transition(before, after Table, reason string) *TableTransition {
	if before.Status == after.Status {
		return nil
	}
	return &TableTransition{
		TableID: after.ID,
		From:    before.Status,
		To:      after.Status,
		Reason:  reason,
	}
}
