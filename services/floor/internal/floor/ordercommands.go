package floor

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

const (
	kindOrderAdd     = "order.add"
	kindOrderMerge   = "order.merge"
	kindOrderStatus  = "order.status"
	kindOrderPayment = "order.payment"
	kindOrderItems   = "order.items"
	kindOrderDelete  = "order.delete"
)

// AddOrder places an order. A Dine In request for a table that already has an
// active order is folded into that order; everything else creates a new
// Pending order. The returned action tells which happened.
func (s *Store) AddOrder(ctx context.Context, req OrderRequest) (*Order, Action, error) {
	s.cmdMu.Lock()
	defer s.cmdMu.Unlock()

	const title = "Could not place order"
	snap := s.view()

	decision, err := s.reconciler.Decide(snap, req)
	if err != nil {
		return nil, "", s.reject(ctx, kindOrderAdd, title, uuid.Nil, err)
	}

	switch decision.Action {
	case ActionMerge:
		target := decision.Target
		updated, err := s.gw.PatchOrderItems(ctx, target.ID, decision.Items)
		if err != nil {
			return nil, "", s.reject(ctx, kindOrderMerge, title, target.ID, remoteFailure("patch order items", "order", target.ID, err))
		}
		if updated == nil {
			local := target.clone()
			local.ReplaceItems(decision.Items)
			local.BeforeUpdate()
			updated = &local
		}

		s.patch(func(n *Snapshot) { n.replaceOrder(*updated) })
		s.settle(ctx, success(kindOrderMerge, "Order updated",
			fmt.Sprintf("Items added to the open order of %s", updated.CustomerName), updated.ID))
		return updated, ActionMerge, nil

	default:
		created, err := s.gw.CreateOrder(ctx, decision.Spec)
		if err != nil {
			return nil, "", s.reject(ctx, kindOrderAdd, title, uuid.Nil, &RemoteError{Op: "create order", Err: err})
		}

		s.patch(func(n *Snapshot) { n.replaceOrder(*created) })
		s.settle(ctx, success(kindOrderAdd, "Order placed",
			fmt.Sprintf("Order for %s placed", created.CustomerName), created.ID))
		return created, ActionCreate, nil
	}
}

// UpdateOrderStatus moves the order forward in its lifecycle. Reaching
// Completed or Cancelled frees the order's table.
func (s *Store) UpdateOrderStatus(ctx context.Context, id uuid.UUID, status OrderStatus) (*Order, error) {
	s.cmdMu.Lock()
	defer s.cmdMu.Unlock()
	return s.changeOrderStatus(ctx, id, status, kindOrderStatus)
}

// CompleteOrderPayment marks the order Completed and frees its table.
func (s *Store) CompleteOrderPayment(ctx context.Context, id uuid.UUID) (*Order, error) {
	s.cmdMu.Lock()
	defer s.cmdMu.Unlock()
	return s.changeOrderStatus(ctx, id, OrderCompleted, kindOrderPayment)
}

func (s *Store) changeOrderStatus(ctx context.Context, id uuid.UUID, status OrderStatus, kind string) (*Order, error) {
	const title = "Could not update order"
	snap := s.view()

	current, ok := snap.Order(id)
	if !ok {
		return nil, s.reject(ctx, kind, title, id, notFound("order", id))
	}

	if !status.Valid() {
		return nil, s.reject(ctx, kind, title, id, NewValidationError(fmt.Sprintf("invalid status %q", status)))
	}

	if current.Status == status {
		o := current.clone()
		return &o, nil
	}

	if !current.Status.CanBecome(status) {
		err := NewValidationError(fmt.Sprintf("order cannot move from %s to %s", current.Status, status))
		return nil, s.reject(ctx, kind, title, id, err)
	}

	// A partial write still moved the order, so the cascade runs before the
	// failure is reported.
	var partial error
	if err := s.gw.PatchOrderStatus(ctx, id, status); err != nil {
		if !errors.Is(err, ErrPartialWrite) {
			return nil, s.reject(ctx, kind, title, id, remoteFailure("patch order status", "order", id, err))
		}
		s.logger.Error("order status written with a failed follow-up write",
			"order_id", id.String(),
			"status", string(status),
			"error", err)
		partial = &RemoteError{Op: "patch order status", Partial: true, Err: err}
	}

	updated := current.clone()
	updated.Status = status
	updated.BeforeUpdate()

	var freed *Table
	var move *TableTransition
	if status.IsTerminal() {
		var err error
		freed, move, err = s.cascadeFree(ctx, updated, snap)
		if err != nil {
			return nil, s.reject(ctx, kind, title, id, err)
		}
	}

	s.patch(func(n *Snapshot) {
		n.replaceOrder(updated)
		if freed != nil {
			n.replaceTable(*freed)
		}
	})

	if partial != nil {
		if err := s.refresh(ctx); err != nil {
			s.logger.Error("refresh after partial status write failed", "error", err, "kind", kind)
		}
		return nil, s.reject(ctx, kind, title, id, partial)
	}

	done := "Order updated"
	if kind == kindOrderPayment {
		done = "Payment completed"
	}
	outcome := success(kind, done, fmt.Sprintf("Order for %s is %s", updated.CustomerName, status), id)
	outcome.Transition = move
	s.settle(ctx, outcome)

	return &updated, nil
}

// UpdateOrderItems replaces the order's items. Lines with zero quantity are
// dropped; negative quantities, unknown dishes and an empty result are
// rejected.
func (s *Store) UpdateOrderItems(ctx context.Context, id uuid.UUID, items []ItemRequest) (*Order, error) {
	s.cmdMu.Lock()
	defer s.cmdMu.Unlock()

	const title = "Could not update order items"
	snap := s.view()

	current, ok := snap.Order(id)
	if !ok {
		return nil, s.reject(ctx, kindOrderItems, title, id, notFound("order", id))
	}

	if !current.IsActive() {
		err := NewValidationError(fmt.Sprintf("order is %s and can no longer change", current.Status))
		return nil, s.reject(ctx, kindOrderItems, title, id, err)
	}

	lines, err := s.reconciler.ResolveItems(snap, items)
	if err != nil {
		return nil, s.reject(ctx, kindOrderItems, title, id, err)
	}

	updated, err := s.gw.PatchOrderItems(ctx, id, lines)
	if err != nil {
		return nil, s.reject(ctx, kindOrderItems, title, id, remoteFailure("patch order items", "order", id, err))
	}
	if updated == nil {
		local := current.clone()
		local.ReplaceItems(lines)
		local.BeforeUpdate()
		updated = &local
	}

	s.patch(func(n *Snapshot) { n.replaceOrder(*updated) })
	s.settle(ctx, success(kindOrderItems, "Order updated",
		fmt.Sprintf("Order for %s now totals %s", updated.CustomerName, updated.TotalAmount.StringFixed(2)), id))

	return updated, nil
}

// DeleteOrder removes the order and frees the table it referenced.
func (s *Store) DeleteOrder(ctx context.Context, id uuid.UUID) error {
	s.cmdMu.Lock()
	defer s.cmdMu.Unlock()

	const title = "Could not delete order"
	snap := s.view()

	current, ok := snap.Order(id)
	if !ok {
		return s.reject(ctx, kindOrderDelete, title, id, notFound("order", id))
	}

	if err := s.gw.DeleteOrder(ctx, id); err != nil {
		return s.reject(ctx, kindOrderDelete, title, id, remoteFailure("delete order", "order", id, err))
	}

	freed, move, err := s.cascadeFree(ctx, *current, snap)
	if err != nil {
		return s.reject(ctx, kindOrderDelete, title, id, err)
	}

	s.patch(func(n *Snapshot) {
		n.removeOrder(id)
		if freed != nil {
			n.replaceTable(*freed)
		}
	})
	outcome := success(kindOrderDelete, "Order deleted", fmt.Sprintf("Order for %s deleted", current.CustomerName), id)
	outcome.Transition = move
	s.settle(ctx, outcome)

	return nil
}

// cascadeFree frees the table of o after the order write succeeded. The two
// writes are not atomic: a failure here is reported as a partial RemoteError.
func (s *Store) cascadeFree(ctx context.Context, o Order, snap *Snapshot) (*Table, *TableTransition, error) {
	table, ok := s.lifecycle.CascadeTarget(o, snap)
	if !ok {
		return nil, nil, nil
	}

	freed, err := s.writeTable(ctx, *table, s.lifecycle.Free(*table))
	if err != nil {
		s.logger.Error("order written but table not freed",
			"order_id", o.ID.String(),
			"table_id", table.ID.String(),
			"error", err)
		return nil, nil, &RemoteError{Op: "free table", Partial: true, Err: err}
	}

	return freed, transition(*table, *freed, "order.cascade"), nil
}
