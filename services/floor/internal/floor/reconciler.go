package floor

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderRequest is a new order as placed from the floor.
type OrderRequest struct {
	CustomerName string        `json:"customer_name"`
	Type         OrderType     `json:"order_type"`
	TableID      *uuid.UUID    `json:"table_id,omitempty"`
	Items        []ItemRequest `json:"items"`
}

// ItemRequest names a dish and how many of it. Price, name and category are
// taken from the menu.
type ItemRequest struct {
	DishID   uuid.UUID `json:"dish_id"`
	Quantity int       `json:"quantity"`
	Notes    string    `json:"notes,omitempty"`
}

type Action string

const (
	ActionCreate Action = "create"
	ActionMerge  Action = "merge"
)

// Decision is the reconciler's verdict for an order request. For ActionCreate
// Spec is set; for ActionMerge Target is the existing order and Items is its
// merged item list.
type Decision struct {
	Action Action
	Spec   OrderSpec
	Target Order
	Items  []OrderItem
	Total  decimal.Decimal
}

// Reconciler decides whether a request becomes a new order or folds into the
// table's active order. It reads the snapshot and never writes.
type Reconciler struct{}

func NewReconciler() *Reconciler {
	return &Reconciler{}
}

func (r *Reconciler) Decide(snap *Snapshot, req OrderRequest) (*Decision, error) {
	if errs := ValidateOrderRequest(req); len(errs) > 0 {
		return nil, NewValidationError(errs...)
	}

	lines, err := r.ResolveItems(snap, req.Items)
	if err != nil {
		return nil, err
	}

	if req.Type == OrderDineIn {
		tableID := *req.TableID
		if _, ok := snap.Table(tableID); !ok {
			return nil, notFound("table", tableID)
		}

		if existing, ok := snap.ActiveOrderForTable(tableID); ok {
			merged := MergeItems(existing.Items, lines)
			return &Decision{
				Action: ActionMerge,
				Target: existing.clone(),
				Items:  merged,
				Total:  TotalOf(merged),
			}, nil
		}
	}

	total := TotalOf(lines)
	return &Decision{
		Action: ActionCreate,
		Spec: OrderSpec{
			CustomerName: req.CustomerName,
			Type:         req.Type,
			TableID:      cloneUUID(req.TableID),
			Items:        lines,
			Status:       OrderPending,
			TotalAmount:  total,
		},
		Items: lines,
		Total: total,
	}, nil
}

// ResolveItems turns item requests into order lines priced from the menu.
// Lines with zero quantity are dropped and repeated dishes are folded into one
// line. Any dish missing from the menu rejects the whole list.
func (r *Reconciler) ResolveItems(snap *Snapshot, reqs []ItemRequest) ([]OrderItem, error) {
	var missing []string
	lines := make([]OrderItem, 0, len(reqs))
	for _, req := range reqs {
		if req.Quantity < 0 {
			return nil, NewValidationError(fmt.Sprintf("quantity for dish %s cannot be negative", req.DishID))
		}
		dish, ok := snap.Dish(req.DishID)
		if !ok {
			missing = append(missing, fmt.Sprintf("dish %s is no longer on the menu", req.DishID))
			continue
		}
		if req.Quantity == 0 {
			continue
		}
		lines = append(lines, OrderItem{
			DishID:   dish.ID,
			Name:     dish.Name,
			Price:    dish.Price,
			Quantity: req.Quantity,
			Category: dish.Category,
			Notes:    req.Notes,
		})
	}

	if len(missing) > 0 {
		return nil, NewValidationError(missing...)
	}

	lines = MergeItems(nil, lines)
	if len(lines) == 0 {
		return nil, NewValidationError("order must contain at least one item")
	}
	return lines, nil
}

// MergeItems folds incoming into existing keyed by dish identity: matching
// lines add quantities, new dishes are appended in arrival order. Existing
// lines keep their price. Neither input is modified.
func MergeItems(existing, incoming []OrderItem) []OrderItem {
	merged := make([]OrderItem, 0, len(existing)+len(incoming))
	index := make(map[uuid.UUID]int, len(existing)+len(incoming))

	add := func(item OrderItem) {
		if pos, ok := index[item.DishID]; ok {
			merged[pos].Quantity += item.Quantity
			if merged[pos].Notes == "" {
				merged[pos].Notes = item.Notes
			}
			return
		}
		index[item.DishID] = len(merged)
		merged = append(merged, item)
	}

	for _, item := range existing {
		add(item)
	}
	for _, item := range incoming {
		add(item)
	}

	out := merged[:0]
	for _, item := range merged {
		if item.Quantity > 0 {
			out = append(out, item)
		}
	}
	return out
}
