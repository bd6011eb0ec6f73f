package floor

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

const (
	kindCategoryAdd = "category.add"
	kindDishAdd     = "dish.add"
	kindCustomerAdd = "customer.add"
	kindBackfill    = "earnings.backfill"
)

func (s *Store) AddCategory(ctx context.Context, spec CategorySpec) (*Category, error) {
	s.cmdMu.Lock()
	defer s.cmdMu.Unlock()

	const title = "Could not add category"
	if errs := ValidateCategorySpec(spec, s.view().Categories); len(errs) > 0 {
		return nil, s.reject(ctx, kindCategoryAdd, title, uuid.Nil, NewValidationError(errs...))
	}

	category, err := s.gw.CreateCategory(ctx, spec)
	if err != nil {
		return nil, s.reject(ctx, kindCategoryAdd, title, uuid.Nil, &RemoteError{Op: "create category", Err: err})
	}

	s.patch(func(n *Snapshot) { n.Categories = append(n.Categories, *category) })
	s.settle(ctx, success(kindCategoryAdd, "Category added", fmt.Sprintf("%s added to the menu", category.Name), category.ID))
	return category, nil
}

// AddDish adds a menu item under an existing category.
func (s *Store) AddDish(ctx context.Context, spec DishSpec) (*Dish, error) {
	s.cmdMu.Lock()
	defer s.cmdMu.Unlock()

	const title = "Could not add dish"
	if errs := ValidateDishSpec(spec, s.view()); len(errs) > 0 {
		return nil, s.reject(ctx, kindDishAdd, title, uuid.Nil, NewValidationError(errs...))
	}
	if spec.PreparationTime <= 0 {
		spec.PreparationTime = DefaultPreparationTime
	}

	dish, err := s.gw.CreateDish(ctx, spec)
	if err != nil {
		return nil, s.reject(ctx, kindDishAdd, title, uuid.Nil, &RemoteError{Op: "create dish", Err: err})
	}

	s.patch(func(n *Snapshot) { n.Dishes = append(n.Dishes, *dish) })
	s.settle(ctx, success(kindDishAdd, "Dish added", fmt.Sprintf("%s added to the menu", dish.Name), dish.ID))
	return dish, nil
}

func (s *Store) AddCustomer(ctx context.Context, spec CustomerSpec) (*Customer, error) {
	s.cmdMu.Lock()
	defer s.cmdMu.Unlock()

	const title = "Could not add customer"
	if errs := ValidateCustomerSpec(spec); len(errs) > 0 {
		return nil, s.reject(ctx, kindCustomerAdd, title, uuid.Nil, NewValidationError(errs...))
	}

	customer, err := s.gw.CreateCustomer(ctx, spec)
	if err != nil {
		return nil, s.reject(ctx, kindCustomerAdd, title, uuid.Nil, &RemoteError{Op: "create customer", Err: err})
	}

	s.patch(func(n *Snapshot) { n.Customers = append(n.Customers, *customer) })
	s.settle(ctx, success(kindCustomerAdd, "Customer added", fmt.Sprintf("%s added", customer.Name), customer.ID))
	return customer, nil
}

// BackfillReport counts the earnings a backfill created or refreshed.
type BackfillReport struct {
	Created int  `json:"created"`
	Updated int  `json:"updated"`
	DryRun  bool `json:"dry_run"`
}

// BackfillEarnings makes sure every Completed order has exactly one earning
// with the order's total. A dry run only counts.
func (s *Store) BackfillEarnings(ctx context.Context, dryRun bool) (BackfillReport, error) {
	s.cmdMu.Lock()
	defer s.cmdMu.Unlock()

	report := BackfillReport{DryRun: dryRun}
	snap := s.view()

	existing := make(map[uuid.UUID]Earning, len(snap.Earnings))
	for _, e := range snap.Earnings {
		if e.OrderID != nil {
			existing[*e.OrderID] = e
		}
	}

	for _, o := range snap.Orders {
		if o.Status != OrderCompleted {
			continue
		}

		earning := EarningForOrder(o, s.loc)
		prior, found := existing[o.ID]
		if found {
			earning.ID = prior.ID
		}

		if dryRun {
			if found {
				report.Updated++
			} else {
				report.Created++
			}
			continue
		}

		created, err := s.gw.UpsertEarning(ctx, earning)
		if err != nil {
			err = &RemoteError{Op: "upsert earning", Partial: report.Created+report.Updated > 0, Err: err}
			return report, s.reject(ctx, kindBackfill, "Could not backfill earnings", o.ID, err)
		}
		if created {
			report.Created++
		} else {
			report.Updated++
		}
	}

	s.logger.Info("earnings backfill finished",
		"created", report.Created,
		"updated", report.Updated,
		"dry_run", dryRun)

	if dryRun {
		return report, nil
	}

	s.settle(ctx, success(kindBackfill, "Earnings backfilled",
		fmt.Sprintf("%d created, %d updated", report.Created, report.Updated), uuid.Nil))
	return report, nil
}
