package floor

import (
	"fmt"
	"strings"
)

func ValidateOrderRequest(req OrderRequest) []string {
	var errors []string

	if strings.TrimSpace(req.CustomerName) == "" {
		errors = append(errors, "customer_name is required")
	}

	switch req.Type {
	case OrderDineIn:
		if req.TableID == nil {
			errors = append(errors, "table_id is required for dine in orders")
		}
	case OrderTakeaway:
		if req.TableID != nil {
			errors = append(errors, "takeaway orders cannot reference a table")
		}
	default:
		errors = append(errors, "invalid order_type")
	}

	if len(req.Items) == 0 {
		errors = append(errors, "order must contain at least one item")
	}

	for i, item := range req.Items {
		if item.Quantity <= 0 {
			errors = append(errors, fmt.Sprintf("items[%d]: quantity must be greater than 0", i))
		}
	}

	return errors
}

func ValidateTableSpec(spec TableSpec, existing []Table) []string {
	var errors []string

	if spec.Number <= 0 {
		errors = append(errors, "number must be greater than 0")
	}

	if spec.Seats <= 0 {
		errors = append(errors, "seats must be greater than 0")
	}

	for _, t := range existing {
		if t.Number == spec.Number {
			errors = append(errors, fmt.Sprintf("table number %d already exists", spec.Number))
			break
		}
	}

	return errors
}

func ValidateCategorySpec(spec CategorySpec, existing []Category) []string {
	var errors []string

	name := strings.TrimSpace(spec.Name)
	if name == "" {
		errors = append(errors, "name is required")
	}

	for _, c := range existing {
		if name != "" && sameName(c.Name, name) {
			errors = append(errors, fmt.Sprintf("category %q already exists", name))
			break
		}
	}

	return errors
}

func ValidateDishSpec(spec DishSpec, snap *Snapshot) []string {
	var errors []string

	if strings.TrimSpace(spec.Name) == "" {
		errors = append(errors, "name is required")
	}

	if !spec.Price.IsPositive() {
		errors = append(errors, "price must be greater than 0")
	}

	if _, ok := snap.Category(spec.CategoryID); !ok {
		errors = append(errors, "category_id does not name an existing category")
	}

	return errors
}

func ValidateCustomerSpec(spec CustomerSpec) []string {
	var errors []string

	if strings.TrimSpace(spec.Name) == "" {
		errors = append(errors, "name is required")
	}

	if spec.Email != "" && !strings.Contains(spec.Email, "@") {
		errors = append(errors, "email is invalid")
	}

	return errors
}
