package floor

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Gateway is the remote record store the floor reconciles against. Implementations
// translate wire formats and report failures as errors; a missing record should
// wrap ErrNotFound.
type Gateway interface {
	TableGateway
	OrderGateway
	MenuGateway
	CustomerGateway
	EarningGateway
}

type TableGateway interface {
	ListTables(ctx context.Context) ([]Table, error)
	CreateTable(ctx context.Context, spec TableSpec) (*Table, error)
	PatchTable(ctx context.Context, id uuid.UUID, patch TablePatch) (*Table, error)
	DeleteTable(ctx context.Context, id uuid.UUID) error
	BookTable(ctx context.Context, id uuid.UUID, customer string, at time.Time) (*Table, error)
}

type OrderGateway interface {
	ListOrders(ctx context.Context) ([]Order, error)
	CreateOrder(ctx context.Context, spec OrderSpec) (*Order, error)
	PatchOrderStatus(ctx context.Context, id uuid.UUID, status OrderStatus) error
	PatchOrderItems(ctx context.Context, id uuid.UUID, items []OrderItem) (*Order, error)
	DeleteOrder(ctx context.Context, id uuid.UUID) error
}

type MenuGateway interface {
	ListDishes(ctx context.Context) ([]Dish, error)
	CreateDish(ctx context.Context, spec DishSpec) (*Dish, error)
	ListCategories(ctx context.Context) ([]Category, error)
	CreateCategory(ctx context.Context, spec CategorySpec) (*Category, error)
}

type CustomerGateway interface {
	ListCustomers(ctx context.Context) ([]Customer, error)
	CreateCustomer(ctx context.Context, spec CustomerSpec) (*Customer, error)
}

type EarningGateway interface {
	ListEarnings(ctx context.Context) ([]Earning, error)
	// UpsertEarning stores e keyed by its order reference when present.
	// It reports whether a new record was created.
	UpsertEarning(ctx context.Context, e Earning) (created bool, err error)
}
