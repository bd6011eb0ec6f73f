package floor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MockGateway is an in-memory Gateway. Any XxxFunc that is set replaces the
// default behavior of the matching method.
type MockGateway struct {
	mu         sync.Mutex
	tables     []Table
	orders     []Order
	dishes     []Dish
	categories []Category
	customers  []Customer
	earnings   []Earning

	ListTablesFunc       func(ctx context.Context) ([]Table, error)
	CreateTableFunc      func(ctx context.Context, spec TableSpec) (*Table, error)
	PatchTableFunc       func(ctx context.Context, id uuid.UUID, patch TablePatch) (*Table, error)
	DeleteTableFunc      func(ctx context.Context, id uuid.UUID) error
	BookTableFunc        func(ctx context.Context, id uuid.UUID, customer string, at time.Time) (*Table, error)
	ListOrdersFunc       func(ctx context.Context) ([]Order, error)
	CreateOrderFunc      func(ctx context.Context, spec OrderSpec) (*Order, error)
	PatchOrderStatusFunc func(ctx context.Context, id uuid.UUID, status OrderStatus) error
	PatchOrderItemsFunc  func(ctx context.Context, id uuid.UUID, items []OrderItem) (*Order, error)
	DeleteOrderFunc      func(ctx context.Context, id uuid.UUID) error
	UpsertEarningFunc    func(ctx context.Context, e Earning) (bool, error)

	calls map[string]int
}

func NewMockGateway() *MockGateway {
	return &MockGateway{calls: make(map[string]int)}
}

func (m *MockGateway) record(name string) {
	m.mu.Lock()
	m.calls[name]++
	m.mu.Unlock()
}

// Calls reports how many times the named method ran.
func (m *MockGateway) Calls(name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[name]
}

func (m *MockGateway) SeedTables(tables ...Table) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tables = append(m.tables, tables...)
}

func (m *MockGateway) SeedOrders(orders ...Order) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.orders = append(m.orders, orders...)
}

func (m *MockGateway) SeedDishes(dishes ...Dish) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dishes = append(m.dishes, dishes...)
}

func (m *MockGateway) SeedCategories(categories ...Category) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.categories = append(m.categories, categories...)
}

func (m *MockGateway) SeedEarnings(earnings ...Earning) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.earnings = append(m.earnings, earnings...)
}

func (m *MockGateway) ListTables(ctx context.Context) ([]Table, error) {
	m.record("ListTables")
	if m.ListTablesFunc != nil {
		return m.ListTablesFunc(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Table(nil), m.tables...), nil
}

func (m *MockGateway) CreateTable(ctx context.Context, spec TableSpec) (*Table, error) {
	m.record("CreateTable")
	if m.CreateTableFunc != nil {
		return m.CreateTableFunc(ctx, spec)
	}
	t := NewTable(spec)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tables = append(m.tables, *t)
	return t, nil
}

func (m *MockGateway) PatchTable(ctx context.Context, id uuid.UUID, patch TablePatch) (*Table, error) {
	m.record("PatchTable")
	if m.PatchTableFunc != nil {
		return m.PatchTableFunc(ctx, id, patch)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.tables {
		if m.tables[i].ID == id {
			m.tables[i].Apply(patch)
			t := m.tables[i]
			return &t, nil
		}
	}
	return nil, fmt.Errorf("table %w", ErrNotFound)
}

func (m *MockGateway) DeleteTable(ctx context.Context, id uuid.UUID) error {
	m.record("DeleteTable")
	if m.DeleteTableFunc != nil {
		return m.DeleteTableFunc(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.tables {
		if m.tables[i].ID == id {
			m.tables = append(m.tables[:i], m.tables[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("table %w", ErrNotFound)
}

func (m *MockGateway) BookTable(ctx context.Context, id uuid.UUID, customer string, at time.Time) (*Table, error) {
	m.record("BookTable")
	if m.BookTableFunc != nil {
		return m.BookTableFunc(ctx, id, customer, at)
	}
	status := TableBooked
	return m.PatchTable(ctx, id, TablePatch{Status: &status, Customer: &customer, ReservationTime: &at})
}

func (m *MockGateway) ListOrders(ctx context.Context) ([]Order, error) {
	m.record("ListOrders")
	if m.ListOrdersFunc != nil {
		return m.ListOrdersFunc(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Order, len(m.orders))
	for i, o := range m.orders {
		out[i] = o.clone()
	}
	return out, nil
}

func (m *MockGateway) CreateOrder(ctx context.Context, spec OrderSpec) (*Order, error) {
	m.record("CreateOrder")
	if m.CreateOrderFunc != nil {
		return m.CreateOrderFunc(ctx, spec)
	}
	o := NewOrder(spec)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.orders = append(m.orders, o.clone())
	return o, nil
}

func (m *MockGateway) PatchOrderStatus(ctx context.Context, id uuid.UUID, status OrderStatus) error {
	m.record("PatchOrderStatus")
	if m.PatchOrderStatusFunc != nil {
		return m.PatchOrderStatusFunc(ctx, id, status)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.orders {
		if m.orders[i].ID == id {
			m.orders[i].Status = status
			return nil
		}
	}
	return fmt.Errorf("order %w", ErrNotFound)
}

func (m *MockGateway) PatchOrderItems(ctx context.Context, id uuid.UUID, items []OrderItem) (*Order, error) {
	m.record("PatchOrderItems")
	if m.PatchOrderItemsFunc != nil {
		return m.PatchOrderItemsFunc(ctx, id, items)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.orders {
		if m.orders[i].ID == id {
			m.orders[i].ReplaceItems(items)
			o := m.orders[i].clone()
			return &o, nil
		}
	}
	return nil, fmt.Errorf("order %w", ErrNotFound)
}

func (m *MockGateway) DeleteOrder(ctx context.Context, id uuid.UUID) error {
	m.record("DeleteOrder")
	if m.DeleteOrderFunc != nil {
		return m.DeleteOrderFunc(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.orders {
		if m.orders[i].ID == id {
			m.orders = append(m.orders[:i], m.orders[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("order %w", ErrNotFound)
}

func (m *MockGateway) ListDishes(ctx context.Context) ([]Dish, error) {
	m.record("ListDishes")
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Dish(nil), m.dishes...), nil
}

func (m *MockGateway) CreateDish(ctx context.Context, spec DishSpec) (*Dish, error) {
	m.record("CreateDish")
	d := NewDish(spec)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dishes = append(m.dishes, *d)
	return d, nil
}

func (m *MockGateway) ListCategories(ctx context.Context) ([]Category, error) {
	m.record("ListCategories")
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Category(nil), m.categories...), nil
}

func (m *MockGateway) CreateCategory(ctx context.Context, spec CategorySpec) (*Category, error) {
	m.record("CreateCategory")
	c := NewCategory(spec)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.categories = append(m.categories, *c)
	return c, nil
}

func (m *MockGateway) ListCustomers(ctx context.Context) ([]Customer, error) {
	m.record("ListCustomers")
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Customer(nil), m.customers...), nil
}

func (m *MockGateway) CreateCustomer(ctx context.Context, spec CustomerSpec) (*Customer, error) {
	m.record("CreateCustomer")
	c := NewCustomer(spec)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.customers = append(m.customers, *c)
	return c, nil
}

func (m *MockGateway) ListEarnings(ctx context.Context) ([]Earning, error) {
	m.record("ListEarnings")
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Earning(nil), m.earnings...), nil
}

func (m *MockGateway) UpsertEarning(ctx context.Context, e Earning) (bool, error) {
	m.record("UpsertEarning")
	if m.UpsertEarningFunc != nil {
		return m.UpsertEarningFunc(ctx, e)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.earnings {
		if e.OrderID != nil && m.earnings[i].OrderID != nil && *m.earnings[i].OrderID == *e.OrderID {
			e.ID = m.earnings[i].ID
			m.earnings[i] = e
			return false, nil
		}
	}
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	m.earnings = append(m.earnings, e)
	return true, nil
}

// MockPublisher is a mock implementation of events.Publisher for testing
type MockPublisher struct {
	mu          sync.Mutex
	Published   map[string][][]byte
	PublishFunc func(ctx context.Context, topic string, msg []byte) error
}

func NewMockPublisher() *MockPublisher {
	return &MockPublisher{Published: make(map[string][][]byte)}
}

func (m *MockPublisher) Publish(ctx context.Context, topic string, msg []byte) error {
	if m.PublishFunc != nil {
		return m.PublishFunc(ctx, topic, msg)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Published[topic] = append(m.Published[topic], msg)
	return nil
}

// recordingNotifier keeps every outcome it sees.
type recordingNotifier struct {
	mu       sync.Mutex
	outcomes []Outcome
}

func (r *recordingNotifier) Notify(_ context.Context, o Outcome) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outcomes = append(r.outcomes, o)
}

func (r *recordingNotifier) last() (Outcome, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.outcomes) == 0 {
		return Outcome{}, false
	}
	return r.outcomes[len(r.outcomes)-1], true
}
