package floor

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/aquamarinepk/aqm"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Store owns the floor snapshot. Commands are serialized; each successful write
// is applied tentatively to a copy of the snapshot and then replaced by a full
// refresh from the gateway. Readers always receive copies.
type Store struct {
	gw         Gateway
	reconciler *Reconciler
	lifecycle  *Lifecycle
	notifier   Notifier
	logger     aqm.Logger
	now        func() time.Time
	loc        *time.Location

	cmdMu sync.Mutex

	mu   sync.RWMutex
	snap *Snapshot
}

type Option func(*Store)

func WithNotifier(n Notifier) Option {
	return func(s *Store) {
		if n != nil {
			s.notifier = n
		}
	}
}

func WithLogger(logger aqm.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLocation sets the time zone used for calendar-day buckets.
func WithLocation(loc *time.Location) Option {
	return func(s *Store) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// WithSnapshot seeds the store with an initial snapshot instead of an empty one.
func WithSnapshot(snap *Snapshot) Option {
	return func(s *Store) {
		if snap != nil {
			s.snap = snap.Clone()
		}
	}
}

func NewStore(gw Gateway, opts ...Option) *Store {
	s := &Store{
		gw:         gw,
		reconciler: NewReconciler(),
		notifier:   NoopNotifier{},
		logger:     aqm.NewNoopLogger(),
		now:        time.Now,
		loc:        time.Local,
		snap:       &Snapshot{},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.lifecycle = NewLifecycle(s.now)
	s.snap.enrich()
	s.snap.Stats = Aggregate(s.snap.statsInput(), s.now(), s.loc)
	return s
}

// Refresh pulls every collection from the gateway and replaces the snapshot.
// On failure the current snapshot is kept.
func (s *Store) Refresh(ctx context.Context) error {
	s.cmdMu.Lock()
	defer s.cmdMu.Unlock()
	return s.refresh(ctx)
}

func (s *Store) refresh(ctx context.Context) error {
	next := &Snapshot{}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		next.Tables, err = s.gw.ListTables(gctx)
		return wrapList("tables", err)
	})
	g.Go(func() (err error) {
		next.Orders, err = s.gw.ListOrders(gctx)
		return wrapList("orders", err)
	})
	g.Go(func() (err error) {
		next.Dishes, err = s.gw.ListDishes(gctx)
		return wrapList("dishes", err)
	})
	g.Go(func() (err error) {
		next.Categories, err = s.gw.ListCategories(gctx)
		return wrapList("categories", err)
	})
	g.Go(func() (err error) {
		next.Customers, err = s.gw.ListCustomers(gctx)
		return wrapList("customers", err)
	})
	g.Go(func() (err error) {
		next.Earnings, err = s.gw.ListEarnings(gctx)
		return wrapList("earnings", err)
	})

	if err := g.Wait(); err != nil {
		return &RemoteError{Op: "refresh", Err: err}
	}

	next.enrich()
	next.RefreshedAt = s.now()
	next.Stats = Aggregate(next.statsInput(), next.RefreshedAt, s.loc)

	s.mu.Lock()
	s.snap = next
	s.mu.Unlock()

	s.logger.Debug("floor snapshot refreshed",
		"tables", len(next.Tables),
		"orders", len(next.Orders),
		"dishes", len(next.Dishes))
	return nil
}

func wrapList(resource string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("list %s: %w", resource, err)
}

// view returns the published snapshot. Published snapshots are never mutated in
// place, so callers inside the package may read it without holding the lock.
func (s *Store) view() *Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

// patch applies fn to a copy of the snapshot and publishes it as tentative.
func (s *Store) patch(fn func(*Snapshot)) {
	next := s.view().Clone()
	fn(next)
	next.enrich()
	next.Stats = Aggregate(next.statsInput(), s.now(), s.loc)
	next.Tentative = true

	s.mu.Lock()
	s.snap = next
	s.mu.Unlock()
}

// settle refreshes after a successful write and reports the outcome. The write
// already happened, so a failed refresh keeps the tentative snapshot and does
// not fail the command.
func (s *Store) settle(ctx context.Context, o Outcome) {
	if err := s.refresh(ctx); err != nil {
		s.logger.Error("refresh after command failed", "error", err, "kind", o.Kind)
	}
	s.notifier.Notify(ctx, o)
}

func (s *Store) reject(ctx context.Context, kind, title string, id uuid.UUID, err error) error {
	s.notifier.Notify(ctx, failure(kind, title, id, err))
	return err
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() *Snapshot {
	return s.view().Clone()
}

func (s *Store) Tables() []Table {
	return s.Snapshot().Tables
}

func (s *Store) Orders() []Order {
	return s.Snapshot().Orders
}

func (s *Store) Categories() []Category {
	return s.Snapshot().Categories
}

func (s *Store) Dishes() []Dish {
	return s.Snapshot().Dishes
}

func (s *Store) Customers() []Customer {
	return s.Snapshot().Customers
}

func (s *Store) Earnings() []Earning {
	return s.Snapshot().Earnings
}

func (s *Store) Stats() StatsSnapshot {
	return s.view().Stats
}

func (s *Store) Performance() Performance {
	return BuildPerformance(s.view().Orders, s.now(), s.loc)
}

// OrdersByStatus filters orders by status; an empty status returns all.
func (s *Store) OrdersByStatus(status OrderStatus) []Order {
	orders := s.Orders()
	if status == "" {
		return orders
	}
	out := make([]Order, 0, len(orders))
	for _, o := range orders {
		if o.Status == status {
			out = append(out, o)
		}
	}
	return out
}

// TablesByStatus filters tables by status; an empty status returns all.
func (s *Store) TablesByStatus(status TableStatus) []Table {
	tables := s.Tables()
	if status == "" {
		return tables
	}
	out := make([]Table, 0, len(tables))
	for _, t := range tables {
		if t.Status == status {
			out = append(out, t)
		}
	}
	return out
}

// DishesByCategory filters dishes by category name, ignoring case; an empty
// name returns all.
func (s *Store) DishesByCategory(category string) []Dish {
	dishes := s.Dishes()
	category = strings.TrimSpace(category)
	if category == "" {
		return dishes
	}
	out := make([]Dish, 0, len(dishes))
	for _, d := range dishes {
		if sameName(d.Category, category) {
			out = append(out, d)
		}
	}
	return out
}
