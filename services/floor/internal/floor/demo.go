package floor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/aquamarinepk/aqm"
	"github.com/aquamarinepk/aqm/seed"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/mongo"
)

const demoSeedApplication = "floor_demo"

type demoSeedDocument struct {
	Tables     []tableSeed    `json:"tables"`
	Categories []categorySeed `json:"categories"`
}

type tableSeed struct {
	Number int `json:"number"`
	Seats  int `json:"seats"`
}

type categorySeed struct {
	Name   string     `json:"name"`
	Emoji  string     `json:"emoji"`
	Color  string     `json:"color"`
	Dishes []dishSeed `json:"dishes"`
}

type dishSeed struct {
	Name            string          `json:"name"`
	Description     string          `json:"description"`
	Price           decimal.Decimal `json:"price"`
	IsVeg           bool            `json:"is_veg"`
	PreparationTime int             `json:"preparation_time"`
}

// MongoDatabaseProvider is implemented by gateways backed by MongoDB; their
// database also tracks applied seeds.
type MongoDatabaseProvider interface {
	GetDatabase() *mongo.Database
}

func loadDemoSeeds(seedFS fs.FS) (*demoSeedDocument, error) {
	raw, err := fs.ReadFile(seedFS, "seed.json")
	if err != nil {
		return nil, fmt.Errorf("read seed.json: %w", err)
	}
	if len(raw) == 0 {
		return nil, errors.New("demo seed file is empty")
	}

	var doc demoSeedDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode demo seed file: %w", err)
	}
	return &doc, nil
}

// ApplyDemoSeeds makes sure the demo tables, categories and dishes exist. Each
// seed checks the gateway first, so running it twice creates nothing new.
// Without a tracker the seeds run unconditionally.
func ApplyDemoSeeds(ctx context.Context, gw Gateway, tracker seed.Tracker, seedFS fs.FS, logger aqm.Logger) error {
	if gw == nil {
		return errors.New("gateway is required for demo seeding")
	}
	if logger == nil {
		logger = aqm.NewNoopLogger()
	}

	doc, err := loadDemoSeeds(seedFS)
	if err != nil {
		return err
	}

	defs := buildDemoSeeds(doc, gw, logger)
	if len(defs) == 0 {
		logger.Info("No demo seeds to apply")
		return nil
	}

	if tracker == nil {
		for _, def := range defs {
			if err := def.Run(ctx); err != nil {
				return fmt.Errorf("seed %s: %w", def.ID, err)
			}
		}
		return nil
	}

	logger.Info("Applying demo seeds")
	if err := seed.Apply(ctx, tracker, defs, demoSeedApplication); err != nil {
		return err
	}
	logger.Info("Demo seeds applied successfully")
	return nil
}

// TrackerFor returns a Mongo seed tracker when the gateway exposes a database.
func TrackerFor(gw Gateway) seed.Tracker {
	provider, ok := gw.(MongoDatabaseProvider)
	if !ok {
		return nil
	}
	db := provider.GetDatabase()
	if db == nil {
		return nil
	}
	return seed.NewMongoTracker(db)
}

func buildDemoSeeds(doc *demoSeedDocument, gw Gateway, logger aqm.Logger) []seed.Seed {
	var defs []seed.Seed

	for _, t := range doc.Tables {
		spec := TableSpec{Number: t.Number, Seats: t.Seats}
		if spec.Number <= 0 {
			logger.Info("Skipping seed table with invalid number", "number", t.Number)
			continue
		}
		defs = append(defs, seed.Seed{
			ID:          fmt.Sprintf("2025-01-10_table_%d", spec.Number),
			Description: fmt.Sprintf("Ensure table %d exists", spec.Number),
			Run: func(ctx context.Context) error {
				return ensureTable(ctx, gw, spec, logger)
			},
		})
	}

	for _, c := range doc.Categories {
		cat := c
		if strings.TrimSpace(cat.Name) == "" {
			logger.Info("Skipping seed category with empty name")
			continue
		}
		defs = append(defs, seed.Seed{
			ID:          fmt.Sprintf("2025-01-10_category_%s", seedIdentifier(cat.Name)),
			Description: fmt.Sprintf("Ensure category %s and its dishes exist", cat.Name),
			Run: func(ctx context.Context) error {
				return ensureCategory(ctx, gw, cat, logger)
			},
		})
	}

	return defs
}

func ensureTable(ctx context.Context, gw Gateway, spec TableSpec, logger aqm.Logger) error {
	tables, err := gw.ListTables(ctx)
	if err != nil {
		return fmt.Errorf("list tables: %w", err)
	}
	for _, t := range tables {
		if t.Number == spec.Number {
			return nil
		}
	}

	if _, err := gw.CreateTable(ctx, spec); err != nil {
		return fmt.Errorf("create table %d: %w", spec.Number, err)
	}
	logger.Info("Seeded table", "number", spec.Number, "seats", spec.Seats)
	return nil
}

func ensureCategory(ctx context.Context, gw Gateway, cs categorySeed, logger aqm.Logger) error {
	categories, err := gw.ListCategories(ctx)
	if err != nil {
		return fmt.Errorf("list categories: %w", err)
	}

	var category *Category
	for i := range categories {
		if sameName(categories[i].Name, cs.Name) {
			category = &categories[i]
			break
		}
	}

	if category == nil {
		category, err = gw.CreateCategory(ctx, CategorySpec{Name: cs.Name, Emoji: cs.Emoji, Color: cs.Color})
		if err != nil {
			return fmt.Errorf("create category %s: %w", cs.Name, err)
		}
		logger.Info("Seeded category", "name", cs.Name)
	}

	dishes, err := gw.ListDishes(ctx)
	if err != nil {
		return fmt.Errorf("list dishes: %w", err)
	}
	known := make(map[string]bool, len(dishes))
	for _, d := range dishes {
		known[foldName(d.Name)] = true
	}

	for _, ds := range cs.Dishes {
		if known[foldName(ds.Name)] {
			continue
		}
		spec := DishSpec{
			Name:            ds.Name,
			Description:     ds.Description,
			Price:           ds.Price,
			CategoryID:      category.ID,
			IsVeg:           ds.IsVeg,
			PreparationTime: ds.PreparationTime,
		}
		if spec.PreparationTime <= 0 {
			spec.PreparationTime = DefaultPreparationTime
		}
		if _, err := gw.CreateDish(ctx, spec); err != nil {
			return fmt.Errorf("create dish %s: %w", ds.Name, err)
		}
		logger.Info("Seeded dish", "name", ds.Name, "category", cs.Name)
	}

	return nil
}

func seedIdentifier(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "_")
}

// DemoSeedingFunc returns a lifecycle OnStart function that applies the demo
// seeds in the background and refreshes the store once they are in.
func DemoSeedingFunc(seedCtx context.Context, store *Store, gw Gateway, seedFS fs.FS, logger aqm.Logger) func(ctx context.Context) error {
	if logger == nil {
		logger = aqm.NewNoopLogger()
	}

	return func(ctx context.Context) error {
		logger.Info("Starting demo seeding in background")
		go func() {
			err := ApplyDemoSeeds(seedCtx, gw, TrackerFor(gw), seedFS, logger)
			if err != nil {
				if !errors.Is(err, context.Canceled) {
					logger.Errorf("Demo seeds failed: %v", err)
				}
				return
			}
			if err := store.Refresh(seedCtx); err != nil {
				logger.Errorf("Refresh after demo seeding failed: %v", err)
				return
			}
			logger.Info("Demo seeding completed successfully")
		}()
		return nil
	}
}

// StopFunc cancels background seeding on shutdown.
func StopFunc(cancel context.CancelFunc) func(context.Context) error {
	return func(context.Context) error {
		if cancel != nil {
			cancel()
		}
		return nil
	}
}
