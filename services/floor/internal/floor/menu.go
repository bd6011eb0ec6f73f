package floor

import (
	"strings"
	"time"

	"github.com/aquamarinepk/aqm"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
)

type Category struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Emoji     string    `json:"emoji,omitempty"`
	Color     string    `json:"color,omitempty"`
	ItemCount int       `json:"item_count"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CategorySpec struct {
	Name  string `json:"name"`
	Emoji string `json:"emoji,omitempty"`
	Color string `json:"color,omitempty"`
}

func (c *Category) GetID() uuid.UUID {
	return c.ID
}

func (c *Category) ResourceType() string {
	return "category"
}

func NewCategory(spec CategorySpec) *Category {
	now := time.Now()
	return &Category{
		ID:        aqm.GenerateNewID(),
		Name:      spec.Name,
		Emoji:     spec.Emoji,
		Color:     spec.Color,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Dish is a menu item. Category carries the joined category name and is only
// populated after a refresh.
type Dish struct {
	ID              uuid.UUID       `json:"id"`
	Name            string          `json:"name"`
	Description     string          `json:"description,omitempty"`
	Price           decimal.Decimal `json:"price"`
	CategoryID      uuid.UUID       `json:"category_id"`
	Category        string          `json:"category"`
	Available       bool            `json:"available"`
	IsVeg           bool            `json:"is_veg"`
	PreparationTime int             `json:"preparation_time"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

type DishSpec struct {
	Name            string          `json:"name"`
	Description     string          `json:"description,omitempty"`
	Price           decimal.Decimal `json:"price"`
	CategoryID      uuid.UUID       `json:"category_id"`
	IsVeg           bool            `json:"is_veg"`
	PreparationTime int             `json:"preparation_time"`
}

// DefaultPreparationTime is used when a dish is added without one, in minutes.
const DefaultPreparationTime = 20

func (d *Dish) GetID() uuid.UUID {
	return d.ID
}

func (d *Dish) ResourceType() string {
	return "dish"
}

func NewDish(spec DishSpec) *Dish {
	prep := spec.PreparationTime
	if prep <= 0 {
		prep = DefaultPreparationTime
	}
	now := time.Now()
	return &Dish{
		ID:              aqm.GenerateNewID(),
		Name:            spec.Name,
		Description:     spec.Description,
		Price:           spec.Price,
		CategoryID:      spec.CategoryID,
		Available:       true,
		IsVeg:           spec.IsVeg,
		PreparationTime: prep,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// foldName is the key category and dish names are matched on.
func foldName(name string) string {
	return cases.Fold().String(strings.TrimSpace(name))
}

func sameName(a, b string) bool {
	return foldName(a) == foldName(b)
}
