package floor

import (
	"time"

	"github.com/google/uuid"
)

// Snapshot is the in-process view of every collection plus the stats derived
// from them. A Snapshot handed out by the Store is a copy; mutating it has no
// effect on the Store.
type Snapshot struct {
	Tables      []Table       `json:"tables"`
	Orders      []Order       `json:"orders"`
	Dishes      []Dish        `json:"dishes"`
	Categories  []Category    `json:"categories"`
	Customers   []Customer    `json:"customers"`
	Earnings    []Earning     `json:"earnings"`
	Stats       StatsSnapshot `json:"stats"`
	RefreshedAt time.Time     `json:"refreshed_at"`
	// Tentative is true while the snapshot carries a local patch that has not
	// been replaced by an authoritative refresh yet.
	Tentative bool `json:"tentative"`
}

func (s *Snapshot) Clone() *Snapshot {
	if s == nil {
		return &Snapshot{}
	}
	c := *s
	c.Tables = make([]Table, len(s.Tables))
	for i, t := range s.Tables {
		if t.ReservationTime != nil {
			at := *t.ReservationTime
			t.ReservationTime = &at
		}
		c.Tables[i] = t
	}
	c.Orders = make([]Order, len(s.Orders))
	for i, o := range s.Orders {
		c.Orders[i] = o.clone()
	}
	c.Dishes = append([]Dish(nil), s.Dishes...)
	c.Categories = append([]Category(nil), s.Categories...)
	c.Customers = append([]Customer(nil), s.Customers...)
	c.Earnings = make([]Earning, len(s.Earnings))
	for i, e := range s.Earnings {
		e.OrderID = cloneUUID(e.OrderID)
		c.Earnings[i] = e
	}
	return &c
}

func (s *Snapshot) Table(id uuid.UUID) (*Table, bool) {
	for i := range s.Tables {
		if s.Tables[i].ID == id {
			return &s.Tables[i], true
		}
	}
	return nil, false
}

func (s *Snapshot) TableByNumber(number int) (*Table, bool) {
	for i := range s.Tables {
		if s.Tables[i].Number == number {
			return &s.Tables[i], true
		}
	}
	return nil, false
}

func (s *Snapshot) Order(id uuid.UUID) (*Order, bool) {
	for i := range s.Orders {
		if s.Orders[i].ID == id {
			return &s.Orders[i], true
		}
	}
	return nil, false
}

func (s *Snapshot) Dish(id uuid.UUID) (*Dish, bool) {
	for i := range s.Dishes {
		if s.Dishes[i].ID == id {
			return &s.Dishes[i], true
		}
	}
	return nil, false
}

func (s *Snapshot) Category(id uuid.UUID) (*Category, bool) {
	for i := range s.Categories {
		if s.Categories[i].ID == id {
			return &s.Categories[i], true
		}
	}
	return nil, false
}

// ActiveOrderForTable returns the first order on tableID that is neither
// Completed nor Cancelled.
func (s *Snapshot) ActiveOrderForTable(tableID uuid.UUID) (*Order, bool) {
	for i := range s.Orders {
		o := &s.Orders[i]
		if o.OnTable(tableID) && o.IsActive() {
			return o, true
		}
	}
	return nil, false
}

// TableOf resolves the order's table. A reference to a deleted table is
// reported as no table.
func (s *Snapshot) TableOf(o Order) (*Table, bool) {
	if o.TableID == nil {
		return nil, false
	}
	return s.Table(*o.TableID)
}

func (s *Snapshot) replaceTable(t Table) {
	for i := range s.Tables {
		if s.Tables[i].ID == t.ID {
			s.Tables[i] = t
			return
		}
	}
	s.Tables = append(s.Tables, t)
}

func (s *Snapshot) removeTable(id uuid.UUID) {
	out := s.Tables[:0]
	for _, t := range s.Tables {
		if t.ID != id {
			out = append(out, t)
		}
	}
	s.Tables = out
}

func (s *Snapshot) replaceOrder(o Order) {
	for i := range s.Orders {
		if s.Orders[i].ID == o.ID {
			s.Orders[i] = o
			return
		}
	}
	s.Orders = append(s.Orders, o)
}

func (s *Snapshot) removeOrder(id uuid.UUID) {
	out := s.Orders[:0]
	for _, o := range s.Orders {
		if o.ID != id {
			out = append(out, o)
		}
	}
	s.Orders = out
}

// enrich derives the joined and computed fields: dish category names, order
// item categories, order table numbers and initials, category item counts.
func (s *Snapshot) enrich() {
	categoryNames := make(map[uuid.UUID]string, len(s.Categories))
	for _, c := range s.Categories {
		categoryNames[c.ID] = c.Name
	}

	counts := make(map[uuid.UUID]int, len(s.Categories))
	dishCategory := make(map[uuid.UUID]string, len(s.Dishes))
	for i := range s.Dishes {
		d := &s.Dishes[i]
		d.Category = categoryNames[d.CategoryID]
		dishCategory[d.ID] = d.Category
		counts[d.CategoryID]++
	}

	for i := range s.Categories {
		s.Categories[i].ItemCount = counts[s.Categories[i].ID]
	}

	tableNumbers := make(map[uuid.UUID]int, len(s.Tables))
	for _, t := range s.Tables {
		tableNumbers[t.ID] = t.Number
	}

	for i := range s.Orders {
		o := &s.Orders[i]
		o.CustomerInitials = Initials(o.CustomerName)
		o.TableNumber = 0
		if o.TableID != nil {
			o.TableNumber = tableNumbers[*o.TableID]
		}
		for j := range o.Items {
			if name, ok := dishCategory[o.Items[j].DishID]; ok {
				o.Items[j].Category = name
			}
		}
	}
}

func (s *Snapshot) statsInput() StatsInput {
	return StatsInput{
		Orders:     s.Orders,
		Tables:     s.Tables,
		Customers:  s.Customers,
		Categories: s.Categories,
		Dishes:     s.Dishes,
		Earnings:   s.Earnings,
	}
}
