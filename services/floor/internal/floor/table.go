package floor

import (
	"time"

	"github.com/aquamarinepk/aqm"
	"github.com/google/uuid"
)

type TableStatus string

const (
	TableAvailable TableStatus = "Available"
	TableBooked    TableStatus = "Booked"
	TableOccupied  TableStatus = "Occupied"
)

func (s TableStatus) Valid() bool {
	switch s {
	case TableAvailable, TableBooked, TableOccupied:
		return true
	}
	return false
}

type Table struct {
	ID              uuid.UUID   `json:"id"`
	Number          int         `json:"number"`
	Seats           int         `json:"seats"`
	Status          TableStatus `json:"status"`
	Customer        string      `json:"customer,omitempty"`
	ReservationTime *time.Time  `json:"reservation_time,omitempty"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

// TableSpec holds the fields a caller provides when adding a table.
type TableSpec struct {
	Number int `json:"number"`
	Seats  int `json:"seats"`
}

// TablePatch is a partial table update. Nil fields are left untouched; an empty
// Customer clears it and ClearReservation drops the reservation timestamp.
type TablePatch struct {
	Number           *int         `json:"number,omitempty"`
	Seats            *int         `json:"seats,omitempty"`
	Status           *TableStatus `json:"status,omitempty"`
	Customer         *string      `json:"customer,omitempty"`
	ReservationTime  *time.Time   `json:"reservation_time,omitempty"`
	ClearReservation bool         `json:"clear_reservation,omitempty"`
}

func (t *Table) GetID() uuid.UUID {
	return t.ID
}

func (t *Table) ResourceType() string {
	return "table"
}

func NewTable(spec TableSpec) *Table {
	table := &Table{
		ID:     aqm.GenerateNewID(),
		Number: spec.Number,
		Seats:  spec.Seats,
		Status: TableAvailable,
	}
	table.BeforeCreate()
	return table
}

func (t *Table) EnsureID() {
	if t.ID == uuid.Nil {
		t.ID = aqm.GenerateNewID()
	}
}

func (t *Table) BeforeCreate() {
	t.EnsureID()
	t.CreatedAt = time.Now()
	t.UpdatedAt = time.Now()
}

func (t *Table) BeforeUpdate() {
	t.UpdatedAt = time.Now()
}

// Apply copies the set fields of p onto the table and re-establishes the
// Booked-only reservation invariant.
func (t *Table) Apply(p TablePatch) {
	if p.Number != nil {
		t.Number = *p.Number
	}
	if p.Seats != nil {
		t.Seats = *p.Seats
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	if p.Customer != nil {
		t.Customer = *p.Customer
	}
	if p.ClearReservation {
		t.ReservationTime = nil
	} else if p.ReservationTime != nil {
		at := *p.ReservationTime
		t.ReservationTime = &at
	}
	if t.Status != TableBooked {
		t.Customer = ""
		t.ReservationTime = nil
	}
}

// HasReservation reports whether reservation metadata is present.
func (t *Table) HasReservation() bool {
	return t.Customer != "" || t.ReservationTime != nil
}
