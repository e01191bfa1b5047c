package domain

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// SeatID identifies a seat by its table id and its 1-based index on that table.
type SeatID struct {
	Table int
	Seat  int
}

// String returns the "<table>-<seat>" name used in output files.
func (id SeatID) String() string {
	return fmt.Sprintf("%d-%d", id.Table, id.Seat)
}

// Seat представляет место за столом
type Seat struct {
	ID       SeatID
	Position r2.Vec
}

// Distance is the Euclidean distance between the two seat positions.
func (s Seat) Distance(other Seat) float64 {
	return r2.Norm(r2.Sub(s.Position, other.Position))
}

// Table представляет стол и его места
type Table struct {
	ID       int
	Position r2.Vec
	Width    float64
	Height   float64
	seats    []Seat
}

// AddSeat appends a seat at (x, y) and gives it the next index on this table.
func (t *Table) AddSeat(x, y float64) Seat {
	seat := Seat{
		ID:       SeatID{Table: t.ID, Seat: len(t.seats) + 1},
		Position: r2.Vec{X: x, Y: y},
	}
	t.seats = append(t.seats, seat)
	return seat
}

// Seats returns the seats of the table in insertion order.
func (t *Table) Seats() []Seat {
	out := make([]Seat, len(t.seats))
	copy(out, t.seats)
	return out
}

// Layout is the full restaurant geometry: tables in creation order.
type Layout struct {
	tables []*Table
}

func NewLayout() *Layout {
	return &Layout{}
}

// AddTable creates a table with the next sequential id (starting at 1).
func (l *Layout) AddTable(x, y, width, height float64) *Table {
	table := &Table{
		ID:       len(l.tables) + 1,
		Position: r2.Vec{X: x, Y: y},
		Width:    width,
		Height:   height,
	}
	l.tables = append(l.tables, table)
	return table
}

func (l *Layout) Tables() []*Table {
	return l.tables
}

// Table returns the table with the given id.
func (l *Layout) Table(id int) (*Table, bool) {
	if id < 1 || id > len(l.tables) {
		return nil, false
	}
	return l.tables[id-1], true
}

// Seat looks a seat up by id without any string parsing.
func (l *Layout) Seat(id SeatID) (Seat, bool) {
	table, ok := l.Table(id.Table)
	if !ok || id.Seat < 1 || id.Seat > len(table.seats) {
		return Seat{}, false
	}
	return table.seats[id.Seat-1], true
}

// Seats returns every seat ordered by (table id, seat index).
func (l *Layout) Seats() []Seat {
	out := make([]Seat, 0, l.SeatCount())
	for _, t := range l.tables {
		out = append(out, t.seats...)
	}
	return out
}

func (l *Layout) SeatCount() int {
	n := 0
	for _, t := range l.tables {
		n += len(t.seats)
	}
	return n
}

// Validate checks table dimensions and that every coordinate is finite.
func (l *Layout) Validate() error {
	for _, t := range l.tables {
		if !finite(t.Position) {
			return fmt.Errorf("%w: table %d has a non-finite position", ErrInvalidLayout, t.ID)
		}
		if !(t.Width > 0) || !(t.Height > 0) || math.IsInf(t.Width, 0) || math.IsInf(t.Height, 0) {
			return fmt.Errorf("%w: table %d must have positive dimensions, got %vx%v", ErrInvalidLayout, t.ID, t.Width, t.Height)
		}
		for _, s := range t.seats {
			if !finite(s.Position) {
				return fmt.Errorf("%w: seat %s has a non-finite position", ErrInvalidLayout, s.ID)
			}
		}
	}
	return nil
}

func finite(v r2.Vec) bool {
	return !math.IsNaN(v.X) && !math.IsNaN(v.Y) && !math.IsInf(v.X, 0) && !math.IsInf(v.Y, 0)
}
