package optimization

import (
	"strings"

	"restaurant-seating/internal/domain"
)

// Assignment is a usable/unusable labelling of every seat of a ConflictGraph.
// Values are never modified after the search hands them out.
type Assignment struct {
	seats  []domain.Seat
	usable []bool
	score  int
}

// newAssignment copies the current labelling.
func newAssignment(seats []domain.Seat, usable []bool, score int) Assignment {
	return Assignment{
		seats:  seats,
		usable: append([]bool(nil), usable...),
		score:  score,
	}
}

// Score is the number of usable seats.
func (a Assignment) Score() int { return a.score }

func (a Assignment) Len() int { return len(a.usable) }

func (a Assignment) Usable(i int) bool { return a.usable[i] }

func (a Assignment) Seat(i int) domain.SeatID { return a.seats[i].ID }

// Bools returns a copy of the labelling in search order.
func (a Assignment) Bools() []bool {
	return append([]bool(nil), a.usable...)
}

// UsableSeats lists the ids of usable seats in search order.
func (a Assignment) UsableSeats() []domain.SeatID {
	out := make([]domain.SeatID, 0, a.score)
	for i, u := range a.usable {
		if u {
			out = append(out, a.seats[i].ID)
		}
	}
	return out
}

// String formats the assignment as "1-1=1 1-2=0 ...".
func (a Assignment) String() string {
	var sb strings.Builder
	for i, u := range a.usable {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(a.seats[i].ID.String())
		if u {
			sb.WriteString("=1")
		} else {
			sb.WriteString("=0")
		}
	}
	return sb.String()
}

// compareSearchOrder orders assignments the way the depth-first search emits
// them: at the first differing seat, usable comes first.
func compareSearchOrder(a, b Assignment) int {
	for i := range a.usable {
		if a.usable[i] == b.usable[i] {
			continue
		}
		if a.usable[i] {
			return -1
		}
		return 1
	}
	return 0
}
