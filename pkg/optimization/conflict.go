package optimization

import (
	"fmt"
	"math"
	"slices"

	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"

	"restaurant-seating/internal/domain"
)

// gridLimit bounds cell coordinates so they stay exact in float64.
const gridLimit = 1 << 52

// Edge is a conflict between two seats of different tables.
type Edge struct {
	A, B domain.SeatID
}

// ConflictGraph holds the seats in search order and the conflict relation
// between them. Vertex i of the underlying graph is seat i.
type ConflictGraph struct {
	seats    []domain.Seat
	index    map[domain.SeatID]int
	adj      [][]int
	earlier  [][]int
	edges    int
	distance float64
	g        *simple.UndirectedGraph
}

// BuildConflicts connects every pair of seats from distinct tables whose
// distance is at most securityDistance. A zero distance yields no edges.
func BuildConflicts(layout *domain.Layout, securityDistance float64) (*ConflictGraph, error) {
	if math.IsNaN(securityDistance) || math.IsInf(securityDistance, 0) || securityDistance < 0 {
		return nil, fmt.Errorf("%w: security distance must be a finite non-negative number, got %v",
			domain.ErrInvalidConfig, securityDistance)
	}

	seats := layout.Seats()
	cg := &ConflictGraph{
		seats:    seats,
		index:    make(map[domain.SeatID]int, len(seats)),
		adj:      make([][]int, len(seats)),
		earlier:  make([][]int, len(seats)),
		distance: securityDistance,
		g:        simple.NewUndirectedGraph(),
	}
	for i, s := range seats {
		cg.index[s.ID] = i
		cg.g.AddNode(simple.Node(i))
	}

	if securityDistance > 0 {
		for _, pair := range candidatePairs(seats, securityDistance) {
			i, j := pair[0], pair[1]
			if seats[i].ID.Table == seats[j].ID.Table {
				continue
			}
			if seats[i].Distance(seats[j]) <= securityDistance {
				cg.g.SetEdge(simple.Edge{F: simple.Node(i), T: simple.Node(j)})
			}
		}
	}

	for i := range seats {
		nodes := cg.g.From(int64(i))
		neighbors := make([]int, 0, nodes.Len())
		for nodes.Next() {
			neighbors = append(neighbors, int(nodes.Node().ID()))
		}
		slices.Sort(neighbors)
		cg.adj[i] = neighbors
		cg.edges += len(neighbors)

		// соседи с меньшим индексом уже назначены при обходе в глубину
		k, _ := slices.BinarySearch(neighbors, i)
		cg.earlier[i] = neighbors[:k]
	}
	cg.edges /= 2

	return cg, nil
}

// candidatePairs returns index pairs (i < j) that may lie within distance d.
// Seats are bucketed on a grid whose cells are 2d wide, so only the 3x3
// neighbourhood of a cell has to be examined.
func candidatePairs(seats []domain.Seat, d float64) [][2]int {
	type cell struct{ x, y int64 }

	size := 2 * d
	cells := make(map[cell][]int)
	keys := make([]cell, len(seats))
	for i, s := range seats {
		fx, fy := math.Floor(s.Position.X/size), math.Floor(s.Position.Y/size)
		if math.Abs(fx) > gridLimit || math.Abs(fy) > gridLimit {
			return allPairs(len(seats))
		}
		keys[i] = cell{int64(fx), int64(fy)}
		cells[keys[i]] = append(cells[keys[i]], i)
	}

	var pairs [][2]int
	for i, k := range keys {
		for dx := int64(-1); dx <= 1; dx++ {
			for dy := int64(-1); dy <= 1; dy++ {
				for _, j := range cells[cell{k.x + dx, k.y + dy}] {
					if j > i {
						pairs = append(pairs, [2]int{i, j})
					}
				}
			}
		}
	}
	return pairs
}

func allPairs(n int) [][2]int {
	pairs := make([][2]int, 0, n*(n-1)/2)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			pairs = append(pairs, [2]int{i, j})
		}
	}
	return pairs
}

// Len is the number of seats.
func (g *ConflictGraph) Len() int { return len(g.seats) }

func (g *ConflictGraph) Seat(i int) domain.Seat { return g.seats[i] }

func (g *ConflictGraph) ID(i int) domain.SeatID { return g.seats[i].ID }

// Index returns the search position of a seat.
func (g *ConflictGraph) Index(id domain.SeatID) (int, bool) {
	i, ok := g.index[id]
	return i, ok
}

// Neighbors returns the sorted indices of seats conflicting with seat i.
// The slice must not be modified.
func (g *ConflictGraph) Neighbors(i int) []int { return g.adj[i] }

// Conflicts reports whether the two seats may not both be usable.
func (g *ConflictGraph) Conflicts(a, b domain.SeatID) bool {
	i, ok1 := g.index[a]
	j, ok2 := g.index[b]
	if !ok1 || !ok2 || i == j {
		return false
	}
	return g.g.HasEdgeBetween(int64(i), int64(j))
}

func (g *ConflictGraph) EdgeCount() int { return g.edges }

func (g *ConflictGraph) SecurityDistance() float64 { return g.distance }

// Edges lists every conflict once, ordered by the lower seat index.
func (g *ConflictGraph) Edges() []Edge {
	out := make([]Edge, 0, g.edges)
	for i, neighbors := range g.adj {
		for _, j := range neighbors {
			if j > i {
				out = append(out, Edge{A: g.seats[i].ID, B: g.seats[j].ID})
			}
		}
	}
	return out
}

// Components groups seats that are linked by chains of conflicts.
// Seats without conflicts form singleton components.
func (g *ConflictGraph) Components() [][]domain.SeatID {
	cc := topo.ConnectedComponents(g.g)
	out := make([][]domain.SeatID, 0, len(cc))
	for _, nodes := range cc {
		idx := make([]int, len(nodes))
		for k, n := range nodes {
			idx[k] = int(n.ID())
		}
		slices.Sort(idx)
		ids := make([]domain.SeatID, len(idx))
		for k, i := range idx {
			ids[k] = g.seats[i].ID
		}
		out = append(out, ids)
	}
	slices.SortFunc(out, func(a, b []domain.SeatID) int {
		ia, ib := g.index[a[0]], g.index[b[0]]
		return ia - ib
	})
	return out
}

// Feasible reports whether no conflict has both seats usable.
func (g *ConflictGraph) Feasible(a Assignment) bool {
	if a.Len() != len(g.seats) {
		return false
	}
	for i, neighbors := range g.adj {
		if !a.Usable(i) {
			continue
		}
		for _, j := range neighbors {
			if a.Usable(j) {
				return false
			}
		}
	}
	return true
}
