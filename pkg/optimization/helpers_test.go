package optimization_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"restaurant-seating/internal/domain"
	"restaurant-seating/pkg/optimization"
)

// singleSeatTables builds one 1x1 table per point, each with one seat on it.
func singleSeatTables(points ...[2]float64) *domain.Layout {
	l := domain.NewLayout()
	for _, p := range points {
		t := l.AddTable(p[0], p[1], 1, 1)
		t.AddSeat(p[0], p[1])
	}
	return l
}

// randomLayout scatters tables over a side x side square with seats around them.
func randomLayout(seed int64, tables, seatsPerTable int, side float64) *domain.Layout {
	rng := rand.New(rand.NewSource(seed))
	l := domain.NewLayout()
	for range tables {
		x, y := rng.Float64()*side, rng.Float64()*side
		t := l.AddTable(x, y, 1, 1)
		for range seatsPerTable {
			t.AddSeat(x+rng.Float64()*1.5-0.25, y+rng.Float64()*1.5-0.25)
		}
	}
	return l
}

func mustBuild(t *testing.T, l *domain.Layout, d float64) *optimization.ConflictGraph {
	t.Helper()
	g, err := optimization.BuildConflicts(l, d)
	require.NoError(t, err)
	return g
}

// bruteForce checks all 2^S labellings and returns the number of feasible
// ones, the best score and how many labellings reach it.
func bruteForce(t *testing.T, g *optimization.ConflictGraph) (feasible, best, ties int) {
	t.Helper()
	n := g.Len()
	require.LessOrEqual(t, n, 20, "brute force reference is limited to small layouts")

	type pair struct{ i, j int }
	var edges []pair
	for _, e := range g.Edges() {
		i, _ := g.Index(e.A)
		j, _ := g.Index(e.B)
		edges = append(edges, pair{i, j})
	}

	best = -1
	for mask := 0; mask < 1<<n; mask++ {
		ok := true
		for _, e := range edges {
			if mask&(1<<e.i) != 0 && mask&(1<<e.j) != 0 {
				ok = false
				break
			}
		}
		if !ok {
			continue
		}
		feasible++
		score := 0
		for m := mask; m != 0; m &= m - 1 {
			score++
		}
		switch {
		case score > best:
			best, ties = score, 1
		case score == best:
			ties++
		}
	}
	return feasible, best, ties
}
