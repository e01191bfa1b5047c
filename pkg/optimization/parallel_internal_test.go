package optimization

import (
	"slices"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restaurant-seating/internal/domain"
)

func chain(t *testing.T) *ConflictGraph {
	t.Helper()
	// 1-2 and 2-3 conflict, 1-3 do not
	l := domain.NewLayout()
	for _, x := range []float64{0, 1, 2} {
		l.AddTable(x, 0, 0.5, 0.5).AddSeat(x, 0)
	}
	g, err := BuildConflicts(l, 1)
	require.NoError(t, err)
	return g
}

func TestPrefixes_OnlyFeasibleInSearchOrder(t *testing.T) {
	g := chain(t)

	got := prefixes(g, 3)

	want := [][]bool{
		{true, false, true},
		{true, false, false},
		{false, true, false},
		{false, false, true},
		{false, false, false},
	}
	require.Len(t, got, len(want))
	for i, p := range got {
		assert.Equal(t, want[i], p.usable)
		used := 0
		for _, u := range p.usable {
			if u {
				used++
			}
		}
		assert.Equal(t, used, p.used)
	}
}

func TestPrefixDepth(t *testing.T) {
	assert.Equal(t, 0, prefixDepth(0, 8))
	assert.Equal(t, 3, prefixDepth(3, 8))
	assert.Equal(t, 4, prefixDepth(100, 2))
	assert.Equal(t, 6, prefixDepth(100, 8))
}

func TestRaiseBestIsMonotone(t *testing.T) {
	var best atomic.Int64
	raiseBest(&best, 5)
	raiseBest(&best, 3)
	assert.Equal(t, int64(5), best.Load())
	raiseBest(&best, 7)
	assert.Equal(t, int64(7), best.Load())
}

func TestCompareSearchOrder(t *testing.T) {
	g := chain(t)
	var all []Assignment
	for _, p := range prefixes(g, 3) {
		all = append(all, newAssignment(g.seats, p.usable, p.used))
	}

	shuffled := slices.Clone(all)
	slices.Reverse(shuffled)
	slices.SortFunc(shuffled, compareSearchOrder)

	for i := range all {
		assert.Equal(t, all[i].String(), shuffled[i].String())
	}
}
