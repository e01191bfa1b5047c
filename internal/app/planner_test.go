package app

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"restaurant-seating/internal/domain"
)

type memoryCache struct {
	entries map[string][]byte
	gets    int
	sets    int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: make(map[string][]byte)}
}

func (c *memoryCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	c.gets++
	data, ok := c.entries[key]
	return data, ok, nil
}

func (c *memoryCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	c.sets++
	c.entries[key] = data
	return nil
}

func testConfig() *domain.Config {
	return &domain.Config{
		SecurityDistance: 1,
		SeatDim:          0.5,
		Workers:          1,
		TieWarning:       1000,
		Cache:            domain.CacheConfig{Backend: domain.CacheNone},
	}
}

// Два стола рядом: по два места, ближние места конфликтуют.
func pairLayout() *domain.Layout {
	l := domain.NewLayout()
	t1 := l.AddTable(0, 0, 1, 1)
	t1.AddSeat(-1, 0)
	t1.AddSeat(1, 0)
	t2 := l.AddTable(2, 0, 1, 1)
	t2.AddSeat(1.5, 0)
	t2.AddSeat(4, 0)
	return l
}

func TestPlan_FindsAllOptimalArrangements(t *testing.T) {
	planner := NewSeatPlanner(zap.NewNop(), testConfig(), newMemoryCache())

	result, err := planner.Plan(context.Background(), pairLayout())
	require.NoError(t, err)

	assert.Equal(t, 3, result.Score)
	assert.True(t, result.Exhaustive)
	assert.False(t, result.Cached)
	assert.NotEmpty(t, result.RunID)
	require.Len(t, result.Solutions, 2)
	assert.Equal(t, "1-1=1 1-2=1 2-1=0 2-2=1", result.Solutions[0].String())
	assert.Equal(t, "1-1=1 1-2=0 2-1=1 2-2=1", result.Solutions[1].String())
	for _, plan := range result.Solutions {
		assert.Equal(t, result.Score, plan.Usable())
	}
}

func TestPlan_UsesCache(t *testing.T) {
	cache := newMemoryCache()
	planner := NewSeatPlanner(zap.NewNop(), testConfig(), cache)
	layout := pairLayout()

	first, err := planner.Plan(context.Background(), layout)
	require.NoError(t, err)
	assert.Equal(t, 1, cache.sets)

	second, err := planner.Plan(context.Background(), layout)
	require.NoError(t, err)

	assert.True(t, second.Cached)
	assert.Equal(t, 1, cache.sets)
	assert.Equal(t, first.Score, second.Score)
	assert.Equal(t, first.Solutions, second.Solutions)
	assert.NotEqual(t, first.RunID, second.RunID)
}

func mustCacheKey(t *testing.T, layout *domain.Layout, config *domain.Config) string {
	t.Helper()
	key, err := cacheKey(layout, config)
	require.NoError(t, err)
	return key
}

func TestPlan_CacheKeyDependsOnDistance(t *testing.T) {
	layout := pairLayout()
	near := testConfig()
	far := testConfig()
	far.SecurityDistance = 2

	assert.Equal(t, mustCacheKey(t, layout, near), mustCacheKey(t, layout, testConfig()))
	assert.NotEqual(t, mustCacheKey(t, layout, near), mustCacheKey(t, layout, far))
}

func TestCacheKey_NonFiniteValues(t *testing.T) {
	config := testConfig()
	config.SecurityDistance = math.NaN()
	_, err := cacheKey(pairLayout(), config)
	assert.Error(t, err)

	layout := domain.NewLayout()
	layout.AddTable(math.Inf(1), 0, 1, 1)
	_, err = cacheKey(layout, testConfig())
	assert.Error(t, err)
}

func TestPlan_IgnoresMismatchedCacheEntry(t *testing.T) {
	cache := newMemoryCache()
	config := testConfig()
	layout := pairLayout()
	cache.entries[mustCacheKey(t, layout, config)] = []byte(`{"score":1,"solutions":[[true]]}`)

	result, err := NewSeatPlanner(zap.NewNop(), config, cache).Plan(context.Background(), layout)
	require.NoError(t, err)

	assert.False(t, result.Cached)
	assert.Equal(t, 3, result.Score)
}

func TestPlan_InvalidInput(t *testing.T) {
	config := testConfig()
	config.SecurityDistance = -1
	_, err := NewSeatPlanner(zap.NewNop(), config, newMemoryCache()).Plan(context.Background(), pairLayout())
	assert.ErrorIs(t, err, domain.ErrInvalidConfig)

	layout := domain.NewLayout()
	layout.AddTable(0, 0, 0, 1)
	_, err = NewSeatPlanner(zap.NewNop(), testConfig(), newMemoryCache()).Plan(context.Background(), layout)
	assert.ErrorIs(t, err, domain.ErrInvalidLayout)
}

func TestPlan_EmptyLayout(t *testing.T) {
	result, err := NewSeatPlanner(zap.NewNop(), testConfig(), newMemoryCache()).Plan(context.Background(), domain.NewLayout())
	require.NoError(t, err)

	assert.Zero(t, result.Score)
	assert.True(t, result.Exhaustive)
	require.Len(t, result.Solutions, 1)
	assert.Empty(t, result.Solutions[0].Seats)
}

func TestPlan_TimeBudgetExpired(t *testing.T) {
	config := testConfig()
	config.TimeBudget = time.Nanosecond
	cache := newMemoryCache()

	l := domain.NewLayout()
	for i := range 30 {
		l.AddTable(float64(i)*10, 0, 1, 1).AddSeat(float64(i)*10, 0)
	}

	result, err := NewSeatPlanner(zap.NewNop(), config, cache).Plan(context.Background(), l)
	require.NoError(t, err)

	assert.False(t, result.Exhaustive)
	assert.Zero(t, cache.sets, "partial results must not be cached")
}

func TestPlan_ParallelMatchesSequential(t *testing.T) {
	layout := pairLayout()
	parallel := testConfig()
	parallel.Workers = 4

	seq, err := NewSeatPlanner(zap.NewNop(), testConfig(), newMemoryCache()).Plan(context.Background(), layout)
	require.NoError(t, err)
	par, err := NewSeatPlanner(zap.NewNop(), parallel, newMemoryCache()).Plan(context.Background(), layout)
	require.NoError(t, err)

	assert.Equal(t, seq.Score, par.Score)
	assert.Equal(t, seq.Solutions, par.Solutions)
}
