package app

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"restaurant-seating/internal/domain"
	"restaurant-seating/pkg/optimization"
)

type SeatPlanner struct {
	logger *zap.Logger
	solver *optimization.OptimalSeatSolver
	config *domain.Config
	cache  domain.ResultCache
}

func NewSeatPlanner(logger *zap.Logger, config *domain.Config, cache domain.ResultCache) *SeatPlanner {
	return &SeatPlanner{
		logger: logger,
		solver: optimization.NewOptimalSeatSolver(logger),
		config: config,
		cache:  cache,
	}
}

// cachedPlan is what goes into the result cache. Solutions are stored as
// flags in (table, seat) order, which is stable for a given layout.
type cachedPlan struct {
	Score     int      `json:"score"`
	Ties      int      `json:"ties"`
	Truncated bool     `json:"truncated"`
	Solutions [][]bool `json:"solutions"`
}

// Plan finds every seat arrangement with the maximum number of usable seats.
func (p *SeatPlanner) Plan(ctx context.Context, layout *domain.Layout) (*domain.PlanResult, error) {
	if err := p.config.Validate(); err != nil {
		return nil, err
	}
	if err := layout.Validate(); err != nil {
		return nil, err
	}

	seats := layout.Seats()
	key, err := cacheKey(layout, p.config)
	if err != nil {
		return nil, fmt.Errorf("cache key: %w", err)
	}

	if data, ok, err := p.cache.Get(ctx, key); err != nil {
		p.logger.Warn("Cache lookup failed", zap.Error(err))
	} else if ok {
		result, err := fromCache(data, seats)
		if err == nil {
			p.logger.Info("Using cached result",
				zap.Int("score", result.Score),
				zap.Int("solutions", len(result.Solutions)))
			return result, nil
		}
		p.logger.Warn("Ignoring unreadable cache entry", zap.Error(err))
	}

	// Построение графа конфликтов
	graph, err := optimization.BuildConflicts(layout, p.config.SecurityDistance)
	if err != nil {
		return nil, err
	}

	p.logger.Info("Conflict graph built",
		zap.Int("tables", len(layout.Tables())),
		zap.Int("seats", graph.Len()),
		zap.Int("edges", graph.EdgeCount()),
		zap.Int("components", len(graph.Components())),
		zap.Float64("security_distance", graph.SecurityDistance()))

	res, err := p.solver.EnumerateOptimal(ctx, graph, optimization.Options{
		TimeBudget:   p.config.TimeBudget,
		Workers:      p.config.Workers,
		MaxSolutions: p.config.MaxSolutions,
	})
	if err != nil {
		return nil, err
	}

	if !res.Exhaustive {
		p.logger.Warn("Search stopped before exploring every arrangement, the optimum may be improvable",
			zap.Duration("time_budget", p.config.TimeBudget),
			zap.Int("score", res.Score))
	}
	if res.Ties > p.config.TieWarning {
		p.logger.Warn("Large number of tied optimal arrangements",
			zap.Int("ties", res.Ties),
			zap.Int("max_solutions", p.config.MaxSolutions))
	}
	if res.Truncated {
		p.logger.Warn("Tied arrangements truncated",
			zap.Int("kept", len(res.Solutions)),
			zap.Int("ties", res.Ties))
	}

	result := &domain.PlanResult{
		RunID:      uuid.NewString(),
		Score:      res.Score,
		Exhaustive: res.Exhaustive,
		Ties:       res.Ties,
		Truncated:  res.Truncated,
		Nodes:      res.Stats.Nodes,
		Elapsed:    res.Stats.Elapsed,
		Solutions:  make([]domain.SeatPlan, len(res.Solutions)),
	}
	for i, a := range res.Solutions {
		result.Solutions[i] = toSeatPlan(seats, a.Bools())
	}

	if res.Exhaustive {
		p.store(ctx, key, result)
	}
	return result, nil
}

func (p *SeatPlanner) store(ctx context.Context, key string, result *domain.PlanResult) {
	entry := cachedPlan{
		Score:     result.Score,
		Ties:      result.Ties,
		Truncated: result.Truncated,
		Solutions: make([][]bool, len(result.Solutions)),
	}
	for i, plan := range result.Solutions {
		flags := make([]bool, len(plan.Seats))
		for j, s := range plan.Seats {
			flags[j] = s.Usable
		}
		entry.Solutions[i] = flags
	}

	data, err := json.Marshal(entry)
	if err != nil {
		p.logger.Warn("Failed to encode result for cache", zap.Error(err))
		return
	}
	if err := p.cache.Set(ctx, key, data, p.config.Cache.TTL); err != nil {
		p.logger.Warn("Failed to store result in cache", zap.Error(err))
	}
}

func fromCache(data []byte, seats []domain.Seat) (*domain.PlanResult, error) {
	var entry cachedPlan
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, err
	}

	result := &domain.PlanResult{
		RunID:      uuid.NewString(),
		Score:      entry.Score,
		Exhaustive: true,
		Ties:       entry.Ties,
		Truncated:  entry.Truncated,
		Cached:     true,
		Solutions:  make([]domain.SeatPlan, len(entry.Solutions)),
	}
	for i, flags := range entry.Solutions {
		if len(flags) != len(seats) {
			return nil, fmt.Errorf("cached solution %d has %d seats, layout has %d", i, len(flags), len(seats))
		}
		result.Solutions[i] = toSeatPlan(seats, flags)
	}
	return result, nil
}

func toSeatPlan(seats []domain.Seat, flags []bool) domain.SeatPlan {
	plan := domain.SeatPlan{Seats: make([]domain.SeatStatus, len(seats))}
	for i, s := range seats {
		plan.Seats[i] = domain.SeatStatus{ID: s.ID, Usable: flags[i]}
	}
	return plan
}

// cacheKey hashes everything the result depends on. Non-finite numbers
// cannot be encoded and are reported as an error.
func cacheKey(layout *domain.Layout, config *domain.Config) (string, error) {
	type tableKey struct {
		X, Y, W, H float64
		Seats      [][2]float64
	}
	key := struct {
		Distance     float64
		MaxSolutions int
		Tables       []tableKey
	}{
		Distance:     config.SecurityDistance,
		MaxSolutions: config.MaxSolutions,
	}
	for _, t := range layout.Tables() {
		tk := tableKey{X: t.Position.X, Y: t.Position.Y, W: t.Width, H: t.Height}
		for _, s := range t.Seats() {
			tk.Seats = append(tk.Seats, [2]float64{s.Position.X, s.Position.Y})
		}
		key.Tables = append(key.Tables, tk)
	}

	data, err := json.Marshal(key)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return "plan:" + hex.EncodeToString(sum[:]), nil
}
