package optimization

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
)

// ErrEmptySolutionSet means a finished search produced no assignment at all.
// The all-unusable assignment is always feasible, so this is a solver bug.
var ErrEmptySolutionSet = errors.New("optimization: completed search produced no solutions")

// Options control one EnumerateOptimal run.
type Options struct {
	// TimeBudget stops the search after this long; zero means no limit.
	TimeBudget time.Duration
	// Workers above one enables the parallel search.
	Workers int
	// MaxSolutions caps the stored ties; zero keeps all of them.
	MaxSolutions int
}

// Stats describes the work done by a run.
type Stats struct {
	Nodes    int64
	Feasible int
	Elapsed  time.Duration
}

// Result is the tied-optimal set. When Exhaustive is false the search was
// stopped early and Score may be improvable.
type Result struct {
	Solutions  []Assignment
	Score      int
	Exhaustive bool
	State      State
	Ties       int
	Truncated  bool
	Stats      Stats
}

// OptimalSeatSolver finds every assignment with the maximum number of usable seats.
type OptimalSeatSolver struct {
	logger *zap.Logger
}

func NewOptimalSeatSolver(logger *zap.Logger) *OptimalSeatSolver {
	return &OptimalSeatSolver{logger: logger}
}

// EnumerateOptimal runs the search over g and returns all assignments with
// the highest score found. With a single worker the feasible assignments are
// streamed from a Search into a Selector; with more workers the tree is split
// and branches that cannot tie the best score are skipped.
func (o *OptimalSeatSolver) EnumerateOptimal(ctx context.Context, g *ConflictGraph, opts Options) (*Result, error) {
	if opts.TimeBudget > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.TimeBudget)
		defer cancel()
	}

	start := time.Now()
	var (
		selector   *Selector
		nodes      int64
		exhaustive bool
	)

	if opts.Workers > 1 {
		selector, nodes, exhaustive = o.searchParallel(ctx, g, opts.Workers, opts.MaxSolutions)
	} else {
		selector = NewSelector(opts.MaxSolutions)
		search := NewSearch(g)
		for a := range search.Assignments(ctx) {
			selector.Offer(a)
		}
		nodes = search.Nodes()
		exhaustive = search.State() == StateCompleted
	}

	res := &Result{
		Solutions:  selector.Solutions(),
		Exhaustive: exhaustive,
		State:      StateCompleted,
		Ties:       selector.Ties(),
		Truncated:  selector.Truncated(),
		Stats: Stats{
			Nodes:    nodes,
			Feasible: selector.Seen(),
			Elapsed:  time.Since(start),
		},
	}
	if !exhaustive {
		res.State = StateBudgetExpired
	}
	res.Score, _ = selector.Best()

	if exhaustive && len(res.Solutions) == 0 {
		o.logger.Error("Search completed without solutions",
			zap.Int("seats", g.Len()),
			zap.Int("edges", g.EdgeCount()))
		return nil, ErrEmptySolutionSet
	}

	o.logger.Info("Search finished",
		zap.Stringer("state", res.State),
		zap.Int("score", res.Score),
		zap.Int("ties", res.Ties),
		zap.Int64("nodes", res.Stats.Nodes),
		zap.Int("feasible", res.Stats.Feasible),
		zap.Duration("elapsed", res.Stats.Elapsed))

	return res, nil
}
