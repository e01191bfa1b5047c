package optimization

import (
	"context"
	"math/bits"
	"slices"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
)

// prefix is a feasible labelling of the first seats; one parallel task.
type prefix struct {
	usable []bool
	used   int
}

type workerResult struct {
	selector    *Selector
	nodes       int64
	interrupted bool
}

// prefixDepth gives roughly four tasks per worker.
func prefixDepth(n, workers int) int {
	return min(n, bits.Len(uint(workers))+2)
}

// prefixes lists the feasible decisions for the first k seats in search order.
func prefixes(g *ConflictGraph, k int) []prefix {
	var out []prefix
	e := newEngine(g, nil, nil)

	var walk func(i int)
	walk = func(i int) {
		if i == k {
			out = append(out, prefix{usable: append([]bool(nil), e.usable[:k]...), used: e.used})
			return
		}
		if e.canUse(i) {
			e.usable[i] = true
			e.used++
			walk(i + 1)
			e.usable[i] = false
			e.used--
		}
		walk(i + 1)
	}
	walk(0)
	return out
}

// raiseBest lifts the shared best score to at least score.
func raiseBest(best *atomic.Int64, score int) {
	for {
		cur := best.Load()
		if int64(score) <= cur || best.CompareAndSwap(cur, int64(score)) {
			return
		}
	}
}

// searchParallel splits the tree on the first seat decisions and runs the
// sub-searches on a fixed pool of workers. Each worker keeps its own selector;
// the selectors are merged once every worker has stopped.
func (o *OptimalSeatSolver) searchParallel(ctx context.Context, g *ConflictGraph, workers, limit int) (*Selector, int64, bool) {
	tasks := prefixes(g, prefixDepth(g.Len(), workers))
	o.logger.Debug("Parallel search split",
		zap.Int("workers", workers),
		zap.Int("tasks", len(tasks)))

	var (
		wg       sync.WaitGroup
		best     atomic.Int64
		taskChan = make(chan prefix, len(tasks))
		results  = make(chan workerResult, workers)
	)

	for i := range workers {
		wg.Add(1)
		go o.searchWorker(ctx, i, g, limit, &best, taskChan, results, &wg)
	}

	for _, t := range tasks {
		taskChan <- t
	}
	close(taskChan)

	go func() {
		wg.Wait()
		close(results)
	}()

	merged := NewSelector(limit)
	var nodes int64
	exhaustive := true
	for r := range results {
		merged.Merge(r.selector)
		nodes += r.nodes
		if r.interrupted {
			exhaustive = false
		}
	}

	slices.SortFunc(merged.solutions, compareSearchOrder)
	return merged, nodes, exhaustive
}

func (o *OptimalSeatSolver) searchWorker(ctx context.Context, id int, g *ConflictGraph, limit int, best *atomic.Int64,
	tasks <-chan prefix, results chan<- workerResult, wg *sync.WaitGroup) {
	defer wg.Done()

	local := NewSelector(limit)
	res := workerResult{selector: local}

	for task := range tasks {
		if res.interrupted {
			continue
		}

		e := newEngine(g, ctx.Done(), func(a Assignment) bool {
			if local.Offer(a) {
				raiseBest(best, a.Score())
			}
			return true
		})
		e.prune = func(used, remaining int) bool {
			return int64(used+remaining) < best.Load()
		}
		copy(e.usable, task.usable)
		e.used = task.used

		if !e.descend(len(task.usable)) {
			res.interrupted = true
		}
		res.nodes += e.nodes
	}

	o.logger.Debug("Worker finished",
		zap.Int("worker", id),
		zap.Int64("nodes", res.nodes),
		zap.Int("candidates", local.Seen()),
		zap.Bool("interrupted", res.interrupted))

	results <- res
}
