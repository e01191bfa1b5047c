package optimization

import (
	"context"
	"iter"
	"sync/atomic"
)

// State of a search run.
type State int32

const (
	StateIdle State = iota
	StateSearching
	StateCompleted
	StateBudgetExpired
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSearching:
		return "searching"
	case StateCompleted:
		return "completed"
	case StateBudgetExpired:
		return "budget_expired"
	default:
		return "unknown"
	}
}

// Search enumerates every feasible assignment of a conflict graph.
// A Search runs once; create a new one for another pass.
type Search struct {
	graph *ConflictGraph
	state atomic.Int32
	nodes atomic.Int64
}

func NewSearch(graph *ConflictGraph) *Search {
	return &Search{graph: graph}
}

func (s *Search) State() State { return State(s.state.Load()) }

// Nodes is the number of search-tree nodes visited so far.
func (s *Search) Nodes() int64 { return s.nodes.Load() }

// Assignments lazily yields feasible assignments in depth-first order, trying
// "usable" before "unusable" for each seat. When ctx is done, or the consumer
// stops early, the search ends in StateBudgetExpired.
func (s *Search) Assignments(ctx context.Context) iter.Seq[Assignment] {
	return func(yield func(Assignment) bool) {
		if !s.state.CompareAndSwap(int32(StateIdle), int32(StateSearching)) {
			return
		}

		e := newEngine(s.graph, ctx.Done(), yield)
		completed := e.descend(0)
		s.nodes.Store(e.nodes)

		if completed {
			s.state.Store(int32(StateCompleted))
		} else {
			s.state.Store(int32(StateBudgetExpired))
		}
	}
}

// engine holds the mutable state of one depth-first walk. Each parallel
// worker owns its own engine; only the graph is shared.
type engine struct {
	graph  *ConflictGraph
	n      int
	usable []bool
	used   int
	done   <-chan struct{}
	nodes  int64

	emit func(Assignment) bool
	// prune reports that no leaf below can reach the best known score.
	prune func(used, remaining int) bool
}

func newEngine(graph *ConflictGraph, done <-chan struct{}, emit func(Assignment) bool) *engine {
	return &engine{
		graph:  graph,
		n:      graph.Len(),
		usable: make([]bool, graph.Len()),
		done:   done,
		emit:   emit,
	}
}

func (e *engine) cancelled() bool {
	select {
	case <-e.done:
		return true
	default:
		return false
	}
}

// canUse reports whether seat i has no usable neighbour among seats already
// decided.
func (e *engine) canUse(i int) bool {
	for _, j := range e.graph.earlier[i] {
		if e.usable[j] {
			return false
		}
	}
	return true
}

// descend decides seat i and everything after it. It returns false when the
// walk has to stop: cancellation or a consumer that wants no more values.
func (e *engine) descend(i int) bool {
	if e.cancelled() {
		return false
	}
	e.nodes++

	if i == e.n {
		return e.emit(newAssignment(e.graph.seats, e.usable, e.used))
	}
	if e.prune != nil && e.prune(e.used, e.n-i) {
		return true
	}

	if e.canUse(i) {
		e.usable[i] = true
		e.used++
		ok := e.descend(i + 1)
		e.usable[i] = false
		e.used--
		if !ok {
			return false
		}
	}
	return e.descend(i + 1)
}
