package optimization

// Selector reduces a stream of feasible assignments to the ones with the
// highest score. With a positive limit it stores at most limit ties but keeps
// counting all of them.
type Selector struct {
	best      int
	solutions []Assignment
	ties      int
	seen      int
	limit     int
	truncated bool
}

func NewSelector(limit int) *Selector {
	return &Selector{best: -1, limit: limit}
}

// Offer takes one candidate: a higher score resets the tied set, an equal
// score joins it, a lower score is dropped.
func (s *Selector) Offer(a Assignment) bool {
	s.seen++
	switch score := a.Score(); {
	case score > s.best:
		s.best = score
		s.solutions = append(s.solutions[:0:0], a)
		s.ties = 1
		s.truncated = false
		return true
	case score == s.best:
		s.ties++
		s.keep(a)
	}
	return false
}

func (s *Selector) keep(a Assignment) {
	if s.limit > 0 && len(s.solutions) >= s.limit {
		s.truncated = true
		return
	}
	s.solutions = append(s.solutions, a)
}

// Merge folds another selector into s using the same rule as Offer.
func (s *Selector) Merge(other *Selector) {
	s.seen += other.seen
	switch {
	case other.best < 0 || other.best < s.best:
		return
	case other.best > s.best:
		s.best = other.best
		s.solutions = s.solutions[:0:0]
		s.ties = 0
		s.truncated = false
	}
	s.ties += other.ties
	s.truncated = s.truncated || other.truncated
	for _, a := range other.solutions {
		s.keep(a)
	}
}

// Best returns the best score seen; ok is false before the first candidate.
func (s *Selector) Best() (int, bool) {
	if s.best < 0 {
		return 0, false
	}
	return s.best, true
}

func (s *Selector) Solutions() []Assignment { return s.solutions }

// Ties is the number of candidates that reached the best score, including
// the ones not stored because of the limit.
func (s *Selector) Ties() int { return s.ties }

func (s *Selector) Truncated() bool { return s.truncated }

// Seen is the number of candidates offered.
func (s *Selector) Seen() int { return s.seen }
