// Package stats is murxla's run counters: the Go analogue of
// statistics.hpp's shared-memory struct, field for field, with sync/atomic
// counters replacing the shared-memory segment a forked child and its
// parent would otherwise need to agree on.
package stats

import (
	"sort"
	"sync"
	"sync/atomic"

	"github.com/alex-ozdemir/murxla/internal/solver"
	"github.com/alex-ozdemir/murxla/internal/theory"
)

// Stats accumulates counts for one run. Safe for concurrent use.
type Stats struct {
	results [3]int64 // indexed by resultIndex(CheckSatResult)

	mu        sync.Mutex
	ops       map[theory.Kind]*int64
	opsOK     map[theory.Kind]*int64
	states    map[string]*int64
	actions   map[string]*int64
	actionsOK map[string]*int64
}

// New returns an empty Stats.
func New() *Stats {
	return &Stats{
		ops:       map[theory.Kind]*int64{},
		opsOK:     map[theory.Kind]*int64{},
		states:    map[string]*int64{},
		actions:   map[string]*int64{},
		actionsOK: map[string]*int64{},
	}
}

func resultIndex(r solver.CheckSatResult) int {
	switch r {
	case solver.Sat:
		return 0
	case solver.Unsat:
		return 1
	default:
		return 2
	}
}

// RecordResult increments the sat/unsat/unknown histogram.
func (s *Stats) RecordResult(r solver.CheckSatResult) {
	atomic.AddInt64(&s.results[resultIndex(r)], 1)
}

// Results returns a copy of the {sat, unsat, unknown} histogram.
func (s *Stats) Results() [3]int64 {
	return [3]int64{
		atomic.LoadInt64(&s.results[0]),
		atomic.LoadInt64(&s.results[1]),
		atomic.LoadInt64(&s.results[2]),
	}
}

func (s *Stats) counter(m map[theory.Kind]*int64, key theory.Kind) *int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := m[key]
	if !ok {
		var zero int64
		c = &zero
		m[key] = c
	}
	return c
}

func (s *Stats) strCounter(m map[string]*int64, key string) *int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := m[key]
	if !ok {
		var zero int64
		c = &zero
		m[key] = c
	}
	return c
}

// RecordOp increments the count for an operator kind, and its ok-count if
// the construction succeeded.
func (s *Stats) RecordOp(kind theory.Kind, ok bool) {
	atomic.AddInt64(s.counter(s.ops, kind), 1)
	if ok {
		atomic.AddInt64(s.counter(s.opsOK, kind), 1)
	}
}

// RecordState increments the visit count for an FSM state.
func (s *Stats) RecordState(name string) {
	atomic.AddInt64(s.strCounter(s.states, name), 1)
}

// RecordAction increments the count for an action kind, and its ok-count
// if the action ran to completion without error.
func (s *Stats) RecordAction(kind string, ok bool) {
	atomic.AddInt64(s.strCounter(s.actions, kind), 1)
	if ok {
		atomic.AddInt64(s.strCounter(s.actionsOK, kind), 1)
	}
}

// OpCounts returns (count, ok-count) per operator kind, sorted by kind for
// stable report/CSV output.
func (s *Stats) OpCounts() []OpCount {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]OpCount, 0, len(s.ops))
	for k, c := range s.ops {
		ok := int64(0)
		if oc, found := s.opsOK[k]; found {
			ok = atomic.LoadInt64(oc)
		}
		out = append(out, OpCount{Kind: k, Count: atomic.LoadInt64(c), OK: ok})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Kind < out[j].Kind })
	return out
}

// OpCount is one row of OpCounts' report.
type OpCount struct {
	Kind  theory.Kind
	Count int64
	OK    int64
}

// StateCounts returns visit counts keyed by FSM state name, as a map
// (unordered).
func (s *Stats) StateCounts() map[string]int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]int64, len(s.states))
	for k, c := range s.states {
		out[k] = atomic.LoadInt64(c)
	}
	return out
}

// ActionCounts returns (count, ok-count) per action kind.
func (s *Stats) ActionCounts() map[string][2]int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string][2]int64, len(s.actions))
	for k, c := range s.actions {
		ok := int64(0)
		if oc, found := s.actionsOK[k]; found {
			ok = atomic.LoadInt64(oc)
		}
		out[k] = [2]int64{atomic.LoadInt64(c), ok}
	}
	return out
}
