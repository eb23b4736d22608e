package smgr

import (
	"github.com/alex-ozdemir/murxla/internal/merr"
	"github.com/alex-ozdemir/murxla/internal/rng"
	"github.com/alex-ozdemir/murxla/internal/theory"
)

// DB is the symbolic object database: sort/term storage, sampling
// indices, and the selection/add-object API of spec.md §4.3.
type DB struct {
	g *rng.Generator

	nextSortID uint64
	nextTermID uint64

	sortDedup map[structKey]*Sort
	byKind    map[theory.SortKind][]*Sort

	termsBySort  map[uint64][]*Term // keyed by Sort.ID
	valuesBySort map[uint64][]*Term
	stringChars  []*Term

	assumptions   []*Term
	checkSatCalled bool

	pushLevel uint32
	// scope is the current quantifier-nesting path; empty at level 0.
	scope []uint32

	untracedSorts map[string]*Sort
	untracedTerms map[string]*Term
}

// New constructs an empty database drawing from g for every sampling
// decision.
func New(g *rng.Generator) *DB {
	return &DB{
		g:             g,
		sortDedup:     map[structKey]*Sort{},
		byKind:        map[theory.SortKind][]*Sort{},
		termsBySort:   map[uint64][]*Term{},
		valuesBySort:  map[uint64][]*Term{},
		untracedSorts: map[string]*Sort{},
		untracedTerms: map[string]*Term{},
	}
}

// NTerms reports the number of live terms, per P5 ("after reset, 0").
func (db *DB) NTerms() int {
	n := 0
	for _, ts := range db.termsBySort {
		n += len(ts)
	}
	return n
}

// AddSort canonicalizes s: if s.Kind was ANY it is set to kind; the single
// permitted coercion is kind=REAL on an INT-kinded sort (I6). Duplicate
// structural shapes collapse to the previously inserted instance and its
// id (I1 dedup, OQ-1: "insert iff absent").
func (db *DB) AddSort(s *Sort, kind theory.SortKind) *Sort {
	if s.Kind == theory.SortAny {
		s.Kind = kind
	} else if kind == theory.SortReal && s.Kind == theory.SortInt {
		s.IsReal = true
	}
	if s.Kind == theory.SortInt {
		s.IsInt = true
	}
	if s.Kind == theory.SortReal {
		s.IsReal = true
	}

	key := s.key()
	if existing, ok := db.sortDedup[key]; ok {
		return existing
	}
	db.nextSortID++
	s.ID = db.nextSortID
	db.sortDedup[key] = s
	db.byKind[s.Kind] = append(db.byKind[s.Kind], s)
	return s
}

// AddTerm registers a freshly constructed term, assigning it a fresh id
// and indexing it under its (already-canonicalized) sort and the
// database's current scope.
func (db *DB) AddTerm(t *Term) *Term {
	db.nextTermID++
	t.ID = db.nextTermID
	t.Levels = append([]uint32{}, db.scope...)
	db.termsBySort[t.Sort.ID] = append(db.termsBySort[t.Sort.ID], t)
	if t.Sort.Kind == theory.SortString && len(t.Levels) == 0 {
		// curated single-character pool membership is decided by the
		// caller (actions package) via AddStringChar, not here.
	}
	return t
}

// AddValue registers t as a value-producing term (I3): indexed both as a
// normal term and in its sort's value bucket.
func (db *DB) AddValue(t *Term) *Term {
	t.IsValue = true
	db.AddTerm(t)
	db.valuesBySort[t.Sort.ID] = append(db.valuesBySort[t.Sort.ID], t)
	return t
}

// AddVar registers t as a bound variable (used only inside quantifier
// construction); flagged so PickVar can tell it apart from other terms
// while scanning.
func (db *DB) AddVar(t *Term) *Term {
	t.IsVar = true
	return db.AddTerm(t)
}

// AddInput registers a free constant (mk-const), a plain, non-value,
// non-var term.
func (db *DB) AddInput(t *Term) *Term {
	return db.AddTerm(t)
}

// AddStringChar records t in the curated single-character string-value
// pool.
func (db *DB) AddStringChar(t *Term) {
	db.stringChars = append(db.stringChars, t)
}

// PushScope opens a fresh quantifier-nesting level and returns it.
func (db *DB) PushScope() uint32 {
	db.pushLevel++
	lvl := db.pushLevel
	db.scope = append(db.scope, lvl)
	return lvl
}

// PopScope closes the innermost quantifier-nesting level, removing every
// variable term registered at or below it while leaving terms that
// escaped to an outer level untouched (spec.md §4.4 quantifier
// construction step iv).
func (db *DB) PopScope() {
	if len(db.scope) == 0 {
		return
	}
	closing := db.scope[len(db.scope)-1]
	db.scope = db.scope[:len(db.scope)-1]
	for sortID, ts := range db.termsBySort {
		kept := ts[:0]
		for _, t := range ts {
			if t.IsVar && len(t.Levels) > 0 && t.Levels[len(t.Levels)-1] == closing {
				continue
			}
			kept = append(kept, t)
		}
		db.termsBySort[sortID] = kept
	}
}

// CurrentScope returns the scope path new terms would be tagged with.
func (db *DB) CurrentScope() []uint32 { return append([]uint32{}, db.scope...) }

// ResetSat implements reset_sat: clears the assumption set and the
// check-sat latch, nothing else (I5).
func (db *DB) ResetSat() {
	db.assumptions = nil
	db.checkSatCalled = false
}

// ResetAssertions implements reset_assertions: ResetSat plus clearing the
// push-level counter.
func (db *DB) ResetAssertions() {
	db.ResetSat()
	db.pushLevel = 0
	db.scope = nil
}

// Reset clears every index except the static theory/op catalogs, which
// this package does not own (P5: after Reset, NTerms() == 0).
func (db *DB) Reset() {
	db.nextSortID = 0
	db.nextTermID = 0
	db.sortDedup = map[structKey]*Sort{}
	db.byKind = map[theory.SortKind][]*Sort{}
	db.termsBySort = map[uint64][]*Term{}
	db.valuesBySort = map[uint64][]*Term{}
	db.stringChars = nil
	db.assumptions = nil
	db.checkSatCalled = false
	db.pushLevel = 0
	db.scope = nil
	db.untracedSorts = map[string]*Sort{}
	db.untracedTerms = map[string]*Term{}
}

// MarkCheckSatCalled sets the "check-sat was called" latch I5 references.
func (db *DB) MarkCheckSatCalled() { db.checkSatCalled = true }

// CheckSatCalled reports the current latch state.
func (db *DB) CheckSatCalled() bool { return db.checkSatCalled }

// RegisterUntraced associates a file-side identifier with a live Sort or
// Term, for replay mode's untraced->live lookup.
func (db *DB) RegisterUntracedSort(id string, s *Sort) { db.untracedSorts[id] = s }
func (db *DB) RegisterUntracedTerm(id string, t *Term)  { db.untracedTerms[id] = t }

// ResolveUntracedSort looks up a sort by its file-side id, returning a
// *merr.UntraceError if the trace references one that was never recorded.
func (db *DB) ResolveUntracedSort(id string) (*Sort, error) {
	s, ok := db.untracedSorts[id]
	if !ok {
		return nil, merr.NewUntraceError("mk-term", "unknown sort id %q", id)
	}
	return s, nil
}

// ResolveUntracedTerm looks up a term by its file-side id.
func (db *DB) ResolveUntracedTerm(id string) (*Term, error) {
	t, ok := db.untracedTerms[id]
	if !ok {
		return nil, merr.NewUntraceError("mk-term", "unknown term id %q", id)
	}
	return t, nil
}
