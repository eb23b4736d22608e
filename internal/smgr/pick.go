package smgr

import (
	"sort"

	"github.com/alex-ozdemir/murxla/internal/merr"
	"github.com/alex-ozdemir/murxla/internal/rng"
	"github.com/alex-ozdemir/murxla/internal/theory"
)

// HasTermOfKind reports whether at least one term of the given sort kind
// exists, the I7 precondition query op selection relies on.
func (db *DB) HasTermOfKind(kind theory.SortKind) bool {
	for _, s := range db.byKind[kind] {
		if len(db.termsBySort[s.ID]) > 0 {
			return true
		}
	}
	return false
}

// HasAnySort reports whether at least one sort of any kind has been
// registered — the pure existence check MK_CONST/MK_VAR/MK_VALUE/
// MK_SPECIAL_VALUE's Precondition needs (each just requires a sort to
// hang a fresh term off of, not that a term of that sort already
// exists), evaluated without drawing from the RNG (spec.md §4.5:
// preconditions are capability queries, sampling happens only in Run).
func (db *DB) HasAnySort() bool {
	for _, sorts := range db.byKind {
		if len(sorts) > 0 {
			return true
		}
	}
	return false
}

// HasSortBVLessEq reports whether a BV sort of width <= bw exists.
func (db *DB) HasSortBVLessEq(bw uint32) bool {
	for _, s := range db.byKind[theory.SortBV] {
		if s.BVSize <= bw {
			return true
		}
	}
	return false
}

// PickSortKind implements pick_sort_kind(with_terms). Iterates the fixed
// theory.AllSortKinds order rather than ranging db.byKind directly, so
// that an identical seed samples the same kind on every run (spec.md §8
// scenario 4).
func (db *DB) PickSortKind(withTerms bool) (theory.SortKind, bool) {
	var candidates []theory.SortKind
	for _, kind := range theory.AllSortKinds {
		if len(db.byKind[kind]) == 0 {
			continue
		}
		if withTerms && !db.HasTermOfKind(kind) {
			continue
		}
		candidates = append(candidates, kind)
	}
	return rng.PickFromSlice(db.g, candidates)
}

// PickSort implements pick_sort(kind, with_terms). kind == SortAny means
// "pick a kind first" per the contract table.
func (db *DB) PickSort(kind theory.SortKind, withTerms bool) (*Sort, error) {
	if kind == theory.SortAny {
		k, ok := db.PickSortKind(withTerms)
		if !ok {
			return nil, merr.NewInternalError("pick_sort: no sort kind available")
		}
		kind = k
	}
	candidates := db.byKind[kind]
	if kind == theory.SortReal && withTerms {
		// I6: an INT sort is acceptable wherever a REAL argument slot is
		// requested. Result-sort resolution (withTerms == false) keeps the
		// exact kind: substitution only applies to filling argument slots.
		for _, s := range db.byKind[theory.SortInt] {
			if s.AcceptsKind(theory.SortReal) {
				candidates = append(append([]*Sort{}, candidates...), s)
			}
		}
	}
	if withTerms {
		filtered := candidates[:0:0]
		for _, s := range candidates {
			if len(db.termsBySort[s.ID]) > 0 {
				filtered = append(filtered, s)
			}
		}
		candidates = filtered
	}
	s, ok := rng.PickFromSlice(db.g, candidates)
	if !ok {
		return nil, merr.NewInternalError("pick_sort: no sort of kind %s available", kind)
	}
	return s, nil
}

// PickSortBV returns a BV sort of exactly the given width.
func (db *DB) PickSortBV(bw uint32) (*Sort, error) {
	var candidates []*Sort
	for _, s := range db.byKind[theory.SortBV] {
		if s.BVSize == bw {
			candidates = append(candidates, s)
		}
	}
	s, ok := rng.PickFromSlice(db.g, candidates)
	if !ok {
		return nil, merr.NewInternalError("pick_sort_bv: no BV sort of width %d", bw)
	}
	return s, nil
}

// PickSortBVMax returns a BV sort of width <= bw.
func (db *DB) PickSortBVMax(bw uint32) (*Sort, error) {
	var candidates []*Sort
	for _, s := range db.byKind[theory.SortBV] {
		if s.BVSize <= bw {
			candidates = append(candidates, s)
		}
	}
	s, ok := rng.PickFromSlice(db.g, candidates)
	if !ok {
		return nil, merr.NewInternalError("pick_sort_bv_max: no BV sort of width <= %d", bw)
	}
	return s, nil
}

func (db *DB) reachableTerms(sortID uint64) []*Term {
	var out []*Term
	for _, t := range db.termsBySort[sortID] {
		if t.ReachableFrom(db.scope) {
			out = append(out, t)
		}
	}
	return out
}

// PickTerm implements pick_term(sort): uniform among reachable candidates
// of the exact given sort.
func (db *DB) PickTerm(sort *Sort) (*Term, error) {
	t, ok := rng.PickFromSlice(db.g, db.reachableTerms(sort.ID))
	if !ok {
		return nil, merr.NewInternalError("pick_term: no reachable term of sort id %d", sort.ID)
	}
	return t, nil
}

// PickTermOfKind implements pick_term(kind): uniform among reachable
// terms of the given sort kind. It takes no level argument and samples
// across every level reachable from the current scope.
func (db *DB) PickTermOfKind(kind theory.SortKind) (*Term, error) {
	var candidates []*Term
	for _, s := range db.byKind[kind] {
		candidates = append(candidates, db.reachableTerms(s.ID)...)
	}
	t, ok := rng.PickFromSlice(db.g, candidates)
	if !ok {
		return nil, merr.NewInternalError("pick_term: no reachable term of kind %s", kind)
	}
	return t, nil
}

// PickTermAny implements the no-argument pick_term(): uniform among every
// reachable term regardless of kind.
func (db *DB) PickTermAny() (*Term, error) {
	var candidates []*Term
	for _, sortID := range db.sortedSortIDs() {
		candidates = append(candidates, db.reachableTerms(sortID)...)
	}
	t, ok := rng.PickFromSlice(db.g, candidates)
	if !ok {
		return nil, merr.NewInternalError("pick_term: database is empty")
	}
	return t, nil
}

// sortedSortIDs returns every sort id with at least one term, in
// ascending order. Sort ids are assigned monotonically (I1), so this
// yields a deterministic, creation-order traversal in place of ranging
// termsBySort directly.
func (db *DB) sortedSortIDs() []uint64 {
	ids := make([]uint64, 0, len(db.termsBySort))
	for id := range db.termsBySort {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// PickValue implements pick_value(sort): uniform from values_by_sort[sort].
func (db *DB) PickValue(sort *Sort) (*Term, error) {
	t, ok := rng.PickFromSlice(db.g, db.valuesBySort[sort.ID])
	if !ok {
		return nil, merr.NewInternalError("pick_value: no value of sort id %d", sort.ID)
	}
	return t, nil
}

// PickVar returns a uniformly random live bound variable, valid only
// while constructing a quantifier body.
func (db *DB) PickVar() (*Term, error) {
	var candidates []*Term
	for _, sortID := range db.sortedSortIDs() {
		for _, t := range db.termsBySort[sortID] {
			if t.IsVar && t.ReachableFrom(db.scope) {
				candidates = append(candidates, t)
			}
		}
	}
	t, ok := rng.PickFromSlice(db.g, candidates)
	if !ok {
		return nil, merr.NewInternalError("pick_var: no live bound variable")
	}
	return t, nil
}

// PickQuantBody returns a uniformly random Boolean term reachable from
// the current scope, suitable as a quantifier body.
func (db *DB) PickQuantBody() (*Term, error) {
	boolSorts := db.byKind[theory.SortBool]
	var candidates []*Term
	for _, s := range boolSorts {
		candidates = append(candidates, db.reachableTerms(s.ID)...)
	}
	t, ok := rng.PickFromSlice(db.g, candidates)
	if !ok {
		return nil, merr.NewInternalError("pick_quant_body: no reachable Boolean term")
	}
	return t, nil
}

// PickAssumption implements pick_assumption: picks a Boolean level-0 term
// and stages it into the assumption set.
func (db *DB) PickAssumption() (*Term, error) {
	var candidates []*Term
	for _, s := range db.byKind[theory.SortBool] {
		for _, t := range db.termsBySort[s.ID] {
			if t.Level0() {
				candidates = append(candidates, t)
			}
		}
	}
	t, ok := rng.PickFromSlice(db.g, candidates)
	if !ok {
		return nil, merr.NewInternalError("pick_assumption: no Boolean level-0 term")
	}
	db.assumptions = append(db.assumptions, t)
	return t, nil
}

// Assumptions returns the currently staged assumption set.
func (db *DB) Assumptions() []*Term { return append([]*Term{}, db.assumptions...) }

// StringChars returns the curated single-character string-value pool.
func (db *DB) StringChars() []*Term { return append([]*Term{}, db.stringChars...) }
