// Package smgr is the symbolic object database: the stateful heart that
// owns every sort and term a run has ever created, indexes them for
// O(1)-expected sampling, and enforces invariants I1-I7. Sorts are
// find-or-insert deduplicated on creation; every added term gets a fresh
// id. Both are kept indexed by kind for fast lookup.
package smgr

import (
	"github.com/alex-ozdemir/murxla/internal/solver"
	"github.com/alex-ozdemir/murxla/internal/theory"
)

// Sort is a typed, deduplicated handle the database owns. Equality is
// structural: two Sorts with the same Kind and parameters are the same
// Sort (I1, "dedup on insert").
type Sort struct {
	ID   uint64
	Kind theory.SortKind

	BVSize uint32

	// ArrayIndex/ArrayElem cover ARRAY, SET, SEQ, BAG (single element sort).
	ArrayIndex *Sort
	ArrayElem  *Sort

	FunDomain   []*Sort
	FunCodomain *Sort

	FPExpSize uint32
	FPSigSize uint32

	// IsInt/IsReal are I6's arithmetic-subtyping flag pair: IsInt is set on
	// INT-kinded sorts, IsReal on REAL-kinded sorts and on an INT sort added
	// under kind REAL. AcceptsKind decides INT-for-REAL by Kind alone.
	IsInt  bool
	IsReal bool

	// Handle is the back-end's opaque sort object, threaded back through
	// solver.Adapter calls; the database never inspects it.
	Handle solver.Sort
}

// structKey is the structural-equality key two Sorts with the same shape
// collapse to, used by the dedup set in add_sort.
type structKey struct {
	kind     theory.SortKind
	bvSize   uint32
	elem     uint64 // 0 if none
	index    uint64 // 0 if none
	domain   string // joined domain ids, for FUN
	codomain uint64
	expSize  uint32
	sigSize  uint32
}

func (s *Sort) key() structKey {
	k := structKey{kind: s.Kind, bvSize: s.BVSize, expSize: s.FPExpSize, sigSize: s.FPSigSize}
	if s.ArrayElem != nil {
		k.elem = s.ArrayElem.ID
	}
	if s.ArrayIndex != nil {
		k.index = s.ArrayIndex.ID
	}
	if s.FunCodomain != nil {
		k.codomain = s.FunCodomain.ID
	}
	for _, d := range s.FunDomain {
		k.domain += string(rune(d.ID)) + ","
	}
	return k
}

// AcceptsKind reports whether this Sort may stand in for a required
// argument kind, honoring I6 (INT accepted where REAL is required).
func (s *Sort) AcceptsKind(want theory.SortKind) bool {
	if want == theory.SortAny || s.Kind == want {
		return true
	}
	if want == theory.SortReal && s.Kind == theory.SortInt {
		return true
	}
	return false
}
