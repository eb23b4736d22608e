package smgr

import "github.com/alex-ozdemir/murxla/internal/theory"

// opSatisfiable reports whether every concrete argument-kind slot of op
// currently has at least one reachable term (I7); ANY slots are always
// satisfiable at this stage since they are resolved later by the
// argument-selection algorithm, but only if the database holds at least
// one term of *some* kind.
func (db *DB) opSatisfiable(op theory.Op) bool {
	if op.Kind == "OP_FORALL" || op.Kind == "OP_EXISTS" {
		return db.HasTermOfKind(theory.SortBool)
	}
	any := false
	for _, k := range op.ArgKinds {
		if k == theory.SortAny {
			any = true
			continue
		}
		if !db.HasTermOfKind(k) {
			return false
		}
	}
	if any {
		for sortID := range db.termsBySort {
			if len(db.termsBySort[sortID]) > 0 {
				return true
			}
		}
		return false
	}
	return true
}

// HasSatisfiableOp reports whether PickOp(reg, enabled, true) would find
// at least one candidate operator, mirroring its exact theory/arity/
// opSatisfiable filtering but without drawing from the RNG — the pure
// existence check MK_TERM's Precondition needs (spec.md §4.5:
// preconditions are capability queries evaluated before sampling).
func (db *DB) HasSatisfiableOp(reg *theory.Registry, enabled []theory.ID) bool {
	for _, op := range reg.All() {
		if !containsTheory(enabled, op.Theory) {
			continue
		}
		if op.Arity == 0 {
			return true
		}
		if db.opSatisfiable(op) {
			return true
		}
	}
	return false
}

// PickOp implements pick_op(with_terms): a uniform two-step sample,
// first one of the enabled theories that has at least one candidate
// operator (nullary operators always count; with withTerms, others only
// when opSatisfiable), then one of that theory's candidate operators.
// Returns theory.UndefinedOp, false iff no
// operator is currently satisfiable; the caller's action must then be a
// no-op preserving state (spec.md §4.3).
func (db *DB) PickOp(reg *theory.Registry, enabled []theory.ID, withTerms bool) (theory.Op, bool) {
	byTheory := map[theory.ID][]theory.Op{}
	for _, op := range reg.All() {
		if !containsTheory(enabled, op.Theory) {
			continue
		}
		if op.Arity == 0 {
			byTheory[op.Theory] = append(byTheory[op.Theory], op)
			continue
		}
		if withTerms && !db.opSatisfiable(op) {
			continue
		}
		byTheory[op.Theory] = append(byTheory[op.Theory], op)
	}

	// Iterate enabled (caller-ordered) rather than ranging byTheory: map
	// range order is randomized per-process, which would make the same
	// seed sample a different theory on different runs.
	var theories []theory.ID
	for _, t := range enabled {
		if len(byTheory[t]) > 0 {
			theories = append(theories, t)
		}
	}
	chosenTheory, ok := db.pickTheory(theories)
	if !ok {
		return theory.Op{Kind: theory.UndefinedOp}, false
	}
	ops := byTheory[chosenTheory]
	idx := db.g.Uint32(uint32(len(ops)))
	return ops[idx], true
}

func (db *DB) pickTheory(theories []theory.ID) (theory.ID, bool) {
	if len(theories) == 0 {
		var zero theory.ID
		return zero, false
	}
	idx := db.g.Uint32(uint32(len(theories)))
	return theories[idx], true
}

func containsTheory(ids []theory.ID, t theory.ID) bool {
	for _, id := range ids {
		if id == t {
			return true
		}
	}
	return false
}
