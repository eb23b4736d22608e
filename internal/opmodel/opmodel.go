// Package opmodel implements the argument-selection algorithm: given an
// Op and a desired result sort, resolve every ANY-kinded argument slot
// against the live database and produce a concrete argument-sort/
// argument-term assignment a solver.Adapter.MkTerm call can consume.
// Resolution checks arity first, then builds the concrete argument list
// from terms already present in the database.
package opmodel

import (
	"github.com/alex-ozdemir/murxla/internal/config"
	"github.com/alex-ozdemir/murxla/internal/merr"
	"github.com/alex-ozdemir/murxla/internal/rng"
	"github.com/alex-ozdemir/murxla/internal/smgr"
	"github.com/alex-ozdemir/murxla/internal/theory"
)

// Plan is the resolved result of argument selection: concrete argument
// terms, indices (for indexed ops like extract/repeat), and the result
// sort the caller should request from solver.Adapter.MkTerm.
type Plan struct {
	Op         theory.Op
	Args       []*smgr.Term
	Indices    []uint32
	ResultSort *smgr.Sort
}

// Resolve runs the five-step algorithm of spec.md §4.4 for op, drawing
// terms from db and indices from g.
func Resolve(db *smgr.DB, g *rng.Generator, op theory.Op) (*Plan, error) {
	if len(op.ArgKinds) == 0 && !op.IsVariadic() {
		return resolveNullary(db, op)
	}

	n := len(op.ArgKinds)
	if op.IsVariadic() {
		n = op.MinArgs()
		if n < 2 {
			n = 2
		}
	}

	argKinds := make([]theory.SortKind, n)
	for i := 0; i < n; i++ {
		if i < len(op.ArgKinds) {
			argKinds[i] = op.ArgKinds[i]
		} else {
			argKinds[i] = op.ArgKinds[len(op.ArgKinds)-1]
		}
	}

	// Step 1+2: resolve the first ANY slot against the database, then
	// unify every remaining ANY slot to the same concrete sort — this is
	// the shared-sort rule EQUAL/DISTINCT/ITE require.
	var sharedSort *smgr.Sort
	for i, k := range argKinds {
		if k != theory.SortAny {
			continue
		}
		if sharedSort == nil {
			s, err := db.PickSort(theory.SortAny, true)
			if err != nil {
				return nil, err
			}
			sharedSort = s
		}
		_ = i
	}

	args := make([]*smgr.Term, n)
	for i, k := range argKinds {
		var sort *smgr.Sort
		var err error
		if k == theory.SortAny {
			sort = sharedSort
		} else {
			sort, err = db.PickSort(k, true)
			if err != nil {
				return nil, err
			}
		}
		t, err := db.PickTerm(sort)
		if err != nil {
			return nil, err
		}
		args[i] = t
	}

	indices, err := pickIndices(db, g, op, args)
	if err != nil {
		return nil, err
	}

	resultSort, err := resolveResultSort(db, op, args, sharedSort)
	if err != nil {
		return nil, err
	}

	return &Plan{Op: op, Args: args, Indices: indices, ResultSort: resultSort}, nil
}

func resolveNullary(db *smgr.DB, op theory.Op) (*Plan, error) {
	resultKind := op.ResultKind
	if resultKind == theory.SortAny {
		resultKind = theory.SortBool
	}
	sort, err := db.PickSort(resultKind, false)
	if err != nil {
		return nil, err
	}
	return &Plan{Op: op, ResultSort: sort}, nil
}

func resolveResultSort(db *smgr.DB, op theory.Op, args []*smgr.Term, sharedSort *smgr.Sort) (*smgr.Sort, error) {
	switch op.ResultKind {
	case theory.SortAny:
		if sharedSort != nil {
			return sharedSort, nil
		}
		if len(args) > 0 {
			return args[0].Sort, nil
		}
		return db.PickSort(theory.SortBool, false)
	case theory.SortBool:
		return db.PickSort(theory.SortBool, false)
	default:
		if sharedSort != nil && sharedSort.Kind == op.ResultKind {
			return sharedSort, nil
		}
		if len(args) > 0 && args[0].Sort.Kind == op.ResultKind {
			return args[0].Sort, nil
		}
		return db.PickSort(op.ResultKind, false)
	}
}

// pickIndices draws each compile-time integer index an indexed op needs,
// per spec.md §4.4 step 4: extract(hi, lo) with 0<=lo<=hi<bw, repeat n
// with 1<=n bounded by config, sign/zero_extend n with 0<=n, rotate n
// with 0<=n<bw, FP conversions with an explicit (exp, sig).
func pickIndices(db *smgr.DB, g *rng.Generator, op theory.Op, args []*smgr.Term) ([]uint32, error) {
	if op.NParams == 0 {
		return nil, nil
	}
	switch op.Kind {
	case "OP_BV_EXTRACT":
		if len(args) == 0 {
			return nil, merr.NewInternalError("extract: no argument bit-vector")
		}
		bw := args[0].Sort.BVSize
		if bw == 0 {
			return nil, merr.NewInternalError("extract: zero-width bit-vector")
		}
		hi := g.UInt32Range(0, bw-1)
		lo := g.UInt32Range(0, hi)
		return []uint32{hi, lo}, nil
	case "OP_BV_REPEAT":
		n := g.UInt32Range(1, uint32(config.IntLenMax))
		return []uint32{n}, nil
	case "OP_BV_SIGN_EXTEND", "OP_BV_ZERO_EXTEND":
		n := g.UInt32Range(0, config.BVWidthMax)
		return []uint32{n}, nil
	case "OP_BV_ROTATE_LEFT", "OP_BV_ROTATE_RIGHT":
		if len(args) == 0 {
			return nil, merr.NewInternalError("rotate: no argument bit-vector")
		}
		bw := args[0].Sort.BVSize
		if bw == 0 {
			return []uint32{0}, nil
		}
		return []uint32{g.UInt32Range(0, bw-1)}, nil
	case "OP_FP_TO_FP_FROM_FP":
		exp := g.UInt32Range(2, 16)
		sig := g.UInt32Range(2, 16)
		return []uint32{exp, sig}, nil
	default:
		out := make([]uint32, op.NParams)
		for i := range out {
			out[i] = g.UInt32Range(0, config.BVWidthMax)
		}
		return out, nil
	}
}
