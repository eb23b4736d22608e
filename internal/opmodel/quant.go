package opmodel

import (
	"github.com/alex-ozdemir/murxla/internal/merr"
	"github.com/alex-ozdemir/murxla/internal/rng"
	"github.com/alex-ozdemir/murxla/internal/smgr"
	"github.com/alex-ozdemir/murxla/internal/theory"
)

// QuantPlan is the result of opening a FORALL/EXISTS construction: the
// fresh bound variables and the body term, still owned by db at the
// now-closed inner scope's parent level (spec.md §4.4, quantifier
// construction step iv).
type QuantPlan struct {
	Vars []*smgr.Term
	Body *smgr.Term
}

// maxQuantVars bounds how many fresh bound variables one quantifier
// construction introduces (the "1-k" in spec.md §4.4).
const maxQuantVars = 4

// BuildQuantifier executes the four-step construction of spec.md §4.4: (i)
// push a fresh scope, (ii) create 1-k fresh VAR terms of random supported
// sorts, (iii) construct a Boolean body using only those vars and terms
// reachable at the current or outer level, (iv) pop the scope.
// pickSortKind chooses the sort kind of each variable, whose sort is then
// taken from the sorts already registered under that kind; mkVar
// registers a fresh bound-variable Term of that sort.
func BuildQuantifier(
	db *smgr.DB,
	g *rng.Generator,
	pickSortKind func() (theory.SortKind, bool),
	mkVar func(sort *smgr.Sort) (*smgr.Term, error),
) (*QuantPlan, error) {
	db.PushScope()

	n := g.UInt32Range(1, maxQuantVars)
	vars := make([]*smgr.Term, 0, n)
	for i := uint32(0); i < n; i++ {
		kind, ok := pickSortKind()
		if !ok {
			db.PopScope()
			return nil, merr.NewInternalError("build_quantifier: no supported sort kind for bound variable")
		}
		sort, err := db.PickSort(kind, false)
		if err != nil {
			db.PopScope()
			return nil, err
		}
		v, err := mkVar(sort)
		if err != nil {
			db.PopScope()
			return nil, err
		}
		vars = append(vars, v)
	}

	body, err := db.PickQuantBody()
	if err != nil {
		db.PopScope()
		return nil, err
	}

	db.PopScope()
	return &QuantPlan{Vars: vars, Body: body}, nil
}
