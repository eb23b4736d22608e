package opmodel

import (
	"testing"

	"github.com/alex-ozdemir/murxla/internal/rng"
	"github.com/alex-ozdemir/murxla/internal/smgr"
	"github.com/alex-ozdemir/murxla/internal/theory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupBVDB(g *rng.Generator) (*smgr.DB, *smgr.Sort) {
	db := smgr.New(g)
	bvSort := db.AddSort(&smgr.Sort{Kind: theory.SortBV, BVSize: 8}, theory.SortBV)
	db.AddInput(&smgr.Term{Sort: bvSort})
	db.AddInput(&smgr.Term{Sort: bvSort})
	return db, bvSort
}

func Test_ResolveBinaryOp(t *testing.T) {
	g := rng.New(1)
	db, _ := setupBVDB(g)
	reg := theory.NewRegistry()
	op, ok := reg.Lookup(theory.Kind("OP_BV_ADD"))
	require.True(t, ok)

	plan, err := Resolve(db, g, op)
	require.NoError(t, err)
	assert.Len(t, plan.Args, 2)
	assert.Equal(t, theory.SortBV, plan.ResultSort.Kind)
}

func Test_ResolveExtractIndices(t *testing.T) {
	g := rng.New(2)
	db, _ := setupBVDB(g)
	reg := theory.NewRegistry()
	op, ok := reg.Lookup(theory.Kind("OP_BV_EXTRACT"))
	require.True(t, ok)

	plan, err := Resolve(db, g, op)
	require.NoError(t, err)
	require.Len(t, plan.Indices, 2)
	hi, lo := plan.Indices[0], plan.Indices[1]
	assert.LessOrEqual(t, lo, hi)
	assert.Less(t, hi, uint32(8))
}

func Test_ResolveEqualSharesSort(t *testing.T) {
	g := rng.New(3)
	db, _ := setupBVDB(g)
	reg := theory.NewRegistry()
	op, ok := reg.Lookup(theory.Kind("OP_EQUAL"))
	require.True(t, ok)

	plan, err := Resolve(db, g, op)
	require.NoError(t, err)
	require.Len(t, plan.Args, 2)
	assert.Equal(t, plan.Args[0].Sort, plan.Args[1].Sort)
}

func Test_BuildQuantifierVarsScopedOut(t *testing.T) {
	g := rng.New(4)
	db := smgr.New(g)
	boolSort := db.AddSort(&smgr.Sort{Kind: theory.SortBool}, theory.SortBool)
	db.AddInput(&smgr.Term{Sort: boolSort})

	mkVar := func(sort *smgr.Sort) (*smgr.Term, error) {
		return db.AddVar(&smgr.Term{Sort: sort}), nil
	}
	pickKind := func() (theory.SortKind, bool) { return theory.SortBool, true }

	plan, err := BuildQuantifier(db, g, pickKind, mkVar)
	require.NoError(t, err)
	assert.NotEmpty(t, plan.Vars)
	assert.NotNil(t, plan.Body)
	assert.Equal(t, []uint32{}, db.CurrentScope())
}
