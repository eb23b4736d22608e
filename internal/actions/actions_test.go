package actions

import (
	"testing"

	"github.com/alex-ozdemir/murxla/internal/config"
	"github.com/alex-ozdemir/murxla/internal/fsm"
	"github.com/alex-ozdemir/murxla/internal/rng"
	"github.com/alex-ozdemir/murxla/internal/smgr"
	"github.com/alex-ozdemir/murxla/internal/solver"
	"github.com/alex-ozdemir/murxla/internal/stats"
	"github.com/alex-ozdemir/murxla/internal/theory"
	"github.com/stretchr/testify/require"
)

func newTestEnv(seed uint64) (*Env, *fsm.Context) {
	g := rng.New(seed)
	db := smgr.New(g)
	reg := theory.NewRegistry()
	echo := solver.NewEcho()
	opts := config.Default()
	env := &Env{
		DB:       db,
		Adapter:  echo,
		Registry: reg,
		Enabled:  []theory.ID{theory.Bool, theory.BV},
		Options:  opts,
		Stats:    stats.New(),
		OptFuzz:  solver.NewOptionFuzzer(g),
	}
	ctx := &fsm.Context{G: g}
	return env, ctx
}

func TestLifecycleActions(t *testing.T) {
	env, ctx := newTestEnv(1)
	new_ := &NewSolver{Env: env}
	require.True(t, new_.Precondition())
	_, err := new_.Run(ctx)
	require.NoError(t, err)

	del := &DeleteSolver{Env: env}
	_, err = del.Run(ctx)
	require.NoError(t, err)
}

func TestMkSortAndMkConst(t *testing.T) {
	env, ctx := newTestEnv(2)
	mkSort := &MkSort{Env: env}
	require.True(t, mkSort.Precondition())
	line, err := mkSort.Run(ctx)
	require.NoError(t, err)
	require.Equal(t, "mk-sort", line.Kind)
	require.Len(t, line.Returns, 1)

	mkConst := &MkConst{Env: env}
	require.True(t, mkConst.Precondition())
	cline, err := mkConst.Run(ctx)
	require.NoError(t, err)
	require.Len(t, cline.Returns, 1)
	require.Equal(t, 1, env.DB.NTerms())
}

func TestAssertAndCheckSat(t *testing.T) {
	env, ctx := newTestEnv(3)

	// Force a Boolean constant so AssertFormula has something to pick.
	boolSort := env.DB.AddSort(&smgr.Sort{Kind: theory.SortBool}, theory.SortBool)
	handle, err := env.Adapter.MkSort(theory.SortBool, solver.SortParams{})
	require.NoError(t, err)
	boolSort.Handle = handle
	ch, err := env.Adapter.MkConst(handle, "b")
	require.NoError(t, err)
	env.DB.AddInput(&smgr.Term{Sort: boolSort, Handle: ch})

	assert := &AssertFormula{Env: env}
	require.True(t, assert.Precondition())
	_, err = assert.Run(ctx)
	require.NoError(t, err)

	check := &CheckSat{Env: env}
	require.True(t, check.Precondition())
	line, err := check.Run(ctx)
	require.NoError(t, err)
	require.True(t, env.DB.CheckSatCalled())
	require.Contains(t, []string{"sat", "unsat"}, line.Args[0].Str)
}

func TestGetValueRequiresSat(t *testing.T) {
	env, _ := newTestEnv(4)
	gv := &GetValue{Env: env}
	require.False(t, gv.Precondition())

	env.lastResult = solver.Sat
	env.DB.MarkCheckSatCalled()
	require.False(t, gv.Precondition()) // no terms yet

	sort := env.DB.AddSort(&smgr.Sort{Kind: theory.SortBool}, theory.SortBool)
	handle, err := env.Adapter.MkSort(theory.SortBool, solver.SortParams{})
	require.NoError(t, err)
	sort.Handle = handle
	ch, err := env.Adapter.MkConst(handle, "b")
	require.NoError(t, err)
	env.DB.AddInput(&smgr.Term{Sort: sort, Handle: ch})

	require.True(t, gv.Precondition())
	ctx := &fsm.Context{G: rng.New(4)}
	line, err := gv.Run(ctx)
	require.NoError(t, err)
	require.Len(t, line.Returns, 1)
}

func TestMkTermQuantifierScopesOutItsBoundVars(t *testing.T) {
	env, ctx := newTestEnv(6)
	env.Enabled = []theory.ID{theory.Bool, theory.Quant}

	boolSort := env.DB.AddSort(&smgr.Sort{Kind: theory.SortBool}, theory.SortBool)
	handle, err := env.Adapter.MkSort(theory.SortBool, solver.SortParams{})
	require.NoError(t, err)
	boolSort.Handle = handle
	ch, err := env.Adapter.MkConst(handle, "b")
	require.NoError(t, err)
	env.DB.AddInput(&smgr.Term{Sort: boolSort, Handle: ch})

	op, ok := env.Registry.Lookup("OP_FORALL")
	require.True(t, ok)

	mk := &MkTerm{Env: env}
	line, err := mk.runQuantifier(ctx, op)
	require.NoError(t, err)
	require.Equal(t, "mk-term", line.Kind)
	require.Equal(t, "OP_FORALL", line.Args[0].Str)
	require.Len(t, line.Returns, 1)

	// The bound variables were popped out of scope once construction
	// finished, so only the original constant and the quantified formula
	// remain reachable.
	require.Equal(t, 2, env.DB.NTerms())
}

func TestPushPopTracksDepth(t *testing.T) {
	env, ctx := newTestEnv(5)
	pp := &PushPop{Env: env}
	line, err := pp.Run(ctx)
	require.NoError(t, err)
	require.Equal(t, "push", line.Args[0].Str)
	require.Equal(t, uint32(line.Args[1].Int), env.pushDepth)
	require.Greater(t, env.pushDepth, uint32(0))
}
