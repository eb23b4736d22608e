package solver

import (
	"testing"

	"github.com/alex-ozdemir/murxla/internal/rng"
	"github.com/alex-ozdemir/murxla/internal/theory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_EchoMkSortAndConst(t *testing.T) {
	e := NewEcho()
	bvSort, err := e.MkSort(theory.SortBV, SortParams{BVSize: 8})
	require.NoError(t, err)

	c, err := e.MkConst(bvSort, "x")
	require.NoError(t, err)
	assert.NotNil(t, c)
	assert.Contains(t, e.Output(), "declare-const x")
}

func Test_EchoMkTermAndAssert(t *testing.T) {
	e := NewEcho()
	bvSort, err := e.MkSort(theory.SortBV, SortParams{BVSize: 8})
	require.NoError(t, err)
	x, err := e.MkConst(bvSort, "x")
	require.NoError(t, err)

	boolSort, err := e.MkSort(theory.SortBool, SortParams{})
	require.NoError(t, err)
	eq, err := e.MkTerm(theory.Kind("OP_EQUAL"), boolSort, []Term{x, x}, nil)
	require.NoError(t, err)

	require.NoError(t, e.AssertFormula(eq))
	res, err := e.CheckSat()
	require.NoError(t, err)
	assert.Equal(t, Sat, res)
}

func Test_EchoPushPopDepth(t *testing.T) {
	e := NewEcho()
	require.NoError(t, e.Push(2))
	assert.Error(t, e.Pop(3))
	require.NoError(t, e.Pop(2))
}

func Test_EchoResetClearsAsserts(t *testing.T) {
	e := NewEcho()
	boolSort, _ := e.MkSort(theory.SortBool, SortParams{})
	x, _ := e.MkConst(boolSort, "b")
	require.NoError(t, e.AssertFormula(x))
	require.NoError(t, e.ResetAssertions())
	core, err := e.GetUnsatCore()
	require.NoError(t, err)
	assert.Empty(t, core)
}

func Test_OptionFuzzerDeterministic(t *testing.T) {
	g1 := rng.New(5)
	g2 := rng.New(5)
	f1 := NewOptionFuzzer(g1)
	f2 := NewOptionFuzzer(g2)

	e1 := NewEcho()
	e2 := NewEcho()

	require.NoError(t, f1.FuzzAll(e1))
	require.NoError(t, f2.FuzzAll(e2))
	assert.Equal(t, e1.Output(), e2.Output())
}
