package smgr

import (
	"testing"

	"github.com/alex-ozdemir/murxla/internal/rng"
	"github.com/alex-ozdemir/murxla/internal/theory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBoolSort(db *DB) *Sort {
	return db.AddSort(&Sort{Kind: theory.SortBool}, theory.SortBool)
}

func newIntSort(db *DB) *Sort {
	return db.AddSort(&Sort{Kind: theory.SortInt}, theory.SortInt)
}

func Test_AddSortDedup(t *testing.T) {
	db := New(rng.New(1))
	s1 := newBoolSort(db)
	s2 := db.AddSort(&Sort{Kind: theory.SortBool}, theory.SortBool)
	assert.Equal(t, s1.ID, s2.ID)
	assert.Equal(t, s1, s2)
}

func Test_AddSortAnyResolvesToKind(t *testing.T) {
	db := New(rng.New(1))
	s := db.AddSort(&Sort{Kind: theory.SortAny}, theory.SortInt)
	assert.Equal(t, theory.SortInt, s.Kind)
}

func Test_IntAcceptsAsReal(t *testing.T) {
	db := New(rng.New(1))
	intSort := newIntSort(db)
	assert.True(t, intSort.AcceptsKind(theory.SortReal))
	assert.True(t, intSort.AcceptsKind(theory.SortInt))
}

func Test_AddTermMonotonicIDs(t *testing.T) {
	db := New(rng.New(1))
	boolSort := newBoolSort(db)
	t1 := db.AddInput(&Term{Sort: boolSort})
	t2 := db.AddInput(&Term{Sort: boolSort})
	assert.Less(t, t1.ID, t2.ID)
}

func Test_PickTermReachability(t *testing.T) {
	db := New(rng.New(2))
	boolSort := newBoolSort(db)
	outer := db.AddInput(&Term{Sort: boolSort})

	db.PushScope()
	inner := db.AddVar(&Term{Sort: boolSort})
	assert.True(t, outer.ReachableFrom(db.CurrentScope()))
	assert.True(t, inner.ReachableFrom(db.CurrentScope()))

	db.PopScope()
	_, err := db.PickTerm(boolSort)
	require.NoError(t, err)
	// inner var must be gone after pop; only outer remains reachable.
	reachable := db.reachableTerms(boolSort.ID)
	for _, term := range reachable {
		assert.NotEqual(t, inner.ID, term.ID)
	}
}

func Test_AddValueIndexesValueBucket(t *testing.T) {
	db := New(rng.New(3))
	intSort := newIntSort(db)
	v := db.AddValue(&Term{Sort: intSort})
	assert.True(t, v.IsValue)
	got, err := db.PickValue(intSort)
	require.NoError(t, err)
	assert.Equal(t, v.ID, got.ID)
}

func Test_ResetSatClearsAssumptionsOnly(t *testing.T) {
	db := New(rng.New(4))
	boolSort := newBoolSort(db)
	db.AddInput(&Term{Sort: boolSort})
	_, err := db.PickAssumption()
	require.NoError(t, err)
	db.MarkCheckSatCalled()

	db.PushScope()
	db.ResetSat()

	assert.Empty(t, db.Assumptions())
	assert.False(t, db.CheckSatCalled())
	assert.Equal(t, []uint32{1}, db.CurrentScope())
}

func Test_ResetClearsEverything(t *testing.T) {
	db := New(rng.New(5))
	boolSort := newBoolSort(db)
	db.AddInput(&Term{Sort: boolSort})
	db.Reset()
	assert.Equal(t, 0, db.NTerms())
}

func Test_PickOpReturnsUndefinedWhenEmpty(t *testing.T) {
	db := New(rng.New(6))
	reg := theory.NewRegistry()
	_, ok := db.PickOp(reg, []theory.ID{theory.Bool}, true)
	assert.False(t, ok)
}

func Test_UntracedRoundTrip(t *testing.T) {
	db := New(rng.New(7))
	boolSort := newBoolSort(db)
	db.RegisterUntracedSort("s1", boolSort)
	got, err := db.ResolveUntracedSort("s1")
	require.NoError(t, err)
	assert.Equal(t, boolSort, got)

	_, err = db.ResolveUntracedSort("s999")
	assert.Error(t, err)
}
