package fsm

import (
	"testing"

	"github.com/alex-ozdemir/murxla/internal/rng"
	"github.com/alex-ozdemir/murxla/internal/trace"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAction struct {
	kind    string
	ok      bool
	runs    int
}

func (s *stubAction) Kind() string        { return s.kind }
func (s *stubAction) Precondition() bool  { return s.ok }
func (s *stubAction) Run(ctx *Context) (trace.Line, error) {
	s.runs++
	return trace.Line{Kind: s.kind}, nil
}
func (s *stubAction) Replay(ctx *Context, line trace.Line) error { return nil }

func Test_StepPicksEligibleEdge(t *testing.T) {
	f := New("A")
	f.AddState("A", false)
	f.AddState("B", true)
	blocked := &stubAction{kind: "blocked", ok: false}
	allowed := &stubAction{kind: "allowed", ok: true}
	require.NoError(t, f.AddEdge("A", blocked, "B", 100))
	require.NoError(t, f.AddEdge("A", allowed, "B", 1))

	g := rng.New(1)
	ctx := &Context{G: g, SeedState: func() string { return "" }}
	next, ran, err := Step(g, f.State("A"), ctx)
	require.NoError(t, err)
	assert.True(t, ran)
	assert.Equal(t, "B", next)
	assert.Equal(t, 1, allowed.runs)
	assert.Equal(t, 0, blocked.runs)
}

func Test_StepNoEligibleEdges(t *testing.T) {
	f := New("A")
	f.AddState("A", false)
	f.AddState("B", true)
	blocked := &stubAction{kind: "blocked", ok: false}
	require.NoError(t, f.AddEdge("A", blocked, "B", 100))

	g := rng.New(1)
	ctx := &Context{G: g, SeedState: func() string { return "" }}
	_, ran, err := Step(g, f.State("A"), ctx)
	require.NoError(t, err)
	assert.False(t, ran)
}

func Test_WalkStopsAtFinalState(t *testing.T) {
	f := New("A")
	f.AddState("A", false)
	f.AddState("B", true)
	allowed := &stubAction{kind: "allowed", ok: true}
	require.NoError(t, f.AddEdge("A", allowed, "B", 1))

	g := rng.New(1)
	ctx := &Context{G: g, SeedState: func() string { return "" }}
	require.NoError(t, Walk(f, g, ctx, 10))
	assert.Equal(t, 1, allowed.runs)
}
