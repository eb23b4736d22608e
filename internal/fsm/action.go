// Package fsm is the weighted finite-state machine that drives test
// generation: a directed graph of named states, each with a weighted
// list of (action, next-state) edges and an optional precondition. Each
// state's edges are held in a table keyed by state name, walked one step
// at a time with no preemption.
package fsm

import (
	"github.com/alex-ozdemir/murxla/internal/rng"
	"github.com/alex-ozdemir/murxla/internal/trace"
)

// Context is everything one Action.Run call needs: the random source for
// any sampling decisions it makes internally, and a Recorder to append
// its trace line to once it completes (nil in untrace/replay mode, where
// the line already exists on disk).
type Context struct {
	G        *rng.Generator
	Recorder *trace.Recorder
	SeedState func() string
}

// Action is one atomic, replayable unit of generator work (spec.md §3's
// "Action" row): a kind, a Run method invoked during generation, and a
// Replay method invoked against a parsed trace.Line during untrace.
type Action interface {
	// Kind is the stable string id this action records/replays under.
	Kind() string

	// Precondition reports whether this action currently has a legal
	// continuation; the FSM gives zero weight to edges whose precondition
	// fails (spec.md §4.5).
	Precondition() bool

	// Run samples whatever the action needs, executes it against the
	// solver adapter and SMGR, and returns the rendered trace.Line to
	// record (with Returns populated for any freshly created sort/term).
	Run(ctx *Context) (trace.Line, error)

	// Replay executes the same back-end calls using the pre-resolved
	// arguments already carried by line (via the untraced-id lookup
	// tables), registering any ids it creates against line.Returns.
	Replay(ctx *Context, line trace.Line) error
}
