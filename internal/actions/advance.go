package actions

import (
	"github.com/alex-ozdemir/murxla/internal/fsm"
	"github.com/alex-ozdemir/murxla/internal/trace"
)

// Advance is a pseudo-action: a weighted edge that moves the machine
// forward a phase without itself calling the back-end or recording a
// trace line (spec.md §4.5's state graph has phase-advancing edges with
// no associated API call — e.g. leaving CREATE_SORTS for CREATE_INPUTS
// once enough sorts exist). Its Kind is deliberately "" so fsm.Step
// never writes a line for it.
type Advance struct{ Cond func() bool }

func (a *Advance) Kind() string { return "" }

func (a *Advance) Precondition() bool {
	if a.Cond == nil {
		return true
	}
	return a.Cond()
}

func (a *Advance) Run(ctx *fsm.Context) (trace.Line, error) { return trace.Line{}, nil }

func (a *Advance) Replay(ctx *fsm.Context, line trace.Line) error { return nil }
