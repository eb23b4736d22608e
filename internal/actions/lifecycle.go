package actions

import (
	"github.com/alex-ozdemir/murxla/internal/fsm"
	"github.com/alex-ozdemir/murxla/internal/merr"
	"github.com/alex-ozdemir/murxla/internal/trace"
)

// NewSolver implements the NEW_SOLVER action: the FSM's NEW->OPT edge.
// The back-end is already constructed by internal/run before the walk
// starts (Go has no default-constructible interface value), so this
// action's job is purely to mark the transcript's first real action.
type NewSolver struct{ Env *Env }

func (a *NewSolver) Kind() string       { return "new-solver" }
func (a *NewSolver) Precondition() bool { return true }

func (a *NewSolver) Run(ctx *fsm.Context) (trace.Line, error) {
	a.Env.Stats.RecordAction(a.Kind(), true)
	return trace.Line{Kind: a.Kind()}, nil
}

func (a *NewSolver) Replay(ctx *fsm.Context, line trace.Line) error { return nil }

// SetOpt implements SET_OPT: fuzzes one solver option via
// solver.OptionFuzzer, the OPT state's weighted self-loop. It is offered
// only when config.Options.FuzzOptions is set and the back-end reports
// at least one option; the option is picked among all reported options
// (FuzzOptsWildcards is not applied).
type SetOpt struct{ Env *Env }

func (a *SetOpt) Kind() string { return "set-opt" }
func (a *SetOpt) Precondition() bool {
	return a.Env.Options.FuzzOptions && len(a.Env.Adapter.Options()) > 0
}

func (a *SetOpt) Run(ctx *fsm.Context) (trace.Line, error) {
	opt, ok := a.Env.OptFuzz.PickOption(a.Env.Adapter)
	if !ok {
		return trace.Line{}, merr.NewInternalError("set-opt: no option available")
	}
	value := a.Env.OptFuzz.PickValue(opt)
	if err := a.Env.Adapter.SetOpt(opt.Name, value); err != nil {
		a.Env.Stats.RecordAction(a.Kind(), false)
		return trace.Line{}, err
	}
	a.Env.Stats.RecordAction(a.Kind(), true)
	return trace.Line{Kind: a.Kind(), Args: []trace.Arg{trace.StringArg(opt.Name), trace.StringArg(value)}}, nil
}

func (a *SetOpt) Replay(ctx *fsm.Context, line trace.Line) error {
	if len(line.Args) != 2 {
		return merr.NewUntraceError(a.Kind(), "expected 2 arguments, got %d", len(line.Args))
	}
	return a.Env.Adapter.SetOpt(line.Args[0].Str, line.Args[1].Str)
}

// ResetSolver implements RESET: clears every SMGR index and the
// back-end's internal state (P5).
type ResetSolver struct{ Env *Env }

func (a *ResetSolver) Kind() string       { return "reset" }
func (a *ResetSolver) Precondition() bool { return true }

func (a *ResetSolver) Run(ctx *fsm.Context) (trace.Line, error) {
	if err := a.Env.Adapter.Reset(); err != nil {
		a.Env.Stats.RecordAction(a.Kind(), false)
		return trace.Line{}, err
	}
	a.Env.DB.Reset()
	a.Env.pushDepth = 0
	a.Env.Stats.RecordAction(a.Kind(), true)
	return trace.Line{Kind: a.Kind()}, nil
}

func (a *ResetSolver) Replay(ctx *fsm.Context, line trace.Line) error {
	if err := a.Env.Adapter.Reset(); err != nil {
		return err
	}
	a.Env.DB.Reset()
	a.Env.pushDepth = 0
	return nil
}

// ResetAssertions implements RESET_ASSERTIONS: clears assumptions, the
// check-sat latch, and the push-level counter, leaving sorts/terms intact.
type ResetAssertions struct{ Env *Env }

func (a *ResetAssertions) Kind() string       { return "reset-assertions" }
func (a *ResetAssertions) Precondition() bool { return true }

func (a *ResetAssertions) Run(ctx *fsm.Context) (trace.Line, error) {
	if err := a.Env.Adapter.ResetAssertions(); err != nil {
		a.Env.Stats.RecordAction(a.Kind(), false)
		return trace.Line{}, err
	}
	a.Env.DB.ResetAssertions()
	a.Env.pushDepth = 0
	a.Env.Stats.RecordAction(a.Kind(), true)
	return trace.Line{Kind: a.Kind()}, nil
}

func (a *ResetAssertions) Replay(ctx *fsm.Context, line trace.Line) error {
	if err := a.Env.Adapter.ResetAssertions(); err != nil {
		return err
	}
	a.Env.DB.ResetAssertions()
	a.Env.pushDepth = 0
	return nil
}

// DeleteSolver implements DELETE, the FSM's final state: teardown and
// flush (the actual flush happens as Recorder.WriteLine's bufio.Flush).
type DeleteSolver struct{ Env *Env }

func (a *DeleteSolver) Kind() string       { return "delete-solver" }
func (a *DeleteSolver) Precondition() bool { return true }

func (a *DeleteSolver) Run(ctx *fsm.Context) (trace.Line, error) {
	if err := a.Env.Adapter.Close(); err != nil {
		a.Env.Stats.RecordAction(a.Kind(), false)
		return trace.Line{}, err
	}
	a.Env.Stats.RecordAction(a.Kind(), true)
	return trace.Line{Kind: a.Kind()}, nil
}

func (a *DeleteSolver) Replay(ctx *fsm.Context, line trace.Line) error {
	return a.Env.Adapter.Close()
}
