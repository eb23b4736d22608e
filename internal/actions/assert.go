package actions

import (
	"github.com/alex-ozdemir/murxla/internal/config"
	"github.com/alex-ozdemir/murxla/internal/fsm"
	"github.com/alex-ozdemir/murxla/internal/merr"
	"github.com/alex-ozdemir/murxla/internal/smgr"
	"github.com/alex-ozdemir/murxla/internal/solver"
	"github.com/alex-ozdemir/murxla/internal/theory"
	"github.com/alex-ozdemir/murxla/internal/trace"
)

// AssertFormula implements ASSERT_FORMULA: the ASSERT state's entry
// action, asserting a random Boolean term into the solver.
type AssertFormula struct{ Env *Env }

func (a *AssertFormula) Kind() string { return "assert-formula" }

func (a *AssertFormula) Precondition() bool {
	return a.Env.DB.HasTermOfKind(theory.SortBool)
}

func (a *AssertFormula) Run(ctx *fsm.Context) (trace.Line, error) {
	t, err := a.Env.DB.PickTermOfKind(theory.SortBool)
	if err != nil {
		return trace.Line{}, err
	}
	if err := a.Env.Adapter.AssertFormula(t.Handle); err != nil {
		a.Env.Stats.RecordAction(a.Kind(), false)
		return trace.Line{}, err
	}
	a.Env.Stats.RecordAction(a.Kind(), true)
	return trace.Line{Kind: a.Kind(), Args: []trace.Arg{trace.TermArg(t.ID)}}, nil
}

func (a *AssertFormula) Replay(ctx *fsm.Context, line trace.Line) error {
	if len(line.Args) != 1 {
		return merr.NewUntraceError(a.Kind(), "expected 1 argument")
	}
	t, err := a.Env.DB.ResolveUntracedTerm(trace.Render(line.Args[0]))
	if err != nil {
		return err
	}
	if t.Sort.Kind != theory.SortBool {
		return merr.NewUntraceError(a.Kind(), "argument term has sort %s, expected SORT_BOOL", t.Sort.Kind)
	}
	return a.Env.Adapter.AssertFormula(t.Handle)
}

// CheckSat implements CHECK_SAT: queries satisfiability of the current
// assertion set, then clears the assumption set and sets the check-sat
// latch that GET_VALUE/GET_UNSAT_* depend on (I5, OQ-2: the assumption
// set is cleared after every check-sat variant).
type CheckSat struct{ Env *Env }

func (a *CheckSat) Kind() string       { return "check-sat" }
func (a *CheckSat) Precondition() bool { return true }

func (a *CheckSat) Run(ctx *fsm.Context) (trace.Line, error) {
	res, err := a.Env.Adapter.CheckSat()
	if err != nil {
		a.Env.Stats.RecordAction(a.Kind(), false)
		return trace.Line{}, err
	}
	a.Env.DB.ResetSat()
	a.Env.DB.MarkCheckSatCalled()
	a.Env.Stats.RecordResult(res)
	a.Env.lastResult = res
	a.Env.Stats.RecordAction(a.Kind(), true)
	return trace.Line{Kind: a.Kind(), Args: []trace.Arg{trace.StringArg(string(res))}}, nil
}

func (a *CheckSat) Replay(ctx *fsm.Context, line trace.Line) error {
	res, err := a.Env.Adapter.CheckSat()
	if err != nil {
		return err
	}
	a.Env.DB.ResetSat()
	a.Env.DB.MarkCheckSatCalled()
	a.Env.Stats.RecordResult(res)
	a.Env.lastResult = res
	return nil
}

// CheckSatAssuming implements CHECK_SAT_ASSUMING: check-sat under a
// staged set of Boolean level-0 assumption terms (pick_assumption).
type CheckSatAssuming struct{ Env *Env }

func (a *CheckSatAssuming) Kind() string { return "check-sat-assuming" }

func (a *CheckSatAssuming) Precondition() bool {
	return a.Env.Adapter.IsIncremental() && a.Env.DB.HasTermOfKind(theory.SortBool)
}

func (a *CheckSatAssuming) Run(ctx *fsm.Context) (trace.Line, error) {
	n := ctx.G.UInt32Range(1, config.MaxAssumptionsCheckSat)
	assumed := make([]*smgr.Term, 0, n)
	for i := uint32(0); i < n; i++ {
		t, err := a.Env.DB.PickAssumption()
		if err != nil {
			break
		}
		assumed = append(assumed, t)
	}
	if len(assumed) == 0 {
		return trace.Line{}, merr.NewInternalError("check-sat-assuming: no Boolean level-0 term available")
	}

	res, err := a.Env.Adapter.CheckSatAssuming(toTermHandles(assumed))
	if err != nil {
		a.Env.Stats.RecordAction(a.Kind(), false)
		return trace.Line{}, err
	}
	a.Env.DB.ResetSat()
	a.Env.DB.MarkCheckSatCalled()
	a.Env.Stats.RecordResult(res)
	a.Env.lastResult = res
	a.Env.Stats.RecordAction(a.Kind(), true)

	termArgs := make([]trace.Arg, len(assumed))
	for i, t := range assumed {
		termArgs[i] = trace.TermArg(t.ID)
	}
	return trace.Line{
		Kind: a.Kind(),
		Args: []trace.Arg{trace.VectorArg(termArgs...), trace.StringArg(string(res))},
	}, nil
}

func (a *CheckSatAssuming) Replay(ctx *fsm.Context, line trace.Line) error {
	if len(line.Args) < 1 {
		return merr.NewUntraceError(a.Kind(), "missing assumption vector")
	}
	handles := make([]solver.Term, len(line.Args[0].Vector))
	for i, ta := range line.Args[0].Vector {
		t, err := a.Env.DB.ResolveUntracedTerm(trace.Render(ta))
		if err != nil {
			return err
		}
		handles[i] = t.Handle
	}
	res, err := a.Env.Adapter.CheckSatAssuming(handles)
	if err != nil {
		return err
	}
	a.Env.DB.ResetSat()
	a.Env.DB.MarkCheckSatCalled()
	a.Env.Stats.RecordResult(res)
	a.Env.lastResult = res
	return nil
}

// PushPop implements PUSH_POP: pushes or pops a random number of
// assertion-stack levels.
type PushPop struct{ Env *Env }

func (a *PushPop) Kind() string       { return "push-pop" }
func (a *PushPop) Precondition() bool { return true }

func (a *PushPop) Run(ctx *fsm.Context) (trace.Line, error) {
	levels := ctx.G.UInt32Range(1, config.MaxPushLevels)
	push := a.Env.pushDepth == 0 || ctx.G.Flip(60)

	var err error
	kindStr := "push"
	if push {
		err = a.Env.Adapter.Push(levels)
		a.Env.pushDepth += levels
	} else {
		if levels > a.Env.pushDepth {
			levels = a.Env.pushDepth
		}
		kindStr = "pop"
		err = a.Env.Adapter.Pop(levels)
		a.Env.pushDepth -= levels
	}
	if err != nil {
		a.Env.Stats.RecordAction(a.Kind(), false)
		return trace.Line{}, err
	}
	a.Env.Stats.RecordAction(a.Kind(), true)
	return trace.Line{Kind: a.Kind(), Args: []trace.Arg{trace.StringArg(kindStr), trace.IntArg(int64(levels))}}, nil
}

func (a *PushPop) Replay(ctx *fsm.Context, line trace.Line) error {
	if len(line.Args) != 2 {
		return merr.NewUntraceError(a.Kind(), "expected 2 arguments")
	}
	levels := uint32(line.Args[1].Int)
	if line.Args[0].Str == "push" {
		if err := a.Env.Adapter.Push(levels); err != nil {
			return err
		}
		a.Env.pushDepth += levels
		return nil
	}
	if err := a.Env.Adapter.Pop(levels); err != nil {
		return err
	}
	a.Env.pushDepth -= levels
	return nil
}
