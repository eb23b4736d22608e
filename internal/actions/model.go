package actions

import (
	"github.com/alex-ozdemir/murxla/internal/config"
	"github.com/alex-ozdemir/murxla/internal/fsm"
	"github.com/alex-ozdemir/murxla/internal/merr"
	"github.com/alex-ozdemir/murxla/internal/smgr"
	"github.com/alex-ozdemir/murxla/internal/solver"
	"github.com/alex-ozdemir/murxla/internal/trace"
)

// satResultIs reports whether the most recently recorded check-sat
// outcome (on this Env) is res. GET_VALUE/GET_UNSAT_* are only legal
// immediately after a matching check-sat outcome, before anything
// resets the assertion set or the solver.
func satResultIs(e *Env, res solver.CheckSatResult) bool {
	return e.DB.CheckSatCalled() && e.lastResult == res
}

// GetValue implements GET_VALUE: queries the model for a random subset
// of existing terms and registers the returned value terms (I1: fresh
// monotonic ids, even though they denote values that already existed
// conceptually in the model).
type GetValue struct{ Env *Env }

func (a *GetValue) Kind() string { return "get-value" }

func (a *GetValue) Precondition() bool {
	return satResultIs(a.Env, solver.Sat) && a.Env.DB.NTerms() > 0
}

func (a *GetValue) Run(ctx *fsm.Context) (trace.Line, error) {
	n := ctx.G.UInt32Range(1, config.MaxTermsGetValue)
	picked := make([]*smgr.Term, 0, n)
	seen := make(map[*smgr.Term]bool, n)
	for i := uint32(0); i < n; i++ {
		t, err := a.Env.DB.PickTermAny()
		if err != nil {
			break
		}
		if seen[t] {
			continue
		}
		seen[t] = true
		picked = append(picked, t)
	}
	if len(picked) == 0 {
		return trace.Line{}, merr.NewInternalError("get-value: no term available")
	}

	values, err := a.Env.Adapter.GetValue(toTermHandles(picked))
	if err != nil {
		a.Env.Stats.RecordAction(a.Kind(), false)
		return trace.Line{}, err
	}
	if len(values) != len(picked) {
		return trace.Line{}, merr.NewSolverError("get-value returned %d values for %d terms", len(values), len(picked))
	}

	args := make([]trace.Arg, len(picked))
	returns := make([]trace.Arg, len(picked))
	for i, t := range picked {
		args[i] = trace.TermArg(t.ID)
		v := a.Env.DB.AddValue(&smgr.Term{Sort: t.Sort, Handle: values[i]})
		returns[i] = trace.TermArg(v.ID)
	}
	a.Env.Stats.RecordAction(a.Kind(), true)
	return trace.Line{Kind: a.Kind(), Args: []trace.Arg{trace.VectorArg(args...)}, Returns: returns}, nil
}

func (a *GetValue) Replay(ctx *fsm.Context, line trace.Line) error {
	if len(line.Args) != 1 {
		return merr.NewUntraceError(a.Kind(), "missing term vector")
	}
	terms := make([]*smgr.Term, len(line.Args[0].Vector))
	for i, ta := range line.Args[0].Vector {
		t, err := a.Env.DB.ResolveUntracedTerm(trace.Render(ta))
		if err != nil {
			return err
		}
		terms[i] = t
	}
	values, err := a.Env.Adapter.GetValue(toTermHandles(terms))
	if err != nil {
		return err
	}
	if len(values) != len(terms) || len(line.Returns) != len(terms) {
		return merr.NewUntraceError(a.Kind(), "return-count mismatch")
	}
	for i, t := range terms {
		v := a.Env.DB.AddValue(&smgr.Term{Sort: t.Sort, Handle: values[i]})
		a.Env.DB.RegisterUntracedTerm(trace.Render(line.Returns[i]), v)
	}
	return nil
}

// GetUnsatCore implements GET_UNSAT_CORE: queries the subset of asserted
// formulas sufficient for unsatisfiability. The trace line records only
// the number of core formulas returned; the core terms are neither
// rendered nor registered.
type GetUnsatCore struct{ Env *Env }

func (a *GetUnsatCore) Kind() string { return "get-unsat-core" }
func (a *GetUnsatCore) Precondition() bool {
	return a.Env.Adapter.UnsatCoresEnabled() && satResultIs(a.Env, solver.Unsat)
}

func (a *GetUnsatCore) Run(ctx *fsm.Context) (trace.Line, error) {
	core, err := a.Env.Adapter.GetUnsatCore()
	if err != nil {
		a.Env.Stats.RecordAction(a.Kind(), false)
		return trace.Line{}, err
	}
	a.Env.Stats.RecordAction(a.Kind(), true)
	return trace.Line{Kind: a.Kind(), Args: []trace.Arg{trace.IntArg(int64(len(core)))}}, nil
}

func (a *GetUnsatCore) Replay(ctx *fsm.Context, line trace.Line) error {
	_, err := a.Env.Adapter.GetUnsatCore()
	return err
}

// GetUnsatAssumptions implements GET_UNSAT_ASSUMPTIONS: the assumption
// analogue of GET_UNSAT_CORE. It is offered after any unsat check-sat,
// plain CHECK_SAT as well as CHECK_SAT_ASSUMING, whenever the back-end
// has unsat assumptions enabled.
type GetUnsatAssumptions struct{ Env *Env }

func (a *GetUnsatAssumptions) Kind() string { return "get-unsat-assumptions" }
func (a *GetUnsatAssumptions) Precondition() bool {
	return a.Env.Adapter.UnsatAssumptionsEnabled() && satResultIs(a.Env, solver.Unsat)
}

func (a *GetUnsatAssumptions) Run(ctx *fsm.Context) (trace.Line, error) {
	core, err := a.Env.Adapter.GetUnsatAssumptions()
	if err != nil {
		a.Env.Stats.RecordAction(a.Kind(), false)
		return trace.Line{}, err
	}
	a.Env.Stats.RecordAction(a.Kind(), true)
	return trace.Line{Kind: a.Kind(), Args: []trace.Arg{trace.IntArg(int64(len(core)))}}, nil
}

func (a *GetUnsatAssumptions) Replay(ctx *fsm.Context, line trace.Line) error {
	_, err := a.Env.Adapter.GetUnsatAssumptions()
	return err
}

// PrintModel implements PRINT_MODEL: dumps the back-end's current model
// as text. The output itself isn't replayed into the database; it only
// exercises the back-end's printer.
type PrintModel struct{ Env *Env }

func (a *PrintModel) Kind() string       { return "print-model" }
func (a *PrintModel) Precondition() bool { return satResultIs(a.Env, solver.Sat) }

func (a *PrintModel) Run(ctx *fsm.Context) (trace.Line, error) {
	if _, err := a.Env.Adapter.PrintModel(); err != nil {
		a.Env.Stats.RecordAction(a.Kind(), false)
		return trace.Line{}, err
	}
	a.Env.Stats.RecordAction(a.Kind(), true)
	return trace.Line{Kind: a.Kind()}, nil
}

func (a *PrintModel) Replay(ctx *fsm.Context, line trace.Line) error {
	_, err := a.Env.Adapter.PrintModel()
	return err
}
