package actions

import (
	"github.com/alex-ozdemir/murxla/internal/fsm"
	"github.com/alex-ozdemir/murxla/internal/merr"
	"github.com/alex-ozdemir/murxla/internal/opmodel"
	"github.com/alex-ozdemir/murxla/internal/rng"
	"github.com/alex-ozdemir/murxla/internal/smgr"
	"github.com/alex-ozdemir/murxla/internal/solver"
	"github.com/alex-ozdemir/murxla/internal/theory"
	"github.com/alex-ozdemir/murxla/internal/trace"
)

func (e *Env) anySort() (*smgr.Sort, error) {
	return e.DB.PickSort(theory.SortAny, false)
}

// MkConst implements MK_CONST: declares a free constant of a random
// already-registered sort (CREATE_INPUTS state).
type MkConst struct{ Env *Env }

func (a *MkConst) Kind() string       { return "mk-const" }
func (a *MkConst) Precondition() bool { return a.Env.DB.HasAnySort() }

func (a *MkConst) Run(ctx *fsm.Context) (trace.Line, error) {
	sort, err := a.Env.anySort()
	if err != nil {
		return trace.Line{}, err
	}
	symbol := symbolFor(ctx.G, a.Env.Options.SimpleSymbols)
	handle, err := a.Env.Adapter.MkConst(sort.Handle, symbol)
	if err != nil {
		a.Env.Stats.RecordAction(a.Kind(), false)
		return trace.Line{}, err
	}
	t := a.Env.DB.AddInput(&smgr.Term{Sort: sort, Handle: handle})
	a.Env.Stats.RecordAction(a.Kind(), true)
	return trace.Line{
		Kind:    a.Kind(),
		Args:    []trace.Arg{trace.SortArg(sort.ID), trace.StringArg(symbol)},
		Returns: []trace.Arg{trace.TermArg(t.ID)},
	}, nil
}

func (a *MkConst) Replay(ctx *fsm.Context, line trace.Line) error {
	if len(line.Args) != 2 || len(line.Returns) != 1 {
		return merr.NewUntraceError(a.Kind(), "malformed mk-const line")
	}
	sort, err := a.Env.DB.ResolveUntracedSort(trace.Render(line.Args[0]))
	if err != nil {
		return err
	}
	handle, err := a.Env.Adapter.MkConst(sort.Handle, line.Args[1].Str)
	if err != nil {
		return err
	}
	t := a.Env.DB.AddInput(&smgr.Term{Sort: sort, Handle: handle})
	a.Env.DB.RegisterUntracedTerm(trace.Render(line.Returns[0]), t)
	return nil
}

func symbolFor(g *rng.Generator, simple bool) string {
	if simple {
		return g.SimpleSymbol("x")
	}
	return g.PipedSymbol("x")
}

// MkVar implements MK_VAR: declares a bound-style variable outside
// quantifier construction (used as a plain input the way the source
// permits top-level var declarations for some back-ends).
type MkVar struct{ Env *Env }

func (a *MkVar) Kind() string       { return "mk-var" }
func (a *MkVar) Precondition() bool { return a.Env.DB.HasAnySort() }

func (a *MkVar) Run(ctx *fsm.Context) (trace.Line, error) {
	sort, err := a.Env.anySort()
	if err != nil {
		return trace.Line{}, err
	}
	symbol := symbolFor(ctx.G, a.Env.Options.SimpleSymbols)
	handle, err := a.Env.Adapter.MkVar(sort.Handle, symbol)
	if err != nil {
		a.Env.Stats.RecordAction(a.Kind(), false)
		return trace.Line{}, err
	}
	t := a.Env.DB.AddVar(&smgr.Term{Sort: sort, Handle: handle})
	a.Env.Stats.RecordAction(a.Kind(), true)
	return trace.Line{
		Kind:    a.Kind(),
		Args:    []trace.Arg{trace.SortArg(sort.ID), trace.StringArg(symbol)},
		Returns: []trace.Arg{trace.TermArg(t.ID)},
	}, nil
}

func (a *MkVar) Replay(ctx *fsm.Context, line trace.Line) error {
	if len(line.Args) != 2 || len(line.Returns) != 1 {
		return merr.NewUntraceError(a.Kind(), "malformed mk-var line")
	}
	sort, err := a.Env.DB.ResolveUntracedSort(trace.Render(line.Args[0]))
	if err != nil {
		return err
	}
	handle, err := a.Env.Adapter.MkVar(sort.Handle, line.Args[1].Str)
	if err != nil {
		return err
	}
	t := a.Env.DB.AddVar(&smgr.Term{Sort: sort, Handle: handle})
	a.Env.DB.RegisterUntracedTerm(trace.Render(line.Returns[0]), t)
	return nil
}

// MkValue implements MK_VALUE: constructs a literal value of a random
// already-registered sort.
type MkValue struct{ Env *Env }

func (a *MkValue) Kind() string       { return "mk-value" }
func (a *MkValue) Precondition() bool { return a.Env.DB.HasAnySort() }

func (a *MkValue) Run(ctx *fsm.Context) (trace.Line, error) {
	sort, err := a.Env.anySort()
	if err != nil {
		return trace.Line{}, err
	}
	lit := literalFor(ctx.G, sort)
	handle, err := a.Env.Adapter.MkValue(sort.Handle, lit)
	if err != nil {
		a.Env.Stats.RecordAction(a.Kind(), false)
		return trace.Line{}, err
	}
	t := a.Env.DB.AddValue(&smgr.Term{Sort: sort, Handle: handle})
	if sort.Kind == theory.SortString && len(lit) == 1 {
		a.Env.DB.AddStringChar(t)
	}
	a.Env.Stats.RecordAction(a.Kind(), true)
	return trace.Line{
		Kind:    a.Kind(),
		Args:    []trace.Arg{trace.SortArg(sort.ID), trace.StringArg(lit)},
		Returns: []trace.Arg{trace.TermArg(t.ID)},
	}, nil
}

func (a *MkValue) Replay(ctx *fsm.Context, line trace.Line) error {
	if len(line.Args) != 2 || len(line.Returns) != 1 {
		return merr.NewUntraceError(a.Kind(), "malformed mk-value line")
	}
	sort, err := a.Env.DB.ResolveUntracedSort(trace.Render(line.Args[0]))
	if err != nil {
		return err
	}
	handle, err := a.Env.Adapter.MkValue(sort.Handle, line.Args[1].Str)
	if err != nil {
		return err
	}
	t := a.Env.DB.AddValue(&smgr.Term{Sort: sort, Handle: handle})
	a.Env.DB.RegisterUntracedTerm(trace.Render(line.Returns[0]), t)
	return nil
}

// literalFor renders an SMT-LIB-ish literal for sort, the way the
// back-end's echo printer expects to receive MkValue's value string.
func literalFor(g *rng.Generator, sort *smgr.Sort) string {
	switch sort.Kind {
	case theory.SortBool:
		if g.Flip(50) {
			return "true"
		}
		return "false"
	case theory.SortInt:
		return g.BitString(8 + g.Uint32(16))
	case theory.SortReal:
		return g.BitString(8) + ".0"
	case theory.SortBV:
		return g.BitString(sort.BVSize)
	case theory.SortString:
		return g.SimpleSymbol("")
	default:
		return g.SimpleSymbol("v")
	}
}

// MkSpecialValue implements MK_SPECIAL_VALUE: named special constants
// (e.g. bit-vector zero/ones, floating-point NaN/infinities) a back-end
// recognizes by name rather than by literal encoding.
type MkSpecialValue struct{ Env *Env }

func (a *MkSpecialValue) Kind() string       { return "mk-special-value" }
func (a *MkSpecialValue) Precondition() bool { return a.Env.DB.HasAnySort() }

var specialValueNames = []string{"zero", "one", "ones", "min", "max", "nan", "inf", "-inf"}

func (a *MkSpecialValue) Run(ctx *fsm.Context) (trace.Line, error) {
	sort, err := a.Env.anySort()
	if err != nil {
		return trace.Line{}, err
	}
	name, _ := rng.PickFromSlice(ctx.G, specialValueNames)
	handle, err := a.Env.Adapter.MkSpecialValue(sort.Handle, name)
	if err != nil {
		a.Env.Stats.RecordAction(a.Kind(), false)
		return trace.Line{}, err
	}
	t := a.Env.DB.AddValue(&smgr.Term{Sort: sort, Handle: handle})
	a.Env.Stats.RecordAction(a.Kind(), true)
	return trace.Line{
		Kind:    a.Kind(),
		Args:    []trace.Arg{trace.SortArg(sort.ID), trace.StringArg(name)},
		Returns: []trace.Arg{trace.TermArg(t.ID)},
	}, nil
}

func (a *MkSpecialValue) Replay(ctx *fsm.Context, line trace.Line) error {
	if len(line.Args) != 2 || len(line.Returns) != 1 {
		return merr.NewUntraceError(a.Kind(), "malformed mk-special-value line")
	}
	sort, err := a.Env.DB.ResolveUntracedSort(trace.Render(line.Args[0]))
	if err != nil {
		return err
	}
	handle, err := a.Env.Adapter.MkSpecialValue(sort.Handle, line.Args[1].Str)
	if err != nil {
		return err
	}
	t := a.Env.DB.AddValue(&smgr.Term{Sort: sort, Handle: handle})
	a.Env.DB.RegisterUntracedTerm(trace.Render(line.Returns[0]), t)
	return nil
}

// MkTerm implements MK_TERM: the CREATE_TERMS state's weighted self-loop,
// driving internal/opmodel's argument-selection algorithm.
type MkTerm struct{ Env *Env }

func (a *MkTerm) Kind() string { return "mk-term" }

func (a *MkTerm) Precondition() bool {
	return a.Env.DB.HasSatisfiableOp(a.Env.Registry, a.Env.Enabled)
}

func (a *MkTerm) Run(ctx *fsm.Context) (trace.Line, error) {
	op, ok := a.Env.DB.PickOp(a.Env.Registry, a.Env.Enabled, true)
	if !ok {
		a.Env.Stats.RecordOp(theory.UndefinedOp, false)
		return trace.Line{Kind: a.Kind(), Args: []trace.Arg{trace.StringArg(string(theory.UndefinedOp))}}, nil
	}
	if op.Kind == "OP_FORALL" || op.Kind == "OP_EXISTS" {
		return a.runQuantifier(ctx, op)
	}
	plan, err := opmodel.Resolve(a.Env.DB, ctx.G, op)
	if err != nil {
		a.Env.Stats.RecordOp(op.Kind, false)
		return trace.Line{}, err
	}

	handle, err := a.Env.Adapter.MkTerm(op.Kind, plan.ResultSort.Handle, toTermHandles(plan.Args), plan.Indices)
	if err != nil {
		a.Env.Stats.RecordOp(op.Kind, false)
		return trace.Line{}, err
	}
	t := a.Env.DB.AddTerm(&smgr.Term{Sort: plan.ResultSort, Handle: handle})
	a.Env.Stats.RecordOp(op.Kind, true)

	traceArgs := []trace.Arg{trace.StringArg(string(op.Kind)), trace.SortArg(plan.ResultSort.ID)}
	termArgs := make([]trace.Arg, len(plan.Args))
	for i, at := range plan.Args {
		termArgs[i] = trace.TermArg(at.ID)
	}
	traceArgs = append(traceArgs, trace.VectorArg(termArgs...))
	if len(plan.Indices) > 0 {
		idxArgs := make([]trace.Arg, len(plan.Indices))
		for i, ix := range plan.Indices {
			idxArgs[i] = trace.IntArg(int64(ix))
		}
		traceArgs = append(traceArgs, trace.VectorArg(idxArgs...))
	}

	return trace.Line{Kind: a.Kind(), Args: traceArgs, Returns: []trace.Arg{trace.TermArg(t.ID)}}, nil
}

// runQuantifier implements OP_FORALL/OP_EXISTS's construction (spec.md
// §4.4's four-step recipe, via opmodel.BuildQuantifier): the fresh bound
// variables it creates are recorded as ordinary mk-var lines as they're
// made, then the quantifier application itself is recorded as this
// action's own mk-term line, referencing those (now scoped-out) variable
// ids and the chosen body.
func (a *MkTerm) runQuantifier(ctx *fsm.Context, op theory.Op) (trace.Line, error) {
	pickSortKind := func() (theory.SortKind, bool) {
		return a.Env.DB.PickSortKind(false)
	}
	mkVar := func(sort *smgr.Sort) (*smgr.Term, error) {
		symbol := symbolFor(ctx.G, a.Env.Options.SimpleSymbols)
		handle, err := a.Env.Adapter.MkVar(sort.Handle, symbol)
		if err != nil {
			return nil, err
		}
		t := a.Env.DB.AddVar(&smgr.Term{Sort: sort, Handle: handle})
		if ctx.Recorder != nil {
			line := trace.Line{
				Kind:    "mk-var",
				Args:    []trace.Arg{trace.SortArg(sort.ID), trace.StringArg(symbol)},
				Returns: []trace.Arg{trace.TermArg(t.ID)},
			}
			if err := ctx.Recorder.WriteLine(line, ctx.SeedState()); err != nil {
				return nil, err
			}
		}
		return t, nil
	}

	plan, err := opmodel.BuildQuantifier(a.Env.DB, ctx.G, pickSortKind, mkVar)
	if err != nil {
		a.Env.Stats.RecordOp(op.Kind, false)
		return trace.Line{}, err
	}

	handles := make([]solver.Term, 0, len(plan.Vars)+1)
	varArgs := make([]trace.Arg, len(plan.Vars))
	for i, v := range plan.Vars {
		varArgs[i] = trace.TermArg(v.ID)
		handles = append(handles, v.Handle)
	}
	handles = append(handles, plan.Body.Handle)

	resultSort, err := a.Env.DB.PickSort(theory.SortBool, false)
	if err != nil {
		a.Env.Stats.RecordOp(op.Kind, false)
		return trace.Line{}, err
	}

	handle, err := a.Env.Adapter.MkTerm(op.Kind, resultSort.Handle, handles, nil)
	if err != nil {
		a.Env.Stats.RecordOp(op.Kind, false)
		return trace.Line{}, err
	}
	t := a.Env.DB.AddTerm(&smgr.Term{Sort: resultSort, Handle: handle})
	a.Env.Stats.RecordOp(op.Kind, true)

	return trace.Line{
		Kind: a.Kind(),
		Args: []trace.Arg{
			trace.StringArg(string(op.Kind)),
			trace.SortArg(resultSort.ID),
			trace.VectorArg(varArgs...),
			trace.TermArg(plan.Body.ID),
		},
		Returns: []trace.Arg{trace.TermArg(t.ID)},
	}, nil
}

func toTermHandles(terms []*smgr.Term) []solver.Term {
	out := make([]solver.Term, len(terms))
	for i, t := range terms {
		out[i] = t.Handle
	}
	return out
}

func (a *MkTerm) Replay(ctx *fsm.Context, line trace.Line) error {
	if len(line.Args) < 3 || len(line.Returns) != 1 {
		return merr.NewUntraceError(a.Kind(), "malformed mk-term line")
	}
	opKind := theory.Kind(line.Args[0].Str)
	resultSort, err := a.Env.DB.ResolveUntracedSort(trace.Render(line.Args[1]))
	if err != nil {
		return err
	}
	vecArg := line.Args[2]
	handles := make([]solver.Term, len(vecArg.Vector))
	for i, ta := range vecArg.Vector {
		t, err := a.Env.DB.ResolveUntracedTerm(trace.Render(ta))
		if err != nil {
			return err
		}
		handles[i] = t.Handle
	}

	if opKind == "OP_FORALL" || opKind == "OP_EXISTS" {
		if len(line.Args) != 4 {
			return merr.NewUntraceError(a.Kind(), "malformed quantifier mk-term line")
		}
		body, err := a.Env.DB.ResolveUntracedTerm(trace.Render(line.Args[3]))
		if err != nil {
			return err
		}
		handles = append(handles, body.Handle)
		handle, err := a.Env.Adapter.MkTerm(opKind, resultSort.Handle, handles, nil)
		if err != nil {
			return err
		}
		t := a.Env.DB.AddTerm(&smgr.Term{Sort: resultSort, Handle: handle})
		a.Env.DB.RegisterUntracedTerm(trace.Render(line.Returns[0]), t)
		return nil
	}

	var indices []uint32
	if len(line.Args) > 3 {
		for _, ia := range line.Args[3].Vector {
			indices = append(indices, uint32(ia.Int))
		}
	}

	handle, err := a.Env.Adapter.MkTerm(opKind, resultSort.Handle, handles, indices)
	if err != nil {
		return err
	}
	t := a.Env.DB.AddTerm(&smgr.Term{Sort: resultSort, Handle: handle})
	a.Env.DB.RegisterUntracedTerm(trace.Render(line.Returns[0]), t)
	return nil
}
