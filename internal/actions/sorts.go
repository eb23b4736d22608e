package actions

import (
	"github.com/alex-ozdemir/murxla/internal/config"
	"github.com/alex-ozdemir/murxla/internal/fsm"
	"github.com/alex-ozdemir/murxla/internal/merr"
	"github.com/alex-ozdemir/murxla/internal/rng"
	"github.com/alex-ozdemir/murxla/internal/smgr"
	"github.com/alex-ozdemir/murxla/internal/solver"
	"github.com/alex-ozdemir/murxla/internal/theory"
	"github.com/alex-ozdemir/murxla/internal/trace"
)

// MkSort implements MK_SORT: the CREATE_SORTS state's weighted self-loop.
type MkSort struct{ Env *Env }

func (a *MkSort) Kind() string       { return "mk-sort" }
func (a *MkSort) Precondition() bool { return len(a.Env.sortKindsAvailable()) > 0 }

// elementSortFor picks (or, if none exist, fabricates) a sub-sort for a
// compound kind like ARRAY/SET/SEQ.
func (a *MkSort) elementSortFor(g *rng.Generator) (*smgr.Sort, error) {
	if s, err := a.Env.DB.PickSort(theory.SortAny, false); err == nil {
		return s, nil
	}
	return a.buildPrimitive(theory.SortBool)
}

func (a *MkSort) buildPrimitive(kind theory.SortKind) (*smgr.Sort, error) {
	handle, err := a.Env.Adapter.MkSort(kind, solver.SortParams{})
	if err != nil {
		return nil, err
	}
	return a.Env.DB.AddSort(&smgr.Sort{Kind: kind, Handle: handle}, kind), nil
}

func (a *MkSort) Run(ctx *fsm.Context) (trace.Line, error) {
	kinds := a.Env.sortKindsAvailable()
	kind, ok := rng.PickFromSlice(ctx.G, kinds)
	if !ok {
		return trace.Line{}, merr.NewInternalError("mk-sort: no sort kind available")
	}

	args := []trace.Arg{trace.StringArg(string(kind))}
	params := solver.SortParams{}
	s := &smgr.Sort{Kind: kind}

	switch kind {
	case theory.SortBV:
		width := ctx.G.UInt32Range(config.BVWidthMin, config.BVWidthMax)
		params.BVSize = width
		s.BVSize = width
		args = append(args, trace.IntArg(int64(width)))
	case theory.SortFP:
		exp := ctx.G.UInt32Range(2, 16)
		sig := ctx.G.UInt32Range(2, 16)
		params.FPExpSize, params.FPSigSize = exp, sig
		s.FPExpSize, s.FPSigSize = exp, sig
		args = append(args, trace.IntArg(int64(exp)), trace.IntArg(int64(sig)))
	case theory.SortArray:
		idx, err := a.elementSortFor(ctx.G)
		if err != nil {
			return trace.Line{}, err
		}
		elem, err := a.elementSortFor(ctx.G)
		if err != nil {
			return trace.Line{}, err
		}
		params.ArrayIndex, params.ArrayElem = idx.Handle, elem.Handle
		s.ArrayIndex, s.ArrayElem = idx, elem
		args = append(args, trace.SortArg(idx.ID), trace.SortArg(elem.ID))
	case theory.SortSet, theory.SortSeq, theory.SortBag:
		elem, err := a.elementSortFor(ctx.G)
		if err != nil {
			return trace.Line{}, err
		}
		params.ArrayElem = elem.Handle
		s.ArrayElem = elem
		args = append(args, trace.SortArg(elem.ID))
	}

	handle, err := a.Env.Adapter.MkSort(kind, params)
	if err != nil {
		a.Env.Stats.RecordAction(a.Kind(), false)
		return trace.Line{}, err
	}
	s.Handle = handle
	canonical := a.Env.DB.AddSort(s, kind)
	a.Env.Stats.RecordAction(a.Kind(), true)
	return trace.Line{Kind: a.Kind(), Args: args, Returns: []trace.Arg{trace.SortArg(canonical.ID)}}, nil
}

func (a *MkSort) Replay(ctx *fsm.Context, line trace.Line) error {
	if len(line.Args) == 0 || len(line.Returns) != 1 {
		return merr.NewUntraceError(a.Kind(), "malformed mk-sort line")
	}
	kind := theory.SortKind(line.Args[0].Str)
	params := solver.SortParams{}
	s := &smgr.Sort{Kind: kind}

	switch kind {
	case theory.SortBV:
		width := uint32(line.Args[1].Int)
		params.BVSize = width
		s.BVSize = width
	case theory.SortFP:
		params.FPExpSize = uint32(line.Args[1].Int)
		params.FPSigSize = uint32(line.Args[2].Int)
		s.FPExpSize, s.FPSigSize = params.FPExpSize, params.FPSigSize
	case theory.SortArray:
		idx, err := a.Env.DB.ResolveUntracedSort(trace.Render(line.Args[1]))
		if err != nil {
			return err
		}
		elem, err := a.Env.DB.ResolveUntracedSort(trace.Render(line.Args[2]))
		if err != nil {
			return err
		}
		params.ArrayIndex, params.ArrayElem = idx.Handle, elem.Handle
		s.ArrayIndex, s.ArrayElem = idx, elem
	case theory.SortSet, theory.SortSeq, theory.SortBag:
		elem, err := a.Env.DB.ResolveUntracedSort(trace.Render(line.Args[1]))
		if err != nil {
			return err
		}
		params.ArrayElem = elem.Handle
		s.ArrayElem = elem
	}

	handle, err := a.Env.Adapter.MkSort(kind, params)
	if err != nil {
		return err
	}
	s.Handle = handle
	canonical := a.Env.DB.AddSort(s, kind)
	a.Env.DB.RegisterUntracedSort(trace.Render(line.Returns[0]), canonical)
	return nil
}
