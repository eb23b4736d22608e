// Package run orchestrates one end-to-end generation: build the state
// machine over a fresh Env, walk it to produce a trace, and (for
// continuous/isolated mode) re-exec the current binary per run so a
// crashing back-end cannot take the fuzzer process down with it.
package run

import (
	"github.com/alex-ozdemir/murxla/internal/actions"
	"github.com/alex-ozdemir/murxla/internal/fsm"
)

// State names for the canonical skeleton (spec.md §4.5): NEW -> OPT ->
// CREATE_SORTS -> CREATE_INPUTS -> CREATE_TERMS -> ASSERT -> CHECK_SAT ->
// DELETE. GET_VALUE/GET_UNSAT_CORE/GET_UNSAT_ASSUMPTIONS/PRINT_MODEL do
// not get their own states: each already gates on the live check-sat
// result via its own Precondition (actions.satResultIs), so folding them
// into CHECK_SAT's self-loop set reproduces the same "only reachable
// after a matching check-sat outcome" edge filter spec.md describes,
// without needing the FSM to branch its next-state on an action's
// runtime return value (internal/fsm's edges are statically directed).
const (
	StateNew          = "new"
	StateOpt          = "opt"
	StateCreateSorts  = "create-sorts"
	StateCreateInputs = "create-inputs"
	StateCreateTerms  = "create-terms"
	StateAssert       = "assert"
	StateCheckSat     = "check-sat"
	StateDelete       = "delete"
)

// BuildFSM wires the canonical state skeleton against env, following the
// weighted self-loop / low-weight-advance shape spec.md §4.5 describes
// for every phase. Self-loop weights are deliberately much larger than
// advance weights so a run spends most of its steps building up sorts,
// terms, and assertions before it ever reaches CHECK_SAT.
func BuildFSM(env *actions.Env) *fsm.FSM {
	f := fsm.New(StateNew)
	for _, s := range []string{StateNew, StateOpt, StateCreateSorts, StateCreateInputs, StateCreateTerms, StateAssert, StateCheckSat} {
		f.AddState(s, false)
	}
	f.AddState(StateDelete, true)

	edge := func(from string, a fsm.Action, to string, weight uint32) {
		if err := f.AddEdge(from, a, to, weight); err != nil {
			panic(err)
		}
	}

	edge(StateNew, &actions.NewSolver{Env: env}, StateOpt, 1)

	edge(StateOpt, &actions.SetOpt{Env: env}, StateOpt, 8)
	edge(StateOpt, &actions.Advance{}, StateCreateSorts, 2)

	edge(StateCreateSorts, &actions.MkSort{Env: env}, StateCreateSorts, 10)
	edge(StateCreateSorts, &actions.Advance{}, StateCreateInputs, 3)

	edge(StateCreateInputs, &actions.MkConst{Env: env}, StateCreateInputs, 6)
	edge(StateCreateInputs, &actions.MkVar{Env: env}, StateCreateInputs, 2)
	edge(StateCreateInputs, &actions.MkValue{Env: env}, StateCreateInputs, 4)
	edge(StateCreateInputs, &actions.MkSpecialValue{Env: env}, StateCreateInputs, 2)
	edge(StateCreateInputs, &actions.Advance{}, StateCreateTerms, 3)

	edge(StateCreateTerms, &actions.MkTerm{Env: env}, StateCreateTerms, 12)
	edge(StateCreateTerms, &actions.MkSort{Env: env}, StateCreateTerms, 2)
	edge(StateCreateTerms, &actions.MkConst{Env: env}, StateCreateTerms, 3)
	edge(StateCreateTerms, &actions.Advance{}, StateAssert, 3)

	edge(StateAssert, &actions.AssertFormula{Env: env}, StateAssert, 10)
	edge(StateAssert, &actions.MkTerm{Env: env}, StateAssert, 4)
	edge(StateAssert, &actions.PushPop{Env: env}, StateAssert, 2)
	edge(StateAssert, &actions.Advance{}, StateCheckSat, 3)

	edge(StateCheckSat, &actions.CheckSat{Env: env}, StateCheckSat, 6)
	edge(StateCheckSat, &actions.CheckSatAssuming{Env: env}, StateCheckSat, 3)
	edge(StateCheckSat, &actions.GetValue{Env: env}, StateCheckSat, 4)
	edge(StateCheckSat, &actions.GetUnsatCore{Env: env}, StateCheckSat, 2)
	edge(StateCheckSat, &actions.GetUnsatAssumptions{Env: env}, StateCheckSat, 2)
	edge(StateCheckSat, &actions.PrintModel{Env: env}, StateCheckSat, 2)
	edge(StateCheckSat, &actions.PushPop{Env: env}, StateCheckSat, 2)
	edge(StateCheckSat, &actions.AssertFormula{Env: env}, StateCheckSat, 3)
	edge(StateCheckSat, &actions.ResetAssertions{Env: env}, StateAssert, 1)
	edge(StateCheckSat, &actions.ResetSolver{Env: env}, StateOpt, 1)
	edge(StateAssert, &actions.ResetSolver{Env: env}, StateOpt, 1)
	edge(StateCheckSat, &actions.Advance{}, StateDelete, 1)

	return f
}
