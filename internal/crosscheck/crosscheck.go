// Package crosscheck replays one recorded assertion stream independently
// against two solver.Adapter back-ends and compares their check-sat
// verdicts, surfacing a mismatch as a soundness bug in one of the two
// solvers rather than in the fuzzer itself.
package crosscheck

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/alex-ozdemir/murxla/internal/actions"
	"github.com/alex-ozdemir/murxla/internal/config"
	"github.com/alex-ozdemir/murxla/internal/merr"
	"github.com/alex-ozdemir/murxla/internal/replay"
	"github.com/alex-ozdemir/murxla/internal/rng"
	"github.com/alex-ozdemir/murxla/internal/run"
	"github.com/alex-ozdemir/murxla/internal/smgr"
	"github.com/alex-ozdemir/murxla/internal/solver"
	"github.com/alex-ozdemir/murxla/internal/stats"
	"github.com/alex-ozdemir/murxla/internal/theory"
)

// Verdict is one cross-check's outcome: the two back-ends under test and
// the check-sat result each one reached after replaying the identical
// trace.
type Verdict struct {
	SolverA, SolverB string
	ResultA, ResultB solver.CheckSatResult
}

// Agree reports whether the two back-ends reached the same verdict. A
// back-end that never called check-sat at all (the zero CheckSatResult)
// never "agrees" with one that did — an empty trace, or one that crashed
// before reaching check-sat, is not a meaningful cross-check.
func (v Verdict) Agree() bool {
	return v.ResultA != "" && v.ResultA == v.ResultB
}

// Run replays traceText — a full recorded trace, prelude included —
// against solverA and solverB in turn and reports whether they agree. A
// disagreement is reported both as a non-nil *merr.CrossCheckError and as
// a Verdict with Agree() == false, so a caller that only wants the
// bookkeeping (e.g. for a report) does not have to unwrap the error to
// get at ResultA/ResultB.
func Run(seed uint64, traceText, solverA, solverB string) (Verdict, error) {
	resA, err := runOne(seed, traceText, solverA)
	if err != nil {
		return Verdict{}, errors.Wrapf(err, "cross-check: replaying against %s", solverA)
	}
	resB, err := runOne(seed, traceText, solverB)
	if err != nil {
		return Verdict{}, errors.Wrapf(err, "cross-check: replaying against %s", solverB)
	}

	v := Verdict{SolverA: solverA, SolverB: solverB, ResultA: resA, ResultB: resB}
	if !v.Agree() {
		return v, &merr.CrossCheckError{
			SolverA: solverA, SolverB: solverB,
			ResultA: string(resA), ResultB: string(resB),
		}
	}
	return v, nil
}

// runOne builds a fresh Env around a single solverName adapter, replays
// traceText against it, and returns the final check-sat verdict it
// reached. Independent Envs (independent smgr.DB, independent rng state)
// guarantee the two replays cannot leak id assignments into each other.
func runOne(seed uint64, traceText, solverName string) (solver.CheckSatResult, error) {
	g := rng.New(seed)
	db := smgr.New(g)

	opts := config.Default()
	opts.Solver = solverName
	adapter, err := run.NewAdapter(opts)
	if err != nil {
		return "", err
	}

	reg := theory.NewRegistry()
	enabled := theory.Enabled(opts.EnabledTheories, adapter.SupportedTheories(), opts.DisabledTheories)

	env := &actions.Env{
		DB:       db,
		Adapter:  adapter,
		Registry: reg,
		Enabled:  enabled,
		Options:  opts,
		Stats:    stats.New(),
		OptFuzz:  solver.NewOptionFuzzer(g),
	}

	if _, err := replay.Run(env, strings.NewReader(traceText)); err != nil {
		return "", err
	}
	return env.LastResult(), nil
}
