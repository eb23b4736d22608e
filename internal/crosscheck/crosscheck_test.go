package crosscheck

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/alex-ozdemir/murxla/internal/actions"
	"github.com/alex-ozdemir/murxla/internal/config"
	"github.com/alex-ozdemir/murxla/internal/fsm"
	"github.com/alex-ozdemir/murxla/internal/merr"
	"github.com/alex-ozdemir/murxla/internal/rng"
	"github.com/alex-ozdemir/murxla/internal/smgr"
	"github.com/alex-ozdemir/murxla/internal/solver"
	"github.com/alex-ozdemir/murxla/internal/stats"
	"github.com/alex-ozdemir/murxla/internal/theory"
	"github.com/alex-ozdemir/murxla/internal/trace"
)

// genTrace builds a small, fully deterministic trace text: one Boolean
// sort, one Boolean const, one assertion, one check-sat.
func genTrace(t *testing.T, seed uint64) string {
	g := rng.New(seed)
	db := smgr.New(g)
	env := &actions.Env{
		DB:       db,
		Adapter:  solver.NewEcho(),
		Registry: theory.NewRegistry(),
		Enabled:  []theory.ID{theory.Bool},
		Options:  config.Default(),
		Stats:    stats.New(),
		OptFuzz:  solver.NewOptionFuzzer(g),
	}
	ctx := &fsm.Context{G: g}

	var lines []trace.Line
	record := func(l trace.Line, err error) {
		require.NoError(t, err)
		lines = append(lines, l)
	}
	record((&actions.NewSolver{Env: env}).Run(ctx))
	record((&actions.MkSort{Env: env}).Run(ctx))
	record((&actions.MkConst{Env: env}).Run(ctx))
	record((&actions.AssertFormula{Env: env}).Run(ctx))
	record((&actions.CheckSat{Env: env}).Run(ctx))

	var sb strings.Builder
	sb.WriteString("set-murxla-options --seed ")
	sb.WriteString("1\n")
	for _, l := range lines {
		sb.WriteString(trace.RenderLine(l))
		sb.WriteString("\n")
	}
	return sb.String()
}

func TestRunAgreesWhenBothBackendsAreTheSameAdapter(t *testing.T) {
	tr := genTrace(t, 7)
	v, err := Run(7, tr, config.SolverEcho, config.SolverEcho)
	require.NoError(t, err)
	require.True(t, v.Agree())
	require.Equal(t, v.ResultA, v.ResultB)
}

func TestVerdictDisagreementMapsToACrossCheckError(t *testing.T) {
	v := Verdict{SolverA: "echo", SolverB: "echo", ResultA: solver.Sat, ResultB: solver.Unsat}
	require.False(t, v.Agree())

	var cc *merr.CrossCheckError
	err := error(&merr.CrossCheckError{SolverA: v.SolverA, SolverB: v.SolverB, ResultA: string(v.ResultA), ResultB: string(v.ResultB)})
	require.ErrorAs(t, err, &cc)
}

func TestRunRejectsAnUnsupportedBackend(t *testing.T) {
	tr := genTrace(t, 9)
	_, err := Run(9, tr, config.SolverEcho, "not-a-real-solver")
	require.Error(t, err)
}

func TestVerdictNeverAgreesOnAnEmptyResult(t *testing.T) {
	v := Verdict{ResultA: "", ResultB: ""}
	require.False(t, v.Agree())
}
