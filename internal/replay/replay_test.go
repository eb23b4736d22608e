package replay

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/alex-ozdemir/murxla/internal/actions"
	"github.com/alex-ozdemir/murxla/internal/config"
	"github.com/alex-ozdemir/murxla/internal/fsm"
	"github.com/alex-ozdemir/murxla/internal/rng"
	"github.com/alex-ozdemir/murxla/internal/smgr"
	"github.com/alex-ozdemir/murxla/internal/solver"
	"github.com/alex-ozdemir/murxla/internal/stats"
	"github.com/alex-ozdemir/murxla/internal/theory"
	"github.com/alex-ozdemir/murxla/internal/trace"
)

func newEnv(seed uint64) (*actions.Env, *fsm.Context) {
	g := rng.New(seed)
	db := smgr.New(g)
	env := &actions.Env{
		DB:       db,
		Adapter:  solver.NewEcho(),
		Registry: theory.NewRegistry(),
		Enabled:  []theory.ID{theory.Bool, theory.BV},
		Options:  config.Default(),
		Stats:    stats.New(),
		OptFuzz:  solver.NewOptionFuzzer(g),
	}
	return env, &fsm.Context{G: g}
}

func TestRunReplaysRecordedTrace(t *testing.T) {
	env, ctx := newEnv(42)

	var lines []trace.Line
	record := func(l trace.Line, err error) {
		require.NoError(t, err)
		lines = append(lines, l)
	}

	record((&actions.NewSolver{Env: env}).Run(ctx))
	record((&actions.MkSort{Env: env}).Run(ctx))
	record((&actions.MkConst{Env: env}).Run(ctx))

	var sb strings.Builder
	sb.WriteString("set-murxla-options --seed 42\n")
	for _, l := range lines {
		sb.WriteString(trace.RenderLine(l))
		sb.WriteString("\n")
	}

	replayEnv, _ := newEnv(1)
	res, err := Run(replayEnv, strings.NewReader(sb.String()))
	require.NoError(t, err)
	require.Equal(t, len(lines), res.LinesPlayed)
	require.Equal(t, int64(42), res.Options.Seed)
	require.Equal(t, 1, replayEnv.DB.NTerms())
}

func TestRunRejectsMissingPrelude(t *testing.T) {
	env, _ := newEnv(1)
	_, err := Run(env, strings.NewReader("mk-sort SORT_BOOL\n"))
	require.Error(t, err)
}

func TestRunRejectsUnknownAction(t *testing.T) {
	env, _ := newEnv(1)
	_, err := Run(env, strings.NewReader("set-murxla-options --seed 1\nbogus-action\n"))
	require.Error(t, err)
}
