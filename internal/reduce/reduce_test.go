package reduce

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/alex-ozdemir/murxla/internal/trace"
)

// fakeExec treats a candidate as "interesting" iff its rendered text
// still contains needle, the way a real oracle would look for a crash
// signature in the child's captured output.
func fakeExec(needle string) Exec {
	return func(ctx context.Context, traceText string) (ExecResult, error) {
		if strings.Contains(traceText, needle) {
			return ExecResult{Stdout: "ERROR: assertion failed at " + needle}, nil
		}
		return ExecResult{Stdout: "ok"}, nil
	}
}

func mkTrace(kinds ...string) []trace.Line {
	lines := make([]trace.Line, len(kinds))
	for i, k := range kinds {
		lines[i] = trace.Line{Kind: k}
	}
	return lines
}

func TestMinimizeDropsEverythingButTheCulpritLine(t *testing.T) {
	cand := Candidate{
		Prelude: []string{"--seed", "1"},
		Lines:   mkTrace("mk-sort", "mk-const", "mk-term", "poison", "assert-formula", "check-sat"),
	}
	oracle := Oracle{MatchOut: "ERROR"}

	reduced, stats, err := Minimize(context.Background(), cand, oracle, fakeExec("poison"))
	require.NoError(t, err)
	require.Equal(t, 1, len(reduced.Lines))
	require.Equal(t, "poison", reduced.Lines[0].Kind)
	require.Equal(t, 6, stats.InitialLines)
	require.Equal(t, 1, stats.FinalLines)
	require.Equal(t, 5, stats.Removed)
}

func TestMinimizeRejectsATraceThatIsNotInitiallyInteresting(t *testing.T) {
	cand := Candidate{Lines: mkTrace("mk-sort", "check-sat")}
	oracle := Oracle{MatchOut: "never-appears"}

	_, _, err := Minimize(context.Background(), cand, oracle, fakeExec("never-appears"))
	require.Error(t, err)
}

func TestCandidateRenderRoundTripsThroughParse(t *testing.T) {
	cand := Candidate{
		Prelude: []string{"--seed", "42"},
		Lines: []trace.Line{
			{Kind: "mk-sort", Args: []trace.Arg{trace.StringArg("BOOL")}, Returns: []trace.Arg{trace.SortArg(0)}},
			{Kind: "mk-const", Args: []trace.Arg{trace.SortArg(0), trace.StringArg("x")}, Returns: []trace.Arg{trace.TermArg(0)}},
		},
	}
	parsed, err := trace.Parse(strings.NewReader(cand.Render()))
	require.NoError(t, err)
	require.Len(t, parsed, 3)
	require.True(t, parsed[0].IsOptions)

	round, err := ParseCandidate(parsed)
	require.NoError(t, err)
	require.Equal(t, cand.Prelude, round.Prelude)
	require.Equal(t, cand.Lines, round.Lines)
}

func TestOracleIgnoreSuppressesAStream(t *testing.T) {
	o := Oracle{MatchErr: "panic", IgnoreOut: true}
	require.True(t, o.Interesting(ExecResult{Stdout: "garbage that would otherwise fail", Stderr: "panic: boom"}))
	require.False(t, o.Interesting(ExecResult{Stdout: "anything", Stderr: "clean exit"}))
}

func TestParseCandidateDropsSeedLines(t *testing.T) {
	text := "set-murxla-options --seed 1\nset-seed abc\nmk-sort \"BOOL\" return s0\n"
	parsed, err := trace.Parse(strings.NewReader(text))
	require.NoError(t, err)

	cand, err := ParseCandidate(parsed)
	require.NoError(t, err)
	require.Len(t, cand.Lines, 1)
	require.Equal(t, "mk-sort", cand.Lines[0].Kind)
}
