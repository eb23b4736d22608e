// Package reduce implements line-granularity delta-debugging over a
// recorded trace: repeatedly try dropping one action line, re-run the
// candidate, and keep the drop only if a caller-supplied oracle still
// calls the result "interesting". Candidates are consumed one at a time
// off a small worklist, in the manner of a worklist-driven search.
//
// Every intermediate candidate trace must stay syntactically valid and
// parseable, and the final result must still satisfy the oracle. Render
// and trace.Parse already guarantee the first property for any subset of
// a parseable trace's lines, so this package only has to get the second
// one right.
package reduce

import (
	"strings"

	"github.com/alex-ozdemir/murxla/internal/config"
	"github.com/alex-ozdemir/murxla/internal/trace"
)

// Candidate is one trace under consideration for minimization: the
// original run's options prelude (kept verbatim, never reduced — the dd
// oracle is evaluated against a fixed configuration) plus the ordered
// action lines that follow it.
type Candidate struct {
	Prelude []string
	Lines   []trace.Line
}

// Render renders c back into trace text, suitable for --untrace.
func (c Candidate) Render() string {
	var sb strings.Builder
	sb.WriteString("set-murxla-options")
	for _, a := range c.Prelude {
		sb.WriteByte(' ')
		sb.WriteString(a)
	}
	sb.WriteByte('\n')
	for _, l := range c.Lines {
		sb.WriteString(trace.RenderLine(l))
		sb.WriteByte('\n')
	}
	return sb.String()
}

// withoutLine returns a copy of c with the line at index i dropped.
func (c Candidate) withoutLine(i int) Candidate {
	lines := make([]trace.Line, 0, len(c.Lines)-1)
	lines = append(lines, c.Lines[:i]...)
	lines = append(lines, c.Lines[i+1:]...)
	return Candidate{Prelude: c.Prelude, Lines: lines}
}

// ParseCandidate parses a recorded trace's parsed lines into a Candidate,
// dropping "set-seed" lines: they exist only to let a human audit which
// rng draw produced which action, and internal/replay already ignores
// them, so dd gains nothing by trying to remove them one at a time.
func ParseCandidate(lines []trace.ParsedLine) (Candidate, error) {
	if len(lines) == 0 || !lines[0].IsOptions {
		return Candidate{}, errNoPrelude
	}
	c := Candidate{Prelude: lines[0].Options}
	for _, pl := range lines[1:] {
		if pl.IsSeed {
			continue
		}
		c.Lines = append(c.Lines, pl.Action)
	}
	return c, nil
}

var errNoPrelude = errNoPreludeErr("reduce: trace has no set-murxla-options prelude")

type errNoPreludeErr string

func (e errNoPreludeErr) Error() string { return string(e) }

// Oracle decides whether one execution's captured output counts as a
// reproduction of the original failure, per --dd-match-{out,err} and
// --dd-ignore-{out,err} (spec.md §6).
type Oracle struct {
	MatchOut  string
	MatchErr  string
	IgnoreOut bool
	IgnoreErr bool
}

// OracleFromOptions builds an Oracle from the CLI flags that configure it.
func OracleFromOptions(opts config.Options) Oracle {
	return Oracle{
		MatchOut:  opts.DDMatchOut,
		MatchErr:  opts.DDMatchErr,
		IgnoreOut: opts.DDIgnoreOut,
		IgnoreErr: opts.DDIgnoreErr,
	}
}

// ExecResult is the minimal shape Oracle.Interesting needs from one
// candidate's execution; internal/run.IsolatedResult satisfies it.
type ExecResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
	TimedOut bool
}

// Interesting reports whether res reproduces the property the oracle is
// looking for. A stream that's flagged "ignore" never disqualifies a
// candidate; otherwise an empty match string means "don't care", so an
// oracle with no match strings configured and neither stream ignored is
// vacuously satisfied by any execution (the caller is responsible for
// requiring at least one of --dd-match-out/--dd-match-err up front).
func (o Oracle) Interesting(res ExecResult) bool {
	outOK := o.IgnoreOut || o.MatchOut == "" || strings.Contains(res.Stdout, o.MatchOut)
	errOK := o.IgnoreErr || o.MatchErr == "" || strings.Contains(res.Stderr, o.MatchErr)
	return outOK && errOK
}
