package reduce

import (
	"bytes"
	"context"
	"os"
	"os/exec"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Exec runs one candidate trace to completion and reports its captured
// output, the way the child process spawned for continuous-mode
// isolation does (internal/run.Isolated) — but dd's child is always
// invoked in untrace mode against a temp file, never by seed, so it gets
// its own small exec helper rather than reusing run.Isolated directly.
type Exec func(ctx context.Context, traceText string) (ExecResult, error)

// SelfExec builds an Exec that re-runs the current binary (self) with
// argv = append(extraArgs, "--untrace", <temp file>), capturing stdout
// and stderr up to maxCapturedOutput bytes each.
func SelfExec(self string, extraArgs []string) Exec {
	return func(ctx context.Context, traceText string) (ExecResult, error) {
		f, err := os.CreateTemp("", "murxla-dd-*.trace")
		if err != nil {
			return ExecResult{}, errors.Wrap(err, "reduce: creating candidate trace file")
		}
		defer os.Remove(f.Name())
		if _, err := f.WriteString(traceText); err != nil {
			f.Close()
			return ExecResult{}, errors.Wrap(err, "reduce: writing candidate trace file")
		}
		if err := f.Close(); err != nil {
			return ExecResult{}, errors.Wrap(err, "reduce: closing candidate trace file")
		}

		argv := append(append([]string{}, extraArgs...), "--untrace", f.Name())
		cmd := exec.CommandContext(ctx, self, argv...)

		var stdout, stderr limitedBuffer
		cmd.Stdout = &stdout
		cmd.Stderr = &stderr

		runErr := cmd.Run()
		res := ExecResult{Stdout: stdout.String(), Stderr: stderr.String()}
		if ctx.Err() == context.DeadlineExceeded {
			res.TimedOut = true
			res.ExitCode = -1
			return res, nil
		}
		if exitErr, ok := runErr.(*exec.ExitError); ok {
			res.ExitCode = exitErr.ExitCode()
			return res, nil
		}
		if runErr != nil {
			return res, errors.Wrap(runErr, "reduce: starting candidate child process")
		}
		return res, nil
	}
}

const maxCapturedOutput = 4 << 20

type limitedBuffer struct {
	bytes.Buffer
}

func (b *limitedBuffer) Write(p []byte) (int, error) {
	if b.Len() >= maxCapturedOutput {
		return len(p), nil
	}
	if b.Len()+len(p) > maxCapturedOutput {
		n := maxCapturedOutput - b.Len()
		b.Buffer.Write(p[:n])
		return len(p), nil
	}
	return b.Buffer.Write(p)
}

// Stats reports one Minimize run's bookkeeping.
type Stats struct {
	InitialLines int
	FinalLines   int
	Attempts     int
	Removed      int
}

// Minimize runs ddmin's line-removal pass to a fixpoint: sweep the
// candidate's lines front to back, dropping each one speculatively and
// keeping the drop iff exec still satisfies oracle; repeat full sweeps
// until one makes no progress. This is intentionally the simple variant
// (single-line removal, no chunked/binary-search ddmin): spec.md asks
// only that the core's contract with the reducer hold — every
// intermediate trace parseable, final trace still "interesting" — not
// that the reducer hit a particular minimization bound.
func Minimize(ctx context.Context, initial Candidate, oracle Oracle, exec Exec) (Candidate, Stats, error) {
	stats := Stats{InitialLines: len(initial.Lines)}

	res, err := exec(ctx, initial.Render())
	if err != nil {
		return initial, stats, errors.Wrap(err, "reduce: executing initial trace")
	}
	if !oracle.Interesting(res) {
		return initial, stats, errors.New("reduce: initial trace does not satisfy the oracle")
	}

	cur := initial
	for {
		progressed := false
		for i := 0; i < len(cur.Lines); {
			cand := cur.withoutLine(i)
			res, err := exec(ctx, cand.Render())
			stats.Attempts++
			if err != nil {
				log.Warnf("reduce: candidate execution error, keeping line %d: %v", i, err)
				i++
				continue
			}
			if oracle.Interesting(res) {
				log.Infof("reduce: dropped line %d (%d lines remaining)", i, len(cand.Lines))
				cur = cand
				stats.Removed++
				progressed = true
				continue // re-examine index i, now the following line
			}
			i++
		}
		if !progressed {
			break
		}
	}

	stats.FinalLines = len(cur.Lines)
	return cur, stats, nil
}
