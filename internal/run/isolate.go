package run

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"strconv"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// ChildEnvVar names the environment variable cmd/murxla checks to decide
// whether it is running as a re-exec'd single-run child rather than the
// top-level continuous-mode driver. Go has no fork(); re-executing the
// current binary under a fresh process is the idiomatic substitute for
// isolating a single run's crash from the driver loop (spec.md §7 rule
// 2, "a run that crashes the solver must not crash the fuzzer").
const ChildEnvVar = "MURXLA_CHILD_SEED"

// maxCapturedOutput bounds how much of a child's stdout/stderr the
// driver buffers in memory, mirroring the size-limited capture a test
// runner needs when a misbehaving subprocess floods its output.
const maxCapturedOutput = 4 << 20

// IsolatedResult reports one re-exec'd run's outcome.
type IsolatedResult struct {
	Seed     uint64
	ExitCode int
	TimedOut bool
	Stdout   string
	Stderr   string
	Err      error
}

// Isolated re-execs the current binary (argv[0]) with ChildEnvVar set to
// seed, under a context capped at timeout, capturing stdout/stderr up to
// maxCapturedOutput bytes each.
func Isolated(ctx context.Context, seed uint64, timeout time.Duration, extraArgs []string) IsolatedResult {
	self, err := os.Executable()
	if err != nil {
		return IsolatedResult{Seed: seed, Err: errors.Wrap(err, "run: resolving self executable")}
	}

	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, self, extraArgs...)
	cmd.Env = append(os.Environ(), ChildEnvVar+"="+strconv.FormatUint(seed, 10))

	var stdout, stderr limitedBuffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	log.Infof("run: isolating seed=%d behind a child process (timeout=%s)", seed, timeout)
	runErr := cmd.Run()

	res := IsolatedResult{Seed: seed, Stdout: stdout.String(), Stderr: stderr.String()}
	if ctx.Err() == context.DeadlineExceeded {
		res.TimedOut = true
		res.ExitCode = -1
		return res
	}
	if runErr != nil {
		if exitErr, ok := runErr.(*exec.ExitError); ok {
			res.ExitCode = exitErr.ExitCode()
			return res
		}
		res.Err = errors.Wrap(runErr, "run: starting child process")
		return res
	}
	return res
}

// limitedBuffer is a bytes.Buffer that silently drops writes past a cap,
// the way a runaway child's output must not exhaust driver memory.
type limitedBuffer struct {
	bytes.Buffer
	truncated bool
}

func (b *limitedBuffer) Write(p []byte) (int, error) {
	if b.Len() >= maxCapturedOutput {
		b.truncated = true
		return len(p), nil
	}
	if b.Len()+len(p) > maxCapturedOutput {
		n := maxCapturedOutput - b.Len()
		b.truncated = true
		b.Buffer.Write(p[:n])
		return len(p), nil
	}
	return b.Buffer.Write(p)
}
