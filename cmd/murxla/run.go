package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/alex-ozdemir/murxla/internal/actions"
	"github.com/alex-ozdemir/murxla/internal/config"
	"github.com/alex-ozdemir/murxla/internal/crosscheck"
	"github.com/alex-ozdemir/murxla/internal/merr"
	"github.com/alex-ozdemir/murxla/internal/reduce"
	"github.com/alex-ozdemir/murxla/internal/replay"
	"github.com/alex-ozdemir/murxla/internal/report"
	"github.com/alex-ozdemir/murxla/internal/rng"
	"github.com/alex-ozdemir/murxla/internal/run"
	"github.com/alex-ozdemir/murxla/internal/smgr"
	"github.com/alex-ozdemir/murxla/internal/solver"
	"github.com/alex-ozdemir/murxla/internal/stats"
	"github.com/alex-ozdemir/murxla/internal/theory"
	"github.com/alex-ozdemir/murxla/internal/trace"
)

// dispatch resolves opts's --<theory>/--no-<theory> booleans and routes
// to the mode the parsed flags select: a re-exec'd isolated child
// (MURXLA_CHILD_SEED, internal/run.ChildEnvVar), replay (--untrace
// alone), delta-debugging (--dd), cross-checking (--cross-check), or
// plain seeded/continuous generation.
func dispatch(opts config.Options) error {
	config.ResolveTheoryFlags(&opts)
	configureLogging(opts)

	if s, ok := os.LookupEnv(run.ChildEnvVar); ok {
		seed, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return merr.NewConfigError("invalid %s=%q: %v", run.ChildEnvVar, s, err)
		}
		return runChild(seed, opts)
	}

	switch {
	case opts.PrintFSM:
		printFSM()
		return nil
	case opts.DD:
		return doDD(opts)
	case opts.CrossCheck != "":
		return doCrossCheck(opts)
	case opts.UntraceFile != "":
		return doUntrace(opts)
	default:
		return doGenerate(opts)
	}
}

func configureLogging(opts config.Options) {
	switch {
	case opts.Verbosity >= 2:
		log.SetLevel(log.DebugLevel)
	case opts.Verbosity == 1:
		log.SetLevel(log.InfoLevel)
	default:
		log.SetLevel(log.WarnLevel)
	}
}

// traceWriter opens opts.APITraceFile, or falls back to stdout (spec.md
// §6: "--api-trace <file>: Write trace to file instead of stdout").
func traceWriter(opts config.Options) (io.Writer, func() error, error) {
	if opts.APITraceFile == "" {
		return os.Stdout, func() error { return nil }, nil
	}
	f, err := os.Create(opts.APITraceFile)
	if err != nil {
		return nil, nil, errors.Wrap(err, "murxla: opening --api-trace file")
	}
	return f, f.Close, nil
}

// runChild executes exactly one seeded run to completion: the body of a
// re-exec'd isolation child (internal/run.Isolated's target) as well as
// of a plain `--seed` invocation, which needs no isolation of its own.
func runChild(seed uint64, opts config.Options) error {
	opts.Seed = int64(seed)
	opts.IsSeeded = true
	w, closeFn, err := traceWriter(opts)
	if err != nil {
		return err
	}
	defer closeFn()
	outcome := run.One(seed, opts, w)
	if opts.PrintStats {
		printStats(outcome.Stats)
	}
	return outcome.Err
}

// doGenerate is the default mode: one deterministic run under --seed, or
// continuous generation (spec.md §6: "absent ⇒ continuous mode").
func doGenerate(opts config.Options) error {
	if opts.IsSeeded {
		return runChild(uint64(opts.Seed), opts)
	}
	return doContinuous(opts)
}

// doContinuous repeatedly re-execs the current binary, one child process
// per seed, so that a crashing back-end takes down only that child
// (spec.md §5: "Each test run is executed in a forked child process when
// requested (continuous fuzzing mode ...)"). Errors and crashes are
// aggregated by internal/report and summarized on exit.
func doContinuous(opts config.Options) error {
	var deadline time.Time
	if opts.Time > 0 {
		deadline = time.Now().Add(time.Duration(opts.Time * float64(time.Second)))
	}
	if opts.OutDir != "" {
		if err := os.MkdirAll(opts.OutDir, 0o755); err != nil {
			return errors.Wrap(err, "murxla: creating --out-dir")
		}
	}

	agg := report.New()
	runs := uint32(0)
	for {
		if opts.MaxRuns > 0 && runs >= opts.MaxRuns {
			break
		}
		if !deadline.IsZero() && time.Now().After(deadline) {
			break
		}
		seed, err := run.FreshSeed()
		if err != nil {
			return errors.Wrap(err, "murxla: drawing a fresh seed")
		}

		var remaining time.Duration
		if !deadline.IsZero() {
			remaining = time.Until(deadline)
		}
		id := uuid.New().String()
		res := run.Isolated(context.Background(), seed, remaining, childArgs(opts, id))
		runs++
		if res.Err != nil {
			return errors.Wrapf(res.Err, "murxla: run %d (seed=%d)", runs, seed)
		}
		log.Infof("murxla: run %d seed=%d exit=%d timeout=%v", runs, seed, res.ExitCode, res.TimedOut)
		if res.TimedOut {
			agg.Add(seed, errors.Errorf("timeout: seed=%d", seed))
			continue
		}
		if res.ExitCode != 0 {
			agg.Add(seed, errors.Errorf("seed=%d exit=%d stderr=%s", seed, res.ExitCode, firstLine(res.Stderr)))
		}
	}

	return finishReport(opts, runs, agg)
}

// childArgs renders the flag surface a re-exec'd child needs to
// reconstruct an equivalent config.Options: the parts of opts that
// affect generation, minus --seed/--max-runs/--time, which the driver
// owns. Deliberately minimal — spec.md §1 places CLI parsing itself out
// of core scope, so this only needs to preserve the fields that change
// what gets generated, not every flag BindFlags exposes.
func childArgs(opts config.Options, runID string) []string {
	argv := []string{"--solver", opts.Solver}
	if opts.OutDir != "" {
		argv = append(argv, "--api-trace", filepath.Join(opts.OutDir, runID+".trace"))
	}
	if opts.TraceSeeds {
		argv = append(argv, "--trace-seeds")
	}
	if !opts.SimpleSymbols {
		argv = append(argv, "--random-symbols")
	}
	if opts.SMTCompliant {
		argv = append(argv, "--smt-compliant")
	}
	if opts.ArithLinear {
		argv = append(argv, "--arith-linear")
	}
	if opts.FuzzOptions {
		argv = append(argv, "--fuzz-opts")
	}
	for _, w := range opts.FuzzOptsWildcards {
		argv = append(argv, "--fuzz-opts-wildcards", w)
	}
	if opts.TmpDir != "" {
		argv = append(argv, "--tmp-dir", opts.TmpDir)
	}
	for _, t := range opts.EnabledTheories {
		argv = append(argv, "--"+theoryFlagName(t))
	}
	for _, t := range opts.DisabledTheories {
		argv = append(argv, "--no-"+theoryFlagName(t))
	}
	return argv
}

// theoryFlagName mirrors config.BindFlags' own derivation of a theory's
// flag name from its ID, so a re-exec'd child parses back the identical
// theory set the parent resolved.
func theoryFlagName(t theory.ID) string {
	return strings.ToLower(strings.TrimPrefix(string(t), "THEORY_"))
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	if len(s) > 200 {
		s = s[:200]
	}
	return s
}

// doUntrace replays opts.UntraceFile against a freshly built Env
// (spec.md §6: "--untrace <file>: Replay the given trace. Its first
// set-murxla-options line re-seeds CLI options.").
func doUntrace(opts config.Options) error {
	f, err := os.Open(opts.UntraceFile)
	if err != nil {
		return merr.NewConfigError("opening --untrace file: %v", err)
	}
	defer f.Close()

	env, err := newEnv(opts)
	if err != nil {
		return err
	}
	res, err := replay.Run(env, f)
	if err != nil {
		return err
	}
	log.Infof("murxla: untrace: replayed %d line(s)", res.LinesPlayed)
	if opts.PrintStats {
		printStats(env.Stats)
	}
	return nil
}

// newEnv builds a fresh actions.Env around opts.Solver, the shared
// constructor doUntrace and doCrossCheck's per-side replay both need.
func newEnv(opts config.Options) (*actions.Env, error) {
	g := rng.New(uint64(opts.Seed))
	db := smgr.New(g)
	adapter, err := run.NewAdapter(opts)
	if err != nil {
		return nil, err
	}
	reg := theory.NewRegistry()
	for _, k := range adapter.UnsupportedOps() {
		reg.Remove(k)
	}
	return &actions.Env{
		DB:       db,
		Adapter:  adapter,
		Registry: reg,
		Enabled:  theory.Enabled(opts.EnabledTheories, adapter.SupportedTheories(), opts.DisabledTheories),
		Options:  opts,
		Stats:    stats.New(),
		OptFuzz:  solver.NewOptionFuzzer(g),
	}, nil
}

// doCrossCheck replays opts.UntraceFile independently against
// opts.Solver and opts.CrossCheck and reports whether they agree
// (spec.md §6: "--cross-check <solver>: Run a second solver in parallel
// on the same SMT-LIB2 rendering; diverging answers are reported.").
func doCrossCheck(opts config.Options) error {
	if opts.UntraceFile == "" {
		return merr.NewConfigError("--cross-check requires --untrace <file>")
	}
	data, err := os.ReadFile(opts.UntraceFile)
	if err != nil {
		return merr.NewConfigError("reading --untrace file: %v", err)
	}
	verdict, err := crosscheck.Run(uint64(opts.Seed), string(data), opts.Solver, opts.CrossCheck)
	fmt.Printf("murxla: cross-check: %s=%s vs %s=%s (agree=%v)\n",
		verdict.SolverA, verdict.ResultA, verdict.SolverB, verdict.ResultB, verdict.Agree())
	return err
}

// doDD delta-debugs opts.UntraceFile down to a minimal trace that still
// satisfies the --dd-match-{out,err}/--dd-ignore-{out,err} oracle
// (spec.md §6, §8 scenario 6).
func doDD(opts config.Options) error {
	if opts.UntraceFile == "" {
		return merr.NewConfigError("--dd requires --untrace <file>")
	}
	oracle := reduce.OracleFromOptions(opts)
	if oracle.MatchOut == "" && oracle.MatchErr == "" {
		return merr.NewConfigError("--dd requires at least one of --dd-match-out/--dd-match-err")
	}

	data, err := os.ReadFile(opts.UntraceFile)
	if err != nil {
		return merr.NewConfigError("reading --untrace file: %v", err)
	}
	lines, err := trace.Parse(strings.NewReader(string(data)))
	if err != nil {
		return errors.Wrap(err, "murxla: parsing initial trace")
	}
	cand, err := reduce.ParseCandidate(lines)
	if err != nil {
		return err
	}

	self, err := os.Executable()
	if err != nil {
		return errors.Wrap(err, "murxla: resolving self executable")
	}
	exec := reduce.SelfExec(self, childArgsForDD(opts))

	ctx := context.Background()
	if opts.Time > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(opts.Time*float64(time.Second)))
		defer cancel()
	}

	reduced, ddStats, err := reduce.Minimize(ctx, cand, oracle, exec)
	if err != nil {
		return errors.Wrap(err, "murxla: delta-debugging")
	}
	log.Infof("murxla: dd: %d -> %d line(s) (%d attempt(s), %d removed)",
		ddStats.InitialLines, ddStats.FinalLines, ddStats.Attempts, ddStats.Removed)

	out := opts.DDTraceFile
	if out == "" {
		out = opts.UntraceFile + ".dd"
	}
	if err := os.WriteFile(out, []byte(reduced.Render()), 0o644); err != nil {
		return errors.Wrap(err, "murxla: writing reduced trace")
	}
	fmt.Println("murxla: dd: reduced trace written to", out)
	return nil
}

// childArgsForDD renders the flags dd's re-exec'd candidate needs:
// solver selection and enabled theories, deliberately excluding
// --dd/--untrace/--dd-* — reduce.SelfExec appends "--untrace <candidate
// file>" itself, and the candidate run must not recursively delta-debug.
func childArgsForDD(opts config.Options) []string {
	argv := []string{"--solver", opts.Solver}
	for _, t := range opts.EnabledTheories {
		argv = append(argv, "--"+theoryFlagName(t))
	}
	for _, t := range opts.DisabledTheories {
		argv = append(argv, "--no-"+theoryFlagName(t))
	}
	return argv
}

// finishReport prints the terminal summary spec.md §7's final paragraph
// describes, writes the optional CSV/JSON exports, and turns any
// aggregated error into the process's exit status.
func finishReport(opts config.Options, runs uint32, agg *report.Aggregator) error {
	entries := agg.Entries()
	fmt.Printf("murxla: %d run(s), %d distinct error(s)\n", runs, len(entries))
	for _, e := range entries {
		fmt.Printf("  %6d  %-60s  seeds=%v\n", e.Count, e.Fingerprint, e.SampleSeeds)
	}

	if opts.CSVFile != "" {
		if err := writeReportFile(opts.CSVFile, entries, report.WriteCSV); err != nil {
			return err
		}
	}
	if opts.ExportErrorsFile != "" {
		if err := writeReportFile(opts.ExportErrorsFile, entries, report.WriteJSON); err != nil {
			return err
		}
	}
	if len(entries) > 0 {
		return errors.Errorf("murxla: %d distinct error(s) across %d run(s)", len(entries), runs)
	}
	return nil
}

func writeReportFile(path string, entries []report.Entry, write func(io.Writer, []report.Entry) error) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "murxla: creating %s", path)
	}
	defer f.Close()
	return write(f, entries)
}

// printFSM prints the configured FSM graph and is used by --print-fsm to
// let a user inspect the state skeleton spec.md §4.5 describes without
// running it.
func printFSM() {
	g := rng.New(1)
	db := smgr.New(g)
	env := &actions.Env{
		DB:       db,
		Adapter:  solver.NewEcho(),
		Registry: theory.NewRegistry(),
		Stats:    stats.New(),
		OptFuzz:  solver.NewOptionFuzzer(g),
	}
	f := run.BuildFSM(env)
	for _, name := range []string{
		run.StateNew, run.StateOpt, run.StateCreateSorts, run.StateCreateInputs,
		run.StateCreateTerms, run.StateAssert, run.StateCheckSat, run.StateDelete,
	} {
		s := f.State(name)
		if s == nil {
			continue
		}
		fmt.Printf("%s (final=%v)\n", s.Name, s.IsFinal)
		for _, e := range s.Edges {
			fmt.Printf("  -[%s w=%d]-> %s\n", e.Action.Kind(), e.Weight, e.NextState)
		}
	}
}

// printStats renders opts.PrintStats' terminal summary of one run's
// counters (spec.md §6: "--stats: print statistics counters on exit"),
// mirroring statistics.hpp's own end-of-run dump.
func printStats(st *stats.Stats) {
	if st == nil {
		return
	}
	results := st.Results()
	fmt.Printf("murxla: results: sat=%d unsat=%d unknown=%d\n", results[0], results[1], results[2])
	for _, oc := range st.OpCounts() {
		fmt.Printf("murxla: op %-24s %6d (%d ok)\n", oc.Kind, oc.Count, oc.OK)
	}
	for kind, counts := range st.ActionCounts() {
		fmt.Printf("murxla: action %-24s %6d (%d ok)\n", kind, counts[0], counts[1])
	}
	for name, count := range st.StateCounts() {
		fmt.Printf("murxla: state %-24s %6d visit(s)\n", name, count)
	}
}
