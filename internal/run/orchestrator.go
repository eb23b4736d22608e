package run

import (
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

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

// Outcome is everything One needs to report back to its caller: the
// seed it ran with (so a failing run can be reproduced), the resulting
// counters, and whatever error the walk terminated on, if any.
type Outcome struct {
	Seed  uint64
	Stats *stats.Stats
	Err   error
}

// NewAdapter constructs the solver.Adapter named by opts.Solver. Only
// the echo back-end is implemented; every other name, smt2 included, is
// rejected with an error.
func NewAdapter(opts config.Options) (solver.Adapter, error) {
	switch opts.Solver {
	case config.SolverEcho, "":
		return solver.NewEcho(), nil
	default:
		return nil, errors.Errorf("run: unsupported solver backend %q", opts.Solver)
	}
}

// One builds a fresh Env for seed and opts, walks the canonical FSM
// skeleton to completion (or until the step budget / precondition
// exhaustion stops it), and writes the resulting trace to w.
func One(seed uint64, opts config.Options, w io.Writer) Outcome {
	g := rng.New(seed)
	db := smgr.New(g)
	adapter, err := NewAdapter(opts)
	if err != nil {
		return Outcome{Seed: seed, Err: err}
	}
	reg := theory.NewRegistry()
	for _, k := range adapter.UnsupportedOps() {
		reg.Remove(k)
	}
	enabled := theory.Enabled(opts.EnabledTheories, adapter.SupportedTheories(), opts.DisabledTheories)
	st := stats.New()

	env := &actions.Env{
		DB:       db,
		Adapter:  adapter,
		Registry: reg,
		Enabled:  enabled,
		Options:  opts,
		Stats:    st,
		OptFuzz:  solver.NewOptionFuzzer(g),
	}

	rec := trace.NewRecorder(w, opts.TraceSeeds)
	if err := rec.WritePrelude(preludeArgv(opts)); err != nil {
		return Outcome{Seed: seed, Stats: st, Err: errors.Wrap(err, "run: writing prelude")}
	}

	f := BuildFSM(env)
	ctx := &fsm.Context{G: g, Recorder: rec, SeedState: g.State}

	maxSteps := int(config.MaxNActions)
	log.Infof("run: starting walk, seed=%d, solver=%s, theories=%v", seed, opts.Solver, enabled)
	if err := fsm.Walk(f, g, ctx, maxSteps); err != nil {
		return Outcome{Seed: seed, Stats: st, Err: errors.Wrap(err, "run: walk")}
	}

	del := &actions.DeleteSolver{Env: env}
	line, err := del.Run(ctx)
	if err != nil {
		return Outcome{Seed: seed, Stats: st, Err: errors.Wrap(err, "run: delete-solver")}
	}
	if err := rec.WriteLine(line, ctx.SeedState()); err != nil {
		return Outcome{Seed: seed, Stats: st, Err: errors.Wrap(err, "run: recording delete-solver")}
	}
	return Outcome{Seed: seed, Stats: st}
}

// preludeArgv renders the argv that reproduces opts, for the trace's
// mandatory "set-murxla-options" first line (spec.md §4.6, §8 scenario
// 1). It walks the flag surface config.BindFlags defines, emitting the
// seed and every other flag whose value diverges from config.Default(),
// except --stats, --print-fsm, --api-trace and --untrace, which are not
// rendered and so are not recreated by config.ParseArgv.
func preludeArgv(opts config.Options) []string {
	def := config.Default()
	var argv []string

	for _, t := range opts.EnabledTheories {
		argv = append(argv, "--"+theoryFlagName(t))
	}
	for _, t := range opts.DisabledTheories {
		if !containsTheoryID(def.DisabledTheories, t) {
			argv = append(argv, "--no-"+theoryFlagName(t))
		}
	}

	argv = append(argv, "-s", strconv.FormatInt(opts.Seed, 10))
	if opts.Time != def.Time {
		argv = append(argv, "-t", strconv.FormatFloat(opts.Time, 'f', -1, 64))
	}
	if opts.Verbosity != def.Verbosity {
		argv = append(argv, "-v", strconv.FormatUint(uint64(opts.Verbosity), 10))
	}
	if opts.MaxRuns != def.MaxRuns {
		argv = append(argv, "--max-runs", strconv.FormatUint(uint64(opts.MaxRuns), 10))
	}
	if opts.TraceSeeds != def.TraceSeeds {
		argv = append(argv, "-S")
	}
	if opts.SimpleSymbols != def.SimpleSymbols {
		argv = append(argv, "--random-symbols=false")
	}
	if opts.SMTCompliant != def.SMTCompliant {
		argv = append(argv, "--smt-compliant")
	}
	if opts.ArithLinear != def.ArithLinear {
		argv = append(argv, "--arith-linear")
	}
	if opts.FuzzOptions != def.FuzzOptions {
		argv = append(argv, "--fuzz-opts")
	}
	for _, w := range opts.FuzzOptsWildcards {
		argv = append(argv, "--fuzz-opts-wildcards", w)
	}
	if opts.TmpDir != def.TmpDir {
		argv = append(argv, "-T", opts.TmpDir)
	}
	if opts.OutDir != def.OutDir {
		argv = append(argv, "-O", opts.OutDir)
	}
	if opts.Solver != def.Solver {
		argv = append(argv, "--solver", opts.Solver)
	}
	if opts.SolverBinary != def.SolverBinary {
		argv = append(argv, "--solver-binary", opts.SolverBinary)
	}
	if opts.DD {
		argv = append(argv, "--dd")
	}
	if opts.DDIgnoreOut {
		argv = append(argv, "--dd-ignore-out")
	}
	if opts.DDIgnoreErr {
		argv = append(argv, "--dd-ignore-err")
	}
	if opts.DDMatchOut != "" {
		argv = append(argv, "--dd-match-out", opts.DDMatchOut)
	}
	if opts.DDMatchErr != "" {
		argv = append(argv, "--dd-match-err", opts.DDMatchErr)
	}
	if opts.DDTraceFile != "" {
		argv = append(argv, "--dd-trace", opts.DDTraceFile)
	}
	if opts.CrossCheck != "" {
		argv = append(argv, "--cross-check", opts.CrossCheck)
	}
	if opts.CheckSolver {
		argv = append(argv, "-c")
	}
	if opts.CheckSolverName != "" {
		argv = append(argv, "--check-solver", opts.CheckSolverName)
	}
	if opts.CSVFile != "" {
		argv = append(argv, "--csv", opts.CSVFile)
	}
	if opts.ExportErrorsFile != "" {
		argv = append(argv, "--export-errors", opts.ExportErrorsFile)
	}
	return argv
}

// theoryFlagName renders a theory.ID as BindFlags' --<name> flag suffix.
func theoryFlagName(t theory.ID) string {
	return strings.ToLower(strings.TrimPrefix(string(t), "THEORY_"))
}

func containsTheoryID(ids []theory.ID, t theory.ID) bool {
	for _, id := range ids {
		if id == t {
			return true
		}
	}
	return false
}
