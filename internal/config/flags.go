package config

import (
	"strings"

	flag "github.com/spf13/pflag"

	"github.com/alex-ozdemir/murxla/internal/theory"
)

// BindFlags registers every CLI flag onto fs, writing parsed values into
// opts, via StringVar/BoolVar bindings against a package-level
// cobra.Command's Flags() set. Using one shared FlagSet lets the exact
// same flag surface parse both a live os.Args invocation (cmd/murxla)
// and a recorded "set-murxla-options" prelude line (internal/replay).
func BindFlags(fs *flag.FlagSet, opts *Options) {
	fs.Int64VarP(&opts.Seed, "seed", "s", opts.Seed, "seed for the random number generator")
	fs.Uint32VarP(&opts.Verbosity, "verbosity", "v", opts.Verbosity, "increase verbosity")
	fs.Float64VarP(&opts.Time, "time", "t", opts.Time, "wall-clock budget per run, in seconds (0 = unbounded)")
	fs.Uint32Var(&opts.MaxRuns, "max-runs", opts.MaxRuns, "maximum number of runs in continuous mode (0 = unbounded)")

	fs.BoolVarP(&opts.TraceSeeds, "trace-seeds", "S", opts.TraceSeeds, "include set-seed lines in the recorded trace")
	fs.BoolVarP(&opts.SimpleSymbols, "random-symbols", "y", !opts.SimpleSymbols, "use the full piped symbol grammar instead of simple ASCII names")
	fs.BoolVar(&opts.SMTCompliant, "smt-compliant", opts.SMTCompliant, "restrict generation to strictly SMT-LIB compliant constructions")
	fs.BoolVar(&opts.PrintStats, "stats", opts.PrintStats, "print statistics counters on exit")
	fs.BoolVar(&opts.PrintFSM, "print-fsm", opts.PrintFSM, "print the configured FSM graph and exit")
	fs.BoolVar(&opts.ArithLinear, "arith-linear", opts.ArithLinear, "restrict arithmetic operators to the linear fragment")
	fs.BoolVar(&opts.FuzzOptions, "fuzz-opts", opts.FuzzOptions, "fuzz solver options during the run")
	fs.StringSliceVar(&opts.FuzzOptsWildcards, "fuzz-opts-wildcards", opts.FuzzOptsWildcards, "glob wildcards for option names (recorded in the trace; not applied to option selection)")

	fs.StringVarP(&opts.TmpDir, "tmp-dir", "T", opts.TmpDir, "directory used for temp files")
	fs.StringVarP(&opts.OutDir, "out-dir", "O", opts.OutDir, "directory used for output files")

	fs.StringVar(&opts.Solver, "solver", opts.Solver, "solver back-end under test (only echo is available)")
	fs.StringVar(&opts.SolverBinary, "solver-binary", opts.SolverBinary, "path to the solver binary for the smt2 back-end")
	fs.StringVarP(&opts.APITraceFile, "api-trace", "o", opts.APITraceFile, "file the API trace is written to (empty = stdout)")
	fs.StringVar(&opts.UntraceFile, "untrace", opts.UntraceFile, "replay this trace file instead of generating")

	fs.BoolVar(&opts.DD, "dd", opts.DD, "delta-debug the --untrace trace file down to a minimal failing trace")
	fs.BoolVar(&opts.DDIgnoreOut, "dd-ignore-out", opts.DDIgnoreOut, "ignore stdout when evaluating the dd oracle")
	fs.BoolVar(&opts.DDIgnoreErr, "dd-ignore-err", opts.DDIgnoreErr, "ignore stderr when evaluating the dd oracle")
	fs.StringVar(&opts.DDMatchOut, "dd-match-out", opts.DDMatchOut, "require this substring in stdout for the dd oracle")
	fs.StringVar(&opts.DDMatchErr, "dd-match-err", opts.DDMatchErr, "require this substring in stderr for the dd oracle")
	fs.StringVar(&opts.DDTraceFile, "dd-trace", opts.DDTraceFile, "file the reduced trace is written to")

	fs.StringVar(&opts.CrossCheck, "cross-check", opts.CrossCheck, "second solver back-end to cross-check check-sat results against")
	fs.BoolVarP(&opts.CheckSolver, "check", "c", opts.CheckSolver, "independently verify models, unsat cores, and unsat assumptions")
	fs.StringVar(&opts.CheckSolverName, "check-solver", opts.CheckSolverName, "solver back-end used to verify results")

	fs.StringVar(&opts.CSVFile, "csv", opts.CSVFile, "write aggregated issue counts to this CSV file")
	fs.StringVar(&opts.ExportErrorsFile, "export-errors", opts.ExportErrorsFile, "write the aggregated error summary (fingerprint, count, seeds) as JSON to this file")

	for _, t := range theory.All16 {
		name := strings.ToLower(strings.TrimPrefix(string(t), "THEORY_"))
		enabled := new(bool)
		disabled := new(bool)
		fs.BoolVar(enabled, name, false, "enable theory "+name)
		fs.BoolVar(disabled, "no-"+name, false, "disable theory "+name)
		opts.theoryFlags = append(opts.theoryFlags, theoryFlag{id: t, enabled: enabled, disabled: disabled})
	}
}

// ResolveTheoryFlags folds the per-theory --<name>/--no-<name> booleans
// bound by BindFlags into opts.EnabledTheories/DisabledTheories. Call
// after fs.Parse.
func ResolveTheoryFlags(opts *Options) {
	for _, f := range opts.theoryFlags {
		if *f.enabled {
			opts.EnabledTheories = append(opts.EnabledTheories, f.id)
		}
		if *f.disabled {
			opts.DisabledTheories = append(opts.DisabledTheories, f.id)
		}
	}
	opts.theoryFlags = nil
}

// ParseArgv parses argv (as recorded in a trace's "set-murxla-options"
// prelude line, or os.Args[1:]) against a freshly defaulted Options.
func ParseArgv(argv []string) (Options, error) {
	opts := Default()
	fs := flag.NewFlagSet("murxla", flag.ContinueOnError)
	BindFlags(fs, &opts)
	if err := fs.Parse(argv); err != nil {
		return Options{}, err
	}
	ResolveTheoryFlags(&opts)
	return opts, nil
}
