// Package config holds the run-wide options murxla is configured with and
// the static limits that bound generation.
package config

import "github.com/alex-ozdemir/murxla/internal/theory"

// Solver back-end names, mirroring the original options.hpp constants.
const (
	SolverEcho = "echo"
	SolverSMT2 = "smt2"
)

// Options is the fully resolved run configuration, populated from CLI flags.
type Options struct {
	// Seed for the random number generator. Used only when IsSeeded is
	// set; otherwise every run draws a fresh seed.
	Seed int64
	// IsSeeded is true when the user passed --seed explicitly.
	IsSeeded bool
	// Verbosity level for diagnostic output.
	Verbosity uint32
	// Time is the wall-clock budget for one run, in seconds. Zero means
	// unbounded.
	Time float64
	// MaxRuns caps the number of runs performed in continuous mode. Zero
	// means unbounded.
	MaxRuns uint32

	// TraceSeeds includes "set-seed" lines in the trace after every action.
	TraceSeeds bool
	// SimpleSymbols restricts generated symbol names to a conservative ASCII
	// alphabet instead of the full "piped" symbol grammar.
	SimpleSymbols bool
	// SMTCompliant restricts generation to strictly SMT-LIB compliant term
	// constructions.
	SMTCompliant bool
	// PrintStats prints statistics counters on exit.
	PrintStats bool
	// PrintFSM prints the configured FSM graph and exits.
	PrintFSM bool
	// ArithLinear restricts arithmetic operators to the linear fragment.
	ArithLinear bool
	// FuzzOptions enables random solver-option fuzzing during a run.
	FuzzOptions bool
	// FuzzOptsWildcards lists glob wildcards for option names. They are
	// parsed and recorded in the trace prelude; option fuzzing does not
	// apply them and picks among all options the back-end reports.
	FuzzOptsWildcards []string

	// TmpDir is the directory used for temp files.
	TmpDir string
	// OutDir is the directory used for output files (dd trace, csv, ...).
	OutDir string

	// Solver is the solver back-end under test.
	Solver string
	// SolverBinary is the path to the solver binary for the smt2 back-end.
	SolverBinary string
	// APITraceFile is the file the trace is written to. Empty means stdout.
	APITraceFile string
	// UntraceFile is the trace file to replay instead of generating.
	UntraceFile string

	// DD enables delta-debugging of the recorded trace.
	DD bool
	// DDIgnoreOut/DDIgnoreErr ignore stdout/stderr when evaluating the dd
	// oracle.
	DDIgnoreOut bool
	DDIgnoreErr bool
	// DDMatchOut/DDMatchErr require this substring in stdout/stderr for the
	// dd oracle to consider a run "interesting."
	DDMatchOut string
	DDMatchErr string
	// DDTraceFile is where the reduced trace is written.
	DDTraceFile string

	// CrossCheck names a second solver back-end to run in parallel and
	// compare check-sat results against.
	CrossCheck string

	// CheckSolver enables independent verification of models, unsat cores,
	// and unsat assumptions, optionally via a named checking solver.
	CheckSolver     bool
	CheckSolverName string

	// EnabledTheories and DisabledTheories narrow the theory set computed
	// by theory.Enabled.
	EnabledTheories  []theory.ID
	DisabledTheories []theory.ID

	// CSVFile/ExportErrorsFile direct report output to files in addition to
	// the terminal summary.
	CSVFile          string
	ExportErrorsFile string

	// theoryFlags holds the per-theory --<name>/--no-<name> flag pointers
	// BindFlags registers, consumed and cleared by ResolveTheoryFlags.
	theoryFlags []theoryFlag
}

// theoryFlag pairs a theory with the two boolean flag destinations
// BindFlags binds for it.
type theoryFlag struct {
	id       theory.ID
	enabled  *bool
	disabled *bool
}

// DefaultDisabledTheories mirrors options.hpp: non-standardized theories
// are disabled unless explicitly requested.
func DefaultDisabledTheories() []theory.ID {
	return []theory.ID{theory.Bag, theory.Seq, theory.Set}
}

// Default returns an Options with the same defaults as options.hpp.
func Default() Options {
	return Options{
		SimpleSymbols:     true,
		TmpDir:            "/tmp",
		DisabledTheories:  DefaultDisabledTheories(),
		Solver:            SolverEcho,
	}
}

// Static limits, carried over from config.hpp verbatim.
const (
	MaxNActions  = 100
	MaxNOps      = 200
	MaxNStates   = 100
	MaxKindLen   = 100

	BVWidthMin = 1
	BVWidthMax = 128

	IntLenMax      = 50
	RealLenMax     = 50
	RationalLenMax = 10
	StrLenMax      = 100

	SymbolLenMax = 128

	MaxAssumptionsCheckSat = 5
	MaxPushLevels          = 5
	MaxTermsGetValue       = 5

	// MkTermNArgs is the sentinel meaning "at least one argument."
	MkTermNArgs = -1
	// MkTermNArgsBin is the sentinel meaning "at least two arguments."
	MkTermNArgsBin = -2
	// MkTermNArgsMax bounds the number of arguments mk_term ever draws.
	MkTermNArgsMax = 11
)

// MkTermNArgsMin returns the minimum argument count encoded by an Op arity:
// non-negative arities are exact, negative arities are "at least |arity|."
func MkTermNArgsMin(arity int) int {
	if arity < 0 {
		return -arity
	}
	return arity
}
