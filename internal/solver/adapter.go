// Package solver defines the back-end capability interface murxla drives
// (spec.md §4.3), in the same small-interface-over-a-concrete-engine shape
// internal/smt.Solver wraps yices2: an Adapter owns a live solver context and
// exposes the handful of calls the FSM issues against it. This package also
// ships one reference Adapter, the SMT-LIB2 "echo" back-end spec.md §8
// scenario 1 exercises, and OptionFuzzer, which perturbs solver options the
// way config.FuzzOptions enables.
package solver

import (
	"fmt"

	"github.com/alex-ozdemir/murxla/internal/theory"
)

// CheckSatResult is the closed three-way result of a check-sat call.
type CheckSatResult string

const (
	Sat     CheckSatResult = "sat"
	Unsat   CheckSatResult = "unsat"
	Unknown CheckSatResult = "unknown"
)

// Sort is an opaque handle an Adapter returns from MkSort; murxla never
// inspects its internals, only threads it back through later calls.
type Sort interface{}

// Term is an opaque handle an Adapter returns from MkTerm/MkConst/MkValue.
type Term interface{}

// SortParams carries the construction arguments for a compound sort
// (bit-vector width, array index/element sorts, function domain/codomain,
// floating-point exponent/significand widths).
type SortParams struct {
	BVSize      uint32
	ArrayIndex  Sort
	ArrayElem   Sort
	FunDomain   []Sort
	FunCodomain Sort
	FPExpSize   uint32
	FPSigSize   uint32
}

// Adapter is the capability surface a back-end must implement. Every method
// may return a *merr.SolverError-wrapped error; it is the caller's job
// (internal/fsm) to decide whether that is fatal.
type Adapter interface {
	Name() string

	// SupportedTheories restricts theory.Enabled's backendSupported input;
	// a nil result means "no restriction beyond the built-in catalog".
	SupportedTheories() []theory.ID
	// UnsupportedOps lists operator kinds this back-end cannot construct;
	// the FSM must not pick them as MK_TERM candidates.
	UnsupportedOps() []theory.Kind

	MkSort(kind theory.SortKind, params SortParams) (Sort, error)
	MkConst(sort Sort, symbol string) (Term, error)
	MkVar(sort Sort, symbol string) (Term, error)
	MkValue(sort Sort, value string) (Term, error)
	MkSpecialValue(sort Sort, name string) (Term, error)
	MkTerm(kind theory.Kind, sort Sort, args []Term, indices []uint32) (Term, error)

	AssertFormula(t Term) error
	CheckSat() (CheckSatResult, error)
	CheckSatAssuming(assumptions []Term) (CheckSatResult, error)
	Push(levels uint32) error
	Pop(levels uint32) error

	GetValue(terms []Term) ([]Term, error)
	GetUnsatCore() ([]Term, error)
	GetUnsatAssumptions() ([]Term, error)
	PrintModel() (string, error)

	SetOpt(opt, value string) error
	Options() []Option

	// OptIncremental, OptProduceModels, OptProduceUnsatCores, and
	// OptProduceUnsatAssumptions name the option this back-end uses to
	// control incrementality/model generation/unsat-core/unsat-assumption
	// production, or "" if it has no such option (in which case the
	// matching Is*/*Enabled getter reports the back-end's fixed default).
	OptIncremental() string
	OptProduceModels() string
	OptProduceUnsatCores() string
	OptProduceUnsatAssumptions() string

	// IsIncremental, ModelsEnabled, UnsatCoresEnabled, and
	// UnsatAssumptionsEnabled report the current state of those options,
	// gating P6 ("check-sat-assuming only when incremental; get-unsat-core
	// only when unsat-cores are enabled").
	IsIncremental() bool
	ModelsEnabled() bool
	UnsatCoresEnabled() bool
	UnsatAssumptionsEnabled() bool

	Reset() error
	ResetAssertions() error
	Close() error
}

// Option describes one fuzzable solver option, the Go analogue of
// btor_solver.hpp's boolean/enum/numeric option table.
type Option struct {
	Name     string
	Kind     OptionKind
	Values   []string // for OptionKindEnum
	Min, Max int64     // for OptionKindNumeric
}

// OptionKind distinguishes the shape of an Option's legal values.
type OptionKind string

const (
	OptionKindBool    OptionKind = "bool"
	OptionKindEnum    OptionKind = "enum"
	OptionKindNumeric OptionKind = "numeric"
)

// ErrUnsupported is returned by an Adapter method when the requested
// operation, sort, or option is outside that back-end's capability set.
type ErrUnsupported struct {
	Backend, What string
}

func (e *ErrUnsupported) Error() string {
	return fmt.Sprintf("solver: %s does not support %s", e.Backend, e.What)
}
