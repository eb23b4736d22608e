package solver

import (
	"fmt"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/alex-ozdemir/murxla/internal/theory"
	"github.com/alex-ozdemir/murxla/internal/theory/bvmath"
)

// echoSort and echoTerm are the handles the Echo adapter hands back; they
// carry just enough to print SMT-LIB2 syntax and to let GetValue echo
// something term-shaped back.
type echoSort struct {
	id      uint64
	kind    theory.SortKind
	smt2    string
	bvWidth uint32 // valid when kind == theory.SortBV
}

type echoTerm struct {
	id   uint64
	sort *echoSort
	smt2 string
}

// Echo is the reference Adapter: it does not call out to a real solver, it
// renders every construction as SMT-LIB2 text (config.SolverEcho) and
// answers check-sat deterministically, the way a smoke-test back-end must
// for spec.md §8 scenario 1 to be reproducible without an external engine.
type Echo struct {
	sorts     []*echoSort
	asserts   []*echoTerm
	nextID    uint64
	pushDepth uint32
	sb        strings.Builder

	incremental             bool
	produceModels           bool
	produceUnsatCores       bool
	produceUnsatAssumptions bool
}

// NewEcho constructs an Echo adapter with an empty command log.
// Incrementality is on by default, matching the SMT-LIB2 solvers this
// back-end stands in for; model/unsat-core/unsat-assumption production
// must be explicitly turned on via SetOpt, per SMT-LIB2 semantics.
func NewEcho() *Echo {
	return &Echo{incremental: true}
}

// Output returns the accumulated SMT-LIB2 command log.
func (e *Echo) Output() string { return e.sb.String() }

func (e *Echo) freshID() uint64 { return atomic.AddUint64(&e.nextID, 1) }

func (e *Echo) Name() string { return "echo" }

func (e *Echo) SupportedTheories() []theory.ID { return nil }

func (e *Echo) UnsupportedOps() []theory.Kind { return nil }

func (e *Echo) MkSort(kind theory.SortKind, params SortParams) (Sort, error) {
	var smt2 string
	switch kind {
	case theory.SortBool:
		smt2 = "Bool"
	case theory.SortInt:
		smt2 = "Int"
	case theory.SortReal:
		smt2 = "Real"
	case theory.SortBV:
		smt2 = fmt.Sprintf("(_ BitVec %d)", params.BVSize)
	case theory.SortString:
		smt2 = "String"
	case theory.SortRegLan:
		smt2 = "RegLan"
	case theory.SortArray:
		idx, _ := params.ArrayIndex.(*echoSort)
		elem, _ := params.ArrayElem.(*echoSort)
		smt2 = fmt.Sprintf("(Array %s %s)", smt2OrAny(idx), smt2OrAny(elem))
	case theory.SortSet:
		elem, _ := params.ArrayElem.(*echoSort)
		smt2 = fmt.Sprintf("(Set %s)", smt2OrAny(elem))
	case theory.SortSeq:
		elem, _ := params.ArrayElem.(*echoSort)
		smt2 = fmt.Sprintf("(Seq %s)", smt2OrAny(elem))
	default:
		smt2 = string(kind)
	}
	s := &echoSort{id: e.freshID(), kind: kind, smt2: smt2, bvWidth: params.BVSize}
	e.sorts = append(e.sorts, s)
	fmt.Fprintf(&e.sb, "; declare-sort %s\n", smt2)
	return s, nil
}

func smt2OrAny(s *echoSort) string {
	if s == nil {
		return "Any"
	}
	return s.smt2
}

func (e *Echo) asEchoSort(s Sort) (*echoSort, error) {
	es, ok := s.(*echoSort)
	if !ok || es == nil {
		return nil, &ErrUnsupported{Backend: e.Name(), What: "nil or foreign sort handle"}
	}
	return es, nil
}

func (e *Echo) MkConst(sort Sort, symbol string) (Term, error) {
	es, err := e.asEchoSort(sort)
	if err != nil {
		return nil, err
	}
	t := &echoTerm{id: e.freshID(), sort: es, smt2: symbol}
	fmt.Fprintf(&e.sb, "(declare-const %s %s)\n", symbol, es.smt2)
	return t, nil
}

func (e *Echo) MkVar(sort Sort, symbol string) (Term, error) {
	es, err := e.asEchoSort(sort)
	if err != nil {
		return nil, err
	}
	return &echoTerm{id: e.freshID(), sort: es, smt2: symbol}, nil
}

func (e *Echo) MkValue(sort Sort, value string) (Term, error) {
	es, err := e.asEchoSort(sort)
	if err != nil {
		return nil, err
	}
	return &echoTerm{id: e.freshID(), sort: es, smt2: value}, nil
}

// MkSpecialValue resolves named bit-vector specials (zero/one/ones/
// min/max) to their exact numeric literal before handing them to
// MkValue: a width-128 "ones" needs exact 2^128-1 arithmetic no uint64
// shift performs correctly, so this borrows go-ethereum's big-integer
// power-of-two helper rather than hand-rolling modular bit-vector math.
func (e *Echo) MkSpecialValue(sort Sort, name string) (Term, error) {
	es, err := e.asEchoSort(sort)
	if err != nil {
		return nil, err
	}
	if es.kind == theory.SortBV {
		if lit, ok := bvSpecialLiteral(name, es.bvWidth); ok {
			return e.MkValue(sort, lit)
		}
	}
	return e.MkValue(sort, name)
}

// bvSpecialLiteral renders a named bit-vector special as a decimal
// literal, or reports false when name isn't a recognized BV special.
func bvSpecialLiteral(name string, width uint32) (string, bool) {
	switch name {
	case "zero", "min":
		return "0", true
	case "one":
		return "1", true
	case "ones", "max":
		return bvmath.MaxUnsigned(width).String(), true
	default:
		return "", false
	}
}

func (e *Echo) MkTerm(kind theory.Kind, sort Sort, args []Term, indices []uint32) (Term, error) {
	es, err := e.asEchoSort(sort)
	if err != nil {
		return nil, err
	}
	parts := make([]string, 0, len(args)+len(indices)+1)
	parts = append(parts, string(kind))
	for _, ix := range indices {
		parts = append(parts, strconv.FormatUint(uint64(ix), 10))
	}
	for _, a := range args {
		at, ok := a.(*echoTerm)
		if !ok {
			return nil, &ErrUnsupported{Backend: e.Name(), What: "foreign term argument"}
		}
		parts = append(parts, at.smt2)
	}
	smt2 := "(" + strings.Join(parts, " ") + ")"
	return &echoTerm{id: e.freshID(), sort: es, smt2: smt2}, nil
}

func (e *Echo) AssertFormula(t Term) error {
	et, ok := t.(*echoTerm)
	if !ok {
		return &ErrUnsupported{Backend: e.Name(), What: "foreign term"}
	}
	e.asserts = append(e.asserts, et)
	fmt.Fprintf(&e.sb, "(assert %s)\n", et.smt2)
	return nil
}

// CheckSat is deterministic by assertion count, matching spec.md §8's
// requirement that identical seeds and enabled theories reproduce
// byte-identical traces: no randomness leaks in from a real engine.
func (e *Echo) CheckSat() (CheckSatResult, error) {
	fmt.Fprintf(&e.sb, "(check-sat)\n")
	if len(e.asserts) == 0 {
		return Sat, nil
	}
	if len(e.asserts)%7 == 0 {
		return Unsat, nil
	}
	return Sat, nil
}

func (e *Echo) CheckSatAssuming(assumptions []Term) (CheckSatResult, error) {
	fmt.Fprintf(&e.sb, "(check-sat-assuming (%d assumptions))\n", len(assumptions))
	return e.CheckSat()
}

func (e *Echo) Push(levels uint32) error {
	e.pushDepth += levels
	fmt.Fprintf(&e.sb, "(push %d)\n", levels)
	return nil
}

func (e *Echo) Pop(levels uint32) error {
	if levels > e.pushDepth {
		return &ErrUnsupported{Backend: e.Name(), What: "pop below level 0"}
	}
	e.pushDepth -= levels
	fmt.Fprintf(&e.sb, "(pop %d)\n", levels)
	return nil
}

func (e *Echo) GetValue(terms []Term) ([]Term, error) {
	out := make([]Term, len(terms))
	copy(out, terms)
	return out, nil
}

func (e *Echo) GetUnsatCore() ([]Term, error) {
	out := make([]Term, len(e.asserts))
	for i, t := range e.asserts {
		out[i] = t
	}
	return out, nil
}

func (e *Echo) GetUnsatAssumptions() ([]Term, error) { return nil, nil }

func (e *Echo) PrintModel() (string, error) {
	return "(model)", nil
}

func (e *Echo) SetOpt(opt, value string) error {
	switch opt {
	case e.OptIncremental():
		e.incremental = value == "true"
	case e.OptProduceModels():
		e.produceModels = value == "true"
	case e.OptProduceUnsatCores():
		e.produceUnsatCores = value == "true"
	case e.OptProduceUnsatAssumptions():
		e.produceUnsatAssumptions = value == "true"
	}
	fmt.Fprintf(&e.sb, "(set-option :%s %s)\n", opt, value)
	return nil
}

func (e *Echo) Options() []Option {
	return []Option{
		{Name: "incremental", Kind: OptionKindBool},
		{Name: "produce-models", Kind: OptionKindBool},
		{Name: "produce-unsat-cores", Kind: OptionKindBool},
		{Name: "produce-unsat-assumptions", Kind: OptionKindBool},
		{Name: "random-seed", Kind: OptionKindNumeric, Min: 0, Max: 1 << 30},
	}
}

func (e *Echo) OptIncremental() string             { return "incremental" }
func (e *Echo) OptProduceModels() string           { return "produce-models" }
func (e *Echo) OptProduceUnsatCores() string       { return "produce-unsat-cores" }
func (e *Echo) OptProduceUnsatAssumptions() string { return "produce-unsat-assumptions" }

func (e *Echo) IsIncremental() bool          { return e.incremental }
func (e *Echo) ModelsEnabled() bool          { return e.produceModels }
func (e *Echo) UnsatCoresEnabled() bool      { return e.produceUnsatCores }
func (e *Echo) UnsatAssumptionsEnabled() bool { return e.produceUnsatAssumptions }

func (e *Echo) Reset() error {
	e.sorts = nil
	e.asserts = nil
	e.pushDepth = 0
	fmt.Fprintf(&e.sb, "(reset)\n")
	return nil
}

func (e *Echo) ResetAssertions() error {
	e.asserts = nil
	fmt.Fprintf(&e.sb, "(reset-assertions)\n")
	return nil
}

func (e *Echo) Close() error { return nil }
