package theory

import "sort"

// Kind is a stable string identifier for an operator, e.g. OP_BV_ADD. Kept
// as a string (never an integer enum) so trace files stay portable across
// back-ends, per spec.md §4.2/§9.
type Kind string

// UndefinedOp is returned by selection when no operator is currently
// satisfiable (spec.md §4.3, pick_op contract).
const UndefinedOp Kind = "OP_UNDEFINED"

// Common fixed arities. A negative Op.Arity n (the sentinels
// config.MkTermNArgs/MkTermNArgsBin) means "at least |n| arguments."
const (
	ArityUnary  = 1
	ArityBinary = 2
)

// Op describes one operator's typing contract.
type Op struct {
	Kind Kind
	// Theory the op belongs to.
	Theory ID
	// Arity is the number of term arguments: >=0 is exact, <0 means
	// "at least |Arity|."
	Arity int
	// NParams is the number of compile-time integer indices (e.g.
	// extract's hi/lo).
	NParams int
	// ResultKind is the sort kind of the term this op produces, or SortAny
	// if it is inferred from the arguments.
	ResultKind SortKind
	// ArgKinds are the required sort kinds of each argument; SortAny means
	// "any kind, unified with the other ANY slots," per spec.md §4.4.
	ArgKinds []SortKind
	// SolverPrefix is set for back-end-specific operators added at
	// configuration time; empty for the standard catalog.
	SolverPrefix string
}

// IsVariadic reports whether the op accepts more arguments than its
// nominal arity (a negative Arity, meaning "at least |Arity|").
func (o Op) IsVariadic() bool { return o.Arity < 0 }

// MinArgs returns the minimum number of term arguments this op accepts.
func (o Op) MinArgs() int {
	if o.Arity < 0 {
		return -o.Arity
	}
	return o.Arity
}

// catalog is the full standard operator table, keyed by stable string
// kind, following the same map-literal-plus-init() shape as
// internal/opcode.opCodeInfos.
var catalog = map[Kind]Op{
	"OP_DISTINCT": {Theory: All, Arity: -2, ResultKind: SortBool, ArgKinds: []SortKind{SortAny}},
	"OP_EQUAL":    {Theory: All, Arity: 2, ResultKind: SortBool, ArgKinds: []SortKind{SortAny, SortAny}},
	"OP_ITE":      {Theory: All, Arity: 3, ResultKind: SortAny, ArgKinds: []SortKind{SortBool, SortAny, SortAny}},

	"OP_AND":  {Theory: Bool, Arity: -2, ResultKind: SortBool, ArgKinds: []SortKind{SortBool}},
	"OP_OR":   {Theory: Bool, Arity: -2, ResultKind: SortBool, ArgKinds: []SortKind{SortBool}},
	"OP_NOT":  {Theory: Bool, Arity: 1, ResultKind: SortBool, ArgKinds: []SortKind{SortBool}},
	"OP_XOR":  {Theory: Bool, Arity: 2, ResultKind: SortBool, ArgKinds: []SortKind{SortBool, SortBool}},
	"OP_IMPLIES": {Theory: Bool, Arity: 2, ResultKind: SortBool, ArgKinds: []SortKind{SortBool, SortBool}},

	"OP_BV_ADD":    {Theory: BV, Arity: -2, ResultKind: SortBV, ArgKinds: []SortKind{SortBV}},
	"OP_BV_SUB":    {Theory: BV, Arity: 2, ResultKind: SortBV, ArgKinds: []SortKind{SortBV, SortBV}},
	"OP_BV_MUL":    {Theory: BV, Arity: -2, ResultKind: SortBV, ArgKinds: []SortKind{SortBV}},
	"OP_BV_UDIV":   {Theory: BV, Arity: 2, ResultKind: SortBV, ArgKinds: []SortKind{SortBV, SortBV}},
	"OP_BV_SDIV":   {Theory: BV, Arity: 2, ResultKind: SortBV, ArgKinds: []SortKind{SortBV, SortBV}},
	"OP_BV_UREM":   {Theory: BV, Arity: 2, ResultKind: SortBV, ArgKinds: []SortKind{SortBV, SortBV}},
	"OP_BV_SREM":   {Theory: BV, Arity: 2, ResultKind: SortBV, ArgKinds: []SortKind{SortBV, SortBV}},
	"OP_BV_NOT":    {Theory: BV, Arity: 1, ResultKind: SortBV, ArgKinds: []SortKind{SortBV}},
	"OP_BV_NEG":    {Theory: BV, Arity: 1, ResultKind: SortBV, ArgKinds: []SortKind{SortBV}},
	"OP_BV_AND":    {Theory: BV, Arity: -2, ResultKind: SortBV, ArgKinds: []SortKind{SortBV}},
	"OP_BV_OR":     {Theory: BV, Arity: -2, ResultKind: SortBV, ArgKinds: []SortKind{SortBV}},
	"OP_BV_XOR":    {Theory: BV, Arity: -2, ResultKind: SortBV, ArgKinds: []SortKind{SortBV}},
	"OP_BV_SHL":    {Theory: BV, Arity: 2, ResultKind: SortBV, ArgKinds: []SortKind{SortBV, SortBV}},
	"OP_BV_LSHR":   {Theory: BV, Arity: 2, ResultKind: SortBV, ArgKinds: []SortKind{SortBV, SortBV}},
	"OP_BV_ASHR":   {Theory: BV, Arity: 2, ResultKind: SortBV, ArgKinds: []SortKind{SortBV, SortBV}},
	"OP_BV_CONCAT": {Theory: BV, Arity: -2, ResultKind: SortBV, ArgKinds: []SortKind{SortBV}},
	"OP_BV_ULT":    {Theory: BV, Arity: 2, ResultKind: SortBool, ArgKinds: []SortKind{SortBV, SortBV}},
	"OP_BV_ULE":    {Theory: BV, Arity: 2, ResultKind: SortBool, ArgKinds: []SortKind{SortBV, SortBV}},
	"OP_BV_UGT":    {Theory: BV, Arity: 2, ResultKind: SortBool, ArgKinds: []SortKind{SortBV, SortBV}},
	"OP_BV_UGE":    {Theory: BV, Arity: 2, ResultKind: SortBool, ArgKinds: []SortKind{SortBV, SortBV}},
	"OP_BV_SLT":    {Theory: BV, Arity: 2, ResultKind: SortBool, ArgKinds: []SortKind{SortBV, SortBV}},
	"OP_BV_SLE":    {Theory: BV, Arity: 2, ResultKind: SortBool, ArgKinds: []SortKind{SortBV, SortBV}},
	"OP_BV_SGT":    {Theory: BV, Arity: 2, ResultKind: SortBool, ArgKinds: []SortKind{SortBV, SortBV}},
	"OP_BV_SGE":    {Theory: BV, Arity: 2, ResultKind: SortBool, ArgKinds: []SortKind{SortBV, SortBV}},
	"OP_BV_EXTRACT": {Theory: BV, Arity: 1, NParams: 2, ResultKind: SortBV, ArgKinds: []SortKind{SortBV}},
	"OP_BV_REPEAT":  {Theory: BV, Arity: 1, NParams: 1, ResultKind: SortBV, ArgKinds: []SortKind{SortBV}},
	"OP_BV_ROTATE_LEFT":  {Theory: BV, Arity: 1, NParams: 1, ResultKind: SortBV, ArgKinds: []SortKind{SortBV}},
	"OP_BV_ROTATE_RIGHT": {Theory: BV, Arity: 1, NParams: 1, ResultKind: SortBV, ArgKinds: []SortKind{SortBV}},
	"OP_BV_SIGN_EXTEND": {Theory: BV, Arity: 1, NParams: 1, ResultKind: SortBV, ArgKinds: []SortKind{SortBV}},
	"OP_BV_ZERO_EXTEND": {Theory: BV, Arity: 1, NParams: 1, ResultKind: SortBV, ArgKinds: []SortKind{SortBV}},

	"OP_INT_NEG":   {Theory: Int, Arity: 1, ResultKind: SortInt, ArgKinds: []SortKind{SortInt}},
	"OP_INT_ADD":   {Theory: Int, Arity: -2, ResultKind: SortReal, ArgKinds: []SortKind{SortAny}},
	"OP_INT_SUB":   {Theory: Int, Arity: -2, ResultKind: SortReal, ArgKinds: []SortKind{SortAny}},
	"OP_INT_MUL":   {Theory: Int, Arity: -2, ResultKind: SortReal, ArgKinds: []SortKind{SortAny}},
	"OP_INT_DIV":   {Theory: Int, Arity: 2, ResultKind: SortInt, ArgKinds: []SortKind{SortInt, SortInt}},
	"OP_INT_MOD":   {Theory: Int, Arity: 2, ResultKind: SortInt, ArgKinds: []SortKind{SortInt, SortInt}},
	"OP_INT_ABS":   {Theory: Int, Arity: 1, ResultKind: SortInt, ArgKinds: []SortKind{SortInt}},
	"OP_INT_LT":    {Theory: Int, Arity: 2, ResultKind: SortBool, ArgKinds: []SortKind{SortAny, SortAny}},
	"OP_INT_LE":    {Theory: Int, Arity: 2, ResultKind: SortBool, ArgKinds: []SortKind{SortAny, SortAny}},
	"OP_INT_GT":    {Theory: Int, Arity: 2, ResultKind: SortBool, ArgKinds: []SortKind{SortAny, SortAny}},
	"OP_INT_GE":    {Theory: Int, Arity: 2, ResultKind: SortBool, ArgKinds: []SortKind{SortAny, SortAny}},
	"OP_INT_IS_DIV": {Theory: Int, Arity: 2, NParams: 1, ResultKind: SortBool, ArgKinds: []SortKind{SortInt}},

	"OP_REAL_NEG": {Theory: Real, Arity: 1, ResultKind: SortReal, ArgKinds: []SortKind{SortReal}},
	"OP_REAL_DIV": {Theory: Real, Arity: 2, ResultKind: SortReal, ArgKinds: []SortKind{SortReal, SortReal}},

	"OP_ARRAY_SELECT": {Theory: Array, Arity: 2, ResultKind: SortAny, ArgKinds: []SortKind{SortArray, SortAny}},
	"OP_ARRAY_STORE":  {Theory: Array, Arity: 3, ResultKind: SortArray, ArgKinds: []SortKind{SortArray, SortAny, SortAny}},

	"OP_UF_APPLY": {Theory: UF, Arity: -1, ResultKind: SortAny, ArgKinds: []SortKind{SortFun}},

	"OP_FP_ABS":       {Theory: FP, Arity: 1, ResultKind: SortFP, ArgKinds: []SortKind{SortFP}},
	"OP_FP_NEG":       {Theory: FP, Arity: 1, ResultKind: SortFP, ArgKinds: []SortKind{SortFP}},
	"OP_FP_ADD":       {Theory: FP, Arity: 3, ResultKind: SortFP, ArgKinds: []SortKind{SortRM, SortFP, SortFP}},
	"OP_FP_SUB":       {Theory: FP, Arity: 3, ResultKind: SortFP, ArgKinds: []SortKind{SortRM, SortFP, SortFP}},
	"OP_FP_MUL":       {Theory: FP, Arity: 3, ResultKind: SortFP, ArgKinds: []SortKind{SortRM, SortFP, SortFP}},
	"OP_FP_DIV":       {Theory: FP, Arity: 3, ResultKind: SortFP, ArgKinds: []SortKind{SortRM, SortFP, SortFP}},
	"OP_FP_SQRT":      {Theory: FP, Arity: 2, ResultKind: SortFP, ArgKinds: []SortKind{SortRM, SortFP}},
	"OP_FP_LT":        {Theory: FP, Arity: 2, ResultKind: SortBool, ArgKinds: []SortKind{SortFP, SortFP}},
	"OP_FP_LEQ":       {Theory: FP, Arity: 2, ResultKind: SortBool, ArgKinds: []SortKind{SortFP, SortFP}},
	"OP_FP_IS_NAN":    {Theory: FP, Arity: 1, ResultKind: SortBool, ArgKinds: []SortKind{SortFP}},
	"OP_FP_TO_SBV":    {Theory: FP, Arity: 2, NParams: 1, ResultKind: SortBV, ArgKinds: []SortKind{SortRM, SortFP}},
	"OP_FP_TO_FP_FROM_FP": {Theory: FP, Arity: 2, NParams: 2, ResultKind: SortFP, ArgKinds: []SortKind{SortRM, SortFP}},

	"OP_STR_CONCAT":  {Theory: String, Arity: -2, ResultKind: SortString, ArgKinds: []SortKind{SortString}},
	"OP_STR_LEN":     {Theory: String, Arity: 1, ResultKind: SortInt, ArgKinds: []SortKind{SortString}},
	"OP_STR_SUBSTR":  {Theory: String, Arity: 3, ResultKind: SortString, ArgKinds: []SortKind{SortString, SortInt, SortInt}},
	"OP_STR_AT":      {Theory: String, Arity: 2, ResultKind: SortString, ArgKinds: []SortKind{SortString, SortInt}},
	"OP_STR_CONTAINS": {Theory: String, Arity: 2, ResultKind: SortBool, ArgKinds: []SortKind{SortString, SortString}},
	"OP_STR_TO_RE":   {Theory: RegLan, Arity: 1, ResultKind: SortRegLan, ArgKinds: []SortKind{SortString}},
	"OP_STR_IN_RE":   {Theory: RegLan, Arity: 2, ResultKind: SortBool, ArgKinds: []SortKind{SortString, SortRegLan}},

	"OP_SEQ_CONCAT": {Theory: Seq, Arity: -2, ResultKind: SortSeq, ArgKinds: []SortKind{SortSeq}},
	"OP_SEQ_LEN":    {Theory: Seq, Arity: 1, ResultKind: SortInt, ArgKinds: []SortKind{SortSeq}},
	"OP_SEQ_UNIT":   {Theory: Seq, Arity: 1, ResultKind: SortSeq, ArgKinds: []SortKind{SortAny}},

	"OP_SET_UNION":     {Theory: Set, Arity: 2, ResultKind: SortSet, ArgKinds: []SortKind{SortSet, SortSet}},
	"OP_SET_INTERSECT": {Theory: Set, Arity: 2, ResultKind: SortSet, ArgKinds: []SortKind{SortSet, SortSet}},
	"OP_SET_MEMBER":    {Theory: Set, Arity: 2, ResultKind: SortBool, ArgKinds: []SortKind{SortAny, SortSet}},
	"OP_SET_SINGLETON": {Theory: Set, Arity: 1, ResultKind: SortSet, ArgKinds: []SortKind{SortAny}},

	"OP_BAG_UNION_MAX": {Theory: Bag, Arity: 2, ResultKind: SortBag, ArgKinds: []SortKind{SortBag, SortBag}},
	"OP_BAG_COUNT":     {Theory: Bag, Arity: 2, ResultKind: SortInt, ArgKinds: []SortKind{SortAny, SortBag}},

	"OP_TRANS_SINE": {Theory: Transcendental, Arity: 1, ResultKind: SortReal, ArgKinds: []SortKind{SortReal}},
	"OP_TRANS_PI":   {Theory: Transcendental, Arity: 0, ResultKind: SortReal, ArgKinds: nil},

	"OP_FORALL": {Theory: Quant, Arity: -2, ResultKind: SortBool, ArgKinds: []SortKind{SortAny}},
	"OP_EXISTS": {Theory: Quant, Arity: -2, ResultKind: SortBool, ArgKinds: []SortKind{SortAny}},

	"OP_DT_APPLY_CONSTRUCTOR": {Theory: DT, Arity: -1, ResultKind: SortDT, ArgKinds: []SortKind{SortAny}},
	"OP_DT_APPLY_SELECTOR":    {Theory: DT, Arity: 1, ResultKind: SortAny, ArgKinds: []SortKind{SortDT}},
	"OP_DT_APPLY_TESTER":      {Theory: DT, Arity: 1, ResultKind: SortBool, ArgKinds: []SortKind{SortDT}},
}

func init() {
	for k, op := range catalog {
		op.Kind = k
		catalog[k] = op
	}
}

// Catalog returns the full standard operator table. Callers that need a
// filtered view should use Registry.
func Catalog() map[Kind]Op {
	out := make(map[Kind]Op, len(catalog))
	for k, v := range catalog {
		out[k] = v
	}
	return out
}

// Registry is a per-back-end view of the operator catalog: a configured
// back-end may remove operators, tighten domains/codomains, or add
// solver-specific operators (tagged with SolverPrefix), per spec.md §4.2.
type Registry struct {
	ops map[Kind]Op
}

// NewRegistry builds a Registry from the standard catalog.
func NewRegistry() *Registry {
	return &Registry{ops: Catalog()}
}

// Remove deletes an operator kind from the registry.
func (r *Registry) Remove(k Kind) { delete(r.ops, k) }

// Add inserts or overrides an operator, e.g. a back-end-specific op whose
// Kind carries the back-end's prefix.
func (r *Registry) Add(op Op) { r.ops[op.Kind] = op }

// Lookup returns the Op for a kind and whether it is registered.
func (r *Registry) Lookup(k Kind) (Op, bool) {
	op, ok := r.ops[k]
	return op, ok
}

// OpsOfTheory returns every registered op belonging to a theory, sorted by
// Kind. Traces must be byte-identical for a repeated seed (spec.md §8
// scenario 4), so iteration order here can never depend on Go's
// randomized map ranging.
func (r *Registry) OpsOfTheory(t ID) []Op {
	var out []Op
	for _, op := range r.ops {
		if op.Theory == t {
			out = append(out, op)
		}
	}
	sortOpsByKind(out)
	return out
}

// All returns every registered op, sorted by Kind for the same
// determinism reason as OpsOfTheory.
func (r *Registry) All() []Op {
	out := make([]Op, 0, len(r.ops))
	for _, op := range r.ops {
		out = append(out, op)
	}
	sortOpsByKind(out)
	return out
}

func sortOpsByKind(ops []Op) {
	sort.Slice(ops, func(i, j int) bool { return ops[i].Kind < ops[j].Kind })
}
