// Package theory is the static catalog of SMT theories, sort kinds, and
// operators murxla draws from, keyed by stable strings the way
// internal/opcode keys EVM opcodes so that trace files stay portable across
// back-ends.
package theory

// ID identifies an SMT-LIB theory (plus the synthetic "all theories").
type ID string

const (
	Array         ID = "THEORY_ARRAY"
	Bag           ID = "THEORY_BAG"
	Bool          ID = "THEORY_BOOL"
	BV            ID = "THEORY_BV"
	DT            ID = "THEORY_DT"
	FP            ID = "THEORY_FP"
	Int           ID = "THEORY_INT"
	Quant         ID = "THEORY_QUANT"
	Real          ID = "THEORY_REAL"
	Seq           ID = "THEORY_SEQ"
	Set           ID = "THEORY_SET"
	String        ID = "THEORY_STRING"
	Transcendental ID = "THEORY_TRANSCENDENTAL"
	UF            ID = "THEORY_UF"
	RegLan        ID = "THEORY_REGLAN"
	RM            ID = "THEORY_RM"
	All           ID = "THEORY_ALL"
)

// All16 is the full enumerated theory set named in spec.md §2.
var All16 = []ID{
	Array, Bag, Bool, BV, DT, FP, Int, Real, Quant, Seq, Set, String,
	Transcendental, UF, RegLan, RM,
}

func (t ID) String() string { return string(t) }

// SortKind is the closed enumeration of sort shapes a Sort can take.
type SortKind string

const (
	SortArray         SortKind = "SORT_ARRAY"
	SortBag           SortKind = "SORT_BAG"
	SortBool          SortKind = "SORT_BOOL"
	SortBV            SortKind = "SORT_BV"
	SortDT            SortKind = "SORT_DT"
	SortFP            SortKind = "SORT_FP"
	SortFun           SortKind = "SORT_FUN"
	SortInt           SortKind = "SORT_INT"
	SortReal          SortKind = "SORT_REAL"
	SortRegLan        SortKind = "SORT_REGLAN"
	SortRM            SortKind = "SORT_RM"
	SortSeq           SortKind = "SORT_SEQ"
	SortSet           SortKind = "SORT_SET"
	SortString        SortKind = "SORT_STRING"
	SortUninterpreted SortKind = "SORT_UNINTERPRETED"
	// SortAny is a wildcard, resolved at sort-construction or
	// argument-selection time; never a live Sort's final kind.
	SortAny SortKind = "SORT_ANY"
)

func (k SortKind) String() string { return string(k) }

// AllSortKinds is the closed enumeration in a fixed order, used wherever
// code must iterate "every sort kind" deterministically instead of
// ranging a map (map iteration order is randomized per-process in Go,
// which would make identical seeds sample different sequences).
var AllSortKinds = []SortKind{
	SortArray, SortBag, SortBool, SortBV, SortDT, SortFP, SortFun, SortInt,
	SortReal, SortRegLan, SortRM, SortSeq, SortSet, SortString,
	SortUninterpreted,
}

// SortKindsOf returns the sort kinds a theory contributes, per spec.md §4.2.
func SortKindsOf(t ID) []SortKind {
	switch t {
	case Array:
		return []SortKind{SortArray}
	case Bag:
		return []SortKind{SortBag}
	case Bool:
		return []SortKind{SortBool}
	case BV:
		return []SortKind{SortBV}
	case DT:
		return []SortKind{SortDT}
	case FP:
		return []SortKind{SortFP, SortRM}
	case Int:
		return []SortKind{SortInt}
	case Real:
		return []SortKind{SortReal}
	case Seq:
		return []SortKind{SortSeq}
	case Set:
		return []SortKind{SortSet}
	case String:
		return []SortKind{SortString, SortRegLan}
	case UF:
		return []SortKind{SortFun, SortUninterpreted}
	case RegLan:
		return []SortKind{SortRegLan}
	case RM:
		return []SortKind{SortRM}
	case Quant, Transcendental:
		return nil
	}
	return nil
}

// Enabled computes the intersection of user-requested theories, the
// back-end's supported theories, and the always-on Bool theory, minus the
// user's explicit disabled set. Defaults exclude Bag, Seq, Set (see
// config.DefaultDisabledTheories).
func Enabled(requested, backendSupported, disabled []ID) []ID {
	supported := toSet(backendSupported)
	disabledSet := toSet(disabled)

	var base []ID
	if len(requested) == 0 {
		base = append([]ID{}, All16...)
	} else {
		base = append([]ID{}, requested...)
	}

	seen := map[ID]bool{}
	var out []ID
	add := func(id ID) {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	add(Bool)
	for _, t := range base {
		if disabledSet[t] {
			continue
		}
		if len(supported) > 0 && !supported[t] {
			continue
		}
		add(t)
	}
	return out
}

func toSet(ids []ID) map[ID]bool {
	m := make(map[ID]bool, len(ids))
	for _, id := range ids {
		m[id] = true
	}
	return m
}
