package solver

import (
	"strconv"

	"github.com/alex-ozdemir/murxla/internal/rng"
)

// OptionFuzzer perturbs a back-end's reported Option set; SET_OPT uses it
// only when config.Options.FuzzOptions is set. It samples among all the
// options the back-end reports; FuzzOptsWildcards is not applied. It is
// the Go rendition of btor_solver.hpp's option-randomization hooks.
type OptionFuzzer struct {
	g *rng.Generator
}

// NewOptionFuzzer builds a fuzzer drawing from the given random source.
func NewOptionFuzzer(g *rng.Generator) *OptionFuzzer {
	return &OptionFuzzer{g: g}
}

// PickValue returns a syntactically valid value string for opt, sampled
// uniformly over its declared domain.
func (f *OptionFuzzer) PickValue(opt Option) string {
	switch opt.Kind {
	case OptionKindBool:
		if f.g.Flip(50) {
			return "true"
		}
		return "false"
	case OptionKindEnum:
		v, ok := rng.PickFromSlice(f.g, opt.Values)
		if !ok {
			return ""
		}
		return v
	case OptionKindNumeric:
		lo, hi := opt.Min, opt.Max
		if hi < lo {
			lo, hi = hi, lo
		}
		span := uint64(hi - lo + 1)
		return strconv.FormatInt(lo+int64(f.g.Uint32(uint32(span))), 10)
	}
	return ""
}

// FuzzAll applies SetOpt to every option the Adapter reports, one random
// value each, and returns the first error encountered, if any.
func (f *OptionFuzzer) FuzzAll(a Adapter) error {
	for _, opt := range a.Options() {
		if err := a.SetOpt(opt.Name, f.PickValue(opt)); err != nil {
			return err
		}
	}
	return nil
}

// PickOption returns a uniformly random option from a back-end's set, or
// false if it reports none.
func (f *OptionFuzzer) PickOption(a Adapter) (Option, bool) {
	opts := a.Options()
	return rng.PickFromSlice(f.g, opts)
}
