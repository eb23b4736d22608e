// Package actions is the concrete Action catalog the FSM drives: each
// type here implements fsm.Action against a shared Env (the live
// database, the back-end adapter, and the static registries), pairing a
// sampling Run with an id-resolving Replay. Each Action is a small
// self-contained unit covering one solver-API call against smgr.DB and
// solver.Adapter.
package actions

import (
	"github.com/alex-ozdemir/murxla/internal/config"
	"github.com/alex-ozdemir/murxla/internal/smgr"
	"github.com/alex-ozdemir/murxla/internal/solver"
	"github.com/alex-ozdemir/murxla/internal/stats"
	"github.com/alex-ozdemir/murxla/internal/theory"
)

// Env is the shared state every Action reads and mutates. It is
// constructed once per run and threaded through every action.
type Env struct {
	DB       *smgr.DB
	Adapter  solver.Adapter
	Registry *theory.Registry
	Enabled  []theory.ID
	Options  config.Options
	Stats    *stats.Stats
	OptFuzz  *solver.OptionFuzzer

	pushDepth  uint32
	lastResult solver.CheckSatResult
}

// LastResult is the outcome of the most recent CheckSat/CheckSatAssuming
// call, or the zero solver.CheckSatResult if none has run yet in this
// Env. Exported for internal/crosscheck, which drives two Envs over the
// same trace and compares their final verdicts.
func (e *Env) LastResult() solver.CheckSatResult {
	return e.lastResult
}

// sortKindsAvailable flattens every sort kind the enabled theories
// contribute, in the stable theory.AllSortKinds-adjacent order
// theory.SortKindsOf returns per theory (theories themselves are visited
// in Env.Enabled's caller-supplied order, which is itself the
// deterministic intersection theory.Enabled produces).
func (e *Env) sortKindsAvailable() []theory.SortKind {
	seen := map[theory.SortKind]bool{}
	var out []theory.SortKind
	for _, t := range e.Enabled {
		for _, k := range theory.SortKindsOf(t) {
			if !seen[k] {
				seen[k] = true
				out = append(out, k)
			}
		}
	}
	return out
}
