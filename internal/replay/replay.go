// Package replay drives a recorded trace back through the same Action
// catalog internal/fsm's live walk uses, resolving each line's s<id>/
// t<id> references against freshly created live objects instead of
// sampling new ones. Each trace.Line.Kind string is dispatched through a
// lookup table keyed by action kind.
package replay

import (
	"io"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/alex-ozdemir/murxla/internal/actions"
	"github.com/alex-ozdemir/murxla/internal/config"
	"github.com/alex-ozdemir/murxla/internal/fsm"
	"github.com/alex-ozdemir/murxla/internal/merr"
	"github.com/alex-ozdemir/murxla/internal/trace"
)

// Catalog builds the Kind()->Action lookup table every replay run
// dispatches against, one instance per action type sharing env.
func Catalog(env *actions.Env) map[string]fsm.Action {
	list := []fsm.Action{
		&actions.NewSolver{Env: env},
		&actions.SetOpt{Env: env},
		&actions.ResetSolver{Env: env},
		&actions.ResetAssertions{Env: env},
		&actions.DeleteSolver{Env: env},
		&actions.MkSort{Env: env},
		&actions.MkConst{Env: env},
		&actions.MkVar{Env: env},
		&actions.MkValue{Env: env},
		&actions.MkSpecialValue{Env: env},
		&actions.MkTerm{Env: env},
		&actions.AssertFormula{Env: env},
		&actions.CheckSat{Env: env},
		&actions.CheckSatAssuming{Env: env},
		&actions.PushPop{Env: env},
		&actions.GetValue{Env: env},
		&actions.GetUnsatCore{Env: env},
		&actions.GetUnsatAssumptions{Env: env},
		&actions.PrintModel{Env: env},
	}
	out := make(map[string]fsm.Action, len(list))
	for _, a := range list {
		out[a.Kind()] = a
	}
	return out
}

// Result summarizes one completed replay.
type Result struct {
	Options     config.Options
	LinesPlayed int
}

// Run parses r as a trace and replays every line against env, in file
// order. The first line must be the "set-murxla-options" prelude; its
// argv is parsed back into a fresh config.Options (the run is reseeded
// exactly the way the original CLI invocation configured it), which Run
// installs as env.Options before replaying the action lines and also
// returns in Result.Options.
func Run(env *actions.Env, r io.Reader) (Result, error) {
	lines, err := trace.Parse(r)
	if err != nil {
		return Result{}, errors.Wrap(err, "replay: parse")
	}
	if len(lines) == 0 {
		return Result{}, merr.NewUntraceError("prelude", "empty trace")
	}
	if !lines[0].IsOptions {
		return Result{}, merr.NewUntraceError("prelude", "first line must be set-murxla-options")
	}
	opts, err := config.ParseArgv(lines[0].Options)
	if err != nil {
		return Result{}, errors.Wrap(err, "replay: parse set-murxla-options")
	}
	env.Options = opts

	catalog := Catalog(env)
	ctx := &fsm.Context{}

	played := 0
	for _, pl := range lines[1:] {
		if pl.IsSeed {
			continue
		}
		action, ok := catalog[pl.Action.Kind]
		if !ok {
			return Result{}, merr.NewUntraceError(pl.Action.Kind, "unknown action kind")
		}
		log.Infof("replay: %s", trace.RenderLine(pl.Action))
		if err := action.Replay(ctx, pl.Action); err != nil {
			return Result{Options: opts, LinesPlayed: played}, errors.Wrapf(err, "replay: line %d (%s)", played+2, pl.Action.Kind)
		}
		played++
	}
	return Result{Options: opts, LinesPlayed: played}, nil
}
