package fsm

import (
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/alex-ozdemir/murxla/internal/rng"
)

// Edge is one weighted (action, next-state) continuation out of a State.
type Edge struct {
	Action   Action
	NextState string
	Weight   uint32
}

// State is a named node in the machine: a weighted edge list plus a
// final-state flag.
type State struct {
	Name    string
	IsFinal bool
	Edges   []Edge
}

// FSM is the full weighted digraph: named states plus the designated
// initial state.
type FSM struct {
	states  map[string]*State
	initial string
}

// New builds an empty machine with the given initial state name.
func New(initial string) *FSM {
	return &FSM{states: map[string]*State{}, initial: initial}
}

// AddState registers a state; isFinal marks it as an acceptable stopping
// point (spec.md §4.5: "a run terminates ... a final state is also
// acceptable").
func (f *FSM) AddState(name string, isFinal bool) *State {
	s := &State{Name: name, IsFinal: isFinal}
	f.states[name] = s
	return s
}

// AddEdge adds a weighted (action, next-state) continuation from a
// previously registered state.
func (f *FSM) AddEdge(from string, action Action, to string, weight uint32) error {
	s, ok := f.states[from]
	if !ok {
		return errors.Errorf("fsm: unknown state %q", from)
	}
	if _, ok := f.states[to]; !ok {
		return errors.Errorf("fsm: unknown target state %q", to)
	}
	s.Edges = append(s.Edges, Edge{Action: action, NextState: to, Weight: weight})
	return nil
}

// State returns the named state, or nil if unregistered.
func (f *FSM) State(name string) *State { return f.states[name] }

// Initial returns the machine's initial state.
func (f *FSM) Initial() *State { return f.states[f.initial] }

// Step executes exactly one state's run-step (spec.md §4.5): reject
// edges whose precondition fails, weighted-sample among the remainder,
// invoke the chosen action, and transition. Returns the next state name
// and whether any edge was eligible at all.
func Step(g *rng.Generator, s *State, ctx *Context) (next string, ran bool, err error) {
	var eligible []Edge
	var weights []uint32
	for _, e := range s.Edges {
		if e.Action.Precondition() {
			eligible = append(eligible, e)
			weights = append(weights, e.Weight)
		}
	}
	if len(eligible) == 0 {
		return "", false, nil
	}

	idx := g.WeightedChoice(weights)
	if idx < 0 {
		return "", false, nil
	}
	chosen := eligible[idx]

	log.Infof("fsm: state %s: running action %s -> %s", s.Name, chosen.Action.Kind(), chosen.NextState)
	line, runErr := chosen.Action.Run(ctx)
	if runErr != nil {
		return "", true, errors.Wrapf(runErr, "fsm: action %s", chosen.Action.Kind())
	}
	if ctx.Recorder != nil && line.Kind != "" {
		if err := ctx.Recorder.WriteLine(line, ctx.SeedState()); err != nil {
			return "", true, errors.Wrap(err, "fsm: recording trace line")
		}
	}
	return chosen.NextState, true, nil
}

// Walk drives the machine from its initial state until either a final
// state is reached or budget runs out of steps (the caller enforces the
// time budget separately, via internal/run's context.WithTimeout).
func Walk(f *FSM, g *rng.Generator, ctx *Context, maxSteps int) error {
	cur := f.Initial()
	if cur == nil {
		return errors.New("fsm: no initial state registered")
	}
	for i := 0; i < maxSteps; i++ {
		if cur.IsFinal {
			return nil
		}
		nextName, ran, err := Step(g, cur, ctx)
		if err != nil {
			return err
		}
		if !ran {
			log.Warnf("fsm: state %s: no eligible edge, stopping", cur.Name)
			return nil
		}
		next := f.State(nextName)
		if next == nil {
			return errors.Errorf("fsm: action transitioned to unknown state %q", nextName)
		}
		cur = next
	}
	return nil
}
