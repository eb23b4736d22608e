// Package merr is murxla's error taxonomy, the Go rendition of except.cpp's
// stream hierarchy (MessageStream/WarnStream/AbortStream/
// ConfigExceptionStream/UntraceExceptionStream): typed errors instead of a
// hard process abort, propagated up through internal/fsm and internal/run to
// main, which maps each kind to the exit behavior spec.md §7 describes.
package merr

import "fmt"

// ConfigError signals bad CLI input or an unusable theory/solver
// combination (spec.md §7 rule 1). Fatal before any run starts.
type ConfigError struct {
	Msg string
}

func (e *ConfigError) Error() string { return "murxla: ERROR: " + e.Msg }

// NewConfigError builds a ConfigError with a formatted message.
func NewConfigError(format string, args ...interface{}) error {
	return &ConfigError{Msg: fmt.Sprintf(format, args...)}
}

// InternalError signals an invariant violation inside the generator itself
// (SMGR or FSM) — a bug in murxla, not the back-end (spec.md §7 rule 2).
type InternalError struct {
	Msg string
}

func (e *InternalError) Error() string { return "murxla: ERROR: internal: " + e.Msg }

// NewInternalError builds an InternalError with a formatted message.
func NewInternalError(format string, args ...interface{}) error {
	return &InternalError{Msg: fmt.Sprintf(format, args...)}
}

// SolverError wraps a recoverable diagnostic reported by a back-end adapter
// (spec.md §7 rule 3).
type SolverError struct {
	Msg string
}

func (e *SolverError) Error() string { return "murxla: solver: " + e.Msg }

// NewSolverError builds a SolverError with a formatted message.
func NewSolverError(format string, args ...interface{}) error {
	return &SolverError{Msg: fmt.Sprintf(format, args...)}
}

// UntraceError is MurxlaActionUntraceException's Go analogue: the trace
// references an id the recorder never emitted, or an action-kind unknown
// to the parser (spec.md §7 rule 5).
type UntraceError struct {
	Action string
	Msg    string
}

func (e *UntraceError) Error() string {
	return fmt.Sprintf("murxla: untrace: action %q: %s", e.Action, e.Msg)
}

// NewUntraceError builds an UntraceError naming the offending action.
func NewUntraceError(action, format string, args ...interface{}) error {
	return &UntraceError{Action: action, Msg: fmt.Sprintf(format, args...)}
}

// CrossCheckError reports two back-ends disagreeing on check-sat for the
// same assertion set (spec.md §7 rule 6).
type CrossCheckError struct {
	SolverA, SolverB string
	ResultA, ResultB string
}

func (e *CrossCheckError) Error() string {
	return fmt.Sprintf("murxla: cross-check: %s vs %s", e.ResultA, e.ResultB)
}

// Fingerprint returns the normalized fingerprint report aggregation keys
// errors by (spec.md §7 final paragraph, scenario 5).
func (e *CrossCheckError) Fingerprint() string {
	return fmt.Sprintf("cross-check: %s vs %s", e.ResultA, e.ResultB)
}
