package trace

import (
	"bufio"
	"io"
	"strings"
)

// Recorder is the append-only transcript writer. It buffers through a
// bufio.Writer but flushes per-line, since a run may be killed mid-flight
// and the trace up to the last completed action must survive.
type Recorder struct {
	w           *bufio.Writer
	traceSeeds  bool
	preludeDone bool
}

// NewRecorder wraps w, emitting directly flushed lines.
func NewRecorder(w io.Writer, traceSeeds bool) *Recorder {
	return &Recorder{w: bufio.NewWriter(w), traceSeeds: traceSeeds}
}

// WritePrelude emits the mandatory first line, "set-murxla-options
// <argv...>", once per recorder.
func (r *Recorder) WritePrelude(argv []string) error {
	if r.preludeDone {
		return nil
	}
	r.preludeDone = true
	if _, err := r.w.WriteString("set-murxla-options " + strings.Join(argv, " ") + "\n"); err != nil {
		return err
	}
	return r.w.Flush()
}

// WriteSetSeed emits a "set-seed <state>" line; the caller decides when
// (normally before every action, when trace-seeds is enabled).
func (r *Recorder) WriteSetSeed(state string) error {
	if !r.traceSeeds {
		return nil
	}
	if _, err := r.w.WriteString("set-seed " + state + "\n"); err != nil {
		return err
	}
	return r.w.Flush()
}

// WriteLine emits one action line, preceded by a set-seed line when
// trace-seeds is enabled, and flushes immediately.
func (r *Recorder) WriteLine(l Line, seedState string) error {
	if err := r.WriteSetSeed(seedState); err != nil {
		return err
	}
	if _, err := r.w.WriteString(RenderLine(l) + "\n"); err != nil {
		return err
	}
	return r.w.Flush()
}
