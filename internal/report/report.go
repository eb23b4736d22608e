// Package report aggregates the errors a driver run accumulates into a
// terminal summary: repeated errors with different seeds collapse into
// one entry keyed by a normalized fingerprint, whose sample-seed list
// grows instead of producing one line per seed. Fingerprint
// normalization strips the seed-specific noise from an error message
// (a series of regexp substitutions) so that two failures
// with the same underlying cause hash to the same bucket.
package report

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"regexp"
	"sort"
	"strconv"
	"sync"
)

// normalizers strip run-specific noise (addresses, pids, line numbers)
// from an error message so that the same underlying bug, hit by
// different seeds or different process ids, collapses onto one
// fingerprint (spec.md §7: "the error message with addresses, pids, and
// line numbers stripped").
var normalizers = []*regexp.Regexp{
	regexp.MustCompile(`0x[0-9a-fA-F]+`),
	regexp.MustCompile(`\bpid[ =:]?\d+\b`),
	regexp.MustCompile(`\bline \d+\b`),
	regexp.MustCompile(`:\d+:\d+`),
	regexp.MustCompile(`\b\d+\b`),
}

// Fingerprint normalizes msg into the key errors are aggregated under.
func Fingerprint(msg string) string {
	for _, re := range normalizers {
		msg = re.ReplaceAllString(msg, "#")
	}
	return msg
}

// fingerprinter is implemented by errors that already know their own
// fingerprint (e.g. *merr.CrossCheckError, whose canonical spelling
// "cross-check: sat vs unsat" would otherwise be scrambled by the
// digit-stripping normalizer above).
type fingerprinter interface {
	Fingerprint() string
}

// FingerprintError picks the fingerprint for err: its own, if it
// implements fingerprinter, otherwise the normalized form of its
// message.
func FingerprintError(err error) string {
	if fp, ok := err.(fingerprinter); ok {
		return fp.Fingerprint()
	}
	return Fingerprint(err.Error())
}

// Entry is one aggregated bucket: how many runs produced this
// fingerprint, and a bounded sample of the seeds that did.
type Entry struct {
	Fingerprint string
	Count       int
	SampleSeeds []uint64
}

// maxSampleSeeds bounds how many seeds an Entry retains, so a bug hit by
// a million runs doesn't balloon the terminal summary or the CSV/JSON
// export.
const maxSampleSeeds = 10

// Aggregator collects (seed, error) pairs across a continuous-mode run
// and buckets them by fingerprint. Safe for concurrent use.
type Aggregator struct {
	mu      sync.Mutex
	entries map[string]*Entry
	order   []string // first-seen order, for stable iteration before sorting
}

// New returns an empty Aggregator.
func New() *Aggregator {
	return &Aggregator{entries: map[string]*Entry{}}
}

// Add records one failing run. A nil err is a no-op: a clean run
// contributes nothing to the summary.
func (a *Aggregator) Add(seed uint64, err error) {
	if err == nil {
		return
	}
	fp := FingerprintError(err)

	a.mu.Lock()
	defer a.mu.Unlock()
	e, ok := a.entries[fp]
	if !ok {
		e = &Entry{Fingerprint: fp}
		a.entries[fp] = e
		a.order = append(a.order, fp)
	}
	e.Count++
	if len(e.SampleSeeds) < maxSampleSeeds {
		e.SampleSeeds = append(e.SampleSeeds, seed)
	}
}

// Entries returns the aggregated buckets, sorted by descending count and
// then by fingerprint for a stable tie-break.
func (a *Aggregator) Entries() []Entry {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]Entry, 0, len(a.order))
	for _, fp := range a.order {
		out = append(out, *a.entries[fp])
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Fingerprint < out[j].Fingerprint
	})
	return out
}

// Len reports the number of distinct fingerprints seen so far.
func (a *Aggregator) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.entries)
}

// WriteCSV writes entries as "fingerprint,count,sample_seeds" rows, one
// per fingerprint, sample seeds semicolon-joined within their column
// (spec.md §7: "optionally a CSV or JSON export").
func WriteCSV(w io.Writer, entries []Entry) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"fingerprint", "count", "sample_seeds"}); err != nil {
		return err
	}
	for _, e := range entries {
		seeds := make([]string, len(e.SampleSeeds))
		for i, s := range e.SampleSeeds {
			seeds[i] = strconv.FormatUint(s, 10)
		}
		if err := cw.Write([]string{e.Fingerprint, strconv.Itoa(e.Count), joinSemicolon(seeds)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func joinSemicolon(ss []string) string {
	out := ""
	for i, s := range ss {
		if i > 0 {
			out += ";"
		}
		out += s
	}
	return out
}

// WriteJSON writes entries as a JSON array, one object per fingerprint.
func WriteJSON(w io.Writer, entries []Entry) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(entries)
}
