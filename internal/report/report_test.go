package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/alex-ozdemir/murxla/internal/merr"
)

func TestFingerprintStripsAddressesPidsAndLineNumbers(t *testing.T) {
	a := Fingerprint("segfault at 0xdeadbeef, pid=12345, line 42")
	b := Fingerprint("segfault at 0xcafef00d, pid=98765, line 43")
	require.Equal(t, a, b)
}

func TestAggregatorCollapsesRepeatedFingerprints(t *testing.T) {
	agg := New()
	agg.Add(1, errors.New("murxla: solver: crash at 0x1111"))
	agg.Add(2, errors.New("murxla: solver: crash at 0x2222"))
	agg.Add(3, errors.New("murxla: solver: a different failure"))
	agg.Add(4, nil)

	entries := agg.Entries()
	require.Len(t, entries, 2)
	require.Equal(t, 2, entries[0].Count)
	require.ElementsMatch(t, []uint64{1, 2}, entries[0].SampleSeeds)
}

func TestAggregatorUsesCrossCheckErrorsOwnFingerprint(t *testing.T) {
	agg := New()
	agg.Add(1, &merr.CrossCheckError{SolverA: "a", SolverB: "b", ResultA: "sat", ResultB: "unsat"})
	agg.Add(2, &merr.CrossCheckError{SolverA: "c", SolverB: "d", ResultA: "sat", ResultB: "unsat"})

	entries := agg.Entries()
	require.Len(t, entries, 1)
	require.Equal(t, "cross-check: sat vs unsat", entries[0].Fingerprint)
	require.Equal(t, 2, entries[0].Count)
}

func TestWriteCSVAndJSON(t *testing.T) {
	agg := New()
	agg.Add(7, errors.New("boom at 0xabc"))

	var csv bytes.Buffer
	require.NoError(t, WriteCSV(&csv, agg.Entries()))
	require.True(t, strings.HasPrefix(csv.String(), "fingerprint,count,sample_seeds\n"))
	require.Contains(t, csv.String(), "7")

	var js bytes.Buffer
	require.NoError(t, WriteJSON(&js, agg.Entries()))
	require.Contains(t, js.String(), `"Fingerprint"`)
}
