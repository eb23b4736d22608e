package run

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/alex-ozdemir/murxla/internal/config"
)

func TestOneProducesAParseableTrace(t *testing.T) {
	opts := config.Default()
	opts.Seed = 7
	opts.IsSeeded = true

	var buf bytes.Buffer
	outcome := One(7, opts, &buf)
	require.NoError(t, outcome.Err)
	require.NotNil(t, outcome.Stats)

	require.True(t, strings.HasPrefix(buf.String(), "set-murxla-options"))
}

func TestOneIsDeterministicForAFixedSeed(t *testing.T) {
	opts := config.Default()
	opts.Seed = 123
	opts.IsSeeded = true

	var a, b bytes.Buffer
	require.NoError(t, One(123, opts, &a).Err)
	require.NoError(t, One(123, opts, &b).Err)
	require.Equal(t, a.String(), b.String())
}

func TestBuildFSMHasReachableDelete(t *testing.T) {
	opts := config.Default()
	opts.Seed = 1
	opts.IsSeeded = true

	var buf bytes.Buffer
	outcome := One(1, opts, &buf)
	require.NoError(t, outcome.Err)
}

func TestNewAdapterRejectsUnknownSolver(t *testing.T) {
	opts := config.Default()
	opts.Solver = "not-a-real-solver"
	_, err := NewAdapter(opts)
	require.Error(t, err)
}
