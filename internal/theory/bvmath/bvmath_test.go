package bvmath

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMaxUnsigned(t *testing.T) {
	require.Equal(t, big.NewInt(15), MaxUnsigned(4))
	require.Equal(t, big.NewInt(0), MaxUnsigned(0))
	want := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(1))
	require.Equal(t, want, MaxUnsigned(128))
}

func TestSignedBounds(t *testing.T) {
	require.Equal(t, big.NewInt(7), MaxSigned(4))
	require.Equal(t, big.NewInt(-8), MinSigned(4))
}
