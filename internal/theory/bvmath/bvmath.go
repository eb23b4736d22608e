// Package bvmath computes exact bounds for fixed-width bit-vector
// constants. A bit-vector's width can reach config.BVWidthMax (128
// bits), well past what a uint64 shift can hold, so computing "all
// ones" or the signed range boundary needs arbitrary-precision
// arithmetic — exactly the big-integer power-of-two helper
// go-ethereum's EVM uses to bound 256-bit words.
package bvmath

import (
	"math/big"

	emath "github.com/ethereum/go-ethereum/common/math"
)

// MaxUnsigned returns 2^width - 1, the largest value an unsigned
// bit-vector of the given width can represent.
func MaxUnsigned(width uint32) *big.Int {
	if width == 0 {
		return big.NewInt(0)
	}
	p := emath.BigPow(2, int64(width))
	return p.Sub(p, big.NewInt(1))
}

// MaxSigned returns 2^(width-1) - 1, the largest value a two's-complement
// signed bit-vector of the given width can represent.
func MaxSigned(width uint32) *big.Int {
	if width == 0 {
		return big.NewInt(0)
	}
	p := emath.BigPow(2, int64(width-1))
	return p.Sub(p, big.NewInt(1))
}

// MinSigned returns -2^(width-1), the smallest value a two's-complement
// signed bit-vector of the given width can represent.
func MinSigned(width uint32) *big.Int {
	if width == 0 {
		return big.NewInt(0)
	}
	p := emath.BigPow(2, int64(width-1))
	return p.Neg(p)
}
