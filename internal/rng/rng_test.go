package rng

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Deterministic(t *testing.T) {
	a := New(0xDEADBEEF)
	b := New(0xDEADBEEF)

	for i := 0; i < 100; i++ {
		assert.Equal(t, a.Uint32(1000), b.Uint32(1000))
	}
}

func Test_StateRoundTrip(t *testing.T) {
	g := New(42)
	for i := 0; i < 10; i++ {
		g.Uint32(1000)
	}
	s := g.State()

	restored, err := SetState(s)
	assert.NoError(t, err)

	for i := 0; i < 10; i++ {
		assert.Equal(t, g.Uint32(1000), restored.Uint32(1000))
	}
}

func Test_UInt32Range(t *testing.T) {
	g := New(1)
	for i := 0; i < 1000; i++ {
		v := g.UInt32Range(5, 10)
		assert.GreaterOrEqual(t, v, uint32(5))
		assert.LessOrEqual(t, v, uint32(10))
	}
}

func Test_WeightedChoice(t *testing.T) {
	g := New(7)
	counts := map[int]int{}
	for i := 0; i < 10000; i++ {
		idx := g.WeightedChoice([]uint32{1, 0, 9})
		counts[idx]++
	}
	assert.Zero(t, counts[1])
	assert.Greater(t, counts[2], counts[0])
}

func Test_WeightedChoiceAllZero(t *testing.T) {
	g := New(7)
	assert.Equal(t, -1, g.WeightedChoice([]uint32{0, 0, 0}))
}

func Test_SimpleSymbolAlphabet(t *testing.T) {
	g := New(3)
	for i := 0; i < 50; i++ {
		sym := g.SimpleSymbol("x")
		assert.True(t, len(sym) >= 2)
		for _, c := range sym[1:] {
			assert.True(t, (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '_')
		}
	}
}

func Test_BitStringLength(t *testing.T) {
	g := New(9)
	bs := g.BitString(16)
	assert.Len(t, bs, 16)
	for _, c := range bs {
		assert.True(t, c == '0' || c == '1')
	}
}
