package lfsr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestNewCoreRejectsEmptyTaps(t *testing.T) {
	_, err := NewCore(nil)
	require.Error(t, err)
}

func TestNewCoreRejectsOutOfRangeTap(t *testing.T) {
	_, err := NewCore([]int{64})
	require.Error(t, err)

	_, err = NewCore([]int{0})
	require.Error(t, err)
}

func TestNewCoreRejectsDuplicateTap(t *testing.T) {
	_, err := NewCore([]int{5, 5, 1})
	require.Error(t, err)
}

func TestCoreCycleLen(t *testing.T) {
	c, err := NewCore([]int{7, 6, 1})
	require.NoError(t, err)
	assert.Equal(t, uint64(127), c.CycleLen())
}

func TestPolynomialString(t *testing.T) {
	c, err := NewCore([]int{5, 2, 1})
	require.NoError(t, err)
	assert.Equal(t, "x^5 + x^2 + x^1 + 1", c.PolynomialString())
}

// Scramble/descramble round-trip: descrambling a scrambled bit stream
// reproduces the original, once both registers share the same taps and
// start from the same reset state (spec.md "Invariants & laws").
func TestScrambleDescrambleRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		taps := rapid.SliceOfDistinct(rapid.IntRange(1, 20), func(v int) int { return v }).
			Filter(func(v []int) bool { return len(v) > 0 }).
			Draw(t, "taps")
		bits := rapid.SliceOfN(rapid.IntRange(0, 1), 1, 300).Draw(t, "bits")

		scrambler, err := NewCore(taps)
		require.NoError(t, err)
		descrambler, err := NewCore(taps)
		require.NoError(t, err)

		recovered := make([]int, len(bits))
		for i, b := range bits {
			scrambled := scrambler.Scramble(byte(b))
			recovered[i] = int(descrambler.Descramble(scrambled))
		}

		assert.Equal(t, bits, recovered)
	})
}

func TestParityMatchesPopcountParity(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		x := rapid.Uint64().Draw(t, "x")
		var want byte
		for v := x; v != 0; v &= v - 1 {
			want ^= 1
		}
		assert.Equal(t, want, parityBit(x))
	})
}
