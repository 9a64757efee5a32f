package viterbi

import (
	"fmt"
	"math/bits"
)

// Encode runs bits through the rate-1/n convolutional encoder matching
// this package's Decoder: a (k-1)-bit shift register seeded at zero,
// where each new bit enters at the top and the oldest retained bit
// falls off the bottom. It exists to build self-consistent fixtures for
// Decoder tests and is grounded on the same augmented-state arithmetic
// Decoder uses for traceback.
func Encode(k, n int, polys []uint32, input []byte) ([]uint32, error) {
	if k < 1 || k > MaxK {
		return nil, fmt.Errorf("viterbi: constraint length %d out of range [1, %d]", k, MaxK)
	}
	if n < 1 || n > MaxN {
		return nil, fmt.Errorf("viterbi: n=%d out of range [1, %d]", n, MaxN)
	}
	if len(polys) != n {
		return nil, fmt.Errorf("viterbi: expected %d polynomials, got %d", n, len(polys))
	}

	stateCount := 1 << uint(k-1)
	codeDict := make([]uint32, 2*stateCount)
	for s := range codeDict {
		var word uint32
		for j, poly := range polys {
			bit := uint32(bits.OnesCount32(poly&uint32(s)) & 1)
			word |= bit << uint(n-1-j)
		}
		codeDict[s] = word
	}

	// For k == 1 the register carries no history: every state is 0 and
	// each output bit depends only on the current input bit.
	topShift := uint(0)
	if k >= 2 {
		topShift = uint(k - 2)
	}

	var state uint32
	out := make([]uint32, len(input))
	for i, b := range input {
		c := uint32(b & 1)
		s := (c << uint(k-1)) | state
		out[i] = codeDict[s]
		if k >= 2 {
			state = (state >> 1) | (c << topShift)
		}
	}

	return out, nil
}
