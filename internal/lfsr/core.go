// Package lfsr implements the linear feedback shift register primitives
// that back the scrambler search: a bit-exact shift register core (Core),
// a descriptor that materializes its free-running sequence (Descriptor),
// and a library of descriptors loaded from a polynomial database file
// (Library).
package lfsr

import (
	"fmt"
	"math/bits"
)

// MaxTap is the largest tap exponent a Core will accept. Taps occupy bits
// of a 64-bit register, so the register cannot represent a tap at bit 64
// or beyond.
const MaxTap = 63

// Core holds the shift-register state for one generator polynomial. It
// implements the additive self-synchronizing scrambler described by the
// polynomial's tap mask: Scramble feeds its own output back into the
// register, Descramble feeds the received bit back in instead, and the
// two are inverses when run over the same bit stream from the same
// initial state.
type Core struct {
	reg      uint64
	mask     uint64
	shift    uint // len after construction: highest tap minus one
	cycleLen uint64
}

// NewCore builds a Core from a tap list, the exponents of the nonzero
// terms of x^t1 + x^t2 + ... + 1. taps must be non-empty and every value
// must lie in [1, MaxTap].
func NewCore(taps []int) (*Core, error) {
	if len(taps) == 0 {
		return nil, fmt.Errorf("lfsr: empty tap list")
	}

	c := &Core{}
	highest := 0
	seen := make(map[int]bool, len(taps))
	for _, t := range taps {
		if t < 1 || t > MaxTap {
			return nil, fmt.Errorf("lfsr: invalid tap %d: must be in [1, %d]", t, MaxTap)
		}
		if seen[t] {
			return nil, fmt.Errorf("lfsr: duplicate tap %d", t)
		}
		seen[t] = true
		c.mask |= 1 << uint(t)
		if t > highest {
			highest = t
		}
	}

	c.cycleLen = (uint64(1) << uint(highest)) - 1
	c.shift = uint(highest - 1)
	c.Reset()

	return c, nil
}

// Reset restores the register to its all-ones initial state.
func (c *Core) Reset() {
	c.reg = ^uint64(0)
}

// CycleLen returns 2^(highest tap)-1, the period of the maximum-length
// sequence this polynomial produces when primitive.
func (c *Core) CycleLen() uint64 {
	return c.cycleLen
}

// Mask returns the tap mask (bit i set for each tap at position i).
func (c *Core) Mask() uint64 {
	return c.mask
}

func parityBit(x uint64) byte {
	return byte(bits.OnesCount64(x) & 1)
}

// Scramble runs one step of the self-synchronizing additive scrambler:
// the output bit is fed back into the register, so the descrambler only
// needs the last `shift+1` output bits to resynchronize.
func (c *Core) Scramble(input byte) byte {
	y := parityBit(c.reg&c.mask) ^ (input & 1)
	c.reg = (c.reg >> 1) | (uint64(y) << c.shift)
	return y
}

// Descramble inverts Scramble: the ciphertext bit (not the recovered
// output) is fed back into the register.
func (c *Core) Descramble(input byte) byte {
	in := input & 1
	y := parityBit(c.reg&c.mask) ^ in
	c.reg = (c.reg >> 1) | (uint64(in) << c.shift)
	return y
}

// PolynomialString renders the generator polynomial as
// "x^a + x^b + ... + 1", enumerating taps from the highest exponent down.
func (c *Core) PolynomialString() string {
	s := ""
	for i := MaxTap; i >= 1; i-- {
		if c.mask&(1<<uint(i)) != 0 {
			s += fmt.Sprintf("x^%d + ", i)
		}
	}
	return s + "1"
}
