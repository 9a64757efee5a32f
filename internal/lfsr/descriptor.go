package lfsr

import "fmt"

// warmupBits is the number of zero-input scramble steps discarded before
// a Descriptor starts emitting its free-running sequence. It clears the
// warm-up transient of the register regardless of tap configuration,
// which is what makes Generate reproducible across calls.
const warmupBits = 64

// Descriptor owns one Core together with the tap list that built it. It
// is the unit of search in the correlator's polynomial library: each one
// knows how to materialize its own sequence and format its own name.
type Descriptor struct {
	core *Core
	taps []int
}

// NewDescriptor constructs a Descriptor from a tap list.
func NewDescriptor(taps []int) (*Descriptor, error) {
	core, err := NewCore(taps)
	if err != nil {
		return nil, err
	}

	owned := make([]int, len(taps))
	copy(owned, taps)

	return &Descriptor{core: core, taps: owned}, nil
}

// Taps returns the tap list this descriptor was built from, in the order
// they appeared in the source polynomial database.
func (d *Descriptor) Taps() []int {
	return d.taps
}

// Mask returns the underlying Core's tap mask, for callers that need to
// compare two descriptors' registers directly (e.g. round-trip tests).
func (d *Descriptor) Mask() uint64 {
	return d.core.Mask()
}

// CycleLen returns the underlying Core's maximum-length cycle period.
func (d *Descriptor) CycleLen() uint64 {
	return d.core.CycleLen()
}

// PolynomialString returns the formatted generator polynomial, e.g.
// "x^5 + x^2 + x^1 + 1".
func (d *Descriptor) PolynomialString() string {
	return d.core.PolynomialString()
}

// Generate resets the register, discards warmupBits zero-input scramble
// outputs, then returns n successive scramble(0) outputs: the free-
// running maximum-length sequence of the polynomial, when its taps
// describe a primitive polynomial. Two calls with the same taps and the
// same n produce byte-identical output.
func (d *Descriptor) Generate(n int) ([]byte, error) {
	if n <= 0 {
		return nil, fmt.Errorf("lfsr: generate length must be positive, got %d", n)
	}

	d.core.Reset()
	for i := 0; i < warmupBits; i++ {
		d.core.Scramble(0)
	}

	seq := make([]byte, n)
	for i := range seq {
		seq[i] = d.core.Scramble(0)
	}

	return seq, nil
}
