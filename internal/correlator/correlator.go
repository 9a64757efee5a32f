// Package correlator implements the FFT-based circular cross-correlator
// (spec component C4): for a captured bit frame, it finds which library
// polynomial's free-running sequence best explains the frame, and at
// what cyclic offset.
package correlator

import (
	"fmt"
	"math/cmplx"

	"github.com/BatchDrake/lfsrintruder/internal/lfsr"
	"gonum.org/v1/gonum/dsp/fourier"
)

// Candidate records one polynomial that raised the correlator's running
// best score for a frame. It borrows its Descriptor from the library
// that produced it; it never owns it.
type Candidate struct {
	Desc   *lfsr.Descriptor
	Offset int
	Phase  uint64
	Score  float64
}

// ImprovementFunc is invoked every time a polynomial raises the running
// best score, with the candidate record and the raw {0,1} sequence that
// produced it (useful for diagnostic dumps). Returning an error aborts
// the run.
type ImprovementFunc func(Candidate, []byte) error

// Correlator holds the FFT plan and scratch buffers for one input frame.
// Construction is the expensive part (one forward DFT of the frame);
// Run reuses the same buffers across every library polynomial.
type Correlator struct {
	n        int
	data     []byte
	dataFreq []complex128

	seqBuf  []complex128
	seqFreq []complex128
	xcorr   []complex128

	fft *fourier.CmplxFFT
}

// New builds a Correlator over a captured bit frame. The frame must be
// non-empty.
func New(data []byte) (*Correlator, error) {
	n := len(data)
	if n == 0 {
		return nil, fmt.Errorf("correlator: empty input frame")
	}

	c := &Correlator{
		n:        n,
		data:     append([]byte(nil), data...),
		dataFreq: make([]complex128, n),
		seqBuf:   make([]complex128, n),
		seqFreq:  make([]complex128, n),
		xcorr:    make([]complex128, n),
		fft:      fourier.NewCmplxFFT(n),
	}

	k := 1.0 / float64(n)
	for i, b := range data {
		c.dataFreq[i] = complex(2*k*(float64(b)-0.5), 0)
	}
	c.fft.Coefficients(c.dataFreq, c.dataFreq)

	return c, nil
}

// N returns the frame length this correlator was built for.
func (c *Correlator) N() int {
	return c.n
}

// Data returns the captured bit frame, as copied at construction time.
func (c *Correlator) Data() []byte {
	return c.data
}

// Run walks descs in order, running the frequency-domain circular
// cross-correlation against each one's generated sequence, and returns
// the monotonically-improving candidate list (spec.md §4.4): every
// descriptor that raises the running best score is appended, so scores
// strictly increase across the returned slice. onImprovement, if
// non-nil, is called once per appended candidate before moving to the
// next polynomial.
func (c *Correlator) Run(descs []*lfsr.Descriptor, onImprovement ImprovementFunc) ([]Candidate, error) {
	var candidates []Candidate
	bestScore := 0.0
	k := 1.0 / float64(c.n)

	for _, d := range descs {
		seq, err := d.Generate(c.n)
		if err != nil {
			return nil, fmt.Errorf("correlator: generating sequence for %s: %w", d.PolynomialString(), err)
		}

		for i, b := range seq {
			c.seqBuf[i] = complex(2*k*(float64(b)-0.5), 0)
		}

		c.fft.Coefficients(c.seqFreq, c.seqBuf)

		for i := range c.seqFreq {
			c.seqFreq[i] *= cmplx.Conj(c.dataFreq[i])
		}

		c.fft.Sequence(c.xcorr, c.seqFreq)

		maxAmp := -1.0
		maxJ := 0
		for j, v := range c.xcorr {
			amp := real(v)*real(v) + imag(v)*imag(v)
			if amp > maxAmp {
				maxAmp = amp
				maxJ = j
			}
		}

		if maxAmp > bestScore {
			cand := Candidate{
				Desc:   d,
				Offset: maxJ,
				Phase:  uint64(maxJ) % d.CycleLen(),
				Score:  maxAmp,
			}
			candidates = append(candidates, cand)
			bestScore = maxAmp

			if onImprovement != nil {
				if err := onImprovement(cand, seq); err != nil {
					return nil, err
				}
			}
		}
	}

	return candidates, nil
}
