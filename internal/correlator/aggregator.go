package correlator

import "github.com/BatchDrake/lfsrintruder/internal/lfsr"

// minCycleLenForHit is the spec.md §4.5 threshold below which a
// candidate's cycle length is considered too short to be trustworthy
// evidence (short-period polynomials produce spurious correlation peaks
// too easily).
const minCycleLenForHit = 16

// OffsetHit counts how many frames produced a candidate at a particular
// phase offset for one polynomial.
type OffsetHit struct {
	Offset uint64
	Count  int
}

// PolyHit accumulates, for one polynomial, the number of frames in which
// it became a candidate and the distribution of phase offsets at which
// that happened.
type PolyHit struct {
	Desc          *lfsr.Descriptor
	TotalHits     int
	Offsets       []OffsetHit
	MaxOffsetHits int
}

// BestOffset returns the smallest offset whose hit count equals
// MaxOffsetHits. Ties are broken by ascending offset, a deterministic
// choice spec.md §9 explicitly allows in place of the reference
// implementation's last-match-wins quirk.
func (h *PolyHit) BestOffset() uint64 {
	var best uint64
	found := false
	for _, oh := range h.Offsets {
		if oh.Count != h.MaxOffsetHits {
			continue
		}
		if !found || oh.Offset < best {
			best = oh.Offset
			found = true
		}
	}
	return best
}

// Aggregator accumulates candidates across multiple frames and selects a
// winning polynomial and offset (spec component C5). It borrows every
// Descriptor it stores from the library that produced the candidates.
type Aggregator struct {
	hits  []*PolyHit
	index map[*lfsr.Descriptor]*PolyHit
}

// NewAggregator returns an empty hit aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{index: make(map[*lfsr.Descriptor]*PolyHit)}
}

// RecordCandidate records one candidate produced by a single frame's
// correlator run. Candidates whose polynomial has a cycle length below
// minCycleLenForHit are ignored, per spec.md §4.5.
func (a *Aggregator) RecordCandidate(cand Candidate) {
	if cand.Desc.CycleLen() < minCycleLenForHit {
		return
	}
	a.record(cand.Desc, cand.Phase)
}

func (a *Aggregator) record(desc *lfsr.Descriptor, offset uint64) {
	hit, ok := a.index[desc]
	if !ok {
		hit = &PolyHit{Desc: desc}
		a.hits = append(a.hits, hit)
		a.index[desc] = hit
	}

	for i := range hit.Offsets {
		if hit.Offsets[i].Offset == offset {
			hit.Offsets[i].Count++
			hit.TotalHits++
			if hit.Offsets[i].Count > hit.MaxOffsetHits {
				hit.MaxOffsetHits = hit.Offsets[i].Count
			}
			return
		}
	}

	hit.Offsets = append(hit.Offsets, OffsetHit{Offset: offset, Count: 1})
	hit.TotalHits++
	if hit.MaxOffsetHits < 1 {
		hit.MaxOffsetHits = 1
	}
}

// Hits returns every polynomial that ever became a candidate, in the
// order it was first seen.
func (a *Aggregator) Hits() []*PolyHit {
	return a.hits
}

// Winner returns the polynomial with the greatest MaxOffsetHits, ties
// broken by earliest insertion order, and false if no candidate was ever
// recorded.
func (a *Aggregator) Winner() (*PolyHit, bool) {
	var best *PolyHit
	for _, h := range a.hits {
		if best == nil || h.MaxOffsetHits > best.MaxOffsetHits {
			best = h
		}
	}
	return best, best != nil
}
