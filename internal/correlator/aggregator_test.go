package correlator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregatorIgnoresShortCycleCandidates(t *testing.T) {
	a := NewAggregator()
	short := mustDescriptor(t, 3, 1) // cycle_len = 7 < 16

	a.RecordCandidate(Candidate{Desc: short, Offset: 2, Phase: 2})

	_, ok := a.Winner()
	assert.False(t, ok)
}

func TestAggregatorWinnerByMaxOffsetHits(t *testing.T) {
	a := NewAggregator()
	pA := mustDescriptor(t, 10, 3, 1)
	pB := mustDescriptor(t, 9, 5, 1)

	// pA: offset 5 hit twice, offset 7 hit once -> max 2
	a.RecordCandidate(Candidate{Desc: pA, Offset: 5, Phase: 5})
	a.RecordCandidate(Candidate{Desc: pA, Offset: 5, Phase: 5})
	a.RecordCandidate(Candidate{Desc: pA, Offset: 7, Phase: 7})

	// pB: offset 3 hit once -> max 1
	a.RecordCandidate(Candidate{Desc: pB, Offset: 3, Phase: 3})

	winner, ok := a.Winner()
	require.True(t, ok)
	assert.Same(t, pA, winner.Desc)
	assert.Equal(t, 2, winner.MaxOffsetHits)
	assert.Equal(t, uint64(5), winner.BestOffset())
}

func TestPolyHitBestOffsetTieBreaksAscending(t *testing.T) {
	a := NewAggregator()
	p := mustDescriptor(t, 10, 3, 1)

	a.RecordCandidate(Candidate{Desc: p, Offset: 9, Phase: 9})
	a.RecordCandidate(Candidate{Desc: p, Offset: 2, Phase: 2})

	winner, ok := a.Winner()
	require.True(t, ok)
	assert.Equal(t, 1, winner.MaxOffsetHits)
	assert.Equal(t, uint64(2), winner.BestOffset())
}

func TestAggregatorTieBreaksByInsertionOrder(t *testing.T) {
	a := NewAggregator()
	first := mustDescriptor(t, 10, 3, 1)
	second := mustDescriptor(t, 9, 5, 1)

	a.RecordCandidate(Candidate{Desc: first, Offset: 1, Phase: 1})
	a.RecordCandidate(Candidate{Desc: second, Offset: 1, Phase: 1})

	winner, ok := a.Winner()
	require.True(t, ok)
	assert.Same(t, first, winner.Desc)
}
