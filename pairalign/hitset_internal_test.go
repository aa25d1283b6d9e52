package pairalign

import (
	"testing"

	"github.com/grailbio/testutil/assert"

	"github.com/scigenomics/tenxalign/genome"
)

func locs(vs ...int) []genome.Locus {
	out := make([]genome.Locus, len(vs))
	for i, v := range vs {
		out[i] = genome.Locus(v)
	}
	return out
}

func TestHitSetFirstAndNextLowerHit(t *testing.T) {
	hs := NewHitSet(31)
	// seedOffset 0: hits at 500, 300, 100 -> alignment starts 500,300,100
	hs.Record(0, locs(500, 300, 100), true)
	// seedOffset 10: hits at 520 -> alignment start 510
	hs.Record(10, locs(520), false)

	loc, off, ok := hs.FirstHit()
	assert.True(t, ok && loc == 510 && off == 10, "FirstHit() = (%d,%d,%v), want (510,10,true)", loc, off, ok)

	loc, off, ok = hs.NextLowerHit()
	assert.True(t, ok && loc == 500 && off == 0, "NextLowerHit() = (%d,%d,%v), want (500,0,true)", loc, off, ok)

	loc, off, ok = hs.NextLowerHit()
	assert.True(t, ok && loc == 300 && off == 0, "NextLowerHit() = (%d,%d,%v), want (300,0,true)", loc, off, ok)

	loc, off, ok = hs.NextLowerHit()
	assert.True(t, ok && loc == 100 && off == 0, "NextLowerHit() = (%d,%d,%v), want (100,0,true)", loc, off, ok)

	_, _, ok = hs.NextLowerHit()
	assert.False(t, ok, "NextLowerHit() should be exhausted")
}

func TestHitSetNextHitLeq(t *testing.T) {
	hs := NewHitSet(31)
	hs.Record(0, locs(900, 700, 500, 300), true)

	loc, _, ok := hs.NextHitLeq(600)
	assert.True(t, ok && loc == 500, "NextHitLeq(600) = (%d,%v), want (500,true)", loc, ok)

	_, _, ok = hs.NextHitLeq(100)
	assert.False(t, ok, "NextHitLeq(100) should find nothing: smallest value is 300")
}

func TestHitSetTrimsHitsBelowSeedOffset(t *testing.T) {
	hs := NewHitSet(31)
	// seedOffset 50: a hit at locus 20 would imply a negative alignment
	// start and must be trimmed away.
	hs.Record(50, locs(200, 20), true)
	loc, off, ok := hs.FirstHit()
	assert.True(t, ok && loc == 150 && off == 50, "FirstHit() = (%d,%d,%v), want (150,50,true)", loc, off, ok)
	_, _, ok = hs.NextLowerHit()
	assert.False(t, ok, "the trimmed hit at locus 20 should not surface")
}

func TestHitSetRecordEmptyHitsCountsExhausted(t *testing.T) {
	hs := NewHitSet(31)
	hs.Record(0, nil, true)
	hs.Record(8, locs(100), false)
	// one exhausted lookup in the (sole) disjoint set, one live lookup.
	bp := hs.BestPossibleScoreForCurrentHit()
	assert.True(t, bp >= 1, "bestPossibleScoreForCurrentHit() = %d, want >= 1 with one exhausted lookup", bp)
}

func TestBestPossibleScoreWitnessedHitIsNotAMiss(t *testing.T) {
	hs := NewHitSet(31)
	hs.Record(0, locs(100), true)
	hs.Record(8, locs(108), false) // same alignment start: 108-8=100
	loc, _, ok := hs.FirstHit()
	assert.True(t, ok && loc == 100, "FirstHit() = (%d,%v), want (100,true)", loc, ok)
	assert.EQ(t, hs.BestPossibleScoreForCurrentHit(), 0)
}
