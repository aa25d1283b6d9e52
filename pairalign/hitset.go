package pairalign

import "github.com/scigenomics/tenxalign/genome"

// lookup is one recorded seed lookup inside a HitSet: a descending-sorted
// hit list plus a cursor into it. disjointSet identifies which disjoint
// partition this lookup belongs to.
type lookup struct {
	seedOffset  int
	hits        []genome.Locus // descending, already trimmed below seedOffset
	pos         int
	disjointSet int
}

// HitSet answers descending-cursor queries over every seed lookup recorded
// for one (read, direction): the next highest remaining hit, the next one
// below a bound, and a lower bound on mismatches at the current cursor
// position. An intrusive doubly-linked list of "lookups with remaining
// members" would save a scan here, but a flat scan over lookups is
// equivalent when maxSeeds is small, so that's what this keeps.
type HitSet struct {
	lookups           []lookup
	disjointExhausted []int
	mergeDistance     genome.Locus
	cursor            genome.Locus
}

// NewHitSet returns an empty HitSet. mergeDistance is used only by
// BestPossibleScoreForCurrentHit.
func NewHitSet(mergeDistance uint64) *HitSet {
	return &HitSet{mergeDistance: genome.Locus(mergeDistance)}
}

// Record adds one seed lookup's results. If beginsDisjointSet, a new
// disjoint partition starts here. Hits below seedOffset are trimmed (they'd
// imply a negative alignment start) before being linked in; a lookup that
// ends up with no hits after trimming increments the current partition's
// exhausted count instead of being recorded.
func (hs *HitSet) Record(seedOffset int, hits []genome.Locus, beginsDisjointSet bool) {
	if beginsDisjointSet || len(hs.disjointExhausted) == 0 {
		hs.disjointExhausted = append(hs.disjointExhausted, 0)
	}
	set := len(hs.disjointExhausted) - 1

	trimmed := hits
	for len(trimmed) > 0 && trimmed[len(trimmed)-1] < genome.Locus(seedOffset) {
		trimmed = trimmed[:len(trimmed)-1]
	}
	if len(trimmed) == 0 {
		hs.disjointExhausted[set]++
		return
	}
	hs.lookups = append(hs.lookups, lookup{seedOffset: seedOffset, hits: trimmed, disjointSet: set})
}

// NumLookups reports how many non-empty lookups this HitSet holds.
func (hs *HitSet) NumLookups() int { return len(hs.lookups) }

// TotalHits sums the hit-list lengths across every recorded lookup, used by
// Phase 1 to decide which read is "fewerHits".
func (hs *HitSet) TotalHits() int {
	n := 0
	for _, lk := range hs.lookups {
		n += len(lk.hits)
	}
	return n
}

func (hs *HitSet) valueAt(lk *lookup) (genome.Locus, bool) {
	if lk.pos >= len(lk.hits) {
		return 0, false
	}
	return lk.hits[lk.pos] - genome.Locus(lk.seedOffset), true
}

// FirstHit returns the maximum (hit - seedOffset) across all lookups and
// sets the cursor to it.
func (hs *HitSet) FirstHit() (locus genome.Locus, seedOffset int, ok bool) {
	best := genome.Locus(0)
	bestIdx := -1
	for i := range hs.lookups {
		v, present := hs.valueAt(&hs.lookups[i])
		if !present {
			continue
		}
		if bestIdx == -1 || v > best {
			best, bestIdx = v, i
		}
	}
	if bestIdx == -1 {
		return 0, 0, false
	}
	hs.cursor = best
	return best, hs.lookups[bestIdx].seedOffset, true
}

// NextLowerHit advances any lookup currently equal to the cursor, then
// returns the maximum (hit - seedOffset) strictly less than the old cursor.
func (hs *HitSet) NextLowerHit() (locus genome.Locus, seedOffset int, ok bool) {
	old := hs.cursor
	for i := range hs.lookups {
		lk := &hs.lookups[i]
		for {
			v, present := hs.valueAt(lk)
			if !present || v != old {
				break
			}
			lk.pos++
		}
	}
	best := genome.Locus(0)
	bestIdx := -1
	for i := range hs.lookups {
		v, present := hs.valueAt(&hs.lookups[i])
		if !present || v >= old {
			continue
		}
		if bestIdx == -1 || v > best {
			best, bestIdx = v, i
		}
	}
	if bestIdx == -1 {
		return 0, 0, false
	}
	hs.cursor = best
	return best, hs.lookups[bestIdx].seedOffset, true
}

// NextHitLeq binary-searches each lookup (hits are descending, so value is
// monotonically non-increasing in pos) for the first position whose value is
// <= bound, advances that lookup's cursor there, and returns the maximum
// value across lookups after advancing.
func (hs *HitSet) NextHitLeq(bound genome.Locus) (locus genome.Locus, seedOffset int, ok bool) {
	for i := range hs.lookups {
		lk := &hs.lookups[i]
		lo, hi := lk.pos, len(lk.hits)
		for lo < hi {
			mid := (lo + hi) / 2
			v := lk.hits[mid] - genome.Locus(lk.seedOffset)
			if v <= bound {
				hi = mid
			} else {
				lo = mid + 1
			}
		}
		lk.pos = lo
	}
	best := genome.Locus(0)
	bestIdx := -1
	for i := range hs.lookups {
		v, present := hs.valueAt(&hs.lookups[i])
		if !present {
			continue
		}
		if bestIdx == -1 || v > best {
			best, bestIdx = v, i
		}
	}
	if bestIdx == -1 {
		return 0, 0, false
	}
	hs.cursor = best
	return best, hs.lookups[bestIdx].seedOffset, true
}

// BestPossibleScoreForCurrentHit returns a lower bound on mismatches for any
// alignment starting at the cursor: the maximum, over disjoint sets, of
// (exhausted lookups) + (non-exhausted lookups in that set whose current or
// previous head doesn't land within mergeDistance of cursor+seedOffset).
func (hs *HitSet) BestPossibleScoreForCurrentHit() int {
	numSets := len(hs.disjointExhausted)
	if numSets == 0 {
		return 0
	}
	misses := make([]int, numSets)
	copy(misses, hs.disjointExhausted)

	for i := range hs.lookups {
		lk := &hs.lookups[i]
		target := hs.cursor + genome.Locus(lk.seedOffset)
		witnessed := false
		if lk.pos < len(lk.hits) && genome.Within(lk.hits[lk.pos], target, uint64(hs.mergeDistance)) {
			witnessed = true
		}
		if !witnessed && lk.pos > 0 && genome.Within(lk.hits[lk.pos-1], target, uint64(hs.mergeDistance)) {
			witnessed = true
		}
		if lk.pos >= len(lk.hits) {
			witnessed = false
		}
		if !witnessed {
			misses[lk.disjointSet]++
		}
	}
	best := 0
	for _, m := range misses {
		if m > best {
			best = m
		}
	}
	return best
}
