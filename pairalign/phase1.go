package pairalign

import (
	"math"

	"github.com/scigenomics/tenxalign/seq"
)

// seedSample is the result of sampling one read's seeds: a HitSet per
// strand plus the number of popular seeds skipped for that read.
type seedSample struct {
	fwd, rc        *HitSet
	popularSkipped int
	reject         bool
}

// wrapOffsets returns the fixed retry sequence Phase 1 uses once the
// straight seedLen-stepping walk runs off the end of the read.
func wrapOffsets(seedLen int) []int {
	out := make([]int, seedLen)
	for i := 0; i < seedLen; i++ {
		out[i] = seedLen - 1 - i
	}
	return out
}

func windowHasN(w []byte) bool {
	for _, b := range w {
		if b == 'N' {
			return true
		}
	}
	return false
}

// samplePhase1 samples seeds from one read: iterate seed offsets, look each
// one up in both strands, record into per-strand HitSets subject to the
// maxBigHits/maxSeeds limits, and fan out or wrap the offset sequence as the
// read end approaches.
func samplePhase1(r seq.Read, idx GenomeIndex, cfg Config) seedSample {
	seedLen := idx.SeedLength()
	readLen := r.Len()
	if readLen < seedLen {
		return seedSample{reject: true}
	}

	maxSeeds := cfg.MaxSeeds
	if maxSeeds <= 0 {
		maxSeeds = int(math.Ceil(float64(readLen) * cfg.SeedCoverage / float64(seedLen)))
	}
	if maxSeeds < 1 {
		maxSeeds = 1
	}

	fwd := NewHitSet(cfg.MergeDistance)
	rc := NewHitSet(cfg.MergeDistance)
	used := make([]bool, readLen)
	wraps := wrapOffsets(seedLen)

	offset := 0
	wrapCount := 0
	beginsDisjoint := true
	seedsUsed := 0
	popularSkipped := 0

	for seedsUsed < maxSeeds {
		if offset < 0 || offset+seedLen > readLen {
			if wrapCount >= seedLen {
				break
			}
			offset = wraps[wrapCount%len(wraps)]
			wrapCount++
			beginsDisjoint = true
			if offset+seedLen > readLen {
				continue
			}
		}
		if used[offset] || windowHasN(r.Bases[offset:offset+seedLen]) {
			offset += seedLen
			continue
		}

		seed := r.Bases[offset : offset+seedLen]
		fwdHits, rcHits := idx.LookupSeed(seed)

		if len(fwdHits) >= cfg.MaxBigHits {
			popularSkipped++
		} else {
			fwd.Record(offset, fwdHits, beginsDisjoint)
		}
		if len(rcHits) >= cfg.MaxBigHits {
			popularSkipped++
		} else {
			rc.Record(offset, rcHits, beginsDisjoint)
		}

		used[offset] = true
		beginsDisjoint = false
		seedsUsed++

		remainingBudget := maxSeeds - seedsUsed
		remaining := readLen - offset - seedLen
		if remainingBudget > 0 && remaining/remainingBudget < seedLen {
			step := remaining / remainingBudget
			if step < 1 {
				step = 1
			}
			offset += step
		} else {
			offset += seedLen
		}
	}

	return seedSample{fwd: fwd, rc: rc, popularSkipped: popularSkipped}
}

// pairSeeds holds the outcome of Phase 1 across both reads: four HitSets
// labeled by which read turned out to have fewer total hits.
type pairSeeds struct {
	fewerFwd, fewerRc *HitSet
	moreFwd, moreRc   *HitSet
	fewerIsRead0      bool
	popularSkipped    int
	reject            bool
}

// phase1 runs seed sampling for both reads and labels the fewer/more sides.
func phase1(read0, read1 seq.Read, idx GenomeIndex, cfg Config) pairSeeds {
	if read0.NumN()+read1.NumN() > cfg.MaxK {
		return pairSeeds{reject: true}
	}

	s0 := samplePhase1(read0, idx, cfg)
	s1 := samplePhase1(read1, idx, cfg)
	if s0.reject || s1.reject {
		return pairSeeds{reject: true}
	}

	total0 := s0.fwd.TotalHits() + s0.rc.TotalHits()
	total1 := s1.fwd.TotalHits() + s1.rc.TotalHits()
	fewerIsRead0 := total0 <= total1

	ps := pairSeeds{fewerIsRead0: fewerIsRead0, popularSkipped: s0.popularSkipped + s1.popularSkipped}
	if fewerIsRead0 {
		ps.fewerFwd, ps.fewerRc = s0.fwd, s0.rc
		ps.moreFwd, ps.moreRc = s1.fwd, s1.rc
	} else {
		ps.fewerFwd, ps.fewerRc = s1.fwd, s1.rc
		ps.moreFwd, ps.moreRc = s0.fwd, s0.rc
	}
	return ps
}
