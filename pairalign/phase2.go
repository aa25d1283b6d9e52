package pairalign

import "github.com/scigenomics/tenxalign/genome"

// setPairState is one of the two set-pairs: a fewer-side HitSet and a
// more-side HitSet being walked in coordinated descent.
type setPairState struct {
	id int

	fewer, more *HitSet
	fewerDir    int // seq.Forward or seq.ReverseComplement, informational
	moreDir     int

	lastLocusFewer genome.Locus
	lastLocusMore  genome.Locus
	lastOffFewer   int
	lastOffMore    int

	fewerDone bool
	mateStart int // first index in the shared MateCandidatePool this set-pair owns

	fewerBases, fewerQual []byte
	moreBases, moreQual   []byte
	fewerReadIdx          int // 0 or 1: which original read supplies the fewer side
}

func satSub(a, b genome.Locus) genome.Locus {
	if a >= b {
		return a - b
	}
	return 0
}

// newSetPairState initializes one set-pair: the fewer side's cursor starts
// at its first hit, the more side starts at the Invalid sentinel (so the
// first move-locus step always pulls it down into range).
func newSetPairState(id int, fewer, more *HitSet, fewerDir, moreDir int, mates *MateCandidatePool) *setPairState {
	sp := &setPairState{id: id, fewer: fewer, more: more, fewerDir: fewerDir, moreDir: moreDir, mateStart: mates.Len()}
	loc, off, ok := fewer.FirstHit()
	if !ok {
		sp.fewerDone = true
		return sp
	}
	sp.lastLocusFewer, sp.lastOffFewer = loc, off
	sp.lastLocusMore = genome.Invalid
	return sp
}

// hasNearbyMate reports whether any mate candidate this set-pair has
// already produced lies within maxSpacing of locus.
func (sp *setPairState) hasNearbyMate(mates *MateCandidatePool, locus genome.Locus, maxSpacing uint64) bool {
	for i := sp.mateStart; i < mates.Len(); i++ {
		m := mates.At(i)
		if m.SetPair != sp.id {
			continue
		}
		if genome.Within(m.Locus, locus, maxSpacing) {
			return true
		}
	}
	return false
}

// step runs one round of move-locus followed, when applicable, by
// add-candidate.
func (sp *setPairState) step(cfg Config, mates *MateCandidatePool, cands *CandidatePool, lists *ScoreLists, clusterIdx int) {
	if sp.fewerDone {
		return
	}

	if sp.lastLocusMore > sp.lastLocusFewer+genome.Locus(cfg.MaxSpacing) {
		loc, off, ok := sp.more.NextHitLeq(sp.lastLocusFewer + genome.Locus(cfg.MaxSpacing))
		if !ok {
			sp.fewerDone = true
			return
		}
		sp.lastLocusMore, sp.lastOffMore = loc, off
		return
	}
	if sp.lastLocusMore+genome.Locus(cfg.MaxSpacing) < sp.lastLocusFewer &&
		!sp.hasNearbyMate(mates, sp.lastLocusFewer, cfg.MaxSpacing) {
		loc, off, ok := sp.fewer.NextHitLeq(sp.lastLocusMore + genome.Locus(cfg.MaxSpacing))
		if !ok {
			sp.fewerDone = true
			return
		}
		sp.lastLocusFewer, sp.lastOffFewer = loc, off
		return
	}

	sp.addCandidate(cfg, mates, cands, lists, clusterIdx)
}

// addCandidate consumes every more-side hit within the spacing window as a
// new MateCandidate, then forms a
// ScoringCandidate at the fewer side's cursor if the combined lower bound
// is still worth pursuing, and finally advance the fewer side.
func (sp *setPairState) addCandidate(cfg Config, mates *MateCandidatePool, cands *CandidatePool, lists *ScoreLists, clusterIdx int) {
	threshold := satSub(sp.lastLocusFewer, genome.Locus(cfg.MaxSpacing))
	windowStart := mates.Len()

	for sp.lastLocusMore != genome.Invalid && sp.lastLocusMore >= threshold {
		bp := sp.more.BestPossibleScoreForCurrentHit()
		mates.Append(MateCandidate{Locus: sp.lastLocusMore, SetPair: sp.id, BestPossible: bp, SeedOffset: sp.lastOffMore})
		loc, off, ok := sp.more.NextLowerHit()
		if !ok {
			sp.lastLocusMore = genome.Invalid
			break
		}
		sp.lastLocusMore, sp.lastOffMore = loc, off
	}

	fewerBP := sp.fewer.BestPossibleScoreForCurrentHit()
	minMateBP := -1
	highestMate := -1
	for i := windowStart; i < mates.Len(); i++ {
		m := mates.At(i)
		if m.Locus < threshold {
			continue
		}
		if minMateBP == -1 || m.BestPossible < minMateBP {
			minMateBP = m.BestPossible
		}
		highestMate = i
	}

	if minMateBP >= 0 && fewerBP+minMateBP <= cfg.MaxK+cfg.ExtraSearchDepth {
		clusterPenalty := 0
		if clusterIdx == -1 {
			clusterPenalty = cfg.ClusterEDCompensation
		}
		if idx, ok := cands.Alloc(); ok {
			c := cands.At(idx)
			*c = Candidate{
				Locus:        sp.lastLocusFewer,
				SetPair:      sp.id,
				HighestMate:  highestMate,
				SeedOffset:   sp.lastOffFewer,
				BestPossible: fewerBP + minMateBP,
				Next:         -1,
				ClusterIdx:   clusterIdx,
				AnchorIdx:    -1,
			}
			k := c.BestPossible + clusterPenalty
			if cfg.NoOrderedEvaluation {
				k = 0
			}
			lists.Insert(cands, idx, k)
		}
	}

	loc, off, ok := sp.fewer.NextLowerHit()
	if !ok {
		sp.fewerDone = true
		return
	}
	sp.lastLocusFewer, sp.lastOffFewer = loc, off
}

// phase2Drive round-robins across both set-pairs until every fewer side is
// exhausted, stopping early if clusterTargetLocus is nonzero and both
// cursors have descended past it (the per-cluster upstream driver's use
// case; the public entry point always passes 0, meaning "no target").
func phase2Drive(pairs []*setPairState, cfg Config, mates *MateCandidatePool, cands *CandidatePool, lists *ScoreLists, clusterIdx int, clusterTargetLocus genome.Locus) {
	for {
		progressed := false
		for _, sp := range pairs {
			if sp.fewerDone {
				continue
			}
			sp.step(cfg, mates, cands, lists, clusterIdx)
			progressed = true
		}
		if !progressed {
			return
		}
		if clusterTargetLocus > 0 {
			allPastTarget := true
			for _, sp := range pairs {
				if !sp.fewerDone && sp.lastLocusFewer >= clusterTargetLocus {
					allPastTarget = false
				}
			}
			if allPastTarget {
				return
			}
		}
	}
}
