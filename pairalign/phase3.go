package pairalign

import (
	"math"

	"github.com/scigenomics/tenxalign/cluster"
	"github.com/scigenomics/tenxalign/genome"
)

// scoreAt scores bases/qual against the genome window starting at locus,
// pulling extra slack past len(bases) so indels near the end can still be
// represented. Returns ok=false if the window runs off the reference or
// the oracle reports the limit was exceeded. offsetCorr is the oracle's
// leading-skip correction, always 0 when ok is false.
func scoreAt(oracle ScoringOracle, view GenomeView, locus genome.Locus, bases, qual []byte, limit int) (score int, prob float64, offsetCorr int, ok bool) {
	if limit < 0 {
		return -1, 0, 0, false
	}
	text, okWin := view.GetSubstring(locus, len(bases)+limit)
	if !okWin {
		text, okWin = view.GetSubstring(locus, len(bases))
		if !okWin {
			return -1, 0, 0, false
		}
	}
	s, p, corr := oracle.Score(text, bases, qual, limit)
	if s < 0 {
		return -1, 0, 0, false
	}
	return s, p, corr, true
}

// seedProb is the seed's own contribution to the match probability:
// (1-snpProb)^seedLen.
func seedProb(snpProb float64, seedLen int) float64 {
	return math.Pow(1-snpProb, float64(seedLen))
}

// tooCloseInterior reports whether m lies within the exclusive minSpacing
// interior around c — too tight an overlap to be a valid pair.
func tooCloseInterior(c, m genome.Locus, minSpacing uint64) bool {
	var d uint64
	if c >= m {
		d = uint64(c - m)
	} else {
		d = uint64(m - c)
	}
	return d < minSpacing
}

// phase3Context bundles everything score/increment/correct/generate need
// that doesn't change across the revise/non-revise re-run.
type phase3Context struct {
	cfg     Config
	pairs   []*setPairState
	cands   *CandidatePool
	mates   *MateCandidatePool
	lists   *ScoreLists
	anchors *MergeAnchorPool
	oracle  ScoringOracle
	view    GenomeView
	seedLen int
}

// score pops candidates from ScoreLists in non-decreasing best-possible-score
// order, scores the fewer side, then
// walks compatible mate candidates, merges each successfully scored pair
// into a MergeAnchor, and (outside revise mode) tightens bestCompensated
// via Ukkonen pruning.
func (ctx *phase3Context) score(bestCompensated *int, inRevise bool, nScored *int) {
	scoreLimit := ctx.cfg.MaxK + ctx.cfg.ExtraSearchDepth + ctx.cfg.ClusterEDCompensation
	if inRevise {
		scoreLimit = *bestCompensated + ctx.cfg.ExtraSearchDepth + ctx.cfg.ClusterEDCompensation
	}

	k := 0
	for k <= ctx.lists.MaxIndex() && k <= scoreLimit {
		idx, ok := ctx.lists.Pop(ctx.cands, k)
		if !ok {
			k++
			continue
		}
		c := ctx.cands.At(idx)
		sp := ctx.pairs[c.SetPair]

		astray := 0
		if c.ClusterIdx == -1 {
			astray = ctx.cfg.ClusterEDCompensation
		}
		compensatedLimit := scoreLimit - astray

		fScore, fProb, fCorr, okScore := scoreAt(ctx.oracle, ctx.view, c.Locus, sp.fewerBases, sp.fewerQual, compensatedLimit)
		*nScored++
		if !okScore {
			continue
		}
		fProb *= seedProb(ctx.cfg.SNPProb, ctx.seedLen)
		c.Score, c.Prob, c.Scored, c.OffsetCorr = fScore, fProb, true, fCorr

		i := c.HighestMate
		for i >= sp.mateStart {
			m := ctx.mates.At(i)
			if m.SetPair != c.SetPair {
				i--
				continue
			}
			if m.Locus+genome.Locus(ctx.cfg.MaxSpacing) < c.Locus {
				break
			}
			if m.Locus > c.Locus+genome.Locus(ctx.cfg.MaxSpacing) {
				i--
				continue
			}
			if tooCloseInterior(c.Locus, m.Locus, ctx.cfg.MinSpacing) {
				i--
				continue
			}
			if m.BestPossible+c.Score > scoreLimit {
				i--
				continue
			}
			limit := compensatedLimit - c.Score
			if !m.Scored || m.ScoreLimitUsed < limit {
				mScore, mProb, mCorr, okM := scoreAt(ctx.oracle, ctx.view, m.Locus, sp.moreBases, sp.moreQual, limit)
				*nScored++
				m.ScoreLimitUsed = limit
				m.Scored = okM
				if okM {
					m.Score, m.Prob, m.OffsetCorr = mScore, mProb*seedProb(ctx.cfg.SNPProb, ctx.seedLen), mCorr
				}
			}
			if m.Scored {
				pairScore := c.Score + m.Score
				pairProb := c.Prob * m.Prob
				compensatedPairScore := pairScore + astray
				fewerLocus := c.Locus + genome.Locus(c.OffsetCorr)
				moreLocus := m.Locus + genome.Locus(m.OffsetCorr)

				anchorIdx := c.AnchorIdx
				if anchorIdx == -1 {
					found, has := ctx.anchors.FindNeighbor(c.SetPair, fewerLocus)
					if !has {
						found = ctx.anchors.New(c.SetPair, fewerLocus, moreLocus)
					}
					anchorIdx = found
					c.AnchorIdx = anchorIdx
				}
				res := ctx.anchors.CheckMerge(anchorIdx, fewerLocus, moreLocus, pairProb, pairScore, c.ClusterIdx, idx, i)

				if !inRevise && res.Accepted &&
					compensatedPairScore <= ctx.cfg.MaxK+ctx.cfg.ClusterEDCompensation &&
					compensatedPairScore < *bestCompensated {
					*bestCompensated = compensatedPairScore
					if !ctx.cfg.NoUkkonen {
						scoreLimit = *bestCompensated + ctx.cfg.ExtraSearchDepth
					}
				}
			}
			i--
		}
	}
}

// incrementClusters walks every anchor whose compensated score is within
// reach of the current best and saturatingly increments its cluster, once
// per pair, via the toggle array.
func incrementClusters(anchors *MergeAnchorPool, cfg Config, bestCompensated int, counter *cluster.Counter, toggles *cluster.Toggles) {
	for i := 0; i < anchors.Len(); i++ {
		a := anchors.At(i)
		if !a.Valid || a.ClusterIdx == -1 {
			continue
		}
		astray := 0
		if a.ClusterIdx == -1 {
			astray = cfg.ClusterEDCompensation
		}
		if a.PairScore+astray > bestCompensated+cfg.ExtraSearchDepth {
			continue
		}
		if toggles.TryMark(a.ClusterIdx) {
			counter.Increment(a.ClusterIdx)
		}
	}
}

// correctBest recomputes the best compensated score now that cluster-counter
// decisions are final, reporting whether it changed from oldBest.
func correctBest(anchors *MergeAnchorPool, cfg Config, counter *cluster.Counter, oldBest int) (newBest int, changed bool) {
	best := oldBest
	found := false
	for i := 0; i < anchors.Len(); i++ {
		a := anchors.At(i)
		if !a.Valid {
			continue
		}
		clustered := a.ClusterIdx != -1 && counter.IsClustered(a.ClusterIdx, cfg.MinClusterSize)
		penalty := 0
		if !clustered {
			penalty = cfg.ClusterEDCompensation
		}
		comp := a.PairScore + penalty
		if !found || comp < best {
			best, found = comp, true
		}
	}
	if !found {
		return oldBest, false
	}
	return best, best != oldBest
}

// qualifyingAnchor is one anchor that survived count-and-generate's first
// pass.
type qualifyingAnchor struct {
	anchorIdx int
	compScore int
	compProb  float64
}

// countAndGenerate runs two passes: first count how many anchors qualify as
// secondaries and accumulate probabilityOfAllPairs, then (if the buffer is
// big enough) build the result set, pulling the single best result out via
// swap-with-last.
func countAndGenerate(ctx *phase3Context, counter *cluster.Counter, bestCompensated, maxEditDistanceForSecondary, secondaryBufSize int) (best PairedAlignmentResult, secondaries []PairedAlignmentResult, probabilityOfAllPairs float64, needLarger bool, required int) {
	var qualifying []qualifyingAnchor
	for i := 0; i < ctx.anchors.Len(); i++ {
		a := ctx.anchors.At(i)
		if !a.Valid {
			continue
		}
		clustered := a.ClusterIdx != -1 && counter.IsClustered(a.ClusterIdx, ctx.cfg.MinClusterSize)
		compScore := a.PairScore
		compProb := a.PairProb
		if !clustered {
			compScore += ctx.cfg.ClusterEDCompensation
			compProb *= ctx.cfg.UnclusteredPenalty
		}
		if compScore <= bestCompensated+ctx.cfg.ExtraSearchDepth {
			probabilityOfAllPairs += compProb
		}
		if compScore <= bestCompensated+maxEditDistanceForSecondary {
			qualifying = append(qualifying, qualifyingAnchor{i, compScore, compProb})
		}
	}

	if len(qualifying) > secondaryBufSize {
		return PairedAlignmentResult{}, nil, probabilityOfAllPairs, true, len(qualifying)
	}
	if len(qualifying) == 0 {
		notFound := PairedAlignmentResult{
			Read0: ReadResult{Status: NotFound, Locus: genome.Invalid},
			Read1: ReadResult{Status: NotFound, Locus: genome.Invalid},
		}
		return notFound, nil, probabilityOfAllPairs, false, 0
	}

	bestIdx := 0
	for i := 1; i < len(qualifying); i++ {
		if qualifying[i].compScore < qualifying[bestIdx].compScore ||
			(qualifying[i].compScore == qualifying[bestIdx].compScore && qualifying[i].compProb > qualifying[bestIdx].compProb) {
			bestIdx = i
		}
	}
	bestQ := qualifying[bestIdx]
	qualifying[bestIdx] = qualifying[len(qualifying)-1]
	qualifying = qualifying[:len(qualifying)-1]

	best = ctx.buildResult(bestQ)
	secondaries = make([]PairedAlignmentResult, 0, len(qualifying))
	for _, q := range qualifying {
		secondaries = append(secondaries, ctx.buildResult(q))
	}
	return best, secondaries, probabilityOfAllPairs, false, 0
}

func (ctx *phase3Context) buildResult(q qualifyingAnchor) PairedAlignmentResult {
	a := ctx.anchors.At(q.anchorIdx)
	sp := ctx.pairs[a.SetPair]
	c := ctx.cands.At(a.Candidate)
	m := ctx.mates.At(a.Mate)

	fewerRes := ReadResult{Locus: a.FewerLocus, Direction: sp.fewerDir, Len: len(sp.fewerBases), Score: c.Score, Status: SingleHit}
	moreRes := ReadResult{Locus: a.MoreLocus, Direction: sp.moreDir, Len: len(sp.moreBases), Score: m.Score, Status: SingleHit}

	res := PairedAlignmentResult{
		AlignedAsPair:     true,
		Probability:       q.compProb,
		CompensatedScore:  q.compScore,
		ClusterIdx:        a.ClusterIdx,
		FromAlignTogether: true,
	}
	if sp.fewerReadIdx == 0 {
		res.Read0, res.Read1 = fewerRes, moreRes
	} else {
		res.Read0, res.Read1 = moreRes, fewerRes
	}
	return res
}
