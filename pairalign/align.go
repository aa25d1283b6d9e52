// Package pairalign implements the four-phase paired-end, linked-read-aware
// pair-intersection engine: seed-driven candidate enumeration via
// coordinated descent over two sorted hit streams, banded edit-distance
// scoring with cluster-aware compensation, and MAPQ/secondary finalization.
package pairalign

import (
	"github.com/scigenomics/tenxalign/circular"
	"github.com/scigenomics/tenxalign/cluster"
	"github.com/scigenomics/tenxalign/genome"
	"github.com/scigenomics/tenxalign/seq"
)

// Aligner holds one pair-alignment instance's state: its arenas, its
// configuration, and its collaborators. An Aligner is single-threaded and
// its state is never shared across goroutines; callers that want
// concurrency run one Aligner per worker.
type Aligner struct {
	cfg      Config
	idx      GenomeIndex
	view     GenomeView
	oracle   ScoringOracle
	mapqFn   MAPQFunc
	adjuster AlignmentAdjuster

	cands   *CandidatePool
	mates   *MateCandidatePool
	anchors *MergeAnchorPool
	lists   *ScoreLists
	toggles *cluster.Toggles
	contigs *contigCapState

	TotalLocationsScored int
}

// roundPoolSize rounds n up to the nearest power of two, using
// circular.NextExp2 the same way a ring buffer sizes its backing store.
// It is applied to Config's CandidatePoolSize, MateCandidatePoolSize and
// MergeAnchorPoolSize; the arenas never grow afterwards, so the rounded
// value is each pool's capacity for the Aligner's lifetime.
func roundPoolSize(n int) int {
	if n <= 1 {
		return n
	}
	return circular.NextExp2(n - 1)
}

// NewAligner allocates a new Aligner. The pools are sized once from
// cfg.CandidatePoolSize / MateCandidatePoolSize / MergeAnchorPoolSize and
// reused across every call to Align; there is no spill path once a pool
// is full.
func NewAligner(cfg Config, idx GenomeIndex, view GenomeView, oracle ScoringOracle, mapqFn MAPQFunc, adjuster AlignmentAdjuster) *Aligner {
	maxIndex := cfg.MaxK + cfg.ExtraSearchDepth + cfg.ClusterEDCompensation
	return &Aligner{
		cfg:      cfg,
		idx:      idx,
		view:     view,
		oracle:   oracle,
		mapqFn:   mapqFn,
		adjuster: adjuster,
		cands:    NewCandidatePool(roundPoolSize(cfg.CandidatePoolSize)),
		mates:    NewMateCandidatePool(roundPoolSize(cfg.MateCandidatePoolSize)),
		anchors:  NewMergeAnchorPool(roundPoolSize(cfg.MergeAnchorPoolSize)),
		lists:    NewScoreLists(maxIndex),
		toggles:  cluster.NewToggles(0),
		contigs:  newContigCapState(0),
	}
}

func notFoundOutput(popularSkipped int) AlignOutput {
	return AlignOutput{
		Best: PairedAlignmentResult{
			Read0: ReadResult{Status: NotFound, Locus: genome.Invalid},
			Read1: ReadResult{Status: NotFound, Locus: genome.Invalid},
		},
		PopularSeedsSkipped: popularSkipped,
	}
}

// AlignPair runs the full four-phase pipeline for one pair, with no
// cluster-target-locus restriction — the public Phase-2 entry point.
func (a *Aligner) AlignPair(read0, read1 seq.Read, clusterIdx int, counter *cluster.Counter) AlignOutput {
	return a.Align(read0, read1, clusterIdx, counter, 0)
}

// Align runs the full pipeline with an explicit cluster-target-locus, the
// knob an upstream per-cluster pipelined driver uses to process one
// cluster neighborhood of Phase 2 at a time.
func (a *Aligner) Align(read0, read1 seq.Read, clusterIdx int, counter *cluster.Counter, clusterTargetLocus genome.Locus) AlignOutput {
	a.cands.Reset()
	a.mates.Reset()
	a.anchors.Reset()
	a.lists.Reset()
	a.toggles.Grow(counter.Len())
	a.toggles.Reset()

	seeds := phase1(read0, read1, a.idx, a.cfg)
	if seeds.reject {
		return notFoundOutput(0)
	}

	fewerRead, moreRead := read0, read1
	fewerIdx := 0
	if !seeds.fewerIsRead0 {
		fewerRead, moreRead = read1, read0
		fewerIdx = 1
	}
	fewerRC := fewerRead.ReverseComplement()
	moreRC := moreRead.ReverseComplement()

	sp0 := newSetPairState(0, seeds.fewerFwd, seeds.moreRc, int(seq.Forward), int(seq.ReverseComplement), a.mates)
	sp0.fewerBases, sp0.fewerQual = fewerRead.Bases, fewerRead.Quality
	sp0.moreBases, sp0.moreQual = moreRC.Bases, moreRC.Quality
	sp0.fewerReadIdx = fewerIdx

	sp1 := newSetPairState(1, seeds.fewerRc, seeds.moreFwd, int(seq.ReverseComplement), int(seq.Forward), a.mates)
	sp1.fewerBases, sp1.fewerQual = fewerRC.Bases, fewerRC.Quality
	sp1.moreBases, sp1.moreQual = moreRead.Bases, moreRead.Quality
	sp1.fewerReadIdx = fewerIdx

	pairs := []*setPairState{sp0, sp1}

	phase2Drive(pairs, a.cfg, a.mates, a.cands, a.lists, clusterIdx, clusterTargetLocus)

	ctx := &phase3Context{
		cfg: a.cfg, pairs: pairs, cands: a.cands, mates: a.mates,
		lists: a.lists, anchors: a.anchors, oracle: a.oracle, view: a.view,
		seedLen: a.idx.SeedLength(),
	}

	bestCompensated := a.cfg.MaxK + a.cfg.ExtraSearchDepth + a.cfg.ClusterEDCompensation
	nScored := 0
	ctx.score(&bestCompensated, false, &nScored)
	a.TotalLocationsScored += nScored

	incrementClusters(a.anchors, a.cfg, bestCompensated, counter, a.toggles)
	if corrected, changed := correctBest(a.anchors, a.cfg, counter, bestCompensated); changed {
		bestCompensated = corrected
	}

	best, secondaries, probAll, needLarger, required := countAndGenerate(ctx, counter, bestCompensated, a.cfg.MaxEditDistanceForSecondary, a.cfg.SecondaryBufSize)
	if needLarger {
		return AlignOutput{
			NeedLargerBuffer:       true,
			RequiredSecondaryCount: required,
			PopularSeedsSkipped:    seeds.popularSkipped,
			LocationsScored:        nScored,
		}
	}

	secondaries = phase4Finalize(&best, secondaries, a.cfg, probAll, seeds.popularSkipped, a.view, a.mapqFn, a.adjuster, a.contigs)

	return AlignOutput{
		Best:                best,
		Secondaries:         secondaries,
		PopularSeedsSkipped: seeds.popularSkipped,
		LocationsScored:     nScored,
	}
}
