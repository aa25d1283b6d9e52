package pairalign

import (
	"encoding/binary"

	"github.com/minio/highwayhash"

	"github.com/scigenomics/tenxalign/genome"
	"github.com/scigenomics/tenxalign/internal/arena"
)

// MergeAnchor is the representative of a group of nearby candidate pairs
// for deduplication. At most one anchor exists per ≤50bp neighborhood per
// set-pair.
type MergeAnchor struct {
	FewerLocus genome.Locus
	MoreLocus  genome.Locus
	PairScore  int
	PairProb   float64
	ClusterIdx int
	SetPair    int
	Candidate  int // owning Candidate pool index
	Mate       int // owning MateCandidate pool index
	Valid      bool
}

// mergeNeighborhood is the fixed ≤50bp radius used when scanning for an
// existing anchor to adopt.
const mergeNeighborhood = 50

// MergeAnchorPool is the arena-backed pool of MergeAnchors, reset once per
// pair. Beside the pool itself it keeps a bucket index (a highwayhash of
// the set-pair and the anchor's fewer-side locus divided by
// mergeNeighborhood) so FindNeighbor doesn't need to walk every live anchor
// when a pair is cluttered with candidates.
type MergeAnchorPool struct {
	pool    *arena.Pool[MergeAnchor]
	buckets map[hashKey][]int
}

type hashKey = [highwayhash.Size]uint8

var zeroHashSeed = hashKey{}

// bucketKey hashes (setPair, locus/mergeNeighborhood) into a fixed-size key.
// Anchors whose fewerLocus falls in the same or an adjacent bucket are the
// only candidates FindNeighbor needs to compare exactly.
func bucketKey(setPair int, bucket int64) hashKey {
	var buf [16]uint8
	binary.LittleEndian.PutUint64(buf[0:8], uint64(setPair))
	binary.LittleEndian.PutUint64(buf[8:16], uint64(bucket))
	return highwayhash.Sum(buf[:], zeroHashSeed[:])
}

func locusBucket(l genome.Locus) int64 {
	return int64(l) / mergeNeighborhood
}

// NewMergeAnchorPool allocates a MergeAnchorPool with room for capacity
// anchors.
func NewMergeAnchorPool(capacity int) *MergeAnchorPool {
	return &MergeAnchorPool{
		pool:    arena.New[MergeAnchor](capacity, "merge anchor pool exhausted"),
		buckets: make(map[hashKey][]int),
	}
}

func (p *MergeAnchorPool) Reset() {
	p.pool.Reset()
	for k := range p.buckets {
		delete(p.buckets, k)
	}
}
func (p *MergeAnchorPool) Len() int                { return p.pool.Len() }
func (p *MergeAnchorPool) At(idx int) *MergeAnchor { return p.pool.At(idx) }

func (p *MergeAnchorPool) indexBucket(setPair int, locus genome.Locus, idx int) {
	k := bucketKey(setPair, locusBucket(locus))
	p.buckets[k] = append(p.buckets[k], idx)
}

// FindNeighbor looks for a live anchor in this set-pair within
// mergeNeighborhood of fewerLocus. It consults the bucket hash for
// fewerLocus's own bucket and its two neighbors (a locus near a bucket
// boundary can be within range of an anchor one bucket over) and verifies
// each candidate exactly before returning it; a stale bucket entry (an
// anchor that has since moved) simply fails the exact check and is skipped.
func (p *MergeAnchorPool) FindNeighbor(setPair int, fewerLocus genome.Locus) (int, bool) {
	b := locusBucket(fewerLocus)
	for _, bucket := range [3]int64{b - 1, b, b + 1} {
		if bucket < 0 {
			continue
		}
		for _, i := range p.buckets[bucketKey(setPair, bucket)] {
			a := p.At(i)
			if !a.Valid || a.SetPair != setPair {
				continue
			}
			if genome.Within(a.FewerLocus, fewerLocus, mergeNeighborhood) {
				return i, true
			}
		}
	}
	return -1, false
}

// New allocates a fresh, unpopulated anchor for setPair near fewerLocus.
// It starts Invalid so the caller's immediately-following CheckMerge call
// takes the unconditional-install branch rather than tie-breaking against
// garbage incumbent values; FindNeighbor skips Invalid anchors, and New
// itself defers bucket-indexing to that CheckMerge call.
func (p *MergeAnchorPool) New(setPair int, fewerLocus, moreLocus genome.Locus) int {
	slot, idx := p.pool.Alloc()
	*slot = MergeAnchor{FewerLocus: fewerLocus, MoreLocus: moreLocus, SetPair: setPair, ClusterIdx: -1, Candidate: -1, Mate: -1}
	return idx
}

// checkMergeResult reports whether the new candidate/mate pair was accepted
// as the anchor's new representative.
type checkMergeResult struct {
	Accepted bool
}

// CheckMerge checks the anchor at anchorIdx against a newly-scored candidate
// pair: if the anchor has no prior location, or the new location falls
// outside its merge range, install the new values unconditionally. Otherwise
// apply the deterministic tie-break: clustered beats unclustered, then
// lower pairScore, then higher matchProbability; ties keep the incumbent.
func (p *MergeAnchorPool) CheckMerge(anchorIdx int, fewerLocus, moreLocus genome.Locus, pairProb float64, pairScore, clusterIdx, candIdx, mateIdx int) checkMergeResult {
	a := p.At(anchorIdx)
	if !a.Valid || !genome.Within(a.FewerLocus, fewerLocus, mergeNeighborhood) {
		a.FewerLocus, a.MoreLocus = fewerLocus, moreLocus
		a.PairScore, a.PairProb, a.ClusterIdx = pairScore, pairProb, clusterIdx
		a.Candidate, a.Mate, a.Valid = candIdx, mateIdx, true
		p.indexBucket(a.SetPair, fewerLocus, anchorIdx)
		return checkMergeResult{Accepted: true}
	}

	incumbentClustered := a.ClusterIdx != -1
	newClustered := clusterIdx != -1
	replace := false
	switch {
	case newClustered != incumbentClustered:
		replace = newClustered
	case pairScore != a.PairScore:
		replace = pairScore < a.PairScore
	case pairProb != a.PairProb:
		replace = pairProb > a.PairProb
	default:
		replace = false
	}
	if replace {
		a.FewerLocus, a.MoreLocus = fewerLocus, moreLocus
		a.PairScore, a.PairProb, a.ClusterIdx = pairScore, pairProb, clusterIdx
		a.Candidate, a.Mate = candIdx, mateIdx
	}
	return checkMergeResult{Accepted: replace}
}
