package pairalign

import (
	"github.com/scigenomics/tenxalign/genome"
	"github.com/scigenomics/tenxalign/internal/arena"
)

// MateCandidate is a locus on the higher-hit-count side plus everything
// Phase 3 needs to score and cache that score.
type MateCandidate struct {
	Locus          genome.Locus
	SetPair        int // which setPairState appended this mate into the shared pool
	BestPossible   int
	SeedOffset     int
	Scored         bool
	Score          int
	Prob           float64
	OffsetCorr     int // leading reference bases the oracle's backtrace skipped past Locus; 0 until Scored
	ScoreLimitUsed int
}

// Candidate is a locus on the lower-hit-count side, the set-pair it came
// from, the highest compatible mate index, and (once scored) the pair's
// outcome.
type Candidate struct {
	Locus        genome.Locus
	SetPair      int
	HighestMate  int // index into the MateCandidatePool, -1 if none
	SeedOffset   int
	BestPossible int
	Next         int // next candidate in the same ScoreLists bucket, -1 sentinel
	ClusterIdx   int // -1 means unclustered

	Scored     bool
	Score      int
	Prob       float64
	OffsetCorr int // leading reference bases the oracle's backtrace skipped past Locus; 0 until Scored

	AnchorIdx int // index into the MergeAnchorPool this candidate merged into, -1 if none
}

// CandidatePool is the arena-backed pool of ScoringCandidates, reset once
// per pair, backed by internal/arena.Pool.
type CandidatePool struct {
	pool *arena.Pool[Candidate]
}

// NewCandidatePool allocates a CandidatePool with room for capacity
// candidates. Exhaustion is fatal; callers size capacity generously up front.
func NewCandidatePool(capacity int) *CandidatePool {
	return &CandidatePool{pool: arena.New[Candidate](capacity, "candidate pool exhausted")}
}

func (p *CandidatePool) Reset()                 { p.pool.Reset() }
func (p *CandidatePool) Len() int               { return p.pool.Len() }
func (p *CandidatePool) At(idx int) *Candidate  { return p.pool.At(idx) }
func (p *CandidatePool) Alloc() (int, bool) {
	_, idx := p.pool.Alloc()
	if idx < 0 {
		return -1, false
	}
	return idx, true
}

// MateCandidatePool is the arena-backed pool of ScoringMateCandidates.
type MateCandidatePool struct {
	pool *arena.Pool[MateCandidate]
}

// NewMateCandidatePool allocates a MateCandidatePool with room for capacity
// mate candidates.
func NewMateCandidatePool(capacity int) *MateCandidatePool {
	return &MateCandidatePool{pool: arena.New[MateCandidate](capacity, "mate candidate pool exhausted")}
}

func (p *MateCandidatePool) Reset()                   { p.pool.Reset() }
func (p *MateCandidatePool) Len() int                 { return p.pool.Len() }
func (p *MateCandidatePool) At(idx int) *MateCandidate { return p.pool.At(idx) }
func (p *MateCandidatePool) Append(m MateCandidate) int {
	slot, idx := p.pool.Alloc()
	*slot = m
	return idx
}

// ScoreLists is an array-indexed singly-linked-list structure: entry k holds
// every Candidate whose (best-possible + cluster penalty) equals k.
type ScoreLists struct {
	heads []int
}

// NewScoreLists allocates a ScoreLists with buckets 0..maxIndex inclusive.
func NewScoreLists(maxIndex int) *ScoreLists {
	heads := make([]int, maxIndex+1)
	for i := range heads {
		heads[i] = -1
	}
	return &ScoreLists{heads: heads}
}

// Reset clears every bucket, for reuse across pairs.
func (sl *ScoreLists) Reset() {
	for i := range sl.heads {
		sl.heads[i] = -1
	}
}

// MaxIndex returns the highest valid bucket index.
func (sl *ScoreLists) MaxIndex() int { return len(sl.heads) - 1 }

// Insert pushes candidate idx onto the front of bucket k.
func (sl *ScoreLists) Insert(pool *CandidatePool, idx, k int) {
	if k < 0 {
		k = 0
	}
	if k > sl.MaxIndex() {
		k = sl.MaxIndex()
	}
	c := pool.At(idx)
	c.Next = sl.heads[k]
	sl.heads[k] = idx
}

// Pop removes and returns the head candidate of bucket k, if any.
func (sl *ScoreLists) Pop(pool *CandidatePool, k int) (idx int, ok bool) {
	h := sl.heads[k]
	if h == -1 {
		return -1, false
	}
	sl.heads[k] = pool.At(h).Next
	return h, true
}
