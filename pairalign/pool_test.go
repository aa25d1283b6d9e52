package pairalign

import (
	"testing"

	"github.com/grailbio/testutil/assert"
)

func TestCandidatePoolAllocAndReset(t *testing.T) {
	pool := NewCandidatePool(4)
	idx0, ok := pool.Alloc()
	assert.True(t, ok && idx0 == 0, "first Alloc() = (%d,%v), want (0,true)", idx0, ok)
	pool.At(idx0).Locus = 42
	idx1, ok := pool.Alloc()
	assert.True(t, ok && idx1 == 1, "second Alloc() = (%d,%v), want (1,true)", idx1, ok)
	assert.EQ(t, pool.Len(), 2)
	pool.Reset()
	assert.EQ(t, pool.Len(), 0)
	idx0again, _ := pool.Alloc()
	assert.EQ(t, idx0again, 0)
}

func TestMateCandidatePoolAppend(t *testing.T) {
	pool := NewMateCandidatePool(4)
	idx := pool.Append(MateCandidate{Locus: 100, BestPossible: 2})
	assert.EQ(t, idx, 0)
	got := pool.At(idx)
	assert.True(t, got.Locus == 100 && got.BestPossible == 2, "At(%d) = %+v, want Locus=100 BestPossible=2", idx, got)
	idx2 := pool.Append(MateCandidate{Locus: 200})
	assert.True(t, idx2 == 1 && pool.Len() == 2, "second Append() index=%d len=%d, want 1,2", idx2, pool.Len())
}

func TestScoreListsInsertPopOrder(t *testing.T) {
	cands := NewCandidatePool(8)
	lists := NewScoreLists(5)

	a, _ := cands.Alloc()
	b, _ := cands.Alloc()
	c, _ := cands.Alloc()

	lists.Insert(cands, a, 2)
	lists.Insert(cands, b, 2) // pushed in front of a within bucket 2
	lists.Insert(cands, c, 0)

	got, ok := lists.Pop(cands, 2)
	if !ok || got != b {
		t.Fatalf("first Pop(2) = (%d,%v), want (%d,true): most recent insert pops first", got, ok, b)
	}
	got, ok = lists.Pop(cands, 2)
	if !ok || got != a {
		t.Fatalf("second Pop(2) = (%d,%v), want (%d,true)", got, ok, a)
	}
	if _, ok = lists.Pop(cands, 2); ok {
		t.Fatalf("bucket 2 should be empty now")
	}
	got, ok = lists.Pop(cands, 0)
	if !ok || got != c {
		t.Fatalf("Pop(0) = (%d,%v), want (%d,true)", got, ok, c)
	}
}

func TestScoreListsInsertClampsOutOfRangeBucket(t *testing.T) {
	cands := NewCandidatePool(4)
	lists := NewScoreLists(3)
	idx, _ := cands.Alloc()

	lists.Insert(cands, idx, -5)
	if got, ok := lists.Pop(cands, 0); !ok || got != idx {
		t.Fatalf("negative bucket should clamp to 0, got Pop(0)=(%d,%v)", got, ok)
	}

	idx2, _ := cands.Alloc()
	lists.Insert(cands, idx2, 999)
	if got, ok := lists.Pop(cands, lists.MaxIndex()); !ok || got != idx2 {
		t.Fatalf("bucket above MaxIndex should clamp to MaxIndex, got Pop(MaxIndex)=(%d,%v)", got, ok)
	}
}
