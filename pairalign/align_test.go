package pairalign_test

import (
	"strings"
	"testing"

	"github.com/scigenomics/tenxalign/cluster"
	"github.com/scigenomics/tenxalign/genome"
	"github.com/scigenomics/tenxalign/pairalign"
	"github.com/scigenomics/tenxalign/score"
	"github.com/scigenomics/tenxalign/seq"
)

// buildSyntheticGenome lays out five blocks back to back: an A/C-only
// filler, a G/T-bearing "read0 home" block, more A/C filler, a distinct
// G/T-bearing "read1 home" block, and trailing filler. Because the filler
// blocks never contain G or T, and the two home blocks use disjoint base
// patterns, no 8-mer from either home block can appear anywhere else in
// this genome — which makes the single-unique-locus assumption of the test
// below hold by construction rather than by chance.
func buildSyntheticGenome() (genomeBytes []byte, read0Locus, read1Locus int) {
	filler := func(n int) string { return strings.Repeat("AC", n/2) }
	read0Home := strings.Repeat("ACGT", 25)  // 100bp, period 4
	read1Home := strings.Repeat("TGCA", 25) // 100bp, period 4, disjoint 8-mers from read0Home

	var b strings.Builder
	b.WriteString(filler(100))
	read0Locus = b.Len()
	b.WriteString(read0Home)
	b.WriteString(filler(400))
	read1Locus = b.Len()
	b.WriteString(read1Home)
	b.WriteString(filler(100))
	return []byte(b.String()), read0Locus, read1Locus
}

func flatQual(n int, q byte) []byte {
	out := make([]byte, n)
	for i := range out {
		out[i] = q
	}
	return out
}

func stubMAPQ(probabilityOfAllPairs, bestProbability float64, readScore, popularSeedsSkipped int) int {
	return 60
}

func TestAlignIdentityPairSingleUniqueLocus(t *testing.T) {
	genomeBytes, read0Locus, read1Locus := buildSyntheticGenome()
	contigs := genome.NewContigTable([]string{"chr1"}, []genome.Locus{genome.Locus(len(genomeBytes))})
	view := genome.NewView(genomeBytes, contigs)
	idx := genome.Build(view, 8)

	read0Home, _ := view.GetSubstring(genome.Locus(read0Locus), 100)
	read1HomeBytes, _ := view.GetSubstring(genome.Locus(read1Locus), 100)

	read0 := seq.New("read0", append([]byte(nil), read0Home...), flatQual(100, 40+33))
	read1Source := seq.New("read1src", append([]byte(nil), read1HomeBytes...), flatQual(100, 40+33))
	read1 := read1Source.ReverseComplement()
	read1.ID = "read1"

	cfg := pairalign.DefaultConfig()
	oracle := score.NewOracle()
	aligner := pairalign.NewAligner(cfg, idx, view, oracle, stubMAPQ, nil)
	counter := cluster.NewCounter(1)

	out := aligner.AlignPair(read0, read1, -1, counter)

	if out.NeedLargerBuffer {
		t.Fatalf("unexpected need-larger-buffer signal, required=%d", out.RequiredSecondaryCount)
	}
	if out.Best.Read0.Status == pairalign.NotFound || out.Best.Read1.Status == pairalign.NotFound {
		t.Fatalf("expected both reads to align, got statuses %v / %v", out.Best.Read0.Status, out.Best.Read1.Status)
	}
	if out.Best.Read0.Locus != genome.Locus(read0Locus) {
		t.Errorf("read0 locus = %d, want %d", out.Best.Read0.Locus, read0Locus)
	}
	if out.Best.Read1.Locus != genome.Locus(read1Locus) {
		t.Errorf("read1 locus = %d, want %d", out.Best.Read1.Locus, read1Locus)
	}
	if out.Best.Read0.Score != 0 {
		t.Errorf("read0 score = %d, want 0", out.Best.Read0.Score)
	}
	if out.Best.Read1.Score != 0 {
		t.Errorf("read1 score = %d, want 0", out.Best.Read1.Score)
	}
	if out.Best.Read0.Direction != int(seq.Forward) {
		t.Errorf("read0 direction = %d, want Forward", out.Best.Read0.Direction)
	}
	if out.Best.Read1.Direction != int(seq.ReverseComplement) {
		t.Errorf("read1 direction = %d, want ReverseComplement", out.Best.Read1.Direction)
	}
}

func TestAlignNFastReject(t *testing.T) {
	genomeBytes, _, _ := buildSyntheticGenome()
	contigs := genome.NewContigTable([]string{"chr1"}, []genome.Locus{genome.Locus(len(genomeBytes))})
	view := genome.NewView(genomeBytes, contigs)
	idx := genome.Build(view, 8)

	cfg := pairalign.DefaultConfig() // MaxK = 5
	oracle := score.NewOracle()
	aligner := pairalign.NewAligner(cfg, idx, view, oracle, stubMAPQ, nil)
	counter := cluster.NewCounter(1)

	nBases := []byte(strings.Repeat("N", 7) + strings.Repeat("A", 93))
	read0 := seq.New("r0", nBases, flatQual(100, 40+33))
	read1 := seq.New("r1", append([]byte(nil), nBases...), flatQual(100, 40+33))

	out := aligner.AlignPair(read0, read1, -1, counter)
	if out.Best.Read0.Status != pairalign.NotFound || out.Best.Read1.Status != pairalign.NotFound {
		t.Fatalf("reads with 7 Ns each (14 > maxK=5) should fast-reject to NotFound")
	}
}

func TestAlignShortReadFastReject(t *testing.T) {
	genomeBytes, _, _ := buildSyntheticGenome()
	contigs := genome.NewContigTable([]string{"chr1"}, []genome.Locus{genome.Locus(len(genomeBytes))})
	view := genome.NewView(genomeBytes, contigs)
	idx := genome.Build(view, 8)

	cfg := pairalign.DefaultConfig()
	oracle := score.NewOracle()
	aligner := pairalign.NewAligner(cfg, idx, view, oracle, stubMAPQ, nil)
	counter := cluster.NewCounter(1)

	short := seq.New("short", []byte("ACG"), flatQual(3, 40+33))
	full := seq.New("full", []byte(strings.Repeat("ACGT", 25)), flatQual(100, 40+33))

	out := aligner.AlignPair(short, full, -1, counter)
	if out.Best.Read0.Status != pairalign.NotFound {
		t.Fatalf("a read shorter than seedLen must fast-reject the whole pair")
	}
}
