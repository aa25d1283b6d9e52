package genome

import "testing"

func TestContigAt(t *testing.T) {
	table := NewContigTable([]string{"chr1", "chr2", "chr3"}, []Locus{100, 200, 50})
	cases := []struct {
		locus      Locus
		wantContig int
		wantOffset Locus
	}{
		{0, 0, 0},
		{99, 0, 99},
		{100, 1, 0},
		{299, 1, 199},
		{300, 2, 0},
		{349, 2, 49},
	}
	for _, c := range cases {
		contig, offset := table.ContigAt(c.locus)
		if contig != c.wantContig || offset != c.wantOffset {
			t.Errorf("ContigAt(%d) = (%d, %d), want (%d, %d)", c.locus, contig, offset, c.wantContig, c.wantOffset)
		}
	}
	if table.TotalLength() != 350 {
		t.Errorf("TotalLength() = %d, want 350", table.TotalLength())
	}
}

func TestWithin(t *testing.T) {
	if !Within(100, 105, 10) {
		t.Errorf("100,105 should be within 10")
	}
	if Within(100, 120, 10) {
		t.Errorf("100,120 should not be within 10")
	}
	if !Within(105, 100, 10) {
		t.Errorf("Within should be symmetric")
	}
	if !Within(0, 0, 0) {
		t.Errorf("a locus is within 0 of itself")
	}
}

func TestInvalidSentinel(t *testing.T) {
	if Invalid != ^Locus(0) {
		t.Errorf("Invalid should be the max Locus value")
	}
}
