package genome

import "testing"

func makeTestView(bases string) *View {
	contigs := NewContigTable([]string{"chr1"}, []Locus{Locus(len(bases))})
	return NewView([]byte(bases), contigs)
}

func TestBuildAndLookupSeed(t *testing.T) {
	// "ACGT" repeated so the seed ACGTACGT occurs at several loci (0, 4, 8, 20).
	view := makeTestView("ACGTACGTACGTACGTNNNNACGTACGT")
	idx := Build(view, 8)

	fwd, _ := idx.LookupSeed([]byte("ACGTACGT"))
	if len(fwd) == 0 {
		t.Fatalf("expected at least one forward hit for ACGTACGT")
	}
	for _, loc := range fwd {
		got, _ := view.GetSubstring(loc, 8)
		if string(got) != "ACGTACGT" {
			t.Errorf("hit at %d does not match seed: got %q", loc, got)
		}
	}
}

func TestBuildSkipsSeedsWithN(t *testing.T) {
	view := makeTestView("ACGTNCGTACGTACGT")
	idx := Build(view, 8)
	// the window [0,8) contains an N at offset 4, so it must never be indexed.
	fwd, rc := idx.LookupSeed([]byte("ACGTNCGT"))
	if fwd != nil || rc != nil {
		t.Errorf("seed containing N should never be indexed")
	}
}

func TestHitsDescendingSorted(t *testing.T) {
	view := makeTestView("ACGTACGTCCCCACGTACGTGGGGACGTACGT")
	idx := Build(view, 8)
	fwd, _ := idx.LookupSeed([]byte("ACGTACGT"))
	for i := 1; i < len(fwd); i++ {
		if fwd[i] > fwd[i-1] {
			t.Fatalf("hits not descending sorted: %v", fwd)
		}
	}
}
