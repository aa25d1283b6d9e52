package genome

// Locus is a single coordinate in the linear genome address space: all
// contigs are concatenated into one address space, and a ContigTable
// answers "contig of location" queries over it. Loci are always 64-bit.
type Locus uint64

// Invalid is the sentinel locus used when "no hit"/"no mate" needs to be
// represented inline rather than via a (Locus, bool) pair.
const Invalid = ^Locus(0)

// Within reports whether the distance between a and b is <= d, handling
// unsigned wraparound explicitly.
func Within(a, b Locus, d uint64) bool {
	if a >= b {
		return uint64(a-b) <= d
	}
	return uint64(b-a) <= d
}

// ContigTable maps contiguous ranges of the linear address space to contig
// names, and answers "contig of location" queries with a binary search over
// sorted start offsets, keeping a single flattened address space instead of
// a (refID, pos) pair.
type ContigTable struct {
	names  []string
	starts []Locus // starts[i] is the first locus of contig i; sorted ascending
	lens   []Locus
}

// NewContigTable builds a ContigTable from contig names and lengths, laid
// out back to back starting at locus 0, in the order given.
func NewContigTable(names []string, lens []Locus) *ContigTable {
	starts := make([]Locus, len(names))
	var cur Locus
	for i, l := range lens {
		starts[i] = cur
		cur += l
	}
	return &ContigTable{names: names, starts: starts, lens: lens}
}

// TotalLength returns the sum of all contig lengths.
func (t *ContigTable) TotalLength() Locus {
	if len(t.starts) == 0 {
		return 0
	}
	return t.starts[len(t.starts)-1] + t.lens[len(t.lens)-1]
}

// NumContigs returns the number of contigs in the table.
func (t *ContigTable) NumContigs() int { return len(t.names) }

// ContigAt returns the index of the contig containing locus, and the
// locus's 0-based offset within that contig.
func (t *ContigTable) ContigAt(locus Locus) (contig int, offset Locus) {
	lo, hi := 0, len(t.starts)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if t.starts[mid] <= locus {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return lo, locus - t.starts[lo]
}

// Name returns the name of contig i.
func (t *ContigTable) Name(i int) string { return t.names[i] }

// Start returns the first locus of contig i.
func (t *ContigTable) Start(i int) Locus { return t.starts[i] }

// Len returns the length of contig i.
func (t *ContigTable) Len(i int) Locus { return t.lens[i] }
