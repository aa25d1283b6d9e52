package genome

// View is the genome-view collaborator: substring lookup, contig-of-location
// lookup, and total length. The pairalign core only ever sees this interface
// (pairalign.GenomeView); View is the in-memory reference implementation
// used by tests and the CLI.
type View struct {
	bases   []byte // concatenated contig sequence, uppercase ACGTN
	contigs *ContigTable
}

// NewView builds a View directly from concatenated bases and a matching
// ContigTable. Most callers should use LoadFASTA instead.
func NewView(bases []byte, contigs *ContigTable) *View {
	return &View{bases: bases, contigs: contigs}
}

// GetSubstring returns the length-byte window starting at locus, or
// (nil, false) if that window runs off the end of the address space.
func (v *View) GetSubstring(locus Locus, length int) ([]byte, bool) {
	start := int(locus)
	end := start + length
	if start < 0 || end > len(v.bases) || length < 0 {
		return nil, false
	}
	return v.bases[start:end], true
}

// GetContigNumAtLocation returns the index of the contig containing locus.
func (v *View) GetContigNumAtLocation(locus Locus) int {
	contig, _ := v.contigs.ContigAt(locus)
	return contig
}

// Len returns the total length of the address space.
func (v *View) Len() Locus { return Locus(len(v.bases)) }

// ContigEnd returns the locus immediately past the last base of the contig
// containing locus -- the boundary a window starting at locus must not
// cross without running into the next contig's unrelated sequence, since
// the address space has no gap between contigs.
func (v *View) ContigEnd(locus Locus) Locus {
	contig, offset := v.contigs.ContigAt(locus)
	return locus - offset + v.contigs.Len(contig)
}

// Contigs returns the view's contig table.
func (v *View) Contigs() *ContigTable { return v.contigs }
