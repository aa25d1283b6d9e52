package pairalign

import "github.com/scigenomics/tenxalign/genome"

// NoopAdjuster is the pass-through AlignmentAdjuster: it reports the read's
// score unchanged and applies no clipping. It gives callers that don't need
// any post-scoring adjustment a non-nil adjuster to pass; phase4Finalize
// also accepts a nil adjuster, in which case it skips adjustment entirely.
type NoopAdjuster struct{}

// Adjust implements AlignmentAdjuster.
func (NoopAdjuster) Adjust(result *ReadResult, view GenomeView) (scorePriorToClipping, clippingAdjustment int) {
	return result.Score, 0
}

// SoftClipTrimmer detects a read whose aligned window runs past the end of
// its contig -- the concatenated address space has no gap between contigs,
// so scoreAt's window can otherwise be compared against the start of an
// unrelated neighboring contig -- and soft-clips the overhanging bases by
// refunding one score point per overhanging base, on the assumption that an
// excluded base is at least as good an explanation as a counted mismatch.
type SoftClipTrimmer struct{}

// Adjust implements AlignmentAdjuster.
func (SoftClipTrimmer) Adjust(result *ReadResult, view GenomeView) (scorePriorToClipping, clippingAdjustment int) {
	prior := result.Score
	if result.Status == NotFound || result.Len <= 0 {
		return prior, 0
	}
	end := result.Locus + genome.Locus(result.Len)
	contigEnd := view.ContigEnd(result.Locus)
	if end <= contigEnd {
		return prior, 0
	}
	overhang := int(end - contigEnd)
	if overhang > result.Len {
		overhang = result.Len
	}
	result.Score -= overhang
	if result.Score < 0 {
		result.Score = 0
	}
	return prior, -overhang
}
