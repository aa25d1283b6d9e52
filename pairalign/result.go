package pairalign

import "github.com/scigenomics/tenxalign/genome"

// Status is a read's alignment outcome.
type Status int

const (
	NotFound Status = iota
	SingleHit
	MultipleHits
)

func (s Status) String() string {
	switch s {
	case NotFound:
		return "NotFound"
	case SingleHit:
		return "SingleHit"
	case MultipleHits:
		return "MultipleHits"
	default:
		return "Unknown"
	}
}

// ReadResult is one read's half of a PairedAlignmentResult.
type ReadResult struct {
	Locus                genome.Locus
	Direction            int // seq.Forward or seq.ReverseComplement
	Len                  int // bases scored at Locus, i.e. the aligned window's width
	Score                int
	Status               Status
	MAPQ                 int
	ClippingAdjustment   int
	ScorePriorToClipping int
}

// PairedAlignmentResult is the output shape for one aligned pair.
type PairedAlignmentResult struct {
	Read0 ReadResult
	Read1 ReadResult

	AlignedAsPair     bool
	Probability       float64
	CompensatedScore  int
	ClusterIdx        int
	FromAlignTogether bool
}

// AlignOutput is the full return of Align: the best result, a buffer of
// secondaries, and (if the caller's buffer was too small) the number that
// would have been needed.
type AlignOutput struct {
	Best                  PairedAlignmentResult
	Secondaries           []PairedAlignmentResult
	NeedLargerBuffer      bool
	RequiredSecondaryCount int
	PopularSeedsSkipped   int
	LocationsScored       int
}
