package pairalign

import (
	"github.com/scigenomics/tenxalign/genome"
)

// GenomeIndex is the seed-lookup collaborator.
type GenomeIndex interface {
	SeedLength() int
	LookupSeed(seed []byte) (fwdHits, rcHits []genome.Locus)
}

// GenomeView is the reference-sequence collaborator.
type GenomeView interface {
	GetSubstring(locus genome.Locus, length int) ([]byte, bool)
	GetContigNumAtLocation(locus genome.Locus) int
	Len() genome.Locus
	// ContigEnd returns the locus immediately past the end of the contig
	// containing locus, for adjusters that need to detect a window running
	// off its contig into the concatenated address space's next one.
	ContigEnd(locus genome.Locus) genome.Locus
}

// ScoringOracle scores a read/quality window against a genome window with a
// given limit, returning offsetCorr: the number of leading genome bases the
// chosen alignment skips before the read actually starts matching, since the
// candidate locus comes from a seed hit rather than the optimal alignment
// itself. pairalign adds offsetCorr onto the candidate's locus before using
// it for merge-anchor dedup and the reported alignment position. The oracle
// scores the whole read window, seed bases included; the seed term
// (1-SNPProb)^seedLen is multiplied in by the caller on top of that.
type ScoringOracle interface {
	Score(text, read, qual []byte, limit int) (score int, prob float64, offsetCorr int)
}

// MAPQFunc computes a read's mapping quality from the probability mass
// over all reported pairs, the best pair's probability, that read's score,
// and the total popular-seed-skip count across both reads.
type MAPQFunc func(probabilityOfAllPairs, bestProbability float64, score, popularSeedsSkipped int) int

// AlignmentAdjuster is an external adjuster: given a read result and the
// genome view, it may shift the locus and recompute the score, reporting
// the score the read had prior to adjustment.
type AlignmentAdjuster interface {
	Adjust(result *ReadResult, view GenomeView) (scorePriorToClipping int, clippingAdjustment int)
}

// Config holds every tunable the aligner core exposes.
type Config struct {
	MinSpacing uint64
	MaxSpacing uint64

	MaxK             int
	ExtraSearchDepth int

	MaxHits    int
	MaxBigHits int

	MergeDistance uint64 // fixed at 31

	MaxSeeds     int // 0 means derive from SeedCoverage
	SeedCoverage float64

	ClusterEDCompensation int
	UnclusteredPenalty    float64
	MinClusterSize        uint8
	SNPProb               float64

	MaxSecondaryAlignmentsPerContig int
	MaxEditDistanceForSecondary     int
	SecondaryBufSize                int
	MaxReturnedSecondaries          int

	PrintStatsMapQLimit int

	NoUkkonen                      bool
	NoOrderedEvaluation            bool
	NoTruncation                   bool
	IgnoreAlignmentAdjustmentsForOm bool

	CandidatePoolSize    int
	MateCandidatePoolSize int
	MergeAnchorPoolSize  int
}

// DefaultConfig returns a reasonable set of defaults for end-to-end use.
func DefaultConfig() Config {
	return Config{
		MinSpacing:            50,
		MaxSpacing:            1000,
		MaxK:                  5,
		ExtraSearchDepth:      2,
		MaxHits:               1000,
		MaxBigHits:            32,
		MergeDistance:         31,
		MaxSeeds:              4,
		SeedCoverage:          0,
		ClusterEDCompensation: 3,
		UnclusteredPenalty:    0.5,
		MinClusterSize:        2,
		SNPProb:               0.001,
		MaxSecondaryAlignmentsPerContig: 0,
		MaxEditDistanceForSecondary:     2,
		SecondaryBufSize:                16,
		MaxReturnedSecondaries:          16,
		PrintStatsMapQLimit:             10,
		CandidatePoolSize:               4096,
		MateCandidatePoolSize:           8192,
		MergeAnchorPoolSize:             2048,
	}
}
