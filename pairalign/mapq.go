package pairalign

import "math"

// maxMAPQ caps the reported mapping quality, matching the common
// Phred-scaled convention of treating anything past it as "as confident as
// this scale can express" rather than letting floating-point error blow up
// -10*log10(errProb) near a posterior of 1.
const maxMAPQ = 70

// MAPQ is the reference MAPQFunc: it converts the posterior probability of
// this pair's locus (bestProbability over probabilityOfAllPairs) into a
// Phred-scaled confidence, the same -10*log10(errorProbability) conversion
// pileup/snp's qual tables use to turn an error probability back into a
// quality score. A popular-seed skip knocks a few points off, since at
// least one seed never got the chance to rule out a competing locus.
func MAPQ(probabilityOfAllPairs, bestProbability float64, score, popularSeedsSkipped int) int {
	if probabilityOfAllPairs <= 0 || bestProbability <= 0 {
		return 0
	}
	posterior := bestProbability / probabilityOfAllPairs
	if posterior > 0.999999 {
		return maxMAPQ
	}
	errProb := 1 - posterior
	if errProb <= 0 {
		return maxMAPQ
	}
	mapq := int(-10 * math.Log10(errProb))
	if popularSeedsSkipped > 0 && mapq > 3 {
		mapq -= 3
	}
	if mapq > maxMAPQ {
		mapq = maxMAPQ
	}
	if mapq < 0 {
		mapq = 0
	}
	return mapq
}
