package pairalign

import "sort"

// contigCapState counts hits per contig using an epoch counter, avoiding a
// re-zero of an O(contigs) array on every pair. A contig's count is only
// meaningful when its stamp matches the current epoch; beginPair just bumps
// the epoch instead of clearing the whole array.
type contigCapState struct {
	counts []int
	stamp  []int
	epoch  int
}

func newContigCapState(numContigs int) *contigCapState {
	return &contigCapState{counts: make([]int, numContigs), stamp: make([]int, numContigs)}
}

func (s *contigCapState) growTo(numContigs int) {
	if numContigs <= len(s.counts) {
		return
	}
	counts := make([]int, numContigs)
	stamp := make([]int, numContigs)
	copy(counts, s.counts)
	copy(stamp, s.stamp)
	s.counts, s.stamp = counts, stamp
}

func (s *contigCapState) beginPair() { s.epoch++ }

func (s *contigCapState) get(contig int) int {
	if contig < 0 || contig >= len(s.counts) || s.stamp[contig] != s.epoch {
		return 0
	}
	return s.counts[contig]
}

func (s *contigCapState) add(contig int) int {
	if contig < 0 {
		return 0
	}
	s.growTo(contig + 1)
	if s.stamp[contig] != s.epoch {
		s.stamp[contig] = s.epoch
		s.counts[contig] = 0
	}
	s.counts[contig]++
	return s.counts[contig]
}

// computeMAPQ sets each read's MAPQ and status: SingleHit iff its MAPQ
// exceeds printStatsMapQLimit, else MultipleHits. NotFound reads are left
// untouched.
func computeMAPQ(p *PairedAlignmentResult, cfg Config, probabilityOfAllPairs float64, popularSeedsSkipped int, mapqFn MAPQFunc) {
	if mapqFn == nil {
		return
	}
	if p.Read0.Status != NotFound {
		m := mapqFn(probabilityOfAllPairs, p.Probability, p.Read0.Score, popularSeedsSkipped)
		p.Read0.MAPQ = m
		if m > cfg.PrintStatsMapQLimit {
			p.Read0.Status = SingleHit
		} else {
			p.Read0.Status = MultipleHits
		}
	}
	if p.Read1.Status != NotFound {
		m := mapqFn(probabilityOfAllPairs, p.Probability, p.Read1.Score, popularSeedsSkipped)
		p.Read1.MAPQ = m
		if m > cfg.PrintStatsMapQLimit {
			p.Read1.Status = SingleHit
		} else {
			p.Read1.Status = MultipleHits
		}
	}
}

// adjustPair calls the external AlignmentAdjuster on both reads and keeps
// CompensatedScore consistent with whatever delta the adjustment produced,
// preserving any astray-penalty offset already baked into it.
func adjustPair(p *PairedAlignmentResult, view GenomeView, adjuster AlignmentAdjuster) {
	if p.Read0.Status == NotFound || p.Read1.Status == NotFound {
		return
	}
	oldSum := p.Read0.Score + p.Read1.Score
	s0, c0 := adjuster.Adjust(&p.Read0, view)
	s1, c1 := adjuster.Adjust(&p.Read1, view)
	p.Read0.ScorePriorToClipping, p.Read0.ClippingAdjustment = s0, c0
	p.Read1.ScorePriorToClipping, p.Read1.ClippingAdjustment = s1, c1
	p.CompensatedScore += (p.Read0.Score + p.Read1.Score) - oldSum
}

// capPerContig applies the per-contig cap: the primary's contig is
// pre-counted as 1, secondaries are sorted by (contig, score), and at most
// `cap` survive per contig.
func capPerContig(best *PairedAlignmentResult, secondaries []PairedAlignmentResult, view GenomeView, contigs *contigCapState, cap int) []PairedAlignmentResult {
	if best.Read0.Status != NotFound {
		contigs.add(view.GetContigNumAtLocation(best.Read0.Locus))
	}

	type withContig struct {
		res    PairedAlignmentResult
		contig int
	}
	items := make([]withContig, len(secondaries))
	for i, s := range secondaries {
		items[i] = withContig{s, view.GetContigNumAtLocation(s.Read0.Locus)}
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].contig != items[j].contig {
			return items[i].contig < items[j].contig
		}
		return items[i].res.CompensatedScore < items[j].res.CompensatedScore
	})

	out := make([]PairedAlignmentResult, 0, len(items))
	for _, it := range items {
		if contigs.get(it.contig) >= cap {
			continue
		}
		contigs.add(it.contig)
		out = append(out, it.res)
	}
	return out
}

// phase4Finalize runs finalization end to end: MAPQ, alignment adjustment,
// the secondary filters, the per-contig cap, and final truncation to the
// caller's return cap.
func phase4Finalize(best *PairedAlignmentResult, secondaries []PairedAlignmentResult, cfg Config, probabilityOfAllPairs float64, popularSeedsSkipped int, view GenomeView, mapqFn MAPQFunc, adjuster AlignmentAdjuster, contigs *contigCapState) []PairedAlignmentResult {
	contigs.beginPair()

	computeMAPQ(best, cfg, probabilityOfAllPairs, popularSeedsSkipped, mapqFn)
	for i := range secondaries {
		computeMAPQ(&secondaries[i], cfg, probabilityOfAllPairs, popularSeedsSkipped, mapqFn)
	}

	if !cfg.IgnoreAlignmentAdjustmentsForOm && adjuster != nil {
		adjustPair(best, view, adjuster)
		for i := range secondaries {
			adjustPair(&secondaries[i], view, adjuster)
		}
	}

	kept := secondaries[:0]
	for _, s := range secondaries {
		if s.Read0.Status == NotFound || s.Read1.Status == NotFound {
			continue
		}
		if s.CompensatedScore > best.CompensatedScore+cfg.MaxEditDistanceForSecondary {
			continue
		}
		kept = append(kept, s)
	}
	secondaries = kept

	if cfg.MaxSecondaryAlignmentsPerContig > 0 {
		secondaries = capPerContig(best, secondaries, view, contigs, cfg.MaxSecondaryAlignmentsPerContig)
	}

	if !cfg.NoTruncation && len(secondaries) > cfg.MaxReturnedSecondaries {
		sort.Slice(secondaries, func(i, j int) bool { return secondaries[i].CompensatedScore < secondaries[j].CompensatedScore })
		secondaries = secondaries[:cfg.MaxReturnedSecondaries]
	}
	return secondaries
}
