// Package score implements the scoring-oracle collaborator: given a
// reference substring, a read substring, per-base qualities, and a score
// limit, return an edit-distance score and a match probability (or (-1, 0)
// if the limit is exceeded). It is adapted from a Levenshtein matrix with
// traceback, reworked into a banded, Ukkonen-pruned distance with a
// quality-driven probability model.
package score

import "math"

const bigScore = 1 << 30

// errorProb converts a Phred quality byte into a base-call error
// probability. Evaluated directly rather than via a lookup table since the
// oracle is called far less often than a base-by-base pileup scan would be.
func errorProb(q byte) float64 {
	return math.Pow(10, -float64(q)/10.0)
}

// Oracle computes banded edit distance and match probability between a read
// and a reference window. SNPProb is the per-base mismatch probability
// attributed to the seed itself — the seed contributes (1-SNPProb)^seedLen
// to the probability — but Oracle doesn't apply that term itself: it scores
// the whole read, seed bases included, in one banded pass, and the caller
// (pairalign) multiplies the seed term in on top once per scored locus.
type Oracle struct {
	SNPProb float64
}

// DefaultSNPProb is a ~0.1% SNP rate, a typical default for human
// resequencing data.
const DefaultSNPProb = 0.001

// NewOracle returns an Oracle with DefaultSNPProb.
func NewOracle() *Oracle {
	return &Oracle{SNPProb: DefaultSNPProb}
}

// cell is one entry of the banded DP matrix: the edit-distance value, plus
// which predecessor produced it (used to backtrack and build the
// probability from the actual mismatch positions instead of just the raw
// score).
type cell struct {
	dist int
	op   byte // 'd' diagonal (match/substitution), 'i' insertion (text), 'e' deletion (read)
}

// Score aligns read (with per-base qualities qual) against the start of
// text, allowing up to limit edits, and returns the edit-distance score,
// the backtrace-derived match probability, and offsetCorr: the number of
// leading text bases the chosen alignment skips before the read's first
// base matches anything. A candidate locus comes from a seed hit, not from
// the optimal alignment itself, so when the true start sits a few bases
// into text rather than at its first byte, offsetCorr reports how far the
// caller needs to shift that locus to reach it; it is always >= 0. text
// must be at least len(read) bytes when no indels are involved; the caller
// is expected to pass a window with extra slack past len(read) so
// insertions/deletions near the end can still be represented.
func (o *Oracle) Score(text, read, qual []byte, limit int) (score int, prob float64, offsetCorr int) {
	n := len(read)
	if n == 0 {
		return 0, 1, 0
	}
	m := len(text)
	if m > n+limit {
		m = n + limit
	}
	if limit < 0 {
		return -1, 0, 0
	}

	rows := n + 1
	cols := m + 1
	grid := make([]cell, rows*cols)
	at := func(i, j int) *cell { return &grid[i*cols+j] }

	for j := 0; j <= cols-1 && j <= limit; j++ {
		at(0, j).dist = j
		at(0, j).op = 'i'
	}
	for j := limit + 1; j < cols; j++ {
		at(0, j).dist = bigScore
	}

	for i := 1; i < rows; i++ {
		lo := i - limit
		if lo < 0 {
			lo = 0
		}
		hi := i + limit
		if hi > cols-1 {
			hi = cols - 1
		}
		if lo > 0 {
			at(i, lo-1).dist = bigScore
		}
		for j := lo; j <= hi; j++ {
			if j == 0 {
				at(i, 0).dist = i
				at(i, 0).op = 'e'
				continue
			}
			diag := at(i-1, j-1).dist
			if text[j-1] != read[i-1] {
				diag++
			}
			del := at(i-1, j).dist + 1 // consumes a read base, no text base: insertion in read
			ins := at(i, j-1).dist + 1 // consumes a text base, no read base: deletion in read

			best := diag
			op := byte('d')
			if del < best {
				best, op = del, 'e'
			}
			if ins < best {
				best, op = ins, 'i'
			}
			c := at(i, j)
			c.dist, c.op = best, op
		}
		if hi < cols-1 {
			at(i, hi+1).dist = bigScore
		}
		// Ukkonen pruning: if every cell in this row already exceeds the
		// limit, no alignment starting here can succeed.
		rowMin := bigScore
		for j := lo; j <= hi; j++ {
			if d := at(i, j).dist; d < rowMin {
				rowMin = d
			}
		}
		if rowMin > limit {
			return -1, 0, 0
		}
	}

	// The whole read must be consumed, but text columns past the end of the
	// alignment are slack rather than edits: end at the cheapest banded cell
	// of the last row.
	last := rows - 1
	endCol := cols - 1
	lastLo := last - limit
	if lastLo < 0 {
		lastLo = 0
	}
	for j := lastLo; j < cols-1; j++ {
		if at(last, j).dist < at(last, endCol).dist {
			endCol = j
		}
	}
	finalScore := at(last, endCol).dist
	if finalScore > limit {
		return -1, 0, 0
	}
	prob, offsetCorr = o.backtraceProbability(grid, cols, last, endCol, read, qual)
	return finalScore, prob, offsetCorr
}

// backtraceProbability walks the DP matrix's chosen path from (i,j) back to
// the origin, multiplying (1-errorProb) at matched bases and errorProb/3 at
// substitutions (an even split among the three wrong bases), and a fixed
// indel penalty probability at insertions/deletions. It also records
// leadingSkip: the column index at which the path first reaches row 0,
// i.e. how many text columns were consumed via 'i' ops before the read's
// first base was ever matched.
func (o *Oracle) backtraceProbability(grid []cell, cols, i, j int, read, qual []byte) (prob float64, leadingSkip int) {
	const indelProb = 0.0001
	at := func(i, j int) *cell { return &grid[i*cols+j] }
	prob = 1.0
	recorded := false
	for i > 0 || j > 0 {
		if i == 0 && !recorded {
			leadingSkip = j
			recorded = true
		}
		c := at(i, j)
		switch c.op {
		case 'd':
			// diagonal: matched if dist didn't increase, else substitution.
			prevDist := at(i-1, j-1).dist
			if c.dist == prevDist {
				prob *= 1 - errorProb(qual[i-1])
			} else {
				prob *= errorProb(qual[i-1]) / 3
			}
			i, j = i-1, j-1
		case 'e':
			prob *= indelProb
			i--
		case 'i':
			prob *= indelProb
			j--
		default:
			// Origin cell reached via the initial row/column fill.
			if i > 0 {
				i--
			} else {
				j--
			}
		}
	}
	return prob, leadingSkip
}
