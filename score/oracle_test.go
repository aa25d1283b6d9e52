package score

import (
	"testing"

	"github.com/grailbio/testutil/assert"
)

func highQual(n int) []byte {
	q := make([]byte, n)
	for i := range q {
		q[i] = 40 + 33
	}
	return q
}

func TestScoreExactMatch(t *testing.T) {
	o := NewOracle()
	text := []byte("ACGTACGTACGT")
	read := []byte("ACGTACGTACGT")
	score, prob, _ := o.Score(text, read, highQual(len(read)), 5)
	assert.EQ(t, score, 0)
	assert.True(t, prob > 0.9 && prob <= 1.0001, "prob = %v, want close to 1", prob)
}

func TestScoreSingleSubstitution(t *testing.T) {
	o := NewOracle()
	text := []byte("ACGTACGTACGT")
	read := []byte("ACGTTCGTACGT") // one mismatch at index 4
	score, prob, _ := o.Score(text, read, highQual(len(read)), 5)
	assert.EQ(t, score, 1)
	assert.True(t, prob > 0 && prob < 1, "prob = %v, want in (0,1)", prob)
}

func TestScoreExceedsLimit(t *testing.T) {
	o := NewOracle()
	text := []byte("AAAAAAAAAA")
	read := []byte("TTTTTTTTTT")
	score, prob, _ := o.Score(text, read, highQual(len(read)), 2)
	assert.EQ(t, score, -1)
	assert.EQ(t, prob, float64(0))
}

func TestScoreEmptyRead(t *testing.T) {
	o := NewOracle()
	score, prob, _ := o.Score([]byte("ACGT"), nil, nil, 5)
	assert.EQ(t, score, 0)
	assert.EQ(t, prob, float64(1))
}

func TestScoreOffsetCorrection(t *testing.T) {
	o := NewOracle()
	// The true alignment starts two bases into text; offsetCorr should
	// report that shift instead of forcing the comparison to text[0].
	text := []byte("XXACGTACGT")
	read := []byte("ACGTACGT")
	score, _, offsetCorr := o.Score(text, read, highQual(len(read)), 5)
	assert.EQ(t, score, 2)
	assert.EQ(t, offsetCorr, 2)
}

func TestScoreInsertionInRead(t *testing.T) {
	o := NewOracle()
	// read has one extra base relative to text: a single insertion.
	text := []byte("ACGTACGTAC")
	read := []byte("ACGTXACGTAC")
	read[4] = 'A' // keep alphabet valid; the DP still must pay for the extra base
	score, _, _ := o.Score(text, read, highQual(len(read)), 5)
	assert.True(t, score >= 1, "score = %d, want >= 1 for a length mismatch", score)
}
