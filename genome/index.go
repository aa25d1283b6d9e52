package genome

import (
	"sort"

	farm "github.com/dgryski/go-farm"
	"github.com/grailbio/base/log"

	"blainsmith.com/go/seahash"
)

// MaxBigHits and friends are not defined here; maxBigHits is a caller-side
// cutoff applied in pairalign after LookupSeed returns.

// seedBucket holds every distinct seed that happens to share a primary
// (seahash) hash value, each with its own descending-sorted hit list. Two
// independent hash functions (seahash for bucketing, FarmHash as a cheap
// pre-check before the full byte comparison) keep collision resolution fast
// without needing a cryptographic hash.
type seedBucket struct {
	seed []byte
	farm uint64
	hits []Locus // ascending during build, sorted descending by finalize
}

// Index is the in-memory reference implementation of the GenomeIndex
// collaborator: LookupSeed(seed) -> (fwdHits, rcHits), with each list
// descending-sorted by locus and its count given by its length. It indexes only
// the forward strand of the reference; reverse-complement hits are found by
// looking up the reverse complement of the query seed in the same table.
type Index struct {
	seedLen int
	buckets map[uint64][]*seedBucket
	view    *View
}

// SeedLength returns the fixed seed length this index was built with.
func (idx *Index) SeedLength() int { return idx.seedLen }

// View returns the genome view this index was built over.
func (idx *Index) View() *View { return idx.view }

var baseCode = func() [256]int8 {
	var t [256]int8
	for i := range t {
		t[i] = -1
	}
	t['A'], t['C'], t['G'], t['T'] = 0, 1, 2, 3
	return t
}()

// hasN reports whether seed contains any byte that isn't A/C/G/T; seeds
// containing N are never indexed or looked up.
func hasN(seed []byte) bool {
	for _, b := range seed {
		if baseCode[b] < 0 {
			return true
		}
	}
	return false
}

// Build constructs an Index over every ungapped seedLen-mer of view that
// contains no N.
func Build(view *View, seedLen int) *Index {
	idx := &Index{
		seedLen: seedLen,
		buckets: make(map[uint64][]*seedBucket),
		view:    view,
	}
	total := int(view.Len())
	for locus := 0; locus+seedLen <= total; locus++ {
		seed := view.bases[locus : locus+seedLen]
		if hasN(seed) {
			continue
		}
		idx.insert(seed, Locus(locus))
	}
	idx.finalize()
	return idx
}

func (idx *Index) insert(seed []byte, locus Locus) {
	h := seahash.Sum64(seed)
	fh := farm.Hash64(seed)
	for _, b := range idx.buckets[h] {
		if b.farm == fh && string(b.seed) == string(seed) {
			b.hits = append(b.hits, locus)
			return
		}
	}
	owned := append([]byte(nil), seed...)
	idx.buckets[h] = append(idx.buckets[h], &seedBucket{seed: owned, farm: fh, hits: []Locus{locus}})
}

// finalize sorts every bucket's hit list descending.
func (idx *Index) finalize() {
	for _, bs := range idx.buckets {
		for _, b := range bs {
			sort.Slice(b.hits, func(i, j int) bool { return b.hits[i] > b.hits[j] })
		}
	}
}

func (idx *Index) lookup(seed []byte) []Locus {
	h := seahash.Sum64(seed)
	fh := farm.Hash64(seed)
	for _, b := range idx.buckets[h] {
		if b.farm == fh && string(b.seed) == string(seed) {
			return b.hits
		}
	}
	return nil
}

// LookupSeed takes a seed read off the FORWARD strand of a read and returns
// the forward-strand hit list and the reverse-complement-strand hit list,
// both descending-sorted.
func (idx *Index) LookupSeed(seed []byte) (fwdHits, rcHits []Locus) {
	if len(seed) != idx.seedLen {
		log.Fatalf("genome.Index.LookupSeed: seed length %d != index seed length %d", len(seed), idx.seedLen)
	}
	fwdHits = idx.lookup(seed)
	rcHits = idx.lookup(reverseComplementBytes(seed))
	return
}

func reverseComplementBytes(seed []byte) []byte {
	n := len(seed)
	out := make([]byte, n)
	for i := 0; i < n; i++ {
		switch seed[n-1-i] {
		case 'A':
			out[i] = 'T'
		case 'C':
			out[i] = 'G'
		case 'G':
			out[i] = 'C'
		case 'T':
			out[i] = 'A'
		default:
			out[i] = 'N'
		}
	}
	return out
}
