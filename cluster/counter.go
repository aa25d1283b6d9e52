// Package cluster implements the shared cluster-membership counter: a
// saturating 8-bit count per cluster identifier, shared across many pair
// alignments, plus a per-pair toggle array so a single pair never increments
// the same cluster twice.
package cluster

// MaxCount is the saturation ceiling for Counter entries.
const MaxCount uint8 = 255

// Counter is a shared, externally-owned array of saturating counts keyed by
// cluster identifier. It is written only from Phase 3's increment-clusters
// step; callers are responsible for sequencing score → increment → correct
// → generate so that no two goroutines increment the same cluster
// identifier concurrently, or for using Increment's saturating semantics to
// tolerate torn reads.
type Counter struct {
	counts []uint8
}

// NewCounter allocates a Counter with room for numClusters cluster
// identifiers, all initialized to zero.
func NewCounter(numClusters int) *Counter {
	return &Counter{counts: make([]uint8, numClusters)}
}

// Grow extends the counter to cover at least numClusters identifiers,
// preserving existing counts. Cluster identifiers are assigned by an
// upstream clustering pre-pass and may grow across the life of a run.
func (c *Counter) Grow(numClusters int) {
	if numClusters <= len(c.counts) {
		return
	}
	grown := make([]uint8, numClusters)
	copy(grown, c.counts)
	c.counts = grown
}

// Len returns the number of cluster identifiers the counter currently has
// room for.
func (c *Counter) Len() int { return len(c.counts) }

// Value returns the current saturating count for cluster.
func (c *Counter) Value(cluster int) uint8 {
	if cluster < 0 || cluster >= len(c.counts) {
		return 0
	}
	return c.counts[cluster]
}

// Increment saturatingly increments the count for cluster (capping at
// MaxCount) and reports the resulting value. Negative cluster identifiers
// (the "unclustered" sentinel) are no-ops.
func (c *Counter) Increment(cluster int) uint8 {
	if cluster < 0 || cluster >= len(c.counts) {
		return 0
	}
	if c.counts[cluster] < MaxCount {
		c.counts[cluster]++
	}
	return c.counts[cluster]
}

// IsClustered reports whether cluster's count has reached minClusterSize,
// the threshold correct-best uses to decide whether an anchor is
// "clustered" (no astray penalty) or "unclustered".
func (c *Counter) IsClustered(cluster int, minClusterSize uint8) bool {
	if cluster < 0 {
		return false
	}
	return c.Value(cluster) >= minClusterSize
}

// Toggles is the per-pair "has this pair already incremented this cluster"
// array. It is never shared between pairs; the aligner resets it (or
// allocates a fresh one) at the start of each pair.
type Toggles struct {
	set []bool
}

// NewToggles allocates a Toggles array sized for numClusters identifiers.
func NewToggles(numClusters int) *Toggles {
	return &Toggles{set: make([]bool, numClusters)}
}

// Reset clears every toggle, for reuse across pairs from an arena-style
// pool.
func (t *Toggles) Reset() {
	for i := range t.set {
		t.set[i] = false
	}
}

// Grow extends the toggle array to cover at least numClusters identifiers.
func (t *Toggles) Grow(numClusters int) {
	if numClusters <= len(t.set) {
		return
	}
	grown := make([]bool, numClusters)
	copy(grown, t.set)
	t.set = grown
}

// TryMark reports whether this is the first time this pair has touched
// cluster, marking it as touched in the same call. Negative identifiers
// always report false without marking anything, matching the "unclustered"
// sentinel's no-op semantics.
func (t *Toggles) TryMark(cluster int) bool {
	if cluster < 0 || cluster >= len(t.set) {
		return false
	}
	if t.set[cluster] {
		return false
	}
	t.set[cluster] = true
	return true
}
