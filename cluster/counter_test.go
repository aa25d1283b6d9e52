package cluster

import "testing"

func TestCounterSaturates(t *testing.T) {
	c := NewCounter(4)
	for i := 0; i < 300; i++ {
		c.Increment(2)
	}
	if c.Value(2) != MaxCount {
		t.Fatalf("Value(2) = %d, want %d", c.Value(2), MaxCount)
	}
}

func TestCounterUnclusteredNoop(t *testing.T) {
	c := NewCounter(4)
	c.Increment(-1)
	if c.Value(0) != 0 || c.Value(1) != 0 {
		t.Fatalf("increment of -1 should be a no-op")
	}
}

func TestIsClustered(t *testing.T) {
	c := NewCounter(2)
	c.Increment(0)
	if c.IsClustered(0, 2) {
		t.Fatalf("count 1 should not be clustered at threshold 2")
	}
	c.Increment(0)
	if !c.IsClustered(0, 2) {
		t.Fatalf("count 2 should be clustered at threshold 2")
	}
}

func TestTogglesPreventDoubleCount(t *testing.T) {
	counter := NewCounter(4)
	toggles := NewToggles(4)

	if !toggles.TryMark(1) {
		t.Fatalf("first TryMark should succeed")
	}
	counter.Increment(1)
	if toggles.TryMark(1) {
		t.Fatalf("second TryMark for the same pair/cluster should fail")
	}
	if counter.Value(1) != 1 {
		t.Fatalf("counter should have incremented exactly once, got %d", counter.Value(1))
	}
}

func TestTogglesResetBetweenPairs(t *testing.T) {
	toggles := NewToggles(2)
	toggles.TryMark(0)
	toggles.Reset()
	if !toggles.TryMark(0) {
		t.Fatalf("TryMark should succeed again after Reset")
	}
}

func TestCounterGrow(t *testing.T) {
	c := NewCounter(1)
	c.Grow(5)
	if c.Len() != 5 {
		t.Fatalf("Len() = %d, want 5", c.Len())
	}
	c.Increment(4)
	if c.Value(4) != 1 {
		t.Fatalf("Value(4) = %d, want 1", c.Value(4))
	}
}
