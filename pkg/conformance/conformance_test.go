package conformance

import "testing"

// TestGoldenVectors runs every literal scenario.
func TestGoldenVectors(t *testing.T) {
	for _, v := range Golden() {
		v := v
		t.Run(v.Name, func(t *testing.T) {
			if err := Run(v); err != nil {
				t.Errorf("%s: %v", v.Name, err)
			}
		})
	}
}

// TestWorkerPoolCollectsAllResults checks that a two-worker pool runs
// every vector exactly once.
func TestWorkerPoolCollectsAllResults(t *testing.T) {
	vectors := Golden()
	wp := NewWorkerPool(2)
	table := wp.RunVectors(vectors, false)
	if table.Len() != len(vectors) {
		t.Fatalf("Len() = %d, want %d", table.Len(), len(vectors))
	}
	if n := wp.Stats(); n != int64(len(vectors)) {
		t.Fatalf("Stats() = %d, want %d", n, len(vectors))
	}
}
