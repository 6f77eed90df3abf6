package particle

import (
	"testing"

	"github.com/samkatt/fba-pomdp-go/randutil"
)

func TestFlatReplaceKeepsSize(t *testing.T) {
	f := NewFlat([]int{1, 2, 3})
	rng := randutil.New("flat-replace")
	dropped := -1
	f.Replace(99, func(v int) { dropped = v }, rng)

	if f.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", f.Len())
	}
	if dropped == -1 {
		t.Fatalf("drop_fn was not called")
	}
	found := false
	for i := 0; i < f.Len(); i++ {
		if f.At(i) == 99 {
			found = true
		}
	}
	if !found {
		t.Fatalf("replaced particle not present")
	}
}

func TestFlatFreeEmpties(t *testing.T) {
	f := NewFlat([]int{1, 2, 3})
	count := 0
	f.Free(func(v int) { count++ })
	if f.Len() != 0 {
		t.Fatalf("Len() after Free = %d, want 0", f.Len())
	}
	if count != 3 {
		t.Fatalf("drop_fn called %d times, want 3", count)
	}
}

func TestWeightedNormalizeSumsToOne(t *testing.T) {
	w := NewWeighted([]int{1, 2, 3}, []float64{1, 2, 3})
	w.Normalize()

	sum := w.SumWeights()
	if sum < 1-1e-9 || sum > 1+1e-9 {
		t.Fatalf("SumWeights() after Normalize = %v, want 1", sum)
	}
	for i := 0; i < w.Len(); i++ {
		_, wt := w.Particle(i)
		if wt < 0 {
			t.Fatalf("negative weight after normalize: %v", wt)
		}
	}
}

func TestWeightedLeastLikely(t *testing.T) {
	w := NewWeighted([]int{10, 20, 30, 40}, []float64{0.4, 0.1, 0.3, 0.2})
	least := w.LeastLikely(2)
	if len(least) != 2 {
		t.Fatalf("LeastLikely(2) returned %d indices", len(least))
	}
	if least[0] != 1 {
		t.Fatalf("least[0] = %d, want 1 (smallest weight 0.1)", least[0])
	}
}

func TestWeightedResamplePreservesSize(t *testing.T) {
	w := NewWeighted([]int{1, 2, 3}, []float64{1, 0, 0})
	rng := randutil.New("resample-test")
	w.Resample(3, rng)

	if w.Len() != 3 {
		t.Fatalf("Len() after Resample = %d, want 3", w.Len())
	}
	for i := 0; i < w.Len(); i++ {
		v, _ := w.Particle(i)
		if v != 1 {
			t.Fatalf("Particle(%d) = %d, want 1 (only nonzero weight)", i, v)
		}
	}
}

func TestWeightedResamplePanicsOnDegenerate(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic on degenerate filter")
		}
	}()
	w := NewWeighted([]int{1, 2}, []float64{0, 0})
	w.Resample(2, randutil.New("degenerate"))
}
