package randutil

import (
	"math"
	"testing"
)

func approxEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestProjectRoundTrip(t *testing.T) {
	dims := []int{2, 3, 4}
	total := Product(dims)
	for i := 0; i < total; i++ {
		values := ProjectUsingDimensions(i, dims)
		if got := Project(values, dims); got != i {
			t.Fatalf("Project(ProjectUsingDimensions(%d)) = %d, want %d", i, got, i)
		}
	}
}

func TestIncrementEnumeratesEveryTuple(t *testing.T) {
	dims := []int{2, 3}
	values := make([]int, len(dims))
	seen := map[int]bool{}
	count := 0
	for {
		idx := Project(values, dims)
		seen[idx] = true
		count++
		if Increment(values, dims) {
			break
		}
	}
	if count != Product(dims) {
		t.Fatalf("enumerated %d tuples, want %d", count, Product(dims))
	}
	if len(seen) != Product(dims) {
		t.Fatalf("enumerated %d distinct indices, want %d", len(seen), Product(dims))
	}
	for _, v := range values {
		if v != 0 {
			t.Fatalf("odometer did not wrap to all-zero: %v", values)
		}
	}
}

func TestSampleDirichletDegenerateIndex(t *testing.T) {
	r := New("test-seed")
	alpha := []float64{0, 0, 1e6, 0}
	p, ok := r.SampleDirichlet(alpha)
	if !ok {
		t.Fatalf("expected ok sample")
	}
	best := 0
	for i, v := range p {
		if v > p[best] {
			best = i
		}
	}
	if best != 2 {
		t.Fatalf("expected mass concentrated at index 2, got best=%d (%v)", best, p)
	}
}

func TestSampleDirichletUnderflow(t *testing.T) {
	r := New("test-seed-2")
	alpha := []float64{0, 0, 0}
	_, ok := r.SampleDirichlet(alpha)
	if ok {
		t.Fatalf("expected underflow to report ok=false")
	}
}

func TestExpectedMult(t *testing.T) {
	mean, total := ExpectedMult([]float64{1, 1, 2})
	if !approxEqual(total, 4, 1e-12) {
		t.Fatalf("total = %v, want 4", total)
	}
	want := []float64{0.25, 0.25, 0.5}
	for i := range want {
		if !approxEqual(mean[i], want[i], 1e-12) {
			t.Fatalf("mean[%d] = %v, want %v", i, mean[i], want[i])
		}
	}
}

func TestLogGammaBoundary(t *testing.T) {
	if LogGamma(0.5) != 0 {
		t.Fatalf("LogGamma(0.5) should be 0 by convention")
	}
	if LogGamma(1) != 0 {
		t.Fatalf("LogGamma(1) should be lgamma(1) == 0")
	}
}

func TestSampleMultinomialFallback(t *testing.T) {
	r := New("fallback-seed")
	// Total slightly larger than the sum, forcing the fallback branch for
	// some draws.
	p := []float64{0.5, 0.5}
	for i := 0; i < 100; i++ {
		idx := r.SampleMultinomial(p, 1.1)
		if idx < 0 || idx > 1 {
			t.Fatalf("index out of range: %d", idx)
		}
	}
}
