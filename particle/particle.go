// Package particle implements the two particle-filter containers shared by
// every belief strategy: an unordered flat filter and a weighted filter with
// systematic resampling (spec.md §4.7).
package particle

import "github.com/samkatt/fba-pomdp-go/randutil"

// Flat is an unordered collection of exactly n particles of type T.
type Flat[T any] struct {
	items []T
}

// NewFlat builds a Flat filter pre-populated with the given items (typically
// n independent draws from a prior).
func NewFlat[T any](items []T) *Flat[T] {
	return &Flat[T]{items: append([]T(nil), items...)}
}

// Len returns the number of particles currently held.
func (f *Flat[T]) Len() int { return len(f.items) }

// At returns a stable reference to the i'th particle.
func (f *Flat[T]) At(i int) T { return f.items[i] }

// Items returns the backing slice directly, for callers that need to
// iterate without copying (e.g. a rejection-sampling update that rebuilds
// every slot).
func (f *Flat[T]) Items() []T { return f.items }

// Sample uniformly picks one particle.
func (f *Flat[T]) Sample(rng *randutil.Rand) T {
	return f.items[rng.Intn(len(f.items))]
}

// Replace substitutes a uniformly chosen slot with newT, calling dropFn on
// the evicted particle first (if non-nil).
func (f *Flat[T]) Replace(newT T, dropFn func(T), rng *randutil.Rand) {
	f.ReplaceAt(rng.Intn(len(f.items)), newT, dropFn)
}

// ReplaceAt substitutes slot i directly (used by callers that already
// picked the index, e.g. reinvigoration replacing a specific donor slot).
func (f *Flat[T]) ReplaceAt(i int, newT T, dropFn func(T)) {
	if dropFn != nil {
		dropFn(f.items[i])
	}
	f.items[i] = newT
}

// Free drops every particle, calling dropFn on each first (if non-nil).
func (f *Flat[T]) Free(dropFn func(T)) {
	if dropFn != nil {
		for _, t := range f.items {
			dropFn(t)
		}
	}
	f.items = nil
}

// weighted is one (t, w) entry of a Weighted filter.
type weighted[T any] struct {
	t T
	w float64
}

// Weighted is a collection of (t, w) pairs supporting importance-sampling
// updates, normalization, and systematic resampling (spec.md §4.7).
type Weighted[T any] struct {
	entries []weighted[T]
}

// NewWeighted builds a Weighted filter from parallel items/weights slices.
func NewWeighted[T any](items []T, weights []float64) *Weighted[T] {
	w := &Weighted[T]{entries: make([]weighted[T], len(items))}
	for i := range items {
		w.entries[i] = weighted[T]{t: items[i], w: weights[i]}
	}
	return w
}

// Len returns the number of particles.
func (w *Weighted[T]) Len() int { return len(w.entries) }

// Particle returns particle i and its current weight.
func (w *Weighted[T]) Particle(i int) (T, float64) { return w.entries[i].t, w.entries[i].w }

// SetWeight overwrites the weight of particle i.
func (w *Weighted[T]) SetWeight(i int, weight float64) { w.entries[i].w = weight }

// MultiplyWeight scales the weight of particle i by factor.
func (w *Weighted[T]) MultiplyWeight(i int, factor float64) { w.entries[i].w *= factor }

// SumWeights returns the current (possibly unnormalized) total weight.
func (w *Weighted[T]) SumWeights() float64 {
	sum := 0.0
	for _, e := range w.entries {
		sum += e.w
	}
	return sum
}

// NormalizedWeight returns w / sum(current weights).
func (w *Weighted[T]) NormalizedWeight(weight float64) float64 {
	total := w.SumWeights()
	if total <= 0 {
		return 0
	}
	return weight / total
}

// Normalize scales every weight so they sum to 1. A non-positive total
// weight (every particle rejected) is the BeliefDegenerate condition;
// callers must check SumWeights before calling Normalize.
func (w *Weighted[T]) Normalize() {
	total := w.SumWeights()
	if total <= 0 {
		panic("particle: Normalize called on a degenerate (zero-weight) filter")
	}
	for i := range w.entries {
		w.entries[i].w /= total
	}
}

// Sample draws one particle proportional to its weight.
func (w *Weighted[T]) Sample(rng *randutil.Rand) T {
	weights := make([]float64, len(w.entries))
	total := 0.0
	for i, e := range w.entries {
		weights[i] = e.w
		total += e.w
	}
	i := rng.SampleMultinomial(weights, total)
	return w.entries[i].t
}

// Add appends a new (t, w) entry.
func (w *Weighted[T]) Add(t T, weight float64) {
	w.entries = append(w.entries, weighted[T]{t: t, w: weight})
}

// Replace substitutes entry i's particle, calling dropFn on the evicted one
// first (if non-nil); the weight at i is left unchanged.
func (w *Weighted[T]) Replace(i int, newT T, dropFn func(T)) {
	if dropFn != nil {
		dropFn(w.entries[i].t)
	}
	w.entries[i].t = newT
}

// LeastLikely returns the indices of the k particles with the smallest
// current weight, ascending by weight.
func (w *Weighted[T]) LeastLikely(k int) []int {
	idx := make([]int, len(w.entries))
	for i := range idx {
		idx[i] = i
	}
	// Simple selection sort by weight: filters are small (particle_amount),
	// so an O(n^2) partial sort is fine and keeps this dependency-free.
	for i := 0; i < k && i < len(idx); i++ {
		min := i
		for j := i + 1; j < len(idx); j++ {
			if w.entries[idx[j]].w < w.entries[idx[min]].w {
				min = j
			}
		}
		idx[i], idx[min] = idx[min], idx[i]
	}
	if k > len(idx) {
		k = len(idx)
	}
	return idx[:k]
}

// Resample performs systematic resampling: draws n new particles
// proportional to the current (normalized) weights and resets every weight
// to 1/n, restoring the filter to its nominal size (spec.md §4.7, §4.8).
func (w *Weighted[T]) Resample(n int, rng *randutil.Rand) {
	if w.SumWeights() <= 0 {
		panic("particle: Resample called on a degenerate (zero-weight) filter")
	}
	w.Normalize()

	cumulative := make([]float64, len(w.entries))
	sum := 0.0
	for i, e := range w.entries {
		sum += e.w
		cumulative[i] = sum
	}

	step := 1.0 / float64(n)
	start := rng.Float64() * step

	out := make([]weighted[T], 0, n)
	j := 0
	for i := 0; i < n; i++ {
		target := start + float64(i)*step
		for j < len(cumulative)-1 && cumulative[j] < target {
			j++
		}
		out = append(out, weighted[T]{t: w.entries[j].t, w: step})
	}
	w.entries = out
}

// Free drops every particle, calling dropFn on each first (if non-nil).
func (w *Weighted[T]) Free(dropFn func(T)) {
	if dropFn != nil {
		for _, e := range w.entries {
			dropFn(e.t)
		}
	}
	w.entries = nil
}
