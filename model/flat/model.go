// Package flat implements the tabular (non-factored) Dirichlet count model
// of a Bayes-Adaptive POMDP: two count arrays T[s,a,s'] and O[a,s',o],
// shared by reference across augmented states produced from the same
// prior until one of them writes, at which point the write privatizes a
// copy (spec.md §3, §4.3).
package flat

import "github.com/samkatt/fba-pomdp-go/randutil"

// SampleMethod selects how a row of Dirichlet counts is turned into a
// drawn index: Regular draws a fresh multinomial from the Dirichlet
// (Thompson-style), Expected samples from the row's mean without
// redrawing.
type SampleMethod int

const (
	Regular SampleMethod = iota
	Expected
)

// cowTable is a copy-on-write count array: several Model values can share
// the same backing slice (and refcount) until one of them mutates it.
type cowTable struct {
	data   []float64
	shared *int // refcount of how many Tables alias data; nil means uniquely owned
}

func newCowTable(data []float64) *cowTable {
	return &cowTable{data: data}
}

// share returns a new handle that aliases the same backing array, bumping
// the shared refcount (allocating one lazily on first share).
func (c *cowTable) share() *cowTable {
	if c.shared == nil {
		n := 2
		c.shared = &n
	} else {
		*c.shared++
	}
	return &cowTable{data: c.data, shared: c.shared}
}

// own ensures this handle has a private copy of data, cloning and
// detaching from the shared refcount if necessary. Must be called before
// any mutation.
func (c *cowTable) own() {
	if c.shared == nil {
		return
	}
	private := make([]float64, len(c.data))
	copy(private, c.data)
	c.data = private
	*c.shared--
	c.shared = nil
}

func (c *cowTable) clone() *cowTable {
	private := make([]float64, len(c.data))
	copy(private, c.data)
	return newCowTable(private)
}

// Model holds the flat transition and observation count tables for a
// BA-POMDP of sizes (S, A, O).
type Model struct {
	S, A, O int

	t *cowTable // size S*A*S, row-major (s,a,s')
	o *cowTable // size A*S*O, row-major (a,s',o)
}

// New allocates a zeroed flat count model for the given domain sizes.
// Callers normally obtain a Model from a Prior rather than calling New
// directly, since an all-zero model violates the row-sum invariant.
func New(s, a, o int) *Model {
	return &Model{
		S: s, A: a, O: o,
		t: newCowTable(make([]float64, s*a*s)),
		o: newCowTable(make([]float64, a*s*o)),
	}
}

// NewFromCounts builds a Model that takes ownership of the given backing
// arrays without copying (used by the prior factory, which constructs the
// arrays directly).
func NewFromCounts(s, a, o int, t, obs []float64) *Model {
	if len(t) != s*a*s {
		panic("flat: transition table has wrong length")
	}
	if len(obs) != a*s*o {
		panic("flat: observation table has wrong length")
	}
	return &Model{S: s, A: a, O: o, t: newCowTable(t), o: newCowTable(obs)}
}

// Share returns a new Model referencing the same count arrays as m via
// copy-on-write: no bytes are copied until one of the two models mutates a
// row through Increment.
func (m *Model) Share() *Model {
	return &Model{S: m.S, A: m.A, O: m.O, t: m.t.share(), o: m.o.share()}
}

// Copy returns a Model with its own private count arrays, independent of m.
func (m *Model) Copy() *Model {
	return &Model{S: m.S, A: m.A, O: m.O, t: m.t.clone(), o: m.o.clone()}
}

func (m *Model) tIndex(s, a, sNext int) int { return (s*m.A+a)*m.S + sNext }
func (m *Model) oIndex(a, sNext, o int) int { return (a*m.S+sNext)*m.O + o }

// CountT reads T[s,a,s'].
func (m *Model) CountT(s, a, sNext int) float64 { return m.t.data[m.tIndex(s, a, sNext)] }

// CountO reads O[a,s',o].
func (m *Model) CountO(a, sNext, o int) float64 { return m.o.data[m.oIndex(a, sNext, o)] }

// SetCountT writes T[s,a,s'] directly (used by the prior factory; regular
// updates during planning/belief-tracking go through IncrementCounts).
func (m *Model) SetCountT(s, a, sNext int, v float64) {
	m.t.own()
	m.t.data[m.tIndex(s, a, sNext)] = v
}

// SetCountO writes O[a,s',o] directly.
func (m *Model) SetCountO(a, sNext, o int, v float64) {
	m.o.own()
	m.o.data[m.oIndex(a, sNext, o)] = v
}

// IncrementCounts applies T[s,a,s'] += delta; O[a,s',o] += delta,
// privatizing the backing arrays first if they are shared (spec.md §4.3,
// §5: "any write triggers a private copy").
func (m *Model) IncrementCounts(s, a, o, sNext int, delta float64) {
	m.t.own()
	m.o.own()
	m.t.data[m.tIndex(s, a, sNext)] += delta
	m.o.data[m.oIndex(a, sNext, o)] += delta
}

// transitionRow returns the S-length Dirichlet row T[s,a,*].
func (m *Model) transitionRow(s, a int) []float64 {
	start := (s*m.A + a) * m.S
	return m.t.data[start : start+m.S]
}

// observationRow returns the O-length Dirichlet row O[a,s',*].
func (m *Model) observationRow(a, sNext int) []float64 {
	start := (a*m.S + sNext) * m.O
	return m.o.data[start : start+m.O]
}

// SampleStateIndex draws s' from the row T[s,a,*] using the given method.
func (m *Model) SampleStateIndex(s, a int, method SampleMethod, rng *randutil.Rand) int {
	return sampleRow(m.transitionRow(s, a), method, rng)
}

// SampleObservationIndex draws o from the row O[a,s',*] using the given
// method.
func (m *Model) SampleObservationIndex(a, sNext int, method SampleMethod, rng *randutil.Rand) int {
	return sampleRow(m.observationRow(a, sNext), method, rng)
}

func sampleRow(row []float64, method SampleMethod, rng *randutil.Rand) int {
	switch method {
	case Expected:
		return rng.SampleFromExpectedMult(row)
	default:
		return rng.SampleFromSampledMult(row)
	}
}

// ObservationProbability returns the mean (Expected) or a freshly sampled
// (Regular) probability of o from the row O[a,s',*].
func (m *Model) ObservationProbability(o, a, sNext int, method SampleMethod, rng *randutil.Rand) float64 {
	row := m.observationRow(a, sNext)
	switch method {
	case Expected:
		mean, total := randutil.ExpectedMult(row)
		if total <= 0 {
			return 0
		}
		return mean[o]
	default:
		sample, ok := rng.SampleDirichlet(row)
		if !ok {
			return 0
		}
		return sample[o]
	}
}

// RowSumT returns sum_{s'} T[s,a,s'] (used by invariant checks: every row
// must sum strictly > 0 before sampling).
func (m *Model) RowSumT(s, a int) float64 {
	sum := 0.0
	for _, v := range m.transitionRow(s, a) {
		sum += v
	}
	return sum
}

// RowSumO returns sum_o O[a,s',o].
func (m *Model) RowSumO(a, sNext int) float64 {
	sum := 0.0
	for _, v := range m.observationRow(a, sNext) {
		sum += v
	}
	return sum
}
