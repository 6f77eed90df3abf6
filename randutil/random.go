// Package randutil implements the process-wide random-sampling kernel
// shared by the belief, model, and planner packages: gamma/Dirichlet/
// multinomial sampling and the index arithmetic used to project
// multi-dimensional feature tuples onto flat array offsets.
package randutil

import (
	"hash/fnv"
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// Rand is a seedable source of all randomness consumed by the core. A
// single instance is meant to be threaded explicitly through the belief,
// planner and model constructors (spec: "one process-wide PRNG seedable
// from a string"; a goroutine that wants its own stream constructs its own
// Rand from a derived seed rather than sharing one across threads).
type Rand struct {
	src  rand.Source
	rng  *rand.Rand
}

// New returns a Rand seeded deterministically from seed.
func New(seed string) *Rand {
	src := rand.NewSource(hashSeed(seed))
	return &Rand{src: src, rng: rand.New(src)}
}

// NewFromUint64 returns a Rand seeded directly from an integer seed, used
// when a caller (e.g. a per-thread episode runner) needs a reproducible
// but distinct stream derived from a string seed.
func NewFromUint64(seed uint64) *Rand {
	src := rand.NewSource(seed)
	return &Rand{src: src, rng: rand.New(src)}
}

func hashSeed(seed string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(seed))
	return h.Sum64()
}

// Source exposes the underlying rand.Source, e.g. to build a
// distuv.Categorical or distmv.Uniform the way environment.CategoricalStarter
// and environment.UniformStarter do in the teacher codebase.
func (r *Rand) Source() rand.Source { return r.src }

// Float64 returns a uniform sample in [0, 1).
func (r *Rand) Float64() float64 { return r.rng.Float64() }

// Boolean returns a fair coin flip.
func (r *Rand) Boolean() bool { return r.rng.Intn(2) == 0 }

// Intn returns a uniform integer in [0, n).
func (r *Rand) Intn(n int) int { return r.rng.Intn(n) }

// IntRange returns a uniform integer in [min, max).
func (r *Rand) IntRange(min, max int) int {
	if max <= min {
		panic("randutil: IntRange requires max > min")
	}
	return min + r.rng.Intn(max-min)
}

// Gamma samples from a Gamma(shape, scale=1) distribution via
// gonum's Marsaglia-Tsang implementation (the same distuv.Gamma the teacher
// uses for its own weight initializers, e.g. initwfn), which already
// handles the shape<1 boosting internally.
func (r *Rand) Gamma(shape float64) float64 {
	if shape <= 0 {
		panic("randutil: Gamma requires shape > 0")
	}
	g := distuv.Gamma{Alpha: shape, Beta: 1, Src: r.src}
	return g.Rand()
}

// underflowFloor is the Dirichlet-sum threshold below which
// SampleDirichlet reports numeric underflow (spec: NumericUnderflow).
const underflowFloor = 1e-300

// SampleDirichlet draws a probability vector from Dirichlet(alpha). If the
// sum of the drawn gammas underflows below 1e-300 it returns the zero
// vector and ok=false; the caller must guard against that (spec C1).
func (r *Rand) SampleDirichlet(alpha []float64) (p []float64, ok bool) {
	g := make([]float64, len(alpha))
	sum := 0.0
	for i, a := range alpha {
		if a <= 0 {
			continue // a zero pseudocount draws no mass
		}
		g[i] = r.Gamma(a)
		sum += g[i]
	}
	if sum < underflowFloor {
		return make([]float64, len(alpha)), false
	}
	for i := range g {
		g[i] /= sum
	}
	return g, true
}

// SampleMultinomial draws a single index from a (possibly unnormalized)
// weight vector p with total = sum(p) via inverse-CDF sampling with a
// uniform draw in [0, total). Falls back to the last index when
// floating-point slack prevents landing exactly, matching
// rnd::sample::sampleFromMult in the original source.
func (r *Rand) SampleMultinomial(p []float64, total float64) int {
	if len(p) == 0 {
		panic("randutil: SampleMultinomial requires a non-empty vector")
	}
	target := r.Float64() * total
	sum := p[0]
	for i := 1; i < len(p); i++ {
		if target < sum {
			return i - 1
		}
		sum += p[i]
	}
	return len(p) - 1
}

// SampleFromSampledMult composes SampleDirichlet and SampleMultinomial: it
// draws a fresh multinomial from a Dirichlet(alpha) and samples an index
// from it (the "Regular"/Thompson-style sampling method of the spec).
func (r *Rand) SampleFromSampledMult(alpha []float64) int {
	p, ok := r.SampleDirichlet(alpha)
	if !ok {
		return len(alpha) - 1
	}
	return r.SampleMultinomial(p, 1.0)
}

// SampleFromExpectedMult samples an index from the mean vector alpha/sum(alpha)
// without drawing a fresh multinomial (the "Expected" sampling method).
func (r *Rand) SampleFromExpectedMult(alpha []float64) int {
	mean, total := ExpectedMult(alpha)
	return r.SampleMultinomial(mean, total)
}

// ExpectedMult returns the mean vector alpha/sum(alpha) together with the
// sum, so callers needing the raw probability row (e.g. observation
// likelihoods) can avoid a second summation.
func ExpectedMult(alpha []float64) (mean []float64, total float64) {
	mean = make([]float64, len(alpha))
	for _, a := range alpha {
		total += a
	}
	if total <= 0 {
		return mean, total
	}
	for i, a := range alpha {
		mean[i] = a / total
	}
	return mean, total
}

// LogGamma returns lgamma(x) for x >= 1, and 0 otherwise: the domain's
// Dirichlet pseudocounts are always >= 1 in use, and this convention (lifted
// from rnd::math::logGamma) keeps BD-score computations well-defined at the
// boundary where a count is exactly zero.
func LogGamma(x float64) float64 {
	if x < 1 {
		return 0
	}
	v, _ := math.Lgamma(x)
	return v
}

// NormalCDF returns the standard-normal CDF of x with mean mu and standard
// deviation sigma, via the error function.
func NormalCDF(x, mu, sigma float64) float64 {
	return 0.5 * (1 + math.Erf((x-mu)/(sigma*math.Sqrt2)))
}
