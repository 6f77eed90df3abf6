package belief

import (
	"math"

	"github.com/samkatt/fba-pomdp-go/bastate"
	"github.com/samkatt/fba-pomdp-go/domain"
	"github.com/samkatt/fba-pomdp-go/particle"
	"github.com/samkatt/fba-pomdp-go/prior"
	"github.com/samkatt/fba-pomdp-go/randutil"
)

// CheatingReinvigoration tracks a weighted main filter (importance-updated
// each step) and a flat correct-structure companion filter that is itself
// rejection-sampled forward every step and used only as a donor: whenever
// the cumulative log-likelihood drops below -theta, r uniformly chosen main
// particles are replaced with fresh copies from the correct-structure
// filter (spec.md §4.8).
type CheatingReinvigoration struct {
	main    *particle.Weighted[bastate.State]
	correct *particle.Flat[bastate.State]
	n, r    int
	theta   float64

	cumLogLik float64
}

// NewCheatingReinvigoration draws n particles into main from pri and n
// particles into the correct-structure companion from pri's true-graph
// template.
func NewCheatingReinvigoration(pri *prior.Factored, n, r int, theta float64, rng *randutil.Rand) *CheatingReinvigoration {
	mainItems := make([]bastate.State, n)
	mainWeights := make([]float64, n)
	correctItems := make([]bastate.State, n)
	for i := 0; i < n; i++ {
		mainItems[i] = pri.Sample(rng)
		mainWeights[i] = 1.0 / float64(n)
		correctItems[i] = pri.SampleCorrect(rng)
	}
	return &CheatingReinvigoration{
		main:    particle.NewWeighted(mainItems, mainWeights),
		correct: particle.NewFlat(correctItems),
		n:       n, r: r, theta: theta,
	}
}

func (b *CheatingReinvigoration) Sample(rng *randutil.Rand) bastate.State { return b.main.Sample(rng) }

func (b *CheatingReinvigoration) Update(a domain.Action, o domain.Observation, dom domain.FactoredBADomain, rng *randutil.Rand) {
	rejectionUpdate(b.correct, a, o, dom, rng)

	var stepLikelihood float64
	for i := 0; i < b.main.Len(); i++ {
		st, w := b.main.Particle(i)
		candidate := st.Copy()
		s := candidate.DomainState()
		sNext, _, _, _ := Step(dom, candidate, s, a, bastate.Regular, rng)

		likelihood := candidate.ObservationProbability(o, a, sNext, bastate.Expected, rng)
		candidate.IncrementCountsOf(s, a, o, sNext, 1)
		candidate.SetDomainState(sNext)

		b.main.Replace(i, candidate, nil)
		b.main.SetWeight(i, w*likelihood)
		stepLikelihood += likelihood
	}
	if b.main.SumWeights() <= 0 {
		degenerate("cheating-reinvigoration: main filter collapsed to zero weight")
	}

	avgLikelihood := stepLikelihood / float64(b.main.Len())
	if avgLikelihood > 0 {
		b.cumLogLik += math.Log(avgLikelihood)
	} else {
		b.cumLogLik = math.Inf(-1)
	}

	b.main.Resample(b.n, rng)

	if b.cumLogLik < -b.theta {
		for i := 0; i < b.r; i++ {
			idx := rng.Intn(b.main.Len())
			donor := b.correct.Sample(rng).Copy()
			b.main.Replace(idx, donor, nil)
			b.main.SetWeight(idx, 1.0/float64(b.main.Len()))
		}
		b.cumLogLik = 0
	}
}

func (b *CheatingReinvigoration) ResetDomainStateDistribution(dom domain.FactoredBADomain, rng *randutil.Rand) {
	for i := 0; i < b.main.Len(); i++ {
		st, _ := b.main.Particle(i)
		st.SetDomainState(dom.SampleStartState(rng))
	}
	resetFlat(b.correct, dom, rng)
}

func (b *CheatingReinvigoration) Free() {
	b.main.Free(nil)
	b.correct.Free(nil)
}
