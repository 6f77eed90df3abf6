package belief

import (
	"github.com/samkatt/fba-pomdp-go/bastate"
	"github.com/samkatt/fba-pomdp-go/domain"
	"github.com/samkatt/fba-pomdp-go/particle"
	"github.com/samkatt/fba-pomdp-go/prior"
	"github.com/samkatt/fba-pomdp-go/randutil"
)

// ImportanceSampling tracks a weighted filter of n particles. Each update
// steps every particle once, reweights by the model's probability of the
// actual observed o, then systematically resamples back to n (spec.md
// §4.8).
type ImportanceSampling struct {
	particles *particle.Weighted[bastate.State]
	n         int
}

// NewImportanceSampling draws n equally-weighted particles from pri.
func NewImportanceSampling(pri prior.Prior, n int, rng *randutil.Rand) *ImportanceSampling {
	items := make([]bastate.State, n)
	weights := make([]float64, n)
	for i := range items {
		items[i] = pri.Sample(rng)
		weights[i] = 1.0 / float64(n)
	}
	return &ImportanceSampling{particles: particle.NewWeighted(items, weights), n: n}
}

func (b *ImportanceSampling) Sample(rng *randutil.Rand) bastate.State {
	return b.particles.Sample(rng)
}

func (b *ImportanceSampling) Update(a domain.Action, o domain.Observation, dom domain.FactoredBADomain, rng *randutil.Rand) {
	for i := 0; i < b.particles.Len(); i++ {
		st, w := b.particles.Particle(i)
		candidate := st.Copy()
		s := candidate.DomainState()
		sNext, _, _, _ := Step(dom, candidate, s, a, bastate.Regular, rng)

		likelihood := candidate.ObservationProbability(o, a, sNext, bastate.Expected, rng)
		candidate.IncrementCountsOf(s, a, o, sNext, 1)
		candidate.SetDomainState(sNext)

		b.particles.Replace(i, candidate, nil)
		b.particles.SetWeight(i, w*likelihood)
	}

	if b.particles.SumWeights() <= 0 {
		degenerate("importance sampling: every particle's weight collapsed to zero")
	}
	b.particles.Resample(b.n, rng)
}

func (b *ImportanceSampling) ResetDomainStateDistribution(dom domain.FactoredBADomain, rng *randutil.Rand) {
	for i := 0; i < b.particles.Len(); i++ {
		st, _ := b.particles.Particle(i)
		st.SetDomainState(dom.SampleStartState(rng))
	}
}

func (b *ImportanceSampling) Free() { b.particles.Free(nil) }
