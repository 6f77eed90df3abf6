package belief

import (
	"github.com/samkatt/fba-pomdp-go/bastate"
	"github.com/samkatt/fba-pomdp-go/domain"
	"github.com/samkatt/fba-pomdp-go/particle"
	"github.com/samkatt/fba-pomdp-go/prior"
	"github.com/samkatt/fba-pomdp-go/randutil"
)

// Incubator maintains a main (flat), fully-connected (flat), and shadow
// (weighted) filter. Each step it rejection-samples the main and
// fully-connected filters forward, re-breeds the r least-likely shadow
// particles from donors drawn out of those two, importance-updates the
// shadow filter, and transplants any shadow particle whose normalized
// weight exceeds threshold theta into the main filter (spec.md §4.8).
type Incubator struct {
	main           *particle.Flat[bastate.State]
	fullyConnected *particle.Flat[bastate.State]
	shadow         *particle.Weighted[bastate.State]
	pri            *prior.Factored
	r              int
	theta          float64
}

// NewIncubator draws n particles into each of main, fullyConnected, and
// shadow from pri.
func NewIncubator(pri *prior.Factored, n, r int, theta float64, rng *randutil.Rand) *Incubator {
	main := make([]bastate.State, n)
	fc := make([]bastate.State, n)
	shadowItems := make([]bastate.State, n)
	shadowWeights := make([]float64, n)
	for i := 0; i < n; i++ {
		main[i] = pri.Sample(rng)
		fc[i] = pri.SampleFullyConnected(rng)
		shadowItems[i] = pri.Sample(rng)
		shadowWeights[i] = 1.0 / float64(n)
	}
	return &Incubator{
		main:           particle.NewFlat(main),
		fullyConnected: particle.NewFlat(fc),
		shadow:         particle.NewWeighted(shadowItems, shadowWeights),
		pri:            pri,
		r:              r,
		theta:          theta,
	}
}

func (b *Incubator) Sample(rng *randutil.Rand) bastate.State { return b.main.Sample(rng) }

func (b *Incubator) Update(a domain.Action, o domain.Observation, dom domain.FactoredBADomain, rng *randutil.Rand) {
	rejectionUpdate(b.main, a, o, dom, rng)
	rejectionUpdate(b.fullyConnected, a, o, dom, rng)

	for _, idx := range b.shadow.LeastLikely(b.r) {
		structureDonor := b.main.Sample(rng).(*bastate.Factored)
		countsDonor := b.fullyConnected.Sample(rng).(*bastate.Factored)
		bred := Breed(dom, structureDonor, countsDonor, b.pri, rng)
		b.shadow.Replace(idx, bred, nil)
		b.shadow.SetWeight(idx, 1.0/float64(b.shadow.Len()))
	}

	for i := 0; i < b.shadow.Len(); i++ {
		st, w := b.shadow.Particle(i)
		candidate := st.Copy()
		s := candidate.DomainState()
		sNext, _, _, _ := Step(dom, candidate, s, a, bastate.Regular, rng)

		likelihood := candidate.ObservationProbability(o, a, sNext, bastate.Expected, rng)
		candidate.IncrementCountsOf(s, a, o, sNext, 1)
		candidate.SetDomainState(sNext)

		b.shadow.Replace(i, candidate, nil)
		b.shadow.SetWeight(i, w*likelihood)
	}
	if b.shadow.SumWeights() <= 0 {
		degenerate("incubator: shadow filter collapsed to zero weight")
	}

	for i := 0; i < b.shadow.Len(); i++ {
		st, w := b.shadow.Particle(i)
		if b.shadow.NormalizedWeight(w) > b.theta {
			b.main.Replace(st.Copy(), nil, rng)
			b.shadow.SetWeight(i, 0)
		}
	}

	if b.shadow.SumWeights() <= 0 {
		degenerate("incubator: every shadow particle transplanted, nothing left to resample")
	}
	b.shadow.Resample(b.shadow.Len(), rng)
}

func (b *Incubator) ResetDomainStateDistribution(dom domain.FactoredBADomain, rng *randutil.Rand) {
	resetFlat(b.main, dom, rng)
	resetFlat(b.fullyConnected, dom, rng)
	for i := 0; i < b.shadow.Len(); i++ {
		st, _ := b.shadow.Particle(i)
		st.SetDomainState(dom.SampleStartState(rng))
	}
}

func (b *Incubator) Free() {
	b.main.Free(nil)
	b.fullyConnected.Free(nil)
	b.shadow.Free(nil)
}
