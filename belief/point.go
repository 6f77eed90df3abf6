package belief

import (
	"github.com/samkatt/fba-pomdp-go/bastate"
	"github.com/samkatt/fba-pomdp-go/domain"
	"github.com/samkatt/fba-pomdp-go/prior"
	"github.com/samkatt/fba-pomdp-go/randutil"
)

// PointEstimate tracks a single particle. Updates replace it by a
// rejection-sampling rollout: step the particle repeatedly until the model
// happens to produce the observed o (spec.md §4.8).
type PointEstimate struct {
	particle bastate.State
}

// NewPointEstimate draws the belief's single particle from pri.
func NewPointEstimate(pri prior.Prior, rng *randutil.Rand) *PointEstimate {
	return &PointEstimate{particle: pri.Sample(rng)}
}

// NewPointEstimateFrom seeds the belief's single particle with an
// already-sampled one, rather than drawing a fresh one from a prior. Used
// by the Thompson-sampled planner to borrow a single sample from the outer
// belief for the duration of one selectAction call (spec.md §4.9).
func NewPointEstimateFrom(particle bastate.State) *PointEstimate {
	return &PointEstimate{particle: particle}
}

func (b *PointEstimate) Sample(rng *randutil.Rand) bastate.State { return b.particle }

func (b *PointEstimate) Update(a domain.Action, o domain.Observation, dom domain.FactoredBADomain, rng *randutil.Rand) {
	s := b.particle.DomainState()
	for attempt := 0; attempt < maxRejectionAttempts; attempt++ {
		sNext, sampledO, _, _ := Step(dom, b.particle, s, a, bastate.Regular, rng)
		if sampledO.Index() == o.Index() {
			b.particle.IncrementCountsOf(s, a, o, sNext, 1)
			b.particle.SetDomainState(sNext)
			return
		}
	}
	degenerate("point-estimate rejection sampling found no matching observation")
}

func (b *PointEstimate) ResetDomainStateDistribution(dom domain.FactoredBADomain, rng *randutil.Rand) {
	b.particle.SetDomainState(dom.SampleStartState(rng))
}

func (b *PointEstimate) Free() { b.particle = nil }
