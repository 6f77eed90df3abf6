package belief

import (
	"github.com/samkatt/fba-pomdp-go/bastate"
	"github.com/samkatt/fba-pomdp-go/domain"
	"github.com/samkatt/fba-pomdp-go/particle"
	"github.com/samkatt/fba-pomdp-go/prior"
	"github.com/samkatt/fba-pomdp-go/randutil"
)

// RejectionSampling tracks a flat filter of n particles. Each update
// replaces every slot independently: re-sample a parent particle from the
// current filter, then repeatedly step it until the model happens to
// produce the observed o (spec.md §4.8).
type RejectionSampling struct {
	particles *particle.Flat[bastate.State]
}

// NewRejectionSampling draws n independent particles from pri.
func NewRejectionSampling(pri prior.Prior, n int, rng *randutil.Rand) *RejectionSampling {
	items := make([]bastate.State, n)
	for i := range items {
		items[i] = pri.Sample(rng)
	}
	return &RejectionSampling{particles: particle.NewFlat(items)}
}

func (b *RejectionSampling) Sample(rng *randutil.Rand) bastate.State {
	return b.particles.Sample(rng)
}

func (b *RejectionSampling) Update(a domain.Action, o domain.Observation, dom domain.FactoredBADomain, rng *randutil.Rand) {
	rejectionUpdate(b.particles, a, o, dom, rng)
}

// rejectionUpdate replaces every slot of particles independently: re-sample
// a parent from the filter, then repeatedly step it until the model
// produces the observed o. Shared by RejectionSampling and the
// reinvigoration/cheating-reinvigoration companion filters (spec.md §4.8).
func rejectionUpdate(particles *particle.Flat[bastate.State], a domain.Action, o domain.Observation, dom domain.FactoredBADomain, rng *randutil.Rand) {
	for i := 0; i < particles.Len(); i++ {
		parent := particles.Sample(rng)

		s := parent.DomainState()
		accepted := false
		for attempt := 0; attempt < maxRejectionAttempts; attempt++ {
			candidate := parent.Copy()
			sNext, sampledO, _, _ := Step(dom, candidate, s, a, bastate.Regular, rng)
			if sampledO.Index() == o.Index() {
				candidate.IncrementCountsOf(s, a, o, sNext, 1)
				candidate.SetDomainState(sNext)
				particles.ReplaceAt(i, candidate, nil)
				accepted = true
				break
			}
		}
		if !accepted {
			degenerate("rejection sampling found no matching observation for a slot")
		}
	}
}

func (b *RejectionSampling) ResetDomainStateDistribution(dom domain.FactoredBADomain, rng *randutil.Rand) {
	for i := 0; i < b.particles.Len(); i++ {
		b.particles.At(i).SetDomainState(dom.SampleStartState(rng))
	}
}

func (b *RejectionSampling) Free() { b.particles.Free(nil) }
