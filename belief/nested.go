package belief

import (
	"github.com/samkatt/fba-pomdp-go/bastate"
	"github.com/samkatt/fba-pomdp-go/domain"
	"github.com/samkatt/fba-pomdp-go/model/dbn"
	"github.com/samkatt/fba-pomdp-go/particle"
	"github.com/samkatt/fba-pomdp-go/prior"
	"github.com/samkatt/fba-pomdp-go/randutil"
)

// nestedParticle is one top-level entry: a model shared by every domain
// state in its own bottom filter.
type nestedParticle struct {
	model  *dbn.Model
	bottom *particle.Flat[domain.State]
}

// Nested is the two-level belief: a weighted filter of (model, bottom
// domain-state filter) pairs. Each update rejection-samples a fresh bottom
// filter for every top particle through that particle's own model, and
// reweights the top particle by the inverse of how many rejection attempts
// that took (spec.md §4.8).
type Nested struct {
	top    *particle.Weighted[*nestedParticle]
	pri    *prior.Factored
	b      int
	sSizes []int
	oSizes []int
}

// NewNested draws n top particles from pri, each with its own bottom filter
// of b domain states drawn from dom's start-state distribution.
func NewNested(pri *prior.Factored, dom domain.FactoredBADomain, n, b int, rng *randutil.Rand) *Nested {
	items := make([]*nestedParticle, n)
	weights := make([]float64, n)
	for i := 0; i < n; i++ {
		seed := pri.Sample(rng).(*bastate.Factored)
		bottom := make([]domain.State, b)
		for k := range bottom {
			bottom[k] = dom.SampleStartState(rng)
		}
		items[i] = &nestedParticle{model: seed.Model, bottom: particle.NewFlat(bottom)}
		weights[i] = 1.0 / float64(n)
	}
	return &Nested{
		top:    particle.NewWeighted(items, weights),
		pri:    pri,
		b:      b,
		sSizes: dom.StateFeatureSizes(),
		oSizes: dom.ObservationFeatureSizes(),
	}
}

// Sample picks a top particle by weight, then a domain state uniformly from
// its bottom filter, and pairs the two into an augmented state.
func (n *Nested) Sample(rng *randutil.Rand) bastate.State {
	top := n.top.Sample(rng)
	s := top.bottom.Sample(rng)
	return bastate.NewFactored(s, top.model.Share(), n.sSizes, n.oSizes)
}

func (n *Nested) Update(a domain.Action, o domain.Observation, dom domain.FactoredBADomain, rng *randutil.Rand) {
	for i := 0; i < n.top.Len(); i++ {
		particleEntry, w := n.top.Particle(i)
		newBottom := make([]domain.State, 0, n.b)
		attempts := 0

		for k := 0; k < n.b; k++ {
			s := particleEntry.bottom.Sample(rng)
			candidate := bastate.NewFactored(s, particleEntry.model, n.sSizes, n.oSizes)

			accepted := false
			for attempt := 0; attempt < maxRejectionAttempts; attempt++ {
				attempts++
				sNext, sampledO, _, _ := Step(dom, candidate, s, a, bastate.Regular, rng)
				if sampledO.Index() == o.Index() {
					newBottom = append(newBottom, sNext)
					accepted = true
					break
				}
			}
			if !accepted {
				degenerate("nested: exhausted rejection attempts resampling the bottom filter")
			}
		}

		n.top.Replace(i, &nestedParticle{model: particleEntry.model, bottom: particle.NewFlat(newBottom)}, nil)
		n.top.SetWeight(i, w/float64(attempts))
	}

	if n.top.SumWeights() <= 0 {
		degenerate("nested: every top particle's weight collapsed to zero")
	}
	n.top.Normalize()
}

func (n *Nested) ResetDomainStateDistribution(dom domain.FactoredBADomain, rng *randutil.Rand) {
	for i := 0; i < n.top.Len(); i++ {
		particleEntry, _ := n.top.Particle(i)
		for k := 0; k < particleEntry.bottom.Len(); k++ {
			particleEntry.bottom.ReplaceAt(k, dom.SampleStartState(rng), nil)
		}
	}
}

func (n *Nested) Free() {
	for i := 0; i < n.top.Len(); i++ {
		particleEntry, _ := n.top.Particle(i)
		particleEntry.bottom.Free(nil)
	}
	n.top.Free(nil)
}
