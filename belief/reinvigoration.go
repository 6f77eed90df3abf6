package belief

import (
	"github.com/samkatt/fba-pomdp-go/bastate"
	"github.com/samkatt/fba-pomdp-go/domain"
	"github.com/samkatt/fba-pomdp-go/particle"
	"github.com/samkatt/fba-pomdp-go/prior"
	"github.com/samkatt/fba-pomdp-go/randutil"
)

// Reinvigoration maintains two flat filters: main (the tracked belief) and
// a fully-connected companion used only as a counts donor. Each real step
// breeds r new particles into main (structure from a main particle,
// mutated, counts marginalized from a fully-connected particle), then
// rejection-samples both filters (spec.md §4.8).
type Reinvigoration struct {
	main           *particle.Flat[bastate.State]
	fullyConnected *particle.Flat[bastate.State]
	pri            *prior.Factored
	r              int
}

// NewReinvigoration draws n particles into each filter from pri.
func NewReinvigoration(pri *prior.Factored, n, r int, rng *randutil.Rand) *Reinvigoration {
	main := make([]bastate.State, n)
	fc := make([]bastate.State, n)
	for i := 0; i < n; i++ {
		main[i] = pri.Sample(rng)
		fc[i] = pri.SampleFullyConnected(rng)
	}
	return &Reinvigoration{
		main:           particle.NewFlat(main),
		fullyConnected: particle.NewFlat(fc),
		pri:            pri,
		r:              r,
	}
}

func (b *Reinvigoration) Sample(rng *randutil.Rand) bastate.State { return b.main.Sample(rng) }

func (b *Reinvigoration) Update(a domain.Action, o domain.Observation, dom domain.FactoredBADomain, rng *randutil.Rand) {
	for i := 0; i < b.r; i++ {
		structureDonor := b.main.Sample(rng).(*bastate.Factored)
		countsDonor := b.fullyConnected.Sample(rng).(*bastate.Factored)
		bred := Breed(dom, structureDonor, countsDonor, b.pri, rng)
		b.main.Replace(bastate.State(bred), nil, rng)
	}

	rejectionUpdate(b.main, a, o, dom, rng)
	rejectionUpdate(b.fullyConnected, a, o, dom, rng)
}

func (b *Reinvigoration) ResetDomainStateDistribution(dom domain.FactoredBADomain, rng *randutil.Rand) {
	resetFlat(b.main, dom, rng)
	resetFlat(b.fullyConnected, dom, rng)
}

func (b *Reinvigoration) Free() {
	b.main.Free(nil)
	b.fullyConnected.Free(nil)
}

func resetFlat(filter *particle.Flat[bastate.State], dom domain.FactoredBADomain, rng *randutil.Rand) {
	for i := 0; i < filter.Len(); i++ {
		filter.At(i).SetDomainState(dom.SampleStartState(rng))
	}
}
