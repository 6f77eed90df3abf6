package belief

import (
	"math"

	"github.com/samkatt/fba-pomdp-go/bastate"
	"github.com/samkatt/fba-pomdp-go/domain"
	"github.com/samkatt/fba-pomdp-go/particle"
	"github.com/samkatt/fba-pomdp-go/prior"
	"github.com/samkatt/fba-pomdp-go/randutil"
)

// MHNIPS is a weighted-filter belief that does a plain importance update
// every step, but periodically replaces each particle's structure with a
// Metropolis-Hastings proposal once the cumulative log-likelihood of
// observations drops below -theta (spec.md §4.8).
type MHNIPS struct {
	particles *particle.Weighted[bastate.State]
	pri       *prior.Factored
	theta     float64
	n         int

	history   []Transition
	cumLogLik float64
}

// NewMHNIPS draws n equally-weighted particles from pri.
func NewMHNIPS(pri *prior.Factored, n int, theta float64, rng *randutil.Rand) *MHNIPS {
	items := make([]bastate.State, n)
	weights := make([]float64, n)
	for i := range items {
		items[i] = pri.Sample(rng)
		weights[i] = 1.0 / float64(n)
	}
	return &MHNIPS{particles: particle.NewWeighted(items, weights), pri: pri, theta: theta, n: n}
}

func (b *MHNIPS) Sample(rng *randutil.Rand) bastate.State { return b.particles.Sample(rng) }

func (b *MHNIPS) Update(a domain.Action, o domain.Observation, dom domain.FactoredBADomain, rng *randutil.Rand) {
	var stepLikelihood float64
	var tr Transition

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
		stepLikelihood += likelihood

		if i == 0 {
			tr = Transition{S: s, A: a, O: o, SNext: sNext}
		}
	}
	if b.particles.SumWeights() <= 0 {
		degenerate("mh-nips: every particle's weight collapsed to zero")
	}

	// Representative transition recorded for the MH sweep's data counts:
	// every particle shares the same real (a,o), so any one particle's
	// realized (s,s') pair is a reasonable proxy for "the" trajectory.
	b.history = append(b.history, tr)

	avgLikelihood := stepLikelihood / float64(b.particles.Len())
	if avgLikelihood > 0 {
		b.cumLogLik += math.Log(avgLikelihood)
	} else {
		b.cumLogLik = math.Inf(-1)
	}

	b.particles.Resample(b.n, rng)

	if b.cumLogLik < -b.theta {
		b.mhSweep(dom, rng)
		b.history = nil
		b.cumLogLik = 0
	}
}

// mhSweep runs one MH structure proposal per particle, each scored against
// a shared data model: the fully-connected prior template with the
// recorded history replayed into it.
func (b *MHNIPS) mhSweep(dom domain.FactoredBADomain, rng *randutil.Rand) {
	priorModel := b.pri.FullyConnectedTemplate()
	sSizes := dom.StateFeatureSizes()
	oSizes := dom.ObservationFeatureSizes()
	numActions := dom.NumActions()

	dataModel := priorModel.Share()
	ApplyHistory(dataModel, sSizes, oSizes, b.history)

	for i := 0; i < b.particles.Len(); i++ {
		st, w := b.particles.Particle(i)
		factored := st.(*bastate.Factored)
		current := factored.Model.Structure()
		accepted := MHSweep(current, dataModel, priorModel, sSizes, oSizes, numActions, b.pri, rng)

		newModel := marginalizeModelTo(dom, dataModel, accepted)
		newState := bastate.NewFactored(dom.CopyState(factored.DomainState()), newModel, sSizes, oSizes)
		b.particles.Replace(i, newState, nil)
		b.particles.SetWeight(i, w)
	}
}

func (b *MHNIPS) ResetDomainStateDistribution(dom domain.FactoredBADomain, rng *randutil.Rand) {
	for i := 0; i < b.particles.Len(); i++ {
		st, _ := b.particles.Particle(i)
		st.SetDomainState(dom.SampleStartState(rng))
	}
}

func (b *MHNIPS) Free() { b.particles.Free(nil) }
