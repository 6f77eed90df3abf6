// Package prior implements the Bayes-Adaptive prior factory: it builds the
// initial count model (flat or factored) from domain knowledge and a
// configuration of pseudocount total, noise, and — for the factored case —
// a structure-prior keyword (spec.md §4.6).
package prior

import (
	"github.com/samkatt/fba-pomdp-go/bastate"
	"github.com/samkatt/fba-pomdp-go/domain"
	"github.com/samkatt/fba-pomdp-go/model/flat"
	"github.com/samkatt/fba-pomdp-go/randutil"
)

// Prior samples fresh augmented states for a BA-POMDP/FBA-POMDP.
type Prior interface {
	Sample(rng *randutil.Rand) bastate.State
}

// Flat is the tabular prior: it pre-computes one count model by iterating
// every reachable (s,a,s',o) tuple of the domain and shares it (by
// reference, copy-on-write) into every sampled augmented state (spec.md
// §4.6).
type Flat struct {
	dom     domain.BADomain
	model   *flat.Model
	noise   float64
}

// NewFlat builds the flat prior's single count template: T[s,a,s'] =
// countsTotal * P_model(s'|s,a) and O[a,s',o] = countsTotal *
// P_obs(o|a,s') where P_model/P_obs come from the domain, optionally
// noised by the noise parameter (domain-declared semantics; the sign
// convention used here mixes a uniform floor into the domain's declared
// probability: p' = (1-noise)*p_domain + noise*uniform, which keeps rows
// summing to exactly countsTotal for any noise in (-0.5, 0.5)).
func NewFlat(dom domain.BADomain, countsTotal, noise float64, rng *randutil.Rand) *Flat {
	s, a, o := dom.NumStates(), dom.NumActions(), dom.NumObservations()
	m := flat.New(s, a, o)

	for si := 0; si < s; si++ {
		state := dom.StateByIndex(si)
		for ai := 0; ai < a; ai++ {
			action := domain.IndexHandle(ai)
			row := make([]float64, s)
			for sNext := 0; sNext < s; sNext++ {
				p := dom.TransitionProbability(state, action, dom.StateByIndex(sNext))
				row[sNext] = noisedProbability(p, noise, s)
			}
			normalizeTo(row, countsTotal)
			for sNext, v := range row {
				m.SetCountT(si, ai, sNext, v)
			}
		}
	}

	for ai := 0; ai < a; ai++ {
		action := domain.IndexHandle(ai)
		for sNext := 0; sNext < s; sNext++ {
			state := dom.StateByIndex(sNext)
			row := make([]float64, o)
			for oi := 0; oi < o; oi++ {
				p := dom.ObservationProbability(domain.IndexHandle(oi), action, state)
				row[oi] = noisedProbability(p, noise, o)
			}
			normalizeTo(row, countsTotal)
			for oi, v := range row {
				m.SetCountO(ai, sNext, oi, v)
			}
		}
	}

	return &Flat{dom: dom, model: m, noise: noise}
}

// Sample returns a new augmented state over a freshly sampled domain start
// state, sharing (copy-on-write) this prior's single count template.
func (p *Flat) Sample(rng *randutil.Rand) bastate.State {
	return bastate.NewFlat(p.dom.SampleStartState(rng), p.model.Share())
}

func noisedProbability(p, noise float64, n int) float64 {
	uniform := 1.0 / float64(n)
	return (1-noise)*p + noise*uniform
}

func normalizeTo(row []float64, total float64) {
	sum := 0.0
	for _, v := range row {
		sum += v
	}
	if sum <= 0 {
		return
	}
	scale := total / sum
	for i := range row {
		row[i] *= scale
	}
}
