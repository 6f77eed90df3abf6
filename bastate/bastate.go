// Package bastate implements the augmented state of a Bayes-Adaptive
// POMDP: a domain state paired with an owned model (flat counts or DBN),
// exposing sampling and count-increment through a single interface
// shared by the flat and factored variants (spec.md §3, §4.5).
package bastate

import (
	"github.com/samkatt/fba-pomdp-go/domain"
	"github.com/samkatt/fba-pomdp-go/model/dbn"
	"github.com/samkatt/fba-pomdp-go/model/flat"
	"github.com/samkatt/fba-pomdp-go/randutil"
)

// SampleMethod selects Regular (Thompson/sampled) vs Expected dynamics
// when an augmented state draws a next state/observation.
type SampleMethod int

const (
	Regular SampleMethod = iota
	Expected
)

func flatMethod(m SampleMethod) flat.SampleMethod {
	if m == Expected {
		return flat.Expected
	}
	return flat.Regular
}

func dbnMethod(m SampleMethod) dbn.SampleMethod {
	if m == Expected {
		return dbn.Expected
	}
	return dbn.Regular
}

// State is the augmented-state contract: a domain state plus a model,
// with sampling and count-increment delegated to whichever model backs
// it (flat counts or a DBN). Both Flat and Factored satisfy
// it (spec.md §4.5).
type State interface {
	// DomainState returns the owned domain-state handle.
	DomainState() domain.State

	// SampleStateIndex draws a next-state index for (s,a) from the model.
	SampleStateIndex(s domain.State, a domain.Action, method SampleMethod, rng *randutil.Rand) int

	// SampleObservationIndex draws an observation index for (a,s') from
	// the model.
	SampleObservationIndex(a domain.Action, sNext domain.State, method SampleMethod, rng *randutil.Rand) int

	// ObservationProbability returns P(o|a,s') from the model.
	ObservationProbability(o domain.Observation, a domain.Action, sNext domain.State, method SampleMethod, rng *randutil.Rand) float64

	// IncrementCountsOf updates the model's counts for one observed
	// transition (s,a,o,s'), copy-on-write.
	IncrementCountsOf(s domain.State, a domain.Action, o domain.Observation, sNext domain.State, delta float64)

	// Copy returns an augmented state with its own private domain state
	// and a copy-on-write share of the model (privatized lazily on write).
	Copy() State

	// SetDomainState replaces the domain-state handle while retaining the
	// model (used to resample the domain-state part of a particle while
	// preserving its learned counts).
	SetDomainState(s domain.State)
}

// Flat is the tabular augmented state: a domain state plus a shared flat
// count model.
type Flat struct {
	Dom   domain.State
	Model *flat.Model
}

// NewFlat constructs a Flat augmented state over the given domain state
// and model.
func NewFlat(s domain.State, m *flat.Model) *Flat { return &Flat{Dom: s, Model: m} }

func (f *Flat) DomainState() domain.State { return f.Dom }

func (f *Flat) SampleStateIndex(s domain.State, a domain.Action, method SampleMethod, rng *randutil.Rand) int {
	return f.Model.SampleStateIndex(s.Index(), a.Index(), flatMethod(method), rng)
}

func (f *Flat) SampleObservationIndex(a domain.Action, sNext domain.State, method SampleMethod, rng *randutil.Rand) int {
	return f.Model.SampleObservationIndex(a.Index(), sNext.Index(), flatMethod(method), rng)
}

func (f *Flat) ObservationProbability(o domain.Observation, a domain.Action, sNext domain.State, method SampleMethod, rng *randutil.Rand) float64 {
	return f.Model.ObservationProbability(o.Index(), a.Index(), sNext.Index(), flatMethod(method), rng)
}

func (f *Flat) IncrementCountsOf(s domain.State, a domain.Action, o domain.Observation, sNext domain.State, delta float64) {
	f.Model.IncrementCounts(s.Index(), a.Index(), o.Index(), sNext.Index(), delta)
}

func (f *Flat) Copy() State {
	return &Flat{Dom: f.Dom, Model: f.Model.Share()}
}

func (f *Flat) SetDomainState(s domain.State) { f.Dom = s }

// Factored is the DBN-backed augmented state used by the FBA-POMDP.
type Factored struct {
	Dom     domain.State
	Model   *dbn.Model
	sFeats  []int // cached feature-size vectors for index<->feature projection
	oFeats  []int
}

// NewFactored constructs a Factored augmented state.
func NewFactored(s domain.State, m *dbn.Model, stateFeatureSizes, obsFeatureSizes []int) *Factored {
	return &Factored{Dom: s, Model: m, sFeats: stateFeatureSizes, oFeats: obsFeatureSizes}
}

func (fs *Factored) DomainState() domain.State { return fs.Dom }

func (fs *Factored) SampleStateIndex(s domain.State, a domain.Action, method SampleMethod, rng *randutil.Rand) int {
	values := randutil.ProjectUsingDimensions(s.Index(), fs.sFeats)
	next := fs.Model.SampleStateIndex(values, a.Index(), dbnMethod(method), rng)
	return randutil.Project(next, fs.sFeats)
}

func (fs *Factored) SampleObservationIndex(a domain.Action, sNext domain.State, method SampleMethod, rng *randutil.Rand) int {
	values := randutil.ProjectUsingDimensions(sNext.Index(), fs.sFeats)
	obs := fs.Model.SampleObservationIndex(values, a.Index(), dbnMethod(method), rng)
	return randutil.Project(obs, fs.oFeats)
}

func (fs *Factored) ObservationProbability(o domain.Observation, a domain.Action, sNext domain.State, method SampleMethod, rng *randutil.Rand) float64 {
	sValues := randutil.ProjectUsingDimensions(sNext.Index(), fs.sFeats)
	oValues := randutil.ProjectUsingDimensions(o.Index(), fs.oFeats)
	return fs.Model.ObservationProbability(oValues, a.Index(), sValues)
}

func (fs *Factored) IncrementCountsOf(s domain.State, a domain.Action, o domain.Observation, sNext domain.State, delta float64) {
	fs.incrementFeatures(s, a, o, sNext, delta, nil)
}

// IncrementCountsOfAbstract is the abstraction-planner variant of
// IncrementCountsOf: only the state features named in featureSubset are
// updated, leaving the rest of the DBN untouched (spec.md §4.5's "abstract"
// factored variant).
func (fs *Factored) IncrementCountsOfAbstract(s domain.State, a domain.Action, o domain.Observation, sNext domain.State, delta float64, featureSubset []int) {
	fs.incrementFeatures(s, a, o, sNext, delta, featureSubset)
}

func (fs *Factored) incrementFeatures(s domain.State, a domain.Action, o domain.Observation, sNext domain.State, delta float64, featureSubset []int) {
	sValues := randutil.ProjectUsingDimensions(s.Index(), fs.sFeats)
	sNextValues := randutil.ProjectUsingDimensions(sNext.Index(), fs.sFeats)
	oValues := randutil.ProjectUsingDimensions(o.Index(), fs.oFeats)

	update := func(feature int) bool {
		if featureSubset == nil {
			return true
		}
		for _, f := range featureSubset {
			if f == feature {
				return true
			}
		}
		return false
	}

	for f := range fs.sFeats {
		if !update(f) {
			continue
		}
		fs.Model.TransitionNode(a.Index(), f).Increment(sValues, sNextValues[f], delta)
	}
	for f := range fs.oFeats {
		if !update(f) {
			continue
		}
		fs.Model.ObservationNode(a.Index(), f).Increment(sNextValues, oValues[f], delta)
	}
}

func (fs *Factored) Copy() State {
	return &Factored{Dom: fs.Dom, Model: fs.Model.Share(), sFeats: fs.sFeats, oFeats: fs.oFeats}
}

func (fs *Factored) SetDomainState(s domain.State) { fs.Dom = s }
