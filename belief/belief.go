// Package belief implements the nine Bayes-Adaptive belief-tracking
// strategies: each maintains a distribution over augmented states (domain
// state + dynamics model) and updates it as (action, observation) pairs are
// observed (spec.md §4.8).
package belief

import (
	"github.com/samkatt/fba-pomdp-go/bastate"
	"github.com/samkatt/fba-pomdp-go/domain"
	"github.com/samkatt/fba-pomdp-go/randutil"
)

// Belief is the contract every strategy satisfies. Setup work the original
// described as a separate initiate(simulator) step is instead done by each
// strategy's New... constructor, the idiomatic Go way to guarantee an
// object is never observed half-built.
type Belief interface {
	// Sample draws one augmented state from the current belief.
	Sample(rng *randutil.Rand) bastate.State

	// Update folds one real (action, observation) pair into the belief.
	Update(a domain.Action, o domain.Observation, dom domain.FactoredBADomain, rng *randutil.Rand)

	// ResetDomainStateDistribution re-samples every particle's domain-state
	// component from dom's start-state distribution while preserving each
	// particle's learned counts.
	ResetDomainStateDistribution(dom domain.FactoredBADomain, rng *randutil.Rand)

	// Free releases every particle held by the belief.
	Free()
}

// Step draws one (s', o) transition from st's own model for action a (not
// the true domain dynamics), and evaluates the true domain's reward and
// terminal functions on the result. Every belief strategy's update and the
// PO-UCT planner's simulations go through this single helper (spec.md
// §4.7-§4.9: "step the simulator" always means stepping a particle's
// model). s is the current domain state to step from, passed explicitly
// rather than read off st, so a caller walking a simulated trajectory (the
// planner's tree search) can advance state level by level without st ever
// tracking that trajectory itself (mirrors POUCT.cpp's in-place step(&s,
// ...)); belief updates that step a particle from its own state simply pass
// st.DomainState() back in.
func Step(dom domain.BADomain, st bastate.State, s domain.State, a domain.Action, method bastate.SampleMethod, rng *randutil.Rand) (sNext domain.State, o domain.Observation, reward float64, terminal bool) {
	sNextIdx := st.SampleStateIndex(s, a, method, rng)
	sNext = dom.StateByIndex(sNextIdx)

	oIdx := st.SampleObservationIndex(a, sNext, method, rng)
	o = domain.IndexHandle(oIdx)

	reward = dom.Reward(s, a, sNext)
	terminal = dom.Terminal(s, a, sNext)
	return
}

// maxRejectionAttempts bounds every rejection-sampling loop in this package:
// a real domain with zero-probability observations under the current model
// would otherwise spin forever, which the spec treats as the
// BeliefDegenerate condition rather than an infinite stall.
const maxRejectionAttempts = 1 << 16

// degenerate panics with the spec's BeliefDegenerate condition: every
// particle's weight collapsed to zero and the core has no recovery beyond
// aborting (spec.md §7).
func degenerate(reason string) {
	panic("belief: BeliefDegenerate: " + reason)
}
