// Package domain defines the abstract simulator contract that the
// planning/learning core consumes. Concrete benchmark domains (tiger,
// gridworld, sysadmin, collision-avoidance, coffee, ...) are external
// collaborators; the core only ever manipulates the opaque indices and
// operations declared here (spec.md §4.2).
package domain

// State is an opaque domain-state handle. Only the owning domain knows its
// concrete representation; the core treats it as an identity plus an
// Index() into the domain's state space.
type State interface {
	// Index returns this state's position in the domain's total order.
	Index() int
}

// Action is an opaque domain-action handle.
type Action interface {
	Index() int
}

// Observation is an opaque domain-observation handle.
type Observation interface {
	Index() int
}

// IndexHandle is a minimal State/Action/Observation satisfying a plain
// index: helpers that only ever need to query a domain by position (the
// prior factory iterating every (s,a,s') tuple, a belief update stepping a
// particle's own model) use it instead of depending on a concrete domain's
// own handle types.
type IndexHandle int

// Index implements State, Action, and Observation.
func (h IndexHandle) Index() int { return int(h) }

// Step packages the result of advancing one domain transition: the next
// state, the observation generated, the immediate reward, and whether the
// episode has terminated.
type Step struct {
	NextState   State
	Observation Observation
	Reward      float64
	Terminal    bool
}

// POMDP is the lifecycle contract every concrete domain satisfies. The core
// never inspects domain-specific fields; it calls these operations and
// manipulates only the indices they return (spec.md §4.2).
type POMDP interface {
	// SampleStartState returns a fresh starting state.
	SampleStartState(rng Source) State

	// Step advances s by taking action a, returning the resulting Step.
	// Implementations may mutate s in place or allocate a new State;
	// ownership of the returned NextState transfers to the caller.
	Step(s State, a Action, rng Source) Step

	// GenerateRandomAction returns a uniformly random legal action in s.
	GenerateRandomAction(s State, rng Source) Action

	// LegalActions returns the set of actions legal in s.
	LegalActions(s State) []Action

	// ObservationProbability returns P(o | a, s').
	ObservationProbability(o Observation, a Action, sNext State) float64

	// CopyState returns an independent copy of s.
	CopyState(s State) State

	// NumActions returns the size of the action space, A.
	NumActions() int

	// NumObservations returns the size of the observation space, O.
	NumObservations() int
}

// Source is the minimal randomness a domain needs; it is satisfied by
// *randutil.Rand without this package importing randutil, keeping the
// contract dependency-free.
type Source interface {
	Float64() float64
	Intn(n int) int
}

// BADomain is the Bayes-Adaptive extension every domain used as the basis
// of a BA-POMDP must additionally implement: it exposes its state space by
// index and the true model's reward/terminal functions, used by the prior
// to pre-compute count tables (spec.md §4.2, §4.6).
type BADomain interface {
	POMDP

	// StateByIndex returns the state at position i in the domain's total
	// order, i in [0, NumStates()).
	StateByIndex(i int) State

	// NumStates returns the size of the (flat) state space, S.
	NumStates() int

	// Reward returns the domain's true reward for the (s,a,s') triple.
	Reward(s State, a Action, sNext State) float64

	// Terminal reports whether (s,a,s') ends the episode.
	Terminal(s State, a Action, sNext State) bool

	// TransitionProbability returns the domain's true P(s' | s, a), used by
	// the flat prior to set T[s,a,s'] = C * P(s'|s,a) (possibly noised).
	TransitionProbability(s State, a Action, sNext State) float64
}

// FactoredBADomain is the factored extension: domains whose transition and
// observation dynamics decompose over named features (spec.md §3, §4.6).
type FactoredBADomain interface {
	BADomain

	// StatePrior returns a categorical distribution over S used to draw
	// start states.
	StatePrior() []float64

	// StateFeatureSizes returns F_S, the per-feature cardinalities whose
	// product is NumStates().
	StateFeatureSizes() []int

	// ObservationFeatureSizes returns F_O, the per-feature cardinalities
	// whose product is NumObservations().
	ObservationFeatureSizes() []int

	// TrueTransitionParents returns the "correctly connected" parent set for a given
	// (action, output feature) pair in the transition DBN. Used by the
	// factored prior to build the correct-graph template and by
	// structure-mutation invariants (e.g. "always include the feature's own
	// history for location features").
	TrueTransitionParents(action, feature int) []int

	// TrueObservationParents returns the correctly-connected parent set for
	// a given (action, output feature) pair in the observation DBN.
	TrueObservationParents(action, feature int) []int
}
