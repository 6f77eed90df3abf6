// Package coin implements spec.md §8 scenario 1: a deterministic two-state
// coin domain, used to exercise the core end to end without any of the
// closed catalogue of benchmark domains the core itself stays ignorant of.
package coin

import "github.com/samkatt/fba-pomdp-go/domain"

// Actions.
const (
	Stay domain.IndexHandle = 0
	Flip domain.IndexHandle = 1
)

// Coin is S = {0,1}, A = {stay, flip}, O = {0,1} with o = s, reward equal to
// the pre-transition state index, and a deterministic, noiseless, never-
// terminating transition/observation model (spec.md §8 scenario 1).
type Coin struct{}

// New returns a Coin domain.
func New() Coin { return Coin{} }

// SampleStartState always starts at state 0, per spec.md §8 scenario 1.
func (Coin) SampleStartState(rng domain.Source) domain.State { return domain.IndexHandle(0) }

// Step flips the state iff a is Flip; the observation is the next state
// index, noiselessly, and reward is the pre-transition state index.
func (Coin) Step(s domain.State, a domain.Action, rng domain.Source) domain.Step {
	next := s.Index()
	if a.Index() == int(Flip) {
		next = 1 - next
	}
	return domain.Step{
		NextState:   domain.IndexHandle(next),
		Observation: domain.IndexHandle(next),
		Reward:      float64(s.Index()),
		Terminal:    false,
	}
}

// GenerateRandomAction returns Stay or Flip with equal probability.
func (Coin) GenerateRandomAction(s domain.State, rng domain.Source) domain.Action {
	return domain.IndexHandle(rng.Intn(2))
}

// LegalActions returns {Stay, Flip}; both are always legal.
func (Coin) LegalActions(s domain.State) []domain.Action {
	return []domain.Action{Stay, Flip}
}

// ObservationProbability is 1 iff o == sNext, 0 otherwise (noiseless).
func (Coin) ObservationProbability(o domain.Observation, a domain.Action, sNext domain.State) float64 {
	if o.Index() == sNext.Index() {
		return 1
	}
	return 0
}

// CopyState returns s unchanged; domain.IndexHandle is a plain value.
func (Coin) CopyState(s domain.State) domain.State { return s }

// NumActions returns 2.
func (Coin) NumActions() int { return 2 }

// NumObservations returns 2.
func (Coin) NumObservations() int { return 2 }

// StateByIndex returns the state at position i.
func (Coin) StateByIndex(i int) domain.State { return domain.IndexHandle(i) }

// NumStates returns 2.
func (Coin) NumStates() int { return 2 }

// Reward returns the pre-transition state index.
func (Coin) Reward(s domain.State, a domain.Action, sNext domain.State) float64 {
	return float64(s.Index())
}

// Terminal is always false; the coin domain never ends.
func (Coin) Terminal(s domain.State, a domain.Action, sNext domain.State) bool { return false }

// TransitionProbability is 1 iff sNext is the deterministic result of (s,a).
func (Coin) TransitionProbability(s domain.State, a domain.Action, sNext domain.State) float64 {
	want := s.Index()
	if a.Index() == int(Flip) {
		want = 1 - want
	}
	if sNext.Index() == want {
		return 1
	}
	return 0
}

// StatePrior puts all mass on state 0 (spec.md §8 scenario 1's fixed start).
func (Coin) StatePrior() []float64 { return []float64{1, 0} }

// StateFeatureSizes is a single binary feature.
func (Coin) StateFeatureSizes() []int { return []int{2} }

// ObservationFeatureSizes is a single binary feature.
func (Coin) ObservationFeatureSizes() []int { return []int{2} }

// TrueTransitionParents is the single feature's own history, for every
// action: the coin flips (or doesn't) based only on its own prior value.
func (Coin) TrueTransitionParents(action, feature int) []int { return []int{0} }

// TrueObservationParents is the single feature, noiselessly observed.
func (Coin) TrueObservationParents(action, feature int) []int { return []int{0} }
