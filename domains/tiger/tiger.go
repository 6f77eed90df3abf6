// Package tiger implements spec.md §8 scenarios 2 and 3: the classic
// episodic tiger problem, optionally padded with k irrelevant binary
// features that a factored belief must learn are irrelevant on its own.
package tiger

import "github.com/samkatt/fba-pomdp-go/domain"

// Actions.
const (
	Listen    domain.IndexHandle = 0
	OpenLeft  domain.IndexHandle = 1
	OpenRight domain.IndexHandle = 2
)

// Tiger positions (the state's feature 0).
const (
	Left  = 0
	Right = 1
)

// listenAccuracy is the probability Listen reports the tiger's true side.
const listenAccuracy = 0.85

const (
	listenReward      = -1
	openCorrectReward = 10
	openWrongReward   = -100
)

// Tiger is the episodic tiger domain padded with k irrelevant binary
// features (k == 0 is the plain episodic tiger of spec.md §8 scenario 2;
// k > 0 is scenario 3's factored variant, S = 2*2^k). Every feature,
// including the tiger's own position, transitions as identity: nothing
// about this domain's state ever changes within an episode, only the
// reward and termination differ by action. That is sufficient to realize
// both scenarios: Listen leaves every feature invariant by construction,
// and opening a door returns +10/-100 based solely on the tiger's
// position, identically regardless of how many irrelevant features are
// appended.
type Tiger struct {
	k int
}

// New returns a Tiger domain with k irrelevant binary features appended to
// the tiger's own position (k == 0 for the plain episodic tiger).
func New(k int) Tiger { return Tiger{k: k} }

func (t Tiger) numFeatures() int { return t.k + 1 }

// SampleStartState draws uniformly over every (tiger position, irrelevant
// feature) combination — spec.md §8 scenario 2's "start uniform over
// {left,right}" generalized the only way left open to the irrelevant
// features appended in scenario 3.
func (t Tiger) SampleStartState(rng domain.Source) domain.State {
	return domain.IndexHandle(rng.Intn(t.NumStates()))
}

func (t Tiger) tigerSide(s domain.State) int { return s.Index() >> t.k }

// Step never changes the state: reward and termination alone depend on the
// action. Listen emits a noisy observation of the tiger's side; opening a
// door emits the tiger's true side (moot, since the episode terminates).
func (t Tiger) Step(s domain.State, a domain.Action, rng domain.Source) domain.Step {
	side := t.tigerSide(s)

	switch a.Index() {
	case int(Listen):
		heard := side
		if rng.Float64() >= listenAccuracy {
			heard = 1 - side
		}
		return domain.Step{
			NextState:   s,
			Observation: domain.IndexHandle(heard),
			Reward:      listenReward,
			Terminal:    false,
		}
	case int(OpenLeft):
		reward := openCorrectReward
		if side == Left {
			reward = openWrongReward
		}
		return domain.Step{
			NextState:   s,
			Observation: domain.IndexHandle(side),
			Reward:      float64(reward),
			Terminal:    true,
		}
	case int(OpenRight):
		reward := openCorrectReward
		if side == Right {
			reward = openWrongReward
		}
		return domain.Step{
			NextState:   s,
			Observation: domain.IndexHandle(side),
			Reward:      float64(reward),
			Terminal:    true,
		}
	default:
		panic("tiger: illegal action")
	}
}

// GenerateRandomAction returns a uniformly random legal action.
func (t Tiger) GenerateRandomAction(s domain.State, rng domain.Source) domain.Action {
	return domain.IndexHandle(rng.Intn(3))
}

// LegalActions returns {Listen, OpenLeft, OpenRight}; all three are always
// legal.
func (t Tiger) LegalActions(s domain.State) []domain.Action {
	return []domain.Action{Listen, OpenLeft, OpenRight}
}

// ObservationProbability returns P(o|a,s'): listenAccuracy for a correct
// Listen report, 1-listenAccuracy for an incorrect one, and 1 for the
// (otherwise moot) observation an open action deterministically emits.
func (t Tiger) ObservationProbability(o domain.Observation, a domain.Action, sNext domain.State) float64 {
	side := t.tigerSide(sNext)
	switch a.Index() {
	case int(Listen):
		if o.Index() == side {
			return listenAccuracy
		}
		return 1 - listenAccuracy
	default:
		if o.Index() == side {
			return 1
		}
		return 0
	}
}

// CopyState returns s unchanged; domain.IndexHandle is a plain value.
func (t Tiger) CopyState(s domain.State) domain.State { return s }

// NumActions returns 3.
func (t Tiger) NumActions() int { return 3 }

// NumObservations returns 2.
func (t Tiger) NumObservations() int { return 2 }

// StateByIndex returns the state at position i.
func (t Tiger) StateByIndex(i int) domain.State { return domain.IndexHandle(i) }

// NumStates returns 2*2^k.
func (t Tiger) NumStates() int { return 2 << t.k }

// Reward mirrors Step's reward computation without advancing state.
func (t Tiger) Reward(s domain.State, a domain.Action, sNext domain.State) float64 {
	side := t.tigerSide(s)
	switch a.Index() {
	case int(Listen):
		return listenReward
	case int(OpenLeft):
		if side == Left {
			return openWrongReward
		}
		return openCorrectReward
	case int(OpenRight):
		if side == Right {
			return openWrongReward
		}
		return openCorrectReward
	default:
		panic("tiger: illegal action")
	}
}

// Terminal is true iff a opens a door.
func (t Tiger) Terminal(s domain.State, a domain.Action, sNext domain.State) bool {
	return a.Index() == int(OpenLeft) || a.Index() == int(OpenRight)
}

// TransitionProbability is 1 iff sNext == s (identity transition), 0
// otherwise.
func (t Tiger) TransitionProbability(s domain.State, a domain.Action, sNext domain.State) float64 {
	if sNext.Index() == s.Index() {
		return 1
	}
	return 0
}

// StatePrior is uniform over every (tiger position, irrelevant feature)
// combination.
func (t Tiger) StatePrior() []float64 {
	n := t.NumStates()
	p := make([]float64, n)
	for i := range p {
		p[i] = 1 / float64(n)
	}
	return p
}

// StateFeatureSizes is k+1 binary features: the tiger's position followed
// by k irrelevant features.
func (t Tiger) StateFeatureSizes() []int {
	sizes := make([]int, t.numFeatures())
	for i := range sizes {
		sizes[i] = 2
	}
	return sizes
}

// ObservationFeatureSizes is a single binary feature: the heard side.
func (t Tiger) ObservationFeatureSizes() []int { return []int{2} }

// TrueTransitionParents is every feature's own history, for every action:
// the identity transition depends on nothing else.
func (t Tiger) TrueTransitionParents(action, feature int) []int { return []int{feature} }

// TrueObservationParents is the tiger's own position feature (index 0);
// the irrelevant features play no role in what Listen hears.
func (t Tiger) TrueObservationParents(action, feature int) []int { return []int{0} }
