package prior

import (
	"testing"

	"github.com/samkatt/fba-pomdp-go/domain"
	"github.com/samkatt/fba-pomdp-go/randutil"
)

// chainDomain is a 2-feature (each binary) factored fixture where feature 0
// transitions depend only on itself (a self-loop under action 0, a flip
// under action 1) and feature 1 always copies feature 0's current value;
// observations copy the full next state. This gives a known, non-trivial
// "true" DBN structure to check the factored prior's templates against.
type chainDomain struct{}

func featureState(f0, f1 int) idxState { return idxState{f0*2 + f1} }

func (chainDomain) SampleStartState(rng domain.Source) domain.State { return featureState(0, 0) }
func (chainDomain) Step(s domain.State, a domain.Action, rng domain.Source) domain.Step {
	return domain.Step{}
}
func (chainDomain) GenerateRandomAction(s domain.State, rng domain.Source) domain.Action {
	return idxAction{0}
}
func (chainDomain) LegalActions(s domain.State) []domain.Action {
	return []domain.Action{idxAction{0}, idxAction{1}}
}
func (chainDomain) ObservationProbability(o domain.Observation, a domain.Action, sNext domain.State) float64 {
	if o.Index() == sNext.Index() {
		return 1
	}
	return 0
}
func (chainDomain) CopyState(s domain.State) domain.State { return s }
func (chainDomain) NumActions() int                        { return 2 }
func (chainDomain) NumObservations() int                   { return 4 }
func (chainDomain) StateByIndex(i int) domain.State         { return idxState{i} }
func (chainDomain) NumStates() int                          { return 4 }
func (chainDomain) Reward(s domain.State, a domain.Action, sNext domain.State) float64 { return 0 }
func (chainDomain) Terminal(s domain.State, a domain.Action, sNext domain.State) bool   { return false }
func (chainDomain) TransitionProbability(s domain.State, a domain.Action, sNext domain.State) float64 {
	sf0, sf1 := s.Index()/2, s.Index()%2
	_ = sf1
	nf0, nf1 := sNext.Index()/2, sNext.Index()%2
	wantF0 := sf0
	if a.Index() == 1 {
		wantF0 = 1 - sf0
	}
	if nf0 != wantF0 {
		return 0
	}
	if nf1 != sf0 {
		return 0
	}
	return 1
}
func (chainDomain) StatePrior() []float64              { return []float64{1, 0, 0, 0} }
func (chainDomain) StateFeatureSizes() []int           { return []int{2, 2} }
func (chainDomain) ObservationFeatureSizes() []int     { return []int{2, 2} }
func (chainDomain) TrueTransitionParents(action, feature int) []int {
	if feature == 0 {
		return []int{0}
	}
	return []int{0}
}
func (chainDomain) TrueObservationParents(action, feature int) []int {
	return []int{feature}
}

func TestFactoredPriorCorrectTemplateMatchesTrueDynamics(t *testing.T) {
	dom := chainDomain{}
	p := NewFactored(dom, 12, 0, MatchCounts)

	// Action 0, feature 0 (self-loop): parent value 0 -> all mass on output 0.
	node := p.correct.TransitionNode(0, 0)
	if got := node.Count([]int{0}, 0); got < 12-1e-6 {
		t.Fatalf("TransitionNode(0,0).Count([0],0) = %v, want ~12", got)
	}
	if got := node.Count([]int{0}, 1); got > 1e-6 {
		t.Fatalf("TransitionNode(0,0).Count([0],1) = %v, want ~0", got)
	}

	// Action 1, feature 0 (flip): parent value 0 -> all mass on output 1.
	flipNode := p.correct.TransitionNode(1, 0)
	if got := flipNode.Count([]int{0}, 1); got < 12-1e-6 {
		t.Fatalf("TransitionNode(1,0).Count([0],1) = %v, want ~12", got)
	}
}

func TestFactoredPriorFullyConnectedIsUniformWhereUngrounded(t *testing.T) {
	dom := chainDomain{}
	p := NewFactored(dom, 8, 0, FullyConnected)

	// Feature 1's true parent is just [0], so the fully-connected template's
	// node for feature 1 (parents [0,1]) is "ungrounded" and must fall back
	// to a uniform row.
	node := p.fullyConnected.TransitionNode(0, 1)
	a := node.Count([]int{0, 0}, 0)
	b := node.Count([]int{0, 0}, 1)
	if a != b {
		t.Fatalf("ungrounded fully-connected row not uniform: %v vs %v", a, b)
	}
}

func TestFactoredPriorSampleStartsAtDomainStartState(t *testing.T) {
	rng := randutil.New("factored-prior-sample")
	dom := chainDomain{}
	p := NewFactored(dom, 10, 0, MatchCounts)

	st := p.Sample(rng)
	if st.DomainState().Index() != 0 {
		t.Fatalf("Sample() domain state = %d, want 0", st.DomainState().Index())
	}
}

func TestMutateFlipsExactlyOneEdge(t *testing.T) {
	rng := randutil.New("mutate-test")
	dom := chainDomain{}
	p := NewFactored(dom, 10, 0, MatchCounts)

	before := p.correct.Structure()
	after := p.Mutate(before, rng)

	diffs := 0
	for a := range before.TParents {
		for f := range before.TParents[a] {
			if !sameInts(before.TParents[a][f], after.TParents[a][f]) {
				diffs++
			}
		}
	}
	if diffs != 1 {
		t.Fatalf("Mutate changed %d transition nodes, want exactly 1", diffs)
	}
}
