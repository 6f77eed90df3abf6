package prior

import (
	"testing"

	"github.com/samkatt/fba-pomdp-go/domain"
	"github.com/samkatt/fba-pomdp-go/randutil"
)

// twoStateDomain is a minimal deterministic BADomain fixture: action 0 always
// moves state 0->1 and 1->0; action 1 is a self-loop. Used to check that the
// flat prior reproduces a domain's true dynamics exactly (noise=0).
type twoStateDomain struct{}

type idxState struct{ i int }

func (s idxState) Index() int { return s.i }

type idxAction struct{ i int }

func (a idxAction) Index() int { return a.i }

type idxObs struct{ i int }

func (o idxObs) Index() int { return o.i }

func (twoStateDomain) SampleStartState(rng domain.Source) domain.State { return idxState{0} }
func (twoStateDomain) Step(s domain.State, a domain.Action, rng domain.Source) domain.Step {
	return domain.Step{}
}
func (twoStateDomain) GenerateRandomAction(s domain.State, rng domain.Source) domain.Action {
	return idxAction{0}
}
func (twoStateDomain) LegalActions(s domain.State) []domain.Action {
	return []domain.Action{idxAction{0}, idxAction{1}}
}
func (twoStateDomain) ObservationProbability(o domain.Observation, a domain.Action, sNext domain.State) float64 {
	if o.Index() == sNext.Index() {
		return 1
	}
	return 0
}
func (twoStateDomain) CopyState(s domain.State) domain.State  { return s }
func (twoStateDomain) NumActions() int                        { return 2 }
func (twoStateDomain) NumObservations() int                    { return 2 }
func (twoStateDomain) StateByIndex(i int) domain.State         { return idxState{i} }
func (twoStateDomain) NumStates() int                          { return 2 }
func (twoStateDomain) Reward(s domain.State, a domain.Action, sNext domain.State) float64 {
	return 0
}
func (twoStateDomain) Terminal(s domain.State, a domain.Action, sNext domain.State) bool {
	return false
}
func (twoStateDomain) TransitionProbability(s domain.State, a domain.Action, sNext domain.State) float64 {
	if a.Index() == 1 {
		if s.Index() == sNext.Index() {
			return 1
		}
		return 0
	}
	if s.Index() != sNext.Index() {
		return 1
	}
	return 0
}

func TestFlatPriorMatchesTrueDynamicsWithNoNoise(t *testing.T) {
	rng := randutil.New("prior-test")
	dom := twoStateDomain{}
	p := NewFlat(dom, 10, 0, rng)

	// Action 0 always flips state, action 1 always self-loops: with zero
	// noise the count template must reproduce that exactly.
	if got := p.model.CountT(0, 0, 1); got != 10 {
		t.Fatalf("CountT(0,0,1) = %v, want 10", got)
	}
	if got := p.model.CountT(0, 0, 0); got != 0 {
		t.Fatalf("CountT(0,0,0) = %v, want 0", got)
	}
	if got := p.model.CountT(0, 1, 0); got != 10 {
		t.Fatalf("CountT(0,1,0) = %v, want 10", got)
	}

	st := p.Sample(rng)
	if st.DomainState().Index() != 0 {
		t.Fatalf("Sample() domain state = %d, want 0", st.DomainState().Index())
	}
}

func TestFlatPriorRowsSumToCountsTotal(t *testing.T) {
	rng := randutil.New("prior-test-2")
	dom := twoStateDomain{}
	const total = 7.0
	p := NewFlat(dom, total, 0.1, rng)

	for si := 0; si < dom.NumStates(); si++ {
		for ai := 0; ai < dom.NumActions(); ai++ {
			sum := 0.0
			for sNext := 0; sNext < dom.NumStates(); sNext++ {
				sum += p.model.CountT(si, ai, sNext)
			}
			if sum < total-1e-9 || sum > total+1e-9 {
				t.Fatalf("T row (%d,%d) sums to %v, want %v", si, ai, sum, total)
			}
		}
	}
}

func TestNoisedProbabilityBlendsTowardUniform(t *testing.T) {
	got := noisedProbability(1.0, 0.5, 2)
	want := 0.75 // 0.5*1 + 0.5*0.5
	if got < want-1e-9 || got > want+1e-9 {
		t.Fatalf("noisedProbability = %v, want %v", got, want)
	}
}

func TestNormalizeToScalesRowSum(t *testing.T) {
	row := []float64{1, 1, 2}
	normalizeTo(row, 8)
	sum := row[0] + row[1] + row[2]
	if sum < 8-1e-9 || sum > 8+1e-9 {
		t.Fatalf("row sums to %v, want 8", sum)
	}
}
