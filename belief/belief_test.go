package belief

import (
	"strings"
	"testing"

	"github.com/samkatt/fba-pomdp-go/bastate"
	"github.com/samkatt/fba-pomdp-go/domain"
	"github.com/samkatt/fba-pomdp-go/prior"
	"github.com/samkatt/fba-pomdp-go/randutil"
)

// flipDomain is a minimal 1-feature, 2-state factored fixture: action 0
// holds the state, action 1 flips it, and the observation always equals
// the next state (noiseless). Small enough to drive every belief strategy
// through deterministic, checkable transitions.
type flipDomain struct{}

func (flipDomain) SampleStartState(rng domain.Source) domain.State { return domain.IndexHandle(0) }
func (flipDomain) Step(s domain.State, a domain.Action, rng domain.Source) domain.Step {
	return domain.Step{}
}
func (flipDomain) GenerateRandomAction(s domain.State, rng domain.Source) domain.Action {
	return domain.IndexHandle(0)
}
func (flipDomain) LegalActions(s domain.State) []domain.Action {
	return []domain.Action{domain.IndexHandle(0), domain.IndexHandle(1)}
}
func (flipDomain) ObservationProbability(o domain.Observation, a domain.Action, sNext domain.State) float64 {
	if o.Index() == sNext.Index() {
		return 1
	}
	return 0
}
func (flipDomain) CopyState(s domain.State) domain.State { return s }
func (flipDomain) NumActions() int                       { return 2 }
func (flipDomain) NumObservations() int                  { return 2 }
func (flipDomain) StateByIndex(i int) domain.State       { return domain.IndexHandle(i) }
func (flipDomain) NumStates() int                        { return 2 }
func (flipDomain) Reward(s domain.State, a domain.Action, sNext domain.State) float64 { return 0 }
func (flipDomain) Terminal(s domain.State, a domain.Action, sNext domain.State) bool   { return false }
func (flipDomain) TransitionProbability(s domain.State, a domain.Action, sNext domain.State) float64 {
	want := s.Index()
	if a.Index() == 1 {
		want = 1 - want
	}
	if sNext.Index() == want {
		return 1
	}
	return 0
}
func (flipDomain) StatePrior() []float64          { return []float64{1, 0} }
func (flipDomain) StateFeatureSizes() []int       { return []int{2} }
func (flipDomain) ObservationFeatureSizes() []int { return []int{2} }
func (flipDomain) TrueTransitionParents(action, feature int) []int   { return []int{0} }
func (flipDomain) TrueObservationParents(action, feature int) []int  { return []int{0} }

func newFlipPrior() *prior.Factored {
	return prior.NewFactored(flipDomain{}, 12, 0, prior.MatchCounts)
}

func TestPointEstimateFollowsDeterministicDynamicsAndLearnsCounts(t *testing.T) {
	rng := randutil.New("point-estimate")
	dom := flipDomain{}
	pri := newFlipPrior()
	b := NewPointEstimate(pri, rng)

	before := b.particle.(*bastate.Factored).Model.TransitionNode(1, 0).Count([]int{0}, 1)

	b.Update(domain.IndexHandle(1), domain.IndexHandle(1), dom, rng)

	if got := b.Sample(rng).DomainState().Index(); got != 1 {
		t.Fatalf("after flip action, domain state = %d, want 1", got)
	}
	after := b.particle.(*bastate.Factored).Model.TransitionNode(1, 0).Count([]int{0}, 1)
	if after <= before {
		t.Fatalf("TransitionNode(1,0).Count([0],1) did not increase: before=%v after=%v", before, after)
	}
}

func TestRejectionSamplingSingleParticleBehavesLikePointEstimate(t *testing.T) {
	rng := randutil.New("rejection-size-one")
	dom := flipDomain{}
	pri := newFlipPrior()
	b := NewRejectionSampling(pri, 1, rng)

	b.Update(domain.IndexHandle(1), domain.IndexHandle(1), dom, rng)

	if b.particles.Len() != 1 {
		t.Fatalf("particle count = %d, want 1", b.particles.Len())
	}
	if got := b.Sample(rng).DomainState().Index(); got != 1 {
		t.Fatalf("domain state = %d, want 1", got)
	}
}

func TestImportanceSamplingResamplePreservesSize(t *testing.T) {
	rng := randutil.New("importance-size")
	dom := flipDomain{}
	pri := newFlipPrior()
	b := NewImportanceSampling(pri, 5, rng)

	b.Update(domain.IndexHandle(0), domain.IndexHandle(0), dom, rng)

	if b.particles.Len() != 5 {
		t.Fatalf("particle count = %d, want 5", b.particles.Len())
	}
}

func TestImportanceSamplingPanicsOnImpossibleObservation(t *testing.T) {
	rng := randutil.New("importance-degenerate")
	dom := flipDomain{}
	pri := newFlipPrior()
	b := NewImportanceSampling(pri, 3, rng)

	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected a BeliefDegenerate panic, got none")
		}
		if !strings.Contains(r.(string), "BeliefDegenerate") {
			t.Fatalf("panic message = %q, want it to mention BeliefDegenerate", r)
		}
	}()

	// Action 0 holds the state at 0 deterministically, so observation 1 has
	// zero probability under every particle: every weight collapses to 0.
	b.Update(domain.IndexHandle(0), domain.IndexHandle(1), dom, rng)
}

func TestRejectionSamplingResetDomainStateDistribution(t *testing.T) {
	rng := randutil.New("rejection-reset")
	dom := flipDomain{}
	pri := newFlipPrior()
	b := NewRejectionSampling(pri, 4, rng)

	b.ResetDomainStateDistribution(dom, rng)
	if b.particles.Len() != 4 {
		t.Fatalf("particle count = %d, want 4", b.particles.Len())
	}
	for i := 0; i < b.particles.Len(); i++ {
		if got := b.particles.At(i).DomainState().Index(); got != 0 {
			t.Fatalf("particle %d domain state = %d, want 0 (flipDomain always starts at 0)", i, got)
		}
	}
}

func TestReinvigorationBreedsWithoutPanicking(t *testing.T) {
	rng := randutil.New("reinvigoration")
	dom := flipDomain{}
	pri := newFlipPrior()
	b := NewReinvigoration(pri, 6, 2, rng)

	b.Update(domain.IndexHandle(1), domain.IndexHandle(1), dom, rng)

	if b.main.Len() != 6 {
		t.Fatalf("main filter size = %d, want 6", b.main.Len())
	}
}

func TestIncubatorUpdateKeepsFilterSizes(t *testing.T) {
	rng := randutil.New("incubator")
	dom := flipDomain{}
	pri := newFlipPrior()
	b := NewIncubator(pri, 6, 2, 0.99, rng)

	b.Update(domain.IndexHandle(1), domain.IndexHandle(1), dom, rng)

	if b.main.Len() != 6 {
		t.Fatalf("main filter size = %d, want 6", b.main.Len())
	}
	if b.shadow.Len() != 6 {
		t.Fatalf("shadow filter size = %d, want 6", b.shadow.Len())
	}
}

func TestMHNIPSKeepsParticleCountAcrossUpdates(t *testing.T) {
	rng := randutil.New("mhnips")
	dom := flipDomain{}
	pri := newFlipPrior()
	b := NewMHNIPS(pri, 4, 1e-9, rng)

	// Flipping from state 0 visits 1, 0, 1, ...; observe each state.
	for i := 0; i < 5; i++ {
		b.Update(domain.IndexHandle(1), domain.IndexHandle((i+1)%2), dom, rng)
	}
	if b.particles.Len() != 4 {
		t.Fatalf("particle count = %d, want 4", b.particles.Len())
	}
}

func TestMHWithinGibbsKeepsParticleCountAcrossUpdates(t *testing.T) {
	rng := randutil.New("mhgibbs")
	dom := flipDomain{}
	pri := newFlipPrior()
	b := NewMHWithinGibbs(pri, 4, 1e-9, GibbsRejection, rng)

	// Flipping from state 0 visits 1, 0, 1, ...; observe each state.
	for i := 0; i < 5; i++ {
		b.Update(domain.IndexHandle(1), domain.IndexHandle((i+1)%2), dom, rng)
	}
	if b.particles.Len() != 4 {
		t.Fatalf("particle count = %d, want 4", b.particles.Len())
	}
}

func TestCheatingReinvigorationKeepsMainFilterSizeAcrossUpdates(t *testing.T) {
	rng := randutil.New("cheating")
	dom := flipDomain{}
	pri := newFlipPrior()
	b := NewCheatingReinvigoration(pri, 4, 2, 1e-9, rng)

	// Flipping from state 0 visits 1, 0, 1, ...; observe each state.
	for i := 0; i < 5; i++ {
		b.Update(domain.IndexHandle(1), domain.IndexHandle((i+1)%2), dom, rng)
	}
	if b.main.Len() != 4 {
		t.Fatalf("main filter size = %d, want 4", b.main.Len())
	}
}

func TestNestedReweighsByRejectionAttempts(t *testing.T) {
	rng := randutil.New("nested")
	dom := flipDomain{}
	pri := newFlipPrior()
	b := NewNested(pri, dom, 3, 2, rng)

	b.Update(domain.IndexHandle(1), domain.IndexHandle(1), dom, rng)

	if b.top.Len() != 3 {
		t.Fatalf("top filter size = %d, want 3", b.top.Len())
	}
	total := 0.0
	for i := 0; i < b.top.Len(); i++ {
		_, w := b.top.Particle(i)
		total += w
	}
	if total < 0.999 || total > 1.001 {
		t.Fatalf("top weights sum to %v, want ~1 (Update normalizes)", total)
	}
}
