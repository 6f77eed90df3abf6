package tiger

import (
	"math"
	"testing"

	"github.com/samkatt/fba-pomdp-go/domain"
	"github.com/samkatt/fba-pomdp-go/randutil"
)

func TestOpeningCorrectDoorPaysOffAndTerminates(t *testing.T) {
	rng := randutil.New("tiger-open-correct")
	dom := New(0)

	s := domain.IndexHandle(Left)
	stepped := dom.Step(s, OpenRight, rng)
	if stepped.Reward != openCorrectReward {
		t.Fatalf("reward = %v, want %v", stepped.Reward, openCorrectReward)
	}
	if !stepped.Terminal {
		t.Fatal("Terminal = false, want true")
	}
}

func TestOpeningWrongDoorPunishesAndTerminates(t *testing.T) {
	rng := randutil.New("tiger-open-wrong")
	dom := New(0)

	s := domain.IndexHandle(Left)
	stepped := dom.Step(s, OpenLeft, rng)
	if stepped.Reward != openWrongReward {
		t.Fatalf("reward = %v, want %v", stepped.Reward, openWrongReward)
	}
	if !stepped.Terminal {
		t.Fatal("Terminal = false, want true")
	}
}

func TestListenNeverTerminatesAndCostsOne(t *testing.T) {
	rng := randutil.New("tiger-listen")
	dom := New(0)

	s := domain.IndexHandle(Left)
	stepped := dom.Step(s, Listen, rng)
	if stepped.Terminal {
		t.Fatal("Terminal = true, want false")
	}
	if stepped.Reward != listenReward {
		t.Fatalf("reward = %v, want %v", stepped.Reward, listenReward)
	}
	if stepped.NextState.Index() != s.Index() {
		t.Fatalf("NextState = %d, want %d (listen never moves the tiger)", stepped.NextState.Index(), s.Index())
	}
}

// TestListenPosteriorMatchesScenario2 directly checks spec.md §8 scenario
// 2: a belief initialized to perfect uniform, after a single listen
// returning "hear-left", must have posterior P(tiger-left|hear-left) =
// 0.85 by Bayes' rule with a uniform prior and the 0.85/0.15 likelihood.
func TestListenPosteriorMatchesScenario2(t *testing.T) {
	dom := New(0)
	prior := 0.5

	pHearLeftGivenLeft := dom.ObservationProbability(domain.IndexHandle(Left), Listen, domain.IndexHandle(Left))
	pHearLeftGivenRight := dom.ObservationProbability(domain.IndexHandle(Left), Listen, domain.IndexHandle(Right))

	num := pHearLeftGivenLeft * prior
	denom := num + pHearLeftGivenRight*prior
	posterior := num / denom

	if math.Abs(posterior-listenAccuracy) > 1e-9 {
		t.Fatalf("P(tiger-left|hear-left) = %v, want %v", posterior, listenAccuracy)
	}
}

// TestIrrelevantFeaturesDoNotAffectReward is spec.md §8 scenario 3: opening
// a door returns +10/-100 identically regardless of irrelevant features.
func TestIrrelevantFeaturesDoNotAffectReward(t *testing.T) {
	rng := randutil.New("tiger-factored")
	k := 3
	dom := New(k)

	if dom.NumStates() != 2*(1<<k) {
		t.Fatalf("NumStates() = %d, want %d", dom.NumStates(), 2*(1<<k))
	}

	for i := 0; i < dom.NumStates(); i++ {
		s := domain.IndexHandle(i)
		side := i >> k

		wantOpenLeft := openCorrectReward
		if side == Left {
			wantOpenLeft = openWrongReward
		}
		if got := dom.Step(s, OpenLeft, rng).Reward; got != float64(wantOpenLeft) {
			t.Fatalf("state %d: OpenLeft reward = %v, want %v", i, got, wantOpenLeft)
		}

		wantOpenRight := openCorrectReward
		if side == Right {
			wantOpenRight = openWrongReward
		}
		if got := dom.Step(s, OpenRight, rng).Reward; got != float64(wantOpenRight) {
			t.Fatalf("state %d: OpenRight reward = %v, want %v", i, got, wantOpenRight)
		}
	}
}

// TestListenLeavesEveryFeatureInvariant is spec.md §8 scenario 3's
// transition-identity requirement.
func TestListenLeavesEveryFeatureInvariant(t *testing.T) {
	dom := New(3)

	for i := 0; i < dom.NumStates(); i++ {
		s := domain.IndexHandle(i)
		if p := dom.TransitionProbability(s, Listen, s); p != 1 {
			t.Fatalf("state %d: TransitionProbability(s,listen,s) = %v, want 1", i, p)
		}
	}
}
