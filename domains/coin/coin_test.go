package coin

import (
	"testing"

	"github.com/samkatt/fba-pomdp-go/domain"
	"github.com/samkatt/fba-pomdp-go/randutil"
)

func TestStepFlipsOnlyOnFlipAction(t *testing.T) {
	rng := randutil.New("coin-step")
	c := New()

	stepped := c.Step(domain.IndexHandle(0), Stay, rng)
	if stepped.NextState.Index() != 0 {
		t.Fatalf("Stay from 0: next = %d, want 0", stepped.NextState.Index())
	}

	stepped = c.Step(domain.IndexHandle(0), Flip, rng)
	if stepped.NextState.Index() != 1 {
		t.Fatalf("Flip from 0: next = %d, want 1", stepped.NextState.Index())
	}
}

func TestStepRewardIsPreTransitionState(t *testing.T) {
	rng := randutil.New("coin-reward")
	c := New()

	stepped := c.Step(domain.IndexHandle(1), Flip, rng)
	if stepped.Reward != 1 {
		t.Fatalf("reward = %v, want 1 (pre-transition state index)", stepped.Reward)
	}
}

func TestObservationIsNoiselessCopyOfNextState(t *testing.T) {
	rng := randutil.New("coin-obs")
	c := New()

	for _, a := range []domain.Action{Stay, Flip} {
		stepped := c.Step(domain.IndexHandle(0), a, rng)
		if stepped.Observation.Index() != stepped.NextState.Index() {
			t.Fatalf("action %v: observation = %d, next state = %d, want equal",
				a.Index(), stepped.Observation.Index(), stepped.NextState.Index())
		}
	}
}

func TestNeverTerminal(t *testing.T) {
	rng := randutil.New("coin-terminal")
	c := New()
	for _, a := range []domain.Action{Stay, Flip} {
		if c.Step(domain.IndexHandle(0), a, rng).Terminal {
			t.Fatalf("action %v: Terminal = true, want false (coin domain never ends)", a.Index())
		}
	}
}
