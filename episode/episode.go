package episode

import (
	"fmt"

	"github.com/samkatt/fba-pomdp-go/belief"
	"github.com/samkatt/fba-pomdp-go/domain"
	"github.com/samkatt/fba-pomdp-go/planner"
	"github.com/samkatt/fba-pomdp-go/randutil"
)

// Result is the outcome of one episode: its discounted return, the number
// of real steps taken, and the total planning simulations spent across
// every step (spec.md §4.10, §6's result-file columns).
type Result struct {
	Return      float64
	Length      int
	Simulations int
}

// statsReporter is satisfied by planners that expose per-call simulation
// counts (PO-UCT and its Thompson/abstraction wrappers); Random does not,
// and simply contributes 0.
type statsReporter interface {
	Stats() planner.Stats
}

// Run drives one episode to completion: select an action, step the true
// domain, fold the resulting observation into the belief unless the
// episode just ended, and repeat until horizon or termination (spec.md
// §4.10). dom plays both roles the original splits across "simulator" and
// "environment": the real dynamics sampling real transitions, and the
// contract the planner/belief use to interpret them.
func Run(p planner.Planner, bel belief.Belief, dom domain.FactoredBADomain, horizon int, discount float64, rng *randutil.Rand) (Result, error) {
	if horizon <= 0 {
		return Result{}, fmt.Errorf("episode: horizon must be greater than 0, got %d", horizon)
	}
	if discount < 0 || discount > 1 {
		return Result{}, fmt.Errorf("episode: discount must be in [0,1], got %v", discount)
	}

	s := dom.SampleStartState(rng)
	hist := NewHistory()

	var ret float64
	curDiscount := 1.0
	simulations := 0

	t := 0
	for ; t < horizon; t++ {
		a := p.SelectAction(dom, bel, hist, rng)
		if sr, ok := p.(statsReporter); ok {
			simulations += sr.Stats().Simulations
		}

		step := dom.Step(s, a, rng)

		ret += curDiscount * step.Reward
		curDiscount *= discount

		if !step.Terminal {
			bel.Update(a, step.Observation, dom, rng)
		}

		hist.Add(a, step.Observation)
		s = step.NextState

		if step.Terminal {
			t++
			break
		}
	}

	return Result{Return: ret, Length: t, Simulations: simulations}, nil
}
