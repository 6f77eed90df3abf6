package planner

import (
	"github.com/samkatt/fba-pomdp-go/belief"
	"github.com/samkatt/fba-pomdp-go/domain"
	"github.com/samkatt/fba-pomdp-go/randutil"
)

// Random picks a uniformly random legal action, ignoring the belief beyond
// using one sample to determine the domain state's legal actions
// (spec.md §4.9, grounded on RandomPlanner in the original).
type Random struct{}

// NewRandom returns a Random planner.
func NewRandom() *Random { return &Random{} }

func (Random) SelectAction(dom domain.FactoredBADomain, bel belief.Belief, history History, rng *randutil.Rand) domain.Action {
	s := bel.Sample(rng).DomainState()
	actions := dom.LegalActions(s)
	return actions[rng.Intn(len(actions))]
}
