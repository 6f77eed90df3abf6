package planner

import (
	"github.com/samkatt/fba-pomdp-go/belief"
	"github.com/samkatt/fba-pomdp-go/domain"
	"github.com/samkatt/fba-pomdp-go/randutil"
)

// Planner is the contract every strategy satisfies: pick one action given
// the current belief and the episode's history so far (spec.md §4.9).
type Planner interface {
	SelectAction(dom domain.FactoredBADomain, bel belief.Belief, history History, rng *randutil.Rand) domain.Action
}
