package planner

import (
	"github.com/samkatt/fba-pomdp-go/belief"
	"github.com/samkatt/fba-pomdp-go/domain"
	"github.com/samkatt/fba-pomdp-go/randutil"
)

// Thompson wraps PO-UCT with a point-estimate belief seeded from one
// sample of the outer belief, so every simulation runs against a single
// sampled model rather than resampling per simulation (spec.md §4.9,
// grounded on TSPlanner in the original).
type Thompson struct {
	inner *POUCT
}

// NewThompson wraps inner, an already-constructed PO-UCT planner, with
// the Thompson-sampling front end.
func NewThompson(inner *POUCT) *Thompson {
	return &Thompson{inner: inner}
}

func (t *Thompson) SelectAction(dom domain.FactoredBADomain, bel belief.Belief, history History, rng *randutil.Rand) domain.Action {
	sampled := belief.NewPointEstimateFrom(bel.Sample(rng))
	return t.inner.SelectAction(dom, sampled, history, rng)
}

// Stats returns the inner PO-UCT planner's statistics from the most recent
// SelectAction call.
func (t *Thompson) Stats() Stats { return t.inner.Stats() }
