package planner

import (
	"github.com/samkatt/fba-pomdp-go/belief"
	"github.com/samkatt/fba-pomdp-go/domain"
	"github.com/samkatt/fba-pomdp-go/randutil"
)

// Abstraction is structurally identical to PO-UCT: spec.md §4.9 describes
// it as "same structure, domain-specific extension" where the sampled
// particle is asked to use a reduced feature set when sampling transitions
// and observations. In the original implementation that reduction lives
// entirely inside the sampled state's own sampling methods (the abstract
// factored particle), not in the tree-search code itself — and spec.md's
// own Open Questions note the original's abstract-particle sampling
// semantics were never fully pinned down (`setAbstraction` taking two
// different slice types across source files, a "TODO change for
// abstraction" left on its sampling methods). This module stores
// AbstractionK (spec.md §6's `abstraction_k`) on the planner; SelectAction
// does not pass it to the belief or the sampled particles, and reuses
// PO-UCT's tree walk unchanged.
type Abstraction struct {
	inner        *POUCT
	AbstractionK int
}

// NewAbstraction wraps inner with the abstraction-tier marker k.
func NewAbstraction(inner *POUCT, k int) *Abstraction {
	return &Abstraction{inner: inner, AbstractionK: k}
}

func (a *Abstraction) SelectAction(dom domain.FactoredBADomain, bel belief.Belief, history History, rng *randutil.Rand) domain.Action {
	return a.inner.SelectAction(dom, bel, history, rng)
}

// Stats returns the inner PO-UCT planner's statistics from the most recent
// SelectAction call.
func (a *Abstraction) Stats() Stats { return a.inner.Stats() }
