// Package episode orchestrates one planner/belief/environment interaction
// loop and accumulates its discounted return (spec.md §4.10).
package episode

import "github.com/samkatt/fba-pomdp-go/domain"

// Interaction is one agent-environment exchange: the action taken and the
// observation it produced.
type Interaction struct {
	Action      domain.Action
	Observation domain.Observation
}

// History is the sequence of (action, observation) pairs seen so far in an
// episode. It satisfies planner.History (Len() int) so the planner can
// compute its depth budget without this package depending on planner.
type History struct {
	interactions []Interaction
}

// NewHistory returns an empty history.
func NewHistory() *History { return &History{} }

// Add appends one interaction.
func (h *History) Add(a domain.Action, o domain.Observation) {
	h.interactions = append(h.interactions, Interaction{Action: a, Observation: o})
}

// Len returns the number of interactions recorded.
func (h *History) Len() int { return len(h.interactions) }

// At returns the i'th interaction.
func (h *History) At(i int) Interaction { return h.interactions[i] }
