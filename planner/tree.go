// Package planner implements the PO-UCT Monte-Carlo tree search planner and
// its Thompson-sampled and abstraction variants, plus a random baseline
// (spec.md §4.9).
package planner

import "github.com/samkatt/fba-pomdp-go/domain"

// ChanceNode is reached after selecting an action: it tracks how often that
// action has been taken at its parent and the mean return observed, and
// maps the observation index that resulted to the ActionNode it leads to.
type ChanceNode struct {
	Action   domain.Action
	visits   int
	q        float64
	children map[int]*ActionNode
}

func newChanceNode(a domain.Action) *ChanceNode {
	return &ChanceNode{Action: a, children: make(map[int]*ActionNode)}
}

func (n *ChanceNode) addVisit(r float64) {
	n.visits++
	n.q += (r - n.q) / float64(n.visits)
}

func (n *ChanceNode) child(o int) (*ActionNode, bool) {
	c, ok := n.children[o]
	return c, ok
}

func (n *ChanceNode) addChild(o int, child *ActionNode) { n.children[o] = child }

// ActionNode ("history node") is where the tree branches over the legal
// actions in a state. Every real selectAction call allocates a fresh tree;
// Go's GC reclaims it on return (the teacher's own code never does manual
// tree teardown either), so unlike the original there is no freeTree step.
type ActionNode struct {
	visits   int
	children []*ChanceNode
}

func newActionNode(actions []domain.Action) *ActionNode {
	children := make([]*ChanceNode, len(actions))
	for i, a := range actions {
		children[i] = newChanceNode(a)
	}
	return &ActionNode{children: children}
}

func (n *ActionNode) addVisit() { n.visits++ }
