package dbn

import "github.com/samkatt/fba-pomdp-go/randutil"

// Structure is the two parent-list matrices of a Model, without counts:
// TParents[a][f] and OParents[a][f] list the (sorted, unique) parent
// feature indices of the transition/observation node for action a and
// output feature f (spec.md §3, §4.4).
type Structure struct {
	TParents [][][]int // [action][feature] -> parents
	OParents [][][]int
}

// Clone returns a deep copy of s.
func (s Structure) Clone() Structure {
	clone := Structure{
		TParents: make([][][]int, len(s.TParents)),
		OParents: make([][][]int, len(s.OParents)),
	}
	for a := range s.TParents {
		clone.TParents[a] = make([][]int, len(s.TParents[a]))
		for f := range s.TParents[a] {
			clone.TParents[a][f] = append([]int(nil), s.TParents[a][f]...)
		}
	}
	for a := range s.OParents {
		clone.OParents[a] = make([][]int, len(s.OParents[a]))
		for f := range s.OParents[a] {
			clone.OParents[a][f] = append([]int(nil), s.OParents[a][f]...)
		}
	}
	return clone
}

// Model is the factored count model: one transition and one observation
// node per (action, output-feature) pair.
type Model struct {
	NumActions int

	stateFeatureSizes []int // F_S
	obsFeatureSizes   []int // F_O

	tNodes [][]*Node // [action][state feature]
	oNodes [][]*Node // [action][observation feature]
}

// NewModel allocates a Model whose nodes are all zeroed, one per (action,
// feature) pair, with the given parent structure.
func NewModel(numActions int, stateFeatureSizes, obsFeatureSizes []int, structure Structure) *Model {
	m := &Model{
		NumActions:        numActions,
		stateFeatureSizes: stateFeatureSizes,
		obsFeatureSizes:   obsFeatureSizes,
		tNodes:            make([][]*Node, numActions),
		oNodes:            make([][]*Node, numActions),
	}
	for a := 0; a < numActions; a++ {
		m.tNodes[a] = make([]*Node, len(stateFeatureSizes))
		for f := range stateFeatureSizes {
			m.tNodes[a][f] = NewNode(stateFeatureSizes, structure.TParents[a][f], stateFeatureSizes[f])
		}
		m.oNodes[a] = make([]*Node, len(obsFeatureSizes))
		for f := range obsFeatureSizes {
			m.oNodes[a][f] = NewNode(stateFeatureSizes, structure.OParents[a][f], obsFeatureSizes[f])
		}
	}
	return m
}

// NewModelFromNodes assembles a Model directly from pre-built nodes (one per
// (action, feature) pair), used by breeding/marginalization to hand back an
// already-computed set of nodes rather than allocating zeroed ones (spec.md
// §4.8's breeding operator).
func NewModelFromNodes(numActions int, stateFeatureSizes, obsFeatureSizes []int, tNodes, oNodes [][]*Node) *Model {
	return &Model{
		NumActions:        numActions,
		stateFeatureSizes: stateFeatureSizes,
		obsFeatureSizes:   obsFeatureSizes,
		tNodes:            tNodes,
		oNodes:            oNodes,
	}
}

// TransitionNode returns the transition node for (action, feature).
func (m *Model) TransitionNode(action, feature int) *Node { return m.tNodes[action][feature] }

// ObservationNode returns the observation node for (action, feature).
func (m *Model) ObservationNode(action, feature int) *Node { return m.oNodes[action][feature] }

// ResetTransitionNode reallocates a zeroed transition node for (action,
// feature) over the given parents.
func (m *Model) ResetTransitionNode(action, feature int, parents []int) {
	m.tNodes[action][feature] = NewNode(m.stateFeatureSizes, parents, m.stateFeatureSizes[feature])
}

// ResetObservationNode reallocates a zeroed observation node for (action,
// feature) over the given parents.
func (m *Model) ResetObservationNode(action, feature int, parents []int) {
	m.oNodes[action][feature] = NewNode(m.stateFeatureSizes, parents, m.obsFeatureSizes[feature])
}

// Share returns a Model that aliases every node's backing CPT array via
// copy-on-write.
func (m *Model) Share() *Model {
	clone := &Model{
		NumActions:        m.NumActions,
		stateFeatureSizes: m.stateFeatureSizes,
		obsFeatureSizes:   m.obsFeatureSizes,
		tNodes:            make([][]*Node, m.NumActions),
		oNodes:            make([][]*Node, m.NumActions),
	}
	for a := 0; a < m.NumActions; a++ {
		clone.tNodes[a] = make([]*Node, len(m.tNodes[a]))
		for f, n := range m.tNodes[a] {
			clone.tNodes[a][f] = n.Share()
		}
		clone.oNodes[a] = make([]*Node, len(m.oNodes[a]))
		for f, n := range m.oNodes[a] {
			clone.oNodes[a][f] = n.Share()
		}
	}
	return clone
}

// CopyT returns a deep copy of the transition half of m.
func (m *Model) CopyT() [][]*Node {
	out := make([][]*Node, m.NumActions)
	for a := 0; a < m.NumActions; a++ {
		out[a] = make([]*Node, len(m.tNodes[a]))
		for f, n := range m.tNodes[a] {
			out[a][f] = n.Copy()
		}
	}
	return out
}

// CopyO returns a deep copy of the observation half of m.
func (m *Model) CopyO() [][]*Node {
	out := make([][]*Node, m.NumActions)
	for a := 0; a < m.NumActions; a++ {
		out[a] = make([]*Node, len(m.oNodes[a]))
		for f, n := range m.oNodes[a] {
			out[a][f] = n.Copy()
		}
	}
	return out
}

// Structure extracts the parent-list matrices of m.
func (m *Model) Structure() Structure {
	s := Structure{
		TParents: make([][][]int, m.NumActions),
		OParents: make([][][]int, m.NumActions),
	}
	for a := 0; a < m.NumActions; a++ {
		s.TParents[a] = make([][]int, len(m.tNodes[a]))
		for f, n := range m.tNodes[a] {
			s.TParents[a][f] = append([]int(nil), n.Parents()...)
		}
		s.OParents[a] = make([][]int, len(m.oNodes[a]))
		for f, n := range m.oNodes[a] {
			s.OParents[a][f] = append([]int(nil), n.Parents()...)
		}
	}
	return s
}

// SampleStateIndex samples a next-state index: for each state feature it
// samples from that feature's transition node given the parent subset of
// s's feature vector, and returns the assembled next-state feature vector;
// callers project it back to a flat index (spec.md §4.4).
func (m *Model) SampleStateIndex(sFeatures []int, action int, method SampleMethod, rng *randutil.Rand) []int {
	next := make([]int, len(m.stateFeatureSizes))
	for f, node := range m.tNodes[action] {
		next[f] = node.SampleWithMethod(sFeatures, method, rng)
	}
	return next
}

// SampleObservationIndex samples a next-observation feature vector given
// the next-state feature vector.
func (m *Model) SampleObservationIndex(sNextFeatures []int, action int, method SampleMethod, rng *randutil.Rand) []int {
	obs := make([]int, len(m.obsFeatureSizes))
	for f, node := range m.oNodes[action] {
		obs[f] = node.SampleWithMethod(sNextFeatures, method, rng)
	}
	return obs
}

// ObservationProbability returns P(o | a, s') as the product of each
// observation feature's marginal probability.
func (m *Model) ObservationProbability(oFeatures []int, action int, sNextFeatures []int) float64 {
	p := 1.0
	for f, node := range m.oNodes[action] {
		p *= node.Expectation(sNextFeatures)[oFeatures[f]]
	}
	return p
}

// FlipRandomEdge chooses a feature index uniformly from [0, maxFeature),
// removing it from parentList if present, or inserting it in sorted order
// otherwise (spec.md §4.4).
func FlipRandomEdge(parentList []int, maxFeature int, rng *randutil.Rand) []int {
	feature := rng.Intn(maxFeature)

	for i, p := range parentList {
		if p == feature {
			out := make([]int, 0, len(parentList)-1)
			out = append(out, parentList[:i]...)
			out = append(out, parentList[i+1:]...)
			return out
		}
	}

	out := make([]int, 0, len(parentList)+1)
	inserted := false
	for _, p := range parentList {
		if !inserted && p > feature {
			out = append(out, feature)
			inserted = true
		}
		out = append(out, p)
	}
	if !inserted {
		out = append(out, feature)
	}
	return out
}
