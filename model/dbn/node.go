// Package dbn implements the factored (Dynamic Bayesian Network) count
// model used by the FBA-POMDP: one Dirichlet node per (action,
// output-feature) pair, conditioned on a chosen parent subset of the
// input feature vector, plus structure manipulation (marginalize-out,
// parent-flip, BD-score) (spec.md §3, §4.4).
package dbn

import "github.com/samkatt/fba-pomdp-go/randutil"

// cowCounts is a copy-on-write backing array for a Node's CPT, mirroring
// model/flat's cowTable: several Nodes (one per particle sharing a prior
// template) can alias the same slice until one of them mutates it.
type cowCounts struct {
	data   []float64
	shared *int
}

func newCowCounts(data []float64) *cowCounts { return &cowCounts{data: data} }

func (c *cowCounts) share() *cowCounts {
	if c.shared == nil {
		n := 2
		c.shared = &n
	} else {
		*c.shared++
	}
	return &cowCounts{data: c.data, shared: c.shared}
}

func (c *cowCounts) own() {
	if c.shared == nil {
		return
	}
	private := make([]float64, len(c.data))
	copy(private, c.data)
	c.data = private
	*c.shared--
	c.shared = nil
}

func (c *cowCounts) clone() *cowCounts {
	private := make([]float64, len(c.data))
	copy(private, c.data)
	return newCowCounts(private)
}

// Node is one Dirichlet-CPT node of the DBN: a Dirichlet distribution over
// OutputSize outcomes, conditioned on every configuration of Parents.
type Node struct {
	parents     []int // sorted, unique indices into the graph's feature-size vector
	parentSizes []int // graph feature sizes restricted to parents
	outputSize  int
	graphSizes  []int // the full graph's feature-size vector, needed by MarginalizeOut

	cpts *cowCounts // length Product(parentSizes) * outputSize
}

// NewNode allocates a zeroed node over the given (sorted, unique) parents
// drawn from a graph whose feature sizes are graphSizes, with the stated
// output cardinality.
func NewNode(graphSizes []int, parents []int, outputSize int) *Node {
	if len(parents) > len(graphSizes) {
		panic("dbn: node cannot have more parents than graph features")
	}
	parentSizes := make([]int, len(parents))
	p := 1
	for i, par := range parents {
		parentSizes[i] = graphSizes[par]
		p *= parentSizes[i]
	}
	return &Node{
		parents:     append([]int(nil), parents...),
		parentSizes: parentSizes,
		outputSize:  outputSize,
		graphSizes:  graphSizes,
		cpts:        newCowCounts(make([]float64, p*outputSize)),
	}
}

// Parents returns the node's (sorted) parent-feature indices.
func (n *Node) Parents() []int { return n.parents }

// OutputSize returns the cardinality of this node's output feature.
func (n *Node) OutputSize() int { return n.outputSize }

// NumParams returns the total number of Dirichlet pseudocounts stored,
// equal to OutputSize * product_{i in parents} graphSizes[i] (spec.md §8
// invariant: count_storage.len() == k * prod(f_parent)).
func (n *Node) NumParams() int { return len(n.cpts.data) }

// Share returns a Node that aliases the same backing CPT array via
// copy-on-write.
func (n *Node) Share() *Node {
	return &Node{
		parents:     n.parents,
		parentSizes: n.parentSizes,
		outputSize:  n.outputSize,
		graphSizes:  n.graphSizes,
		cpts:        n.cpts.share(),
	}
}

// Copy returns a Node with its own private CPT array.
func (n *Node) Copy() *Node {
	return &Node{
		parents:     n.parents,
		parentSizes: n.parentSizes,
		outputSize:  n.outputSize,
		graphSizes:  n.graphSizes,
		cpts:        n.cpts.clone(),
	}
}

// parentValues projects a full graph feature vector down to just this
// node's parent values.
func (n *Node) parentValues(graphInput []int) []int {
	values := make([]int, len(n.parents))
	for i, p := range n.parents {
		values[i] = graphInput[p]
	}
	return values
}

// cptIndex returns the flat offset of the Dirichlet row for the given
// input (either already a parent-value vector of len(parents), or a full
// graph-input vector which gets projected down first).
func (n *Node) cptIndex(input []int) int {
	if len(n.parents) == 0 {
		return 0
	}
	var parentVals []int
	if len(input) == len(n.parents) {
		parentVals = input
	} else {
		parentVals = n.parentValues(input)
	}
	idx := 0
	for i, v := range parentVals {
		idx = idx*n.parentSizes[i] + v
	}
	return idx * n.outputSize
}

// row returns the Dirichlet row (length OutputSize) for the given input.
func (n *Node) row(input []int) []float64 {
	start := n.cptIndex(input)
	return n.cpts.data[start : start+n.outputSize]
}

// Count reads the pseudocount for (input, output).
func (n *Node) Count(input []int, output int) float64 {
	return n.row(input)[output]
}

// Increment adds delta to the pseudocount for (input, output), privatizing
// the backing array first if shared.
func (n *Node) Increment(input []int, output int, delta float64) {
	n.cpts.own()
	start := n.cptIndex(input)
	n.cpts.data[start+output] += delta
}

// SetDirichlet overwrites the whole Dirichlet row at input with counts.
func (n *Node) SetDirichlet(input []int, counts []float64) {
	if len(counts) != n.outputSize {
		panic("dbn: SetDirichlet count vector has wrong length")
	}
	n.cpts.own()
	start := n.cptIndex(input)
	copy(n.cpts.data[start:start+n.outputSize], counts)
}

// Sample draws an output index from the Dirichlet row at input using the
// given multinomial-sampling method.
func (n *Node) Sample(input []int, method func(row []float64, rng *randutil.Rand) int, rng *randutil.Rand) int {
	return method(n.row(input), rng)
}

// Expectation returns the mean outcome vector of the Dirichlet row at
// input.
func (n *Node) Expectation(input []int) []float64 {
	mean, _ := randutil.ExpectedMult(n.row(input))
	return mean
}

// MarginalizeOut returns a new node over newParents (a subset of, or equal
// to, n's current parents) whose counts are obtained by summing the
// removed parents' dimensions out of n's CPT. The exact-parent case
// returns a node equal to n (spec.md §4.4, §8 invariant).
func (n *Node) MarginalizeOut(newParents []int) *Node {
	if sameParents(n.parents, newParents) {
		return n.Copy()
	}
	result := NewNode(n.graphSizes, newParents, n.outputSize)
	result.cpts.own()

	if len(n.parents) == 0 {
		copy(result.cpts.data, n.cpts.data)
		return result
	}

	parentValues := make([]int, len(n.parents))
	for {
		graphInput := make([]int, len(n.graphSizes))
		for i, p := range n.parents {
			graphInput[p] = parentValues[i]
		}
		srcStart := n.cptIndex(parentValues)
		dstStart := result.cptIndex(graphInput)
		for v := 0; v < n.outputSize; v++ {
			result.cpts.data[dstStart+v] += n.cpts.data[srcStart+v]
		}
		if randutil.Increment(parentValues, n.parentSizes) {
			break
		}
	}
	return result
}

// LogBDScore computes the Bayesian-Dirichlet score of n relative to a
// same-shape prior node: sum over Dirichlet rows of
// sum_i[logGamma(count_i) - logGamma(prior_i)] + logGamma(sum prior_i) -
// logGamma(sum count_i) (spec.md §4.4).
func (n *Node) LogBDScore(prior *Node) float64 {
	if n.outputSize != prior.outputSize || len(n.cpts.data) != len(prior.cpts.data) {
		panic("dbn: LogBDScore requires nodes of identical shape")
	}

	score := 0.0
	for start := 0; start < len(n.cpts.data); start += n.outputSize {
		var total, priorTotal float64
		for v := 0; v < n.outputSize; v++ {
			c := n.cpts.data[start+v]
			p := prior.cpts.data[start+v]
			total += c
			priorTotal += p
			score += randutil.LogGamma(c) - randutil.LogGamma(p)
		}
		score += randutil.LogGamma(priorTotal) - randutil.LogGamma(total)
	}
	return score
}

func sameParents(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
