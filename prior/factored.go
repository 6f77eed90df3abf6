package prior

import (
	"github.com/samkatt/fba-pomdp-go/bastate"
	"github.com/samkatt/fba-pomdp-go/domain"
	"github.com/samkatt/fba-pomdp-go/model/dbn"
	"github.com/samkatt/fba-pomdp-go/randutil"
)

// StructurePrior selects how the factored prior perturbs the DBN parent
// structure it hands to each sampled particle (spec.md §4.6).
type StructurePrior string

const (
	MatchCounts    StructurePrior = ""
	MatchCountsAlt StructurePrior = "match-counts"
	Uniform        StructurePrior = "uniform"
	MatchUniform   StructurePrior = "match-uniform"
	FullyConnected StructurePrior = "fully-connected"
)

// SelfParentRequirer is an optional domain extension: domains with
// "location" features that must always condition on their own previous
// value implement it so structure mutation/perturbation never drops that
// edge (spec.md §4.6 "preserving required invariants the domain declares").
type SelfParentRequirer interface {
	MustIncludeSelfParent(feature int) bool
}

// KnownComponentDomain is an optional domain extension supplying the
// "without obstacle features" structure template: known-good parent sets
// that exclude components the agent is not meant to discover (spec.md
// §4.6). Domains that don't implement it fall back to the true/correct
// structure for this template.
type KnownComponentDomain interface {
	KnownComponentTransitionParents(action, feature int) []int
	KnownComponentObservationParents(action, feature int) []int
}

// Factored is the DBN prior: it pre-computes the "correctly connected",
// "fully connected", and "without obstacle features" transition templates
// plus one observation template, and samples augmented states whose model
// references one of them, optionally with a randomly perturbed structure
// (spec.md §4.6).
type Factored struct {
	dom              domain.FactoredBADomain
	countsTotal      float64
	noise            float64
	structurePrior   StructurePrior
	numStateFeatures int
	numObsFeatures   int

	correct          *dbn.Model
	fullyConnected   *dbn.Model
	withoutObstacle  *dbn.Model
	trueStructure     dbn.Structure
}

// NewFactored builds the factored prior's three transition templates and
// one observation template.
func NewFactored(dom domain.FactoredBADomain, countsTotal, noise float64, structurePrior StructurePrior) *Factored {
	numActions := dom.NumActions()
	sSizes := dom.StateFeatureSizes()
	oSizes := dom.ObservationFeatureSizes()

	trueStructure := buildTrueStructure(dom, numActions, len(sSizes), len(oSizes))
	fcStructure := buildFullyConnectedStructure(numActions, len(sSizes), len(oSizes))
	woStructure := buildWithoutObstacleStructure(dom, numActions, len(sSizes), len(oSizes))

	p := &Factored{
		dom:              dom,
		countsTotal:      countsTotal,
		noise:            noise,
		structurePrior:   structurePrior,
		numStateFeatures: len(sSizes),
		numObsFeatures:   len(oSizes),
		trueStructure:    trueStructure,
	}

	p.correct = p.computePriorModel(trueStructure)
	p.fullyConnected = p.computePriorModel(fcStructure)
	p.withoutObstacle = p.computePriorModel(woStructure)

	return p
}

// ComputePriorModel returns a fresh DBN model whose counts, for each node,
// come from the true domain dynamics when that node's parent set matches
// the domain's declared true parents exactly, or a uniform Dirichlet
// otherwise (spec.md §4.6).
func (p *Factored) ComputePriorModel(structure dbn.Structure) *dbn.Model {
	return p.computePriorModel(structure)
}

func (p *Factored) computePriorModel(structure dbn.Structure) *dbn.Model {
	sSizes := p.dom.StateFeatureSizes()
	oSizes := p.dom.ObservationFeatureSizes()
	numActions := p.dom.NumActions()

	m := dbn.NewModel(numActions, sSizes, oSizes, structure)

	for a := 0; a < numActions; a++ {
		for f := 0; f < len(sSizes); f++ {
			node := m.TransitionNode(a, f)
			grounded := sameInts(node.Parents(), p.dom.TrueTransitionParents(a, f))
			fillNode(node, node.Parents(), sSizes, p.countsTotal, func(parentValues []int) []float64 {
				if grounded {
					return noiseRow(marginalizeTransitionFeature(p.dom, a, node.Parents(), parentValues, f), p.noise)
				}
				return uniformRow(sSizes[f])
			})
		}
		for f := 0; f < len(oSizes); f++ {
			node := m.ObservationNode(a, f)
			grounded := sameInts(node.Parents(), p.dom.TrueObservationParents(a, f))
			fillNode(node, node.Parents(), sSizes, p.countsTotal, func(parentValues []int) []float64 {
				if grounded {
					return noiseRow(marginalizeObservationFeature(p.dom, a, node.Parents(), parentValues, f), p.noise)
				}
				return uniformRow(oSizes[f])
			})
		}
	}

	return m
}

// Sample returns a new augmented state whose model references the
// template selected by the configured StructurePrior, rebuilding a fresh
// (possibly randomly perturbed) structure when the prior calls for one
// (spec.md §4.6).
func (p *Factored) Sample(rng *randutil.Rand) bastate.State {
	var model *dbn.Model

	switch p.structurePrior {
	case FullyConnected:
		model = p.fullyConnected.Share()
	case Uniform:
		model = p.computePriorModel(p.randomStructure(rng, false))
	case MatchUniform:
		model = p.computePriorModel(p.randomStructure(rng, true))
	default: // MatchCounts, MatchCountsAlt
		model = p.correct.Share()
	}

	return bastate.NewFactored(p.dom.SampleStartState(rng), model, p.dom.StateFeatureSizes(), p.dom.ObservationFeatureSizes())
}

// FullyConnectedTemplate returns the prior's immutable fully-connected DBN
// template, used as the BD-score baseline by the MH-based beliefs.
func (p *Factored) FullyConnectedTemplate() *dbn.Model { return p.fullyConnected }

// CorrectTemplate returns the prior's immutable correctly-connected DBN
// template.
func (p *Factored) CorrectTemplate() *dbn.Model { return p.correct }

// SampleFullyConnected returns a new augmented state referencing the
// fully-connected template regardless of the configured StructurePrior,
// used by the belief strategies that keep a dedicated fully-connected
// companion filter (reinvigoration, incubator) as a counts donor.
func (p *Factored) SampleFullyConnected(rng *randutil.Rand) bastate.State {
	return bastate.NewFactored(p.dom.SampleStartState(rng), p.fullyConnected.Share(), p.dom.StateFeatureSizes(), p.dom.ObservationFeatureSizes())
}

// SampleCorrect returns a new augmented state referencing the correctly
// connected template regardless of the configured StructurePrior, used by
// cheating-reinvigoration's correct-structure companion filter.
func (p *Factored) SampleCorrect(rng *randutil.Rand) bastate.State {
	return bastate.NewFactored(p.dom.SampleStartState(rng), p.correct.Share(), p.dom.StateFeatureSizes(), p.dom.ObservationFeatureSizes())
}

// randomStructure builds the "uniform"/"match-uniform" structure prior: for
// each transition node, flip (include with 50% probability) each candidate
// parent edge; match-uniform additionally forces self-inclusion. Only
// transition parents are randomized (observation structure always matches
// the true graph, consistent with the original's templates).
func (p *Factored) randomStructure(rng *randutil.Rand, forceSelf bool) dbn.Structure {
	s := p.trueStructure.Clone()
	numActions := p.dom.NumActions()

	for a := 0; a < numActions; a++ {
		for f := 0; f < p.numStateFeatures; f++ {
			var parents []int
			for candidate := 0; candidate < p.numStateFeatures; candidate++ {
				include := rng.Boolean()
				if forceSelf && candidate == f {
					include = true
				}
				if requirer, ok := p.dom.(SelfParentRequirer); ok && requirer.MustIncludeSelfParent(f) && candidate == f {
					include = true
				}
				if include {
					parents = append(parents, candidate)
				}
			}
			s.TParents[a][f] = parents
		}
	}
	return s
}

// Mutate flips exactly one random edge of one randomly chosen
// (action, feature) transition node of structure, returning the mutated
// copy. Required self-parent invariants declared by the domain (via
// SelfParentRequirer) are preserved (spec.md §4.6).
func (p *Factored) Mutate(structure dbn.Structure, rng *randutil.Rand) dbn.Structure {
	out := structure.Clone()
	a := rng.Intn(p.dom.NumActions())
	f := rng.Intn(p.numStateFeatures)

	flipped := dbn.FlipRandomEdge(out.TParents[a][f], p.numStateFeatures, rng)

	if requirer, ok := p.dom.(SelfParentRequirer); ok && requirer.MustIncludeSelfParent(f) && !containsInt(flipped, f) {
		flipped = insertSorted(flipped, f)
	}

	out.TParents[a][f] = flipped
	return out
}

func fillNode(node *dbn.Node, parents []int, sSizes []int, countsTotal float64, rowFor func(parentValues []int) []float64) {
	parentSizes := make([]int, len(parents))
	for i, p := range parents {
		parentSizes[i] = sSizes[p]
	}

	parentValues := make([]int, len(parents))
	for {
		row := rowFor(append([]int(nil), parentValues...))
		normalizeTo(row, countsTotal)
		node.SetDirichlet(parentValues, row)
		if len(parentValues) == 0 || randutil.Increment(parentValues, parentSizes) {
			break
		}
	}
}

func uniformRow(size int) []float64 {
	row := make([]float64, size)
	for i := range row {
		row[i] = 1
	}
	return row
}

func noiseRow(row []float64, noise float64) []float64 {
	uniform := 1.0 / float64(len(row))
	out := make([]float64, len(row))
	for i, v := range row {
		out[i] = (1-noise)*v + noise*uniform
	}
	return out
}

// marginalizeTransitionFeature estimates P(feature=v | parents=parentValues)
// for the transition node (action, feature) by averaging the domain's flat
// joint transition probability over every full state consistent with the
// fixed parent values, marginalizing the resulting next-state distribution
// down to the one output feature.
func marginalizeTransitionFeature(dom domain.FactoredBADomain, action int, parents, parentValues []int, feature int) []float64 {
	sSizes := dom.StateFeatureSizes()
	outputSize := sSizes[feature]
	row := make([]float64, outputSize)

	inputs := enumerateConsistent(sSizes, parents, parentValues)
	a := domain.IndexHandle(action)
	for _, inputFeatures := range inputs {
		s := dom.StateByIndex(randutil.Project(inputFeatures, sSizes))
		for sNextIdx := 0; sNextIdx < dom.NumStates(); sNextIdx++ {
			p := dom.TransitionProbability(s, a, dom.StateByIndex(sNextIdx))
			nextFeatures := randutil.ProjectUsingDimensions(sNextIdx, sSizes)
			row[nextFeatures[feature]] += p
		}
	}
	scaleByCount(row, len(inputs))
	return row
}

// marginalizeObservationFeature is the observation-node analogue of
// marginalizeTransitionFeature: parents are a subset of next-state
// features.
func marginalizeObservationFeature(dom domain.FactoredBADomain, action int, parents, parentValues []int, feature int) []float64 {
	sSizes := dom.StateFeatureSizes()
	oSizes := dom.ObservationFeatureSizes()
	outputSize := oSizes[feature]
	row := make([]float64, outputSize)

	inputs := enumerateConsistent(sSizes, parents, parentValues)
	a := domain.IndexHandle(action)
	for _, sNextFeatures := range inputs {
		sNext := dom.StateByIndex(randutil.Project(sNextFeatures, sSizes))
		for oi := 0; oi < dom.NumObservations(); oi++ {
			p := dom.ObservationProbability(domain.IndexHandle(oi), a, sNext)
			oFeatures := randutil.ProjectUsingDimensions(oi, oSizes)
			row[oFeatures[feature]] += p
		}
	}
	scaleByCount(row, len(inputs))
	return row
}

func scaleByCount(row []float64, n int) {
	if n == 0 {
		return
	}
	for i := range row {
		row[i] /= float64(n)
	}
}

// enumerateConsistent returns every feature vector over sizes whose values
// at the parents indices equal parentValues, varying all other features.
func enumerateConsistent(sizes, parents, parentValues []int) [][]int {
	fixed := make(map[int]int, len(parents))
	for i, p := range parents {
		fixed[p] = parentValues[i]
	}

	free := make([]int, 0, len(sizes))
	for i := range sizes {
		if _, ok := fixed[i]; !ok {
			free = append(free, i)
		}
	}

	freeSizes := make([]int, len(free))
	for i, f := range free {
		freeSizes[i] = sizes[f]
	}

	var results [][]int
	freeValues := make([]int, len(free))
	for {
		full := make([]int, len(sizes))
		for k, v := range fixed {
			full[k] = v
		}
		for i, f := range free {
			full[f] = freeValues[i]
		}
		results = append(results, full)

		if len(free) == 0 || randutil.Increment(freeValues, freeSizes) {
			break
		}
	}
	return results
}

func buildTrueStructure(dom domain.FactoredBADomain, numActions, numS, numO int) dbn.Structure {
	s := dbn.Structure{TParents: make([][][]int, numActions), OParents: make([][][]int, numActions)}
	for a := 0; a < numActions; a++ {
		s.TParents[a] = make([][]int, numS)
		for f := 0; f < numS; f++ {
			s.TParents[a][f] = append([]int(nil), dom.TrueTransitionParents(a, f)...)
		}
		s.OParents[a] = make([][]int, numO)
		for f := 0; f < numO; f++ {
			s.OParents[a][f] = append([]int(nil), dom.TrueObservationParents(a, f)...)
		}
	}
	return s
}

func buildFullyConnectedStructure(numActions, numS, numO int) dbn.Structure {
	allS := make([]int, numS)
	for i := range allS {
		allS[i] = i
	}
	s := dbn.Structure{TParents: make([][][]int, numActions), OParents: make([][][]int, numActions)}
	for a := 0; a < numActions; a++ {
		s.TParents[a] = make([][]int, numS)
		s.OParents[a] = make([][]int, numO)
		for f := 0; f < numS; f++ {
			s.TParents[a][f] = append([]int(nil), allS...)
		}
		for f := 0; f < numO; f++ {
			s.OParents[a][f] = append([]int(nil), allS...)
		}
	}
	return s
}

func buildWithoutObstacleStructure(dom domain.FactoredBADomain, numActions, numS, numO int) dbn.Structure {
	known, ok := dom.(KnownComponentDomain)
	if !ok {
		return buildTrueStructure(dom, numActions, numS, numO)
	}
	s := dbn.Structure{TParents: make([][][]int, numActions), OParents: make([][][]int, numActions)}
	for a := 0; a < numActions; a++ {
		s.TParents[a] = make([][]int, numS)
		for f := 0; f < numS; f++ {
			s.TParents[a][f] = append([]int(nil), known.KnownComponentTransitionParents(a, f)...)
		}
		s.OParents[a] = make([][]int, numO)
		for f := 0; f < numO; f++ {
			s.OParents[a][f] = append([]int(nil), known.KnownComponentObservationParents(a, f)...)
		}
	}
	return s
}

func sameInts(a, b []int) bool {
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

func containsInt(xs []int, v int) bool {
	for _, x := range xs {
		if x == v {
			return true
		}
	}
	return false
}

func insertSorted(xs []int, v int) []int {
	out := make([]int, 0, len(xs)+1)
	inserted := false
	for _, x := range xs {
		if !inserted && x > v {
			out = append(out, v)
			inserted = true
		}
		out = append(out, x)
	}
	if !inserted {
		out = append(out, v)
	}
	return out
}
