package belief

import (
	"github.com/samkatt/fba-pomdp-go/bastate"
	"github.com/samkatt/fba-pomdp-go/domain"
	"github.com/samkatt/fba-pomdp-go/model/dbn"
	"github.com/samkatt/fba-pomdp-go/prior"
	"github.com/samkatt/fba-pomdp-go/randutil"
)

// Breed implements the shared breeding operator used by reinvigoration and
// incubator: it mutates structureDonor's structure by one edge flip, then
// builds a new DBN whose counts are countsDonor's counts marginalized onto
// the mutated structure. countsDonor must carry a fully-connected (or at
// least structurally-dominating) model, since MarginalizeOut only ever
// reduces a node's parent set, never expands it. The new particle inherits
// a fresh copy of structureDonor's domain state (spec.md §4.8's "breeding
// operator").
func Breed(dom domain.FactoredBADomain, structureDonor, countsDonor *bastate.Factored, pri *prior.Factored, rng *randutil.Rand) *bastate.Factored {
	mutated := pri.Mutate(structureDonor.Model.Structure(), rng)
	model := marginalizeModelTo(dom, countsDonor.Model, mutated)
	return bastate.NewFactored(dom.CopyState(structureDonor.DomainState()), model, dom.StateFeatureSizes(), dom.ObservationFeatureSizes())
}

// marginalizeModelTo builds a fresh Model whose every node is source's
// corresponding node marginalized down to structure's parent set. source's
// nodes must each carry a parent superset of structure's (e.g. a
// fully-connected template), since MarginalizeOut only ever reduces a
// parent set.
func marginalizeModelTo(dom domain.FactoredBADomain, source *dbn.Model, structure dbn.Structure) *dbn.Model {
	sSizes := dom.StateFeatureSizes()
	oSizes := dom.ObservationFeatureSizes()
	numActions := dom.NumActions()

	tNodes := make([][]*dbn.Node, numActions)
	oNodes := make([][]*dbn.Node, numActions)
	for a := 0; a < numActions; a++ {
		tNodes[a] = make([]*dbn.Node, len(sSizes))
		for f := range sSizes {
			tNodes[a][f] = source.TransitionNode(a, f).MarginalizeOut(structure.TParents[a][f])
		}
		oNodes[a] = make([]*dbn.Node, len(oSizes))
		for f := range oSizes {
			oNodes[a][f] = source.ObservationNode(a, f).MarginalizeOut(structure.OParents[a][f])
		}
	}

	return dbn.NewModelFromNodes(numActions, sSizes, oSizes, tNodes, oNodes)
}
