package belief

import (
	"math"

	"github.com/samkatt/fba-pomdp-go/domain"
	"github.com/samkatt/fba-pomdp-go/model/dbn"
	"github.com/samkatt/fba-pomdp-go/prior"
	"github.com/samkatt/fba-pomdp-go/randutil"
)

// Transition is one recorded (s,a,o,s') step, the unit of "history" the
// MH-based beliefs replay against the prior when they sweep (spec.md
// §4.8).
type Transition struct {
	S     domain.State
	A     domain.Action
	O     domain.Observation
	SNext domain.State
}

// ApplyHistory folds every recorded transition into model's counts (used to
// build the "counts that come from applying the full observation history
// to the prior posterior" the BD score is computed against).
func ApplyHistory(model *dbn.Model, sSizes, oSizes []int, history []Transition) {
	for _, tr := range history {
		sValues := randutil.ProjectUsingDimensions(tr.S.Index(), sSizes)
		sNextValues := randutil.ProjectUsingDimensions(tr.SNext.Index(), sSizes)
		oValues := randutil.ProjectUsingDimensions(tr.O.Index(), oSizes)

		for f := range sSizes {
			model.TransitionNode(tr.A.Index(), f).Increment(sValues, sNextValues[f], 1)
		}
		for f := range oSizes {
			model.ObservationNode(tr.A.Index(), f).Increment(sNextValues, oValues[f], 1)
		}
	}
}

// LogBD computes the total Bayesian-Dirichlet score of structure, comparing
// dataModel's counts (marginalized onto structure) against priorModel's
// counts (marginalized the same way), summed over every (action, feature)
// node (spec.md §4.8's shared MH sweep kernel).
func LogBD(structure dbn.Structure, dataModel, priorModel *dbn.Model, sSizes, oSizes []int, numActions int) float64 {
	score := 0.0
	for a := 0; a < numActions; a++ {
		for f := range sSizes {
			d := dataModel.TransitionNode(a, f).MarginalizeOut(structure.TParents[a][f])
			p := priorModel.TransitionNode(a, f).MarginalizeOut(structure.TParents[a][f])
			score += d.LogBDScore(p)
		}
		for f := range oSizes {
			d := dataModel.ObservationNode(a, f).MarginalizeOut(structure.OParents[a][f])
			p := priorModel.ObservationNode(a, f).MarginalizeOut(structure.OParents[a][f])
			score += d.LogBDScore(p)
		}
	}
	return score
}

// MHSweep runs one Metropolis-Hastings structure-proposal step: propose
// g' = mutate(g), accept with probability min(1, exp(log_bd(g') -
// log_bd(g))) computed against dataModel/priorModel, and return whichever
// structure was accepted (spec.md §4.8).
func MHSweep(current dbn.Structure, dataModel, priorModel *dbn.Model, sSizes, oSizes []int, numActions int, pri *prior.Factored, rng *randutil.Rand) dbn.Structure {
	proposed := pri.Mutate(current, rng)

	curScore := LogBD(current, dataModel, priorModel, sSizes, oSizes, numActions)
	propScore := LogBD(proposed, dataModel, priorModel, sSizes, oSizes, numActions)

	logAccept := propScore - curScore
	if logAccept >= 0 || math.Log(rng.Float64()) < logAccept {
		return proposed
	}
	return current
}
