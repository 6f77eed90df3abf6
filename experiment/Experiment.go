// Package experiment runs a configured number of independent runs, each of
// a configured number of episodes, and reduces the result into the
// per-run statistics spec.md §6's result file reports.
package experiment

import "github.com/samkatt/fba-pomdp-go/randutil"

// Experiment outlines structs that can run a full experiment: a configured
// number of independent runs, each of a configured number of episodes
// against a domain/belief/planner, reduced into per-run return statistics.
// Generalized from the teacher's own Experiment interface (which ran an
// agent against an environment) to this module's domain/belief/planner
// triple.
type Experiment interface {
	Run(rng *randutil.Rand) ([]RunStats, error)
}
