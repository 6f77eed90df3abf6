package experiment

import (
	"fmt"
	"time"

	"github.com/samkatt/fba-pomdp-go/belief"
	"github.com/samkatt/fba-pomdp-go/config"
	"github.com/samkatt/fba-pomdp-go/domain"
	"github.com/samkatt/fba-pomdp-go/episode"
	"github.com/samkatt/fba-pomdp-go/planner"
	"github.com/samkatt/fba-pomdp-go/randutil"
	"github.com/samuelfneumann/progressbar"
)

// NewBelief constructs one fresh belief for a run, sampling from whatever
// prior the caller closed over. A run's belief persists and keeps learning
// across that run's episodes (the entire point of a Bayes-Adaptive
// belief); only the domain-state component is reset between episodes.
type NewBelief func(rng *randutil.Rand) belief.Belief

// Online is an Experiment that runs a planner/belief against a domain
// online only, the same role the teacher's Online played for an
// agent/environment pair (experiment/Online.go), generalized to this
// module's domain/belief/planner triple and spec.md §6's run/episode
// configuration.
type Online struct {
	dom       domain.FactoredBADomain
	newBelief NewBelief
	planner   planner.Planner
	cfg       config.Config
	logger    *Logger
	progBar   *progressbar.ProgressBar
}

// NewOnline returns an Online experiment ready to Run. cfg must already
// have passed Validate.
func NewOnline(dom domain.FactoredBADomain, newBelief NewBelief, p planner.Planner, cfg config.Config) *Online {
	return &Online{
		dom:       dom,
		newBelief: newBelief,
		planner:   p,
		cfg:       cfg,
		logger:    NewLogger(cfg.Global.Verbose),
	}
}

// Run executes cfg.Global.NumRuns independent runs of cfg.Global.NumEpisodes
// episodes each, returning one RunStats per run (spec.md §6's result-file
// rows). Within a run the same belief persists across episodes — only its
// domain-state distribution is reset between them — because the entire
// purpose of a Bayes-Adaptive belief is to keep learning across episode
// boundaries within a run.
func (o *Online) Run(rng *randutil.Rand) ([]RunStats, error) {
	numRuns := o.cfg.Global.NumRuns
	numEpisodes := o.cfg.Global.NumEpisodes

	o.progBar = progressbar.New(50, numRuns*numEpisodes, time.Second, true)
	o.progBar.Display()
	defer o.progBar.Close()

	stats := make([]RunStats, numRuns)
	for r := 0; r < numRuns; r++ {
		result, err := o.runOne(r, rng)
		if err != nil {
			return nil, err
		}
		stats[r] = result
	}

	return stats, nil
}

func (o *Online) runOne(r int, rng *randutil.Rand) (RunStats, error) {
	numEpisodes := o.cfg.Global.NumEpisodes
	bel := o.newBelief(rng)
	defer bel.Free()

	returns := make([]float64, 0, numEpisodes)
	var totalSteps, totalSimulations int
	var totalDuration time.Duration

	for ep := 0; ep < numEpisodes; ep++ {
		if ep > 0 {
			bel.ResetDomainStateDistribution(o.dom, rng)
		}

		start := time.Now()
		result, err := episode.Run(o.planner, bel, o.dom, o.cfg.Global.Horizon, o.cfg.Global.Discount, rng)
		if err != nil {
			return RunStats{}, fmt.Errorf("experiment: run %d episode %d: %w", r, ep, err)
		}
		totalDuration += time.Since(start)

		returns = append(returns, result.Return)
		totalSteps += result.Length
		totalSimulations += result.Simulations

		o.logger.Logf(2, "run %d episode %d: return=%v length=%d simulations=%d",
			r, ep, result.Return, result.Length, result.Simulations)
		o.progBar.Increment()
	}

	stats := newRunStats(returns, totalSteps, totalSimulations, totalDuration)
	o.logger.Logf(1, "run %d: return_mean=%v return_stderr=%v", r, stats.ReturnMean, stats.ReturnStdErr)
	return stats, nil
}
