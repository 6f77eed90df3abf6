package experiment

import (
	"math"
	"time"
)

// RunStats is one run's reduction of its episodes' returns and per-step
// timing/simulation costs, matching spec.md §6's result-file columns.
type RunStats struct {
	ReturnMean         float64
	ReturnVar          float64
	ReturnCount        int
	ReturnStdErr       float64
	StepDurationMean   float64 // seconds
	StepSimulationsMean float64
}

// newRunStats reduces one run's per-episode returns, together with the
// run's total real steps/simulations/wall time, into the summary spec.md
// §6 reports per run.
func newRunStats(returns []float64, totalSteps, totalSimulations int, totalDuration time.Duration) RunStats {
	n := len(returns)
	var mean float64
	for _, r := range returns {
		mean += r
	}
	mean /= float64(n)

	var variance float64
	for _, r := range returns {
		d := r - mean
		variance += d * d
	}
	if n > 1 {
		variance /= float64(n - 1)
	} else {
		variance = 0
	}

	stderr := 0.0
	if n > 0 {
		stderr = math.Sqrt(variance / float64(n))
	}

	stepDurationMean := 0.0
	stepSimulationsMean := 0.0
	if totalSteps > 0 {
		stepDurationMean = totalDuration.Seconds() / float64(totalSteps)
		stepSimulationsMean = float64(totalSimulations) / float64(totalSteps)
	}

	return RunStats{
		ReturnMean:          mean,
		ReturnVar:           variance,
		ReturnCount:         n,
		ReturnStdErr:        stderr,
		StepDurationMean:    stepDurationMean,
		StepSimulationsMean: stepSimulationsMean,
	}
}
