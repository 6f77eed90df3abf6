package experiment

import (
	"fmt"
	"io"
)

// resultFileVersion tags the result file's column layout so a later format
// change doesn't silently misparse an old file.
const resultFileVersion = "fba-pomdp-go-result-v1"

// WriteResultFile writes one version-tagged header comment followed by one
// line per run: return_mean, return_var, return_count, return_stderr,
// step_duration_mean, step_simulations_mean (spec.md §6).
func WriteResultFile(w io.Writer, id string, stats []RunStats) error {
	if _, err := fmt.Fprintf(w, "# %s id=%s\n", resultFileVersion, id); err != nil {
		return fmt.Errorf("experiment: writing result file header: %w", err)
	}

	for _, s := range stats {
		_, err := fmt.Fprintf(w, "%v,%v,%v,%v,%v,%v\n",
			s.ReturnMean, s.ReturnVar, s.ReturnCount, s.ReturnStdErr,
			s.StepDurationMean, s.StepSimulationsMean)
		if err != nil {
			return fmt.Errorf("experiment: writing result file row: %w", err)
		}
	}
	return nil
}
