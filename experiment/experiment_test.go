package experiment

import (
	"strings"
	"testing"

	"github.com/samkatt/fba-pomdp-go/belief"
	"github.com/samkatt/fba-pomdp-go/config"
	"github.com/samkatt/fba-pomdp-go/domains/coin"
	"github.com/samkatt/fba-pomdp-go/planner"
	"github.com/samkatt/fba-pomdp-go/prior"
	"github.com/samkatt/fba-pomdp-go/randutil"
)

func testConfig() config.Config {
	return config.Config{
		Global: config.Global{
			NumRuns:     2,
			NumEpisodes: 3,
			Horizon:     3,
			Discount:    1,
			Planner:     config.POUCT,
			Belief:      config.RejectionSampling,
			Verbose:     0,
		},
	}
}

func TestRunProducesOneStatsEntryPerRun(t *testing.T) {
	rng := randutil.New("experiment-smoke")
	dom := coin.New()
	pri := prior.NewFactored(dom, 100, 0, prior.MatchCounts)

	newBelief := func(rng *randutil.Rand) belief.Belief {
		return belief.NewRejectionSampling(pri, 10, rng)
	}
	p, err := planner.NewPOUCT(20, 3, 3, 1.0, 1.0)
	if err != nil {
		t.Fatalf("NewPOUCT() error = %v", err)
	}

	cfg := testConfig()
	exp := NewOnline(dom, newBelief, p, cfg)

	stats, err := exp.Run(rng)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(stats) != cfg.Global.NumRuns {
		t.Fatalf("len(stats) = %d, want %d", len(stats), cfg.Global.NumRuns)
	}
	for i, s := range stats {
		if s.ReturnCount != cfg.Global.NumEpisodes {
			t.Fatalf("stats[%d].ReturnCount = %d, want %d", i, s.ReturnCount, cfg.Global.NumEpisodes)
		}
	}
}

func TestWriteResultFileFormatsHeaderAndRows(t *testing.T) {
	var sb strings.Builder
	stats := []RunStats{
		{ReturnMean: 2, ReturnVar: 0, ReturnCount: 3, ReturnStdErr: 0, StepDurationMean: 0.001, StepSimulationsMean: 200},
	}
	if err := WriteResultFile(&sb, "run-1", stats); err != nil {
		t.Fatalf("WriteResultFile() error = %v", err)
	}

	out := sb.String()
	if !strings.HasPrefix(out, "# "+resultFileVersion) {
		t.Fatalf("output = %q, want header prefix %q", out, "# "+resultFileVersion)
	}
	if !strings.Contains(out, "2,0,3,0,0.001,200") {
		t.Fatalf("output = %q, want a row matching the stats", out)
	}
}
