package config

import (
	"errors"
	"testing"
)

func validConfig() Config {
	return Config{
		Global: Global{
			NumRuns:     1,
			NumEpisodes: 1,
			Horizon:     10,
			Discount:    0.95,
			Planner:     POUCT,
			Belief:      RejectionSampling,
			Seed:        "seed",
			ID:          "run-1",
			OutputFile:  "out.txt",
			Verbose:     0,
		},
		Planner: Planner{
			SimulationAmount:    100,
			MaxDepth:            -1,
			ExplorationConstant: 1.0,
			AbstractionK:        0,
		},
		Belief: Belief{
			ParticleAmount: 50,
			ResampleAmount: 0,
			Threshold:      0,
		},
		BA: BA{
			NumEpisodes:             1,
			Noise:                   0,
			CountsTotal:             100,
			DirichletSamplingMethod: RegularSampling,
		},
		FactoredBA: FactoredBA{
			StructurePrior: MatchCounts,
		},
		Domain: Domain{
			Name: "coin",
			Size: 2,
		},
	}
}

func TestValidConfigPasses(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Fatalf("Validate() = %v, want nil", err)
	}
}

func TestValidateRejectsZeroHorizon(t *testing.T) {
	c := validConfig()
	c.Global.Horizon = 0
	assertInvalid(t, c)
}

func TestValidateRejectsDiscountOutOfRange(t *testing.T) {
	c := validConfig()
	c.Global.Discount = 1.5
	assertInvalid(t, c)
}

func TestValidateRejectsUnrecognizedPlanner(t *testing.T) {
	c := validConfig()
	c.Global.Planner = "not-a-planner"
	assertInvalid(t, c)
}

func TestValidateRejectsBothPlannerBudgetsZero(t *testing.T) {
	c := validConfig()
	c.Planner.SimulationAmount = 0
	c.Planner.MillisecondsThinking = 0
	assertInvalid(t, c)
}

func TestValidateRejectsBothPlannerBudgetsSet(t *testing.T) {
	c := validConfig()
	c.Planner.SimulationAmount = 100
	c.Planner.MillisecondsThinking = 50
	assertInvalid(t, c)
}

func TestValidateRequiresResampleAmountForReinvigoration(t *testing.T) {
	c := validConfig()
	c.Global.Belief = Reinvigoration
	c.Belief.ResampleAmount = 0
	assertInvalid(t, c)

	c.Belief.ResampleAmount = 5
	if err := c.Validate(); err != nil {
		t.Fatalf("Validate() = %v, want nil once resample_amount is positive", err)
	}
}

func TestValidateRequiresResampleAmountForNested(t *testing.T) {
	c := validConfig()
	c.Global.Belief = Nested
	c.Belief.ResampleAmount = 0
	assertInvalid(t, c)

	c.Belief.ResampleAmount = 4
	if err := c.Validate(); err != nil {
		t.Fatalf("Validate() = %v, want nil once resample_amount is positive", err)
	}
}

func TestValidateRejectsResampleAmountForNonReinvigoratingBelief(t *testing.T) {
	c := validConfig()
	c.Global.Belief = RejectionSampling
	c.Belief.ResampleAmount = 5
	assertInvalid(t, c)
}

func TestValidateRejectsNoiseOutOfRange(t *testing.T) {
	c := validConfig()
	c.BA.Noise = 0.5
	assertInvalid(t, c)
}

func TestValidateRejectsUnrecognizedStructurePrior(t *testing.T) {
	c := validConfig()
	c.FactoredBA.StructurePrior = "bogus"
	assertInvalid(t, c)
}

func TestValidateRejectsEmptyDomainName(t *testing.T) {
	c := validConfig()
	c.Domain.Name = ""
	assertInvalid(t, c)
}

func assertInvalid(t *testing.T, c Config) {
	t.Helper()
	err := c.Validate()
	if err == nil {
		t.Fatal("Validate() = nil, want an error")
	}
	if !errors.Is(err, ErrConfigInvalid) {
		t.Fatalf("Validate() = %v, want it to wrap ErrConfigInvalid", err)
	}
}
