package main

import (
	"fmt"

	"github.com/samkatt/fba-pomdp-go/belief"
	"github.com/samkatt/fba-pomdp-go/config"
	"github.com/samkatt/fba-pomdp-go/domain"
	"github.com/samkatt/fba-pomdp-go/domains/coin"
	"github.com/samkatt/fba-pomdp-go/domains/tiger"
	"github.com/samkatt/fba-pomdp-go/experiment"
	"github.com/samkatt/fba-pomdp-go/planner"
	"github.com/samkatt/fba-pomdp-go/prior"
	"github.com/samkatt/fba-pomdp-go/randutil"
)

// buildDomain constructs one of the two concrete domains this module
// carries (spec.md's benchmark-domain catalogue is out of scope beyond
// these; see SPEC_FULL.md §6).
func buildDomain(cfg config.Config) (domain.FactoredBADomain, error) {
	switch cfg.Domain.Name {
	case "coin":
		return coin.New(), nil
	case "tiger":
		return tiger.New(cfg.Domain.Size), nil
	default:
		return nil, fmt.Errorf("fbapomdp: unrecognized domain %q (only \"coin\" and \"tiger\" are built in)", cfg.Domain.Name)
	}
}

func mapStructurePrior(s config.StructurePrior) (prior.StructurePrior, error) {
	switch s {
	case config.NoStructurePrior:
		return prior.MatchCounts, nil
	case config.MatchCounts:
		return prior.MatchCountsAlt, nil
	case config.UniformStructure:
		return prior.Uniform, nil
	case config.MatchUniform:
		return prior.MatchUniform, nil
	case config.FullyConnected:
		return prior.FullyConnected, nil
	default:
		return "", fmt.Errorf("fbapomdp: unrecognized structure_prior %q", s)
	}
}

// buildNewBelief returns the factory Online uses to construct one fresh
// belief per run, closing over a single shared prior template (spec.md
// §4.6's prior is a stateless recipe; only what it hands out per-particle
// needs to be fresh).
func buildNewBelief(cfg config.Config, dom domain.FactoredBADomain) (experiment.NewBelief, error) {
	structurePrior, err := mapStructurePrior(cfg.FactoredBA.StructurePrior)
	if err != nil {
		return nil, err
	}
	pri := prior.NewFactored(dom, cfg.BA.CountsTotal, cfg.BA.Noise, structurePrior)

	n := cfg.Belief.ParticleAmount
	r := cfg.Belief.ResampleAmount
	theta := cfg.Belief.Threshold

	switch cfg.Global.Belief {
	case config.PointEstimate:
		return func(rng *randutil.Rand) belief.Belief { return belief.NewPointEstimate(pri, rng) }, nil
	case config.RejectionSampling:
		return func(rng *randutil.Rand) belief.Belief { return belief.NewRejectionSampling(pri, n, rng) }, nil
	case config.ImportanceSampling:
		return func(rng *randutil.Rand) belief.Belief { return belief.NewImportanceSampling(pri, n, rng) }, nil
	case config.Reinvigoration:
		return func(rng *randutil.Rand) belief.Belief { return belief.NewReinvigoration(pri, n, r, rng) }, nil
	case config.MHNIPS:
		return func(rng *randutil.Rand) belief.Belief { return belief.NewMHNIPS(pri, n, theta, rng) }, nil
	case config.MHWithinGibbs:
		option := belief.GibbsOption(cfg.Belief.Option)
		return func(rng *randutil.Rand) belief.Belief { return belief.NewMHWithinGibbs(pri, n, theta, option, rng) }, nil
	case config.CheatingReinvigoration:
		return func(rng *randutil.Rand) belief.Belief {
			return belief.NewCheatingReinvigoration(pri, n, r, theta, rng)
		}, nil
	case config.Incubator:
		return func(rng *randutil.Rand) belief.Belief { return belief.NewIncubator(pri, n, r, theta, rng) }, nil
	case config.Nested:
		return func(rng *randutil.Rand) belief.Belief { return belief.NewNested(pri, dom, n, r, rng) }, nil
	default:
		return nil, fmt.Errorf("fbapomdp: unrecognized belief %q", cfg.Global.Belief)
	}
}

// buildPlanner constructs the configured planner. spec.md §6 allows either
// a fixed simulation_amount or a milliseconds_thinking wall-clock budget,
// exactly one of them non-zero (enforced by config.Validate); whichever is
// set picks which PO-UCT constructor backs the planner.
func buildPlanner(cfg config.Config) (planner.Planner, error) {
	if cfg.Global.Planner == config.Random {
		return planner.NewRandom(), nil
	}

	var base *planner.POUCT
	var err error
	if cfg.Planner.SimulationAmount > 0 {
		base, err = planner.NewPOUCT(cfg.Planner.SimulationAmount, cfg.Planner.MaxDepth, cfg.Global.Horizon,
			cfg.Planner.ExplorationConstant, cfg.Global.Discount)
	} else {
		base, err = planner.NewPOUCTTimed(cfg.Planner.MillisecondsThinking, cfg.Planner.MaxDepth, cfg.Global.Horizon,
			cfg.Planner.ExplorationConstant, cfg.Global.Discount)
	}
	if err != nil {
		return nil, fmt.Errorf("fbapomdp: %w", err)
	}

	switch cfg.Global.Planner {
	case config.POUCT:
		return base, nil
	case config.TS:
		return planner.NewThompson(base), nil
	case config.POUCTAbstraction:
		return planner.NewAbstraction(base, cfg.Planner.AbstractionK), nil
	default:
		return nil, fmt.Errorf("fbapomdp: unrecognized planner %q", cfg.Global.Planner)
	}
}
