// Package config provides the configuration record for a BA-POMDP/FBA-POMDP
// experiment: plain exported-field structs, a closed set of string-typed
// enums, and a single Validate method — the same shape as
// samuelfneumann/golearn/environment/envconfig.Config.
package config

import (
	"errors"
	"fmt"
)

// ErrConfigInvalid is returned (wrapped) by Validate when any recognized
// option fails its rule (spec.md §7's ConfigInvalid error kind).
var ErrConfigInvalid = errors.New("config: invalid configuration")

// PlannerName is one of the closed set of planners spec.md §6 recognizes.
type PlannerName string

// Planners recognized by the core.
const (
	Random            PlannerName = "random"
	TS                PlannerName = "ts"
	POUCT             PlannerName = "po-uct"
	POUCTAbstraction  PlannerName = "po-uct-abstraction"
)

// BeliefName is one of the closed set of belief strategies spec.md §6
// recognizes.
type BeliefName string

// Beliefs recognized by the core.
const (
	PointEstimate       BeliefName = "point_estimate"
	RejectionSampling   BeliefName = "rejection_sampling"
	ImportanceSampling  BeliefName = "importance_sampling"
	Reinvigoration      BeliefName = "reinvigoration"
	MHNIPS              BeliefName = "mh-nips"
	MHWithinGibbs       BeliefName = "mh-within-gibbs"
	CheatingReinvigoration BeliefName = "cheating-reinvigoration"
	Incubator           BeliefName = "incubator"
	Nested              BeliefName = "nested"
)

// StructurePrior is one of the closed set of factored-BA structure priors
// spec.md §6 recognizes. The empty string selects the same
// correct-structure prior as MatchCounts.
type StructurePrior string

// Structure priors recognized by the core.
const (
	NoStructurePrior StructurePrior = ""
	UniformStructure StructurePrior = "uniform"
	MatchCounts      StructurePrior = "match-counts"
	MatchUniform     StructurePrior = "match-uniform"
	FullyConnected   StructurePrior = "fully-connected"
)

// DirichletSamplingMethod selects how a BA belief draws a dynamics sample
// from its Dirichlet counts.
type DirichletSamplingMethod string

// Dirichlet sampling methods recognized by the core.
const (
	RegularSampling DirichletSamplingMethod = "regular"
	ExpectedSampling DirichletSamplingMethod = "expected"
)

// Global holds the top-level run parameters.
type Global struct {
	NumRuns     int         `mapstructure:"num_runs"`
	NumEpisodes int         `mapstructure:"num_episodes"`
	Horizon     int         `mapstructure:"horizon"`
	Discount    float64     `mapstructure:"discount"`
	Planner     PlannerName `mapstructure:"planner"`
	Belief      BeliefName  `mapstructure:"belief"`
	Seed        string      `mapstructure:"seed"`
	ID          string      `mapstructure:"id"`
	OutputFile  string      `mapstructure:"output_file"`
	Verbose     int         `mapstructure:"verbose"`
}

// Planner holds the planner-specific options.
type Planner struct {
	SimulationAmount     int     `mapstructure:"simulation_amount"`
	MillisecondsThinking int     `mapstructure:"milliseconds_thinking"`
	MaxDepth             int     `mapstructure:"max_depth"`
	ExplorationConstant  float64 `mapstructure:"exploration_constant"`
	AbstractionK         int     `mapstructure:"abstraction_k"`
}

// Belief holds the belief-specific options.
type Belief struct {
	ParticleAmount int     `mapstructure:"particle_amount"`
	ResampleAmount int     `mapstructure:"resample_amount"`
	Threshold      float64 `mapstructure:"threshold"`
	Option         string  `mapstructure:"option"`
}

// BA holds the Bayes-Adaptive dynamics-model options.
type BA struct {
	NumEpisodes             int                     `mapstructure:"num_episodes"`
	Noise                   float64                 `mapstructure:"noise"`
	CountsTotal             float64                 `mapstructure:"counts_total"`
	DirichletSamplingMethod DirichletSamplingMethod `mapstructure:"dirichlet_sampling_method"`
}

// FactoredBA holds the options specific to the factored variant.
type FactoredBA struct {
	StructurePrior StructurePrior `mapstructure:"structure_prior"`
}

// Domain holds the options used to construct the concrete domain.
type Domain struct {
	Name            string `mapstructure:"domain"`
	Size            int    `mapstructure:"size"`
	Height          int    `mapstructure:"height"`
	Width           int    `mapstructure:"width"`
	Abstraction     bool   `mapstructure:"abstraction"`
	StoreStatespace bool   `mapstructure:"store_statespace"`
}

// Config is the full configuration record spec.md §6 describes. The
// mapstructure tags on its fields let Load decode a config file laid out
// in spec.md §6's own section names (global/planner/belief/ba/
// factored_ba/domain) straight into the structs below.
type Config struct {
	Global     Global     `mapstructure:"global"`
	Planner    Planner    `mapstructure:"planner"`
	Belief     Belief     `mapstructure:"belief"`
	BA         BA         `mapstructure:"ba"`
	FactoredBA FactoredBA `mapstructure:"factored_ba"`
	Domain     Domain     `mapstructure:"domain"`
}

// reinvigorates reports whether a belief is one of the strategies that
// require a positive resample amount (spec.md §6): the three reinvigoration
// strategies use it as the number of particles replaced per update, and
// Nested additionally overloads it as its bottom (domain-state) filter
// size — there is no separate config field for that second particle count.
func (b BeliefName) reinvigorates() bool {
	return b == Reinvigoration || b == CheatingReinvigoration || b == Incubator || b == Nested
}

// Validate checks every recognized option against the rule spec.md §6
// states for it, returning a single wrapped ErrConfigInvalid describing
// the first violation found.
func (c Config) Validate() error {
	switch {
	case c.Global.NumRuns <= 0:
		return fmt.Errorf("%w: num_runs must be greater than 0, got %d", ErrConfigInvalid, c.Global.NumRuns)
	case c.Global.NumEpisodes <= 0:
		return fmt.Errorf("%w: num_episodes must be greater than 0, got %d", ErrConfigInvalid, c.Global.NumEpisodes)
	case c.Global.Horizon <= 0:
		return fmt.Errorf("%w: horizon must be greater than 0, got %d", ErrConfigInvalid, c.Global.Horizon)
	case c.Global.Discount <= 0 || c.Global.Discount > 1:
		return fmt.Errorf("%w: discount must be in (0,1], got %v", ErrConfigInvalid, c.Global.Discount)
	case !validPlanner(c.Global.Planner):
		return fmt.Errorf("%w: unrecognized planner %q", ErrConfigInvalid, c.Global.Planner)
	case !validBelief(c.Global.Belief):
		return fmt.Errorf("%w: unrecognized belief %q", ErrConfigInvalid, c.Global.Belief)
	case c.Global.Verbose < 0 || c.Global.Verbose > 4:
		return fmt.Errorf("%w: verbose must be in [0,4], got %d", ErrConfigInvalid, c.Global.Verbose)
	}

	if c.Planner.SimulationAmount <= 0 && c.Planner.MillisecondsThinking <= 0 {
		return fmt.Errorf("%w: exactly one of simulation_amount or milliseconds_thinking must be positive", ErrConfigInvalid)
	}
	if c.Planner.SimulationAmount > 0 && c.Planner.MillisecondsThinking > 0 {
		return fmt.Errorf("%w: only one of simulation_amount or milliseconds_thinking may be positive", ErrConfigInvalid)
	}
	if c.Planner.MaxDepth < -1 {
		return fmt.Errorf("%w: max_depth must be -1 or greater, got %d", ErrConfigInvalid, c.Planner.MaxDepth)
	}
	if c.Planner.ExplorationConstant < 0 {
		return fmt.Errorf("%w: exploration_constant must be non-negative, got %v", ErrConfigInvalid, c.Planner.ExplorationConstant)
	}

	if c.Belief.ParticleAmount <= 0 {
		return fmt.Errorf("%w: particle_amount must be greater than 0, got %d", ErrConfigInvalid, c.Belief.ParticleAmount)
	}
	if c.Belief.ResampleAmount < 0 {
		return fmt.Errorf("%w: resample_amount must be non-negative, got %d", ErrConfigInvalid, c.Belief.ResampleAmount)
	}
	needsResample := c.Global.Belief.reinvigorates()
	if needsResample && c.Belief.ResampleAmount <= 0 {
		return fmt.Errorf("%w: resample_amount must be greater than 0 for belief %q", ErrConfigInvalid, c.Global.Belief)
	}
	if !needsResample && c.Belief.ResampleAmount != 0 {
		return fmt.Errorf("%w: resample_amount must be 0 for belief %q", ErrConfigInvalid, c.Global.Belief)
	}

	if c.BA.NumEpisodes <= 0 {
		return fmt.Errorf("%w: ba.num_episodes must be greater than 0, got %d", ErrConfigInvalid, c.BA.NumEpisodes)
	}
	if c.BA.Noise <= -0.5 || c.BA.Noise >= 0.5 {
		return fmt.Errorf("%w: ba.noise must be in (-0.5,0.5), got %v", ErrConfigInvalid, c.BA.Noise)
	}
	if c.BA.CountsTotal < 1 {
		return fmt.Errorf("%w: ba.counts_total must be at least 1, got %v", ErrConfigInvalid, c.BA.CountsTotal)
	}
	if c.BA.DirichletSamplingMethod != RegularSampling && c.BA.DirichletSamplingMethod != ExpectedSampling {
		return fmt.Errorf("%w: unrecognized dirichlet_sampling_method %q", ErrConfigInvalid, c.BA.DirichletSamplingMethod)
	}

	if !validStructurePrior(c.FactoredBA.StructurePrior) {
		return fmt.Errorf("%w: unrecognized structure_prior %q", ErrConfigInvalid, c.FactoredBA.StructurePrior)
	}

	if c.Domain.Name == "" {
		return fmt.Errorf("%w: domain must be set", ErrConfigInvalid)
	}
	if c.Domain.Size < 0 || c.Domain.Height < 0 || c.Domain.Width < 0 {
		return fmt.Errorf("%w: domain size/height/width must be non-negative", ErrConfigInvalid)
	}

	return nil
}

func validPlanner(p PlannerName) bool {
	switch p {
	case Random, TS, POUCT, POUCTAbstraction:
		return true
	default:
		return false
	}
}

func validBelief(b BeliefName) bool {
	switch b {
	case PointEstimate, RejectionSampling, ImportanceSampling, Reinvigoration,
		MHNIPS, MHWithinGibbs, CheatingReinvigoration, Incubator, Nested:
		return true
	default:
		return false
	}
}

func validStructurePrior(s StructurePrior) bool {
	switch s {
	case NoStructurePrior, UniformStructure, MatchCounts, MatchUniform, FullyConnected:
		return true
	default:
		return false
	}
}
