package config

import (
	"os"
	"path/filepath"
	"testing"
)

const validYAML = `
global:
  num_runs: 2
  num_episodes: 3
  horizon: 10
  discount: 0.95
  planner: po-uct
  belief: rejection_sampling
  seed: seed
  id: run-1
  output_file: out.txt
  verbose: 1
planner:
  simulation_amount: 100
  max_depth: -1
  exploration_constant: 1.0
belief:
  particle_amount: 50
  resample_amount: 0
ba:
  num_episodes: 3
  noise: 0
  counts_total: 100
  dirichlet_sampling_method: regular
factored_ba:
  structure_prior: match-counts
domain:
  domain: coin
  size: 2
`

func writeTempConfig(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

func TestLoadDecodesAndValidatesConfig(t *testing.T) {
	path := writeTempConfig(t, validYAML)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Global.NumRuns != 2 {
		t.Fatalf("NumRuns = %d, want 2", cfg.Global.NumRuns)
	}
	if cfg.Global.Planner != POUCT {
		t.Fatalf("Planner = %q, want %q", cfg.Global.Planner, POUCT)
	}
	if cfg.Planner.SimulationAmount != 100 {
		t.Fatalf("Planner.SimulationAmount = %d, want 100", cfg.Planner.SimulationAmount)
	}
	if cfg.Belief.ParticleAmount != 50 {
		t.Fatalf("Belief.ParticleAmount = %d, want 50", cfg.Belief.ParticleAmount)
	}
	if cfg.Domain.Name != "coin" {
		t.Fatalf("Domain.Name = %q, want %q", cfg.Domain.Name, "coin")
	}
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	path := writeTempConfig(t, "global:\n  num_runs: 0\n")

	if _, err := Load(path); err == nil {
		t.Fatalf("Load() error = nil, want error for an invalid config")
	}
}

func TestLoadRejectsMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("Load() error = nil, want error for a missing file")
	}
}
