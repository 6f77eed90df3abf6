// Command fbapomdp runs one BA-POMDP/FBA-POMDP experiment end to end: load
// a configuration file, build the domain/belief/planner it describes, run
// the configured runs/episodes, and write the result file (spec.md §6).
//
// Usage:
//
//	fbapomdp -config path/to/config.yaml
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/samkatt/fba-pomdp-go/config"
	"github.com/samkatt/fba-pomdp-go/experiment"
	"github.com/samkatt/fba-pomdp-go/randutil"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("fbapomdp", flag.ContinueOnError)
	configPath := fs.String("config", "", "path to a YAML/JSON/TOML configuration file (spec.md §6)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *configPath == "" {
		return fmt.Errorf("fbapomdp: -config is required")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}

	dom, err := buildDomain(cfg)
	if err != nil {
		return err
	}

	newBelief, err := buildNewBelief(cfg, dom)
	if err != nil {
		return err
	}

	p, err := buildPlanner(cfg)
	if err != nil {
		return err
	}

	rng := randutil.New(cfg.Global.Seed)
	exp := experiment.NewOnline(dom, newBelief, p, cfg)

	stats, err := exp.Run(rng)
	if err != nil {
		return fmt.Errorf("fbapomdp: %w", err)
	}

	out, err := os.Create(cfg.Global.OutputFile)
	if err != nil {
		return fmt.Errorf("fbapomdp: creating output file: %w", err)
	}
	defer out.Close()

	if err := experiment.WriteResultFile(out, cfg.Global.ID, stats); err != nil {
		return fmt.Errorf("fbapomdp: %w", err)
	}
	return nil
}
