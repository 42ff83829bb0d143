package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/pflow-xyz/shpn/collector"
	"github.com/pflow-xyz/shpn/persist"
	"github.com/pflow-xyz/shpn/sim"
)

func run(args []string) error {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	timeEnd := fs.Float64("time", 100.0, "End time for the run")
	dt := fs.Float64("dt", 0, "Step size override (0 = use config default)")
	seed := fs.Int64("seed", 0, "PRNG seed override (0 = use config default)")
	policy := fs.String("policy", "", "Conflict policy override: random|priority|type|round_robin")
	configPath := fs.String("config", "", "Optional config file (yaml/toml/json) for dt/seed/policy")
	output := fs.String("output", "", "Optional .shy file to save the final state to")
	trace := fs.String("trace", "", "Optional sqlite file to record the full place/transition trace to")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: shpnsim run --time <t> [options] <model.shy>

Run a model from its current marking to the given end time, or until
MaxDeadlockSteps consecutive idle steps are observed.

Options:
`)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		fs.Usage()
		return fmt.Errorf("model file required")
	}

	rc, err := loadRunConfig(*configPath)
	if err != nil {
		return err
	}
	if *dt != 0 {
		rc.Dt = *dt
	}
	if *seed != 0 {
		rc.Seed = *seed
	}
	if *policy != "" {
		rc.Policy = *policy
	}

	net, _, err := persist.LoadFile(fs.Arg(0))
	if err != nil {
		return fmt.Errorf("load model: %w", err)
	}

	ctrl := sim.NewController(net, rc.toSimConfig())

	coll := collector.New(net)
	ctrl.AddObserver(coll)

	if *trace != "" {
		sink, err := collector.OpenSQLiteSink(*trace, net)
		if err != nil {
			return fmt.Errorf("open trace sink: %w", err)
		}
		defer sink.Close()
		ctrl.AddObserver(sink)
	}

	result := ctrl.RunUntil(*timeEnd)

	fmt.Printf("steps: %d\n", result.Steps)
	if result.Deadlocked {
		fmt.Println("status: deadlocked")
	} else {
		fmt.Println("status: reached end time")
	}
	for _, p := range net.Places() {
		stats := coll.PlaceStatistics(p)
		fmt.Printf("  %s: last=%.4f min=%.4f max=%.4f mean=%.4f\n", p.Name, stats.Last, stats.Min, stats.Max, stats.Mean)
	}

	if *output != "" {
		if err := persist.SaveFile(*output, net, fs.Arg(0)); err != nil {
			return fmt.Errorf("save result: %w", err)
		}
	}
	return nil
}
