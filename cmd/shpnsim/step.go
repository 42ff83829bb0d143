package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/pflow-xyz/shpn/persist"
	"github.com/pflow-xyz/shpn/sim"
)

func step(args []string) error {
	fs := flag.NewFlagSet("step", flag.ExitOnError)
	steps := fs.Int("steps", 1, "Number of steps to advance")
	dt := fs.Float64("dt", 0, "Step size override (0 = use config default)")
	seed := fs.Int64("seed", 0, "PRNG seed override (0 = use config default)")
	policy := fs.String("policy", "", "Conflict policy override: random|priority|type|round_robin")
	configPath := fs.String("config", "", "Optional config file (yaml/toml/json) for dt/seed/policy")
	output := fs.String("output", "", "Optional .shy file to save the resulting state to")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: shpnsim step [options] <model.shy>

Advance a loaded model by a fixed number of steps and print each
resulting StepOutcome.

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
	for i := 0; i < *steps; i++ {
		out := ctrl.Step(rc.Dt)
		printStepOutcome(out)
	}

	if *output != "" {
		if err := persist.SaveFile(*output, net, fs.Arg(0)); err != nil {
			return fmt.Errorf("save result: %w", err)
		}
	}
	return nil
}

func printStepOutcome(out sim.StepOutcome) {
	if out.FiredTransition != nil {
		fmt.Printf("t=%.4f fired=%s burst=%d\n", out.Time, out.FiredTransition.Name, out.Burst)
	} else {
		fmt.Printf("t=%.4f fired=<none>\n", out.Time)
	}
	for _, t := range out.ContinuousFired {
		fmt.Printf("  integrated: %s\n", t.Name)
	}
	for _, e := range out.Errors {
		fmt.Fprintf(os.Stderr, "  integration error: %v\n", e)
	}
}
