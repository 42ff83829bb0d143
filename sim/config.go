package sim

import "github.com/pflow-xyz/shpn/conflict"

// Config is a plain struct-literal configuration object passed to
// NewController, in the same style as solver.Options/DefaultOptions in
// the teacher's own solver package — not a flag/env framework.
type Config struct {
	// Dt is the fixed global simulation step (spec §9 Open Question:
	// no per-transition adaptive step size).
	Dt float64
	// Seed initializes the single PRNG shared by stochastic sampling and
	// the conflict resolver's random policy (spec §4.G).
	Seed int64
	// Policy selects how simultaneous discrete candidates are resolved.
	Policy conflict.Policy
	// MaxDeadlockSteps is the number of consecutive steps with neither a
	// discrete firing nor a successful continuous integration before
	// RunUntil reports a deadlock. Zero disables deadlock detection.
	MaxDeadlockSteps int
}

// DefaultConfig mirrors solver.DefaultOptions()'s role: reasonable
// defaults for ad hoc use and tests.
func DefaultConfig() Config {
	return Config{
		Dt:               0.01,
		Seed:             1,
		Policy:           conflict.Priority,
		MaxDeadlockSteps: 1000,
	}
}
