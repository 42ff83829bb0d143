package main

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/pflow-xyz/shpn/conflict"
	"github.com/pflow-xyz/shpn/sim"
)

// runConfig holds the values step/run/watch share, overridable from a
// config file loaded through viper (YAML/TOML/JSON; environment variables
// are not read), mirroring the
// teacher's own ambient-config-file pattern.
type runConfig struct {
	Dt               float64
	Seed             int64
	Policy           string
	MaxDeadlockSteps int
}

func defaultRunConfig() runConfig {
	d := sim.DefaultConfig()
	return runConfig{
		Dt:               d.Dt,
		Seed:             d.Seed,
		Policy:           d.Policy.String(),
		MaxDeadlockSteps: d.MaxDeadlockSteps,
	}
}

// loadRunConfig reads configPath (if non-empty) over the defaults using
// viper, so a --config file can override dt/seed/policy/deadlock-steps
// without a dedicated flag per field.
func loadRunConfig(configPath string) (runConfig, error) {
	cfg := defaultRunConfig()
	if configPath == "" {
		return cfg, nil
	}

	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetDefault("dt", cfg.Dt)
	v.SetDefault("seed", cfg.Seed)
	v.SetDefault("policy", cfg.Policy)
	v.SetDefault("max_deadlock_steps", cfg.MaxDeadlockSteps)

	if err := v.ReadInConfig(); err != nil {
		return cfg, fmt.Errorf("read config %s: %w", configPath, err)
	}

	cfg.Dt = v.GetFloat64("dt")
	cfg.Seed = v.GetInt64("seed")
	cfg.Policy = v.GetString("policy")
	cfg.MaxDeadlockSteps = v.GetInt("max_deadlock_steps")
	return cfg, nil
}

func (c runConfig) toSimConfig() sim.Config {
	return sim.Config{
		Dt:               c.Dt,
		Seed:             c.Seed,
		Policy:           conflict.ParsePolicy(c.Policy),
		MaxDeadlockSteps: c.MaxDeadlockSteps,
	}
}
