package sim

import (
	"testing"

	"github.com/pflow-xyz/shpn/conflict"
	"github.com/pflow-xyz/shpn/petri"
)

func TestStepFiresImmediateTransition(t *testing.T) {
	bld := petri.Build().
		Place("A", 1).
		Place("B", 0).
		Transition("t1", petri.Immediate)
	bld.Arc("A", "t1", 1).Arc("t1", "B", 1)
	net := bld.MustDone()

	c := NewController(net, Config{Dt: 1, Seed: 1, Policy: conflict.Priority})
	out := c.Step(1)

	if out.FiredTransition != bld.TransitionByName("t1") {
		t.Errorf("expected t1 to fire, got %v", out.FiredTransition)
	}
	if bld.PlaceByName("B").Tokens != 1 {
		t.Error("expected token moved to B")
	}
	if c.Now() != 1 {
		t.Errorf("expected clock to advance to 1, got %f", c.Now())
	}
}

func TestStepIntegratesContinuousTransitions(t *testing.T) {
	bld := petri.Build().
		Place("S", 100).
		Place("P", 0).
		Transition("react", petri.Continuous)
	bld.Arc("S", "react", 1).Arc("react", "P", 1)
	net := bld.MustDone()
	tr := bld.TransitionByName("react")
	tr.RateExpr = "k * S"
	tr.Params = map[string]float64{"k": 0.01}

	c := NewController(net, Config{Dt: 1, Seed: 1, Policy: conflict.Priority})
	out := c.Step(1)

	if len(out.ContinuousFired) != 1 {
		t.Fatalf("expected 1 continuous integration, got %d", len(out.ContinuousFired))
	}
	if bld.PlaceByName("P").Tokens <= 0 {
		t.Error("expected P to increase from continuous flow")
	}
}

func TestObserverReceivesStepOutcome(t *testing.T) {
	bld := petri.Build().
		Place("A", 1).
		Transition("t1", petri.Immediate)
	bld.Arc("A", "t1", 1)
	net := bld.MustDone()

	c := NewController(net, Config{Dt: 1, Seed: 1, Policy: conflict.Priority})
	var seen []StepOutcome
	c.AddObserver(ObserverFunc(func(o StepOutcome) { seen = append(seen, o) }))

	c.Step(1)
	if len(seen) != 1 {
		t.Fatalf("expected 1 observed step, got %d", len(seen))
	}
}

func TestResetRestoresInitialMarkingAndClock(t *testing.T) {
	bld := petri.Build().
		Place("A", 1).
		Place("B", 0).
		Transition("t1", petri.Immediate)
	bld.Arc("A", "t1", 1).Arc("t1", "B", 1)
	net := bld.MustDone()

	c := NewController(net, Config{Dt: 1, Seed: 1, Policy: conflict.Priority})
	c.Step(1)
	c.Reset()

	if c.Now() != 0 {
		t.Errorf("expected clock reset to 0, got %f", c.Now())
	}
	if bld.PlaceByName("A").Tokens != 1 || bld.PlaceByName("B").Tokens != 0 {
		t.Error("expected marking restored to initial")
	}
}

func TestRunUntilDetectsDeadlock(t *testing.T) {
	bld := petri.Build().
		Place("A", 0).
		Transition("t1", petri.Immediate)
	bld.Arc("A", "t1", 1)
	net := bld.MustDone()

	c := NewController(net, Config{Dt: 1, Seed: 1, Policy: conflict.Priority, MaxDeadlockSteps: 3})
	result := c.RunUntil(100)

	if !result.Deadlocked {
		t.Error("expected deadlock to be detected with no fireable transitions")
	}
	if result.Steps != 3 {
		t.Errorf("expected exactly 3 steps before deadlock, got %d", result.Steps)
	}
}

func TestRunUntilReachesEndTime(t *testing.T) {
	bld := petri.Build().
		Place("S", 100).
		Place("P", 0).
		Transition("react", petri.Continuous)
	bld.Arc("S", "react", 1).Arc("react", "P", 1)
	net := bld.MustDone()
	tr := bld.TransitionByName("react")
	tr.RateExpr = "k"
	tr.Params = map[string]float64{"k": 1}

	c := NewController(net, Config{Dt: 1, Seed: 1, Policy: conflict.Priority, MaxDeadlockSteps: 0})
	result := c.RunUntil(10)

	if result.Deadlocked {
		t.Error("continuous flow should keep the run from deadlocking")
	}
	if c.Now() < 10 {
		t.Errorf("expected clock to reach 10, got %f", c.Now())
	}
}

func TestDeterministicGivenSameSeed(t *testing.T) {
	build := func() *petri.Net {
		bld := petri.Build().
			Place("A", 5).
			Place("B", 0).
			Transition("t1", petri.Stochastic)
		bld.Arc("A", "t1", 1).Arc("t1", "B", 1)
		net := bld.MustDone()
		bld.TransitionByName("t1").Rate = 2
		return net
	}

	run := func() []float64 {
		net := build()
		c := NewController(net, Config{Dt: 0.1, Seed: 42, Policy: conflict.Priority, MaxDeadlockSteps: 0})
		var times []float64
		c.AddObserver(ObserverFunc(func(o StepOutcome) {
			if o.FiredTransition != nil {
				times = append(times, o.Time)
			}
		}))
		c.RunUntil(5)
		return times
	}

	a := run()
	b := run()
	if len(a) != len(b) {
		t.Fatalf("expected identical firing counts, got %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("expected identical firing time at index %d, got %f vs %f", i, a[i], b[i])
		}
	}
}
