package behavior

import (
	"math/rand"
	"testing"

	"github.com/pflow-xyz/shpn/petri"
)

func newCtx(net *petri.Net, now float64, seed int64) *Context {
	return &Context{
		Net:    net,
		Matrix: petri.BuildMatrix(net),
		Now:    now,
		Rng:    rand.New(rand.NewSource(seed)),
	}
}

func TestImmediateFiresWhenEnabled(t *testing.T) {
	bld := petri.Build().
		Place("A", 1).
		Place("B", 0).
		Transition("t1", petri.Immediate)
	bld.Arc("A", "t1", 1).Arc("t1", "B", 1)
	net := bld.MustDone()

	ctx := newCtx(net, 0, 1)
	var b Immediate
	st := &State{}

	if !b.CanFire(bld.TransitionByName("t1"), st, ctx) {
		t.Fatal("expected t1 to be fireable")
	}
	out, err := b.Fire(bld.TransitionByName("t1"), st, ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !out.Fired || out.Burst != 1 {
		t.Errorf("expected Fired burst 1, got %+v", out)
	}
	if bld.PlaceByName("A").Tokens != 0 || bld.PlaceByName("B").Tokens != 1 {
		t.Error("firing should move the token")
	}
}

func TestTimedRequiresWindowToOpen(t *testing.T) {
	bld := petri.Build().
		Place("A", 1).
		Transition("t1", petri.Timed)
	bld.Arc("A", "t1", 1)
	net := bld.MustDone()
	tr := bld.TransitionByName("t1")
	tr.Earliest = 5
	tr.Latest = 10

	var b Timed
	st := &State{}
	ctx := newCtx(net, 0, 1)
	b.OnEnabled(tr, st, ctx)

	if b.CanFire(tr, st, ctx) {
		t.Error("should not be fireable before the window opens")
	}

	ctx2 := newCtx(net, 6, 1)
	if !b.CanFire(tr, st, ctx2) {
		t.Error("should be fireable once inside the window")
	}
	if !b.IsUrgent(tr, st, newCtx(net, 11, 1)) {
		t.Error("should be urgent once past the window close")
	}
}

func TestStochasticBurstFallsBackToLargestFeasible(t *testing.T) {
	bld := petri.Build().
		Place("A", 2).
		Place("B", 0).
		Transition("t1", petri.Stochastic)
	bld.Arc("A", "t1", 1).Arc("t1", "B", 1)
	net := bld.MustDone()
	tr := bld.TransitionByName("t1")
	tr.Rate = 10
	tr.MaxBurst = 5

	var b Stochastic
	st := &State{}
	ctx := newCtx(net, 0, 1)
	b.OnEnabled(tr, st, ctx)
	st.NextFireAt = 0 // force eligibility regardless of sampled delay
	st.SampledBurst = 5
	st.HasSampledBurst = true // force the sampled burst above what tokens allow

	fireCtx := newCtx(net, 1, 1)
	fireCtx.Matrix = petri.BuildMatrix(net)
	out, err := b.Fire(tr, st, fireCtx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Burst != 2 {
		t.Errorf("expected burst of 2 (limited by available tokens, clamped below the sampled burst of 5), got %d", out.Burst)
	}
	if bld.PlaceByName("A").Tokens != 0 || bld.PlaceByName("B").Tokens != 2 {
		t.Error("burst firing should move all available tokens")
	}
}

func TestStochasticSamplesBurstWithinRange(t *testing.T) {
	bld := petri.Build().
		Place("A", 100).
		Transition("t1", petri.Stochastic)
	bld.Arc("A", "t1", 1)
	net := bld.MustDone()
	tr := bld.TransitionByName("t1")
	tr.Rate = 10
	tr.MaxBurst = 4

	var b Stochastic
	for seed := int64(1); seed <= 20; seed++ {
		st := &State{}
		ctx := newCtx(net, 0, seed)
		b.OnEnabled(tr, st, ctx)
		if !st.HasSampledBurst {
			t.Fatal("expected OnEnabled to sample a burst")
		}
		if st.SampledBurst < 1 || st.SampledBurst > tr.MaxBurst {
			t.Errorf("sampled burst %d out of range [1, %d]", st.SampledBurst, tr.MaxBurst)
		}
	}
}

func TestContinuousNeverADiscreteCandidate(t *testing.T) {
	var b Continuous
	if b.CanFire(nil, nil, nil) {
		t.Error("continuous transitions must never be discrete candidates")
	}
}

func TestContinuousIntegrateAppliesFlux(t *testing.T) {
	bld := petri.Build().
		Place("S", 100).
		Place("P", 0).
		Transition("react", petri.Continuous)
	bld.Arc("S", "react", 1).Arc("react", "P", 1)
	net := bld.MustDone()
	tr := bld.TransitionByName("react")
	tr.RateExpr = "k * S"
	tr.Params = map[string]float64{"k": 0.1}

	var b Continuous
	st := &State{}
	ctx := newCtx(net, 0, 1)

	if err := b.Integrate(tr, st, ctx, 1.0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if bld.PlaceByName("S").Tokens >= 100 {
		t.Error("expected S to decrease")
	}
	if bld.PlaceByName("P").Tokens <= 0 {
		t.Error("expected P to increase")
	}
}

func TestContinuousIntegrateNeverGoesNegative(t *testing.T) {
	bld := petri.Build().
		Place("S", 1).
		Place("P", 0).
		Transition("react", petri.Continuous)
	bld.Arc("S", "react", 1).Arc("react", "P", 1)
	net := bld.MustDone()
	tr := bld.TransitionByName("react")
	tr.RateExpr = "k"
	tr.Params = map[string]float64{"k": 100}

	var b Continuous
	st := &State{}
	ctx := newCtx(net, 0, 1)

	if err := b.Integrate(tr, st, ctx, 1.0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if bld.PlaceByName("S").Tokens < 0 {
		t.Error("tokens should never go negative")
	}
}

func TestFactoryInvalidatesOnKindChange(t *testing.T) {
	bld := petri.Build().
		Place("A", 1).
		Transition("t1", petri.Immediate)
	bld.Arc("A", "t1", 1)
	net := bld.MustDone()

	f := NewFactory(net)
	tr := bld.TransitionByName("t1")
	_, st1 := f.Get(tr)
	st1.HasEnabledSince = true

	net.SetKind(tr, petri.Stochastic)
	b2, st2 := f.Get(tr)

	if st2 == st1 {
		t.Error("changing kind should invalidate cached state")
	}
	if b2.Kind() != petri.Stochastic {
		t.Error("factory should return the behavior for the new kind")
	}
}

func TestFactoryResetClearsEverything(t *testing.T) {
	bld := petri.Build().
		Place("A", 1).
		Transition("t1", petri.Immediate)
	bld.Arc("A", "t1", 1)
	net := bld.MustDone()

	f := NewFactory(net)
	tr := bld.TransitionByName("t1")
	_, st1 := f.Get(tr)

	f.Reset()
	_, st2 := f.Get(tr)
	if st1 == st2 {
		t.Error("Reset should drop all cached state")
	}
}
