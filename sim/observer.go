package sim

import "github.com/pflow-xyz/shpn/petri"

// StepOutcome reports what happened during one Controller.Step call: the
// discrete transition fired (if any), how many times (burst), which
// continuous transitions were integrated, and any non-fatal rate-eval
// errors encountered along the way (spec §10: errors are carried on the
// outcome, not panicked).
type StepOutcome struct {
	Time              float64
	FiredTransition   *petri.Transition
	Burst             int
	ContinuousFired   []*petri.Transition
	Errors            []error
}

// Observer receives a StepOutcome after every step. The data collector is
// the canonical observer; cmd/shpnsim's websocket sink is another.
type Observer interface {
	OnStep(StepOutcome)
}

// ObserverFunc adapts a plain function to Observer.
type ObserverFunc func(StepOutcome)

func (f ObserverFunc) OnStep(o StepOutcome) { f(o) }
