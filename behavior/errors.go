package behavior

import "errors"

// ErrNotEnabled mirrors petri.ErrNotEnabled for callers that only import
// behavior; returned by Fire when CanFire was not checked first.
var ErrNotEnabled = errors.New("behavior: transition not enabled")

// ErrRateEval wraps a rate-expression evaluation failure from a continuous
// transition's Integrate call. It is non-fatal: the controller records it
// and continues the step (spec §10 ambient stack, StepOutcome).
var ErrRateEval = errors.New("behavior: rate expression evaluation failed")
