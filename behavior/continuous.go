package behavior

import (
	"fmt"

	"github.com/pflow-xyz/shpn/petri"
	"github.com/pflow-xyz/shpn/rateexpr"
)

// compiledRate is the lazily-built, per-transition compiled rate
// expression; the identifier signature it was compiled against is kept
// beside it in State.compiledSource.
type compiledRate = *rateexpr.Expr

// Continuous implements SHPN rate-driven flow: a continuous transition is
// never a discrete firing candidate (CanFire always reports false so the
// conflict resolver never selects it); instead the controller calls
// Integrate every step, advancing the marking of every place the
// transition touches by a classic fixed-step 4-stage Runge-Kutta estimate
// of the compiled rate expression. Each stage is evaluated at its own
// point in simulation time (k1 at now, k2/k3 at now+dt/2, k4 at now+dt),
// and any comp<digits> parameter is bound to 1.0 in the evaluation
// environment rather than used at its real value (spec §4.D).
type Continuous struct{}

func (Continuous) Kind() petri.TransitionKind { return petri.Continuous }

func (Continuous) OnEnabled(*petri.Transition, *State, *Context)  {}
func (Continuous) OnDisabled(*petri.Transition, *State, *Context) {}

// CanFire is always false: continuous transitions never participate in
// discrete conflict resolution.
func (Continuous) CanFire(*petri.Transition, *State, *Context) bool { return false }

func (Continuous) Fire(*petri.Transition, *State, *Context) (Outcome, error) {
	return Outcome{}, nil
}

func (Continuous) Integrate(t *petri.Transition, st *State, ctx *Context, dt float64) error {
	if dt <= 0 {
		return nil
	}
	expr, err := ensureCompiled(t, st, ctx.Net)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRateEval, err)
	}

	connected := connectedPlaces(t, ctx.Matrix)
	base := make(map[*petri.Place]float64, len(connected))
	for _, p := range connected {
		base[p] = p.Tokens
	}

	rate := func(local map[*petri.Place]float64, stageTime float64) (float64, error) {
		env := buildEnv(ctx.Net, t, local, stageTime)
		v, err := expr.Eval(env)
		if err != nil {
			return 0, err
		}
		return v, nil
	}

	k1, err := rate(base, ctx.Now)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRateEval, err)
	}
	k2, err := rate(perturb(base, connected, t, ctx.Matrix, dt/2*k1), ctx.Now+dt/2)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRateEval, err)
	}
	k3, err := rate(perturb(base, connected, t, ctx.Matrix, dt/2*k2), ctx.Now+dt/2)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRateEval, err)
	}
	k4, err := rate(perturb(base, connected, t, ctx.Matrix, dt*k3), ctx.Now+dt)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRateEval, err)
	}

	avg := (k1 + 2*k2 + 2*k3 + k4) / 6

	for _, p := range connected {
		delta := dt * avg * ctx.Matrix.ColumnWeight(p, t)
		p.Tokens += delta
		if p.Tokens < 0 {
			p.Tokens = 0
		}
	}
	return nil
}

func connectedPlaces(t *petri.Transition, m *petri.Matrix) []*petri.Place {
	var out []*petri.Place
	for _, p := range m.Places() {
		if m.ColumnWeight(p, t) != 0 {
			out = append(out, p)
		}
	}
	return out
}

func perturb(base map[*petri.Place]float64, connected []*petri.Place, t *petri.Transition, m *petri.Matrix, scale float64) map[*petri.Place]float64 {
	out := make(map[*petri.Place]float64, len(connected))
	for _, p := range connected {
		out[p] = base[p] + scale*m.ColumnWeight(p, t)
	}
	return out
}

// buildEnv exposes every place in the net (not only ones the transition
// consumes or produces) so a rate expression may reference an
// unconnected place as an environmental influence, per spec §4.D. Places
// currently being perturbed by an in-progress RK4 stage take their local
// value; every other place takes its live token count. Any parameter
// whose name matches comp<digits> is bound to 1.0 rather than its real
// value: token-based simulation has no physical volume, so compartment
// parameters are normalized away in the evaluation environment itself
// rather than divided out of the resulting rate afterward.
func buildEnv(net *petri.Net, t *petri.Transition, local map[*petri.Place]float64, now float64) rateexpr.MapEnv {
	env := make(rateexpr.MapEnv, len(net.Places())+len(t.Params)+1)
	for _, p := range net.Places() {
		if v, ok := local[p]; ok {
			env[p.Name] = v
		} else {
			env[p.Name] = p.Tokens
		}
	}
	for name, v := range t.Params {
		if rateexpr.IsCompartmentParam(name) {
			env[name] = 1.0
		} else {
			env[name] = v
		}
	}
	env["t"] = now
	return env
}

func ensureCompiled(t *petri.Transition, st *State, net *petri.Net) (*rateexpr.Expr, error) {
	sig := compiledSignature(t, net)
	if st.compiledExpr != nil && st.compiledSource == sig {
		return st.compiledExpr, nil
	}
	idents := make(map[string]bool, len(net.Places())+len(t.Params)+1)
	for _, p := range net.Places() {
		idents[p.Name] = true
	}
	for name := range t.Params {
		idents[name] = true
	}
	idents["t"] = true
	expr, err := rateexpr.Compile(t.RateExpr, idents)
	if err != nil {
		return nil, err
	}
	st.compiledExpr = expr
	st.compiledSource = sig
	return expr, nil
}

// compiledSignature changes whenever the rate expression text or the set
// of identifiers it could legally reference changes, forcing a recompile.
func compiledSignature(t *petri.Transition, net *petri.Net) string {
	sig := t.RateExpr + "|"
	for _, p := range net.Places() {
		sig += p.Name + ","
	}
	sig += "|"
	for name := range t.Params {
		sig += name + ","
	}
	return sig
}
