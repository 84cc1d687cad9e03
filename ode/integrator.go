package ode

import (
	"context"
	"errors"
)

// Sentinel errors for ode operations.
var (
	// ErrDiverged indicates the integrator's step size collapsed below
	// MinStep without meeting the error tolerance, or that more than MaxSteps
	// steps were attempted — spec.md §4.2 "integrator
	// divergence is surfaced as a fatal iteration error".
	ErrDiverged = errors.New("ode: integrator diverged")

	// ErrNonFinite indicates a derivative evaluation produced NaN/Inf.
	ErrNonFinite = errors.New("ode: non-finite state or derivative")

	// ErrCancelled indicates the supplied context was cancelled mid-integration.
	ErrCancelled = errors.New("ode: cancelled")

	// ErrInvalidSpan indicates t1 < t0.
	ErrInvalidSpan = errors.New("ode: invalid time span")
)

// Func computes the state derivative dx/dt at (t, x), writing into dx.
// Implementations must not retain x or dx beyond the call.
type Func func(t float64, x, dx []float64)

// EventFunc evaluates a scalar function of (t, x) whose sign crossing
// signals a state-triggered event (spec.md §4.2, state-triggered variant).
// A zero or sign change between two consecutive samples is a crossing.
type EventFunc struct {
	// Eval returns the event indicator's value at (t, x).
	Eval func(t float64, x []float64) float64
	// JumpMap transforms the state across the event (identity if nil).
	JumpMap func(t float64, x []float64) []float64
}

// Options configures an integration run.
type Options struct {
	AbsTol      float64 // per-component absolute error tolerance
	RelTol      float64 // per-component relative error tolerance
	InitialStep float64 // first trial step size
	MaxStep     float64 // largest permitted step size
	MinStep     float64 // smallest permitted step size before ErrDiverged
	MaxSteps    int     // hard cap on accepted+rejected steps before ErrDiverged; <= 0 disables it
	EventTol    float64 // root-finding tolerance for state-triggered events
}

// DefaultOptions returns reasonable defaults, scaled by the caller's tol.
func DefaultOptions(tol float64) Options {
	return Options{
		AbsTol:      tol,
		RelTol:      tol,
		InitialStep: 1e-2,
		MaxStep:     0.5,
		MinStep:     1e-9,
		MaxSteps:    100000,
		EventTol:    1e-9,
	}
}

// Sample is one recorded point of an integration result.
type Sample struct {
	T float64
	X []float64
}

// Result is the outcome of one Integrate call.
type Result struct {
	// Samples are the accepted steps, in increasing time order, including
	// the initial and final samples.
	Samples []Sample
	// EventIndex is the index into Samples at which a state-triggered event
	// fired (-1 if none fired during this call).
	EventIndex int
	// EventID identifies which EventFunc fired, if EventIndex >= 0.
	EventID int
}

// Integrator is the abstract contract the rollout and Riccati engines step
// against. spec.md treats concrete integrators as an external collaborator;
// Dopri45 below is the default implementation.
type Integrator interface {
	// Integrate advances x from (t0, x0) to t1 under f, stopping early (and
	// reporting the crossing) the first time one of events fires. stops are
	// additional mandatory integration-stop times (time-triggered events,
	// spec.md §4.2) at which the integrator must land exactly.
	Integrate(ctx context.Context, f Func, t0 float64, x0 []float64, t1 float64, events []EventFunc, stops []float64, opts Options) (Result, error)
}
