package slq

import (
	"time"

	"github.com/katalvlaran/slq/ode"
)

// Settings holds every tunable of the solve (spec.md §4.6, §4.3, §4.4). The
// zero value is not usable; construct via NewSettings.
type Settings struct {
	Beta            float64 // line-search contraction factor, (0,1)
	AlphaMin        float64 // smallest step size tried, (0,1]
	DescentFraction float64 // sufficient-decrease fraction, (0,1]

	RankTol  float64 // D pseudo-inverse rank-revealing tolerance
	PsdFloor float64 // Qc eigenvalue floor after projection

	ConstraintStepSize float64 // eta in (0,1], the type-1 error-correction step

	PenaltyWeight float64 // type-2 terminal/event constraint quadratic penalty weight

	MaxIterations int
	CostTol       float64 // relative cost-change termination tolerance
	ConstraintTol float64 // ISE1/ISE2 termination tolerance

	Integrator     ode.Integrator
	IntegratorOpts ode.Options

	ParallelApproximation bool // C3 execution mode
	ParallelRiccati       bool // C4 execution mode
	ParallelLineSearch    bool // C6 execution mode
	LineSearchBudget      time.Duration
}

// Validate fails fast on an unusable Settings, the same gate-function idiom
// as linalg.ValidateNotNil/ValidateSameShape (spec.md §7: a malformed
// configuration is reported before any iteration runs, as a fatal error).
func (s Settings) Validate() error {
	switch {
	case s.Beta <= 0 || s.Beta >= 1:
		return ErrInvalidBeta
	case s.AlphaMin <= 0 || s.AlphaMin > 1:
		return ErrInvalidAlphaMin
	case s.DescentFraction <= 0 || s.DescentFraction > 1:
		return ErrInvalidDescentFraction
	case s.RankTol <= 0:
		return ErrNonPositiveRankTol
	case s.PsdFloor < 0:
		return ErrNegativePsdFloor
	case s.ConstraintStepSize <= 0 || s.ConstraintStepSize > 1:
		return ErrInvalidConstraintStepSize
	case s.PenaltyWeight < 0:
		return ErrNegativePenaltyWeight
	case s.MaxIterations < 0:
		return ErrNegativeMaxIterations
	case s.CostTol <= 0:
		return ErrNonPositiveCostTol
	case s.ConstraintTol <= 0:
		return ErrNonPositiveConstraintTol
	case s.Integrator == nil:
		return ErrNilIntegrator
	default:
		return nil
	}
}

// SettingsOption mutates a Settings being built by NewSettings.
type SettingsOption func(*Settings)

// NewSettings returns a Settings with the default solve policy (backtracking
// beta=0.5, descent fraction 0.1, rank tolerance/PSD floor 1e-9, full
// constraint step, 50 iterations) customized by any number of opts, applied
// in order (later options override earlier ones).
func NewSettings(opts ...SettingsOption) Settings {
	s := Settings{
		Beta:               0.5,
		AlphaMin:           1.0 / 1024,
		DescentFraction:    0.1,
		RankTol:            1e-9,
		PsdFloor:           1e-9,
		ConstraintStepSize: 1.0,
		PenaltyWeight:      1e3,
		MaxIterations:      50,
		CostTol:            1e-6,
		ConstraintTol:      1e-6,
		Integrator:         ode.Dopri45{},
		IntegratorOpts:     ode.DefaultOptions(1e-8),
	}
	for _, opt := range opts {
		opt(&s)
	}

	return s
}

// WithBacktracking sets the line-search contraction factor and minimum step.
func WithBacktracking(beta, alphaMin float64) SettingsOption {
	return func(s *Settings) { s.Beta, s.AlphaMin = beta, alphaMin }
}

// WithDescentFraction sets the sufficient-decrease acceptance fraction.
func WithDescentFraction(frac float64) SettingsOption {
	return func(s *Settings) { s.DescentFraction = frac }
}

// WithProjectionTolerances sets the pseudo-inverse rank tolerance and the
// post-projection PSD eigenvalue floor.
func WithProjectionTolerances(rankTol, psdFloor float64) SettingsOption {
	return func(s *Settings) { s.RankTol, s.PsdFloor = rankTol, psdFloor }
}

// WithConstraintStepSize sets eta, the type-1 error-correction step size.
func WithConstraintStepSize(eta float64) SettingsOption {
	return func(s *Settings) { s.ConstraintStepSize = eta }
}

// WithPenaltyWeight sets the type-2 terminal/event constraint quadratic
// penalty weight.
func WithPenaltyWeight(w float64) SettingsOption {
	return func(s *Settings) { s.PenaltyWeight = w }
}

// WithIterationLimits sets the iteration cap and the cost/constraint
// termination tolerances.
func WithIterationLimits(maxIter int, costTol, constraintTol float64) SettingsOption {
	return func(s *Settings) { s.MaxIterations, s.CostTol, s.ConstraintTol = maxIter, costTol, constraintTol }
}

// WithIntegrator overrides the default Dormand-Prince integrator and its
// tolerances.
func WithIntegrator(integrator ode.Integrator, opts ode.Options) SettingsOption {
	return func(s *Settings) { s.Integrator, s.IntegratorOpts = integrator, opts }
}

// WithParallel toggles C3's, C4's, and C6's parallel execution modes.
func WithParallel(approximation, riccati, lineSearch bool) SettingsOption {
	return func(s *Settings) {
		s.ParallelApproximation, s.ParallelRiccati, s.ParallelLineSearch = approximation, riccati, lineSearch
	}
}

// WithLineSearchBudget sets C6's soft wall-clock budget; zero disables it.
func WithLineSearchBudget(d time.Duration) SettingsOption {
	return func(s *Settings) { s.LineSearchBudget = d }
}
