package slq

import (
	"github.com/katalvlaran/slq/model"
	"github.com/katalvlaran/slq/rollout"
	"github.com/katalvlaran/slq/schedule"
)

// Problem bundles everything that does not change across iterations: the
// mode/hybrid-logic schedule, per-subsystem dynamics/cost/constraint, the
// terminal cost/constraint shared by every event boundary and the horizon
// end, and the rollout configuration.
type Problem struct {
	Schedule *schedule.Engine

	Dynamics    map[int]model.Dynamics
	StageCost   map[int]model.StageCost
	Constraint  map[int]model.Constraint // type-1, may be absent (unconstrained) per subsystem

	TerminalCost       model.TerminalCost       // charged at every event boundary and the horizon end
	TerminalConstraint model.TerminalConstraint // type-2, optional (nil if unused)

	StateDim, InputDim int
	X0                 []float64 // initial state at the horizon start

	RolloutOptions rollout.Options
}

// Validate fails fast on a malformed Problem — a zero-dimension state/input,
// a missing schedule, an initial state of the wrong length, or no registered
// subsystems/terminal cost (spec.md §7: reported before any iteration runs,
// fatal, rather than failing deep inside a matrix constructor).
func (p Problem) Validate() error {
	switch {
	case p.StateDim <= 0:
		return ErrZeroStateDim
	case p.InputDim <= 0:
		return ErrZeroInputDim
	case p.Schedule == nil:
		return ErrNilSchedule
	case len(p.X0) != p.StateDim:
		return ErrMismatchedInitialState
	case len(p.Dynamics) == 0:
		return ErrEmptyDynamics
	case len(p.StageCost) == 0:
		return ErrEmptyStageCost
	case p.TerminalCost == nil:
		return ErrNilTerminalCost
	default:
		return nil
	}
}
