package rollout

import (
	"context"

	"github.com/katalvlaran/slq/model"
	"github.com/katalvlaran/slq/ode"
	"github.com/katalvlaran/slq/schedule"
)

// JumpMap transforms the state across event index eventIdx at time t
// (identity if nil). eventIdx indexes schedule.Engine's EventTimes for
// time-triggered events.
type JumpMap func(eventIdx int, t float64, xPre []float64) (xPost []float64)

// StateEvent is an additional state-triggered event predicate (spec.md §4.2
// "state-triggered variant"): when Eval crosses zero, the integrator backs
// up, locates the crossing to Options.IntegratorOpts.EventTol, and the
// rollout applies JumpMap and records SubsystemAfter as the event sample's
// SubsystemAt. SubsystemAfter does not change which dynamics are integrated
// afterwards: those, and the SubsystemAt of later samples, still come from
// the schedule.
type StateEvent struct {
	Eval           func(t float64, x []float64) float64
	JumpMap        func(t float64, x []float64) []float64
	SubsystemAfter int
}

// Options configures a Rollout call.
type Options struct {
	Integrator     ode.Integrator
	IntegratorOpts ode.Options
	StateDim       int
	InputDim       int
	Jump           JumpMap
	StateTriggered []StateEvent
}

// Rollout forward-integrates the controlled system over [t0, tf] starting
// from x0, under controller at step size alpha, within partitionIndex
// (spec.md §4.2). The active subsystem is looked up from sched at each
// segment boundary; event times from sched within (t0, tf) are mandatory
// integration stops at which Jump (if non-nil) may modify the state.
func Rollout(ctx context.Context, sched *schedule.Engine, dynamics map[int]model.Dynamics, partitionIndex int, t0 float64, x0 []float64, tf float64, controller *model.Controller, alpha float64, opts Options) (model.Trajectory, error) {
	if tf <= t0 {
		return model.Trajectory{}, rolloutErrorf(opRollout, ErrInvalidHorizon)
	}
	if len(x0) == 0 {
		return model.Trajectory{}, rolloutErrorf(opRollout, ErrEmptyInitialState)
	}

	traj := model.Trajectory{}
	appendNode(&traj, t0, x0, subsystemOrZero(sched, partitionIndex, t0))

	segmentStops := eventTimesWithin(sched, t0, tf)

	cur := append([]float64(nil), x0...)
	curT := t0
	segIdx := 0

	for curT < tf-1e-15 {
		segEnd := tf
		isEventStop := false
		eventIdx := -1
		if segIdx < len(segmentStops) {
			segEnd = segmentStops[segIdx]
			isEventStop = true
			eventIdx = segIdx
		}

		subsystemID, _, err := sched.ActiveSubsystemAt(partitionIndex, 0.5*(curT+segEnd))
		if err != nil {
			return traj, rolloutErrorf(opRollout, err)
		}
		dyn, ok := dynamics[subsystemID]
		if !ok {
			return traj, rolloutErrorf(opRollout, ErrUnknownSubsystem)
		}

		f := closedLoopFunc(dyn, controller, alpha, opts.InputDim)
		events := stateEventFuncs(opts.StateTriggered)

		res, err := opts.Integrator.Integrate(ctx, f, curT, cur, segEnd, events, nil, opts.IntegratorOpts)
		if err != nil {
			return traj, err
		}

		for i := 1; i < len(res.Samples); i++ {
			s := res.Samples[i]
			subID, _, serr := sched.ActiveSubsystemAt(partitionIndex, s.T)
			if serr != nil {
				return traj, rolloutErrorf(opRollout, serr)
			}
			appendNode(&traj, s.T, s.X, subID)
		}

		last := res.Samples[len(res.Samples)-1]
		cur, curT = last.X, last.T

		if res.EventIndex >= 0 {
			// A state-triggered event fired mid-segment.
			se := opts.StateTriggered[res.EventID]
			if se.JumpMap != nil {
				cur = se.JumpMap(curT, cur)
				traj.State[len(traj.State)-1] = cur
			}
			traj.SubsystemAt[len(traj.SubsystemAt)-1] = se.SubsystemAfter
			traj.EventEndIdx = append(traj.EventEndIdx, len(traj.State)-1)

			// A state event resolves strictly before segEnd; retry the same
			// scheduled stop (segIdx unchanged) from the post-jump state.
			continue
		}

		if isEventStop {
			if opts.Jump != nil {
				cur = opts.Jump(eventIdx, curT, cur)
				traj.State[len(traj.State)-1] = cur
			}
			afterID, _, aerr := sched.ActiveSubsystemAt(partitionIndex, curT)
			if aerr == nil {
				traj.SubsystemAt[len(traj.SubsystemAt)-1] = afterID
			}
			traj.EventEndIdx = append(traj.EventEndIdx, len(traj.State)-1)
			segIdx++
		}
	}

	// Populate Input by re-evaluating the controller along the recorded
	// state/time samples (spec.md's per-step controller evaluation).
	traj.Input = make([][]float64, 0, len(traj.Time))
	for i := 0; i < len(traj.Time)-1; i++ {
		traj.Input = append(traj.Input, controller.Eval(traj.Time[i], traj.State[i], alpha))
	}

	return traj, nil
}

func appendNode(traj *model.Trajectory, t float64, x []float64, subsystemID int) {
	traj.Time = append(traj.Time, t)
	traj.State = append(traj.State, append([]float64(nil), x...))
	traj.SubsystemAt = append(traj.SubsystemAt, subsystemID)
}

func subsystemOrZero(sched *schedule.Engine, partitionIndex int, t float64) int {
	id, _, err := sched.ActiveSubsystemAt(partitionIndex, t)
	if err != nil {
		return 0
	}

	return id
}

func eventTimesWithin(sched *schedule.Engine, t0, tf float64) []float64 {
	var out []float64
	for _, et := range sched.EventTimes() {
		if et > t0 && et < tf {
			out = append(out, et)
		}
	}

	return out
}

func closedLoopFunc(dyn model.Dynamics, controller *model.Controller, alpha float64, inputDim int) ode.Func {
	return func(t float64, x, dx []float64) {
		u := controller.Eval(t, x, alpha)
		dyn.Flow(t, x, u, dx)
	}
}

func stateEventFuncs(events []StateEvent) []ode.EventFunc {
	out := make([]ode.EventFunc, len(events))
	for i, e := range events {
		out[i] = ode.EventFunc{Eval: e.Eval, JumpMap: nil} // jump applied by Rollout, not the integrator, to keep subsystem transition bookkeeping in one place
	}

	return out
}
