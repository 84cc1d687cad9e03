package mrt

import (
	"context"
	"sync"

	"github.com/katalvlaran/slq/model"
	"github.com/katalvlaran/slq/rollout"
	"github.com/katalvlaran/slq/schedule"
)

// Buffer is the double-buffered MRT policy exchange (spec.md §4.7): a
// single RWMutex guards every field below. The optimizer thread is the sole
// writer, via Stage/Commit (write lock); the controller thread is a reader,
// via Evaluate/Reroll (read lock). The schedule.Engine held in lookup has no
// lock of its own; it is only touched while mu is held.
type Buffer struct {
	mu sync.RWMutex

	live, staged PolicyRecord

	policyReceivedEver  bool
	newPolicyInBuffer   bool
	policyUpdatedBuffer bool
	policyUpdated       bool
	logicUpdated        bool
	committedEver       bool

	lookup      *schedule.Engine
	dynamics    map[int]model.Dynamics
	rolloutOpts rollout.Options
}

// NewBuffer returns an empty Buffer. dynamics and rolloutOpts are used only
// by Reroll (C2's collaborators); lookup is the C1 engine rebuilt whenever a
// commit detects a logic change.
func NewBuffer(dynamics map[int]model.Dynamics, rolloutOpts rollout.Options) *Buffer {
	return &Buffer{
		lookup:      schedule.New(),
		dynamics:    dynamics,
		rolloutOpts: rolloutOpts,
	}
}

// Stage atomically writes every staged field (spec.md §4.7 "stage"). It
// always marks the staged record as an update candidate; Commit is the
// gate that decides whether it actually promotes.
func (b *Buffer) Stage(p PolicyRecord) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.staged = p
	b.newPolicyInBuffer = true
	b.policyUpdatedBuffer = true
	b.policyReceivedEver = true
}

// Commit promotes the staged record to live if (and only if) both gating
// flags are set, returning false as a no-op otherwise — this is what makes
// "stage; commit; commit" idempotent (spec.md's MRT idempotence invariant).
// On a successful commit whose schedule fields changed, the active-subsystem
// lookup (C1) is rebuilt from the new live schedule.
func (b *Buffer) Commit() (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.newPolicyInBuffer || !b.policyUpdatedBuffer {
		return false, nil
	}

	prev := b.live
	b.live = b.staged
	b.newPolicyInBuffer = false
	b.policyUpdatedBuffer = false
	b.policyUpdated = true
	b.committedEver = true

	b.logicUpdated = logicChanged(prev, b.live)
	if b.logicUpdated {
		if err := b.lookup.SetModeSchedule(b.live.Modes, b.live.EventTimes); err != nil {
			return true, mrtErrorf(opCommit, err)
		}
		if err := b.lookup.RebuildForPartitions(b.live.PartitionTimes); err != nil {
			return true, mrtErrorf(opCommit, err)
		}
	}

	return true, nil
}

// ConsumePolicyUpdated reports and clears the public post-commit "a new
// policy landed" flag, for consumers that poll rather than call Evaluate on
// every tick.
func (b *Buffer) ConsumePolicyUpdated() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	updated := b.policyUpdated
	b.policyUpdated = false

	return updated
}

// Evaluate interpolates the live state trajectory at t, evaluates the live
// controller there, and reports the active subsystem (spec.md §4.7
// "evaluate"). A query past the live plan's last time is answered with a
// clamped extrapolation, never an error; clamped reports this to the caller,
// who owns whatever logging it wants to do about it (spec.md §6, used as an
// embedded library — callers own their own logging), the same structured
// "recoverable bool" shape `schedule.ActiveSubsystemAt` already returns.
func (b *Buffer) Evaluate(t float64, x []float64) (xRef, uRef []float64, subsystemID int, clamped bool, err error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.committedEver {
		return nil, nil, 0, false, mrtErrorf(opEvaluate, ErrNoLivePolicy)
	}

	xRef, clamped, err = b.live.interpolateState(t)
	if err != nil {
		return nil, nil, 0, false, mrtErrorf(opEvaluate, err)
	}

	uRef = b.live.Controller.Eval(t, x, 0)

	subID, _, serr := b.lookup.ActiveSubsystemAt(b.live.partitionIndexAt(t), t)
	if serr != nil {
		return xRef, uRef, 0, clamped, mrtErrorf(opEvaluate, serr)
	}

	return xRef, uRef, subID, clamped, nil
}

// Reroll short-horizon-rolls-out the live controller from (t, x) over
// [t, t+deltaT] (spec.md §4.7 "reroll", delegating to C2). It fails with
// ErrNoLivePolicy if no commit has ever succeeded.
func (b *Buffer) Reroll(ctx context.Context, t float64, x []float64, deltaT float64) (xEnd, uEnd []float64, subsystemID int, err error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.committedEver {
		return nil, nil, 0, mrtErrorf(opReroll, ErrNoLivePolicy)
	}

	partitionIdx := b.live.partitionIndexAt(t)
	traj, rerr := rollout.Rollout(ctx, b.lookup, b.dynamics, partitionIdx, t, x, t+deltaT, b.live.Controller, 0, b.rolloutOpts)
	if rerr != nil {
		return nil, nil, 0, mrtErrorf(opReroll, rerr)
	}

	xEnd = traj.Final()
	uEnd = b.live.Controller.Eval(traj.FinalTime(), xEnd, 0)
	subID, _, serr := b.lookup.ActiveSubsystemAt(partitionIdx, traj.FinalTime())
	if serr != nil {
		return xEnd, uEnd, 0, mrtErrorf(opReroll, serr)
	}

	return xEnd, uEnd, subID, nil
}

// ActiveSchedule returns the live policy's mode sequence, event times, and
// partition boundary times (spec.md §6 "read-only accessors for the
// currently active mode-schedule ... "). ok is false if no commit has ever
// succeeded, in which case the slices are nil.
func (b *Buffer) ActiveSchedule() (modes []int, eventTimes []float64, partitionTimes []float64, ok bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.committedEver {
		return nil, nil, nil, false
	}

	return b.live.Modes, b.live.EventTimes, b.live.PartitionTimes, true
}

// DesiredCost returns the live policy's opaque desired-cost-trajectory
// handle (spec.md §6 "... and desired-cost-trajectory"; transport and
// interpretation of this handle are out of scope, per PolicyRecord.DesiredCost).
// ok is false if no commit has ever succeeded.
func (b *Buffer) DesiredCost() (desiredCost any, ok bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.committedEver {
		return nil, false
	}

	return b.live.DesiredCost, true
}

// PolicyReceivedEver reports whether Stage has ever been called.
func (b *Buffer) PolicyReceivedEver() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return b.policyReceivedEver
}

// LogicUpdated reports whether the most recent successful commit changed
// the mode schedule, event times, or partition times.
func (b *Buffer) LogicUpdated() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return b.logicUpdated
}

func logicChanged(prev, cur PolicyRecord) bool {
	return !intsEqual(prev.Modes, cur.Modes) ||
		!floatsEqual(prev.EventTimes, cur.EventTimes) ||
		!floatsEqual(prev.PartitionTimes, cur.PartitionTimes)
}

func intsEqual(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}

	return true
}

func floatsEqual(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}

	return true
}
