package mrt

import "github.com/katalvlaran/slq/model"

// PolicyRecord is one isomorphic MRT policy (spec.md §3 "MRT buffers"): the
// initial observation, an opaque desired-cost-trajectory handle (transport
// and interpretation of this handle are out of scope — spec.md Non-goals),
// the nominal time/state sequence, the feedback controller, and the
// hybrid-logic schedule that produced this policy.
type PolicyRecord struct {
	InitObservation []float64
	DesiredCost     any

	Time  []float64
	State [][]float64

	Controller *model.Controller

	Modes          []int
	EventTimes     []float64
	PartitionTimes []float64
}

// interpolateState returns the linearly interpolated state at t, clamping to
// the nearest endpoint (and reporting so via clamped) when t falls outside
// [Time[0], Time[last]].
func (r *PolicyRecord) interpolateState(t float64) (x []float64, clamped bool, err error) {
	n := len(r.Time)
	if n == 0 {
		return nil, false, ErrEmptyTrajectory
	}
	if n == 1 || t <= r.Time[0] {
		return r.State[0], t < r.Time[0], nil
	}
	if t >= r.Time[n-1] {
		return r.State[n-1], t > r.Time[n-1], nil
	}

	lo, hi := 0, n-1
	for lo+1 < hi {
		mid := (lo + hi) / 2
		if r.Time[mid] <= t {
			lo = mid
		} else {
			hi = mid
		}
	}

	frac := (t - r.Time[lo]) / (r.Time[hi] - r.Time[lo])
	out := make([]float64, len(r.State[lo]))
	for i := range out {
		out[i] = r.State[lo][i] + frac*(r.State[hi][i]-r.State[lo][i])
	}

	return out, false, nil
}

// partitionIndexAt returns the index i such that PartitionTimes[i] <= t <=
// PartitionTimes[i+1], clamping to the first/last partition otherwise.
func (r *PolicyRecord) partitionIndexAt(t float64) int {
	p := len(r.PartitionTimes) - 1
	if p <= 0 {
		return 0
	}
	for i := 0; i < p; i++ {
		if t <= r.PartitionTimes[i+1] {
			return i
		}
	}

	return p - 1
}
