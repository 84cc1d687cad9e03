package model

// Trajectory is the output of one rollout call (spec.md §4.2): parallel
// arrays of time stamps, states, and inputs, plus the sample indices at
// which an event boundary fell.
type Trajectory struct {
	// Time holds one stamp per sample, strictly increasing.
	Time []float64

	// State holds one state vector per sample (State[i] has length n).
	State [][]float64

	// Input holds one input vector per sample (Input[i] has length m); the
	// last sample has no associated input and Input has len(Time)-1 entries.
	Input [][]float64

	// EventEndIdx holds the index into Time/State at which each event
	// boundary (time- or state-triggered) fell, in increasing order.
	EventEndIdx []int

	// SubsystemAt holds the active subsystem identifier for each sample.
	SubsystemAt []int
}

// Final returns the last recorded state, or nil if the trajectory is empty.
func (tr *Trajectory) Final() []float64 {
	if len(tr.State) == 0 {
		return nil
	}

	return tr.State[len(tr.State)-1]
}

// FinalTime returns the last recorded time stamp, or 0 if the trajectory is
// empty.
func (tr *Trajectory) FinalTime() float64 {
	if len(tr.Time) == 0 {
		return 0
	}

	return tr.Time[len(tr.Time)-1]
}

// Node is one feedback-controller sample: a gain matrix K (m x n, row-major
// flattened), a feedforward term u_ff (length m), and a pending feedforward
// delta Δu_ff (length m), all anchored at time Time.
type Node struct {
	Time     float64
	K        []float64 // m*n, row-major
	Uff      []float64 // length m
	DeltaUff []float64 // length m
}

// Controller is an affine, piecewise-linear-in-time feedback law sampled at
// rollout nodes (spec.md §3 "Controller"): u = K(t)x + u_ff(t) + α·Δu_ff(t),
// with linear interpolation between samples.
type Controller struct {
	StateDim int
	InputDim int
	Nodes    []Node
}

// At returns the interpolated (K, uff, deltaUff) at time t. Times before the
// first node or after the last node are clamped to the nearest endpoint.
func (c *Controller) At(t float64) (k, uff, deltaUff []float64) {
	n := len(c.Nodes)
	if n == 0 {
		return nil, nil, nil
	}
	if n == 1 || t <= c.Nodes[0].Time {
		return c.Nodes[0].K, c.Nodes[0].Uff, c.Nodes[0].DeltaUff
	}
	if t >= c.Nodes[n-1].Time {
		return c.Nodes[n-1].K, c.Nodes[n-1].Uff, c.Nodes[n-1].DeltaUff
	}

	lo, hi := 0, n-1
	for lo+1 < hi {
		mid := (lo + hi) / 2
		if c.Nodes[mid].Time <= t {
			lo = mid
		} else {
			hi = mid
		}
	}

	a, b := c.Nodes[lo], c.Nodes[hi]
	frac := (t - a.Time) / (b.Time - a.Time)

	return lerp(a.K, b.K, frac), lerp(a.Uff, b.Uff, frac), lerp(a.DeltaUff, b.DeltaUff, frac)
}

// Eval computes u = K(t)x + u_ff(t) + alpha*deltaUff(t) at the given state.
func (c *Controller) Eval(t float64, x []float64, alpha float64) []float64 {
	k, uff, deltaUff := c.At(t)
	u := make([]float64, c.InputDim)
	for i := 0; i < c.InputDim; i++ {
		sum := uff[i] + alpha*deltaUff[i]
		for j := 0; j < c.StateDim; j++ {
			sum += k[i*c.StateDim+j] * x[j]
		}
		u[i] = sum
	}

	return u
}

func lerp(a, b []float64, frac float64) []float64 {
	out := make([]float64, len(a))
	for i := range a {
		out[i] = a[i] + frac*(b[i]-a[i])
	}

	return out
}
