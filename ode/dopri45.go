package ode

import (
	"context"
	"math"
)

// Dopri45 is the default Integrator: an embedded Dormand-Prince RK45 with
// adaptive step-size control and root-finding event backtracking. It holds
// no state between calls; step size and event bookkeeping live inside each
// Integrate call, which reports a fired event through Result.EventIndex.
type Dopri45 struct{}

// Dormand-Prince Butcher tableau.
var (
	dopriC = [7]float64{0, 1.0 / 5, 3.0 / 10, 4.0 / 5, 8.0 / 9, 1, 1}
	dopriA = [7][6]float64{
		{},
		{1.0 / 5},
		{3.0 / 40, 9.0 / 40},
		{44.0 / 45, -56.0 / 15, 32.0 / 9},
		{19372.0 / 6561, -25360.0 / 2187, 64448.0 / 6561, -212.0 / 729},
		{9017.0 / 3168, -355.0 / 33, 46732.0 / 5247, 49.0 / 176, -5103.0 / 18656},
		{35.0 / 384, 0, 500.0 / 1113, 125.0 / 192, -2187.0 / 6784, 11.0 / 84},
	}
	dopriB5 = [7]float64{35.0 / 384, 0, 500.0 / 1113, 125.0 / 192, -2187.0 / 6784, 11.0 / 84, 0}
	dopriB4 = [7]float64{5179.0 / 57600, 0, 7571.0 / 16695, 393.0 / 640, -92097.0 / 339200, 187.0 / 2100, 1.0 / 40}
)

// Integrate implements Integrator.
func (Dopri45) Integrate(ctx context.Context, f Func, t0 float64, x0 []float64, t1 float64, events []EventFunc, stops []float64, opts Options) (Result, error) {
	if t1 < t0 {
		return Result{}, ErrInvalidSpan
	}
	n := len(x0)
	result := Result{EventIndex: -1}
	cur := append([]float64(nil), x0...)
	appendSample(&result, t0, cur)

	// Merge stops (mandatory landing times) with t1, sorted and deduped,
	// strictly within (t0, t1].
	landings := mergeLandings(t0, t1, stops)

	eventVals := make([]float64, len(events))
	for i, e := range events {
		eventVals[i] = e.Eval(t0, cur)
	}

	t := t0
	h := clamp(opts.InitialStep, opts.MinStep, opts.MaxStep)
	if h <= 0 {
		h = opts.MinStep
	}

	steps := 0
	for _, landing := range landings {
		for t < landing-1e-15 {
			if err := ctx.Err(); err != nil {
				return result, ErrCancelled
			}
			steps++
			if opts.MaxSteps > 0 && steps > opts.MaxSteps {
				return result, ErrDiverged
			}
			step := math.Min(h, landing-t)

			next, errEst, ferr := dopriStep(f, t, cur, step, n)
			if ferr != nil {
				return result, ferr
			}
			if !allFinite(next) {
				return result, ErrNonFinite
			}

			scale := make([]float64, n)
			for i := 0; i < n; i++ {
				scale[i] = opts.AbsTol + opts.RelTol*math.Max(math.Abs(cur[i]), math.Abs(next[i]))
			}
			normErr := weightedRMS(errEst, scale)

			if normErr <= 1.0 || step <= opts.MinStep {
				// Accept the step (or we are at the floor and must proceed
				// to avoid stalling forever).
				newT := t + step
				// Check state-triggered events for a sign crossing across
				// this accepted step.
				crossedIdx := -1
				for i, e := range events {
					v := e.Eval(newT, next)
					if signChanged(eventVals[i], v) {
						crossedIdx = i
						break
					}
					eventVals[i] = v
				}
				if crossedIdx >= 0 {
					eventT, eventX, err := bisectEvent(f, events[crossedIdx], t, cur, newT, next, opts.EventTol, n)
					if err != nil {
						return result, err
					}
					if jm := events[crossedIdx].JumpMap; jm != nil {
						eventX = jm(eventT, eventX)
					}
					appendSample(&result, eventT, eventX)
					result.EventIndex = len(result.Samples) - 1
					result.EventID = crossedIdx
					return result, nil
				}

				t = newT
				cur = next
				appendSample(&result, t, cur)

				if normErr > 0 {
					factor := 0.9 * math.Pow(1.0/normErr, 0.2)
					factor = clamp(factor, 0.2, 5.0)
					h = clamp(step*factor, opts.MinStep, opts.MaxStep)
				} else {
					h = clamp(step*2, opts.MinStep, opts.MaxStep)
				}
			} else {
				factor := 0.9 * math.Pow(1.0/normErr, 0.25)
				factor = clamp(factor, 0.1, 1.0)
				newStep := step * factor
				if newStep < opts.MinStep {
					return result, ErrDiverged
				}
				h = newStep
			}
		}
		// Landed exactly on a time-triggered stop; the caller (rollout
		// engine) is responsible for applying any jump map and recording
		// the event boundary — Integrate just guarantees it stopped there.
		t = landing
	}

	return result, nil
}

func dopriStep(f Func, t float64, x []float64, h float64, n int) (next []float64, errEst []float64, err error) {
	var k [7][]float64
	for s := 0; s < 7; s++ {
		k[s] = make([]float64, n)
	}
	tmp := make([]float64, n)

	for s := 0; s < 7; s++ {
		for i := 0; i < n; i++ {
			sum := x[i]
			for j := 0; j < s; j++ {
				sum += h * dopriA[s][j] * k[j][i]
			}
			tmp[i] = sum
		}
		f(t+dopriC[s]*h, tmp, k[s])
	}

	next = make([]float64, n)
	errEst = make([]float64, n)
	for i := 0; i < n; i++ {
		y5, y4 := x[i], x[i]
		for s := 0; s < 7; s++ {
			y5 += h * dopriB5[s] * k[s][i]
			y4 += h * dopriB4[s] * k[s][i]
		}
		next[i] = y5
		errEst[i] = y5 - y4
	}

	return next, errEst, nil
}

func bisectEvent(f Func, ev EventFunc, tLo float64, xLo []float64, tHi float64, xHi []float64, tol float64, n int) (float64, []float64, error) {
	loT, hiT := tLo, tHi
	loX := append([]float64(nil), xLo...)
	hiX := append([]float64(nil), xHi...)
	loV := ev.Eval(loT, loX)

	for i := 0; i < 60 && hiT-loT > tol; i++ {
		midT := 0.5 * (loT + hiT)
		midX, _, err := dopriStep(f, loT, loX, midT-loT, n)
		if err != nil {
			return 0, nil, err
		}
		midV := ev.Eval(midT, midX)
		if signChanged(loV, midV) {
			hiT, hiX = midT, midX
		} else {
			loT, loX, loV = midT, midX, midV
		}
	}

	return hiT, hiX, nil
}

func appendSample(r *Result, t float64, x []float64) {
	r.Samples = append(r.Samples, Sample{T: t, X: append([]float64(nil), x...)})
}

func mergeLandings(t0, t1 float64, stops []float64) []float64 {
	out := make([]float64, 0, len(stops)+1)
	for _, s := range stops {
		if s > t0+1e-15 && s < t1-1e-15 {
			out = append(out, s)
		}
	}
	out = append(out, t1)
	// Insertion sort; stops are typically already ordered and few.
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j] < out[j-1]; j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}

func weightedRMS(v, scale []float64) float64 {
	sum := 0.0
	for i := range v {
		r := v[i] / scale[i]
		sum += r * r
	}
	return math.Sqrt(sum / float64(len(v)))
}

func signChanged(a, b float64) bool {
	if a == 0 || b == 0 {
		return a != b
	}
	return (a < 0) != (b < 0)
}

func allFinite(v []float64) bool {
	for _, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
