package linesearch

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
)

// Settings configures the backtracking search (spec.md §4.6).
type Settings struct {
	// Beta contracts the step size each backtrack: alpha_{k+1} = Beta*alpha_k.
	Beta float64

	// AlphaMin is the smallest step size tried before giving up.
	AlphaMin float64

	// DescentFraction is the minimum accepted fraction of the predicted cost
	// decrease (Armijo-style sufficient-decrease test).
	DescentFraction float64

	// TimeLimit is a soft wall-clock budget; zero disables it. Checked
	// sparsely (before every candidate, which is already a coarse unit of
	// work) in sequential mode only; parallel mode does not consult it.
	TimeLimit time.Duration

	// Parallel evaluates every candidate step size concurrently and picks
	// the best admissible one, instead of backtracking sequentially.
	Parallel bool
}

// Candidate is one backtracking trial's outcome.
type Candidate struct {
	Alpha float64
	Eval  Evaluation
	Err   error
}

// Result is the outcome of a full backtracking search.
type Result struct {
	Accepted  bool
	Alpha     float64
	Eval      Evaluation
	Tried     []Candidate
	Diagnosed bool // true when no candidate was admissible and Alpha is only a diagnostic
}

// alphaSequence builds {1, beta, beta^2, ...} down to (and including, if
// reached) alphaMin.
func alphaSequence(beta, alphaMin float64) []float64 {
	var out []float64
	for a := 1.0; a >= alphaMin-1e-12; a *= beta {
		out = append(out, a)
	}

	return out
}

// Search runs the backtracking line search (spec.md §4.6 step 3): for each
// candidate alpha, evaluate calls back into the caller to re-run the rollout
// (C2) with an alpha-scaled Δu_ff and score it. baselineCost is the nominal
// (alpha=0) rollout's cost; predictedDecrease is the value-function-implied
// decrease used for the sufficient-decrease test.
//
// Sequential mode stops at the first accepted candidate (true backtracking).
// Parallel mode evaluates every candidate concurrently and picks the largest
// accepted alpha among them, so the result is deterministic regardless of
// goroutine completion order.
func Search(ctx context.Context, cfg Settings, baselineCost, predictedDecrease float64, evaluate func(ctx context.Context, alpha float64) (Evaluation, error)) (Result, error) {
	if cfg.Beta <= 0 || cfg.Beta >= 1 || cfg.AlphaMin <= 0 || cfg.AlphaMin > 1 {
		return Result{}, linesearchErrorf(opSearch, ErrInvalidSettings)
	}

	alphas := alphaSequence(cfg.Beta, cfg.AlphaMin)
	if len(alphas) == 0 {
		return Result{}, linesearchErrorf(opSearch, ErrNoCandidates)
	}

	var deadline time.Time
	useDeadline := cfg.TimeLimit > 0
	if useDeadline {
		deadline = time.Now().Add(cfg.TimeLimit)
	}

	accepts := func(c Evaluation) bool {
		return baselineCost-c.Cost >= cfg.DescentFraction*predictedDecrease
	}

	if cfg.Parallel {
		return searchParallel(ctx, alphas, evaluate, accepts)
	}

	return searchSequential(ctx, alphas, evaluate, accepts, useDeadline, deadline)
}

func searchSequential(ctx context.Context, alphas []float64, evaluate func(context.Context, float64) (Evaluation, error), accepts func(Evaluation) bool, useDeadline bool, deadline time.Time) (Result, error) {
	tried := make([]Candidate, 0, len(alphas))

	for _, a := range alphas {
		if useDeadline && time.Now().After(deadline) {
			break
		}
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}

		eval, err := evaluate(ctx, a)
		tried = append(tried, Candidate{Alpha: a, Eval: eval, Err: err})
		if err != nil {
			continue
		}
		if accepts(eval) {
			return Result{Accepted: true, Alpha: a, Eval: eval, Tried: tried}, nil
		}
	}

	return diagnose(tried)
}

func searchParallel(ctx context.Context, alphas []float64, evaluate func(context.Context, float64) (Evaluation, error), accepts func(Evaluation) bool) (Result, error) {
	tried := make([]Candidate, len(alphas))

	g, gctx := errgroup.WithContext(ctx)
	for i, a := range alphas {
		i, a := i, a
		g.Go(func() error {
			eval, err := evaluate(gctx, a)
			tried[i] = Candidate{Alpha: a, Eval: eval, Err: err}

			return nil // per-candidate errors are recorded, not fatal to the group
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	bestIdx := -1
	for i, c := range tried {
		if c.Err != nil || !accepts(c.Eval) {
			continue
		}
		if bestIdx < 0 || tried[i].Alpha > tried[bestIdx].Alpha {
			bestIdx = i
		}
	}
	if bestIdx >= 0 {
		return Result{Accepted: true, Alpha: tried[bestIdx].Alpha, Eval: tried[bestIdx].Eval, Tried: tried}, nil
	}

	return diagnose(tried)
}

func diagnose(tried []Candidate) (Result, error) {
	if len(tried) == 0 {
		return Result{}, linesearchErrorf(opSearch, ErrNoCandidates)
	}

	smallest := tried[0]
	for _, c := range tried {
		if c.Alpha < smallest.Alpha {
			smallest = c
		}
	}

	return Result{Accepted: false, Alpha: smallest.Alpha, Eval: smallest.Eval, Tried: tried, Diagnosed: true}, linesearchErrorf(opSearch, ErrAllRejected)
}
