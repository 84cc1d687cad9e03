package linesearch

import (
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/slq/model"
)

// Evaluation is the result of scoring a candidate set of partition
// trajectories: total cost plus the two constraint violation norms used for
// both acceptance and termination (spec.md §4.6, §3 "ISE").
type Evaluation struct {
	Cost float64
	ISE1 float64 // type-1 (state-input) integral-square-error
	ISE2 float64 // type-2 (state-only) sum-square-error at events/terminal
}

// Evaluate scores a full multi-partition rollout: the per-subsystem stage
// cost and type-1 constraint residual are trapezoidally integrated along
// each trajectory, and the type-2 constraint is evaluated at every event
// boundary plus the final horizon sample (spec.md's "enforced at events and
// terminally"). The very last trajectory's final sample also receives the
// terminal cost.
func Evaluate(trajectories []model.Trajectory, stageCost map[int]model.StageCost, constraint map[int]model.Constraint, eventConstraint model.TerminalConstraint, terminalCost model.TerminalCost) (Evaluation, error) {
	if len(trajectories) == 0 {
		return Evaluation{}, linesearchErrorf(opEvaluate, ErrNoCandidates)
	}

	var eval Evaluation
	for _, traj := range trajectories {
		stageSum, ise1, err := integrateStage(traj, stageCost, constraint)
		if err != nil {
			return Evaluation{}, err
		}
		eval.Cost += stageSum
		eval.ISE1 += ise1

		if eventConstraint != nil {
			for _, idx := range traj.EventEndIdx {
				eval.ISE2 += squareNorm(eventConstraint, traj.Time[idx], traj.State[idx])
			}
		}
	}

	last := trajectories[len(trajectories)-1]
	tf := last.FinalTime()
	xf := last.Final()
	if terminalCost != nil && xf != nil {
		eval.Cost += terminalCost.Value(tf, xf)
	}
	if eventConstraint != nil && xf != nil {
		eval.ISE2 += squareNorm(eventConstraint, tf, xf)
	}

	return eval, nil
}

func integrateStage(traj model.Trajectory, stageCost map[int]model.StageCost, constraint map[int]model.Constraint) (cost, ise1 float64, err error) {
	n := len(traj.Time)
	if n < 2 {
		return 0, 0, nil
	}

	prevStage, prevCons := sampleResiduals(traj, 0, stageCost, constraint)
	for i := 1; i < n; i++ {
		curStage, curCons := sampleResiduals(traj, i, stageCost, constraint)
		dt := traj.Time[i] - traj.Time[i-1]
		cost += 0.5 * dt * (prevStage + curStage)
		ise1 += 0.5 * dt * (prevCons + curCons)
		prevStage, prevCons = curStage, curCons
	}

	return cost, ise1, nil
}

func sampleResiduals(traj model.Trajectory, i int, stageCost map[int]model.StageCost, constraint map[int]model.Constraint) (stage, consSq float64) {
	t := traj.Time[i]
	x := traj.State[i]
	var u []float64
	if i < len(traj.Input) {
		u = traj.Input[i]
	} else if len(traj.Input) > 0 {
		u = traj.Input[len(traj.Input)-1]
	}

	subID := 0
	if i < len(traj.SubsystemAt) {
		subID = traj.SubsystemAt[i]
	}

	if sc, ok := stageCost[subID]; ok && u != nil {
		stage = sc.Value(t, x, u)
	}
	if c, ok := constraint[subID]; ok && u != nil {
		cm, dm, em, p := c.Evaluate(t, x, u)
		if p > 0 {
			consSq = residualSquareNorm(cm, dm, em, x, u)
		}
	}

	return stage, consSq
}

func residualSquareNorm(c, d, e *mat.Dense, x, u []float64) float64 {
	p, n := c.Dims()
	_, m := d.Dims()
	xm := mat.NewDense(n, 1, x)
	um := mat.NewDense(m, 1, u)

	var cx, du mat.Dense
	cx.Mul(c, xm)
	du.Mul(d, um)

	sum := 0.0
	for i := 0; i < p; i++ {
		r := cx.At(i, 0) + du.At(i, 0) + e.At(i, 0)
		sum += r * r
	}

	return sum
}

func squareNorm(tc model.TerminalConstraint, t float64, x []float64) float64 {
	f, h, q := tc.Evaluate(t, x)
	if q == 0 {
		return 0
	}
	n := len(x)
	xm := mat.NewDense(n, 1, x)
	var fx mat.Dense
	fx.Mul(f, xm)

	sum := 0.0
	for i := 0; i < q; i++ {
		r := fx.At(i, 0) + h.At(i, 0)
		sum += r * r
	}

	return sum
}
