package slq

import (
	"context"
	"math"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/slq/linesearch"
	"github.com/katalvlaran/slq/lq"
	"github.com/katalvlaran/slq/model"
	"github.com/katalvlaran/slq/riccati"
	"github.com/katalvlaran/slq/rollout"
	"github.com/katalvlaran/slq/synth"
)

// Solver drives one SLQ solve (spec.md §4.6 "Line Search & Iteration
// Driver"): it owns the current controller and replays the C2 → C3 → C4 →
// C5 → C6 pipeline each iteration, logging cost/constraint progress.
type Solver struct {
	problem  Problem
	settings Settings
	log      []IterationRecord

	controller *model.Controller
}

// NewSolver returns a Solver ready to Run. initial is the warm-start
// controller; pass nil for a cold start (a single zero-feedback node at the
// horizon start, reproducing an open-loop nominal rollout on the first
// iteration).
func NewSolver(problem Problem, settings Settings, initial *model.Controller) *Solver {
	// A malformed Problem (nil Schedule, no partitions yet) is left for
	// Run's Validate() to reject with a ConfigError; building the cold-start
	// controller here would otherwise panic before that fatal, fast-fail
	// check ever runs.
	if initial == nil && problem.Schedule != nil {
		if times := problem.Schedule.PartitionTimes(); len(times) > 0 {
			initial = &model.Controller{
				StateDim: problem.StateDim,
				InputDim: problem.InputDim,
				Nodes: []model.Node{{
					Time:     times[0],
					K:        make([]float64, problem.InputDim*problem.StateDim),
					Uff:      make([]float64, problem.InputDim),
					DeltaUff: make([]float64, problem.InputDim),
				}},
			}
		}
	}

	return &Solver{problem: problem, settings: settings, controller: initial}
}

// Log returns the iteration log accumulated so far.
func (s *Solver) Log() []IterationRecord { return s.log }

// Controller returns the current (possibly mid-solve) controller.
func (s *Solver) Controller() *model.Controller { return s.controller }

// Run executes the init/iterate/exit loop until both termination conditions
// hold (relative cost change and both ISE norms below tolerance) or the
// iteration cap is reached (spec.md §4.6 step 4).
func (s *Solver) Run(ctx context.Context) (*model.Controller, []model.Trajectory, []IterationRecord, error) {
	if err := s.settings.Validate(); err != nil {
		return nil, nil, nil, &ConfigError{Op: opRun, Err: err}
	}
	if err := s.problem.Validate(); err != nil {
		return nil, nil, nil, &ConfigError{Op: opRun, Err: err}
	}

	p := s.problem.Schedule.NumPartitions()
	if p == 0 {
		return nil, nil, nil, &ConfigError{Op: opRun, Err: ErrNoPartitions}
	}

	var lastTrajectories []model.Trajectory
	prevCost := math.Inf(1)

	for iter := 0; iter < s.settings.MaxIterations; iter++ {
		if err := ctx.Err(); err != nil {
			return s.controller, lastTrajectories, s.log, err
		}

		trajectories, newController, predictedDecrease, baseEval, droppedRows, err := s.iterate(ctx)
		if err != nil {
			return s.controller, lastTrajectories, s.log, &NumericalError{Op: opIterate, Err: err}
		}

		res, err := linesearch.Search(ctx, linesearch.Settings{
			Beta: s.settings.Beta, AlphaMin: s.settings.AlphaMin,
			DescentFraction: s.settings.DescentFraction,
			TimeLimit:       s.settings.LineSearchBudget,
			Parallel:        s.settings.ParallelLineSearch,
		}, baseEval.Cost, predictedDecrease, func(ctx context.Context, alpha float64) (linesearch.Evaluation, error) {
			candTrajectories, cerr := s.rolloutAll(ctx, newController, alpha)
			if cerr != nil {
				return linesearch.Evaluation{}, cerr
			}

			return s.evaluate(candTrajectories)
		})

		alpha := res.Alpha
		eval := res.Eval
		accepted := res.Accepted
		if !accepted {
			// All candidates rejected: keep the smallest tested step as a
			// diagnostic but do not advance the controller (spec.md §4.6
			// failure semantics).
			s.log = append(s.log, IterationRecord{Iteration: iter, Cost: eval.Cost, ISE1: eval.ISE1, ISE2: eval.ISE2, Alpha: alpha, Accepted: false, Diagnostic: Diagnostic{DroppedConstraintRows: droppedRows}})

			return s.controller, trajectories, s.log, err
		}

		s.controller = collapseController(newController, alpha)
		lastTrajectories, err = s.rolloutAll(ctx, s.controller, 0)
		if err != nil {
			return s.controller, trajectories, s.log, err
		}

		s.log = append(s.log, IterationRecord{Iteration: iter, Cost: eval.Cost, ISE1: eval.ISE1, ISE2: eval.ISE2, Alpha: alpha, Accepted: true, Diagnostic: Diagnostic{DroppedConstraintRows: droppedRows}})

		relChange := math.Abs(prevCost-eval.Cost) / math.Max(1, math.Abs(prevCost))
		if relChange < s.settings.CostTol && eval.ISE1 < s.settings.ConstraintTol && eval.ISE2 < s.settings.ConstraintTol {
			return s.controller, lastTrajectories, s.log, nil
		}
		prevCost = eval.Cost
	}

	return s.controller, lastTrajectories, s.log, nil
}

// iterate runs C2 (nominal rollout) → C3 (LQ approximation) → C4 (Riccati)
// → C5 (synthesis) once, returning the nominal trajectories, the newly
// synthesized controller, the LQ-predicted cost decrease from taking the
// full step, the nominal trajectories' cost/constraint evaluation, and the
// total number of constraint rows dropped during projection this iteration.
func (s *Solver) iterate(ctx context.Context) ([]model.Trajectory, *model.Controller, float64, linesearch.Evaluation, int, error) {
	trajectories, err := s.rolloutAll(ctx, s.controller, 0)
	if err != nil {
		return nil, nil, 0, linesearch.Evaluation{}, 0, err
	}

	rawNodes, projNodes, eventAt, droppedRows, err := s.approximateAll(ctx, trajectories)
	if err != nil {
		return nil, nil, 0, linesearch.Evaluation{}, 0, err
	}

	p := len(rawNodes)
	boundarySeeds := make([]model.ValueNode, p)
	last := trajectories[p-1]
	boundarySeeds[p-1] = terminalValueNode(s.problem.TerminalCost, s.problem.TerminalConstraint, last.FinalTime(), last.Final(), s.problem.StateDim, s.problem.InputDim, s.settings.PenaltyWeight)

	values, err := riccati.IntegrateAll(ctx, s.settings.Integrator, s.settings.IntegratorOpts, rawNodes, projNodes, boundarySeeds, eventAt, s.settings.ParallelRiccati)
	if err != nil {
		return nil, nil, 0, linesearch.Evaluation{}, 0, err
	}

	newController, predictedDecrease, err := s.synthesizeAll(rawNodes, projNodes, values, trajectories)
	if err != nil {
		return nil, nil, 0, linesearch.Evaluation{}, 0, err
	}

	baseEval, err := s.evaluate(trajectories)
	if err != nil {
		return nil, nil, 0, linesearch.Evaluation{}, 0, err
	}

	return trajectories, newController, predictedDecrease, baseEval, droppedRows, nil
}

// rolloutAll chains a rollout of every partition in increasing order, each
// partition's initial state being the previous partition's final state.
func (s *Solver) rolloutAll(ctx context.Context, controller *model.Controller, alpha float64) ([]model.Trajectory, error) {
	times := s.problem.Schedule.PartitionTimes()
	p := s.problem.Schedule.NumPartitions()
	out := make([]model.Trajectory, p)

	x := s.problem.X0
	for i := 0; i < p; i++ {
		traj, err := rollout.Rollout(ctx, s.problem.Schedule, s.problem.Dynamics, i, times[i], x, times[i+1], controller, alpha, s.problem.RolloutOptions)
		if err != nil {
			return nil, err
		}
		out[i] = traj
		x = traj.Final()
	}

	return out, nil
}

// approximateAll builds the raw/projected LQ tables for every sample of
// every partition trajectory, plus the per-partition event-terminal jump
// map for every internal event boundary (a mode switch strictly before the
// partition's own final sample; the final sample of the final partition is
// handled separately via the horizon terminal boundary seed), and the total
// number of constraint rows dropped across every node's projection (spec.md
// §7 "constraint infeasibility ... reported with a diagnostic").
//
// Partitions are independent LQ subproblems, so when ParallelApproximation
// is set each partition runs on its own goroutine against a Clone()'d copy
// of the dynamics/stage-cost/constraint/terminal instances it touches —
// the same one-deep-clone-per-worker, errgroup-fan-out shape C4 uses for
// its parallel Riccati pass (riccati/driver.go).
func (s *Solver) approximateAll(ctx context.Context, trajectories []model.Trajectory) ([][]model.LQNode, [][]model.ProjectedLQNode, []map[int]model.EventTerminal, int, error) {
	p := len(trajectories)
	rawAll := make([][]model.LQNode, p)
	projAll := make([][]model.ProjectedLQNode, p)
	eventAll := make([]map[int]model.EventTerminal, p)
	dropped := make([]int, p)

	work := func(i int, dyn map[int]model.Dynamics, stage map[int]model.StageCost, cons map[int]model.Constraint, term model.TerminalCost, termCons model.TerminalConstraint) error {
		raw, proj, events, rows, err := s.approximatePartition(dyn, stage, cons, term, termCons, trajectories[i], i == p-1)
		if err != nil {
			return err
		}
		rawAll[i], projAll[i], eventAll[i], dropped[i] = raw, proj, events, rows

		return nil
	}

	if !s.settings.ParallelApproximation {
		for i := range trajectories {
			if err := work(i, s.problem.Dynamics, s.problem.StageCost, s.problem.Constraint, s.problem.TerminalCost, s.problem.TerminalConstraint); err != nil {
				return nil, nil, nil, 0, slqErrorf(opApproxAll, err)
			}
		}

		return rawAll, projAll, eventAll, sumInts(dropped), nil
	}

	g, gctx := errgroup.WithContext(ctx)
	for i := range trajectories {
		i := i
		dyn := cloneDynamicsMap(s.problem.Dynamics)
		stage := cloneStageCostMap(s.problem.StageCost)
		cons := cloneConstraintMap(s.problem.Constraint)
		term := cloneTerminalCost(s.problem.TerminalCost)
		termCons := cloneTerminalConstraint(s.problem.TerminalConstraint)
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			return work(i, dyn, stage, cons, term, termCons)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, nil, 0, slqErrorf(opApproxAll, err)
	}

	return rawAll, projAll, eventAll, sumInts(dropped), nil
}

// approximatePartition runs C3 over every sample of one partition's
// trajectory against the supplied (possibly Clone()'d) evaluation
// instances, returning the dropped-constraint-row count alongside the raw
// and projected LQ tables.
func (s *Solver) approximatePartition(dyn map[int]model.Dynamics, stage map[int]model.StageCost, cons map[int]model.Constraint, term model.TerminalCost, termCons model.TerminalConstraint, traj model.Trajectory, isFinalPartition bool) ([]model.LQNode, []model.ProjectedLQNode, map[int]model.EventTerminal, int, error) {
	n := len(traj.Time)
	raw := make([]model.LQNode, n)
	proj := make([]model.ProjectedLQNode, n)
	dropped := 0

	for k := 0; k < n; k++ {
		u := sampleInput(traj, k)
		subID := traj.SubsystemAt[k]
		d, ok := dyn[subID]
		if !ok {
			return nil, nil, nil, 0, ErrMissingSubsystem
		}
		st, ok := stage[subID]
		if !ok {
			return nil, nil, nil, 0, ErrMissingSubsystem
		}
		c := cons[subID]

		raw[k] = lq.ApproximateNode(d, st, nullConstraintOr(c), traj.Time[k], traj.State[k], u)
		pr, err := lq.Project(raw[k], s.settings.RankTol, s.settings.PsdFloor)
		if err != nil {
			return nil, nil, nil, 0, err
		}
		proj[k] = pr
		if raw[k].P > pr.Rank {
			dropped += raw[k].P - pr.Rank
		}
	}

	events := make(map[int]model.EventTerminal, len(traj.EventEndIdx))
	for _, idx := range traj.EventEndIdx {
		if idx == n-1 && isFinalPartition {
			continue // the horizon terminal is handled via the boundary seed, not as an event jump
		}
		events[idx] = terminalEvent(term, termCons, traj.Time[idx], traj.State[idx], s.settings.PenaltyWeight)
	}

	return raw, proj, events, dropped, nil
}

func cloneDynamicsMap(m map[int]model.Dynamics) map[int]model.Dynamics {
	out := make(map[int]model.Dynamics, len(m))
	for k, v := range m {
		out[k] = v.Clone()
	}

	return out
}

func cloneStageCostMap(m map[int]model.StageCost) map[int]model.StageCost {
	out := make(map[int]model.StageCost, len(m))
	for k, v := range m {
		out[k] = v.Clone()
	}

	return out
}

func cloneConstraintMap(m map[int]model.Constraint) map[int]model.Constraint {
	out := make(map[int]model.Constraint, len(m))
	for k, v := range m {
		out[k] = v.Clone()
	}

	return out
}

func cloneTerminalCost(t model.TerminalCost) model.TerminalCost {
	if t == nil {
		return nil
	}

	return t.Clone()
}

func cloneTerminalConstraint(t model.TerminalConstraint) model.TerminalConstraint {
	if t == nil {
		return nil
	}

	return t.Clone()
}

func sumInts(v []int) int {
	total := 0
	for _, x := range v {
		total += x
	}

	return total
}

// synthesizeAll runs C5 at every node and assembles a single global
// controller spanning every partition, skipping the duplicate leading node
// of every partition after the first (the partition boundary sample is
// shared with the previous partition's trailing node).
func (s *Solver) synthesizeAll(rawAll [][]model.LQNode, projAll [][]model.ProjectedLQNode, values [][]model.ValueNode, trajectories []model.Trajectory) (*model.Controller, float64, error) {
	var nodes []model.Node
	predictedDecrease := 0.0

	for i := range rawAll {
		start := 0
		if i > 0 {
			start = 1
		}
		for k := start; k < len(rawAll[i]); k++ {
			xNom := trajectories[i].State[k]
			uNom := sampleInput(trajectories[i], k)
			if uNom == nil {
				uNom = make([]float64, s.problem.InputDim)
			}

			node, err := synth.SynthesizeNode(rawAll[i][k], projAll[i][k], values[i][k], xNom, uNom, s.settings.ConstraintStepSize)
			if err != nil {
				return nil, 0, err
			}
			nodes = append(nodes, node)

			predictedDecrease += quadraticForm(node.DeltaUff, projAll[i][k].Rm)
		}
	}

	return &model.Controller{StateDim: s.problem.StateDim, InputDim: s.problem.InputDim, Nodes: nodes}, 0.5 * predictedDecrease, nil
}

func (s *Solver) evaluate(trajectories []model.Trajectory) (linesearch.Evaluation, error) {
	eventConstraint := s.problem.TerminalConstraint

	return linesearch.Evaluate(trajectories, s.problem.StageCost, s.problem.Constraint, eventConstraint, s.problem.TerminalCost)
}

// collapseController bakes the accepted step size into Uff so the next
// iteration's alpha=0 rollout reproduces exactly the just-accepted
// trajectory (spec.md §4.6's implicit warm-start contract).
func collapseController(c *model.Controller, alpha float64) *model.Controller {
	nodes := make([]model.Node, len(c.Nodes))
	for i, nd := range c.Nodes {
		uff := make([]float64, len(nd.Uff))
		for j := range uff {
			uff[j] = nd.Uff[j] + alpha*nd.DeltaUff[j]
		}
		nodes[i] = model.Node{Time: nd.Time, K: nd.K, Uff: uff, DeltaUff: make([]float64, len(nd.DeltaUff))}
	}

	return &model.Controller{StateDim: c.StateDim, InputDim: c.InputDim, Nodes: nodes}
}

func sampleInput(traj model.Trajectory, k int) []float64 {
	if k < len(traj.Input) {
		return traj.Input[k]
	}
	if len(traj.Input) > 0 {
		return traj.Input[len(traj.Input)-1]
	}

	return nil
}

func nullConstraintOr(c model.Constraint) model.Constraint {
	if c == nil {
		return zeroConstraint{}
	}

	return c
}

// zeroConstraint is the unconstrained-node stand-in: p == 0 signals "no
// active constraint" to lq.ApproximateNode/Project.
type zeroConstraint struct{}

func (zeroConstraint) Evaluate(float64, []float64, []float64) (*mat.Dense, *mat.Dense, *mat.Dense, int) {
	return nil, nil, nil, 0
}
func (zeroConstraint) Clone() model.Constraint { return zeroConstraint{} }

func terminalEvent(term model.TerminalCost, cons model.TerminalConstraint, t float64, x []float64, weight float64) model.EventTerminal {
	return lq.TerminalNode(term, cons, t, x, weight)
}

func terminalValueNode(term model.TerminalCost, cons model.TerminalConstraint, t float64, x []float64, n, _ int, weight float64) model.ValueNode {
	et := lq.TerminalNode(term, cons, t, x, weight)

	return model.ValueNode{Time: t, Sm: et.QmF, Sv: et.QvF, S: et.QF, Sve: mat.NewDense(n, 1, nil)}
}

func quadraticForm(v []float64, rm *mat.Dense) float64 {
	n := len(v)
	vm := mat.NewDense(n, 1, v)
	var rv mat.Dense
	rv.Mul(rm, vm)
	sum := 0.0
	for i := 0; i < n; i++ {
		sum += v[i] * rv.At(i, 0)
	}

	return sum
}
