package slq_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/slq/model"
	"github.com/katalvlaran/slq/ode"
	"github.com/katalvlaran/slq/rollout"
	"github.com/katalvlaran/slq/schedule"
	"github.com/katalvlaran/slq/slq"
)

// scalarDynamics implements dx/dt = a*x + b*u for a single scalar subsystem.
type scalarDynamics struct {
	id   int
	a, b float64
}

func (d scalarDynamics) SubsystemID() int { return d.id }
func (d scalarDynamics) Flow(_ float64, x, u []float64, dx []float64) {
	dx[0] = d.a*x[0] + d.b*u[0]
}
func (d scalarDynamics) Jacobians(float64, []float64, []float64) (*mat.Dense, *mat.Dense) {
	return mat.NewDense(1, 1, []float64{d.a}), mat.NewDense(1, 1, []float64{d.b})
}
func (d scalarDynamics) Clone() model.Dynamics { return d }

// scalarCost is a quadratic running cost L = 0.5*q*x^2 + 0.5*r*u^2.
type scalarCost struct{ q, r float64 }

func (c scalarCost) Value(_ float64, x, u []float64) float64 {
	return 0.5*c.q*x[0]*x[0] + 0.5*c.r*u[0]*u[0]
}
func (c scalarCost) Expansion(_ float64, x, u []float64) (float64, *mat.Dense, *mat.Dense, *mat.Dense, *mat.Dense, *mat.Dense) {
	q := 0.5 * c.q * x[0] * x[0]
	qv := mat.NewDense(1, 1, []float64{c.q * x[0]})
	qm := mat.NewDense(1, 1, []float64{c.q})
	pm := mat.NewDense(1, 1, []float64{0})
	rv := mat.NewDense(1, 1, []float64{c.r * u[0]})
	rm := mat.NewDense(1, 1, []float64{c.r})

	return q, qv, qm, pm, rv, rm
}
func (c scalarCost) Clone() model.StageCost { return c }

// scalarTerminal charges a quadratic terminal cost on x.
type scalarTerminal struct{ qf float64 }

func (t scalarTerminal) Value(_ float64, x []float64) float64 { return 0.5 * t.qf * x[0] * x[0] }
func (t scalarTerminal) Expansion(_ float64, x []float64) (float64, *mat.Dense, *mat.Dense) {
	return 0.5 * t.qf * x[0] * x[0], mat.NewDense(1, 1, []float64{t.qf * x[0]}), mat.NewDense(1, 1, []float64{t.qf})
}
func (t scalarTerminal) Clone() model.TerminalCost { return t }

func newScalarProblem(t *testing.T) slq.Problem {
	sched := schedule.New()
	require.NoError(t, sched.SetModeSchedule([]int{0}, nil))
	require.NoError(t, sched.RebuildForPartitions([]float64{0, 1}))

	return slq.Problem{
		Schedule:     sched,
		Dynamics:     map[int]model.Dynamics{0: scalarDynamics{id: 0, a: -0.5, b: 1}},
		StageCost:    map[int]model.StageCost{0: scalarCost{q: 1, r: 1}},
		Constraint:   map[int]model.Constraint{},
		TerminalCost: scalarTerminal{qf: 10},
		StateDim:     1,
		InputDim:     1,
		X0:           []float64{1},
		RolloutOptions: rollout.Options{
			Integrator:     ode.Dopri45{},
			IntegratorOpts: ode.DefaultOptions(1e-7),
			StateDim:       1,
			InputDim:       1,
		},
	}
}

func TestSolver_RunConvergesOnScalarLQR(t *testing.T) {
	problem := newScalarProblem(t)
	settings := slq.NewSettings(slq.WithIterationLimits(10, 1e-8, 1e-6))

	solver := slq.NewSolver(problem, settings, nil)
	controller, trajectories, log, err := solver.Run(context.Background())
	require.NoError(t, err)
	require.NotNil(t, controller)
	require.NotEmpty(t, trajectories)
	require.NotEmpty(t, log)

	// Cost should not increase iteration over iteration once accepted.
	for i := 1; i < len(log); i++ {
		if log[i].Accepted && log[i-1].Accepted {
			require.LessOrEqual(t, log[i].Cost, log[i-1].Cost+1e-6)
		}
	}
}
