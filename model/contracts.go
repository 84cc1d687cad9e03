package model

import "gonum.org/v1/gonum/mat"

// Dynamics evaluates a subsystem's continuous-time state derivative and its
// Jacobians with respect to state and input, at a given rollout node. One
// Dynamics instance is deep-cloned per worker (spec.md §5) so evaluation must
// not mutate shared state.
type Dynamics interface {
	// SubsystemID identifies which mode/subsystem this instance implements.
	SubsystemID() int

	// Flow writes dx/dt = f(t, x, u) into dx.
	Flow(t float64, x, u []float64, dx []float64)

	// Jacobians returns (A, B) = (df/dx, df/du) at (t, x, u): A is n x n, B
	// is n x m.
	Jacobians(t float64, x, u []float64) (a, b *mat.Dense)

	// Clone returns a deep, independent copy for exclusive use by one worker.
	Clone() Dynamics
}

// StageCost evaluates the running cost and its quadratic expansion at a node.
type StageCost interface {
	// Value returns L(t, x, u).
	Value(t float64, x, u []float64) float64

	// Expansion returns the second-order Taylor expansion of L around (x, u):
	// q (scalar), Qv (dL/dx, n x 1), Qm (d2L/dx2, n x n, symmetric), Pm
	// (d2L/dudx, m x n), Rv (dL/du, m x 1), Rm (d2L/du2, m x m, symmetric
	// positive definite).
	Expansion(t float64, x, u []float64) (q float64, qv, qm, pm, rv, rm *mat.Dense)

	// Clone returns a deep, independent copy for exclusive use by one worker.
	Clone() StageCost
}

// TerminalCost evaluates the cost charged at a partition/event/horizon
// boundary and its quadratic expansion in state only.
type TerminalCost interface {
	// Value returns Phi(t, x).
	Value(t float64, x []float64) float64

	// Expansion returns the second-order Taylor expansion of Phi around x:
	// qF (scalar), QvF (n x 1), QmF (n x n, symmetric).
	Expansion(t float64, x []float64) (qf float64, qvf, qmf *mat.Dense)

	// Clone returns a deep, independent copy for exclusive use by one worker.
	Clone() TerminalCost
}

// Constraint evaluates a state-input equality constraint C x + D u + e = 0
// (a "type-1" constraint). D may be rank-deficient; its row count p may vary
// by node (p == 0 means no active constraint at this node).
type Constraint interface {
	// Evaluate returns (C, D, e) at (t, x, u): C is p x n, D is p x m, e is
	// p x 1.
	Evaluate(t float64, x, u []float64) (c, d, e *mat.Dense, p int)

	// Clone returns a deep, independent copy for exclusive use by one worker.
	Clone() Constraint
}

// TerminalConstraint evaluates a state-only equality constraint F x + h = 0
// charged at a partition/event/horizon boundary (a "type-2" constraint),
// enforced via a quadratic penalty rather than projection.
type TerminalConstraint interface {
	// Evaluate returns (F, h) at (t, x): F is q x n, h is q x 1.
	Evaluate(t float64, x []float64) (f, h *mat.Dense, q int)

	// Clone returns a deep, independent copy for exclusive use by one worker.
	Clone() TerminalConstraint
}
