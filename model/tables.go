package model

import "gonum.org/v1/gonum/mat"

// LQNode is the raw linearization/quadratization at one rollout node
// (spec.md §3 "LQ tables"): dynamics (A, B), constraint (C, D, e), and the
// stage-cost expansion (q, Qv, Qm, Pm, Rv, Rm). Qm must be symmetric and Rm
// symmetric positive definite.
type LQNode struct {
	Time float64

	A, B    *mat.Dense
	C, D, E *mat.Dense // E is p x 1; C is p x n; D is p x m (p may be 0)
	P       int        // active constraint row count; 0 means unconstrained

	Q                  float64
	Qv, Qm, Pm, Rv, Rm *mat.Dense
}

// ProjectedLQNode is the constrained LQ problem derived from an LQNode via
// the four-step projection pipeline (spec.md §4.3): D's pseudo-inverse and
// rank, the null-space projector P, and the constrained matrices.
type ProjectedLQNode struct {
	Time float64

	DPinv *mat.Dense
	Rank  int
	P     *mat.Dense

	Ac, Bc             *mat.Dense
	Qvc, Qmc, Pmc, Rvc *mat.Dense
	Rm                 *mat.Dense // carried through unprojected; Rm is never touched by projection
}

// ValueNode is one Riccati-integration sample (spec.md §3 "Value tables"):
// symmetric Sm, gradient Sv, scalar s, and the type-1 error-correction term
// Sve.
type ValueNode struct {
	Time float64

	Sm  *mat.Dense
	Sv  *mat.Dense
	S   float64
	Sve *mat.Dense
}

// EventTerminal bundles the terminal-cost and terminal-constraint quadratic
// contributions charged at a partition/event/horizon boundary (spec.md §3,
// §4.3 "Terminal/event contributions").
type EventTerminal struct {
	QF  float64
	QvF *mat.Dense
	QmF *mat.Dense

	// F, H, and PenaltyWeight are non-nil/non-zero only when a type-2
	// state-only equality constraint is active at this boundary; the
	// quadratic penalty weight*‖Fx+h‖^2 is folded into QmF/QvF/QF.
	F, H          *mat.Dense
	PenaltyWeight float64
}
