// Package linalg provides the dense matrix operations the solver needs on
// top of gonum.org/v1/gonum/mat: thin facades for multiply/transpose/inverse,
// plus the domain-specific operations spec.md requires that gonum does not
// name directly — a rank-revealing Moore-Penrose pseudo-inverse, the
// resulting input-space projector, and symmetric eigenvalue-floor clipping
// to the positive semi-definite cone.
//
// Determinism & Policy:
//   - Facades never change gonum's numeric policy; they only compose calls
//     and translate gonum's panics (on shape mismatch) into plain errors.
//   - All functions are pure: none mutate their *mat.Dense arguments.
package linalg
