// Package lq implements the LQ Approximator (C3): at each rollout node it
// evaluates the active subsystem's dynamics Jacobians, cost expansion, and
// constraint triple, then projects the state-input equality constraint onto
// the input space to produce a constrained LQ subproblem (spec.md §4.3).
//
// The projection pipeline itself is four steps — pseudo-inverse, null-space
// projector, constrained matrices, PSD enforcement — each delegated to
// linalg, the way the matrix package's operation facade delegates to
// per-kernel files while keeping validation and error-tagging centralized.
package lq
