// Package linesearch implements the step-size search half of the Line
// Search & Iteration Driver (C6): backtracking over a geometric sequence of
// candidate step sizes with a soft wall-clock budget and a descent-fraction
// acceptance test (spec.md §4.6). Cost and constraint-violation evaluation
// for one candidate rollout lives alongside it in this package; the outer
// per-iteration orchestration (C2 → C3 → C4 → C5 → this package) lives in
// the top-level slq package.
package linesearch
