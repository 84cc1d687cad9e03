// Package model declares the shared data model and evaluation contracts that
// flow between the SLQ components (spec.md §3): dynamics, stage/terminal
// cost, and constraint objects a caller supplies; the trajectories a rollout
// produces; the LQ and projected-LQ tables the approximator computes; the
// value tables the Riccati integrator produces; and the affine feedback
// Controller the synthesizer emits and the rollout engine consumes.
//
// Nothing in this package performs numerical work itself — it is the nouns
// the other packages (schedule, rollout, lq, riccati, synth, linesearch, slq,
// mrt) operate on, the same role core plays for the graph algorithm packages.
package model
