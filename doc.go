// Package slq is the documentation root for a Sequential Linear-Quadratic
// (SLQ) optimal-control solver for continuous-time switched and hybrid
// nonlinear systems with state-input equality constraints.
//
// 🚀 What is slq?
//
//	A trajectory-optimization library built around seven collaborating
//	components:
//
//	  • Hybrid logic:     mode/event schedule lookup (schedule)
//	  • Rollout:          forward ODE integration under a feedback policy (rollout)
//	  • LQ approximation: per-node linearization + constraint projection (lq)
//	  • Riccati:          backward value-function ODE integration (riccati)
//	  • Synthesis:        feedback gain + feedforward correction (synth)
//	  • Line search:      backtracking step acceptance + the iterate loop (linesearch, slq/ subpackage)
//	  • MRT buffer:       double-buffered policy handoff to a real-time consumer (mrt)
//
// ✨ Why this shape?
//
//   - Deterministic    — every partition/time-node ordering is stable and
//     reproducible; parallel Riccati/line-search paths match their
//     sequential counterparts bit-for-bit within integration tolerance.
//   - Concurrency-safe — the MRT buffer is the only piece of shared mutable
//     state a producer and a consumer touch at once, and it is guarded by a
//     single RWMutex with atomic commit semantics.
//   - Pluggable         — dynamics, stage cost, and constraints are
//     interfaces (model package); any subsystem implementing them can be
//     dropped into a schedule.
//
// Under the hood:
//
//	model/      — shared contracts: Dynamics, StageCost, Constraint, trajectories
//	schedule/   — C1: mode/event lookup over partitions
//	rollout/    — C2: forward simulation under a Controller
//	lq/         — C3: per-node LQ expansion + constraint projection
//	riccati/    — C4: backward Riccati ODE integration
//	synth/      — C5: gain/feedforward synthesis from projected LQ + value data
//	linesearch/ — C6a: backtracking step-size search
//	slq/        — C6b: the Solver driving one full iterate/accept/repeat loop
//	mrt/        — C7: the double-buffered policy exchange
//	ode/        — the adaptive Dormand-Prince integrator shared by C2 and C4
//	linalg/     — dense-matrix helpers (inverse, pseudo-inverse, eigen-floor)
//
// Dive into SPEC_FULL.md and DESIGN.md for the full requirements and the
// grounding behind each package's design.
//
//	go get github.com/katalvlaran/slq
package slq
