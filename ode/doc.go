// Package ode defines the abstract numerical integrator contract the rollout
// and Riccati engines step against, plus one concrete default implementation.
//
// spec.md treats concrete integrators as an external collaborator ("treated
// as an abstract ODE integrator with event detection"); no retrieved example
// repository ships one, so this package supplies a minimal, swappable default
// — an embedded Dormand-Prince RK45 with adaptive step control and
// root-finding event backtracking — rather than leave the contract
// unimplementable. Callers that already depend on a more sophisticated
// integrator can satisfy Integrator directly.
package ode
