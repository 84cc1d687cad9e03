// Package rollout implements the Rollout Engine (C2): forward integration of
// the controlled system under a given affine feedback controller, producing
// time/state/input trajectories and the sample indices at which an event
// boundary fell.
//
// Both the time-triggered variant (event times as mandatory integration
// stops) and the state-triggered variant (a root-finding predicate evaluated
// continuously by the integrator) run through ode.Integrator: the horizon is
// split into segments ending at each scheduled event time, each segment is
// one Integrate call, and any state-triggered predicates are passed as
// events to that call.
package rollout
