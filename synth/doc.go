// Package synth implements the Controller Synthesizer (C5): it combines one
// partition's projected LQ subproblem with the Riccati value it produced to
// synthesize the new affine feedback law (K, u_ff, Δu_ff) at that node
// (spec.md §4.5).
package synth
