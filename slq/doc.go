// Package slq orchestrates one full Sequential Linear-Quadratic optimal
// control solve: the per-iteration C2 → C3 → C4 → C5 → C6 pipeline, warm
// start, and the iteration log (spec.md §4.6, §4 "Data flow").
package slq
