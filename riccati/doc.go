// Package riccati implements the Riccati Integrator (C4): backward
// integration, per partition, of the symmetric Riccati matrix equation, the
// value-gradient equation, the value-scalar equation, and the type-1
// error-correction equation (spec.md §4.4), on normalized time [0,1] for
// numerical conditioning.
//
// Sequential mode walks partitions in reverse order, stitching each
// partition's initial value into the previous partition's terminal value.
// Parallel mode takes every partition's terminal value from caller-supplied
// seeds (no sequential pass inside this package) and integrates all
// partitions concurrently via golang.org/x/sync/errgroup — the same fan-out-with-
// first-error-wins shape used for concurrent flow-network probing
// elsewhere in the retrieved corpus.
package riccati
