package slq

// IterationRecord is one entry of the per-iteration solve log (spec.md
// "Output of SLQ": "per-iteration log of cost and constraint ISE norms").
type IterationRecord struct {
	Iteration  int
	Cost       float64
	ISE1       float64
	ISE2       float64
	Alpha      float64
	Accepted   bool
	Diagnostic Diagnostic
}

// Diagnostic carries recoverable, non-fatal conditions observed while
// building an iteration's LQ approximation (spec.md §7: constraint
// infeasibility that forces a row to be dropped during projection "is
// reported with a diagnostic" rather than aborting the solve).
type Diagnostic struct {
	// DroppedConstraintRows is the number of constraint rows, summed across
	// every node of every partition this iteration, for which the
	// rank-revealing pseudo-inverse projection (lq.Project) found the row
	// linearly dependent on the others and excluded it: raw.P - proj.Rank.
	DroppedConstraintRows int
}
