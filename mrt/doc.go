// Package mrt implements the Model Reference Tracking policy buffer (C7): a
// double-buffered, mutex-guarded handoff between the SLQ optimizer
// (producer, via Stage/Commit) and a real-time controller (consumer, via
// Evaluate/Reroll), per spec.md §4.7.
package mrt
