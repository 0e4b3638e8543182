// Package cadence computes which elapsed-time thresholds have been crossed as
// of a reference time. Invoice follow-ups (days since the due date) and visit
// reminders (hours until the scheduled start) both reduce to the same
// comparison; only the direction of the operands differs.
package cadence

import (
	"sort"
	"time"
)

// CrossedSteps returns the subset of steps whose threshold has been reached,
// i.e. reference - start >= step*unit, sorted ascending. A reference before
// start crosses nothing.
func CrossedSteps(reference, start time.Time, unit time.Duration, steps []int) []int {
	elapsed := reference.Sub(start)
	crossed := make([]int, 0, len(steps))
	for _, step := range steps {
		if elapsed >= time.Duration(step)*unit {
			crossed = append(crossed, step)
		}
	}
	sort.Ints(crossed)
	return crossed
}

// NewlyCrossedSteps returns the steps crossed as of reference that had not
// yet been crossed as of previous. The dispatcher uses the audit ledger as
// the authoritative dedupe store; this helper only narrows the candidate set.
func NewlyCrossedSteps(reference, previous, start time.Time, unit time.Duration, steps []int) []int {
	current := CrossedSteps(reference, start, unit, steps)
	if previous.IsZero() {
		return current
	}
	already := make(map[int]bool)
	for _, s := range CrossedSteps(previous, start, unit, steps) {
		already[s] = true
	}
	fresh := current[:0]
	for _, s := range current {
		if !already[s] {
			fresh = append(fresh, s)
		}
	}
	return fresh
}

// WithinWindow reports whether target falls inside the forward-looking window
// [now, now+window]. Visit reminders fire when the scheduled start is within
// hours_before of now but not already in the past.
func WithinWindow(now, target time.Time, window time.Duration) bool {
	if target.Before(now) {
		return false
	}
	return target.Sub(now) <= window
}
