// Package liveness decides whether a member counts as online based on
// how recently they reported activity.
package liveness

import "time"

// DefaultWindow is how long a member stays online after their last join
// or location update.
const DefaultWindow = 120 * time.Second

// Policy is a pure read-time rule: it derives the online flag from the
// current time and the member's last activity, with no side effects on
// the stored record.
type Policy struct {
	Window time.Duration
}

// NewPolicy returns a policy with the given window, falling back to
// DefaultWindow when zero.
func NewPolicy(window time.Duration) Policy {
	if window <= 0 {
		window = DefaultWindow
	}
	return Policy{Window: window}
}

// Online reports whether a member whose last activity was at
// lastUpdated (ms since epoch) counts as online at now.
func (p Policy) Online(now time.Time, lastUpdated int64) bool {
	last := time.UnixMilli(lastUpdated)
	return now.Sub(last) < p.Window
}
