package domain

import "time"

// DefaultReopenWindow is how long after closing a request may be reopened.
const DefaultReopenWindow = 7 * 24 * time.Hour

// LastClosedAt returns the timestamp of the most recent transition to closed.
// A request may close and reopen several times, so the history is scanned
// from the end.
func (r *Request) LastClosedAt() (time.Time, bool) {
	for i := len(r.StatusUpdates) - 1; i >= 0; i-- {
		if r.StatusUpdates[i].Status == RequestStatusClosed {
			return r.StatusUpdates[i].UpdatedAt, true
		}
	}
	return time.Time{}, false
}

// ReopenEligible reports whether r may be reopened at now. The window bound
// is inclusive.
func ReopenEligible(r *Request, now time.Time, window time.Duration) bool {
	if r == nil || r.Status != RequestStatusClosed {
		return false
	}
	closedAt, ok := r.LastClosedAt()
	if !ok {
		return false
	}
	return now.Sub(closedAt) <= window
}
