// Package history tracks when recipes were last planned so the selector can
// avoid repeating them within the retention window.
package history

import "time"

// RetentionWindow is how long a used recipe stays ineligible for reuse.
const RetentionWindow = 30 * 24 * time.Hour

// Snapshot maps a recipe ID to the millisecond epoch timestamp of its last
// use. The planner reads a snapshot and returns an updated one; it never
// touches the store directly.
type Snapshot map[string]int64

// RecentIDs returns the set of recipe IDs used within the retention window as
// of now. Stale entries are tolerated and simply omitted.
func (s Snapshot) RecentIDs(now time.Time) map[string]struct{} {
	cutoff := now.Add(-RetentionWindow).UnixMilli()
	recent := make(map[string]struct{}, len(s))
	for id, usedAt := range s {
		if usedAt >= cutoff {
			recent[id] = struct{}{}
		}
	}
	return recent
}

// Touch returns a copy of the snapshot with every given ID stamped at now.
// The original snapshot is left untouched.
func (s Snapshot) Touch(ids []string, now time.Time) Snapshot {
	updated := make(Snapshot, len(s)+len(ids))
	for id, usedAt := range s {
		updated[id] = usedAt
	}
	ts := now.UnixMilli()
	for _, id := range ids {
		updated[id] = ts
	}
	return updated
}
