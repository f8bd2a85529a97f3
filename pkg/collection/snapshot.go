package collection

// Snapshot support. Initialization captures the loaded contents as the
// change-tracking baseline; a unit of work re-captures after each flush.

// TakeSnapshot captures the current values as the baseline for InsertDiff
// and DeleteDiff.
func (c *Collection) TakeSnapshot() {
	c.snapshot = make([]any, len(c.entries))
	for i, e := range c.entries {
		c.snapshot[i] = e.Value
	}
}

// Snapshot returns the values captured by the last TakeSnapshot, in order.
// The returned slice is the internal baseline; callers must not mutate it.
func (c *Collection) Snapshot() []any {
	return c.snapshot
}

// InsertDiff returns the current values that were not present in the
// snapshot, compared by identity. These are the elements a unit of work
// still has to persist.
func (c *Collection) InsertDiff() []any {
	var diff []any
	for _, e := range c.entries {
		if !snapshotContains(c.snapshot, e.Value) {
			diff = append(diff, e.Value)
		}
	}
	return diff
}

// DeleteDiff returns the snapshot values no longer present in the
// collection, compared by identity. These are the elements a unit of work
// has to delete.
func (c *Collection) DeleteDiff() []any {
	var diff []any
	for _, v := range c.snapshot {
		if !c.containsIdentical(v) {
			diff = append(diff, v)
		}
	}
	return diff
}

func snapshotContains(snapshot []any, v any) bool {
	for _, s := range snapshot {
		if identical(s, v) {
			return true
		}
	}
	return false
}
