package stream

import "sync/atomic"

// ProcessingGuarantee selects how aggressively a tasklet aligns
// barriers across its inbound edges.
type ProcessingGuarantee int

const (
	// GuaranteeNone: the job takes no snapshots at all.
	GuaranteeNone ProcessingGuarantee = iota
	// GuaranteeAtLeastOnce: barriers are forwarded immediately,
	// without aligning across edges.
	GuaranteeAtLeastOnce
	// GuaranteeExactlyOnce: barriers are aligned across every active
	// ordinal before the local snapshot is taken and the barrier is
	// forwarded.
	GuaranteeExactlyOnce
)

func (g ProcessingGuarantee) String() string {
	switch g {
	case GuaranteeAtLeastOnce:
		return "AT_LEAST_ONCE"
	case GuaranteeExactlyOnce:
		return "EXACTLY_ONCE"
	default:
		return "NONE"
	}
}

// SnapshotContext is shared across every tasklet of one job. It is
// read-mostly: the tasklet never mutates currentSnapshotID or
// completedSnapshotID of a context it merely observes; the job
// coordinator (out of scope here) owns those transitions. Fields are
// published safely via atomics so concurrent tasklets on different
// workers can read them without a lock.
type SnapshotContext struct {
	guarantee           ProcessingGuarantee
	currentSnapshotID   atomic.Int64
	completedSnapshotID atomic.Int64
}

// NewSnapshotContext creates a SnapshotContext for a job running with
// the given processing guarantee. Both currentSnapshotID and
// completedSnapshotID start at -1, so the job's first snapshot is id 0
// and matches the id every fresh tasklet's currSnapshot starts at.
func NewSnapshotContext(guarantee ProcessingGuarantee) *SnapshotContext {
	ctx := &SnapshotContext{guarantee: guarantee}
	ctx.currentSnapshotID.Store(-1)
	ctx.completedSnapshotID.Store(-1)
	return ctx
}

// Guarantee returns the job's processing guarantee. It never changes
// after construction.
func (c *SnapshotContext) Guarantee() ProcessingGuarantee {
	return c.guarantee
}

// CurrentSnapshotID returns the id of the snapshot currently in
// progress.
func (c *SnapshotContext) CurrentSnapshotID() int64 {
	return c.currentSnapshotID.Load()
}

// CompletedSnapshotID returns the id of the last snapshot every
// tasklet in the job finished, or -1 if none has completed yet.
func (c *SnapshotContext) CompletedSnapshotID() int64 {
	return c.completedSnapshotID.Load()
}

// SetCurrentSnapshotID advances the in-progress snapshot id. Only the
// job coordinator collaborator (out of scope for this core) calls
// this; a tasklet only ever reads it.
func (c *SnapshotContext) SetCurrentSnapshotID(id int64) {
	c.currentSnapshotID.Store(id)
}

// SetCompletedSnapshotID records that every tasklet in the job has
// finished snapshot id. Only the job coordinator calls this.
func (c *SnapshotContext) SetCompletedSnapshotID(id int64) {
	c.completedSnapshotID.Store(id)
}
