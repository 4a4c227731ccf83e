package stream

import "context"

// Context is handed to a processor's Init. It carries the
// job-cancellation context and the shared, read-mostly
// SnapshotContext of the job this processor's tasklet belongs to.
type Context struct {
	// Context is cancelled when the job is cancelled; processors
	// observe it cooperatively, the same way the tasklet does.
	Context context.Context
	// VertexName identifies the vertex this processor instance
	// belongs to, for diagnostics.
	VertexName string
	// SnapshotCtx is shared, read-only from the processor's side.
	SnapshotCtx *SnapshotContext
}

// Processor is the user-implemented operator driven by a
// ProcessorTasklet. It must tolerate being called with a full outbox:
// in that case it should make no progress and return, rather than
// block or drop items.
type Processor interface {
	// Init is called exactly once, before any other method. It must
	// not emit to outbox.
	Init(outbox *Outbox, ctx *Context) error
	// IsCooperative governs outbox capacity selection in the test
	// harness and scheduling policy in production. It must be
	// constant for the lifetime of the processor.
	IsCooperative() bool
	// TryProcess does work that needs no inbox. It returns true once
	// there is nothing more to do in this call.
	TryProcess() (bool, error)
	// Process consumes zero or more items from inbox and may emit to
	// the outbox it received in Init.
	Process(ordinal int, inbox *Inbox) error
	// Complete is called only after every input edge is exhausted.
	// It returns true once the processor is fully done; it may still
	// emit while returning false.
	Complete() (bool, error)
}

// Snapshottable is implemented by processors with state to persist
// across snapshots. The tasklet detects this capability once, at
// construction time, via a type assertion — never per call.
type Snapshottable interface {
	// SaveSnapshot emits the processor's state to the outbox's
	// snapshot sink. It returns true once every bit of state has
	// been emitted.
	SaveSnapshot() (bool, error)
	// RestoreSnapshot consumes zero or more restore items from
	// inbox.
	RestoreSnapshot(inbox *Inbox) error
	// FinishSnapshotRestore is called exactly once, after every
	// restore item has been consumed.
	FinishSnapshotRestore() error
}
