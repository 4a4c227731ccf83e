package stream

import (
	"context"
	"fmt"

	"github.com/tarungka/streamcore/internal/logger"
)

// ProcessorState is one state of the tasklet's state machine.
type ProcessorState int

const (
	NullaryProcess ProcessorState = iota
	ProcessInbox
	SaveSnapshot
	EmitBarrier
	EmitDoneItem
	Complete
	End
)

func (s ProcessorState) String() string {
	switch s {
	case NullaryProcess:
		return "NULLARY_PROCESS"
	case ProcessInbox:
		return "PROCESS_INBOX"
	case SaveSnapshot:
		return "SAVE_SNAPSHOT"
	case EmitBarrier:
		return "EMIT_BARRIER"
	case EmitDoneItem:
		return "EMIT_DONE_ITEM"
	case Complete:
		return "COMPLETE"
	case End:
		return "END"
	default:
		return "UNKNOWN"
	}
}

// ProcessorTasklet is the cooperative unit of execution that drives
// one Processor through its lifecycle, honoring backpressure from
// outbound edges and aligning snapshot barriers on inbound edges.
//
// A worker calls Call() repeatedly until it returns Done at state End.
// Call() never blocks: it advances the state machine by at least one
// step or returns NoProgress.
type ProcessorTasklet struct {
	vertexName    string
	processor     Processor
	snapshottable Snapshottable

	outbox      *Outbox
	snapshotCtx *SnapshotContext

	groupQueue     *instreamGroupQueue
	cursor         *circularCursor
	currInstream   InboundEdgeStream
	activeOrdinals map[int]struct{}

	barrierReceived       map[int]bool
	currSnapshot          int64
	lastForwardedSnapshot int64

	state       ProcessorState
	inbox       *Inbox
	progTracker ProgressTracker

	log logger.Logger
}

// NewProcessorTasklet builds a tasklet for processor, wiring instreams
// and outstreams and, if snapshotSink is non-nil, a snapshot sink
// appended to the outbox. snapshotCtx must not be nil.
func NewProcessorTasklet(
	vertexName string,
	processor Processor,
	instreams []InboundEdgeStream,
	outstreams []OutboundEdgeStream,
	snapshotCtx *SnapshotContext,
	snapshotSink OfferFunc,
) *ProcessorTasklet {
	sortedOut := sortOutstreamsByOrdinal(outstreams)
	offerFuncs := make([]OfferFunc, len(sortedOut))
	for i, edge := range sortedOut {
		e := edge
		offerFuncs[i] = func(item Item) ProgressState {
			if IsBroadcast(item) {
				return e.OfferBroadcast(item)
			}
			return e.Offer(item)
		}
	}

	groups := groupByPriority(instreams)
	groupQueue := newInstreamGroupQueue(groups)

	activeOrdinals := make(map[int]struct{}, len(instreams))
	for _, e := range instreams {
		activeOrdinals[e.Ordinal()] = struct{}{}
	}

	snapshottable, _ := processor.(Snapshottable)

	initialState := NullaryProcess
	if len(instreams) == 0 {
		initialState = Complete
	}

	t := &ProcessorTasklet{
		vertexName:            vertexName,
		processor:             processor,
		snapshottable:         snapshottable,
		outbox:                NewOutbox(offerFuncs, snapshotSink),
		snapshotCtx:           snapshotCtx,
		groupQueue:            groupQueue,
		activeOrdinals:        activeOrdinals,
		barrierReceived:       make(map[int]bool),
		state:                 initialState,
		inbox:                 NewInbox(),
		lastForwardedSnapshot: -1,
		log:                   logger.Get("tasklet"),
	}
	t.cursor = t.groupQueue.pop()
	return t
}

// Init attaches the job-cancellation context and initializes the
// processor. It must be called exactly once, before the first Call().
func (t *ProcessorTasklet) Init(ctx context.Context) error {
	procCtx := &Context{
		Context:     ctx,
		VertexName:  t.vertexName,
		SnapshotCtx: t.snapshotCtx,
	}
	if err := t.processor.Init(t.outbox, procCtx); err != nil {
		return &ErrProcessorInit{Cause: err}
	}
	t.log.Debug().Str("vertex", t.vertexName).Msg("tasklet initialized")
	return nil
}

// Call executes at most one state transition per state, without
// blocking, and reports the progress made during this call.
func (t *ProcessorTasklet) Call() (ProgressState, error) {
	t.progTracker.Reset()

	if t.state == NullaryProcess {
		done, err := t.processor.TryProcess()
		if err != nil {
			return NoProgress, &ErrProcessorExecution{State: NullaryProcess, Cause: err}
		}
		if done {
			t.state = ProcessInbox
		} else {
			t.progTracker.NotDone()
		}
	}

	if t.state == ProcessInbox {
		if t.inbox.IsEmpty() {
			if err := t.tryFillInbox(); err != nil {
				return NoProgress, err
			}
		} else {
			t.progTracker.NotDone()
		}

		switch {
		case !t.inbox.IsEmpty():
			lastLen := t.inbox.Len()
			if err := t.processor.Process(t.currInstream.Ordinal(), t.inbox); err != nil {
				return NoProgress, &ErrProcessorExecution{State: ProcessInbox, Cause: err}
			}
			if t.inbox.Len() < lastLen {
				t.progTracker.MadeProgress(true)
			} else {
				t.progTracker.NotDone()
			}
		case t.allActiveOrdinalsBarriered():
			t.state = SaveSnapshot
		case t.cursor == nil:
			done, err := t.processor.Complete()
			if err != nil {
				return NoProgress, &ErrProcessorExecution{State: ProcessInbox, Cause: err}
			}
			if done {
				t.state = EmitDoneItem
			} else {
				t.progTracker.NotDone()
			}
		default:
			t.progTracker.NotDone()
		}
	}

	if t.state == SaveSnapshot {
		if t.snapshottable == nil {
			t.state = EmitBarrier
		} else {
			done, err := t.snapshottable.SaveSnapshot()
			if err != nil {
				return NoProgress, &ErrProcessorExecution{State: SaveSnapshot, Cause: err}
			}
			if done {
				t.state = EmitBarrier
			} else {
				t.progTracker.NotDone()
			}
		}
	}

	if t.state == EmitBarrier {
		if t.outbox.OfferToEdgesAndSnapshot(SnapshotBarrier{ID: t.currSnapshot}).IsDone() {
			t.lastForwardedSnapshot = t.currSnapshot
			t.barrierReceived = make(map[int]bool)
			t.currSnapshot++
			t.state = NullaryProcess
		} else {
			t.progTracker.NotDone()
		}
	}

	if t.state == Complete {
		t.state = EmitDoneItem
	}

	if t.state == EmitDoneItem {
		if t.outbox.OfferToEdgesAndSnapshot(DoneItem).IsDone() {
			t.state = End
		} else {
			t.progTracker.NotDone()
		}
	}

	return t.progTracker.ToProgressState(), nil
}

// String renders the tasklet's vertex name and processor identity for
// diagnostics.
func (t *ProcessorTasklet) String() string {
	return fmt.Sprintf("tasklet{vertex=%s, processor=%v}", t.vertexName, t.processor)
}

// tryFillInbox drains priority-ordered inbound edges into the inbox,
// one edge group at a time, stopping the moment a snapshot barrier is
// observed so the processor never sees a barrier mixed with data.
func (t *ProcessorTasklet) tryFillInbox() error {
	if t.cursor == nil {
		return nil
	}
	t.progTracker.NotDone()
	first := t.cursor.Value()

	for {
		t.currInstream = t.cursor.Value()
		progressed := false
		skip := t.snapshotCtx.Guarantee() == GuaranteeExactlyOnce && t.barrierReceived[t.currInstream.Ordinal()]

		if !skip {
			var barrier *SnapshotBarrier
			added := false
			result := t.currInstream.DrainTo(func(item Item) {
				if b, ok := item.(SnapshotBarrier); ok {
					barrier = &b
					return
				}
				t.inbox.Add(item)
				added = true
			})
			// An edge may hand over its last items and report Done in the
			// same call; that counts as progress too, so no other edge's
			// items join them in the inbox.
			progressed = result.IsMadeProgress() || (result.IsDone() && added)
			t.progTracker.MadeProgress(progressed)

			if result.IsDone() {
				ord := t.currInstream.Ordinal()
				t.cursor.Remove()
				delete(t.activeOrdinals, ord)
				if t.cursor.IsEmpty() {
					t.cursor = t.groupQueue.pop()
					t.log.Debug().Str("vertex", t.vertexName).Int("ordinal", ord).
						Int("groups_remaining", t.groupQueue.remaining()).Msg("priority group exhausted")
					return nil
				}
			}

			if barrier != nil {
				if err := t.observeSnapshot(t.currInstream.Ordinal(), barrier.ID); err != nil {
					return err
				}
				return nil
			}
		}

		if !t.cursor.Advance() {
			// Wrapped past the last edge of this group back to its
			// first one, which ends this fill attempt whether or not
			// the edge just visited made progress (e.g. every ordinal
			// may be muted awaiting a barrier cycle to reset). The group
			// may still have edges with data behind an already-consumed
			// barrier, so it stays checked out for the next call rather
			// than being popped.
			return nil
		}
		if progressed || t.cursor.Value() == first {
			return nil
		}
	}
}

// observeSnapshot records that ordinal has delivered the barrier for
// the snapshot currently in progress. A mismatched id is fatal, except
// under AT_LEAST_ONCE: there the first ordinal to deliver a barrier
// advances currSnapshot immediately (see allActiveOrdinalsBarriered),
// so every other active ordinal still delivers that same, now-stale,
// id for the epoch that already closed. Those lagging barriers are
// absorbed rather than treated as a mismatch.
func (t *ProcessorTasklet) observeSnapshot(ordinal int, id int64) error {
	if id != t.currSnapshot {
		if t.snapshotCtx.Guarantee() != GuaranteeExactlyOnce && id <= t.lastForwardedSnapshot {
			return nil
		}
		return &ErrUnexpectedSnapshotID{Ordinal: ordinal, Got: id, Expected: t.currSnapshot}
	}
	if t.barrierReceived == nil {
		t.barrierReceived = make(map[int]bool)
	}
	t.barrierReceived[ordinal] = true
	return nil
}

// allActiveOrdinalsBarriered reports whether the tasklet is ready to
// save a local snapshot: under EXACTLY_ONCE, every currently active
// ordinal must have delivered the current barrier; under
// AT_LEAST_ONCE, any single ordinal delivering it is enough, since
// barriers are forwarded immediately rather than aligned.
func (t *ProcessorTasklet) allActiveOrdinalsBarriered() bool {
	if len(t.activeOrdinals) == 0 {
		return false
	}
	switch t.snapshotCtx.Guarantee() {
	case GuaranteeNone:
		return false
	case GuaranteeExactlyOnce:
		for ord := range t.activeOrdinals {
			if !t.barrierReceived[ord] {
				return false
			}
		}
		return true
	default:
		for ord := range t.activeOrdinals {
			if t.barrierReceived[ord] {
				return true
			}
		}
		return false
	}
}
