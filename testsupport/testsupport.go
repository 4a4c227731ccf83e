// Package testsupport is the deterministic, single-threaded harness
// for exercising a stream.Processor in isolation, outside any tasklet
// or worker pool. It is a Go-idiomatic port of the processor-testing
// protocol: a process phase with full-outbox tolerance checking, an
// optional snapshot-save/restore round-trip against a fresh processor
// instance, a complete phase, and a final output comparison.
package testsupport

import (
	"fmt"
	"reflect"

	"github.com/tarungka/streamcore/stream"
)

// TestingT is the subset of *testing.T (and testify's mock.TestingT)
// the harness needs to report failures. Passing *testing.T directly
// satisfies this interface.
type TestingT interface {
	Errorf(format string, args ...interface{})
	FailNow()
}

// Options configures a harness run. The zero value runs with progress
// assertions disabled and no snapshot round-trip; DefaultOptions,
// which TestProcessor uses, enables progress assertions.
type Options struct {
	// AssertProgress fails the test if a Process or snapshot call
	// makes no progress when it is expected to.
	AssertProgress bool
	// DoSnapshots drives a save/restore round-trip against a fresh
	// processor instance after the process phase and again after
	// every Complete call.
	DoSnapshots bool
}

// DefaultOptions returns the harness defaults: progress assertions
// on, snapshot round-trip off.
func DefaultOptions() Options {
	return Options{AssertProgress: true}
}

// Stats reports facts observed during a harness run that aren't
// implied by pass/fail, for tests that need to assert a specific code
// path inside the harness was actually exercised.
type Stats struct {
	// FullOutboxReentries counts how many times the process phase
	// re-invoked Process with a full, single-slot cooperative outbox
	// to check the processor tolerates it without emitting further.
	FullOutboxReentries int
}

// TestProcessor runs a single-shot processor through the harness with
// default options: progress assertions enabled, no snapshot
// round-trip.
func TestProcessor(t TestingT, p stream.Processor, input, expectedOutput []stream.Item) {
	TestProcessorOpts(t, func() stream.Processor { return p }, input, expectedOutput, DefaultOptions())
}

// TestProcessorFromSupplier runs the harness against a fresh
// processor instance obtained from supplier, with default options, so
// no snapshot round-trip runs. A run with DoSnapshots enabled goes
// through TestProcessorOpts, which also takes a supplier, since the
// harness needs a fresh instance to restore into.
func TestProcessorFromSupplier(t TestingT, supplier func() stream.Processor, input, expectedOutput []stream.Item) {
	TestProcessorOpts(t, supplier, input, expectedOutput, DefaultOptions())
}

// TestProcessorOpts is the full form: it drives supplier's processor
// through the process phase, optionally a snapshot round-trip, then
// the complete phase, and asserts the aggregate emitted output
// equals expectedOutput.
func TestProcessorOpts(t TestingT, supplier func() stream.Processor, input, expectedOutput []stream.Item, opts Options) Stats {
	h := &harness{t: t, opts: opts}
	h.run(supplier, input, expectedOutput)
	return h.stats
}

type harness struct {
	t     TestingT
	opts  Options
	stats Stats
}

func (h *harness) fail(format string, args ...interface{}) {
	h.t.Errorf(format, args...)
	h.t.FailNow()
}

func (h *harness) run(supplier func() stream.Processor, input, expectedOutput []stream.Item) {
	proc := supplier()
	testOutbox := newTestOutbox(proc.IsCooperative())

	if err := proc.Init(testOutbox.outbox, &stream.Context{SnapshotCtx: stream.NewSnapshotContext(stream.GuaranteeNone)}); err != nil {
		h.fail("Init returned an error: %v", err)
		return
	}

	var actual []stream.Item

	inbox := stream.NewInbox()
	inbox.AddAll(input)

	h.runProcessPhase(proc, testOutbox, inbox, &actual)

	if h.opts.DoSnapshots {
		proc = h.runSnapshotPhase(supplier, proc, testOutbox, &actual)
	}

	h.runCompletePhase(supplier, proc, testOutbox, &actual)

	if !itemsEqual(actual, expectedOutput) {
		err := &HarnessAssertionFailure{
			Assertion: "processor output",
			Expected:  fmt.Sprint(expectedOutput),
			Actual:    fmt.Sprint(actual),
		}
		h.fail("%s", err.Error())
	}
}

// runProcessPhase drains inbox via proc.Process, draining the test
// outbox's edge queue after every call. When the processor is
// cooperative and the outbox's single edge ends up with exactly one
// queued item, Process is invoked a second time with that item still
// queued, to verify the full-outbox tolerance property: a cooperative
// processor must make no additional emission while its one outbox
// slot is occupied.
func (h *harness) runProcessPhase(proc stream.Processor, testOutbox *testOutbox, inbox *stream.Inbox, actual *[]stream.Item) {
	for !inbox.IsEmpty() {
		lastLen := inbox.Len()
		if err := proc.Process(0, inbox); err != nil {
			h.fail("Process returned an error: %v", err)
			return
		}
		madeProgress := inbox.Len() < lastLen || testOutbox.edgeLen() > 0

		if proc.IsCooperative() && testOutbox.edgeLen() == 1 {
			h.stats.FullOutboxReentries++
			beforeLen := testOutbox.edgeLen()
			if err := proc.Process(0, inbox); err != nil {
				h.fail("Process returned an error: %v", err)
				return
			}
			if testOutbox.edgeLen() != beforeLen {
				h.fail("cooperative processor emitted while its outbox was full")
				return
			}
		}

		if h.opts.AssertProgress && !madeProgress {
			h.fail("Process made no progress: inbox size unchanged and outbox empty")
			return
		}

		testOutbox.drainEdge(actual)
	}
}

// runSnapshotPhase repeatedly calls SaveSnapshot, collecting the
// emitted key/value pairs, draining the edge queue after each call.
// Once SaveSnapshot reports done, it builds a fresh processor
// instance from supplier, Init's it against the same outbox, and
// replays the collected pairs into RestoreSnapshot before calling
// FinishSnapshotRestore. It returns the processor instance that
// should continue into the complete phase: the fresh one if the
// processor is Snapshottable, or the original if not.
func (h *harness) runSnapshotPhase(supplier func() stream.Processor, proc stream.Processor, testOutbox *testOutbox, actual *[]stream.Item) stream.Processor {
	snap, ok := proc.(stream.Snapshottable)
	if !ok {
		return proc
	}

	var restoreItems []stream.Item
	for {
		before := testOutbox.snapshotLen()
		done, err := snap.SaveSnapshot()
		if err != nil {
			h.fail("SaveSnapshot returned an error: %v", err)
			return proc
		}
		testOutbox.drainEdge(actual)
		testOutbox.drainSnapshotInto(&restoreItems)

		madeProgress := done || testOutbox.snapshotLen() > before || len(restoreItems) > 0 || testOutbox.edgeLen() > 0
		if h.opts.AssertProgress && !done && !madeProgress {
			h.fail("SaveSnapshot made no progress")
			return proc
		}
		if done {
			break
		}
	}

	fresh := supplier()
	if err := fresh.Init(testOutbox.outbox, &stream.Context{SnapshotCtx: stream.NewSnapshotContext(stream.GuaranteeNone)}); err != nil {
		h.fail("Init on restored instance returned an error: %v", err)
		return proc
	}

	freshSnap, ok := fresh.(stream.Snapshottable)
	if !ok {
		h.fail("supplier produced a processor that no longer implements Snapshottable")
		return proc
	}

	if len(restoreItems) > 0 {
		restoreInbox := stream.NewInbox()
		restoreInbox.AddAll(restoreItems)
		for !restoreInbox.IsEmpty() {
			lastLen := restoreInbox.Len()
			if err := freshSnap.RestoreSnapshot(restoreInbox); err != nil {
				h.fail("RestoreSnapshot returned an error: %v", err)
				return proc
			}
			if h.opts.AssertProgress && restoreInbox.Len() == lastLen {
				h.fail("RestoreSnapshot made no progress")
				return proc
			}
		}
	}
	if err := freshSnap.FinishSnapshotRestore(); err != nil {
		h.fail("FinishSnapshotRestore returned an error: %v", err)
		return proc
	}

	return fresh
}

// runCompletePhase repeats complete() until it reports done. Like the
// Java original's do/while loop, a snapshot round-trip runs after
// every single call, including the one that reports done, since a
// complete phase spanning several barrier cycles must be able to
// restore from any one of them, not just the state left over from the
// process phase.
func (h *harness) runCompletePhase(supplier func() stream.Processor, proc stream.Processor, testOutbox *testOutbox, actual *[]stream.Item) {
	for {
		done, err := proc.Complete()
		if err != nil {
			h.fail("Complete returned an error: %v", err)
			return
		}
		madeProgress := done || testOutbox.edgeLen() > 0
		if h.opts.AssertProgress && !madeProgress {
			h.fail("Complete made no progress")
			return
		}
		testOutbox.drainEdge(actual)
		if h.opts.DoSnapshots {
			proc = h.runSnapshotPhase(supplier, proc, testOutbox, actual)
		}
		if done {
			return
		}
	}
}

func itemsEqual(a, b []stream.Item) bool {
	return reflect.DeepEqual(a, b)
}
