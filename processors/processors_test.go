package processors

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tarungka/streamcore/stream"
)

func newTestContext() (*stream.Outbox, *[]stream.Item) {
	var emitted []stream.Item
	edge := func(item stream.Item) stream.ProgressState {
		emitted = append(emitted, item)
		return stream.Done
	}
	outbox := stream.NewOutbox([]stream.OfferFunc{edge}, nil)
	return outbox, &emitted
}

func initProcessor(t *testing.T, p stream.Processor, outbox *stream.Outbox) {
	require.NoError(t, p.Init(outbox, &stream.Context{}))
}

func TestMapAppliesFunctionToEveryItem(t *testing.T) {
	outbox, emitted := newTestContext()
	p := Map(func(i stream.Item) stream.Item { return i.(int) + 1 })
	initProcessor(t, p, outbox)

	inbox := stream.NewInbox()
	inbox.AddAll([]stream.Item{1, 2, 3})
	require.NoError(t, p.Process(0, inbox))

	assert.True(t, inbox.IsEmpty())
	assert.Equal(t, []stream.Item{2, 3, 4}, *emitted)
}

func TestMapStopsConsumingWhenOutboxFull(t *testing.T) {
	accepted := false
	edge := func(item stream.Item) stream.ProgressState {
		if accepted {
			return stream.NoProgress
		}
		accepted = true
		return stream.Done
	}
	outbox := stream.NewOutbox([]stream.OfferFunc{edge}, nil)
	p := Map(func(i stream.Item) stream.Item { return i })
	initProcessor(t, p, outbox)

	inbox := stream.NewInbox()
	inbox.AddAll([]stream.Item{1, 2})
	require.NoError(t, p.Process(0, inbox))

	assert.Equal(t, 1, inbox.Len())
	assert.Equal(t, 2, inbox.PeekFirst())
}

func TestFlatMapExpandsEachItem(t *testing.T) {
	outbox, emitted := newTestContext()
	p := FlatMap(func(i stream.Item) []stream.Item {
		n := i.(int)
		return []stream.Item{n, n}
	})
	initProcessor(t, p, outbox)

	inbox := stream.NewInbox()
	inbox.AddAll([]stream.Item{1, 2})
	require.NoError(t, p.Process(0, inbox))

	assert.True(t, inbox.IsEmpty())
	assert.Equal(t, []stream.Item{1, 1, 2, 2}, *emitted)
}

func TestFlatMapResumesPendingExpansionOnFullOutbox(t *testing.T) {
	var emitted []stream.Item
	cap := 1
	edge := func(item stream.Item) stream.ProgressState {
		if len(emitted) >= cap {
			return stream.NoProgress
		}
		emitted = append(emitted, item)
		return stream.Done
	}
	outbox := stream.NewOutbox([]stream.OfferFunc{edge}, nil)
	p := FlatMap(func(i stream.Item) []stream.Item {
		n := i.(int)
		return []stream.Item{n, n}
	})
	initProcessor(t, p, outbox)

	inbox := stream.NewInbox()
	inbox.AddAll([]stream.Item{5})
	require.NoError(t, p.Process(0, inbox))

	assert.Equal(t, []stream.Item{5}, emitted)
	assert.True(t, inbox.IsEmpty())

	cap = 2
	require.NoError(t, p.Process(0, inbox))
	assert.Equal(t, []stream.Item{5, 5}, emitted)
}

func TestCounterCountsAndEmitsOnComplete(t *testing.T) {
	outbox, emitted := newTestContext()
	p := Counter()
	initProcessor(t, p, outbox)

	inbox := stream.NewInbox()
	inbox.AddAll([]stream.Item{"a", "b", "c"})
	require.NoError(t, p.Process(0, inbox))

	done, err := p.Complete()
	require.NoError(t, err)
	assert.True(t, done)
	assert.Equal(t, []stream.Item{int64(3)}, *emitted)
}

func TestCounterCompleteToleratesFullOutbox(t *testing.T) {
	edge := func(item stream.Item) stream.ProgressState { return stream.NoProgress }
	outbox := stream.NewOutbox([]stream.OfferFunc{edge}, nil)
	p := Counter()
	initProcessor(t, p, outbox)

	done, err := p.Complete()
	require.NoError(t, err)
	assert.False(t, done)

	done, err = p.Complete()
	require.NoError(t, err)
	assert.False(t, done)
}

func TestCounterSnapshotRoundTrip(t *testing.T) {
	snapshotQueue := []stream.Item{}
	snapshotOutbox := stream.NewOutbox([]stream.OfferFunc{func(stream.Item) stream.ProgressState { return stream.Done }}, func(item stream.Item) stream.ProgressState {
		snapshotQueue = append(snapshotQueue, item)
		return stream.Done
	})

	p := Counter().(*counterProcessor)
	initProcessor(t, p, snapshotOutbox)

	inbox := stream.NewInbox()
	inbox.AddAll([]stream.Item{"a", "b"})
	require.NoError(t, p.Process(0, inbox))

	done, err := p.SaveSnapshot()
	require.NoError(t, err)
	assert.True(t, done)
	require.Len(t, snapshotQueue, 1)

	restored := Counter().(*counterProcessor)
	initProcessor(t, restored, snapshotOutbox)

	restoreInbox := stream.NewInbox()
	restoreInbox.AddAll(snapshotQueue)
	require.NoError(t, restored.RestoreSnapshot(restoreInbox))
	require.NoError(t, restored.FinishSnapshotRestore())

	assert.Equal(t, int64(2), restored.count)
}

func TestCounterSaveSnapshotReemitsUpdatedCountOnSecondCycle(t *testing.T) {
	var snapshotQueue []stream.Item
	snapshotOutbox := stream.NewOutbox([]stream.OfferFunc{func(stream.Item) stream.ProgressState { return stream.Done }}, func(item stream.Item) stream.ProgressState {
		snapshotQueue = append(snapshotQueue, item)
		return stream.Done
	})

	p := Counter().(*counterProcessor)
	initProcessor(t, p, snapshotOutbox)

	inbox := stream.NewInbox()
	inbox.AddAll([]stream.Item{"a", "b"})
	require.NoError(t, p.Process(0, inbox))

	done, err := p.SaveSnapshot()
	require.NoError(t, err)
	assert.True(t, done)
	require.Len(t, snapshotQueue, 1)
	firstEntry := snapshotQueue[0].(stream.SnapshotEntry)

	inbox.AddAll([]stream.Item{"c"})
	require.NoError(t, p.Process(0, inbox))

	done, err = p.SaveSnapshot()
	require.NoError(t, err)
	assert.True(t, done)
	require.Len(t, snapshotQueue, 2, "a second barrier cycle must re-emit, not short-circuit on a stale done flag")
	secondEntry := snapshotQueue[1].(stream.SnapshotEntry)

	assert.NotEqual(t, firstEntry.Value, secondEntry.Value, "the second snapshot must carry the updated count")

	restored := Counter().(*counterProcessor)
	initProcessor(t, restored, snapshotOutbox)
	restoreInbox := stream.NewInbox()
	restoreInbox.AddAll([]stream.Item{secondEntry})
	require.NoError(t, restored.RestoreSnapshot(restoreInbox))
	require.NoError(t, restored.FinishSnapshotRestore())
	assert.Equal(t, int64(3), restored.count)
}

func TestMapCooperativeForcesFullOutboxReentry(t *testing.T) {
	var emitted []stream.Item
	full := false
	edge := func(item stream.Item) stream.ProgressState {
		if full {
			return stream.NoProgress
		}
		emitted = append(emitted, item)
		full = true
		return stream.Done
	}
	outbox := stream.NewOutbox([]stream.OfferFunc{edge}, nil)
	p := MapCooperative(2)
	initProcessor(t, p, outbox)
	assert.True(t, p.IsCooperative())

	inbox := stream.NewInbox()
	inbox.AddAll([]stream.Item{1, 2, 3, 4})

	for !inbox.IsEmpty() {
		lastLen := inbox.Len()
		require.NoError(t, p.Process(0, inbox))
		if inbox.Len() == lastLen {
			full = false
		}
	}

	assert.Equal(t, []stream.Item{2, 4, 6, 8}, emitted)
}
