package testsupport

import "github.com/tarungka/streamcore/stream"

// testQueue is an unbounded or capacity-1 buffer standing in for a
// single downstream edge or the snapshot sink.
type testQueue struct {
	capacity int // 0 means unbounded
	items    []stream.Item
}

func (q *testQueue) offer(item stream.Item) stream.ProgressState {
	if q.capacity > 0 && len(q.items) >= q.capacity {
		return stream.NoProgress
	}
	q.items = append(q.items, item)
	return stream.Done
}

func (q *testQueue) drainInto(dst *[]stream.Item) {
	*dst = append(*dst, q.items...)
	q.items = q.items[:0]
}

func (q *testQueue) len() int { return len(q.items) }

// testOutbox wraps a stream.Outbox with exactly one outbound data
// edge and one snapshot sink, both test-observable queues. The edge's
// capacity is 1 for a cooperative processor, unbounded otherwise, per
// the harness's outbox-sizing rule.
type testOutbox struct {
	outbox   *stream.Outbox
	edge     *testQueue
	snapshot *testQueue
}

func newTestOutbox(cooperative bool) *testOutbox {
	capacity := 0
	if cooperative {
		capacity = 1
	}
	edge := &testQueue{capacity: capacity}
	snapshot := &testQueue{}
	outbox := stream.NewOutbox([]stream.OfferFunc{edge.offer}, snapshot.offer)
	return &testOutbox{outbox: outbox, edge: edge, snapshot: snapshot}
}

func (o *testOutbox) edgeLen() int     { return o.edge.len() }
func (o *testOutbox) snapshotLen() int { return o.snapshot.len() }

func (o *testOutbox) drainEdge(dst *[]stream.Item) { o.edge.drainInto(dst) }

func (o *testOutbox) drainSnapshotInto(dst *[]stream.Item) { o.snapshot.drainInto(dst) }
