package stream

// OfferFunc offers a single item to one outbound edge (or to a
// snapshot sink) and reports whether it was accepted.
type OfferFunc func(Item) ProgressState

// Outbox is the per-tasklet bounded, multi-edge emission buffer, with
// an optional snapshot sink. An item accepted by one queue is never
// retried against that queue again; a broadcast is atomic across
// edges in aggregate only — per-edge acceptance survives across
// retries of the same in-flight broadcast.
type Outbox struct {
	edges    []OfferFunc
	snapshot OfferFunc

	// accepted tracks, for the in-flight broadcast only, which of
	// edges (and, at index len(edges), the snapshot sink) have
	// already accepted the current item. Cleared once the broadcast
	// completes.
	accepted []bool
}

// NewOutbox builds an Outbox from one offer function per outbound
// edge, plus an optional snapshot offer function (pass nil if the
// tasklet has no snapshot sink).
func NewOutbox(edges []OfferFunc, snapshot OfferFunc) *Outbox {
	n := len(edges)
	if snapshot != nil {
		n++
	}
	return &Outbox{
		edges:    edges,
		snapshot: snapshot,
		accepted: make([]bool, n),
	}
}

// EdgeCount returns the number of outbound data edges (excluding the
// snapshot sink).
func (o *Outbox) EdgeCount() int {
	return len(o.edges)
}

// HasSnapshot reports whether the outbox has a snapshot sink.
func (o *Outbox) HasSnapshot() bool {
	return o.snapshot != nil
}

// Offer sends item to exactly one outbound edge, identified by
// ordinal. Use this for data elements, which are routed by the edge's
// own partitioning function rather than broadcast.
func (o *Outbox) Offer(ordinal int, item Item) ProgressState {
	return o.edges[ordinal](item)
}

// OfferToSnapshot sends item to the snapshot sink only.
func (o *Outbox) OfferToSnapshot(item Item) ProgressState {
	if o.snapshot == nil {
		return Done
	}
	return o.snapshot(item)
}

// OfferBroadcast sends item to every outbound data edge, but not to
// the snapshot sink. Use this for watermarks.
func (o *Outbox) OfferBroadcast(item Item) ProgressState {
	return o.broadcast(item, len(o.edges))
}

// OfferToEdgesAndSnapshot sends item to every outbound data edge and
// to the snapshot sink, if any. Use this for snapshot barriers and
// the done sentinel.
func (o *Outbox) OfferToEdgesAndSnapshot(item Item) ProgressState {
	n := len(o.edges)
	if o.snapshot != nil {
		n++
	}
	return o.broadcast(item, n)
}

// broadcast offers item to the first targetCount targets (data edges,
// then the snapshot sink if targetCount exceeds len(edges)),
// re-offering only to targets that have not yet accepted it.
func (o *Outbox) broadcast(item Item, targetCount int) ProgressState {
	allAccepted := true
	for i := 0; i < targetCount; i++ {
		if o.accepted[i] {
			continue
		}
		fn := o.target(i)
		if fn(item).IsDone() {
			o.accepted[i] = true
		} else {
			allAccepted = false
		}
	}
	if allAccepted {
		for i := 0; i < targetCount; i++ {
			o.accepted[i] = false
		}
		return Done
	}
	return NoProgress
}

func (o *Outbox) target(i int) OfferFunc {
	if i < len(o.edges) {
		return o.edges[i]
	}
	return o.snapshot
}
