package stream

import "sort"

// InboundEdgeStream is an ordered source of items tagged with
// (ordinal, priority). Lower-priority-numbered edges are exhausted
// before higher-numbered ones.
type InboundEdgeStream interface {
	// DrainTo hands every currently available item to add, in order,
	// and reports whether the edge made progress and/or is now done
	// (exhausted, never to produce another item). If a SnapshotBarrier
	// is available, it must be the last item delivered on this call:
	// DrainTo stops immediately after adding it, leaving anything
	// buffered behind it for a later call, so a caller never sees an
	// item from the next epoch mixed into the one the barrier closes.
	DrainTo(add func(Item)) ProgressState
	// Ordinal is this edge's dense, tasklet-unique identifier.
	Ordinal() int
	// Priority groups edges for drain ordering.
	Priority() int
}

// OutboundEdgeStream is an ordered sink tagged with an ordinal.
type OutboundEdgeStream interface {
	// Offer routes item by the edge's own partitioning function.
	Offer(item Item) ProgressState
	// OfferBroadcast sends item to every partition of this edge.
	OfferBroadcast(item Item) ProgressState
	// Ordinal is this edge's dense, tasklet-unique identifier.
	Ordinal() int
}

// groupByPriority buckets instreams by ascending priority, returning
// one slice per distinct priority in ascending order — the initial
// contents of the tasklet's instream group queue.
func groupByPriority(instreams []InboundEdgeStream) [][]InboundEdgeStream {
	byPriority := make(map[int][]InboundEdgeStream)
	for _, e := range instreams {
		byPriority[e.Priority()] = append(byPriority[e.Priority()], e)
	}
	priorities := make([]int, 0, len(byPriority))
	for p := range byPriority {
		priorities = append(priorities, p)
	}
	sort.Ints(priorities)
	groups := make([][]InboundEdgeStream, len(priorities))
	for i, p := range priorities {
		groups[i] = byPriority[p]
	}
	return groups
}

// sortOutstreamsByOrdinal returns outstreams sorted ascending by
// Ordinal(), as the tasklet requires a dense index-by-ordinal array.
func sortOutstreamsByOrdinal(outstreams []OutboundEdgeStream) []OutboundEdgeStream {
	sorted := make([]OutboundEdgeStream, len(outstreams))
	copy(sorted, outstreams)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Ordinal() < sorted[j].Ordinal()
	})
	return sorted
}
