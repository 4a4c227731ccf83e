// Package edge gives stream.InboundEdgeStream and
// stream.OutboundEdgeStream one in-process, channel-backed
// implementation each. It stands in for a real partitioning/shuffle
// transport; it carries no partitioning logic of its own.
package edge

import "github.com/tarungka/streamcore/stream"

// drainBudget caps how many items a single DrainTo call moves off the
// channel, so a tasklet's tryFillInbox never blocks waiting on a
// producer and never starves other edges in its priority group.
const drainBudget = 256

// ChannelInboundEdge is a stream.InboundEdgeStream backed by a Go
// channel. It never blocks: DrainTo drains whatever is already
// buffered, up to drainBudget items, and returns immediately.
type ChannelInboundEdge struct {
	ch       <-chan stream.Item
	ordinal  int
	priority int
	closed   bool
}

// NewChannelInboundEdge wraps ch as an inbound edge with the given
// ordinal and priority. The edge reports Done once ch is closed and
// fully drained.
func NewChannelInboundEdge(ch <-chan stream.Item, ordinal, priority int) *ChannelInboundEdge {
	return &ChannelInboundEdge{ch: ch, ordinal: ordinal, priority: priority}
}

func (e *ChannelInboundEdge) Ordinal() int  { return e.ordinal }
func (e *ChannelInboundEdge) Priority() int { return e.priority }

// DrainTo moves up to drainBudget buffered items into add without
// blocking. It reports Done once the channel is closed and empty,
// MadeProgress if it moved at least one item, and NoProgress if the
// channel was already empty on this call. A snapshot barrier is always
// the last item delivered on a call: once one is seen, DrainTo stops
// and leaves anything behind it on the channel for a later call, so a
// caller's inbox never sees items from the next epoch mixed in with
// the one the barrier closes.
func (e *ChannelInboundEdge) DrainTo(add func(stream.Item)) stream.ProgressState {
	if e.closed {
		return stream.Done
	}
	moved := 0
	for moved < drainBudget {
		select {
		case item, ok := <-e.ch:
			if !ok {
				e.closed = true
				if moved > 0 {
					return stream.MadeProgress
				}
				return stream.Done
			}
			add(item)
			moved++
			if _, isBarrier := item.(stream.SnapshotBarrier); isBarrier {
				return stream.MadeProgress
			}
		default:
			if moved > 0 {
				return stream.MadeProgress
			}
			return stream.NoProgress
		}
	}
	return stream.MadeProgress
}

// ChannelOutboundEdge is a stream.OutboundEdgeStream backed by a Go
// channel. Offer and OfferBroadcast never block: they attempt a
// single non-blocking send and report NoProgress if the channel's
// buffer is full.
type ChannelOutboundEdge struct {
	ch      chan stream.Item
	ordinal int
}

// NewChannelOutboundEdge wraps ch as an outbound edge with the given
// ordinal. The caller owns closing ch once no more items will be
// offered.
func NewChannelOutboundEdge(ch chan stream.Item, ordinal int) *ChannelOutboundEdge {
	return &ChannelOutboundEdge{ch: ch, ordinal: ordinal}
}

func (e *ChannelOutboundEdge) Ordinal() int { return e.ordinal }

// Offer attempts a single non-blocking send of item.
func (e *ChannelOutboundEdge) Offer(item stream.Item) stream.ProgressState {
	select {
	case e.ch <- item:
		return stream.Done
	default:
		return stream.NoProgress
	}
}

// OfferBroadcast is identical to Offer: a single channel has exactly
// one downstream reader, so broadcasting and routing coincide.
func (e *ChannelOutboundEdge) OfferBroadcast(item stream.Item) stream.ProgressState {
	return e.Offer(item)
}
