package processors

import "github.com/tarungka/streamcore/stream"

// flatMapProcessor applies fn to each item and emits every result
// item to outbound edge 0. Because one input item can expand into
// several output items, it buffers the tail of an expansion that
// could not be fully offered, and resumes from there on the next
// call rather than re-expanding the input item.
type flatMapProcessor struct {
	base
	fn      func(stream.Item) []stream.Item
	pending []stream.Item
}

// FlatMap returns a non-cooperative processor that expands each item
// into zero or more output items via fn.
func FlatMap(fn func(stream.Item) []stream.Item) stream.Processor {
	return &flatMapProcessor{fn: fn}
}

func (p *flatMapProcessor) IsCooperative() bool { return false }

func (p *flatMapProcessor) Process(ordinal int, inbox *stream.Inbox) error {
	for {
		if len(p.pending) == 0 {
			item := inbox.PeekFirst()
			if item == nil {
				return nil
			}
			p.pending = p.fn(item)
			inbox.Poll()
		}
		for len(p.pending) > 0 {
			if !p.outbox.Offer(0, p.pending[0]).IsDone() {
				return nil
			}
			p.pending = p.pending[1:]
		}
	}
}
