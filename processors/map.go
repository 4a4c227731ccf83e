package processors

import "github.com/tarungka/streamcore/stream"

// mapProcessor applies fn to each item and emits the result to
// outbound edge 0. It tolerates a full outbox by leaving the head
// item in the inbox until the outbox accepts it.
type mapProcessor struct {
	base
	fn func(stream.Item) stream.Item
}

// Map returns a non-cooperative processor that applies fn to every
// item it receives.
func Map(fn func(stream.Item) stream.Item) stream.Processor {
	return &mapProcessor{fn: fn}
}

func (p *mapProcessor) IsCooperative() bool { return false }

func (p *mapProcessor) Process(ordinal int, inbox *stream.Inbox) error {
	for {
		item := inbox.PeekFirst()
		if item == nil {
			return nil
		}
		if !p.outbox.Offer(0, p.fn(item)).IsDone() {
			return nil
		}
		inbox.Poll()
	}
}
