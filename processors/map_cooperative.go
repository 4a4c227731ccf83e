package processors

import "github.com/tarungka/streamcore/stream"

// mapCooperativeProcessor multiplies each integer item by factor and
// emits it to outbound edge 0. It is cooperative: it offers at most
// one item per Process call, so the test harness's capacity-1 outbox
// can force it to be re-entered with a full outbox, exercising the
// full-outbox tolerance property.
type mapCooperativeProcessor struct {
	base
	factor int
}

// MapCooperative returns a cooperative processor that multiplies
// every int item it receives by factor.
func MapCooperative(factor int) stream.Processor {
	return &mapCooperativeProcessor{factor: factor}
}

func (p *mapCooperativeProcessor) IsCooperative() bool { return true }

func (p *mapCooperativeProcessor) Process(ordinal int, inbox *stream.Inbox) error {
	item := inbox.PeekFirst()
	if item == nil {
		return nil
	}
	n, ok := item.(int)
	if !ok {
		inbox.Poll()
		return nil
	}
	if !p.outbox.Offer(0, n*p.factor).IsDone() {
		return nil
	}
	inbox.Poll()
	return nil
}
