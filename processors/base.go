// Package processors supplies concrete stream.Processor
// implementations, adapted from the teacher's BaseOperator/MapOperator
// pattern but extended to the full Processor contract: TryProcess,
// Process, Complete, and, for stateful processors, Snapshottable.
package processors

import "github.com/tarungka/streamcore/stream"

// base holds the plumbing every processor in this package shares: the
// outbox and context handed to it at Init, and the no-op defaults for
// TryProcess and Complete that stateless processors need.
type base struct {
	outbox *stream.Outbox
	ctx    *stream.Context
}

func (b *base) Init(outbox *stream.Outbox, ctx *stream.Context) error {
	b.outbox = outbox
	b.ctx = ctx
	return nil
}

// TryProcess is a no-op for processors whose only work happens in
// Process: this is not a source, so there is nothing to do before the
// inbox has data.
func (b *base) TryProcess() (bool, error) { return true, nil }

// Complete is a no-op by default; Counter overrides it to flush its
// final count.
func (b *base) Complete() (bool, error) { return true, nil }
