package processors

import (
	"encoding/binary"

	"github.com/tarungka/streamcore/stream"
)

// counterProcessor counts every item it receives and emits the final
// count, once, from Complete. It implements stream.Snapshottable so
// its running count survives a snapshot round-trip.
type counterProcessor struct {
	base
	count       int64
	emitted     bool
	restoreDone bool
}

// Counter returns a stateful, non-cooperative processor that counts
// its input items and emits the total once its input is exhausted.
func Counter() stream.Processor {
	return &counterProcessor{}
}

func (p *counterProcessor) IsCooperative() bool { return false }

func (p *counterProcessor) Process(ordinal int, inbox *stream.Inbox) error {
	for inbox.PeekFirst() != nil {
		inbox.Poll()
		p.count++
	}
	return nil
}

// Complete emits the final count to outbound edge 0 and tolerates a
// full outbox by retrying the same emission on the next call.
func (p *counterProcessor) Complete() (bool, error) {
	if p.emitted {
		return true, nil
	}
	if !p.outbox.Offer(0, p.count).IsDone() {
		return false, nil
	}
	p.emitted = true
	return true, nil
}

const countKey = "count"

// SaveSnapshot emits the running count as a single key/value pair. It
// retries the same offer across calls until the snapshot sink accepts
// it; since the tasklet only calls SaveSnapshot again once the next
// barrier cycle starts, no separate done flag is needed to suppress a
// repeat emission within one cycle — each call re-encodes the current
// count, so a later cycle's call naturally carries the updated total.
func (p *counterProcessor) SaveSnapshot() (bool, error) {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, uint64(p.count))
	if !p.outbox.OfferToSnapshot(stream.SnapshotEntry{Key: countKey, Value: buf}).IsDone() {
		return false, nil
	}
	return true, nil
}

// RestoreSnapshot consumes the single count entry written by
// SaveSnapshot.
func (p *counterProcessor) RestoreSnapshot(inbox *stream.Inbox) error {
	for {
		item := inbox.PeekFirst()
		if item == nil {
			return nil
		}
		entry, ok := item.(stream.SnapshotEntry)
		if !ok {
			inbox.Poll()
			continue
		}
		if entry.Key == countKey {
			if v, ok := entry.Value.([]byte); ok && len(v) == 8 {
				p.count = int64(binary.BigEndian.Uint64(v))
			}
		}
		inbox.Poll()
	}
}

// FinishSnapshotRestore marks the restore complete; subsequent
// Process calls add to the restored count.
func (p *counterProcessor) FinishSnapshotRestore() error {
	p.restoreDone = true
	return nil
}
