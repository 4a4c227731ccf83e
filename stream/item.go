package stream

import "fmt"

// Item is the atomic unit moved between operators: a data element, a
// Watermark, a SnapshotBarrier, or the Done sentinel.
type Item interface{}

// Watermark is a monotonically non-decreasing time marker. It is
// broadcast to every outbound edge.
type Watermark struct {
	Timestamp int64
}

func (w Watermark) String() string {
	return fmt.Sprintf("Watermark(%d)", w.Timestamp)
}

// SnapshotBarrier delimits a snapshot epoch on an edge. It is
// broadcast to every outbound edge, the same way a Watermark is.
type SnapshotBarrier struct {
	ID int64
}

func (b SnapshotBarrier) String() string {
	return fmt.Sprintf("SnapshotBarrier(%d)", b.ID)
}

// doneItem is the sentinel broadcast once a tasklet's inputs are
// exhausted and its processor has completed. It is a singleton;
// equality is by identity (pointer), per spec.
type doneItem struct{}

func (doneItem) String() string { return "DONE_ITEM" }

// DoneItem is the single instance of the done sentinel. Compare with ==.
var DoneItem Item = &doneItem{}

// IsDone reports whether item is the done sentinel.
func IsDone(item Item) bool {
	_, ok := item.(*doneItem)
	return ok
}

// IsBroadcast reports whether item must be broadcast to every
// outbound edge rather than routed by the edge's own partitioning
// function: watermarks, snapshot barriers, and the done sentinel.
func IsBroadcast(item Item) bool {
	switch item.(type) {
	case Watermark, SnapshotBarrier, *doneItem:
		return true
	default:
		return false
	}
}

// SnapshotEntry is a key/value pair a Snapshottable processor emits
// to the outbox's snapshot sink from SaveSnapshot, and consumes back
// from RestoreSnapshot's inbox.
type SnapshotEntry struct {
	Key   Item
	Value Item
}

