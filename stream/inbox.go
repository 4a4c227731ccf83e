package stream

// Inbox is a FIFO buffer of items drained from one currently active
// inbound edge. It is either empty or holds items of a single
// ordinal. Add itself accepts any item, including one after a
// SnapshotBarrier; the tasklet never adds a barrier to its inbox, so
// nothing ever follows one there.
type Inbox struct {
	items []Item
	head  int
}

// NewInbox creates an empty Inbox.
func NewInbox() *Inbox {
	return &Inbox{}
}

// Add appends item to the back of the inbox.
func (b *Inbox) Add(item Item) {
	b.items = append(b.items, item)
}

// AddAll appends every item in items, in order.
func (b *Inbox) AddAll(items []Item) {
	b.items = append(b.items, items...)
}

// PeekLast returns the most recently added item, or nil if the inbox
// is empty.
func (b *Inbox) PeekLast() Item {
	if b.head >= len(b.items) {
		return nil
	}
	return b.items[len(b.items)-1]
}

// PeekFirst returns the next item Poll would return, without
// removing it, or nil if the inbox is empty. Processors that must
// tolerate a full outbox use this to inspect the head item before
// committing to remove it.
func (b *Inbox) PeekFirst() Item {
	if b.head >= len(b.items) {
		return nil
	}
	return b.items[b.head]
}

// IsEmpty reports whether the inbox holds no items.
func (b *Inbox) IsEmpty() bool {
	return b.head >= len(b.items)
}

// Len reports how many items remain in the inbox.
func (b *Inbox) Len() int {
	return len(b.items) - b.head
}

// Poll removes and returns the front item, or nil if the inbox is
// empty.
func (b *Inbox) Poll() Item {
	if b.head >= len(b.items) {
		return nil
	}
	item := b.items[b.head]
	b.head++
	if b.head == len(b.items) {
		b.items = b.items[:0]
		b.head = 0
	}
	return item
}

// Clear drops every remaining item.
func (b *Inbox) Clear() {
	b.items = b.items[:0]
	b.head = 0
}
