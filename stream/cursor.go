package stream

// circularCursor iterates circularly over one priority group of
// inbound edges, shrinking in place as edges are removed without
// perturbing the relative order of the survivors.
type circularCursor struct {
	edges []InboundEdgeStream
	pos   int
}

// newCircularCursor returns nil if group is empty.
func newCircularCursor(group []InboundEdgeStream) *circularCursor {
	if len(group) == 0 {
		return nil
	}
	edges := make([]InboundEdgeStream, len(group))
	copy(edges, group)
	return &circularCursor{edges: edges}
}

// Value returns the edge the cursor currently points at.
func (c *circularCursor) Value() InboundEdgeStream {
	return c.edges[c.pos]
}

// IsEmpty reports whether every edge in this group has been removed.
func (c *circularCursor) IsEmpty() bool {
	return len(c.edges) == 0
}

// Remove drops the edge the cursor currently points at. The cursor
// ends up pointing at the edge that followed it, or wraps to the
// first surviving edge.
func (c *circularCursor) Remove() {
	c.edges = append(c.edges[:c.pos], c.edges[c.pos+1:]...)
	if len(c.edges) > 0 && c.pos >= len(c.edges) {
		c.pos = 0
	}
}

// Advance moves to the next edge in the group and reports whether
// that stayed within the group (true) or wrapped back to the start
// (false, meaning the caller has visited every edge in this pass).
func (c *circularCursor) Advance() bool {
	if len(c.edges) == 0 {
		return false
	}
	c.pos++
	if c.pos >= len(c.edges) {
		c.pos = 0
		return false
	}
	return true
}

// instreamGroupQueue holds the remaining priority groups, lowest
// priority first, not yet handed to a circularCursor.
type instreamGroupQueue struct {
	groups [][]InboundEdgeStream
}

func newInstreamGroupQueue(groups [][]InboundEdgeStream) *instreamGroupQueue {
	return &instreamGroupQueue{groups: groups}
}

// pop removes and wraps the next group as a circularCursor, or
// returns nil if no groups remain — signalling input exhaustion.
func (q *instreamGroupQueue) pop() *circularCursor {
	for len(q.groups) > 0 {
		group := q.groups[0]
		q.groups = q.groups[1:]
		if cursor := newCircularCursor(group); cursor != nil {
			return cursor
		}
	}
	return nil
}

// remaining reports how many groups are still queued, not counting
// the one currently checked out as a circularCursor.
func (q *instreamGroupQueue) remaining() int {
	return len(q.groups)
}
