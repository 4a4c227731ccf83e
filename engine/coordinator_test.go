package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/tarungka/streamcore/stream"
)

func TestTriggerSnapshotBroadcastsBarrierAndAdvancesContext(t *testing.T) {
	ctx := stream.NewSnapshotContext(stream.GuaranteeExactlyOnce)
	ch1 := make(chan stream.Item, 1)
	ch2 := make(chan stream.Item, 1)
	c := NewBarrierCoordinator(time.Hour, []chan<- stream.Item{ch1, ch2}, ctx)

	id := c.TriggerSnapshot()

	assert.Equal(t, int64(0), id)
	assert.Equal(t, int64(0), ctx.CurrentSnapshotID())
	assert.Equal(t, stream.SnapshotBarrier{ID: 0}, <-ch1)
	assert.Equal(t, stream.SnapshotBarrier{ID: 0}, <-ch2)

	id = c.TriggerSnapshot()
	assert.Equal(t, int64(1), id)
	assert.Equal(t, stream.SnapshotBarrier{ID: 1}, <-ch1)
}

func TestNotifySnapshotCompleteAdvancesCompletedID(t *testing.T) {
	ctx := stream.NewSnapshotContext(stream.GuaranteeExactlyOnce)
	c := NewBarrierCoordinator(time.Hour, nil, ctx)

	assert.Equal(t, int64(-1), ctx.CompletedSnapshotID())
	c.NotifySnapshotComplete(3)
	assert.Equal(t, int64(3), ctx.CompletedSnapshotID())
}
