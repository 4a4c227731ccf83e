// Package engine provides a reference collaborator that exercises
// snapshot barrier alignment without a real cluster-wide snapshot
// coordinator.
package engine

import (
	"context"
	"time"

	"github.com/tarungka/streamcore/internal/logger"
	"github.com/tarungka/streamcore/stream"
)

// BarrierCoordinator periodically injects a stream.SnapshotBarrier
// into a set of source channels and advances a shared
// stream.SnapshotContext. It is a stand-in for the cluster's global
// snapshot coordinator, scoped to a single process: it knows nothing
// about multiple jobs, failure recovery, or persisting which snapshot
// last completed beyond what SnapshotContext already tracks.
type BarrierCoordinator struct {
	ticker      *time.Ticker
	sources     []chan<- stream.Item
	snapshotCtx *stream.SnapshotContext
	log         logger.Logger
}

// NewBarrierCoordinator creates a coordinator that injects a barrier
// into every channel in sources every interval, advancing snapshotCtx
// each time.
func NewBarrierCoordinator(interval time.Duration, sources []chan<- stream.Item, snapshotCtx *stream.SnapshotContext) *BarrierCoordinator {
	return &BarrierCoordinator{
		ticker:      time.NewTicker(interval),
		sources:     sources,
		snapshotCtx: snapshotCtx,
		log:         logger.Get("engine"),
	}
}

// Start runs the coordinator's ticker loop until ctx is cancelled. It
// blocks; call it from its own goroutine.
func (c *BarrierCoordinator) Start(ctx context.Context) {
	defer c.ticker.Stop()
	for {
		select {
		case <-c.ticker.C:
			c.TriggerSnapshot()
		case <-ctx.Done():
			return
		}
	}
}

// TriggerSnapshot advances the snapshot context's current id and
// broadcasts a barrier carrying that id to every source channel. It
// blocks on each channel send; sources are expected to keep up, since
// they are the coordinator's own injection points rather than a
// backpressured edge in the dataflow.
func (c *BarrierCoordinator) TriggerSnapshot() int64 {
	id := c.snapshotCtx.CurrentSnapshotID() + 1
	c.snapshotCtx.SetCurrentSnapshotID(id)
	barrier := stream.SnapshotBarrier{ID: id}
	for _, src := range c.sources {
		src <- barrier
	}
	c.log.Debug().Int64("snapshot", id).Int("sources", len(c.sources)).Msg("barrier injected")
	return id
}

// NotifySnapshotComplete records that every tasklet in the job has
// finished snapshot id, advancing the job's completed snapshot
// watermark. A real cluster coordinator would only call this after
// collecting acks from every worker; here the caller is trusted to
// have done that collection itself.
func (c *BarrierCoordinator) NotifySnapshotComplete(id int64) {
	c.snapshotCtx.SetCompletedSnapshotID(id)
	c.log.Debug().Int64("snapshot", id).Msg("snapshot completed")
}
