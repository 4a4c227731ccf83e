// Package checkpoint drives the SAVE_SNAPSHOT half of a tasklet's
// local checkpoint, persisting the state a Snapshottable processor
// emits and handing it back on restore.
package checkpoint

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tarungka/streamcore/internal/logger"
	"github.com/tarungka/streamcore/internal/state"
	"github.com/tarungka/streamcore/stream"
)

// Record describes one completed checkpoint: the snapshot id assigned
// by the job's SnapshotContext, and a UUID identifying this specific
// checkpoint attempt across restarts, independent of the monotonic
// per-tasklet counter.
type Record struct {
	UUID       uuid.UUID
	SnapshotID int64
	Timestamp  time.Time
	Operators  []string
}

// Manager drains a Snapshottable processor's outbox snapshot queue
// into a StateBackend, and restores it back on recovery. It has no
// notion of barrier alignment; that is the tasklet's job. Manager
// only deals with what happens once a processor has agreed to save.
type Manager struct {
	backend state.StateBackend
	log     logger.Logger
}

// NewManager creates a Manager backed by backend.
func NewManager(backend state.StateBackend) *Manager {
	return &Manager{backend: backend, log: logger.Get("checkpoint")}
}

// Save drains the key/value pairs a Snapshottable processor wrote to
// entries into the backend under operatorID and snapshotID, and
// returns a Record describing the attempt.
func (m *Manager) Save(operatorID string, snapshotID int64, entries []stream.SnapshotEntry) (*Record, error) {
	kv := make(map[string][]byte, len(entries))
	for i, e := range entries {
		k, ok := e.Key.(string)
		if !ok {
			return nil, fmt.Errorf("checkpoint: entry %d has non-string key %T", i, e.Key)
		}
		v, ok := e.Value.([]byte)
		if !ok {
			return nil, fmt.Errorf("checkpoint: entry %d has non-[]byte value %T", i, e.Value)
		}
		kv[k] = v
	}

	if err := m.backend.Save(operatorID, snapshotID, kv); err != nil {
		return nil, fmt.Errorf("checkpoint: saving operator %q at snapshot %d: %w", operatorID, snapshotID, err)
	}

	rec := &Record{
		UUID:       uuid.New(),
		SnapshotID: snapshotID,
		Timestamp:  time.Now(),
		Operators:  []string{operatorID},
	}
	m.log.Debug().
		Str("operator", operatorID).
		Int64("snapshot", snapshotID).
		Str("checkpoint", rec.UUID.String()).
		Int("entries", len(entries)).
		Msg("checkpoint saved")
	return rec, nil
}

// Restore loads the state saved for operatorID at snapshotID and
// renders it back as the SnapshotEntry pairs a Snapshottable
// processor's RestoreSnapshot expects to drain from its inbox.
func (m *Manager) Restore(operatorID string, snapshotID int64) ([]stream.SnapshotEntry, error) {
	kv, err := m.backend.Load(operatorID, snapshotID)
	if err != nil {
		return nil, fmt.Errorf("checkpoint: restoring operator %q at snapshot %d: %w", operatorID, snapshotID, err)
	}
	entries := make([]stream.SnapshotEntry, 0, len(kv))
	for k, v := range kv {
		entries = append(entries, stream.SnapshotEntry{Key: k, Value: v})
	}
	m.log.Debug().
		Str("operator", operatorID).
		Int64("snapshot", snapshotID).
		Int("entries", len(entries)).
		Msg("checkpoint restored")
	return entries, nil
}
