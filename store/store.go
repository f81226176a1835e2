// Package store provides persistence backends for execution snapshots,
// keyed by run id and an increasing sequence number within that run.
package store

import (
	"context"
	"errors"

	"github.com/agenticzero/flowgraph/snapshot"
)

// ErrNotFound is returned when a requested run id or sequence does not
// exist.
var ErrNotFound = errors.New("store: not found")

// Store persists and retrieves execution snapshots. A run accumulates a
// sequence of snapshots (initial, periodic auto-checkpoints, and a final
// one); Resume always wants the latest, while debugging or branching
// wants a specific sequence number.
type Store interface {
	// SaveSnapshot persists snap under (runID, seq). Overwriting an
	// existing (runID, seq) pair is allowed and replaces it.
	SaveSnapshot(ctx context.Context, runID string, seq int, snap *snapshot.Snapshot) error

	// LoadLatest retrieves the highest-sequence snapshot for runID.
	LoadLatest(ctx context.Context, runID string) (snap *snapshot.Snapshot, seq int, err error)

	// LoadSequence retrieves a specific (runID, seq) snapshot.
	LoadSequence(ctx context.Context, runID string, seq int) (*snapshot.Snapshot, error)

	// ListSequences returns every sequence number saved for runID, in
	// ascending order.
	ListSequences(ctx context.Context, runID string) ([]int, error)

	// Close releases any underlying resources (database handles, etc).
	Close() error
}
