package store

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/agenticzero/flowgraph/snapshot"
)

// SQLiteStore persists snapshots to a single-file SQLite database, good
// for local development and single-process deployments that still want
// durability across process restarts.
type SQLiteStore struct {
	db     *sql.DB
	mu     sync.RWMutex
	closed bool
}

// NewSQLiteStore opens (and migrates) a SQLite-backed store. path may be
// a file path or ":memory:".
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store: open sqlite: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	ctx := context.Background()
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("store: %s: %w", pragma, err)
		}
	}

	s := &SQLiteStore{db: db}
	if err := s.createTables(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStore) createTables(ctx context.Context) error {
	const schema = `
		CREATE TABLE IF NOT EXISTS snapshots (
			run_id TEXT NOT NULL,
			seq INTEGER NOT NULL,
			payload TEXT NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (run_id, seq)
		)
	`
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("store: create snapshots table: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, "CREATE INDEX IF NOT EXISTS idx_snapshots_run ON snapshots(run_id)"); err != nil {
		return fmt.Errorf("store: create snapshots index: %w", err)
	}
	return nil
}

func (s *SQLiteStore) SaveSnapshot(ctx context.Context, runID string, seq int, snap *snapshot.Snapshot) error {
	data, err := snap.ToJSON()
	if err != nil {
		return fmt.Errorf("store: marshal snapshot: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO snapshots (run_id, seq, payload) VALUES (?, ?, ?)
		 ON CONFLICT(run_id, seq) DO UPDATE SET payload=excluded.payload`,
		runID, seq, string(data))
	if err != nil {
		return fmt.Errorf("store: save snapshot: %w", err)
	}
	return nil
}

func (s *SQLiteStore) LoadLatest(ctx context.Context, runID string) (*snapshot.Snapshot, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	row := s.db.QueryRowContext(ctx,
		`SELECT seq, payload FROM snapshots WHERE run_id = ? ORDER BY seq DESC LIMIT 1`, runID)
	var seq int
	var payload string
	if err := row.Scan(&seq, &payload); err != nil {
		if err == sql.ErrNoRows {
			return nil, 0, ErrNotFound
		}
		return nil, 0, fmt.Errorf("store: load latest: %w", err)
	}
	snap, err := snapshot.FromJSON([]byte(payload))
	if err != nil {
		return nil, 0, fmt.Errorf("store: decode snapshot: %w", err)
	}
	return snap, seq, nil
}

func (s *SQLiteStore) LoadSequence(ctx context.Context, runID string, seq int) (*snapshot.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	row := s.db.QueryRowContext(ctx,
		`SELECT payload FROM snapshots WHERE run_id = ? AND seq = ?`, runID, seq)
	var payload string
	if err := row.Scan(&payload); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("store: load sequence: %w", err)
	}
	snap, err := snapshot.FromJSON([]byte(payload))
	if err != nil {
		return nil, fmt.Errorf("store: decode snapshot: %w", err)
	}
	return snap, nil
}

func (s *SQLiteStore) ListSequences(ctx context.Context, runID string) ([]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rows, err := s.db.QueryContext(ctx,
		`SELECT seq FROM snapshots WHERE run_id = ? ORDER BY seq ASC`, runID)
	if err != nil {
		return nil, fmt.Errorf("store: list sequences: %w", err)
	}
	defer rows.Close()

	var out []int
	for rows.Next() {
		var seq int
		if err := rows.Scan(&seq); err != nil {
			return nil, fmt.Errorf("store: scan sequence: %w", err)
		}
		out = append(out, seq)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}

var _ Store = (*SQLiteStore)(nil)
