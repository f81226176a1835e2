package store

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/go-sql-driver/mysql"

	"github.com/agenticzero/flowgraph/snapshot"
)

// MySQLStore persists snapshots to a MySQL/MariaDB database, for
// production deployments that need durability across process restarts
// and multiple workers sharing a run's history.
//
// DSN format: [username[:password]@][protocol[(address)]]/dbname[?params].
// Never hardcode credentials; read the DSN from the environment.
type MySQLStore struct {
	db     *sql.DB
	mu     sync.RWMutex
	closed bool
}

func NewMySQLStore(dsn string) (*MySQLStore, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("store: open mysql: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx := context.Background()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("store: ping mysql: %w", err)
	}

	s := &MySQLStore{db: db}
	if err := s.createTables(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *MySQLStore) createTables(ctx context.Context) error {
	const schema = `
		CREATE TABLE IF NOT EXISTS snapshots (
			run_id VARCHAR(191) NOT NULL,
			seq INT NOT NULL,
			payload LONGTEXT NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (run_id, seq)
		) ENGINE=InnoDB
	`
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("store: create snapshots table: %w", err)
	}
	return nil
}

func (s *MySQLStore) SaveSnapshot(ctx context.Context, runID string, seq int, snap *snapshot.Snapshot) error {
	data, err := snap.ToJSON()
	if err != nil {
		return fmt.Errorf("store: marshal snapshot: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO snapshots (run_id, seq, payload) VALUES (?, ?, ?)
		 ON DUPLICATE KEY UPDATE payload = VALUES(payload)`,
		runID, seq, string(data))
	if err != nil {
		return fmt.Errorf("store: save snapshot: %w", err)
	}
	return nil
}

func (s *MySQLStore) LoadLatest(ctx context.Context, runID string) (*snapshot.Snapshot, int, error) {
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

func (s *MySQLStore) LoadSequence(ctx context.Context, runID string, seq int) (*snapshot.Snapshot, error) {
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

func (s *MySQLStore) ListSequences(ctx context.Context, runID string) ([]int, error) {
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

func (s *MySQLStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}

var _ Store = (*MySQLStore)(nil)
