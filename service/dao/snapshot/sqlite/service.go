// Package sqlite stores snapshots as JSON blobs in an embedded SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/viant/kuriosity/runtime/part"
	"github.com/viant/kuriosity/service/dao"
	"github.com/viant/kuriosity/service/dao/snapshot"
	_ "modernc.org/sqlite" // pure go sqlite driver
)

const schema = `CREATE TABLE IF NOT EXISTS snapshots (
	id TEXT PRIMARY KEY,
	created_at TEXT NOT NULL,
	universe_time REAL NOT NULL,
	payload BLOB NOT NULL
)`

// Service implements a SQLite snapshot store.
type Service struct {
	db   *sql.DB
	path string
}

var _ dao.Service[string, part.Snapshot] = (*Service)(nil)

// New opens or creates the database at path. ":memory:" keeps it in memory.
func New(path string) (*Service, error) {
	if path == "" {
		path = "kuriosity.db"
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("create dirs: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create snapshots table: %w", err)
	}
	return &Service{db: db, path: path}, nil
}

// Path returns the database path.
func (s *Service) Path() string { return s.path }

// Close closes the database.
func (s *Service) Close() error { return s.db.Close() }

// Save upserts the snapshot.
func (s *Service) Save(ctx context.Context, snap *part.Snapshot) error {
	if snap == nil {
		return dao.ErrNilEntity
	}
	if snap.ID == "" {
		return dao.ErrInvalidID
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO snapshots(id,created_at,universe_time,payload) VALUES(?,?,?,?)
		ON CONFLICT(id) DO UPDATE SET created_at=excluded.created_at, universe_time=excluded.universe_time, payload=excluded.payload`,
		snap.ID, snap.CreatedAt.UTC().Format(time.RFC3339Nano), snap.UniverseTime, data)
	if err != nil {
		return fmt.Errorf("upsert snapshot %s: %w", snap.ID, err)
	}
	return nil
}

// Load returns the snapshot by ID.
func (s *Service) Load(ctx context.Context, id string) (*part.Snapshot, error) {
	if id == "" {
		return nil, dao.ErrInvalidID
	}
	var payload []byte
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM snapshots WHERE id = ?`, id).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("snapshot %s: %w", id, dao.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("select snapshot %s: %w", id, err)
	}
	ret := &part.Snapshot{}
	if err := json.Unmarshal(payload, ret); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot %s: %w", id, err)
	}
	return ret, nil
}

// Delete removes the snapshot.
func (s *Service) Delete(ctx context.Context, id string) error {
	if id == "" {
		return dao.ErrInvalidID
	}
	result, err := s.db.ExecContext(ctx, `DELETE FROM snapshots WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete snapshot %s: %w", id, err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return fmt.Errorf("snapshot %s: %w", id, dao.ErrNotFound)
	}
	return nil
}

// List returns matching snapshots oldest first.
func (s *Service) List(ctx context.Context, parameters ...*dao.Parameter) ([]*part.Snapshot, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT payload FROM snapshots ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("select snapshots: %w", err)
	}
	defer func() { _ = rows.Close() }()
	var ret []*part.Snapshot
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		snap := &part.Snapshot{}
		if err := json.Unmarshal(payload, snap); err != nil {
			return nil, fmt.Errorf("unmarshal snapshot: %w", err)
		}
		if snapshot.Filter(snap, parameters) {
			ret = append(ret, snap)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	snapshot.Sort(ret)
	return ret, nil
}
