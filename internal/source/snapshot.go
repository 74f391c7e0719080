package source

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"
)

// SnapshotStore persists fetched datasets in SQLite so a restart during a
// source outage can still serve the last known data.
type SnapshotStore struct {
	db *sql.DB
}

// NewSnapshotStore opens (or creates) the snapshot database at dsn and
// configures WAL mode.
func NewSnapshotStore(dsn string) (*SnapshotStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "snapshot: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "snapshot: exec %s", pragma)
		}
	}
	return &SnapshotStore{db: db}, nil
}

const snapshotMigration = `
CREATE TABLE IF NOT EXISTS snapshots (
	id         TEXT PRIMARY KEY,
	dataset    TEXT NOT NULL,
	payload    TEXT NOT NULL,
	fetched_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_snapshots_dataset ON snapshots(dataset, fetched_at);
`

// Migrate creates the snapshot schema.
func (s *SnapshotStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, snapshotMigration)
	return eris.Wrap(err, "snapshot: migrate")
}

// Close releases the database handle.
func (s *SnapshotStore) Close() error {
	return s.db.Close()
}

// Save stores one dataset snapshot, replacing older snapshots of the same
// dataset.
func (s *SnapshotStore) Save(ctx context.Context, dataset string, value any, fetchedAt time.Time) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return eris.Wrapf(err, "snapshot: marshal %s", dataset)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "snapshot: begin tx")
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM snapshots WHERE dataset = ?`, dataset,
	); err != nil {
		return eris.Wrapf(err, "snapshot: delete old %s", dataset)
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO snapshots (id, dataset, payload, fetched_at) VALUES (?, ?, ?, ?)`,
		uuid.New().String(), dataset, string(payload), fetchedAt.UTC(),
	); err != nil {
		return eris.Wrapf(err, "snapshot: insert %s", dataset)
	}

	return eris.Wrap(tx.Commit(), "snapshot: commit")
}

// Load reads the latest snapshot of a dataset into out. Returns found=false
// when no snapshot exists.
func (s *SnapshotStore) Load(ctx context.Context, dataset string, out any) (fetchedAt time.Time, found bool, err error) {
	var payload string
	row := s.db.QueryRowContext(ctx,
		`SELECT payload, fetched_at FROM snapshots WHERE dataset = ? ORDER BY fetched_at DESC LIMIT 1`,
		dataset,
	)
	if err := row.Scan(&payload, &fetchedAt); err != nil {
		if err == sql.ErrNoRows {
			return time.Time{}, false, nil
		}
		return time.Time{}, false, eris.Wrapf(err, "snapshot: load %s", dataset)
	}

	if err := json.Unmarshal([]byte(payload), out); err != nil {
		return time.Time{}, false, eris.Wrapf(err, "snapshot: unmarshal %s", dataset)
	}
	return fetchedAt, true, nil
}
