package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/Shivanand-hulikatti/greenwave-booking/internal/snapshot"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const createSnapshotsTable = `CREATE TABLE IF NOT EXISTS snapshots (
	key        TEXT PRIMARY KEY,
	codec      TEXT NOT NULL,
	data       BYTEA NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// SnapshotStore keeps each collection as one row of the snapshots table.
// Multi-collection saves run in a single transaction, so a reservation's
// workshop and attendee halves are committed together or not at all.
type SnapshotStore struct {
	db    *pgxpool.Pool
	codec snapshot.Codec
}

// NewSnapshotStore ensures the snapshots table exists and returns a store.
func NewSnapshotStore(ctx context.Context, db *pgxpool.Pool, codec snapshot.Codec) (*SnapshotStore, error) {
	if codec == nil {
		codec = snapshot.JSON
	}
	if _, err := db.Exec(ctx, createSnapshotsTable); err != nil {
		return nil, fmt.Errorf("create snapshots table: %w", err)
	}
	return &SnapshotStore{db: db, codec: codec}, nil
}

// Save upserts every entry inside one transaction.
func (s *SnapshotStore) Save(ctx context.Context, entries ...snapshot.Entry) (err error) {
	payloads := make([][]byte, len(entries))
	for i, e := range entries {
		if payloads[i], err = s.codec.Marshal(e.Value); err != nil {
			return fmt.Errorf("encode %s: %w", e.Key, err)
		}
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	for i, e := range entries {
		_, err = tx.Exec(ctx,
			`INSERT INTO snapshots (key, codec, data, updated_at)
			 VALUES ($1, $2, $3, now())
			 ON CONFLICT (key) DO UPDATE
			 SET codec = EXCLUDED.codec, data = EXCLUDED.data, updated_at = EXCLUDED.updated_at`,
			e.Key, s.codec.Name(), payloads[i],
		)
		if err != nil {
			return fmt.Errorf("upsert %s: %w", e.Key, err)
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// Load decodes the row for key into dst. A row written with another codec is
// decoded with that codec.
func (s *SnapshotStore) Load(ctx context.Context, key string, dst any) error {
	var codecName string
	var data []byte
	err := s.db.QueryRow(ctx,
		`SELECT codec, data FROM snapshots WHERE key = $1`,
		key,
	).Scan(&codecName, &data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return snapshot.ErrNotExist
		}
		return fmt.Errorf("load %s: %w", key, err)
	}
	codec, err := snapshot.CodecByName(codecName)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", snapshot.ErrCorrupt, key, err)
	}
	return snapshot.Decode(codec, key, data, dst)
}
