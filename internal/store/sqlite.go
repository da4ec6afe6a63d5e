package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS round_insights (
	id          TEXT PRIMARY KEY,
	round_id    TEXT NOT NULL UNIQUE,
	mode        TEXT NOT NULL CHECK (mode IN ('steady', 'onboarding')),
	payload     TEXT NOT NULL,
	created_at  TEXT NOT NULL,
	updated_at  TEXT NOT NULL
);
`

// SQLiteStore keeps insights in a local SQLite file, for the CLI and
// single-node deployments.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

// OpenSQLite opens (or creates) the database at path and applies the schema.
// Use ":memory:" for a throwaway store.
func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if path == ":memory:" {
		// Every pooled connection would get its own empty in-memory database.
		db.SetMaxOpenConns(1)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &SQLiteStore{db: db, now: func() time.Time { return time.Now().UTC() }}, nil
}

func (s *SQLiteStore) GetInsight(ctx context.Context, roundID string) (*Insight, error) {
	in := &Insight{}
	var payload, created, updated string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, round_id, mode, payload, created_at, updated_at
		 FROM round_insights WHERE round_id = ?`,
		roundID,
	).Scan(&in.ID, &in.RoundID, &in.Mode, &payload, &created, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get insight %s: %w", roundID, err)
	}
	if in.CreatedAt, err = time.Parse(time.RFC3339Nano, created); err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	if in.UpdatedAt, err = time.Parse(time.RFC3339Nano, updated); err != nil {
		return nil, fmt.Errorf("parse updated_at: %w", err)
	}
	if err := decodePayload([]byte(payload), in); err != nil {
		return nil, fmt.Errorf("get insight %s: %w", roundID, err)
	}
	return in, nil
}

func (s *SQLiteStore) UpsertInsight(ctx context.Context, in *Insight) (*Insight, error) {
	if err := validate(in); err != nil {
		return nil, err
	}
	payload, err := encodePayload(in)
	if err != nil {
		return nil, err
	}

	now := s.now().Format(time.RFC3339Nano)
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO round_insights (id, round_id, mode, payload, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT (round_id) DO UPDATE
		   SET mode = excluded.mode,
		       payload = excluded.payload,
		       updated_at = excluded.updated_at`,
		in.ID, in.RoundID, in.Mode, string(payload), now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("upsert insight %s: %w", in.RoundID, err)
	}
	return s.GetInsight(ctx, in.RoundID)
}

func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
