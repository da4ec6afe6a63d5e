package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/lib/pq"
)

// PostgresStore keeps insights in the round_insights table. The schema is
// owned by internal/platform migrations.
type PostgresStore struct {
	db *sql.DB
}

// OpenPostgres connects to dsn and verifies the connection.
func OpenPostgres(ctx context.Context, dsn string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &PostgresStore{db: db}, nil
}

// NewPostgresStore wraps an existing connection.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// DB returns the underlying connection, for migrations.
func (s *PostgresStore) DB() *sql.DB {
	return s.db
}

func (s *PostgresStore) GetInsight(ctx context.Context, roundID string) (*Insight, error) {
	in := &Insight{}
	var payload []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT id, round_id, mode, payload, created_at, updated_at
		 FROM round_insights WHERE round_id = $1`,
		roundID,
	).Scan(&in.ID, &in.RoundID, &in.Mode, &payload, &in.CreatedAt, &in.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get insight %s: %w", roundID, err)
	}
	if err := decodePayload(payload, in); err != nil {
		return nil, fmt.Errorf("get insight %s: %w", roundID, err)
	}
	return in, nil
}

func (s *PostgresStore) UpsertInsight(ctx context.Context, in *Insight) (*Insight, error) {
	if err := validate(in); err != nil {
		return nil, err
	}
	payload, err := encodePayload(in)
	if err != nil {
		return nil, err
	}

	out := &Insight{}
	var stored []byte
	err = s.db.QueryRowContext(ctx,
		`INSERT INTO round_insights (id, round_id, mode, payload)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (round_id) DO UPDATE
		   SET mode = EXCLUDED.mode,
		       payload = EXCLUDED.payload,
		       updated_at = now()
		 RETURNING id, round_id, mode, payload, created_at, updated_at`,
		in.ID, in.RoundID, in.Mode, string(payload),
	).Scan(&out.ID, &out.RoundID, &out.Mode, &stored, &out.CreatedAt, &out.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("upsert insight %s: %w", in.RoundID, err)
	}
	if err := decodePayload(stored, out); err != nil {
		return nil, fmt.Errorf("upsert insight %s: %w", in.RoundID, err)
	}
	return out, nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}
