package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"
)

const (
	pingTimeout  = 1 * time.Second
	queryTimeout = 3 * time.Second
)

// PostgresStore keeps the catalog document in a single jsonb row, preserving
// the whole-document load/save semantics of the file store.
//
//	CREATE TABLE IF NOT EXISTS catalog_state (
//	    id  int PRIMARY KEY,
//	    doc jsonb NOT NULL
//	);
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return withTimeout(ctx, pingTimeout, func(ctx context.Context) error {
		return s.db.PingContext(ctx)
	})
}

// Load reads the document row. Any read failure, including a missing row,
// reads as an empty catalog.
func (s *PostgresStore) Load(ctx context.Context) Catalog {
	var raw []byte

	err := withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		return s.db.QueryRowContext(ctx, `
			SELECT doc
			FROM catalog_state
			WHERE id = 1
		`).Scan(&raw)
	})
	if err != nil {
		return EmptyCatalog()
	}

	var c Catalog
	if err := json.Unmarshal(raw, &c); err != nil {
		return EmptyCatalog()
	}
	return normalize(c)
}

func (s *PostgresStore) Save(ctx context.Context, c Catalog) error {
	raw, err := json.Marshal(c)
	if err != nil {
		return err
	}

	return withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		_, err := s.db.ExecContext(ctx, `
			INSERT INTO catalog_state (id, doc)
			VALUES (1, $1)
			ON CONFLICT (id) DO UPDATE SET doc = EXCLUDED.doc
		`, raw)
		return err
	})
}

func withTimeout(parent context.Context, d time.Duration, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(parent, d)
	defer cancel()
	return fn(ctx)
}
