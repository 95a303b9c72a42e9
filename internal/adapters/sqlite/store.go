package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dcpatrol/patrol/internal/domain/ports"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS documents (
	key        TEXT PRIMARY KEY,
	doc        BLOB NOT NULL,
	updated_at INTEGER NOT NULL
);`

// Store is the default on-disk document store, backed by a single
// SQLite file
type Store struct {
	db *sql.DB
}

var _ ports.DocumentStore = (*Store)(nil)

// Open opens (creating if necessary) the SQLite database at path and
// ensures the schema exists
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	// Single writer; the engine serializes access anyway
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite %s: %w", path, err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Load(ctx context.Context, key string) ([]byte, error) {
	var doc []byte
	err := s.db.QueryRowContext(ctx, `
		SELECT doc FROM documents WHERE key = ?
	`, key).Scan(&doc)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ports.ErrKeyNotFound
		}
		return nil, fmt.Errorf("query document %s: %w", key, err)
	}
	return doc, nil
}

func (s *Store) Save(ctx context.Context, key string, doc []byte) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO documents(key, doc, updated_at)
		VALUES(?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			doc=excluded.doc,
			updated_at=excluded.updated_at
	`, key, doc, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("upsert document %s: %w", key, err)
	}
	return nil
}

func (s *Store) Close(ctx context.Context) error {
	return s.db.Close()
}
