package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dcpatrol/patrol/internal/config"
	"github.com/dcpatrol/patrol/internal/domain/ports"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

const schema = `
CREATE TABLE IF NOT EXISTS documents (
	key        TEXT PRIMARY KEY,
	doc        JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);`

// Store is a PostgreSQL-backed document store
type Store struct {
	db *sqlx.DB
}

var _ ports.DocumentStore = (*Store)(nil)

// Connect opens a PostgreSQL connection pool from the configuration
func Connect(ctx context.Context, cfg config.PostgresConfig) (*sqlx.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Database, cfg.SSLMode)

	db, err := sqlx.ConnectContext(ctx, "postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	return db, nil
}

// NewStore creates a document store on an existing connection pool
func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db}
}

// EnsureSchema creates the documents table if it does not exist
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

func (s *Store) Load(ctx context.Context, key string) ([]byte, error) {
	var doc []byte
	err := s.db.QueryRowContext(ctx, `
		SELECT doc FROM documents WHERE key = $1
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
		VALUES($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET
			doc = EXCLUDED.doc,
			updated_at = EXCLUDED.updated_at
	`, key, doc)
	if err != nil {
		return fmt.Errorf("upsert document %s: %w", key, err)
	}
	return nil
}

func (s *Store) Close(ctx context.Context) error {
	return s.db.Close()
}
