package factory

import (
	"context"
	"fmt"

	"github.com/dcpatrol/patrol/internal/adapters/memory"
	"github.com/dcpatrol/patrol/internal/adapters/mongodb"
	"github.com/dcpatrol/patrol/internal/adapters/postgres"
	"github.com/dcpatrol/patrol/internal/adapters/sqlite"
	"github.com/dcpatrol/patrol/internal/config"
	"github.com/dcpatrol/patrol/internal/domain/ports"
)

// NewDocumentStore creates and connects a document store based on the
// configured backend
func NewDocumentStore(ctx context.Context, cfg config.StoreConfig) (ports.DocumentStore, error) {
	switch cfg.Backend {
	case "memory":
		return memory.NewStore(), nil

	case "sqlite":
		if cfg.SQLite.Path == "" {
			return nil, fmt.Errorf("sqlite path is required for the sqlite backend")
		}
		return sqlite.Open(ctx, cfg.SQLite.Path)

	case "postgres":
		db, err := postgres.Connect(ctx, cfg.Postgres)
		if err != nil {
			return nil, err
		}
		store := postgres.NewStore(db)
		if err := store.EnsureSchema(ctx); err != nil {
			_ = store.Close(ctx)
			return nil, err
		}
		return store, nil

	case "mongodb":
		return mongodb.Connect(ctx, cfg.Mongo)

	default:
		return nil, fmt.Errorf("unsupported store backend: %s", cfg.Backend)
	}
}
