package ports

import (
	"context"
	"errors"
)

// Document keys used by the engine. Every document is a JSON blob.
const (
	KeyRooms           = "rooms"
	KeyLiveHistory     = "inspection_history"
	KeyArchivedHistory = "archived_history"
	KeyResetDate       = "daily_reset_date"
	KeyAccounts        = "accounts"
	KeyLoginHistory    = "login_history"
)

// ErrKeyNotFound is returned by Load when no document exists for a key
var ErrKeyNotFound = errors.New("document key not found")

// DocumentStore is the durable key-value persistence port owned by the
// domain layer. Implementations must treat Save as a full document
// replacement for the key.
type DocumentStore interface {
	// Load retrieves the document stored under key.
	// Returns ErrKeyNotFound when the key has never been saved.
	Load(ctx context.Context, key string) ([]byte, error)

	// Save stores the document under key, replacing any previous value
	Save(ctx context.Context, key string, doc []byte) error

	// Close releases any underlying resources
	Close(ctx context.Context) error
}
