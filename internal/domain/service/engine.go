package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dcpatrol/patrol/internal/domain/models"
	"github.com/dcpatrol/patrol/internal/domain/ports"
	"github.com/dcpatrol/patrol/internal/metrics"
	"github.com/dcpatrol/patrol/internal/observability"
)

const dateLayout = "2006-01-02"

// DefaultResetHour is the local hour at which the daily reset becomes
// eligible (06:00 local time)
const DefaultResetHour = 6

// resetMarker is the persisted daily-reset date marker document
type resetMarker struct {
	Date string `json:"date"`
}

// Engine implements ports.InspectionService. It owns the room registry,
// the live and archived inspection histories and the daily reset state
// machine. One mutex guards every mutation and query; submissions and
// resets are the two critical sections of the document set and must
// never interleave.
type Engine struct {
	mu    sync.Mutex
	store ports.DocumentStore

	catalog []models.Room
	rooms   []models.Room
	live    models.InspectionHistory
	archive models.InspectionHistory

	lastResetDate string
	resetHour     int
	recentLimit   int
	now           func() time.Time
	logger        observability.Logger
}

var _ ports.InspectionService = (*Engine)(nil)

// Option configures the engine
type Option func(*Engine)

// WithCatalog replaces the built-in room catalog
func WithCatalog(catalog []models.Room) Option {
	return func(e *Engine) { e.catalog = catalog }
}

// WithResetHour overrides the local hour gating the scheduled reset
func WithResetHour(hour int) Option {
	return func(e *Engine) { e.resetHour = hour }
}

// WithRecentLimit overrides the default recent-activity feed size
func WithRecentLimit(limit int) Option {
	return func(e *Engine) { e.recentLimit = limit }
}

// WithClock overrides the time source, used by tests
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithLogger sets a custom logger for this engine instance
func WithLogger(l observability.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// NewEngine creates the inspection engine backed by the given document
// store. Persisted documents are loaded immediately; a missing or
// corrupt document degrades to the seeded defaults rather than failing,
// so the engine is always usable.
func NewEngine(ctx context.Context, store ports.DocumentStore, opts ...Option) (*Engine, error) {
	e := &Engine{
		store:       store,
		catalog:     DefaultCatalog(),
		resetHour:   DefaultResetHour,
		recentLimit: DefaultRecentLimit,
		now:         time.Now,
		logger:      observability.New("inspection-engine", ""),
	}
	for _, opt := range opts {
		opt(e)
	}

	if err := validateCatalog(e.catalog); err != nil {
		return nil, fmt.Errorf("invalid room catalog: %w", err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.loadLocked(ctx)
	e.updateStatusGaugeLocked()
	return e, nil
}

// Refresh reloads all documents from the store
func (e *Engine) Refresh(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.loadLocked(ctx)
	e.updateStatusGaugeLocked()
	return nil
}

// loadLocked rebuilds in-memory state from the store. Load failures are
// logged and recovered by falling back to defaults; only the mutable
// room fields are overlaid onto the fixed catalog so catalog changes
// between deployments never drift.
func (e *Engine) loadLocked(ctx context.Context) {
	e.rooms = cloneRooms(e.catalog)
	e.live = models.InspectionHistory{}
	e.archive = models.InspectionHistory{}
	e.lastResetDate = ""

	var savedRooms []models.Room
	if e.loadDoc(ctx, ports.KeyRooms, &savedRooms) {
		overlayRooms(e.rooms, savedRooms)
	}

	var live models.InspectionHistory
	if e.loadDoc(ctx, ports.KeyLiveHistory, &live) && live != nil {
		e.live = live
	}

	var archive models.InspectionHistory
	if e.loadDoc(ctx, ports.KeyArchivedHistory, &archive) && archive != nil {
		e.archive = archive
	}

	var marker resetMarker
	if e.loadDoc(ctx, ports.KeyResetDate, &marker) {
		e.lastResetDate = marker.Date
	}
}

// loadDoc loads and unmarshals one document, reporting whether v was
// populated. A corrupt document is treated the same as a missing one.
func (e *Engine) loadDoc(ctx context.Context, key string, v any) bool {
	raw, err := e.store.Load(ctx, key)
	if err != nil {
		if !errors.Is(err, ports.ErrKeyNotFound) {
			e.logger.Warnw("document load failed, using defaults", "key", key, "error", err)
		}
		return false
	}
	if err := json.Unmarshal(raw, v); err != nil {
		e.logger.Warnw("document unparseable, using defaults", "key", key, "error", err)
		return false
	}
	return true
}

// saveDoc marshals and persists one document. Save failures are counted
// and wrapped in models.ErrPersistence; in-memory state is never rolled
// back, partial durability beats silent data loss on a single-device
// tool.
func (e *Engine) saveDoc(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	if err := e.store.Save(ctx, key, raw); err != nil {
		metrics.PersistenceFailuresTotal.WithLabelValues(key).Inc()
		e.logger.Errorw("document save failed", "key", key, "error", err)
		return fmt.Errorf("%w: save %s: %v", models.ErrPersistence, key, err)
	}
	return nil
}

// updateStatusGaugeLocked refreshes the rooms-by-status gauge from the
// derived today-statuses
func (e *Engine) updateStatusGaugeLocked() {
	counts := e.countByStatusLocked()
	for _, status := range []models.RoomStatus{
		models.RoomStatusUnchecked,
		models.RoomStatusNormal,
		models.RoomStatusWarning,
		models.RoomStatusError,
	} {
		metrics.RoomsByStatus.WithLabelValues(string(status)).Set(float64(counts[status]))
	}
}

func cloneRooms(rooms []models.Room) []models.Room {
	out := make([]models.Room, len(rooms))
	copy(out, rooms)
	for i := range out {
		if out[i].LastInspection != nil {
			t := *out[i].LastInspection
			out[i].LastInspection = &t
		}
	}
	return out
}
