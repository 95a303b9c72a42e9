package ports

import (
	"context"

	"github.com/dcpatrol/patrol/internal/domain/models"
)

// InspectionService is the engine's command/query surface. All methods
// are safe for concurrent use; queries return copies of internal state.
type InspectionService interface {
	// ListRooms returns the room catalog in catalog order
	ListRooms() []models.Room

	// FindRoom looks up a room by id.
	// Returns models.ErrRoomNotFound on miss.
	FindRoom(id string) (models.Room, error)

	// SubmitInspection appends a record to the room's history and
	// updates the room's status and last-inspection time as one atomic
	// unit. Fails with models.ErrInvalidRoom for an unknown room id and
	// models.ErrInvalidStatus for an unchecked or unknown status.
	// A persistence failure is returned wrapped in models.ErrPersistence
	// while the in-memory state keeps the attempted change.
	SubmitInspection(ctx context.Context, roomID string, record models.InspectionRecord) error

	// HistoryFor returns the room's live records in stored
	// (chronological ascending) order. Callers needing recency must
	// sort descending by timestamp themselves.
	HistoryFor(roomID string) ([]models.InspectionRecord, error)

	// AllRecords flattens the live history across all rooms
	AllRecords() []models.RoomRecord

	// TodayStatusOf derives a room's status from today's latest record;
	// Unchecked when the room has no record today
	TodayStatusOf(roomID string) (models.RoomStatus, error)

	// Stats derives completion statistics over all rooms for today
	Stats() models.Stats

	// RecentActivity returns today's records across all rooms sorted by
	// timestamp descending, limited to limit entries. Equal timestamps
	// are broken by room id ascending.
	RecentActivity(limit int) []models.RoomRecord

	// FullHistory returns a room's live plus archived records sorted by
	// timestamp descending
	FullHistory(roomID string) ([]models.InspectionRecord, error)

	// FullHistoryAll returns every room's live plus archived records,
	// grouped by room in catalog order, each group sorted by timestamp
	// descending
	FullHistoryAll() []models.HistoryGroup

	// CheckDailyReset applies the daily reset when the persisted marker
	// is not today's calendar date and the local hour has reached the
	// configured reset hour. Returns true when a reset was applied.
	// Idempotent: re-running on an already-reset day is a no-op.
	CheckDailyReset(ctx context.Context) (bool, error)

	// ForceReset applies the reset unconditionally (administrative
	// override), with identical archival semantics
	ForceReset(ctx context.Context) error

	// Refresh reloads all documents from the store
	Refresh(ctx context.Context) error
}
