package service

import (
	"context"

	"github.com/dcpatrol/patrol/internal/domain/models"
	"github.com/dcpatrol/patrol/internal/domain/ports"
	"github.com/dcpatrol/patrol/internal/metrics"
)

// SubmitInspection validates and appends an inspection record, updates
// the room's status and last-inspection time and persists both
// documents as one atomic unit under the engine lock.
//
// A persistence failure is surfaced to the caller while the in-memory
// state keeps the attempted change; retrying the reset or a later
// submission re-persists the full documents.
func (e *Engine) SubmitInspection(ctx context.Context, roomID string, record models.InspectionRecord) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	room := e.findRoomLocked(roomID)
	if room == nil {
		e.logger.Warnw("inspection rejected, unknown room", "room_id", roomID)
		return models.ErrInvalidRoom
	}
	if err := models.ValidateSubmittedStatus(record.Status); err != nil {
		e.logger.Warnw("inspection rejected, invalid status", "room_id", roomID, "status", record.Status)
		return err
	}
	if record.Timestamp.IsZero() {
		record.Timestamp = e.now()
	}

	e.live[roomID] = append(e.live[roomID], record)
	room.Status = record.Status
	ts := record.Timestamp
	room.LastInspection = &ts

	metrics.InspectionsTotal.WithLabelValues(roomID, string(record.Status)).Inc()
	e.updateStatusGaugeLocked()

	e.logger.Infow("inspection recorded",
		"room_id", roomID,
		"status", record.Status,
		"inspector", record.Inspector,
		"images", len(record.Images),
	)

	if err := e.saveDoc(ctx, ports.KeyLiveHistory, e.live); err != nil {
		return err
	}
	return e.saveDoc(ctx, ports.KeyRooms, e.rooms)
}

// HistoryFor returns the room's live records in stored (chronological
// ascending) order. Callers needing recency sort descending by
// timestamp themselves; this is a documented contract, not an
// implementation detail.
func (e *Engine) HistoryFor(roomID string) ([]models.InspectionRecord, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.findRoomLocked(roomID) == nil {
		return nil, models.ErrRoomNotFound
	}
	records := e.live[roomID]
	out := make([]models.InspectionRecord, len(records))
	copy(out, records)
	return out, nil
}

// AllRecords flattens the live history across all rooms in catalog order
func (e *Engine) AllRecords() []models.RoomRecord {
	e.mu.Lock()
	defer e.mu.Unlock()

	var out []models.RoomRecord
	for _, room := range e.rooms {
		for _, record := range e.live[room.ID] {
			out = append(out, models.RoomRecord{
				RoomID:           room.ID,
				RoomName:         room.Name,
				InspectionRecord: record,
			})
		}
	}
	return out
}
