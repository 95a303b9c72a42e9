package service

import (
	"context"
	"time"

	"github.com/dcpatrol/patrol/internal/domain/models"
	"github.com/dcpatrol/patrol/internal/domain/ports"
	"github.com/dcpatrol/patrol/internal/metrics"
)

// CheckDailyReset applies the scheduled daily reset when the persisted
// marker is not today's calendar date and the local hour has reached
// the reset hour. The comparison is between calendar-date strings, not
// elapsed time, so clock skew across midnight cannot double-reset or
// skip a day.
//
// Returns true when the transition fired. On a persistence failure the
// transition still holds in memory and the error is surfaced; a retry
// on the same day partitions an empty before-today set and is a no-op
// beyond re-persisting.
func (e *Engine) CheckDailyReset(ctx context.Context) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.now()
	today := now.Format(dateLayout)
	if e.lastResetDate == today {
		return false, nil
	}
	if now.Hour() < e.resetHour {
		return false, nil
	}

	err := e.resetLocked(ctx, now, "scheduled")
	return true, err
}

// ForceReset applies the reset unconditionally, outside the scheduled
// window. Used by the administrative override; semantics are identical
// to the scheduled transition.
func (e *Engine) ForceReset(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.resetLocked(ctx, e.now(), "manual")
}

// resetLocked is the Stale -> Fresh transition. It partitions every
// room's records at the local start of day, merges the before-today
// partitions into the archive, keeps only today-or-later records live,
// clears all room statuses and persists the four documents plus the
// marker. Applying it twice on the same calendar day yields the same
// state as applying it once.
func (e *Engine) resetLocked(ctx context.Context, now time.Time, trigger string) error {
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	archived := 0
	for roomID, records := range e.live {
		var before, today []models.InspectionRecord
		for _, record := range records {
			if record.Timestamp.Before(startOfDay) {
				before = append(before, record)
			} else {
				today = append(today, record)
			}
		}
		if len(before) > 0 {
			// The archive accumulates, it is never overwritten wholesale
			e.archive[roomID] = append(e.archive[roomID], before...)
			archived += len(before)
		}
		if len(today) > 0 {
			e.live[roomID] = today
		} else {
			delete(e.live, roomID)
		}
	}

	for i := range e.rooms {
		e.rooms[i].Status = models.RoomStatusUnchecked
		e.rooms[i].LastInspection = nil
	}

	e.lastResetDate = now.Format(dateLayout)
	metrics.DailyResetsTotal.WithLabelValues(trigger).Inc()
	e.updateStatusGaugeLocked()

	e.logger.Infow("daily reset applied",
		"trigger", trigger,
		"date", e.lastResetDate,
		"archived_records", archived,
	)

	// Persist all four documents; the first failure is surfaced but the
	// remaining saves are still attempted so a retry has less to redo
	var firstErr error
	save := func(key string, v any) {
		if err := e.saveDoc(ctx, key, v); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	save(ports.KeyRooms, e.rooms)
	save(ports.KeyLiveHistory, e.live)
	save(ports.KeyArchivedHistory, e.archive)
	save(ports.KeyResetDate, resetMarker{Date: e.lastResetDate})
	return firstErr
}
