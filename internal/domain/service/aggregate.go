package service

import (
	"sort"

	"github.com/dcpatrol/patrol/internal/domain/models"
)

// DefaultRecentLimit is the recent-activity feed size used when the
// caller passes a non-positive limit
const DefaultRecentLimit = 5

// TodayStatusOf derives a room's status from the chronologically latest
// record with a timestamp within the current local day. Without such a
// record the derived status is Unchecked regardless of the persisted
// room status.
func (e *Engine) TodayStatusOf(roomID string) (models.RoomStatus, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.findRoomLocked(roomID) == nil {
		return "", models.ErrRoomNotFound
	}
	return e.todayStatusLocked(roomID), nil
}

func (e *Engine) todayStatusLocked(roomID string) models.RoomStatus {
	now := e.now()
	today := now.Format(dateLayout)

	status := models.RoomStatusUnchecked
	var latest *models.InspectionRecord
	records := e.live[roomID]
	for i := range records {
		record := &records[i]
		if record.Timestamp.In(now.Location()).Format(dateLayout) != today {
			continue
		}
		if latest == nil || record.Timestamp.After(latest.Timestamp) {
			latest = record
		}
	}
	if latest != nil {
		status = latest.Status
	}
	return status
}

func (e *Engine) countByStatusLocked() map[models.RoomStatus]int {
	counts := make(map[models.RoomStatus]int, 4)
	for _, room := range e.rooms {
		counts[e.todayStatusLocked(room.ID)]++
	}
	return counts
}

// Stats derives completion statistics over all rooms for today
func (e *Engine) Stats() models.Stats {
	e.mu.Lock()
	defer e.mu.Unlock()

	counts := e.countByStatusLocked()
	total := len(e.rooms)
	unchecked := counts[models.RoomStatusUnchecked]
	return models.Stats{
		Total:          total,
		Unchecked:      unchecked,
		Normal:         counts[models.RoomStatusNormal],
		Problem:        counts[models.RoomStatusWarning] + counts[models.RoomStatusError],
		CompletedToday: total - unchecked,
	}
}

// RecentActivity flattens today's records across all rooms, sorted by
// timestamp descending. Equal timestamps are broken by room id
// ascending so the feed is deterministic.
func (e *Engine) RecentActivity(limit int) []models.RoomRecord {
	e.mu.Lock()
	defer e.mu.Unlock()

	if limit <= 0 {
		limit = e.recentLimit
	}
	now := e.now()
	today := now.Format(dateLayout)

	var activities []models.RoomRecord
	for _, room := range e.rooms {
		for _, record := range e.live[room.ID] {
			if record.Timestamp.In(now.Location()).Format(dateLayout) != today {
				continue
			}
			activities = append(activities, models.RoomRecord{
				RoomID:           room.ID,
				RoomName:         room.Name,
				InspectionRecord: record,
			})
		}
	}

	sort.Slice(activities, func(i, j int) bool {
		if activities[i].Timestamp.Equal(activities[j].Timestamp) {
			return activities[i].RoomID < activities[j].RoomID
		}
		return activities[i].Timestamp.After(activities[j].Timestamp)
	})

	if len(activities) > limit {
		activities = activities[:limit]
	}
	return activities
}

// FullHistory returns a room's live plus archived records sorted by
// timestamp descending
func (e *Engine) FullHistory(roomID string) ([]models.InspectionRecord, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.findRoomLocked(roomID) == nil {
		return nil, models.ErrRoomNotFound
	}
	return e.fullHistoryLocked(roomID), nil
}

func (e *Engine) fullHistoryLocked(roomID string) []models.InspectionRecord {
	records := make([]models.InspectionRecord, 0, len(e.live[roomID])+len(e.archive[roomID]))
	records = append(records, e.live[roomID]...)
	records = append(records, e.archive[roomID]...)
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Timestamp.After(records[j].Timestamp)
	})
	return records
}

// FullHistoryAll returns every room's live plus archived records,
// grouped by room in catalog order. Rooms with no records are omitted.
func (e *Engine) FullHistoryAll() []models.HistoryGroup {
	e.mu.Lock()
	defer e.mu.Unlock()

	var groups []models.HistoryGroup
	for _, room := range e.rooms {
		records := e.fullHistoryLocked(room.ID)
		if len(records) == 0 {
			continue
		}
		groups = append(groups, models.HistoryGroup{
			RoomID:   room.ID,
			RoomName: room.Name,
			Records:  records,
		})
	}
	return groups
}
