package models

import "time"

// InspectionRecord represents one timestamped inspection event for a
// room. Records are immutable once created and live in per-room
// append-only sequences. Storage order is insertion order; archival can
// reorder storage across documents, so consumers needing recency must
// sort by timestamp descending themselves.
type InspectionRecord struct {
	Timestamp time.Time  `json:"timestamp"`
	Inspector string     `json:"inspector"`
	Status    RoomStatus `json:"status"`
	Notes     string     `json:"notes,omitempty"`
	Images    []string   `json:"images,omitempty"` // opaque MediaStore references
}

// InspectionHistory maps a room id to its ordered record sequence
type InspectionHistory map[string][]InspectionRecord

// Clone returns a deep copy of the history
func (h InspectionHistory) Clone() InspectionHistory {
	out := make(InspectionHistory, len(h))
	for roomID, records := range h {
		cp := make([]InspectionRecord, len(records))
		copy(cp, records)
		out[roomID] = cp
	}
	return out
}

// RoomRecord is an InspectionRecord flattened with its room identity,
// used for cross-room views
type RoomRecord struct {
	RoomID   string `json:"room_id"`
	RoomName string `json:"room_name"`
	InspectionRecord
}

// Stats holds completion statistics derived over all rooms for the
// current day. Unchecked + Normal + Problem always equals Total.
type Stats struct {
	Total          int `json:"total"`
	Unchecked      int `json:"unchecked"`
	Normal         int `json:"normal"`
	Problem        int `json:"problem"` // warning + error
	CompletedToday int `json:"completed_today"`
}

// HistoryGroup holds a room's full record sequence for grouped views
type HistoryGroup struct {
	RoomID   string             `json:"room_id"`
	RoomName string             `json:"room_name"`
	Records  []InspectionRecord `json:"records"`
}
