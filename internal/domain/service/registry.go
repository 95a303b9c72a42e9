package service

import (
	"fmt"
	"os"

	"github.com/dcpatrol/patrol/internal/domain/models"
	"gopkg.in/yaml.v3"
)

// DefaultCatalog returns the built-in room catalog: three standard
// machine rooms and two UPS rooms on the same floor
func DefaultCatalog() []models.Room {
	return []models.Room{
		{ID: "room-1", Name: "Machine Room 8210", Type: models.RoomTypeStandard, Location: "Building A, Floor 8", Status: models.RoomStatusUnchecked},
		{ID: "room-2", Name: "Machine Room 8211", Type: models.RoomTypeStandard, Location: "Building A, Floor 8", Status: models.RoomStatusUnchecked},
		{ID: "room-3", Name: "Machine Room 8108", Type: models.RoomTypeStandard, Location: "Building A, Floor 8", Status: models.RoomStatusUnchecked},
		{ID: "room-4", Name: "UPS Room 8112", Type: models.RoomTypeUPS, Location: "Building A, Floor 8", Status: models.RoomStatusUnchecked},
		{ID: "room-5", Name: "UPS Room 8110", Type: models.RoomTypeUPS, Location: "Building A, Floor 8", Status: models.RoomStatusUnchecked},
	}
}

// LoadCatalogFile reads a room catalog from a YAML file. Only the fixed
// fields (id, name, type, location) are read; statuses always start
// unchecked.
func LoadCatalogFile(path string) ([]models.Room, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}

	var rooms []models.Room
	if err := yaml.Unmarshal(raw, &rooms); err != nil {
		return nil, fmt.Errorf("parse catalog file: %w", err)
	}
	for i := range rooms {
		rooms[i].Status = models.RoomStatusUnchecked
		rooms[i].LastInspection = nil
	}
	if err := validateCatalog(rooms); err != nil {
		return nil, err
	}
	return rooms, nil
}

func validateCatalog(rooms []models.Room) error {
	if len(rooms) == 0 {
		return fmt.Errorf("catalog is empty")
	}
	seen := make(map[string]struct{}, len(rooms))
	for _, room := range rooms {
		if room.ID == "" {
			return fmt.Errorf("room with empty id")
		}
		if _, dup := seen[room.ID]; dup {
			return fmt.Errorf("duplicate room id %q", room.ID)
		}
		seen[room.ID] = struct{}{}
		if room.Type != models.RoomTypeStandard && room.Type != models.RoomTypeUPS {
			return fmt.Errorf("room %s has unknown type %q", room.ID, room.Type)
		}
	}
	return nil
}

// overlayRooms copies the mutable fields of saved rooms onto the fixed
// catalog, matching by id. Name, type and location always come from the
// catalog; a saved room with an unknown id is dropped.
func overlayRooms(rooms []models.Room, saved []models.Room) {
	byID := make(map[string]models.Room, len(saved))
	for _, s := range saved {
		byID[s.ID] = s
	}
	for i := range rooms {
		s, ok := byID[rooms[i].ID]
		if !ok {
			continue
		}
		if models.ValidateRoomStatus(s.Status) != nil {
			continue
		}
		rooms[i].Status = s.Status
		rooms[i].LastInspection = s.LastInspection
	}
}

// ListRooms returns the room catalog in catalog order
func (e *Engine) ListRooms() []models.Room {
	e.mu.Lock()
	defer e.mu.Unlock()
	return cloneRooms(e.rooms)
}

// FindRoom looks up a room by id
func (e *Engine) FindRoom(id string) (models.Room, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	room := e.findRoomLocked(id)
	if room == nil {
		return models.Room{}, models.ErrRoomNotFound
	}
	out := *room
	if out.LastInspection != nil {
		t := *out.LastInspection
		out.LastInspection = &t
	}
	return out, nil
}

func (e *Engine) findRoomLocked(id string) *models.Room {
	for i := range e.rooms {
		if e.rooms[i].ID == id {
			return &e.rooms[i]
		}
	}
	return nil
}
