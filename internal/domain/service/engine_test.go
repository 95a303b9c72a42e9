package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dcpatrol/patrol/internal/adapters/memory"
	"github.com/dcpatrol/patrol/internal/domain/models"
	"github.com/dcpatrol/patrol/internal/domain/ports"
)

// testClock is a mutable time source shared with the engine under test
type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time { return c.now }

func (c *testClock) Set(t time.Time) { c.now = t }

// baseTime is a mid-morning moment, past the default reset hour
var baseTime = time.Date(2026, 3, 10, 9, 0, 0, 0, time.Local)

func newTestEngine(t *testing.T, store *memory.Store, clock *testClock) *Engine {
	t.Helper()
	engine, err := NewEngine(context.Background(), store, WithClock(clock.Now))
	require.NoError(t, err)
	return engine
}

func submit(t *testing.T, e *Engine, roomID string, status models.RoomStatus, ts time.Time) {
	t.Helper()
	err := e.SubmitInspection(context.Background(), roomID, models.InspectionRecord{
		Timestamp: ts,
		Inspector: "Chen Ruixi",
		Status:    status,
	})
	require.NoError(t, err)
}

func TestNewEngine_SeedsDefaultCatalog(t *testing.T) {
	engine := newTestEngine(t, memory.NewStore(), &testClock{now: baseTime})

	rooms := engine.ListRooms()
	require.Len(t, rooms, 5)
	for _, room := range rooms {
		assert.Equal(t, models.RoomStatusUnchecked, room.Status)
		assert.Nil(t, room.LastInspection)
	}
}

func TestNewEngine_RejectsInvalidCatalog(t *testing.T) {
	dup := []models.Room{
		{ID: "room-1", Name: "A", Type: models.RoomTypeStandard},
		{ID: "room-1", Name: "B", Type: models.RoomTypeStandard},
	}
	_, err := NewEngine(context.Background(), memory.NewStore(), WithCatalog(dup))
	assert.Error(t, err)

	_, err = NewEngine(context.Background(), memory.NewStore(), WithCatalog(nil))
	assert.Error(t, err)

	badType := []models.Room{{ID: "room-1", Name: "A", Type: "garage"}}
	_, err = NewEngine(context.Background(), memory.NewStore(), WithCatalog(badType))
	assert.Error(t, err)
}

func TestNewEngine_CorruptDocumentFallsBackToDefaults(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, ports.KeyLiveHistory, []byte("{not json")))
	require.NoError(t, store.Save(ctx, ports.KeyRooms, []byte("[broken")))

	engine := newTestEngine(t, store, &testClock{now: baseTime})

	rooms := engine.ListRooms()
	require.Len(t, rooms, 5)
	for _, room := range rooms {
		assert.Equal(t, models.RoomStatusUnchecked, room.Status)
	}
	records, err := engine.HistoryFor("room-1")
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestNewEngine_OverlayKeepsCatalogIdentity(t *testing.T) {
	store := memory.NewStore()
	clock := &testClock{now: baseTime}

	first := newTestEngine(t, store, clock)
	submit(t, first, "room-2", models.RoomStatusWarning, baseTime)

	// A fresh engine over the same store picks up the mutable fields
	second := newTestEngine(t, store, clock)
	room, err := second.FindRoom("room-2")
	require.NoError(t, err)
	assert.Equal(t, models.RoomStatusWarning, room.Status)
	assert.Equal(t, "Machine Room 8211", room.Name)
	require.NotNil(t, room.LastInspection)
	assert.True(t, room.LastInspection.Equal(baseTime))
}

func TestNewEngine_OverlayDropsUnknownRooms(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	saved := []models.Room{
		{ID: "room-99", Name: "Ghost Room", Type: models.RoomTypeStandard, Status: models.RoomStatusError},
	}
	raw, err := json.Marshal(saved)
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, ports.KeyRooms, raw))

	engine := newTestEngine(t, store, &testClock{now: baseTime})

	_, err = engine.FindRoom("room-99")
	assert.ErrorIs(t, err, models.ErrRoomNotFound)
	assert.Len(t, engine.ListRooms(), 5)
}

func TestSubmitInspection_PersistenceFailureSurfaced(t *testing.T) {
	store := memory.NewStore()
	engine := newTestEngine(t, store, &testClock{now: baseTime})

	store.FailSaves(errors.New("disk full"))
	err := engine.SubmitInspection(context.Background(), "room-1", models.InspectionRecord{
		Status: models.RoomStatusNormal,
	})
	assert.ErrorIs(t, err, models.ErrPersistence)

	// The record is kept in memory despite the failed save
	records, err := engine.HistoryFor("room-1")
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestRefresh_ReloadsStoreState(t *testing.T) {
	store := memory.NewStore()
	clock := &testClock{now: baseTime}
	engine := newTestEngine(t, store, clock)
	submit(t, engine, "room-1", models.RoomStatusNormal, baseTime)

	// A second engine writing through the same store simulates another
	// process; Refresh makes its submission visible here
	other := newTestEngine(t, store, clock)
	submit(t, other, "room-3", models.RoomStatusError, baseTime.Add(10*time.Minute))

	require.NoError(t, engine.Refresh(context.Background()))
	records, err := engine.HistoryFor("room-3")
	require.NoError(t, err)
	assert.Len(t, records, 1)
}
