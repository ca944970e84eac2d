package store

import (
	"testing"

	"github.com/stretchr/testify/require"

	"checkers-server/internal/room"
)

func newRoom(code string, playerIDs ...string) *room.Room {
	r := &room.Room{Code: code, Status: room.StatusWaiting}
	for _, id := range playerIDs {
		r.Players = append(r.Players, room.Player{ID: id})
	}
	return r
}

func TestMemoryStore_CreateBindsCreator(t *testing.T) {
	req := require.New(t)
	s := NewMemoryStore()

	req.NoError(s.Create(newRoom("ABCDEF", "p1"), "p1", 10))

	r, ok := s.Get("ABCDEF")
	req.True(ok)
	req.Equal("ABCDEF", r.Code)

	code, ok := s.RoomFor("p1")
	req.True(ok)
	req.Equal("ABCDEF", code)
	req.Equal(1, s.Count())
}

func TestMemoryStore_CreateRejectsTakenCode(t *testing.T) {
	req := require.New(t)
	s := NewMemoryStore()

	req.NoError(s.Create(newRoom("ABCDEF", "p1"), "p1", 10))
	req.ErrorIs(s.Create(newRoom("ABCDEF", "p2"), "p2", 10), room.ErrCodeTaken)

	// The first room is untouched and the loser left no binding behind.
	r, ok := s.Get("ABCDEF")
	req.True(ok)
	req.Equal("p1", r.Players[0].ID)
	_, ok = s.RoomFor("p2")
	req.False(ok)
	req.Equal(1, s.Count())
}

func TestMemoryStore_CreateEnforcesCapacity(t *testing.T) {
	req := require.New(t)
	s := NewMemoryStore()

	req.NoError(s.Create(newRoom("AAAAAA", "p1"), "p1", 1))
	req.ErrorIs(s.Create(newRoom("BBBBBB", "p2"), "p2", 1), room.ErrCapacityExceeded)

	_, ok := s.Get("BBBBBB")
	req.False(ok)
	_, ok = s.RoomFor("p2")
	req.False(ok)
	req.Equal(1, s.Count())
}

func TestMemoryStore_DeleteCascadesReverseIndex(t *testing.T) {
	req := require.New(t)
	s := NewMemoryStore()

	req.NoError(s.Create(newRoom("ABCDEF", "p1", "p2"), "p1", 10))
	s.Bind("p2", "ABCDEF")

	s.Delete("ABCDEF")

	_, ok := s.Get("ABCDEF")
	req.False(ok)
	_, ok = s.RoomFor("p1")
	req.False(ok)
	_, ok = s.RoomFor("p2")
	req.False(ok)
	req.Zero(s.Count())
}

func TestMemoryStore_DeleteKeepsUnrelatedBindings(t *testing.T) {
	req := require.New(t)
	s := NewMemoryStore()

	req.NoError(s.Create(newRoom("AAAAAA", "p1"), "p1", 10))
	req.NoError(s.Create(newRoom("BBBBBB", "p2"), "p2", 10))

	s.Delete("AAAAAA")

	code, ok := s.RoomFor("p2")
	req.True(ok)
	req.Equal("BBBBBB", code)
}

func TestMemoryStore_UnbindIsIndependentOfRoom(t *testing.T) {
	req := require.New(t)
	s := NewMemoryStore()

	req.NoError(s.Create(newRoom("AAAAAA", "p1"), "p1", 10))
	s.Unbind("p1")

	_, ok := s.RoomFor("p1")
	req.False(ok)
	_, ok = s.Get("AAAAAA")
	req.True(ok)
}

func TestMemoryStore_RoomsIsACopy(t *testing.T) {
	req := require.New(t)
	s := NewMemoryStore()

	req.NoError(s.Create(newRoom("AAAAAA", "p1"), "p1", 10))
	req.NoError(s.Create(newRoom("BBBBBB", "p2"), "p2", 10))

	rooms := s.Rooms()
	req.Len(rooms, 2)

	s.Delete("AAAAAA")
	// The earlier snapshot still holds both entries.
	req.Len(rooms, 2)
	req.Equal(1, s.Count())
}
