package store

import (
	"sync"

	"checkers-server/internal/room"
)

// MemoryStore keeps all live rooms in process memory. One lock covers both
// the forward map and the player reverse index so the two can never drift.
type MemoryStore struct {
	mu      sync.RWMutex
	rooms   map[string]*room.Room
	players map[string]string // player id -> room code
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		rooms:   map[string]*room.Room{},
		players: map[string]string{},
	}
}

func (m *MemoryStore) Get(code string) (*room.Room, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.rooms[code]
	return r, ok
}

// Create admits the room only while there is capacity and its code is
// free. Both checks share the write lock with the insert, so two racing
// creates can never both pass them.
func (m *MemoryStore) Create(r *room.Room, creatorID string, maxRooms int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.rooms) >= maxRooms {
		return room.ErrCapacityExceeded
	}
	if _, taken := m.rooms[r.Code]; taken {
		return room.ErrCodeTaken
	}
	m.rooms[r.Code] = r
	m.players[creatorID] = r.Code
	return nil
}

func (m *MemoryStore) Delete(code string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rooms[code]; !ok {
		return
	}
	delete(m.rooms, code)
	// A player may have been re-bound to a newer room in the meantime; only
	// drop entries that still point at the room being deleted.
	for id, c := range m.players {
		if c == code {
			delete(m.players, id)
		}
	}
}

func (m *MemoryStore) Bind(playerID, code string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.players[playerID] = code
}

func (m *MemoryStore) Unbind(playerID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.players, playerID)
}

func (m *MemoryStore) RoomFor(playerID string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	code, ok := m.players[playerID]
	return code, ok
}

func (m *MemoryStore) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.rooms)
}

func (m *MemoryStore) Rooms() []*room.Room {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*room.Room, 0, len(m.rooms))
	for _, r := range m.rooms {
		out = append(out, r)
	}
	return out
}
