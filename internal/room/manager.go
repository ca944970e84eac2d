package room

import (
	"encoding/json"
	"errors"
	"sync"
	"time"

	"checkers-server/internal/config"
)

// Manager owns every mutation of the room store. Each operation takes the
// target room's lock for its full duration, so no caller ever observes a
// half-updated room; operations on different rooms do not contend. Lock
// order is always room first, store second.
type Manager struct {
	store Store
	cfg   config.Config

	sweepMu sync.Mutex // one in-flight sweep at a time
}

func NewManager(s Store, cfg config.Config) *Manager {
	return &Manager{store: s, cfg: cfg}
}

// CreateRoom allocates a fresh code and seats the creator as light. The
// capacity and collision checks happen inside the store's insert, under
// its lock, so concurrent creates cannot slip past the limit or land two
// rooms on one code; a collision just retries with a new code.
func (m *Manager) CreateRoom(playerID, playerName string, variant Variant) (*Room, error) {
	now := time.Now()
	r := &Room{
		Players: []Player{{
			ID:          playerID,
			Name:        playerName,
			Color:       ColorLight,
			IsConnected: true,
		}},
		CurrentTurn:    ColorLight,
		Status:         StatusWaiting,
		Variant:        variant,
		CreatedAt:      now,
		LastActivityAt: now,
	}

	for {
		r.Code = randCode(codeLength)
		err := m.store.Create(r, playerID, m.cfg.MaxRooms)
		if errors.Is(err, ErrCodeTaken) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return r, nil
	}
}

// JoinRoom seats a second player, or reconnects a player who already holds
// a seat. Reconnection skips every status check: a seat is reusable even in
// a finished room, it just lands the player in the post-game state. The
// returned bool is true for the reconnection case.
func (m *Manager) JoinRoom(code, playerID, playerName string) (*Room, bool, error) {
	r, ok := m.store.Get(code)
	if !ok {
		return nil, false, ErrRoomNotFound
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if p := r.playerLocked(playerID); p != nil {
		p.IsConnected = true
		p.DisconnectedAt = nil
		p.Name = playerName
		r.LastActivityAt = time.Now()
		return r, true, nil
	}

	if r.Status == StatusFinished {
		return nil, false, ErrGameEnded
	}
	if r.Status != StatusWaiting {
		return nil, false, ErrAlreadyStarted
	}
	if len(r.Players) >= 2 {
		return nil, false, ErrRoomFull
	}

	color := ColorLight
	if len(r.Players) == 1 {
		color = r.Players[0].Color.Opponent()
	}
	r.Players = append(r.Players, Player{
		ID:          playerID,
		Name:        playerName,
		Color:       color,
		IsConnected: true,
	})
	r.LastActivityAt = time.Now()
	m.store.Bind(playerID, code)
	return r, false, nil
}

// GetRoom looks up a room and refreshes its activity timestamp: a read on
// behalf of a client counts as liveness.
func (m *Manager) GetRoom(code string) (*Room, bool) {
	r, ok := m.store.Get(code)
	if !ok {
		return nil, false
	}
	r.mu.Lock()
	r.LastActivityAt = time.Now()
	r.mu.Unlock()
	return r, true
}

// SetReady toggles a seat's pre-game ready flag. Missing room or player is
// reported, not fatal.
func (m *Manager) SetReady(code, playerID string, ready bool) bool {
	r, ok := m.store.Get(code)
	if !ok {
		return false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	p := r.playerLocked(playerID)
	if p == nil {
		return false
	}
	p.IsReady = ready
	r.LastActivityAt = time.Now()
	return true
}

// CanStart reports whether both seats are occupied and ready. Pure read.
func (m *Manager) CanStart(code string) bool {
	r, ok := m.store.Get(code)
	if !ok {
		return false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.canStartLocked()
}

func (r *Room) canStartLocked() bool {
	if len(r.Players) != 2 {
		return false
	}
	for i := range r.Players {
		if !r.Players[i].IsReady {
			return false
		}
	}
	return true
}

// StartGame transitions Waiting → Playing once both seats are ready.
func (m *Manager) StartGame(code string) bool {
	r, ok := m.store.Get(code)
	if !ok {
		return false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Status != StatusWaiting || !r.canStartLocked() {
		return false
	}
	r.Status = StatusPlaying
	r.LastActivityAt = time.Now()
	return true
}

// ApplyMove records a move's resulting board and hands the turn over. Only
// turn ownership is enforced; the board blob is never inspected. The check
// runs under the room lock so two racing submissions cannot both pass.
func (m *Manager) ApplyMove(code, playerID string, board json.RawMessage, next Color) error {
	r, ok := m.store.Get(code)
	if !ok {
		return ErrRoomNotFound
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	p := r.playerLocked(playerID)
	if p == nil {
		return ErrPlayerNotFound
	}
	if p.Color != r.CurrentTurn {
		return ErrNotYourTurn
	}
	if r.Status != StatusPlaying {
		return ErrNotPlaying
	}

	r.Board = board
	r.CurrentTurn = next
	r.LastActivityAt = time.Now()
	return nil
}

// EndGame forces the room to Finished. A nil winner records a draw/abort.
func (m *Manager) EndGame(code string, winner *Color) bool {
	r, ok := m.store.Get(code)
	if !ok {
		return false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Status = StatusFinished
	r.Winner = winner
	r.LastActivityAt = time.Now()
	return true
}

// RemovePlayer frees the seat and its reverse-index entry. The room is
// deleted outright once its last seat empties; the returned bool reports
// whether the room survived.
func (m *Manager) RemovePlayer(code, playerID string) (*Room, bool) {
	r, ok := m.store.Get(code)
	if !ok {
		return nil, false
	}

	r.mu.Lock()
	kept := r.Players[:0]
	for _, p := range r.Players {
		if p.ID != playerID {
			kept = append(kept, p)
		}
	}
	r.Players = kept

	if len(r.Players) == 0 {
		r.mu.Unlock()
		m.store.Delete(code)
		return nil, false
	}

	r.LastActivityAt = time.Now()
	m.store.Unbind(playerID)
	r.mu.Unlock()
	return r, true
}

// HandleDisconnect marks the player's seat disconnected but keeps it, so a
// transient drop can resume within the grace period.
func (m *Manager) HandleDisconnect(playerID string) (*Room, bool) {
	code, ok := m.store.RoomFor(playerID)
	if !ok {
		return nil, false
	}
	r, ok := m.store.Get(code)
	if !ok {
		return nil, false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if p := r.playerLocked(playerID); p != nil {
		now := time.Now()
		p.IsConnected = false
		p.DisconnectedAt = &now
		r.LastActivityAt = now
	}
	return r, true
}

// RoomCount reports the number of live rooms.
func (m *Manager) RoomCount() int {
	return m.store.Count()
}

// Cleanup is one janitor sweep: rooms idle past RoomIdleTimeout are evicted
// whole, then seats disconnected past DisconnectGrace are force-removed,
// which may cascade into deleting a now-empty room. Returns how many rooms
// were removed. Never runs concurrently with itself.
func (m *Manager) Cleanup() int {
	m.sweepMu.Lock()
	defer m.sweepMu.Unlock()

	now := time.Now()
	removed := 0
	for _, r := range m.store.Rooms() {
		r.mu.Lock()
		code := r.Code
		if now.Sub(r.LastActivityAt) > m.cfg.RoomIdleTimeout {
			r.mu.Unlock()
			m.store.Delete(code)
			removed++
			continue
		}

		var stale []string
		for _, p := range r.Players {
			if !p.IsConnected && p.DisconnectedAt != nil && now.Sub(*p.DisconnectedAt) > m.cfg.DisconnectGrace {
				stale = append(stale, p.ID)
			}
		}
		r.mu.Unlock()

		for _, id := range stale {
			m.RemovePlayer(code, id)
		}
		if len(stale) > 0 {
			if _, alive := m.store.Get(code); !alive {
				removed++
			}
		}
	}
	return removed
}
