package room

import (
	"encoding/json"
	"sync"
	"time"
)

type Color string

const (
	ColorLight Color = "light"
	ColorDark  Color = "dark"
)

// Opponent returns the other seat's color.
func (c Color) Opponent() Color {
	if c == ColorLight {
		return ColorDark
	}
	return ColorLight
}

type Variant string

const (
	VariantInternational Variant = "international"
	VariantNigerian      Variant = "nigerian"
	VariantAmerican      Variant = "american"
)

type Status string

const (
	StatusWaiting  Status = "waiting"
	StatusPlaying  Status = "playing"
	StatusFinished Status = "finished"
)

type Player struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	Color          Color      `json:"color"`
	IsReady        bool       `json:"isReady"`
	IsConnected    bool       `json:"isConnected"`
	DisconnectedAt *time.Time `json:"disconnectedAt,omitempty"`
}

// Room is one match. The board is an opaque blob relayed between the two
// seats; this server never interprets it. Field access after creation goes
// through the Manager, which holds mu for the duration of an operation.
type Room struct {
	mu sync.Mutex

	Code           string          `json:"id"`
	Players        []Player        `json:"players"`
	Board          json.RawMessage `json:"board,omitempty"`
	CurrentTurn    Color           `json:"currentTurn"`
	Status         Status          `json:"status"`
	Variant        Variant         `json:"variant"`
	CreatedAt      time.Time       `json:"createdAt"`
	LastActivityAt time.Time       `json:"lastActivityAt"`
	Winner         *Color          `json:"winner,omitempty"`
}

// Snapshot is a plain value copy of a Room, safe to marshal and hand to
// other goroutines after the room lock is released.
type Snapshot struct {
	Code           string          `json:"id"`
	Players        []Player        `json:"players"`
	Board          json.RawMessage `json:"board,omitempty"`
	CurrentTurn    Color           `json:"currentTurn"`
	Status         Status          `json:"status"`
	Variant        Variant         `json:"variant"`
	CreatedAt      time.Time       `json:"createdAt"`
	LastActivityAt time.Time       `json:"lastActivityAt"`
	Winner         *Color          `json:"winner,omitempty"`
}

// snapshotLocked copies the room. Callers must hold r.mu.
func (r *Room) snapshotLocked() Snapshot {
	players := make([]Player, len(r.Players))
	copy(players, r.Players)
	return Snapshot{
		Code:           r.Code,
		Players:        players,
		Board:          r.Board,
		CurrentTurn:    r.CurrentTurn,
		Status:         r.Status,
		Variant:        r.Variant,
		CreatedAt:      r.CreatedAt,
		LastActivityAt: r.LastActivityAt,
		Winner:         r.Winner,
	}
}

// Snapshot copies the room under its lock.
func (r *Room) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshotLocked()
}

// playerLocked returns the seat for id, or nil. Callers must hold r.mu.
func (r *Room) playerLocked(playerID string) *Player {
	for i := range r.Players {
		if r.Players[i].ID == playerID {
			return &r.Players[i]
		}
	}
	return nil
}

// PlayerSnapshot returns a copy of the seat for id.
func (r *Room) PlayerSnapshot(playerID string) (Player, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p := r.playerLocked(playerID); p != nil {
		return *p, true
	}
	return Player{}, false
}
