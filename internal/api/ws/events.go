package ws

import (
	"encoding/json"
	"errors"

	"checkers-server/internal/room"
)

// Inbound request events.
const (
	EvtCreateRoom  = "createRoom"
	EvtJoinRoom    = "joinRoom"
	EvtPlayerReady = "playerReady"
	EvtMakeMove    = "makeMove"
	EvtGameOver    = "gameOver"
	EvtLeaveRoom   = "leaveRoom"
)

// Broadcast events fanned out to a room's subscribers.
const (
	EvtPlayerJoined      = "playerJoined"
	EvtPlayerReconnected = "playerReconnected"
	EvtPlayerReadyUpdate = "playerReadyUpdate"
	EvtGameStart         = "gameStart"
	EvtMoveMade          = "moveMade"
	EvtGameEnded         = "gameEnded"
	EvtPlayerLeft        = "playerLeft"
)

// Envelope frames every message in both directions: a request or broadcast
// name plus its raw payload. Replies to a request reuse the request's event
// name with a "Result" suffix.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// Stable error codes carried in failure replies. Codes, not prose: clients
// switch on them.
const (
	CodeNotFound         = "NOT_FOUND"
	CodeCapacityExceeded = "CAPACITY_EXCEEDED"
	CodeRoomFull         = "ROOM_FULL"
	CodeAlreadyStarted   = "ALREADY_STARTED"
	CodeGameEnded        = "GAME_ENDED"
	CodeNotYourTurn      = "NOT_YOUR_TURN"
	CodeNotPlaying       = "NOT_PLAYING"
	CodeBadRequest       = "BAD_REQUEST"
	CodeInternal         = "INTERNAL_ERROR"
)

// errorCode maps a manager error onto its wire code.
func errorCode(err error) string {
	switch {
	case errors.Is(err, room.ErrRoomNotFound), errors.Is(err, room.ErrPlayerNotFound):
		return CodeNotFound
	case errors.Is(err, room.ErrCapacityExceeded):
		return CodeCapacityExceeded
	case errors.Is(err, room.ErrRoomFull):
		return CodeRoomFull
	case errors.Is(err, room.ErrAlreadyStarted):
		return CodeAlreadyStarted
	case errors.Is(err, room.ErrGameEnded):
		return CodeGameEnded
	case errors.Is(err, room.ErrNotYourTurn):
		return CodeNotYourTurn
	case errors.Is(err, room.ErrNotPlaying):
		return CodeNotPlaying
	default:
		return CodeInternal
	}
}

// Request payloads. Field constraints mirror what the frontend sends; the
// move and board blobs stay opaque all the way through.

type CreateRoomRequest struct {
	PlayerID   string       `json:"playerId" validate:"required,max=100"`
	PlayerName string       `json:"playerName" validate:"required,max=50"`
	Variant    room.Variant `json:"variant" validate:"required,oneof=international nigerian american"`
}

type JoinRoomRequest struct {
	RoomID     string `json:"roomId" validate:"required,len=6"`
	PlayerID   string `json:"playerId" validate:"required,max=100"`
	PlayerName string `json:"playerName" validate:"required,max=50"`
}

type PlayerReadyRequest struct {
	RoomID   string `json:"roomId" validate:"required,len=6"`
	PlayerID string `json:"playerId" validate:"required,max=100"`
	Ready    bool   `json:"ready"`
}

type MakeMoveRequest struct {
	RoomID   string          `json:"roomId" validate:"required,len=6"`
	PlayerID string          `json:"playerId" validate:"required,max=100"`
	Move     json.RawMessage `json:"move" validate:"required"`
	NewBoard json.RawMessage `json:"newBoard" validate:"required"`
	NextTurn room.Color      `json:"nextTurn" validate:"required,oneof=light dark"`
}

type GameOverRequest struct {
	RoomID string      `json:"roomId" validate:"required,len=6"`
	Winner *room.Color `json:"winner" validate:"omitempty,oneof=light dark"`
	Reason string      `json:"reason" validate:"required,max=100"`
}

type LeaveRoomRequest struct {
	RoomID   string `json:"roomId" validate:"required,len=6"`
	PlayerID string `json:"playerId" validate:"required,max=100"`
}
