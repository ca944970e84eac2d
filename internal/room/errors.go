package room

import "errors"

// Expected, recoverable failures. The ws gateway maps each one to a stable
// error code in its failure replies; none of these is fatal to a connection.
var (
	ErrRoomNotFound     = errors.New("room not found")
	ErrCapacityExceeded = errors.New("maximum room limit reached")
	ErrRoomFull         = errors.New("room is full")
	ErrAlreadyStarted   = errors.New("game already started")
	ErrGameEnded        = errors.New("game has ended")
	ErrNotYourTurn      = errors.New("not your turn")
	ErrNotPlaying       = errors.New("game is not in progress")
	ErrPlayerNotFound   = errors.New("player not found")
)

// ErrCodeTaken reports a room-code collision on insert. CreateRoom retries
// with a fresh code, so it never reaches the wire.
var ErrCodeTaken = errors.New("room code already in use")
