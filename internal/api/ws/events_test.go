package ws

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"checkers-server/internal/config"
	"checkers-server/internal/room"
	"checkers-server/internal/store"
)

func testHub() *Hub {
	mgr := room.NewManager(store.NewMemoryStore(), config.Config{MaxRooms: 100})
	return NewHub(mgr)
}

func TestDecode_CreateRoomRequest(t *testing.T) {
	req := require.New(t)
	h := testHub()

	var out CreateRoomRequest
	err := h.decode(json.RawMessage(`{"playerId":"p1","playerName":"Alice","variant":"international"}`), &out)
	req.NoError(err)
	req.Equal(room.VariantInternational, out.Variant)

	// Unknown variant is rejected before it reaches the manager.
	err = h.decode(json.RawMessage(`{"playerId":"p1","playerName":"Alice","variant":"chess"}`), &CreateRoomRequest{})
	req.Error(err)

	err = h.decode(json.RawMessage(`{"playerName":"Alice","variant":"american"}`), &CreateRoomRequest{})
	req.Error(err)

	err = h.decode(json.RawMessage(`not json`), &CreateRoomRequest{})
	req.Error(err)
}

func TestDecode_JoinRoomRequest(t *testing.T) {
	req := require.New(t)
	h := testHub()

	err := h.decode(json.RawMessage(`{"roomId":"ABC234","playerId":"p1","playerName":"A"}`), &JoinRoomRequest{})
	req.NoError(err)

	// Codes are exactly six characters.
	err = h.decode(json.RawMessage(`{"roomId":"ABC","playerId":"p1","playerName":"A"}`), &JoinRoomRequest{})
	req.Error(err)
}

func TestDecode_MakeMoveRequest(t *testing.T) {
	req := require.New(t)
	h := testHub()

	var out MakeMoveRequest
	err := h.decode(json.RawMessage(`{
		"roomId":"ABC234","playerId":"p1",
		"move":{"from":{"row":1,"col":2},"to":{"row":2,"col":3}},
		"newBoard":[[null]],
		"nextTurn":"dark"
	}`), &out)
	req.NoError(err)
	// Move and board stay opaque.
	req.JSONEq(`[[null]]`, string(out.NewBoard))

	err = h.decode(json.RawMessage(`{"roomId":"ABC234","playerId":"p1","move":{},"newBoard":[[]],"nextTurn":"red"}`), &MakeMoveRequest{})
	req.Error(err)
}

func TestErrorCode_CoversEveryManagerError(t *testing.T) {
	req := require.New(t)

	req.Equal(CodeNotFound, errorCode(room.ErrRoomNotFound))
	req.Equal(CodeNotFound, errorCode(room.ErrPlayerNotFound))
	req.Equal(CodeCapacityExceeded, errorCode(room.ErrCapacityExceeded))
	req.Equal(CodeRoomFull, errorCode(room.ErrRoomFull))
	req.Equal(CodeAlreadyStarted, errorCode(room.ErrAlreadyStarted))
	req.Equal(CodeGameEnded, errorCode(room.ErrGameEnded))
	req.Equal(CodeNotYourTurn, errorCode(room.ErrNotYourTurn))
	req.Equal(CodeNotPlaying, errorCode(room.ErrNotPlaying))
	req.Equal(CodeInternal, errorCode(json.Unmarshal([]byte("x"), &struct{}{})))
}
