package ws

import (
	"encoding/json"

	"github.com/gin-gonic/gin"

	"checkers-server/internal/room"
)

// dispatch routes one inbound envelope. A panic in a handler is contained
// here: the client gets a generic failure reply and the connection lives
// on. Handlers only mutate state through the manager, which applies an
// operation fully or not at all, so a fault cannot leave a partial update.
func (h *Hub) dispatch(c *Client, env Envelope) {
	defer func() {
		if rec := recover(); rec != nil {
			c.log.WithField("event", env.Event).Errorf("panic in handler: %v", rec)
			c.fail(env.Event, CodeInternal)
		}
	}()

	switch env.Event {
	case EvtCreateRoom:
		h.handleCreateRoom(c, env.Data)
	case EvtJoinRoom:
		h.handleJoinRoom(c, env.Data)
	case EvtPlayerReady:
		h.handlePlayerReady(c, env.Data)
	case EvtMakeMove:
		h.handleMakeMove(c, env.Data)
	case EvtGameOver:
		h.handleGameOver(c, env.Data)
	case EvtLeaveRoom:
		h.handleLeaveRoom(c, env.Data)
	default:
		c.log.WithField("event", env.Event).Warn("unknown event")
		c.fail(env.Event, CodeBadRequest)
	}
}

// decode unmarshals and validates a request payload.
func (h *Hub) decode(data json.RawMessage, v any) error {
	if err := json.Unmarshal(data, v); err != nil {
		return err
	}
	return h.validate.Struct(v)
}

// reply sends the direct answer to a request event.
func (c *Client) reply(event string, data gin.H) {
	body := gin.H{"success": true}
	for k, v := range data {
		body[k] = v
	}
	frame, err := json.Marshal(Envelope{Event: event + "Result", Data: mustMarshal(body)})
	if err != nil {
		c.log.WithError(err).Error("marshal reply")
		return
	}
	c.enqueue(frame)
}

func (c *Client) fail(event, code string) {
	frame, _ := json.Marshal(Envelope{
		Event: event + "Result",
		Data:  mustMarshal(gin.H{"success": false, "error": code}),
	})
	c.enqueue(frame)
}

func mustMarshal(v gin.H) json.RawMessage {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return b
}

func (h *Hub) handleCreateRoom(c *Client, data json.RawMessage) {
	var req CreateRoomRequest
	if err := h.decode(data, &req); err != nil {
		c.fail(EvtCreateRoom, CodeBadRequest)
		return
	}

	r, err := h.mgr.CreateRoom(req.PlayerID, req.PlayerName, req.Variant)
	if err != nil {
		c.fail(EvtCreateRoom, errorCode(err))
		return
	}

	snap := r.Snapshot()
	h.subscribe(c, snap.Code)
	c.roomID, c.playerID = snap.Code, req.PlayerID

	c.log.WithFields(map[string]any{
		"room_id":   snap.Code,
		"player_id": req.PlayerID,
		"variant":   req.Variant,
	}).Info("room created")
	c.reply(EvtCreateRoom, gin.H{"roomId": snap.Code, "room": snap})
}

func (h *Hub) handleJoinRoom(c *Client, data json.RawMessage) {
	var req JoinRoomRequest
	if err := h.decode(data, &req); err != nil {
		c.fail(EvtJoinRoom, CodeBadRequest)
		return
	}

	r, reconnected, err := h.mgr.JoinRoom(req.RoomID, req.PlayerID, req.PlayerName)
	if err != nil {
		c.fail(EvtJoinRoom, errorCode(err))
		return
	}

	snap := r.Snapshot()
	h.subscribe(c, req.RoomID)
	c.roomID, c.playerID = req.RoomID, req.PlayerID

	event := EvtPlayerJoined
	if reconnected {
		event = EvtPlayerReconnected
	}
	player, _ := r.PlayerSnapshot(req.PlayerID)
	h.Broadcast(req.RoomID, event, gin.H{"room": snap, "player": player})

	c.reply(EvtJoinRoom, gin.H{"room": snap})
}

func (h *Hub) handlePlayerReady(c *Client, data json.RawMessage) {
	var req PlayerReadyRequest
	if err := h.decode(data, &req); err != nil {
		c.fail(EvtPlayerReady, CodeBadRequest)
		return
	}

	if !h.mgr.SetReady(req.RoomID, req.PlayerID, req.Ready) {
		c.fail(EvtPlayerReady, CodeNotFound)
		return
	}

	r, ok := h.mgr.GetRoom(req.RoomID)
	if !ok {
		c.fail(EvtPlayerReady, CodeNotFound)
		return
	}
	h.Broadcast(req.RoomID, EvtPlayerReadyUpdate, gin.H{"room": r.Snapshot()})

	if h.mgr.StartGame(req.RoomID) {
		h.Broadcast(req.RoomID, EvtGameStart, gin.H{"room": r.Snapshot()})
	}

	c.reply(EvtPlayerReady, nil)
}

func (h *Hub) handleMakeMove(c *Client, data json.RawMessage) {
	var req MakeMoveRequest
	if err := h.decode(data, &req); err != nil {
		c.fail(EvtMakeMove, CodeBadRequest)
		return
	}

	if err := h.mgr.ApplyMove(req.RoomID, req.PlayerID, req.NewBoard, req.NextTurn); err != nil {
		c.fail(EvtMakeMove, errorCode(err))
		return
	}

	h.Broadcast(req.RoomID, EvtMoveMade, gin.H{
		"move":        req.Move,
		"board":       req.NewBoard,
		"currentTurn": req.NextTurn,
		"playerId":    req.PlayerID,
	})
	c.reply(EvtMakeMove, nil)
}

func (h *Hub) handleGameOver(c *Client, data json.RawMessage) {
	var req GameOverRequest
	if err := h.decode(data, &req); err != nil {
		c.fail(EvtGameOver, CodeBadRequest)
		return
	}

	if !h.mgr.EndGame(req.RoomID, req.Winner) {
		c.fail(EvtGameOver, CodeNotFound)
		return
	}

	h.Broadcast(req.RoomID, EvtGameEnded, gin.H{"winner": req.Winner, "reason": req.Reason})
	c.reply(EvtGameOver, nil)
}

func (h *Hub) handleLeaveRoom(c *Client, data json.RawMessage) {
	var req LeaveRoomRequest
	if err := h.decode(data, &req); err != nil {
		c.fail(EvtLeaveRoom, CodeBadRequest)
		return
	}

	// Walking out mid-game forfeits to the opponent before the seat goes.
	if r, ok := h.mgr.GetRoom(req.RoomID); ok {
		if p, seated := r.PlayerSnapshot(req.PlayerID); seated && r.Snapshot().Status == room.StatusPlaying {
			winner := p.Color.Opponent()
			h.mgr.EndGame(req.RoomID, &winner)
			h.Broadcast(req.RoomID, EvtGameEnded, gin.H{
				"winner": winner,
				"reason": "disconnect",
			})
		}
	}

	survivor, alive := h.mgr.RemovePlayer(req.RoomID, req.PlayerID)
	h.unsubscribe(c, req.RoomID)
	if c.playerID == req.PlayerID {
		c.roomID, c.playerID = "", ""
	}

	if alive {
		h.Broadcast(req.RoomID, EvtPlayerLeft, gin.H{
			"room":     survivor.Snapshot(),
			"playerId": req.PlayerID,
		})
	}
	c.reply(EvtLeaveRoom, nil)
}
