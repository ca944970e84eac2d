package ws

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"checkers-server/internal/room"
)

// Hub is the session gateway: it owns the set of live connections per room,
// decodes inbound events, drives the room manager, and fans resulting
// events back out. State mutations commit in the manager first; delivery to
// subscribers is best-effort.
type Hub struct {
	mu    sync.RWMutex
	rooms map[string]map[*Client]struct{}

	mgr      *room.Manager
	validate *validator.Validate
	relay    *Relay
	log      *logrus.Entry
}

func NewHub(mgr *room.Manager) *Hub {
	return &Hub{
		rooms:    make(map[string]map[*Client]struct{}),
		mgr:      mgr,
		validate: validator.New(),
		log:      logrus.WithField("component", "ws"),
	}
}

// SetRelay plugs in the optional cross-instance relay.
func (h *Hub) SetRelay(r *Relay) {
	h.relay = r
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // origin policy is enforced by the CORS layer in front
	},
}

// HandleWS upgrades the request and serves the connection until it closes.
func (h *Hub) HandleWS(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.WithError(err).Warn("upgrade failed")
		return
	}

	client := &Client{
		id:   uuid.NewString(),
		hub:  h,
		conn: conn,
		send: make(chan []byte, sendBuffer),
	}
	client.log = h.log.WithField("conn_id", client.id)

	go client.writePump()
	client.readPump()
}

// subscribe adds the client to a room's fan-out set.
func (h *Hub) subscribe(c *Client, roomID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.rooms[roomID]; !ok {
		h.rooms[roomID] = make(map[*Client]struct{})
	}
	h.rooms[roomID][c] = struct{}{}
}

func (h *Hub) unsubscribe(c *Client, roomID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if subs, ok := h.rooms[roomID]; ok {
		delete(subs, c)
		if len(subs) == 0 {
			delete(h.rooms, roomID)
		}
	}
}

// drop runs once per connection, after the read pump exits. An abrupt close
// mid-game counts as a forfeit: the opponent is recorded as winner and the
// room is ended, but the seat is only marked disconnected, so the player
// can still resume within the grace period and see the final state.
func (h *Hub) drop(c *Client) {
	if c.roomID != "" {
		h.unsubscribe(c, c.roomID)
	}
	c.closeSend()

	if c.roomID == "" || c.playerID == "" {
		return
	}

	if r, ok := h.mgr.GetRoom(c.roomID); ok {
		if p, seated := r.PlayerSnapshot(c.playerID); seated && r.Snapshot().Status == room.StatusPlaying {
			winner := p.Color.Opponent()
			h.mgr.EndGame(c.roomID, &winner)
			h.Broadcast(c.roomID, EvtGameEnded, gin.H{
				"winner": winner,
				"reason": "disconnect",
			})
		}
	}
	h.mgr.HandleDisconnect(c.playerID)
	c.log.WithFields(logrus.Fields{
		"room_id":   c.roomID,
		"player_id": c.playerID,
	}).Info("connection dropped")
}

// Broadcast fans an event out to every local subscriber of the room, and
// across instances when a relay is attached. Failures never propagate back
// to the caller.
func (h *Hub) Broadcast(roomID, event string, data any) {
	raw, err := json.Marshal(data)
	if err != nil {
		h.log.WithError(err).WithField("event", event).Error("marshal broadcast")
		return
	}
	frame, _ := json.Marshal(Envelope{Event: event, Data: raw})
	h.deliverLocal(roomID, frame)
	if h.relay != nil {
		h.relay.Publish(roomID, frame)
	}
}

func (h *Hub) deliverLocal(roomID string, frame []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.rooms[roomID] {
		c.enqueue(frame)
	}
}
