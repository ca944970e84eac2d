package ws

import (
	"encoding/json"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/sirupsen/logrus"
)

const relaySubjectPrefix = "checkers.rooms."

// Relay mirrors room broadcasts across server instances over NATS, so two
// players of one room can sit on different instances. Delivery is
// best-effort, same as local fan-out: a relay hiccup never fails the
// operation that produced the event.
type Relay struct {
	nc     *nats.Conn
	sub    *nats.Subscription
	hub    *Hub
	origin string
	log    *logrus.Entry
}

// relayFrame wraps an already-encoded envelope with its room and origin
// instance, so an instance can skip its own messages.
type relayFrame struct {
	Origin string          `json:"origin"`
	Room   string          `json:"room"`
	Frame  json.RawMessage `json:"frame"`
}

func NewRelay(url string, hub *Hub) (*Relay, error) {
	nc, err := nats.Connect(url,
		nats.Name("checkers-server"),
		nats.MaxReconnects(-1),
	)
	if err != nil {
		return nil, err
	}

	r := &Relay{
		nc:     nc,
		hub:    hub,
		origin: uuid.NewString(),
		log:    logrus.WithField("component", "relay"),
	}

	r.sub, err = nc.Subscribe(relaySubjectPrefix+"*", func(msg *nats.Msg) {
		r.handleFrame(msg.Data)
	})
	if err != nil {
		nc.Close()
		return nil, err
	}

	r.log.WithField("url", url).Info("relay connected")
	return r, nil
}

// handleFrame hands one relayed frame to local subscribers. The instance's
// own publishes come back from the subscription and are skipped by origin;
// anything undecodable is logged and dropped.
func (r *Relay) handleFrame(data []byte) {
	var f relayFrame
	if err := json.Unmarshal(data, &f); err != nil {
		r.log.WithError(err).Warn("bad relay frame")
		return
	}
	if f.Origin == r.origin {
		return
	}
	r.hub.deliverLocal(f.Room, f.Frame)
}

// Publish forwards one room frame to the other instances.
func (r *Relay) Publish(roomID string, frame []byte) {
	payload, err := json.Marshal(relayFrame{Origin: r.origin, Room: roomID, Frame: frame})
	if err != nil {
		r.log.WithError(err).Error("marshal relay frame")
		return
	}
	if err := r.nc.Publish(relaySubjectPrefix+roomID, payload); err != nil {
		r.log.WithError(err).Warn("relay publish failed")
	}
}

// Close drains in-flight messages and disconnects.
func (r *Relay) Close() {
	if err := r.nc.Drain(); err != nil {
		r.nc.Close()
	}
}
