package relay

import (
	"errors"

	"cipherchat/internal/models"
	"cipherchat/internal/registry"
	"cipherchat/pkg/logger"
)

// Join rejection notices, worded for the end user.
const (
	reasonIncorrectPassword = "Incorrect password"
	reasonRoomFull          = "Room is full"
	reasonAlreadyJoined     = "Already in a room"
	reasonNotJoined         = "Join a room before sending messages"
)

type inbound struct {
	client *Client
	msg    *models.Message
}

// Hub routes messages between the connections of a room. All session state
// (which clients are live, which room each one is in) is owned by the single
// Run goroutine; membership itself lives in the registry. The hub treats
// every encrypted envelope as opaque bytes: it never decrypts, never
// validates and never holds a key.
type Hub struct {
	registry *registry.Registry

	clients map[string]*Client // connection id -> client

	register   chan *Client
	unregister chan *Client
	inbound    chan inbound
	shutdown   chan struct{}
}

func NewHub(reg *registry.Registry) *Hub {
	return &Hub{
		registry:   reg,
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		inbound:    make(chan inbound),
		shutdown:   make(chan struct{}, 1),
	}
}

// Register hands a freshly upgraded connection to the hub.
func (h *Hub) Register(c *Client) { h.register <- c }

// Unregister removes a connection, typically when its ReadPump exits.
func (h *Hub) Unregister(c *Client) { h.unregister <- c }

// Dispatch forwards a decoded inbound message to the hub loop.
func (h *Hub) Dispatch(c *Client, msg *models.Message) {
	h.inbound <- inbound{client: c, msg: msg}
}

// Shutdown stops the Run loop and disconnects every client. Safe to call
// more than once.
func (h *Hub) Shutdown() {
	select {
	case h.shutdown <- struct{}{}:
	default:
	}
}

// Run processes registrations, disconnects and inbound messages one at a
// time. Everything that touches h.clients happens on this goroutine.
func (h *Hub) Run() {
	for {
		select {
		case <-h.shutdown:
			for _, c := range h.clients {
				close(c.send)
			}
			h.clients = make(map[string]*Client)
			return

		case c := <-h.register:
			h.clients[c.id] = c
			logger.Info("Client connected: %s", c.id)

		case c := <-h.unregister:
			h.drop(c)

		case in := <-h.inbound:
			switch in.msg.Type {
			case models.MessageTypeJoin:
				h.handleJoin(in.client, in.msg)
			case models.MessageTypeEncrypted:
				h.handleEnvelope(in.client, in.msg)
			default:
				logger.Debug("Unknown message type %q from %s", in.msg.Type, in.client.id)
			}
		}
	}
}

// handleJoin runs the registry's atomic join and reports the outcome to the
// caller only. Other members learn about the newcomer through a system
// notice; the joiner is not told who else is present.
func (h *Hub) handleJoin(c *Client, msg *models.Message) {
	if msg.UserLabel != "" {
		c.userLabel = msg.UserLabel
	}
	if c.userLabel == "" {
		c.userLabel = "anonymous"
	}

	if err := h.registry.Join(msg.RoomID, msg.Password, c.id); err != nil {
		h.send(c, &models.Message{
			Type: models.MessageTypeJoinError,
			Text: rejectionReason(err),
		})
		return
	}

	c.roomID = msg.RoomID
	h.send(c, &models.Message{
		Type:   models.MessageTypeJoinSuccess,
		RoomID: msg.RoomID,
	})
	h.notifyRoom(msg.RoomID, c.id, c.userLabel+" joined the room")
}

// handleEnvelope forwards a ciphertext envelope verbatim to the other
// members of the sender's room. The sender never receives its own envelope
// back.
func (h *Hub) handleEnvelope(c *Client, msg *models.Message) {
	if c.roomID == "" {
		h.send(c, &models.Message{
			Type: models.MessageTypeJoinError,
			Text: reasonNotJoined,
		})
		return
	}

	h.broadcast(c.roomID, c.id, &models.Message{
		Type:   models.MessageTypeEncrypted,
		Nonce:  msg.Nonce,
		Cipher: msg.Cipher,
		Sender: msg.Sender,
	})
}

// drop disconnects a client: it leaves its room, survivors are notified, and
// the send channel is closed so WritePump shuts the connection. Safe to call
// twice; the second call is a no-op.
func (h *Hub) drop(c *Client) {
	if _, ok := h.clients[c.id]; !ok {
		return
	}
	delete(h.clients, c.id)
	close(c.send)

	if roomID, remaining, left := h.registry.Leave(c.id); left && remaining > 0 {
		h.notifyRoom(roomID, c.id, c.userLabel+" left the room")
	}
	logger.Info("Client disconnected: %s", c.id)
}

func (h *Hub) notifyRoom(roomID, exceptConnID, text string) {
	h.broadcast(roomID, exceptConnID, &models.Message{
		Type: models.MessageTypeSystem,
		Text: text,
	})
}

func (h *Hub) broadcast(roomID, exceptConnID string, msg *models.Message) {
	for _, connID := range h.registry.Members(roomID) {
		if connID == exceptConnID {
			continue
		}
		if peer, ok := h.clients[connID]; ok {
			h.send(peer, msg)
		}
	}
}

// send queues a message for one client. A client that cannot keep up with
// its send buffer is dropped rather than allowed to stall the hub.
func (h *Hub) send(c *Client, msg *models.Message) {
	select {
	case c.send <- msg:
	default:
		logger.Error("Client %s send buffer full, dropping connection", c.id)
		h.drop(c)
	}
}

func rejectionReason(err error) string {
	switch {
	case errors.Is(err, registry.ErrIncorrectPassword):
		return reasonIncorrectPassword
	case errors.Is(err, registry.ErrRoomFull):
		return reasonRoomFull
	case errors.Is(err, registry.ErrAlreadyJoined):
		return reasonAlreadyJoined
	default:
		return "Could not join room"
	}
}
