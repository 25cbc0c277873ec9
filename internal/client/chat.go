package client

import (
	"fmt"
	"net/url"
	"time"

	"github.com/gorilla/websocket"

	"cipherchat/internal/crypto"
	"cipherchat/internal/models"
	"cipherchat/pkg/logger"
)

const (
	writeWait = 10 * time.Second
	pongWait  = 60 * time.Second

	pingPeriod = (pongWait * 9) / 10

	joinWait = 10 * time.Second
)

// Event is one item of conversation surfaced to the caller: either a
// decrypted peer message or a system notice from the relay.
type Event struct {
	Sender string
	Text   string
	System bool
}

// Chat is an encrypted session with one room. Plaintext exists only inside
// this process: every outbound line is sealed before it reaches the socket,
// and every inbound envelope is opened locally.
type Chat struct {
	conn *websocket.Conn

	key       crypto.KeyMaterial
	userLabel string
	roomID    string

	events   chan Event
	outgoing chan *models.Message
	done     chan struct{}
}

// Dial connects to the relay's websocket endpoint. No room is joined yet.
func Dial(serverURL string, key crypto.KeyMaterial, userLabel string) (*Chat, error) {
	wsURL, err := WebsocketURL(serverURL)
	if err != nil {
		return nil, err
	}

	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to relay: %w", err)
	}

	return &Chat{
		conn:      conn,
		key:       key,
		userLabel: userLabel,
		events:    make(chan Event, 64),
		outgoing:  make(chan *models.Message, 64),
		done:      make(chan struct{}),
	}, nil
}

// Join asks the relay to admit us to roomID. The first join for an unknown
// room creates it with this password. On success the read and write loops
// start; on rejection the reason from the relay is returned and the session
// is unusable.
func (c *Chat) Join(roomID, password string) error {
	err := c.conn.WriteJSON(&models.Message{
		Type:      models.MessageTypeJoin,
		RoomID:    roomID,
		Password:  password,
		UserLabel: c.userLabel,
	})
	if err != nil {
		return fmt.Errorf("failed to send join: %w", err)
	}

	c.conn.SetReadDeadline(time.Now().Add(joinWait))
	var msg models.Message
	if err := c.conn.ReadJSON(&msg); err != nil {
		return fmt.Errorf("no join response: %w", err)
	}

	switch msg.Type {
	case models.MessageTypeJoinSuccess:
		c.roomID = msg.RoomID
	case models.MessageTypeJoinError:
		return fmt.Errorf("join rejected: %s", msg.Text)
	default:
		return fmt.Errorf("unexpected response to join: %s", msg.Type)
	}

	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	go c.readLoop()
	go c.writeLoop()
	return nil
}

// Send seals one line of plaintext and queues the envelope for the room.
func (c *Chat) Send(plaintext string) error {
	nonce, ciphertext, err := crypto.Seal([]byte(plaintext), c.key.Key)
	if err != nil {
		return err
	}

	msg := &models.Message{
		Type:   models.MessageTypeEncrypted,
		RoomID: c.roomID,
		Nonce:  crypto.B64(nonce[:]),
		Cipher: crypto.B64(ciphertext),
		Sender: c.userLabel,
	}

	select {
	case c.outgoing <- msg:
		return nil
	case <-c.done:
		return fmt.Errorf("session closed")
	}
}

// Events delivers decrypted messages and system notices. The channel closes
// when the session ends.
func (c *Chat) Events() <-chan Event { return c.events }

// Close shuts the connection down.
func (c *Chat) Close() error { return c.conn.Close() }

func (c *Chat) readLoop() {
	defer func() {
		close(c.events)
		c.conn.Close()
	}()

	for {
		var msg models.Message
		if err := c.conn.ReadJSON(&msg); err != nil {
			return
		}

		switch msg.Type {
		case models.MessageTypeSystem:
			c.events <- Event{Text: msg.Text, System: true}

		case models.MessageTypeEncrypted:
			text, err := c.openEnvelope(&msg)
			if err != nil {
				// One undecryptable envelope does not end the chat.
				logger.Error("Dropping envelope from %s: %v", msg.Sender, err)
				continue
			}
			c.events <- Event{Sender: msg.Sender, Text: text}

		case models.MessageTypeJoinError:
			c.events <- Event{Text: msg.Text, System: true}
		}
	}
}

func (c *Chat) writeLoop() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		close(c.done)
		c.conn.Close()
	}()

	for {
		select {
		case msg := <-c.outgoing:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(msg); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Chat) openEnvelope(msg *models.Message) (string, error) {
	nonce, err := crypto.ParseNonce(msg.Nonce)
	if err != nil {
		return "", err
	}
	ciphertext, err := crypto.UnB64(msg.Cipher)
	if err != nil {
		return "", fmt.Errorf("invalid ciphertext encoding: %w", err)
	}
	plaintext, err := crypto.Open(nonce, ciphertext, c.key.Key)
	if err != nil {
		return "", err
	}
	return string(plaintext), nil
}

// WebsocketURL turns the relay base URL into its websocket endpoint.
func WebsocketURL(serverURL string) (string, error) {
	u, err := url.Parse(serverURL)
	if err != nil {
		return "", fmt.Errorf("invalid server URL: %w", err)
	}
	switch u.Scheme {
	case "http", "ws":
		u.Scheme = "ws"
	case "https", "wss":
		u.Scheme = "wss"
	default:
		return "", fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	u.Path = "/ws"
	return u.String(), nil
}
