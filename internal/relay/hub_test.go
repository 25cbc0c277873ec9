package relay

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cipherchat/internal/models"
	"cipherchat/internal/registry"
)

// newTestClient builds a client without a websocket connection. Hub paths
// only touch the id and the send channel, so the pumps stay unused.
func newTestClient(h *Hub) *Client {
	return &Client{
		hub:  h,
		send: make(chan *models.Message, 64),
		id:   uuid.NewString(),
	}
}

func startHub(t *testing.T, capacity int) *Hub {
	t.Helper()
	h := NewHub(registry.New(capacity))
	go h.Run()
	return h
}

func recv(t *testing.T, c *Client) *models.Message {
	t.Helper()
	select {
	case msg, ok := <-c.send:
		require.True(t, ok, "send channel closed while waiting for a message")
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a message")
		return nil
	}
}

func assertSilent(t *testing.T, c *Client) {
	t.Helper()
	select {
	case msg := <-c.send:
		t.Fatalf("unexpected message: %+v", msg)
	case <-time.After(100 * time.Millisecond):
	}
}

func join(t *testing.T, h *Hub, c *Client, roomID, password, label string) {
	t.Helper()
	h.Register(c)
	h.Dispatch(c, &models.Message{
		Type:      models.MessageTypeJoin,
		RoomID:    roomID,
		Password:  password,
		UserLabel: label,
	})
	msg := recv(t, c)
	require.Equal(t, models.MessageTypeJoinSuccess, msg.Type)
	require.Equal(t, roomID, msg.RoomID)
}

func TestJoinNotifiesOtherMembersOnly(t *testing.T) {
	h := startHub(t, 2)

	alice := newTestClient(h)
	bob := newTestClient(h)

	join(t, h, alice, "alpha", "hunter2", "alice")
	join(t, h, bob, "alpha", "hunter2", "bob")

	notice := recv(t, alice)
	assert.Equal(t, models.MessageTypeSystem, notice.Type)
	assert.Equal(t, "bob joined the room", notice.Text)

	// The joiner gets join_success only, no notice about itself.
	assertSilent(t, bob)
}

func TestJoinWrongPassword(t *testing.T) {
	h := startHub(t, 2)

	alice := newTestClient(h)
	bob := newTestClient(h)

	join(t, h, alice, "beta", "x", "alice")

	h.Register(bob)
	h.Dispatch(bob, &models.Message{Type: models.MessageTypeJoin, RoomID: "beta", Password: "y", UserLabel: "bob"})

	msg := recv(t, bob)
	assert.Equal(t, models.MessageTypeJoinError, msg.Type)
	assert.Equal(t, "Incorrect password", msg.Text)

	// The sitting member hears nothing about the failed attempt.
	assertSilent(t, alice)
}

func TestJoinRoomFull(t *testing.T) {
	h := startHub(t, 2)

	join(t, h, newTestClient(h), "alpha", "hunter2", "alice")
	bob := newTestClient(h)
	join(t, h, bob, "alpha", "hunter2", "bob")

	carol := newTestClient(h)
	h.Register(carol)
	h.Dispatch(carol, &models.Message{Type: models.MessageTypeJoin, RoomID: "alpha", Password: "hunter2", UserLabel: "carol"})

	msg := recv(t, carol)
	assert.Equal(t, models.MessageTypeJoinError, msg.Type)
	assert.Equal(t, "Room is full", msg.Text)
}

func TestEnvelopeForwardedVerbatimNeverEchoed(t *testing.T) {
	h := startHub(t, 3)

	alice := newTestClient(h)
	bob := newTestClient(h)
	carol := newTestClient(h)

	join(t, h, alice, "gamma", "pw", "alice")
	join(t, h, bob, "gamma", "pw", "bob")
	recv(t, alice) // bob joined
	join(t, h, carol, "gamma", "pw", "carol")
	recv(t, alice) // carol joined
	recv(t, bob)   // carol joined

	// The payload is opaque to the relay; these are not valid base64 on
	// purpose, and the hub must not care.
	h.Dispatch(alice, &models.Message{
		Type:   models.MessageTypeEncrypted,
		RoomID: "gamma",
		Nonce:  "??nonce??",
		Cipher: "??cipher??",
		Sender: "alice",
	})

	for _, peer := range []*Client{bob, carol} {
		msg := recv(t, peer)
		assert.Equal(t, models.MessageTypeEncrypted, msg.Type)
		assert.Equal(t, "??nonce??", msg.Nonce)
		assert.Equal(t, "??cipher??", msg.Cipher)
		assert.Equal(t, "alice", msg.Sender)
	}

	// No self-echo.
	assertSilent(t, alice)
}

func TestEnvelopeBeforeJoinRejected(t *testing.T) {
	h := startHub(t, 2)

	c := newTestClient(h)
	h.Register(c)
	h.Dispatch(c, &models.Message{
		Type:   models.MessageTypeEncrypted,
		Nonce:  "n",
		Cipher: "c",
		Sender: "early",
	})

	msg := recv(t, c)
	assert.Equal(t, models.MessageTypeJoinError, msg.Type)
	assert.Equal(t, reasonNotJoined, msg.Text)
}

func TestDisconnectNotifiesSurvivorsAndTearsDown(t *testing.T) {
	reg := registry.New(2)
	h := NewHub(reg)
	go h.Run()

	alice := newTestClient(h)
	bob := newTestClient(h)

	join(t, h, alice, "delta", "pw", "alice")
	join(t, h, bob, "delta", "pw", "bob")
	recv(t, alice) // bob joined

	h.Unregister(bob)

	notice := recv(t, alice)
	assert.Equal(t, models.MessageTypeSystem, notice.Type)
	assert.Equal(t, "bob left the room", notice.Text)

	h.Unregister(alice)

	require.Eventually(t, func() bool {
		return len(reg.List()) == 0
	}, 2*time.Second, 10*time.Millisecond, "room must vanish once empty")
}

func TestShutdownDisconnectsClients(t *testing.T) {
	h := startHub(t, 2)

	alice := newTestClient(h)
	bob := newTestClient(h)
	h.Register(alice)
	h.Register(bob)

	h.Shutdown()

	for _, c := range []*Client{alice, bob} {
		select {
		case _, ok := <-c.send:
			assert.False(t, ok, "send channel must be closed on shutdown")
		case <-time.After(2 * time.Second):
			t.Fatal("send channel not closed on shutdown")
		}
	}
}

func TestCrossRoomIsolation(t *testing.T) {
	h := startHub(t, 2)

	alice := newTestClient(h)
	bob := newTestClient(h)

	join(t, h, alice, "one", "pw", "alice")
	join(t, h, bob, "two", "pw", "bob")

	h.Dispatch(alice, &models.Message{
		Type:   models.MessageTypeEncrypted,
		Nonce:  "n",
		Cipher: "c",
		Sender: "alice",
	})

	assertSilent(t, bob)
}
