package handlers

import (
	"net/http"

	"github.com/gorilla/websocket"

	"cipherchat/internal/relay"
	"cipherchat/pkg/logger"
)

type WebSocketHandlers struct {
	hub      *relay.Hub
	upgrader websocket.Upgrader
}

func NewWebSocketHandlers(hub *relay.Hub) *WebSocketHandlers {
	return &WebSocketHandlers{
		hub: hub,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true }, // Configure for production
		},
	}
}

// HandleWebSocket upgrades the connection and hands it to the relay hub. No
// room is joined yet; the client sends a join message over the socket.
func (h *WebSocketHandlers) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Error("Upgrade error: %v", err)
		return
	}

	client := relay.NewClient(h.hub, conn)
	h.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()
}
