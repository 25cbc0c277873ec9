package models

type MessageType string

const (
	MessageTypeJoin        MessageType = "join"
	MessageTypeJoinSuccess MessageType = "join_success"
	MessageTypeJoinError   MessageType = "join_error"
	MessageTypeSystem      MessageType = "system_message"
	MessageTypeEncrypted   MessageType = "encrypted_message"
)

// Message is the single JSON envelope exchanged over the websocket, in both
// directions. Which fields are set depends on Type. Nonce and Cipher are
// base64; the relay never looks inside them.
type Message struct {
	Type      MessageType `json:"type"`
	RoomID    string      `json:"roomId,omitempty"`
	Password  string      `json:"password,omitempty"`
	UserLabel string      `json:"userLabel,omitempty"`
	Nonce     string      `json:"nonce,omitempty"`
	Cipher    string      `json:"cipher,omitempty"`
	Sender    string      `json:"sender,omitempty"`
	Text      string      `json:"message,omitempty"`
}
