package server

import (
	"encoding/json"
	"time"
)

// Message is the wire protocol envelope for all WebSocket communication.
// Seq orders events within one hub; it is unrelated to entity numbers.
type Message struct {
	Type    string          `json:"type"`
	Seq     int64           `json:"seq"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Message types
const (
	MsgApplicationCreate = "application.create"
	MsgChatCreate        = "chat.create"
	MsgMessageCreate     = "message.create"
	MsgPing              = "ping"
	MsgPong              = "pong"
)

// Payload types for typed access

type ApplicationEventPayload struct {
	Token string `json:"token"`
	Name  string `json:"name"`
}

type ChatEventPayload struct {
	ApplicationToken string    `json:"application_token"`
	Number           int64     `json:"number"`
	CreatedAt        time.Time `json:"created_at"`
}

type MessageEventPayload struct {
	ApplicationToken string    `json:"application_token"`
	ChatNumber       int64     `json:"chat_number"`
	Number           int64     `json:"number"`
	Body             string    `json:"body"`
	CreatedAt        time.Time `json:"created_at"`
}

func NewMessage(msgType string, payload interface{}) (Message, error) {
	var raw json.RawMessage
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return Message{}, err
		}
		raw = data
	}
	return Message{
		Type:    msgType,
		Payload: raw,
	}, nil
}
