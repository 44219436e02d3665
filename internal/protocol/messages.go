// Package protocol defines the websocket payloads for the text chat channel.
package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
)

// MessageType identifies websocket payload variants.
type MessageType string

const (
	TypeClientMessage  MessageType = "client_message"
	TypeAssistantReply MessageType = "assistant_reply"
	TypeErrorEvent     MessageType = "error_event"
)

var ErrUnsupportedType = errors.New("unsupported message type")

type Envelope struct {
	Type MessageType `json:"type"`
}

// ClientMessage is an inbound chat message over the socket.
type ClientMessage struct {
	Type MessageType `json:"type"`
	Text string      `json:"text"`
}

// AssistantReply carries one completed reply back to the client.
type AssistantReply struct {
	Type    MessageType `json:"type"`
	TurnID  string      `json:"turn_id"`
	Text    string      `json:"text"`
	Cached  bool        `json:"cached,omitempty"`
	Refused bool        `json:"refused,omitempty"`
}

// ErrorEvent reports a failed request without closing the socket.
type ErrorEvent struct {
	Type      MessageType `json:"type"`
	Code      string      `json:"code"`
	Retryable bool        `json:"retryable"`
	Detail    string      `json:"detail,omitempty"`
}

// Error codes carried by ErrorEvent.
const (
	CodeRateLimited  = "rate_limited"
	CodeBadMessage   = "bad_message"
	CodeBrainFailure = "brain_failure"
	CodeInternal     = "internal"
)

// ParseClientMessage decodes and validates an inbound frame.
func ParseClientMessage(raw []byte) (ClientMessage, error) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return ClientMessage{}, fmt.Errorf("invalid envelope: %w", err)
	}

	switch env.Type {
	case TypeClientMessage:
		var msg ClientMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			return ClientMessage{}, err
		}
		if msg.Text == "" {
			return ClientMessage{}, errors.New("invalid client_message: empty text")
		}
		return msg, nil
	default:
		return ClientMessage{}, ErrUnsupportedType
	}
}
