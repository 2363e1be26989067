package websocket

import (
	"encoding/json"
	"time"
)

// Frame types exchanged with chat clients.
const (
	FrameRegisterSession     = "register_session"
	FrameSendMessage         = "send_message"
	FrameGetHistory          = "get_history"
	FrameReceiveMessage      = "receive_message"
	FrameConversationHistory = "conversation_history"
	FrameSystemNotification  = "system_notification"
	FrameError               = "error"
)

// Frame is the JSON envelope of every websocket message in both directions.
type Frame struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

type SystemNotification struct {
	Message   string    `json:"message"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
}

// EncodeFrame wraps data in a Frame and serializes it.
func EncodeFrame(frameType string, data any) ([]byte, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Frame{Type: frameType, Data: raw})
}

func DecodeFrame(raw []byte) (Frame, error) {
	var f Frame
	err := json.Unmarshal(raw, &f)
	return f, err
}
