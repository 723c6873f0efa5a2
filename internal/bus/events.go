package bus

import (
	"time"

	"github.com/google/uuid"
	"github.com/myslide/leavebot/internal/keyboard"
)

// InboundKind distinguishes free-text messages from button presses.
type InboundKind string

const (
	KindText   InboundKind = "text"
	KindButton InboundKind = "button"
)

// InboundMessage received from a channel
type InboundMessage struct {
	Channel   string
	SenderID  string
	ChatID    string
	Kind      InboundKind
	Content   string // message text for KindText
	Payload   string // encoded callback data for KindButton
	MessageID int    // message carrying the pressed keyboard, 0 for text
	Name      string // sender display name as reported by the transport
	Timestamp time.Time
	RequestID string
}

// OutboundMessage to send to a channel
type OutboundMessage struct {
	Channel   string
	ChatID    string
	Content   string
	Buttons   [][]keyboard.Button
	EditID    int // when non-zero, edit this message in place instead of sending
	RequestID string
}

// NewRequestID creates a request id for tracing.
func NewRequestID() string {
	return uuid.NewString()
}
