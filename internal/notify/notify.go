// Package notify delivers role-targeted notifications over the message bus.
package notify

import (
	"log/slog"

	"github.com/myslide/leavebot/internal/bus"
	"github.com/myslide/leavebot/internal/keyboard"
	"github.com/myslide/leavebot/internal/store"
)

// Dispatcher publishes outbound messages for a single channel.
type Dispatcher struct {
	bus     *bus.MessageBus
	channel string
	logger  *slog.Logger
}

func NewDispatcher(b *bus.MessageBus, channel string, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{bus: b, channel: channel, logger: logger}
}

// Send delivers one message to one chat.
func (d *Dispatcher) Send(chatID, content string, buttons [][]keyboard.Button) {
	d.bus.PublishOutbound(&bus.OutboundMessage{
		Channel:   d.channel,
		ChatID:    chatID,
		Content:   content,
		Buttons:   buttons,
		RequestID: bus.NewRequestID(),
	})
}

// Edit replaces the text (and keyboard) of an existing message in the chat.
func (d *Dispatcher) Edit(chatID string, messageID int, content string, buttons [][]keyboard.Button) {
	d.bus.PublishOutbound(&bus.OutboundMessage{
		Channel:   d.channel,
		ChatID:    chatID,
		Content:   content,
		Buttons:   buttons,
		EditID:    messageID,
		RequestID: bus.NewRequestID(),
	})
}

// FanOut sends the same message to every recipient. Each recipient is
// independent; one bad entry never blocks the rest.
func (d *Dispatcher) FanOut(recipients []store.User, content string, buttons [][]keyboard.Button) {
	for _, r := range recipients {
		if r.ID == "" {
			d.logger.Warn("skipping recipient without a chat id", "name", r.Name)
			continue
		}
		d.Send(r.ID, content, buttons)
		d.logger.Debug("notification queued", "recipient", r.ID, "role", r.Role)
	}
}
