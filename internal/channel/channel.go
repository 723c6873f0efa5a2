// Package channel abstracts chat transports behind a common interface
// and routes outbound messages to them.
package channel

import (
	"context"
	"strings"

	"github.com/myslide/leavebot/internal/bus"
)

// Channel interface for chat platforms
type Channel interface {
	Name() string
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
	Send(ctx context.Context, msg *bus.OutboundMessage) error
	IsAllowed(senderID string) bool
}

// BaseChannel provides common functionality
type BaseChannel struct {
	Bus       *bus.MessageBus
	AllowList map[string]bool
}

// IsAllowed checks if sender is permitted. An empty allow-list permits
// everyone; the directory still decides what a sender can do.
func (b *BaseChannel) IsAllowed(senderID string) bool {
	if len(b.AllowList) == 0 {
		return true
	}
	for allowed := range b.AllowList {
		normalized := strings.TrimSpace(allowed)
		if normalized == senderID || strings.TrimPrefix(normalized, "@") == senderID {
			return true
		}
	}
	return false
}

// PublishInbound sends message to bus
func (b *BaseChannel) PublishInbound(msg *bus.InboundMessage) {
	b.Bus.PublishInbound(msg)
}
