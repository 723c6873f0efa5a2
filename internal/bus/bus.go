package bus

// MessageBus carries messages between channels and the conversation engine.
type MessageBus struct {
	inbound  chan *InboundMessage
	outbound chan *OutboundMessage
}

// NewMessageBus creates a bus with the given buffer size per direction.
func NewMessageBus(size int) *MessageBus {
	if size <= 0 {
		size = 1
	}
	return &MessageBus{
		inbound:  make(chan *InboundMessage, size),
		outbound: make(chan *OutboundMessage, size),
	}
}

// PublishInbound queues a message from a channel for the engine.
func (b *MessageBus) PublishInbound(msg *InboundMessage) {
	b.inbound <- msg
}

// PublishOutbound queues a message for delivery to a channel.
func (b *MessageBus) PublishOutbound(msg *OutboundMessage) {
	b.outbound <- msg
}

// Inbound returns the inbound message stream.
func (b *MessageBus) Inbound() <-chan *InboundMessage {
	return b.inbound
}

// Outbound returns the outbound message stream.
func (b *MessageBus) Outbound() <-chan *OutboundMessage {
	return b.outbound
}
