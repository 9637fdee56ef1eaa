package bus

import (
	"context"

	"github.com/curalink/curalink-backend/internal/realtime"
)

// Bus fans notification events out across server instances. The single-node
// noop bus delivers straight to the local hub.
type Bus interface {
	Publish(ctx context.Context, msg realtime.Message) error
	StartForwarder(ctx context.Context, onMsg func(m realtime.Message)) error
	Close() error
}

type noopBus struct {
	onMsg func(m realtime.Message)
}

func NewNoopBus() Bus { return &noopBus{} }

func (b *noopBus) Publish(_ context.Context, msg realtime.Message) error {
	if b.onMsg != nil {
		b.onMsg(msg)
	}
	return nil
}

func (b *noopBus) StartForwarder(_ context.Context, onMsg func(m realtime.Message)) error {
	b.onMsg = onMsg
	return nil
}

func (b *noopBus) Close() error { return nil }
