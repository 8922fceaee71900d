package event

import (
	"context"

	"github.com/viant/kernelsim/internal/clock"
	"github.com/viant/kernelsim/service/messaging"
)

type Publisher[T any] struct {
	queue messaging.Queue[Event[T]]
	// mirror returns the untyped stream while someone listens to it
	mirror func() messaging.Queue[Event[any]]
}

func NewPublisher[T any](queue messaging.Queue[Event[T]]) *Publisher[T] {
	return &Publisher[T]{
		queue: queue,
	}
}

// Publish enqueues the event and mirrors it onto the untyped stream, if any.
func (p *Publisher[T]) Publish(ctx context.Context, event *Event[T]) error {
	if event.CreatedAt.IsZero() {
		event.CreatedAt = clock.Now()
	}
	if anyQueue := p.mirrorQueue(); anyQueue != nil {
		if err := anyQueue.Publish(ctx, &Event[any]{
			Context:   event.Context,
			CreatedAt: event.CreatedAt,
			Metadata:  event.Metadata,
			Data:      event.Data,
		}); err != nil {
			return err
		}
	}
	return p.queue.Publish(ctx, event)
}

func (p *Publisher[T]) mirrorQueue() messaging.Queue[Event[any]] {
	if p.mirror == nil {
		return nil
	}
	return p.mirror()
}

func (p *Publisher[T]) Consume(ctx context.Context) (*Event[T], error) {
	msg, err := p.queue.Consume(ctx)
	if err != nil || msg == nil {
		return nil, err
	}
	if err = msg.Ack(); err != nil {
		return nil, err
	}
	return msg.T(), nil
}
