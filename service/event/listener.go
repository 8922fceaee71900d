package event

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"
)

// Listener consumes events on its own goroutine until stopped
type Listener[T any] struct {
	publisher *Publisher[T]
	handler   func(*Event[T])
	ctx       context.Context
	cancel    context.CancelFunc
	done      chan struct{}
	logger    logrus.FieldLogger
}

func NewListener[T any](publisher *Publisher[T], handler func(*Event[T]), logger logrus.FieldLogger) *Listener[T] {
	ctx, cancel := context.WithCancel(context.Background())
	return &Listener[T]{
		publisher: publisher,
		handler:   handler,
		ctx:       ctx,
		cancel:    cancel,
		done:      make(chan struct{}),
		logger:    logger,
	}
}

// Stop cancels consumption and waits for the consuming goroutine to return.
func (l *Listener[T]) Stop() {
	l.cancel()
	<-l.done
}

func (l *Listener[T]) Start() {
	go func() {
		defer close(l.done)
		for {
			event, err := l.publisher.Consume(l.ctx)
			if err != nil {
				if errors.Is(err, context.Canceled) {
					return
				}
				l.logger.WithError(err).Warn("failed to consume event")
				continue
			}
			if event != nil {
				l.handler(event)
			}
		}
	}()
}
