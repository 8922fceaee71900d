package simulator

import (
	"github.com/sirupsen/logrus"
	"github.com/viant/kernelsim/kernel"
	"github.com/viant/kernelsim/service/event"
)

// Option configures the simulator Service
type Option func(s *Service)

// WithConfig sets the driver configuration
func WithConfig(config Config) Option {
	return func(s *Service) {
		s.config = config
	}
}

// WithKernelConfig sets the scheduler timing constants
func WithKernelConfig(config kernel.Config) Option {
	return func(s *Service) {
		s.kernelConfig = config
	}
}

// WithLogger sets the operational logger
func WithLogger(logger logrus.FieldLogger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithEventService publishes every kernel event to the event service.
func WithEventService(events *event.Service) Option {
	return func(s *Service) {
		s.events = events
	}
}

// WithKernelListener registers listeners invoked synchronously on every
// kernel event of every run.
func WithKernelListener(listeners ...kernel.Listener) Option {
	return func(s *Service) {
		s.listeners = append(s.listeners, listeners...)
	}
}
