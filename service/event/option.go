package event

import (
	"github.com/sirupsen/logrus"
	"github.com/viant/kernelsim/service/messaging/memory"
)

type Option func(s *Service)

// WithNewMemoryQueueConfig sets the memory queue configuration factory
func WithNewMemoryQueueConfig(newConfig func(name string) memory.Config) Option {
	return func(s *Service) {
		s.newQueueConfig = newConfig
	}
}

// WithLogger sets the logger used by listeners
func WithLogger(logger logrus.FieldLogger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}
