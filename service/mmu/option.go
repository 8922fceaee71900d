package mmu

import "github.com/sirupsen/logrus"

// Option configures a memory manager
type Option func(s *Service)

// WithLogger sets the logger used for allocation tracing.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}
