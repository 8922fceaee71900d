package scenario

import "github.com/viant/afs"

type Option func(*Service)

// WithFS sets the storage service used to read scenarios
func WithFS(fs afs.Service) Option {
	return func(s *Service) {
		s.fs = fs
	}
}

// WithConfig sets the defaults applied to omitted keys
func WithConfig(config Config) Option {
	return func(s *Service) {
		s.config = config
	}
}
