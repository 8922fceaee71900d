package runner

import (
	"github.com/sirupsen/logrus"
	"github.com/viant/afs"
	"github.com/viant/kernelsim/model"
	"github.com/viant/kernelsim/progress"
	"github.com/viant/kernelsim/service/dao"
	"github.com/viant/kernelsim/service/dao/scenario"
	"github.com/viant/kernelsim/service/messaging"
	"github.com/viant/kernelsim/service/simulator"
)

// Option configures the runner Service
type Option func(*Service)

// WithConfig sets the configuration for the service
func WithConfig(config Config) Option {
	return func(s *Service) {
		s.config = config
	}
}

// WithWorkers sets the number of worker goroutines
func WithWorkers(count int) Option {
	return func(s *Service) {
		s.config.WorkerCount = count
	}
}

// WithMessageQueue sets the job queue implementation
func WithMessageQueue(queue messaging.Queue[Job]) Option {
	return func(s *Service) {
		s.queue = queue
	}
}

// WithReportDAO sets the report store implementation
func WithReportDAO(reportDAO dao.Service[string, model.Report]) Option {
	return func(s *Service) {
		s.reportDAO = reportDAO
	}
}

// WithScenarioLoader sets the scenario loader
func WithScenarioLoader(loader *scenario.Service) Option {
	return func(s *Service) {
		s.loader = loader
	}
}

// WithSimulator sets the simulator running every job
func WithSimulator(simulator *simulator.Service) Option {
	return func(s *Service) {
		s.simulator = simulator
	}
}

// WithFS sets the storage used to write simulation logs
func WithFS(fs afs.Service) Option {
	return func(s *Service) {
		s.fs = fs
	}
}

// WithLogger sets the operational logger
func WithLogger(logger logrus.FieldLogger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithProgressListener registers a callback invoked on every counter change
// of every job.
func WithProgressListener(listener func(progress.Counters)) Option {
	return func(s *Service) {
		s.onProgress = listener
	}
}
