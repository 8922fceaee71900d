package kernelsim

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/viant/afs"
	"github.com/viant/kernelsim/kernel"
	"github.com/viant/kernelsim/model"
	"github.com/viant/kernelsim/progress"
	"github.com/viant/kernelsim/service/dao"
	reportfs "github.com/viant/kernelsim/service/dao/report/fs"
	reportmemory "github.com/viant/kernelsim/service/dao/report/memory"
	"github.com/viant/kernelsim/service/dao/scenario"
	"github.com/viant/kernelsim/service/event"
	"github.com/viant/kernelsim/service/runner"
	"github.com/viant/kernelsim/service/simulator"
)

// Service wires the simulator stack from a Config.
type Service struct {
	config           *Config
	logger           logrus.FieldLogger
	fs               afs.Service
	reportDAO        dao.Service[string, model.Report]
	eventListener    func(*event.Event[kernel.Event])
	progressListener func(progress.Counters)
	events           *event.Service
	runtime          *Runtime
	initErrors       []error
}

func (s *Service) init(options []Option) error {
	for _, option := range options {
		option(s)
	}
	if len(s.initErrors) > 0 {
		return errors.Join(s.initErrors...)
	}
	if s.config == nil {
		s.config = DefaultConfig()
	}
	if err := s.config.Validate(); err != nil {
		return err
	}
	if err := s.ensureBaseSetup(); err != nil {
		return err
	}

	var simulatorOptions = []simulator.Option{
		simulator.WithConfig(s.config.Simulator),
		simulator.WithKernelConfig(s.config.Kernel),
		simulator.WithLogger(s.logger),
	}
	if s.eventListener != nil {
		s.events = event.New(event.WithLogger(s.logger))
		event.SetListenerOf[kernel.Event](s.events, s.eventListener)
		simulatorOptions = append(simulatorOptions, simulator.WithEventService(s.events))
	}
	s.runtime.simulator = simulator.New(simulatorOptions...)
	s.runtime.loader = scenario.New(scenario.WithFS(s.fs), scenario.WithConfig(s.config.Scenario))
	s.runtime.fs = s.fs
	s.runtime.reportDAO = s.reportDAO
	s.runtime.logger = s.logger
	s.runtime.onProgress = s.progressListener

	var err error
	s.runtime.runner, err = runner.New(
		runner.WithConfig(s.config.Runner),
		runner.WithReportDAO(s.reportDAO),
		runner.WithScenarioLoader(s.runtime.loader),
		runner.WithSimulator(s.runtime.simulator),
		runner.WithFS(s.fs),
		runner.WithLogger(s.logger),
		runner.WithProgressListener(s.progressListener),
	)
	return err
}

func (s *Service) ensureBaseSetup() error {
	if s.logger == nil {
		s.logger = logrus.StandardLogger()
	}
	if s.fs == nil {
		s.fs = afs.New()
	}
	if s.reportDAO != nil {
		return nil
	}
	if s.config.Report.URL == "" {
		s.reportDAO = reportmemory.New()
		return nil
	}
	var err error
	if s.reportDAO, err = reportfs.New(s.config.Report.URL, reportfs.WithLogger(s.logger)); err != nil {
		return fmt.Errorf("failed to create report store: %w", err)
	}
	return nil
}

// Config returns the effective configuration
func (s *Service) Config() *Config {
	return s.config
}

// Runtime returns the simulation runtime
func (s *Service) Runtime() *Runtime {
	return s.runtime
}

// Close stops the batch workers and the event listener.
func (s *Service) Close() {
	s.runtime.runner.Shutdown()
	if s.events != nil {
		s.events.Close()
	}
}

// New creates a service; without WithConfig the defaults apply.
func New(options ...Option) (*Service, error) {
	ret := &Service{config: DefaultConfig(), runtime: &Runtime{}}
	if err := ret.init(options); err != nil {
		return nil, err
	}
	return ret, nil
}
