package simulator

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/sirupsen/logrus"
	"github.com/viant/kernelsim/internal/clock"
	"github.com/viant/kernelsim/internal/idgen"
	"github.com/viant/kernelsim/kernel"
	"github.com/viant/kernelsim/model"
	"github.com/viant/kernelsim/progress"
	"github.com/viant/kernelsim/service/event"
	"github.com/viant/kernelsim/service/mmu"
	"github.com/viant/kernelsim/tracing"
)

// Service drives simulations. It is stateless between runs and safe for
// concurrent use; every run owns its kernel and MMU.
type Service struct {
	config       Config
	kernelConfig kernel.Config
	logger       logrus.FieldLogger
	events       *event.Service
	listeners    []kernel.Listener
}

// Config returns the driver configuration
func (s *Service) Config() Config {
	return s.config
}

// Run simulates scenario, writing the simulation log to w. The returned report
// is never nil; on failure it carries the failed status and the error.
func (s *Service) Run(ctx context.Context, scenario *model.Scenario, w io.Writer) (report *model.Report, err error) {
	report = &model.Report{Status: model.StatusRunning, StartedAt: clock.Now()}
	if scenario.Source != nil {
		report.ScenarioURL = scenario.Source.URL
	}
	report.ID = idgen.New()
	if tracker, ok := progress.FromContext(ctx); ok && tracker.RunID != "" {
		report.ID = tracker.RunID
	}
	report.Algorithm = scenario.Algorithm

	ctx, span := tracing.StartSpan(ctx, "simulation.run", tracing.KindInternal)
	span.WithAttributes(map[string]string{
		"run.id":               report.ID,
		"simulation.algorithm": scenario.Algorithm,
		"simulation.scenario":  report.ScenarioURL,
		"simulation.processes": strconv.Itoa(len(scenario.Processes)),
	})
	defer func() {
		completed := clock.Now()
		report.CompletedAt = &completed
		report.Status = model.StatusCompleted
		if err != nil {
			report.Status = model.StatusFailed
			report.Error = err.Error()
		}
		span.WithCounters(map[string]int{
			"simulation.virtual_time":     report.VirtualTime,
			"simulation.context_switches": report.ContextSwitches,
			"simulation.timer_interrupts": report.TimerInterrupts,
			"simulation.dropped":          report.Dropped,
			"simulation.trapped":          report.Trapped,
		})
		tracing.EndSpan(span, err)
	}()

	if err = s.config.Validate(); err != nil {
		return report, err
	}
	if errs := scenario.Validate(); len(errs) > 0 {
		return report, fmt.Errorf("%w: %v", ErrInvalidScenario, errs[0])
	}
	sim, err := s.newSimulation(ctx, scenario, report, w, span)
	if err != nil {
		return report, err
	}
	err = sim.run()
	if flushErr := sim.log.flush(); err == nil && flushErr != nil {
		err = fmt.Errorf("failed to write simulation log: %w", flushErr)
	}
	logger := s.logger.WithFields(logrus.Fields{"run": report.ID, "algorithm": report.Algorithm, "virtualTime": report.VirtualTime})
	if err != nil {
		logger.WithError(err).Warn("simulation failed")
	} else {
		logger.Debug("simulation completed")
	}
	return report, err
}

func (s *Service) newSimulation(ctx context.Context, scenario *model.Scenario, report *model.Report, w io.Writer, span *tracing.Span) (*simulation, error) {
	algorithm, err := kernel.ParseAlgorithm(scenario.Algorithm)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidScenario, err)
	}
	memorySizeMB := scenario.MemorySizeMB
	if memorySizeMB <= 0 {
		memorySizeMB = s.config.DefaultMemorySizeMB
	}
	sim := &simulation{
		ctx:        ctx,
		config:     s.config,
		report:     report,
		span:       span,
		clock:      &clock.Virtual{},
		processes:  make(map[kernel.PID]*process),
		semaphores: make(map[int]*syncState),
		mutexes:    make(map[int]*syncState),
		nextPID:    1,
		interval:   s.kernelConfig.TickInterval,
	}
	sim.log = newLogWriter(w, sim.clock)
	sim.mmu = mmu.New(memorySizeMB*mmu.MB, mmu.WithLogger(s.logger))
	if s.events != nil {
		sim.publisher = event.PublisherOf[kernel.Event](s.events)
	}
	for _, semaphore := range scenario.Semaphores {
		sim.semaphores[semaphore.ID] = &syncState{value: semaphore.InitVal}
	}
	for _, id := range scenario.Mutexes {
		sim.mutexes[id] = &syncState{value: 1}
	}
	sim.arrivals = append(sim.arrivals, scenario.Processes...)
	sort.SliceStable(sim.arrivals, func(i, j int) bool {
		return sim.arrivals[i].Arrival < sim.arrivals[j].Arrival
	})
	listeners := append([]kernel.Listener{sim.onKernelEvent}, s.listeners...)
	sim.kernel, err = kernel.New(algorithm,
		kernel.WithConfig(s.kernelConfig),
		kernel.WithMMU(sim.mmu),
		kernel.WithListener(listeners...),
		kernel.WithLogger(s.logger.WithField("run", report.ID)),
	)
	if err != nil {
		return nil, err
	}
	return sim, nil
}

// New creates a simulator service
func New(options ...Option) *Service {
	ret := &Service{
		config:       DefaultConfig(),
		kernelConfig: kernel.DefaultConfig(),
		logger:       logrus.StandardLogger(),
	}
	for _, opt := range options {
		opt(ret)
	}
	return ret
}
