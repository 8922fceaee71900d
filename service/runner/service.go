package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/kernelsim/internal/clock"
	"github.com/viant/kernelsim/internal/idgen"
	"github.com/viant/kernelsim/model"
	"github.com/viant/kernelsim/progress"
	"github.com/viant/kernelsim/service/dao"
	reportmemory "github.com/viant/kernelsim/service/dao/report/memory"
	"github.com/viant/kernelsim/service/dao/scenario"
	"github.com/viant/kernelsim/service/messaging"
	"github.com/viant/kernelsim/service/messaging/memory"
	"github.com/viant/kernelsim/service/simulator"
	"github.com/viant/kernelsim/tracing"
)

// Config represents runner configuration
type Config struct {
	// WorkerCount is the number of concurrent simulations
	WorkerCount int `json:"workers" yaml:"workers"`

	// QueueBuffer is the capacity of the default job queue
	QueueBuffer int `json:"queueBuffer" yaml:"queueBuffer"`
}

// DefaultConfig returns the default runner configuration
func DefaultConfig() Config {
	return Config{
		WorkerCount: 4,
		QueueBuffer: 100,
	}
}

// Validate checks the configuration
func (c Config) Validate() error {
	if c.WorkerCount <= 0 {
		return fmt.Errorf("runner.workers must be > 0")
	}
	if c.QueueBuffer <= 0 {
		return fmt.Errorf("runner.queueBuffer must be > 0")
	}
	return nil
}

// Service runs simulation jobs on a pool of workers
type Service struct {
	config     Config
	queue      messaging.Queue[Job]
	reportDAO  dao.Service[string, model.Report]
	loader     *scenario.Service
	simulator  *simulator.Service
	fs         afs.Service
	logger     logrus.FieldLogger
	onProgress func(progress.Counters)

	workers  []*worker
	workerWg sync.WaitGroup
	startMu  sync.Mutex

	pendingMu sync.Mutex
	pending   map[string]bool
	failures  map[string]error
	drained   *sync.Cond
}

type worker struct {
	id       int
	service  *Service
	ctx      context.Context
	cancelFn context.CancelFunc
}

// New creates a runner; every collaborator left unset gets its in-memory
// default.
func New(options ...Option) (*Service, error) {
	s := &Service{
		config:   DefaultConfig(),
		logger:   logrus.StandardLogger(),
		pending:  make(map[string]bool),
		failures: make(map[string]error),
	}
	s.drained = sync.NewCond(&s.pendingMu)
	for _, opt := range options {
		opt(s)
	}
	if err := s.config.Validate(); err != nil {
		return nil, err
	}
	if s.queue == nil {
		queueConfig := memory.DefaultConfig()
		queueConfig.MaxRetries = 0
		queueConfig.QueueBuffer = s.config.QueueBuffer
		s.queue = memory.NewQueue[Job](queueConfig)
	}
	if s.reportDAO == nil {
		s.reportDAO = reportmemory.New()
	}
	if s.loader == nil {
		s.loader = scenario.New()
	}
	if s.simulator == nil {
		s.simulator = simulator.New(simulator.WithLogger(s.logger))
	}
	if s.fs == nil {
		s.fs = afs.New()
	}
	return s, nil
}

// Start launches the workers. Calling Start on a started runner is a no-op.
func (s *Service) Start(ctx context.Context) error {
	s.startMu.Lock()
	defer s.startMu.Unlock()
	if len(s.workers) > 0 {
		return nil
	}
	for i := 0; i < s.config.WorkerCount; i++ {
		workerCtx, cancel := context.WithCancel(ctx)
		w := &worker{
			id:       i,
			service:  s,
			ctx:      workerCtx,
			cancelFn: cancel,
		}
		s.workers = append(s.workers, w)
		s.workerWg.Add(1)
		go w.run()
	}
	return nil
}

// run processes messages from the queue
func (w *worker) run() {
	defer w.service.workerWg.Done()
	logger := w.service.logger.WithField("worker", w.id)
	for {
		msg, err := w.service.queue.Consume(w.ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || w.ctx.Err() != nil {
				return
			}
			logger.WithError(err).Warn("failed to consume job")
			time.Sleep(100 * time.Millisecond)
			continue
		}
		if msg == nil {
			continue
		}
		if pErr := w.service.processMessage(w.ctx, msg); pErr != nil {
			logger.WithError(pErr).Warn("failed to process job")
		}
	}
}

// Submit enqueues a job and returns its id
func (s *Service) Submit(ctx context.Context, job Job) (id string, err error) {
	ctx, span := tracing.StartSpan(ctx, "runner.submit", tracing.KindProducer)
	defer func() { tracing.EndSpan(span, err) }()
	if job.ScenarioURL == "" {
		return "", fmt.Errorf("job scenario URL cannot be empty")
	}
	if job.ID == "" {
		job.ID = idgen.New()
	}
	span.WithAttributes(map[string]string{"job.id": job.ID, "job.scenario": job.ScenarioURL})

	s.pendingMu.Lock()
	s.pending[job.ID] = true
	s.pendingMu.Unlock()
	if err = s.queue.Publish(ctx, &job); err != nil {
		s.finish(job.ID, nil)
		return "", fmt.Errorf("failed to publish job: %w", err)
	}
	return job.ID, nil
}

// Wait blocks until every submitted job has been processed or ctx is done.
func (s *Service) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.pendingMu.Lock()
		for len(s.pending) > 0 && ctx.Err() == nil {
			s.drained.Wait()
		}
		s.pendingMu.Unlock()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		s.pendingMu.Lock()
		s.drained.Broadcast()
		s.pendingMu.Unlock()
		<-done
		return ctx.Err()
	}
}

// Run simulates every job and returns their reports in job order. A failed
// simulation yields a failed report, not an error.
func (s *Service) Run(ctx context.Context, jobs ...Job) ([]*model.Report, error) {
	if err := s.Start(ctx); err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(jobs))
	for _, job := range jobs {
		id, err := s.Submit(ctx, job)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := s.Wait(ctx); err != nil {
		return nil, err
	}
	ret := make([]*model.Report, 0, len(ids))
	for _, id := range ids {
		if err := s.Failure(id); err != nil {
			return nil, err
		}
		report, err := s.reportDAO.Load(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("failed to load report %s: %w", id, err)
		}
		ret = append(ret, report)
	}
	return ret, nil
}

// Failure returns the infrastructure error that prevented storing the report
// of job id, if any.
func (s *Service) Failure(id string) error {
	s.pendingMu.Lock()
	defer s.pendingMu.Unlock()
	return s.failures[id]
}

// Reports lists stored reports
func (s *Service) Reports(ctx context.Context, parameters ...*dao.Parameter) ([]*model.Report, error) {
	return s.reportDAO.List(ctx, parameters...)
}

func (s *Service) finish(id string, err error) {
	s.pendingMu.Lock()
	defer s.pendingMu.Unlock()
	if !s.pending[id] {
		return
	}
	delete(s.pending, id)
	if err != nil {
		s.failures[id] = err
	}
	s.drained.Broadcast()
}

// processMessage runs a single job. The report records simulation failures;
// only a report that cannot be stored nacks the message.
func (s *Service) processMessage(ctx context.Context, message messaging.Message[Job]) (err error) {
	job := message.T()
	ctx, span := tracing.StartSpan(ctx, "runner.job", tracing.KindConsumer)
	span.WithAttributes(map[string]string{"job.id": job.ID, "job.scenario": job.ScenarioURL})
	defer func() { tracing.EndSpan(span, err) }()

	report := s.simulate(ctx, job)
	if err = s.reportDAO.Save(ctx, report); err != nil {
		err = fmt.Errorf("failed to save report %s: %w", job.ID, err)
		s.finish(job.ID, err)
		if nErr := message.Nack(err); nErr != nil {
			return fmt.Errorf("%w, nack: %v", err, nErr)
		}
		return err
	}
	s.finish(job.ID, nil)
	return message.Ack()
}

func (s *Service) simulate(ctx context.Context, job *Job) *model.Report {
	logger := s.logger.WithFields(logrus.Fields{"job": job.ID, "scenario": job.ScenarioURL})
	aScenario, err := s.loader.Load(ctx, job.ScenarioURL)
	if err != nil {
		logger.WithError(err).Warn("failed to load scenario")
		return failedReport(job, err)
	}
	ctx, _ = progress.WithNewTracker(ctx, job.ID, job.ScenarioURL, len(aScenario.Processes), s.onProgress)
	var buffer bytes.Buffer
	report, err := s.simulator.Run(ctx, aScenario, &buffer)
	report.ID = job.ID
	report.LogURL = job.LogURL
	if job.LogURL != "" {
		if uErr := s.fs.Upload(ctx, job.LogURL, file.DefaultFileOsMode, &buffer); uErr != nil && err == nil {
			err = fmt.Errorf("failed to write simulation log %s: %w", job.LogURL, uErr)
			report.Status = model.StatusFailed
			report.Error = err.Error()
		}
	}
	if err != nil {
		logger.WithError(err).Warn("simulation failed")
	}
	return report
}

func failedReport(job *Job, err error) *model.Report {
	now := clock.Now()
	return &model.Report{
		ID:          job.ID,
		ScenarioURL: job.ScenarioURL,
		LogURL:      job.LogURL,
		Status:      model.StatusFailed,
		Error:       err.Error(),
		StartedAt:   now,
		CompletedAt: &now,
	}
}

// Shutdown stops the workers
func (s *Service) Shutdown() {
	s.startMu.Lock()
	defer s.startMu.Unlock()
	for _, w := range s.workers {
		w.cancelFn()
	}
	s.workerWg.Wait()
	s.workers = nil
}
