package kernelsim

import (
	"github.com/sirupsen/logrus"
	"github.com/viant/afs"
	"github.com/viant/kernelsim/kernel"
	"github.com/viant/kernelsim/model"
	"github.com/viant/kernelsim/progress"
	"github.com/viant/kernelsim/service/dao"
	"github.com/viant/kernelsim/service/event"
	"github.com/viant/kernelsim/tracing"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Option configures the kernelsim Service
type Option func(s *Service)

// WithConfig sets the engine configuration
func WithConfig(config *Config) Option {
	return func(s *Service) {
		s.config = config
	}
}

// WithLogger sets the operational logger
func WithLogger(logger logrus.FieldLogger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithReportDAO sets the report store, overriding Config.Report
func WithReportDAO(reportDAO dao.Service[string, model.Report]) Option {
	return func(s *Service) {
		s.reportDAO = reportDAO
	}
}

// WithFS sets the storage used for scenarios, logs and golden files
func WithFS(fs afs.Service) Option {
	return func(s *Service) {
		s.fs = fs
	}
}

// WithEventListener registers a listener receiving every kernel event of
// every run, asynchronously.
func WithEventListener(listener func(*event.Event[kernel.Event])) Option {
	return func(s *Service) {
		s.eventListener = listener
	}
}

// WithProgressListener registers a callback invoked on every process counter
// change.
func WithProgressListener(listener func(progress.Counters)) Option {
	return func(s *Service) {
		s.progressListener = listener
	}
}

// WithTracing exports spans to outputFile, or to stdout when it is empty.
// Only the first initialisation in a process takes effect.
func WithTracing(serviceName, serviceVersion, outputFile string) Option {
	return func(s *Service) {
		if err := tracing.Init(serviceName, serviceVersion, outputFile); err != nil {
			s.initErrors = append(s.initErrors, err)
		}
	}
}

// WithTracingExporter configures OpenTelemetry tracing using a custom SpanExporter.
func WithTracingExporter(serviceName, serviceVersion string, exporter sdktrace.SpanExporter) Option {
	return func(s *Service) {
		if err := tracing.InitWithExporter(serviceName, serviceVersion, exporter); err != nil {
			s.initErrors = append(s.initErrors, err)
		}
	}
}
