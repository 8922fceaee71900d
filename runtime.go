package kernelsim

import (
	"bytes"
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/kernelsim/internal/idgen"
	"github.com/viant/kernelsim/model"
	"github.com/viant/kernelsim/progress"
	"github.com/viant/kernelsim/service/dao"
	"github.com/viant/kernelsim/service/dao/scenario"
	"github.com/viant/kernelsim/service/runner"
	"github.com/viant/kernelsim/service/simulator"
	"github.com/viant/kernelsim/service/verify"
	"github.com/viant/kernelsim/tracing"
)

// Runtime runs simulations and keeps their reports
type Runtime struct {
	fs         afs.Service
	loader     *scenario.Service
	simulator  *simulator.Service
	runner     *runner.Service
	reportDAO  dao.Service[string, model.Report]
	logger     logrus.FieldLogger
	onProgress func(progress.Counters)
}

// LoadScenario loads and validates a scenario
func (r *Runtime) LoadScenario(ctx context.Context, URL string) (*model.Scenario, error) {
	return r.loader.Load(ctx, URL)
}

// DecodeScenario decodes and validates a scenario document
func (r *Runtime) DecodeScenario(URL string, data []byte) (*model.Scenario, error) {
	return r.loader.Decode(URL, data)
}

// Run simulates the scenario at scenarioURL and stores its report. The log is
// written to logURL unless it is empty. The report is returned even when the
// simulation fails.
func (r *Runtime) Run(ctx context.Context, scenarioURL, logURL string) (*model.Report, error) {
	report, data, err := r.simulate(ctx, scenarioURL)
	if report == nil {
		return nil, err
	}
	if logURL != "" {
		report.LogURL = logURL
		if uErr := r.fs.Upload(ctx, logURL, file.DefaultFileOsMode, bytes.NewReader(data)); uErr != nil && err == nil {
			err = fmt.Errorf("failed to write simulation log %v: %w", logURL, uErr)
			report.Status = model.StatusFailed
			report.Error = err.Error()
		}
	}
	if sErr := r.reportDAO.Save(ctx, report); sErr != nil && err == nil {
		err = fmt.Errorf("failed to save report: %w", sErr)
	}
	return report, err
}

// Verify simulates the scenario and diffs its log against the golden log at
// expectedURL. The simulation error, if any, is returned alongside the diff
// of the partial log.
func (r *Runtime) Verify(ctx context.Context, scenarioURL, expectedURL string) (result *verify.Result, report *model.Report, err error) {
	ctx, span := tracing.StartSpan(ctx, "simulation.verify", tracing.KindInternal)
	defer func() { tracing.EndSpan(span, err) }()
	expected, err := r.fs.DownloadWithURL(ctx, expectedURL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load expected log %v: %w", expectedURL, err)
	}
	report, actual, simErr := r.simulate(ctx, scenarioURL)
	if report == nil {
		return nil, nil, simErr
	}
	if result, err = verify.Compare(expected, actual); err != nil {
		return nil, report, err
	}
	span.WithCounters(map[string]int{"verify.added": result.Added, "verify.removed": result.Removed})
	return result, report, simErr
}

// Batch simulates jobs concurrently on the runner workers.
func (r *Runtime) Batch(ctx context.Context, jobs ...runner.Job) ([]*model.Report, error) {
	ctx, span := tracing.StartSpan(ctx, "simulation.batch", tracing.KindInternal)
	reports, err := r.runner.Run(ctx, jobs...)
	tracing.EndSpan(span, err)
	return reports, err
}

// Report returns a stored report
func (r *Runtime) Report(ctx context.Context, id string) (*model.Report, error) {
	return r.reportDAO.Load(ctx, id)
}

// Reports lists stored reports
func (r *Runtime) Reports(ctx context.Context, parameters ...*dao.Parameter) ([]*model.Report, error) {
	return r.reportDAO.List(ctx, parameters...)
}

// simulate returns a nil report only when the scenario cannot be loaded.
func (r *Runtime) simulate(ctx context.Context, scenarioURL string) (*model.Report, []byte, error) {
	aScenario, err := r.loader.Load(ctx, scenarioURL)
	if err != nil {
		return nil, nil, err
	}
	ctx, _ = progress.WithNewTracker(ctx, idgen.New(), scenarioURL, len(aScenario.Processes), r.onProgress)
	var buffer bytes.Buffer
	report, err := r.simulator.Run(ctx, aScenario, &buffer)
	return report, buffer.Bytes(), err
}
