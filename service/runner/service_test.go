package runner

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/kernelsim/model"
	"github.com/viant/kernelsim/progress"
	"github.com/viant/kernelsim/service/dao"
	"github.com/viant/kernelsim/service/dao/report/fs"
	"github.com/viant/kernelsim/service/simulator"
)

func quietLogger() logrus.FieldLogger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func testdataURL(t *testing.T, name string) string {
	t.Helper()
	location, err := filepath.Abs(filepath.Join("testdata", name))
	require.NoError(t, err)
	return location
}

func newRunner(t *testing.T, options ...Option) *Service {
	t.Helper()
	config := simulator.DefaultConfig()
	config.IdleLimit = 1000
	config.KernelLogs = false
	options = append([]Option{
		WithLogger(quietLogger()),
		WithSimulator(simulator.New(simulator.WithConfig(config), simulator.WithLogger(quietLogger()))),
	}, options...)
	srv, err := New(options...)
	require.NoError(t, err)
	t.Cleanup(srv.Shutdown)
	return srv
}

func TestService_Run(t *testing.T) {
	ctx := context.Background()
	outDir := t.TempDir()
	var mux sync.Mutex
	exited := map[string]int{}
	srv := newRunner(t, WithWorkers(3), WithProgressListener(func(p progress.Counters) {
		mux.Lock()
		defer mux.Unlock()
		exited[p.RunID] = p.ExitedProcesses
	}))

	reports, err := srv.Run(ctx,
		Job{ID: "fcfs", ScenarioURL: testdataURL(t, "fcfs.json"), LogURL: filepath.Join(outDir, "fcfs.log")},
		Job{ID: "rr", ScenarioURL: testdataURL(t, "rr.json")},
		Job{ID: "starvation", ScenarioURL: testdataURL(t, "starvation.yaml")},
		Job{ID: "broken", ScenarioURL: testdataURL(t, "broken.yaml")},
		Job{ID: "missing", ScenarioURL: testdataURL(t, "missing.json")},
	)
	require.NoError(t, err)
	require.Len(t, reports, 5)

	var testCases = []struct {
		id     string
		status string
		algo   string
	}{
		{id: "fcfs", status: model.StatusCompleted, algo: "FCFS"},
		{id: "rr", status: model.StatusCompleted, algo: "RR"},
		{id: "starvation", status: model.StatusFailed, algo: "FCFS"},
		{id: "broken", status: model.StatusFailed},
		{id: "missing", status: model.StatusFailed},
	}
	for i, testCase := range testCases {
		t.Run(testCase.id, func(t *testing.T) {
			report := reports[i]
			assert.Equal(t, testCase.id, report.ID)
			assert.Equal(t, testCase.status, report.Status)
			assert.Equal(t, testCase.algo, report.Algorithm)
			if testCase.status == model.StatusFailed {
				assert.NotEmpty(t, report.Error)
			}
		})
	}

	assert.Equal(t, 150, reports[0].VirtualTime)
	assert.Equal(t, 200, reports[1].VirtualTime)
	data, err := os.ReadFile(filepath.Join(outDir, "fcfs.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "0.150ms : Process 2 has finished execution and is exiting\n")

	mux.Lock()
	assert.Equal(t, 2, exited["fcfs"])
	assert.Equal(t, 2, exited["rr"])
	mux.Unlock()

	failed, err := srv.Reports(ctx, dao.NewParameter(dao.ParamStatus, model.StatusFailed))
	require.NoError(t, err)
	assert.Len(t, failed, 3)
}

func TestService_Run_FSReports(t *testing.T) {
	ctx := context.Background()
	reportDAO, err := fs.New(filepath.Join(t.TempDir(), "reports"), fs.WithLogger(quietLogger()))
	require.NoError(t, err)
	srv := newRunner(t, WithReportDAO(reportDAO), WithWorkers(1))

	reports, err := srv.Run(ctx, Job{ScenarioURL: testdataURL(t, "fcfs.json")})
	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.NotEmpty(t, reports[0].ID)

	stored, err := reportDAO.Load(ctx, reports[0].ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCompleted, stored.Status)
	assert.Len(t, stored.Processes, 2)
}

type failingDAO struct {
	dao.Service[string, model.Report]
}

func (f *failingDAO) Save(context.Context, *model.Report) error {
	return errors.New("disk full")
}

func TestService_Run_SaveFailure(t *testing.T) {
	srv := newRunner(t, WithReportDAO(&failingDAO{}))
	_, err := srv.Run(context.Background(), Job{ID: "a", ScenarioURL: testdataURL(t, "fcfs.json")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.Error(t, srv.Failure("a"))
}

func TestService_Submit(t *testing.T) {
	srv := newRunner(t)
	_, err := srv.Submit(context.Background(), Job{})
	assert.Error(t, err)

	id, err := srv.Submit(context.Background(), Job{ScenarioURL: testdataURL(t, "fcfs.json")})
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, srv.Wait(ctx), context.DeadlineExceeded)

	require.NoError(t, srv.Start(context.Background()))
	require.NoError(t, srv.Wait(context.Background()))
	assert.NoError(t, srv.Failure(id))
}

func TestNew(t *testing.T) {
	_, err := New(WithWorkers(0))
	assert.Error(t, err)
}
