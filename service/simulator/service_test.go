package simulator

import (
	"bytes"
	"context"
	"io"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/kernelsim/kernel"
	"github.com/viant/kernelsim/model"
	"github.com/viant/kernelsim/progress"
	"github.com/viant/kernelsim/service/dao/scenario"
	"github.com/viant/kernelsim/service/event"
)

func quietLogger() logrus.FieldLogger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func loadScenario(t *testing.T, name string) *model.Scenario {
	t.Helper()
	location, err := filepath.Abs(filepath.Join("testdata", name))
	require.NoError(t, err)
	ret, err := scenario.New().Load(context.Background(), location)
	require.NoError(t, err)
	return ret
}

func driverOnly() Config {
	config := DefaultConfig()
	config.KernelLogs = false
	return config
}

func lines(items ...string) string {
	return strings.Join(items, "\n") + "\n"
}

func TestService_Run(t *testing.T) {
	var testCases = []struct {
		description string
		scenario    string
		expectLog   string
		expect      func(t *testing.T, report *model.Report)
	}{
		{
			description: "fcfs runs to completion in arrival order",
			scenario:    "fcfs.json",
			expectLog: lines(
				"0.000ms : Foreground process 1 arrived with priority 32 requesting 10.0MB of memory",
				"0.000ms : Context switching to pid: 1",
				"",
				"0.005ms : Foreground process 2 arrived with priority 32 requesting 10.0MB of memory",
				"",
				"0.100ms : Process 1 has finished execution and is exiting",
				"0.100ms : Context switching to pid: 2",
				"",
				"0.150ms : Process 2 has finished execution and is exiting",
				"0.150ms : Context switching to pid: 0",
				"",
			),
			expect: func(t *testing.T, report *model.Report) {
				assert.Equal(t, 150, report.VirtualTime)
				assert.Equal(t, 3, report.ContextSwitches)
				assert.Equal(t, 15, report.TimerInterrupts)
				assert.Equal(t, 0, report.IdleTime)
				assert.Equal(t, []*model.ProcessStats{
					{PID: 1, Type: "Foreground", Priority: 32, Memory: 10, Arrival: 0, FirstRun: 0, Finish: 100, CPUTime: 100, WaitTime: 0, Turnaround: 100, Status: model.ProcessFinished},
					{PID: 2, Type: "Foreground", Priority: 32, Memory: 10, Arrival: 5, FirstRun: 100, Finish: 150, CPUTime: 50, WaitTime: 95, Turnaround: 145, Status: model.ProcessFinished},
				}, report.Processes)
			},
		},
		{
			description: "round robin alternates every quantum",
			scenario:    "rr.json",
			expectLog: lines(
				"0.000ms : Foreground process 1 arrived with priority 32 requesting 10.0MB of memory",
				"0.000ms : Context switching to pid: 1",
				"0.000ms : Foreground process 2 arrived with priority 32 requesting 10.0MB of memory",
				"",
				"0.040ms : Context switching to pid: 2",
				"",
				"0.080ms : Context switching to pid: 1",
				"",
				"0.120ms : Context switching to pid: 2",
				"",
				"0.160ms : Context switching to pid: 1",
				"",
				"0.180ms : Process 1 has finished execution and is exiting",
				"0.180ms : Context switching to pid: 2",
				"",
				"0.200ms : Process 2 has finished execution and is exiting",
				"0.200ms : Context switching to pid: 0",
				"",
			),
			expect: func(t *testing.T, report *model.Report) {
				assert.Equal(t, 7, report.ContextSwitches)
				assert.Equal(t, 40, report.Lookup(2).FirstRun)
				assert.Equal(t, 180, report.Lookup(1).Finish)
				assert.Equal(t, 80, report.Lookup(1).WaitTime)
			},
		},
		{
			description: "priority arrival preempts immediately",
			scenario:    "priority.json",
			expectLog: lines(
				"0.000ms : Foreground process 1 arrived with priority 5 requesting 10.0MB of memory",
				"0.000ms : Context switching to pid: 1",
				"",
				"0.030ms : Foreground process 2 arrived with priority 1 requesting 10.0MB of memory",
				"0.030ms : Context switching to pid: 2",
				"",
				"0.050ms : Process 2 has finished execution and is exiting",
				"0.050ms : Context switching to pid: 1",
				"",
				"0.120ms : Process 1 has finished execution and is exiting",
				"0.120ms : Context switching to pid: 0",
				"",
			),
			expect: func(t *testing.T, report *model.Report) {
				assert.Equal(t, 20, report.Lookup(1).WaitTime)
				assert.Equal(t, 0, report.Lookup(2).WaitTime)
			},
		},
		{
			description: "in-process events",
			scenario:    "sync.yaml",
			expectLog: lines(
				"0.000ms : Background process 1 arrived with priority 5 requesting 4.0MB of memory",
				"0.000ms : Context switching to pid: 1",
				"",
				"0.010ms : Process 1 set priority to 2",
				"",
				"0.020ms : Semaphore 1 initialized with value 1",
				"0.020ms : Process 1 called p on semaphore 1",
				"",
				"0.040ms : Process 1 called v on semaphore 1",
				"",
				"0.050ms : Mutex 7 initialized",
				"0.050ms : Process 1 called lock on mutex 7",
				"",
				"0.060ms : Process 1 called unlock on mutex 7",
				"",
				"0.070ms : Process 1 accessed virtual address 0x10 which translates to physical address 0x10",
				"",
				"0.080ms : Process 1 accessed virtual address 0x3 which translates to physical address 0x3",
				"",
				"0.200ms : Process 1 has finished execution and is exiting",
				"0.200ms : Context switching to pid: 0",
				"",
			),
		},
		{
			description: "segfault traps the process",
			scenario:    "segfault.yaml",
			expectLog: lines(
				"0.000ms : Foreground process 1 arrived with priority 32 requesting 1.0MB of memory",
				"0.000ms : Context switching to pid: 1",
				"0.000ms : Foreground process 2 arrived with priority 32 requesting 10.0MB of memory",
				"",
				"0.005ms : Process 1 tried to access virtual address 0x100000 which caused a segfault",
				"0.005ms : Process 1 has trapped and is forcefully exiting",
				"0.005ms : Context switching to pid: 2",
				"",
				"0.015ms : Process 2 has finished execution and is exiting",
				"0.015ms : Context switching to pid: 0",
				"",
			),
			expect: func(t *testing.T, report *model.Report) {
				assert.Equal(t, 1, report.Trapped)
				trapped := report.Lookup(1)
				assert.Equal(t, model.ProcessTrapped, trapped.Status)
				assert.Equal(t, 5, trapped.CPUTime)
				assert.Equal(t, 5, trapped.Finish)
			},
		},
		{
			description: "process without memory is dropped",
			scenario:    "drop.yaml",
			expectLog: lines(
				"0.000ms : Foreground process 1 arrived with priority 32 requesting 10.0MB of memory",
				"0.000ms : Context switching to pid: 1",
				"",
				"0.005ms : Foreground process 2 arrived with priority 32 requesting 10.0MB of memory",
				"0.005ms : Unable to allocate memory for new process. Dropping process.",
				"",
				"0.006ms : Foreground process 3 arrived with priority 32 requesting 6.0MB of memory",
				"",
				"0.020ms : Process 1 has finished execution and is exiting",
				"0.020ms : Context switching to pid: 3",
				"",
				"0.030ms : Process 3 has finished execution and is exiting",
				"0.030ms : Context switching to pid: 0",
				"",
			),
			expect: func(t *testing.T, report *model.Report) {
				assert.Equal(t, 1, report.Dropped)
				dropped := report.Lookup(2)
				assert.Equal(t, model.ProcessDropped, dropped.Status)
				assert.Equal(t, -1, dropped.FirstRun)
				assert.Len(t, report.Completed(), 2)
			},
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.description, func(t *testing.T) {
			srv := New(WithConfig(driverOnly()), WithLogger(quietLogger()))
			var out bytes.Buffer
			report, err := srv.Run(context.Background(), loadScenario(t, testCase.scenario), &out)
			require.NoError(t, err)
			assert.Equal(t, testCase.expectLog, out.String())
			assert.Equal(t, model.StatusCompleted, report.Status)
			assert.NotNil(t, report.CompletedAt)
			assert.Contains(t, report.ScenarioURL, testCase.scenario)
			if testCase.expect != nil {
				testCase.expect(t, report)
			}
		})
	}
}

func TestService_Run_KernelLogs(t *testing.T) {
	srv := New(WithLogger(quietLogger()))
	var out bytes.Buffer
	_, err := srv.Run(context.Background(), loadScenario(t, "fcfs.json"), &out)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out.String(), lines(
		"0.000ms : Foreground process 1 arrived with priority 32 requesting 10.0MB of memory",
		"0.000ms # Admitted process 1 with priority 32",
		"0.000ms # Dispatching process 1",
		"0.000ms : Context switching to pid: 1",
	)), out.String())
	assert.Contains(t, out.String(), "0.100ms # Process 1 removed\n0.100ms # Dispatching process 2\n")
}

func TestService_Run_Errors(t *testing.T) {
	t.Run("idle starvation", func(t *testing.T) {
		config := driverOnly()
		config.IdleLimit = 100
		srv := New(WithConfig(config), WithLogger(quietLogger()))
		var out bytes.Buffer
		report, err := srv.Run(context.Background(), loadScenario(t, "starvation.yaml"), &out)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrIdleStarvation)
		assert.Equal(t, model.StatusFailed, report.Status)
		assert.Equal(t, err.Error(), report.Error)
		assert.Equal(t, 105, report.VirtualTime)
		assert.Contains(t, out.String(), "0.005ms : Process 1 called p on semaphore 1\n0.005ms : Context switching to pid: 0\n")
	})

	t.Run("invalid scenario", func(t *testing.T) {
		srv := New(WithLogger(quietLogger()))
		report, err := srv.Run(context.Background(), &model.Scenario{
			Algorithm: "RR",
			Processes: []*model.Process{
				{TotalCPUTime: 10, NeededMemoryMB: 1, Semaphore: []*model.SemaphoreCall{{ID: 9, Op: model.OpP, At: 1}}},
			},
		}, io.Discard)
		assert.ErrorIs(t, err, ErrInvalidScenario)
		assert.Equal(t, model.StatusFailed, report.Status)
	})

	t.Run("invalid config", func(t *testing.T) {
		srv := New(WithConfig(Config{}), WithLogger(quietLogger()))
		_, err := srv.Run(context.Background(), loadScenario(t, "fcfs.json"), io.Discard)
		assert.Error(t, err)
	})

	t.Run("canceled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		srv := New(WithLogger(quietLogger()))
		_, err := srv.Run(ctx, loadScenario(t, "fcfs.json"), io.Discard)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestService_Run_Progress(t *testing.T) {
	ctx, tracker := progress.WithNewTracker(context.Background(), "run-1", "drop.yaml", 3, nil)
	srv := New(WithConfig(driverOnly()), WithLogger(quietLogger()))
	report, err := srv.Run(ctx, loadScenario(t, "drop.yaml"), io.Discard)
	require.NoError(t, err)
	assert.Equal(t, "run-1", report.ID)

	snapshot := tracker.Snapshot()
	assert.Equal(t, 3, snapshot.ArrivedProcesses)
	assert.Equal(t, 2, snapshot.ExitedProcesses)
	assert.Equal(t, 1, snapshot.DroppedProcesses)
	assert.Equal(t, 30, snapshot.VirtualTime)
	assert.True(t, snapshot.Done())
}

func TestService_Run_Events(t *testing.T) {
	events := event.New(event.WithLogger(quietLogger()))
	defer events.Close()
	var mux sync.Mutex
	var received []kernel.EventType
	event.SetListenerOf[kernel.Event](events, func(e *event.Event[kernel.Event]) {
		mux.Lock()
		defer mux.Unlock()
		received = append(received, e.Data.Type)
	})

	var synchronous []kernel.Event
	srv := New(WithConfig(driverOnly()), WithLogger(quietLogger()), WithEventService(events),
		WithKernelListener(func(e kernel.Event) { synchronous = append(synchronous, e) }))
	_, err := srv.Run(context.Background(), loadScenario(t, "fcfs.json"), io.Discard)
	require.NoError(t, err)

	expect := []kernel.EventType{
		kernel.EventAdmitted, kernel.EventDispatched,
		kernel.EventAdmitted,
		kernel.EventExited, kernel.EventDispatched,
		kernel.EventExited, kernel.EventDispatched,
	}
	require.Len(t, synchronous, len(expect))
	for i, e := range synchronous {
		assert.Equal(t, expect[i], e.Type)
	}
	assert.Eventually(t, func() bool {
		mux.Lock()
		defer mux.Unlock()
		return len(received) == len(expect)
	}, time.Second, time.Millisecond)
	mux.Lock()
	defer mux.Unlock()
	assert.Equal(t, expect, received)
}
