package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReport_Averages(t *testing.T) {
	var testCases = []struct {
		description string
		report      *Report
		turnaround  float64
		wait        float64
		response    float64
		utilization float64
	}{
		{
			description: "empty",
			report:      &Report{},
		},
		{
			description: "fcfs pair",
			report: &Report{
				VirtualTime: 150,
				Processes: []*ProcessStats{
					{PID: 1, Arrival: 0, FirstRun: 0, CPUTime: 100, Turnaround: 100, WaitTime: 0, Status: ProcessFinished},
					{PID: 2, Arrival: 5, FirstRun: 100, CPUTime: 50, Turnaround: 145, WaitTime: 95, Status: ProcessFinished},
					{PID: 3, Arrival: 7, FirstRun: -1, Status: ProcessDropped},
				},
			},
			turnaround:  122.5,
			wait:        47.5,
			response:    47.5,
			utilization: 1,
		},
		{
			description: "idle time",
			report: &Report{
				VirtualTime: 200,
				IdleTime:    50,
				Processes: []*ProcessStats{
					{PID: 1, Arrival: 50, FirstRun: 50, CPUTime: 150, Turnaround: 150, Status: ProcessTrapped},
				},
			},
			turnaround:  150,
			utilization: 0.75,
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.description, func(t *testing.T) {
			assert.Equal(t, testCase.turnaround, testCase.report.AverageTurnaround())
			assert.Equal(t, testCase.wait, testCase.report.AverageWait())
			assert.Equal(t, testCase.response, testCase.report.AverageResponse())
			assert.Equal(t, testCase.utilization, testCase.report.Utilization())
		})
	}
}

func TestProcessStats_Complete(t *testing.T) {
	stats := &ProcessStats{PID: 2, Arrival: 5, FirstRun: 100, CPUTime: 50}
	stats.Complete(150, ProcessFinished)
	assert.Equal(t, 145, stats.Turnaround)
	assert.Equal(t, 95, stats.WaitTime)
	assert.Equal(t, 95, stats.Response())
	assert.Equal(t, ProcessFinished, stats.Status)

	assert.Equal(t, -1, (&ProcessStats{FirstRun: -1}).Response())
}

func TestReport_Lookup(t *testing.T) {
	report := &Report{Processes: []*ProcessStats{{PID: 1}, {PID: 2}}}
	assert.Equal(t, 2, report.Lookup(2).PID)
	assert.Nil(t, report.Lookup(3))
}
