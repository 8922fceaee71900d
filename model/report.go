package model

import (
	"sort"
	"time"
)

// Run status constants
const (
	StatusPending   = "pending"
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// Process status constants
const (
	ProcessArrived  = "arrived"
	ProcessFinished = "finished"
	ProcessTrapped  = "trapped"
	ProcessDropped  = "dropped"
)

// Report summarises one simulation run. Times other than StartedAt and
// CompletedAt are virtual microseconds.
type Report struct {
	ID              string          `json:"id"`
	ScenarioURL     string          `json:"scenarioURL,omitempty"`
	LogURL          string          `json:"logURL,omitempty"`
	Algorithm       string          `json:"algorithm"`
	Status          string          `json:"status"`
	Error           string          `json:"error,omitempty"`
	StartedAt       time.Time       `json:"startedAt"`
	CompletedAt     *time.Time      `json:"completedAt,omitempty"`
	VirtualTime     int             `json:"virtualTime"`
	ContextSwitches int             `json:"contextSwitches"`
	TimerInterrupts int             `json:"timerInterrupts"`
	IdleTime        int             `json:"idleTime"`
	Dropped         int             `json:"dropped"`
	Trapped         int             `json:"trapped"`
	Processes       []*ProcessStats `json:"processes,omitempty"`
}

// ProcessStats holds the lifecycle of one process. FirstRun is -1 until the
// process is dispatched for the first time.
type ProcessStats struct {
	PID        int    `json:"pid"`
	Type       string `json:"type"`
	Priority   int    `json:"priority"`
	Memory     int    `json:"memory"`
	Arrival    int    `json:"arrival"`
	FirstRun   int    `json:"firstRun"`
	Finish     int    `json:"finish"`
	CPUTime    int    `json:"cpuTime"`
	WaitTime   int    `json:"waitTime"`
	Turnaround int    `json:"turnaround"`
	Status     string `json:"status"`
}

// Response is the time from arrival to first dispatch, or -1 when the
// process never ran.
func (s *ProcessStats) Response() int {
	if s.FirstRun < 0 {
		return -1
	}
	return s.FirstRun - s.Arrival
}

// Complete records that the process left the system at time finish.
func (s *ProcessStats) Complete(finish int, status string) {
	s.Finish = finish
	s.Status = status
	s.Turnaround = finish - s.Arrival
	s.WaitTime = s.Turnaround - s.CPUTime
}

// Lookup returns the stats of pid
func (r *Report) Lookup(pid int) *ProcessStats {
	for _, candidate := range r.Processes {
		if candidate.PID == pid {
			return candidate
		}
	}
	return nil
}

// Completed returns the stats of processes that left the system after running.
func (r *Report) Completed() []*ProcessStats {
	var ret []*ProcessStats
	for _, candidate := range r.Processes {
		if candidate.Status == ProcessFinished || candidate.Status == ProcessTrapped {
			ret = append(ret, candidate)
		}
	}
	return ret
}

// AverageTurnaround returns the mean turnaround of completed processes.
func (r *Report) AverageTurnaround() float64 {
	return r.average(func(s *ProcessStats) int { return s.Turnaround })
}

// AverageWait returns the mean waiting time of completed processes.
func (r *Report) AverageWait() float64 {
	return r.average(func(s *ProcessStats) int { return s.WaitTime })
}

// AverageResponse returns the mean response time of completed processes.
func (r *Report) AverageResponse() float64 {
	return r.average(func(s *ProcessStats) int { return s.Response() })
}

// Utilization returns the share of virtual time spent running a process.
func (r *Report) Utilization() float64 {
	if r.VirtualTime == 0 {
		return 0
	}
	return float64(r.VirtualTime-r.IdleTime) / float64(r.VirtualTime)
}

func (r *Report) average(value func(s *ProcessStats) int) float64 {
	completed := r.Completed()
	if len(completed) == 0 {
		return 0
	}
	total := 0
	for _, stats := range completed {
		total += value(stats)
	}
	return float64(total) / float64(len(completed))
}

// SortReports orders reports by start time, then by id.
func SortReports(reports []*Report) {
	sort.SliceStable(reports, func(i, j int) bool {
		if !reports[i].StartedAt.Equal(reports[j].StartedAt) {
			return reports[i].StartedAt.Before(reports[j].StartedAt)
		}
		return reports[i].ID < reports[j].ID
	})
}
