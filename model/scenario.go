package model

import (
	"fmt"

	"github.com/viant/kernelsim/kernel"
)

// Scenario represents a simulation definition
type Scenario struct {
	// Source provides information about the origin of the scenario
	Source *Source `json:"source,omitempty" yaml:"source,omitempty"`

	// Algorithm names the scheduling algorithm, see kernel.Algorithms
	Algorithm string `json:"scheduling_algorithm" yaml:"scheduling_algorithm"`

	// MemorySizeMB is the physical memory available to the MMU
	MemorySizeMB int `json:"memory_size_MB" yaml:"memory_size_MB"`

	Semaphores []*Semaphore `json:"semaphores,omitempty" yaml:"semaphores,omitempty"`

	Mutexes []int `json:"mutexes,omitempty" yaml:"mutexes,omitempty"`

	// Processes are listed in declaration order; pids are assigned by arrival
	Processes []*Process `json:"processes" yaml:"processes"`
}

// Source identifies where a scenario was loaded from
type Source struct {
	URL string `json:"url,omitempty" yaml:"url,omitempty"`
}

// Semaphore declares a semaphore and its initial value
type Semaphore struct {
	ID      int `json:"id" yaml:"id"`
	InitVal int `json:"init_val" yaml:"init_val"`
}

// Process declares one process arrival and its in-process events. Event times
// are expressed in elapsed CPU time of the process, not in wall time.
type Process struct {
	Arrival         int               `json:"arrival" yaml:"arrival"`
	TotalCPUTime    int               `json:"total_cpu_time" yaml:"total_cpu_time"`
	Priority        int               `json:"priority" yaml:"priority"`
	PriorityChanges []*PriorityChange `json:"priority_change,omitempty" yaml:"priority_change,omitempty"`
	Semaphore       []*SemaphoreCall  `json:"semaphore,omitempty" yaml:"semaphore,omitempty"`
	Mutex           []*MutexCall      `json:"mutex,omitempty" yaml:"mutex,omitempty"`
	Type            string            `json:"type,omitempty" yaml:"type,omitempty"`
	NeededMemoryMB  int               `json:"needed_memory_MB" yaml:"needed_memory_MB"`
	MemoryAccess    []*MemoryAccess   `json:"memory_access,omitempty" yaml:"memory_access,omitempty"`
}

// PriorityChange sets the process priority once it has used Arrival CPU time.
type PriorityChange struct {
	Arrival     int `json:"arrival" yaml:"arrival"`
	NewPriority int `json:"new_priority" yaml:"new_priority"`
}

// SemaphoreOp is either "p" or "v"
type SemaphoreOp string

const (
	OpP SemaphoreOp = "p"
	OpV SemaphoreOp = "v"
)

// SemaphoreCall performs Op on semaphore ID at CPU time At.
type SemaphoreCall struct {
	ID int         `json:"id" yaml:"id"`
	Op SemaphoreOp `json:"op" yaml:"op"`
	At int         `json:"at" yaml:"at"`
}

// MutexOp is either "lock" or "unlock"
type MutexOp string

const (
	OpLock   MutexOp = "lock"
	OpUnlock MutexOp = "unlock"
)

// MutexCall performs Op on mutex ID at CPU time At.
type MutexCall struct {
	ID int     `json:"id" yaml:"id"`
	Op MutexOp `json:"op" yaml:"op"`
	At int     `json:"at" yaml:"at"`
}

// MemoryAccess touches virtual Address at CPU time At. Literal keeps the
// address as written in the scenario.
type MemoryAccess struct {
	Literal string `json:"literal" yaml:"literal"`
	Address int    `json:"address" yaml:"address"`
	At      int    `json:"at" yaml:"at"`
}

// SemaphoreByID returns the declared semaphore or nil
func (s *Scenario) SemaphoreByID(id int) *Semaphore {
	for _, candidate := range s.Semaphores {
		if candidate.ID == id {
			return candidate
		}
	}
	return nil
}

// HasMutex reports whether mutex id is declared
func (s *Scenario) HasMutex(id int) bool {
	for _, candidate := range s.Mutexes {
		if candidate == id {
			return true
		}
	}
	return false
}

// Validate performs a structural validation of the scenario. The returned
// slice is empty when the scenario is sound; otherwise every entry names the
// offending field path.
func (s *Scenario) Validate() []error {
	var issues []error
	if _, err := kernel.ParseAlgorithm(s.Algorithm); err != nil {
		issues = append(issues, fmt.Errorf("scheduling_algorithm: %w", err))
	}
	if s.MemorySizeMB < 0 {
		issues = append(issues, fmt.Errorf("memory_size_MB: must be >= 0, got %d", s.MemorySizeMB))
	}

	semaphores := map[int]bool{}
	for i, sem := range s.Semaphores {
		if semaphores[sem.ID] {
			issues = append(issues, fmt.Errorf("semaphores[%d].id: duplicate semaphore %d", i, sem.ID))
		}
		semaphores[sem.ID] = true
	}
	mutexes := map[int]bool{}
	for i, id := range s.Mutexes {
		if mutexes[id] {
			issues = append(issues, fmt.Errorf("mutexes[%d]: duplicate mutex %d", i, id))
		}
		mutexes[id] = true
	}

	for i, process := range s.Processes {
		issues = append(issues, process.validate(fmt.Sprintf("processes[%d]", i), semaphores, mutexes)...)
	}
	return issues
}

func (p *Process) validate(path string, semaphores, mutexes map[int]bool) []error {
	var issues []error
	if p.Arrival < 0 {
		issues = append(issues, fmt.Errorf("%s.arrival: must be >= 0, got %d", path, p.Arrival))
	}
	if p.TotalCPUTime <= 0 {
		issues = append(issues, fmt.Errorf("%s.total_cpu_time: must be > 0, got %d", path, p.TotalCPUTime))
	}
	if _, err := kernel.ParseProcessType(p.Type); err != nil {
		issues = append(issues, fmt.Errorf("%s.type: %w", path, err))
	}
	if p.NeededMemoryMB < 0 {
		issues = append(issues, fmt.Errorf("%s.needed_memory_MB: must be >= 0, got %d", path, p.NeededMemoryMB))
	}

	seen := map[int]string{}
	checkTime := func(field string, at int) {
		switch {
		case at < 0:
			issues = append(issues, fmt.Errorf("%s: must be >= 0, got %d", field, at))
		case at >= p.TotalCPUTime:
			issues = append(issues, fmt.Errorf("%s: event at %d does not happen before total_cpu_time %d", field, at, p.TotalCPUTime))
		}
		if prev, ok := seen[at]; ok {
			issues = append(issues, fmt.Errorf("%s: event at %d collides with %s", field, at, prev))
			return
		}
		seen[at] = field
	}

	for i, change := range p.PriorityChanges {
		checkTime(fmt.Sprintf("%s.priority_change[%d].arrival", path, i), change.Arrival)
	}
	for i, call := range p.Semaphore {
		field := fmt.Sprintf("%s.semaphore[%d]", path, i)
		if !semaphores[call.ID] {
			issues = append(issues, fmt.Errorf("%s.id: undeclared semaphore %d", field, call.ID))
		}
		if call.Op != OpP && call.Op != OpV {
			issues = append(issues, fmt.Errorf("%s: expected p or v, got %q", field, call.Op))
			continue
		}
		checkTime(field+"."+string(call.Op), call.At)
	}
	for i, call := range p.Mutex {
		field := fmt.Sprintf("%s.mutex[%d]", path, i)
		if !mutexes[call.ID] {
			issues = append(issues, fmt.Errorf("%s.id: undeclared mutex %d", field, call.ID))
		}
		if call.Op != OpLock && call.Op != OpUnlock {
			issues = append(issues, fmt.Errorf("%s: expected lock or unlock, got %q", field, call.Op))
			continue
		}
		checkTime(field+"."+string(call.Op), call.At)
	}
	for i, access := range p.MemoryAccess {
		checkTime(fmt.Sprintf("%s.memory_access[%d][%q]", path, i, access.Literal), access.At)
	}
	return issues
}
