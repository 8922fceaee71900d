package kernel

import "fmt"

// PID identifies a simulated process.
type PID int

const (
	// IdlePID is the placeholder process selected when nothing is ready.
	IdlePID PID = 0
	// FailedPID is returned by Admit when memory could not be reserved.
	FailedPID PID = -1
)

// State represents the scheduling state of a process
type State int

const (
	StateReady State = iota
	StateRunning
	StateWaiting
	StateExiting
)

func (s State) String() string {
	switch s {
	case StateReady:
		return "ready"
	case StateRunning:
		return "running"
	case StateWaiting:
		return "waiting"
	case StateExiting:
		return "exiting"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// ProcessType selects the multilevel queue a process belongs to.
type ProcessType string

const (
	Foreground ProcessType = "Foreground"
	Background ProcessType = "Background"
)

// ParseProcessType returns the process type for name; empty means Foreground.
func ParseProcessType(name string) (ProcessType, error) {
	switch ProcessType(name) {
	case "", Foreground:
		return Foreground, nil
	case Background:
		return Background, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidProcessType, name)
}

// PCB is the scheduling record of one process.
type PCB struct {
	PID      PID
	Priority int
	State    State
	// Runtime is the CPU time attributed within the current quantum.
	Runtime int
	Type    ProcessType

	seq   uint64 // insertion stamp, renewed on every ready insert
	index int    // heap position while held by an index, -1 otherwise
}

func newPCB(pid PID, priority int, typ ProcessType) *PCB {
	return &PCB{PID: pid, Priority: priority, Type: typ, State: StateReady, index: -1}
}

// IsIdle reports whether p is the idle placeholder.
func (p *PCB) IsIdle() bool {
	return p.PID == IdlePID
}
