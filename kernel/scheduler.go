package kernel

import (
	"fmt"
	"strings"
)

// Algorithm names a scheduling algorithm.
type Algorithm string

const (
	FCFS       Algorithm = "FCFS"
	Priority   Algorithm = "Priority"
	RoundRobin Algorithm = "RR"
	Multilevel Algorithm = "Multilevel"
)

// Algorithms lists the supported algorithms.
var Algorithms = []Algorithm{FCFS, Priority, RoundRobin, Multilevel}

// ParseAlgorithm resolves an algorithm name case-insensitively.
func ParseAlgorithm(name string) (Algorithm, error) {
	for _, candidate := range Algorithms {
		if strings.EqualFold(string(candidate), name) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownAlgorithm, name)
}

// Config holds the timing constants of the scheduler, in virtual time units.
type Config struct {
	Quantum      int `json:"quantum" yaml:"quantum"`
	LevelQuantum int `json:"levelQuantum" yaml:"levelQuantum"`
	TickInterval int `json:"tickInterval" yaml:"tickInterval"`
}

// DefaultConfig returns the standard timing constants.
func DefaultConfig() Config {
	return Config{
		Quantum:      40,
		LevelQuantum: 200,
		TickInterval: 10,
	}
}

// Validate checks that every interval is positive.
func (c Config) Validate() error {
	switch {
	case c.Quantum <= 0:
		return fmt.Errorf("kernel.quantum must be > 0")
	case c.LevelQuantum <= 0:
		return fmt.Errorf("kernel.levelQuantum must be > 0")
	case c.TickInterval <= 0:
		return fmt.Errorf("kernel.tickInterval must be > 0")
	}
	return nil
}

// scheduler is implemented by every algorithm variant. The kernel performs
// the state bookkeeping shared by all variants (runtime accounting, wait lists)
// and delegates the choice of the running process.
type scheduler interface {
	// admit enqueues a newly arrived process.
	admit(p *PCB)
	// yield picks a successor after the running process exited or blocked.
	yield()
	// reprioritize reacts to a priority change of the running process.
	reprioritize()
	// tick reacts to a timer interrupt, after runtime accounting.
	tick()
	// unblock enqueues a process woken from a wait list.
	unblock(p *PCB)
	// waitOrder orders wait lists under this algorithm.
	waitOrder() lessFunc
	// ready lists the ready processes in the order they would be dispatched.
	ready() []PID
}

// cpu is the running slot shared by a kernel and its scheduler.
type cpu struct {
	running *PCB
	idle    *PCB
	seq     uint64
	emit    func(Event)
}

func (c *cpu) isIdle() bool {
	return c.running.IsIdle()
}

// stamp marks p ready and renews its insertion sequence.
func (c *cpu) stamp(p *PCB) {
	c.seq++
	p.seq = c.seq
	p.State = StateReady
}

// switchTo hands the CPU to p, or to the idle process when p is nil.
func (c *cpu) switchTo(p *PCB) {
	if p == nil {
		p = c.idle
	}
	if !p.IsIdle() {
		p.State = StateRunning
	}
	if c.running == p {
		return
	}
	c.running = p
	c.emit(Event{Type: EventDispatched, PID: p.PID})
}

// preempt moves the running process back to ready with a fresh quantum.
func (c *cpu) preempt() *PCB {
	prev := c.running
	prev.Runtime = 0
	c.stamp(prev)
	c.emit(Event{Type: EventPreempted, PID: prev.PID})
	return prev
}

func newScheduler(algorithm Algorithm, c *cpu, config Config) (scheduler, error) {
	switch algorithm {
	case FCFS:
		return &fcfs{cpu: c}, nil
	case Priority:
		return &priority{cpu: c, queue: newIndex(byPrioritySeq)}, nil
	case RoundRobin:
		return &roundRobin{fcfs: fcfs{cpu: c}, quantum: config.Quantum}, nil
	case Multilevel:
		return &multilevel{cpu: c, quantum: config.Quantum, levelQuantum: config.LevelQuantum, tickInterval: config.TickInterval}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, algorithm)
}
