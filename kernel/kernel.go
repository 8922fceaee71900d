package kernel

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// MMU is the memory collaborator consulted when admitting a process.
type MMU interface {
	// Reserve allocates size bytes for pid and reports success.
	Reserve(pid PID, size int) bool
}

// Kernel is the simulated scheduler. Every syscall returns the pid that runs
// immediately after the call.
type Kernel struct {
	algorithm  Algorithm
	config     Config
	cpu        *cpu
	scheduler  scheduler
	processes  map[PID]*PCB
	semaphores map[int]*syncObject
	mutexes    map[int]*syncObject
	mmu        MMU
	listeners  []Listener
	logger     logrus.FieldLogger
}

// New creates a kernel running the given algorithm.
func New(algorithm Algorithm, options ...Option) (*Kernel, error) {
	k := &Kernel{
		algorithm:  algorithm,
		config:     DefaultConfig(),
		processes:  make(map[PID]*PCB),
		semaphores: make(map[int]*syncObject),
		mutexes:    make(map[int]*syncObject),
	}
	for _, opt := range options {
		opt(k)
	}
	if k.logger == nil {
		k.logger = logrus.StandardLogger()
	}
	if err := k.config.Validate(); err != nil {
		return nil, err
	}
	idle := newPCB(IdlePID, 0, Foreground)
	k.cpu = &cpu{running: idle, idle: idle, emit: k.emit}
	var err error
	if k.scheduler, err = newScheduler(algorithm, k.cpu, k.config); err != nil {
		return nil, err
	}
	return k, nil
}

// Algorithm returns the scheduling algorithm in effect.
func (k *Kernel) Algorithm() Algorithm {
	return k.algorithm
}

// Admit registers a newly arrived process. It returns FailedPID, and leaves
// every structure untouched, when the MMU cannot reserve memory.
func (k *Kernel) Admit(pid PID, priority int, typ ProcessType, memory int) (PID, error) {
	if pid <= IdlePID {
		return k.cpu.running.PID, fmt.Errorf("%w: %d", ErrInvalidPID, pid)
	}
	if _, ok := k.processes[pid]; ok {
		return k.cpu.running.PID, fmt.Errorf("%w: %d", ErrDuplicatePID, pid)
	}
	typ, err := ParseProcessType(string(typ))
	if err != nil {
		return k.cpu.running.PID, err
	}
	if k.mmu != nil && !k.mmu.Reserve(pid, memory) {
		k.emit(Event{Type: EventAdmissionFailed, PID: pid, Value: memory})
		return FailedPID, nil
	}
	p := newPCB(pid, priority, typ)
	k.processes[pid] = p
	k.emit(Event{Type: EventAdmitted, PID: pid, Value: priority})
	k.scheduler.admit(p)
	return k.cpu.running.PID, nil
}

// Exit terminates the running process and schedules its successor.
func (k *Kernel) Exit() (PID, error) {
	if k.cpu.isIdle() {
		return IdlePID, ErrNoRunningProcess
	}
	p := k.cpu.running
	p.State = StateExiting
	delete(k.processes, p.PID)
	k.emit(Event{Type: EventExited, PID: p.PID})
	k.scheduler.yield()
	return k.cpu.running.PID, nil
}

// SetPriority changes the priority of the running process.
func (k *Kernel) SetPriority(priority int) (PID, error) {
	if k.cpu.isIdle() {
		return IdlePID, ErrNoRunningProcess
	}
	p := k.cpu.running
	p.Priority = priority
	k.emit(Event{Type: EventPriorityChanged, PID: p.PID, Value: priority})
	k.scheduler.reprioritize()
	return k.cpu.running.PID, nil
}

// TimerInterrupt attributes one tick interval to the running process and lets
// the scheduler react to quantum expiry.
func (k *Kernel) TimerInterrupt() (PID, error) {
	if !k.cpu.isIdle() {
		k.cpu.running.Runtime += k.config.TickInterval
	}
	k.scheduler.tick()
	return k.cpu.running.PID, nil
}

// Running returns the pid holding the CPU.
func (k *Kernel) Running() PID {
	return k.cpu.running.PID
}

// Ready lists ready pids in the order the scheduler would dispatch them.
func (k *Kernel) Ready() []PID {
	return k.scheduler.ready()
}

// Process returns the PCB of a live process.
func (k *Kernel) Process(pid PID) (*PCB, bool) {
	p, ok := k.processes[pid]
	return p, ok
}

// Semaphore returns the counter and waiters of semaphore id.
func (k *Kernel) Semaphore(id int) (int, []PID, error) {
	sem, err := k.semaphore(id)
	if err != nil {
		return 0, nil, err
	}
	return sem.value, sem.waiters.ordered(), nil
}

// Mutex returns the counter and waiters of mutex id.
func (k *Kernel) Mutex(id int) (int, []PID, error) {
	mutex, err := k.mutex(id)
	if err != nil {
		return 0, nil, err
	}
	return mutex.value, mutex.waiters.ordered(), nil
}

func (k *Kernel) emit(event Event) {
	if event.Type == EventDispatched {
		k.logger.WithField("pid", event.PID).Debug("dispatch")
	}
	for _, listener := range k.listeners {
		listener(event)
	}
}
