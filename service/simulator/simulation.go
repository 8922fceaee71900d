package simulator

import (
	"context"
	"fmt"

	"github.com/viant/kernelsim/internal/clock"
	"github.com/viant/kernelsim/kernel"
	"github.com/viant/kernelsim/model"
	"github.com/viant/kernelsim/progress"
	"github.com/viant/kernelsim/service/event"
	"github.com/viant/kernelsim/service/mmu"
	"github.com/viant/kernelsim/tracing"
)

// cancelCheckInterval is the number of steps between context checks.
const cancelCheckInterval = 1024

type syncState struct {
	value       int
	initialized bool
}

// process is the driver's view of a live process.
type process struct {
	pid      kernel.PID
	declared *model.Process
	events   []*model.Event
	next     int
	elapsed  int
	stats    *model.ProcessStats
}

func (p *process) due() *model.Event {
	if p.next >= len(p.events) || p.events[p.next].At > p.elapsed {
		return nil
	}
	return p.events[p.next]
}

// simulation holds the state of one run.
type simulation struct {
	ctx        context.Context
	config     Config
	report     *model.Report
	span       *tracing.Span
	clock      *clock.Virtual
	log        *logWriter
	kernel     *kernel.Kernel
	mmu        *mmu.Service
	publisher  *event.Publisher[kernel.Event]
	arrivals   []*model.Process
	processes  map[kernel.PID]*process
	semaphores map[int]*syncState
	mutexes    map[int]*syncState
	nextPID    kernel.PID
	running    kernel.PID
	interval   int
	idle       int
	err        error
}

func (s *simulation) run() error {
	for len(s.processes)+len(s.arrivals) > 0 {
		now := s.clock.Now()
		s.report.VirtualTime = now
		if now%cancelCheckInterval == 0 {
			if err := s.ctx.Err(); err != nil {
				return err
			}
		}
		if err := s.step(); err != nil {
			return err
		}
		s.log.endStep()
		s.clock.Advance()
	}
	progress.UpdateCtx(s.ctx, progress.Delta{VirtualTime: s.report.VirtualTime})
	return nil
}

func (s *simulation) step() error {
	if s.running == kernel.IdlePID {
		if s.clock.Now() > 0 {
			s.report.IdleTime++
		}
		if len(s.processes) > 0 {
			s.idle++
			if s.idle >= s.config.IdleLimit {
				return fmt.Errorf("%w: idle process ran for %d consecutive microseconds", ErrIdleStarvation, s.idle)
			}
		}
	}
	if err := s.advance(); err != nil {
		return err
	}
	if err := s.admitArrivals(); err != nil {
		return err
	}
	if s.clock.Due(s.interval) {
		s.report.TimerInterrupts++
		if err := s.switchTo(s.kernel.TimerInterrupt()); err != nil {
			return err
		}
	}
	return s.err
}

// advance credits one microsecond to the running process, then delivers its
// due events one kernel call at a time for as long as it keeps the CPU.
func (s *simulation) advance() error {
	if s.running == kernel.IdlePID {
		return nil
	}
	p := s.processes[s.running]
	p.elapsed++
	p.stats.CPUTime = p.elapsed
	if p.elapsed >= p.declared.TotalCPUTime {
		s.log.driver("Process %d has finished execution and is exiting", p.pid)
		return s.exit(p, model.ProcessFinished)
	}
	for s.running == p.pid {
		evt := p.due()
		if evt == nil {
			break
		}
		p.next++
		if err := s.deliver(p, evt); err != nil {
			return err
		}
	}
	return nil
}

func (s *simulation) deliver(p *process, evt *model.Event) error {
	switch evt.Kind {
	case model.EventPriority:
		s.log.driver("Process %d set priority to %d", p.pid, evt.Value)
		return s.switchTo(s.kernel.SetPriority(evt.Value))
	case model.EventSemaphoreP:
		s.initSemaphore(evt.ID)
		s.log.driver("Process %d called p on semaphore %d", p.pid, evt.ID)
		return s.switchTo(s.kernel.SemaphoreP(evt.ID))
	case model.EventSemaphoreV:
		s.initSemaphore(evt.ID)
		s.log.driver("Process %d called v on semaphore %d", p.pid, evt.ID)
		return s.switchTo(s.kernel.SemaphoreV(evt.ID))
	case model.EventMutexLock:
		s.initMutex(evt.ID)
		s.log.driver("Process %d called lock on mutex %d", p.pid, evt.ID)
		return s.switchTo(s.kernel.MutexLock(evt.ID))
	case model.EventMutexUnlock:
		s.initMutex(evt.ID)
		s.log.driver("Process %d called unlock on mutex %d", p.pid, evt.ID)
		return s.switchTo(s.kernel.MutexUnlock(evt.ID))
	case model.EventMemory:
		return s.access(p, evt.Value)
	}
	return fmt.Errorf("%w: unsupported event %v", ErrInvariant, evt.Kind)
}

// initSemaphore creates a declared semaphore before its first use. Undeclared
// ids are left for the kernel to reject.
func (s *simulation) initSemaphore(id int) {
	state, ok := s.semaphores[id]
	if !ok || state.initialized {
		return
	}
	s.log.driver("Semaphore %d initialized with value %d", id, state.value)
	if err := s.kernel.InitSemaphore(id, state.value); err != nil && s.err == nil {
		s.err = err
	}
	state.initialized = true
}

func (s *simulation) initMutex(id int) {
	state, ok := s.mutexes[id]
	if !ok || state.initialized {
		return
	}
	s.log.driver("Mutex %d initialized", id)
	if err := s.kernel.InitMutex(id); err != nil && s.err == nil {
		s.err = err
	}
	state.initialized = true
}

func (s *simulation) access(p *process, address int) error {
	physical, ok := s.mmu.Translate(address, p.pid)
	if ok {
		s.log.driver("Process %d accessed virtual address 0x%x which translates to physical address 0x%x", p.pid, address, physical)
		return nil
	}
	s.log.driver("Process %d tried to access virtual address 0x%x which caused a segfault", p.pid, address)
	s.log.driver("Process %d has trapped and is forcefully exiting", p.pid)
	s.span.AddEvent(fmt.Sprintf("process %d trapped", p.pid), s.clock.Now())
	return s.exit(p, model.ProcessTrapped)
}

func (s *simulation) exit(p *process, status string) error {
	next, err := s.kernel.Exit()
	if err != nil {
		return err
	}
	if next == p.pid {
		return fmt.Errorf("%w: attempted to continue execution of exiting process (pid = %d)", ErrInvariant, p.pid)
	}
	delete(s.processes, p.pid)
	s.mmu.Release(p.pid)
	p.stats.Complete(s.clock.Now(), status)
	delta := progress.Delta{Exited: 1}
	if status == model.ProcessTrapped {
		s.report.Trapped++
		delta = progress.Delta{Trapped: 1}
	}
	progress.UpdateCtx(s.ctx, delta)
	return s.switchTo(next, nil)
}

// admitArrivals admits every process arriving now, in declaration order.
// Pids are consumed even by processes the kernel drops.
func (s *simulation) admitArrivals() error {
	now := s.clock.Now()
	for len(s.arrivals) > 0 && s.arrivals[0].Arrival <= now {
		declared := s.arrivals[0]
		s.arrivals = s.arrivals[1:]
		pid := s.nextPID
		s.nextPID++

		typ := kernel.ProcessType(declared.Type)
		if typ == "" {
			typ = kernel.Foreground
		}
		stats := &model.ProcessStats{
			PID:      int(pid),
			Type:     string(typ),
			Priority: declared.Priority,
			Memory:   declared.NeededMemoryMB,
			Arrival:  now,
			FirstRun: -1,
			Status:   model.ProcessArrived,
		}
		s.report.Processes = append(s.report.Processes, stats)
		s.processes[pid] = &process{pid: pid, declared: declared, events: declared.Events(), stats: stats}
		s.log.driver("%s process %d arrived with priority %d requesting %.1fMB of memory", typ, pid, declared.Priority, float64(declared.NeededMemoryMB))
		progress.UpdateCtx(s.ctx, progress.Delta{Arrived: 1})

		admitted, err := s.kernel.Admit(pid, declared.Priority, typ, declared.NeededMemoryMB*mmu.MB)
		if err != nil {
			return err
		}
		if admitted == kernel.FailedPID {
			s.log.driver("Unable to allocate memory for new process. Dropping process.")
			delete(s.processes, pid)
			stats.Status = model.ProcessDropped
			s.report.Dropped++
			progress.UpdateCtx(s.ctx, progress.Delta{Dropped: 1})
			s.span.AddEvent(fmt.Sprintf("process %d dropped", pid), now)
			continue
		}
		if err = s.switchTo(admitted, nil); err != nil {
			return err
		}
	}
	return nil
}

// switchTo carries out a kernel decision.
func (s *simulation) switchTo(pid kernel.PID, err error) error {
	if err != nil {
		return err
	}
	if pid != kernel.IdlePID {
		if _, ok := s.processes[pid]; !ok {
			return fmt.Errorf("%w: attempted to switch to unknown pid %d", ErrInvariant, pid)
		}
		s.idle = 0
	}
	if running := s.kernel.Running(); running != pid {
		return fmt.Errorf("%w: kernel returned pid %d while %d holds the CPU", ErrInvariant, pid, running)
	}
	if pid != s.running {
		s.log.driver("Context switching to pid: %d", pid)
		s.report.ContextSwitches++
		if p, ok := s.processes[pid]; ok && p.stats.FirstRun < 0 {
			p.stats.FirstRun = s.clock.Now()
		}
	}
	s.running = pid
	return nil
}

func (s *simulation) onKernelEvent(e kernel.Event) {
	if s.config.KernelLogs {
		s.log.kernel(e.String())
	}
	if s.publisher == nil || s.err != nil {
		return
	}
	s.err = s.publisher.Publish(s.ctx, event.NewEvent(&event.Context{
		RunID:       s.report.ID,
		Scenario:    s.report.ScenarioURL,
		EventType:   string(e.Type),
		VirtualTime: s.clock.Now(),
	}, e))
}
