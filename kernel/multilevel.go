package kernel

// Level identifies a multilevel queue.
type Level int

const (
	LevelForeground Level = iota
	LevelBackground
)

func (l Level) String() string {
	if l == LevelBackground {
		return "background"
	}
	return "foreground"
}

func (l Level) other() Level {
	return 1 - l
}

func levelOf(p *PCB) Level {
	if p.Type == Background {
		return LevelBackground
	}
	return LevelForeground
}

// multilevel combines round-robin foreground and FCFS background queues. The
// level holding the CPU keeps it for levelQuantum units, after which the
// other level takes over if it has ready work.
type multilevel struct {
	*cpu
	queues       [2]fifo
	level        Level
	levelRuntime int
	quantum      int
	levelQuantum int
	tickInterval int
}

func (s *multilevel) admit(p *PCB) {
	s.enqueue(p)
}

func (s *multilevel) unblock(p *PCB) {
	s.enqueue(p)
}

func (s *multilevel) enqueue(p *PCB) {
	s.stamp(p)
	s.queues[levelOf(p)].pushBack(p)
	if s.isIdle() {
		s.yield()
	}
}

// yield prefers the current level and falls over to the other one when the
// current level has nothing ready. Going idle ends the level window.
func (s *multilevel) yield() {
	if s.queues[s.level].len() == 0 {
		if s.queues[s.level.other()].len() == 0 {
			s.levelRuntime = 0
			s.switchTo(nil)
			return
		}
		s.switchLevel(s.level.other())
	}
	s.switchTo(s.queues[s.level].popFront())
}

func (s *multilevel) switchLevel(level Level) {
	s.level = level
	s.levelRuntime = 0
	s.emit(Event{Type: EventLevelSwitched, Level: level})
}

func (s *multilevel) reprioritize() {}

func (s *multilevel) tick() {
	if s.isIdle() {
		return
	}
	s.levelRuntime += s.tickInterval
	if s.levelRuntime >= s.levelQuantum {
		s.emit(Event{Type: EventLevelQuantumExpired, Level: s.level})
		if s.queues[s.level.other()].len() > 0 {
			s.forceLevelSwitch()
			return
		}
		s.levelRuntime = 0
	}
	if s.level != LevelForeground || s.running.Runtime < s.quantum {
		return
	}
	queue := &s.queues[LevelForeground]
	if queue.len() == 0 {
		return
	}
	s.emit(Event{Type: EventQuantumExpired, PID: s.running.PID})
	queue.pushBack(s.preempt())
	s.switchTo(queue.popFront())
}

// forceLevelSwitch pauses the running process and hands the CPU to the other
// level. A foreground process with quantum left goes back to the front of its
// queue keeping its runtime; one that used its quantum goes to the back with
// a fresh one. A background process always resumes first.
func (s *multilevel) forceLevelSwitch() {
	prev := s.running
	queue := &s.queues[s.level]
	if s.level == LevelBackground {
		prev.Runtime = 0
	}
	if s.level == LevelBackground || prev.Runtime < s.quantum {
		s.stamp(prev)
		s.emit(Event{Type: EventPreempted, PID: prev.PID})
		queue.pushFront(prev)
	} else {
		queue.pushBack(s.preempt())
	}
	s.switchLevel(s.level.other())
	s.switchTo(s.queues[s.level].popFront())
}

func (s *multilevel) waitOrder() lessFunc {
	return byPID
}

// ready lists the current level first.
func (s *multilevel) ready() []PID {
	return append(s.queues[s.level].pids(), s.queues[s.level.other()].pids()...)
}
