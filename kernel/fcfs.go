package kernel

// fcfs runs processes to completion in arrival order.
type fcfs struct {
	*cpu
	queue fifo
}

func (s *fcfs) admit(p *PCB) {
	s.enqueue(p)
}

func (s *fcfs) unblock(p *PCB) {
	s.enqueue(p)
}

func (s *fcfs) enqueue(p *PCB) {
	s.stamp(p)
	s.queue.pushBack(p)
	if s.isIdle() {
		s.switchTo(s.queue.popFront())
	}
}

func (s *fcfs) yield() {
	s.switchTo(s.queue.popFront())
}

func (s *fcfs) reprioritize() {}

func (s *fcfs) tick() {}

func (s *fcfs) waitOrder() lessFunc {
	return byPID
}

func (s *fcfs) ready() []PID {
	return s.queue.pids()
}
