package kernel

// roundRobin is FCFS with quantum expiry on timer interrupts.
type roundRobin struct {
	fcfs
	quantum int
}

// tick rotates the running process once it has used its quantum and another
// process is ready. With an empty queue the process keeps the CPU and its
// runtime stays at or above the quantum, so it rotates on the first tick after
// a competitor arrives.
func (s *roundRobin) tick() {
	if s.isIdle() || s.running.Runtime < s.quantum || s.queue.len() == 0 {
		return
	}
	s.emit(Event{Type: EventQuantumExpired, PID: s.running.PID})
	s.queue.pushBack(s.preempt())
	s.switchTo(s.queue.popFront())
}
