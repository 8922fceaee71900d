package kernel

// priority always runs the most urgent ready process; lower value wins and
// equal priorities are served in ready-insertion order.
type priority struct {
	*cpu
	queue *index
}

func (s *priority) admit(p *PCB) {
	s.enqueue(p)
	s.preemptIfUrgent()
}

func (s *priority) unblock(p *PCB) {
	s.enqueue(p)
	s.preemptIfUrgent()
}

func (s *priority) reprioritize() {
	s.preemptIfUrgent()
}

func (s *priority) yield() {
	s.switchTo(s.queue.extractMin())
}

func (s *priority) tick() {}

func (s *priority) enqueue(p *PCB) {
	s.stamp(p)
	s.queue.insert(p)
}

// preemptIfUrgent replaces the running process with the head of the queue
// when the head is strictly more urgent.
func (s *priority) preemptIfUrgent() {
	if s.isIdle() {
		s.switchTo(s.queue.extractMin())
		return
	}
	head := s.queue.peek()
	if head == nil || head.Priority >= s.running.Priority {
		return
	}
	next := s.queue.extractMin()
	s.queue.insert(s.preempt())
	s.switchTo(next)
}

func (s *priority) waitOrder() lessFunc {
	return byPriorityPID
}

func (s *priority) ready() []PID {
	return s.queue.ordered()
}
