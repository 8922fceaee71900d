package kernel

// fifo is a double-ended run queue. The front is the next process to run.
type fifo struct {
	items []*PCB
}

func (q *fifo) pushBack(p *PCB) {
	q.items = append(q.items, p)
}

// pushFront places p ahead of every queued process.
func (q *fifo) pushFront(p *PCB) {
	q.items = append(q.items, nil)
	copy(q.items[1:], q.items)
	q.items[0] = p
}

func (q *fifo) popFront() *PCB {
	if len(q.items) == 0 {
		return nil
	}
	p := q.items[0]
	q.items[0] = nil
	q.items = q.items[1:]
	return p
}

func (q *fifo) len() int {
	return len(q.items)
}

func (q *fifo) pids() []PID {
	ret := make([]PID, 0, len(q.items))
	for _, p := range q.items {
		ret = append(ret, p.PID)
	}
	return ret
}
