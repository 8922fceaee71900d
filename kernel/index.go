package kernel

import (
	"container/heap"
	"sort"
)

// lessFunc orders processes inside an index; the minimum is dequeued first.
type lessFunc func(a, b *PCB) bool

// byPrioritySeq orders by urgency, then by ready-insertion order.
func byPrioritySeq(a, b *PCB) bool {
	if a.Priority != b.Priority {
		return a.Priority < b.Priority
	}
	return a.seq < b.seq
}

// byPID orders by arrival, pids being handed out in arrival order.
func byPID(a, b *PCB) bool {
	return a.PID < b.PID
}

func byPriorityPID(a, b *PCB) bool {
	if a.Priority != b.Priority {
		return a.Priority < b.Priority
	}
	return a.PID < b.PID
}

// index is a binary heap of processes with logarithmic insert and
// extract-min.
type index struct {
	items []*PCB
	less  lessFunc
}

func newIndex(less lessFunc) *index {
	return &index{less: less}
}

func (x *index) Len() int           { return len(x.items) }
func (x *index) Less(i, j int) bool { return x.less(x.items[i], x.items[j]) }

func (x *index) Swap(i, j int) {
	x.items[i], x.items[j] = x.items[j], x.items[i]
	x.items[i].index = i
	x.items[j].index = j
}

func (x *index) Push(v any) {
	p := v.(*PCB)
	p.index = len(x.items)
	x.items = append(x.items, p)
}

func (x *index) Pop() any {
	n := len(x.items)
	p := x.items[n-1]
	x.items[n-1] = nil
	x.items = x.items[:n-1]
	p.index = -1
	return p
}

func (x *index) insert(p *PCB) {
	heap.Push(x, p)
}

func (x *index) extractMin() *PCB {
	if len(x.items) == 0 {
		return nil
	}
	return heap.Pop(x).(*PCB)
}

func (x *index) peek() *PCB {
	if len(x.items) == 0 {
		return nil
	}
	return x.items[0]
}

// ordered returns the held pids in dequeue order without mutating the heap.
func (x *index) ordered() []PID {
	sorted := append([]*PCB(nil), x.items...)
	sort.Slice(sorted, func(i, j int) bool { return x.less(sorted[i], sorted[j]) })
	ret := make([]PID, 0, len(sorted))
	for _, p := range sorted {
		ret = append(ret, p.PID)
	}
	return ret
}
