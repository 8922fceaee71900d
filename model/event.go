package model

import "sort"

// EventKind classifies an in-process event. The declaration order is the
// delivery order of events due at the same CPU time.
type EventKind int

const (
	EventPriority EventKind = iota
	EventSemaphoreP
	EventSemaphoreV
	EventMutexLock
	EventMutexUnlock
	EventMemory
)

func (k EventKind) String() string {
	switch k {
	case EventPriority:
		return "priority"
	case EventSemaphoreP:
		return "p"
	case EventSemaphoreV:
		return "v"
	case EventMutexLock:
		return "lock"
	case EventMutexUnlock:
		return "unlock"
	case EventMemory:
		return "memory"
	}
	return "unknown"
}

// Event is one in-process event due once the process has used At CPU time.
type Event struct {
	At   int
	Kind EventKind
	// ID is the semaphore or mutex id
	ID int
	// Value is the new priority or the virtual address
	Value int
}

// Events merges every event list of the process into one timeline ordered by
// CPU time, then by kind.
func (p *Process) Events() []*Event {
	var ret []*Event
	for _, change := range p.PriorityChanges {
		ret = append(ret, &Event{At: change.Arrival, Kind: EventPriority, Value: change.NewPriority})
	}
	for _, call := range p.Semaphore {
		kind := EventSemaphoreP
		if call.Op == OpV {
			kind = EventSemaphoreV
		}
		ret = append(ret, &Event{At: call.At, Kind: kind, ID: call.ID})
	}
	for _, call := range p.Mutex {
		kind := EventMutexLock
		if call.Op == OpUnlock {
			kind = EventMutexUnlock
		}
		ret = append(ret, &Event{At: call.At, Kind: kind, ID: call.ID})
	}
	for _, access := range p.MemoryAccess {
		ret = append(ret, &Event{At: access.At, Kind: EventMemory, Value: access.Address})
	}
	sort.SliceStable(ret, func(i, j int) bool {
		if ret[i].At != ret[j].At {
			return ret[i].At < ret[j].At
		}
		return ret[i].Kind < ret[j].Kind
	})
	return ret
}
