package kernel

import "fmt"

// EventType classifies a kernel decision.
type EventType string

const (
	EventAdmitted            EventType = "admitted"
	EventAdmissionFailed     EventType = "admissionFailed"
	EventDispatched          EventType = "dispatched"
	EventPreempted           EventType = "preempted"
	EventBlocked             EventType = "blocked"
	EventWoken               EventType = "woken"
	EventExited              EventType = "exited"
	EventPriorityChanged     EventType = "priorityChanged"
	EventLevelSwitched       EventType = "levelSwitched"
	EventSemaphoreCreated    EventType = "semaphoreCreated"
	EventMutexCreated        EventType = "mutexCreated"
	EventQuantumExpired      EventType = "quantumExpired"
	EventLevelQuantumExpired EventType = "levelQuantumExpired"
)

// Event describes one state transition inside the kernel.
type Event struct {
	Type   EventType `json:"type"`
	PID    PID       `json:"pid"`
	Object string    `json:"object,omitempty"` // "semaphore 3", "mutex 1"
	Level  Level     `json:"level,omitempty"`
	Value  int       `json:"value,omitempty"`
}

// Listener receives kernel events synchronously, in decision order.
type Listener func(Event)

func (e Event) String() string {
	switch e.Type {
	case EventAdmitted:
		return fmt.Sprintf("Admitted process %d with priority %d", e.PID, e.Value)
	case EventAdmissionFailed:
		return fmt.Sprintf("Rejected process %d: unable to reserve %d bytes", e.PID, e.Value)
	case EventDispatched:
		if e.PID == IdlePID {
			return "Dispatching idle process"
		}
		return fmt.Sprintf("Dispatching process %d", e.PID)
	case EventPreempted:
		return fmt.Sprintf("Preempted process %d", e.PID)
	case EventBlocked:
		return fmt.Sprintf("Process %d blocked on %s", e.PID, e.Object)
	case EventWoken:
		return fmt.Sprintf("Process %d woken by %s", e.PID, e.Object)
	case EventExited:
		return fmt.Sprintf("Process %d removed", e.PID)
	case EventPriorityChanged:
		return fmt.Sprintf("Process %d priority is now %d", e.PID, e.Value)
	case EventLevelSwitched:
		return fmt.Sprintf("Switched to %s level", e.Level)
	case EventSemaphoreCreated:
		return fmt.Sprintf("Created %s with value %d", e.Object, e.Value)
	case EventMutexCreated:
		return fmt.Sprintf("Created %s", e.Object)
	case EventQuantumExpired:
		return fmt.Sprintf("Process %d exhausted its quantum", e.PID)
	case EventLevelQuantumExpired:
		return fmt.Sprintf("%s level exhausted its quantum", e.Level)
	}
	return fmt.Sprintf("%s pid=%d", e.Type, e.PID)
}
