package kernel

import "fmt"

// syncObject is the shared model of semaphores and mutexes: a counter that
// goes negative by the number of waiters, and an ordered wait list.
type syncObject struct {
	name    string
	value   int
	waiters *index
}

// Value returns the current counter.
func (o *syncObject) Value() int {
	return o.value
}

func (k *Kernel) newSyncObject(kind string, id, value int) *syncObject {
	return &syncObject{
		name:    fmt.Sprintf("%s %d", kind, id),
		value:   value,
		waiters: newIndex(k.scheduler.waitOrder()),
	}
}

// InitSemaphore creates semaphore id with the given initial value.
func (k *Kernel) InitSemaphore(id int, value int) error {
	if _, ok := k.semaphores[id]; ok {
		return fmt.Errorf("%w: semaphore %d", ErrAlreadyInitialized, id)
	}
	sem := k.newSyncObject("semaphore", id, value)
	k.semaphores[id] = sem
	k.emit(Event{Type: EventSemaphoreCreated, Object: sem.name, Value: value})
	return nil
}

// SemaphoreP decrements semaphore id, blocking the running process when no
// unit was available.
func (k *Kernel) SemaphoreP(id int) (PID, error) {
	sem, err := k.semaphore(id)
	if err != nil {
		return k.cpu.running.PID, err
	}
	return k.down(sem)
}

// SemaphoreV increments semaphore id and wakes its most eligible waiter.
func (k *Kernel) SemaphoreV(id int) (PID, error) {
	sem, err := k.semaphore(id)
	if err != nil {
		return k.cpu.running.PID, err
	}
	return k.up(sem)
}

// InitMutex creates an unlocked mutex.
func (k *Kernel) InitMutex(id int) error {
	if _, ok := k.mutexes[id]; ok {
		return fmt.Errorf("%w: mutex %d", ErrAlreadyInitialized, id)
	}
	mutex := k.newSyncObject("mutex", id, 1)
	k.mutexes[id] = mutex
	k.emit(Event{Type: EventMutexCreated, Object: mutex.name})
	return nil
}

// MutexLock acquires mutex id or blocks the running process.
func (k *Kernel) MutexLock(id int) (PID, error) {
	mutex, err := k.mutex(id)
	if err != nil {
		return k.cpu.running.PID, err
	}
	return k.down(mutex)
}

// MutexUnlock releases mutex id. Unlocking an unlocked mutex is rejected.
func (k *Kernel) MutexUnlock(id int) (PID, error) {
	mutex, err := k.mutex(id)
	if err != nil {
		return k.cpu.running.PID, err
	}
	if mutex.value >= 1 {
		return k.cpu.running.PID, fmt.Errorf("%w: mutex %d", ErrMutexNotLocked, id)
	}
	return k.up(mutex)
}

func (k *Kernel) semaphore(id int) (*syncObject, error) {
	if sem, ok := k.semaphores[id]; ok {
		return sem, nil
	}
	return nil, fmt.Errorf("%w: %d", ErrSemaphoreNotFound, id)
}

func (k *Kernel) mutex(id int) (*syncObject, error) {
	if mutex, ok := k.mutexes[id]; ok {
		return mutex, nil
	}
	return nil, fmt.Errorf("%w: %d", ErrMutexNotFound, id)
}

func (k *Kernel) down(o *syncObject) (PID, error) {
	if k.cpu.isIdle() {
		return IdlePID, ErrNoRunningProcess
	}
	before := o.value
	o.value--
	if before > 0 {
		return k.cpu.running.PID, nil
	}
	p := k.cpu.running
	p.State = StateWaiting
	p.Runtime = 0
	o.waiters.insert(p)
	k.emit(Event{Type: EventBlocked, PID: p.PID, Object: o.name})
	k.logger.WithField("pid", p.PID).WithField("object", o.name).Debug("blocked")
	k.scheduler.yield()
	return k.cpu.running.PID, nil
}

func (k *Kernel) up(o *syncObject) (PID, error) {
	if k.cpu.isIdle() {
		return IdlePID, ErrNoRunningProcess
	}
	o.value++
	if p := o.waiters.extractMin(); p != nil {
		k.emit(Event{Type: EventWoken, PID: p.PID, Object: o.name})
		k.logger.WithField("pid", p.PID).WithField("object", o.name).Debug("woken")
		k.scheduler.unblock(p)
	}
	return k.cpu.running.PID, nil
}
