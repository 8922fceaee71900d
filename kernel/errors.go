package kernel

import "errors"

// Sentinel errors returned by the kernel. Callers detect them with errors.Is;
// every one of them is fatal to a simulation.
var (
	// ErrUnknownAlgorithm is returned when constructing a kernel for an
	// unsupported scheduling algorithm.
	ErrUnknownAlgorithm = errors.New("kernel: unknown scheduling algorithm")

	// ErrNoRunningProcess indicates a syscall issued while the idle process
	// holds the CPU.
	ErrNoRunningProcess = errors.New("kernel: no running process")

	ErrInvalidPID         = errors.New("kernel: invalid pid")
	ErrDuplicatePID       = errors.New("kernel: duplicate pid")
	ErrInvalidProcessType = errors.New("kernel: invalid process type")

	// ErrSemaphoreNotFound and ErrMutexNotFound report a lookup of an id that
	// was never initialised.
	ErrSemaphoreNotFound = errors.New("kernel: semaphore not found")
	ErrMutexNotFound     = errors.New("kernel: mutex not found")

	ErrAlreadyInitialized = errors.New("kernel: already initialized")

	// ErrMutexNotLocked is returned when unlocking a mutex that is already
	// unlocked and has no waiters.
	ErrMutexNotLocked = errors.New("kernel: mutex not locked")
)
