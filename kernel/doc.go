// Package kernel implements the simulated scheduler and synchronization
// primitives.
//
// A Kernel owns the running slot, the ready structures of the selected
// scheduling algorithm and the semaphore/mutex tables. Every syscall is
// synchronous and returns the pid that must occupy the CPU immediately
// afterwards:
//
//	k, _ := kernel.New(kernel.RoundRobin, kernel.WithMMU(memory))
//	pid, _ := k.Admit(1, 32, kernel.Foreground, 10<<20)
//	pid, _ = k.TimerInterrupt()
//
// The Kernel is not safe for concurrent use; a simulation driver is its only
// caller.
package kernel
