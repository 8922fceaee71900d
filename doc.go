// Package kernelsim provides a deterministic simulator of an operating system
// process scheduler.
//
// A scenario declares process arrivals together with the priority changes,
// semaphore and mutex calls and memory accesses each process performs. The
// simulator replays it on a virtual clock against one of four scheduling
// algorithms (FCFS, Priority, RR, Multilevel) and produces a simulation log
// and a run report:
//
//	srv, _ := kernelsim.New()
//	rt := srv.Runtime()
//	report, _ := rt.Run(ctx, "scenario.json", "simulation.log")
//	result, _, _ := rt.Verify(ctx, "scenario.json", "expected.log")
//
// Independent scenarios can be simulated concurrently with Runtime.Batch.
package kernelsim
