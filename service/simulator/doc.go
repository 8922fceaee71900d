// Package simulator drives a kernel through a scenario on a virtual clock.
//
// Every microsecond the driver credits CPU time to the running process,
// delivers the events it has reached, admits arrivals and raises the timer
// interrupt, writing a simulation log that can be diffed against a golden
// copy.
package simulator
