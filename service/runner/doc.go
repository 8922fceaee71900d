// Package runner hosts the batch workers. Every worker consumes simulation
// jobs from a message queue, runs them on its own kernel and stores the run
// report, so independent scenarios can be simulated concurrently.
package runner
