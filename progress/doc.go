// Package progress provides a tracker that keeps aggregated process counters
// (arrived, exited, dropped, trapped) for a simulation run. The tracker lives
// in the run context so the driver and any observer share it without a global
// registry.
package progress
