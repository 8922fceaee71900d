// Package tracing wraps OpenTelemetry so that simulation runs and batch jobs
// can be traced without the rest of the code base importing the upstream
// packages directly. Until Init is called spans are no-ops.
package tracing
