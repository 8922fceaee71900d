// Package idgen wraps the UUID generator used for run and message ids so that
// it can be stubbed in tests. Callers treat identifiers as opaque strings.
package idgen
