package clock

import "time"

// NowFunc returns current wall time. Override in tests for determinism.
var NowFunc = time.Now

// Now is a thin wrapper around NowFunc.
func Now() time.Time { return NowFunc() }

// Virtual is the simulated clock. It advances in whole microseconds and never
// consults wall time.
type Virtual struct {
	now int
}

// Now returns the elapsed virtual time in microseconds.
func (v *Virtual) Now() int {
	return v.now
}

// Advance moves the clock forward by one microsecond.
func (v *Virtual) Advance() {
	v.now++
}

// Millis returns the elapsed virtual time in milliseconds.
func (v *Virtual) Millis() float64 {
	return float64(v.now) / 1000
}

// Due reports whether a periodic event with the given interval fires now.
// Time zero never fires.
func (v *Virtual) Due(interval int) bool {
	return v.now != 0 && interval > 0 && v.now%interval == 0
}
