package simulator

import "errors"

var (
	// ErrInvariant is returned when the kernel makes a decision the driver
	// cannot carry out.
	ErrInvariant = errors.New("simulator: invariant violation")

	// ErrIdleStarvation is returned when the idle process holds the CPU for
	// too long while admitted processes remain.
	ErrIdleStarvation = errors.New("simulator: idle process starvation")

	ErrInvalidScenario = errors.New("simulator: invalid scenario")
)
