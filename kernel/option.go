package kernel

import "github.com/sirupsen/logrus"

// Option configures a Kernel
type Option func(k *Kernel)

// WithMMU sets the memory collaborator consulted on admission. Without one
// every admission succeeds.
func WithMMU(mmu MMU) Option {
	return func(k *Kernel) {
		k.mmu = mmu
	}
}

// WithQuantum sets the round-robin quantum in virtual time units.
func WithQuantum(quantum int) Option {
	return func(k *Kernel) {
		k.config.Quantum = quantum
	}
}

// WithLevelQuantum sets the multilevel level-quantum in virtual time units.
func WithLevelQuantum(quantum int) Option {
	return func(k *Kernel) {
		k.config.LevelQuantum = quantum
	}
}

// WithTickInterval sets the runtime attributed to every timer interrupt.
func WithTickInterval(interval int) Option {
	return func(k *Kernel) {
		k.config.TickInterval = interval
	}
}

// WithConfig replaces the whole timing configuration.
func WithConfig(config Config) Option {
	return func(k *Kernel) {
		k.config = config
	}
}

// WithListener registers event listeners.
func WithListener(listeners ...Listener) Option {
	return func(k *Kernel) {
		k.listeners = append(k.listeners, listeners...)
	}
}

// WithLogger sets the logger used for debug tracing of decisions.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(k *Kernel) {
		k.logger = logger
	}
}
