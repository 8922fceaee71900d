package simulator

import "fmt"

// Config controls the driver.
type Config struct {
	// IdleLimit is the number of consecutive microseconds the idle process may
	// hold the CPU while admitted processes remain.
	IdleLimit int `json:"idleLimit" yaml:"idleLimit"`
	// KernelLogs writes kernel decisions into the simulation log.
	KernelLogs bool `json:"kernelLogs" yaml:"kernelLogs"`
	// DefaultMemorySizeMB is used when a scenario declares no memory.
	DefaultMemorySizeMB int `json:"defaultMemorySizeMB" yaml:"defaultMemorySizeMB"`
}

// DefaultConfig returns the standard driver configuration.
func DefaultConfig() Config {
	return Config{
		IdleLimit:           1000000,
		KernelLogs:          true,
		DefaultMemorySizeMB: 1000,
	}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if c.IdleLimit <= 0 {
		return fmt.Errorf("simulator.idleLimit must be > 0")
	}
	if c.DefaultMemorySizeMB <= 0 {
		return fmt.Errorf("simulator.defaultMemorySizeMB must be > 0")
	}
	return nil
}
