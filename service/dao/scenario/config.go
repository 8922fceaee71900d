package scenario

import "fmt"

// Config holds the values applied to keys a scenario leaves out.
type Config struct {
	DefaultPriority     int `json:"defaultPriority" yaml:"defaultPriority"`
	DefaultMemoryMB     int `json:"defaultMemoryMB" yaml:"defaultMemoryMB"`
	DefaultMemorySizeMB int `json:"defaultMemorySizeMB" yaml:"defaultMemorySizeMB"`
}

// DefaultConfig returns the standard scenario defaults.
func DefaultConfig() Config {
	return Config{
		DefaultPriority:     32,
		DefaultMemoryMB:     10,
		DefaultMemorySizeMB: 1000,
	}
}

// Validate checks the defaults are usable.
func (c Config) Validate() error {
	if c.DefaultMemoryMB < 0 {
		return fmt.Errorf("scenario.defaultMemoryMB must be >= 0")
	}
	if c.DefaultMemorySizeMB < 0 {
		return fmt.Errorf("scenario.defaultMemorySizeMB must be >= 0")
	}
	return nil
}
