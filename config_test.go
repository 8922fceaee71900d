package kernelsim

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Setenv("KERNELSIM_LEVEL_QUANTUM", "")
	os.Unsetenv("KERNELSIM_LEVEL_QUANTUM")
	location, err := filepath.Abs(filepath.Join("testdata", "config.yaml"))
	require.NoError(t, err)
	config, err := LoadConfig(context.Background(), location)
	require.NoError(t, err)
	assert.Equal(t, 20, config.Kernel.Quantum)
	assert.Equal(t, 300, config.Kernel.LevelQuantum)
	assert.False(t, config.Simulator.KernelLogs)
	assert.Equal(t, 1000000, config.Simulator.IdleLimit)
	assert.Equal(t, 2, config.Runner.WorkerCount)
	assert.Equal(t, 32, config.Scenario.DefaultPriority)
}

func TestConfig_ApplyOverrides(t *testing.T) {
	var testCases = []struct {
		description string
		overrides   map[string]string
		expectErr   bool
		expect      func(t *testing.T, config *Config)
	}{
		{
			description: "nested values",
			overrides: map[string]string{
				"kernel.quantum":       "50",
				"simulator.kernelLogs": "false",
				"report.url":           "/tmp/reports",
			},
			expect: func(t *testing.T, config *Config) {
				assert.Equal(t, 50, config.Kernel.Quantum)
				assert.Equal(t, 10, config.Kernel.TickInterval)
				assert.False(t, config.Simulator.KernelLogs)
				assert.Equal(t, "/tmp/reports", config.Report.URL)
				assert.Equal(t, 4, config.Runner.WorkerCount)
			},
		},
		{description: "unknown key", overrides: map[string]string{"kernel.slice": "1"}, expectErr: true},
		{description: "section", overrides: map[string]string{"kernel": "1"}, expectErr: true},
		{description: "invalid value", overrides: map[string]string{"runner.workers": "0"}, expectErr: true},
	}
	for _, testCase := range testCases {
		t.Run(testCase.description, func(t *testing.T) {
			config := DefaultConfig()
			err := config.ApplyOverrides(testCase.overrides)
			if testCase.expectErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			testCase.expect(t, config)
		})
	}
}
