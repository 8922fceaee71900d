package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testdata(t *testing.T, name string) string {
	t.Helper()
	location, err := filepath.Abs(filepath.Join("..", "..", "testdata", name))
	require.NoError(t, err)
	return location
}

func TestExecute(t *testing.T) {
	tempDir := t.TempDir()
	var testCases = []struct {
		description string
		args        []string
		expectErr   bool
		contains    []string
	}{
		{description: "no command", expectErr: true},
		{description: "unknown command", args: []string{"trace"}, expectErr: true},
		{description: "run missing log", args: []string{"run", testdata(t, "fcfs.json")}, expectErr: true},
		{
			description: "run with stats",
			args:        []string{"run", testdata(t, "fcfs.json"), filepath.Join(tempDir, "run.log"), "--no-kernel-logs", "--stats"},
			contains:    []string{"PID", "TURNAROUND", "finished"},
		},
		{
			description: "run with invalid override",
			args:        []string{"run", "--set", "kernel.quantum=0", testdata(t, "fcfs.json"), filepath.Join(tempDir, "bad.log")},
			expectErr:   true,
		},
		{
			description: "verify pass",
			args:        []string{"verify", testdata(t, "fcfs.json"), testdata(t, "fcfs.log"), "--set", "simulator.kernelLogs=false"},
			contains:    []string{"PASS"},
		},
		{
			description: "verify mismatch",
			args:        []string{"verify", "--set", "simulator.kernelLogs=false", testdata(t, "rr.json"), testdata(t, "fcfs.log")},
			expectErr:   true,
			contains:    []string{"first mismatch at line"},
		},
		{
			description: "batch",
			args:        []string{"batch", "--workers", "2", "--reports", filepath.Join(tempDir, "reports"), testdata(t, "fcfs.json"), testdata(t, "rr.json")},
			contains:    []string{"FCFS", "RR", "completed"},
		},
	}
	for _, testCase := range testCases {
		t.Run(testCase.description, func(t *testing.T) {
			logger := logrus.New()
			logger.SetOutput(io.Discard)
			var output bytes.Buffer
			err := execute(context.Background(), testCase.args, &output, logger)
			if testCase.expectErr {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
			}
			for _, fragment := range testCase.contains {
				assert.Contains(t, output.String(), fragment)
			}
		})
	}
	expected, err := os.ReadFile(testdata(t, "fcfs.log"))
	require.NoError(t, err)
	actual, err := os.ReadFile(filepath.Join(tempDir, "run.log"))
	require.NoError(t, err)
	assert.Equal(t, string(expected), string(actual))
	_, err = os.Stat(filepath.Join(tempDir, "reports", "fcfs.log"))
	assert.NoError(t, err)
}

func TestOverrides_Set(t *testing.T) {
	values := overrides{}
	require.NoError(t, values.Set("kernel.quantum=20"))
	assert.Equal(t, "20", values["kernel.quantum"])
	assert.Error(t, values.Set("kernel.quantum"))
	assert.Error(t, values.Set("=1"))
}
