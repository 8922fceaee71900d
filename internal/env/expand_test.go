package env

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExpand(t *testing.T) {
	variables := map[string]string{"HOME": "/home/sim", "QUANTUM": "20", "EMPTY": ""}
	lookup := func(name string) (string, bool) {
		value, ok := variables[name]
		return value, ok
	}
	var testCases = []struct {
		description string
		input       string
		expect      string
	}{
		{description: "plain", input: "quantum: 40", expect: "quantum: 40"},
		{description: "single", input: "url: ${env.HOME}/reports", expect: "url: /home/sim/reports"},
		{description: "multiple", input: "${env.QUANTUM}-${env.HOME}-${env.QUANTUM}", expect: "20-/home/sim-20"},
		{description: "unset", input: "a=${env.NOTSET}.", expect: "a=."},
		{description: "fallback", input: "workers: ${env.WORKERS:-4}", expect: "workers: 4"},
		{description: "fallback ignored when set", input: "${env.EMPTY:-x}|${env.QUANTUM:-1}", expect: "|20"},
		{description: "unterminated", input: "start ${env.HOME and", expect: "start ${env.HOME and"},
		{description: "malformed then valid", input: "${env.a b ${env.QUANTUM}}", expect: "${env.a b 20}"},
		{description: "empty name", input: "x${env.}y", expect: "xy"},
	}
	for _, testCase := range testCases {
		t.Run(testCase.description, func(t *testing.T) {
			assert.Equal(t, testCase.expect, Expand(testCase.input, lookup))
		})
	}
}
