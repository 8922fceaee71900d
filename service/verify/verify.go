// Package verify compares a simulation log against a golden copy.
package verify

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
	sgdiff "github.com/sourcegraph/go-diff/diff"
)

// contextLines is the number of unchanged lines around every hunk.
const contextLines = 3

// Hunk is one region where the logs differ. Line numbers are 1-based.
type Hunk struct {
	ExpectedStart int    `json:"expectedStart"`
	ExpectedLines int    `json:"expectedLines"`
	ActualStart   int    `json:"actualStart"`
	ActualLines   int    `json:"actualLines"`
	Body          string `json:"body"`
}

// Mismatch locates the first differing line.
type Mismatch struct {
	Line     int    `json:"line"`
	Expected string `json:"expected,omitempty"`
	Actual   string `json:"actual,omitempty"`
}

// Result describes how an actual log differs from the expected one.
type Result struct {
	Equal   bool      `json:"equal"`
	Diff    string    `json:"diff,omitempty"`
	Hunks   []*Hunk   `json:"hunks,omitempty"`
	Added   int       `json:"added"`
	Removed int       `json:"removed"`
	First   *Mismatch `json:"first,omitempty"`
}

// Compare produces a unified diff of expected against actual.
func Compare(expected, actual []byte) (*Result, error) {
	if bytes.Equal(expected, actual) {
		return &Result{Equal: true}, nil
	}
	ud := difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(expected)),
		B:        difflib.SplitLines(string(actual)),
		FromFile: "expected",
		ToFile:   "actual",
		Context:  contextLines,
	}
	text, err := difflib.GetUnifiedDiffString(ud)
	if err != nil {
		return nil, fmt.Errorf("failed to diff logs: %w", err)
	}
	ret := &Result{Diff: text}
	if text == "" {
		// only the trailing newline differs
		ret.First = &Mismatch{Line: len(ud.A)}
		return ret, nil
	}
	fileDiff, err := sgdiff.ParseFileDiff([]byte(text))
	if err != nil {
		return nil, fmt.Errorf("failed to parse diff: %w", err)
	}
	for _, h := range fileDiff.Hunks {
		ret.Hunks = append(ret.Hunks, &Hunk{
			ExpectedStart: int(h.OrigStartLine),
			ExpectedLines: int(h.OrigLines),
			ActualStart:   int(h.NewStartLine),
			ActualLines:   int(h.NewLines),
			Body:          string(h.Body),
		})
		ret.inspect(h)
	}
	return ret, nil
}

// inspect counts changed lines and records the first mismatch. An addition
// directly following the first removal is reported as its replacement.
func (r *Result) inspect(h *sgdiff.Hunk) {
	line := int(h.OrigStartLine)
	pairing := false
	for _, bodyLine := range strings.SplitAfter(string(h.Body), "\n") {
		if bodyLine == "" {
			continue
		}
		text := strings.TrimSuffix(bodyLine[1:], "\n")
		switch bodyLine[0] {
		case ' ':
			line++
			pairing = false
		case '-':
			r.Removed++
			if r.First == nil {
				r.First = &Mismatch{Line: line, Expected: text}
				pairing = true
			}
			line++
		case '+':
			r.Added++
			switch {
			case r.First == nil:
				r.First = &Mismatch{Line: line, Actual: text}
			case pairing:
				r.First.Actual = text
				pairing = false
			}
		}
	}
}
