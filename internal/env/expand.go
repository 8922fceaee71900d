// Package env expands ${env.NAME} references in configuration documents.
package env

import (
	"strings"
	"unicode"
)

const prefix = "${env."

// Lookup resolves a variable, os.LookupEnv compatible.
type Lookup func(name string) (string, bool)

// Expand replaces ${env.NAME} and ${env.NAME:-fallback} references. Unset
// variables without a fallback expand to "". Unterminated or malformed
// references are copied verbatim.
func Expand(text string, lookup Lookup) string {
	if !strings.Contains(text, prefix) {
		return text
	}
	var b strings.Builder
	for {
		start := strings.Index(text, prefix)
		if start < 0 {
			b.WriteString(text)
			return b.String()
		}
		b.WriteString(text[:start])
		rest := text[start+len(prefix):]
		end := strings.IndexByte(rest, '}')
		if end < 0 {
			b.WriteString(text[start:])
			return b.String()
		}
		name, fallback, hasFallback := strings.Cut(rest[:end], ":-")
		if !isName(name) {
			b.WriteString(prefix)
			text = rest
			continue
		}
		value, ok := lookup(name)
		if !ok && hasFallback {
			value = fallback
		}
		b.WriteString(value)
		text = rest[end+1:]
	}
}

func isName(name string) bool {
	for _, r := range name {
		if !(unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_') {
			return false
		}
	}
	return true
}
