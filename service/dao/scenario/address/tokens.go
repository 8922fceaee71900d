package address

import (
	"github.com/viant/parsly"
	"github.com/viant/parsly/matcher"
)

// Token codes
const (
	whitespaceCode = iota
	hexPrefixCode
	octalPrefixCode
	binaryPrefixCode
	hexDigitsCode
	octalDigitsCode
	binaryDigitsCode
	decimalCode
)

// Token definitions
var (
	whitespaceToken   = parsly.NewToken(whitespaceCode, "Whitespace", matcher.NewWhiteSpace())
	hexPrefixToken    = parsly.NewToken(hexPrefixCode, "0x", newPrefixMatcher('x'))
	octalPrefixToken  = parsly.NewToken(octalPrefixCode, "0o", newPrefixMatcher('o'))
	binaryPrefixToken = parsly.NewToken(binaryPrefixCode, "0b", newPrefixMatcher('b'))
	hexDigitsToken    = parsly.NewToken(hexDigitsCode, "HexDigits", newDigitsMatcher(16))
	octalDigitsToken  = parsly.NewToken(octalDigitsCode, "OctalDigits", newDigitsMatcher(8))
	binaryDigitsToken = parsly.NewToken(binaryDigitsCode, "BinaryDigits", newDigitsMatcher(2))
	decimalToken      = parsly.NewToken(decimalCode, "Decimal", &decimalMatcher{})
)

func newPrefixMatcher(letter byte) parsly.Matcher {
	return &prefixMatcher{letter: letter}
}

func newDigitsMatcher(base int) parsly.Matcher {
	return &digitsMatcher{base: base}
}

// prefixMatcher matches a radix prefix such as 0x, case-insensitively
type prefixMatcher struct {
	letter byte
}

func (m *prefixMatcher) Match(cursor *parsly.Cursor) int {
	input := cursor.Input
	pos := cursor.Pos
	if pos+1 >= cursor.InputSize {
		return 0
	}
	if input[pos] != '0' || lower(input[pos+1]) != m.letter {
		return 0
	}
	return 2
}

// digitsMatcher matches digits of a base, allowing single underscores between
// digits
type digitsMatcher struct {
	base int
}

func (m *digitsMatcher) Match(cursor *parsly.Cursor) int {
	input := cursor.Input
	pos := cursor.Pos
	size := cursor.InputSize

	matched := 0
	for i := pos; i < size; i++ {
		if input[i] == '_' && matched > 0 && i+1 < size && digitValue(input[i+1]) < m.base {
			matched++
			continue
		}
		if digitValue(input[i]) >= m.base {
			break
		}
		matched++
	}
	return matched
}

// decimalMatcher matches a decimal literal without leading zeros
type decimalMatcher struct{}

func (m *decimalMatcher) Match(cursor *parsly.Cursor) int {
	matched := (&digitsMatcher{base: 10}).Match(cursor)
	if matched > 1 && cursor.Input[cursor.Pos] == '0' {
		for _, c := range cursor.Input[cursor.Pos : cursor.Pos+matched] {
			if c != '0' && c != '_' {
				return 0
			}
		}
	}
	return matched
}

// Helper functions
func lower(c byte) byte {
	if c >= 'A' && c <= 'Z' {
		return c + 'a' - 'A'
	}
	return c
}

func digitValue(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10
	case c >= 'A' && c <= 'F':
		return int(c-'A') + 10
	}
	return 99
}
