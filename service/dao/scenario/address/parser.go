package address

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/viant/parsly"
)

// Parse parses a virtual address literal. Decimal, 0x hexadecimal, 0o octal
// and 0b binary forms are accepted, with optional underscores between digits
// and surrounding whitespace.
func Parse(input []byte) (int, error) {
	cursor := parsly.NewCursor("", input, 0)
	cursor.MatchOne(whitespaceToken)

	base := 10
	var digits *parsly.Token
	matched := cursor.MatchAny(hexPrefixToken, octalPrefixToken, binaryPrefixToken)
	switch matched.Code {
	case hexPrefixToken.Code:
		base, digits = 16, hexDigitsToken
	case octalPrefixToken.Code:
		base, digits = 8, octalDigitsToken
	case binaryPrefixToken.Code:
		base, digits = 2, binaryDigitsToken
	default:
		digits = decimalToken
	}

	matched = cursor.MatchOne(digits)
	if matched.Code != digits.Code {
		return 0, cursor.NewError(digits)
	}
	text := strings.ReplaceAll(matched.Text(cursor), "_", "")

	cursor.MatchOne(whitespaceToken)
	if cursor.Pos < cursor.InputSize {
		return 0, fmt.Errorf("unexpected %q at %d in address %q", input[cursor.Pos:], cursor.Pos, input)
	}
	value, err := strconv.ParseInt(text, base, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid address %q: %w", input, err)
	}
	return int(value), nil
}
