package errcode

import (
	"fmt"
	"strconv"
)

// ParseError reports input that is not a canonical status code.
type ParseError struct {
	Input string
}

func (err *ParseError) Error() string {
	return fmt.Sprintf("malformed status code: %q", err.Input)
}

// Parse is the strict inverse of String. It accepts exactly "E" followed by
// the canonical decimal digits of a u32: no sign, no spaces, no leading
// zeros except "E0" itself. Parse(c.String()) returns c for every code.
func Parse(s string) (Code, error) {
	if len(s) < 2 || s[0] != 'E' {
		return OK, &ParseError{Input: s}
	}

	digits := s[1:]
	if len(digits) > 1 && digits[0] == '0' {
		return OK, &ParseError{Input: s}
	}

	v, err := strconv.ParseUint(digits, 10, 32)
	if err != nil {
		return OK, &ParseError{Input: s}
	}
	return Code(v), nil
}
