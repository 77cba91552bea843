// Package core provides value parsing for record magnitudes.
//
// Record values are whole yen. Users type them with grouping separators
// and an optional currency sign, so parsing strips those before converting.
package core

import (
	"strconv"
	"strings"
	"unicode"
)

// ParseValue converts a user supplied amount into whole yen.
//
// It accepts an optional leading "¥" or "￥", comma or underscore grouping
// and surrounding whitespace. Negative values, fractions and empty input are
// rejected with ErrInvalidValue. Zero is allowed.
//
// Examples:
//
//	ParseValue("125000")   -> 125000, nil
//	ParseValue("¥125,000") -> 125000, nil
//	ParseValue("12.5")     -> 0, ErrInvalidValue
func ParseValue(s string) (int64, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "¥")
	s = strings.TrimPrefix(s, "￥")
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidValue
	}
	s = strings.NewReplacer(",", "", "_", "").Replace(s)
	for _, r := range s {
		if !unicode.IsDigit(r) || r > unicode.MaxASCII {
			return 0, ErrInvalidValue
		}
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, ErrInvalidValue
	}
	return v, nil
}
