package core

import (
	"strings"

	"golang.org/x/text/cases"
)

// newMatcher returns a case-insensitive substring predicate for term.
// A cases.Caser is stateful, so each call builds its own.
func newMatcher(term string) func(string) bool {
	if term == "" {
		return func(string) bool { return true }
	}
	fold := cases.Fold()
	needle := fold.String(term)
	return func(s string) bool {
		return strings.Contains(fold.String(s), needle)
	}
}

// newAnyMatcher is like newMatcher but succeeds when any of the fields match.
func newAnyMatcher(term string) func(...string) bool {
	match := newMatcher(term)
	return func(fields ...string) bool {
		for _, f := range fields {
			if match(f) {
				return true
			}
		}
		return false
	}
}
