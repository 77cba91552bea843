package core

import (
	"errors"
	"fmt"
	"sort"
)

var (
	// ErrInvalidArgument marks malformed engine input, as opposed to a
	// legitimate empty result.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNilRecords is returned when no record list was supplied at all.
	ErrNilRecords = fmt.Errorf("%w: records not loaded", ErrInvalidArgument)
)

// Stats summarises a filtered record list.
type Stats struct {
	TotalCount  int
	TotalValue  int64
	ActiveCount int
}

// Filter returns the records matching every constraint in c, in input order.
//
// A record matches when its name contains c.SearchTerm under case folding,
// its category equals c.Category and its status equals c.Status. Empty
// category and status values behave like SentinelAll. Values that do not
// occur in the data simply match nothing. The input slice is never modified;
// the result is a fresh slice that is empty, not nil, when nothing matches.
func Filter(records []Record, c Criteria) ([]Record, error) {
	if records == nil {
		return nil, ErrNilRecords
	}
	c = c.Normalize()
	match := newMatcher(c.SearchTerm)

	out := make([]Record, 0, len(records))
	for _, r := range records {
		if c.Category != SentinelAll && r.Category != c.Category {
			continue
		}
		if c.Status != SentinelAll && string(r.Status) != c.Status {
			continue
		}
		if !match(r.Name) {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

// DistinctCategories returns the set of categories present in records.
// The set is recomputed on every call; use SortedCategories for display order.
func DistinctCategories(records []Record) (map[string]struct{}, error) {
	if records == nil {
		return nil, ErrNilRecords
	}
	set := make(map[string]struct{}, len(records))
	for _, r := range records {
		set[r.Category] = struct{}{}
	}
	return set, nil
}

// SortedCategories orders a category set for display.
func SortedCategories(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for c := range set {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// Aggregate computes summary statistics over an already filtered list.
func Aggregate(matching []Record) Stats {
	var s Stats
	for _, r := range matching {
		s.TotalCount++
		s.TotalValue += r.Value
		if r.Status == StatusActive {
			s.ActiveCount++
		}
	}
	return s
}
