package core

// SentinelAll is the criteria value meaning "no constraint on this field".
const SentinelAll = "all"

// Criteria narrows a record list. The zero value imposes no constraint.
type Criteria struct {
	SearchTerm string
	Category   string
	Status     string
}

// AllCriteria returns criteria that match every record.
func AllCriteria() Criteria {
	return Criteria{Category: SentinelAll, Status: SentinelAll}
}

// Normalize maps absent category and status values to SentinelAll.
// The search term is kept verbatim.
func (c Criteria) Normalize() Criteria {
	if c.Category == "" {
		c.Category = SentinelAll
	}
	if c.Status == "" {
		c.Status = SentinelAll
	}
	return c
}

// IsZero reports whether c matches every record.
func (c Criteria) IsZero() bool {
	n := c.Normalize()
	return n.SearchTerm == "" && n.Category == SentinelAll && n.Status == SentinelAll
}
