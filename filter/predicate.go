package filter

import (
	"fmt"
	"strings"
)

// Predicate decides which lines match, and how many lines around each
// match are shown. It is a plain value; copy it freely.
type Predicate struct {
	// Query must be contained in a line for it to match
	Query string
	// Context is the number of lines shown before and after each match
	Context int
}

// NewPredicate creates a Predicate. An empty query means "no filter",
// in which case nil is returned.
func NewPredicate(query string, context int) *Predicate {
	return Normalize(&Predicate{Query: query, Context: context})
}

// Normalize returns a copy of p that is safe to classify with, or nil if
// p does not describe a filter at all.
func Normalize(p *Predicate) *Predicate {
	if p == nil || p.Query == "" {
		return nil
	}

	c := *p
	if c.Context < 0 {
		c.Context = 0
	}
	return &c
}

// Clone returns a copy of the predicate
func (p *Predicate) Clone() *Predicate {
	if p == nil {
		return nil
	}
	c := *p
	return &c
}

// Matches returns true if s contains the query
func (p *Predicate) Matches(s string) bool {
	return strings.Contains(s, p.Query)
}

// Indices returns the [start, end) byte offsets of every non-overlapping
// occurrence of the query in s.
func (p *Predicate) Indices(s string) [][]int {
	if p == nil || p.Query == "" {
		return nil
	}

	var indices [][]int
	offset := 0
	for {
		i := strings.Index(s[offset:], p.Query)
		if i < 0 {
			return indices
		}
		start := offset + i
		end := start + len(p.Query)
		indices = append(indices, []int{start, end})
		offset = end
	}
}

func (p *Predicate) String() string {
	if p == nil {
		return "<none>"
	}
	return fmt.Sprintf("%q (context %d)", p.Query, p.Context)
}
