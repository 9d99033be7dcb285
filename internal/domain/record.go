package domain

import (
	"context"
	"fmt"
	"regexp"
)

var identifierPattern = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// Record is a single row returned by a tool query
type Record map[string]any

// Filter is an equality predicate
type Filter struct {
	Column string
	Value  any
}

// TableQuery is a bounded read against one table. It only supports
// equality filters, a single sort column and a row limit.
type TableQuery struct {
	Table      string
	Filters    []Filter
	OrderBy    string
	Descending bool
	Limit      int
}

// Validate checks that every identifier is a plain lower-case name so
// backends can safely interpolate them
func (q TableQuery) Validate() error {
	if !identifierPattern.MatchString(q.Table) {
		return fmt.Errorf("invalid table name %q", q.Table)
	}
	for _, f := range q.Filters {
		if !identifierPattern.MatchString(f.Column) {
			return fmt.Errorf("invalid filter column %q", f.Column)
		}
	}
	if q.OrderBy != "" && !identifierPattern.MatchString(q.OrderBy) {
		return fmt.Errorf("invalid order column %q", q.OrderBy)
	}
	if q.Limit < 0 {
		return fmt.Errorf("invalid limit %d", q.Limit)
	}
	return nil
}

// RecordRepository reads rows from the tool tables
type RecordRepository interface {
	Select(ctx context.Context, q TableQuery) ([]Record, error)
}
