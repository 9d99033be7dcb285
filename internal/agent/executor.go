package agent

import (
	"context"
	"errors"
	"fmt"

	"github.com/Rrens/finance-copilot/internal/domain"
)

// ErrTableNotAllowed is returned for tables outside the tool allow-list
var ErrTableNotAllowed = errors.New("table not allowed")

const (
	ledgerTable = "ledger"
	ledgerLimit = 5
)

// Tables the executor may read. User-scoped tables are always filtered by the caller.
var toolTables = map[string]struct{ userScoped bool }{
	"ledger":        {userScoped: true},
	"profiles":      {userScoped: true},
	"action_items":  {userScoped: true},
	"daily_reports": {userScoped: true},
	"schemes":       {userScoped: false},
	"rules":         {userScoped: false},
}

// Executor runs QUERY_DB intents against the record store
type Executor struct {
	records domain.RecordRepository
	maxRows int
}

// NewExecutor creates a new tool executor
func NewExecutor(records domain.RecordRepository, maxRows int) *Executor {
	return &Executor{records: records, maxRows: maxRows}
}

// BuildQuery translates a query intent into a bounded, user-scoped read
func BuildQuery(userID string, in domain.QueryIntent, maxRows int) (domain.TableQuery, error) {
	table, ok := toolTables[in.Table]
	if !ok {
		return domain.TableQuery{}, fmt.Errorf("%w: %q", ErrTableNotAllowed, in.Table)
	}

	q := domain.TableQuery{Table: in.Table, Limit: maxRows}
	if table.userScoped {
		q.Filters = []domain.Filter{{Column: "user_id", Value: userID}}
	}
	if in.Table == ledgerTable {
		q.OrderBy = "date"
		q.Descending = true
		q.Limit = ledgerLimit
	}
	return q, nil
}

// Execute runs the query. Failures are returned, never turned into an empty result.
func (e *Executor) Execute(ctx context.Context, userID string, in domain.QueryIntent) ([]domain.Record, error) {
	q, err := BuildQuery(userID, in, e.maxRows)
	if err != nil {
		return nil, err
	}

	records, err := e.records.Select(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", q.Table, err)
	}
	if records == nil {
		records = []domain.Record{}
	}
	return records, nil
}
