package sqlstore

import (
	"context"
	"fmt"
	"strings"

	"github.com/Rrens/finance-copilot/internal/domain"
)

// RecordRepository implements domain.RecordRepository
type RecordRepository struct {
	*DB
}

// NewRecordRepository creates a new record repository
func NewRecordRepository(db *DB) *RecordRepository {
	return &RecordRepository{DB: db}
}

// Select runs a bounded equality-filtered read and returns rows as column maps
func (r *RecordRepository) Select(ctx context.Context, q domain.TableQuery) ([]domain.Record, error) {
	query, args, err := r.buildSelect(q)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", q.Table, err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to get columns: %w", err)
	}

	records := []domain.Record{}
	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}

		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		rec := make(domain.Record, len(columns))
		for i, col := range columns {
			// Text columns come back as []byte from some drivers
			if b, ok := values[i].([]byte); ok {
				rec[col] = string(b)
			} else {
				rec[col] = values[i]
			}
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}
	return records, nil
}

func (r *RecordRepository) buildSelect(q domain.TableQuery) (string, []any, error) {
	if err := q.Validate(); err != nil {
		return "", nil, err
	}

	var sb strings.Builder
	sb.WriteString("SELECT * FROM ")
	sb.WriteString(r.quote(q.Table))

	args := make([]any, 0, len(q.Filters)+1)
	for i, f := range q.Filters {
		if i == 0 {
			sb.WriteString(" WHERE ")
		} else {
			sb.WriteString(" AND ")
		}
		sb.WriteString(r.quote(f.Column))
		sb.WriteString(" = ?")
		args = append(args, f.Value)
	}

	if q.OrderBy != "" {
		sb.WriteString(" ORDER BY ")
		sb.WriteString(r.quote(q.OrderBy))
		if q.Descending {
			sb.WriteString(" DESC")
		}
	}

	if q.Limit > 0 {
		sb.WriteString(" LIMIT ?")
		args = append(args, q.Limit)
	}

	return sb.String(), args, nil
}
