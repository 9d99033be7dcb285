package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/Rrens/finance-copilot/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RecordRepository implements domain.RecordRepository over the tool tables
type RecordRepository struct {
	pool *pgxpool.Pool
}

// NewRecordRepository creates a new record repository
func NewRecordRepository(pool *pgxpool.Pool) *RecordRepository {
	return &RecordRepository{pool: pool}
}

// Select runs a bounded equality-filtered read
func (r *RecordRepository) Select(ctx context.Context, q domain.TableQuery) ([]domain.Record, error) {
	query, args, err := buildSelect(q)
	if err != nil {
		return nil, err
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", q.Table, err)
	}

	maps, err := pgx.CollectRows(rows, pgx.RowToMap)
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", q.Table, err)
	}

	records := make([]domain.Record, 0, len(maps))
	for _, m := range maps {
		for k, v := range m {
			m[k] = normalizeValue(v)
		}
		records = append(records, domain.Record(m))
	}
	return records, nil
}

func buildSelect(q domain.TableQuery) (string, []any, error) {
	if err := q.Validate(); err != nil {
		return "", nil, err
	}

	var sb strings.Builder
	sb.WriteString("SELECT * FROM ")
	sb.WriteString(pgx.Identifier{q.Table}.Sanitize())

	args := make([]any, 0, len(q.Filters)+1)
	for i, f := range q.Filters {
		if i == 0 {
			sb.WriteString(" WHERE ")
		} else {
			sb.WriteString(" AND ")
		}
		args = append(args, f.Value)
		fmt.Fprintf(&sb, "%s = $%d", pgx.Identifier{f.Column}.Sanitize(), len(args))
	}

	if q.OrderBy != "" {
		sb.WriteString(" ORDER BY ")
		sb.WriteString(pgx.Identifier{q.OrderBy}.Sanitize())
		if q.Descending {
			sb.WriteString(" DESC")
		}
	}

	if q.Limit > 0 {
		args = append(args, q.Limit)
		fmt.Fprintf(&sb, " LIMIT $%d", len(args))
	}

	return sb.String(), args, nil
}

// normalizeValue turns driver types that do not encode well as JSON into plain values
func normalizeValue(v any) any {
	switch val := v.(type) {
	case [16]byte:
		return uuid.UUID(val).String()
	case pgtype.Numeric:
		f, err := val.Float64Value()
		if err != nil || !f.Valid {
			return nil
		}
		return f.Float64
	default:
		return v
	}
}
